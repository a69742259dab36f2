package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sqli-workshop/connaissance-client/internal/core/ports"
)

const msgDeleted = "Client supprimé avec succès"

// ClientHandler handles HTTP requests for client records.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

func badRequest(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, "Requête invalide").SetInternal(err)
}

// List godoc
// @Summary      List every client
// @Tags         connaissance-clients
// @Produce      json
// @Success      200  {array}   clientResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/connaissance-clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	clients, err := h.service.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponses(clients))
}

// Get godoc
// @Summary      Get a client by id
// @Tags         connaissance-clients
// @Produce      json
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  clientResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/connaissance-clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	client, err := h.service.GetClient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

// Create godoc
// @Summary      Create a client
// @Description  The id is generated when absent.
// @Tags         connaissance-clients
// @Accept       json
// @Produce      json
// @Param        body  body      clientRequest  true  "Client"
// @Success      201   {object}  clientResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/connaissance-clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	client, err := h.service.CreateClient(c.Request().Context(), toClientDraft(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toClientResponse(client))
}

// Update godoc
// @Summary      Replace a client
// @Description  Every field is replaced; the id in the path wins over the body.
// @Tags         connaissance-clients
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Client id"
// @Param        body  body      clientRequest  true  "Client"
// @Success      200   {object}  clientResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/connaissance-clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}

	client, err := h.service.UpdateClient(c.Request().Context(), c.Param("id"), toClientDraft(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

// Delete godoc
// @Summary      Delete a client
// @Tags         connaissance-clients
// @Produce      json
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/connaissance-clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteClient(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msgDeleted})
}

// UpdateAdresse godoc
// @Summary      Replace the address of a client
// @Tags         connaissance-clients
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Client id"
// @Param        body  body      adresseRequest  true  "Address"
// @Success      200   {object}  clientResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/connaissance-clients/{id}/adresse [put]
func (h *ClientHandler) UpdateAdresse(c echo.Context) error {
	var req adresseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}

	client, err := h.service.ChangeAdresse(c.Request().Context(), c.Param("id"), toAdresseDraft(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

// UpdateSituation godoc
// @Summary      Replace the family situation of a client
// @Tags         connaissance-clients
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Client id"
// @Param        body  body      situationRequest  true  "Family situation"
// @Success      200   {object}  clientResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/connaissance-clients/{id}/situation [put]
func (h *ClientHandler) UpdateSituation(c echo.Context) error {
	var req situationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}

	client, err := h.service.ChangeSituation(c.Request().Context(), c.Param("id"), toSituationDraft(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}
