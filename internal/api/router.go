package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sqli-workshop/connaissance-client/internal/api/docs"
	"github.com/sqli-workshop/connaissance-client/internal/api/handler"
	"github.com/sqli-workshop/connaissance-client/internal/api/middleware"
	"github.com/sqli-workshop/connaissance-client/internal/core/ports"
)

// Deps groups everything the router needs to serve requests.
type Deps struct {
	Service   ports.ClientService
	Readiness map[string]handler.Pinger
	Breakers  map[string]handler.BreakerState
	Logger    zerolog.Logger

	// Registry receives the HTTP request metrics. Nil means the default
	// Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	promConfig := echoprometheus.MiddlewareConfig{Subsystem: "http"}
	handlerConfig := echoprometheus.HandlerConfig{}
	if deps.Registry != nil {
		promConfig.Registerer = deps.Registry
		handlerConfig.Gatherer = deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.CorrelationID(deps.Logger))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig))

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness, deps.Breakers, deps.Logger)

	e.GET("/health", healthHandler.Liveness)           // liveness
	e.GET("/health/ready", readinessHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(handlerConfig))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Client records ---
	clientHandler := handler.NewClientHandler(deps.Service)

	v1 := e.Group("/v1/connaissance-clients")
	v1.GET("", clientHandler.List)
	v1.POST("", clientHandler.Create)
	v1.GET("/:id", clientHandler.Get)
	v1.PUT("/:id", clientHandler.Update)
	v1.DELETE("/:id", clientHandler.Delete)
	v1.PUT("/:id/adresse", clientHandler.UpdateAdresse)
	v1.PUT("/:id/situation", clientHandler.UpdateSituation)

	return e
}
