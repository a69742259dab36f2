package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sqli-workshop/connaissance-client/pkg/logger"
)

// HeaderCorrelationID carries the id that ties a request to its logs and events.
const HeaderCorrelationID = "X-Correlation-ID"

// CorrelationID reuses the incoming X-Correlation-ID or generates one, echoes
// it in the response, and attaches a request-scoped logger carrying it.
func CorrelationID(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(HeaderCorrelationID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(HeaderCorrelationID, id)
			c.Set("correlation_id", id)

			l := base.With().Str("correlation_id", id).Logger()
			ctx := logger.WithCorrelationID(req.Context(), id)
			c.SetRequest(req.WithContext(l.WithContext(ctx)))

			return next(c)
		}
	}
}
