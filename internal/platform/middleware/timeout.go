package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestTimeout puts a deadline on each request context and runs the
// handler on the request goroutine. Store and gateway calls observe the
// deadline and abort; if the handler then returns without writing a
// response, a 504 envelope is written instead.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if timeout <= 0 {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Response().Committed {
				return gatewayTimeoutError(c)
			}
			return err
		}
	}
}

func gatewayTimeoutError(c echo.Context) error {
	return c.JSON(http.StatusGatewayTimeout, Envelope{
		Acknowledged: false,
		Outcome:      OutcomeTimeout,
		Message:      "request processing exceeded the allowed time limit",
	})
}
