package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Outcome labels carried in every error body.
const (
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeForbidden       = "forbidden"
	OutcomeConflict        = "conflict"
	OutcomeUpstreamFailure = "upstream_failure"
	OutcomeNotFound        = "not_found"
	OutcomeInvalid         = "invalid"
	OutcomeTimeout         = "timeout"
	OutcomeUnavailable     = "unavailable"
	OutcomeInternal        = "internal"
)

var outcomes = map[int]string{
	http.StatusUnauthorized:          OutcomeUnauthenticated,
	http.StatusForbidden:             OutcomeForbidden,
	http.StatusConflict:              OutcomeConflict,
	http.StatusBadGateway:            OutcomeUpstreamFailure,
	http.StatusNotFound:              OutcomeNotFound,
	http.StatusBadRequest:            OutcomeInvalid,
	http.StatusMethodNotAllowed:      OutcomeInvalid,
	http.StatusUnsupportedMediaType:  OutcomeInvalid,
	http.StatusRequestEntityTooLarge: OutcomeInvalid,
	http.StatusGatewayTimeout:        OutcomeTimeout,
	http.StatusServiceUnavailable:    OutcomeUnavailable,
}

// Envelope is the JSON body of every failed request.
type Envelope struct {
	Acknowledged bool   `json:"acknowledged"`
	Outcome      string `json:"outcome"`
	Message      string `json:"message"`
}

// OutcomeFor maps an HTTP status to its outcome label.
func OutcomeFor(status int) string {
	if o, ok := outcomes[status]; ok {
		return o
	}
	return OutcomeInternal
}

// StatusOf returns the status an error will be rendered with.
func StatusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// ErrorHandler renders errors as an Envelope. Errors that are not
// echo.HTTPError become 500 with a generic message; the cause is logged only.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if status < http.StatusInternalServerError || status == http.StatusBadGateway ||
				status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout {
				message = messageOf(he)
			}
		}

		if status >= http.StatusInternalServerError {
			rid, _ := c.Get(RequestIDKey).(string)
			logger.Error().Err(err).Str("request_id", rid).Int("status", status).Msg("request failed")
		}

		body := Envelope{Acknowledged: false, Outcome: OutcomeFor(status), Message: message}
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("writing error response")
		}
	}
}

func messageOf(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	case nil:
		return http.StatusText(he.Code)
	default:
		return fmt.Sprintf("%v", m)
	}
}
