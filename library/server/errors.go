package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

const (
	messageInternalError = "internal error"

	logMsgRequestFailed = "request failed"
)

type errorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// StatusFor maps the error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, core.ErrNetworkFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := StatusFor(err)
	body := errorResponse{Message: err.Error()}

	var httpErr *echo.HTTPError
	if status == http.StatusInternalServerError && errors.As(err, &httpErr) {
		status = httpErr.Code
		body.Message = fmt.Sprint(httpErr.Message)
	}

	var validationErr core.ValidationError
	if errors.As(err, &validationErr) {
		body.Message = core.ErrValidation.Error()
		body.Fields = validationErr.Fields
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(logMsgRequestFailed,
			"path", c.Path(),
			"status", status,
			"error", err,
			"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
	}

	if status == http.StatusInternalServerError {
		body.Message = messageInternalError
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}

	_ = c.JSON(status, body)
}
