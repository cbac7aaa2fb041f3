package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/farmcentral/farm_supply/internal/apperrors"
	"github.com/farmcentral/farm_supply/internal/logging"
)

// ErrorBody is the uniform error payload. Field is set for validation errors
// so forms can place the message inline.
type ErrorBody struct {
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// errorResponse maps the error taxonomy to responses. Upstream failures are
// logged and degraded to a generic retry-later message; internals never
// reach the caller.
func errorResponse(c echo.Context, err error) error {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		logging.FromContext(c.Request().Context()).Error("unhandled error", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorBody{
			Status:  "error",
			Message: "An unexpected error occurred. Please try again later.",
		})
	}

	switch appErr.Kind {
	case apperrors.KindValidation:
		return c.JSON(http.StatusBadRequest, ErrorBody{
			Status:  "error",
			Field:   appErr.Field,
			Message: appErr.Message,
		})
	case apperrors.KindNotFound:
		return c.JSON(http.StatusNotFound, ErrorBody{
			Status:  "error",
			Message: appErr.Message,
		})
	case apperrors.KindAuth:
		return c.JSON(http.StatusUnauthorized, ErrorBody{
			Status:  "error",
			Message: appErr.Message,
		})
	default:
		logging.FromContext(c.Request().Context()).Error("upstream failure", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorBody{
			Status:  "error",
			Message: "A server error occurred. Please try again later.",
		})
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
