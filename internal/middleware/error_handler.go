package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"mutualaid_app/internal/services"
)

// CustomErrorHandler maps domain errors and echo HTTP errors to JSON
// responses. Unrecognized errors become a generic 500 so persistence
// details never leak to clients.
func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	var he *echo.HTTPError
	var ineligible *services.IneligibleError

	switch {
	case errors.As(err, &he):
		code = he.Code
		if msg, ok := he.Message.(string); ok && msg != "" {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	case errors.As(err, &ineligible):
		code = http.StatusUnprocessableEntity
		_ = c.JSON(code, map[string]interface{}{
			"error":  ineligible.Message,
			"reason": ineligible.Reason,
		})
		return
	case errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrUpgradeNotFound),
		errors.Is(err, services.ErrRequestNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrInvalidUpgrade),
		errors.Is(err, services.ErrInvalidInstallments),
		errors.Is(err, services.ErrRequestNotPending):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrUpgradeConflict):
		code = http.StatusConflict
		message = err.Error()
	}

	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	_ = c.JSON(code, map[string]interface{}{"error": message})
}
