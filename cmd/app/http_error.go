package main

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/barak7821/CRM-Dashboard/internal/services"
)

// serviceError maps service-layer sentinel errors to HTTP responses.
// Anything unrecognized is logged and reported as a generic 500 so
// internals never leak to the client.
func serviceError(c echo.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	case errors.Is(err, services.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
	case errors.Is(err, services.ErrInvalidOrExpiredCode):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired code"})
	case errors.Is(err, services.ErrSamePassword):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	default:
		log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
