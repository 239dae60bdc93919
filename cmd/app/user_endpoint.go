package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/barak7821/CRM-Dashboard/internal/middleware"
	"github.com/barak7821/CRM-Dashboard/internal/services"
)

// user self-service update payload
type updateUserRequest struct {
	UserName *string `json:"userName,omitempty"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

func registerUserRoutes(api *echo.Group, us *services.UserService, auth *middleware.Auth, log *zap.Logger) {
	userGrp := api.Group("/user")
	userGrp.Use(auth.Authenticate)

	// GET /api/user
	userGrp.GET("", func(c echo.Context) error {
		id := middleware.GetIdentity(c)
		user, err := us.Get(c.Request().Context(), id.UserID)
		if err != nil {
			return serviceError(c, log, err)
		}
		return c.JSON(http.StatusOK, user)
	})

	// PATCH /api/user
	// Role is deliberately not accepted here; only the admin endpoint may
	// change roles.
	userGrp.PATCH("", func(c echo.Context) error {
		id := middleware.GetIdentity(c)
		req := new(updateUserRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		user, err := us.Update(c.Request().Context(), id.UserID, services.UpdateProfileInput{
			UserName: req.UserName,
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			return serviceError(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": user.UserName + " updated successfully"})
	})

	// DELETE /api/user
	userGrp.DELETE("", func(c echo.Context) error {
		id := middleware.GetIdentity(c)
		if err := us.Delete(c.Request().Context(), id.UserID); err != nil {
			return serviceError(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
	})
}
