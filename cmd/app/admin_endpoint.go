package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/barak7821/CRM-Dashboard/internal/middleware"
	"github.com/barak7821/CRM-Dashboard/internal/model"
	"github.com/barak7821/CRM-Dashboard/internal/services"
)

// admin update payload; password changes stay with the account owner
type adminUpdateUserRequest struct {
	UserName *string `json:"userName,omitempty"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
}

func registerAdminRoutes(api *echo.Group, us *services.UserService, cs *services.ClientService, auth *middleware.Auth, log *zap.Logger) {
	admin := api.Group("/admin")
	admin.Use(auth.Authenticate)

	// GET /api/admin/check answers for any authenticated caller; the SPA
	// uses it to decide whether to render admin navigation.
	admin.GET("/check", func(c echo.Context) error {
		id := middleware.GetIdentity(c)
		return c.JSON(http.StatusOK, echo.Map{"isAdmin": id.Role == model.RoleAdmin})
	})

	gated := admin.Group("")
	gated.Use(auth.AdminOnly)

	// GET /api/admin
	gated.GET("", func(c echo.Context) error {
		users, err := us.List(c.Request().Context())
		if err != nil {
			return serviceError(c, log, err)
		}
		return c.JSON(http.StatusOK, users)
	})

	// GET /api/admin/clients
	gated.GET("/clients", func(c echo.Context) error {
		clients, err := cs.ListAll(c.Request().Context())
		if err != nil {
			return serviceError(c, log, err)
		}
		return c.JSON(http.StatusOK, clients)
	})

	// DELETE /api/admin
	gated.DELETE("", func(c echo.Context) error {
		var req struct {
			UserID string `json:"userId"`
		}
		if err := c.Bind(&req); err != nil || req.UserID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user ID is required"})
		}
		if err := us.Delete(c.Request().Context(), req.UserID); err != nil {
			return serviceError(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
	})

	// GET /api/admin/:userId
	gated.GET("/:userId", func(c echo.Context) error {
		user, err := us.Get(c.Request().Context(), c.Param("userId"))
		if err != nil {
			return serviceError(c, log, err)
		}
		return c.JSON(http.StatusOK, user)
	})

	// PATCH /api/admin/:userId
	gated.PATCH("/:userId", func(c echo.Context) error {
		req := new(adminUpdateUserRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		user, err := us.Update(c.Request().Context(), c.Param("userId"), services.UpdateProfileInput{
			UserName: req.UserName,
			Name:     req.Name,
			Email:    req.Email,
			Role:     req.Role,
		})
		if err != nil {
			return serviceError(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": user.UserName + " updated successfully"})
	})
}
