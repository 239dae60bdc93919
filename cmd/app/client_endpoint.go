package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/barak7821/CRM-Dashboard/internal/middleware"
	"github.com/barak7821/CRM-Dashboard/internal/model"
	"github.com/barak7821/CRM-Dashboard/internal/services"
)

type createClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Type  string `json:"type"`
	Note  string `json:"note"`
}

type updateClientRequest struct {
	Name      *string  `json:"name,omitempty"`
	Email     *string  `json:"email,omitempty"`
	Phone     *string  `json:"phone,omitempty"`
	Type      *string  `json:"type,omitempty"`
	Note      *string  `json:"note,omitempty"`
	Status    *string  `json:"status,omitempty"`
	DealValue *float64 `json:"dealValue,omitempty"`
}

func registerClientRoutes(api *echo.Group, cs *services.ClientService, auth *middleware.Auth, log *zap.Logger) {
	clientGrp := api.Group("/client")
	clientGrp.Use(auth.Authenticate)

	// GET /api/client lists the caller's own clients
	clientGrp.GET("", func(c echo.Context) error {
		id := middleware.GetIdentity(c)
		clients, err := cs.ListForUser(c.Request().Context(), id.UserID)
		if err != nil {
			return serviceError(c, log, err)
		}
		return c.JSON(http.StatusOK, clients)
	})

	// POST /api/client creates a client assigned to the caller
	clientGrp.POST("", func(c echo.Context) error {
		id := middleware.GetIdentity(c)
		req := new(createClientRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		client, err := cs.Create(c.Request().Context(), services.CreateClientInput{
			AssignedTo: id.UserID,
			Name:       req.Name,
			Email:      req.Email,
			Phone:      req.Phone,
			Type:       req.Type,
			Note:       req.Note,
		})
		if err != nil {
			return serviceError(c, log, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"message": client.Name + " added successfully"})
	})

	// DELETE /api/client
	clientGrp.DELETE("", func(c echo.Context) error {
		var req struct {
			ID string `json:"id"`
		}
		if err := c.Bind(&req); err != nil || req.ID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "client ID is required"})
		}
		if err := cs.Delete(c.Request().Context(), req.ID); err != nil {
			return serviceError(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Client deleted successfully"})
	})

	// GET /api/client/:clientId
	clientGrp.GET("/:clientId", func(c echo.Context) error {
		client, err := cs.Get(c.Request().Context(), c.Param("clientId"))
		if err != nil {
			return serviceError(c, log, err)
		}
		return c.JSON(http.StatusOK, client)
	})

	// PATCH /api/client/:clientId
	clientGrp.PATCH("/:clientId", func(c echo.Context) error {
		req := new(updateClientRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		client, err := cs.Update(c.Request().Context(), c.Param("clientId"), &model.ClientUpdate{
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			Type:      req.Type,
			Note:      req.Note,
			Status:    req.Status,
			DealValue: req.DealValue,
		})
		if err != nil {
			return serviceError(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": client.Name + " updated successfully"})
	})
}
