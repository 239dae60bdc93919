// Package seed creates demo data so a fresh install is immediately
// usable: one admin, one regular user, and a few clients for that user.
// Every step is idempotent.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/barak7821/CRM-Dashboard/internal/model"
	"github.com/barak7821/CRM-Dashboard/internal/services"
)

const (
	demoAdminEmail = "admin@admin"
	demoUserEmail  = "test@test.com"
	demoPassword   = "123456789"
)

func Run(ctx context.Context, users services.UserRepository, clients services.ClientRepository, log *zap.Logger) error {
	if err := demoAccount(ctx, users, "admin", "Admin", demoAdminEmail, model.RoleAdmin); err != nil {
		return fmt.Errorf("seeding demo admin: %w", err)
	}
	if err := demoAccount(ctx, users, "testuser", "Test User", demoUserEmail, model.RoleUser); err != nil {
		return fmt.Errorf("seeding demo user: %w", err)
	}
	if err := demoClients(ctx, users, clients); err != nil {
		return fmt.Errorf("seeding demo clients: %w", err)
	}
	log.Info("demo data ready")
	return nil
}

func demoAccount(ctx context.Context, users services.UserRepository, userName, name, email, role string) error {
	exists, err := users.EmailExists(ctx, email)
	if err != nil || exists {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = users.Create(ctx, &model.User{
		UserName:     userName,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Provider:     model.ProviderLocal,
	})
	// Two instances racing on the same seed resolve via the unique index.
	if errors.Is(err, services.ErrConflict) {
		return nil
	}
	return err
}

func demoClients(ctx context.Context, users services.UserRepository, clients services.ClientRepository) error {
	owner, err := users.GetByEmail(ctx, demoUserEmail)
	if err != nil {
		return err
	}

	existing, err := clients.ListByUser(ctx, owner.ID)
	if err != nil || len(existing) > 0 {
		return err
	}

	closedDeal := 5000.0
	demo := []model.Client{
		{
			Name:      "Alice Cohen",
			Email:     "alice@demo.com",
			Phone:     "0501234567",
			Type:      model.ClientTypeClient,
			Note:      "Potential lead",
			Status:    model.ClientStatusClosed,
			DealValue: &closedDeal,
		},
		{
			Name:   "Boaz Levi",
			Email:  "boaz@demo.com",
			Phone:  "0527654321",
			Type:   model.ClientTypePotential,
			Status: model.ClientStatusPending,
		},
		{
			Name:   "Dana Mizrahi",
			Email:  "dana@demo.com",
			Phone:  "0539876543",
			Type:   model.ClientTypeSupplier,
			Note:   "Supplies office equipment",
			Status: model.ClientStatusCancelled,
		},
	}

	for i := range demo {
		demo[i].AssignedTo = owner.ID
		if _, err := clients.Create(ctx, &demo[i]); err != nil && !errors.Is(err, services.ErrConflict) {
			return err
		}
	}
	return nil
}
