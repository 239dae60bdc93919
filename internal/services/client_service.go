package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/barak7821/CRM-Dashboard/internal/model"
)

const (
	minClientNameLen = 2
	maxClientNameLen = 20
	maxClientNoteLen = 500
)

var phoneRegex = regexp.MustCompile(`^[0-9+\-()\s]+$`)

// ClientService manages CRM client records. Mutations only require an
// authenticated caller; ownership is fixed at creation time and not
// re-checked afterwards.
type ClientService struct {
	Clients ClientRepository
	Users   UserRepository
	log     *zap.Logger
}

func NewClientService(clients ClientRepository, users UserRepository, log *zap.Logger) *ClientService {
	return &ClientService{Clients: clients, Users: users, log: log}
}

func validateClientName(name string) error {
	if len(name) < minClientNameLen || len(name) > maxClientNameLen {
		return fmt.Errorf("%w: name should be between %d and %d characters",
			ErrValidation, minClientNameLen, maxClientNameLen)
	}
	return nil
}

func validateClientPhone(phone string) error {
	if phone != "" && !phoneRegex.MatchString(phone) {
		return fmt.Errorf("%w: invalid phone format", ErrValidation)
	}
	return nil
}

func validateClientType(t string) error {
	switch t {
	case "", model.ClientTypeClient, model.ClientTypePotential, model.ClientTypeSupplier, model.ClientTypeOther:
		return nil
	}
	return fmt.Errorf("%w: invalid client type", ErrValidation)
}

func validateClientStatus(status string) error {
	switch status {
	case model.ClientStatusPending, model.ClientStatusClosed, model.ClientStatusCancelled:
		return nil
	}
	return fmt.Errorf("%w: invalid client status", ErrValidation)
}

func validateClientNote(note string) error {
	if len(note) > maxClientNoteLen {
		return fmt.Errorf("%w: note should be at most %d characters", ErrValidation, maxClientNoteLen)
	}
	return nil
}

// CreateClientInput is the payload for creating a client; AssignedTo is the
// authenticated caller, never taken from the request body.
type CreateClientInput struct {
	AssignedTo string
	Name       string
	Email      string
	Phone      string
	Type       string
	Note       string
}

// Create adds a new client in status "pending", assigned to the caller.
func (s *ClientService) Create(ctx context.Context, in CreateClientInput) (*model.Client, error) {
	if err := validateClientName(in.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validateClientPhone(in.Phone); err != nil {
		return nil, err
	}
	if err := validateClientType(in.Type); err != nil {
		return nil, err
	}
	if err := validateClientNote(in.Note); err != nil {
		return nil, err
	}

	if _, err := s.Users.GetByID(ctx, in.AssignedTo); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: assigned user does not exist", ErrValidation)
		}
		return nil, err
	}

	c, err := s.Clients.Create(ctx, &model.Client{
		AssignedTo: in.AssignedTo,
		Name:       in.Name,
		Email:      strings.ToLower(in.Email),
		Phone:      in.Phone,
		Type:       in.Type,
		Note:       in.Note,
		Status:     model.ClientStatusPending,
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: email already exists", ErrConflict)
		}
		return nil, err
	}
	s.log.Info("client created", zap.String("client_id", c.ID), zap.String("assigned_to", c.AssignedTo))
	return c, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*model.Client, error) {
	return s.Clients.GetByID(ctx, id)
}

// ListForUser returns the clients assigned to one user.
func (s *ClientService) ListForUser(ctx context.Context, userID string) ([]model.Client, error) {
	return s.Clients.ListByUser(ctx, userID)
}

// ListAll returns every client; reserved for admin callers.
func (s *ClientService) ListAll(ctx context.Context) ([]model.Client, error) {
	return s.Clients.ListAll(ctx)
}

// Update applies a partial update. Closing a client requires a deal value,
// either in the same request or already on the record.
func (s *ClientService) Update(ctx context.Context, id string, upd *model.ClientUpdate) (*model.Client, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	existing, err := s.Clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if err := validateClientName(*upd.Name); err != nil {
			return nil, err
		}
	}
	if upd.Email != nil {
		if err := validateEmail(*upd.Email); err != nil {
			return nil, err
		}
		email := strings.ToLower(*upd.Email)
		upd.Email = &email
	}
	if upd.Phone != nil {
		if err := validateClientPhone(*upd.Phone); err != nil {
			return nil, err
		}
	}
	if upd.Type != nil {
		if err := validateClientType(*upd.Type); err != nil {
			return nil, err
		}
	}
	if upd.Note != nil {
		if err := validateClientNote(*upd.Note); err != nil {
			return nil, err
		}
	}
	if upd.Status != nil {
		if err := validateClientStatus(*upd.Status); err != nil {
			return nil, err
		}
		if *upd.Status == model.ClientStatusClosed && upd.DealValue == nil && existing.DealValue == nil {
			return nil, fmt.Errorf("%w: deal value is required to close a client", ErrValidation)
		}
	}

	c, err := s.Clients.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: email already exists", ErrConflict)
		}
		return nil, err
	}
	s.log.Info("client updated", zap.String("client_id", id))
	return c, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	if err := s.Clients.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("client deleted", zap.String("client_id", id))
	return nil
}
