package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/barak7821/CRM-Dashboard/internal/model"
)

// UserService covers profile self-service and the admin user management
// operations. Role checks happen at the gate; the service trusts the
// caller id it is handed.
type UserService struct {
	Users UserRepository
	log   *zap.Logger
}

func NewUserService(users UserRepository, log *zap.Logger) *UserService {
	return &UserService{Users: users, log: log}
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.Users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.Users.List(ctx)
}

// UpdateProfileInput is the self-service update payload; nil means "leave
// unchanged". Password changes go through the same rules as a reset:
// length bounds plus rejection of the current password.
type UpdateProfileInput struct {
	UserName *string
	Name     *string
	Email    *string
	Role     *string
	Password *string
}

func (in *UpdateProfileInput) empty() bool {
	return in.UserName == nil && in.Name == nil && in.Email == nil &&
		in.Role == nil && in.Password == nil
}

// Update applies a partial update to the given user.
func (s *UserService) Update(ctx context.Context, id string, in UpdateProfileInput) (*model.User, error) {
	if in.empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	upd := &model.UserUpdate{Name: in.Name}

	if in.UserName != nil {
		userName := strings.ToLower(*in.UserName)
		taken, err := s.Users.UserNameExists(ctx, userName)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: username already taken", ErrConflict)
		}
		upd.UserName = &userName
	}

	if in.Email != nil {
		if err := validateEmail(*in.Email); err != nil {
			return nil, err
		}
		email := strings.ToLower(*in.Email)
		upd.Email = &email
	}

	if in.Role != nil {
		if *in.Role != model.RoleUser && *in.Role != model.RoleAdmin {
			return nil, fmt.Errorf("%w: invalid role", ErrValidation)
		}
		upd.Role = in.Role
	}

	if in.Password != nil {
		if err := validatePassword(*in.Password); err != nil {
			return nil, err
		}
		current, err := s.Users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.PasswordHash != "" {
			if err := bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(*in.Password)); err == nil {
				return nil, ErrSamePassword
			}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashStr := string(hash)
		upd.PasswordHash = &hashStr
	}

	u, err := s.Users.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		return nil, err
	}
	s.log.Info("user updated", zap.String("user_id", id))
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.String("user_id", id))
	return nil
}
