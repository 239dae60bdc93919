package services

import (
	"context"
	"time"

	"github.com/barak7821/CRM-Dashboard/internal/model"
)

// UserRepository defines the persistence operations the services need for
// user accounts. The Postgres implementation lives in internal/repository.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UserNameExists(ctx context.Context, userName string) (bool, error)
	Update(ctx context.Context, id string, upd *model.UserUpdate) (*model.User, error)
	SetLastLogin(ctx context.Context, id string, t time.Time) error
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id string) error
}

// ClientRepository defines the persistence operations for client records.
type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) (*model.Client, error)
	GetByID(ctx context.Context, id string) (*model.Client, error)
	ListByUser(ctx context.Context, userID string) ([]model.Client, error)
	ListAll(ctx context.Context) ([]model.Client, error)
	Update(ctx context.Context, id string, upd *model.ClientUpdate) (*model.Client, error)
	Delete(ctx context.Context, id string) error
}

// CodeStore holds pending password-reset codes keyed by email. Setting a
// code replaces any previous one; Get returns "" once the code expired.
type CodeStore interface {
	Set(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

// CodeSender delivers a reset code to the user.
type CodeSender interface {
	SendResetCode(ctx context.Context, toEmail, code string) error
}

// EmailValidator checks an address beyond its syntax (reputation,
// disposability). A rejection wraps ErrEmailRejected; any other error
// means the check itself failed. The local implementation accepts
// everything.
type EmailValidator interface {
	Validate(ctx context.Context, email string) error
}

// TokenIssuer issues and verifies bearer tokens for a user id.
type TokenIssuer interface {
	Generate(userID string) (string, error)
	Parse(token string) (string, error)
}

// IdentityVerifier exchanges an external provider token for a verified
// identity. The Google implementation lives in external/google.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (*ExternalIdentity, error)
}

// ExternalIdentity is the profile asserted by a federated provider.
type ExternalIdentity struct {
	Email string
	Name  string
}
