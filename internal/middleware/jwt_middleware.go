package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/barak7821/CRM-Dashboard/internal/model"
	"github.com/barak7821/CRM-Dashboard/internal/services"
)

const identityKey = "auth_identity"

// Identity is what the gate attaches to a request: who the caller is and
// the role read from the store at request time, not from the token.
type Identity struct {
	UserID string
	Role   string
}

// TokenManager issues and verifies the signed bearer tokens. The signing
// secret comes from configuration; an empty secret makes issuance fail
// instead of producing a forgeable token.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Generate creates a signed token with the user id as subject.
func (m *TokenManager) Generate(userID string) (string, error) {
	if len(m.secret) == 0 {
		return "", services.ErrNoSigningKey
	}
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Parse verifies a token and returns its subject. It fails on a malformed
// token, bad signature, expiry, or missing subject.
func (m *TokenManager) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", services.ErrInvalidToken
	}
	return claims.Subject, nil
}

// UserFinder is the store lookup the gate needs to re-check the account.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Auth is the per-request authorization gate.
type Auth struct {
	Tokens *TokenManager
	Users  UserFinder
	Log    *zap.Logger
}

func NewAuth(tokens *TokenManager, users UserFinder, log *zap.Logger) *Auth {
	return &Auth{Tokens: tokens, Users: users, Log: log}
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get("Authorization")
	if auth == "" {
		return "", false
	}
	parts := strings.Fields(auth)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// Authenticate validates the bearer token and attaches the caller's
// identity to the request. The role is always re-read from the store so a
// stale token cannot carry a revoked privilege, and a token for a deleted
// account is rejected.
func (a *Auth) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}

		userID, err := a.Tokens.Parse(tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		user, err := a.Users.GetByID(c.Request().Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
			}
			a.Log.Error("auth lookup failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
		}

		c.Set(identityKey, &Identity{UserID: user.ID, Role: user.Role})
		return next(c)
	}
}

// AdminOnly requires the attached role to be admin. A valid token with an
// insufficient role is a 403, distinct from the 401 of a missing or
// invalid token.
func (a *Auth) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := GetIdentity(c)
		if id == nil || id.Role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return next(c)
	}
}

// GetIdentity returns the identity attached by Authenticate, or nil.
func GetIdentity(c echo.Context) *Identity {
	if id, ok := c.Get(identityKey).(*Identity); ok {
		return id
	}
	return nil
}
