package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/barak7821/CRM-Dashboard/internal/model"
)

const (
	MinPasswordLen = 8
	MaxPasswordLen = 20

	resetCodeDigits = 6
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// AuthService orchestrates registration, login, session checks, Google
// sign-in and the password-reset flow.
type AuthService struct {
	Users     UserRepository
	Codes     CodeStore
	Mailer    CodeSender
	Validator EmailValidator
	Tokens    TokenIssuer
	Google    IdentityVerifier // nil when Google sign-in is not configured

	codeTTL time.Duration
	log     *zap.Logger
}

func NewAuthService(users UserRepository, codes CodeStore, mailer CodeSender,
	validator EmailValidator, tokens TokenIssuer, google IdentityVerifier,
	codeTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		Users:     users,
		Codes:     codes,
		Mailer:    mailer,
		Validator: validator,
		Tokens:    tokens,
		Google:    google,
		codeTTL:   codeTTL,
		log:       log,
	}
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	return nil
}

func validatePassword(pw string) error {
	if len(pw) < MinPasswordLen || len(pw) > MaxPasswordLen {
		return fmt.Errorf("%w: password should be between %d and %d characters",
			ErrValidation, MinPasswordLen, MaxPasswordLen)
	}
	return nil
}

// Register creates a local account with role "user". The EmailExists
// pre-check is a UX fast path only; the unique index is what actually
// prevents a duplicate slipping in between check and insert.
func (s *AuthService) Register(ctx context.Context, userName, name, email, password string) (*model.User, error) {
	if userName == "" || name == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	email = strings.ToLower(email)
	userName = strings.ToLower(userName)

	if err := s.Validator.Validate(ctx, email); err != nil {
		if errors.Is(err, ErrEmailRejected) {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
		}
		// Not a verdict: the validator itself failed. Surface it as an
		// internal error so transport details never reach the caller.
		return nil, fmt.Errorf("email validation failed: %w", err)
	}

	exists, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email already exists", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.Users.Create(ctx, &model.User{
		UserName:     userName,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Provider:     model.ProviderLocal,
	})
}

// Login authenticates email + password and returns a signed token. The
// error is the same whether the email is unknown, the password is wrong, or
// the account has no local password at all.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	u, err := s.Users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if u.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.Tokens.Generate(u.ID)
	if err != nil {
		return "", err
	}

	if err := s.Users.SetLastLogin(ctx, u.ID, time.Now()); err != nil {
		s.log.Warn("failed to update last login", zap.String("user_id", u.ID), zap.Error(err))
	}
	return token, nil
}

// CheckUser reports whether the token refers to an account that still
// exists. A valid signature is not enough: the user is re-fetched, so a
// token issued before the account was deleted checks out as false.
func (s *AuthService) CheckUser(ctx context.Context, token string) (bool, error) {
	userID, err := s.Tokens.Parse(token)
	if err != nil {
		return false, ErrInvalidToken
	}
	_, err = s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GoogleLogin exchanges a verified Google ID token for a local session,
// provisioning a passwordless provider="google" account on first sign-in.
func (s *AuthService) GoogleLogin(ctx context.Context, rawToken string) (string, error) {
	if s.Google == nil {
		return "", fmt.Errorf("%w: google sign-in is not configured", ErrValidation)
	}
	identity, err := s.Google.Verify(ctx, rawToken)
	if err != nil {
		return "", ErrInvalidToken
	}

	email := strings.ToLower(identity.Email)
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		u, err = s.Users.Create(ctx, &model.User{
			UserName: userNameFromEmail(email),
			Name:     identity.Name,
			Email:    email,
			Role:     model.RoleUser,
			Provider: model.ProviderGoogle,
		})
		// A concurrent first sign-in may have provisioned the account
		// between the lookup and the insert; use the winner's record.
		if errors.Is(err, ErrConflict) {
			u, err = s.Users.GetByEmail(ctx, email)
		}
	}
	if err != nil {
		return "", err
	}

	token, err := s.Tokens.Generate(u.ID)
	if err != nil {
		return "", err
	}
	if err := s.Users.SetLastLogin(ctx, u.ID, time.Now()); err != nil {
		s.log.Warn("failed to update last login", zap.String("user_id", u.ID), zap.Error(err))
	}
	return token, nil
}

// userNameFromEmail derives a username for provisioned Google accounts.
func userNameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

// RequestReset starts the password-reset flow by emailing a fresh code.
// An unknown email gets the same nil result as a successful request, so
// the endpoint cannot be used to enumerate accounts. A Google-provisioned
// account is the one distinguishable failure: the front end uses it to
// steer the user back to Google sign-in.
func (s *AuthService) RequestReset(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	email = strings.ToLower(email)

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Info("reset requested for unknown email")
			return nil
		}
		return err
	}
	if u.Provider == model.ProviderGoogle {
		return ErrWrongProvider
	}

	code, err := generateResetCode()
	if err != nil {
		return err
	}
	if err := s.Codes.Set(ctx, email, code, s.codeTTL); err != nil {
		return err
	}
	if err := s.Mailer.SendResetCode(ctx, email, code); err != nil {
		return err
	}
	s.log.Info("reset code issued", zap.String("user_id", u.ID))
	return nil
}

// VerifyCode checks a submitted code against the pending one. It does not
// consume the code, so verifying twice with the same valid code succeeds;
// the code is only cleared when the password is actually changed.
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return fmt.Errorf("%w: email and code are required", ErrValidation)
	}
	stored, err := s.Codes.Get(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}
	if stored == "" || stored != code {
		return ErrInvalidOrExpiredCode
	}
	return nil
}

// ResetPassword completes the flow: the code is re-validated, the new
// password must differ from the current one, and on success the pending
// code is cleared.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := s.VerifyCode(ctx, email, code); err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	email = strings.ToLower(email)

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(newPassword)); err == nil {
			return ErrSamePassword
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashStr := string(hash)
	if _, err := s.Users.Update(ctx, u.ID, &model.UserUpdate{PasswordHash: &hashStr}); err != nil {
		return err
	}

	if err := s.Codes.Delete(ctx, email); err != nil {
		s.log.Warn("failed to clear reset code", zap.Error(err))
	}
	s.log.Info("password reset completed", zap.String("user_id", u.ID))
	return nil
}

func generateResetCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < resetCodeDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", resetCodeDigits, n), nil
}
