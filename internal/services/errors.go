package services

import "errors"

// Sentinel errors returned by the service layer. Handlers match them with
// errors.Is to pick the HTTP status; validation errors wrap ErrValidation
// so the concrete message still reaches the caller.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("already exists")
	ErrNotFound   = errors.New("not found")

	// Login failures are uniform: the same error covers an unknown email
	// and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token failures (malformed, bad signature, expired, missing subject).
	ErrInvalidToken = errors.New("invalid token")

	// ErrEmailRejected is a verdict from the email validator (disposable,
	// role-based, bad reputation). Any other validator error is an
	// infrastructure failure, not a verdict, and must not reach the caller.
	ErrEmailRejected = errors.New("email rejected")

	// Password-reset flow.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrSamePassword         = errors.New("new password cannot be the same as the current password")
	ErrWrongProvider        = errors.New("account is registered with an external provider")

	// Missing signing key aborts token issuance instead of degrading.
	ErrNoSigningKey = errors.New("token signing key is not configured")
)
