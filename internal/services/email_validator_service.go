package services

import "context"

// LocalValidator accepts any syntactically valid address. It is the
// default when the external reputation check is disabled; syntax has
// already been checked by validateEmail.
type LocalValidator struct{}

func NewLocalValidator() *LocalValidator {
	return &LocalValidator{}
}

func (v *LocalValidator) Validate(ctx context.Context, email string) error {
	return nil
}
