package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/barak7821/CRM-Dashboard/internal/model"
	"github.com/barak7821/CRM-Dashboard/internal/services"
)

func newUserFixture(t *testing.T) (*services.UserService, *memUserRepo, *model.User) {
	t.Helper()

	users := newMemUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	u, err := users.Create(context.Background(), &model.User{
		UserName: "alice", Name: "Alice A", Email: "a@b.com",
		PasswordHash: string(hash), Role: model.RoleUser, Provider: model.ProviderLocal,
	})
	require.NoError(t, err)

	return services.NewUserService(users, zap.NewNop()), users, u
}

func strPtr(s string) *string { return &s }

func TestUserUpdate_NoFields(t *testing.T) {
	svc, _, u := newUserFixture(t)

	_, err := svc.Update(context.Background(), u.ID, services.UpdateProfileInput{})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestUserUpdate_UserNameTaken(t *testing.T) {
	svc, users, u := newUserFixture(t)
	ctx := context.Background()

	_, err := users.Create(ctx, &model.User{UserName: "bob", Name: "Bob", Email: "b@b.com"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, u.ID, services.UpdateProfileInput{UserName: strPtr("Bob")})
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestUserUpdate_LowercasesFields(t *testing.T) {
	svc, users, u := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, u.ID, services.UpdateProfileInput{
		UserName: strPtr("NewAlice"),
		Email:    strPtr("New@B.com"),
	})
	require.NoError(t, err)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "newalice", stored.UserName)
	assert.Equal(t, "new@b.com", stored.Email)
}

func TestUserUpdate_PasswordRules(t *testing.T) {
	svc, users, u := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, u.ID, services.UpdateProfileInput{Password: strPtr("short")})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.Update(ctx, u.ID, services.UpdateProfileInput{Password: strPtr("password123")})
	assert.ErrorIs(t, err, services.ErrSamePassword)

	_, err = svc.Update(ctx, u.ID, services.UpdateProfileInput{Password: strPtr("newpassword1")})
	require.NoError(t, err)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpassword1")))
}

func TestUserUpdate_RoleValidation(t *testing.T) {
	svc, users, u := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, u.ID, services.UpdateProfileInput{Role: strPtr("superuser")})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.Update(ctx, u.ID, services.UpdateProfileInput{Role: strPtr(model.RoleAdmin)})
	require.NoError(t, err)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, stored.Role)
}

func TestUserDelete(t *testing.T) {
	svc, users, u := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, u.ID))
	_, err := users.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, u.ID), services.ErrNotFound)
}
