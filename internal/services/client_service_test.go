package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/barak7821/CRM-Dashboard/internal/model"
	"github.com/barak7821/CRM-Dashboard/internal/services"
)

// memClientRepo is an in-memory services.ClientRepository with the same
// unique-email rule as the schema.
type memClientRepo struct {
	byID map[string]*model.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{byID: map[string]*model.Client{}}
}

func (r *memClientRepo) Create(ctx context.Context, c *model.Client) (*model.Client, error) {
	for _, existing := range r.byID {
		if existing.Email == c.Email {
			return nil, services.ErrConflict
		}
	}
	cp := *c
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memClientRepo) GetByID(ctx context.Context, id string) (*model.Client, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memClientRepo) ListByUser(ctx context.Context, userID string) ([]model.Client, error) {
	out := []model.Client{}
	for _, c := range r.byID {
		if c.AssignedTo == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memClientRepo) ListAll(ctx context.Context) ([]model.Client, error) {
	out := []model.Client{}
	for _, c := range r.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memClientRepo) Update(ctx context.Context, id string, upd *model.ClientUpdate) (*model.Client, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	if upd.Type != nil {
		c.Type = *upd.Type
	}
	if upd.Note != nil {
		c.Note = *upd.Note
	}
	if upd.Status != nil {
		c.Status = *upd.Status
	}
	if upd.DealValue != nil {
		c.DealValue = upd.DealValue
	}
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (r *memClientRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return services.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func newClientFixture(t *testing.T) (*services.ClientService, *memClientRepo, *model.User) {
	t.Helper()

	users := newMemUserRepo()
	owner, err := users.Create(context.Background(), &model.User{
		UserName: "alice", Name: "Alice A", Email: "a@b.com", Role: model.RoleUser,
	})
	require.NoError(t, err)

	clients := newMemClientRepo()
	return services.NewClientService(clients, users, zap.NewNop()), clients, owner
}

func floatPtr(f float64) *float64 { return &f }

func TestClientCreate(t *testing.T) {
	svc, _, owner := newClientFixture(t)

	c, err := svc.Create(context.Background(), services.CreateClientInput{
		AssignedTo: owner.ID,
		Name:       "Acme Ltd",
		Email:      "Contact@Acme.com",
		Phone:      "+972 50-123-4567",
		Type:       model.ClientTypePotential,
		Note:       "met at expo",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ClientStatusPending, c.Status, "new clients start pending")
	assert.Equal(t, "contact@acme.com", c.Email)
	assert.Equal(t, owner.ID, c.AssignedTo)
}

func TestClientCreate_Validation(t *testing.T) {
	svc, _, owner := newClientFixture(t)
	ctx := context.Background()

	base := services.CreateClientInput{
		AssignedTo: owner.ID, Name: "Acme Ltd", Email: "contact@acme.com",
	}

	cases := []struct {
		name   string
		mutate func(in *services.CreateClientInput)
	}{
		{"name too short", func(in *services.CreateClientInput) { in.Name = "A" }},
		{"name too long", func(in *services.CreateClientInput) { in.Name = strings.Repeat("x", 21) }},
		{"bad email", func(in *services.CreateClientInput) { in.Email = "nope" }},
		{"bad phone", func(in *services.CreateClientInput) { in.Phone = "call me" }},
		{"bad type", func(in *services.CreateClientInput) { in.Type = "enemy" }},
		{"note too long", func(in *services.CreateClientInput) { in.Note = strings.Repeat("x", 501) }},
		{"unknown assignee", func(in *services.CreateClientInput) { in.AssignedTo = "ghost" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, services.ErrValidation)
		})
	}
}

func TestClientCreate_DuplicateEmail(t *testing.T) {
	svc, _, owner := newClientFixture(t)
	ctx := context.Background()

	in := services.CreateClientInput{AssignedTo: owner.ID, Name: "Acme Ltd", Email: "contact@acme.com"}
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)

	in.Name = "Acme Copy"
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestClientUpdate_CloseRequiresDealValue(t *testing.T) {
	svc, _, owner := newClientFixture(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, services.CreateClientInput{
		AssignedTo: owner.ID, Name: "Acme Ltd", Email: "contact@acme.com",
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, c.ID, &model.ClientUpdate{Status: strPtr(model.ClientStatusClosed)})
	assert.ErrorIs(t, err, services.ErrValidation)

	updated, err := svc.Update(ctx, c.ID, &model.ClientUpdate{
		Status:    strPtr(model.ClientStatusClosed),
		DealValue: floatPtr(5000),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ClientStatusClosed, updated.Status)
	require.NotNil(t, updated.DealValue)
	assert.Equal(t, 5000.0, *updated.DealValue)
}

func TestClientUpdate_NoFields(t *testing.T) {
	svc, _, owner := newClientFixture(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, services.CreateClientInput{
		AssignedTo: owner.ID, Name: "Acme Ltd", Email: "contact@acme.com",
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, c.ID, &model.ClientUpdate{})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestClientListScopes(t *testing.T) {
	svc, _, owner := newClientFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, services.CreateClientInput{
		AssignedTo: owner.ID, Name: "Acme Ltd", Email: "contact@acme.com",
	})
	require.NoError(t, err)

	mine, err := svc.ListForUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other, err := svc.ListForUser(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestClientDelete(t *testing.T) {
	svc, clients, owner := newClientFixture(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, services.CreateClientInput{
		AssignedTo: owner.ID, Name: "Acme Ltd", Email: "contact@acme.com",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = clients.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
