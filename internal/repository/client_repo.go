package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barak7821/CRM-Dashboard/internal/model"
	"github.com/barak7821/CRM-Dashboard/internal/services"
)

type ClientRepository struct {
	DB *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{DB: db}
}

const clientColumns = `id, assigned_to, name, email, COALESCE(phone, ''), COALESCE(type, ''), COALESCE(note, ''), status, deal_value, created_at, updated_at`

func scanClient(row pgx.Row) (*model.Client, error) {
	var c model.Client
	err := row.Scan(&c.ID, &c.AssignedTo, &c.Name, &c.Email, &c.Phone, &c.Type,
		&c.Note, &c.Status, &c.DealValue, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *model.Client) (*model.Client, error) {
	c.ID = uuid.NewString()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `INSERT INTO clients (id, assigned_to, name, email, phone, type, note, status, deal_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11)`
	_, err := r.DB.Exec(ctx, query, c.ID, c.AssignedTo, c.Name, c.Email, c.Phone,
		c.Type, c.Note, c.Status, c.DealValue, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, services.ErrConflict
		}
		return nil, err
	}
	return c, nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id=$1`
	return scanClient(r.DB.QueryRow(ctx, query, id))
}

// ListByUser returns the clients assigned to one user.
func (r *ClientRepository) ListByUser(ctx context.Context, userID string) ([]model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE assigned_to=$1 ORDER BY created_at`
	return r.list(ctx, query, userID)
}

// ListAll returns every client (admin use).
func (r *ClientRepository) ListAll(ctx context.Context) ([]model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at`
	return r.list(ctx, query)
}

func (r *ClientRepository) list(ctx context.Context, query string, args ...any) ([]model.Client, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of upd and returns the updated client.
func (r *ClientRepository) Update(ctx context.Context, id string, upd *model.ClientUpdate) (*model.Client, error) {
	query := `UPDATE clients SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			type = COALESCE($5, type),
			note = COALESCE($6, note),
			status = COALESCE($7, status),
			deal_value = COALESCE($8, deal_value),
			updated_at = now()
		WHERE id=$1
		RETURNING ` + clientColumns
	c, err := scanClient(r.DB.QueryRow(ctx, query, id,
		upd.Name, upd.Email, upd.Phone, upd.Type, upd.Note, upd.Status, upd.DealValue))
	if err != nil && isUniqueViolation(err) {
		return nil, services.ErrConflict
	}
	return c, err
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return services.ErrNotFound
	}
	return nil
}
