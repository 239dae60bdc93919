package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barak7821/CRM-Dashboard/internal/model"
	"github.com/barak7821/CRM-Dashboard/internal/services"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, user_name, name, email, COALESCE(password_hash, ''), role, provider, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.UserName, &u.Name, &u.Email, &u.PasswordHash,
		&u.Role, &u.Provider, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// isUniqueViolation reports whether err is the store rejecting a duplicate
// key. This, not any pre-check, is the authoritative conflict signal.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a new user and returns it with the generated id.
func (r *UserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	u.ID = uuid.NewString()
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `INSERT INTO users (id, user_name, name, email, password_hash, role, provider, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9)`
	_, err := r.DB.Exec(ctx, query, u.ID, u.UserName, u.Name, u.Email, u.PasswordHash,
		u.Role, u.Provider, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, services.ErrConflict
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.DB.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.DB.QueryRow(ctx, query, id))
}

func (r *UserRepository) UserNameExists(ctx context.Context, userName string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE user_name=$1)`
	if err := r.DB.QueryRow(ctx, query, userName).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`
	if err := r.DB.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Update applies the non-nil fields of upd and returns the updated user.
func (r *UserRepository) Update(ctx context.Context, id string, upd *model.UserUpdate) (*model.User, error) {
	query := `UPDATE users SET
			user_name = COALESCE($2, user_name),
			name = COALESCE($3, name),
			email = COALESCE($4, email),
			role = COALESCE($5, role),
			password_hash = COALESCE($6, password_hash),
			updated_at = now()
		WHERE id=$1
		RETURNING ` + userColumns
	u, err := scanUser(r.DB.QueryRow(ctx, query, id,
		upd.UserName, upd.Name, upd.Email, upd.Role, upd.PasswordHash))
	if err != nil && isUniqueViolation(err) {
		return nil, services.ErrConflict
	}
	return u, err
}

func (r *UserRepository) SetLastLogin(ctx context.Context, id string, t time.Time) error {
	_, err := r.DB.Exec(ctx, `UPDATE users SET last_login=$2 WHERE id=$1`, id, t)
	return err
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return services.ErrNotFound
	}
	return nil
}
