package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherbase/server/internal/domain/users"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ users.Repository = (*UserRepository)(nil)

type UserRepository struct {
	pool *pgxpool.Pool
}

type userRow struct {
	ID           string
	Username     string
	Email        string
	PhotoURL     *string
	PasswordHash string
	CreatedAt    pgtype.Timestamptz
}

const userColumns = `id, username, email, photo_url, password_hash, created_at`

func (r *UserRepository) FindByID(ctx context.Context, id string) (*users.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*users.User, error) {
	var row userRow
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&row.ID,
		&row.Username,
		&row.Email,
		&row.PhotoURL,
		&row.PasswordHash,
		&row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return row.toUser(), nil
}

func (r *UserRepository) Insert(ctx context.Context, params users.CreateParams) (*users.User, error) {
	var row userRow
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (username, email, photo_url, password_hash)
VALUES ($1, $2, NULLIF($3, ''), $4)
RETURNING `+userColumns,
		params.Username,
		params.Email,
		params.PhotoURL,
		params.PasswordHash,
	).Scan(
		&row.ID,
		&row.Username,
		&row.Email,
		&row.PhotoURL,
		&row.PasswordHash,
		&row.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, users.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return row.toUser(), nil
}

func (row userRow) toUser() *users.User {
	user := &users.User{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		PhotoURL:     derefString(row.PhotoURL),
		PasswordHash: row.PasswordHash,
	}
	if row.CreatedAt.Valid {
		user.CreatedAt = row.CreatedAt.Time
	}
	return user
}

// isUniqueViolation reports a Postgres unique_violation (23505), the
// constraint that closes the signup check-then-insert race.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
