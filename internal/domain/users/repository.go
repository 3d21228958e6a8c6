package users

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// ErrEmailTaken is returned both by the pre-insert check and by the unique
// index on users.email, so a racing signup still surfaces as a conflict.
var ErrEmailTaken = errors.New("email is already taken")

type User struct {
	ID           string
	Username     string
	Email        string
	PhotoURL     string
	PasswordHash string
	CreatedAt    time.Time
}

type CreateParams struct {
	Username     string
	Email        string
	PhotoURL     string
	PasswordHash string
}

type Repository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Insert(ctx context.Context, params CreateParams) (*User, error)
}
