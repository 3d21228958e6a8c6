package postgres

import (
	"fmt"

	"github.com/gatherbase/server/internal/domain/events"
	"github.com/gatherbase/server/internal/domain/users"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository bundles the per-collection repositories over one shared pool.
type Repository struct {
	pool   *pgxpool.Pool
	users  *UserRepository
	events *EventRepository
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{
		pool:   pool,
		users:  &UserRepository{pool: pool},
		events: &EventRepository{pool: pool},
	}, nil
}

func (r *Repository) Users() users.Repository {
	return r.users
}

func (r *Repository) Events() events.Repository {
	return r.events
}
