package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

type Event struct {
	ID            string
	ULID          string
	Title         string
	Organizer     string
	StartsAt      time.Time
	Location      string
	Description   string
	AttendeeCount int
	OwnerEmail    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateParams struct {
	ULID          string
	Title         string
	Organizer     string
	StartsAt      time.Time
	Location      string
	Description   string
	AttendeeCount int
	OwnerEmail    string
}

// UpdateParams carries the whitelisted fields a PUT may overwrite. Nil means
// "leave unchanged". The id, owner email and creation timestamp are not
// updatable through any path.
type UpdateParams struct {
	Title         *string
	Organizer     *string
	StartsAt      *time.Time
	Location      *string
	Description   *string
	AttendeeCount *int
}

func (p UpdateParams) IsEmpty() bool {
	return p.Title == nil && p.Organizer == nil && p.StartsAt == nil &&
		p.Location == nil && p.Description == nil && p.AttendeeCount == nil
}

type Repository interface {
	Insert(ctx context.Context, params CreateParams) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]Event, error)
	GetByULID(ctx context.Context, ulid string) (*Event, error)
	Update(ctx context.Context, ulid string, params UpdateParams) (*Event, error)
	// Join increments the attendee count by one in a single conditional
	// update; it never reads the current value first.
	Join(ctx context.Context, ulid string) error
	Delete(ctx context.Context, ulid string) error
}
