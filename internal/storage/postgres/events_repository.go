package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherbase/server/internal/domain/events"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
}

type eventRow struct {
	ID            string
	ULID          string
	Title         string
	Organizer     string
	StartsAt      pgtype.Timestamptz
	Location      string
	Description   string
	AttendeeCount int
	OwnerEmail    string
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

const eventColumns = `id, ulid, title, organizer, starts_at, location, description, attendee_count, owner_email, created_at, updated_at`

func (r *EventRepository) Insert(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	var row eventRow
	err := r.pool.QueryRow(ctx, `
INSERT INTO events (ulid, title, organizer, starts_at, location, description, attendee_count, owner_email)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+eventColumns,
		params.ULID,
		params.Title,
		params.Organizer,
		params.StartsAt,
		params.Location,
		params.Description,
		params.AttendeeCount,
		params.OwnerEmail,
	).Scan(row.fields()...)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return row.toEvent(), nil
}

func (r *EventRepository) List(ctx context.Context) ([]events.Event, error) {
	return r.queryList(ctx, `
SELECT `+eventColumns+`
  FROM events
 ORDER BY created_at DESC, ulid DESC`)
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]events.Event, error) {
	return r.queryList(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE owner_email = $1
 ORDER BY created_at DESC, ulid DESC`, ownerEmail)
}

func (r *EventRepository) queryList(ctx context.Context, query string, args ...any) ([]events.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	items := make([]events.Event, 0)
	for rows.Next() {
		var row eventRow
		if err := rows.Scan(row.fields()...); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, *row.toEvent())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}

func (r *EventRepository) GetByULID(ctx context.Context, ulid string) (*events.Event, error) {
	var row eventRow
	err := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE ulid = $1`, ulid).
		Scan(row.fields()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return row.toEvent(), nil
}

// Update overwrites only the whitelisted fields; nil params keep the stored
// value via COALESCE. RETURNING decides existence, so a no-op patch on an
// existing row still succeeds.
func (r *EventRepository) Update(ctx context.Context, ulid string, params events.UpdateParams) (*events.Event, error) {
	var row eventRow
	err := r.pool.QueryRow(ctx, `
UPDATE events
   SET title          = COALESCE($2, title),
       organizer      = COALESCE($3, organizer),
       starts_at      = COALESCE($4, starts_at),
       location       = COALESCE($5, location),
       description    = COALESCE($6, description),
       attendee_count = COALESCE($7, attendee_count),
       updated_at     = now()
 WHERE ulid = $1
RETURNING `+eventColumns,
		ulid,
		params.Title,
		params.Organizer,
		params.StartsAt,
		params.Location,
		params.Description,
		params.AttendeeCount,
	).Scan(row.fields()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return row.toEvent(), nil
}

// Join is a single conditional update; concurrent joins cannot lose
// increments because no read precedes the write.
func (r *EventRepository) Join(ctx context.Context, ulid string) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE events
   SET attendee_count = attendee_count + 1,
       updated_at     = now()
 WHERE ulid = $1`, ulid)
	if err != nil {
		return fmt.Errorf("join event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, ulid string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE ulid = $1`, ulid)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (row *eventRow) fields() []any {
	return []any{
		&row.ID,
		&row.ULID,
		&row.Title,
		&row.Organizer,
		&row.StartsAt,
		&row.Location,
		&row.Description,
		&row.AttendeeCount,
		&row.OwnerEmail,
		&row.CreatedAt,
		&row.UpdatedAt,
	}
}

func (row *eventRow) toEvent() *events.Event {
	event := &events.Event{
		ID:            row.ID,
		ULID:          row.ULID,
		Title:         row.Title,
		Organizer:     row.Organizer,
		Location:      row.Location,
		Description:   row.Description,
		AttendeeCount: row.AttendeeCount,
		OwnerEmail:    row.OwnerEmail,
	}
	if row.StartsAt.Valid {
		event.StartsAt = row.StartsAt.Time
	}
	if row.CreatedAt.Valid {
		event.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		event.UpdatedAt = row.UpdatedAt.Time
	}
	return event
}
