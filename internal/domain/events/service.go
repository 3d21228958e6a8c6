package events

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// maxAttendeeCount bounds the coerced attendee count; int(v) on a float64
// outside the int range is undefined, so the value is clamped first.
const maxAttendeeCount = math.MaxInt32

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Title         string
	Organizer     string
	StartsAt      time.Time
	Location      string
	Description   string
	AttendeeCount int
	OwnerEmail    string
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Event, error) {
	required := []struct {
		field string
		value string
	}{
		{"title", input.Title},
		{"name", input.Organizer},
		{"location", input.Location},
		{"description", input.Description},
		{"email", input.OwnerEmail},
	}
	for _, item := range required {
		if strings.TrimSpace(item.value) == "" {
			return nil, ValidationError{Field: item.field, Message: "is required"}
		}
	}
	if input.StartsAt.IsZero() {
		return nil, ValidationError{Field: "dateTime", Message: "is required"}
	}

	count := input.AttendeeCount
	if count < 0 {
		count = 0
	}

	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ulid: %w", err)
	}

	return s.repo.Insert(ctx, CreateParams{
		ULID:          id.String(),
		Title:         strings.TrimSpace(input.Title),
		Organizer:     strings.TrimSpace(input.Organizer),
		StartsAt:      input.StartsAt,
		Location:      strings.TrimSpace(input.Location),
		Description:   strings.TrimSpace(input.Description),
		AttendeeCount: count,
		OwnerEmail:    strings.ToLower(strings.TrimSpace(input.OwnerEmail)),
	})
}

// List returns every event, newest first.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

// ListByOwner rejects a blank owner outright: silently matching everything
// would hide client bugs, and matching nothing is indistinguishable from an
// owner with no events.
func (s *Service) ListByOwner(ctx context.Context, ownerEmail string) ([]Event, error) {
	owner := strings.ToLower(strings.TrimSpace(ownerEmail))
	if owner == "" {
		return nil, ValidationError{Field: "email", Message: "is required"}
	}
	return s.repo.ListByOwner(ctx, owner)
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	normalized, err := NormalizeULID(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByULID(ctx, normalized)
}

// Join adds exactly one attendee. A malformed id is reported as not-found,
// never as an internal failure.
func (s *Service) Join(ctx context.Context, id string) error {
	normalized, err := NormalizeULID(id)
	if err != nil {
		return ErrNotFound
	}
	return s.repo.Join(ctx, normalized)
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Event, error) {
	normalized, err := NormalizeULID(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if params.IsEmpty() {
		return nil, ValidationError{Message: "no updatable fields provided"}
	}
	// A present-but-zero timestamp would otherwise overwrite starts_at with
	// the zero time; create catches this via the required-field check, but
	// here the field is optional so it needs its own guard.
	if params.StartsAt != nil && params.StartsAt.IsZero() {
		return nil, ValidationError{Field: "dateTime", Message: "must be a non-empty RFC 3339 timestamp"}
	}
	if params.AttendeeCount != nil && *params.AttendeeCount < 0 {
		zero := 0
		params.AttendeeCount = &zero
	}
	return s.repo.Update(ctx, normalized, params)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	normalized, err := NormalizeULID(id)
	if err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, normalized)
}

// NormalizeULID upper-cases and validates a public event identifier.
func NormalizeULID(value string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if _, err := ulid.ParseStrict(trimmed); err != nil {
		return "", fmt.Errorf("parse ulid %q: %w", value, err)
	}
	return trimmed, nil
}

// CoerceAttendeeCount turns whatever JSON carried for attendeeCount into a
// non-negative int. Absent, unparsable, fractional-garbage and negative
// inputs all collapse to 0 rather than failing the request.
func CoerceAttendeeCount(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(v) || v < 0 {
			return 0
		}
		if v > maxAttendeeCount {
			return maxAttendeeCount
		}
		return int(v)
	case int:
		if v < 0 {
			return 0
		}
		return v
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || parsed < 0 {
			return 0
		}
		if parsed > maxAttendeeCount {
			return maxAttendeeCount
		}
		return parsed
	default:
		return 0
	}
}
