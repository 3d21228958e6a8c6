package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gatherbase/server/internal/domain/events"
	"github.com/gatherbase/server/internal/domain/users"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// memUsersRepo is an in-memory users.Repository for handler tests.
type memUsersRepo struct {
	mu    sync.Mutex
	users map[string]*users.User // by id
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{users: make(map[string]*users.User)}
}

func (m *memUsersRepo) seed(username, email, password string) *users.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	user := &users.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return user
}

func (m *memUsersRepo) FindByID(_ context.Context, id string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, users.ErrNotFound
}

func (m *memUsersRepo) FindByEmail(_ context.Context, email string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, users.ErrNotFound
}

func (m *memUsersRepo) FindByUsername(_ context.Context, username string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, users.ErrNotFound
}

func (m *memUsersRepo) Insert(_ context.Context, params users.CreateParams) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == params.Email {
			return nil, users.ErrEmailTaken
		}
	}
	user := &users.User{
		ID:           uuid.NewString(),
		Username:     params.Username,
		Email:        params.Email,
		PhotoURL:     params.PhotoURL,
		PasswordHash: params.PasswordHash,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	copied := *user
	return &copied, nil
}

// memEventsRepo is an in-memory events.Repository for handler tests.
type memEventsRepo struct {
	mu     sync.Mutex
	events map[string]*events.Event // by ulid
	clock  time.Time
}

func newMemEventsRepo() *memEventsRepo {
	return &memEventsRepo{
		events: make(map[string]*events.Event),
		clock:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memEventsRepo) Insert(_ context.Context, params events.CreateParams) (*events.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	event := &events.Event{
		ID:            uuid.NewString(),
		ULID:          params.ULID,
		Title:         params.Title,
		Organizer:     params.Organizer,
		StartsAt:      params.StartsAt,
		Location:      params.Location,
		Description:   params.Description,
		AttendeeCount: params.AttendeeCount,
		OwnerEmail:    params.OwnerEmail,
		CreatedAt:     m.clock,
	}
	m.events[event.ULID] = event
	copied := *event
	return &copied, nil
}

func (m *memEventsRepo) List(_ context.Context) ([]events.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]events.Event, 0, len(m.events))
	for _, event := range m.events {
		items = append(items, *event)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (m *memEventsRepo) ListByOwner(ctx context.Context, owner string) ([]events.Event, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]events.Event, 0, len(all))
	for _, event := range all {
		if event.OwnerEmail == owner {
			items = append(items, event)
		}
	}
	return items, nil
}

func (m *memEventsRepo) GetByULID(_ context.Context, ulid string) (*events.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if event, ok := m.events[ulid]; ok {
		copied := *event
		return &copied, nil
	}
	return nil, events.ErrNotFound
}

func (m *memEventsRepo) Update(_ context.Context, ulid string, params events.UpdateParams) (*events.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[ulid]
	if !ok {
		return nil, events.ErrNotFound
	}
	if params.Title != nil {
		event.Title = *params.Title
	}
	if params.Organizer != nil {
		event.Organizer = *params.Organizer
	}
	if params.StartsAt != nil {
		event.StartsAt = *params.StartsAt
	}
	if params.Location != nil {
		event.Location = *params.Location
	}
	if params.Description != nil {
		event.Description = *params.Description
	}
	if params.AttendeeCount != nil {
		event.AttendeeCount = *params.AttendeeCount
	}
	event.UpdatedAt = time.Now()
	copied := *event
	return &copied, nil
}

func (m *memEventsRepo) Join(_ context.Context, ulid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[ulid]
	if !ok {
		return events.ErrNotFound
	}
	event.AttendeeCount++
	return nil
}

func (m *memEventsRepo) Delete(_ context.Context, ulid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[ulid]; !ok {
		return events.ErrNotFound
	}
	delete(m.events, ulid)
	return nil
}
