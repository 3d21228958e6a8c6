package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gatherbase/server/internal/api/problem"
	"github.com/gatherbase/server/internal/domain/events"
	"github.com/gatherbase/server/internal/metrics"
)

type EventsHandler struct {
	Service *events.Service
	Env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

type createEventRequest struct {
	Title         string `json:"title"`
	Name          string `json:"name"`
	DateTime      string `json:"dateTime"`
	Location      string `json:"location"`
	Description   string `json:"description"`
	AttendeeCount any    `json:"attendeeCount"`
	Email         string `json:"email"`
}

type updateEventRequest struct {
	Title         *string `json:"title"`
	Name          *string `json:"name"`
	DateTime      *string `json:"dateTime"`
	Location      *string `json:"location"`
	Description   *string `json:"description"`
	AttendeeCount any     `json:"attendeeCount"`
}

type eventResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Name          string `json:"name"`
	DateTime      string `json:"dateTime"`
	Location      string `json:"location"`
	Description   string `json:"description"`
	AttendeeCount int    `json:"attendeeCount"`
	Email         string `json:"email"`
	CreatedAt     string `json:"createdAt"`
}

func toEventResponse(event *events.Event) eventResponse {
	return eventResponse{
		ID:            event.ULID,
		Title:         event.Title,
		Name:          event.Organizer,
		DateTime:      event.StartsAt.UTC().Format(time.RFC3339),
		Location:      event.Location,
		Description:   event.Description,
		AttendeeCount: event.AttendeeCount,
		Email:         event.OwnerEmail,
		CreatedAt:     event.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /api/events.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://gatherbase.dev/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	startsAt, err := parseDateTime(req.DateTime)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://gatherbase.dev/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.Create(r.Context(), events.CreateInput{
		Title:         req.Title,
		Organizer:     req.Name,
		StartsAt:      startsAt,
		Location:      req.Location,
		Description:   req.Description,
		AttendeeCount: events.CoerceAttendeeCount(req.AttendeeCount),
		OwnerEmail:    req.Email,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

// List handles GET /api/events, newest first.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeList(w, items)
}

// ListByOwner handles GET /api/events/{email}.
func (h *EventsHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListByOwner(r.Context(), r.PathValue("email"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeList(w, items)
}

// Join handles PATCH /api/events/join/{id}.
func (h *EventsHandler) Join(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Join(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	metrics.EventJoinsTotal.Inc()
	writeJSON(w, http.StatusOK, messageResponse{Message: "joined event"})
}

// Update handles PUT /api/events/{id}.
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://gatherbase.dev/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	params := events.UpdateParams{
		Title:       req.Title,
		Organizer:   req.Name,
		Location:    req.Location,
		Description: req.Description,
	}
	if req.DateTime != nil {
		startsAt, err := parseDateTime(*req.DateTime)
		if err != nil {
			problem.Write(w, r, http.StatusBadRequest, "https://gatherbase.dev/problems/validation-error", "Invalid request", err, h.Env)
			return
		}
		params.StartsAt = &startsAt
	}
	if req.AttendeeCount != nil {
		count := events.CoerceAttendeeCount(req.AttendeeCount)
		params.AttendeeCount = &count
	}

	event, err := h.Service.Update(r.Context(), r.PathValue("id"), params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

// Delete handles DELETE /api/events/{id}.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "event deleted"})
}

func (h *EventsHandler) writeList(w http.ResponseWriter, items []events.Event) {
	payload := make([]eventResponse, 0, len(items))
	for i := range items {
		payload = append(payload, toEventResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *EventsHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr events.ValidationError
	switch {
	case errors.As(err, &vErr):
		problem.Write(w, r, http.StatusBadRequest, "https://gatherbase.dev/problems/validation-error", "Invalid request", err, h.Env)
	case errors.Is(err, events.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, "https://gatherbase.dev/problems/not-found", "Not found", err, h.Env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, "https://gatherbase.dev/problems/server-error", "Server error", err, h.Env)
	}
}

func parseDateTime(value string) (time.Time, error) {
	if value == "" {
		// The service reports the missing field with the rest of the
		// required-field checks.
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, events.ValidationError{Field: "dateTime", Message: "must be an RFC 3339 timestamp"}
	}
	return parsed, nil
}
