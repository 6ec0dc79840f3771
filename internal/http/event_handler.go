package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/calendar-copilot/internal/application"
)

// EventHandler serves the calendar event CRUD endpoints.
type EventHandler struct {
	events    *application.EventService
	responder responder
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(events *application.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		events:    events,
		responder: newResponder(logger),
	}
}

// List handles GET /api/events with optional startDate/endDate range
// parameters. The range matches any event overlapping the window.
func (h *EventHandler) List(w http.ResponseWriter, req *http.Request) {
	principal, ok := PrincipalFromContext(req.Context())
	if !ok {
		h.responder.writeError(req.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	from, err := parseTimestampParam(req.URL.Query().Get("startDate"))
	if err != nil {
		h.responder.writeError(req.Context(), w, http.StatusBadRequest, errors.New("startDate must be an ISO 8601 timestamp"))
		return
	}
	to, err := parseTimestampParam(req.URL.Query().Get("endDate"))
	if err != nil {
		h.responder.writeError(req.Context(), w, http.StatusBadRequest, errors.New("endDate must be an ISO 8601 timestamp"))
		return
	}

	events, err := h.events.ListEvents(req.Context(), principal, from, to)
	if err != nil {
		h.responder.handleServiceError(req.Context(), w, err)
		return
	}

	h.responder.writeJSON(req.Context(), w, http.StatusOK, toEventViews(events))
}

type eventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Color       *string `json:"color"`
	IsAllDay    *bool   `json:"isAllDay"`
}

// Create handles POST /api/events.
func (h *EventHandler) Create(w http.ResponseWriter, req *http.Request) {
	principal, ok := PrincipalFromContext(req.Context())
	if !ok {
		h.responder.writeError(req.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var body eventRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		h.responder.writeError(req.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input := application.EventInput{Description: body.Description}
	if body.Title != nil {
		input.Title = *body.Title
	}
	if body.Color != nil {
		input.Color = *body.Color
	}
	if body.IsAllDay != nil {
		input.AllDay = *body.IsAllDay
	}
	if body.StartTime != nil {
		start, err := time.Parse(time.RFC3339, *body.StartTime)
		if err != nil {
			h.responder.writeError(req.Context(), w, http.StatusBadRequest, errors.New("startTime must be an ISO 8601 timestamp"))
			return
		}
		input.Start = start
	}
	if body.EndTime != nil {
		end, err := time.Parse(time.RFC3339, *body.EndTime)
		if err != nil {
			h.responder.writeError(req.Context(), w, http.StatusBadRequest, errors.New("endTime must be an ISO 8601 timestamp"))
			return
		}
		input.End = end
	}

	event, err := h.events.CreateEvent(req.Context(), principal, input)
	if err != nil {
		h.responder.handleServiceError(req.Context(), w, err)
		return
	}

	h.responder.writeJSON(req.Context(), w, http.StatusCreated, toEventView(event))
}

// Patch handles PATCH /api/events/{id}. Absent fields are left unchanged.
func (h *EventHandler) Patch(w http.ResponseWriter, req *http.Request) {
	principal, ok := PrincipalFromContext(req.Context())
	if !ok {
		h.responder.writeError(req.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}
	eventID, ok := EventIDFromContext(req.Context())
	if !ok {
		h.responder.writeError(req.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	var body eventRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		h.responder.writeError(req.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	patch := application.EventPatch{
		Title:       body.Title,
		Description: body.Description,
		Color:       body.Color,
		AllDay:      body.IsAllDay,
	}
	if body.StartTime != nil {
		start, err := time.Parse(time.RFC3339, *body.StartTime)
		if err != nil {
			h.responder.writeError(req.Context(), w, http.StatusBadRequest, errors.New("startTime must be an ISO 8601 timestamp"))
			return
		}
		patch.Start = &start
	}
	if body.EndTime != nil {
		end, err := time.Parse(time.RFC3339, *body.EndTime)
		if err != nil {
			h.responder.writeError(req.Context(), w, http.StatusBadRequest, errors.New("endTime must be an ISO 8601 timestamp"))
			return
		}
		patch.End = &end
	}

	event, err := h.events.UpdateEvent(req.Context(), principal, eventID, patch)
	if err != nil {
		h.responder.handleServiceError(req.Context(), w, err)
		return
	}

	h.responder.writeJSON(req.Context(), w, http.StatusOK, toEventView(event))
}

// Delete handles DELETE /api/events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, req *http.Request) {
	principal, ok := PrincipalFromContext(req.Context())
	if !ok {
		h.responder.writeError(req.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}
	eventID, ok := EventIDFromContext(req.Context())
	if !ok {
		h.responder.writeError(req.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	if err := h.events.DeleteEvent(req.Context(), principal, eventID); err != nil {
		h.responder.handleServiceError(req.Context(), w, err)
		return
	}

	h.responder.writeJSON(req.Context(), w, http.StatusOK, successResponse{Success: true})
}

func parseTimestampParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
