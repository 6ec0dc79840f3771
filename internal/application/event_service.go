package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/calendar-copilot/internal/persistence"
)

// EventService coordinates calendar event CRUD scoped to the acting user.
// Ownership equality is the sole authorization mechanism; there is no
// role or permission system.
type EventService struct {
	events persistence.EventRepository
	newID  func() string
	logger *slog.Logger
}

// NewEventService constructs an EventService with the provided dependencies.
// newID may be nil, in which case UUIDs are generated.
func NewEventService(events persistence.EventRepository, newID func() string, logger *slog.Logger) *EventService {
	if newID == nil {
		newID = uuid.NewString
	}
	return &EventService{
		events: events,
		newID:  newID,
		logger: defaultLogger(logger),
	}
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

// ListEvents returns the principal's events whose interval intersects
// [from, to] when bounds are given.
func (s *EventService) ListEvents(ctx context.Context, principal Principal, from, to *time.Time) ([]Event, error) {
	models, err := s.events.ListEvents(ctx, principal.UserID, persistence.EventFilter{From: from, To: to})
	if err != nil {
		s.loggerWith(ctx, "ListEvents", "user_id", principal.UserID).
			ErrorContext(ctx, "failed to list events", "error", err)
		return nil, err
	}
	return toEvents(models), nil
}

// GetEvent returns a single event owned by the principal.
func (s *EventService) GetEvent(ctx context.Context, principal Principal, eventID string) (Event, error) {
	model, err := s.events.GetEvent(ctx, eventID, principal.UserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Event{}, ErrNotFound
		}
		return Event{}, err
	}
	return toEvent(model), nil
}

// CreateEvent validates and stores a new event for the principal.
//
// Temporal ordering of start and end is deliberately not enforced; the UI
// allows free-form drafting and regeneration is cheap.
func (s *EventService) CreateEvent(ctx context.Context, principal Principal, input EventInput) (Event, error) {
	logger := s.loggerWith(ctx, "CreateEvent", "user_id", principal.UserID)

	if vErr := validateEventInput(input); vErr.HasErrors() {
		logger.ErrorContext(ctx, "event input rejected", "error", vErr, "error_kind", ErrorKind(vErr))
		return Event{}, vErr
	}

	color := input.Color
	if color == "" {
		color = DefaultEventColor
	}

	model, err := s.events.CreateEvent(ctx, persistence.Event{
		ID:          s.newID(),
		UserID:      principal.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
		Color:       color,
		AllDay:      input.AllDay,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to create event", "error", err)
		return Event{}, err
	}

	logger.InfoContext(ctx, "event created", "event_id", model.ID)
	return toEvent(model), nil
}

// UpdateEvent applies a partial patch to an event owned by the principal.
func (s *EventService) UpdateEvent(ctx context.Context, principal Principal, eventID string, patch EventPatch) (Event, error) {
	logger := s.loggerWith(ctx, "UpdateEvent", "user_id", principal.UserID, "event_id", eventID)

	if vErr := validateEventPatch(patch); vErr.HasErrors() {
		logger.ErrorContext(ctx, "event patch rejected", "error", vErr, "error_kind", ErrorKind(vErr))
		return Event{}, vErr
	}

	model, err := s.events.UpdateEvent(ctx, eventID, principal.UserID, persistence.EventPatch{
		Title:       patch.Title,
		Description: patch.Description,
		Start:       patch.Start,
		End:         patch.End,
		Color:       patch.Color,
		AllDay:      patch.AllDay,
	})
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Event{}, ErrNotFound
		}
		logger.ErrorContext(ctx, "failed to update event", "error", err)
		return Event{}, err
	}

	logger.InfoContext(ctx, "event updated")
	return toEvent(model), nil
}

// DeleteEvent removes an event owned by the principal.
func (s *EventService) DeleteEvent(ctx context.Context, principal Principal, eventID string) error {
	logger := s.loggerWith(ctx, "DeleteEvent", "user_id", principal.UserID, "event_id", eventID)

	if err := s.events.DeleteEvent(ctx, eventID, principal.UserID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		logger.ErrorContext(ctx, "failed to delete event", "error", err)
		return err
	}

	logger.InfoContext(ctx, "event deleted")
	return nil
}

func validateEventInput(input EventInput) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if input.Start.IsZero() {
		vErr.add("startTime", "start time is required")
	}
	if input.End.IsZero() {
		vErr.add("endTime", "end time is required")
	}
	if input.Color != "" && !validEventColor(input.Color) {
		vErr.add("color", "color must be one of chart-1 through chart-5")
	}
	return vErr
}

func validateEventPatch(patch EventPatch) *ValidationError {
	vErr := &ValidationError{}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		vErr.add("title", "title is required")
	}
	if patch.Start != nil && patch.Start.IsZero() {
		vErr.add("startTime", "start time is required")
	}
	if patch.End != nil && patch.End.IsZero() {
		vErr.add("endTime", "end time is required")
	}
	if patch.Color != nil && !validEventColor(*patch.Color) {
		vErr.add("color", "color must be one of chart-1 through chart-5")
	}
	return vErr
}
