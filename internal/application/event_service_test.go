package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEventService_CreateEvent(t *testing.T) {
	principal := Principal{UserID: "user-1"}
	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	t.Run("stores a valid event with defaults applied", func(t *testing.T) {
		repo := &eventRepositoryStub{}
		svc := NewEventService(repo, sequentialIDs("event"), nil)

		event, err := svc.CreateEvent(context.Background(), principal, EventInput{
			Title: "  Standup  ",
			Start: start,
			End:   start.Add(30 * time.Minute),
		})
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}

		if event.ID != "event-1" {
			t.Fatalf("unexpected id: %s", event.ID)
		}
		if event.Title != "Standup" {
			t.Fatalf("title must be trimmed, got %q", event.Title)
		}
		if event.Color != DefaultEventColor {
			t.Fatalf("missing color must default, got %s", event.Color)
		}
		if event.UserID != principal.UserID {
			t.Fatalf("event must be owned by the principal, got %s", event.UserID)
		}
	})

	t.Run("collects all field errors at once", func(t *testing.T) {
		repo := &eventRepositoryStub{}
		svc := NewEventService(repo, nil, nil)

		_, err := svc.CreateEvent(context.Background(), principal, EventInput{Color: "plaid"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"title", "startTime", "endTime", "color"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected error for %s, got %#v", field, vErr.FieldErrors)
			}
		}
		if len(repo.events) != 0 {
			t.Fatal("invalid input must not be stored")
		}
	})

	t.Run("accepts an end before the start", func(t *testing.T) {
		repo := &eventRepositoryStub{}
		svc := NewEventService(repo, nil, nil)

		event, err := svc.CreateEvent(context.Background(), principal, EventInput{
			Title: "Inverted",
			Start: start,
			End:   start.Add(-time.Hour),
		})
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if !event.End.Before(event.Start) {
			t.Fatal("interval ordering must not be enforced")
		}
	})
}

func TestEventService_ListEvents(t *testing.T) {
	repo := &eventRepositoryStub{}
	svc := NewEventService(repo, nil, nil)

	from := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	if _, err := svc.ListEvents(context.Background(), Principal{UserID: "user-1"}, &from, &to); err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if repo.lastFilter.From == nil || !repo.lastFilter.From.Equal(from) {
		t.Fatalf("range lower bound not forwarded: %#v", repo.lastFilter)
	}
	if repo.lastFilter.To == nil || !repo.lastFilter.To.Equal(to) {
		t.Fatalf("range upper bound not forwarded: %#v", repo.lastFilter)
	}
}

func TestEventService_UpdateEvent(t *testing.T) {
	principal := Principal{UserID: "user-1"}

	t.Run("maps a missing row to the not-found sentinel", func(t *testing.T) {
		repo := &eventRepositoryStub{}
		svc := NewEventService(repo, nil, nil)

		title := "New title"
		_, err := svc.UpdateEvent(context.Background(), principal, "ghost", EventPatch{Title: &title})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rejects a patch that blanks the title", func(t *testing.T) {
		repo := &eventRepositoryStub{}
		svc := NewEventService(repo, nil, nil)

		empty := "   "
		_, err := svc.UpdateEvent(context.Background(), principal, "event-1", EventPatch{Title: &empty})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("rejects an unknown color", func(t *testing.T) {
		repo := &eventRepositoryStub{}
		svc := NewEventService(repo, nil, nil)

		color := "chart-9"
		_, err := svc.UpdateEvent(context.Background(), principal, "event-1", EventPatch{Color: &color})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestEventService_DeleteEvent(t *testing.T) {
	repo := &eventRepositoryStub{}
	svc := NewEventService(repo, nil, nil)

	err := svc.DeleteEvent(context.Background(), Principal{UserID: "user-1"}, "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
