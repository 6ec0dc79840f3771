package llm

import (
	"errors"
	"testing"
)

type schedulePayload struct {
	Events []struct {
		Title string `json:"title"`
	} `json:"events"`
	Reply string `json:"reply"`
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	t.Run("plain object", func(t *testing.T) {
		t.Parallel()

		payload, err := ExtractJSON[schedulePayload](`{"events":[{"title":"Standup"}],"reply":"done"}`)
		if err != nil {
			t.Fatalf("ExtractJSON failed: %v", err)
		}
		if len(payload.Events) != 1 || payload.Events[0].Title != "Standup" {
			t.Fatalf("unexpected payload: %#v", payload)
		}
		if payload.Reply != "done" {
			t.Fatalf("unexpected reply: %q", payload.Reply)
		}
	})

	t.Run("markdown fences", func(t *testing.T) {
		t.Parallel()

		raw := "```json\n{\"events\":[],\"reply\":\"fenced\"}\n```"
		payload, err := ExtractJSON[schedulePayload](raw)
		if err != nil {
			t.Fatalf("ExtractJSON failed: %v", err)
		}
		if payload.Reply != "fenced" {
			t.Fatalf("unexpected reply: %q", payload.Reply)
		}
	})

	t.Run("surrounding prose", func(t *testing.T) {
		t.Parallel()

		raw := "Sure! Here is your schedule: {\"events\":[],\"reply\":\"ok\"} Let me know if you need more."
		payload, err := ExtractJSON[schedulePayload](raw)
		if err != nil {
			t.Fatalf("ExtractJSON failed: %v", err)
		}
		if payload.Reply != "ok" {
			t.Fatalf("unexpected reply: %q", payload.Reply)
		}
	})

	t.Run("braces inside strings", func(t *testing.T) {
		t.Parallel()

		raw := `{"events":[],"reply":"use {braces} and \"quotes\" freely"}`
		payload, err := ExtractJSON[schedulePayload](raw)
		if err != nil {
			t.Fatalf("ExtractJSON failed: %v", err)
		}
		if payload.Reply != `use {braces} and "quotes" freely` {
			t.Fatalf("unexpected reply: %q", payload.Reply)
		}
	})

	t.Run("no object present", func(t *testing.T) {
		t.Parallel()

		_, err := ExtractJSON[schedulePayload]("I could not generate a schedule, sorry.")
		if !errors.Is(err, ErrInvalidOutput) {
			t.Fatalf("expected ErrInvalidOutput, got %v", err)
		}
	})

	t.Run("unbalanced object", func(t *testing.T) {
		t.Parallel()

		_, err := ExtractJSON[schedulePayload](`{"events":[`)
		if !errors.Is(err, ErrInvalidOutput) {
			t.Fatalf("expected ErrInvalidOutput, got %v", err)
		}
	})

	t.Run("malformed json inside block", func(t *testing.T) {
		t.Parallel()

		_, err := ExtractJSON[schedulePayload](`{"events": oops}`)
		if !errors.Is(err, ErrInvalidOutput) {
			t.Fatalf("expected ErrInvalidOutput, got %v", err)
		}
	})
}
