package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/calendar-copilot/internal/persistence"
)

var (
	userCounter     uint64
	eventCounter    uint64
	turnCounter     uint64
	templateCounter uint64
	sessionCounter  uint64
)

var referenceTime = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// UserOption configures a generated user fixture.
type UserOption func(*persistence.User)

// WithUserEmail overrides the fixture email.
func WithUserEmail(email string) UserOption {
	return func(u *persistence.User) { u.Email = email }
}

// WithPasswordHash overrides the stored password hash.
func WithPasswordHash(hash string) UserOption {
	return func(u *persistence.User) { u.PasswordHash = hash }
}

// NewUser returns a deterministic user record with optional overrides.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	user := persistence.User{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User%03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// EventOption configures a generated event fixture.
type EventOption func(*persistence.Event)

// WithEventOwner assigns the event to a specific user.
func WithEventOwner(userID string) EventOption {
	return func(e *persistence.Event) { e.UserID = userID }
}

// WithEventWindow overrides the start and end instants.
func WithEventWindow(start, end time.Time) EventOption {
	return func(e *persistence.Event) {
		e.Start = start
		e.End = end
	}
}

// WithEventColor overrides the category color slot.
func WithEventColor(color string) EventOption {
	return func(e *persistence.Event) { e.Color = color }
}

// NewEvent returns a deterministic one-hour event with optional overrides.
// Successive fixtures are staggered an hour apart so range queries stay
// unambiguous.
func NewEvent(opts ...EventOption) persistence.Event {
	idx := atomic.AddUint64(&eventCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	event := persistence.Event{
		ID:     fmt.Sprintf("event-%03d", idx),
		UserID: "user-001",
		Title:  fmt.Sprintf("Event %03d", idx),
		Start:  start,
		End:    start.Add(time.Hour),
		Color:  "chart-1",
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}

// NewConversationTurn returns a deterministic chat turn for the given user
// and role.
func NewConversationTurn(userID, role, content string) persistence.ConversationTurn {
	idx := atomic.AddUint64(&turnCounter, 1)
	return persistence.ConversationTurn{
		ID:        fmt.Sprintf("turn-%03d", idx),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Second),
	}
}

// NewTemplate returns a deterministic scenario template.
func NewTemplate(isDefault bool) persistence.ScenarioTemplate {
	idx := atomic.AddUint64(&templateCounter, 1)
	return persistence.ScenarioTemplate{
		ID:          fmt.Sprintf("template-%03d", idx),
		Name:        fmt.Sprintf("Template %03d", idx),
		Description: "A deterministic scenario for tests",
		Prompt:      "Create a simple weekly schedule",
		Icon:        "Calendar",
		IsDefault:   isDefault,
	}
}

// NewSession returns a deterministic session for the given user, expiring one
// day after the reference time.
func NewSession(userID string) persistence.Session {
	idx := atomic.AddUint64(&sessionCounter, 1)
	return persistence.Session{
		ID:        fmt.Sprintf("session-%03d", idx),
		UserID:    userID,
		Token:     fmt.Sprintf("token-%03d", idx),
		ExpiresAt: referenceTime.Add(24 * time.Hour),
	}
}
