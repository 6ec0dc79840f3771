package persistence

import (
	"context"
	"time"
)

// EventFilter narrows event listings to intervals intersecting [From, To].
// An event matches when its end is at or after From (if set) and its start is
// at or before To (if set).
type EventFilter struct {
	From *time.Time
	To   *time.Time
}

// EventPatch carries partial event updates. Nil fields are left unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Color       *string
	AllDay      *bool
}

// EventRepository stores calendar events. Every operation that takes a user id
// is scoped to that owner; rows belonging to other users are never returned or
// touched.
type EventRepository interface {
	ListEvents(ctx context.Context, userID string, filter EventFilter) ([]Event, error)
	GetEvent(ctx context.Context, id, userID string) (Event, error)
	CreateEvent(ctx context.Context, event Event) (Event, error)
	UpdateEvent(ctx context.Context, id, userID string, patch EventPatch) (Event, error)
	DeleteEvent(ctx context.Context, id, userID string) error
	DeleteAllEvents(ctx context.Context, userID string) error
	// ReplaceAllEvents deletes every event owned by userID and inserts the
	// provided set within a single transaction. On any failure nothing is
	// changed.
	ReplaceAllEvents(ctx context.Context, userID string, events []Event) ([]Event, error)
}

// ConversationRepository stores copilot chat history. Turns are append-only.
type ConversationRepository interface {
	// ListConversations returns up to limit turns ordered oldest-first.
	ListConversations(ctx context.Context, userID string, limit int) ([]ConversationTurn, error)
	CreateConversation(ctx context.Context, turn ConversationTurn) (ConversationTurn, error)
	DeleteConversations(ctx context.Context, userID string) error
}

// TemplateRepository stores scenario templates. Templates are process-wide
// shared reference data, not owned by a user.
type TemplateRepository interface {
	// ListTemplates returns all system-provided (default) templates.
	ListTemplates(ctx context.Context) ([]ScenarioTemplate, error)
	GetTemplate(ctx context.Context, id string) (ScenarioTemplate, error)
	CreateTemplate(ctx context.Context, template ScenarioTemplate) (ScenarioTemplate, error)
}

// UserRepository stores calendar accounts.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	// UpsertUser inserts the user or refreshes its mutable fields, always
	// bumping the update timestamp.
	UpsertUser(ctx context.Context, user User) (User, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
