package persistence

import "time"

// User represents a calendar account. Rows are upserted on every successful
// authentication and never hard-deleted by application logic.
type User struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
	PasswordHash    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Event represents a titled time interval on a user's calendar.
type Event struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	Start       time.Time
	End         time.Time
	Color       string
	AllDay      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ConversationTurn represents one message in the running copilot chat history.
// Role is either "user" or "assistant".
type ConversationTurn struct {
	ID        string
	UserID    string
	Role      string
	Content   string
	CreatedAt time.Time
}

// ScenarioTemplate represents a named, pre-written prompt that seeds a full
// week schedule through the generation pipeline.
type ScenarioTemplate struct {
	ID          string
	Name        string
	Description string
	Prompt      string
	Icon        string
	IsDefault   bool
	CreatedAt   time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
