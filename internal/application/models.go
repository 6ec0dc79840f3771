package application

import (
	"time"

	"github.com/example/calendar-copilot/internal/persistence"
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID string
}

// Conversation turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultEventColor is the first category slot, applied when no color is
// supplied.
const DefaultEventColor = "chart-1"

// EventColors is the fixed five-slot category enumeration. The slots carry
// category-purpose hints only (work/study, health, important, social,
// personal); nothing enforces how a slot is used.
var EventColors = []string{"chart-1", "chart-2", "chart-3", "chart-4", "chart-5"}

func validEventColor(color string) bool {
	for _, c := range EventColors {
		if c == color {
			return true
		}
	}
	return false
}

// User represents a calendar account exposed by the application services.
type User struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Event represents a persisted calendar event.
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

// EventInput captures caller provided event fields for creation.
type EventInput struct {
	Title       string
	Description *string
	Start       time.Time
	End         time.Time
	Color       string
	AllDay      bool
}

// EventPatch captures a partial event update. Nil fields are left unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Color       *string
	AllDay      *bool
}

// ConversationTurn represents one message in the copilot chat history.
type ConversationTurn struct {
	ID        string
	UserID    string
	Role      string
	Content   string
	CreatedAt time.Time
}

// Template represents a scenario template.
type Template struct {
	ID          string
	Name        string
	Description string
	Prompt      string
	Icon        string
	IsDefault   bool
	CreatedAt   time.Time
}

// TemplateInput captures caller provided template fields.
type TemplateInput struct {
	Name        string
	Description string
	Prompt      string
	Icon        string
	IsDefault   bool
}

// GenerateResult captures the outcome of a schedule generation request. The
// created events are not included; clients refetch the calendar.
type GenerateResult struct {
	Reply      string
	EventCount int
}

// RegisterParams captures the data required to create an account.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginParams captures the data required to authenticate.
type LoginParams struct {
	Email    string
	Password string
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// LoginResult captures the outcome of a successful authentication attempt.
type LoginResult struct {
	User    User
	Session Session
}

func toUser(model persistence.User) User {
	return User{
		ID:              model.ID,
		Email:           model.Email,
		FirstName:       model.FirstName,
		LastName:        model.LastName,
		ProfileImageURL: model.ProfileImageURL,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toEvent(model persistence.Event) Event {
	return Event{
		ID:          model.ID,
		UserID:      model.UserID,
		Title:       model.Title,
		Description: model.Description,
		Start:       model.Start,
		End:         model.End,
		Color:       model.Color,
		AllDay:      model.AllDay,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toEvents(models []persistence.Event) []Event {
	if len(models) == 0 {
		return nil
	}
	events := make([]Event, 0, len(models))
	for _, model := range models {
		events = append(events, toEvent(model))
	}
	return events
}

func toTurn(model persistence.ConversationTurn) ConversationTurn {
	return ConversationTurn(model)
}

func toTemplate(model persistence.ScenarioTemplate) Template {
	return Template(model)
}
