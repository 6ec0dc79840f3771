package http

import (
	"time"

	"github.com/example/calendar-copilot/internal/application"
)

type userView struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	CreatedAt       string `json:"createdAt,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

func toUserView(user application.User) userView {
	return userView{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		ProfileImageURL: user.ProfileImageURL,
		CreatedAt:       formatTimestamp(user.CreatedAt),
		UpdatedAt:       formatTimestamp(user.UpdatedAt),
	}
}

type eventView struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Color       string  `json:"color"`
	IsAllDay    bool    `json:"isAllDay"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

func toEventView(event application.Event) eventView {
	return eventView{
		ID:          event.ID,
		UserID:      event.UserID,
		Title:       event.Title,
		Description: event.Description,
		StartTime:   formatTimestamp(event.Start),
		EndTime:     formatTimestamp(event.End),
		Color:       event.Color,
		IsAllDay:    event.AllDay,
		CreatedAt:   formatTimestamp(event.CreatedAt),
		UpdatedAt:   formatTimestamp(event.UpdatedAt),
	}
}

func toEventViews(events []application.Event) []eventView {
	views := make([]eventView, 0, len(events))
	for _, event := range events {
		views = append(views, toEventView(event))
	}
	return views
}

type conversationView struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

func toConversationViews(turns []application.ConversationTurn) []conversationView {
	views := make([]conversationView, 0, len(turns))
	for _, turn := range turns {
		views = append(views, conversationView{
			ID:        turn.ID,
			Role:      turn.Role,
			Content:   turn.Content,
			CreatedAt: formatTimestamp(turn.CreatedAt),
		})
	}
	return views
}

type templateView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
	Icon        string `json:"icon"`
	IsDefault   bool   `json:"isDefault"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

func toTemplateView(template application.Template) templateView {
	return templateView{
		ID:          template.ID,
		Name:        template.Name,
		Description: template.Description,
		Prompt:      template.Prompt,
		Icon:        template.Icon,
		IsDefault:   template.IsDefault,
		CreatedAt:   formatTimestamp(template.CreatedAt),
	}
}

func toTemplateViews(templates []application.Template) []templateView {
	views := make([]templateView, 0, len(templates))
	for _, template := range templates {
		views = append(views, toTemplateView(template))
	}
	return views
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
