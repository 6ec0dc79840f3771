package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/example/calendar-copilot/internal/persistence"
)

// TemplateService exposes the scenario template catalog. Templates are
// process-wide shared reference data, seeded at deployment time and read-only
// from the UI's perspective.
type TemplateService struct {
	templates persistence.TemplateRepository
	newID     func() string
	logger    *slog.Logger
}

// NewTemplateService constructs a TemplateService. newID may be nil, in which
// case UUIDs are generated.
func NewTemplateService(templates persistence.TemplateRepository, newID func() string, logger *slog.Logger) *TemplateService {
	if newID == nil {
		newID = uuid.NewString
	}
	return &TemplateService{
		templates: templates,
		newID:     newID,
		logger:    defaultLogger(logger),
	}
}

func (s *TemplateService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TemplateService", operation, attrs...)
}

// ListTemplates returns all system-provided templates.
func (s *TemplateService) ListTemplates(ctx context.Context) ([]Template, error) {
	models, err := s.templates.ListTemplates(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListTemplates").ErrorContext(ctx, "failed to list templates", "error", err)
		return nil, err
	}

	templates := make([]Template, 0, len(models))
	for _, model := range models {
		templates = append(templates, toTemplate(model))
	}
	return templates, nil
}

// CreateTemplate validates and stores a new template.
func (s *TemplateService) CreateTemplate(ctx context.Context, input TemplateInput) (Template, error) {
	logger := s.loggerWith(ctx, "CreateTemplate")

	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		vErr.add("description", "description is required")
	}
	if strings.TrimSpace(input.Prompt) == "" {
		vErr.add("prompt", "prompt is required")
	}
	if vErr.HasErrors() {
		logger.ErrorContext(ctx, "template input rejected", "error", vErr, "error_kind", ErrorKind(vErr))
		return Template{}, vErr
	}

	icon := strings.TrimSpace(input.Icon)
	if icon == "" {
		icon = "Calendar"
	}

	model, err := s.templates.CreateTemplate(ctx, persistence.ScenarioTemplate{
		ID:          s.newID(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Prompt:      input.Prompt,
		Icon:        icon,
		IsDefault:   input.IsDefault,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to create template", "error", err)
		return Template{}, err
	}

	logger.InfoContext(ctx, "template created", "template_id", model.ID)
	return toTemplate(model), nil
}

// defaultTemplates is the deployment-time scenario catalog. Fixed ids keep
// seeding idempotent across restarts.
var defaultTemplates = []persistence.ScenarioTemplate{
	{
		ID:          "tpl-focus-week",
		Name:        "Focus Week",
		Description: "Dedicated deep work sessions with breaks and minimal distractions",
		Prompt:      "Create a focused work week with 4-hour deep work blocks in the mornings (9 AM - 1 PM), 1-hour lunch breaks, 2-hour focused afternoon sessions (2 PM - 4 PM), and 30-minute breaks between each session. Include daily morning planning at 8:30 AM and end-of-day review at 5 PM. Schedule from Monday to Friday.",
		Icon:        "Zap",
		IsDefault:   true,
	},
	{
		ID:          "tpl-wellness-week",
		Name:        "Wellness Week",
		Description: "Balanced schedule with exercise, meditation, and self-care",
		Prompt:      "Create a wellness-focused week with daily morning meditation at 7 AM (20 minutes), workout sessions at 6:30 PM (1 hour) on Monday, Wednesday, Friday, yoga on Tuesday and Thursday at 6:30 PM (1 hour), healthy meal prep on Sunday at 10 AM (2 hours), and weekly spa/relaxation time on Saturday at 2 PM (2 hours). Include 8-hour sleep blocks from 10 PM to 6 AM daily.",
		Icon:        "Heart",
		IsDefault:   true,
	},
	{
		ID:          "tpl-exam-prep",
		Name:        "Exam Prep",
		Description: "Intensive study schedule with strategic breaks and review sessions",
		Prompt:      "Create an exam preparation week with 3 study blocks per day: morning session 9 AM - 11:30 AM, afternoon session 2 PM - 4:30 PM, and evening review 7 PM - 9 PM. Include 30-minute breaks between sessions, 1-hour lunch at 12 PM, and practice test on Saturday 10 AM - 2 PM. Add daily morning review of flashcards at 8:30 AM and evening recap at 9:30 PM. Sunday has lighter schedule with 2 study sessions and more breaks.",
		Icon:        "GraduationCap",
		IsDefault:   true,
	},
	{
		ID:          "tpl-balanced-routine",
		Name:        "Balanced Routine",
		Description: "Well-rounded weekly schedule mixing work, fitness, and personal time",
		Prompt:      "Create a balanced weekly routine: Work blocks Monday-Friday 9 AM - 12 PM and 1 PM - 5 PM with 1-hour lunch break. Morning gym sessions Monday, Wednesday, Friday at 7 AM (1 hour). Hobby time Tuesday and Thursday evenings 7 PM - 9 PM. Family dinner Sunday at 6 PM (2 hours). Weekend morning coffee and reading Saturday 8 AM - 10 AM. Add meal planning Sunday 11 AM (1 hour).",
		Icon:        "Target",
		IsDefault:   true,
	},
}

// SeedDefaults inserts the built-in scenario templates, skipping any already
// present.
func (s *TemplateService) SeedDefaults(ctx context.Context) error {
	logger := s.loggerWith(ctx, "SeedDefaults")

	for _, template := range defaultTemplates {
		if _, err := s.templates.CreateTemplate(ctx, template); err != nil {
			if errors.Is(err, persistence.ErrDuplicate) {
				continue
			}
			logger.ErrorContext(ctx, "failed to seed template", "template_id", template.ID, "error", err)
			return err
		}
		logger.InfoContext(ctx, "seeded template", "template_id", template.ID, "template_name", template.Name)
	}
	return nil
}
