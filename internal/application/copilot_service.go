package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/calendar-copilot/internal/llm"
	"github.com/example/calendar-copilot/internal/persistence"
)

// completionMaxTokens bounds the output of every completion call.
const completionMaxTokens = 2048

const defaultHistoryLimit = 10

// completionPayload is the JSON shape the system prompt instructs the model
// to produce.
type completionPayload struct {
	Events []generatedEvent `json:"events"`
	Reply  string           `json:"reply"`
}

type generatedEvent struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Color       string `json:"color"`
}

// CopilotService turns natural-language schedule requests into persisted
// calendar events via an external chat-completion service. Applying a result
// is a full replace of the user's events, executed in a single transaction.
type CopilotService struct {
	completions   llm.Client
	events        persistence.EventRepository
	conversations persistence.ConversationRepository
	templates     persistence.TemplateRepository
	newID         func() string
	now           func() time.Time
	historyLimit  int
	logger        *slog.Logger
}

// NewCopilotService constructs a CopilotService. newID and now may be nil,
// defaulting to UUIDs and the wall clock; historyLimit <= 0 uses the default
// window of 10 turns.
func NewCopilotService(
	completions llm.Client,
	events persistence.EventRepository,
	conversations persistence.ConversationRepository,
	templates persistence.TemplateRepository,
	newID func() string,
	now func() time.Time,
	historyLimit int,
	logger *slog.Logger,
) *CopilotService {
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &CopilotService{
		completions:   completions,
		events:        events,
		conversations: conversations,
		templates:     templates,
		newID:         newID,
		now:           now,
		historyLimit:  historyLimit,
		logger:        defaultLogger(logger),
	}
}

func (s *CopilotService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CopilotService", operation, attrs...)
}

// Generate builds a conversation from the user's history plus the new prompt,
// asks the completion service for a schedule, and replaces the user's events
// with the validated result. Two conversation turns (user, then assistant)
// are recorded regardless of whether any events were produced.
func (s *CopilotService) Generate(ctx context.Context, principal Principal, prompt string) (GenerateResult, error) {
	logger := s.loggerWith(ctx, "Generate", "user_id", principal.UserID)

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		vErr := &ValidationError{}
		vErr.add("prompt", "prompt is required")
		return GenerateResult{}, vErr
	}

	history, err := s.conversations.ListConversations(ctx, principal.UserID, s.historyLimit)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load conversation history", "error", err)
		return GenerateResult{}, err
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: generateSystemPrompt(s.now())})
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})

	return s.completeAndApply(ctx, principal, prompt, messages, generateReplyFallback, logger)
}

// ApplyTemplate resolves a system template and delegates to the generation
// flow using its canned prompt. An unknown or non-system template id fails
// before anything is mutated or recorded.
func (s *CopilotService) ApplyTemplate(ctx context.Context, principal Principal, templateID string) (GenerateResult, error) {
	logger := s.loggerWith(ctx, "ApplyTemplate", "user_id", principal.UserID, "template_id", templateID)

	if strings.TrimSpace(templateID) == "" {
		vErr := &ValidationError{}
		vErr.add("templateId", "template id is required")
		return GenerateResult{}, vErr
	}

	template, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return GenerateResult{}, fmt.Errorf("template not found: %w", ErrNotFound)
		}
		logger.ErrorContext(ctx, "failed to load template", "error", err)
		return GenerateResult{}, err
	}
	if !template.IsDefault {
		return GenerateResult{}, fmt.Errorf("template not found: %w", ErrNotFound)
	}

	logger.InfoContext(ctx, "applying scenario template", "template_name", template.Name)
	return s.Generate(ctx, principal, template.Prompt)
}

// ModifySchedule sends a single-turn request with the user's current events
// inlined into the system instruction. The model returns the complete updated
// event list, which replaces the stored set the same way Generate does.
func (s *CopilotService) ModifySchedule(ctx context.Context, principal Principal, modification string) (GenerateResult, error) {
	logger := s.loggerWith(ctx, "ModifySchedule", "user_id", principal.UserID)

	modification = strings.TrimSpace(modification)
	if modification == "" {
		vErr := &ValidationError{}
		vErr.add("modification", "modification is required")
		return GenerateResult{}, vErr
	}

	current, err := s.events.ListEvents(ctx, principal.UserID, persistence.EventFilter{})
	if err != nil {
		logger.ErrorContext(ctx, "failed to load current events", "error", err)
		return GenerateResult{}, err
	}

	inlined := make([]generatedEvent, 0, len(current))
	for _, event := range current {
		inlinedEvent := generatedEvent{
			Title:     event.Title,
			StartTime: event.Start.UTC().Format(time.RFC3339),
			EndTime:   event.End.UTC().Format(time.RFC3339),
			Color:     event.Color,
		}
		if event.Description != nil {
			inlinedEvent.Description = *event.Description
		}
		inlined = append(inlined, inlinedEvent)
	}
	currentJSON, err := json.MarshalIndent(inlined, "", "  ")
	if err != nil {
		return GenerateResult{}, fmt.Errorf("failed to encode current events: %w", err)
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: modifySystemPrompt(string(currentJSON))},
		{Role: llm.RoleUser, Content: modification},
	}

	return s.completeAndApply(ctx, principal, modification, messages, modifyReplyFallback, logger)
}

// Conversations returns the principal's chat history ordered oldest-first.
func (s *CopilotService) Conversations(ctx context.Context, principal Principal) ([]ConversationTurn, error) {
	models, err := s.conversations.ListConversations(ctx, principal.UserID, 0)
	if err != nil {
		s.loggerWith(ctx, "Conversations", "user_id", principal.UserID).
			ErrorContext(ctx, "failed to list conversations", "error", err)
		return nil, err
	}

	turns := make([]ConversationTurn, 0, len(models))
	for _, model := range models {
		turns = append(turns, toTurn(model))
	}
	return turns, nil
}

// completeAndApply is the shared tail of every generation flow: call the
// completion service, parse its reply, record the two conversation turns, and
// transactionally replace the user's events with the validated set.
func (s *CopilotService) completeAndApply(
	ctx context.Context,
	principal Principal,
	userContent string,
	messages []llm.Message,
	fallbackReply string,
	logger *slog.Logger,
) (GenerateResult, error) {
	resp, err := s.completions.Complete(ctx, llm.ChatRequest{
		Messages:  messages,
		MaxTokens: completionMaxTokens,
		JSONOnly:  true,
	})
	if err != nil {
		logger.ErrorContext(ctx, "completion request failed", "error", err, "error_kind", ErrorKind(ErrCompletionFailed))
		return GenerateResult{}, fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	// A malformed or absent JSON body is a degraded success: the user sees
	// the fallback reply and an empty schedule rather than an error.
	payload, parseErr := llm.ExtractJSON[completionPayload](resp.Text)
	if parseErr != nil {
		logger.WarnContext(ctx, "completion reply was not valid JSON", "error", parseErr)
		payload = completionPayload{}
	}

	reply := strings.TrimSpace(payload.Reply)
	if reply == "" {
		reply = fallbackReply
	}

	// The prompt and reply are persisted in that order even when no events
	// were produced, so the chat history always mirrors what the user saw.
	if _, err := s.conversations.CreateConversation(ctx, persistence.ConversationTurn{
		ID:      s.newID(),
		UserID:  principal.UserID,
		Role:    RoleUser,
		Content: userContent,
	}); err != nil {
		logger.ErrorContext(ctx, "failed to record user turn", "error", err)
		return GenerateResult{}, err
	}
	if _, err := s.conversations.CreateConversation(ctx, persistence.ConversationTurn{
		ID:      s.newID(),
		UserID:  principal.UserID,
		Role:    RoleAssistant,
		Content: reply,
	}); err != nil {
		logger.ErrorContext(ctx, "failed to record assistant turn", "error", err)
		return GenerateResult{}, err
	}

	// Events that parse but fail validation are the model's failure, not the
	// caller's input, so they surface as a completion failure rather than a
	// field-level validation error.
	validated, vErr := s.validateGeneratedEvents(principal.UserID, payload.Events)
	if vErr.HasErrors() {
		err := fmt.Errorf("%w: generated events rejected: %v", ErrCompletionFailed, vErr.FieldErrors)
		logger.ErrorContext(ctx, "generated events rejected", "error", err, "error_kind", ErrorKind(err))
		return GenerateResult{}, err
	}

	if _, err := s.events.ReplaceAllEvents(ctx, principal.UserID, validated); err != nil {
		logger.ErrorContext(ctx, "failed to replace events", "error", err)
		return GenerateResult{}, err
	}

	logger.InfoContext(ctx, "schedule applied", "event_count", len(validated), "model", resp.Model, "latency_ms", resp.LatencyMs)
	return GenerateResult{Reply: reply, EventCount: len(validated)}, nil
}

// validateGeneratedEvents coerces model output into persistence rows: titles
// must be non-empty, timestamps must parse, unknown colors fall back to the
// first category slot, and the all-day flag is forced off.
func (s *CopilotService) validateGeneratedEvents(userID string, events []generatedEvent) ([]persistence.Event, *ValidationError) {
	vErr := &ValidationError{}
	validated := make([]persistence.Event, 0, len(events))

	for i, event := range events {
		field := fmt.Sprintf("events[%d]", i)

		title := strings.TrimSpace(event.Title)
		if title == "" {
			vErr.add(field+".title", "title is required")
			continue
		}

		start, err := parseGeneratedTime(event.StartTime)
		if err != nil {
			vErr.add(field+".startTime", "start time must be an ISO 8601 timestamp")
			continue
		}
		end, err := parseGeneratedTime(event.EndTime)
		if err != nil {
			vErr.add(field+".endTime", "end time must be an ISO 8601 timestamp")
			continue
		}

		color := event.Color
		if !validEventColor(color) {
			color = DefaultEventColor
		}

		row := persistence.Event{
			ID:     s.newID(),
			UserID: userID,
			Title:  title,
			Start:  start,
			End:    end,
			Color:  color,
			AllDay: false,
		}
		if desc := strings.TrimSpace(event.Description); desc != "" {
			row.Description = &desc
		}
		validated = append(validated, row)
	}

	if vErr.HasErrors() {
		return nil, vErr
	}
	return validated, nil
}

func parseGeneratedTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	// Models sometimes omit the zone designator.
	return time.Parse("2006-01-02T15:04:05", value)
}
