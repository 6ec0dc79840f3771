package application

import (
	"context"
	"fmt"
	"time"

	"github.com/example/calendar-copilot/internal/llm"
	"github.com/example/calendar-copilot/internal/persistence"
)

type eventRepositoryStub struct {
	events       []persistence.Event
	listErr      error
	getErr       error
	createErr    error
	updateErr    error
	deleteErr    error
	replaceErr   error
	replaceCalls [][]persistence.Event

	lastFilter persistence.EventFilter
	lastPatch  persistence.EventPatch
}

func (s *eventRepositoryStub) ListEvents(_ context.Context, userID string, filter persistence.EventFilter) ([]persistence.Event, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.lastFilter = filter
	var owned []persistence.Event
	for _, event := range s.events {
		if event.UserID == userID {
			owned = append(owned, event)
		}
	}
	return owned, nil
}

func (s *eventRepositoryStub) GetEvent(_ context.Context, id, userID string) (persistence.Event, error) {
	if s.getErr != nil {
		return persistence.Event{}, s.getErr
	}
	for _, event := range s.events {
		if event.ID == id && event.UserID == userID {
			return event, nil
		}
	}
	return persistence.Event{}, persistence.ErrNotFound
}

func (s *eventRepositoryStub) CreateEvent(_ context.Context, event persistence.Event) (persistence.Event, error) {
	if s.createErr != nil {
		return persistence.Event{}, s.createErr
	}
	s.events = append(s.events, event)
	return event, nil
}

func (s *eventRepositoryStub) UpdateEvent(_ context.Context, id, userID string, patch persistence.EventPatch) (persistence.Event, error) {
	if s.updateErr != nil {
		return persistence.Event{}, s.updateErr
	}
	s.lastPatch = patch
	for i := range s.events {
		if s.events[i].ID == id && s.events[i].UserID == userID {
			if patch.Title != nil {
				s.events[i].Title = *patch.Title
			}
			if patch.Start != nil {
				s.events[i].Start = *patch.Start
			}
			if patch.End != nil {
				s.events[i].End = *patch.End
			}
			if patch.Color != nil {
				s.events[i].Color = *patch.Color
			}
			return s.events[i], nil
		}
	}
	return persistence.Event{}, persistence.ErrNotFound
}

func (s *eventRepositoryStub) DeleteEvent(_ context.Context, id, userID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i := range s.events {
		if s.events[i].ID == id && s.events[i].UserID == userID {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *eventRepositoryStub) DeleteAllEvents(_ context.Context, userID string) error {
	kept := s.events[:0]
	for _, event := range s.events {
		if event.UserID != userID {
			kept = append(kept, event)
		}
	}
	s.events = kept
	return nil
}

func (s *eventRepositoryStub) ReplaceAllEvents(ctx context.Context, userID string, events []persistence.Event) ([]persistence.Event, error) {
	if s.replaceErr != nil {
		return nil, s.replaceErr
	}
	s.replaceCalls = append(s.replaceCalls, append([]persistence.Event(nil), events...))
	_ = s.DeleteAllEvents(ctx, userID)
	for i := range events {
		events[i].UserID = userID
	}
	s.events = append(s.events, events...)
	return events, nil
}

type conversationRepositoryStub struct {
	turns     []persistence.ConversationTurn
	listErr   error
	createErr error

	lastLimit int
}

func (s *conversationRepositoryStub) ListConversations(_ context.Context, userID string, limit int) ([]persistence.ConversationTurn, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.lastLimit = limit
	var owned []persistence.ConversationTurn
	for _, turn := range s.turns {
		if turn.UserID == userID {
			owned = append(owned, turn)
		}
	}
	if limit > 0 && len(owned) > limit {
		owned = owned[len(owned)-limit:]
	}
	return owned, nil
}

func (s *conversationRepositoryStub) CreateConversation(_ context.Context, turn persistence.ConversationTurn) (persistence.ConversationTurn, error) {
	if s.createErr != nil {
		return persistence.ConversationTurn{}, s.createErr
	}
	s.turns = append(s.turns, turn)
	return turn, nil
}

func (s *conversationRepositoryStub) DeleteConversations(_ context.Context, userID string) error {
	kept := s.turns[:0]
	for _, turn := range s.turns {
		if turn.UserID != userID {
			kept = append(kept, turn)
		}
	}
	s.turns = kept
	return nil
}

type templateRepositoryStub struct {
	templates map[string]persistence.ScenarioTemplate
	getErr    error
	createErr error
}

func newTemplateRepositoryStub() *templateRepositoryStub {
	return &templateRepositoryStub{templates: make(map[string]persistence.ScenarioTemplate)}
}

func (s *templateRepositoryStub) ListTemplates(_ context.Context) ([]persistence.ScenarioTemplate, error) {
	var defaults []persistence.ScenarioTemplate
	for _, template := range s.templates {
		if template.IsDefault {
			defaults = append(defaults, template)
		}
	}
	return defaults, nil
}

func (s *templateRepositoryStub) GetTemplate(_ context.Context, id string) (persistence.ScenarioTemplate, error) {
	if s.getErr != nil {
		return persistence.ScenarioTemplate{}, s.getErr
	}
	template, ok := s.templates[id]
	if !ok {
		return persistence.ScenarioTemplate{}, persistence.ErrNotFound
	}
	return template, nil
}

func (s *templateRepositoryStub) CreateTemplate(_ context.Context, template persistence.ScenarioTemplate) (persistence.ScenarioTemplate, error) {
	if s.createErr != nil {
		return persistence.ScenarioTemplate{}, s.createErr
	}
	if _, exists := s.templates[template.ID]; exists {
		return persistence.ScenarioTemplate{}, persistence.ErrDuplicate
	}
	s.templates[template.ID] = template
	return template, nil
}

type userRepositoryStub struct {
	users     map[string]persistence.User
	upsertErr error

	lastUpserted persistence.User
}

func newUserRepositoryStub() *userRepositoryStub {
	return &userRepositoryStub{users: make(map[string]persistence.User)}
}

func (s *userRepositoryStub) GetUser(_ context.Context, id string) (persistence.User, error) {
	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

func (s *userRepositoryStub) GetUserByEmail(_ context.Context, email string) (persistence.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

func (s *userRepositoryStub) UpsertUser(_ context.Context, user persistence.User) (persistence.User, error) {
	if s.upsertErr != nil {
		return persistence.User{}, s.upsertErr
	}
	s.lastUpserted = user
	if existing, ok := s.users[user.ID]; ok && user.PasswordHash == "" {
		user.PasswordHash = existing.PasswordHash
	}
	s.users[user.ID] = user
	return user, nil
}

type sessionRepositoryStub struct {
	sessions  map[string]persistence.Session
	createErr error

	deleteCalls []time.Time
}

func newSessionRepositoryStub() *sessionRepositoryStub {
	return &sessionRepositoryStub{sessions: make(map[string]persistence.Session)}
}

func (s *sessionRepositoryStub) CreateSession(_ context.Context, session persistence.Session) (persistence.Session, error) {
	if s.createErr != nil {
		return persistence.Session{}, s.createErr
	}
	s.sessions[session.Token] = session
	return session, nil
}

func (s *sessionRepositoryStub) GetSession(_ context.Context, token string) (persistence.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return session, nil
}

func (s *sessionRepositoryStub) RevokeSession(_ context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	session.RevokedAt = &revokedAt
	s.sessions[token] = session
	return session, nil
}

func (s *sessionRepositoryStub) DeleteExpiredSessions(_ context.Context, reference time.Time) error {
	s.deleteCalls = append(s.deleteCalls, reference)
	for token, session := range s.sessions {
		if !session.ExpiresAt.After(reference) {
			delete(s.sessions, token)
		}
	}
	return nil
}

type completionClientStub struct {
	response llm.ChatResponse
	err      error

	requests []llm.ChatRequest
}

func (s *completionClientStub) Complete(_ context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return llm.ChatResponse{}, s.err
	}
	return s.response, nil
}

func sequentialIDs(prefix string) func() string {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("%s-%d", prefix, counter)
	}
}
