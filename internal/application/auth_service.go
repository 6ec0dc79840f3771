package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/calendar-copilot/internal/persistence"
)

const minPasswordLength = 8

// AuthService coordinates account registration, login, and session
// validation. Sessions are opaque tokens persisted server-side with a TTL.
type AuthService struct {
	users          persistence.UserRepository
	sessions       persistence.SessionRepository
	verifyPassword func(hashedPassword, password string) error
	hashPassword   func(password string) (string, error)
	newToken       func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService. The token generator and clock may
// be nil, defaulting to UUIDs and the wall clock; a non-positive TTL falls
// back to 24 hours.
func NewAuthService(
	users persistence.UserRepository,
	sessions persistence.SessionRepository,
	newToken func() string,
	now func() time.Time,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	if newToken == nil {
		newToken = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		users:          users,
		sessions:       sessions,
		verifyPassword: VerifyPassword,
		hashPassword:   HashPassword,
		newToken:       newToken,
		now:            now,
		sessionTTL:     sessionTTL,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Register creates a new account with a hashed password.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (User, error) {
	logger := s.loggerWith(ctx, "Register")

	email := strings.TrimSpace(strings.ToLower(params.Email))

	vErr := &ValidationError{}
	if email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.add("email", "email is invalid")
	}
	if len(params.Password) < minPasswordLength {
		vErr.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if vErr.HasErrors() {
		logger.ErrorContext(ctx, "registration rejected", "error", vErr, "error_kind", ErrorKind(vErr))
		return User{}, vErr
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return User{}, fmt.Errorf("email already registered: %w", ErrAlreadyExists)
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return User{}, err
	}

	hash, err := s.hashPassword(params.Password)
	if err != nil {
		return User{}, err
	}

	stored, err := s.users.UpsertUser(ctx, persistence.User{
		ID:           s.newToken(),
		Email:        email,
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			return User{}, fmt.Errorf("email already registered: %w", ErrAlreadyExists)
		}
		logger.ErrorContext(ctx, "failed to store user", "error", err)
		return User{}, err
	}

	logger.InfoContext(ctx, "user registered", "user_id", stored.ID)
	return toUser(stored), nil
}

// Login validates credentials, refreshes the user row, prunes expired
// sessions, and issues a new session token.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (LoginResult, error) {
	logger := s.loggerWith(ctx, "Login")

	email := strings.TrimSpace(strings.ToLower(params.Email))
	if email == "" || params.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	stored, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := s.verifyPassword(stored.PasswordHash, params.Password); err != nil {
		logger.ErrorContext(ctx, "login failed", "error_kind", ErrorKind(ErrInvalidCredentials))
		return LoginResult{}, ErrInvalidCredentials
	}

	// Successful authentication refreshes the account row; the password hash
	// is left untouched by the empty value.
	refreshed, err := s.users.UpsertUser(ctx, persistence.User{
		ID:              stored.ID,
		Email:           stored.Email,
		FirstName:       stored.FirstName,
		LastName:        stored.LastName,
		ProfileImageURL: stored.ProfileImageURL,
	})
	if err != nil {
		return LoginResult{}, err
	}

	now := s.now()
	if err := s.sessions.DeleteExpiredSessions(ctx, now); err != nil {
		return LoginResult{}, err
	}

	session, err := s.sessions.CreateSession(ctx, persistence.Session{
		ID:        s.newToken(),
		UserID:    refreshed.ID,
		Token:     s.newToken(),
		ExpiresAt: now.Add(s.sessionTTL),
	})
	if err != nil {
		return LoginResult{}, err
	}

	logger.InfoContext(ctx, "login succeeded", "user_id", refreshed.ID, "session_id", session.ID)
	return LoginResult{
		User: toUser(refreshed),
		Session: Session{
			ID:        session.ID,
			UserID:    session.UserID,
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
		},
	}, nil
}

// Logout revokes the session identified by token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	logger := s.loggerWith(ctx, "Logout")

	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidCredentials
	}

	if _, err := s.sessions.RevokeSession(ctx, token, s.now()); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrInvalidCredentials
		}
		logger.ErrorContext(ctx, "failed to revoke session", "error", err)
		return err
	}

	logger.InfoContext(ctx, "session revoked")
	return nil
}

// ValidateSession verifies that the token corresponds to an active session
// and returns the owning principal.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}

	now := s.now()
	if session.RevokedAt != nil && !session.RevokedAt.IsZero() {
		return Principal{}, ErrSessionRevoked
	}
	if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(now) {
		return Principal{}, ErrSessionExpired
	}

	return Principal{UserID: session.UserID}, nil
}

// CurrentUser returns the account record for the authenticated principal.
func (s *AuthService) CurrentUser(ctx context.Context, principal Principal) (User, error) {
	stored, err := s.users.GetUser(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return User{}, ErrUnauthorized
		}
		return User{}, err
	}
	return toUser(stored), nil
}
