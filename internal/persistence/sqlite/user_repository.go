package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/example/calendar-copilot/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

const userColumns = "id, email, first_name, last_name, profile_image_url, password_hash, created_at, updated_at"

// GetUser retrieves a user by id.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}

	row := r.store.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by normalized email address.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return persistence.User{}, persistence.ErrNotFound
	}

	row := r.store.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", normalized)
	return scanUser(row)
}

// UpsertUser inserts the user or refreshes its mutable fields. The password
// hash is only overwritten when the caller supplies a non-empty value, so
// profile refreshes on login do not wipe credentials.
func (r *UserRepository) UpsertUser(ctx context.Context, user persistence.User) (persistence.User, error) {
	if user.ID == "" {
		return persistence.User{}, persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	user.Email = normalizeEmail(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email             = excluded.email,
			first_name        = excluded.first_name,
			last_name         = excluded.last_name,
			profile_image_url = excluded.profile_image_url,
			password_hash     = CASE WHEN excluded.password_hash != ''
				THEN excluded.password_hash ELSE users.password_hash END,
			updated_at        = excluded.updated_at`,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.ProfileImageURL,
		user.PasswordHash,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		return persistence.User{}, mapError(err)
	}

	return r.GetUser(ctx, user.ID)
}

func scanUser(row rowScanner) (persistence.User, error) {
	var user persistence.User
	var createdStr, updatedStr string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.ProfileImageURL,
		&user.PasswordHash,
		&createdStr,
		&updatedStr,
	)
	if err != nil {
		return persistence.User{}, mapError(err)
	}

	if user.CreatedAt, err = parseTime(createdStr); err != nil {
		return persistence.User{}, err
	}
	if user.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return persistence.User{}, err
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
