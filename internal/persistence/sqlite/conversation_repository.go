package sqlite

import (
	"context"
	"time"

	"github.com/example/calendar-copilot/internal/persistence"
)

const defaultConversationLimit = 50

// ConversationRepository implements persistence.ConversationRepository using
// SQLite.
type ConversationRepository struct {
	store *Store
}

// NewConversationRepository creates a new SQLite conversation repository.
func NewConversationRepository(store *Store) *ConversationRepository {
	return &ConversationRepository{store: store}
}

// ListConversations returns the most recent limit turns owned by userID,
// ordered oldest-first so they replay as a conversation. The rowid tiebreak
// keeps turns created within the same second in insertion order.
func (r *ConversationRepository) ListConversations(ctx context.Context, userID string, limit int) ([]persistence.ConversationTurn, error) {
	if limit <= 0 {
		limit = defaultConversationLimit
	}

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, user_id, role, content, created_at FROM (
			SELECT id, user_id, role, content, created_at, rowid AS rid
			FROM conversations
			WHERE user_id = ?
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		)
		ORDER BY created_at ASC, rid ASC`, userID, limit)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var turns []persistence.ConversationTurn
	for rows.Next() {
		var turn persistence.ConversationTurn
		var createdStr string
		if err := rows.Scan(&turn.ID, &turn.UserID, &turn.Role, &turn.Content, &createdStr); err != nil {
			return nil, mapError(err)
		}
		if turn.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return turns, nil
}

// CreateConversation appends a new turn and returns the stored row.
func (r *ConversationRepository) CreateConversation(ctx context.Context, turn persistence.ConversationTurn) (persistence.ConversationTurn, error) {
	if turn.ID == "" {
		return persistence.ConversationTurn{}, persistence.ErrConstraintViolation
	}

	turn.CreatedAt = time.Now().UTC()

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO conversations (id, user_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		turn.ID,
		turn.UserID,
		turn.Role,
		turn.Content,
		formatTime(turn.CreatedAt),
	)
	if err != nil {
		return persistence.ConversationTurn{}, mapError(err)
	}

	return turn, nil
}

// DeleteConversations removes every turn owned by userID.
func (r *ConversationRepository) DeleteConversations(ctx context.Context, userID string) error {
	_, err := r.store.db.ExecContext(ctx, "DELETE FROM conversations WHERE user_id = ?", userID)
	return mapError(err)
}
