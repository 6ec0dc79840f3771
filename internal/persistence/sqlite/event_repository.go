package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/calendar-copilot/internal/persistence"
)

// EventRepository implements persistence.EventRepository using SQLite.
type EventRepository struct {
	store *Store
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(store *Store) *EventRepository {
	return &EventRepository{store: store}
}

const eventColumns = "id, user_id, title, description, start_time, end_time, color, is_all_day, created_at, updated_at"

// ListEvents returns events owned by userID whose interval intersects the
// filter range when bounds are given.
func (r *EventRepository) ListEvents(ctx context.Context, userID string, filter persistence.EventFilter) ([]persistence.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE user_id = ?"
	args := []any{userID}

	if filter.From != nil {
		query += " AND end_time >= ?"
		args = append(args, formatTime(*filter.From))
	}
	if filter.To != nil {
		query += " AND start_time <= ?"
		args = append(args, formatTime(*filter.To))
	}
	query += " ORDER BY start_time ASC, id ASC"

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var events []persistence.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return events, nil
}

// GetEvent retrieves a single event filtered by both id and owner.
func (r *EventRepository) GetEvent(ctx context.Context, id, userID string) (persistence.Event, error) {
	if id == "" {
		return persistence.Event{}, persistence.ErrNotFound
	}

	row := r.store.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ? AND user_id = ?", id, userID)
	event, err := scanEvent(row)
	if err != nil {
		return persistence.Event{}, err
	}
	return event, nil
}

// CreateEvent inserts a new event and returns the stored row.
func (r *EventRepository) CreateEvent(ctx context.Context, event persistence.Event) (persistence.Event, error) {
	if event.ID == "" {
		return persistence.Event{}, persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := r.insertEvent(ctx, r.store.db, event); err != nil {
		return persistence.Event{}, err
	}
	return r.GetEvent(ctx, event.ID, event.UserID)
}

// UpdateEvent applies a partial patch to the row matching id and owner,
// refreshing the update timestamp. Returns ErrNotFound when no row matches.
func (r *EventRepository) UpdateEvent(ctx context.Context, id, userID string, patch persistence.EventPatch) (persistence.Event, error) {
	if id == "" {
		return persistence.Event{}, persistence.ErrNotFound
	}

	assignments := make([]string, 0, 7)
	args := make([]any, 0, 9)

	if patch.Title != nil {
		assignments = append(assignments, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		assignments = append(assignments, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Start != nil {
		assignments = append(assignments, "start_time = ?")
		args = append(args, formatTime(*patch.Start))
	}
	if patch.End != nil {
		assignments = append(assignments, "end_time = ?")
		args = append(args, formatTime(*patch.End))
	}
	if patch.Color != nil {
		assignments = append(assignments, "color = ?")
		args = append(args, *patch.Color)
	}
	if patch.AllDay != nil {
		assignments = append(assignments, "is_all_day = ?")
		args = append(args, boolToInt(*patch.AllDay))
	}

	assignments = append(assignments, "updated_at = ?")
	args = append(args, formatTime(time.Now().UTC()))
	args = append(args, id, userID)

	query := "UPDATE events SET " + strings.Join(assignments, ", ") + " WHERE id = ? AND user_id = ?"
	result, err := r.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return persistence.Event{}, mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.Event{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.Event{}, persistence.ErrNotFound
	}

	return r.GetEvent(ctx, id, userID)
}

// DeleteEvent removes the row matching id and owner. Returns ErrNotFound when
// nothing was removed.
func (r *EventRepository) DeleteEvent(ctx context.Context, id, userID string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.store.db.ExecContext(ctx,
		"DELETE FROM events WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteAllEvents removes every event owned by userID.
func (r *EventRepository) DeleteAllEvents(ctx context.Context, userID string) error {
	_, err := r.store.db.ExecContext(ctx, "DELETE FROM events WHERE user_id = ?", userID)
	return mapError(err)
}

// ReplaceAllEvents wipes the owner's events and inserts the provided set in a
// single transaction. A failure on any insert rolls the whole replace back,
// leaving the prior event set intact.
func (r *EventRepository) ReplaceAllEvents(ctx context.Context, userID string, events []persistence.Event) ([]persistence.Event, error) {
	now := time.Now().UTC()

	err := r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM events WHERE user_id = ?", userID); err != nil {
			return mapError(err)
		}
		for i := range events {
			events[i].UserID = userID
			events[i].CreatedAt = now
			events[i].UpdatedAt = now
			if events[i].ID == "" {
				return persistence.ErrConstraintViolation
			}
			if err := r.insertEvent(ctx, tx, events[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.ListEvents(ctx, userID, persistence.EventFilter{})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *EventRepository) insertEvent(ctx context.Context, db execer, event persistence.Event) error {
	var description sql.NullString
	if event.Description != nil {
		description = sql.NullString{String: *event.Description, Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.UserID,
		event.Title,
		description,
		formatTime(event.Start),
		formatTime(event.End),
		event.Color,
		boolToInt(event.AllDay),
		formatTime(event.CreatedAt),
		formatTime(event.UpdatedAt),
	)
	return mapError(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (persistence.Event, error) {
	var event persistence.Event
	var description sql.NullString
	var startStr, endStr, createdStr, updatedStr string
	var allDay int

	err := row.Scan(
		&event.ID,
		&event.UserID,
		&event.Title,
		&description,
		&startStr,
		&endStr,
		&event.Color,
		&allDay,
		&createdStr,
		&updatedStr,
	)
	if err != nil {
		return persistence.Event{}, mapError(err)
	}

	if description.Valid {
		event.Description = &description.String
	}
	event.AllDay = allDay != 0

	if event.Start, err = parseTime(startStr); err != nil {
		return persistence.Event{}, err
	}
	if event.End, err = parseTime(endStr); err != nil {
		return persistence.Event{}, err
	}
	if event.CreatedAt, err = parseTime(createdStr); err != nil {
		return persistence.Event{}, err
	}
	if event.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return persistence.Event{}, err
	}

	return event, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
