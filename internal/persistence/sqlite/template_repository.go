package sqlite

import (
	"context"
	"time"

	"github.com/example/calendar-copilot/internal/persistence"
)

// TemplateRepository implements persistence.TemplateRepository using SQLite.
type TemplateRepository struct {
	store *Store
}

// NewTemplateRepository creates a new SQLite template repository.
func NewTemplateRepository(store *Store) *TemplateRepository {
	return &TemplateRepository{store: store}
}

const templateColumns = "id, name, description, prompt, icon, is_default, created_at"

// ListTemplates returns all system-provided templates.
func (r *TemplateRepository) ListTemplates(ctx context.Context) ([]persistence.ScenarioTemplate, error) {
	rows, err := r.store.db.QueryContext(ctx,
		"SELECT "+templateColumns+" FROM templates WHERE is_default = 1 ORDER BY created_at ASC, rowid ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var templates []persistence.ScenarioTemplate
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return templates, nil
}

// GetTemplate retrieves a template by id.
func (r *TemplateRepository) GetTemplate(ctx context.Context, id string) (persistence.ScenarioTemplate, error) {
	if id == "" {
		return persistence.ScenarioTemplate{}, persistence.ErrNotFound
	}

	row := r.store.db.QueryRowContext(ctx,
		"SELECT "+templateColumns+" FROM templates WHERE id = ?", id)
	return scanTemplate(row)
}

// CreateTemplate inserts a new template and returns the stored row.
func (r *TemplateRepository) CreateTemplate(ctx context.Context, template persistence.ScenarioTemplate) (persistence.ScenarioTemplate, error) {
	if template.ID == "" {
		return persistence.ScenarioTemplate{}, persistence.ErrConstraintViolation
	}

	template.CreatedAt = time.Now().UTC()

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		template.ID,
		template.Name,
		template.Description,
		template.Prompt,
		template.Icon,
		boolToInt(template.IsDefault),
		formatTime(template.CreatedAt),
	)
	if err != nil {
		return persistence.ScenarioTemplate{}, mapError(err)
	}

	return template, nil
}

func scanTemplate(row rowScanner) (persistence.ScenarioTemplate, error) {
	var template persistence.ScenarioTemplate
	var isDefault int
	var createdStr string

	err := row.Scan(
		&template.ID,
		&template.Name,
		&template.Description,
		&template.Prompt,
		&template.Icon,
		&isDefault,
		&createdStr,
	)
	if err != nil {
		return persistence.ScenarioTemplate{}, mapError(err)
	}

	template.IsDefault = isDefault != 0
	if template.CreatedAt, err = parseTime(createdStr); err != nil {
		return persistence.ScenarioTemplate{}, err
	}

	return template, nil
}
