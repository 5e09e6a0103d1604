package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/plateplan/internal/db"
	"github.com/alexanderramin/plateplan/internal/domain"
)

// SQLiteTemplateRepo implements TemplateRepo using a SQLite database.
type SQLiteTemplateRepo struct {
	db db.DBTX
}

func NewSQLiteTemplateRepo(conn db.DBTX) *SQLiteTemplateRepo {
	return &SQLiteTemplateRepo{db: conn}
}

const templateColumns = `id, kind, name, category, content_json, totals_json, servings,
	duration_min, tags_json, is_active_recovery`

func (r *SQLiteTemplateRepo) Upsert(ctx context.Context, t *domain.Template) error {
	content, err := toJSON(t.Content)
	if err != nil {
		return err
	}
	totals, err := toJSON(t.Totals)
	if err != nil {
		return err
	}
	tags, err := toJSON(stringsOrEmpty(t.Tags))
	if err != nil {
		return err
	}
	now := nowUTC()
	query := `INSERT INTO templates (` + templateColumns + `, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			name = excluded.name,
			category = excluded.category,
			content_json = excluded.content_json,
			totals_json = excluded.totals_json,
			servings = excluded.servings,
			duration_min = excluded.duration_min,
			tags_json = excluded.tags_json,
			is_active_recovery = excluded.is_active_recovery,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		string(t.Kind),
		t.Name,
		t.Category,
		content,
		totals,
		t.EffectiveServings(),
		t.DurationMin,
		tags,
		boolToInt(t.IsActiveRecovery),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upserting template %s: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteTemplateRepo) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = ?`
	t, err := scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTemplateRepo) List(ctx context.Context, kind domain.Kind) ([]domain.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var out []domain.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating templates: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*domain.Template, error) {
	var t domain.Template
	var kind, content, totals, tags string
	var activeRecovery int
	err := row.Scan(&t.ID, &kind, &t.Name, &t.Category, &content, &totals, &t.Servings,
		&t.DurationMin, &tags, &activeRecovery)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning template: %w", err)
	}
	t.Kind = domain.Kind(kind)
	t.IsActiveRecovery = intToBool(activeRecovery)
	if err := fromJSON(content, &t.Content); err != nil {
		return nil, fmt.Errorf("template %s content: %w", t.ID, err)
	}
	if err := fromJSON(totals, &t.Totals); err != nil {
		return nil, fmt.Errorf("template %s totals: %w", t.ID, err)
	}
	if err := fromJSON(tags, &t.Tags); err != nil {
		return nil, fmt.Errorf("template %s tags: %w", t.ID, err)
	}
	return &t, nil
}
