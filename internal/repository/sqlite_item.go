package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/plateplan/internal/db"
	"github.com/alexanderramin/plateplan/internal/domain"
)

// SQLiteItemRepo implements ItemRepo using a SQLite database.
type SQLiteItemRepo struct {
	db db.DBTX
}

func NewSQLiteItemRepo(conn db.DBTX) *SQLiteItemRepo {
	return &SQLiteItemRepo{db: conn}
}

const itemColumns = `id, user_id, kind, source_template_id, name, content_json, totals_json,
	completed, remaining_servings, start_date, is_fallback, created_at`

func (r *SQLiteItemRepo) Create(ctx context.Context, it *domain.PersonalizedItem) error {
	content, err := toJSON(it.Content)
	if err != nil {
		return err
	}
	totals, err := toJSON(it.Totals)
	if err != nil {
		return err
	}
	query := `INSERT INTO personalized_items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		it.ID,
		it.UserID,
		string(it.Kind),
		nullableString(it.SourceTemplateID),
		it.Name,
		content,
		totals,
		boolToInt(it.Completed),
		it.RemainingServings,
		formatDay(it.StartDate),
		boolToInt(it.IsFallback),
		formatTime(it.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting personalized item: %w", err)
	}
	return nil
}

func (r *SQLiteItemRepo) GetByID(ctx context.Context, id string) (*domain.PersonalizedItem, error) {
	query := `SELECT ` + itemColumns + ` FROM personalized_items WHERE id = ?`
	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("personalized item %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return it, nil
}

func (r *SQLiteItemRepo) SetCompleted(ctx context.Context, id string, completed bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE personalized_items SET completed = ? WHERE id = ?`, boolToInt(completed), id)
	if err != nil {
		return fmt.Errorf("updating personalized item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("personalized item %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteItemRepo) DeleteOrphans(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM personalized_items
		WHERE user_id = ?
		  AND NOT EXISTS (SELECT 1 FROM schedule_slots s WHERE s.item_id = personalized_items.id)`, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting unscheduled items: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func scanItem(row rowScanner) (*domain.PersonalizedItem, error) {
	var it domain.PersonalizedItem
	var kind, content, totals, startDate, createdAt string
	var source sql.NullString
	var completed, fallback int
	err := row.Scan(&it.ID, &it.UserID, &kind, &source, &it.Name, &content, &totals,
		&completed, &it.RemainingServings, &startDate, &fallback, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning personalized item: %w", err)
	}
	return populateItem(&it, kind, source, content, totals, completed, fallback, startDate, createdAt)
}

func populateItem(it *domain.PersonalizedItem, kind string, source sql.NullString, content, totals string,
	completed, fallback int, startDate, createdAt string) (*domain.PersonalizedItem, error) {
	it.Kind = domain.Kind(kind)
	if source.Valid {
		s := source.String
		it.SourceTemplateID = &s
	}
	it.Completed = intToBool(completed)
	it.IsFallback = intToBool(fallback)
	if err := fromJSON(content, &it.Content); err != nil {
		return nil, fmt.Errorf("item %s content: %w", it.ID, err)
	}
	if err := fromJSON(totals, &it.Totals); err != nil {
		return nil, fmt.Errorf("item %s totals: %w", it.ID, err)
	}
	var err error
	if it.StartDate, err = time.Parse(domain.DateLayout, startDate); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if it.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return it, nil
}
