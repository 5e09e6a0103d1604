package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/plateplan/internal/db"
	"github.com/alexanderramin/plateplan/internal/domain"
)

// SQLiteDeviationRepo implements DeviationRepo using a SQLite database.
type SQLiteDeviationRepo struct {
	db db.DBTX
}

func NewSQLiteDeviationRepo(conn db.DBTX) *SQLiteDeviationRepo {
	return &SQLiteDeviationRepo{db: conn}
}

func (r *SQLiteDeviationRepo) Create(ctx context.Context, e *domain.DeviationEvent) error {
	query := `INSERT INTO deviation_events (id, user_id, type, reason, occurred_at,
		impact_calories, impact_budget, auto_adjusted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		string(e.Type),
		string(e.Reason),
		formatTime(e.OccurredAt),
		e.ImpactCalories,
		e.ImpactBudget,
		boolToInt(e.AutoAdjusted),
	)
	if err != nil {
		return fmt.Errorf("inserting deviation event: %w", err)
	}
	return nil
}

func (r *SQLiteDeviationRepo) ListByUser(ctx context.Context, userID string) ([]domain.DeviationEvent, error) {
	query := `SELECT id, user_id, type, reason, occurred_at, impact_calories, impact_budget, auto_adjusted
		FROM deviation_events WHERE user_id = ? ORDER BY occurred_at, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing deviation events: %w", err)
	}
	defer rows.Close()

	var out []domain.DeviationEvent
	for rows.Next() {
		var e domain.DeviationEvent
		var typ, reason, occurredAt string
		var adjusted int
		if err := rows.Scan(&e.ID, &e.UserID, &typ, &reason, &occurredAt,
			&e.ImpactCalories, &e.ImpactBudget, &adjusted); err != nil {
			return nil, fmt.Errorf("scanning deviation event: %w", err)
		}
		e.Type = domain.DeviationType(typ)
		e.Reason = domain.ReasonCode(reason)
		e.AutoAdjusted = intToBool(adjusted)
		if e.OccurredAt, err = time.Parse(time.RFC3339, occurredAt); err != nil {
			return nil, fmt.Errorf("parsing occurred_at: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deviation events: %w", err)
	}
	return out, nil
}

func (r *SQLiteDeviationRepo) MarkAutoAdjusted(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `UPDATE deviation_events SET auto_adjusted = 1 WHERE id IN (` + placeholders + `)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("flagging deviation events: %w", err)
	}
	return nil
}
