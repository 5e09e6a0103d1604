package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/plateplan/internal/db"
	"github.com/alexanderramin/plateplan/internal/domain"
)

// SQLiteAdjustmentRepo implements AdjustmentRepo using a SQLite database.
// Records are append-only.
type SQLiteAdjustmentRepo struct {
	db db.DBTX
}

func NewSQLiteAdjustmentRepo(conn db.DBTX) *SQLiteAdjustmentRepo {
	return &SQLiteAdjustmentRepo{db: conn}
}

func (r *SQLiteAdjustmentRepo) Create(ctx context.Context, rec *domain.AdjustmentRecord) error {
	before, err := toJSON(rec.Before)
	if err != nil {
		return err
	}
	after, err := toJSON(rec.After)
	if err != nil {
		return err
	}
	query := `INSERT INTO adjustment_records (id, user_id, rule_name, adjustment_type, reason,
		before_json, after_json, trigger_source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.RuleName,
		string(rec.AdjustmentType),
		rec.Reason,
		before,
		after,
		string(rec.TriggerSource),
		formatTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting adjustment record: %w", err)
	}
	return nil
}

// ListByUser returns the newest records first. limit <= 0 means no limit.
func (r *SQLiteAdjustmentRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.AdjustmentRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, user_id, rule_name, adjustment_type, reason, before_json, after_json,
		trigger_source, created_at
		FROM adjustment_records WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing adjustment records: %w", err)
	}
	defer rows.Close()

	var out []domain.AdjustmentRecord
	for rows.Next() {
		var rec domain.AdjustmentRecord
		var typ, before, after, trigger, createdAt string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.RuleName, &typ, &rec.Reason,
			&before, &after, &trigger, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning adjustment record: %w", err)
		}
		rec.AdjustmentType = domain.AdjustmentType(typ)
		rec.TriggerSource = domain.AdjustTrigger(trigger)
		if err := fromJSON(before, &rec.Before); err != nil {
			return nil, err
		}
		if err := fromJSON(after, &rec.After); err != nil {
			return nil, err
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating adjustment records: %w", err)
	}
	return out, nil
}
