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

// SQLiteSlotRepo implements SlotRepo using a SQLite database.
type SQLiteSlotRepo struct {
	db db.DBTX
}

func NewSQLiteSlotRepo(conn db.DBTX) *SQLiteSlotRepo {
	return &SQLiteSlotRepo{db: conn}
}

const slotColumns = `id, user_id, date, label, kind, item_id, servings_used, completed_at`

func (r *SQLiteSlotRepo) Create(ctx context.Context, s *domain.ScheduleSlot) error {
	query := `INSERT INTO schedule_slots (` + slotColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		formatDay(s.Date),
		s.Label,
		string(s.Kind),
		s.ItemID,
		s.ServingsUsed,
		nullableTimeToString(s.CompletedAt, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting schedule slot %s/%s: %w", formatDay(s.Date), s.Label, err)
	}
	return nil
}

func (r *SQLiteSlotRepo) GetByID(ctx context.Context, id string) (*domain.ScheduleSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM schedule_slots WHERE id = ?`
	s, err := scanSlot(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule slot %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

func (r *SQLiteSlotRepo) ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]domain.ScheduleSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM schedule_slots
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date, kind, label`
	rows, err := r.db.QueryContext(ctx, query, userID, formatDay(from), formatDay(to))
	if err != nil {
		return nil, fmt.Errorf("listing schedule slots: %w", err)
	}
	defer rows.Close()
	return scanSlots(rows)
}

func (r *SQLiteSlotRepo) ListByItem(ctx context.Context, itemID string) ([]domain.ScheduleSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM schedule_slots WHERE item_id = ? ORDER BY date`
	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing slots for item: %w", err)
	}
	defer rows.Close()
	return scanSlots(rows)
}

func (r *SQLiteSlotRepo) ListPlanned(ctx context.Context, userID string, from, to time.Time) ([]domain.PlannedSlot, error) {
	query := `SELECT s.id, s.user_id, s.date, s.label, s.kind, s.item_id, s.servings_used, s.completed_at,
			i.id, i.user_id, i.kind, i.source_template_id, i.name, i.content_json, i.totals_json,
			i.completed, i.remaining_servings, i.start_date, i.is_fallback, i.created_at
		FROM schedule_slots s
		JOIN personalized_items i ON i.id = s.item_id
		WHERE s.user_id = ? AND s.date >= ? AND s.date <= ?
		ORDER BY s.date, s.kind, s.label`
	rows, err := r.db.QueryContext(ctx, query, userID, formatDay(from), formatDay(to))
	if err != nil {
		return nil, fmt.Errorf("listing planned slots: %w", err)
	}
	defer rows.Close()

	var out []domain.PlannedSlot
	for rows.Next() {
		var p domain.PlannedSlot
		var slotDate, slotKind string
		var completedAt sql.NullString
		var itemKind, content, totals, startDate, createdAt string
		var source sql.NullString
		var completed, fallback int
		err := rows.Scan(
			&p.Slot.ID, &p.Slot.UserID, &slotDate, &p.Slot.Label, &slotKind, &p.Slot.ItemID, &p.Slot.ServingsUsed, &completedAt,
			&p.Item.ID, &p.Item.UserID, &itemKind, &source, &p.Item.Name, &content, &totals,
			&completed, &p.Item.RemainingServings, &startDate, &fallback, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning planned slot: %w", err)
		}
		if err := populateSlot(&p.Slot, slotDate, slotKind, completedAt); err != nil {
			return nil, err
		}
		if _, err := populateItem(&p.Item, itemKind, source, content, totals, completed, fallback, startDate, createdAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating planned slots: %w", err)
	}
	return out, nil
}

func (r *SQLiteSlotRepo) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedule_slots SET completed_at = COALESCE(completed_at, ?) WHERE id = ?`,
		formatTime(at), id)
	if err != nil {
		return fmt.Errorf("completing schedule slot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("schedule slot %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteSlotRepo) DeleteRange(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM schedule_slots WHERE user_id = ? AND date >= ? AND date <= ?`,
		userID, formatDay(from), formatDay(to))
	if err != nil {
		return 0, fmt.Errorf("deleting schedule slots: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func scanSlot(row rowScanner) (*domain.ScheduleSlot, error) {
	var s domain.ScheduleSlot
	var date, kind string
	var completedAt sql.NullString
	if err := row.Scan(&s.ID, &s.UserID, &date, &s.Label, &kind, &s.ItemID, &s.ServingsUsed, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning schedule slot: %w", err)
	}
	if err := populateSlot(&s, date, kind, completedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSlots(rows *sql.Rows) ([]domain.ScheduleSlot, error) {
	var out []domain.ScheduleSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule slots: %w", err)
	}
	return out, nil
}

func populateSlot(s *domain.ScheduleSlot, date, kind string, completedAt sql.NullString) error {
	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return fmt.Errorf("parsing slot date: %w", err)
	}
	s.Date = d
	s.Kind = domain.Kind(kind)
	s.CompletedAt = parseNullableTime(completedAt, time.RFC3339)
	return nil
}
