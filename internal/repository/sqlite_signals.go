package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/plateplan/internal/db"
	"github.com/alexanderramin/plateplan/internal/domain"
)

// SQLiteSignalsRepo stores the analytics aggregate read by the selector.
type SQLiteSignalsRepo struct {
	db db.DBTX
}

func NewSQLiteSignalsRepo(conn db.DBTX) *SQLiteSignalsRepo {
	return &SQLiteSignalsRepo{db: conn}
}

func (r *SQLiteSignalsRepo) Get(ctx context.Context, userID string) (*domain.UserSignals, error) {
	query := `SELECT avoided_foods_json, favorite_cuisines_json, affinity_json, most_skipped_slot, consistency_score
		FROM user_signals WHERE user_id = ?`
	var avoided, cuisines, affinity string
	s := domain.UserSignals{UserID: userID}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&avoided, &cuisines, &affinity, &s.MostSkippedSlot, &s.ConsistencyScore)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user signals %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user signals: %w", err)
	}
	if err := fromJSON(avoided, &s.AvoidedFoods); err != nil {
		return nil, err
	}
	if err := fromJSON(cuisines, &s.FavoriteCuisines); err != nil {
		return nil, err
	}
	if err := fromJSON(affinity, &s.Affinity); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteSignalsRepo) Upsert(ctx context.Context, s *domain.UserSignals) error {
	avoided, err := toJSON(stringsOrEmpty(s.AvoidedFoods))
	if err != nil {
		return err
	}
	cuisines, err := toJSON(stringsOrEmpty(s.FavoriteCuisines))
	if err != nil {
		return err
	}
	aff := s.Affinity
	if aff == nil {
		aff = map[string]float64{}
	}
	affinity, err := toJSON(aff)
	if err != nil {
		return err
	}
	query := `INSERT OR REPLACE INTO user_signals (user_id, avoided_foods_json, favorite_cuisines_json,
		affinity_json, most_skipped_slot, consistency_score, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, s.UserID, avoided, cuisines, affinity,
		s.MostSkippedSlot, s.ConsistencyScore, nowUTC())
	if err != nil {
		return fmt.Errorf("upserting user signals: %w", err)
	}
	return nil
}
