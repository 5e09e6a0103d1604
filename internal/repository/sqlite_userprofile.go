package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/plateplan/internal/db"
	"github.com/alexanderramin/plateplan/internal/domain"
)

// SQLiteUserProfileRepo stores allergies and dislikes per user.
type SQLiteUserProfileRepo struct {
	db db.DBTX
}

func NewSQLiteUserProfileRepo(conn db.DBTX) *SQLiteUserProfileRepo {
	return &SQLiteUserProfileRepo{db: conn}
}

func (r *SQLiteUserProfileRepo) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var allergies, disliked string
	err := r.db.QueryRowContext(ctx,
		`SELECT allergies_json, disliked_foods_json FROM user_profiles WHERE user_id = ?`, userID,
	).Scan(&allergies, &disliked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user profile %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user profile: %w", err)
	}
	p := domain.UserProfile{UserID: userID}
	if err := fromJSON(allergies, &p.Allergies); err != nil {
		return nil, err
	}
	if err := fromJSON(disliked, &p.DislikedFoods); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteUserProfileRepo) Upsert(ctx context.Context, p *domain.UserProfile) error {
	allergies, err := toJSON(stringsOrEmpty(p.Allergies))
	if err != nil {
		return err
	}
	disliked, err := toJSON(stringsOrEmpty(p.DislikedFoods))
	if err != nil {
		return err
	}
	query := `INSERT OR REPLACE INTO user_profiles (user_id, allergies_json, disliked_foods_json, updated_at)
		VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, p.UserID, allergies, disliked, nowUTC()); err != nil {
		return fmt.Errorf("upserting user profile: %w", err)
	}
	return nil
}
