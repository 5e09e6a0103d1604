package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/plateplan/internal/db"
)

// SQLiteTierRepo holds the subscription tier resolved by the billing system.
type SQLiteTierRepo struct {
	db db.DBTX
}

func NewSQLiteTierRepo(conn db.DBTX) *SQLiteTierRepo {
	return &SQLiteTierRepo{db: conn}
}

func (r *SQLiteTierRepo) Get(ctx context.Context, userID string) (string, error) {
	var tier string
	err := r.db.QueryRowContext(ctx, `SELECT tier FROM user_tiers WHERE user_id = ?`, userID).Scan(&tier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("tier for %s: %w", userID, ErrNotFound)
		}
		return "", fmt.Errorf("scanning tier: %w", err)
	}
	return tier, nil
}

func (r *SQLiteTierRepo) Set(ctx context.Context, userID, tier string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO user_tiers (user_id, tier, updated_at) VALUES (?, ?, ?)`,
		userID, tier, nowUTC())
	if err != nil {
		return fmt.Errorf("setting tier: %w", err)
	}
	return nil
}
