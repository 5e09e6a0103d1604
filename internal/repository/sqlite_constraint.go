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

// SQLiteConstraintRepo implements ConstraintRepo using a SQLite database.
type SQLiteConstraintRepo struct {
	db db.DBTX
}

func NewSQLiteConstraintRepo(conn db.DBTX) *SQLiteConstraintRepo {
	return &SQLiteConstraintRepo{db: conn}
}

func (r *SQLiteConstraintRepo) Get(ctx context.Context, userID string) (*domain.ConstraintSet, error) {
	query := `SELECT user_id, workouts_per_week, workout_duration_min, budget_tier, max_cooking_min,
		simplify_after_deviations, daily_calories, calorie_deficit_today, calorie_deficit_date,
		prefer_cheap_proteins, prefer_simple_meals, updated_at
		FROM constraint_sets WHERE user_id = ?`

	var c domain.ConstraintSet
	var tier, updatedAt string
	var deficitDate sql.NullString
	var cheap, simple int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&c.UserID,
		&c.WorkoutsPerWeek,
		&c.WorkoutDurationMin,
		&tier,
		&c.MaxCookingMin,
		&c.SimplifyAfterDeviations,
		&c.DailyCalories,
		&c.CalorieDeficitToday,
		&deficitDate,
		&cheap,
		&simple,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("constraint set for %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning constraint set: %w", err)
	}
	c.BudgetTier = domain.BudgetTier(tier)
	c.CalorieDeficitDate = parseNullableTime(deficitDate, domain.DateLayout)
	c.PreferCheapProteins = intToBool(cheap)
	c.PreferSimpleMeals = intToBool(simple)
	if c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}

func (r *SQLiteConstraintRepo) Upsert(ctx context.Context, c *domain.ConstraintSet) error {
	updated := c.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	query := `INSERT INTO constraint_sets (user_id, workouts_per_week, workout_duration_min, budget_tier,
			max_cooking_min, simplify_after_deviations, daily_calories, calorie_deficit_today,
			calorie_deficit_date, prefer_cheap_proteins, prefer_simple_meals, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			workouts_per_week = excluded.workouts_per_week,
			workout_duration_min = excluded.workout_duration_min,
			budget_tier = excluded.budget_tier,
			max_cooking_min = excluded.max_cooking_min,
			simplify_after_deviations = excluded.simplify_after_deviations,
			daily_calories = excluded.daily_calories,
			calorie_deficit_today = excluded.calorie_deficit_today,
			calorie_deficit_date = excluded.calorie_deficit_date,
			prefer_cheap_proteins = excluded.prefer_cheap_proteins,
			prefer_simple_meals = excluded.prefer_simple_meals,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		c.UserID,
		c.WorkoutsPerWeek,
		c.WorkoutDurationMin,
		string(c.BudgetTier),
		c.MaxCookingMin,
		c.SimplifyAfterDeviations,
		c.DailyCalories,
		c.CalorieDeficitToday,
		nullableTimeToString(c.CalorieDeficitDate, domain.DateLayout),
		boolToInt(c.PreferCheapProteins),
		boolToInt(c.PreferSimpleMeals),
		formatTime(updated),
	)
	if err != nil {
		return fmt.Errorf("upserting constraint set: %w", err)
	}
	return nil
}
