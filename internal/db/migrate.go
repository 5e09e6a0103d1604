package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs every schema statement. Statements are idempotent so the full
// list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillDeficitDate(db); err != nil {
		return fmt.Errorf("backfilling calorie deficit dates: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS templates (
		id                 TEXT PRIMARY KEY,
		kind               TEXT NOT NULL CHECK(kind IN ('meal','workout')),
		name               TEXT NOT NULL,
		category           TEXT NOT NULL DEFAULT '',
		content_json       TEXT NOT NULL,
		totals_json        TEXT NOT NULL DEFAULT '{}',
		servings           INTEGER NOT NULL DEFAULT 1,
		duration_min       INTEGER NOT NULL DEFAULT 0,
		tags_json          TEXT NOT NULL DEFAULT '[]',
		is_active_recovery INTEGER NOT NULL DEFAULT 0,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_templates_kind ON templates(kind, category)`,

	`CREATE TABLE IF NOT EXISTS personalized_items (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL,
		kind               TEXT NOT NULL CHECK(kind IN ('meal','workout')),
		source_template_id TEXT REFERENCES templates(id) ON DELETE SET NULL,
		name               TEXT NOT NULL,
		content_json       TEXT NOT NULL,
		totals_json        TEXT NOT NULL DEFAULT '{}',
		completed          INTEGER NOT NULL DEFAULT 0,
		remaining_servings INTEGER NOT NULL DEFAULT 0,
		start_date         TEXT NOT NULL,
		is_fallback        INTEGER NOT NULL DEFAULT 0,
		created_at         TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_items_user_start ON personalized_items(user_id, start_date)`,

	`CREATE TABLE IF NOT EXISTS schedule_slots (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		date          TEXT NOT NULL,
		label         TEXT NOT NULL,
		kind          TEXT NOT NULL CHECK(kind IN ('meal','workout')),
		item_id       TEXT NOT NULL REFERENCES personalized_items(id) ON DELETE CASCADE,
		servings_used INTEGER NOT NULL DEFAULT 1,
		completed_at  TEXT,
		UNIQUE(user_id, date, label)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_slots_item ON schedule_slots(item_id)`,

	`CREATE TABLE IF NOT EXISTS constraint_sets (
		user_id                   TEXT PRIMARY KEY,
		workouts_per_week         INTEGER NOT NULL,
		workout_duration_min      INTEGER NOT NULL,
		budget_tier               TEXT NOT NULL CHECK(budget_tier IN ('low','standard','premium')),
		max_cooking_min           INTEGER NOT NULL,
		simplify_after_deviations INTEGER NOT NULL DEFAULT 3,
		daily_calories            INTEGER NOT NULL,
		calorie_deficit_today     INTEGER NOT NULL DEFAULT 0,
		prefer_cheap_proteins     INTEGER NOT NULL DEFAULT 0,
		prefer_simple_meals       INTEGER NOT NULL DEFAULT 0,
		updated_at                TEXT NOT NULL
	)`,
	`ALTER TABLE constraint_sets ADD COLUMN calorie_deficit_date TEXT`,

	`CREATE TABLE IF NOT EXISTS deviation_events (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		type            TEXT NOT NULL CHECK(type IN ('skipped_workout','shortened_workout','missed_meal','substituted_meal','dining_out','budget_exceeded')),
		reason          TEXT NOT NULL DEFAULT '',
		occurred_at     TEXT NOT NULL,
		impact_calories INTEGER NOT NULL DEFAULT 0,
		impact_budget   REAL NOT NULL DEFAULT 0,
		auto_adjusted   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_deviations_user_time ON deviation_events(user_id, occurred_at)`,

	`CREATE TABLE IF NOT EXISTS adjustment_records (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		rule_name       TEXT NOT NULL,
		adjustment_type TEXT NOT NULL,
		reason          TEXT NOT NULL DEFAULT '',
		before_json     TEXT NOT NULL,
		after_json      TEXT NOT NULL,
		trigger_source  TEXT NOT NULL,
		created_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_adjustments_user ON adjustment_records(user_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS user_signals (
		user_id                TEXT PRIMARY KEY,
		avoided_foods_json     TEXT NOT NULL DEFAULT '[]',
		favorite_cuisines_json TEXT NOT NULL DEFAULT '[]',
		affinity_json          TEXT NOT NULL DEFAULT '{}',
		most_skipped_slot      TEXT NOT NULL DEFAULT '',
		consistency_score      REAL NOT NULL DEFAULT 0,
		updated_at             TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id             TEXT PRIMARY KEY,
		allergies_json      TEXT NOT NULL DEFAULT '[]',
		disliked_foods_json TEXT NOT NULL DEFAULT '[]',
		updated_at          TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_tiers (
		user_id    TEXT PRIMARY KEY,
		tier       TEXT NOT NULL CHECK(tier IN ('free','paid')),
		updated_at TEXT NOT NULL
	)`,
}

// migrateBackfillDeficitDate dates deficits written before the deficit became
// a per-day value. Such rows are pinned to the day they were last updated so
// they stop applying afterwards. Idempotent.
func migrateBackfillDeficitDate(db *sql.DB) error {
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `UPDATE constraint_sets
		SET calorie_deficit_date = substr(updated_at, 1, 10)
		WHERE calorie_deficit_today > 0 AND calorie_deficit_date IS NULL`)
	if err != nil {
		return fmt.Errorf("updating constraint_sets: %w", err)
	}
	return nil
}
