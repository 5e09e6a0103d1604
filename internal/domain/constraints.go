package domain

import "time"

// ConstraintSet holds the standing parameters that shape future plan generation.
// Only the adjustment engine mutates it.
type ConstraintSet struct {
	UserID                  string     `json:"user_id"`
	WorkoutsPerWeek         int        `json:"workouts_per_week"`
	WorkoutDurationMin      int        `json:"workout_duration_min"`
	BudgetTier              BudgetTier `json:"budget_tier"`
	MaxCookingMin           int        `json:"max_cooking_min"`
	SimplifyAfterDeviations int        `json:"simplify_after_deviations"`
	DailyCalories           int        `json:"daily_calories"`
	CalorieDeficitToday     int        `json:"calorie_deficit_today"`
	CalorieDeficitDate      *time.Time `json:"calorie_deficit_date,omitempty"`
	PreferCheapProteins     bool       `json:"prefer_cheap_proteins"`
	PreferSimpleMeals       bool       `json:"prefer_simple_meals"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// DefaultConstraints returns the starting constraint set for a new user.
func DefaultConstraints(userID string) ConstraintSet {
	return ConstraintSet{
		UserID:                  userID,
		WorkoutsPerWeek:         4,
		WorkoutDurationMin:      45,
		BudgetTier:              BudgetStandard,
		MaxCookingMin:           45,
		SimplifyAfterDeviations: 3,
		DailyCalories:           2000,
	}
}

// DeficitOn returns the calorie deficit that applies to the given date.
// The deficit resets daily: it only applies on the date it was recorded for.
func (c *ConstraintSet) DeficitOn(date time.Time) int {
	if c.CalorieDeficitDate == nil || c.CalorieDeficitToday <= 0 {
		return 0
	}
	if !Day(*c.CalorieDeficitDate).Equal(Day(date)) {
		return 0
	}
	return c.CalorieDeficitToday
}

// CaloriesFor returns the daily calorie target for date after any deficit.
func (c *ConstraintSet) CaloriesFor(date time.Time) int {
	target := c.DailyCalories - c.DeficitOn(date)
	if target < 0 {
		return 0
	}
	return target
}
