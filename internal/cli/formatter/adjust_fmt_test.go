package formatter

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/domain"
)

func TestFormatAdjust_Applied(t *testing.T) {
	c := domain.DefaultConstraints("u1")
	c.WorkoutsPerWeek = 3
	c.CalorieDeficitToday = 300
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.CalorieDeficitDate = &day

	out := FormatAdjust(&app.AdjustResponse{
		AdjustmentsApplied: 1,
		Adjustments: []domain.AdjustmentRecord{{
			RuleName:       "reduce_frequency",
			AdjustmentType: domain.AdjustWorkoutFrequency,
			Reason:         "missed 2 workouts",
		}},
		RequiresRegeneration: true,
		Constraints:          c,
	})

	assert.Contains(t, out, "reduce_frequency")
	assert.Contains(t, out, "workout_frequency")
	assert.Contains(t, out, "missed 2 workouts")
	assert.Contains(t, out, "300 on 2024-01-01")
	assert.Contains(t, out, "Regenerate upcoming plans")
}

func TestFormatAdjust_NoRuleFired(t *testing.T) {
	out := FormatAdjust(&app.AdjustResponse{Constraints: domain.DefaultConstraints("u1")})

	assert.Contains(t, out, "No rule fired")
	assert.Contains(t, out, "standard")
	assert.NotContains(t, out, "Regenerate")
}

func TestFormatAdjust_Gated(t *testing.T) {
	out := FormatAdjust(&app.AdjustResponse{RequiresManualRegeneration: true})

	assert.Contains(t, out, "paid plan")
	assert.NotContains(t, out, "CONSTRAINTS")
}

func TestFormatStreak(t *testing.T) {
	out := FormatStreak(&app.StreakResponse{CurrentStreak: 3, LongestStreak: 3})
	assert.Contains(t, out, "3 day streak")
	assert.Contains(t, out, "longest 3")
	assert.Contains(t, out, "open slots")

	out = FormatStreak(&app.StreakResponse{CurrentStreak: 8, LongestStreak: 8, TodayComplete: true})
	assert.Contains(t, out, "Today is done")
}

func TestFormatDeviation(t *testing.T) {
	resp := &app.LogDeviationResponse{
		Event: domain.DeviationEvent{ID: "0123456789", Type: domain.DeviationDiningOut, Reason: domain.ReasonSocial, ImpactCalories: 300},
		Adjustment: &app.AdjustResponse{
			AdjustmentsApplied: 1,
			Adjustments:        []domain.AdjustmentRecord{{RuleName: "dining_out_deficit", AdjustmentType: domain.AdjustCalorieDeficit}},
			Constraints:        domain.DefaultConstraints("u1"),
		},
	}

	out := FormatDeviation(resp)

	assert.Contains(t, out, "dining_out")
	assert.Contains(t, out, "social")
	assert.Contains(t, out, "01234567")
	assert.Contains(t, out, "300 kcal")
	assert.Contains(t, out, "dining_out_deficit")
}

func TestFormatTemplateList(t *testing.T) {
	out := FormatTemplateList([]domain.Template{
		{ID: "oats", Kind: domain.KindMeal, Category: "breakfast", Name: "Oats", Totals: domain.Totals{Calories: 392}, Servings: 3, Tags: []string{"quick", "vegetarian"}},
		{ID: "circuit", Kind: domain.KindWorkout, Name: "Circuit", DurationMin: 30},
	})

	assert.Contains(t, out, "oats")
	assert.Contains(t, out, "392 kcal")
	assert.Contains(t, out, "30m")
	assert.Contains(t, out, "quick, vegetarian")

	assert.Contains(t, FormatTemplateList(nil), "Catalog is empty")
}

func TestFormatImport(t *testing.T) {
	out := FormatImport("./catalog", &app.CatalogImportResult{
		Imported:  2,
		Templates: []domain.Template{{Kind: domain.KindMeal}, {Kind: domain.KindWorkout}},
	})
	assert.Contains(t, out, "Imported 2 templates")
	assert.Contains(t, out, "(1 meals, 1 workouts)")
}

func TestFormatError(t *testing.T) {
	out := FormatError(fmt.Errorf("complete: %w", app.NotFound("slot %s not found", "s1")))
	assert.Contains(t, out, string(app.PlanErrNotFound))
	assert.Contains(t, out, "slot s1 not found")

	out = FormatError(&app.RateLimitError{Message: "regeneration limit reached", WaitSeconds: 120})
	assert.Contains(t, out, "Slow down")
	assert.Contains(t, out, "retry in 120s")

	assert.Contains(t, FormatError(errors.New("disk full")), "Error: disk full")
}
