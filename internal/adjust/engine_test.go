package adjust

import (
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 20, 18, 0, 0, 0, time.UTC)

func event(id string, typ domain.DeviationType, reason domain.ReasonCode, daysAgo int) domain.DeviationEvent {
	return domain.DeviationEvent{
		ID:         id,
		UserID:     "u-1",
		Type:       typ,
		Reason:     reason,
		OccurredAt: now.AddDate(0, 0, -daysAgo),
	}
}

func run(events []domain.DeviationEvent, c domain.ConstraintSet) Result {
	return NewEngine().Evaluate(Context{
		Now:         now,
		Trigger:     domain.TriggerManual,
		Events:      events,
		Constraints: c,
	})
}

func TestEvaluate_RuleSequencing_OnlyFrequencyFires(t *testing.T) {
	// Outside the 7-day simplify window, none for lack of time.
	events := []domain.DeviationEvent{
		event("e1", domain.DeviationSkippedWorkout, domain.ReasonEnergy, 8),
		event("e2", domain.DeviationSkippedWorkout, domain.ReasonEnergy, 10),
		event("e3", domain.DeviationSkippedWorkout, domain.ReasonInjury, 12),
	}
	c := domain.DefaultConstraints("u-1")

	res := run(events, c)

	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Equal(t, RuleReduceWorkoutFrequency, rec.RuleName)
	assert.Equal(t, domain.AdjustWorkoutFrequency, rec.AdjustmentType)
	assert.Equal(t, 4, rec.Before.WorkoutsPerWeek)
	assert.Equal(t, 3, rec.After.WorkoutsPerWeek)
	assert.Equal(t, 3, res.Constraints.WorkoutsPerWeek)
	assert.Equal(t, c.WorkoutDurationMin, res.Constraints.WorkoutDurationMin)
	assert.ElementsMatch(t, []string{"e1", "e2", "e3"}, res.ConsumedIDs)
	assert.Equal(t, domain.TriggerManual, rec.TriggerSource)
	assert.Equal(t, now, res.Constraints.UpdatedAt)
}

func TestEvaluate_FrequencyIgnoresOldAndConsumedEvents(t *testing.T) {
	consumed := event("e3", domain.DeviationSkippedWorkout, domain.ReasonEnergy, 2)
	consumed.AutoAdjusted = true
	events := []domain.DeviationEvent{
		event("e1", domain.DeviationSkippedWorkout, domain.ReasonEnergy, 9),
		event("e2", domain.DeviationSkippedWorkout, domain.ReasonEnergy, 15),
		consumed,
	}

	res := run(events, domain.DefaultConstraints("u-1"))
	assert.False(t, res.Fired())
}

func TestEvaluate_FrequencyFloor(t *testing.T) {
	events := []domain.DeviationEvent{
		event("e1", domain.DeviationSkippedWorkout, domain.ReasonEnergy, 8),
		event("e2", domain.DeviationSkippedWorkout, domain.ReasonEnergy, 9),
		event("e3", domain.DeviationSkippedWorkout, domain.ReasonEnergy, 10),
	}
	c := domain.DefaultConstraints("u-1")
	c.WorkoutsPerWeek = 2

	res := run(events, c)
	assert.False(t, res.Fired(), "already at floor")
	assert.Empty(t, res.ConsumedIDs)
}

func TestEvaluate_DurationRule(t *testing.T) {
	events := []domain.DeviationEvent{
		event("e1", domain.DeviationShortenedWorkout, domain.ReasonTime, 40),
		event("e2", domain.DeviationSkippedWorkout, domain.ReasonTime, 60),
	}
	c := domain.DefaultConstraints("u-1")
	c.WorkoutDurationMin = 30

	res := run(events, c)

	require.Len(t, res.Records, 1)
	assert.Equal(t, RuleReduceWorkoutDuration, res.Records[0].RuleName)
	assert.Equal(t, 20, res.Constraints.WorkoutDurationMin, "floored at 20")
}

func TestEvaluate_BudgetRule(t *testing.T) {
	events := []domain.DeviationEvent{event("e1", domain.DeviationBudgetExceeded, domain.ReasonCost, 30)}

	res := run(events, domain.DefaultConstraints("u-1"))

	require.Len(t, res.Records, 1)
	assert.Equal(t, domain.BudgetLow, res.Constraints.BudgetTier)
	assert.True(t, res.Constraints.PreferCheapProteins)
	assert.Equal(t, domain.BudgetStandard, res.Records[0].Before.BudgetTier)
}

func TestEvaluate_SimplifyUsesConfiguredThreshold(t *testing.T) {
	events := []domain.DeviationEvent{
		event("e1", domain.DeviationMissedMeal, domain.ReasonOther, 1),
		event("e2", domain.DeviationSubstitutedMeal, domain.ReasonOther, 2),
	}
	c := domain.DefaultConstraints("u-1")

	assert.False(t, run(events, c).Fired(), "default threshold is 3")

	c.SimplifyAfterDeviations = 2
	res := run(events, c)
	require.Len(t, res.Records, 1)
	assert.Equal(t, RuleSimplifyPlan, res.Records[0].RuleName)
	assert.Equal(t, 15, res.Constraints.MaxCookingMin)
	assert.True(t, res.Constraints.PreferSimpleMeals)
}

func TestEvaluate_DiningOutScenario(t *testing.T) {
	e := event("e1", domain.DeviationDiningOut, domain.ReasonSocial, 0)
	e.ImpactCalories = 300

	res := run([]domain.DeviationEvent{e}, domain.DefaultConstraints("u-1"))

	require.Len(t, res.Records, 1)
	assert.Equal(t, RuleCompensateDiningOut, res.Records[0].RuleName)
	assert.Equal(t, 300, res.Constraints.CalorieDeficitToday)
	require.NotNil(t, res.Constraints.CalorieDeficitDate)
	assert.Equal(t, domain.Day(now), *res.Constraints.CalorieDeficitDate)
	assert.Equal(t, []string{"e1"}, res.ConsumedIDs)
}

func TestEvaluate_DiningOutAccumulatesWithinDay(t *testing.T) {
	today := domain.Day(now)
	c := domain.DefaultConstraints("u-1")
	c.CalorieDeficitToday = 200
	c.CalorieDeficitDate = &today

	e := event("e1", domain.DeviationDiningOut, domain.ReasonSocial, 0)
	e.ImpactCalories = 150
	res := run([]domain.DeviationEvent{e}, c)
	assert.Equal(t, 350, res.Constraints.CalorieDeficitToday)

	yesterday := today.AddDate(0, 0, -1)
	c.CalorieDeficitDate = &yesterday
	res = run([]domain.DeviationEvent{e}, c)
	assert.Equal(t, 150, res.Constraints.CalorieDeficitToday, "yesterday's deficit does not carry over")
}

func TestEvaluate_RulesThreadConstraints(t *testing.T) {
	var events []domain.DeviationEvent
	for i := 0; i < 3; i++ {
		events = append(events, event(fmt.Sprintf("s%d", i), domain.DeviationSkippedWorkout, domain.ReasonTime, i+1))
	}
	budget := event("b1", domain.DeviationBudgetExceeded, domain.ReasonCost, 1)
	dining := event("d1", domain.DeviationDiningOut, domain.ReasonSocial, 0)
	dining.ImpactCalories = 250
	events = append(events, budget, dining)

	res := run(events, domain.DefaultConstraints("u-1"))

	require.Len(t, res.Records, 5)
	names := make([]string, len(res.Records))
	for i, r := range res.Records {
		names[i] = r.RuleName
	}
	assert.Equal(t, []string{
		RuleReduceWorkoutFrequency, RuleReduceWorkoutDuration, RuleReduceBudgetTier, RuleSimplifyPlan, RuleCompensateDiningOut,
	}, names)

	// Each record's Before is the previous record's After.
	for i := 1; i < len(res.Records); i++ {
		assert.Equal(t, res.Records[i-1].After.WorkoutsPerWeek, res.Records[i].Before.WorkoutsPerWeek)
		assert.Equal(t, res.Records[i-1].After.BudgetTier, res.Records[i].Before.BudgetTier)
	}
	final := res.Constraints
	assert.Equal(t, 3, final.WorkoutsPerWeek)
	assert.Equal(t, 30, final.WorkoutDurationMin)
	assert.Equal(t, domain.BudgetLow, final.BudgetTier)
	assert.Equal(t, 15, final.MaxCookingMin)
	assert.Equal(t, 250, final.CalorieDeficitToday)
	assert.Len(t, res.ConsumedIDs, 5, "each event is reported once")
}

func TestNewEngine_CustomRules(t *testing.T) {
	calls := 0
	rule := Rule{
		Name:      "always",
		Condition: func(*Context) bool { return true },
		Apply: func(ctx *Context) Change {
			calls++
			next := ctx.Constraints
			next.DailyCalories += 100
			return Change{Constraints: next, Type: domain.AdjustCalorieDeficit}
		},
	}

	res := NewEngine(rule, rule).Evaluate(Context{Now: now, Constraints: domain.DefaultConstraints("u-1")})

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2200, res.Constraints.DailyCalories)
	assert.Equal(t, 2100, res.Records[1].Before.DailyCalories)
}
