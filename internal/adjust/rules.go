package adjust

import (
	"fmt"
	"time"

	"github.com/alexanderramin/plateplan/internal/domain"
)

const (
	RuleReduceWorkoutFrequency = "reduce_workout_frequency"
	RuleReduceWorkoutDuration  = "reduce_workout_duration"
	RuleReduceBudgetTier       = "reduce_budget_tier"
	RuleSimplifyPlan           = "simplify_plan"
	RuleCompensateDiningOut    = "compensate_dining_out"
)

const (
	frequencyWindow      = 14 * 24 * time.Hour
	frequencyTrigger     = 3
	minWorkoutsPerWeek   = 2
	durationTrigger      = 2
	durationStepMin      = 15
	minWorkoutDuration   = 20
	simplifyWindow       = 7 * 24 * time.Hour
	defaultSimplifyAfter = 3
	simpleCookingMin     = 15
)

// DefaultRules returns the five rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		reduceWorkoutFrequency(),
		reduceWorkoutDuration(),
		reduceBudgetTier(),
		simplifyPlan(),
		compensateDiningOut(),
	}
}

func within(e domain.DeviationEvent, now time.Time, window time.Duration) bool {
	return !e.OccurredAt.After(now) && now.Sub(e.OccurredAt) <= window
}

func filter(events []domain.DeviationEvent, keep func(domain.DeviationEvent) bool) []domain.DeviationEvent {
	var out []domain.DeviationEvent
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func ids(events []domain.DeviationEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func reduceWorkoutFrequency() Rule {
	matching := func(ctx *Context) []domain.DeviationEvent {
		return filter(ctx.Pending(), func(e domain.DeviationEvent) bool {
			return e.Type == domain.DeviationSkippedWorkout && within(e, ctx.Now, frequencyWindow)
		})
	}
	return Rule{
		Name: RuleReduceWorkoutFrequency,
		Condition: func(ctx *Context) bool {
			return ctx.Constraints.WorkoutsPerWeek > minWorkoutsPerWeek && len(matching(ctx)) >= frequencyTrigger
		},
		Apply: func(ctx *Context) Change {
			events := matching(ctx)
			next := ctx.Constraints
			next.WorkoutsPerWeek = max(minWorkoutsPerWeek, next.WorkoutsPerWeek-1)
			return Change{
				Constraints: next,
				Type:        domain.AdjustWorkoutFrequency,
				Reason:      fmt.Sprintf("%d skipped workouts in the last 14 days", len(events)),
				Consumed:    ids(events),
			}
		},
	}
}

func reduceWorkoutDuration() Rule {
	matching := func(ctx *Context) []domain.DeviationEvent {
		return filter(ctx.Pending(), func(e domain.DeviationEvent) bool {
			return e.IsWorkoutMiss() && e.Reason == domain.ReasonTime
		})
	}
	return Rule{
		Name: RuleReduceWorkoutDuration,
		Condition: func(ctx *Context) bool {
			return ctx.Constraints.WorkoutDurationMin > minWorkoutDuration && len(matching(ctx)) >= durationTrigger
		},
		Apply: func(ctx *Context) Change {
			events := matching(ctx)
			next := ctx.Constraints
			next.WorkoutDurationMin = max(minWorkoutDuration, next.WorkoutDurationMin-durationStepMin)
			return Change{
				Constraints: next,
				Type:        domain.AdjustWorkoutDuration,
				Reason:      fmt.Sprintf("%d workouts skipped or shortened for lack of time", len(events)),
				Consumed:    ids(events),
			}
		},
	}
}

func reduceBudgetTier() Rule {
	matching := func(ctx *Context) []domain.DeviationEvent {
		return filter(ctx.Pending(), func(e domain.DeviationEvent) bool {
			return e.Type == domain.DeviationBudgetExceeded
		})
	}
	return Rule{
		Name: RuleReduceBudgetTier,
		Condition: func(ctx *Context) bool {
			c := ctx.Constraints
			atTarget := c.BudgetTier == domain.BudgetLow && c.PreferCheapProteins
			return !atTarget && len(matching(ctx)) > 0
		},
		Apply: func(ctx *Context) Change {
			events := matching(ctx)
			next := ctx.Constraints
			next.BudgetTier = domain.BudgetLow
			next.PreferCheapProteins = true
			return Change{
				Constraints: next,
				Type:        domain.AdjustBudgetTier,
				Reason:      fmt.Sprintf("budget exceeded %d time(s)", len(events)),
				Consumed:    ids(events),
			}
		},
	}
}

func simplifyPlan() Rule {
	threshold := func(c domain.ConstraintSet) int {
		if c.SimplifyAfterDeviations <= 0 {
			return defaultSimplifyAfter
		}
		return c.SimplifyAfterDeviations
	}
	matching := func(ctx *Context) []domain.DeviationEvent {
		return filter(ctx.Pending(), func(e domain.DeviationEvent) bool {
			return within(e, ctx.Now, simplifyWindow)
		})
	}
	return Rule{
		Name: RuleSimplifyPlan,
		Condition: func(ctx *Context) bool {
			c := ctx.Constraints
			atTarget := c.MaxCookingMin <= simpleCookingMin && c.PreferSimpleMeals
			return !atTarget && len(matching(ctx)) >= threshold(c)
		},
		Apply: func(ctx *Context) Change {
			events := matching(ctx)
			next := ctx.Constraints
			next.MaxCookingMin = simpleCookingMin
			next.PreferSimpleMeals = true
			return Change{
				Constraints: next,
				Type:        domain.AdjustSimplify,
				Reason:      fmt.Sprintf("%d deviations in the last 7 days", len(events)),
				Consumed:    ids(events),
			}
		},
	}
}

func compensateDiningOut() Rule {
	matching := func(ctx *Context) []domain.DeviationEvent {
		return filter(ctx.Pending(), func(e domain.DeviationEvent) bool {
			return e.Type == domain.DeviationDiningOut
		})
	}
	return Rule{
		Name: RuleCompensateDiningOut,
		Condition: func(ctx *Context) bool {
			return len(matching(ctx)) > 0
		},
		Apply: func(ctx *Context) Change {
			events := matching(ctx)
			sum := 0
			for _, e := range events {
				sum += e.ImpactCalories
			}
			next := ctx.Constraints
			today := domain.Day(ctx.Now)
			next.CalorieDeficitToday = next.DeficitOn(today) + sum
			next.CalorieDeficitDate = &today
			return Change{
				Constraints: next,
				Type:        domain.AdjustCalorieDeficit,
				Reason:      fmt.Sprintf("compensating %d kcal from %d dining-out event(s)", sum, len(events)),
				Consumed:    ids(events),
			}
		},
	}
}
