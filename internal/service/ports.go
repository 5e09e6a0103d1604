package service

import (
	"context"

	"github.com/alexanderramin/plateplan/internal/entitlement"
	"github.com/alexanderramin/plateplan/internal/notify"
	"github.com/alexanderramin/plateplan/internal/ratelimit"
	"github.com/alexanderramin/plateplan/internal/scheduler"
)

// RateLimiter is consulted before any regeneration work.
type RateLimiter interface {
	Allow(userID string) ratelimit.Decision
}

// Entitlements gates premium features.
type Entitlements interface {
	Check(ctx context.Context, userID, feature string) (entitlement.Entitlement, error)
}

// Notifier announces plan changes.
type Notifier interface {
	Publish(ctx context.Context, ev notify.Event) error
}

type allowAll struct{}

func (allowAll) Allow(string) ratelimit.Decision { return ratelimit.Decision{Allowed: true} }

type silentNotifier struct{}

func (silentNotifier) Publish(context.Context, notify.Event) error { return nil }

// PlanningOptions are the shared planning knobs resolved from config.
type PlanningOptions struct {
	MealSlots               []scheduler.MealSlot
	TopN                    int
	DailyCalories           int
	SimplifyAfterDeviations int
}

// DefaultPlanningOptions mirrors the built-in constraint defaults.
func DefaultPlanningOptions() PlanningOptions {
	return PlanningOptions{
		MealSlots: scheduler.DefaultMealSlots(),
		TopN:      scheduler.DefaultTopN,
	}
}

func (o PlanningOptions) mealSlots() []scheduler.MealSlot {
	if len(o.MealSlots) == 0 {
		return scheduler.DefaultMealSlots()
	}
	return o.MealSlots
}
