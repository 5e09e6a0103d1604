package domain

import (
	"fmt"
	"time"
)

// DeviationEvent is an immutable record of the user not following the plan.
// AutoAdjusted is the only field the adjustment engine flips.
type DeviationEvent struct {
	ID             string
	UserID         string
	Type           DeviationType
	Reason         ReasonCode
	OccurredAt     time.Time
	ImpactCalories int
	ImpactBudget   float64
	AutoAdjusted   bool
}

// Validate checks the fields a caller must supply when logging a deviation.
func (e *DeviationEvent) Validate() error {
	if e.UserID == "" {
		return fmt.Errorf("deviation user is required")
	}
	if !ValidDeviationTypes[e.Type] {
		return fmt.Errorf("unknown deviation type %q", e.Type)
	}
	if e.Reason != "" && !ValidReasonCodes[e.Reason] {
		return fmt.Errorf("unknown deviation reason %q", e.Reason)
	}
	if e.ImpactCalories < 0 {
		return fmt.Errorf("impact calories must be >= 0, got %d", e.ImpactCalories)
	}
	return nil
}

// IsWorkoutMiss reports whether the event is a skipped or shortened workout.
func (e *DeviationEvent) IsWorkoutMiss() bool {
	return e.Type == DeviationSkippedWorkout || e.Type == DeviationShortenedWorkout
}

// AdjustmentRecord is the audit entry for one fired rule. Never mutated.
type AdjustmentRecord struct {
	ID             string
	UserID         string
	RuleName       string
	AdjustmentType AdjustmentType
	Reason         string
	Before         ConstraintSet
	After          ConstraintSet
	TriggerSource  AdjustTrigger
	CreatedAt      time.Time
}
