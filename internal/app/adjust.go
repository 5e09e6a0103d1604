package app

import (
	"time"

	"github.com/alexanderramin/plateplan/internal/domain"
)

type AdjustRequest struct {
	UserID  string
	Trigger domain.AdjustTrigger
	Now     *time.Time
}

// AdjustResponse is returned for both applied and gated passes. When the
// entitlement check fails RequiresManualRegeneration is set and nothing changed.
type AdjustResponse struct {
	AdjustmentsApplied         int
	Adjustments                []domain.AdjustmentRecord
	RequiresRegeneration       bool
	RequiresManualRegeneration bool
	Constraints                domain.ConstraintSet
}

type LogDeviationRequest struct {
	Event domain.DeviationEvent
	// ApplyAdjustments runs an adjustment pass triggered by this deviation.
	ApplyAdjustments bool
	Now              *time.Time
}

type LogDeviationResponse struct {
	Event      domain.DeviationEvent
	Adjustment *AdjustResponse
}

type StreakRequest struct {
	UserID string
	Now    *time.Time
}

type StreakResponse struct {
	CurrentStreak int
	LongestStreak int
	TodayComplete bool
}
