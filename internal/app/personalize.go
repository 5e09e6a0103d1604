package app

import (
	"time"

	"github.com/alexanderramin/plateplan/internal/domain"
)

type PersonalizeRequest struct {
	UserID string
	Date   time.Time
	Now    *time.Time
}

// PersonalizeResponse reports which slots fell back to a scaled template.
// Fallbacks do not make the request unsuccessful.
type PersonalizeResponse struct {
	Success      bool
	Date         time.Time
	Count        int
	FallbackUsed []string
	Plan         []domain.PlannedSlot
}

type AllocateRequest struct {
	UserID    string
	StartDate time.Time
	Now       *time.Time
}

type AllocateResponse struct {
	StartDate    time.Time
	DaysPlanned  int
	ItemsCreated int
	SlotsFilled  int
}

type PlanRequest struct {
	UserID string
	Date   time.Time
}

type PlanResponse struct {
	UserID string
	Date   time.Time
	Slots  []domain.PlannedSlot
}

type CompleteSlotResponse struct {
	Slot          domain.ScheduleSlot
	ItemCompleted bool
}
