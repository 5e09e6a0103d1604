package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for plan dates everywhere.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// PersonalizedItem is a template instance customized for one user.
type PersonalizedItem struct {
	ID                string
	UserID            string
	Kind              Kind
	SourceTemplateID  *string
	Name              string
	Content           Content
	Totals            Totals
	Completed         bool
	RemainingServings int
	StartDate         time.Time
	IsFallback        bool
	CreatedAt         time.Time
}

// ScheduleSlot binds a personalized item to a calendar date and slot label.
// Adjacent days may point at the same item when servings carry over.
type ScheduleSlot struct {
	ID           string
	UserID       string
	Date         time.Time
	Label        string
	Kind         Kind
	ItemID       string
	ServingsUsed int
	CompletedAt  *time.Time
}

// IsCompleted reports whether the user marked this slot done.
func (s *ScheduleSlot) IsCompleted() bool {
	return s.CompletedAt != nil
}

// MarkCompleted records completion. Completing twice keeps the first timestamp.
func (s *ScheduleSlot) MarkCompleted(now time.Time) {
	if s.CompletedAt != nil {
		return
	}
	t := now.UTC()
	s.CompletedAt = &t
}

// PlannedSlot is a slot joined with the item it references.
type PlannedSlot struct {
	Slot ScheduleSlot
	Item PersonalizedItem
}

// WorkoutSlotLabel returns the ISO weekday label (1=Mon..7=Sun) used for workout slots.
func WorkoutSlotLabel(date time.Time) string {
	wd := int(date.Weekday())
	if wd == 0 {
		wd = 7
	}
	return fmt.Sprintf("%d", wd)
}
