// Package streak computes the consecutive-day consistency streak from
// schedule slot completion records.
package streak

import (
	"time"

	"github.com/alexanderramin/plateplan/internal/domain"
)

// MaxLookbackDays bounds the backward scan.
const MaxLookbackDays = 365

// History maps a YYYY-MM-DD date to the slots scheduled on it.
type History map[string][]domain.ScheduleSlot

// NewHistory groups slots by their calendar date.
func NewHistory(slots []domain.ScheduleSlot) History {
	h := make(History)
	for _, s := range slots {
		key := s.Date.Format(domain.DateLayout)
		h[key] = append(h[key], s)
	}
	return h
}

type Result struct {
	CurrentStreak int
	// LongestStreak always equals CurrentStreak; no historical maximum is kept.
	LongestStreak int
	TodayComplete bool
}

// DayComplete holds when every workout slot (if any) is completed and at
// least one meal slot exists with every meal slot completed.
func DayComplete(slots []domain.ScheduleSlot) bool {
	meals := 0
	for i := range slots {
		s := &slots[i]
		if s.Kind == domain.KindMeal {
			meals++
		}
		if !s.IsCompleted() {
			return false
		}
	}
	return meals > 0
}

// Compute walks backward from today. A complete today counts as the first
// day; an incomplete today does not break a streak that ended yesterday.
func Compute(today time.Time, history History) Result {
	day := domain.Day(today)
	res := Result{TodayComplete: DayComplete(history[day.Format(domain.DateLayout)])}

	streak := 0
	if res.TodayComplete {
		streak = 1
	}
	for i := 1; i <= MaxLookbackDays; i++ {
		d := day.AddDate(0, 0, -i)
		if !DayComplete(history[d.Format(domain.DateLayout)]) {
			break
		}
		streak++
	}

	res.CurrentStreak = streak
	res.LongestStreak = streak
	return res
}
