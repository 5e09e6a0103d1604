package scheduler

import (
	"math"
	"time"

	"github.com/alexanderramin/plateplan/internal/domain"
)

// MealSlot is a named meal position and its share of the daily calories.
type MealSlot struct {
	Label      string
	Proportion float64
}

func DefaultMealSlots() []MealSlot {
	return []MealSlot{
		{Label: "breakfast", Proportion: 0.25},
		{Label: "lunch", Proportion: 0.35},
		{Label: "dinner", Proportion: 0.40},
	}
}

var trainingSpread = map[int][]time.Weekday{
	1: {time.Wednesday},
	2: {time.Tuesday, time.Friday},
	3: {time.Monday, time.Wednesday, time.Friday},
	4: {time.Monday, time.Tuesday, time.Thursday, time.Friday},
	5: {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
	6: {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
	7: {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday},
}

// TrainingDays spreads n workouts per week across the week.
func TrainingDays(n int) []time.Weekday {
	if n <= 0 {
		return nil
	}
	if n > 7 {
		n = 7
	}
	return trainingSpread[n]
}

// IsTrainingDay reports whether date falls on one of the n training days.
func IsTrainingDay(n int, date time.Time) bool {
	for _, wd := range TrainingDays(n) {
		if date.Weekday() == wd {
			return true
		}
	}
	return false
}

// SlotSpec describes one slot that must be filled on a date.
type SlotSpec struct {
	Label  string
	Kind   domain.Kind
	Target float64
}

// SlotsFor returns the meal slots for date, targeted at the day's calories
// after any deficit, followed by the workout slot on training days.
func SlotsFor(date time.Time, c domain.ConstraintSet, meals []MealSlot) []SlotSpec {
	daily := float64(c.CaloriesFor(date))
	specs := make([]SlotSpec, 0, len(meals)+1)
	for _, m := range meals {
		specs = append(specs, SlotSpec{
			Label:  m.Label,
			Kind:   domain.KindMeal,
			Target: math.Round(daily * m.Proportion),
		})
	}
	if IsTrainingDay(c.WorkoutsPerWeek, date) {
		specs = append(specs, SlotSpec{
			Label:  domain.WorkoutSlotLabel(date),
			Kind:   domain.KindWorkout,
			Target: float64(c.WorkoutDurationMin),
		})
	}
	return specs
}

// CandidatesFor narrows the catalog to templates of the slot's kind. Meal
// templates whose category names the slot label are preferred when any exist.
func CandidatesFor(catalog []domain.Template, spec SlotSpec) []domain.Template {
	var ofKind, inCategory []domain.Template
	for _, t := range catalog {
		if t.Kind != spec.Kind {
			continue
		}
		ofKind = append(ofKind, t)
		if spec.Kind == domain.KindMeal && t.Category == spec.Label {
			inCategory = append(inCategory, t)
		}
	}
	if len(inCategory) > 0 {
		return inCategory
	}
	return ofKind
}

// UsedKey groups slots that share a no-repeat set: each meal label on its
// own, all workout slots together.
func UsedKey(spec SlotSpec) string {
	if spec.Kind == domain.KindWorkout {
		return string(domain.KindWorkout)
	}
	return spec.Label
}
