package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-06-16 is a Monday.
var monday = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

func TestTrainingDays(t *testing.T) {
	assert.Empty(t, TrainingDays(0))
	assert.Empty(t, TrainingDays(-2))
	assert.Equal(t, []time.Weekday{time.Wednesday}, TrainingDays(1))
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, TrainingDays(3))
	assert.Len(t, TrainingDays(9), 7)
	for n := 1; n <= 7; n++ {
		assert.Len(t, TrainingDays(n), n)
	}
}

func TestSlotsFor_TrainingDay(t *testing.T) {
	c := domain.DefaultConstraints("u-1")
	c.WorkoutsPerWeek = 3
	c.WorkoutDurationMin = 30

	specs := SlotsFor(monday, c, DefaultMealSlots())

	require.Len(t, specs, 4)
	assert.Equal(t, SlotSpec{Label: "breakfast", Kind: domain.KindMeal, Target: 500}, specs[0])
	assert.Equal(t, SlotSpec{Label: "lunch", Kind: domain.KindMeal, Target: 700}, specs[1])
	assert.Equal(t, SlotSpec{Label: "dinner", Kind: domain.KindMeal, Target: 800}, specs[2])
	assert.Equal(t, SlotSpec{Label: "1", Kind: domain.KindWorkout, Target: 30}, specs[3])

	tuesday := SlotsFor(monday.AddDate(0, 0, 1), c, DefaultMealSlots())
	assert.Len(t, tuesday, 3)
}

func TestSlotsFor_AppliesDeficitOnItsDateOnly(t *testing.T) {
	c := domain.DefaultConstraints("u-1")
	c.WorkoutsPerWeek = 0
	c.CalorieDeficitToday = 400
	d := monday
	c.CalorieDeficitDate = &d

	today := SlotsFor(monday, c, DefaultMealSlots())
	assert.Equal(t, 400.0, today[0].Target)
	assert.Equal(t, 560.0, today[1].Target)
	assert.Equal(t, 640.0, today[2].Target)

	tomorrow := SlotsFor(monday.AddDate(0, 0, 1), c, DefaultMealSlots())
	assert.Equal(t, 500.0, tomorrow[0].Target)
}

func TestCandidatesFor_PrefersCategory(t *testing.T) {
	catalog := []domain.Template{
		meal("m1", "breakfast", 400, 1),
		meal("m2", "dinner", 700, 1),
		workout("w1", 40),
	}

	got := CandidatesFor(catalog, SlotSpec{Label: "breakfast", Kind: domain.KindMeal})
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)

	got = CandidatesFor(catalog, SlotSpec{Label: "snack", Kind: domain.KindMeal})
	assert.Len(t, got, 2, "no category match falls back to every meal")

	got = CandidatesFor(catalog, SlotSpec{Label: "3", Kind: domain.KindWorkout})
	require.Len(t, got, 1)
	assert.Equal(t, "w1", got[0].ID)
}
