package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/google/uuid"
)

// Template options
type TemplateOption func(*domain.Template)

func WithCategory(c string) TemplateOption {
	return func(t *domain.Template) {
		t.Category = c
	}
}

func WithServings(n int) TemplateOption {
	return func(t *domain.Template) {
		t.Servings = n
	}
}

func WithTags(tags ...string) TemplateOption {
	return func(t *domain.Template) {
		t.Tags = tags
	}
}

func WithName(name string) TemplateOption {
	return func(t *domain.Template) {
		t.Name = name
	}
}

func WithIngredients(ings ...domain.Ingredient) TemplateOption {
	return func(t *domain.Template) {
		t.Content.Ingredients = ings
		var cal float64
		for _, i := range ings {
			cal += i.Calories
		}
		t.Totals.Calories = cal
	}
}

// NewTestMealTemplate builds a single-serving meal whose two ingredients sum
// to calories.
func NewTestMealTemplate(id string, calories float64, opts ...TemplateOption) *domain.Template {
	t := &domain.Template{
		ID:   id,
		Kind: domain.KindMeal,
		Name: "Meal " + id,
		Content: domain.Content{Ingredients: []domain.Ingredient{
			{Name: "protein " + id, Grams: 150, Calories: calories * 0.6, ProteinG: 30, FatsG: 8},
			{Name: "grain " + id, Grams: 100, Calories: calories * 0.4, ProteinG: 4, CarbsG: 40, FatsG: 1},
		}},
		Totals:   domain.Totals{Calories: calories, ProteinG: 34, CarbsG: 40, FatsG: 9},
		Servings: 1,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestWorkoutTemplate(id string, minutes int, opts ...TemplateOption) *domain.Template {
	t := &domain.Template{
		ID:          id,
		Kind:        domain.KindWorkout,
		Name:        "Workout " + id,
		DurationMin: minutes,
		Content: domain.Content{Exercises: []domain.Exercise{
			{Name: "squat", Sets: 4, Reps: 8, RestSeconds: 90},
			{Name: "row", Sets: 3, Reps: 10, RestSeconds: 60},
		}},
		Totals: domain.Totals{Volume: 62, Minutes: minutes},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Deviation options
type DeviationOption func(*domain.DeviationEvent)

func WithReason(r domain.ReasonCode) DeviationOption {
	return func(e *domain.DeviationEvent) {
		e.Reason = r
	}
}

func WithOccurredAt(t time.Time) DeviationOption {
	return func(e *domain.DeviationEvent) {
		e.OccurredAt = t
	}
}

func WithImpactCalories(n int) DeviationOption {
	return func(e *domain.DeviationEvent) {
		e.ImpactCalories = n
	}
}

func WithAutoAdjusted() DeviationOption {
	return func(e *domain.DeviationEvent) {
		e.AutoAdjusted = true
	}
}

func NewTestDeviation(userID string, typ domain.DeviationType, opts ...DeviationOption) *domain.DeviationEvent {
	e := &domain.DeviationEvent{
		ID:         uuid.New().String(),
		UserID:     userID,
		Type:       typ,
		Reason:     domain.ReasonOther,
		OccurredAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewTestItem returns a meal item scheduled to start on date.
func NewTestItem(userID string, date time.Time) *domain.PersonalizedItem {
	id := uuid.New().String()
	return &domain.PersonalizedItem{
		ID:     id,
		UserID: userID,
		Kind:   domain.KindMeal,
		Name:   fmt.Sprintf("Item %s", id[:8]),
		Content: domain.Content{Ingredients: []domain.Ingredient{
			{Name: "oats", Grams: 80, Calories: 300},
		}},
		Totals:    domain.Totals{Calories: 300},
		StartDate: domain.Day(date),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func NewTestSlot(item *domain.PersonalizedItem, date time.Time, label string) *domain.ScheduleSlot {
	return &domain.ScheduleSlot{
		ID:           uuid.New().String(),
		UserID:       item.UserID,
		Date:         domain.Day(date),
		Label:        label,
		Kind:         item.Kind,
		ItemID:       item.ID,
		ServingsUsed: 1,
	}
}
