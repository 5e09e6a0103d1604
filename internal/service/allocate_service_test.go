package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/notify"
	"github.com/alexanderramin/plateplan/internal/testutil"
)

func newAllocate(env *testEnv, notifier Notifier) app.AllocateUseCase {
	return NewAllocateService(env.templates, env.constraints, env.signals,
		testutil.NewTestUoW(env.db), notifier, nil, lunchOnly())
}

func TestAllocateWeek_CarriesServingsOver(t *testing.T) {
	env := newTestEnv(t)
	env.mealsOnly(t)
	env.addTemplates(t, testutil.NewTestMealTemplate("stew", 400, testutil.WithServings(3)))

	resp, err := newAllocate(env, nil).AllocateWeek(context.Background(), app.AllocateRequest{UserID: testUser, StartDate: monday})
	require.NoError(t, err)

	assert.Equal(t, 7, resp.DaysPlanned)
	assert.Equal(t, 7, resp.SlotsFilled)
	// Three servings cover days 1-3 and 4-6; day 7 starts a third batch.
	assert.Equal(t, 3, resp.ItemsCreated)

	slots, err := env.slots.ListByUserRange(context.Background(), testUser, monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, slots, 7)
	assert.Equal(t, slots[0].ItemID, slots[1].ItemID)
	assert.Equal(t, slots[0].ItemID, slots[2].ItemID)
	assert.NotEqual(t, slots[2].ItemID, slots[3].ItemID)
	assert.Equal(t, slots[3].ItemID, slots[5].ItemID)
	assert.NotEqual(t, slots[5].ItemID, slots[6].ItemID)

	item, err := env.items.GetByID(context.Background(), slots[0].ItemID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, item.Totals.Calories)
	assert.Zero(t, item.RemainingServings)
}

func TestAllocateWeek_SpreadsWorkouts(t *testing.T) {
	env := newTestEnv(t)
	c := domain.DefaultConstraints(testUser)
	c.WorkoutsPerWeek = 3
	require.NoError(t, env.constraints.Upsert(context.Background(), &c))
	env.addTemplates(t,
		testutil.NewTestMealTemplate("a", 400),
		testutil.NewTestWorkoutTemplate("w1", 45),
		testutil.NewTestWorkoutTemplate("w2", 30),
	)

	resp, err := newAllocate(env, nil).AllocateWeek(context.Background(), app.AllocateRequest{UserID: testUser, StartDate: monday})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.SlotsFilled)

	slots, err := env.slots.ListByUserRange(context.Background(), testUser, monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	var labels []string
	for _, s := range slots {
		if s.Kind == domain.KindWorkout {
			labels = append(labels, s.Label)
		}
	}
	assert.Equal(t, []string{"1", "3", "5"}, labels)
}

func TestAllocateWeek_ReplacesPreviousWeek(t *testing.T) {
	env := newTestEnv(t)
	env.mealsOnly(t)
	env.addTemplates(t, testutil.NewTestMealTemplate("a", 400), testutil.NewTestMealTemplate("b", 500))
	svc := newAllocate(env, nil)
	req := app.AllocateRequest{UserID: testUser, StartDate: monday}

	_, err := svc.AllocateWeek(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.AllocateWeek(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 7, env.count(t, "schedule_slots"))
	assert.Equal(t, 7, env.count(t, "personalized_items"))
}

func TestAllocateWeek_PublishesOnce(t *testing.T) {
	env := newTestEnv(t)
	env.mealsOnly(t)
	env.addTemplates(t, testutil.NewTestMealTemplate("a", 400))
	reg := notify.NewRegistry()
	var got []notify.Event
	reg.Subscribe(notify.TopicBoth, func(ev notify.Event) { got = append(got, ev) })

	_, err := newAllocate(env, reg).AllocateWeek(context.Background(), app.AllocateRequest{UserID: testUser, StartDate: monday})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "week_allocated", got[0].Reason)
	assert.Equal(t, notify.TopicMeals, got[0].Topic)
}

func TestAllocateWeek_Errors(t *testing.T) {
	env := newTestEnv(t)
	svc := newAllocate(env, nil)

	_, err := svc.AllocateWeek(context.Background(), app.AllocateRequest{UserID: testUser, StartDate: monday})
	code, ok := app.PlanErrorCodeOf(err)
	require.True(t, ok)
	assert.Equal(t, app.PlanErrNoTemplates, code)

	_, err = svc.AllocateWeek(context.Background(), app.AllocateRequest{UserID: testUser})
	code, _ = app.PlanErrorCodeOf(err)
	assert.Equal(t, app.PlanErrInvalidInput, code)
}
