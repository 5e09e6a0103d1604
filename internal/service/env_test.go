package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/plateplan/internal/customizer"
	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/ratelimit"
	"github.com/alexanderramin/plateplan/internal/repository"
	"github.com/alexanderramin/plateplan/internal/scaling"
	"github.com/alexanderramin/plateplan/internal/scheduler"
	"github.com/alexanderramin/plateplan/internal/testutil"
	"github.com/alexanderramin/plateplan/internal/validate"
)

const testUser = "user-1"

// 2024-01-01 is a Monday.
var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	db          *sql.DB
	templates   *repository.SQLiteTemplateRepo
	items       *repository.SQLiteItemRepo
	slots       *repository.SQLiteSlotRepo
	constraints *repository.SQLiteConstraintRepo
	deviations  *repository.SQLiteDeviationRepo
	adjustments *repository.SQLiteAdjustmentRepo
	signals     *repository.SQLiteSignalsRepo
	profiles    *repository.SQLiteUserProfileRepo
	tiers       *repository.SQLiteTierRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:          database,
		templates:   repository.NewSQLiteTemplateRepo(database),
		items:       repository.NewSQLiteItemRepo(database),
		slots:       repository.NewSQLiteSlotRepo(database),
		constraints: repository.NewSQLiteConstraintRepo(database),
		deviations:  repository.NewSQLiteDeviationRepo(database),
		adjustments: repository.NewSQLiteAdjustmentRepo(database),
		signals:     repository.NewSQLiteSignalsRepo(database),
		profiles:    repository.NewSQLiteUserProfileRepo(database),
		tiers:       repository.NewSQLiteTierRepo(database),
	}
}

func (e *testEnv) addTemplates(t *testing.T, templates ...*domain.Template) {
	t.Helper()
	for _, tmpl := range templates {
		require.NoError(t, e.templates.Upsert(context.Background(), tmpl))
	}
}

// mealsOnly stores constraints without training days so only meal slots
// are planned.
func (e *testEnv) mealsOnly(t *testing.T) domain.ConstraintSet {
	t.Helper()
	c := domain.DefaultConstraints(testUser)
	c.WorkoutsPerWeek = 0
	require.NoError(t, e.constraints.Upsert(context.Background(), &c))
	return c
}

func (e *testEnv) count(t *testing.T, table string) int {
	t.Helper()
	return testutil.CountRows(t, e.db, table)
}

// lunchOnly plans a single lunch slot worth a quarter of the day.
func lunchOnly() PlanningOptions {
	return PlanningOptions{
		MealSlots: []scheduler.MealSlot{{Label: "lunch", Proportion: 0.25}},
		TopN:      scheduler.DefaultTopN,
	}
}

// fakeCustomizer answers with respond, or with scaled template content
// when respond is nil.
type fakeCustomizer struct {
	mu       sync.Mutex
	calls    int
	requests []customizer.Request
	respond  func([]customizer.Request) ([]customizer.Response, error)
}

func (f *fakeCustomizer) Customize(_ context.Context, reqs []customizer.Request) ([]customizer.Response, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, reqs...)
	f.mu.Unlock()
	if f.respond != nil {
		return f.respond(reqs)
	}
	out := make([]customizer.Response, len(reqs))
	for i, r := range reqs {
		tmpl := domain.Template{Kind: r.Kind, Content: r.Content}
		tmpl.Totals = scaling.TotalsFromContent(r.Kind, r.Content)
		if r.Kind == domain.KindWorkout {
			tmpl.DurationMin = tmpl.Totals.Minutes
		}
		target, _ := r.Metadata[customizer.MetaTarget].(float64)
		out[i] = customizer.Response{
			TemplateID: r.TemplateID,
			Document:   validate.Document("Custom "+r.Name, scaling.Scale(&tmpl, target)),
		}
	}
	return out, nil
}

type denyLimiter struct{ wait int }

func (d denyLimiter) Allow(string) ratelimit.Decision {
	return ratelimit.Decision{Allowed: false, Message: "too many regenerations", WaitSeconds: d.wait}
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, ev UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingObserver) last() UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}
