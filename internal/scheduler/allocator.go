package scheduler

import (
	"time"

	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/scaling"
)

// DaysPerWeek is the length of an allocated week.
const DaysPerWeek = 7

// WeekInput is everything AllocateWeek needs; it performs no I/O.
type WeekInput struct {
	UserID      string
	Start       time.Time
	Days        int
	MealSlots   []MealSlot
	Constraints domain.ConstraintSet
	Catalog     []domain.Template
	Signals     *domain.UserSignals
	TopN        int
	Now         time.Time
	NewID       func() string
}

// WeekPlan is the allocated week, ready to persist.
type WeekPlan struct {
	Items       []domain.PersonalizedItem
	Slots       []domain.ScheduleSlot
	DaysPlanned int
}

type carryover struct {
	itemIdx   int
	remaining int
}

// AllocateWeek fills every (day, slot) in chronological order. A multi-serving
// item carries over to the same label on following days until its servings
// run out; only then is a new template selected and scaled to the slot target.
// Slots with no candidate template are left empty.
func AllocateWeek(in WeekInput) WeekPlan {
	days := in.Days
	if days <= 0 {
		days = DaysPerWeek
	}
	start := domain.Day(in.Start)

	var plan WeekPlan
	active := make(map[string]*carryover)
	used := make(map[string]map[string]bool)

	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)
		dateStr := date.Format(domain.DateLayout)

		for _, spec := range SlotsFor(date, in.Constraints, in.MealSlots) {
			if co := active[spec.Label]; co != nil && co.remaining > 0 {
				co.remaining--
				plan.Items[co.itemIdx].RemainingServings = co.remaining
				plan.Slots = append(plan.Slots, newSlot(in, date, spec, plan.Items[co.itemIdx].ID))
				if co.remaining == 0 {
					delete(active, spec.Label)
				}
				continue
			}

			key := UsedKey(spec)
			if used[key] == nil {
				used[key] = make(map[string]bool)
			}
			tmpl := Select(CandidatesFor(in.Catalog, spec), used[key], in.Signals, Seed(dateStr, spec.Label), in.TopN)
			if tmpl == nil {
				continue
			}
			used[key][tmpl.ID] = true

			content, totals := scaling.ScaleWithTotals(tmpl, spec.Target)
			servings := 1
			if spec.Kind == domain.KindMeal {
				servings = tmpl.EffectiveServings()
			}
			srcID := tmpl.ID
			item := domain.PersonalizedItem{
				ID:                in.NewID(),
				UserID:            in.UserID,
				Kind:              spec.Kind,
				SourceTemplateID:  &srcID,
				Name:              tmpl.Name,
				Content:           content,
				Totals:            totals,
				RemainingServings: servings - 1,
				StartDate:         date,
				CreatedAt:         in.Now,
			}
			plan.Items = append(plan.Items, item)
			plan.Slots = append(plan.Slots, newSlot(in, date, spec, item.ID))

			if servings > 1 {
				active[spec.Label] = &carryover{itemIdx: len(plan.Items) - 1, remaining: servings - 1}
			} else {
				delete(active, spec.Label)
			}
		}
		plan.DaysPlanned++
	}
	return plan
}

func newSlot(in WeekInput, date time.Time, spec SlotSpec, itemID string) domain.ScheduleSlot {
	return domain.ScheduleSlot{
		ID:           in.NewID(),
		UserID:       in.UserID,
		Date:         date,
		Label:        spec.Label,
		Kind:         spec.Kind,
		ItemID:       itemID,
		ServingsUsed: 1,
	}
}
