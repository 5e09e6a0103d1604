package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/domain"
)

// FormatPlan renders one day of planned slots. With detailed set each slot
// is followed by its ingredients or exercises.
func FormatPlan(date, now time.Time, slots []domain.PlannedSlot, detailed bool) string {
	var b strings.Builder
	b.WriteString(PlanDate(date, now) + "\n\n")

	if len(slots) == 0 {
		b.WriteString(Dim("Nothing planned.") + "\n")
		return RenderBox("Plan", b.String())
	}

	headers := []string{"SLOT", "KIND", "ITEM", "AMOUNT", "SERVING", "STATUS"}
	rows := make([][]string, 0, len(slots))
	var kcal float64
	for _, ps := range slots {
		rows = append(rows, []string{
			Bold(ps.Slot.Label),
			KindBadge(ps.Slot.Kind),
			itemName(ps.Item),
			amount(ps.Item),
			servingLabel(ps),
			CompletionPill(ps.Slot.IsCompleted()),
		})
		if ps.Item.Kind == domain.KindMeal {
			kcal += ps.Item.Totals.Calories
		}
	}
	b.WriteString(RenderTable(headers, rows))

	if kcal > 0 {
		b.WriteString("\n" + Dim("Meals total ") + Bold(Kcal(kcal)) + "\n")
	}

	if detailed {
		for _, ps := range slots {
			b.WriteString("\n" + Header(ps.Slot.Label+" · "+ps.Item.Name) + "\n")
			b.WriteString(contentLines(ps.Item))
		}
	}
	return RenderBox("Plan", b.String())
}

// FormatPersonalize renders the regenerated plan and lists fallback slots.
func FormatPersonalize(resp *app.PersonalizeResponse, now time.Time) string {
	var b strings.Builder
	b.WriteString(FormatPlan(resp.Date, now, resp.Plan, false))
	b.WriteString("\n")
	if len(resp.FallbackUsed) == 0 {
		b.WriteString(StyleDone.Render("● All slots customized") + "\n")
		return b.String()
	}
	fallback := append([]string(nil), resp.FallbackUsed...)
	sort.Strings(fallback)
	b.WriteString(StyleWarn.Render(fmt.Sprintf("▲ %d slot(s) used the scaled template: ", len(fallback))))
	b.WriteString(strings.Join(fallback, ", ") + "\n")
	return b.String()
}

// FormatAllocate summarizes a weekly allocation.
func FormatAllocate(resp *app.AllocateResponse) string {
	end := resp.StartDate.AddDate(0, 0, resp.DaysPlanned-1)
	rows := [][]string{
		{Dim("Week"), fmt.Sprintf("%s → %s", resp.StartDate.Format(domain.DateLayout), end.Format(domain.DateLayout))},
		{Dim("Days"), fmt.Sprintf("%d", resp.DaysPlanned)},
		{Dim("Items"), fmt.Sprintf("%d", resp.ItemsCreated)},
		{Dim("Slots"), fmt.Sprintf("%d", resp.SlotsFilled)},
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-6s %s\n", r[0], r[1]))
	}
	return RenderBox("Week allocated", b.String())
}

// FormatComplete reports a slot completion.
func FormatComplete(resp *app.CompleteSlotResponse) string {
	s := resp.Slot
	line := fmt.Sprintf("%s %s %s on %s", CompletionPill(true), Bold(s.Label), KindBadge(s.Kind), s.Date.Format(domain.DateLayout))
	if resp.ItemCompleted {
		line += "\n" + StyleDone.Render("Item finished: every serving is eaten or done.")
	}
	return line + "\n"
}

func itemName(it domain.PersonalizedItem) string {
	name := it.Name
	if it.IsFallback {
		name += " " + StyleWarn.Render("(scaled)")
	}
	return name
}

func amount(it domain.PersonalizedItem) string {
	if it.Kind == domain.KindWorkout {
		return FormatMinutes(it.Totals.Minutes)
	}
	return Kcal(it.Totals.Calories)
}

func servingLabel(ps domain.PlannedSlot) string {
	if ps.Slot.Kind == domain.KindWorkout {
		return Dim("--")
	}
	return fmt.Sprintf("#%d", ps.Slot.ServingsUsed)
}

func contentLines(it domain.PersonalizedItem) string {
	var b strings.Builder
	if it.Kind == domain.KindWorkout {
		for _, ex := range it.Content.Exercises {
			b.WriteString(fmt.Sprintf("  %s  %dx%d  %s\n", ex.Name, ex.Sets, ex.Reps, Dim(fmt.Sprintf("rest %ds", ex.RestSeconds))))
		}
		return b.String()
	}
	for _, ing := range it.Content.Ingredients {
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n", ing.Name, Grams(ing.Grams), Dim(Kcal(ing.Calories))))
	}
	return b.String()
}
