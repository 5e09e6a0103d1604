package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/domain"
)

// FormatAdjust renders the outcome of an adjustment pass.
func FormatAdjust(resp *app.AdjustResponse) string {
	var b strings.Builder

	switch {
	case resp.RequiresManualRegeneration:
		b.WriteString(StyleWarn.Render("▲ Adaptive adjustments need a paid plan.") + "\n")
		b.WriteString(Dim("Nothing changed. Regenerate your plan manually.") + "\n")
		return RenderBox("Adjustments", b.String())
	case resp.AdjustmentsApplied == 0:
		b.WriteString(Dim("No rule fired. Constraints unchanged.") + "\n")
	default:
		rows := make([][]string, 0, len(resp.Adjustments))
		for _, rec := range resp.Adjustments {
			rows = append(rows, []string{
				Bold(rec.RuleName),
				StyleWorkout.Render(string(rec.AdjustmentType)),
				rec.Reason,
			})
		}
		b.WriteString(RenderTable([]string{"RULE", "CHANGE", "REASON"}, rows))
	}

	b.WriteString("\n" + Header("Constraints") + "\n")
	b.WriteString(FormatConstraints(resp.Constraints))
	if resp.RequiresRegeneration {
		b.WriteString("\n" + StyleWarn.Render("Regenerate upcoming plans to apply the new constraints.") + "\n")
	}
	return RenderBox("Adjustments", b.String())
}

// FormatConstraints lists the standing constraint values.
func FormatConstraints(c domain.ConstraintSet) string {
	lines := [][2]string{
		{"Workouts/week", fmt.Sprintf("%d", c.WorkoutsPerWeek)},
		{"Workout length", FormatMinutes(c.WorkoutDurationMin)},
		{"Budget tier", string(c.BudgetTier)},
		{"Daily calories", fmt.Sprintf("%d", c.DailyCalories)},
	}
	if c.CalorieDeficitToday > 0 && c.CalorieDeficitDate != nil {
		lines = append(lines, [2]string{"Deficit", fmt.Sprintf("%d on %s", c.CalorieDeficitToday, c.CalorieDeficitDate.Format(domain.DateLayout))})
	}
	if c.PreferSimpleMeals {
		lines = append(lines, [2]string{"Meals", "simple"})
	}
	if c.PreferCheapProteins {
		lines = append(lines, [2]string{"Proteins", "cheap"})
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(fmt.Sprintf("  %s %s\n", Dim(fmt.Sprintf("%-15s", l[0])), l[1]))
	}
	return b.String()
}

// FormatStreak renders the streak summary line.
func FormatStreak(resp *app.StreakResponse) string {
	style := StreakColor(resp.CurrentStreak)
	var b strings.Builder
	b.WriteString(style.Render(fmt.Sprintf("🔥 %d day streak", resp.CurrentStreak)))
	b.WriteString(Dim(fmt.Sprintf("  longest %d", resp.LongestStreak)))
	b.WriteString("\n")
	if resp.TodayComplete {
		b.WriteString(StyleDone.Render("✔ Today is done") + "\n")
	} else {
		b.WriteString(Dim("○ Today still has open slots") + "\n")
	}
	return b.String()
}

// FormatDeviation confirms a logged deviation and any adjustment it triggered.
func FormatDeviation(resp *app.LogDeviationResponse) string {
	ev := resp.Event
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Logged %s %s %s\n",
		StyleWarn.Render(string(ev.Type)),
		Dim("("+string(ev.Reason)+")"),
		TruncID(ev.ID)))
	if ev.ImpactCalories > 0 {
		b.WriteString(Dim(fmt.Sprintf("Impact: %d kcal", ev.ImpactCalories)) + "\n")
	}
	if resp.Adjustment != nil {
		b.WriteString("\n" + FormatAdjust(resp.Adjustment))
	}
	return b.String()
}
