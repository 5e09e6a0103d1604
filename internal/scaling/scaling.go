// Package scaling rescales template content proportionally to a numeric target.
package scaling

import (
	"math"

	"github.com/alexanderramin/plateplan/internal/domain"
)

// Seconds assumed per rep when estimating workout minutes.
const secondsPerRep = 3

// Ratio returns target / t.Budget(), or 1 when the template has no usable budget.
func Ratio(t *domain.Template, target float64) float64 {
	budget := t.Budget()
	if budget <= 0 || target <= 0 {
		return 1
	}
	return target / budget
}

// Scale returns a deep copy of t.Content with every quantitative field
// multiplied by target / t.Budget(). The template is never mutated.
//
// Meals: grams and calories round to whole units, macros to one decimal.
// Workouts: sets, reps and rest seconds round to whole units; sets and reps
// never drop below 1.
func Scale(t *domain.Template, target float64) domain.Content {
	out := t.Content.Clone()
	if t.Budget() <= 0 {
		return out
	}
	ratio := Ratio(t, target)

	for i := range out.Ingredients {
		ing := &out.Ingredients[i]
		ing.Grams = math.Round(ing.Grams * ratio)
		ing.Calories = math.Round(ing.Calories * ratio)
		ing.ProteinG = round1(ing.ProteinG * ratio)
		ing.CarbsG = round1(ing.CarbsG * ratio)
		ing.FatsG = round1(ing.FatsG * ratio)
	}
	for i := range out.Exercises {
		ex := &out.Exercises[i]
		ex.Sets = atLeastOne(int(math.Round(float64(ex.Sets) * ratio)))
		ex.Reps = atLeastOne(int(math.Round(float64(ex.Reps) * ratio)))
		ex.RestSeconds = int(math.Round(float64(ex.RestSeconds) * ratio))
	}
	return out
}

// TotalsFromContent sums the leaves of c. Meals fill calories and macros;
// workouts fill Volume (sets x reps) and an estimated Minutes figure.
func TotalsFromContent(kind domain.Kind, c domain.Content) domain.Totals {
	var t domain.Totals
	if kind == domain.KindWorkout {
		seconds := 0
		for _, ex := range c.Exercises {
			t.Volume += ex.Sets * ex.Reps
			seconds += ex.Sets * (ex.Reps*secondsPerRep + ex.RestSeconds)
		}
		t.Minutes = int(math.Round(float64(seconds) / 60))
		return t
	}
	for _, ing := range c.Ingredients {
		t.Calories += ing.Calories
		t.ProteinG += ing.ProteinG
		t.CarbsG += ing.CarbsG
		t.FatsG += ing.FatsG
	}
	t.Calories = math.Round(t.Calories)
	t.ProteinG = round1(t.ProteinG)
	t.CarbsG = round1(t.CarbsG)
	t.FatsG = round1(t.FatsG)
	return t
}

// ScaleWithTotals is Scale followed by TotalsFromContent.
func ScaleWithTotals(t *domain.Template, target float64) (domain.Content, domain.Totals) {
	c := Scale(t, target)
	return c, TotalsFromContent(t.Kind, c)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
