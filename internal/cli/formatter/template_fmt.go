package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/domain"
)

// FormatTemplateList renders catalog templates inside a bordered box.
func FormatTemplateList(templates []domain.Template) string {
	if len(templates) == 0 {
		return RenderBox("Templates", Dim("Catalog is empty. Run `plateplan catalog import`."))
	}

	headers := []string{"ID", "KIND", "CATEGORY", "NAME", "BUDGET", "SERVINGS", "TAGS"}
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		budget := Kcal(t.Totals.Calories)
		if t.Kind == domain.KindWorkout {
			budget = FormatMinutes(t.DurationMin)
		}
		category := t.Category
		if category == "" {
			category = "--"
		}
		rows = append(rows, []string{
			Bold(t.ID),
			KindBadge(t.Kind),
			Dim(category),
			t.Name,
			budget,
			fmt.Sprintf("%d", t.EffectiveServings()),
			Dim(strings.Join(t.Tags, ", ")),
		})
	}
	return RenderBox("Templates", RenderTable(headers, rows))
}

// FormatImport reports a catalog import.
func FormatImport(dir string, res *app.CatalogImportResult) string {
	var meals, workouts int
	for _, t := range res.Templates {
		if t.Kind == domain.KindWorkout {
			workouts++
		} else {
			meals++
		}
	}
	return fmt.Sprintf("%s Imported %d templates from %s %s\n",
		StyleDone.Render("✔"),
		res.Imported,
		Bold(dir),
		Dim(fmt.Sprintf("(%d meals, %d workouts)", meals, workouts)))
}
