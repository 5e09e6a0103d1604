package template

import (
	"fmt"

	"github.com/alexanderramin/plateplan/internal/domain"
)

// ValidateFile checks a catalog file for structural errors.
// Returns a slice of errors (empty if valid).
func ValidateFile(file *CatalogFile) []error {
	var errs []error

	if !file.Kind.Valid() {
		errs = append(errs, fmt.Errorf("kind must be meal or workout, got %q", file.Kind))
	}
	if file.Servings != nil && *file.Servings < 1 {
		errs = append(errs, fmt.Errorf("servings must be >= 1"))
	}
	if len(file.Templates) == 0 {
		errs = append(errs, fmt.Errorf("at least one template is required"))
	}

	ids := map[string]bool{}
	for i, t := range file.Templates {
		prefix := fmt.Sprintf("template[%d]", i)
		if t.ID == "" {
			errs = append(errs, fmt.Errorf("%s: id is required", prefix))
		} else {
			prefix = fmt.Sprintf("template %q", t.ID)
		}
		if ids[t.ID] && t.ID != "" {
			errs = append(errs, fmt.Errorf("%s: duplicate id", prefix))
		}
		ids[t.ID] = true
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", prefix))
		}
		if t.Servings != nil && *t.Servings < 1 {
			errs = append(errs, fmt.Errorf("%s: servings must be >= 1", prefix))
		}
		if t.DurationMin < 0 {
			errs = append(errs, fmt.Errorf("%s: duration_min must be >= 0", prefix))
		}

		switch file.Kind {
		case domain.KindMeal:
			errs = append(errs, validateIngredients(prefix, t)...)
		case domain.KindWorkout:
			errs = append(errs, validateExercises(prefix, t)...)
		}
	}
	return errs
}

func validateIngredients(prefix string, t TemplateEntry) []error {
	var errs []error
	if len(t.Ingredients) == 0 {
		errs = append(errs, fmt.Errorf("%s: at least one ingredient is required", prefix))
	}
	if len(t.Exercises) > 0 {
		errs = append(errs, fmt.Errorf("%s: meals cannot list exercises", prefix))
	}
	for i, ing := range t.Ingredients {
		if ing.Name == "" {
			errs = append(errs, fmt.Errorf("%s: ingredient[%d]: name is required", prefix, i))
		}
		if ing.Grams < 0 || ing.Calories < 0 || ing.ProteinG < 0 || ing.CarbsG < 0 || ing.FatsG < 0 {
			errs = append(errs, fmt.Errorf("%s: ingredient[%d]: quantities must be >= 0", prefix, i))
		}
	}
	return errs
}

func validateExercises(prefix string, t TemplateEntry) []error {
	var errs []error
	if len(t.Exercises) == 0 {
		errs = append(errs, fmt.Errorf("%s: at least one exercise is required", prefix))
	}
	if len(t.Ingredients) > 0 {
		errs = append(errs, fmt.Errorf("%s: workouts cannot list ingredients", prefix))
	}
	for i, ex := range t.Exercises {
		if ex.Name == "" {
			errs = append(errs, fmt.Errorf("%s: exercise[%d]: name is required", prefix, i))
		}
		if ex.Sets < 1 || ex.Reps < 1 {
			errs = append(errs, fmt.Errorf("%s: exercise[%d]: sets and reps must be >= 1", prefix, i))
		}
		if ex.RestSeconds < 0 {
			errs = append(errs, fmt.Errorf("%s: exercise[%d]: rest_seconds must be >= 0", prefix, i))
		}
	}
	return errs
}
