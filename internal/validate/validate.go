// Package validate checks untrusted personalized-item documents before they
// are allowed to become typed content.
package validate

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/alexanderramin/plateplan/internal/domain"
)

// Domain bounds for candidate content.
const (
	MinMealCalories = 100
	MaxMealCalories = 2000
	MinSets         = 1
	MaxSets         = 20
	MinReps         = 1
	MaxReps         = 100
)

// IssueKind separates malformed output from allergen and dislike hits.
type IssueKind string

const (
	IssueStructural IssueKind = "structural"
	IssueSafety     IssueKind = "safety"
)

// Issue is a single validation failure.
type Issue struct {
	Kind    IssueKind
	Field   string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Kind, i.Field, i.Message)
}

// Result is the outcome of Candidate. Content and Name are only meaningful
// when Valid is true.
type Result struct {
	Valid   bool
	Issues  []Issue
	Name    string
	Content domain.Content
}

// Errors returns every issue rendered as a string.
func (r Result) Errors() []string {
	out := make([]string, 0, len(r.Issues))
	for _, is := range r.Issues {
		out = append(out, is.String())
	}
	return out
}

// HasSafetyIssue reports whether any issue is a safety violation.
func (r Result) HasSafetyIssue() bool {
	for _, is := range r.Issues {
		if is.Kind == IssueSafety {
			return true
		}
	}
	return false
}

type checker struct {
	issues []Issue
}

func (c *checker) structural(field, format string, args ...any) {
	c.issues = append(c.issues, Issue{Kind: IssueStructural, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) safety(field, format string, args ...any) {
	c.issues = append(c.issues, Issue{Kind: IssueSafety, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Candidate validates doc as a personalized item of the given kind against
// the user's allergies and dislikes. It never panics and reports every issue
// found, not just the first.
func Candidate(doc map[string]any, kind domain.Kind, profile *domain.UserProfile) Result {
	c := &checker{}
	var res Result

	if doc == nil {
		c.structural("document", "is missing")
		return Result{Issues: c.issues}
	}

	name, ok := doc["name"].(string)
	if !ok || name == "" {
		c.structural("name", "must be a non-empty string")
	}
	res.Name = name

	switch kind {
	case domain.KindMeal:
		res.Content.Ingredients = c.ingredients(doc["ingredients"], profile.ExcludedFoods())
	case domain.KindWorkout:
		res.Content.Exercises = c.exercises(doc["exercises"])
	default:
		c.structural("kind", "unknown kind %q", kind)
	}

	res.Issues = c.issues
	res.Valid = len(c.issues) == 0
	if !res.Valid {
		res.Content = domain.Content{}
	}
	return res
}

func (c *checker) list(field string, raw any) []any {
	if raw == nil {
		c.structural(field, "is required")
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		c.structural(field, "must be a list")
		return nil
	}
	if len(items) == 0 {
		c.structural(field, "must not be empty")
		return nil
	}
	return items
}

func (c *checker) ingredients(raw any, excluded []string) []domain.Ingredient {
	items := c.list("ingredients", raw)
	out := make([]domain.Ingredient, 0, len(items))
	total := 0.0
	for i, it := range items {
		field := fmt.Sprintf("ingredients[%d]", i)
		entry, ok := it.(map[string]any)
		if !ok {
			c.structural(field, "must be an object")
			continue
		}
		var ing domain.Ingredient
		ing.Name = c.entryName(field, entry)
		ing.Grams = c.required(field+".grams", entry["grams"])
		ing.Calories = c.required(field+".calories", entry["calories"])
		ing.ProteinG = c.optional(field+".protein_g", entry["protein_g"])
		ing.CarbsG = c.optional(field+".carbs_g", entry["carbs_g"])
		ing.FatsG = c.optional(field+".fats_g", entry["fats_g"])
		total += ing.Calories

		if hit, bad := domain.MatchFood(ing.Name, excluded); bad {
			c.safety(field+".name", "%q matches excluded food %q", ing.Name, hit)
		}
		out = append(out, ing)
	}
	if len(items) > 0 && (total < MinMealCalories || total > MaxMealCalories) {
		c.structural("ingredients", "calorie total %.0f outside [%d, %d]", total, MinMealCalories, MaxMealCalories)
	}
	return out
}

func (c *checker) exercises(raw any) []domain.Exercise {
	items := c.list("exercises", raw)
	out := make([]domain.Exercise, 0, len(items))
	for i, it := range items {
		field := fmt.Sprintf("exercises[%d]", i)
		entry, ok := it.(map[string]any)
		if !ok {
			c.structural(field, "must be an object")
			continue
		}
		var ex domain.Exercise
		ex.Name = c.entryName(field, entry)
		ex.Sets = c.bounded(field+".sets", entry["sets"], MinSets, MaxSets)
		ex.Reps = c.bounded(field+".reps", entry["reps"], MinReps, MaxReps)
		ex.RestSeconds = int(c.optional(field+".rest_seconds", entry["rest_seconds"]))
		out = append(out, ex)
	}
	return out
}

func (c *checker) entryName(field string, entry map[string]any) string {
	name, ok := entry["name"].(string)
	if !ok || name == "" {
		c.structural(field+".name", "must be a non-empty string")
	}
	return name
}

func (c *checker) required(field string, raw any) float64 {
	if raw == nil {
		c.structural(field, "is required")
		return 0
	}
	return c.optional(field, raw)
}

func (c *checker) optional(field string, raw any) float64 {
	if raw == nil {
		return 0
	}
	v, ok := number(raw)
	if !ok {
		c.structural(field, "must be a number, got %T", raw)
		return 0
	}
	if v < 0 {
		c.structural(field, "must be >= 0, got %v", v)
	}
	return v
}

func (c *checker) bounded(field string, raw any, lo, hi int) int {
	v, ok := number(raw)
	if !ok {
		c.structural(field, "must be a number")
		return 0
	}
	if v != math.Trunc(v) {
		c.structural(field, "must be a whole number, got %v", v)
	}
	if v < float64(lo) || v > float64(hi) {
		c.structural(field, "%v outside [%d, %d]", v, lo, hi)
	}
	return int(v)
}

func number(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
