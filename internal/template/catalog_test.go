package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/plateplan/internal/domain"
)

func writeCatalog(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

const lunchYAML = `
kind: meal
category: lunch
tags: [weekday]
servings: 2
templates:
  - id: bowl
    name: Chicken bowl
    tags: [high-protein, weekday]
    ingredients:
      - {name: chicken, grams: 150, calories: 240, protein_g: 45}
      - {name: rice, grams: 200, calories: 160}
  - id: salad
    name: Salad
    servings: 1
    category: light-lunch
    ingredients:
      - {name: lettuce, grams: 100, calories: 150}
`

const workoutYAML = `
kind: workout
templates:
  - id: circuit
    name: Circuit
    active_recovery: true
    exercises:
      - {name: squat, sets: 3, reps: 10, rest_seconds: 60}
`

func TestLoadDir_ResolvesDefaultsAndTotals(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "lunch.yaml", lunchYAML)
	writeCatalog(t, dir, "workouts.yml", workoutYAML)
	writeCatalog(t, dir, "notes.txt", "ignored")

	templates, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, templates, 3)

	// Ordered by ID.
	assert.Equal(t, []string{"bowl", "circuit", "salad"}, []string{templates[0].ID, templates[1].ID, templates[2].ID})

	bowl := templates[0]
	assert.Equal(t, domain.KindMeal, bowl.Kind)
	assert.Equal(t, "lunch", bowl.Category)
	assert.Equal(t, 2, bowl.Servings)
	assert.Equal(t, []string{"weekday", "high-protein"}, bowl.Tags)
	assert.Equal(t, 400.0, bowl.Totals.Calories)
	assert.Equal(t, 45.0, bowl.Totals.ProteinG)
	assert.Equal(t, 400.0, bowl.Budget())

	salad := templates[2]
	assert.Equal(t, "light-lunch", salad.Category)
	assert.Equal(t, 1, salad.Servings)

	circuit := templates[1]
	assert.Equal(t, domain.KindWorkout, circuit.Kind)
	assert.True(t, circuit.IsActiveRecovery)
	assert.Equal(t, 30, circuit.Totals.Volume)
	// 3 x (10*3 + 60) = 270s, rounded to 5 minutes.
	assert.Equal(t, 5, circuit.DurationMin)
}

func TestLoadDir_RejectsInvalidEntries(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "bad.yaml", `
kind: meal
templates:
  - id: ""
    name: Nameless id
    ingredients:
      - {name: rice, grams: 100, calories: 130}
  - id: empty
    name: Empty
`)

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id is required")
	assert.Contains(t, err.Error(), "at least one ingredient is required")
}

func TestLoadDir_DuplicateIDsAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "a.yaml", lunchYAML)
	writeCatalog(t, dir, "b.yaml", lunchYAML)

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate template id")
}

func TestLoadDir_MissingOrEmptyDirectory(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)

	_, err = LoadDir(t.TempDir())
	assert.ErrorContains(t, err, "no catalog files")
}

func TestLoadFile_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "broken.yaml", "kind: [meal\n")

	_, err := LoadFile(filepath.Join(dir, "broken.yaml"))
	assert.ErrorContains(t, err, "parsing catalog broken.yaml")
}

func TestValidateFile_KindAndWorkoutRules(t *testing.T) {
	errs := ValidateFile(&CatalogFile{Kind: "snack", Templates: []TemplateEntry{{ID: "x", Name: "X"}}})
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "kind must be meal or workout")

	errs = ValidateFile(&CatalogFile{Kind: domain.KindWorkout, Templates: []TemplateEntry{{
		ID: "w", Name: "W",
		Exercises: []domain.Exercise{{Name: "row", Sets: 0, Reps: 10}},
	}}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "sets and reps must be >= 1")
}
