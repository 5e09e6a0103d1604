package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/plateplan/internal/domain"
)

// TestShippedCatalog_LoadsAndValidates keeps the catalog/ directory loadable
// so `plateplan catalog import` never fails on a bundled file.
func TestShippedCatalog_LoadsAndValidates(t *testing.T) {
	dir := findCatalogDir(t)

	templates, err := LoadDir(dir)
	require.NoError(t, err)

	kinds := map[domain.Kind]int{}
	categories := map[string]bool{}
	for _, tmpl := range templates {
		kinds[tmpl.Kind]++
		categories[tmpl.Category] = true
		assert.Greater(t, tmpl.Budget(), 0.0, "template %s has no scaling budget", tmpl.ID)
		if tmpl.Kind == domain.KindMeal {
			assert.GreaterOrEqual(t, tmpl.Totals.Calories, 100.0, "template %s", tmpl.ID)
			assert.LessOrEqual(t, tmpl.Totals.Calories, 2000.0, "template %s", tmpl.ID)
		}
	}
	assert.Positive(t, kinds[domain.KindMeal])
	assert.Positive(t, kinds[domain.KindWorkout])
	for _, slot := range []string{"breakfast", "lunch", "dinner"} {
		assert.True(t, categories[slot], "no %s templates", slot)
	}
}

func findCatalogDir(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		candidate := filepath.Join(dir, "catalog")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("catalog directory not found")
		}
		dir = parent
	}
}
