package template

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/scaling"
)

// LoadFile parses a single catalog file.
func LoadFile(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", filepath.Base(path), err)
	}
	return &file, nil
}

// LoadDir loads every *.yaml and *.yml file in dir, validates the whole set
// and returns the templates ordered by ID. Any invalid entry fails the load.
func LoadDir(dir string) ([]domain.Template, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog path %s is not a directory", dir)
	}

	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("finding catalog files: %w", err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found in %s", dir)
	}
	sort.Strings(paths)

	var (
		out  []domain.Template
		errs []error
		seen = map[string]string{}
	)
	for _, path := range paths {
		file, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(path)
		for _, e := range ValidateFile(file) {
			errs = append(errs, fmt.Errorf("%s: %w", name, e))
		}
		for _, entry := range file.Templates {
			if prev, dup := seen[entry.ID]; dup && entry.ID != "" {
				errs = append(errs, fmt.Errorf("%s: duplicate template id %q (first in %s)", name, entry.ID, prev))
				continue
			}
			seen[entry.ID] = name
			out = append(out, Build(file, entry))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Build resolves entry against its file defaults. Totals are derived from
// the content; a workout without duration_min takes its estimated minutes.
func Build(file *CatalogFile, entry TemplateEntry) domain.Template {
	content := domain.Content{Ingredients: entry.Ingredients, Exercises: entry.Exercises}
	t := domain.Template{
		ID:               entry.ID,
		Kind:             file.Kind,
		Name:             entry.Name,
		Category:         domain.FirstSet(entry.Category, file.Category),
		Content:          content.Clone(),
		Totals:           scaling.TotalsFromContent(file.Kind, content),
		Servings:         domain.DerefOr(1, entry.Servings, file.Servings),
		DurationMin:      entry.DurationMin,
		Tags:             mergeTags(file.Tags, entry.Tags),
		IsActiveRecovery: domain.DerefOr(false, entry.ActiveRecovery, file.ActiveRecovery),
	}
	if t.Kind == domain.KindWorkout && t.DurationMin <= 0 {
		t.DurationMin = t.Totals.Minutes
	}
	return t
}

func mergeTags(fileTags, entryTags []string) []string {
	if len(fileTags) == 0 && len(entryTags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(fileTags)+len(entryTags))
	out := make([]string, 0, len(fileTags)+len(entryTags))
	for _, tag := range append(append([]string{}, fileTags...), entryTags...) {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
