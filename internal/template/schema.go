// Package template loads the read-only meal and workout catalog from YAML
// files.
package template

import "github.com/alexanderramin/plateplan/internal/domain"

// CatalogFile is one YAML file. File-level fields are defaults for every
// entry in Templates.
type CatalogFile struct {
	Kind           domain.Kind     `yaml:"kind"`
	Category       string          `yaml:"category"`
	Tags           []string        `yaml:"tags"`
	Servings       *int            `yaml:"servings"`
	ActiveRecovery *bool           `yaml:"active_recovery"`
	Templates      []TemplateEntry `yaml:"templates"`
}

// TemplateEntry is one catalog template.
type TemplateEntry struct {
	ID             string              `yaml:"id"`
	Name           string              `yaml:"name"`
	Category       string              `yaml:"category"`
	Servings       *int                `yaml:"servings"`
	DurationMin    int                 `yaml:"duration_min"`
	ActiveRecovery *bool               `yaml:"active_recovery"`
	Tags           []string            `yaml:"tags"`
	Ingredients    []domain.Ingredient `yaml:"ingredients"`
	Exercises      []domain.Exercise   `yaml:"exercises"`
}
