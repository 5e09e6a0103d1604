// Package customizer asks an external collaborator to adapt template content
// for one user. Its output is untyped and must pass validation before use.
package customizer

import (
	"context"

	"github.com/alexanderramin/plateplan/internal/domain"
)

// Metadata keys set on each Request.
const (
	MetaSlot          = "slot"
	MetaTarget        = "target"
	MetaTargetUnit    = "target_unit"
	MetaAvoid         = "avoid"
	MetaBudgetTier    = "budget_tier"
	MetaPreferSimple  = "prefer_simple"
	MetaMaxCookingMin = "max_cooking_min"
)

// Request describes one template to customize.
type Request struct {
	TemplateID string
	Kind       domain.Kind
	Name       string
	Content    domain.Content
	Metadata   map[string]any
}

// Response is one candidate returned by the collaborator. TemplateID is empty
// when the collaborator did not echo it back.
type Response struct {
	TemplateID string
	Document   map[string]any
}

// Customizer adapts a batch of templates in a single call. A returned error
// means the whole batch failed; missing or malformed entries are not errors.
type Customizer interface {
	Customize(ctx context.Context, reqs []Request) ([]Response, error)
}

// ScalingOnly returns no candidates, so every slot uses deterministic scaling.
// Used when no LLM backend is configured.
type ScalingOnly struct{}

func (ScalingOnly) Customize(context.Context, []Request) ([]Response, error) {
	return nil, nil
}
