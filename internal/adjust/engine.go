// Package adjust evaluates the ordered rule list that mutates a user's
// standing constraints in response to logged deviations.
package adjust

import (
	"time"

	"github.com/alexanderramin/plateplan/internal/domain"
)

// Context is the running state a pass threads through the rules. Constraints
// holds the output of every rule that fired before the current one.
type Context struct {
	Now         time.Time
	Trigger     domain.AdjustTrigger
	Events      []domain.DeviationEvent
	Constraints domain.ConstraintSet
}

// Pending returns events not yet consumed by an earlier pass.
func (c *Context) Pending() []domain.DeviationEvent {
	var out []domain.DeviationEvent
	for _, e := range c.Events {
		if !e.AutoAdjusted {
			out = append(out, e)
		}
	}
	return out
}

// Change is what a fired rule produces.
type Change struct {
	Constraints domain.ConstraintSet
	Reason      string
	Type        domain.AdjustmentType
	// Consumed lists deviation IDs to flag as auto-adjusted.
	Consumed []string
}

type Rule struct {
	Name      string
	Condition func(ctx *Context) bool
	Apply     func(ctx *Context) Change
}

// Result is the outcome of one pass.
type Result struct {
	Constraints domain.ConstraintSet
	Records     []domain.AdjustmentRecord
	ConsumedIDs []string
}

// Fired reports whether any rule changed the constraints.
func (r Result) Fired() bool {
	return len(r.Records) > 0
}

type Engine struct {
	rules []Rule
}

// NewEngine returns an engine over rules, or DefaultRules when none are given.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Evaluate runs every rule in order. Each rule sees the constraints left by
// the rules before it; every rule that fires yields one record.
func (e *Engine) Evaluate(ctx Context) Result {
	res := Result{}
	seen := make(map[string]bool)

	for _, rule := range e.rules {
		if !rule.Condition(&ctx) {
			continue
		}
		before := ctx.Constraints
		change := rule.Apply(&ctx)
		change.Constraints.UpdatedAt = ctx.Now
		ctx.Constraints = change.Constraints

		res.Records = append(res.Records, domain.AdjustmentRecord{
			UserID:         before.UserID,
			RuleName:       rule.Name,
			AdjustmentType: change.Type,
			Reason:         change.Reason,
			Before:         before,
			After:          change.Constraints,
			TriggerSource:  ctx.Trigger,
			CreatedAt:      ctx.Now,
		})
		for _, id := range change.Consumed {
			if !seen[id] {
				seen[id] = true
				res.ConsumedIDs = append(res.ConsumedIDs, id)
			}
		}
	}

	res.Constraints = ctx.Constraints
	return res
}
