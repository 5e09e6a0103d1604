package httpapi

import (
	"time"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/domain"
)

type itemJSON struct {
	ID                string         `json:"id"`
	Kind              domain.Kind    `json:"kind"`
	Name              string         `json:"name"`
	SourceTemplateID  string         `json:"source_template_id,omitempty"`
	Content           domain.Content `json:"content"`
	Totals            domain.Totals  `json:"totals"`
	Completed         bool           `json:"completed"`
	RemainingServings int            `json:"remaining_servings"`
	IsFallback        bool           `json:"is_fallback"`
}

type slotJSON struct {
	ID           string      `json:"id"`
	Date         string      `json:"date"`
	Label        string      `json:"label"`
	Kind         domain.Kind `json:"kind"`
	ServingsUsed int         `json:"servings_used"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
	Item         *itemJSON   `json:"item,omitempty"`
}

type planJSON struct {
	UserID string     `json:"user_id"`
	Date   string     `json:"date"`
	Slots  []slotJSON `json:"slots"`
}

type personalizeJSON struct {
	Success      bool       `json:"success"`
	Date         string     `json:"date"`
	Count        int        `json:"count"`
	FallbackUsed []string   `json:"fallback_used"`
	Slots        []slotJSON `json:"slots"`
}

type allocateJSON struct {
	StartDate    string `json:"start_date"`
	DaysPlanned  int    `json:"days_planned"`
	ItemsCreated int    `json:"items_created"`
	SlotsFilled  int    `json:"slots_filled"`
}

type adjustmentJSON struct {
	ID            string                `json:"id"`
	RuleName      string                `json:"rule_name"`
	Type          domain.AdjustmentType `json:"type"`
	Reason        string                `json:"reason"`
	TriggerSource domain.AdjustTrigger  `json:"trigger_source"`
	CreatedAt     time.Time             `json:"created_at"`
}

type adjustJSON struct {
	AdjustmentsApplied         int                  `json:"adjustments_applied"`
	Adjustments                []adjustmentJSON     `json:"adjustments"`
	RequiresRegeneration       bool                 `json:"requires_regeneration"`
	RequiresManualRegeneration bool                 `json:"requires_manual_regeneration"`
	Constraints                domain.ConstraintSet `json:"constraints"`
}

type streakJSON struct {
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	TodayComplete bool `json:"today_complete"`
}

type adjustRequest struct {
	Trigger string `json:"trigger"`
}

type deviationRequest struct {
	Type           string     `json:"type" binding:"required"`
	Reason         string     `json:"reason"`
	OccurredAt     *time.Time `json:"occurred_at"`
	ImpactCalories int        `json:"impact_calories"`
	ImpactBudget   float64    `json:"impact_budget"`
	// ApplyAdjustments defaults to true.
	ApplyAdjustments *bool `json:"apply_adjustments"`
}

type deviationJSON struct {
	ID             string               `json:"id"`
	Type           domain.DeviationType `json:"type"`
	Reason         domain.ReasonCode    `json:"reason"`
	OccurredAt     time.Time            `json:"occurred_at"`
	ImpactCalories int                  `json:"impact_calories"`
	ImpactBudget   float64              `json:"impact_budget"`
	Adjustment     *adjustJSON          `json:"adjustment,omitempty"`
}

type completeJSON struct {
	Slot          slotJSON `json:"slot"`
	ItemCompleted bool     `json:"item_completed"`
}

type templateJSON struct {
	ID          string         `json:"id"`
	Kind        domain.Kind    `json:"kind"`
	Name        string         `json:"name"`
	Category    string         `json:"category,omitempty"`
	Servings    int            `json:"servings"`
	DurationMin int            `json:"duration_min,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Totals      domain.Totals  `json:"totals"`
	Content     domain.Content `json:"content"`
}

func toItemJSON(it domain.PersonalizedItem) *itemJSON {
	out := &itemJSON{
		ID:                it.ID,
		Kind:              it.Kind,
		Name:              it.Name,
		Content:           it.Content,
		Totals:            it.Totals,
		Completed:         it.Completed,
		RemainingServings: it.RemainingServings,
		IsFallback:        it.IsFallback,
	}
	if it.SourceTemplateID != nil {
		out.SourceTemplateID = *it.SourceTemplateID
	}
	return out
}

func toSlotJSON(s domain.ScheduleSlot) slotJSON {
	return slotJSON{
		ID:           s.ID,
		Date:         s.Date.Format(domain.DateLayout),
		Label:        s.Label,
		Kind:         s.Kind,
		ServingsUsed: s.ServingsUsed,
		CompletedAt:  s.CompletedAt,
	}
}

func toPlannedJSON(planned []domain.PlannedSlot) []slotJSON {
	out := make([]slotJSON, 0, len(planned))
	for _, p := range planned {
		s := toSlotJSON(p.Slot)
		s.Item = toItemJSON(p.Item)
		out = append(out, s)
	}
	return out
}

func toAdjustJSON(r *app.AdjustResponse) *adjustJSON {
	out := &adjustJSON{
		AdjustmentsApplied:         r.AdjustmentsApplied,
		Adjustments:                make([]adjustmentJSON, 0, len(r.Adjustments)),
		RequiresRegeneration:       r.RequiresRegeneration,
		RequiresManualRegeneration: r.RequiresManualRegeneration,
		Constraints:                r.Constraints,
	}
	for _, a := range r.Adjustments {
		out.Adjustments = append(out.Adjustments, adjustmentJSON{
			ID:            a.ID,
			RuleName:      a.RuleName,
			Type:          a.AdjustmentType,
			Reason:        a.Reason,
			TriggerSource: a.TriggerSource,
			CreatedAt:     a.CreatedAt,
		})
	}
	return out
}

func toTemplateJSON(t domain.Template) templateJSON {
	return templateJSON{
		ID:          t.ID,
		Kind:        t.Kind,
		Name:        t.Name,
		Category:    t.Category,
		Servings:    t.EffectiveServings(),
		DurationMin: t.DurationMin,
		Tags:        t.Tags,
		Totals:      t.Totals,
		Content:     t.Content,
	}
}
