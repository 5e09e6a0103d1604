package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/customizer"
	"github.com/alexanderramin/plateplan/internal/db"
	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/notify"
	"github.com/alexanderramin/plateplan/internal/repository"
	"github.com/alexanderramin/plateplan/internal/scaling"
	"github.com/alexanderramin/plateplan/internal/scheduler"
	"github.com/alexanderramin/plateplan/internal/validate"
)

// PersonalizeDeps are the collaborators of the personalization orchestrator.
// Limiter, Notifier and Log may be nil.
type PersonalizeDeps struct {
	Templates   repository.TemplateRepo
	Constraints repository.ConstraintRepo
	Signals     repository.SignalsRepo
	Profiles    repository.UserProfileRepo
	Customizer  customizer.Customizer
	Limiter     RateLimiter
	Notifier    Notifier
	UoW         db.UnitOfWork
	Log         *zap.Logger
}

type personalizeService struct {
	deps     PersonalizeDeps
	opts     PlanningOptions
	log      *zap.Logger
	observer UseCaseObserver
}

func NewPersonalizeService(deps PersonalizeDeps, opts PlanningOptions, observers ...UseCaseObserver) app.PersonalizeUseCase {
	if deps.Limiter == nil {
		deps.Limiter = allowAll{}
	}
	if deps.Notifier == nil {
		deps.Notifier = silentNotifier{}
	}
	if deps.Customizer == nil {
		deps.Customizer = customizer.ScalingOnly{}
	}
	return &personalizeService{
		deps:     deps,
		opts:     opts,
		log:      orNop(deps.Log),
		observer: useCaseObserverOrNoop(observers),
	}
}

// selection is one filled slot before customization.
type selection struct {
	spec     scheduler.SlotSpec
	template domain.Template
}

func (s *personalizeService) PersonalizeForDate(ctx context.Context, req app.PersonalizeRequest) (resp *app.PersonalizeResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user_id": req.UserID}
	defer observe(ctx, s.observer, "personalize-for-date", startedAt, fields, &err)

	if req.UserID == "" {
		return nil, app.InvalidInput("user id is required")
	}
	if req.Date.IsZero() {
		return nil, app.InvalidInput("date is required")
	}
	date := domain.Day(req.Date)
	dateStr := date.Format(domain.DateLayout)
	fields["date"] = dateStr
	now := resolveNow(req.Now)

	if d := s.deps.Limiter.Allow(req.UserID); !d.Allowed {
		return nil, &app.RateLimitError{Message: d.Message, WaitSeconds: d.WaitSeconds}
	}

	constraints, err := loadConstraints(ctx, s.deps.Constraints, req.UserID, s.opts)
	if err != nil {
		return nil, err
	}
	signals, err := loadSignals(ctx, s.deps.Signals, req.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := loadProfile(ctx, s.deps.Profiles, req.UserID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.deps.Templates.List(ctx, "")
	if err != nil {
		return nil, err
	}

	selected := s.selectTemplates(date, dateStr, constraints, catalog, signals)
	if len(selected) == 0 {
		return nil, &app.PlanError{Code: app.PlanErrNoTemplates, Message: "no templates available for " + dateStr}
	}

	reqs := make([]customizer.Request, len(selected))
	avoid := avoidList(profile, signals)
	for i, sel := range selected {
		reqs[i] = customizationRequest(sel, constraints, avoid)
	}

	candidates, err := s.deps.Customizer.Customize(ctx, reqs)
	if err != nil {
		return nil, app.CollaboratorFailure(err)
	}
	paired := pairCandidates(selected, candidates)

	var (
		items    = make([]domain.PersonalizedItem, 0, len(selected))
		slots    = make([]domain.ScheduleSlot, 0, len(selected))
		fallback []string
	)
	for i, sel := range selected {
		item := s.buildItem(req.UserID, date, now, sel, paired[i], profile)
		if item.IsFallback {
			fallback = append(fallback, sel.template.ID)
		}
		items = append(items, item)
		slots = append(slots, domain.ScheduleSlot{
			ID:           uuid.New().String(),
			UserID:       req.UserID,
			Date:         date,
			Label:        sel.spec.Label,
			Kind:         sel.spec.Kind,
			ItemID:       item.ID,
			ServingsUsed: 1,
		})
	}

	err = s.deps.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return replacePlan(ctx, tx, req.UserID, date, date, items, slots)
	})
	if err != nil {
		return nil, err
	}

	fields["count"] = len(slots)
	fields["fallbacks"] = len(fallback)
	announce(ctx, s.deps.Notifier, s.log, notify.Event{
		Topic:  topicForSlots(slots),
		UserID: req.UserID,
		Date:   dateStr,
		Reason: "personalized",
		At:     now,
	})

	return &app.PersonalizeResponse{
		Success:      true,
		Date:         date,
		Count:        len(slots),
		FallbackUsed: fallback,
		Plan:         joinPlan(items, slots),
	}, nil
}

func (s *personalizeService) selectTemplates(date time.Time, dateStr string, c domain.ConstraintSet, catalog []domain.Template, signals *domain.UserSignals) []selection {
	used := make(map[string]map[string]bool)
	var out []selection
	for _, spec := range scheduler.SlotsFor(date, c, s.opts.mealSlots()) {
		key := scheduler.UsedKey(spec)
		if used[key] == nil {
			used[key] = make(map[string]bool)
		}
		t := scheduler.Select(scheduler.CandidatesFor(catalog, spec), used[key], signals, scheduler.Seed(dateStr, spec.Label), s.opts.TopN)
		if t == nil {
			s.log.Info("slot_without_template", zap.String("date", dateStr), zap.String("slot", spec.Label))
			continue
		}
		used[key][t.ID] = true
		out = append(out, selection{spec: spec, template: *t})
	}
	return out
}

// buildItem turns a candidate into an item, or scales the template when the
// candidate is missing or fails validation.
func (s *personalizeService) buildItem(userID string, date, now time.Time, sel selection, candidate map[string]any, profile *domain.UserProfile) domain.PersonalizedItem {
	srcID := sel.template.ID
	item := domain.PersonalizedItem{
		ID:               uuid.New().String(),
		UserID:           userID,
		Kind:             sel.spec.Kind,
		SourceTemplateID: &srcID,
		Name:             sel.template.Name,
		StartDate:        date,
		CreatedAt:        now,
	}

	if candidate != nil {
		res := validate.Candidate(candidate, sel.spec.Kind, profile)
		if res.Valid {
			item.Content = res.Content
			item.Totals = scaling.TotalsFromContent(sel.spec.Kind, res.Content)
			item.Name = domain.FirstSet(res.Name, item.Name)
			return item
		}
		s.logRejection(userID, sel, res)
	} else {
		s.log.Info("candidate_missing",
			zap.String("user_id", userID),
			zap.String("template_id", srcID),
			zap.String("slot", sel.spec.Label))
	}

	item.Content, item.Totals = scaling.ScaleWithTotals(&sel.template, sel.spec.Target)
	item.IsFallback = true
	return item
}

func (s *personalizeService) logRejection(userID string, sel selection, res validate.Result) {
	fields := []zap.Field{
		zap.String("user_id", userID),
		zap.String("template_id", sel.template.ID),
		zap.String("slot", sel.spec.Label),
		zap.Strings("issues", res.Errors()),
	}
	if res.HasSafetyIssue() {
		s.log.Warn("safety_violation", fields...)
		return
	}
	s.log.Info("candidate_rejected", fields...)
}

func customizationRequest(sel selection, c domain.ConstraintSet, avoid []string) customizer.Request {
	meta := map[string]any{
		customizer.MetaSlot:   sel.spec.Label,
		customizer.MetaTarget: sel.spec.Target,
	}
	if sel.spec.Kind == domain.KindWorkout {
		meta[customizer.MetaTargetUnit] = "minutes"
	} else {
		meta[customizer.MetaTargetUnit] = "calories"
		meta[customizer.MetaAvoid] = avoid
		meta[customizer.MetaBudgetTier] = string(c.BudgetTier)
		meta[customizer.MetaPreferSimple] = c.PreferSimpleMeals
		meta[customizer.MetaMaxCookingMin] = c.MaxCookingMin
	}
	return customizer.Request{
		TemplateID: sel.template.ID,
		Kind:       sel.spec.Kind,
		Name:       sel.template.Name,
		Content:    sel.template.Content.Clone(),
		Metadata:   meta,
	}
}

func avoidList(profile *domain.UserProfile, signals *domain.UserSignals) []string {
	out := profile.ExcludedFoods()
	if signals != nil {
		out = append(out, signals.AvoidedFoods...)
	}
	if out == nil {
		return []string{}
	}
	return out
}

// pairCandidates matches each selection to a returned document: first by
// template id, then by position for documents that carry no id.
func pairCandidates(selected []selection, candidates []customizer.Response) []map[string]any {
	out := make([]map[string]any, len(selected))
	taken := make([]bool, len(candidates))

	byID := make(map[string][]int)
	for i, c := range candidates {
		if c.TemplateID != "" {
			byID[c.TemplateID] = append(byID[c.TemplateID], i)
		}
	}
	for i, sel := range selected {
		queue := byID[sel.template.ID]
		if len(queue) == 0 {
			continue
		}
		idx := queue[0]
		byID[sel.template.ID] = queue[1:]
		taken[idx] = true
		out[i] = candidates[idx].Document
	}

	for i := range selected {
		if out[i] != nil || i >= len(candidates) {
			continue
		}
		if !taken[i] && candidates[i].TemplateID == "" {
			taken[i] = true
			out[i] = candidates[i].Document
		}
	}
	return out
}
