package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/repository"
)

type deviationService struct {
	deviations repository.DeviationRepo
	adjust     app.AdjustUseCase
	observer   UseCaseObserver
}

// NewDeviationService records deviations. adjust may be nil, in which case
// ApplyAdjustments requests are ignored.
func NewDeviationService(deviations repository.DeviationRepo, adjust app.AdjustUseCase, observers ...UseCaseObserver) app.DeviationUseCase {
	return &deviationService{
		deviations: deviations,
		adjust:     adjust,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *deviationService) Log(ctx context.Context, req app.LogDeviationRequest) (resp *app.LogDeviationResponse, err error) {
	startedAt := time.Now().UTC()
	ev := req.Event
	fields := map[string]any{"user_id": ev.UserID, "type": string(ev.Type)}
	defer observe(ctx, s.observer, "log-deviation", startedAt, fields, &err)

	if err := ev.Validate(); err != nil {
		return nil, app.InvalidInput("%s", err.Error())
	}
	now := resolveNow(req.Now)
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = now
	}
	if ev.Reason == "" {
		ev.Reason = domain.ReasonOther
	}
	ev.AutoAdjusted = false

	if err := s.deviations.Create(ctx, &ev); err != nil {
		return nil, err
	}
	resp = &app.LogDeviationResponse{Event: ev}

	if req.ApplyAdjustments && s.adjust != nil {
		adj, err := s.adjust.ApplyAdjustments(ctx, app.AdjustRequest{
			UserID:  ev.UserID,
			Trigger: domain.TriggerDeviationLogged,
			Now:     &now,
		})
		if err != nil {
			return nil, err
		}
		resp.Adjustment = adj
		fields["adjustments"] = adj.AdjustmentsApplied
	}
	return resp, nil
}
