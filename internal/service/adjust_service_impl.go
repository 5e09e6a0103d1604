package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexanderramin/plateplan/internal/adjust"
	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/db"
	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/notify"
	"github.com/alexanderramin/plateplan/internal/repository"
)

type adjustService struct {
	constraints  repository.ConstraintRepo
	deviations   repository.DeviationRepo
	entitlements Entitlements
	engine       *adjust.Engine
	uow          db.UnitOfWork
	notifier     Notifier
	log          *zap.Logger
	opts         PlanningOptions
	observer     UseCaseObserver
}

func NewAdjustService(
	constraints repository.ConstraintRepo,
	deviations repository.DeviationRepo,
	entitlements Entitlements,
	engine *adjust.Engine,
	uow db.UnitOfWork,
	notifier Notifier,
	log *zap.Logger,
	opts PlanningOptions,
	observers ...UseCaseObserver,
) app.AdjustUseCase {
	if engine == nil {
		engine = adjust.NewEngine()
	}
	if notifier == nil {
		notifier = silentNotifier{}
	}
	return &adjustService{
		constraints:  constraints,
		deviations:   deviations,
		entitlements: entitlements,
		engine:       engine,
		uow:          uow,
		notifier:     notifier,
		log:          orNop(log),
		opts:         opts,
		observer:     useCaseObserverOrNoop(observers),
	}
}

func (s *adjustService) ApplyAdjustments(ctx context.Context, req app.AdjustRequest) (resp *app.AdjustResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user_id": req.UserID, "trigger": string(req.Trigger)}
	defer observe(ctx, s.observer, "apply-adjustments", startedAt, fields, &err)

	if req.UserID == "" {
		return nil, app.InvalidInput("user id is required")
	}
	trigger := req.Trigger
	if trigger == "" {
		trigger = domain.TriggerManual
	}
	if !domain.ValidAdjustTriggers[trigger] {
		return nil, app.InvalidInput("unknown trigger %q", trigger)
	}
	now := resolveNow(req.Now)

	current, err := loadConstraints(ctx, s.constraints, req.UserID, s.opts)
	if err != nil {
		return nil, err
	}

	ent, err := s.entitlements.Check(ctx, req.UserID, domain.FeatureAdaptiveAdjustments)
	if err != nil {
		return nil, err
	}
	if !ent.Allowed {
		fields["gated_tier"] = ent.Tier
		return &app.AdjustResponse{
			RequiresManualRegeneration: true,
			Constraints:                current,
		}, nil
	}

	events, err := s.deviations.ListByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	result := s.engine.Evaluate(adjust.Context{
		Now:         now,
		Trigger:     trigger,
		Events:      events,
		Constraints: current,
	})
	fields["fired"] = len(result.Records)
	if !result.Fired() {
		return &app.AdjustResponse{Constraints: current}, nil
	}

	records := result.Records
	for i := range records {
		records[i].ID = uuid.New().String()
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txConstraints := repository.NewSQLiteConstraintRepo(tx)
		txRecords := repository.NewSQLiteAdjustmentRepo(tx)
		txDeviations := repository.NewSQLiteDeviationRepo(tx)

		if err := txConstraints.Upsert(ctx, &result.Constraints); err != nil {
			return err
		}
		for i := range records {
			if err := txRecords.Create(ctx, &records[i]); err != nil {
				return err
			}
		}
		return txDeviations.MarkAutoAdjusted(ctx, result.ConsumedIDs)
	})
	if err != nil {
		return nil, err
	}

	announce(ctx, s.notifier, s.log, notify.Event{
		Topic:  notify.TopicBoth,
		UserID: req.UserID,
		Reason: "constraints_adjusted",
		At:     now,
	})

	return &app.AdjustResponse{
		AdjustmentsApplied:   len(records),
		Adjustments:          records,
		RequiresRegeneration: true,
		Constraints:          result.Constraints,
	}, nil
}
