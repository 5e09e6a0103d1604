package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/db"
	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/notify"
	"github.com/alexanderramin/plateplan/internal/repository"
	"github.com/alexanderramin/plateplan/internal/scheduler"
)

type allocateService struct {
	templates   repository.TemplateRepo
	constraints repository.ConstraintRepo
	signals     repository.SignalsRepo
	uow         db.UnitOfWork
	notifier    Notifier
	log         *zap.Logger
	opts        PlanningOptions
	observer    UseCaseObserver
}

func NewAllocateService(
	templates repository.TemplateRepo,
	constraints repository.ConstraintRepo,
	signals repository.SignalsRepo,
	uow db.UnitOfWork,
	notifier Notifier,
	log *zap.Logger,
	opts PlanningOptions,
	observers ...UseCaseObserver,
) app.AllocateUseCase {
	if notifier == nil {
		notifier = silentNotifier{}
	}
	return &allocateService{
		templates:   templates,
		constraints: constraints,
		signals:     signals,
		uow:         uow,
		notifier:    notifier,
		log:         orNop(log),
		opts:        opts,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *allocateService) AllocateWeek(ctx context.Context, req app.AllocateRequest) (resp *app.AllocateResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user_id": req.UserID}
	defer observe(ctx, s.observer, "allocate-week", startedAt, fields, &err)

	if req.UserID == "" {
		return nil, app.InvalidInput("user id is required")
	}
	if req.StartDate.IsZero() {
		return nil, app.InvalidInput("start date is required")
	}
	start := domain.Day(req.StartDate)
	end := start.AddDate(0, 0, scheduler.DaysPerWeek-1)
	fields["start"] = start.Format(domain.DateLayout)
	now := resolveNow(req.Now)

	constraints, err := loadConstraints(ctx, s.constraints, req.UserID, s.opts)
	if err != nil {
		return nil, err
	}
	signals, err := loadSignals(ctx, s.signals, req.UserID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.templates.List(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, &app.PlanError{Code: app.PlanErrNoTemplates, Message: "template catalog is empty"}
	}

	plan := scheduler.AllocateWeek(scheduler.WeekInput{
		UserID:      req.UserID,
		Start:       start,
		Days:        scheduler.DaysPerWeek,
		MealSlots:   s.opts.mealSlots(),
		Constraints: constraints,
		Catalog:     catalog,
		Signals:     signals,
		TopN:        s.opts.TopN,
		Now:         now,
		NewID:       uuid.NewString,
	})

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return replacePlan(ctx, tx, req.UserID, start, end, plan.Items, plan.Slots)
	})
	if err != nil {
		return nil, err
	}

	fields["items"] = len(plan.Items)
	fields["slots"] = len(plan.Slots)
	if len(plan.Slots) > 0 {
		announce(ctx, s.notifier, s.log, notify.Event{
			Topic:  topicForSlots(plan.Slots),
			UserID: req.UserID,
			Date:   start.Format(domain.DateLayout),
			Reason: "week_allocated",
			At:     now,
		})
	}

	return &app.AllocateResponse{
		StartDate:    start,
		DaysPlanned:  plan.DaysPlanned,
		ItemsCreated: len(plan.Items),
		SlotsFilled:  len(plan.Slots),
	}, nil
}
