package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/db"
	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/notify"
	"github.com/alexanderramin/plateplan/internal/repository"
)

type planService struct {
	slots    repository.SlotRepo
	uow      db.UnitOfWork
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
	observer UseCaseObserver
}

func NewPlanService(slots repository.SlotRepo, uow db.UnitOfWork, notifier Notifier, log *zap.Logger, observers ...UseCaseObserver) app.PlanUseCase {
	if notifier == nil {
		notifier = silentNotifier{}
	}
	return &planService{
		slots:    slots,
		uow:      uow,
		notifier: notifier,
		log:      orNop(log),
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planService) PlanForDate(ctx context.Context, req app.PlanRequest) (resp *app.PlanResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user_id": req.UserID}
	defer observe(ctx, s.observer, "plan-for-date", startedAt, fields, &err)

	if req.UserID == "" {
		return nil, app.InvalidInput("user id is required")
	}
	if req.Date.IsZero() {
		return nil, app.InvalidInput("date is required")
	}
	date := domain.Day(req.Date)
	dateStr := date.Format(domain.DateLayout)
	fields["date"] = dateStr

	planned, err := s.slots.ListPlanned(ctx, req.UserID, date, date)
	if err != nil {
		return nil, err
	}
	if len(planned) == 0 {
		return nil, app.NotFound("no plan for %s on %s", req.UserID, dateStr)
	}
	return &app.PlanResponse{UserID: req.UserID, Date: date, Slots: planned}, nil
}

// CompleteSlot marks one slot done. The bound item only counts as completed
// once every slot that references it is done.
func (s *planService) CompleteSlot(ctx context.Context, slotID string) (resp *app.CompleteSlotResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"slot_id": slotID}
	defer observe(ctx, s.observer, "complete-slot", startedAt, fields, &err)

	if slotID == "" {
		return nil, app.InvalidInput("slot id is required")
	}
	now := s.now()

	var (
		slot          *domain.ScheduleSlot
		itemCompleted bool
	)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSlots := repository.NewSQLiteSlotRepo(tx)
		txItems := repository.NewSQLiteItemRepo(tx)

		var err error
		slot, err = txSlots.GetByID(ctx, slotID)
		if errors.Is(err, repository.ErrNotFound) {
			return app.NotFound("slot %s not found", slotID)
		}
		if err != nil {
			return err
		}
		if !slot.IsCompleted() {
			if err := txSlots.MarkCompleted(ctx, slotID, now); err != nil {
				return err
			}
			slot.MarkCompleted(now)
		}

		siblings, err := txSlots.ListByItem(ctx, slot.ItemID)
		if err != nil {
			return err
		}
		itemCompleted = true
		for i := range siblings {
			if siblings[i].ID != slot.ID && !siblings[i].IsCompleted() {
				itemCompleted = false
				break
			}
		}
		if itemCompleted {
			return txItems.SetCompleted(ctx, slot.ItemID, true)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["item_completed"] = itemCompleted
	announce(ctx, s.notifier, s.log, notify.Event{
		Topic:  notify.TopicFor(slot.Kind == domain.KindMeal, slot.Kind == domain.KindWorkout),
		UserID: slot.UserID,
		Date:   slot.Date.Format(domain.DateLayout),
		Reason: "slot_completed",
		At:     now,
	})

	return &app.CompleteSlotResponse{Slot: *slot, ItemCompleted: itemCompleted}, nil
}
