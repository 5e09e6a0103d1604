package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderramin/plateplan/internal/db"
	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/notify"
	"github.com/alexanderramin/plateplan/internal/repository"
)

func resolveNow(now *time.Time) time.Time {
	if now != nil {
		return now.UTC()
	}
	return time.Now().UTC()
}

// loadConstraints returns the stored constraint set or a fresh default one.
func loadConstraints(ctx context.Context, repo repository.ConstraintRepo, userID string, opts PlanningOptions) (domain.ConstraintSet, error) {
	c, err := repo.Get(ctx, userID)
	if err == nil {
		return *c, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return domain.ConstraintSet{}, fmt.Errorf("loading constraints: %w", err)
	}
	def := domain.DefaultConstraints(userID)
	if opts.DailyCalories > 0 {
		def.DailyCalories = opts.DailyCalories
	}
	if opts.SimplifyAfterDeviations > 0 {
		def.SimplifyAfterDeviations = opts.SimplifyAfterDeviations
	}
	return def, nil
}

func loadSignals(ctx context.Context, repo repository.SignalsRepo, userID string) (*domain.UserSignals, error) {
	if repo == nil {
		return nil, nil
	}
	s, err := repo.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading signals: %w", err)
	}
	return s, nil
}

func loadProfile(ctx context.Context, repo repository.UserProfileRepo, userID string) (*domain.UserProfile, error) {
	if repo == nil {
		return nil, nil
	}
	p, err := repo.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return p, nil
}

// replacePlan swaps the user's slots in [from, to] for the given batch
// inside tx. Items left without any slot are removed with them.
func replacePlan(ctx context.Context, tx db.DBTX, userID string, from, to time.Time, items []domain.PersonalizedItem, slots []domain.ScheduleSlot) error {
	txItems := repository.NewSQLiteItemRepo(tx)
	txSlots := repository.NewSQLiteSlotRepo(tx)

	if _, err := txSlots.DeleteRange(ctx, userID, from, to); err != nil {
		return err
	}
	if _, err := txItems.DeleteOrphans(ctx, userID); err != nil {
		return err
	}
	for i := range items {
		if err := txItems.Create(ctx, &items[i]); err != nil {
			return err
		}
	}
	for i := range slots {
		if err := txSlots.Create(ctx, &slots[i]); err != nil {
			return err
		}
	}
	return nil
}

// joinPlan pairs each slot with its item.
func joinPlan(items []domain.PersonalizedItem, slots []domain.ScheduleSlot) []domain.PlannedSlot {
	byID := make(map[string]domain.PersonalizedItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]domain.PlannedSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, domain.PlannedSlot{Slot: s, Item: byID[s.ItemID]})
	}
	return out
}

func topicForSlots(slots []domain.ScheduleSlot) notify.Topic {
	var meals, workouts bool
	for _, s := range slots {
		if s.Kind == domain.KindWorkout {
			workouts = true
		} else {
			meals = true
		}
	}
	return notify.TopicFor(meals, workouts)
}

// announce publishes ev. Delivery problems never fail the use case.
func announce(ctx context.Context, n Notifier, log *zap.Logger, ev notify.Event) {
	if err := n.Publish(ctx, ev); err != nil {
		log.Warn("plan_event_publish_failed",
			zap.String("user_id", ev.UserID),
			zap.String("topic", string(ev.Topic)),
			zap.Error(err))
	}
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
