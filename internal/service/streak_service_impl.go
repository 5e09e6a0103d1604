package service

import (
	"context"
	"time"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/repository"
	"github.com/alexanderramin/plateplan/internal/streak"
)

type streakService struct {
	slots    repository.SlotRepo
	observer UseCaseObserver
}

func NewStreakService(slots repository.SlotRepo, observers ...UseCaseObserver) app.StreakUseCase {
	return &streakService{slots: slots, observer: useCaseObserverOrNoop(observers)}
}

func (s *streakService) ComputeStreak(ctx context.Context, req app.StreakRequest) (resp *app.StreakResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user_id": req.UserID}
	defer observe(ctx, s.observer, "compute-streak", startedAt, fields, &err)

	if req.UserID == "" {
		return nil, app.InvalidInput("user id is required")
	}
	today := domain.Day(resolveNow(req.Now))

	slots, err := s.slots.ListByUserRange(ctx, req.UserID, today.AddDate(0, 0, -streak.MaxLookbackDays), today)
	if err != nil {
		return nil, err
	}

	r := streak.Compute(today, streak.NewHistory(slots))
	fields["current"] = r.CurrentStreak
	return &app.StreakResponse{
		CurrentStreak: r.CurrentStreak,
		LongestStreak: r.LongestStreak,
		TodayComplete: r.TodayComplete,
	}, nil
}
