package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/plateplan/internal/domain"
)

type TemplateRepo interface {
	Upsert(ctx context.Context, t *domain.Template) error
	GetByID(ctx context.Context, id string) (*domain.Template, error)
	// List returns templates of kind ordered by ID, or every template when kind is empty.
	List(ctx context.Context, kind domain.Kind) ([]domain.Template, error)
}

type ItemRepo interface {
	Create(ctx context.Context, it *domain.PersonalizedItem) error
	GetByID(ctx context.Context, id string) (*domain.PersonalizedItem, error)
	SetCompleted(ctx context.Context, id string, completed bool) error
	// DeleteOrphans removes the user's items no slot references any more.
	DeleteOrphans(ctx context.Context, userID string) (int64, error)
}

// Slot ranges are inclusive calendar dates.
type SlotRepo interface {
	Create(ctx context.Context, s *domain.ScheduleSlot) error
	GetByID(ctx context.Context, id string) (*domain.ScheduleSlot, error)
	ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]domain.ScheduleSlot, error)
	ListPlanned(ctx context.Context, userID string, from, to time.Time) ([]domain.PlannedSlot, error)
	ListByItem(ctx context.Context, itemID string) ([]domain.ScheduleSlot, error)
	MarkCompleted(ctx context.Context, id string, at time.Time) error
	DeleteRange(ctx context.Context, userID string, from, to time.Time) (int64, error)
}

type ConstraintRepo interface {
	Get(ctx context.Context, userID string) (*domain.ConstraintSet, error)
	Upsert(ctx context.Context, c *domain.ConstraintSet) error
}

type DeviationRepo interface {
	Create(ctx context.Context, e *domain.DeviationEvent) error
	ListByUser(ctx context.Context, userID string) ([]domain.DeviationEvent, error)
	MarkAutoAdjusted(ctx context.Context, ids []string) error
}

type AdjustmentRepo interface {
	Create(ctx context.Context, r *domain.AdjustmentRecord) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.AdjustmentRecord, error)
}

type SignalsRepo interface {
	Get(ctx context.Context, userID string) (*domain.UserSignals, error)
	Upsert(ctx context.Context, s *domain.UserSignals) error
}

type UserProfileRepo interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	Upsert(ctx context.Context, p *domain.UserProfile) error
}

type TierRepo interface {
	Get(ctx context.Context, userID string) (string, error)
	Set(ctx context.Context, userID, tier string) error
}
