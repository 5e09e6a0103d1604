package app

import (
	"context"

	"github.com/alexanderramin/plateplan/internal/domain"
)

type PersonalizeUseCase interface {
	PersonalizeForDate(ctx context.Context, req PersonalizeRequest) (*PersonalizeResponse, error)
}

type AllocateUseCase interface {
	AllocateWeek(ctx context.Context, req AllocateRequest) (*AllocateResponse, error)
}

type AdjustUseCase interface {
	ApplyAdjustments(ctx context.Context, req AdjustRequest) (*AdjustResponse, error)
}

type StreakUseCase interface {
	ComputeStreak(ctx context.Context, req StreakRequest) (*StreakResponse, error)
}

type PlanUseCase interface {
	PlanForDate(ctx context.Context, req PlanRequest) (*PlanResponse, error)
	CompleteSlot(ctx context.Context, slotID string) (*CompleteSlotResponse, error)
}

type DeviationUseCase interface {
	Log(ctx context.Context, req LogDeviationRequest) (*LogDeviationResponse, error)
}

type CatalogImportResult struct {
	Imported  int
	Templates []domain.Template
}

type CatalogUseCase interface {
	Import(ctx context.Context, dir string) (*CatalogImportResult, error)
	List(ctx context.Context, kind domain.Kind) ([]domain.Template, error)
}
