// Package entitlement decides which premium features a user may use.
package entitlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/repository"
)

// Entitlement is the outcome of a feature check.
type Entitlement struct {
	Allowed bool
	Tier    string
}

// paidFeatures lists features that require the paid tier.
var paidFeatures = map[string]bool{
	domain.FeatureAdaptiveAdjustments: true,
}

// Checker resolves tiers from the store, falling back to a default tier for
// users the billing system has not recorded.
type Checker struct {
	tiers       repository.TierRepo
	defaultTier string
}

func NewChecker(tiers repository.TierRepo, defaultTier string) *Checker {
	if defaultTier == "" {
		defaultTier = domain.TierFree
	}
	return &Checker{tiers: tiers, defaultTier: defaultTier}
}

// Check reports whether userID may use feature. Unknown features are open
// to every tier.
func (c *Checker) Check(ctx context.Context, userID, feature string) (Entitlement, error) {
	tier, err := c.tiers.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return Entitlement{}, fmt.Errorf("resolving tier: %w", err)
		}
		tier = c.defaultTier
	}
	if !paidFeatures[feature] {
		return Entitlement{Allowed: true, Tier: tier}, nil
	}
	return Entitlement{Allowed: tier == domain.TierPaid, Tier: tier}, nil
}
