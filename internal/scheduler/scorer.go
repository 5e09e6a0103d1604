package scheduler

import (
	"strings"

	"github.com/alexanderramin/plateplan/internal/domain"
)

// CuisineBonus is added when any template tag equals a favorite cuisine.
const CuisineBonus = 0.3

type ScoredTemplate struct {
	Template domain.Template
	Score    float64
}

// ScoreTemplate returns affinity[id] plus the cuisine bonus.
func ScoreTemplate(t domain.Template, signals *domain.UserSignals) ScoredTemplate {
	result := ScoredTemplate{Template: t}
	if signals == nil {
		return result
	}
	result.Score = signals.Affinity[t.ID]
	if matchesCuisine(t.Tags, signals.FavoriteCuisines) {
		result.Score += CuisineBonus
	}
	return result
}

func matchesCuisine(tags, cuisines []string) bool {
	for _, tag := range tags {
		for _, c := range cuisines {
			if c != "" && strings.EqualFold(strings.TrimSpace(tag), strings.TrimSpace(c)) {
				return true
			}
		}
	}
	return false
}

// isAvoided reports whether the template name or any tag matches an avoided food.
func isAvoided(t domain.Template, avoided []string) bool {
	if len(avoided) == 0 {
		return false
	}
	if _, hit := domain.MatchFood(t.Name, avoided); hit {
		return true
	}
	for _, tag := range t.Tags {
		if _, hit := domain.MatchFood(tag, avoided); hit {
			return true
		}
	}
	return false
}
