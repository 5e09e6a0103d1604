package scheduler

import "github.com/alexanderramin/plateplan/internal/domain"

// DefaultTopN is how many ranked templates the seed picks among.
const DefaultTopN = 5

// SeedHash is a 32-bit polynomial rolling hash (h = h*31 + b). Changing it
// changes which template a given (date, slot) regenerates to.
func SeedHash(seed string) uint32 {
	var h uint32
	for i := 0; i < len(seed); i++ {
		h = h*31 + uint32(seed[i])
	}
	return h
}

// Seed builds the selection seed for a date and slot label.
func Seed(date, label string) string {
	return date + ":" + label
}

// Select deterministically picks one template from candidates.
//
// Templates whose ID is in used are skipped; when that leaves nothing, used is
// cleared in place and the full pool is reused. Templates matching an avoided
// food are then dropped unless that would empty the pool. The remainder is
// ranked by ScoreTemplate (or by ID alone when signals carry no preferences)
// and the pick is top[SeedHash(seed) % len(top)]. Returns nil only when
// candidates is empty.
func Select(candidates []domain.Template, used map[string]bool, signals *domain.UserSignals, seed string, topN int) *domain.Template {
	if len(candidates) == 0 {
		return nil
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	pool := make([]domain.Template, 0, len(candidates))
	for _, c := range candidates {
		if !used[c.ID] {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		for k := range used {
			delete(used, k)
		}
		pool = append(pool, candidates...)
	}

	if signals != nil && len(signals.AvoidedFoods) > 0 {
		kept := make([]domain.Template, 0, len(pool))
		for _, c := range pool {
			if !isAvoided(c, signals.AvoidedFoods) {
				kept = append(kept, c)
			}
		}
		if len(kept) > 0 {
			pool = kept
		}
	}

	scored := make([]ScoredTemplate, len(pool))
	rank := signals.HasPreferences()
	for i, c := range pool {
		if rank {
			scored[i] = ScoreTemplate(c, signals)
		} else {
			scored[i] = ScoredTemplate{Template: c}
		}
	}
	CanonicalSort(scored)

	top := scored
	if len(top) > topN {
		top = top[:topN]
	}
	pick := top[SeedHash(seed)%uint32(len(top))].Template
	return &pick
}
