package domain

// UserProfile carries the safety inputs the validator enforces.
type UserProfile struct {
	UserID        string
	Allergies     []string
	DislikedFoods []string
}

// ExcludedFoods returns the union of allergies and dislikes.
func (p *UserProfile) ExcludedFoods() []string {
	if p == nil {
		return nil
	}
	out := make([]string, 0, len(p.Allergies)+len(p.DislikedFoods))
	out = append(out, p.Allergies...)
	out = append(out, p.DislikedFoods...)
	return out
}

// UserSignals is an aggregate of affinity and avoidance derived from past
// behavior. It is recomputed elsewhere and only read here.
type UserSignals struct {
	UserID           string
	AvoidedFoods     []string
	FavoriteCuisines []string
	Affinity         map[string]float64
	MostSkippedSlot  string
	ConsistencyScore float64
}

// HasPreferences reports whether any affinity or cuisine signal exists.
func (s *UserSignals) HasPreferences() bool {
	if s == nil {
		return false
	}
	return len(s.Affinity) > 0 || len(s.FavoriteCuisines) > 0
}
