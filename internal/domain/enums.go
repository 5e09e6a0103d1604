package domain

// Kind discriminates the two shapes a template or personalized item can take.
type Kind string

const (
	KindMeal    Kind = "meal"
	KindWorkout Kind = "workout"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindMeal || k == KindWorkout
}

type DeviationType string

const (
	DeviationSkippedWorkout   DeviationType = "skipped_workout"
	DeviationShortenedWorkout DeviationType = "shortened_workout"
	DeviationMissedMeal       DeviationType = "missed_meal"
	DeviationSubstitutedMeal  DeviationType = "substituted_meal"
	DeviationDiningOut        DeviationType = "dining_out"
	DeviationBudgetExceeded   DeviationType = "budget_exceeded"
)

// ValidDeviationTypes is the canonical set of accepted deviation type strings.
var ValidDeviationTypes = map[DeviationType]bool{
	DeviationSkippedWorkout:   true,
	DeviationShortenedWorkout: true,
	DeviationMissedMeal:       true,
	DeviationSubstitutedMeal:  true,
	DeviationDiningOut:        true,
	DeviationBudgetExceeded:   true,
}

type ReasonCode string

const (
	ReasonTime   ReasonCode = "time"
	ReasonEnergy ReasonCode = "energy"
	ReasonInjury ReasonCode = "injury"
	ReasonCost   ReasonCode = "cost"
	ReasonSocial ReasonCode = "social"
	ReasonOther  ReasonCode = "other"
)

// ValidReasonCodes is the canonical set of accepted deviation reasons.
var ValidReasonCodes = map[ReasonCode]bool{
	ReasonTime:   true,
	ReasonEnergy: true,
	ReasonInjury: true,
	ReasonCost:   true,
	ReasonSocial: true,
	ReasonOther:  true,
}

type BudgetTier string

const (
	BudgetLow      BudgetTier = "low"
	BudgetStandard BudgetTier = "standard"
	BudgetPremium  BudgetTier = "premium"
)

type AdjustTrigger string

const (
	TriggerManual          AdjustTrigger = "manual"
	TriggerDeviationLogged AdjustTrigger = "deviation_logged"
	TriggerCheckIn         AdjustTrigger = "check_in"
)

// ValidAdjustTriggers is the canonical set of accepted adjustment triggers.
var ValidAdjustTriggers = map[AdjustTrigger]bool{
	TriggerManual:          true,
	TriggerDeviationLogged: true,
	TriggerCheckIn:         true,
}

type AdjustmentType string

const (
	AdjustWorkoutFrequency AdjustmentType = "workout_frequency"
	AdjustWorkoutDuration  AdjustmentType = "workout_duration"
	AdjustBudgetTier       AdjustmentType = "budget_tier"
	AdjustSimplify         AdjustmentType = "simplify"
	AdjustCalorieDeficit   AdjustmentType = "calorie_deficit"
)

// Tier names as resolved by the entitlement collaborator.
const (
	TierFree = "free"
	TierPaid = "paid"
)

// Feature names checked against the entitlement collaborator.
const (
	FeatureAdaptiveAdjustments = "adaptive_adjustments"
)
