package domain

// Ingredient is one line of a meal's content. Quantities are per serving.
type Ingredient struct {
	Name     string  `json:"name" yaml:"name"`
	Grams    float64 `json:"grams" yaml:"grams"`
	Calories float64 `json:"calories" yaml:"calories"`
	ProteinG float64 `json:"protein_g" yaml:"protein_g"`
	CarbsG   float64 `json:"carbs_g" yaml:"carbs_g"`
	FatsG    float64 `json:"fats_g" yaml:"fats_g"`
}

// Exercise is one line of a workout's content.
type Exercise struct {
	Name        string `json:"name" yaml:"name"`
	Sets        int    `json:"sets" yaml:"sets"`
	Reps        int    `json:"reps" yaml:"reps"`
	RestSeconds int    `json:"rest_seconds" yaml:"rest_seconds"`
}

// Content is the structured body shared by templates and personalized items.
// Meals use Ingredients, workouts use Exercises.
type Content struct {
	Ingredients []Ingredient `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
	Exercises   []Exercise   `json:"exercises,omitempty" yaml:"exercises,omitempty"`
}

// Clone returns a deep copy of c.
func (c Content) Clone() Content {
	var out Content
	if c.Ingredients != nil {
		out.Ingredients = make([]Ingredient, len(c.Ingredients))
		copy(out.Ingredients, c.Ingredients)
	}
	if c.Exercises != nil {
		out.Exercises = make([]Exercise, len(c.Exercises))
		copy(out.Exercises, c.Exercises)
	}
	return out
}

// Len returns the number of entries for the given kind.
func (c Content) Len(kind Kind) int {
	if kind == KindWorkout {
		return len(c.Exercises)
	}
	return len(c.Ingredients)
}

// Totals aggregates a content body. Meals fill the nutrition fields,
// workouts fill Volume (sets x reps) and Minutes.
type Totals struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatsG    float64 `json:"fats_g"`
	Volume   int     `json:"volume,omitempty"`
	Minutes  int     `json:"minutes,omitempty"`
}

// Template is a read-only catalog entry describing a generic meal or workout.
type Template struct {
	ID               string
	Kind             Kind
	Name             string
	Category         string
	Content          Content
	Totals           Totals // per serving for meals
	Servings         int
	DurationMin      int
	Tags             []string
	IsActiveRecovery bool
}

// Budget is the per-unit value scaling works against: calories per serving
// for meals, session minutes for workouts.
func (t *Template) Budget() float64 {
	if t.Kind == KindWorkout {
		return float64(t.DurationMin)
	}
	return t.Totals.Calories
}

// EffectiveServings never reports fewer than one serving.
func (t *Template) EffectiveServings() int {
	if t.Servings < 1 {
		return 1
	}
	return t.Servings
}
