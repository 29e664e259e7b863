package planner

import (
	"math"
	"strings"

	"github.com/spf13/cast"

	"wellcoach/coaching-api/internal/domain"
)

// Fallbacks used when a numeric assessment input is missing or cannot be
// parsed. Malformed numbers never reject the submission: the default is
// applied and the field name is reported back in the coerced list so the
// substitution stays visible.
const (
	DefaultHeightCM        = 170.0
	DefaultWeightKG        = 70.0
	DefaultAge             = 30
	DefaultWorkoutDays     = 3
	DefaultWorkoutDuration = 45
	DefaultMealsPerDay     = 3
)

// Field names reported in the coerced list.
const (
	FieldHeight          = "height_cm"
	FieldWeight          = "weight_kg"
	FieldAge             = "age"
	FieldWorkoutDays     = "workout_days_per_week"
	FieldWorkoutDuration = "workout_duration_minutes"
	FieldMealsPerDay     = "meals_per_day"
)

var goalAliases = map[string]domain.Goal{
	"weight_loss":       domain.GoalWeightLoss,
	"lose_weight":       domain.GoalWeightLoss,
	"muscle_gain":       domain.GoalMuscleGain,
	"build_muscle":      domain.GoalMuscleGain,
	"increase_strength": domain.GoalMuscleGain,
	"maintain":          domain.GoalMaintain,
	"improve_fitness":   domain.GoalImproveFitness,
	"general_fitness":   domain.GoalImproveFitness,
}

// NormalizeGoal maps a submitted goal (including the client's alternative
// spellings) onto the goal enum. Unknown goals become improve_fitness.
func NormalizeGoal(s string) domain.Goal {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if g, ok := goalAliases[key]; ok {
		return g
	}
	return domain.GoalImproveFitness
}

// numericRange is the accepted interval of one numeric input, bounds
// inclusive. Values outside it are treated like unparseable ones.
type numericRange struct {
	min, max float64
}

func (r numericRange) contains(v float64) bool {
	return v >= r.min && v <= r.max
}

// Accepted ranges of the numeric inputs.
var (
	heightRange          = numericRange{50, 300}
	weightRange          = numericRange{20, 500}
	ageRange             = numericRange{1, 120}
	workoutDurationRange = numericRange{5, 300}
	mealsPerDayRange     = numericRange{1, 10}
)

// ApplyInputs copies a free-form submission onto the assessment's input
// fields and returns the names of numeric fields that fell back to defaults,
// either because they could not be parsed or because they were out of range.
// Derived metrics are not touched; callers recompute them afterwards.
func ApplyInputs(a *domain.Assessment, raw map[string]interface{}) []string {
	var coerced []string
	num := func(field string, def float64, r numericRange, keys ...string) float64 {
		v, ok := parseNumber(first(raw, keys...))
		if !ok || !r.contains(v) {
			coerced = append(coerced, field)
			return def
		}
		return v
	}

	a.HeightCM = num(FieldHeight, DefaultHeightCM, heightRange, "height_cm", "height")
	a.WeightKG = num(FieldWeight, DefaultWeightKG, weightRange, "weight_kg", "weight")
	a.Age = int(math.Round(num(FieldAge, DefaultAge, ageRange, "age")))

	a.Gender = strings.ToLower(text(first(raw, "gender", "sex")))
	a.ActivityLevel = domain.ActivityLevel(strings.ToLower(text(first(raw, "activity_level"))))
	a.PrimaryGoal = NormalizeGoal(text(first(raw, "primary_goal", "goal")))
	a.FitnessLevel = text(first(raw, "fitness_level"))
	a.WorkoutLocation = text(first(raw, "workout_location"))
	a.Timeline = text(first(raw, "timeline"))
	a.Injuries = text(first(raw, "injuries"))

	days, ok := parseNumber(first(raw, "workout_days_per_week", "workout_days"))
	if !ok {
		coerced = append(coerced, FieldWorkoutDays)
		days = DefaultWorkoutDays
	}
	// Clamp before converting so huge values cannot overflow int.
	a.WorkoutDaysPerWeek = ClampDays(int(math.Round(math.Max(-1, math.Min(days, 8)))))

	a.WorkoutDurationMinutes = int(math.Round(num(FieldWorkoutDuration, DefaultWorkoutDuration,
		workoutDurationRange, "workout_duration_minutes", "workout_duration")))
	a.MealsPerDay = int(math.Round(num(FieldMealsPerDay, DefaultMealsPerDay,
		mealsPerDayRange, "meals_per_day")))

	a.AvailableEquipment = list(first(raw, "available_equipment", "equipment"))
	a.DietaryPreferences = list(first(raw, "dietary_preferences", "dietary_restrictions", "dietary_preference"))

	// Target weight is optional; an out-of-range value is dropped.
	a.TargetWeightKG = nil
	if tw, ok := parseNumber(first(raw, "target_weight_kg", "target_weight")); ok && weightRange.contains(tw) {
		a.TargetWeightKG = &tw
	}
	return coerced
}

// ClampDays bounds a training-days count to [0,7].
func ClampDays(days int) int {
	if days < 0 {
		return 0
	}
	if days > 7 {
		return 7
	}
	return days
}

func first(raw map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func parseNumber(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		v = s
	}
	if _, ok := v.(bool); ok {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func text(v interface{}) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

func list(v interface{}) []string {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	items, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
