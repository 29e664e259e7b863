// Package planner turns a self-training assessment into a workout plan, a
// nutrition plan and a list of tips. It is pure computation over an injected
// set of reference tables and performs no I/O.
package planner

import (
	"fmt"

	"wellcoach/coaching-api/internal/domain"
)

const progressTrackingNote = "Record your weight and measurements once a week and complete a new assessment every 4 weeks to refresh your plan."

// Planner runs the plan generation pipeline against one set of tables.
type Planner struct {
	tables *Tables
}

// New returns a Planner using tables, or the built-in tables when nil.
func New(tables *Tables) *Planner {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Planner{tables: tables}
}

// Tips returns the baseline tips followed by the goal-specific ones.
// Only weight_loss and muscle_gain add tips.
func (p *Planner) Tips(goal domain.Goal) []string {
	tips := copyStrings(p.tables.BaselineTips)
	if goal == domain.GoalWeightLoss || goal == domain.GoalMuscleGain {
		tips = append(tips, p.tables.GoalTips[string(goal)]...)
	}
	return tips
}

// Generate runs the full pipeline for a completed assessment and returns the
// plan content. Identity fields (IDs, generation, timestamps) are left for
// the caller. Metrics are recomputed when the assessment carries none.
func (p *Planner) Generate(a *domain.Assessment) domain.GeneratedPlan {
	metrics := a.Metrics
	if metrics.IsZero() {
		metrics = MetricsFor(a)
	}

	workout := p.WorkoutPlan(WorkoutInputs{
		Goal:            a.PrimaryGoal,
		DaysPerWeek:     a.WorkoutDaysPerWeek,
		DurationMinutes: a.WorkoutDurationMinutes,
		FitnessLevel:    a.FitnessLevel,
		Location:        a.WorkoutLocation,
		Equipment:       a.AvailableEquipment,
	})
	nutrition := p.NutritionPlan(NutritionInputs{
		TDEE:        metrics.TDEE,
		Goal:        a.PrimaryGoal,
		WeightKG:    a.WeightKG,
		MealsPerDay: a.MealsPerDay,
	})

	return domain.GeneratedPlan{
		Summary:          summary(a.PrimaryGoal, metrics, workout, nutrition),
		WorkoutPlan:      workout,
		NutritionPlan:    nutrition,
		Tips:             p.Tips(a.PrimaryGoal),
		ProgressTracking: progressTrackingNote,
	}
}

func summary(goal domain.Goal, m domain.BodyMetrics, w domain.WorkoutPlan, n domain.NutritionPlan) string {
	return fmt.Sprintf(
		"Goal: %s. BMI %.1f (%s), estimated daily expenditure %.0f kcal. "+
			"%d training days per week of %d minutes, daily target %d kcal.",
		goal, m.BMI, m.BMICategory, m.TDEE, w.DaysPerWeek, w.SessionMinutes, n.DailyCalories,
	)
}
