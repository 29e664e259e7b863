package planner

import (
	"math"

	"wellcoach/coaching-api/internal/domain"
)

const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9

	waterLitersPerKG = 0.033

	// maxTDEE bounds the expenditure fed into the calorie target.
	maxTDEE = 20000.0
)

var calorieAdjustments = map[domain.Goal]int{
	domain.GoalWeightLoss: -500,
	domain.GoalMuscleGain: 300,
}

type macroSplit struct {
	protein, carbs, fat int
}

var (
	muscleGainSplit = macroSplit{30, 45, 25}
	weightLossSplit = macroSplit{35, 35, 30}
	defaultSplit    = macroSplit{25, 50, 25}
)

func splitFor(goal domain.Goal) macroSplit {
	switch goal {
	case domain.GoalMuscleGain:
		return muscleGainSplit
	case domain.GoalWeightLoss:
		return weightLossSplit
	default:
		return defaultSplit
	}
}

// NutritionInputs are the values the nutrition generator reads.
type NutritionInputs struct {
	TDEE        float64
	Goal        domain.Goal
	WeightKG    float64
	MealsPerDay int
}

// NutritionPlan applies the goal's calorie adjustment to TDEE and splits the
// result into macro grams. TDEE is bounded to [0, maxTDEE] first.
func (p *Planner) NutritionPlan(in NutritionInputs) domain.NutritionPlan {
	adjustment := calorieAdjustments[in.Goal]
	daily := int(math.Round(boundedTDEE(in.TDEE))) + adjustment
	if daily < 0 {
		daily = 0
	}
	split := splitFor(in.Goal)

	meals := make([]domain.MealSlot, 0, len(p.tables.MealExamples))
	for _, m := range p.tables.MealExamples {
		meals = append(meals, domain.MealSlot{Slot: m.Slot, Examples: copyStrings(m.Examples)})
	}

	return domain.NutritionPlan{
		DailyCalories:     daily,
		CalorieAdjustment: adjustment,
		Macros: domain.Macros{
			Protein: macro(daily, split.protein, kcalPerGramProtein),
			Carbs:   macro(daily, split.carbs, kcalPerGramCarbs),
			Fat:     macro(daily, split.fat, kcalPerGramFat),
		},
		MealsPerDay:     in.MealsPerDay,
		MealExamples:    meals,
		WaterLiters:     round1(in.WeightKG * waterLitersPerKG),
		Recommendations: copyStrings(p.tables.Recommendations),
	}
}

func boundedTDEE(tdee float64) float64 {
	if math.IsNaN(tdee) || tdee < 0 {
		return 0
	}
	return math.Min(tdee, maxTDEE)
}

func macro(daily, percent, kcalPerGram int) domain.MacroTarget {
	kcal := float64(daily) * float64(percent) / 100
	return domain.MacroTarget{
		Percent:  percent,
		Grams:    int(math.Round(kcal / float64(kcalPerGram))),
		Calories: int(math.Round(kcal)),
	}
}
