package main

import (
	"fmt"
	"io"
	"strings"

	"wellcoach/coaching-api/internal/domain"
	"wellcoach/coaching-api/internal/planner"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type assessOptions struct {
	age       string
	sex       string
	height    string
	weight    string
	activity  string
	goal      string
	days      string
	duration  string
	meals     string
	equipment []string
	tables    string
}

// raw mirrors the JSON body the API accepts, so numbers go through the same
// coercion as a real submission.
func (o assessOptions) raw() map[string]interface{} {
	raw := map[string]interface{}{
		"age":                      o.age,
		"gender":                   o.sex,
		"height_cm":                o.height,
		"weight_kg":                o.weight,
		"activity_level":           o.activity,
		"primary_goal":             o.goal,
		"workout_days_per_week":    o.days,
		"workout_duration_minutes": o.duration,
		"meals_per_day":            o.meals,
	}
	if len(o.equipment) > 0 {
		items := make([]interface{}, len(o.equipment))
		for i, e := range o.equipment {
			items[i] = e
		}
		raw["available_equipment"] = items
	}
	return raw
}

func newAssessCmd() *cobra.Command {
	var opts assessOptions
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Compute body metrics and preview the generated plan",
		Long: `Runs the plan generator on the given inputs without touching the database.
Unparseable numbers fall back to the same defaults the API uses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := planner.LoadTables(opts.tables)
			if err != nil {
				return err
			}
			return runAssess(cmd.OutOrStdout(), planner.New(tables), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.age, "age", "30", "age in years")
	f.StringVar(&opts.sex, "sex", "male", "male or female")
	f.StringVar(&opts.height, "height", "170", "height in cm")
	f.StringVar(&opts.weight, "weight", "70", "weight in kg")
	f.StringVar(&opts.activity, "activity", string(domain.ActivityModerate), "sedentary, light, moderate, active or very_active")
	f.StringVar(&opts.goal, "goal", string(domain.GoalImproveFitness), "weight_loss, muscle_gain, maintain or improve_fitness")
	f.StringVar(&opts.days, "days", "3", "workout days per week")
	f.StringVar(&opts.duration, "duration", "45", "workout duration in minutes")
	f.StringVar(&opts.meals, "meals", "3", "meals per day")
	f.StringSliceVar(&opts.equipment, "equipment", nil, "available equipment")
	f.StringVar(&opts.tables, "tables", "", "planner tables file (defaults to the built-in tables)")
	return cmd
}

func runAssess(w io.Writer, p *planner.Planner, opts assessOptions) error {
	a := &domain.Assessment{}
	coerced := planner.ApplyInputs(a, opts.raw())
	a.Metrics = planner.MetricsFor(a)
	plan := p.Generate(a)

	heading := color.New(color.FgCyan, color.Bold)
	faint := color.New(color.Faint)

	if len(coerced) > 0 {
		color.New(color.FgYellow).Fprintf(w, "! defaults used for: %s\n", strings.Join(coerced, ", "))
	}

	heading.Fprintln(w, "Calculated values")
	fmt.Fprintf(w, "  BMI       %.1f (%s)\n", a.Metrics.BMI, a.Metrics.BMICategory)
	fmt.Fprintf(w, "  BMR       %.0f kcal\n", a.Metrics.BMR)
	fmt.Fprintf(w, "  TDEE      %.0f kcal\n", a.Metrics.TDEE)
	fmt.Fprintf(w, "  Body fat  %.1f%%\n", a.Metrics.BodyFatEstimate)

	heading.Fprintln(w, "Workout")
	fmt.Fprintf(w, "  %s, %d days x %d min\n", plan.WorkoutPlan.Focus, plan.WorkoutPlan.DaysPerWeek, plan.WorkoutPlan.SessionMinutes)
	for _, day := range plan.WorkoutPlan.WeeklySchedule {
		if day.Rest {
			faint.Fprintf(w, "  %-10s rest\n", day.Day)
			continue
		}
		fmt.Fprintf(w, "  %-10s %s (%d exercises)\n", day.Day, day.Type, len(day.Exercises))
	}

	n := plan.NutritionPlan
	heading.Fprintln(w, "Nutrition")
	fmt.Fprintf(w, "  %d kcal/day (%+d), %d meals, %.1f L water\n", n.DailyCalories, n.CalorieAdjustment, n.MealsPerDay, n.WaterLiters)
	fmt.Fprintf(w, "  protein %dg  carbs %dg  fat %dg\n", n.Macros.Protein.Grams, n.Macros.Carbs.Grams, n.Macros.Fat.Grams)

	heading.Fprintln(w, "Tips")
	for _, tip := range plan.Tips {
		fmt.Fprintf(w, "  - %s\n", tip)
	}
	return nil
}
