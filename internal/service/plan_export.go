package service

import (
	"html/template"
	"io"
	"strings"

	"wellcoach/coaching-api/internal/domain"
)

var planTemplate = template.Must(template.New("plan").Funcs(template.FuncMap{
	"label": func(s string) string { return strings.ReplaceAll(s, "_", " ") },
	"join":  strings.Join,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Your self-training plan</title>
</head>
<body>
<h1>Your self-training plan</h1>
<p>{{.Summary}}</p>

<h2>Workout plan</h2>
<p>Focus: {{.WorkoutPlan.Focus}} ({{.WorkoutPlan.CardioPercent}}% cardio, {{.WorkoutPlan.StrengthPercent}}% strength),
{{.WorkoutPlan.DaysPerWeek}} days per week, {{.WorkoutPlan.SessionMinutes}} minutes per session.</p>
{{range .WorkoutPlan.WeeklySchedule}}
<h3>{{.Day}}: {{.Type}}</h3>
{{if .Rest}}<p>{{join .Activities ", "}}</p>{{else}}<ul>
{{range .Exercises}}<li>{{label (print .Phase)}}: {{.Name}}{{if .Sets}}, {{.Sets}} x {{.Reps}}{{end}}{{if .Duration}}, {{.Duration}}{{end}}</li>
{{end}}</ul>{{end}}
{{end}}

<h2>Nutrition plan</h2>
<p>Daily target: {{.NutritionPlan.DailyCalories}} kcal over {{.NutritionPlan.MealsPerDay}} meals, {{.NutritionPlan.WaterLiters}} L water.</p>
<table>
<tr><th>Macro</th><th>%</th><th>g</th><th>kcal</th></tr>
<tr><td>Protein</td><td>{{.NutritionPlan.Macros.Protein.Percent}}</td><td>{{.NutritionPlan.Macros.Protein.Grams}}</td><td>{{.NutritionPlan.Macros.Protein.Calories}}</td></tr>
<tr><td>Carbs</td><td>{{.NutritionPlan.Macros.Carbs.Percent}}</td><td>{{.NutritionPlan.Macros.Carbs.Grams}}</td><td>{{.NutritionPlan.Macros.Carbs.Calories}}</td></tr>
<tr><td>Fat</td><td>{{.NutritionPlan.Macros.Fat.Percent}}</td><td>{{.NutritionPlan.Macros.Fat.Grams}}</td><td>{{.NutritionPlan.Macros.Fat.Calories}}</td></tr>
</table>
{{range .NutritionPlan.MealExamples}}
<h3>{{label .Slot}}</h3>
<ul>{{range .Examples}}<li>{{.}}</li>{{end}}</ul>
{{end}}
<ul>{{range .NutritionPlan.Recommendations}}<li>{{.}}</li>{{end}}</ul>

<h2>Tips</h2>
<ul>{{range .Tips}}<li>{{.}}</li>{{end}}</ul>
<p>{{.ProgressTracking}}</p>
</body>
</html>
`))

func renderPlanHTML(w io.Writer, plan *domain.GeneratedPlan) error {
	return planTemplate.Execute(w, plan)
}
