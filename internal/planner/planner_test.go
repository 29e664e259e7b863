package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellcoach/coaching-api/internal/domain"
)

func TestTips(t *testing.T) {
	p := New(nil)
	base := DefaultTables().BaselineTips

	assert.Equal(t, base, p.Tips(domain.GoalMaintain))
	assert.Equal(t, base, p.Tips(domain.GoalImproveFitness))

	loss := p.Tips(domain.GoalWeightLoss)
	assert.Len(t, loss, 6)
	assert.Equal(t, base, loss[:3])

	gain := p.Tips(domain.GoalMuscleGain)
	assert.Len(t, gain, 6)
	assert.NotEqual(t, loss[3:], gain[3:])
}

func TestTips_DoesNotGrowBaseline(t *testing.T) {
	tables := DefaultTables()
	p := New(tables)
	p.Tips(domain.GoalWeightLoss)
	p.Tips(domain.GoalWeightLoss)
	assert.Len(t, tables.BaselineTips, 3)
}

func TestGenerate_RecomputesMissingMetrics(t *testing.T) {
	a := &domain.Assessment{
		Age:                30,
		Gender:             "male",
		HeightCM:           180,
		WeightKG:           80,
		ActivityLevel:      domain.ActivityModerate,
		PrimaryGoal:        domain.GoalWeightLoss,
		WorkoutDaysPerWeek: 3,
		MealsPerDay:        3,
	}
	plan := New(nil).Generate(a)

	// TDEE 2759 - 500
	assert.Equal(t, 2259, plan.NutritionPlan.DailyCalories)
	assert.Equal(t, 3, plan.WorkoutPlan.TrainingDays())
	assert.Len(t, plan.Tips, 6)
	assert.NotEmpty(t, plan.Summary)
	assert.NotEmpty(t, plan.ProgressTracking)
	assert.True(t, plan.ID.IsZero())
}

func TestGenerate_UsesStoredMetrics(t *testing.T) {
	a := &domain.Assessment{
		PrimaryGoal: domain.GoalMaintain,
		WeightKG:    70,
		Metrics:     domain.BodyMetrics{BMI: 22, BMR: 1500, TDEE: 2100},
	}
	plan := New(nil).Generate(a)
	assert.Equal(t, 2100, plan.NutritionPlan.DailyCalories)
}

func TestLoadTables_EmptyPathReturnsDefaults(t *testing.T) {
	tables, err := LoadTables("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTables(), tables)
}

func TestLoadTables_OverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	content := `
exercises:
  upper_body:
    - name: Pull-ups
      sets: 4
      reps: "6-8"
baseline_tips:
  - Warm up before every session
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tables, err := LoadTables(path)
	require.NoError(t, err)

	require.Len(t, tables.Exercises[CategoryUpperBody], 1)
	assert.Equal(t, "Pull-ups", tables.Exercises[CategoryUpperBody][0].Name)
	assert.Equal(t, 4, tables.Exercises[CategoryUpperBody][0].Sets)
	assert.Equal(t, []string{"Warm up before every session"}, tables.BaselineTips)
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultTables().Exercises[CategoryLowerBody], tables.Exercises[CategoryLowerBody])
	assert.Equal(t, DefaultTables().MealExamples, tables.MealExamples)
}

func TestLoadTables_MissingFile(t *testing.T) {
	_, err := LoadTables(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestTablesValidate(t *testing.T) {
	tables := DefaultTables()
	require.NoError(t, tables.Validate())

	delete(tables.Exercises, CategoryCore)
	assert.ErrorContains(t, tables.Validate(), "core")
}
