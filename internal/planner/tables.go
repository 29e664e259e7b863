package planner

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Exercise categories used by the session templates.
const (
	CategoryCardio      = "cardio"
	CategoryUpperBody   = "upper_body"
	CategoryLowerBody   = "lower_body"
	CategoryCore        = "core"
	CategoryFlexibility = "flexibility"
)

var requiredCategories = []string{
	CategoryCardio,
	CategoryUpperBody,
	CategoryLowerBody,
	CategoryCore,
	CategoryFlexibility,
}

// Exercise is a reference exercise. Either Sets/Reps or Duration is set.
type Exercise struct {
	Name     string `mapstructure:"name"`
	Sets     int    `mapstructure:"sets"`
	Reps     string `mapstructure:"reps"`
	Duration string `mapstructure:"duration"`
}

// MealTable lists example meals for one slot of the day.
type MealTable struct {
	Slot     string   `mapstructure:"slot"`
	Examples []string `mapstructure:"examples"`
}

// Tables is the reference data the generators draw from. A Tables value is
// built once at startup and treated as read-only afterwards; generators copy
// whatever they hand out.
type Tables struct {
	Exercises       map[string][]Exercise `mapstructure:"exercises"`
	RestActivities  []string              `mapstructure:"rest_activities"`
	MealExamples    []MealTable           `mapstructure:"meal_examples"`
	Recommendations []string              `mapstructure:"recommendations"`
	BaselineTips    []string              `mapstructure:"baseline_tips"`
	GoalTips        map[string][]string   `mapstructure:"goal_tips"`
}

// DefaultTables returns a fresh copy of the built-in reference tables.
func DefaultTables() *Tables {
	return &Tables{
		Exercises: map[string][]Exercise{
			CategoryCardio: {
				{Name: "Jumping jacks", Duration: "5 min"},
				{Name: "Brisk walk or light jog", Duration: "10 min"},
				{Name: "Jump rope", Duration: "5 min"},
				{Name: "Stationary cycling", Duration: "15 min"},
			},
			CategoryUpperBody: {
				{Name: "Push-ups", Sets: 3, Reps: "10-12"},
				{Name: "Dumbbell rows", Sets: 3, Reps: "10-12"},
				{Name: "Shoulder press", Sets: 3, Reps: "10"},
				{Name: "Bicep curls", Sets: 3, Reps: "12"},
			},
			CategoryLowerBody: {
				{Name: "Squats", Sets: 3, Reps: "12-15"},
				{Name: "Lunges", Sets: 3, Reps: "10 each leg"},
				{Name: "Glute bridges", Sets: 3, Reps: "15"},
				{Name: "Calf raises", Sets: 3, Reps: "15"},
			},
			CategoryCore: {
				{Name: "Plank", Duration: "30-60 sec"},
				{Name: "Bicycle crunches", Sets: 3, Reps: "15"},
				{Name: "Mountain climbers", Sets: 3, Reps: "20"},
			},
			CategoryFlexibility: {
				{Name: "Full body stretching", Duration: "5-10 min"},
				{Name: "Yoga flow", Duration: "10 min"},
				{Name: "Foam rolling", Duration: "5 min"},
			},
		},
		RestActivities: []string{
			"Light walk for 20-30 minutes",
			"Gentle stretching",
			"Foam rolling or mobility work",
		},
		MealExamples: []MealTable{
			{Slot: "breakfast", Examples: []string{
				"Oatmeal with banana and peanut butter",
				"Scrambled eggs with whole grain toast",
				"Greek yogurt with berries and granola",
			}},
			{Slot: "lunch", Examples: []string{
				"Grilled chicken with brown rice and vegetables",
				"Tuna salad with quinoa",
				"Lentil soup with whole grain bread",
			}},
			{Slot: "dinner", Examples: []string{
				"Baked salmon with sweet potato and broccoli",
				"Lean beef stir fry with vegetables",
				"Chicken breast with roasted vegetables",
			}},
			{Slot: "snacks", Examples: []string{
				"A handful of almonds",
				"Apple with peanut butter",
				"Cottage cheese with fruit",
			}},
		},
		Recommendations: []string{
			"Eat protein with every meal",
			"Prefer whole foods over processed foods",
			"Include vegetables in at least two meals a day",
			"Limit added sugar and sugary drinks",
			"Spread your meals evenly through the day",
		},
		BaselineTips: []string{
			"Sleep 7-9 hours every night",
			"Drink water throughout the day",
			"Track your progress weekly",
		},
		GoalTips: map[string][]string{
			"weight_loss": {
				"Keep a consistent calorie deficit rather than crash dieting",
				"Add daily steps on top of planned workouts",
				"Weigh yourself at the same time of day",
			},
			"muscle_gain": {
				"Increase weights gradually every week",
				"Eat enough protein, around 1.6-2.2 g per kg of body weight",
				"Rest each muscle group at least 48 hours between sessions",
			},
		},
	}
}

// Validate checks that every category and table the generators rely on is
// populated.
func (t *Tables) Validate() error {
	if t == nil {
		return errors.New("planner tables are nil")
	}
	for _, c := range requiredCategories {
		if len(t.Exercises[c]) == 0 {
			return fmt.Errorf("planner tables: exercise category %q is empty", c)
		}
	}
	if len(t.RestActivities) == 0 {
		return errors.New("planner tables: rest_activities is empty")
	}
	if len(t.MealExamples) == 0 {
		return errors.New("planner tables: meal_examples is empty")
	}
	return nil
}

// LoadTables reads reference tables from a YAML/JSON/TOML file. Sections
// missing from the file keep their built-in defaults. An empty path returns
// the defaults.
func LoadTables(path string) (*Tables, error) {
	defaults := DefaultTables()
	if path == "" {
		return defaults, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read planner tables %s: %w", path, err)
	}

	var loaded Tables
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, fmt.Errorf("decode planner tables %s: %w", path, err)
	}

	if loaded.Exercises == nil {
		loaded.Exercises = map[string][]Exercise{}
	}
	for c, list := range defaults.Exercises {
		if len(loaded.Exercises[c]) == 0 {
			loaded.Exercises[c] = list
		}
	}
	if len(loaded.RestActivities) == 0 {
		loaded.RestActivities = defaults.RestActivities
	}
	if len(loaded.MealExamples) == 0 {
		loaded.MealExamples = defaults.MealExamples
	}
	if len(loaded.Recommendations) == 0 {
		loaded.Recommendations = defaults.Recommendations
	}
	if len(loaded.BaselineTips) == 0 {
		loaded.BaselineTips = defaults.BaselineTips
	}
	if loaded.GoalTips == nil {
		loaded.GoalTips = defaults.GoalTips
	}

	if err := loaded.Validate(); err != nil {
		return nil, err
	}
	return &loaded, nil
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
