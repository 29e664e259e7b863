package domain

// ExercisePhase orders the steps of a training session.
type ExercisePhase string

const (
	PhaseWarmUp   ExercisePhase = "warm_up"
	PhaseMain     ExercisePhase = "main"
	PhaseCore     ExercisePhase = "core"
	PhaseCoolDown ExercisePhase = "cool_down"
)

// ExerciseStep is one exercise inside a training day.
// Either Sets/Reps or Duration is set.
type ExerciseStep struct {
	Phase    ExercisePhase `bson:"phase" json:"phase"`
	Name     string        `bson:"name" json:"name"`
	Sets     int           `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps     string        `bson:"reps,omitempty" json:"reps,omitempty"`
	Duration string        `bson:"duration,omitempty" json:"duration,omitempty"`
}

// DaySchedule is a single weekday entry of the weekly schedule.
type DaySchedule struct {
	Day             string         `bson:"day" json:"day"`
	Rest            bool           `bson:"rest" json:"rest"`
	Type            string         `bson:"type" json:"type"`
	DurationMinutes int            `bson:"durationMinutes,omitempty" json:"duration_minutes,omitempty"`
	Exercises       []ExerciseStep `bson:"exercises,omitempty" json:"exercises,omitempty"`
	Activities      []string       `bson:"activities,omitempty" json:"activities,omitempty"`
}

// WorkoutPlan is the weekly training part of a generated plan.
type WorkoutPlan struct {
	Goal            Goal          `bson:"goal" json:"goal"`
	Focus           string        `bson:"focus" json:"focus"`
	CardioPercent   int           `bson:"cardioPercent" json:"cardio_percent"`
	StrengthPercent int           `bson:"strengthPercent" json:"strength_percent"`
	DaysPerWeek     int           `bson:"daysPerWeek" json:"days_per_week"`
	SessionMinutes  int           `bson:"sessionMinutes" json:"session_minutes"`
	FitnessLevel    string        `bson:"fitnessLevel,omitempty" json:"fitness_level,omitempty"`
	Location        string        `bson:"location,omitempty" json:"location,omitempty"`
	Equipment       []string      `bson:"equipment,omitempty" json:"equipment,omitempty"`
	WeeklySchedule  []DaySchedule `bson:"weeklySchedule" json:"weekly_schedule"`
}

// TrainingDays counts the non-rest entries of the schedule.
func (w *WorkoutPlan) TrainingDays() int {
	n := 0
	for _, d := range w.WeeklySchedule {
		if !d.Rest {
			n++
		}
	}
	return n
}

// MacroTarget is the daily amount of one macronutrient.
type MacroTarget struct {
	Percent  int `bson:"percent" json:"percent"`
	Grams    int `bson:"grams" json:"grams"`
	Calories int `bson:"calories" json:"calories"`
}

// Macros groups the three macronutrient targets.
type Macros struct {
	Protein MacroTarget `bson:"protein" json:"protein"`
	Carbs   MacroTarget `bson:"carbs" json:"carbs"`
	Fat     MacroTarget `bson:"fat" json:"fat"`
}

// MealSlot holds example meals for one slot of the day.
type MealSlot struct {
	Slot     string   `bson:"slot" json:"slot"`
	Examples []string `bson:"examples" json:"examples"`
}

// NutritionPlan is the daily nutrition part of a generated plan.
type NutritionPlan struct {
	DailyCalories     int        `bson:"dailyCalories" json:"daily_calories"`
	CalorieAdjustment int        `bson:"calorieAdjustment" json:"calorie_adjustment"`
	Macros            Macros     `bson:"macros" json:"macros"`
	MealsPerDay       int        `bson:"mealsPerDay" json:"meals_per_day"`
	MealExamples      []MealSlot `bson:"mealExamples" json:"meal_examples"`
	WaterLiters       float64    `bson:"waterLiters" json:"water_liters"`
	Recommendations   []string   `bson:"recommendations" json:"recommendations"`
}
