package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal is the primary training goal chosen in the assessment.
type Goal string

const (
	GoalWeightLoss     Goal = "weight_loss"
	GoalMuscleGain     Goal = "muscle_gain"
	GoalMaintain       Goal = "maintain"
	GoalImproveFitness Goal = "improve_fitness"
)

// ActivityLevel describes how active the user is outside planned training.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// BodyMetrics are derived from the demographic inputs. They are always
// computed together from the same inputs and never patched individually.
type BodyMetrics struct {
	BMI             float64 `bson:"bmi" json:"bmi"`
	BMICategory     string  `bson:"bmiCategory" json:"bmi_category"`
	BMR             float64 `bson:"bmr" json:"bmr"`
	TDEE            float64 `bson:"tdee" json:"tdee"`
	BodyFatEstimate float64 `bson:"bodyFatEstimate" json:"body_fat_estimate"`
}

// IsZero reports whether the metrics were never computed.
func (m BodyMetrics) IsZero() bool {
	return m.BMI == 0 && m.BMR == 0 && m.TDEE == 0
}

// Assessment is the self-training profile of a user for one subscription.
// At most one exists per (UserID, SubscriptionID).
type Assessment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"user_id"`
	SubscriptionID primitive.ObjectID `bson:"subscriptionId" json:"subscription_id"`

	Age      int     `bson:"age" json:"age"`
	Gender   string  `bson:"gender" json:"gender"`
	HeightCM float64 `bson:"heightCm" json:"height_cm"`
	WeightKG float64 `bson:"weightKg" json:"weight_kg"`

	PrimaryGoal            Goal          `bson:"primaryGoal" json:"primary_goal"`
	ActivityLevel          ActivityLevel `bson:"activityLevel" json:"activity_level"`
	FitnessLevel           string        `bson:"fitnessLevel,omitempty" json:"fitness_level,omitempty"`
	WorkoutDaysPerWeek     int           `bson:"workoutDaysPerWeek" json:"workout_days_per_week"`
	WorkoutDurationMinutes int           `bson:"workoutDurationMinutes" json:"workout_duration_minutes"`
	WorkoutLocation        string        `bson:"workoutLocation,omitempty" json:"workout_location,omitempty"`
	AvailableEquipment     []string      `bson:"availableEquipment,omitempty" json:"available_equipment,omitempty"`
	DietaryPreferences     []string      `bson:"dietaryPreferences,omitempty" json:"dietary_preferences,omitempty"`
	MealsPerDay            int           `bson:"mealsPerDay" json:"meals_per_day"`
	TargetWeightKG         *float64      `bson:"targetWeightKg,omitempty" json:"target_weight_kg,omitempty"`
	Timeline               string        `bson:"timeline,omitempty" json:"timeline,omitempty"`
	Injuries               string        `bson:"injuries,omitempty" json:"injuries,omitempty"`

	Metrics BodyMetrics `bson:"metrics" json:"calculated_values"`

	// RawInputs is the submitted key/value payload as received.
	RawInputs map[string]interface{} `bson:"rawInputs,omitempty" json:"raw_inputs,omitempty"`
	// CoercedFields lists inputs that could not be parsed and fell back to defaults.
	CoercedFields []string `bson:"coercedFields,omitempty" json:"coerced_fields,omitempty"`

	IsCompleted     bool       `bson:"isCompleted" json:"is_completed"`
	CompletedAt     *time.Time `bson:"completedAt,omitempty" json:"completed_at,omitempty"`
	CompletionCount int        `bson:"completionCount" json:"completion_count"`

	Version   int       `bson:"version" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}
