package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeneratedPlan is the persisted output of one assessment completion.
// Plans are never patched after creation, except for the export fields.
type GeneratedPlan struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"user_id"`
	SubscriptionID primitive.ObjectID `bson:"subscriptionId" json:"subscription_id"`
	AssessmentID   primitive.ObjectID `bson:"assessmentId" json:"assessment_id"`
	// Generation is the assessment completion event that produced this plan.
	Generation int `bson:"generation" json:"generation"`

	Summary          string        `bson:"summary" json:"summary"`
	WorkoutPlan      WorkoutPlan   `bson:"workoutPlan" json:"workout_plan"`
	NutritionPlan    NutritionPlan `bson:"nutritionPlan" json:"nutrition_plan"`
	Tips             []string      `bson:"tips" json:"tips"`
	ProgressTracking string        `bson:"progressTracking" json:"progress_tracking"`

	ExportKey  string     `bson:"exportKey,omitempty" json:"-"`
	ExportedAt *time.Time `bson:"exportedAt,omitempty" json:"exported_at,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}

// IsExported reports whether a rendered document has been attached.
func (p *GeneratedPlan) IsExported() bool {
	return p.ExportKey != ""
}
