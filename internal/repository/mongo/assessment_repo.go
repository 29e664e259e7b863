package mongo

import (
	"context"
	"errors"
	"time"

	"wellcoach/coaching-api/internal/domain"
	"wellcoach/coaching-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const assessmentCollectionName = "self_training_assessments"

type mongoAssessmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssessmentRepository creates an assessment repository.
func NewMongoAssessmentRepository(db *mongo.Database) repository.AssessmentRepository {
	return &mongoAssessmentRepository{
		collection: db.Collection(assessmentCollectionName),
	}
}

// Create inserts a new assessment at version 1. A second assessment for the
// same (userId, subscriptionId) fails with ErrDuplicate.
func (r *mongoAssessmentRepository) Create(ctx context.Context, a *domain.Assessment) (primitive.ObjectID, error) {
	if a.UserID == primitive.NilObjectID || a.SubscriptionID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assessment requires userId and subscriptionId")
	}
	a.ID = primitive.NewObjectID()
	a.Version = 1
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return a.ID, nil
}

func (r *mongoAssessmentRepository) GetByUserAndSubscription(ctx context.Context, userID, subscriptionID primitive.ObjectID) (*domain.Assessment, error) {
	var a domain.Assessment
	filter := bson.M{"userId": userID, "subscriptionId": subscriptionID}
	err := r.collection.FindOne(ctx, filter).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *mongoAssessmentRepository) UpdateInputs(ctx context.Context, a *domain.Assessment) error {
	if a.ID == primitive.NilObjectID {
		return errors.New("assessment ID is required for update")
	}
	a.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": a.ID, "version": a.Version}
	update := bson.M{
		"$set": bson.M{
			"age":                    a.Age,
			"gender":                 a.Gender,
			"heightCm":               a.HeightCM,
			"weightKg":               a.WeightKG,
			"primaryGoal":            a.PrimaryGoal,
			"activityLevel":          a.ActivityLevel,
			"fitnessLevel":           a.FitnessLevel,
			"workoutDaysPerWeek":     a.WorkoutDaysPerWeek,
			"workoutDurationMinutes": a.WorkoutDurationMinutes,
			"workoutLocation":        a.WorkoutLocation,
			"availableEquipment":     a.AvailableEquipment,
			"dietaryPreferences":     a.DietaryPreferences,
			"mealsPerDay":            a.MealsPerDay,
			"targetWeightKg":         a.TargetWeightKG,
			"timeline":               a.Timeline,
			"injuries":               a.Injuries,
			"metrics":                a.Metrics,
			"rawInputs":              a.RawInputs,
			"coercedFields":          a.CoercedFields,
			"isCompleted":            a.IsCompleted,
			"updatedAt":              a.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.missOrConflict(ctx, a.ID)
	}
	a.Version++
	return nil
}

func (r *mongoAssessmentRepository) MarkCompleted(ctx context.Context, id primitive.ObjectID, version int, at time.Time) (*domain.Assessment, error) {
	filter := bson.M{"_id": id, "version": version}
	update := bson.M{
		"$set": bson.M{
			"isCompleted": true,
			"completedAt": at,
			"updatedAt":   at,
		},
		"$inc": bson.M{"completionCount": 1, "version": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Assessment
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.missOrConflict(ctx, id)
		}
		return nil, err
	}
	return &updated, nil
}

func (r *mongoAssessmentRepository) CountCompleted(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"isCompleted": true})
}

// missOrConflict tells a missing document apart from a stale version.
func (r *mongoAssessmentRepository) missOrConflict(ctx context.Context, id primitive.ObjectID) error {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrVersionConflict
}

// EnsureAssessmentIndexes creates indexes for the assessments collection.
func EnsureAssessmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "subscriptionId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "isCompleted", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
