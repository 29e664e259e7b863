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

const planCollectionName = "generated_plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new generated plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new generated plan. A second plan for the same
// (assessmentId, generation) fails with ErrDuplicate.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.GeneratedPlan) (primitive.ObjectID, error) {
	if plan.UserID == primitive.NilObjectID || plan.AssessmentID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan requires userId and assessmentId")
	}
	plan.ID = primitive.NewObjectID()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, plan); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return plan.ID, nil
}

// GetByID retrieves a single generated plan by its ID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GeneratedPlan, error) {
	var plan domain.GeneratedPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetLatest returns the most recent plan of a user for a subscription.
func (r *mongoPlanRepository) GetLatest(ctx context.Context, userID, subscriptionID primitive.ObjectID) (*domain.GeneratedPlan, error) {
	filter := bson.M{
		"userId":         userID,
		"subscriptionId": subscriptionID,
	}
	findOptions := options.FindOne().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "generation", Value: -1},
	})

	var plan domain.GeneratedPlan
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListByAssessment returns every plan generated from an assessment, oldest first.
func (r *mongoPlanRepository) ListByAssessment(ctx context.Context, assessmentID primitive.ObjectID) ([]domain.GeneratedPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "generation", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"assessmentId": assessmentID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []domain.GeneratedPlan{}
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// SetExport records the storage key of the rendered plan document.
func (r *mongoPlanRepository) SetExport(ctx context.Context, id primitive.ObjectID, key string, at time.Time) error {
	update := bson.M{"$set": bson.M{"exportKey": key, "exportedAt": at}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPlanRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// EnsurePlanIndexes creates indexes for the generated plans collection.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "assessmentId", Value: 1}, {Key: "generation", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "subscriptionId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
