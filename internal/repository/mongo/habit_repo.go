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

const habitCollectionName = "habits"

type mongoHabitRepository struct {
	collection *mongo.Collection
}

// NewMongoHabitRepository creates a habit repository.
func NewMongoHabitRepository(db *mongo.Database) repository.HabitRepository {
	return &mongoHabitRepository{
		collection: db.Collection(habitCollectionName),
	}
}

func (r *mongoHabitRepository) Create(ctx context.Context, habit *domain.Habit) (primitive.ObjectID, error) {
	if habit.UserID == primitive.NilObjectID || habit.Name == "" {
		return primitive.NilObjectID, errors.New("habit requires userId and name")
	}
	prepareHabit(habit, time.Now().UTC())
	if _, err := r.collection.InsertOne(ctx, habit); err != nil {
		return primitive.NilObjectID, err
	}
	return habit.ID, nil
}

// CreateMany inserts habits in one round trip, assigning IDs in place.
func (r *mongoHabitRepository) CreateMany(ctx context.Context, habits []domain.Habit) error {
	if len(habits) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(habits))
	for i := range habits {
		prepareHabit(&habits[i], now)
		docs[i] = habits[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func prepareHabit(habit *domain.Habit, now time.Time) {
	habit.ID = primitive.NewObjectID()
	habit.CreatedAt = now
	if habit.CompletedDates == nil {
		habit.CompletedDates = []string{}
	}
}

// GetByID retrieves a habit owned by userID.
func (r *mongoHabitRepository) GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.Habit, error) {
	var habit domain.Habit
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&habit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &habit, nil
}

func (r *mongoHabitRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Habit, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	habits := []domain.Habit{}
	if err = cursor.All(ctx, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

func (r *mongoHabitRepository) SetCompletedDates(ctx context.Context, id, userID primitive.ObjectID, dates []string) error {
	if dates == nil {
		dates = []string{}
	}
	update := bson.M{"$set": bson.M{"completedDates": dates}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "userId": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoHabitRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureHabitIndexes creates indexes for the habits collection.
func EnsureHabitIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
