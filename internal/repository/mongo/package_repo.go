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

const packageCollectionName = "self_training_packages"

type mongoPackageRepository struct {
	collection *mongo.Collection
}

// NewMongoPackageRepository creates a self-training package repository.
func NewMongoPackageRepository(db *mongo.Database) repository.PackageRepository {
	return &mongoPackageRepository{
		collection: db.Collection(packageCollectionName),
	}
}

func (r *mongoPackageRepository) Create(ctx context.Context, pkg *domain.SelfTrainingPackage) (primitive.ObjectID, error) {
	if pkg.Name == "" || pkg.DurationMonths <= 0 {
		return primitive.NilObjectID, errors.New("package requires name and a positive duration")
	}
	pkg.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, pkg); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return pkg.ID, nil
}

func (r *mongoPackageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SelfTrainingPackage, error) {
	var pkg domain.SelfTrainingPackage
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pkg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

// List returns packages ordered by duration, shortest first.
func (r *mongoPackageRepository) List(ctx context.Context, activeOnly bool) ([]domain.SelfTrainingPackage, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "durationMonths", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	packages := []domain.SelfTrainingPackage{}
	if err = cursor.All(ctx, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *mongoPackageRepository) Update(ctx context.Context, pkg *domain.SelfTrainingPackage) error {
	if pkg.ID == primitive.NilObjectID {
		return errors.New("package ID is required for update")
	}
	pkg.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":               pkg.Name,
			"description":        pkg.Description,
			"durationMonths":     pkg.DurationMonths,
			"price":              pkg.Price,
			"discountPercentage": pkg.DiscountPercentage,
			"features":           pkg.Features,
			"isActive":           pkg.IsActive,
			"isPopular":          pkg.IsPopular,
			"updatedAt":          pkg.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": pkg.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPackageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPackageRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// EnsurePackageIndexes creates indexes for the packages collection.
func EnsurePackageIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "durationMonths", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
