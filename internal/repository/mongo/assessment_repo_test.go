package mongo

import (
	"context"
	"testing"
	"time"

	"wellcoach/coaching-api/internal/domain"
	"wellcoach/coaching-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func countResponse(ns string, n int32) bson.D {
	if n == 0 {
		return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch)
	}
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: n}})
}

func TestAssessmentRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	userID := primitive.NewObjectID()
	subID := primitive.NewObjectID()

	mt.Run("create starts at version 1", func(mt *mtest.T) {
		repo := NewMongoAssessmentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		a := &domain.Assessment{UserID: userID, SubscriptionID: subID, Age: 30}
		id, err := repo.Create(ctx, a)
		require.NoError(mt, err)
		assert.Equal(mt, a.ID, id)
		assert.Equal(mt, 1, a.Version)
		assert.False(mt, a.CreatedAt.IsZero())
	})

	mt.Run("create duplicate per subscription", func(mt *mtest.T) {
		repo := NewMongoAssessmentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		_, err := repo.Create(ctx, &domain.Assessment{UserID: userID, SubscriptionID: subID})
		assert.ErrorIs(mt, err, repository.ErrDuplicate)
	})

	mt.Run("create requires owner", func(mt *mtest.T) {
		repo := NewMongoAssessmentRepository(mt.DB)
		_, err := repo.Create(ctx, &domain.Assessment{})
		assert.Error(mt, err)
	})

	mt.Run("get by user and subscription", func(mt *mtest.T) {
		repo := NewMongoAssessmentRepository(mt.DB)
		id := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + assessmentCollectionName
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "userId", Value: userID},
			{Key: "subscriptionId", Value: subID},
			{Key: "age", Value: 41},
			{Key: "primaryGoal", Value: "muscle_gain"},
			{Key: "version", Value: 3},
		}))

		a, err := repo.GetByUserAndSubscription(ctx, userID, subID)
		require.NoError(mt, err)
		assert.Equal(mt, id, a.ID)
		assert.Equal(mt, 41, a.Age)
		assert.Equal(mt, domain.GoalMuscleGain, a.PrimaryGoal)
		assert.Equal(mt, 3, a.Version)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := NewMongoAssessmentRepository(mt.DB)
		ns := mt.DB.Name() + "." + assessmentCollectionName
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByUserAndSubscription(ctx, userID, subID)
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("update inputs bumps version", func(mt *mtest.T) {
		repo := NewMongoAssessmentRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}})

		a := &domain.Assessment{ID: primitive.NewObjectID(), Version: 2}
		require.NoError(mt, repo.UpdateInputs(ctx, a))
		assert.Equal(mt, 3, a.Version)
	})

	mt.Run("update inputs stale version", func(mt *mtest.T) {
		repo := NewMongoAssessmentRepository(mt.DB)
		ns := mt.DB.Name() + "." + assessmentCollectionName
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}},
			countResponse(ns, 1),
		)

		a := &domain.Assessment{ID: primitive.NewObjectID(), Version: 2}
		err := repo.UpdateInputs(ctx, a)
		assert.ErrorIs(mt, err, repository.ErrVersionConflict)
		assert.Equal(mt, 2, a.Version)
	})

	mt.Run("update inputs missing document", func(mt *mtest.T) {
		repo := NewMongoAssessmentRepository(mt.DB)
		ns := mt.DB.Name() + "." + assessmentCollectionName
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}},
			countResponse(ns, 0),
		)

		err := repo.UpdateInputs(ctx, &domain.Assessment{ID: primitive.NewObjectID(), Version: 1})
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("mark completed returns updated document", func(mt *mtest.T) {
		repo := NewMongoAssessmentRepository(mt.DB)
		id := primitive.NewObjectID()
		at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: id},
				{Key: "isCompleted", Value: true},
				{Key: "completedAt", Value: at},
				{Key: "completionCount", Value: 2},
				{Key: "version", Value: 5},
			}},
		})

		a, err := repo.MarkCompleted(ctx, id, 4, at)
		require.NoError(mt, err)
		assert.True(mt, a.IsCompleted)
		assert.Equal(mt, 2, a.CompletionCount)
		assert.Equal(mt, 5, a.Version)
		require.NotNil(mt, a.CompletedAt)
		assert.True(mt, a.CompletedAt.Equal(at))
	})

	mt.Run("mark completed stale version", func(mt *mtest.T) {
		repo := NewMongoAssessmentRepository(mt.DB)
		ns := mt.DB.Name() + "." + assessmentCollectionName
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			countResponse(ns, 1),
		)

		_, err := repo.MarkCompleted(ctx, primitive.NewObjectID(), 1, time.Now())
		assert.ErrorIs(mt, err, repository.ErrVersionConflict)
	})
}
