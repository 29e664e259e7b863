package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wellcoach/coaching-api/internal/domain"
	"wellcoach/coaching-api/internal/planner"
	"wellcoach/coaching-api/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type selfTrainingFixture struct {
	svc     SelfTrainingService
	subs    *fakeSubscriptionRepo
	asmts   *fakeAssessmentRepo
	plans   *fakePlanRepo
	storage *fakeStorage
}

func newSelfTrainingFixture() *selfTrainingFixture {
	f := &selfTrainingFixture{
		subs:    newFakeSubscriptionRepo(),
		asmts:   newFakeAssessmentRepo(),
		plans:   &fakePlanRepo{},
		storage: newFakeStorage(),
	}
	f.svc = NewSelfTrainingService(SelfTrainingDeps{
		Subscriptions: f.subs,
		Assessments:   f.asmts,
		Plans:         f.plans,
		Packages:      newFakePackageRepo(),
		Planner:       planner.New(nil),
		FileStorage:   f.storage,
		Logger:        zap.NewNop(),
	})
	return f
}

func sampleInputs() map[string]interface{} {
	return map[string]interface{}{
		"age":                   30,
		"gender":                "male",
		"height_cm":             "180",
		"weight_kg":             80,
		"activity_level":        "moderate",
		"primary_goal":          "weight_loss",
		"workout_days_per_week": 4,
	}
}

func TestSaveAssessment_RequiresSubscription(t *testing.T) {
	f := newSelfTrainingFixture()

	_, err := f.svc.SaveAssessment(context.Background(), primitive.NewObjectID(), sampleInputs())
	assert.ErrorIs(t, err, ErrNoActiveSubscription)
	assert.ErrorIs(t, err, ErrAuthorization)
}

func TestSaveAssessment_CreatesThenUpdatesDraft(t *testing.T) {
	f := newSelfTrainingFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	f.subs.activate(userID)

	a, err := f.svc.SaveAssessment(ctx, userID, sampleInputs())
	require.NoError(t, err)
	assert.Equal(t, 24.7, a.Metrics.BMI)
	assert.Equal(t, planner.BMINormal, a.Metrics.BMICategory)
	assert.Equal(t, 1780.0, a.Metrics.BMR)
	assert.Equal(t, 2759.0, a.Metrics.TDEE)
	assert.Empty(t, a.CoercedFields)
	firstID := a.ID

	inputs := sampleInputs()
	inputs["height_cm"] = "abc"
	a, err = f.svc.SaveAssessment(ctx, userID, inputs)
	require.NoError(t, err)
	assert.Equal(t, firstID, a.ID)
	assert.Equal(t, 170.0, a.HeightCM)
	assert.Contains(t, a.CoercedFields, planner.FieldHeight)
	assert.Equal(t, 2, a.Version)
}

func TestSaveAssessment_StaleVersionConflicts(t *testing.T) {
	f := newSelfTrainingFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	f.subs.activate(userID)

	_, err := f.svc.SaveAssessment(ctx, userID, sampleInputs())
	require.NoError(t, err)

	svc := f.svc.(*selfTrainingService)
	svc.assessmentRepo = &conflictingAssessmentRepo{fakeAssessmentRepo: f.asmts}
	_, err = f.svc.SaveAssessment(ctx, userID, sampleInputs())
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.ErrorIs(t, err, ErrConflict)
}

// conflictingAssessmentRepo always loses the version race.
type conflictingAssessmentRepo struct {
	*fakeAssessmentRepo
}

func (r *conflictingAssessmentRepo) GetByUserAndSubscription(ctx context.Context, userID, subID primitive.ObjectID) (*domain.Assessment, error) {
	a, err := r.fakeAssessmentRepo.GetByUserAndSubscription(ctx, userID, subID)
	if err == nil {
		a.Version--
	}
	return a, err
}

func TestGetAssessment_Reasons(t *testing.T) {
	f := newSelfTrainingFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	state, err := f.svc.GetAssessment(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, ReasonNoSubscription, state.Reason)

	f.subs.activate(userID)
	state, err = f.svc.GetAssessment(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, ReasonNotStarted, state.Reason)

	_, err = f.svc.SaveAssessment(ctx, userID, sampleInputs())
	require.NoError(t, err)
	state, err = f.svc.GetAssessment(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, state.Assessment)
	assert.Empty(t, state.Reason)
}

func TestCompleteAssessment_WithoutAssessment(t *testing.T) {
	f := newSelfTrainingFixture()
	userID := primitive.NewObjectID()
	f.subs.activate(userID)

	_, err := f.svc.CompleteAssessment(context.Background(), userID)
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.plans.plans)
}

func TestCompleteAssessment_GeneratesPlan(t *testing.T) {
	f := newSelfTrainingFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	sub := f.subs.activate(userID)

	_, err := f.svc.SaveAssessment(ctx, userID, sampleInputs())
	require.NoError(t, err)

	plan, err := f.svc.CompleteAssessment(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, primitive.NilObjectID, plan.ID)
	assert.Equal(t, userID, plan.UserID)
	assert.Equal(t, sub.ID, plan.SubscriptionID)
	assert.Equal(t, 1, plan.Generation)
	assert.Len(t, plan.WorkoutPlan.WeeklySchedule, 7)
	assert.Equal(t, 4, plan.WorkoutPlan.TrainingDays())
	assert.Equal(t, 2259, plan.NutritionPlan.DailyCalories)

	stored, err := f.asmts.GetByUserAndSubscription(ctx, userID, sub.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)
	assert.Equal(t, 1, stored.CompletionCount)
}

func TestCompleteAssessment_SequentialCompletionsCreateDistinctPlans(t *testing.T) {
	f := newSelfTrainingFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	f.subs.activate(userID)

	_, err := f.svc.SaveAssessment(ctx, userID, sampleInputs())
	require.NoError(t, err)

	first, err := f.svc.CompleteAssessment(ctx, userID)
	require.NoError(t, err)
	second, err := f.svc.CompleteAssessment(ctx, userID)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, first.Generation)
	assert.Equal(t, 2, second.Generation)
	assert.Len(t, f.plans.plans, 2)

	state, err := f.svc.GetMyPlan(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, state.Plan)
	assert.Equal(t, second.ID, state.Plan.ID)
}

func TestCompleteAssessment_PlanStoreFailureIsSurfaced(t *testing.T) {
	f := newSelfTrainingFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	f.subs.activate(userID)
	_, err := f.svc.SaveAssessment(ctx, userID, sampleInputs())
	require.NoError(t, err)

	f.plans.createErr = errors.New("connection reset")
	_, err = f.svc.CompleteAssessment(ctx, userID)
	require.Error(t, err)
	assert.Empty(t, f.plans.plans)

	state, err := f.svc.GetMyPlan(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, ReasonNotGenerated, state.Reason)

	// Retrying regenerates under the next completion.
	f.plans.createErr = nil
	plan, err := f.svc.CompleteAssessment(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Generation)
}

func TestGetMyPlan_Reasons(t *testing.T) {
	f := newSelfTrainingFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	state, err := f.svc.GetMyPlan(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, ReasonNoSubscription, state.Reason)

	f.subs.activate(userID)
	state, err = f.svc.GetMyPlan(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, ReasonNotStarted, state.Reason)

	_, err = f.svc.SaveAssessment(ctx, userID, sampleInputs())
	require.NoError(t, err)
	state, err = f.svc.GetMyPlan(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, ReasonAssessmentIncomplete, state.Reason)
}

func TestGetMyPlan_DraftAfterCompletionKeepsPlan(t *testing.T) {
	f := newSelfTrainingFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	f.subs.activate(userID)

	_, err := f.svc.SaveAssessment(ctx, userID, sampleInputs())
	require.NoError(t, err)
	plan, err := f.svc.CompleteAssessment(ctx, userID)
	require.NoError(t, err)

	_, err = f.svc.SaveAssessment(ctx, userID, sampleInputs())
	require.NoError(t, err)

	state, err := f.svc.GetMyPlan(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, state.Plan)
	assert.Equal(t, plan.ID, state.Plan.ID)
}

func TestExportPlan(t *testing.T) {
	f := newSelfTrainingFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	f.subs.activate(userID)

	_, err := f.svc.ExportPlan(ctx, userID)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	_, err = f.svc.SaveAssessment(ctx, userID, sampleInputs())
	require.NoError(t, err)
	plan, err := f.svc.CompleteAssessment(ctx, userID)
	require.NoError(t, err)

	export, err := f.svc.ExportPlan(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, export.PlanID)
	assert.True(t, strings.HasPrefix(export.URL, "https://storage.test/plans/"+userID.Hex()+"/"))

	require.Len(t, f.storage.objects, 1)
	for key, body := range f.storage.objects {
		assert.True(t, strings.HasSuffix(key, ".html"))
		assert.Equal(t, exportContentType, f.storage.types[key])
		assert.Contains(t, string(body), "Your self-training plan")
		assert.Contains(t, string(body), "Sunday")
	}

	stored, err := f.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsExported())
	assert.NotNil(t, stored.ExportedAt)
}

func TestExportPlan_WithoutStorage(t *testing.T) {
	svc := NewSelfTrainingService(SelfTrainingDeps{
		Subscriptions: newFakeSubscriptionRepo(),
		Assessments:   newFakeAssessmentRepo(),
		Plans:         &fakePlanRepo{},
		Packages:      newFakePackageRepo(),
	})

	_, err := svc.ExportPlan(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, storage.ErrNotConfigured)
}

func TestSelfTrainingStats(t *testing.T) {
	f := newSelfTrainingFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	f.subs.activate(userID)
	f.subs.activate(primitive.NewObjectID())
	_, err := f.svc.SaveAssessment(ctx, userID, sampleInputs())
	require.NoError(t, err)
	_, err = f.svc.CompleteAssessment(ctx, userID)
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Packages)
	assert.Equal(t, int64(2), stats.ActiveSubscriptions)
	assert.Equal(t, int64(1), stats.CompletedAssessments)
	assert.Equal(t, int64(1), stats.GeneratedPlans)
}

func TestListMyPlans_ReturnsEveryGeneration(t *testing.T) {
	f := newSelfTrainingFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	f.subs.activate(userID)

	plans, err := f.svc.ListMyPlans(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, plans)

	_, err = f.svc.SaveAssessment(ctx, userID, sampleInputs())
	require.NoError(t, err)
	_, err = f.svc.CompleteAssessment(ctx, userID)
	require.NoError(t, err)
	_, err = f.svc.CompleteAssessment(ctx, userID)
	require.NoError(t, err)

	plans, err = f.svc.ListMyPlans(ctx, userID)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, 1, plans[0].Generation)
	assert.Equal(t, 2, plans[1].Generation)

	_, err = f.svc.ListMyPlans(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNoActiveSubscription)
}

func TestGetPlan_ScopedToOwner(t *testing.T) {
	f := newSelfTrainingFixture()
	ctx := context.Background()
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	f.subs.activate(owner)
	f.subs.activate(other)

	_, err := f.svc.SaveAssessment(ctx, owner, sampleInputs())
	require.NoError(t, err)
	plan, err := f.svc.CompleteAssessment(ctx, owner)
	require.NoError(t, err)

	got, err := f.svc.GetPlan(ctx, owner, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, got.ID)

	_, err = f.svc.GetPlan(ctx, other, plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	_, err = f.svc.GetPlan(ctx, owner, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrPlanNotFound)
}
