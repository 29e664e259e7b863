package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"wellcoach/coaching-api/internal/domain"
	"wellcoach/coaching-api/internal/planner"
	"wellcoach/coaching-api/internal/repository"
	"wellcoach/coaching-api/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Reasons reported when an assessment or plan is not available yet.
const (
	ReasonNoSubscription       = "no_subscription"
	ReasonNotStarted           = "not_started"
	ReasonAssessmentIncomplete = "assessment_incomplete"
	ReasonNotGenerated         = "not_generated"
)

const exportContentType = "text/html; charset=utf-8"

// AssessmentState is either an assessment or the reason there is none.
type AssessmentState struct {
	Assessment *domain.Assessment
	Reason     string
}

// PlanState is either the latest plan or the reason there is none.
type PlanState struct {
	Plan   *domain.GeneratedPlan
	Reason string
}

// PlanExport points at a rendered plan document in object storage.
type PlanExport struct {
	PlanID    primitive.ObjectID `json:"plan_id"`
	URL       string             `json:"download_url"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// SelfTrainingStats is the admin overview of self-training usage.
type SelfTrainingStats struct {
	Packages             int64 `json:"total_packages"`
	ActiveSubscriptions  int64 `json:"active_subscriptions"`
	CompletedAssessments int64 `json:"completed_assessments"`
	GeneratedPlans       int64 `json:"generated_plans"`
}

// SelfTrainingService drives a subscriber from assessment to generated plan.
type SelfTrainingService interface {
	SaveAssessment(ctx context.Context, userID primitive.ObjectID, raw map[string]interface{}) (*domain.Assessment, error)
	GetAssessment(ctx context.Context, userID primitive.ObjectID) (*AssessmentState, error)
	CompleteAssessment(ctx context.Context, userID primitive.ObjectID) (*domain.GeneratedPlan, error)
	GetMyPlan(ctx context.Context, userID primitive.ObjectID) (*PlanState, error)
	// ListMyPlans returns every plan generated for the current assessment,
	// oldest generation first.
	ListMyPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.GeneratedPlan, error)
	GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.GeneratedPlan, error)
	ExportPlan(ctx context.Context, userID primitive.ObjectID) (*PlanExport, error)
	Stats(ctx context.Context) (*SelfTrainingStats, error)
}

type selfTrainingService struct {
	subscriptionRepo repository.SubscriptionRepository
	assessmentRepo   repository.AssessmentRepository
	planRepo         repository.PlanRepository
	packageRepo      repository.PackageRepository
	planner          *planner.Planner
	fileStorage      storage.FileStorage
	urlExpiry        time.Duration
	logger           *zap.Logger
	now              func() time.Time
}

// SelfTrainingDeps groups the collaborators of the self-training service.
// FileStorage may be nil, in which case exports are unavailable.
type SelfTrainingDeps struct {
	Subscriptions repository.SubscriptionRepository
	Assessments   repository.AssessmentRepository
	Plans         repository.PlanRepository
	Packages      repository.PackageRepository
	Planner       *planner.Planner
	FileStorage   storage.FileStorage
	URLExpiry     time.Duration
	Logger        *zap.Logger
}

func NewSelfTrainingService(deps SelfTrainingDeps) SelfTrainingService {
	if deps.Planner == nil {
		deps.Planner = planner.New(nil)
	}
	if deps.URLExpiry <= 0 {
		deps.URLExpiry = storage.DefaultPresignedURLExpiry
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &selfTrainingService{
		subscriptionRepo: deps.Subscriptions,
		assessmentRepo:   deps.Assessments,
		planRepo:         deps.Plans,
		packageRepo:      deps.Packages,
		planner:          deps.Planner,
		fileStorage:      deps.FileStorage,
		urlExpiry:        deps.URLExpiry,
		logger:           deps.Logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *selfTrainingService) activeSubscription(ctx context.Context, userID primitive.ObjectID) (*domain.Subscription, error) {
	sub, err := s.subscriptionRepo.GetActiveByUser(ctx, userID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	return sub, nil
}

// SaveAssessment creates or replaces the draft assessment of the user's
// active subscription. Saving a completed assessment returns it to draft.
func (s *selfTrainingService) SaveAssessment(ctx context.Context, userID primitive.ObjectID, raw map[string]interface{}) (*domain.Assessment, error) {
	if raw == nil {
		return nil, validationError("assessment payload must be a JSON object")
	}
	sub, err := s.activeSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	a, err := s.assessmentRepo.GetByUserAndSubscription(ctx, userID, sub.ID)
	isNew := errors.Is(err, repository.ErrNotFound)
	if err != nil && !isNew {
		return nil, err
	}
	if isNew {
		a = &domain.Assessment{UserID: userID, SubscriptionID: sub.ID}
	}

	a.CoercedFields = planner.ApplyInputs(a, raw)
	a.Metrics = planner.MetricsFor(a)
	a.RawInputs = raw
	a.IsCompleted = false

	if len(a.CoercedFields) > 0 {
		s.logger.Warn("assessment inputs fell back to defaults",
			zap.String("user_id", userID.Hex()),
			zap.Strings("fields", a.CoercedFields),
		)
	}

	if isNew {
		if _, err = s.assessmentRepo.Create(ctx, a); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, ErrConcurrentUpdate
			}
			return nil, err
		}
		return a, nil
	}

	if err = s.assessmentRepo.UpdateInputs(ctx, a); err != nil {
		switch {
		case errors.Is(err, repository.ErrVersionConflict):
			return nil, ErrConcurrentUpdate
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *selfTrainingService) GetAssessment(ctx context.Context, userID primitive.ObjectID) (*AssessmentState, error) {
	sub, err := s.activeSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscription) {
			return &AssessmentState{Reason: ReasonNoSubscription}, nil
		}
		return nil, err
	}
	a, err := s.assessmentRepo.GetByUserAndSubscription(ctx, userID, sub.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &AssessmentState{Reason: ReasonNotStarted}, nil
		}
		return nil, err
	}
	return &AssessmentState{Assessment: a}, nil
}

// CompleteAssessment marks the assessment complete and persists one plan for
// that completion. A failed plan insert leaves the assessment complete; the
// next call generates a fresh plan under a new generation.
func (s *selfTrainingService) CompleteAssessment(ctx context.Context, userID primitive.ObjectID) (*domain.GeneratedPlan, error) {
	sub, err := s.activeSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	a, err := s.assessmentRepo.GetByUserAndSubscription(ctx, userID, sub.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}

	now := s.now()
	completed, err := s.assessmentRepo.MarkCompleted(ctx, a.ID, a.Version, now)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrVersionConflict):
			return nil, ErrConcurrentUpdate
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}

	plan := s.planner.Generate(completed)
	plan.UserID = userID
	plan.SubscriptionID = sub.ID
	plan.AssessmentID = completed.ID
	plan.Generation = completed.CompletionCount
	plan.CreatedAt = now

	if _, err = s.planRepo.Create(ctx, &plan); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPlanAlreadyGenerated
		}
		s.logger.Error("failed to store generated plan",
			zap.String("assessment_id", completed.ID.Hex()),
			zap.Int("generation", plan.Generation),
			zap.Error(err),
		)
		return nil, fmt.Errorf("store generated plan: %w", err)
	}

	s.logger.Info("plan generated",
		zap.String("user_id", userID.Hex()),
		zap.String("plan_id", plan.ID.Hex()),
		zap.Int("generation", plan.Generation),
	)
	return &plan, nil
}

func (s *selfTrainingService) GetMyPlan(ctx context.Context, userID primitive.ObjectID) (*PlanState, error) {
	sub, err := s.activeSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscription) {
			return &PlanState{Reason: ReasonNoSubscription}, nil
		}
		return nil, err
	}
	a, err := s.assessmentRepo.GetByUserAndSubscription(ctx, userID, sub.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &PlanState{Reason: ReasonNotStarted}, nil
		}
		return nil, err
	}
	// A draft edited after an earlier completion keeps serving the last plan.
	if !a.IsCompleted && a.CompletionCount == 0 {
		return &PlanState{Reason: ReasonAssessmentIncomplete}, nil
	}

	plan, err := s.planRepo.GetLatest(ctx, userID, sub.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &PlanState{Reason: ReasonNotGenerated}, nil
		}
		return nil, err
	}
	return &PlanState{Plan: plan}, nil
}

func (s *selfTrainingService) ListMyPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.GeneratedPlan, error) {
	sub, err := s.activeSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	a, err := s.assessmentRepo.GetByUserAndSubscription(ctx, userID, sub.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []domain.GeneratedPlan{}, nil
		}
		return nil, err
	}
	return s.planRepo.ListByAssessment(ctx, a.ID)
}

// GetPlan returns one of the user's plans. Plans of other users are
// reported as not found.
func (s *selfTrainingService) GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.GeneratedPlan, error) {
	if _, err := s.activeSubscription(ctx, userID); err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// ExportPlan renders the latest plan to HTML, stores it and returns a
// presigned download link.
func (s *selfTrainingService) ExportPlan(ctx context.Context, userID primitive.ObjectID) (*PlanExport, error) {
	if s.fileStorage == nil {
		return nil, storage.ErrNotConfigured
	}
	sub, err := s.activeSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetLatest(ctx, userID, sub.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	var doc bytes.Buffer
	if err = renderPlanHTML(&doc, plan); err != nil {
		return nil, fmt.Errorf("render plan: %w", err)
	}

	key := fmt.Sprintf("plans/%s/%s.html", userID.Hex(), uuid.NewString())
	if err = s.fileStorage.PutObject(ctx, key, exportContentType, &doc); err != nil {
		return nil, fmt.Errorf("upload plan export: %w", err)
	}

	now := s.now()
	if err = s.planRepo.SetExport(ctx, plan.ID, key, now); err != nil {
		// Keep storage free of documents no plan points at.
		if delErr := s.fileStorage.DeleteObject(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned export", zap.String("key", key), zap.Error(delErr))
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign plan export: %w", err)
	}
	s.logger.Info("plan exported", zap.String("plan_id", plan.ID.Hex()), zap.String("key", key))
	return &PlanExport{PlanID: plan.ID, URL: url, ExpiresAt: now.Add(s.urlExpiry)}, nil
}

func (s *selfTrainingService) Stats(ctx context.Context) (*SelfTrainingStats, error) {
	var stats SelfTrainingStats
	var err error
	if stats.Packages, err = s.packageRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveSubscriptions, err = s.subscriptionRepo.CountActive(ctx, s.now()); err != nil {
		return nil, err
	}
	if stats.CompletedAssessments, err = s.assessmentRepo.CountCompleted(ctx); err != nil {
		return nil, err
	}
	if stats.GeneratedPlans, err = s.planRepo.Count(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}
