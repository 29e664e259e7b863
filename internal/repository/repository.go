package repository

import (
	"context"
	"time"

	"wellcoach/coaching-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound        = RepositoryError("not found")
	ErrDuplicate       = RepositoryError("duplicate key")
	ErrVersionConflict = RepositoryError("version conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// PackageRepository stores self-training packages.
type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.SelfTrainingPackage) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SelfTrainingPackage, error)
	List(ctx context.Context, activeOnly bool) ([]domain.SelfTrainingPackage, error)
	Update(ctx context.Context, pkg *domain.SelfTrainingPackage) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// SubscriptionRepository stores self-training subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Subscription, error)
	// GetActiveByUser returns the latest subscription of the user that is active at now.
	GetActiveByUser(ctx context.Context, userID primitive.ObjectID, now time.Time) (*domain.Subscription, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.SubscriptionStatus) error
	CountActive(ctx context.Context, now time.Time) (int64, error)
	CountByPackage(ctx context.Context, packageID primitive.ObjectID) (int64, error)
}

// AssessmentRepository stores assessments, one per (user, subscription).
// Writes carry a version precondition and fail with ErrVersionConflict when
// the stored document moved on.
type AssessmentRepository interface {
	Create(ctx context.Context, a *domain.Assessment) (primitive.ObjectID, error)
	GetByUserAndSubscription(ctx context.Context, userID, subscriptionID primitive.ObjectID) (*domain.Assessment, error)
	// UpdateInputs replaces inputs and derived metrics if the stored version equals a.Version.
	// On success a.Version is incremented.
	UpdateInputs(ctx context.Context, a *domain.Assessment) error
	// MarkCompleted flags the assessment complete and bumps its completion count,
	// returning the updated document.
	MarkCompleted(ctx context.Context, id primitive.ObjectID, version int, at time.Time) (*domain.Assessment, error)
	CountCompleted(ctx context.Context) (int64, error)
}

// PlanRepository stores generated plans. (AssessmentID, Generation) is unique.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.GeneratedPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GeneratedPlan, error)
	GetLatest(ctx context.Context, userID, subscriptionID primitive.ObjectID) (*domain.GeneratedPlan, error)
	ListByAssessment(ctx context.Context, assessmentID primitive.ObjectID) ([]domain.GeneratedPlan, error)
	SetExport(ctx context.Context, id primitive.ObjectID, key string, at time.Time) error
	Count(ctx context.Context) (int64, error)
}

// HabitRepository stores habit trackers.
type HabitRepository interface {
	Create(ctx context.Context, habit *domain.Habit) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, habits []domain.Habit) error
	GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.Habit, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Habit, error)
	SetCompletedDates(ctx context.Context, id, userID primitive.ObjectID, dates []string) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}
