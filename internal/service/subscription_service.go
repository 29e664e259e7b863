package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"wellcoach/coaching-api/internal/domain"
	"wellcoach/coaching-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PackageInput carries the editable fields of a self-training package.
type PackageInput struct {
	Name               string
	Description        string
	DurationMonths     int
	Price              float64
	DiscountPercentage float64
	Features           []string
	IsActive           bool
	IsPopular          bool
}

func (in PackageInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return validationError("package name is required")
	case in.DurationMonths <= 0:
		return validationError("duration_months must be positive")
	case in.Price < 0 || math.IsNaN(in.Price):
		return validationError("price must not be negative")
	case in.DiscountPercentage < 0 || in.DiscountPercentage > 100:
		return validationError("discount_percentage must be between 0 and 100")
	}
	return nil
}

func (in PackageInput) apply(pkg *domain.SelfTrainingPackage) {
	pkg.Name = strings.TrimSpace(in.Name)
	pkg.Description = in.Description
	pkg.DurationMonths = in.DurationMonths
	pkg.Price = in.Price
	pkg.DiscountPercentage = in.DiscountPercentage
	pkg.Features = in.Features
	pkg.IsActive = in.IsActive
	pkg.IsPopular = in.IsPopular
}

// SubscriptionService manages self-training packages and the subscriptions
// that gate access to the self-training features.
type SubscriptionService interface {
	ListPackages(ctx context.Context, activeOnly bool) ([]domain.SelfTrainingPackage, error)
	GetPackage(ctx context.Context, id primitive.ObjectID) (*domain.SelfTrainingPackage, error)
	CreatePackage(ctx context.Context, in PackageInput) (*domain.SelfTrainingPackage, error)
	UpdatePackage(ctx context.Context, id primitive.ObjectID, in PackageInput) (*domain.SelfTrainingPackage, error)
	DeletePackage(ctx context.Context, id primitive.ObjectID) error

	// ActiveSubscription returns ErrNoActiveSubscription when the user has none.
	ActiveSubscription(ctx context.Context, userID primitive.ObjectID) (*domain.Subscription, error)
	Grant(ctx context.Context, adminID, userID, packageID primitive.ObjectID, amountPaid float64) (*domain.Subscription, error)
	Cancel(ctx context.Context, subscriptionID primitive.ObjectID) (*domain.Subscription, error)
}

type subscriptionService struct {
	packageRepo      repository.PackageRepository
	subscriptionRepo repository.SubscriptionRepository
	userRepo         repository.UserRepository
	logger           *zap.Logger
	now              func() time.Time
}

func NewSubscriptionService(
	packageRepo repository.PackageRepository,
	subscriptionRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) SubscriptionService {
	return &subscriptionService{
		packageRepo:      packageRepo,
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *subscriptionService) ListPackages(ctx context.Context, activeOnly bool) ([]domain.SelfTrainingPackage, error) {
	return s.packageRepo.List(ctx, activeOnly)
}

func (s *subscriptionService) GetPackage(ctx context.Context, id primitive.ObjectID) (*domain.SelfTrainingPackage, error) {
	pkg, err := s.packageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return pkg, nil
}

func (s *subscriptionService) CreatePackage(ctx context.Context, in PackageInput) (*domain.SelfTrainingPackage, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	pkg := &domain.SelfTrainingPackage{}
	in.apply(pkg)
	if _, err := s.packageRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}
	s.logger.Info("package created", zap.String("package_id", pkg.ID.Hex()), zap.String("name", pkg.Name))
	return pkg, nil
}

func (s *subscriptionService) UpdatePackage(ctx context.Context, id primitive.ObjectID, in PackageInput) (*domain.SelfTrainingPackage, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	pkg, err := s.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(pkg)
	if err = s.packageRepo.Update(ctx, pkg); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return pkg, nil
}

func (s *subscriptionService) DeletePackage(ctx context.Context, id primitive.ObjectID) error {
	if err := s.packageRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPackageNotFound
		}
		return err
	}
	s.logger.Info("package deleted", zap.String("package_id", id.Hex()))
	return nil
}

func (s *subscriptionService) ActiveSubscription(ctx context.Context, userID primitive.ObjectID) (*domain.Subscription, error) {
	sub, err := s.subscriptionRepo.GetActiveByUser(ctx, userID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	return sub, nil
}

// Grant creates an active subscription for userID starting now and lasting
// the package duration.
func (s *subscriptionService) Grant(ctx context.Context, adminID, userID, packageID primitive.ObjectID, amountPaid float64) (*domain.Subscription, error) {
	if amountPaid < 0 {
		return nil, validationError("amount_paid must not be negative")
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	pkg, err := s.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, validationError("package is not active")
	}

	start := s.now()
	sub := &domain.Subscription{
		UserID:      userID,
		PackageID:   pkg.ID,
		PackageName: pkg.Name,
		Status:      domain.SubscriptionActive,
		StartDate:   start,
		EndDate:     start.AddDate(0, pkg.DurationMonths, 0),
		AmountPaid:  amountPaid,
		GrantedBy:   &adminID,
	}
	if _, err = s.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	s.logger.Info("subscription granted",
		zap.String("subscription_id", sub.ID.Hex()),
		zap.String("user_id", userID.Hex()),
		zap.String("package_id", pkg.ID.Hex()),
		zap.String("granted_by", adminID.Hex()),
	)
	return sub, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, subscriptionID primitive.ObjectID) (*domain.Subscription, error) {
	sub, err := s.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	if sub.Status == domain.SubscriptionCancelled {
		return sub, nil
	}
	if err = s.subscriptionRepo.UpdateStatus(ctx, sub.ID, domain.SubscriptionCancelled); err != nil {
		return nil, err
	}
	sub.Status = domain.SubscriptionCancelled
	s.logger.Info("subscription cancelled", zap.String("subscription_id", sub.ID.Hex()))
	return sub, nil
}
