package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"wellcoach/coaching-api/internal/domain"
	"wellcoach/coaching-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type fakePackageRepo struct {
	mu       sync.Mutex
	packages map[primitive.ObjectID]domain.SelfTrainingPackage
}

func newFakePackageRepo() *fakePackageRepo {
	return &fakePackageRepo{packages: map[primitive.ObjectID]domain.SelfTrainingPackage{}}
}

func (r *fakePackageRepo) Create(_ context.Context, pkg *domain.SelfTrainingPackage) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg.ID = primitive.NewObjectID()
	r.packages[pkg.ID] = *pkg
	return pkg.ID, nil
}

func (r *fakePackageRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.SelfTrainingPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.packages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakePackageRepo) List(_ context.Context, activeOnly bool) ([]domain.SelfTrainingPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.SelfTrainingPackage{}
	for _, p := range r.packages {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DurationMonths < out[j].DurationMonths })
	return out, nil
}

func (r *fakePackageRepo) Update(_ context.Context, pkg *domain.SelfTrainingPackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.packages[pkg.ID]; !ok {
		return repository.ErrNotFound
	}
	r.packages[pkg.ID] = *pkg
	return nil
}

func (r *fakePackageRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.packages[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.packages, id)
	return nil
}

func (r *fakePackageRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.packages)), nil
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[primitive.ObjectID]domain.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: map[primitive.ObjectID]domain.Subscription{}}
}

// activate stores an active subscription for userID running a month past now.
func (r *fakeSubscriptionRepo) activate(userID primitive.ObjectID) domain.Subscription {
	sub := domain.Subscription{
		UserID:    userID,
		PackageID: primitive.NewObjectID(),
		Status:    domain.SubscriptionActive,
		StartDate: time.Now().UTC().Add(-time.Hour),
		EndDate:   time.Now().UTC().AddDate(0, 1, 0),
	}
	_, _ = r.Create(context.Background(), &sub)
	return sub
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, sub *domain.Subscription) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub.ID = primitive.NewObjectID()
	r.subs[sub.ID] = *sub
	return sub.ID, nil
}

func (r *fakeSubscriptionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSubscriptionRepo) GetActiveByUser(_ context.Context, userID primitive.ObjectID, now time.Time) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.UserID == userID && s.IsActiveAt(now) {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSubscriptionRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.SubscriptionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = status
	r.subs[id] = s
	return nil
}

func (r *fakeSubscriptionRepo) CountActive(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.subs {
		if s.IsActiveAt(now) {
			n++
		}
	}
	return n, nil
}

func (r *fakeSubscriptionRepo) CountByPackage(_ context.Context, packageID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.subs {
		if s.PackageID == packageID {
			n++
		}
	}
	return n, nil
}

// fakeAssessmentRepo mirrors the version preconditions of the mongo repository.
type fakeAssessmentRepo struct {
	mu          sync.Mutex
	assessments map[primitive.ObjectID]domain.Assessment
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{assessments: map[primitive.ObjectID]domain.Assessment{}}
}

func (r *fakeAssessmentRepo) Create(_ context.Context, a *domain.Assessment) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.assessments {
		if existing.UserID == a.UserID && existing.SubscriptionID == a.SubscriptionID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	a.ID = primitive.NewObjectID()
	a.Version = 1
	r.assessments[a.ID] = *a
	return a.ID, nil
}

func (r *fakeAssessmentRepo) GetByUserAndSubscription(_ context.Context, userID, subscriptionID primitive.ObjectID) (*domain.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assessments {
		if a.UserID == userID && a.SubscriptionID == subscriptionID {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAssessmentRepo) UpdateInputs(_ context.Context, a *domain.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.assessments[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != a.Version {
		return repository.ErrVersionConflict
	}
	a.Version++
	updated := *a
	updated.CompletionCount = stored.CompletionCount
	updated.CompletedAt = stored.CompletedAt
	r.assessments[a.ID] = updated
	return nil
}

func (r *fakeAssessmentRepo) MarkCompleted(_ context.Context, id primitive.ObjectID, version int, at time.Time) (*domain.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.assessments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if stored.Version != version {
		return nil, repository.ErrVersionConflict
	}
	stored.IsCompleted = true
	stored.CompletedAt = &at
	stored.CompletionCount++
	stored.Version++
	r.assessments[id] = stored
	return &stored, nil
}

func (r *fakeAssessmentRepo) CountCompleted(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.assessments {
		if a.IsCompleted {
			n++
		}
	}
	return n, nil
}

type fakePlanRepo struct {
	mu        sync.Mutex
	plans     []domain.GeneratedPlan
	createErr error
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.GeneratedPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return primitive.NilObjectID, r.createErr
	}
	for _, p := range r.plans {
		if p.AssessmentID == plan.AssessmentID && p.Generation == plan.Generation {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	plan.ID = primitive.NewObjectID()
	r.plans = append(r.plans, *plan)
	return plan.ID, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.GeneratedPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePlanRepo) GetLatest(_ context.Context, userID, subscriptionID primitive.ObjectID) (*domain.GeneratedPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.GeneratedPlan
	for i := range r.plans {
		p := r.plans[i]
		if p.UserID != userID || p.SubscriptionID != subscriptionID {
			continue
		}
		if latest == nil || p.Generation > latest.Generation {
			latest = &p
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (r *fakePlanRepo) ListByAssessment(_ context.Context, assessmentID primitive.ObjectID) ([]domain.GeneratedPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.GeneratedPlan{}
	for _, p := range r.plans {
		if p.AssessmentID == assessmentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) SetExport(_ context.Context, id primitive.ObjectID, key string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.plans {
		if r.plans[i].ID == id {
			r.plans[i].ExportKey = key
			r.plans[i].ExportedAt = &at
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakePlanRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.plans)), nil
}

type fakeHabitRepo struct {
	mu     sync.Mutex
	habits []domain.Habit
}

func (r *fakeHabitRepo) Create(_ context.Context, habit *domain.Habit) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	habit.ID = primitive.NewObjectID()
	if habit.CompletedDates == nil {
		habit.CompletedDates = []string{}
	}
	r.habits = append(r.habits, *habit)
	return habit.ID, nil
}

func (r *fakeHabitRepo) CreateMany(ctx context.Context, habits []domain.Habit) error {
	for i := range habits {
		if _, err := r.Create(ctx, &habits[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeHabitRepo) GetByID(_ context.Context, id, userID primitive.ObjectID) (*domain.Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.habits {
		if h.ID == id && h.UserID == userID {
			return &h, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeHabitRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Habit{}
	for _, h := range r.habits {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHabitRepo) SetCompletedDates(_ context.Context, id, userID primitive.ObjectID, dates []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.habits {
		if r.habits[i].ID == id && r.habits[i].UserID == userID {
			r.habits[i].CompletedDates = dates
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeHabitRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.habits {
		if r.habits[i].ID == id && r.habits[i].UserID == userID {
			r.habits = append(r.habits[:i], r.habits[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStorage) PutObject(_ context.Context, key, contentType string, body io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = buf.Bytes()
	s.types[key] = contentType
	return nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/" + key + "?signature=x", nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
