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

const (
	defaultHabitFrequency = "daily"
	maxStreakDays         = 365
	weeklyWindowDays      = 7
)

// Habits created for a user the first time they open the tracker.
var defaultHabits = []domain.Habit{
	{Name: "Drink 8 glasses of water", Icon: "water", Color: "#2196F3"},
	{Name: "Exercise", Icon: "fitness", Color: "#4CAF50"},
	{Name: "Read for 15 minutes", Icon: "book", Color: "#9C27B0"},
	{Name: "Morning meditation", Icon: "leaf", Color: "#8BC34A"},
}

// Toggle outcomes.
const (
	HabitCompleted   = "completed"
	HabitUncompleted = "uncompleted"
)

// HabitToggleResult is the state of a habit after a toggle.
type HabitToggleResult struct {
	Action         string   `json:"action"`
	CompletedDates []string `json:"completed_dates"`
}

type HabitService interface {
	// List returns the user's habits, seeding the defaults when there are none.
	List(ctx context.Context, userID primitive.ObjectID) ([]domain.Habit, error)
	Create(ctx context.Context, userID primitive.ObjectID, name, icon, color, frequency string) (*domain.Habit, error)
	Toggle(ctx context.Context, userID, habitID primitive.ObjectID, date string) (*HabitToggleResult, error)
	Delete(ctx context.Context, userID, habitID primitive.ObjectID) error
	Stats(ctx context.Context, userID primitive.ObjectID) (*domain.HabitStats, error)
}

type habitService struct {
	habitRepo repository.HabitRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewHabitService(habitRepo repository.HabitRepository, logger *zap.Logger) HabitService {
	return &habitService{
		habitRepo: habitRepo,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *habitService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.Habit, error) {
	habits, err := s.habitRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(habits) > 0 {
		return habits, nil
	}

	seeded := make([]domain.Habit, len(defaultHabits))
	for i, h := range defaultHabits {
		h.UserID = userID
		h.Frequency = defaultHabitFrequency
		seeded[i] = h
	}
	if err = s.habitRepo.CreateMany(ctx, seeded); err != nil {
		return nil, err
	}
	s.logger.Debug("seeded default habits", zap.String("user_id", userID.Hex()))
	return seeded, nil
}

func (s *habitService) Create(ctx context.Context, userID primitive.ObjectID, name, icon, color, frequency string) (*domain.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("habit name is required")
	}
	if frequency == "" {
		frequency = defaultHabitFrequency
	}
	habit := &domain.Habit{
		UserID:    userID,
		Name:      name,
		Icon:      icon,
		Color:     color,
		Frequency: frequency,
	}
	if _, err := s.habitRepo.Create(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// Toggle flips the completion of a habit on date (YYYY-MM-DD).
func (s *habitService) Toggle(ctx context.Context, userID, habitID primitive.ObjectID, date string) (*HabitToggleResult, error) {
	if _, err := time.Parse(domain.HabitDateLayout, date); err != nil {
		return nil, validationError("date must be formatted as YYYY-MM-DD")
	}
	habit, err := s.habitRepo.GetByID(ctx, habitID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, err
	}

	result := &HabitToggleResult{Action: HabitCompleted}
	dates := make([]string, 0, len(habit.CompletedDates)+1)
	for _, d := range habit.CompletedDates {
		if d == date {
			result.Action = HabitUncompleted
			continue
		}
		dates = append(dates, d)
	}
	if result.Action == HabitCompleted {
		dates = append(dates, date)
	}

	if err = s.habitRepo.SetCompletedDates(ctx, habitID, userID, dates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, err
	}
	result.CompletedDates = dates
	return result, nil
}

func (s *habitService) Delete(ctx context.Context, userID, habitID primitive.ObjectID) error {
	if err := s.habitRepo.Delete(ctx, habitID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrHabitNotFound
		}
		return err
	}
	return nil
}

func (s *habitService) Stats(ctx context.Context, userID primitive.ObjectID) (*domain.HabitStats, error) {
	habits, err := s.habitRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return habitStats(habits, s.now()), nil
}

// habitStats summarizes habits relative to the UTC day of now.
func habitStats(habits []domain.Habit, now time.Time) *domain.HabitStats {
	stats := &domain.HabitStats{TotalHabits: len(habits)}
	if len(habits) == 0 {
		return stats
	}
	today := now.UTC()
	todayKey := today.Format(domain.HabitDateLayout)

	weekCompletions := 0
	for i := range habits {
		done := make(map[string]bool, len(habits[i].CompletedDates))
		for _, d := range habits[i].CompletedDates {
			done[d] = true
		}
		if done[todayKey] {
			stats.CompletedToday++
		}

		streak := 0
		for streak < maxStreakDays && done[today.AddDate(0, 0, -streak).Format(domain.HabitDateLayout)] {
			streak++
		}
		if streak > stats.BestStreak {
			stats.BestStreak = streak
		}

		for d := 0; d < weeklyWindowDays; d++ {
			if done[today.AddDate(0, 0, -d).Format(domain.HabitDateLayout)] {
				weekCompletions++
			}
		}
	}

	stats.TodayProgress = float64(stats.CompletedToday) / float64(stats.TotalHabits) * 100
	weekly := float64(weekCompletions) / float64(stats.TotalHabits*weeklyWindowDays) * 100
	stats.WeeklyRate = math.Round(weekly*10) / 10
	return stats
}
