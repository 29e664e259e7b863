package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HabitDateLayout is the format of entries in Habit.CompletedDates.
const HabitDateLayout = "2006-01-02"

// Habit is a recurring personal habit tracked by date.
type Habit struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"-"`
	Name           string             `bson:"name" json:"name"`
	Icon           string             `bson:"icon" json:"icon"`
	Color          string             `bson:"color" json:"color"`
	Frequency      string             `bson:"frequency" json:"frequency"`
	CompletedDates []string           `bson:"completedDates" json:"completed_dates"`
	CreatedAt      time.Time          `bson:"createdAt" json:"created_at"`
}

// CompletedOn reports whether the habit was done on the given date (YYYY-MM-DD).
func (h *Habit) CompletedOn(date string) bool {
	for _, d := range h.CompletedDates {
		if d == date {
			return true
		}
	}
	return false
}

// HabitStats summarizes a user's habits.
type HabitStats struct {
	TotalHabits    int     `json:"total_habits"`
	CompletedToday int     `json:"completed_today"`
	TodayProgress  float64 `json:"today_progress"`
	BestStreak     int     `json:"best_streak"`
	WeeklyRate     float64 `json:"weekly_rate"`
}
