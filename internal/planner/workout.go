package planner

import (
	"wellcoach/coaching-api/internal/domain"
)

// Weekdays in schedule order. Training days are filled from the start.
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Session type labels.
const (
	SessionStrengthCardio = "Strength + Cardio"
	SessionLowerBody      = "Lower Body"
	SessionRest           = "Rest"
)

type templateStep struct {
	phase    domain.ExercisePhase
	category string
	index    int
}

type sessionTemplate struct {
	kind  string
	steps []templateStep
}

// Even training days use strengthCardio, odd ones lowerBody.
var (
	strengthCardio = sessionTemplate{
		kind: SessionStrengthCardio,
		steps: []templateStep{
			{domain.PhaseWarmUp, CategoryCardio, 0},
			{domain.PhaseMain, CategoryUpperBody, 0},
			{domain.PhaseMain, CategoryUpperBody, 1},
			{domain.PhaseMain, CategoryUpperBody, 2},
			{domain.PhaseMain, CategoryCardio, 1},
			{domain.PhaseCore, CategoryCore, 0},
			{domain.PhaseCoolDown, CategoryFlexibility, 0},
		},
	}
	lowerBody = sessionTemplate{
		kind: SessionLowerBody,
		steps: []templateStep{
			{domain.PhaseWarmUp, CategoryCardio, 0},
			{domain.PhaseMain, CategoryLowerBody, 0},
			{domain.PhaseMain, CategoryLowerBody, 1},
			{domain.PhaseMain, CategoryLowerBody, 2},
			{domain.PhaseCore, CategoryCore, 1},
			{domain.PhaseCoolDown, CategoryFlexibility, 0},
		},
	}
)

type goalProfile struct {
	focus    string
	cardio   int
	strength int
}

var goalProfiles = map[domain.Goal]goalProfile{
	domain.GoalWeightLoss:     {"Fat loss and cardiovascular endurance", 60, 40},
	domain.GoalMuscleGain:     {"Muscle building and progressive overload", 30, 70},
	domain.GoalMaintain:       {"Maintaining strength and conditioning", 50, 50},
	domain.GoalImproveFitness: {"General fitness and conditioning", 50, 50},
}

func profileFor(goal domain.Goal) goalProfile {
	if p, ok := goalProfiles[goal]; ok {
		return p
	}
	return goalProfiles[domain.GoalImproveFitness]
}

// WorkoutInputs are the assessment values the workout generator reads.
type WorkoutInputs struct {
	Goal            domain.Goal
	DaysPerWeek     int
	DurationMinutes int
	FitnessLevel    string
	Location        string
	Equipment       []string
}

// WorkoutPlan builds the weekly schedule. Exercise selection depends only on
// the day index; the goal sets the focus label and the cardio/strength split.
func (p *Planner) WorkoutPlan(in WorkoutInputs) domain.WorkoutPlan {
	days := ClampDays(in.DaysPerWeek)
	duration := in.DurationMinutes
	if duration <= 0 {
		duration = DefaultWorkoutDuration
	}
	profile := profileFor(in.Goal)

	schedule := make([]domain.DaySchedule, 0, len(Weekdays))
	for i, day := range Weekdays {
		if i >= days {
			schedule = append(schedule, domain.DaySchedule{
				Day:        day,
				Rest:       true,
				Type:       SessionRest,
				Activities: copyStrings(p.tables.RestActivities),
			})
			continue
		}
		tmpl := strengthCardio
		if i%2 == 1 {
			tmpl = lowerBody
		}
		schedule = append(schedule, domain.DaySchedule{
			Day:             day,
			Type:            tmpl.kind,
			DurationMinutes: duration,
			Exercises:       p.render(tmpl),
		})
	}

	return domain.WorkoutPlan{
		Goal:            in.Goal,
		Focus:           profile.focus,
		CardioPercent:   profile.cardio,
		StrengthPercent: profile.strength,
		DaysPerWeek:     days,
		SessionMinutes:  duration,
		FitnessLevel:    in.FitnessLevel,
		Location:        in.Location,
		Equipment:       copyStrings(in.Equipment),
		WeeklySchedule:  schedule,
	}
}

func (p *Planner) render(tmpl sessionTemplate) []domain.ExerciseStep {
	steps := make([]domain.ExerciseStep, 0, len(tmpl.steps))
	for _, st := range tmpl.steps {
		list := p.tables.Exercises[st.category]
		if len(list) == 0 {
			continue
		}
		ex := list[st.index%len(list)]
		steps = append(steps, domain.ExerciseStep{
			Phase:    st.phase,
			Name:     ex.Name,
			Sets:     ex.Sets,
			Reps:     ex.Reps,
			Duration: ex.Duration,
		})
	}
	return steps
}
