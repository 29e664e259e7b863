package planner

import (
	"math"
	"strings"

	"wellcoach/coaching-api/internal/domain"
)

// activityMultipliers scale BMR to TDEE.
var activityMultipliers = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:  1.2,
	domain.ActivityLight:      1.375,
	domain.ActivityModerate:   1.55,
	domain.ActivityActive:     1.725,
	domain.ActivityVeryActive: 1.9,
}

const defaultActivityMultiplier = 1.55

// BMI category labels.
const (
	BMIUnderweight = "underweight"
	BMINormal      = "normal"
	BMIOverweight  = "overweight"
	BMIObese       = "obese"
)

// BodyInputs are the demographic values the calculator needs.
type BodyInputs struct {
	HeightCM      float64
	WeightKG      float64
	Age           int
	Gender        string
	ActivityLevel domain.ActivityLevel
}

// ActivityMultiplier returns the TDEE multiplier for level, falling back to
// the moderate multiplier for unknown levels.
func ActivityMultiplier(level domain.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return defaultActivityMultiplier
}

// BMICategory classifies a BMI value. Lower bounds are inclusive.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// CalculateMetrics derives all body metrics from one set of inputs.
//
// BMI and body fat are rounded to one decimal, BMR and TDEE to whole
// kilocalories. The category is taken from the rounded BMI so the reported
// pair is always consistent. TDEE uses the unrounded BMR. Any gender other
// than "male" uses the female constants.
func CalculateMetrics(in BodyInputs) domain.BodyMetrics {
	heightM := in.HeightCM / 100
	bmi := in.WeightKG / (heightM * heightM)
	age := float64(in.Age)
	male := isMale(in.Gender)

	bmr := 10*in.WeightKG + 6.25*in.HeightCM - 5*age
	if male {
		bmr += 5
	} else {
		bmr -= 161
	}
	tdee := bmr * ActivityMultiplier(in.ActivityLevel)

	bodyFat := 1.20*bmi + 0.23*age
	if male {
		bodyFat -= 16.2
	} else {
		bodyFat -= 5.4
	}

	roundedBMI := round1(bmi)
	return domain.BodyMetrics{
		BMI:             roundedBMI,
		BMICategory:     BMICategory(roundedBMI),
		BMR:             math.Round(bmr),
		TDEE:            math.Round(tdee),
		BodyFatEstimate: round1(bodyFat),
	}
}

// MetricsFor computes the metrics of an assessment from its current inputs.
func MetricsFor(a *domain.Assessment) domain.BodyMetrics {
	return CalculateMetrics(BodyInputs{
		HeightCM:      a.HeightCM,
		WeightKG:      a.WeightKG,
		Age:           a.Age,
		Gender:        a.Gender,
		ActivityLevel: a.ActivityLevel,
	})
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func isMale(gender string) bool {
	g := strings.ToLower(strings.TrimSpace(gender))
	return g == "male" || g == "m"
}
