package services

import (
	"math"
	"time"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
	"github.com/vladimiradmaev/diet-tracker/internal/utils"
)

// Envelope is an inclusive calorie range.
type Envelope struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether calories fall inside the envelope.
func (e Envelope) Contains(calories int) bool {
	return e.Min <= calories && calories <= e.Max
}

// Validate rejects negative or inverted envelopes.
func (e Envelope) Validate() error {
	if e.Min < 0 || e.Max < 0 {
		return apperrors.NewValidationError("calorie envelope must not be negative")
	}
	if e.Min > e.Max {
		return apperrors.NewValidationError("calorie envelope min must not exceed max")
	}
	return nil
}

// Activity multipliers bounding the daily need: sedentary to moderately active.
const (
	lowActivityFactor  = 1.2
	highActivityFactor = 1.55
)

var mealShares = map[domain.MealTime]float64{
	domain.MealBreakfast:  0.25,
	domain.MealSnack:      0.10,
	domain.MealLunch:      0.30,
	domain.MealLightLunch: 0.15,
	domain.MealAfternoon:  0.10,
	domain.MealDinner:     0.25,
}

// BasalMetabolicRate is the Mifflin-St Jeor estimate in kcal/day for weight
// in kg and height in cm.
func BasalMetabolicRate(gender domain.Gender, weight, height float64, age int) float64 {
	bmr := 10*weight + 6.25*height - 5*float64(age)
	if gender == domain.GenderFemale {
		return bmr - 161
	}
	return bmr + 5
}

// DailyEnvelope derives the daily calorie range of an account from its
// latest measurement. Age is the calendar-year difference at now.
func DailyEnvelope(account *domain.Account, m *domain.MeasurementRecord, now time.Time) Envelope {
	age := utils.AgeInYears(account.BirthDate, now)
	bmr := BasalMetabolicRate(account.Gender, m.Weight, m.Height, age)
	return Envelope{
		Min: int(math.Round(bmr * lowActivityFactor)),
		Max: int(math.Round(bmr * highActivityFactor)),
	}
}

// MealEnvelope scales a daily envelope to the share of one meal.
func MealEnvelope(daily Envelope, meal domain.MealTime) Envelope {
	share, ok := mealShares[meal]
	if !ok {
		return daily
	}
	return Envelope{
		Min: int(math.Round(float64(daily.Min) * share)),
		Max: int(math.Round(float64(daily.Max) * share)),
	}
}
