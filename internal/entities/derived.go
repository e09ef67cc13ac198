package entities

import (
	"fmt"
	"math"
	"time"
)

// TotalValue is the full price of the plan over its duration, rounded to cents.
func (p Plan) TotalValue() float64 {
	return math.Round(float64(p.DurationMonths)*p.MonthlyPrice*100) / 100
}

// Age in whole years on the given day.
func (p Person) Age(today time.Time) int {
	today = DateOf(today)
	birth := p.BirthDate
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}

// BMI computes weight / height². Heights above 3 are taken as centimetres.
// The second result is false when the index cannot be calculated.
func BMI(weight, height *float64) (float64, bool) {
	if weight == nil || height == nil || *height <= 0 {
		return 0, false
	}
	h := *height
	if h > 3 {
		h /= 100
	}
	return *weight / (h * h), true
}

func (e Evaluation) BMI() (float64, bool) {
	return BMI(e.Weight, e.Height)
}

func (e Evaluation) BMICategory() BMICategory {
	return BMICategoryOf(e.BMI())
}

type BMICategory string

const (
	BMINotCalculated BMICategory = "Not calculated"
	BMIUnderweight   BMICategory = "Underweight"
	BMINormal        BMICategory = "Normal weight"
	BMIOverweight    BMICategory = "Overweight"
	BMIObesityI      BMICategory = "Obesity class I"
	BMIObesityII     BMICategory = "Obesity class II"
	BMIObesityIII    BMICategory = "Obesity class III"
)

func BMICategoryOf(bmi float64, ok bool) BMICategory {
	switch {
	case !ok:
		return BMINotCalculated
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	case bmi < 35:
		return BMIObesityI
	case bmi < 40:
		return BMIObesityII
	default:
		return BMIObesityIII
	}
}

// SignificantChange is the smallest weight or BMI difference reported as a change.
const SignificantChange = 0.1

// Delta describes how a measure moved between two evaluations.
type Delta struct {
	Available   bool
	Difference  float64
	Significant bool
}

func (d Delta) String() string {
	switch {
	case !d.Available:
		return "not available"
	case !d.Significant:
		return "no significant change"
	case d.Difference > 0:
		return fmt.Sprintf("increase of %.2f", d.Difference)
	default:
		return fmt.Sprintf("decrease of %.2f", -d.Difference)
	}
}

type EvaluationComparison struct {
	Previous time.Time
	Weight   Delta
	BMI      Delta
}

// CompareEvaluations reports the weight and BMI movement from previous to current.
func CompareEvaluations(current, previous Evaluation) EvaluationComparison {
	cmp := EvaluationComparison{Previous: previous.Date}
	if current.Weight != nil && previous.Weight != nil {
		cmp.Weight = newDelta(*current.Weight - *previous.Weight)
	}
	cur, okCur := current.BMI()
	prev, okPrev := previous.BMI()
	if okCur && okPrev {
		cmp.BMI = newDelta(cur - prev)
	}
	return cmp
}

func newDelta(diff float64) Delta {
	return Delta{Available: true, Difference: diff, Significant: math.Abs(diff) > SignificantChange}
}

// IsActive reports whether the assignment covers today: it has started and
// its end date, if any, has not passed.
func (sw StudentWorkout) IsActive(today time.Time) bool {
	today = DateOf(today)
	if DateOf(sw.StartDate).After(today) {
		return false
	}
	return sw.EndDate == nil || !DateOf(*sw.EndDate).Before(today)
}

// DaysToExpire returns the days left until the end date, or -1 once it has
// passed. The second result is false for open-ended assignments.
func (sw StudentWorkout) DaysToExpire(today time.Time) (int, bool) {
	if sw.EndDate == nil {
		return 0, false
	}
	days := DaysBetween(today, *sw.EndDate)
	if days < 0 {
		return -1, true
	}
	return days, true
}

// IsOverdue reports an unpaid fee whose due date is before today.
func (f MonthlyFee) IsOverdue(today time.Time) bool {
	if f.Status == FeeStatusPaid {
		return false
	}
	return DateOf(f.DueDate).Before(DateOf(today))
}
