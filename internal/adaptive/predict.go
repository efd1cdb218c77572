package adaptive

import (
	"fmt"
	"math"
	"time"
)

// Confidence levels.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// CannotEstimate is the estimated date reported when velocity is zero.
const CannotEstimate = "Cannot estimate"

const predictionDateLayout = "January 02, 2006"

// Prediction is a completion forecast.
type Prediction struct {
	EstimatedDate  string `json:"estimated_date"`
	DaysRemaining  int    `json:"days_remaining"`
	WeeksRemaining int    `json:"weeks_remaining"`
	Confidence     string `json:"confidence"`
	Message        string `json:"message"`
}

// PredictCompletion projects when the remaining topics will be done at
// velocity topics per day, counting calendar days from now. A non-positive
// velocity yields a low-confidence CannotEstimate result.
func PredictCompletion(completed, total int, velocity float64, now time.Time) Prediction {
	if velocity <= 0 {
		return Prediction{
			EstimatedDate: CannotEstimate,
			Confidence:    ConfidenceLow,
			Message:       "Complete more topics to get accurate prediction",
		}
	}

	days := float64(total-completed) / velocity
	confidence := ConfidenceMedium
	if days < 100 {
		confidence = ConfidenceHigh
	}
	weeks := int(days / 7)

	return Prediction{
		EstimatedDate:  addDays(now, days).Format(predictionDateLayout),
		DaysRemaining:  int(days),
		WeeksRemaining: weeks,
		Confidence:     confidence,
		Message:        fmt.Sprintf("At your current pace, you'll complete in %d weeks", weeks),
	}
}

// addDays adds whole days with AddDate and only the fractional remainder as
// a Duration, which stays in range for any day count.
func addDays(t time.Time, days float64) time.Time {
	whole := math.Floor(days)
	return t.AddDate(0, 0, int(whole)).Add(time.Duration((days - whole) * float64(24*time.Hour)))
}
