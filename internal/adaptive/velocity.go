// Package adaptive derives pacing signals from learner activity and
// performance: velocity, struggling topics, curriculum adaptations,
// completion forecasts and insights.
package adaptive

import (
	"math"

	"github.com/p-n-ai/pathforge/internal/progress"
)

// Velocity classes.
const (
	InsufficientData = "insufficient_data"
	Fast             = "fast"
	Moderate         = "moderate"
	Slow             = "slow"
)

// velocityWindow is the number of trailing log entries considered.
const velocityWindow = 7

// VelocityMetrics summarizes recent learning speed.
type VelocityMetrics struct {
	Velocity       string  `json:"velocity"`
	TopicsPerDay   float64 `json:"topics_per_day"`
	TopicsPerWeek  float64 `json:"topics_per_week"`
	Recommendation string  `json:"recommendation,omitempty"`
	Trend          string  `json:"trend"`
}

// AnalyzeVelocity averages topics completed over the last seven log
// entries, oldest first. The divisor is always seven.
func AnalyzeVelocity(logs []progress.ActivityLog) VelocityMetrics {
	if len(logs) == 0 {
		return VelocityMetrics{Velocity: InsufficientData, Trend: "N/A"}
	}

	recent := logs[max(0, len(logs)-velocityWindow):]
	topics := 0
	for _, l := range recent {
		topics += l.TopicsCompleted
	}
	perDay := float64(topics) / velocityWindow

	m := VelocityMetrics{
		TopicsPerDay:  roundTo(perDay, 2),
		TopicsPerWeek: roundTo(perDay*7, 1),
		Trend:         "stable",
	}
	switch {
	case perDay >= 2:
		m.Velocity, m.Recommendation = Fast, "Consider increasing difficulty"
	case perDay >= 1:
		m.Velocity, m.Recommendation = Moderate, "Good pace, maintain consistency"
	default:
		m.Velocity, m.Recommendation = Slow, "Consider reducing complexity or increasing time"
	}
	return m
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
