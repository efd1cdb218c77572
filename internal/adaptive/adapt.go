package adaptive

import "github.com/p-n-ai/pathforge/internal/curriculum"

// Pace adjustment types.
const (
	Accelerate = "accelerate"
	SlowDown   = "slow_down"
)

// ReviewTopic is the topic suggested when performance is low.
const ReviewTopic = "Review Session: Fundamentals"

// Performance is a scored attempt, with Score in [0,1].
type Performance struct {
	TopicID string  `json:"topic_id,omitempty"`
	Score   float64 `json:"score" validate:"gte=0,lte=1"`
}

// Adjustment is a difficulty or pace change.
type Adjustment struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// TopicChange is a topic to add to or remove from the path.
type TopicChange struct {
	Topic  string `json:"topic"`
	Reason string `json:"reason"`
}

// AdaptationSet lists the proposed changes to a learning path.
type AdaptationSet struct {
	DifficultyChanges []Adjustment  `json:"difficulty_changes"`
	TopicAdditions    []TopicChange `json:"topic_additions"`
	TopicRemovals     []TopicChange `json:"topic_removals"`
	PaceAdjustments   []Adjustment  `json:"pace_adjustments"`
}

// Adapt proposes changes from the average score: above 0.9 accelerates,
// below 0.6 slows down and adds a review session, anything between is left
// alone. No records averages to 0. The path is not modified.
func Adapt(performance []Performance, _ *curriculum.Curriculum) AdaptationSet {
	set := AdaptationSet{
		DifficultyChanges: []Adjustment{},
		TopicAdditions:    []TopicChange{},
		TopicRemovals:     []TopicChange{},
		PaceAdjustments:   []Adjustment{},
	}

	avg := 0.0
	if len(performance) > 0 {
		for _, p := range performance {
			avg += p.Score
		}
		avg /= float64(len(performance))
	}

	switch {
	case avg > 0.9:
		set.PaceAdjustments = append(set.PaceAdjustments, Adjustment{
			Type:    Accelerate,
			Message: "You're doing great! Consider skipping some basic topics.",
		})
	case avg < 0.6:
		set.PaceAdjustments = append(set.PaceAdjustments, Adjustment{
			Type:    SlowDown,
			Message: "Let's reinforce fundamentals before moving forward.",
		})
		set.TopicAdditions = append(set.TopicAdditions, TopicChange{
			Topic:  ReviewTopic,
			Reason: "Strengthen core concepts",
		})
	}
	return set
}
