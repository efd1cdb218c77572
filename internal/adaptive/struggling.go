package adaptive

import "github.com/p-n-ai/pathforge/internal/progress"

const (
	defaultExpectedMinutes = 120
	struggleTimeRatio      = 1.5
	feedbackTooHard        = "too_hard"
)

// StrugglingTopic flags a topic that needs review.
type StrugglingTopic struct {
	TopicID      string  `json:"topic_id"`
	TopicTitle   string  `json:"topic_title"`
	TimeRatio    float64 `json:"time_ratio,omitempty"`
	UserFeedback string  `json:"user_feedback,omitempty"`
	Suggestion   string  `json:"suggestion"`
}

// DetectStruggling flags topics whose time spent exceeds 1.5 times the
// expected minutes (120 when unset) and topics marked too hard. A too-hard
// mark is skipped when the topic is already flagged in this call.
func DetectStruggling(records []progress.Record) []StrugglingTopic {
	flagged := []StrugglingTopic{}
	seen := make(map[string]bool)

	for _, r := range records {
		title := r.TopicTitle
		if title == "" {
			title = "Unknown"
		}
		expected := r.ExpectedMinutes
		if expected <= 0 {
			expected = defaultExpectedMinutes
		}

		if float64(r.TimeSpentMinutes) > float64(expected)*struggleTimeRatio {
			flagged = append(flagged, StrugglingTopic{
				TopicID:    r.TopicID,
				TopicTitle: title,
				TimeRatio:  float64(r.TimeSpentMinutes) / float64(expected),
				Suggestion: "Review prerequisites or seek additional resources",
			})
			seen[r.TopicID] = true
		}

		if r.DifficultyFeedback == feedbackTooHard && !seen[r.TopicID] {
			flagged = append(flagged, StrugglingTopic{
				TopicID:      r.TopicID,
				TopicTitle:   title,
				UserFeedback: "marked_as_difficult",
				Suggestion:   "Consider easier alternative resources",
			})
			seen[r.TopicID] = true
		}
	}
	return flagged
}
