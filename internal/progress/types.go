// Package progress holds learner activity and progress records and the
// statistics derived from them: streaks, heatmaps, levels and achievements.
package progress

import "time"

// Topic progress statuses.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Time-of-day tags carried by activity logs.
const (
	Morning = "morning"
	Evening = "evening"
)

// ActivityLog aggregates one user's learning on one calendar day.
type ActivityLog struct {
	Date            time.Time `json:"date"`
	LearningMinutes int       `json:"learning_minutes"`
	TopicsCompleted int       `json:"topics_completed"`
	XPEarned        int       `json:"xp_earned"`
	TimeOfDay       string    `json:"time_of_day,omitempty"`
}

// Record is a user's progress on one topic of a learning path.
type Record struct {
	UserID             string     `json:"user_id"`
	PathID             string     `json:"learning_path_id"`
	ModuleID           string     `json:"module_id"`
	TopicID            string     `json:"topic_id"`
	TopicTitle         string     `json:"topic_title,omitempty"`
	Status             string     `json:"status"`
	TimeSpentMinutes   int        `json:"time_spent_minutes"`
	ExpectedMinutes    int        `json:"expected_minutes,omitempty"`
	DifficultyFeedback string     `json:"difficulty_feedback,omitempty"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// Day truncates t to midnight UTC so logs compare by calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CompletedIDs returns the topic ids of completed records.
func CompletedIDs(records []Record) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if r.Status == StatusCompleted {
			ids = append(ids, r.TopicID)
		}
	}
	return ids
}
