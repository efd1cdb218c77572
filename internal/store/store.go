// Package store persists learning paths, topic progress, daily activity and
// analytics events.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/p-n-ai/pathforge/internal/curriculum"
	"github.com/p-n-ai/pathforge/internal/generator"
	"github.com/p-n-ai/pathforge/internal/progress"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// LearningPath is a generated curriculum saved for a user. At most one path
// per user and target role is active.
type LearningPath struct {
	ID                   string                `json:"id"`
	UserID               string                `json:"user_id"`
	TargetRole           string                `json:"target_role"`
	Title                string                `json:"title"`
	Difficulty           string                `json:"difficulty"`
	Profile              generator.Profile     `json:"profile"`
	Curriculum           curriculum.Curriculum `json:"curriculum"`
	TotalTopics          int                   `json:"total_topics"`
	CompletedTopics      int                   `json:"completed_topics"`
	CompletionPercentage float64               `json:"completion_percentage"`
	Active               bool                  `json:"is_active"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// PathStore persists learning paths, progress records and activity logs.
type PathStore interface {
	// ReplaceActivePath deactivates the user's active path for the same
	// target role and saves path as the new active one, atomically.
	ReplaceActivePath(ctx context.Context, path LearningPath) (LearningPath, error)
	ActivePath(ctx context.Context, userID string) (LearningPath, error)
	GetPath(ctx context.Context, id string) (LearningPath, error)
	UpdatePathProgress(ctx context.Context, id string, completed int, percentage float64) error

	UpsertProgress(ctx context.Context, rec progress.Record) error
	// ListProgress returns a user's records, limited to one path when
	// pathID is not empty.
	ListProgress(ctx context.Context, userID, pathID string) ([]progress.Record, error)

	// AddActivity adds the log's counters to the user's log for that day.
	AddActivity(ctx context.Context, userID string, log progress.ActivityLog) error
	// PutActivity overwrites the user's log for that day.
	PutActivity(ctx context.Context, userID string, log progress.ActivityLog) error
	// ListActivity returns a user's logs oldest first.
	ListActivity(ctx context.Context, userID string) ([]progress.ActivityLog, error)
}
