package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/p-n-ai/pathforge/internal/adaptive"
	"github.com/p-n-ai/pathforge/internal/progress"
	"github.com/p-n-ai/pathforge/internal/store"
)

// Velocity analyzes the user's recent learning pace.
func (s *Service) Velocity(ctx context.Context, userID string) (adaptive.VelocityMetrics, error) {
	logs, err := s.activity(ctx, userID)
	if err != nil {
		return adaptive.VelocityMetrics{}, err
	}
	return adaptive.AnalyzeVelocity(logs), nil
}

// Predict estimates when the active path will be finished at the current
// velocity. Users without a path get a low-confidence placeholder.
func (s *Service) Predict(ctx context.Context, userID string) (adaptive.Prediction, error) {
	logs, err := s.activity(ctx, userID)
	if err != nil {
		return adaptive.Prediction{}, err
	}

	path, err := s.store.ActivePath(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return adaptive.Prediction{
				EstimatedDate: "N/A",
				Confidence:    adaptive.ConfidenceLow,
				Message:       "No active learning path",
			}, nil
		}
		return adaptive.Prediction{}, err
	}

	records, err := s.store.ListProgress(ctx, userID, path.ID)
	if err != nil {
		return adaptive.Prediction{}, fmt.Errorf("list progress: %w", err)
	}
	total := path.TotalTopics
	if total == 0 {
		total = 1
	}
	velocity := adaptive.AnalyzeVelocity(logs)
	return adaptive.PredictCompletion(len(progress.CompletedIDs(records)), total, velocity.TopicsPerDay, s.now()), nil
}

// AdaptInput carries scored attempts to adapt the active path against.
type AdaptInput struct {
	Performance []adaptive.Performance `json:"performance" validate:"dive"`
}

// Adapt proposes changes to the active path from performance scores.
// Users without a path get an empty proposal.
func (s *Service) Adapt(ctx context.Context, userID string, in AdaptInput) (adaptive.AdaptationSet, error) {
	if err := requireUser(userID); err != nil {
		return adaptive.AdaptationSet{}, err
	}
	if err := validateInput(in); err != nil {
		return adaptive.AdaptationSet{}, err
	}

	path, err := s.store.ActivePath(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return adaptive.AdaptationSet{
				DifficultyChanges: []adaptive.Adjustment{},
				TopicAdditions:    []adaptive.TopicChange{},
				TopicRemovals:     []adaptive.TopicChange{},
				PaceAdjustments:   []adaptive.Adjustment{},
			}, nil
		}
		return adaptive.AdaptationSet{}, err
	}
	return adaptive.Adapt(in.Performance, &path.Curriculum), nil
}

// Insights summarizes strengths, weak spots and habits across all of the
// user's progress.
func (s *Service) Insights(ctx context.Context, userID string) (adaptive.Insights, error) {
	records, logs, err := s.history(ctx, userID)
	if err != nil {
		return adaptive.Insights{}, err
	}
	return adaptive.GenerateInsights(records, logs), nil
}

// Struggling lists topics where the user is slower than expected or has
// reported difficulty.
func (s *Service) Struggling(ctx context.Context, userID string) ([]adaptive.StrugglingTopic, error) {
	records, _, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}
	return adaptive.DetectStruggling(records), nil
}

func (s *Service) history(ctx context.Context, userID string) ([]progress.Record, []progress.ActivityLog, error) {
	logs, err := s.activity(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.store.ListProgress(ctx, userID, "")
	if err != nil {
		return nil, nil, fmt.Errorf("list progress: %w", err)
	}
	return records, logs, nil
}
