package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/p-n-ai/pathforge/internal/metrics"
	"github.com/p-n-ai/pathforge/internal/progress"
	"github.com/p-n-ai/pathforge/internal/realtime"
	"github.com/p-n-ai/pathforge/internal/recommend"
	"github.com/p-n-ai/pathforge/internal/store"
)

// CompleteTopicInput marks one topic completed. TimeSpentMinutes is nil
// when the client did not report it.
type CompleteTopicInput struct {
	PathID             string `json:"learning_path_id" validate:"required"`
	ModuleID           string `json:"module_id" validate:"required"`
	TopicID            string `json:"topic_id" validate:"required"`
	TimeSpentMinutes   *int   `json:"time_spent_minutes" validate:"omitempty,gte=0"`
	DifficultyFeedback string `json:"difficulty_feedback" validate:"omitempty,oneof=too_easy just_right too_hard"`
}

// Completion reports the path state after a topic completion.
type Completion struct {
	PathID               string                     `json:"learning_path_id"`
	TopicID              string                     `json:"topic_id"`
	CompletedTopics      int                        `json:"completed_topics"`
	TotalTopics          int                        `json:"total_topics"`
	CompletionPercentage float64                    `json:"completion_percentage"`
	XPEarned             int                        `json:"xp_earned"`
	Recommendations      []recommend.Recommendation `json:"recommendations"`
}

// CompleteTopic records a completed topic, refreshes the path's completion
// figures, credits today's activity log and pushes fresh recommendations to
// the user's open connections.
func (s *Service) CompleteTopic(ctx context.Context, userID string, in CompleteTopicInput) (Completion, error) {
	if err := requireUser(userID); err != nil {
		return Completion{}, err
	}
	if err := validateInput(in); err != nil {
		return Completion{}, err
	}

	path, err := s.Path(ctx, userID, in.PathID)
	if err != nil {
		return Completion{}, err
	}
	module, topic, ok := path.Curriculum.LocateTopic(in.TopicID)
	if !ok {
		return Completion{}, fmt.Errorf("topic %s: %w", in.TopicID, store.ErrNotFound)
	}
	if module.ID != in.ModuleID {
		return Completion{}, fmt.Errorf("%w: topic %s belongs to module %s, not %s",
			ErrInvalidInput, in.TopicID, module.ID, in.ModuleID)
	}

	records, err := s.store.ListProgress(ctx, userID, path.ID)
	if err != nil {
		return Completion{}, fmt.Errorf("list progress: %w", err)
	}
	var existing progress.Record
	for _, r := range records {
		if r.ModuleID == in.ModuleID && r.TopicID == in.TopicID {
			existing = r
			break
		}
	}

	now := s.now().UTC()
	rec := progress.Record{
		UserID:             userID,
		PathID:             path.ID,
		ModuleID:           in.ModuleID,
		TopicID:            in.TopicID,
		TopicTitle:         topic.Title,
		Status:             progress.StatusCompleted,
		TimeSpentMinutes:   existing.TimeSpentMinutes,
		ExpectedMinutes:    int(topic.EstimatedHours * 60),
		DifficultyFeedback: in.DifficultyFeedback,
		StartedAt:          existing.StartedAt,
		CompletedAt:        &now,
	}
	if rec.StartedAt == nil {
		rec.StartedAt = &now
	}
	if in.TimeSpentMinutes != nil {
		rec.TimeSpentMinutes = *in.TimeSpentMinutes
	}
	if err := s.store.UpsertProgress(ctx, rec); err != nil {
		return Completion{}, fmt.Errorf("save progress: %w", err)
	}

	records, err = s.store.ListProgress(ctx, userID, path.ID)
	if err != nil {
		return Completion{}, fmt.Errorf("list progress: %w", err)
	}
	completed := len(progress.CompletedIDs(records))
	pct := 0.0
	if path.TotalTopics > 0 {
		pct = round1(float64(completed) / float64(path.TotalTopics) * 100)
	}
	if err := s.store.UpdatePathProgress(ctx, path.ID, completed, pct); err != nil {
		return Completion{}, fmt.Errorf("update path progress: %w", err)
	}

	minutes := defaultTopicMinutes
	if in.TimeSpentMinutes != nil {
		minutes = *in.TimeSpentMinutes
	}
	if err := s.store.AddActivity(ctx, userID, progress.ActivityLog{
		Date:            now,
		LearningMinutes: minutes,
		TopicsCompleted: 1,
		XPEarned:        progress.TopicXP,
		TimeOfDay:       timeOfDay(now),
	}); err != nil {
		return Completion{}, fmt.Errorf("log activity: %w", err)
	}

	metrics.RecordTopicCompleted()
	s.invalidateRecommendations(ctx, userID)
	s.logEvent(ctx, store.Event{
		UserID:    userID,
		PathID:    path.ID,
		EventType: store.EventTopicCompleted,
		Data: map[string]any{
			"topic_id":           in.TopicID,
			"module_id":          in.ModuleID,
			"time_spent_minutes": rec.TimeSpentMinutes,
		},
	})

	path.CompletedTopics = completed
	path.CompletionPercentage = pct
	recs, err := s.recommendFor(ctx, path)
	if err != nil {
		slog.Warn("failed to refresh recommendations", "user_id", userID, "error", err)
		recs = []recommend.Recommendation{}
	}

	result := Completion{
		PathID:               path.ID,
		TopicID:              in.TopicID,
		CompletedTopics:      completed,
		TotalTopics:          path.TotalTopics,
		CompletionPercentage: pct,
		XPEarned:             progress.TopicXP,
		Recommendations:      recs,
	}
	s.publish(userID, realtime.TypeTopicCompleted, result)

	slog.Info("topic completed",
		"user_id", userID,
		"path_id", path.ID,
		"topic_id", in.TopicID,
		"completion", pct,
	)
	return result, nil
}

// timeOfDay tags activity before noon UTC as morning.
func timeOfDay(t time.Time) string {
	if t.UTC().Hour() < 12 {
		return progress.Morning
	}
	return progress.Evening
}

// ActivityInput overwrites one day's activity log. Date is YYYY-MM-DD and
// defaults to today; LearningMinutes defaults to 30 when omitted.
type ActivityInput struct {
	Date            string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	LearningMinutes *int   `json:"learning_minutes" validate:"omitempty,gte=0"`
	TopicsCompleted int    `json:"topics_completed" validate:"gte=0"`
	XPEarned        int    `json:"xp_earned" validate:"gte=0"`
	TimeOfDay       string `json:"time_of_day" validate:"omitempty,oneof=morning evening"`
}

// LogActivity stores the day's activity, replacing any previous values.
func (s *Service) LogActivity(ctx context.Context, userID string, in ActivityInput) (progress.ActivityLog, error) {
	if err := requireUser(userID); err != nil {
		return progress.ActivityLog{}, err
	}
	if err := validateInput(in); err != nil {
		return progress.ActivityLog{}, err
	}

	date := s.now()
	if in.Date != "" {
		d, err := time.Parse(time.DateOnly, in.Date)
		if err != nil {
			return progress.ActivityLog{}, fmt.Errorf("%w: date: %v", ErrInvalidInput, err)
		}
		date = d
	}
	minutes := defaultTopicMinutes
	if in.LearningMinutes != nil {
		minutes = *in.LearningMinutes
	}

	log := progress.ActivityLog{
		Date:            progress.Day(date),
		LearningMinutes: minutes,
		TopicsCompleted: in.TopicsCompleted,
		XPEarned:        in.XPEarned,
		TimeOfDay:       in.TimeOfDay,
	}
	if err := s.store.PutActivity(ctx, userID, log); err != nil {
		return progress.ActivityLog{}, fmt.Errorf("log activity: %w", err)
	}
	s.logEvent(ctx, store.Event{
		UserID:    userID,
		EventType: store.EventActivityLogged,
		Data: map[string]any{
			"date":             log.Date.Format(time.DateOnly),
			"learning_minutes": log.LearningMinutes,
		},
	})
	return log, nil
}

// Streak holds the current and longest runs of active days.
type Streak struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
}

// Streak computes the user's streaks from the activity logs.
func (s *Service) Streak(ctx context.Context, userID string) (Streak, error) {
	logs, err := s.activity(ctx, userID)
	if err != nil {
		return Streak{}, err
	}
	current := progress.CalculateStreak(logs, s.now())
	return Streak{Current: current, Longest: max(current, progress.LongestStreak(logs))}, nil
}

// Heatmap returns the activity heatmap for the last weeks.
func (s *Service) Heatmap(ctx context.Context, userID string, weeks int) ([]progress.HeatmapCell, error) {
	logs, err := s.activity(ctx, userID)
	if err != nil {
		return nil, err
	}
	return progress.Heatmap(logs, weeks, s.now()), nil
}

// Stats summarizes a user's progress across all paths.
type Stats struct {
	CompletedTopics  int `json:"completed_topics"`
	InProgressTopics int `json:"in_progress_topics"`
	TotalXP          int `json:"total_xp"`
	Level            int `json:"current_level"`
	NextLevelXP      int `json:"next_level_xp"`
}

// Stats counts topics by status and derives XP and level from completions.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	if err := requireUser(userID); err != nil {
		return Stats{}, err
	}
	records, err := s.store.ListProgress(ctx, userID, "")
	if err != nil {
		return Stats{}, fmt.Errorf("list progress: %w", err)
	}

	var st Stats
	for _, r := range records {
		switch r.Status {
		case progress.StatusCompleted:
			st.CompletedTopics++
		case progress.StatusInProgress:
			st.InProgressTopics++
		}
	}
	st.TotalXP = st.CompletedTopics * progress.TopicXP
	st.Level = progress.LevelFromXP(st.TotalXP)
	st.NextLevelXP = progress.XPForLevel(st.Level + 1)
	return st, nil
}

// Achievements lists the achievements the user currently qualifies for.
func (s *Service) Achievements(ctx context.Context, userID string) ([]progress.Achievement, error) {
	st, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	logs, err := s.activity(ctx, userID)
	if err != nil {
		return nil, err
	}
	streak := progress.CalculateStreak(logs, s.now())
	return progress.CheckAchievements(st.CompletedTopics, streak, st.Level), nil
}

func (s *Service) activity(ctx context.Context, userID string) ([]progress.ActivityLog, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	logs, err := s.store.ListActivity(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return logs, nil
}
