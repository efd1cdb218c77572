package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/p-n-ai/pathforge/internal/curriculum"
	"github.com/p-n-ai/pathforge/internal/export"
	"github.com/p-n-ai/pathforge/internal/generator"
	"github.com/p-n-ai/pathforge/internal/metrics"
	"github.com/p-n-ai/pathforge/internal/platform/cache"
	"github.com/p-n-ai/pathforge/internal/progress"
	"github.com/p-n-ai/pathforge/internal/recommend"
	"github.com/p-n-ai/pathforge/internal/store"
)

// GeneratePath fills profile defaults, generates a curriculum and saves it
// as the user's active path for the target role, replacing any previous one.
func (s *Service) GeneratePath(ctx context.Context, userID string, p generator.Profile) (store.LearningPath, error) {
	if err := requireUser(userID); err != nil {
		return store.LearningPath{}, err
	}
	start := time.Now()
	p = s.withDefaults(p)

	c, err := s.gen.GeneratePersonalizedPath(p)
	if err != nil {
		return store.LearningPath{}, fmt.Errorf("generate path: %w", err)
	}

	saved, err := s.store.ReplaceActivePath(ctx, store.LearningPath{
		UserID:      userID,
		TargetRole:  p.TargetRole,
		Title:       fmt.Sprintf("%s (%s)", c.Title, p.TargetRole),
		Difficulty:  c.Difficulty,
		Profile:     p,
		Curriculum:  c,
		TotalTopics: c.TopicCount(),
	})
	if err != nil {
		return store.LearningPath{}, fmt.Errorf("save path: %w", err)
	}

	route := curriculum.RouteFor(p.TargetRole).Name
	metrics.RecordGeneration(route, c.Difficulty, time.Since(start))
	s.invalidateRecommendations(ctx, userID)
	s.logEvent(ctx, store.Event{
		UserID:    userID,
		PathID:    saved.ID,
		EventType: store.EventPathGenerated,
		Data: map[string]any{
			"target_role": p.TargetRole,
			"route":       route,
			"difficulty":  c.Difficulty,
			"topics":      saved.TotalTopics,
		},
	})

	slog.Info("path generated",
		"user_id", userID,
		"path_id", saved.ID,
		"route", route,
		"difficulty", c.Difficulty,
		"modules", len(c.Modules),
	)
	return saved, nil
}

func (s *Service) withDefaults(p generator.Profile) generator.Profile {
	if p.TargetRole == "" {
		p.TargetRole = defaultTargetRole
	}
	if p.LearningPace == "" {
		p.LearningPace = defaultPace
	}
	if p.DailyHours == 0 {
		p.DailyHours = s.dailyHours
	}
	if p.CurrentSkills == nil {
		p.CurrentSkills = []string{}
	}
	if len(p.PreferredContent) == 0 {
		p.PreferredContent = append([]string(nil), defaultPreferredContent...)
	}
	return p
}

// ActivePath returns the user's most recently generated active path.
func (s *Service) ActivePath(ctx context.Context, userID string) (store.LearningPath, error) {
	if err := requireUser(userID); err != nil {
		return store.LearningPath{}, err
	}
	return s.store.ActivePath(ctx, userID)
}

// Path returns one of the user's paths by id. Paths owned by someone else
// are reported as not found.
func (s *Service) Path(ctx context.Context, userID, pathID string) (store.LearningPath, error) {
	if err := requireUser(userID); err != nil {
		return store.LearningPath{}, err
	}
	p, err := s.store.GetPath(ctx, pathID)
	if err != nil {
		return store.LearningPath{}, err
	}
	if p.UserID != userID {
		return store.LearningPath{}, fmt.Errorf("path %s: %w", pathID, store.ErrNotFound)
	}
	return p, nil
}

// Recommend returns the next topics for the user's active path. Users
// without a path get an empty list.
func (s *Service) Recommend(ctx context.Context, userID string) ([]recommend.Recommendation, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	path, err := s.store.ActivePath(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []recommend.Recommendation{}, nil
		}
		return nil, err
	}
	return s.recommendFor(ctx, path)
}

func (s *Service) recommendFor(ctx context.Context, path store.LearningPath) ([]recommend.Recommendation, error) {
	key := recommendationsKey(path.UserID)

	if s.cache != nil {
		var cached cachedRecommendations
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			slog.Warn("recommendation cache read failed", "user_id", path.UserID, "error", err)
		} else if found && cached.PathID == path.ID {
			metrics.RecordRecommendations(true)
			return cached.Items, nil
		}
	}

	records, err := s.store.ListProgress(ctx, path.UserID, path.ID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	recs := recommend.NextTopics(progress.CompletedIDs(records), path.Profile.CurrentSkills, &path.Curriculum)
	if len(recs) > s.limit {
		recs = recs[:s.limit]
	}
	metrics.RecordRecommendations(false)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, cachedRecommendations{PathID: path.ID, Items: recs}, s.cacheTTL); err != nil {
			slog.Warn("recommendation cache write failed", "user_id", path.UserID, "error", err)
		}
	}
	return recs, nil
}

type cachedRecommendations struct {
	PathID string                     `json:"path_id"`
	Items  []recommend.Recommendation `json:"items"`
}

func recommendationsKey(userID string) string {
	return cache.Key("recommendations", userID)
}

func (s *Service) invalidateRecommendations(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, recommendationsKey(userID)); err != nil {
		slog.Warn("recommendation cache invalidation failed", "user_id", userID, "error", err)
	}
}

// ScheduleInput shapes a weekly study plan. Without explicit topics the
// user's current recommendations are scheduled.
type ScheduleInput struct {
	HoursPerDay float64                   `json:"hours_per_day" validate:"gte=0,lte=24"`
	Pace        string                    `json:"pace"`
	Topics      []recommend.ScheduleTopic `json:"topics" validate:"dive"`
}

// Schedule packs topics into a week.
func (s *Service) Schedule(ctx context.Context, userID string, in ScheduleInput) (recommend.Schedule, error) {
	if err := validateInput(in); err != nil {
		return recommend.Schedule{}, err
	}
	if in.HoursPerDay == 0 {
		in.HoursPerDay = s.dailyHours
	}
	if in.Pace == "" {
		in.Pace = defaultPace
	}

	topics := in.Topics
	if len(topics) == 0 {
		recs, err := s.Recommend(ctx, userID)
		if err != nil {
			return recommend.Schedule{}, err
		}
		topics = recommend.FromRecommendations(recs)
	}
	return recommend.StudySchedule(in.HoursPerDay, in.Pace, topics), nil
}

// ResourceInput asks for resources on one topic.
type ResourceInput struct {
	TopicTitle  string   `json:"topic_title"`
	Preferences []string `json:"preferences"`
	Difficulty  string   `json:"difficulty"`
}

// Resources returns resource suggestions for a topic.
func (s *Service) Resources(in ResourceInput) []recommend.ResourceMatch {
	if in.TopicTitle == "" {
		in.TopicTitle = "Topic"
	}
	if len(in.Preferences) == 0 {
		in.Preferences = []string{"videos", "articles"}
	}
	if in.Difficulty == "" {
		in.Difficulty = curriculum.Beginner
	}
	return recommend.Resources(in.TopicTitle, in.Preferences, in.Difficulty)
}

// ExportActivePath writes the active path and a week of its upcoming
// topics as an XLSX workbook.
func (s *Service) ExportActivePath(ctx context.Context, userID string, w io.Writer) error {
	path, err := s.ActivePath(ctx, userID)
	if err != nil {
		return err
	}
	recs, err := s.recommendFor(ctx, path)
	if err != nil {
		return err
	}
	schedule := recommend.StudySchedule(path.Profile.DailyHours, path.Profile.LearningPace, recommend.FromRecommendations(recs))
	return export.Write(w, path.Curriculum, &schedule)
}
