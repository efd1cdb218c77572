package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/p-n-ai/pathforge/internal/curriculum"
	"github.com/p-n-ai/pathforge/internal/generator"
	"github.com/p-n-ai/pathforge/internal/progress"
	"github.com/p-n-ai/pathforge/internal/store"
)

// testPathStore exercises the PathStore behavior every implementation shares.
func testPathStore(t *testing.T, s store.PathStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("no active path", func(t *testing.T) {
		_, err := s.ActivePath(ctx, "nobody")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("ActivePath() error = %v, want ErrNotFound", err)
		}
		_, err = s.GetPath(ctx, "00000000-0000-0000-0000-000000000000")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("GetPath() error = %v, want ErrNotFound", err)
		}
		_, err = s.GetPath(ctx, "not-a-uuid")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("GetPath(not-a-uuid) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("replace keeps one active path per role", func(t *testing.T) {
		first, err := s.ReplaceActivePath(ctx, newPath("user-replace", "Backend Developer"))
		if err != nil {
			t.Fatalf("ReplaceActivePath() error = %v", err)
		}
		if first.ID == "" || !first.Active {
			t.Fatalf("saved path = %+v, want id and active", first)
		}

		second, err := s.ReplaceActivePath(ctx, newPath("user-replace", "Backend Developer"))
		if err != nil {
			t.Fatalf("ReplaceActivePath() error = %v", err)
		}
		if second.ID == first.ID {
			t.Fatal("second path reused the first id")
		}

		old, err := s.GetPath(ctx, first.ID)
		if err != nil {
			t.Fatalf("GetPath() error = %v", err)
		}
		if old.Active {
			t.Error("first path should be deactivated")
		}

		active, err := s.ActivePath(ctx, "user-replace")
		if err != nil {
			t.Fatalf("ActivePath() error = %v", err)
		}
		if active.ID != second.ID {
			t.Errorf("ActivePath().ID = %q, want %q", active.ID, second.ID)
		}
		if active.Curriculum.TopicCount() != 2 {
			t.Errorf("TopicCount() = %d, want 2", active.Curriculum.TopicCount())
		}
		if active.Profile.TargetRole != "Backend Developer" {
			t.Errorf("Profile.TargetRole = %q", active.Profile.TargetRole)
		}
	})

	t.Run("update path progress", func(t *testing.T) {
		saved, err := s.ReplaceActivePath(ctx, newPath("user-update", "Data Scientist"))
		if err != nil {
			t.Fatalf("ReplaceActivePath() error = %v", err)
		}
		if err := s.UpdatePathProgress(ctx, saved.ID, 1, 50); err != nil {
			t.Fatalf("UpdatePathProgress() error = %v", err)
		}
		got, err := s.GetPath(ctx, saved.ID)
		if err != nil {
			t.Fatalf("GetPath() error = %v", err)
		}
		if got.CompletedTopics != 1 || got.CompletionPercentage != 50 {
			t.Errorf("progress = %d/%v, want 1/50", got.CompletedTopics, got.CompletionPercentage)
		}

		err = s.UpdatePathProgress(ctx, "00000000-0000-0000-0000-000000000000", 1, 50)
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("UpdatePathProgress(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("upsert progress", func(t *testing.T) {
		saved, err := s.ReplaceActivePath(ctx, newPath("user-progress", "Backend Developer"))
		if err != nil {
			t.Fatalf("ReplaceActivePath() error = %v", err)
		}
		started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		rec := progress.Record{
			UserID:          "user-progress",
			PathID:          saved.ID,
			ModuleID:        "module_1",
			TopicID:         "topic_1_1",
			TopicTitle:      "Intro",
			Status:          progress.StatusInProgress,
			ExpectedMinutes: 120,
			StartedAt:       &started,
		}
		if err := s.UpsertProgress(ctx, rec); err != nil {
			t.Fatalf("UpsertProgress() error = %v", err)
		}

		completed := started.Add(3 * time.Hour)
		rec.Status = progress.StatusCompleted
		rec.TimeSpentMinutes = 180
		rec.ExpectedMinutes = 0
		rec.StartedAt = nil
		rec.CompletedAt = &completed
		if err := s.UpsertProgress(ctx, rec); err != nil {
			t.Fatalf("UpsertProgress() error = %v", err)
		}

		records, err := s.ListProgress(ctx, "user-progress", saved.ID)
		if err != nil {
			t.Fatalf("ListProgress() error = %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("len(records) = %d, want 1", len(records))
		}
		got := records[0]
		if got.Status != progress.StatusCompleted || got.TimeSpentMinutes != 180 {
			t.Errorf("record = %+v, want completed with 180 minutes", got)
		}
		if got.ExpectedMinutes != 120 {
			t.Errorf("ExpectedMinutes = %d, want 120 kept", got.ExpectedMinutes)
		}
		if got.StartedAt == nil || !got.StartedAt.Equal(started) {
			t.Errorf("StartedAt = %v, want %v kept", got.StartedAt, started)
		}
		if got.CompletedAt == nil || !got.CompletedAt.Equal(completed) {
			t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, completed)
		}

		all, err := s.ListProgress(ctx, "user-progress", "")
		if err != nil {
			t.Fatalf("ListProgress() error = %v", err)
		}
		if len(all) != 1 {
			t.Errorf("len(all) = %d, want 1", len(all))
		}
	})

	t.Run("activity add and put", func(t *testing.T) {
		day1 := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
		day2 := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)

		if err := s.AddActivity(ctx, "user-activity", progress.ActivityLog{Date: day1, TopicsCompleted: 1, XPEarned: 50}); err != nil {
			t.Fatalf("AddActivity() error = %v", err)
		}
		if err := s.AddActivity(ctx, "user-activity", progress.ActivityLog{Date: day1.Add(2 * time.Hour), TopicsCompleted: 1, XPEarned: 50, LearningMinutes: 30}); err != nil {
			t.Fatalf("AddActivity() error = %v", err)
		}
		if err := s.PutActivity(ctx, "user-activity", progress.ActivityLog{Date: day2, LearningMinutes: 45, TimeOfDay: progress.Evening}); err != nil {
			t.Fatalf("PutActivity() error = %v", err)
		}

		logs, err := s.ListActivity(ctx, "user-activity")
		if err != nil {
			t.Fatalf("ListActivity() error = %v", err)
		}
		if len(logs) != 2 {
			t.Fatalf("len(logs) = %d, want 2", len(logs))
		}
		if !logs[0].Date.Equal(progress.Day(day2)) {
			t.Errorf("logs[0].Date = %v, want oldest first", logs[0].Date)
		}
		if logs[0].TimeOfDay != progress.Evening || logs[0].LearningMinutes != 45 {
			t.Errorf("logs[0] = %+v", logs[0])
		}
		if logs[1].TopicsCompleted != 2 || logs[1].XPEarned != 100 || logs[1].LearningMinutes != 30 {
			t.Errorf("logs[1] = %+v, want summed counters", logs[1])
		}

		if err := s.PutActivity(ctx, "user-activity", progress.ActivityLog{Date: day1, LearningMinutes: 10}); err != nil {
			t.Fatalf("PutActivity() error = %v", err)
		}
		logs, err = s.ListActivity(ctx, "user-activity")
		if err != nil {
			t.Fatalf("ListActivity() error = %v", err)
		}
		if logs[1].TopicsCompleted != 0 || logs[1].LearningMinutes != 10 {
			t.Errorf("logs[1] = %+v, want overwritten values", logs[1])
		}
	})
}

func newPath(userID, role string) store.LearningPath {
	c := curriculum.Curriculum{
		Title:      role + " Path",
		TargetRole: role,
		Difficulty: curriculum.Beginner,
		Modules: []curriculum.Module{{
			ID: "module_1", Title: "Basics", Order: 1,
			Topics: []curriculum.Topic{
				{ID: "topic_1_1", Title: "Intro", Prerequisites: []string{}, Subtopics: []string{}},
				{ID: "topic_1_2", Title: "Next", Prerequisites: []string{"Intro"}, Subtopics: []string{}},
			},
		}},
	}
	return store.LearningPath{
		UserID:      userID,
		TargetRole:  role,
		Title:       c.Title,
		Difficulty:  c.Difficulty,
		Profile:     generator.Profile{TargetRole: role, CurrentSkills: []string{}},
		Curriculum:  c,
		TotalTopics: c.TopicCount(),
	}
}
