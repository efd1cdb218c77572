package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/p-n-ai/pathforge/internal/progress"
)

type progressKey struct {
	userID, pathID, moduleID, topicID string
}

// MemoryStore is an in-memory implementation of PathStore.
type MemoryStore struct {
	paths    []*LearningPath
	progress map[progressKey]progress.Record
	order    []progressKey
	activity map[string]map[time.Time]progress.ActivityLog
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		progress: make(map[progressKey]progress.Record),
		activity: make(map[string]map[time.Time]progress.ActivityLog),
	}
}

func (s *MemoryStore) ReplaceActivePath(_ context.Context, path LearningPath) (LearningPath, error) {
	if path.UserID == "" {
		return LearningPath{}, fmt.Errorf("user_id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, p := range s.paths {
		if p.UserID == path.UserID && p.TargetRole == path.TargetRole && p.Active {
			p.Active = false
			p.UpdatedAt = now
		}
	}

	path.ID = newID()
	path.Active = true
	path.CreatedAt = now
	path.UpdatedAt = now
	path.Curriculum = path.Curriculum.Clone()
	s.paths = append(s.paths, &path)
	return copyPath(&path), nil
}

func (s *MemoryStore) ActivePath(_ context.Context, userID string) (LearningPath, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.paths) - 1; i >= 0; i-- {
		if p := s.paths[i]; p.UserID == userID && p.Active {
			return copyPath(p), nil
		}
	}
	return LearningPath{}, fmt.Errorf("active path for user %s: %w", userID, ErrNotFound)
}

func (s *MemoryStore) GetPath(_ context.Context, id string) (LearningPath, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.find(id)
	if !ok {
		return LearningPath{}, fmt.Errorf("path %s: %w", id, ErrNotFound)
	}
	return copyPath(p), nil
}

func (s *MemoryStore) UpdatePathProgress(_ context.Context, id string, completed int, percentage float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.find(id)
	if !ok {
		return fmt.Errorf("path %s: %w", id, ErrNotFound)
	}
	p.CompletedTopics = completed
	p.CompletionPercentage = percentage
	p.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) UpsertProgress(_ context.Context, rec progress.Record) error {
	if rec.UserID == "" || rec.PathID == "" || rec.TopicID == "" {
		return fmt.Errorf("user_id, learning_path_id and topic_id are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := progressKey{rec.UserID, rec.PathID, rec.ModuleID, rec.TopicID}
	old, exists := s.progress[key]
	if !exists {
		s.order = append(s.order, key)
	} else {
		if rec.StartedAt == nil {
			rec.StartedAt = old.StartedAt
		}
		if rec.TopicTitle == "" {
			rec.TopicTitle = old.TopicTitle
		}
		if rec.ExpectedMinutes == 0 {
			rec.ExpectedMinutes = old.ExpectedMinutes
		}
		if rec.DifficultyFeedback == "" {
			rec.DifficultyFeedback = old.DifficultyFeedback
		}
	}
	s.progress[key] = rec
	return nil
}

func (s *MemoryStore) ListProgress(_ context.Context, userID, pathID string) ([]progress.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []progress.Record{}
	for _, key := range s.order {
		if key.userID != userID || (pathID != "" && key.pathID != pathID) {
			continue
		}
		records = append(records, s.progress[key])
	}
	return records, nil
}

func (s *MemoryStore) AddActivity(_ context.Context, userID string, log progress.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := progress.Day(log.Date)
	days := s.userActivity(userID)
	cur := days[day]
	cur.Date = day
	cur.LearningMinutes += log.LearningMinutes
	cur.TopicsCompleted += log.TopicsCompleted
	cur.XPEarned += log.XPEarned
	if log.TimeOfDay != "" {
		cur.TimeOfDay = log.TimeOfDay
	}
	days[day] = cur
	return nil
}

func (s *MemoryStore) PutActivity(_ context.Context, userID string, log progress.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Date = progress.Day(log.Date)
	s.userActivity(userID)[log.Date] = log
	return nil
}

func (s *MemoryStore) ListActivity(_ context.Context, userID string) ([]progress.ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]progress.ActivityLog, 0, len(s.activity[userID]))
	for _, l := range s.activity[userID] {
		logs = append(logs, l)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date.Before(logs[j].Date) })
	return logs, nil
}

func (s *MemoryStore) find(id string) (*LearningPath, bool) {
	for _, p := range s.paths {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (s *MemoryStore) userActivity(userID string) map[time.Time]progress.ActivityLog {
	days, ok := s.activity[userID]
	if !ok {
		days = make(map[time.Time]progress.ActivityLog)
		s.activity[userID] = days
	}
	return days
}

func copyPath(p *LearningPath) LearningPath {
	out := *p
	out.Curriculum = p.Curriculum.Clone()
	return out
}
