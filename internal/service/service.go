// Package service runs the learner-facing flows: generating and storing
// paths, serving recommendations, recording progress and deriving
// analytics. It sits between the HTTP layer and the engine packages.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/p-n-ai/pathforge/internal/generator"
	"github.com/p-n-ai/pathforge/internal/realtime"
	"github.com/p-n-ai/pathforge/internal/recommend"
	"github.com/p-n-ai/pathforge/internal/store"
)

// ErrInvalidInput is wrapped by request validation failures.
var ErrInvalidInput = errors.New("invalid input")

const (
	defaultPace         = "moderate"
	defaultTargetRole   = "Full Stack Developer"
	defaultDailyHours   = 2
	defaultCacheTTL     = 5 * time.Minute
	defaultTopicMinutes = 30
)

var defaultPreferredContent = []string{"videos", "articles", "interactive"}

var validate = validator.New()

// Cache stores JSON values with a TTL.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Publisher delivers realtime updates to a user's open connections.
type Publisher interface {
	Publish(userID string, msg realtime.Message)
}

// Config wires a Service. Only Generator is required.
type Config struct {
	Generator           *generator.Generator
	Store               store.PathStore
	Events              store.EventLogger
	Cache               Cache // optional
	CacheTTL            time.Duration
	Publisher           Publisher // optional
	RecommendationLimit int       // default recommend.MaxRecommendations
	DefaultDailyHours   float64   // default 2
	Now                 func() time.Time
}

// Service implements the learner flows.
type Service struct {
	gen        *generator.Generator
	store      store.PathStore
	events     store.EventLogger
	cache      Cache
	cacheTTL   time.Duration
	publisher  Publisher
	limit      int
	dailyHours float64
	now        func() time.Time
}

// New creates a service.
func New(cfg Config) *Service {
	st := cfg.Store
	if st == nil {
		st = store.NewMemoryStore()
	}
	events := cfg.Events
	if events == nil {
		events = store.NopEventLogger{}
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	limit := cfg.RecommendationLimit
	if limit <= 0 || limit > recommend.MaxRecommendations {
		limit = recommend.MaxRecommendations
	}
	daily := cfg.DefaultDailyHours
	if daily <= 0 {
		daily = defaultDailyHours
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		gen:        cfg.Generator,
		store:      st,
		events:     events,
		cache:      cfg.Cache,
		cacheTTL:   ttl,
		publisher:  cfg.Publisher,
		limit:      limit,
		dailyHours: daily,
		now:        now,
	}
}

func (s *Service) logEvent(ctx context.Context, event store.Event) {
	if err := s.events.LogEvent(ctx, event); err != nil {
		slog.Warn("failed to log event", "type", event.EventType, "user_id", event.UserID, "error", err)
	}
}

func (s *Service) publish(userID, msgType string, data any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(userID, realtime.Message{Type: msgType, Data: data})
}

func validateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func requireUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
