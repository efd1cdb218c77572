package store_test

import (
	"context"
	"testing"

	"github.com/p-n-ai/pathforge/internal/store"
)

func TestMemoryEventLogger_LogEvent(t *testing.T) {
	logger := store.NewMemoryEventLogger()

	err := logger.LogEvent(context.Background(), store.Event{
		UserID:    "user-1",
		PathID:    "path-1",
		EventType: store.EventTopicCompleted,
		Data: map[string]any{
			"topic_id": "topic_1_1",
		},
	})
	if err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	events := logger.Events()
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].EventType != store.EventTopicCompleted {
		t.Errorf("EventType = %q, want %q", events[0].EventType, store.EventTopicCompleted)
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestMemoryEventLogger_RequiresType(t *testing.T) {
	logger := store.NewMemoryEventLogger()
	if err := logger.LogEvent(context.Background(), store.Event{UserID: "user-1"}); err == nil {
		t.Fatal("expected error for empty event type")
	}
	if len(logger.Events()) != 0 {
		t.Error("rejected event should not be stored")
	}
}

func TestNopEventLogger(t *testing.T) {
	var logger store.EventLogger = store.NopEventLogger{}
	if err := logger.LogEvent(context.Background(), store.Event{}); err != nil {
		t.Errorf("LogEvent() error = %v", err)
	}
}

func TestPostgresEventLogger_LogEvent_NilPool(t *testing.T) {
	logger := store.NewPostgresEventLogger(nil)

	err := logger.LogEvent(context.Background(), store.Event{
		UserID:    "user-1",
		EventType: store.EventPathGenerated,
	})
	if err == nil {
		t.Fatal("expected error for nil pool")
	}
}

func TestNewPostgresStore_NilPool(t *testing.T) {
	if _, err := store.NewPostgresStore(nil); err == nil {
		t.Fatal("expected error for nil pool")
	}
}
