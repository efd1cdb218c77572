package realtime_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/pathforge/internal/realtime"
)

func TestHub_PublishReachesOnlyThatUser(t *testing.T) {
	hub := realtime.NewHub()
	alice, unsubA := hub.Subscribe("alice")
	defer unsubA()
	bob, unsubB := hub.Subscribe("bob")
	defer unsubB()

	hub.Publish("alice", realtime.Message{Type: realtime.TypeTopicCompleted, Data: "topic_1_1"})

	select {
	case msg := <-alice:
		if msg.Type != realtime.TypeTopicCompleted {
			t.Errorf("Type = %q, want %q", msg.Type, realtime.TypeTopicCompleted)
		}
	default:
		t.Fatal("alice did not receive the message")
	}
	select {
	case msg := <-bob:
		t.Fatalf("bob received %+v", msg)
	default:
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := realtime.NewHub()
	ch, unsubscribe := hub.Subscribe("alice")
	if got := hub.Subscribers("alice"); got != 1 {
		t.Fatalf("Subscribers() = %d, want 1", got)
	}

	unsubscribe()
	unsubscribe()

	if got := hub.Subscribers("alice"); got != 0 {
		t.Errorf("Subscribers() = %d, want 0", got)
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
	hub.Publish("alice", realtime.Message{Type: realtime.TypeRecommendations})
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := realtime.NewHub()
	_, unsubscribe := hub.Subscribe("alice")
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish("alice", realtime.Message{Type: realtime.TypeRecommendations})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
}

func TestHub_Serve(t *testing.T) {
	hub := realtime.NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, "alice")
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.CloseNow()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers("alice") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("server never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Publish("alice", realtime.Message{Type: realtime.TypeTopicCompleted, Data: map[string]any{"topic_id": "topic_1_1"}})

	var got struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	if err := wsjson.Read(ctx, conn, &got); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Type != realtime.TypeTopicCompleted || got.Data["topic_id"] != "topic_1_1" {
		t.Errorf("message = %+v", got)
	}

	conn.Close(websocket.StatusNormalClosure, "")
}
