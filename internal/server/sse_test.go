package server

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/rwa/internal/events"
)

func TestSSEHubBroadcast(t *testing.T) {
	hub := newSSEHub()
	c, replay := hub.subscribe(nil, 0)
	defer hub.unsubscribe(c)
	if replay != nil {
		t.Fatalf("replay without Last-Event-ID = %v", replay)
	}

	hub.broadcast(events.TopicSessionConnected, []byte(`{"session_id":"ses-1"}`))

	select {
	case evt := <-c.ch:
		if evt.ID != 1 || evt.Topic != events.TopicSessionConnected || string(evt.Data) != `{"session_id":"ses-1"}` {
			t.Fatalf("event = %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSSEHubTopicFilter(t *testing.T) {
	hub := newSSEHub()
	c, _ := hub.subscribe([]string{"rwa.transfer.*"}, 0)
	defer hub.unsubscribe(c)

	hub.broadcast(events.TopicSessionConnected, []byte(`{}`))
	hub.broadcast(events.TopicTransferSubmitted, []byte(`{}`))

	select {
	case evt := <-c.ch:
		if evt.Topic != events.TopicTransferSubmitted {
			t.Fatalf("topic = %q, want %q", evt.Topic, events.TopicTransferSubmitted)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	select {
	case evt := <-c.ch:
		t.Fatalf("unexpected event %+v", evt)
	default:
	}
}

func TestSSEHubReplay(t *testing.T) {
	hub := newSSEHub()
	for range sseReplaySize + 10 {
		hub.broadcast(events.TopicComplianceRefreshed, []byte(`{}`))
	}

	c, replay := hub.subscribe(nil, sseReplaySize+5)
	defer hub.unsubscribe(c)
	if len(replay) != 5 {
		t.Fatalf("replayed %d events, want 5", len(replay))
	}
	for i, evt := range replay {
		if want := uint64(sseReplaySize + 6 + i); evt.ID != want {
			t.Fatalf("replay[%d].ID = %d, want %d", i, evt.ID, want)
		}
	}

	// Everything after an ID that fell out of the ring is replayed.
	c2, replay := hub.subscribe(nil, 1)
	defer hub.unsubscribe(c2)
	if len(replay) != sseReplaySize {
		t.Fatalf("replayed %d events, want %d", len(replay), sseReplaySize)
	}
	if replay[0].ID != 11 {
		t.Fatalf("oldest replayed ID = %d, want 11", replay[0].ID)
	}
}

func TestMatchTopic(t *testing.T) {
	for _, tc := range []struct {
		pattern, topic string
		want           bool
	}{
		{"rwa.session.connected", "rwa.session.connected", true},
		{"rwa.session.*", "rwa.session.connected", true},
		{"rwa.*", "rwa.session.connected", false},
		{"rwa.>", "rwa.session.connected", true},
		{"rwa.>", "rwa", false},
		{"rwa.transfer.*", "rwa.session.connected", false},
		{"*.session.*", "rwa.session.disconnected", true},
	} {
		if got := matchTopic(tc.pattern, tc.topic); got != tc.want {
			t.Errorf("matchTopic(%q, %q) = %v, want %v", tc.pattern, tc.topic, got, tc.want)
		}
	}
}

func TestEventStreamEndToEnd(t *testing.T) {
	env := newTestServer(t)
	ts := httptest.NewServer(env.srv.NewHTTPHandler(""))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/v1/events/stream?topics=rwa.session.*", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	// Headers are flushed only after the subscription exists, so the
	// connect below cannot race the stream.
	if _, err := env.machine.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if line := scanner.Text(); strings.HasPrefix(line, "event:") {
			if got := strings.TrimPrefix(line, "event:"); got != events.TopicSessionConnected {
				t.Fatalf("first event = %q, want %q", got, events.TopicSessionConnected)
			}
			return
		}
	}
	t.Fatalf("stream ended without an event: %v", scanner.Err())
}
