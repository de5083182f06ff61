package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/rwa/internal/events"
	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/store"
)

// Recorder is the publisher the daemon hands to the session machine, the
// compliance cache, and the transfer executor. Each event is journaled,
// forwarded to the bus, and fanned out to SSE clients. Journal failures are
// logged and never reach the caller.
type Recorder struct {
	store  store.Store // may be nil
	next   events.Publisher
	hub    *sseHub
	logger *slog.Logger
}

var _ events.Publisher = (*Recorder)(nil)

// NewRecorder returns a Recorder. st may be nil to skip journaling; next may
// be nil to skip the bus.
func NewRecorder(st store.Store, next events.Publisher, logger *slog.Logger) *Recorder {
	if next == nil {
		next = &events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: st, next: next, hub: newSSEHub(), logger: logger}
}

// Publish records and forwards event. Only a bus failure is returned.
func (r *Recorder) Publish(ctx context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", topic, err)
	}

	if r.store != nil {
		rec := &model.Event{Topic: topic, Payload: payload}
		if sc, ok := event.(events.Scoped); ok {
			meta := sc.EventMeta()
			rec.SessionID = meta.SessionID
			rec.Address = meta.Address
		}
		if err := r.store.RecordEvent(ctx, rec); err != nil {
			r.logger.Warn("failed to record event", "topic", topic, "error", err)
		}
	}

	r.hub.broadcast(topic, payload)

	if err := r.next.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("forward event %s: %w", topic, err)
	}
	return nil
}

// Close closes the downstream publisher.
func (r *Recorder) Close() error {
	return r.next.Close()
}
