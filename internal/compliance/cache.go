// Package compliance caches whitelist, KYC and balance data for the
// session's address and fetches it from the compliance service.
package compliance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/rwa/internal/events"
	"github.com/alfredjeanlab/rwa/internal/metrics"
	"github.com/alfredjeanlab/rwa/internal/model"
)

// Fetcher retrieves the compliance record for an address.
type Fetcher interface {
	Fetch(ctx context.Context, address string) (model.ComplianceSnapshot, error)
}

// Cache holds at most one snapshot, keyed by the address that produced it.
type Cache struct {
	fetcher   Fetcher
	publisher events.Publisher
	logger    *slog.Logger

	mu   sync.RWMutex
	snap *model.ComplianceSnapshot
}

// NewCache creates an empty cache backed by f.
func NewCache(f Fetcher, pub events.Publisher, logger *slog.Logger) *Cache {
	if pub == nil {
		pub = &events.NoopPublisher{}
	}
	return &Cache{fetcher: f, publisher: pub, logger: logger}
}

// Refresh fetches the record for address and replaces the cached snapshot.
// On failure the previous snapshot is kept and the returned error wraps
// model.ErrComplianceFetchFailed.
func (c *Cache) Refresh(ctx context.Context, sessionID, address string) (model.ComplianceSnapshot, error) {
	if address == "" {
		return model.ComplianceSnapshot{}, model.ErrNotConnected
	}
	started := time.Now().UTC()

	snap, err := c.fetcher.Fetch(ctx, address)
	if err == nil && snap.Balance < 0 {
		err = fmt.Errorf("negative balance %d", snap.Balance)
	}
	if err != nil {
		metrics.ComplianceRefreshes.WithLabelValues("error").Inc()
		c.logger.Warn("compliance: refresh failed", "address", address, "err", err)
		c.publish(events.TopicComplianceRefreshFailed, events.ComplianceRefreshFailed{
			Meta:  events.Meta{SessionID: sessionID, Address: address},
			Error: err.Error(),
		})
		if errors.Is(err, model.ErrComplianceFetchFailed) {
			return model.ComplianceSnapshot{}, err
		}
		return model.ComplianceSnapshot{}, fmt.Errorf("%w: %w", model.ErrComplianceFetchFailed, err)
	}

	snap.Address = address
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now().UTC()
	}

	c.mu.Lock()
	// A slower refresh for an old address must not replace a newer one.
	if c.snap == nil || c.snap.Address == address || !c.snap.FetchedAt.After(started) {
		c.snap = &snap
	}
	c.mu.Unlock()

	metrics.ComplianceRefreshes.WithLabelValues("ok").Inc()
	c.logger.Info("compliance: refreshed", "address", address,
		"whitelisted", snap.IsWhitelisted, "kyc", snap.KYCVerified, "balance", snap.Balance)
	c.publish(events.TopicComplianceRefreshed, events.ComplianceRefreshed{
		Meta:     events.Meta{SessionID: sessionID, Address: address},
		Snapshot: snap,
	})
	return snap, nil
}

// Get returns the cached snapshot if it belongs to sess's current address.
// A disconnected session or a snapshot for another address yields false.
func (c *Cache) Get(sess model.Session) (model.ComplianceSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil || !c.snap.BelongsTo(sess) {
		return model.ComplianceSnapshot{}, false
	}
	return *c.snap, true
}

// Discard drops the cached snapshot.
func (c *Cache) Discard() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

// Observe is a session observer that drops the snapshot once the session's
// address moves away from it.
func (c *Cache) Observe(prev, next model.Session) {
	if prev.Address == next.Address {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap != nil && c.snap.Address != next.Address {
		c.logger.Debug("compliance: discarding stale snapshot", "address", c.snap.Address)
		c.snap = nil
	}
}

func (c *Cache) publish(topic string, event any) {
	if err := c.publisher.Publish(context.Background(), topic, event); err != nil {
		c.logger.Warn("compliance: publishing event failed", "topic", topic, "err", err)
	}
}
