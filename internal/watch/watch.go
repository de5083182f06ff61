// Package watch polls the wallet for out-of-band account and network
// changes. The wallet has no push channel, so a watcher samples it on a
// fixed interval and reports differences against what it last observed.
package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/rwa/internal/metrics"
)

// DefaultInterval is the polling period used when none is configured.
const DefaultInterval = 3 * time.Second

// Source is the subset of the wallet provider a watcher samples.
type Source interface {
	GetAddress(ctx context.Context) (string, error)
	GetNetwork(ctx context.Context) (string, error)
}

// Change is one observed difference. Address is "" when the wallet no
// longer exposes an account (locked or access revoked).
type Change struct {
	Address        string
	AddressChanged bool
	Network        string
	NetworkChanged bool
}

// Handle controls a running watcher.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start launches a watcher seeded with the currently known address and
// network. onChange runs on the watcher goroutine; a slow callback delays
// the next poll rather than queueing ticks.
func Start(src Source, address, network string, interval time.Duration, onChange func(Change), logger *slog.Logger) *Handle {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	w := &watcher{
		src:      src,
		address:  address,
		network:  network,
		onChange: onChange,
		logger:   logger,
	}
	go func() {
		defer close(h.done)
		w.run(ctx, interval)
	}()
	return h
}

// Halt signals the watcher to exit without waiting for it. Safe to call
// from within onChange.
func (h *Handle) Halt() {
	if h == nil {
		return
	}
	h.cancel()
}

// Stop halts the watcher and waits for any in-flight poll to finish.
// After Stop returns onChange will not be invoked again. Must not be called
// from within onChange.
func (h *Handle) Stop() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}

// Done is closed once the watcher goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

type watcher struct {
	src      Source
	address  string
	network  string
	onChange func(Change)
	logger   *slog.Logger
}

func (w *watcher) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *watcher) poll(ctx context.Context) {
	addr, err := w.src.GetAddress(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("watch: address poll failed", "err", err)
			metrics.WatchTicks.WithLabelValues("error").Inc()
		}
		return
	}

	var ch Change
	if addr != w.address {
		ch.Address = addr
		ch.AddressChanged = true
		w.address = addr
	}

	// A locked wallet reports no network worth trusting.
	if addr != "" {
		network, err := w.src.GetNetwork(ctx)
		switch {
		case err != nil:
			if ctx.Err() == nil {
				w.logger.Warn("watch: network poll failed", "err", err)
			}
		case network != "" && network != w.network:
			ch.Network = network
			ch.NetworkChanged = true
			w.network = network
		}
	}

	if ctx.Err() != nil {
		return
	}
	if !ch.AddressChanged && !ch.NetworkChanged {
		metrics.WatchTicks.WithLabelValues("unchanged").Inc()
		return
	}
	metrics.WatchTicks.WithLabelValues("changed").Inc()
	w.onChange(ch)
}
