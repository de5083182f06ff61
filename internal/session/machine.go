// Package session owns the wallet session state machine.
//
// A Machine holds the process's belief about the wallet connection and is
// the only writer of that state. Connect and CheckConnection talk to the
// provider without holding the lock; every result is checked against a
// generation counter that Disconnect bumps, so a provider reply arriving
// after a disconnect is discarded instead of resurrecting the session.
//
// While connected, a watch.Handle polls the provider for out-of-band
// account and network changes. The Machine owns that handle and never
// runs more than one.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/rwa/internal/events"
	"github.com/alfredjeanlab/rwa/internal/metrics"
	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/provider"
	"github.com/alfredjeanlab/rwa/internal/watch"
)

// Observer is called after every session change with the states before and
// after. Observers run outside the Machine's lock but must not call back
// into the Machine synchronously.
type Observer func(prev, next model.Session)

// Machine is the wallet session state machine.
type Machine struct {
	provider  provider.Provider
	publisher events.Publisher
	logger    *slog.Logger
	interval  time.Duration

	mu        sync.Mutex
	sess      model.Session
	gen       uint64
	watcher   *watch.Handle
	observers []Observer
}

// New creates a disconnected session with the given ID. interval is the
// watcher poll period; zero uses watch.DefaultInterval.
func New(id string, p provider.Provider, pub events.Publisher, interval time.Duration, logger *slog.Logger) *Machine {
	if pub == nil {
		pub = &events.NoopPublisher{}
	}
	if interval <= 0 {
		interval = watch.DefaultInterval
	}
	return &Machine{
		provider:  p,
		publisher: pub,
		logger:    logger,
		interval:  interval,
		sess:      model.NewSession(id),
	}
}

// Observe registers an observer. Register observers before the Machine is
// shared with other goroutines.
func (m *Machine) Observe(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Snapshot returns a copy of the current session.
func (m *Machine) Snapshot() model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

// Connect asks the provider for access and, on success, moves to Connected
// and starts the watcher. A second call while one is in flight fails with
// model.ErrConnectInProgress; calling it while connected fails with
// model.ErrAlreadyConnected. On provider failure the session moves to
// Error with LastError set and the error is returned.
func (m *Machine) Connect(ctx context.Context) (model.Session, error) {
	m.mu.Lock()
	switch m.sess.State {
	case model.StateConnecting:
		sess := m.sess
		m.mu.Unlock()
		return sess, model.ErrConnectInProgress
	case model.StateConnected:
		sess := m.sess
		m.mu.Unlock()
		return sess, model.ErrAlreadyConnected
	}
	m.gen++
	gen := m.gen
	prev := m.sess
	next := prev
	next.State = model.StateConnecting
	next.LastError = ""
	next = m.setLocked(next)
	m.mu.Unlock()
	m.notify(prev, next)

	addr, rawNetwork, err := m.handshake(ctx)

	m.mu.Lock()
	if m.gen != gen {
		sess := m.sess
		m.mu.Unlock()
		m.logger.Info("session: discarding superseded connect", "session", sess.ID)
		return sess, model.ErrConnectAborted
	}
	prev = m.sess
	next = prev
	if err != nil {
		next.State = model.StateError
		next.Connected = false
		next.Address = ""
		next.LastError = err.Error()
		next = m.setLocked(next)
		m.mu.Unlock()

		m.logger.Warn("session: connect failed", "session", next.ID, "err", err)
		m.notify(prev, next)
		m.publish(events.TopicSessionConnectFailed, events.SessionConnectFailed{
			Meta:  events.Meta{SessionID: next.ID},
			Error: err.Error(),
		})
		return next, err
	}

	next.State = model.StateConnected
	next.Connected = true
	next.Address = addr
	next.Network = model.NetworkFromProvider(rawNetwork)
	next.LastError = ""
	next = m.setLocked(next)
	old := m.watcher
	m.watcher = watch.Start(m.provider, addr, rawNetwork, m.interval, func(c watch.Change) {
		m.applyChange(gen, c)
	}, m.logger)
	m.mu.Unlock()
	old.Stop()

	m.logger.Info("session: connected", "session", next.ID, "address", addr, "network", next.Network)
	m.notify(prev, next)
	m.publish(events.TopicSessionConnected, events.SessionConnected{
		Meta:    events.Meta{SessionID: next.ID, Address: addr},
		Network: next.Network,
	})
	return next, nil
}

// handshake runs the provider calls for Connect.
func (m *Machine) handshake(ctx context.Context) (address, network string, err error) {
	granted, err := m.provider.RequestAccess(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", model.ErrProviderDenied, err)
	}
	if !granted {
		return "", "", model.ErrProviderDenied
	}
	address, err = m.provider.GetAddress(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", model.ErrAddressUnavailable, err)
	}
	if address == "" {
		return "", "", model.ErrAddressUnavailable
	}
	network, err = m.provider.GetNetwork(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", model.ErrNetworkQueryFailed, err)
	}
	return address, network, nil
}

// Disconnect stops the watcher and clears the address, connection flag and
// last error. The network keeps its last value. Calling Disconnect on a
// disconnected session changes nothing. When Disconnect returns, no poll
// result will be applied to the session.
func (m *Machine) Disconnect() model.Session {
	next, _ := m.disconnect(0, events.CauseUser, true)
	return next
}

// disconnect resets the session. If gen is non-zero the reset only happens
// when the generation still matches. wait selects whether to block until
// the watcher goroutine exits; the watcher itself must pass false.
func (m *Machine) disconnect(gen uint64, cause string, wait bool) (model.Session, bool) {
	m.mu.Lock()
	if gen != 0 && gen != m.gen {
		sess := m.sess
		m.mu.Unlock()
		return sess, false
	}
	if m.sess.State == model.StateDisconnected && m.watcher == nil {
		sess := m.sess
		m.mu.Unlock()
		return sess, false
	}
	prev := m.sess
	handle := m.resetLocked()
	next := m.sess
	m.mu.Unlock()

	if wait {
		handle.Stop()
	} else {
		handle.Halt()
	}

	m.logger.Info("session: disconnected", "session", next.ID, "cause", cause)
	m.notify(prev, next)
	m.publish(events.TopicSessionDisconnected, events.SessionDisconnected{
		Meta:  events.Meta{SessionID: next.ID, Address: prev.Address},
		Cause: cause,
	})
	return next, true
}

// resetLocked moves to Disconnected, invalidates in-flight work and detaches
// the watcher, which the caller must stop after releasing the lock.
func (m *Machine) resetLocked() *watch.Handle {
	m.gen++
	handle := m.watcher
	m.watcher = nil

	next := m.sess
	next.State = model.StateDisconnected
	next.Connected = false
	next.Address = ""
	next.LastError = ""
	next = m.setLocked(next)
	return handle
}

// applyChange reconciles one watcher observation. Address is evaluated
// first; an empty address disconnects and the tick's network is dropped.
func (m *Machine) applyChange(gen uint64, c watch.Change) {
	if c.AddressChanged && c.Address == "" {
		m.disconnect(gen, events.CauseWalletLocked, false)
		return
	}

	m.mu.Lock()
	if gen != m.gen || m.sess.State != model.StateConnected {
		m.mu.Unlock()
		return
	}
	prev := m.sess
	next := prev
	if c.AddressChanged && c.Address != prev.Address {
		next.Address = c.Address
		next.Connected = true
	}
	if c.NetworkChanged {
		if n := model.NetworkFromProvider(c.Network); n != prev.Network {
			next.Network = n
		}
	}
	if next == prev {
		m.mu.Unlock()
		return
	}
	next = m.setLocked(next)
	m.mu.Unlock()

	m.notify(prev, next)
	if next.Address != prev.Address {
		m.logger.Info("session: wallet account changed", "session", next.ID, "from", prev.Address, "to", next.Address)
		m.publish(events.TopicSessionAddressChanged, events.AddressChanged{
			Meta:     events.Meta{SessionID: next.ID, Address: next.Address},
			Previous: prev.Address,
		})
	}
	if next.Network != prev.Network {
		m.logger.Info("session: wallet network changed", "session", next.ID, "from", prev.Network, "to", next.Network)
		m.publish(events.TopicSessionNetworkChanged, events.NetworkChanged{
			Meta:     events.Meta{SessionID: next.ID, Address: next.Address},
			Previous: prev.Network,
			Network:  next.Network,
		})
	}
}

// CheckConnection reconciles the session against the provider. If the
// provider is unreachable or reports not connected while the session is
// connected, the session is disconnected. A connected session without an
// address re-fetches it and disconnects on failure. Provider errors are
// logged, not returned; the resulting session is.
func (m *Machine) CheckConnection(ctx context.Context) model.Session {
	m.mu.Lock()
	gen := m.gen
	sess := m.sess
	m.mu.Unlock()

	connected, err := m.provider.IsConnected(ctx)
	if err != nil {
		m.logger.Warn("session: connectivity check failed", "session", sess.ID, "err", err)
	}
	if err != nil || !connected {
		if sess.Connected || sess.State == model.StateConnected {
			next, _ := m.disconnect(gen, events.CauseUnreachable, true)
			return next
		}
		return m.Snapshot()
	}

	if !sess.Connected || sess.Address != "" {
		return m.Snapshot()
	}

	// Connected but no address; should not happen, but recover if it does.
	addr, err := m.provider.GetAddress(ctx)
	if err != nil || addr == "" {
		m.logger.Warn("session: address re-fetch failed", "session", sess.ID, "err", err)
		next, _ := m.disconnect(gen, events.CauseAddressLookup, true)
		return next
	}
	m.mu.Lock()
	if gen != m.gen {
		sess := m.sess
		m.mu.Unlock()
		return sess
	}
	prev := m.sess
	next := prev
	next.Address = addr
	next = m.setLocked(next)
	m.mu.Unlock()
	m.notify(prev, next)
	return next
}

// SwitchNetwork checks that the wallet is on target. The wallet cannot be
// switched programmatically, so this never changes the session's network:
// it returns nil when the wallet already matches and
// model.ErrNetworkMismatch with instructions otherwise. A mismatch is also
// recorded in LastError.
func (m *Machine) SwitchNetwork(ctx context.Context, target model.Network) error {
	raw, err := m.provider.GetNetwork(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrNetworkQueryFailed, err)
	}
	if model.NetworkFromProvider(raw) == target {
		return nil
	}

	mismatch := fmt.Errorf("%w: please switch to %s in your wallet settings, then reconnect",
		model.ErrNetworkMismatch, target.DisplayName())

	m.mu.Lock()
	prev := m.sess
	next := prev
	next.LastError = mismatch.Error()
	next = m.setLocked(next)
	m.mu.Unlock()
	m.notify(prev, next)
	return mismatch
}

// ClearError drops LastError. A session in Error returns to Disconnected.
func (m *Machine) ClearError() model.Session {
	m.mu.Lock()
	prev := m.sess
	next := prev
	next.LastError = ""
	if next.State == model.StateError {
		next.State = model.StateDisconnected
	}
	if next == prev {
		m.mu.Unlock()
		return next
	}
	next = m.setLocked(next)
	m.mu.Unlock()
	m.notify(prev, next)
	return next
}

// Close stops the watcher without publishing a disconnect.
func (m *Machine) Close() {
	m.mu.Lock()
	m.gen++
	handle := m.watcher
	m.watcher = nil
	m.mu.Unlock()
	handle.Stop()
}

// setLocked stamps next, installs it as the current session and returns the
// stamped value. Callers hold m.mu.
func (m *Machine) setLocked(next model.Session) model.Session {
	if !next.Consistent() {
		panic(fmt.Sprintf("session %s: connected=%v with address %q", next.ID, next.Connected, next.Address))
	}
	if next.State != m.sess.State {
		metrics.SessionTransitions.WithLabelValues(string(next.State)).Inc()
	}
	next.UpdatedAt = time.Now().UTC()
	m.sess = next
	return next
}

func (m *Machine) notify(prev, next model.Session) {
	m.mu.Lock()
	observers := m.observers
	m.mu.Unlock()
	for _, o := range observers {
		o(prev, next)
	}
}

func (m *Machine) publish(topic string, event any) {
	if err := m.publisher.Publish(context.Background(), topic, event); err != nil {
		m.logger.Warn("session: publishing event failed", "topic", topic, "err", err)
	}
}
