package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alfredjeanlab/rwa/internal/compliance"
	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/session"
	"github.com/alfredjeanlab/rwa/internal/stellar"
	"github.com/alfredjeanlab/rwa/internal/store"
	"github.com/alfredjeanlab/rwa/internal/transfer"
)

var (
	alice = stellar.EncodeAddress([32]byte{1})
	bob   = stellar.EncodeAddress([32]byte{2})
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProvider is a wallet that grants access and reports a fixed account.
type fakeProvider struct {
	mu        sync.Mutex
	connected bool
	denied    bool
	address   string
	network   string
}

func (p *fakeProvider) IsConnected(context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected, nil
}

func (p *fakeProvider) RequestAccess(context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.denied {
		return false, nil
	}
	p.connected = true
	return true, nil
}

func (p *fakeProvider) GetAddress(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.address, nil
}

func (p *fakeProvider) GetNetwork(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.network, nil
}

// fakeFetcher serves compliance records by address.
type fakeFetcher struct {
	mu      sync.Mutex
	records map[string]model.ComplianceSnapshot
	err     error
}

func (f *fakeFetcher) Fetch(_ context.Context, address string) (model.ComplianceSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.ComplianceSnapshot{}, f.err
	}
	rec, ok := f.records[address]
	if !ok {
		return model.ComplianceSnapshot{}, errors.New("unknown address")
	}
	return rec, nil
}

type fakeSubmitter struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *fakeSubmitter) Submit(context.Context, model.Network, model.TransferRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "deadbeef", nil
}

// memStore is an in-memory journal.
type memStore struct {
	mu        sync.Mutex
	events    []*model.Event
	transfers []*model.Transfer
}

var _ store.Store = (*memStore)(nil)

func (m *memStore) RecordEvent(_ context.Context, e *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = int64(len(m.events) + 1)
	e.CreatedAt = time.Now().UTC()
	m.events = append(m.events, e)
	return nil
}

func (m *memStore) ListEvents(_ context.Context, f model.EventFilter) ([]*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Event
	for i := len(m.events) - 1; i >= 0; i-- {
		e := m.events[i]
		if f.Topic != "" && e.Topic != f.Topic {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) RecordTransfer(_ context.Context, t *model.Transfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.transfers = append(m.transfers, &cp)
	return nil
}

func (m *memStore) ListTransfers(_ context.Context, f model.TransferFilter) ([]*model.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Transfer
	for _, t := range m.transfers {
		if f.Address != "" && t.Sender != f.Address && t.Recipient != f.Address {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *memStore) Close() error { return nil }

type testEnv struct {
	srv       *WalletServer
	provider  *fakeProvider
	fetcher   *fakeFetcher
	submitter *fakeSubmitter
	store     *memStore
	recorder  *Recorder
	machine   *session.Machine
}

// newTestServer wires a WalletServer the way the daemon does, against fakes.
// alice is whitelisted with 100 tokens; bob is known but not whitelisted.
func newTestServer(t *testing.T) *testEnv {
	t.Helper()
	logger := quietLogger()
	env := &testEnv{
		provider: &fakeProvider{address: alice, network: "TESTNET"},
		fetcher: &fakeFetcher{records: map[string]model.ComplianceSnapshot{
			alice: {IsWhitelisted: true, KYCVerified: true, Balance: 100_0000000},
			bob:   {IsWhitelisted: false},
		}},
		submitter: &fakeSubmitter{},
		store:     &memStore{},
	}
	env.recorder = NewRecorder(env.store, nil, logger)
	env.machine = session.New("ses-test", env.provider, env.recorder, time.Hour, logger)
	t.Cleanup(env.machine.Close)

	cache := compliance.NewCache(env.fetcher, env.recorder, logger)
	env.machine.Observe(cache.Observe)
	exec := transfer.NewExecutor(env.machine, cache, env.submitter, env.recorder, logger,
		transfer.WithJournal(env.store),
		transfer.WithRecipientFetcher(env.fetcher),
	)
	env.srv = NewWalletServer(env.machine, cache, exec, env.store, env.recorder, logger)
	return env
}
