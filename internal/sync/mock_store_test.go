package sync

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/store"
)

// mockStore is a minimal in-memory journal for sync tests.
type mockStore struct {
	events    []*model.Event
	transfers []*model.Transfer
	listErr   error
	txCount   int
}

func newMockStore() *mockStore {
	return &mockStore{}
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) RecordEvent(_ context.Context, e *model.Event) error {
	e.ID = int64(len(m.events) + 1)
	m.events = append(m.events, e)
	return nil
}

func (m *mockStore) ListEvents(_ context.Context, _ model.EventFilter) ([]*model.Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	// Newest first, like the real store.
	out := make([]*model.Event, 0, len(m.events))
	for i := len(m.events) - 1; i >= 0; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}

func (m *mockStore) RecordTransfer(_ context.Context, t *model.Transfer) error {
	for _, existing := range m.transfers {
		if existing.ID == t.ID {
			return errors.New("duplicate transfer")
		}
	}
	m.transfers = append(m.transfers, t)
	return nil
}

func (m *mockStore) ListTransfers(_ context.Context, _ model.TransferFilter) ([]*model.Transfer, error) {
	out := make([]*model.Transfer, 0, len(m.transfers))
	for i := len(m.transfers) - 1; i >= 0; i-- {
		out = append(out, m.transfers[i])
	}
	return out, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	m.txCount++
	return fn(m)
}

func (m *mockStore) Close() error { return nil }
