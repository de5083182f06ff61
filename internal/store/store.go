// Package store defines the audit journal. The journal records what the
// service did; it never holds session state, which is rebuilt from the
// wallet on every start.
package store

import (
	"context"

	"github.com/alfredjeanlab/rwa/internal/model"
)

// Store is the append-only journal of events and transfer attempts.
type Store interface {
	// RecordEvent appends e and fills in its ID and CreatedAt.
	RecordEvent(ctx context.Context, e *model.Event) error
	// ListEvents returns matching events, newest first.
	ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)

	RecordTransfer(ctx context.Context, t *model.Transfer) error
	// ListTransfers returns matching transfers, newest first.
	ListTransfers(ctx context.Context, filter model.TransferFilter) ([]*model.Transfer, error)

	// RunInTransaction runs fn against a store bound to one transaction,
	// committing when fn returns nil.
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	Close() error
}
