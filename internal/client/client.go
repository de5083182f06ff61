// Package client provides a transport-agnostic interface for the wallet
// daemon, with HTTP/JSON and gRPC implementations.
package client

import (
	"context"

	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/rpc"
)

// WalletClient is the interface that all rwa CLI commands use to talk to the
// daemon. It is implemented by HTTPClient (default) and GRPCClient.
type WalletClient interface {
	Health(ctx context.Context) (string, error)

	// Session
	Session(ctx context.Context) (*model.Session, error)
	Connect(ctx context.Context) (*model.Session, error)
	Disconnect(ctx context.Context) (*model.Session, error)
	CheckConnection(ctx context.Context) (*model.Session, error)
	SwitchNetwork(ctx context.Context, network string) (*model.Session, error)
	ClearError(ctx context.Context) (*model.Session, error)

	// Compliance
	Compliance(ctx context.Context) (*rpc.ComplianceResponse, error)
	RefreshCompliance(ctx context.Context) (*rpc.ComplianceResponse, error)

	// Transfers
	Authorize(ctx context.Context, in *rpc.TransferInput) (*rpc.Preview, error)
	Transfer(ctx context.Context, in *rpc.TransferInput) (*rpc.TransferResponse, error)
	MaxAmount(ctx context.Context) (*rpc.MaxAmountResponse, error)

	// Journal
	ListTransfers(ctx context.Context, req *rpc.ListTransfersRequest) ([]*model.Transfer, error)
	ListEvents(ctx context.Context, req *rpc.ListEventsRequest) ([]*model.Event, error)

	Close() error
}

var (
	_ WalletClient = (*HTTPClient)(nil)
	_ WalletClient = (*GRPCClient)(nil)
)
