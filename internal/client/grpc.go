package client

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// GRPCClient implements WalletClient over gRPC. Messages use the JSON codec
// registered by package rpc.
type GRPCClient struct {
	conn  *grpc.ClientConn
	token string
}

// NewGRPCClient connects to the given gRPC address and returns a client.
// Extra dial options are appended to the defaults.
func NewGRPCClient(addr, token string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpc.CodecName)),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial: %w", err)
	}
	return &GRPCClient{conn: conn, token: token}, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) invoke(ctx context.Context, method string, in, out any) error {
	if c.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
	}
	return c.conn.Invoke(ctx, rpc.Method(method), in, out)
}

func (c *GRPCClient) Health(ctx context.Context) (string, error) {
	var resp rpc.HealthResponse
	if err := c.invoke(ctx, rpc.MethodHealth, &rpc.Empty{}, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- Session ---

func (c *GRPCClient) session(ctx context.Context, method string, in any) (*model.Session, error) {
	var resp rpc.SessionResponse
	if err := c.invoke(ctx, method, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Session, nil
}

func (c *GRPCClient) Session(ctx context.Context) (*model.Session, error) {
	return c.session(ctx, rpc.MethodGetSession, &rpc.Empty{})
}

func (c *GRPCClient) Connect(ctx context.Context) (*model.Session, error) {
	return c.session(ctx, rpc.MethodConnect, &rpc.Empty{})
}

func (c *GRPCClient) Disconnect(ctx context.Context) (*model.Session, error) {
	return c.session(ctx, rpc.MethodDisconnect, &rpc.Empty{})
}

func (c *GRPCClient) CheckConnection(ctx context.Context) (*model.Session, error) {
	return c.session(ctx, rpc.MethodCheckConnection, &rpc.Empty{})
}

func (c *GRPCClient) SwitchNetwork(ctx context.Context, network string) (*model.Session, error) {
	return c.session(ctx, rpc.MethodSwitchNetwork, &rpc.SwitchNetworkRequest{Network: network})
}

func (c *GRPCClient) ClearError(ctx context.Context) (*model.Session, error) {
	return c.session(ctx, rpc.MethodClearError, &rpc.Empty{})
}

// --- Compliance ---

func (c *GRPCClient) Compliance(ctx context.Context) (*rpc.ComplianceResponse, error) {
	var resp rpc.ComplianceResponse
	if err := c.invoke(ctx, rpc.MethodGetCompliance, &rpc.Empty{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *GRPCClient) RefreshCompliance(ctx context.Context) (*rpc.ComplianceResponse, error) {
	var resp rpc.ComplianceResponse
	if err := c.invoke(ctx, rpc.MethodRefreshCompliance, &rpc.Empty{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Transfers ---

func (c *GRPCClient) Authorize(ctx context.Context, in *rpc.TransferInput) (*rpc.Preview, error) {
	var resp rpc.Preview
	if err := c.invoke(ctx, rpc.MethodAuthorize, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *GRPCClient) Transfer(ctx context.Context, in *rpc.TransferInput) (*rpc.TransferResponse, error) {
	var resp rpc.TransferResponse
	if err := c.invoke(ctx, rpc.MethodTransfer, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *GRPCClient) MaxAmount(ctx context.Context) (*rpc.MaxAmountResponse, error) {
	var resp rpc.MaxAmountResponse
	if err := c.invoke(ctx, rpc.MethodMaxAmount, &rpc.Empty{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Journal ---

func (c *GRPCClient) ListTransfers(ctx context.Context, req *rpc.ListTransfersRequest) ([]*model.Transfer, error) {
	var resp rpc.ListTransfersResponse
	if err := c.invoke(ctx, rpc.MethodListTransfers, req, &resp); err != nil {
		return nil, err
	}
	return resp.Transfers, nil
}

func (c *GRPCClient) ListEvents(ctx context.Context, req *rpc.ListEventsRequest) ([]*model.Event, error) {
	var resp rpc.ListEventsResponse
	if err := c.invoke(ctx, rpc.MethodListEvents, req, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}
