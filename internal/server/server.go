package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alfredjeanlab/rwa/internal/compliance"
	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/rpc"
	"github.com/alfredjeanlab/rwa/internal/session"
	"github.com/alfredjeanlab/rwa/internal/stellar"
	"github.com/alfredjeanlab/rwa/internal/store"
	"github.com/alfredjeanlab/rwa/internal/transfer"
)

// defaultListLimit caps journal listings when the caller asks for none.
const defaultListLimit = 100

var (
	// errNoJournal is returned by journal reads when the daemon runs
	// without a database.
	errNoJournal = errors.New("audit journal not configured")
	errNotFound  = errors.New("no compliance snapshot for the connected address")
)

// inputError indicates invalid user input.
// Transport layers map this to 400 / InvalidArgument.
type inputError string

func (e inputError) Error() string { return string(e) }

// WalletServer exposes the wallet session, compliance cache, and transfer
// executor to the HTTP and gRPC transports. Both transports call the methods
// below; domain errors are mapped to status codes at the edge.
type WalletServer struct {
	sessions *session.Machine
	cache    *compliance.Cache
	executor *transfer.Executor
	store    store.Store // nil when the journal is disabled
	recorder *Recorder
	logger   *slog.Logger
}

// NewWalletServer wires the service. st may be nil; rec supplies the SSE
// stream and must be the publisher the session and cache were built with.
func NewWalletServer(m *session.Machine, c *compliance.Cache, e *transfer.Executor, st store.Store, rec *Recorder, logger *slog.Logger) *WalletServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &WalletServer{
		sessions: m,
		cache:    c,
		executor: e,
		store:    st,
		recorder: rec,
		logger:   logger,
	}
}

// Health returns the service health status.
func (s *WalletServer) Health(_ context.Context, _ *rpc.Empty) (*rpc.HealthResponse, error) {
	return &rpc.HealthResponse{Status: "ok"}, nil
}

func (s *WalletServer) GetSession(_ context.Context, _ *rpc.Empty) (*rpc.SessionResponse, error) {
	return &rpc.SessionResponse{Session: s.sessions.Snapshot()}, nil
}

// Connect runs the wallet handshake. On failure the session is left in the
// error state and the error is returned.
func (s *WalletServer) Connect(ctx context.Context, _ *rpc.Empty) (*rpc.SessionResponse, error) {
	sess, err := s.sessions.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return &rpc.SessionResponse{Session: sess}, nil
}

func (s *WalletServer) Disconnect(_ context.Context, _ *rpc.Empty) (*rpc.SessionResponse, error) {
	return &rpc.SessionResponse{Session: s.sessions.Disconnect()}, nil
}

func (s *WalletServer) CheckConnection(ctx context.Context, _ *rpc.Empty) (*rpc.SessionResponse, error) {
	return &rpc.SessionResponse{Session: s.sessions.CheckConnection(ctx)}, nil
}

// SwitchNetwork asks for the wallet to be on the given network. The wallet
// can only be switched by the user, so a mismatch is an error carrying the
// instruction.
func (s *WalletServer) SwitchNetwork(ctx context.Context, req *rpc.SwitchNetworkRequest) (*rpc.SessionResponse, error) {
	target, ok := model.ParseNetwork(req.Network)
	if !ok {
		return nil, inputError("network must be testnet or mainnet")
	}
	if err := s.sessions.SwitchNetwork(ctx, target); err != nil {
		return nil, err
	}
	return &rpc.SessionResponse{Session: s.sessions.Snapshot()}, nil
}

func (s *WalletServer) ClearError(_ context.Context, _ *rpc.Empty) (*rpc.SessionResponse, error) {
	return &rpc.SessionResponse{Session: s.sessions.ClearError()}, nil
}

// RefreshCompliance fetches a fresh snapshot for the connected address.
func (s *WalletServer) RefreshCompliance(ctx context.Context, _ *rpc.Empty) (*rpc.ComplianceResponse, error) {
	sess := s.sessions.Snapshot()
	addr, ok := sess.ConnectedAddress()
	if !ok {
		return nil, model.ErrNotConnected
	}
	snap, err := s.cache.Refresh(ctx, sess.ID, addr)
	if err != nil {
		return nil, err
	}
	return complianceResponse(snap), nil
}

// GetCompliance returns the cached snapshot if it belongs to the connected
// address.
func (s *WalletServer) GetCompliance(_ context.Context, _ *rpc.Empty) (*rpc.ComplianceResponse, error) {
	snap, ok := s.cache.Get(s.sessions.Snapshot())
	if !ok {
		return nil, errNotFound
	}
	return complianceResponse(snap), nil
}

// Authorize previews a transfer without submitting it.
func (s *WalletServer) Authorize(ctx context.Context, req *rpc.TransferInput) (*rpc.Preview, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	p := s.executor.Preview(ctx, req.Recipient, amount, req.CheckRecipient)
	return previewToRPC(p), nil
}

// Transfer authorizes and, if allowed, submits a transfer. A rejected
// transfer is a successful call whose transfer has status "rejected".
func (s *WalletServer) Transfer(ctx context.Context, req *rpc.TransferInput) (*rpc.TransferResponse, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	t, err := s.executor.Execute(ctx, req.Recipient, amount)
	if err != nil {
		return nil, err
	}
	return transferResponse(t), nil
}

// MaxAmount returns the whole cached balance, the most a transfer may move.
func (s *WalletServer) MaxAmount(_ context.Context, _ *rpc.Empty) (*rpc.MaxAmountResponse, error) {
	balance, ok := s.executor.MaxAmount()
	if !ok {
		return nil, errNotFound
	}
	return &rpc.MaxAmountResponse{Amount: stellar.FormatAmount(balance), Stroops: balance}, nil
}

// ListTransfers reads transfer attempts from the journal.
func (s *WalletServer) ListTransfers(ctx context.Context, req *rpc.ListTransfersRequest) (*rpc.ListTransfersResponse, error) {
	if s.store == nil {
		return nil, errNoJournal
	}
	if req.Limit < 0 {
		return nil, inputError("limit must not be negative")
	}
	filter := model.TransferFilter{
		Address: req.Address,
		Status:  model.TransferStatus(req.Status),
		Limit:   req.Limit,
	}
	if filter.Limit == 0 {
		filter.Limit = defaultListLimit
	}
	transfers, err := s.store.ListTransfers(ctx, filter)
	if err != nil {
		return nil, err
	}
	if transfers == nil {
		transfers = []*model.Transfer{}
	}
	return &rpc.ListTransfersResponse{Transfers: transfers}, nil
}

// ListEvents reads journaled events, newest first.
func (s *WalletServer) ListEvents(ctx context.Context, req *rpc.ListEventsRequest) (*rpc.ListEventsResponse, error) {
	if s.store == nil {
		return nil, errNoJournal
	}
	if req.Limit < 0 {
		return nil, inputError("limit must not be negative")
	}
	filter := model.EventFilter{Topic: req.Topic, Limit: req.Limit}
	if filter.Limit == 0 {
		filter.Limit = defaultListLimit
	}
	evts, err := s.store.ListEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	if evts == nil {
		evts = []*model.Event{}
	}
	return &rpc.ListEventsResponse{Events: evts}, nil
}

func parseAmount(s string) (int64, error) {
	amount, err := stellar.ParseAmount(s)
	if err != nil {
		return 0, inputError(err.Error())
	}
	return amount, nil
}

func complianceResponse(snap model.ComplianceSnapshot) *rpc.ComplianceResponse {
	return &rpc.ComplianceResponse{Snapshot: snap, Balance: stellar.FormatAmount(snap.Balance)}
}

func previewToRPC(p transfer.Preview) *rpc.Preview {
	return &rpc.Preview{
		Sender:               p.Request.Sender,
		Recipient:            p.Request.Recipient,
		Amount:               stellar.FormatAmount(p.Request.Amount),
		Allowed:              p.Verdict.Allowed,
		Reason:               p.Verdict.Reason,
		Message:              p.Message,
		EstimatedFee:         stellar.FormatAmount(p.EstimatedFee),
		RecipientWhitelisted: p.RecipientWhitelisted,
	}
}

func transferResponse(t model.Transfer) *rpc.TransferResponse {
	msg := t.Reason.Message()
	if t.Status == model.TransferSubmitted {
		msg = "transfer submitted"
	}
	return &rpc.TransferResponse{
		Transfer: t,
		Amount:   stellar.FormatAmount(t.Amount),
		Message:  msg,
	}
}
