// Package transfer authorizes and submits token transfers.
package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/rwa/internal/compliance"
	"github.com/alfredjeanlab/rwa/internal/events"
	"github.com/alfredjeanlab/rwa/internal/gate"
	"github.com/alfredjeanlab/rwa/internal/idgen"
	"github.com/alfredjeanlab/rwa/internal/metrics"
	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/stellar"
)

// Sessions exposes the current wallet session.
type Sessions interface {
	Snapshot() model.Session
}

// Snapshots is the compliance cache as seen by the executor.
type Snapshots interface {
	Get(sess model.Session) (model.ComplianceSnapshot, bool)
	Refresh(ctx context.Context, sessionID, address string) (model.ComplianceSnapshot, error)
}

// Submitter sends an authorized transfer to the ledger and returns its
// transaction hash.
type Submitter interface {
	Submit(ctx context.Context, network model.Network, req model.TransferRequest) (string, error)
}

// Journal records transfer attempts. Journal failures never change an
// outcome.
type Journal interface {
	RecordTransfer(ctx context.Context, t *model.Transfer) error
}

// Preview is the gate's answer for a prospective transfer.
type Preview struct {
	Request      model.TransferRequest `json:"request"`
	Verdict      model.Verdict         `json:"verdict"`
	Message      string                `json:"message"`
	EstimatedFee int64                 `json:"estimated_fee"`
	// RecipientWhitelisted is set only when a recipient check was requested
	// and the compliance service answered. It is informational.
	RecipientWhitelisted *bool `json:"recipient_whitelisted,omitempty"`
}

// Executor runs transfers through the gate and on to the ledger.
type Executor struct {
	sessions  Sessions
	snapshots Snapshots
	fetcher   compliance.Fetcher
	submitter Submitter
	journal   Journal
	publisher events.Publisher
	validate  gate.AddressValidator
	logger    *slog.Logger

	// mu serializes Execute so two transfers cannot both spend the same
	// balance between authorization and submission.
	mu sync.Mutex
}

// Option configures an Executor.
type Option func(*Executor)

// WithJournal records every attempt in j.
func WithJournal(j Journal) Option {
	return func(e *Executor) { e.journal = j }
}

// WithRecipientFetcher enables recipient compliance previews.
func WithRecipientFetcher(f compliance.Fetcher) Option {
	return func(e *Executor) { e.fetcher = f }
}

// WithValidator overrides the address validator.
func WithValidator(v gate.AddressValidator) Option {
	return func(e *Executor) { e.validate = v }
}

// NewExecutor creates an executor. Addresses are validated with
// stellar.ValidAddress unless WithValidator is given.
func NewExecutor(sessions Sessions, snapshots Snapshots, submitter Submitter, pub events.Publisher, logger *slog.Logger, opts ...Option) *Executor {
	if pub == nil {
		pub = &events.NoopPublisher{}
	}
	e := &Executor{
		sessions:  sessions,
		snapshots: snapshots,
		submitter: submitter,
		publisher: pub,
		validate:  stellar.ValidAddress,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Authorize evaluates the gate for a transfer of amount stroops from the
// session's account to recipient.
func (e *Executor) Authorize(recipient string, amount int64) (model.Session, model.TransferRequest, model.Verdict) {
	sess := e.sessions.Snapshot()
	req := model.TransferRequest{Sender: sess.Address, Recipient: recipient, Amount: amount}

	var snap *model.ComplianceSnapshot
	if s, ok := e.snapshots.Get(sess); ok {
		snap = &s
	}
	return sess, req, gate.Record(gate.Authorize(sess, snap, req, e.validate))
}

// Preview authorizes without submitting. With checkRecipient set and a
// well-formed recipient, the recipient's whitelist status is looked up too.
func (e *Executor) Preview(ctx context.Context, recipient string, amount int64, checkRecipient bool) Preview {
	_, req, verdict := e.Authorize(recipient, amount)
	p := Preview{
		Request:      req,
		Verdict:      verdict,
		Message:      verdict.Reason.Message(),
		EstimatedFee: stellar.EstimateFee(),
	}
	if checkRecipient && e.fetcher != nil && e.validate(recipient) {
		rec, err := e.fetcher.Fetch(ctx, recipient)
		if err != nil {
			e.logger.Warn("transfer: recipient compliance lookup failed", "recipient", recipient, "err", err)
		} else {
			ok := rec.IsWhitelisted
			p.RecipientWhitelisted = &ok
		}
	}
	return p
}

// MaxAmount returns the balance from the session's current snapshot.
func (e *Executor) MaxAmount() (int64, bool) {
	snap, ok := e.snapshots.Get(e.sessions.Snapshot())
	if !ok {
		return 0, false
	}
	return snap.Balance, true
}

// Execute re-authorizes and, if allowed, submits the transfer. A gate
// rejection is returned as a rejected Transfer with a nil error. A ledger
// failure returns a failed Transfer and an error wrapping
// model.ErrTransferSubmissionFailed; the compliance snapshot is left alone
// so the caller may retry.
func (e *Executor) Execute(ctx context.Context, recipient string, amount int64) (model.Transfer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, req, verdict := e.Authorize(recipient, amount)

	id, err := idgen.Transfer()
	if err != nil {
		return model.Transfer{}, fmt.Errorf("generating transfer id: %w", err)
	}
	t := model.Transfer{
		ID:        id,
		SessionID: sess.ID,
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Amount:    req.Amount,
		Reason:    verdict.Reason,
		CreatedAt: time.Now().UTC(),
	}

	if !verdict.Allowed {
		t.Status = model.TransferRejected
		e.logger.Info("transfer: rejected", "id", t.ID, "reason", verdict.Reason)
		e.finish(ctx, &t)
		return t, nil
	}

	hash, err := e.submitter.Submit(ctx, sess.Network, req)
	if err != nil {
		t.Status = model.TransferFailed
		t.Error = err.Error()
		e.logger.Warn("transfer: submission failed", "id", t.ID, "err", err)
		e.finish(ctx, &t)
		return t, fmt.Errorf("%w: %w", model.ErrTransferSubmissionFailed, err)
	}

	t.Status = model.TransferSubmitted
	t.TxHash = hash
	e.logger.Info("transfer: submitted", "id", t.ID, "hash", hash, "amount", stellar.FormatAmount(t.Amount))
	e.finish(ctx, &t)

	// Pick up the new balance; the snapshot is kept if this fails.
	if _, err := e.snapshots.Refresh(ctx, sess.ID, req.Sender); err != nil {
		e.logger.Warn("transfer: post-transfer compliance refresh failed", "id", t.ID, "err", err)
	}
	return t, nil
}

func (e *Executor) finish(ctx context.Context, t *model.Transfer) {
	metrics.Transfers.WithLabelValues(string(t.Status)).Inc()
	if e.journal != nil {
		if err := e.journal.RecordTransfer(context.WithoutCancel(ctx), t); err != nil {
			e.logger.Warn("transfer: journal write failed", "id", t.ID, "err", err)
		}
	}
	event := events.TransferRecorded{
		Meta:     events.Meta{SessionID: t.SessionID, Address: t.Sender},
		Transfer: *t,
	}
	if err := e.publisher.Publish(context.WithoutCancel(ctx), events.TransferTopic(t.Status), event); err != nil {
		e.logger.Warn("transfer: publishing event failed", "id", t.ID, "err", err)
	}
}
