// Package gate decides whether a transfer may proceed.
//
// Authorize is pure: it reads its inputs and returns a verdict. Callers
// evaluate it whenever an input changes and again immediately before
// submitting, since the session or snapshot may have moved in between.
package gate

import (
	"github.com/alfredjeanlab/rwa/internal/metrics"
	"github.com/alfredjeanlab/rwa/internal/model"
)

// AddressValidator reports whether s is a well-formed ledger address.
type AddressValidator func(s string) bool

// Authorize evaluates req against the session and the cached compliance
// snapshot. The first failing check wins:
//
//  1. NOT_CONNECTED: the session is not connected, snap is absent, or snap
//     belongs to another address than the session's (or the sender's).
//  2. NOT_WHITELISTED: the sender has not cleared verification.
//  3. INVALID_RECIPIENT: valid rejects the recipient, or it equals the sender.
//  4. ZERO_OR_NEGATIVE_AMOUNT: amount <= 0.
//  5. INSUFFICIENT_BALANCE: amount exceeds the snapshot balance.
func Authorize(sess model.Session, snap *model.ComplianceSnapshot, req model.TransferRequest, valid AddressValidator) model.Verdict {
	addr, ok := sess.ConnectedAddress()
	switch {
	case !ok, snap == nil, !snap.BelongsTo(sess), req.Sender != addr:
		return model.Deny(model.ReasonNotConnected)
	case !snap.IsWhitelisted:
		return model.Deny(model.ReasonNotWhitelisted)
	case !valid(req.Recipient), req.Recipient == req.Sender:
		return model.Deny(model.ReasonInvalidRecipient)
	case req.Amount <= 0:
		return model.Deny(model.ReasonZeroOrNegativeAmount)
	case req.Amount > snap.Balance:
		return model.Deny(model.ReasonInsufficientBalance)
	}
	return model.Allow()
}

// Record counts a verdict in the gate metrics. Authorize itself never
// records so that it stays side-effect free.
func Record(v model.Verdict) model.Verdict {
	metrics.Verdicts.WithLabelValues(string(v.Reason)).Inc()
	return v
}
