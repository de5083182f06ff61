package model

import "time"

// TransferRequest is a user-initiated intent to move tokens. Amount is in
// stroops.
type TransferRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

// Reason explains a transfer verdict.
type Reason string

const (
	ReasonOK                   Reason = "OK"
	ReasonNotConnected         Reason = "NOT_CONNECTED"
	ReasonNotWhitelisted       Reason = "NOT_WHITELISTED"
	ReasonInvalidRecipient     Reason = "INVALID_RECIPIENT"
	ReasonInsufficientBalance  Reason = "INSUFFICIENT_BALANCE"
	ReasonZeroOrNegativeAmount Reason = "ZERO_OR_NEGATIVE_AMOUNT"
)

var reasonMessages = map[Reason]string{
	ReasonOK:                   "transfer allowed",
	ReasonNotConnected:         "connect your wallet and refresh compliance data before transferring",
	ReasonNotWhitelisted:       "your address is not verified; transfers are blocked until verification is complete",
	ReasonInvalidRecipient:     "recipient must be a valid address different from the sender",
	ReasonInsufficientBalance:  "amount exceeds available balance",
	ReasonZeroOrNegativeAmount: "amount must be greater than zero",
}

// Message returns a human-readable explanation of the reason.
func (r Reason) Message() string {
	if m, ok := reasonMessages[r]; ok {
		return m
	}
	return string(r)
}

// Verdict is the outcome of authorizing a transfer.
type Verdict struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason"`
}

// Allow is the verdict for a permitted transfer.
func Allow() Verdict { return Verdict{Allowed: true, Reason: ReasonOK} }

// Deny returns a rejecting verdict with the given reason.
func Deny(r Reason) Verdict { return Verdict{Reason: r} }

// TransferStatus is the outcome of a transfer attempt.
type TransferStatus string

const (
	TransferRejected  TransferStatus = "rejected"
	TransferSubmitted TransferStatus = "submitted"
	TransferFailed    TransferStatus = "failed"
)

// Transfer is a journaled transfer attempt.
type Transfer struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Sender    string         `json:"sender"`
	Recipient string         `json:"recipient"`
	Amount    int64          `json:"amount"`
	Reason    Reason         `json:"reason"`
	Status    TransferStatus `json:"status"`
	TxHash    string         `json:"tx_hash,omitempty"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// TransferFilter narrows a journal transfer listing. Address matches either
// side of the transfer. Limit 0 returns everything.
type TransferFilter struct {
	Address   string
	SessionID string
	Status    TransferStatus
	Limit     int
}
