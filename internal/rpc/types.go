package rpc

import "github.com/alfredjeanlab/rwa/internal/model"

// Method names of the wallet service.
const (
	MethodHealth            = "Health"
	MethodGetSession        = "GetSession"
	MethodConnect           = "Connect"
	MethodDisconnect        = "Disconnect"
	MethodCheckConnection   = "CheckConnection"
	MethodSwitchNetwork     = "SwitchNetwork"
	MethodClearError        = "ClearError"
	MethodRefreshCompliance = "RefreshCompliance"
	MethodGetCompliance     = "GetCompliance"
	MethodAuthorize         = "Authorize"
	MethodTransfer          = "Transfer"
	MethodMaxAmount         = "MaxAmount"
	MethodListTransfers     = "ListTransfers"
	MethodListEvents        = "ListEvents"
)

type Empty struct{}

type HealthResponse struct {
	Status string `json:"status"`
}

type SessionResponse struct {
	Session model.Session `json:"session"`
}

type SwitchNetworkRequest struct {
	Network string `json:"network"`
}

// ComplianceResponse carries the snapshot plus its balance as a decimal
// token amount.
type ComplianceResponse struct {
	Snapshot model.ComplianceSnapshot `json:"snapshot"`
	Balance  string                   `json:"balance"`
}

// TransferInput is a transfer as the user typed it; Amount is a decimal
// token amount.
type TransferInput struct {
	Recipient      string `json:"recipient"`
	Amount         string `json:"amount"`
	CheckRecipient bool   `json:"check_recipient,omitempty"`
}

// Preview is the gate's verdict on a prospective transfer.
type Preview struct {
	Sender               string       `json:"sender"`
	Recipient            string       `json:"recipient"`
	Amount               string       `json:"amount"`
	Allowed              bool         `json:"allowed"`
	Reason               model.Reason `json:"reason"`
	Message              string       `json:"message"`
	EstimatedFee         string       `json:"estimated_fee"`
	RecipientWhitelisted *bool        `json:"recipient_whitelisted,omitempty"`
}

type TransferResponse struct {
	Transfer model.Transfer `json:"transfer"`
	Amount   string         `json:"amount"`
	Message  string         `json:"message"`
}

type MaxAmountResponse struct {
	Amount  string `json:"amount"`
	Stroops int64  `json:"stroops"`
}

type ListTransfersRequest struct {
	Address string `json:"address,omitempty"`
	Status  string `json:"status,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

type ListTransfersResponse struct {
	Transfers []*model.Transfer `json:"transfers"`
}

type ListEventsRequest struct {
	Topic string `json:"topic,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

type ListEventsResponse struct {
	Events []*model.Event `json:"events"`
}
