// Package events defines the topics and payloads the wallet service emits,
// and the publishers that carry them.
package events

import (
	"context"

	"github.com/alfredjeanlab/rwa/internal/model"
)

const (
	TopicSessionConnected      = "rwa.session.connected"
	TopicSessionConnectFailed  = "rwa.session.connect_failed"
	TopicSessionDisconnected   = "rwa.session.disconnected"
	TopicSessionAddressChanged = "rwa.session.address_changed"
	TopicSessionNetworkChanged = "rwa.session.network_changed"

	TopicComplianceRefreshed     = "rwa.compliance.refreshed"
	TopicComplianceRefreshFailed = "rwa.compliance.refresh_failed"

	TopicTransferRejected  = "rwa.transfer.rejected"
	TopicTransferSubmitted = "rwa.transfer.submitted"
	TopicTransferFailed    = "rwa.transfer.failed"
)

// AllTopics matches every topic above.
const AllTopics = "rwa.>"

// Disconnect causes.
const (
	CauseUser          = "user"
	CauseWalletLocked  = "wallet_locked"
	CauseUnreachable   = "wallet_unreachable"
	CauseAddressLookup = "address_lookup_failed"
)

// Meta identifies the session and account an event concerns.
type Meta struct {
	SessionID string `json:"session_id"`
	Address   string `json:"address,omitempty"`
}

// EventMeta returns m; payloads embed Meta to satisfy Scoped.
func (m Meta) EventMeta() Meta { return m }

// Scoped is implemented by every payload in this package.
type Scoped interface {
	EventMeta() Meta
}

type SessionConnected struct {
	Meta
	Network model.Network `json:"network"`
}

type SessionConnectFailed struct {
	Meta
	Error string `json:"error"`
}

type SessionDisconnected struct {
	Meta
	Cause string `json:"cause"`
}

type AddressChanged struct {
	Meta
	Previous string `json:"previous"`
}

type NetworkChanged struct {
	Meta
	Previous model.Network `json:"previous"`
	Network  model.Network `json:"network"`
}

type ComplianceRefreshed struct {
	Meta
	Snapshot model.ComplianceSnapshot `json:"snapshot"`
}

type ComplianceRefreshFailed struct {
	Meta
	Error string `json:"error"`
}

// TransferRecorded carries a transfer outcome on one of the transfer topics.
type TransferRecorded struct {
	Meta
	Transfer model.Transfer `json:"transfer"`
}

// TransferTopic returns the topic for a transfer's status.
func TransferTopic(status model.TransferStatus) string {
	switch status {
	case model.TransferSubmitted:
		return TopicTransferSubmitted
	case model.TransferFailed:
		return TopicTransferFailed
	default:
		return TopicTransferRejected
	}
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
