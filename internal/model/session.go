package model

import "time"

// Network is the ledger network a wallet is pointed at.
type Network string

const (
	NetworkTestnet Network = "testnet"
	NetworkMainnet Network = "mainnet"
)

// ProviderNetworkPublic is the provider's name for the main network.
const ProviderNetworkPublic = "PUBLIC"

// NetworkFromProvider maps the provider's network name to a Network.
// "PUBLIC" is mainnet; anything else is testnet.
func NetworkFromProvider(name string) Network {
	if name == ProviderNetworkPublic {
		return NetworkMainnet
	}
	return NetworkTestnet
}

// ParseNetwork validates a user-supplied network name.
func ParseNetwork(s string) (Network, bool) {
	switch Network(s) {
	case NetworkTestnet, NetworkMainnet:
		return Network(s), true
	}
	return "", false
}

// DisplayName returns the name users see in the wallet's settings.
func (n Network) DisplayName() string {
	if n == NetworkMainnet {
		return "Mainnet (PUBLIC)"
	}
	return "Testnet"
}

// State is the lifecycle state of a wallet session.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateError        State = "error"
)

// Session is the process's local belief about the current wallet connection.
// Address is non-empty if and only if Connected is true. Network keeps its
// last known value after a disconnect.
type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	Connected bool      `json:"connected"`
	Address   string    `json:"address,omitempty"`
	Network   Network   `json:"network"`
	LastError string    `json:"last_error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns the disconnected default.
func NewSession(id string) Session {
	return Session{
		ID:        id,
		State:     StateDisconnected,
		Network:   NetworkTestnet,
		UpdatedAt: time.Now().UTC(),
	}
}

// ConnectedAddress returns the session's address and whether it has one.
func (s Session) ConnectedAddress() (string, bool) {
	if !s.Connected || s.Address == "" {
		return "", false
	}
	return s.Address, true
}

// Consistent reports whether the connected/address invariant holds.
func (s Session) Consistent() bool {
	return s.Connected == (s.Address != "")
}
