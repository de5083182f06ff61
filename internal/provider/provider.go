// Package provider defines the contract the wallet service consumes from an
// external browser wallet and an HTTP implementation that reaches the wallet
// through a bridge process.
package provider

import "context"

// Provider is the external wallet. It offers no push notifications; callers
// discover out-of-band changes by polling GetAddress and GetNetwork.
type Provider interface {
	// IsConnected reports whether the wallet is installed and reachable.
	IsConnected(ctx context.Context) (bool, error)
	// RequestAccess asks the user to authorize this application. It blocks
	// until the user answers.
	RequestAccess(ctx context.Context) (bool, error)
	// GetAddress returns the active account, or "" when the wallet is locked
	// or has not granted access.
	GetAddress(ctx context.Context) (string, error)
	// GetNetwork returns the wallet's network name ("PUBLIC" or "TESTNET").
	GetNetwork(ctx context.Context) (string, error)
}
