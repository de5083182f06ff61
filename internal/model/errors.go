package model

import "errors"

var (
	// ErrProviderDenied means the user rejected access or the provider was
	// unreachable.
	ErrProviderDenied = errors.New("wallet access denied")
	// ErrAddressUnavailable means the provider is connected but reported no address.
	ErrAddressUnavailable = errors.New("failed to get wallet address")
	// ErrNetworkQueryFailed means the provider could not report its network.
	ErrNetworkQueryFailed = errors.New("failed to query wallet network")
	// ErrNetworkMismatch means the wallet is on a different network than
	// requested and the user must switch it by hand.
	ErrNetworkMismatch = errors.New("wallet is on a different network")
	// ErrComplianceFetchFailed is transient; the previous snapshot is kept.
	ErrComplianceFetchFailed = errors.New("compliance fetch failed")
	// ErrTransferSubmissionFailed means the ledger did not accept an
	// authorized transfer; compliance state is left alone.
	ErrTransferSubmissionFailed = errors.New("transfer submission failed")

	ErrConnectInProgress = errors.New("wallet connection already in progress")
	ErrAlreadyConnected  = errors.New("wallet already connected")
	// ErrConnectAborted means a disconnect superseded an in-flight connect.
	ErrConnectAborted = errors.New("wallet connection aborted by disconnect")
	ErrNotConnected   = errors.New("wallet not connected")
)
