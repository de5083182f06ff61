package model

import "time"

// ComplianceSnapshot is the cached verification state for one address.
// Balance is in stroops and is never negative.
type ComplianceSnapshot struct {
	Address       string    `json:"address"`
	IsWhitelisted bool      `json:"is_whitelisted"`
	KYCVerified   bool      `json:"kyc_verified"`
	Balance       int64     `json:"balance"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// BelongsTo reports whether the snapshot was produced for the session's
// current address. A snapshot for any other address is stale.
func (c ComplianceSnapshot) BelongsTo(s Session) bool {
	addr, ok := s.ConnectedAddress()
	return ok && c.Address == addr
}
