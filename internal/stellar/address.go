// Package stellar holds the ledger-specific rules the wallet service needs:
// account address validation and conversion between decimal token amounts
// and stroops.
package stellar

import "github.com/stellar/go/strkey"

// AddressLength is the length of an encoded account ID.
const AddressLength = 56

// ValidAddress reports whether s is a well-formed account ID: a G-prefixed
// StrKey carrying a 32-byte ed25519 public key and a valid checksum.
func ValidAddress(s string) bool {
	return len(s) == AddressLength && strkey.IsValidEd25519PublicKey(s)
}

// EncodeAddress encodes a raw ed25519 public key as an account ID.
func EncodeAddress(key [32]byte) string {
	return strkey.MustEncode(strkey.VersionByteAccountID, key[:])
}
