// Package idgen generates short, URL-safe identifiers for sessions and
// journaled transfers.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

const (
	SessionPrefix  = "ses-"
	TransferPrefix = "tx-"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 12

// Session returns a new session ID.
func Session() (string, error) {
	return WithPrefix(SessionPrefix)
}

// Transfer returns a new transfer ID.
func Transfer() (string, error) {
	return WithPrefix(TransferPrefix)
}

// WithPrefix returns a new unique ID with the given prefix.
func WithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// MustSession is Session for callers that cannot proceed without an ID.
func MustSession() string {
	id, err := Session()
	if err != nil {
		panic(err)
	}
	return id
}
