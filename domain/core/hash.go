package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash fingerprints table content so a stored run can be matched to the
// exact data it scored.
type Hash string

// NewHash hashes data with SHA-256
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Short returns the first 12 hex characters, enough for display
func (h Hash) Short() string {
	if len(h) < 12 {
		return string(h)
	}
	return string(h[:12])
}
