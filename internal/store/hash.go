package store

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// MonikerKey computes the deterministic identity key shared by every moniker
// with the same (scheme, identifier), regardless of which dump produced it.
// The NUL separator keeps ("a", "b:c") and ("a:b", "c") distinct.
func MonikerKey(scheme, identifier string) string {
	h := blake3.New(16, nil)
	h.Write([]byte(scheme))
	h.Write([]byte{0})
	h.Write([]byte(identifier))
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash hashes document contents for the duplicate-URI integrity check.
func ContentHash(contents string) string {
	sum := blake3.Sum256([]byte(contents))
	return hex.EncodeToString(sum[:])
}
