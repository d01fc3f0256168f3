// Package core defines the block-identity vocabulary shared by the storage
// interface and the stream package: Cursor, block status, and headers.
package core

import (
	"encoding/hex"
	"fmt"
)

// Hash is a 32-byte block content hash. The zero Hash marks a number-only
// cursor hint supplied by a client that doesn't know the block's hash yet.
type Hash [32]byte

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Cursor identifies a single block by number and content hash. Two cursors
// are equal only if both fields match; Go's built-in == is sufficient since
// both fields are comparable, so Cursor needs no bespoke Equal method.
type Cursor struct {
	Number uint64
	Hash   Hash
}

func (c Cursor) String() string {
	return fmt.Sprintf("Cursor(%d, %s)", c.Number, c.Hash)
}

// IsNumberOnly reports whether c carries only a block number hint, as
// submitted by a client that knows the height it wants to start at but not
// yet the canonical hash at that height.
func (c Cursor) IsNumberOnly() bool {
	return c.Hash.IsZero()
}

// lowestCursor returns the cursor with the lower block number, keeping b on
// ties. Every call site in this module passes the invalidation cursor as b,
// so a tie resolves to the invalidation cursor's hash rather than whatever
// was previously cached — this matches the original lowest_cursor exactly.
func lowestCursor(a, b Cursor) Cursor {
	if a.Number < b.Number {
		return a
	}
	return b
}

// ClampCursor implements the repeated "current = current.map(|c|
// lowest_cursor(c, invalidated))" pattern: a nil optional cursor stays nil
// (Option::map leaves None untouched), otherwise it is clamped down to the
// lower of itself and the invalidation cursor.
func ClampCursor(current *Cursor, invalidated Cursor) *Cursor {
	if current == nil {
		return nil
	}
	clamped := lowestCursor(*current, invalidated)
	return &clamped
}
