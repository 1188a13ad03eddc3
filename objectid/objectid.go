// Package objectid defines the content-address type shared by every
// object-store and diff-engine package in edendiff.
package objectid

import (
	"encoding/hex"
	"fmt"
)

// Size is the byte width of an ObjectID. edendiff objects are addressed
// the same way Git objects are: a SHA-1 digest.
const Size = 20

// ObjectID is an opaque, fixed-width content identifier. Two IDs are
// equal iff the objects they name are byte-identical.
type ObjectID [Size]byte

// Zero is the identifier with no meaning other than "absent". It never
// names a real object.
var Zero ObjectID

// IsZero reports whether id is the zero value.
func (id ObjectID) IsZero() bool {
	return id == Zero
}

// String renders id as lowercase hex, matching Git's own convention
// for naming objects and refs.
func (id ObjectID) String() string {
	return hex.EncodeToString(id[:])
}

// ParseObjectID decodes a hex string into an ObjectID.
func ParseObjectID(s string) (ObjectID, error) {
	if len(s) != Size*2 {
		return ObjectID{}, fmt.Errorf("objectid: invalid length %d, want %d", len(s), Size*2)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return ObjectID{}, fmt.Errorf("objectid: invalid hex: %w", err)
	}
	var id ObjectID
	copy(id[:], raw)
	return id, nil
}
