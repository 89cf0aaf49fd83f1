package git

import (
	"encoding/hex"
	"strings"
)

// OidSize is the raw length of an object id.
const OidSize = 20

// Oid is a content hash. It is a plain value: copy it freely and compare
// with ==.
type Oid [OidSize]byte

// ZeroOid is the all-zero id the engine uses for "no object".
var ZeroOid Oid

// ParseOid decodes a 40-character hex id.
func ParseOid(s string) (Oid, error) {
	var id Oid
	if len(s) != hex.EncodedLen(OidSize) {
		return id, newError(CodeInvalidSpec, ClassInvalid, "invalid oid %q: want %d hex characters", s, hex.EncodedLen(OidSize))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, newError(CodeInvalidSpec, ClassInvalid, "invalid oid %q: %v", s, err)
	}
	return id, nil
}

// mustOid parses an id the engine printed. A malformed id on a successful
// engine call is an invariant breach.
func mustOid(s, call string) Oid {
	id, err := ParseOid(strings.TrimSpace(s))
	invariant(err == nil, "%s returned %q, not an object id", call, s)
	return id
}

// String returns the 40-character hex form.
func (id Oid) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether id is ZeroOid.
func (id Oid) IsZero() bool {
	return id == ZeroOid
}

// Short returns the first n hex characters, clamped to the full length.
func (id Oid) Short(n int) string {
	s := id.String()
	if n <= 0 || n > len(s) {
		return s
	}
	return s[:n]
}

// MarshalText encodes the id as hex, so ids print as strings in JSON.
func (id Oid) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex id.
func (id *Oid) UnmarshalText(b []byte) error {
	parsed, err := ParseOid(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
