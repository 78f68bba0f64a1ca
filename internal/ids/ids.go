// Package ids generates random positive int64 identifiers for entity rows.
package ids

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// maxID keeps generated ids comfortably inside the bigint range so
// they round-trip through JSON number parsers without precision games.
const maxID = int64(9_000_000_000_000_000_000)

// New returns a random id in [1, maxID).
func New() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to read random bytes: %w", err)
	}

	n := int64(binary.BigEndian.Uint64(buf[:]) >> 1) // clear sign bit
	return n%(maxID-1) + 1, nil
}

// NewOr returns explicit when non-nil, otherwise a fresh random id.
func NewOr(explicit *int64) (int64, error) {
	if explicit != nil {
		return *explicit, nil
	}
	return New()
}
