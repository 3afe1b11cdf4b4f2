// Package fingerprint implements the label digest embedded in callback
// identifiers. Telegram callback data is limited to 64 bytes, so menu buttons
// cannot carry the catalog labels they stand for; instead every label is
// reduced to a short deterministic token and resolved back by re-hashing the
// candidate labels of the current catalog snapshot.
//
// The digest is the plain CRC-32 (IEEE) checksum of the UTF-8 bytes, rendered
// as a decimal string. It is stable across processes and releases, which is
// required because tokens live inside messages that outlast restarts. It is
// not collision-resistant; see the package-level discussion in DESIGN.md for
// why accidental collisions between catalog labels are accepted.
package fingerprint

import (
	"hash/crc32"
	"strconv"
)

// Sentinel is the reserved token meaning "abort navigation and finalize".
// It may appear anywhere a fingerprint is expected in callback data.
const Sentinel = "@QuitAndSave"

// Of returns the deterministic token for a display label.
func Of(label string) string {
	return strconv.FormatUint(uint64(crc32.ChecksumIEEE([]byte(label))), 10)
}

// Matches reports whether label hashes to token. Reverse lookup over a set of
// candidate labels is done by calling this per candidate; no inverse exists.
func Matches(label, token string) bool {
	return Of(label) == token
}
