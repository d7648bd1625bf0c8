// Package bencode implements deterministic bencoding: the length-prefixed,
// sorted-key serialization format BitTorrent metainfo files use.
package bencode

import "sort"

// Dict is an ordered bencode dictionary. Keys are raw byte strings (not
// necessarily UTF-8 — the top-level "piece layers" mapping keys on 32-byte
// SHA-256 roots), and are always emitted byte-wise sorted regardless of
// insertion order.
type Dict map[string]any

// List is a bencode list.
type List []any

// Bytes is a bencode byte string. Plain Go strings are also accepted as
// byte strings by Marshal/Encode; Bytes exists for callers building a Dict
// by hand who want to be explicit, and for round-tripping through
// Unmarshal, which always yields []byte for byte strings.
type Bytes []byte

// sortedKeys returns a Dict's keys in ascending byte-wise order, the
// order bencode dictionaries must serialize in.
func sortedKeys(d Dict) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
