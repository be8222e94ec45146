package lang

import "hash/fnv"

// HashStr is the 64-bit identifier hash used throughout the assembler
// and interpreter for globals, locals, keywords, and track symbols.
// Determinism only requires a pure function of the text; fnv64a is the
// stdlib's equivalent of the source's SipHash-based DefaultHasher.
func HashStr(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
