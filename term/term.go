// Package term holds the bitmask primitives shared by the flip-graph
// engine: popcount/size predicates on GF(2) terms, and the slot-index
// arithmetic that locates the other two components of a triple and, under
// 6-way symmetry, its mirror triple.
package term

import "math/bits"

// PopCount returns the number of set bits in v.
func PopCount(v uint64) int {
	return bits.OnesCount64(v)
}

// BitLimit reports whether v has fewer than exceed set bits. It implements
// the same size-rejection predicate the plus and flip transitions use to
// bound how large a rewritten term is allowed to grow.
func BitLimit(v uint64, exceed int) bool {
	return PopCount(v) < exceed
}

// E returns the slot holding the "other" component conventionally paired
// with F for the triple containing slot p. Triples occupy three contiguous
// slots; E and F are fixed at initialization and never change thereafter.
func E(p int) int {
	base := p - p%3
	switch p % 3 {
	case 0:
		return base + 2
	case 1:
		return base
	default:
		return base + 1
	}
}

// F is E's counterpart: together E(p) and F(p) are the two slots of p's
// triple other than p itself.
func F(p int) int {
	base := p - p%3
	switch p % 3 {
	case 0:
		return base + 1
	case 1:
		return base + 2
	default:
		return base
	}
}

// MirrorPair returns the slot at p's own position within the 6-way-symmetric
// mirror triple of the triple containing p (p+3 or p-3). 6-way triples live in blocks of six
// contiguous slots that are always either both all-zero or both all-nonzero
// (flip and plus transitions create and destroy them in pairs), so p's
// position within its own block of six determines which half holds the
// mirror.
func MirrorPair(p int) int {
	if p%6 < 3 {
		return p + 3
	}
	return p - 3
}

// Permit reports whether slots p and q are allowed to interact in a flip or
// plus transition under symmetry group size groupSize. Two slots in the
// same group (the same block of groupSize contiguous slots) would produce a
// self-referential rewrite and are forbidden.
func Permit(p, q, groupSize int) bool {
	return p/groupSize != q/groupSize
}
