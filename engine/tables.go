package engine

// maxCollisionListSize bounds how many slots may share one bitmask value
// at once. A few hundred total slots make a collision list of this size
// astronomically unlikely in practice; it exists only to size the
// precomputed pair-enumeration tables below.
const maxCollisionListSize = 80

// pairPositionX and pairPositionY enumerate, as a flat prefix-structured
// table, every ordered pair (x, y) with x != y and x, y < maxCollisionListSize.
// Pairs are generated so that the first l*(l-1) entries are exactly the
// ordered pairs with x, y < l, for every l <= maxCollisionListSize — so
// selecting a uniformly random index in [0, l*(l-1)) and looking it up
// gives a uniformly random ordered pair of distinct positions within a
// collision list of length l, without rebuilding a table per length.
var pairPositionX, pairPositionY [maxCollisionListSize * (maxCollisionListSize - 1)]int32

func init() {
	idx := 0
	for y := 1; y < maxCollisionListSize; y++ {
		for x := 0; x < y; x++ {
			pairPositionX[idx] = int32(x)
			pairPositionY[idx] = int32(y)
			idx++
			pairPositionX[idx] = int32(y)
			pairPositionY[idx] = int32(x)
			idx++
		}
	}
}

// pairCount returns the number of ordered pairs of distinct positions in a
// collision list of length l.
func pairCount(l int32) int32 {
	return l * (l - 1)
}
