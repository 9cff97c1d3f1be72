// Package flipindex implements the coupled Uniqueness and Multiplicity
// indices that drive flip-graph candidate selection: which bitmask values
// currently collide across two or more term slots, and where those slots
// live.
//
// U and T are modeled as two collaborating bucket tables behind one
// façade (per the source's own design guidance) rather than as a graph of
// pointers — there is no ownership cycle, only coordinated indexing by key
// and by T_list position.
package flipindex

// Index couples the Uniqueness Index U (bitmask -> slab-backed slot list)
// with the Multiplicity Index T (bitmask -> position in a dense list of
// currently-colliding bitmasks, for O(1) uniform sampling).
type Index struct {
	n int

	uniques *table // U: value is a slab base offset
	multi   *table // T: value is a position in multiList

	multiList []uint64 // T_list
	slab      []int32  // X: slab[b] = length, slab[b+1..b+length] = slots
	avail     []int32  // free slab bases
}

// New builds an Index sized for n term-component slots.
func New(n int) *Index {
	ix := &Index{
		n:         n,
		uniques:   newTable(n, n),
		multi:     newTable(n, n),
		multiList: make([]uint64, 0, n),
		slab:      make([]int32, n*(n+1)),
		avail:     make([]int32, n),
	}
	for i := 0; i < n; i++ {
		ix.avail[i] = int32(i * (n + 1))
	}
	return ix
}

// Add records that slot r now holds bitmask v. Equivalent to the source's
// flipadd(r, v).
func (ix *Index) Add(r int32, v uint64) {
	if !ix.uniques.contains(v) {
		ix.addFirst(v, r)
		return
	}
	b := ix.uniques.getX(v)
	l := ix.slab[b]
	if l == 1 {
		ix.promoteToMulti(v, ix.uniques.lastHash)
	}
	ix.slab[b+1+l] = r
	ix.slab[b] = l + 1
}

// Remove records that slot r no longer holds bitmask v. Equivalent to the
// source's flipdel(r, v).
func (ix *Index) Remove(r int32, v uint64) {
	b := ix.uniques.get(v)
	l := ix.slab[b]
	switch {
	case l == 2:
		ix.demoteFromMulti(v)
		var keep int32
		if ix.slab[b+1] == r {
			keep = ix.slab[b+2]
		} else {
			keep = ix.slab[b+1]
		}
		ix.slab[b+1] = keep
		ix.slab[b] = 1
	case l == 1:
		ix.removeLast(v, b)
	default:
		pos := -1
		for i := int32(0); i < l; i++ {
			if ix.slab[b+1+i] == r {
				pos = int(i)
				break
			}
		}
		for i := pos; i < int(l)-1; i++ {
			ix.slab[b+1+int32(i)] = ix.slab[b+2+int32(i)]
		}
		ix.slab[b] = l - 1
	}
}

// addFirst inserts v into U for the first time, at slot r.
func (ix *Index) addFirst(v uint64, r int32) {
	b := ix.popAvail()
	ix.uniques.addX(v, b)
	ix.slab[b+1] = r
	ix.slab[b] = 1
}

// promoteToMulti appends v to T_list and adds it to T, reusing the bucket
// U just located for v so T never rehashes v itself.
func (ix *Index) promoteToMulti(v uint64, bucketHint int) {
	pos := int32(len(ix.multiList))
	ix.multiList = append(ix.multiList, v)
	ix.multi.addAt(bucketHint, v, pos)
}

// demoteFromMulti removes v from T and T_list, swapping the last T_list
// entry into the vacated slot and fixing up that entry's recorded
// position.
func (ix *Index) demoteFromMulti(v uint64) {
	pos := ix.multi.get(v)
	last := int32(len(ix.multiList) - 1)
	lastVal := ix.multiList[last]
	ix.multiList[pos] = lastVal
	ix.multiList = ix.multiList[:last]
	if lastVal != v {
		ix.multi.replace(lastVal, pos)
	}
	ix.multi.remove(v)
}

// removeLast drops v from U entirely, returning its slab base to avail.
func (ix *Index) removeLast(v uint64, b int32) {
	ix.avail = append(ix.avail, b)
	ix.uniques.remove(v)
}

func (ix *Index) popAvail() int32 {
	last := len(ix.avail) - 1
	b := ix.avail[last]
	ix.avail = ix.avail[:last]
	return b
}

// NumCollisions returns the current size of T_list.
func (ix *Index) NumCollisions() int {
	return len(ix.multiList)
}

// CollisionAt returns the i'th currently-colliding bitmask in T_list.
func (ix *Index) CollisionAt(i int) uint64 {
	return ix.multiList[i]
}

// Base returns U[v], the slab base offset for v. v must currently be a key
// of U.
func (ix *Index) Base(v uint64) int32 {
	return ix.uniques.get(v)
}

// SlotCount returns X[b], the current slot-list length at slab base b.
func (ix *Index) SlotCount(b int32) int32 {
	return ix.slab[b]
}

// SlotAt returns X[b+1+i], the i'th slot index recorded at slab base b.
func (ix *Index) SlotAt(b int32, i int32) int32 {
	return ix.slab[b+1+i]
}

// AllKeys returns every bitmask currently registered in U, for use by
// invariant checks; it is not on the hot path.
func (ix *Index) AllKeys() []uint64 {
	keys := make([]uint64, 0, ix.n)
	for bucket := 0; bucket < ix.uniques.numBuckets; bucket++ {
		base := bucket * ix.uniques.width
		n := int(ix.uniques.count[bucket])
		for i := 0; i < n; i++ {
			keys = append(keys, ix.uniques.keys[base+i])
		}
	}
	return keys
}

// SlotsFor returns the current slot list for v, or nil if v is not a key
// of U. Not on the hot path; for invariant checks and tests only.
func (ix *Index) SlotsFor(v uint64) []int32 {
	if !ix.uniques.contains(v) {
		return nil
	}
	b := ix.uniques.getX(v)
	l := ix.slab[b]
	out := make([]int32, l)
	for i := int32(0); i < l; i++ {
		out[i] = ix.slab[b+1+i]
	}
	return out
}
