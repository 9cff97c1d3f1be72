package flipindex

// table is the open-addressed, fixed-bucket-width dictionary underlying
// both the Uniqueness Index and the Multiplicity Index. A key hashes to a
// bucket; the bucket holds up to width (key, value) pairs in flat arrays,
// scanned linearly. Deletion swaps the doomed entry with the bucket's last
// entry and shrinks the count, avoiding any shifting of survivors.
//
// Bucket width is sized to N (the slot count) rather than the fixed 16 the
// reference implementation uses, since N varies across problem instances
// and a width fixed for N~60 would either waste space or overflow for
// N~900.
type table struct {
	numBuckets int
	width      int
	keys       []uint64
	vals       []int32
	count      []int32

	lastHash  int
	lastFound bool
}

// goldenRatio64 is the standard 64-bit Fibonacci-hashing multiplier; it
// spreads the low bits of sequential or clustered uint64 keys across
// buckets far better than a plain modulo.
const goldenRatio64 = 0x9E3779B97F4A7C15

func newTable(numBuckets, width int) *table {
	return &table{
		numBuckets: numBuckets,
		width:      width,
		keys:       make([]uint64, numBuckets*width),
		vals:       make([]int32, numBuckets*width),
		count:      make([]int32, numBuckets),
	}
}

func (t *table) hash(v uint64) int {
	h := int((v * goldenRatio64) % uint64(t.numBuckets))
	t.lastHash = h
	return h
}

// find scans bucket for key v and records in lastFound whether it was
// found. The X-suffixed callers that follow a lookup with an insert or
// delete on the same key reuse the bucket that hash cached in lastHash.
func (t *table) find(bucket int, v uint64) int {
	base := bucket * t.width
	n := int(t.count[bucket])
	for i := 0; i < n; i++ {
		if t.keys[base+i] == v {
			t.lastFound = true
			return base + i
		}
	}
	t.lastFound = false
	return -1
}

func (t *table) contains(v uint64) bool {
	return t.find(t.hash(v), v) >= 0
}

func (t *table) containsX(v uint64) bool {
	return t.find(t.lastHash, v) >= 0
}

func (t *table) get(v uint64) int32 {
	pos := t.find(t.hash(v), v)
	if pos < 0 {
		panic("flipindex: get of absent key")
	}
	return t.vals[pos]
}

func (t *table) getX(v uint64) int32 {
	pos := t.find(t.lastHash, v)
	if pos < 0 {
		panic("flipindex: getX of absent key")
	}
	return t.vals[pos]
}

func (t *table) add(v uint64, val int32) {
	t.addAt(t.hash(v), v, val)
}

func (t *table) addX(v uint64, val int32) {
	t.addAt(t.lastHash, v, val)
}

func (t *table) addAt(bucket int, v uint64, val int32) {
	n := int(t.count[bucket])
	if n >= t.width {
		panic("flipindex: bucket overflow, widen table")
	}
	base := bucket * t.width
	t.keys[base+n] = v
	t.vals[base+n] = val
	t.count[bucket] = int32(n + 1)
}

func (t *table) replace(v uint64, val int32) {
	pos := t.find(t.hash(v), v)
	if pos < 0 {
		panic("flipindex: replace of absent key")
	}
	t.vals[pos] = val
}

func (t *table) remove(v uint64) {
	t.removeAt(t.hash(v), v)
}

func (t *table) removeX(v uint64) {
	t.removeAt(t.lastHash, v)
}

func (t *table) removeAt(bucket int, v uint64) {
	pos := t.find(bucket, v)
	if pos < 0 {
		panic("flipindex: remove of absent key")
	}
	base := bucket * t.width
	n := int(t.count[bucket])
	last := base + n - 1
	t.keys[pos] = t.keys[last]
	t.vals[pos] = t.vals[last]
	t.count[bucket] = int32(n - 1)
}
