package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseParams(symmetry int) Params {
	return Params{
		Target:      0,
		FlipLimit:   1_000_000,
		PlusLimit:   0,
		Termination: TerminationLimit,
		Seed:        12345,
		Symmetry:    symmetry,
		MaxPlus:     1 << 30,
		Split:       0,
		MaxSize:     0,
	}
}

// Triple base b occupies slots b (d), b+1 (f), b+2 (e) — E(b)=b+2, F(b)=b+1
// for b%3==0, so slot b+2 holds the "e" component and b+1 holds "f".

func TestDoFlip3NonCascading(t *testing.T) {
	terms := []uint64{
		0b001, 0b010, 0b011, // triple0: d0=1, f0=2, e0=3 (v=3 at slot2)
		0b100, 0b011, 0b101, // triple1: d1=4, f1=3 (v=3 at slot4), e1=5
	}
	s, err := NewState(terms, baseParams(3))
	assert.NoError(t, err)
	assert.Equal(t, 6, s.achieved)
	assert.NoError(t, s.CheckInvariants())

	// e_p (slot2) and f_q (slot4) both hold 3: a genuine collision.
	assert.ElementsMatch(t, []int32{2, 4}, s.index.SlotsFor(3))

	s.doFlip3(0, 3)
	assert.NoError(t, s.CheckInvariants())

	// mpen = e_q(slot5=5) ^ e_p(old slot2=3) = 6
	assert.Equal(t, uint64(6), s.terms[2])
	// mqfn = f_q(old slot4=3) ^ f_p(slot1=2) = 1
	assert.Equal(t, uint64(1), s.terms[4])
	assert.Equal(t, 6, s.achieved)
}

func TestDoFlip3CascadesWhenComponentZeroes(t *testing.T) {
	terms := []uint64{
		0b001, 0b010, 0b011, // triple0: d0=1, f0=2, e0=3
		0b100, 0b011, 0b011, // triple1: d1=4, f1=3 (shared with e0), e1=3 (equal to e_p -> mpen=0)
	}
	s, err := NewState(terms, baseParams(3))
	assert.NoError(t, err)
	assert.Equal(t, 6, s.achieved)

	s.doFlip3(0, 3)
	assert.NoError(t, s.CheckInvariants())

	// mpen = e_q(5)=3 ^ e_p(old 2)=3 = 0 -> triple0 cascades entirely.
	assert.Equal(t, uint64(0), s.terms[0])
	assert.Equal(t, uint64(0), s.terms[1])
	assert.Equal(t, uint64(0), s.terms[2])
	assert.Equal(t, 3, s.achieved)
	assert.Equal(t, 3, s.minmuls)
	assert.Equal(t, []uint64{0, 0, 0, 4, 0b001, 3}, s.best)
}

func TestCascadeTripleRemovesAllThreeSlotsFromIndex(t *testing.T) {
	terms := []uint64{7, 8, 9}
	s, err := NewState(terms, baseParams(3))
	assert.NoError(t, err)
	s.cascadeTriple(0)
	assert.Nil(t, s.index.SlotsFor(7))
	assert.Nil(t, s.index.SlotsFor(8))
	assert.Nil(t, s.index.SlotsFor(9))
	assert.Equal(t, 0, s.achieved)
	assert.Equal(t, 0, s.minmuls)
}

func TestDoFlip6CascadesBothMirroredTriplesOnZero(t *testing.T) {
	// Block of two triples sharing a 6-way mirror relationship: base 0
	// (slots 0-2) mirrors base 3 (slots 3-5); p=0, pp=3.
	terms := []uint64{
		0b0001, 0b0010, 0b0011, // p-triple:  d=1, f=2, e=3
		0b0100, 0b0101, 0b0110, // pp-triple: d=4, f=5, e=6
		0b1000, 0b1001, 0b0011, // q-triple:  d=8, f=9, e=3 (shares e with p)
		0b0111, 0b1010, 0b0101, // qq-triple: d=7, f=10, e=5 (shares e with pp)
	}
	s, err := NewState(terms, baseParams(6))
	assert.NoError(t, err)
	assert.Equal(t, 12, s.achieved)

	// p=0, q=6 (base of q-triple); mirrors pp=3, qq=9.
	s.doFlip6(0, 6)
	assert.NoError(t, s.CheckInvariants())

	// mpen = e_q(slot E(6)=8)=3 ^ e_p(old slot E(0)=2)=3 = 0 -> p,pp cascade.
	for _, slot := range []int{0, 1, 2, 3, 4, 5} {
		assert.Equal(t, uint64(0), s.terms[slot], "slot %d", slot)
	}
	// q, qq untouched by the p-side cascade; their f-components were
	// rewritten by the flip (mqfn, mqqfn), both nonzero here.
	assert.NotEqual(t, uint64(0), s.terms[6])
	assert.Equal(t, 6, s.achieved)
}

func TestAllCollisionsWithinOneGroup(t *testing.T) {
	terms := []uint64{1, 2, 3, 4, 5, 6}
	s, err := NewState(terms, baseParams(3))
	assert.NoError(t, err)
	// No collisions at all: vacuously true.
	assert.True(t, s.allCollisionsWithinOneGroup())

	s.index.Add(99, 1) // fabricate a cross-group collision for slot index 99 (group 33)
	assert.False(t, s.allCollisionsWithinOneGroup())
}
