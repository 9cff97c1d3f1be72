package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyPlus3FillsFreeTripleAndRewritesTwo(t *testing.T) {
	terms := []uint64{
		0b0001, 0b0010, 0b0011, // p-triple: d=1, f=2, e=3
		0b0100, 0b0101, 0b0110, // q-triple: d=4, f=5, e=6
		0, 0, 0, // free triple
	}
	s, err := NewState(terms, baseParams(3))
	assert.NoError(t, err)
	assert.Equal(t, 6, s.achieved)

	s.applyPlus3(0, 3, 6)
	assert.NoError(t, s.CheckInvariants())

	// term(p)' = (mpd, mpe^mqe, mpf) = (1, 3^6, 2) = (1, 5, 2)
	assert.Equal(t, uint64(1), s.terms[0])
	assert.Equal(t, uint64(2), s.terms[1]) // F(0)
	assert.Equal(t, uint64(5), s.terms[2]) // E(0)

	// term(q)' = (mpd, mqe, mpf^mqf) = (1, 6, 2^5) = (1, 6, 7)
	assert.Equal(t, uint64(1), s.terms[3])
	assert.Equal(t, uint64(7), s.terms[4]) // F(3)
	assert.Equal(t, uint64(6), s.terms[5]) // E(3)

	// term(r)' = (mpd^mqd, mqe, mqf) = (1^4, 6, 5) = (5, 6, 5)
	assert.Equal(t, uint64(5), s.terms[6])
	assert.Equal(t, uint64(5), s.terms[7]) // F(6)
	assert.Equal(t, uint64(6), s.terms[8]) // E(6)

	assert.Equal(t, 9, s.achieved)
	assert.Equal(t, uint64(3), s.plus)
}

func TestAcceptPlusPairRejectsEqualComponents(t *testing.T) {
	terms := []uint64{1, 2, 3, 1, 5, 6}
	s, err := NewState(terms, baseParams(3))
	assert.NoError(t, err)
	// mpd == mqd (both 1): rejected.
	assert.False(t, s.acceptPlusPair(0, 3))
}

func TestAcceptPlusPairRejectsSameGroup(t *testing.T) {
	terms := []uint64{1, 2, 3, 4, 5, 6}
	s, err := NewState(terms, baseParams(3))
	assert.NoError(t, err)
	assert.False(t, s.acceptPlusPair(0, 1)) // same triple, forbidden by permit
}

func TestFindFreeTripleLocatesFirstZero(t *testing.T) {
	terms := []uint64{1, 2, 3, 0, 0, 0, 7, 8, 9}
	s, err := NewState(terms, baseParams(3))
	assert.NoError(t, err)
	r, ok := s.findFreeTriple()
	assert.True(t, ok)
	assert.Equal(t, 3, r)
}
