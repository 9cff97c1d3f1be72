// Package engine implements the flip-graph local-search solver: the term
// array, its coupled Uniqueness/Multiplicity indices, the flip and plus
// transition kernels (3-way and 6-way symmetric), and the scheduler that
// drives them to a termination code.
package engine

import (
	"fmt"

	"github.com/jakobmoosbauer/symmetric-flips/flipindex"
	"github.com/jakobmoosbauer/symmetric-flips/rng"
	"github.com/jakobmoosbauer/symmetric-flips/term"
)

// ExitCode is the scheduler's termination reason, carried on the wire as
// rcode.
type ExitCode int

const (
	// ExitTarget means achieved <= target: the search succeeded.
	ExitTarget ExitCode = 0
	// ExitBudget means flips reached flimit without success.
	ExitBudget ExitCode = 1
	// ExitRelativeLimit means the scheduler's relative limit fired before flimit.
	ExitRelativeLimit ExitCode = 2
	// ExitDeadEnd means no collisions remain; no flip is possible.
	ExitDeadEnd ExitCode = -1
	// ExitRejectionBudget means 1000 consecutive flip candidates were
	// rejected under a size constraint.
	ExitRejectionBudget ExitCode = 6
	// exitRunning names the rcode that checkpoint files carry (package wire
	// writes the literal 2); it is never a final result.
	exitRunning ExitCode = 2
)

// Termination strategy codes for updateLimit.
const (
	TerminationLimit = 0 // absolute wall at flimit
	TerminationEarly = 1 // proportional approach to flimit
	TerminationReset = 2 // limit resets to flips + flimit each time
	// any other value: two-phase, termination is a secondary achieved
	// target and split is a percent-of-budget used while achieved is still
	// above it.
)

const checkpointInterval = 5_000_000_000

// Params holds the scalar run parameters that appear in the wire header
// (minus the dynamic counters achieved/plus/flips/rcode/minmuls, which
// State tracks as it runs).
type Params struct {
	Target      int
	FlipLimit   uint64
	PlusLimit   int64
	Termination int
	Seed        uint32
	Symmetry    int
	MaxPlus     int
	Split       int
	MaxSize     int
}

// Validate rejects out-of-range parameters, independent of the input
// decomposition: a Symmetry other than 3 or 6, and a negative MaxSize whose
// popcount bound 1-MaxSize is larger than 64, the bit width of a component.
func (p Params) Validate() error {
	if p.Symmetry != 3 && p.Symmetry != 6 {
		return fmt.Errorf("engine: Params.Symmetry must be 3 or 6, got %d", p.Symmetry)
	}
	if p.MaxSize < 0 && 1-p.MaxSize > 64 {
		return fmt.Errorf("engine: Params.MaxSize %d sets a popcount bound above 64, the bit width of a component", p.MaxSize)
	}
	return nil
}

// State is the full mutable state of one solver run: the term array, its
// indices, the RNG, and the scheduler counters. There is exactly one
// State per run and no process-wide singletons; all of U, T, avail and the
// RNG are owned here.
type State struct {
	terms []uint64
	best  []uint64

	index *flipindex.Index
	rng   *rng.MT19937

	params Params

	flips     uint64
	achieved  int
	minmuls   int
	plus      uint64
	plusby    uint64
	limit     uint64
	recovery  uint64
	rcode     ExitCode
	terminal  bool
}

// NewState builds a State from an already-decoded decomposition. terms
// must have length a positive multiple of 3 (a multiple of params.Symmetry
// ideally, though the engine only requires multiples of 3 to compute E/F).
func NewState(terms []uint64, params Params) (*State, error) {
	if len(terms) == 0 || len(terms)%3 != 0 {
		return nil, fmt.Errorf("engine: NewState: term count %d is not a positive multiple of 3", len(terms))
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	s := &State{
		terms:  make([]uint64, len(terms)),
		best:   make([]uint64, len(terms)),
		index:  flipindex.New(len(terms)),
		rng:    rng.New(params.Seed),
		params: params,
	}
	copy(s.terms, terms)
	copy(s.best, terms)

	for r, v := range s.terms {
		if v != 0 {
			s.index.Add(int32(r), v)
			s.achieved++
		}
	}
	s.minmuls = s.achieved
	s.recovery = checkpointInterval
	s.recomputePlusBy()
	s.recomputeLimit()
	return s, nil
}

// Terms returns the current decomposition. Callers must not mutate the
// returned slice.
func (s *State) Terms() []uint64 { return s.terms }

// Best returns the lowest-achieved decomposition snapshot seen so far.
// Callers must not mutate the returned slice.
func (s *State) Best() []uint64 { return s.best }

// Flips, Achieved, Minmuls, Plus and Rcode expose the scheduler's counters
// for wire encoding and logging.
func (s *State) Flips() uint64     { return s.flips }
func (s *State) Achieved() int     { return s.achieved }
func (s *State) Minmuls() int      { return s.minmuls }
func (s *State) Plus() uint64      { return s.plus }
func (s *State) Rcode() ExitCode   { return s.rcode }
func (s *State) Params() Params    { return s.params }

func (s *State) permit(p, q int) bool {
	return term.Permit(p, q, s.params.Symmetry)
}

// rewriteSlot replaces the bitmask at slot with newVal, updating both the
// term array and the index bookkeeping. It must be called even when
// newVal is 0: a momentary zero-valued entry in the index is added and
// then immediately removed again by the caller's cascade handling, which
// relies on flipadd/flipdel's lack of zero-value special-casing.
func (s *State) rewriteSlot(slot int, oldVal, newVal uint64) {
	s.index.Remove(int32(slot), oldVal)
	s.index.Add(int32(slot), newVal)
	s.terms[slot] = newVal
}

// addSlot populates a previously-empty slot with val; there is no old
// value to remove from the index.
func (s *State) addSlot(slot int, val uint64) {
	s.index.Add(int32(slot), val)
	s.terms[slot] = val
}

// CheckInvariants validates the properties that must hold after every
// transition: index/array agreement, the T/T_list/U count-2 correspondence,
// and achieved matching the live popcount. It is not called on the hot
// path; Run only invokes it when told to by its variadic checkInvariants
// flag.
func (s *State) CheckInvariants() error {
	liveCount := 0
	for r, v := range s.terms {
		if v == 0 {
			continue
		}
		liveCount++
		slots := s.index.SlotsFor(v)
		found := false
		for _, sl := range slots {
			if int(sl) == r {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("engine: slot %d holds %#x but is absent from its slot list", r, v)
		}
	}
	if liveCount != s.achieved {
		return fmt.Errorf("engine: achieved=%d but %d slots are nonzero", s.achieved, liveCount)
	}
	for _, v := range s.index.AllKeys() {
		slots := s.index.SlotsFor(v)
		isCollision := len(slots) >= 2
		seenInList := false
		for i := 0; i < s.index.NumCollisions(); i++ {
			if s.index.CollisionAt(i) == v {
				seenInList = true
				break
			}
		}
		if isCollision != seenInList {
			return fmt.Errorf("engine: key %#x collision state disagrees between U (len=%d) and T_list", v, len(slots))
		}
	}
	return nil
}
