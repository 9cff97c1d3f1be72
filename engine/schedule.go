package engine

import "fmt"

// recomputePlusBy updates plusby after any event that changes achieved,
// per the three-way rule: plus transitions effectively disabled once
// achieved reaches maxplus (or plimit is configured as 0, meaning "no plus
// transitions"), randomly spaced when plimit is negative, fixed-spaced
// otherwise.
func (s *State) recomputePlusBy() {
	switch {
	case s.achieved >= s.params.MaxPlus, s.params.PlusLimit == 0:
		s.plusby = s.params.FlipLimit * 1007
	case s.params.PlusLimit < 0:
		span := uint32(-2 * s.params.PlusLimit)
		s.plusby = s.flips + uint64(s.params.Symmetry) + uint64(s.rng.Intn(span))
	default:
		s.plusby = s.flips + uint64(s.params.PlusLimit)
	}
}

// recomputeLimit updates the relative termination limit. Apart from the
// initial computation in NewState, it is only called when a cascade sets a
// new best-ever record (achieved < minmuls) and achieved is still above
// target, matching the reference implementation's updatelimit call sites —
// never after a plus transition.
func (s *State) recomputeLimit() {
	s.limit = updateLimit(s.flips, s.params.Termination, s.params.Split, s.achieved, s.params.Target, s.params.Symmetry, s.params.FlipLimit)
}

// updateLimit computes the absolute flip count at which the run should
// stop under the relative-limit strategies, given the termination code:
//
//	TerminationLimit (0): an absolute wall at flimit.
//	TerminationEarly (1): proportional approach to flimit, divided into
//	  steps sized by how far achieved still is from target.
//	TerminationReset (2): limit always resets to flips + flimit, i.e. a
//	  sliding flimit-sized window from "now".
//	anything else: two-phase. termination is read as a secondary achieved
//	  target; while achieved is still above it, split% of flimit is used as
//	  the EARLY budget instead of the full flimit, and steps counts down to
//	  termination instead of target. Once achieved reaches termination, the
//	  full flimit and target are used, as in TerminationEarly.
func updateLimit(flips uint64, termination, split, achieved, target, symm int, flimit uint64) uint64 {
	switch termination {
	case TerminationLimit:
		return flimit
	case TerminationReset:
		return flips + flimit
	case TerminationEarly:
		return flips + earlySpan(flips, flimit, achieved, target, symm)
	default:
		budget := flimit
		divisor := target
		if achieved > termination {
			budget = uint64(split) * flimit / 100
			divisor = termination
		}
		return flips + earlySpan(flips, budget, achieved, divisor, symm)
	}
}

// earlySpan divides the remaining budget into steps proportional to how
// many symmetry-group decrements still separate achieved from divisor —
// target for the absolute-EARLY strategy, or the secondary achieved target
// (termination) once the two-phase strategy's achieved > termination split
// has kicked in.
func earlySpan(flips, budget uint64, achieved, divisor, symm int) uint64 {
	if flips >= budget {
		return 0
	}
	steps := (achieved - divisor) / symm
	if steps < 1 {
		steps = 1
	}
	return (budget - flips) / uint64(steps)
}

// CheckpointFunc is called with the run's current (not best) state when
// flips crosses a checkpoint boundary, just before the impending plus
// transition. Implementations typically serialize via package wire.
type CheckpointFunc func(*State) error

// Run drives the scheduler until a terminal rcode is reached. checkpoint
// may be nil. The optional checkInvariants flag, when true, runs
// State.CheckInvariants after every flip and plus transition; it must
// never be enabled on a release build's hot path, only in tests or
// diagnostic runs, per the package's debug-check convention.
func (s *State) Run(checkpoint CheckpointFunc, checkInvariants ...bool) error {
	debug := len(checkInvariants) > 0 && checkInvariants[0]

	for {
		s.flips += uint64(s.params.Symmetry)
		s.flipStep()
		if debug {
			if err := s.CheckInvariants(); err != nil {
				return fmt.Errorf("engine: Run: invariant violated after flip at flips=%d: %w", s.flips, err)
			}
		}
		if s.terminal {
			break
		}

		if s.flips >= s.plusby {
			if s.flips >= s.recovery {
				if checkpoint != nil {
					if err := checkpoint(s); err != nil {
						return fmt.Errorf("engine: Run: checkpoint at flips=%d: %w", s.flips, err)
					}
				}
				s.recovery += checkpointInterval
			}
			s.plusStep()
			if debug {
				if err := s.CheckInvariants(); err != nil {
					return fmt.Errorf("engine: Run: invariant violated after plus at flips=%d: %w", s.flips, err)
				}
			}
		}

		if s.flips >= s.limit {
			if s.flips >= s.params.FlipLimit {
				s.rcode = ExitBudget
			} else {
				s.rcode = ExitRelativeLimit
			}
			break
		}
	}
	return nil
}
