package engine

import "github.com/jakobmoosbauer/symmetric-flips/term"

// selectFlipPair draws a colliding bitmask uniformly from T_list, then an
// ordered pair of slots sharing it, subject to the permission predicate and
// (when MaxSize != 0) a size filter. It gives up after 1000 consecutive
// rejections when a size filter is active; with no size filter the loop is
// unbounded and only the permission predicate can reject, so it does not
// return while every collision lies within a single symmetry group. The
// caller must ensure at least one collision exists.
func (s *State) selectFlipPair() (p, q int, ok bool) {
	rejections := 0
	for {
		if s.params.MaxSize != 0 && rejections >= 1000 {
			return 0, 0, false
		}
		sample := s.rng.Uint32()
		v := s.index.CollisionAt(int(sample % uint32(s.index.NumCollisions())))
		base := s.index.Base(v)
		length := s.index.SlotCount(base)

		var ps, qs int32
		if length == 2 {
			a := s.index.SlotAt(base, 0)
			b := s.index.SlotAt(base, 1)
			if sample&(1<<16) != 0 {
				ps, qs = a, b
			} else {
				ps, qs = b, a
			}
		} else {
			idx := int((sample >> 16) % uint32(pairCount(length)))
			ps = s.index.SlotAt(base, pairPositionX[idx])
			qs = s.index.SlotAt(base, pairPositionY[idx])
		}

		if !s.permit(int(ps), int(qs)) {
			rejections++
			continue
		}
		if s.params.MaxSize == 0 {
			return int(ps), int(qs), true
		}

		mpe := s.terms[term.E(int(ps))]
		mpf := s.terms[term.F(int(ps))]
		mqe := s.terms[term.E(int(qs))]
		mqf := s.terms[term.F(int(qs))]
		mpen := mqe ^ mpe
		mqfn := mqf ^ mpf

		if s.params.MaxSize > 0 {
			psize := term.PopCount(s.terms[ps]) * term.PopCount(mpen) * term.PopCount(mpf)
			qsize := term.PopCount(s.terms[qs]) * term.PopCount(mqe) * term.PopCount(mqfn)
			if psize <= s.params.MaxSize && qsize <= s.params.MaxSize {
				return int(ps), int(qs), true
			}
		} else {
			exceed := 1 - s.params.MaxSize
			if term.BitLimit(mpen, exceed) && term.BitLimit(mqfn, exceed) {
				return int(ps), int(qs), true
			}
		}
		rejections++
	}
}

// doFlip3 applies the 3-way flip rewrite to the accepted pair (p, q) and
// cascades either term that degenerated to zero.
func (s *State) doFlip3(p, q int) {
	mpe := s.terms[term.E(p)]
	mpf := s.terms[term.F(p)]
	mqe := s.terms[term.E(q)]
	mqf := s.terms[term.F(q)]
	mpen := mqe ^ mpe
	mqfn := mqf ^ mpf

	s.rewriteSlot(term.E(p), mpe, mpen)
	s.rewriteSlot(term.F(q), mqf, mqfn)

	if mpen == 0 {
		s.cascadeTriple(p)
	}
	if mqfn == 0 {
		s.cascadeTriple(q)
	}
}

// doFlip6 applies the flip rewrite simultaneously to (p, q) and their
// 6-way mirror pair (pp, qq), then cascades on zeroing or on the primary
// and mirror terms having become identical.
func (s *State) doFlip6(p, q int) {
	pp := term.MirrorPair(p)
	qq := term.MirrorPair(q)

	mpd, mpe, mpf := s.terms[p], s.terms[term.E(p)], s.terms[term.F(p)]
	mqd, mqe, mqf := s.terms[q], s.terms[term.E(q)], s.terms[term.F(q)]
	mppd, mppe, mppf := s.terms[pp], s.terms[term.E(pp)], s.terms[term.F(pp)]
	mqqd, mqqe, mqqf := s.terms[qq], s.terms[term.E(qq)], s.terms[term.F(qq)]

	mpen := mqe ^ mpe
	mqfn := mqf ^ mpf
	mppen := mqqe ^ mppe
	mqqfn := mqqf ^ mppf

	s.rewriteSlot(term.E(p), mpe, mpen)
	s.rewriteSlot(term.E(pp), mppe, mppen)
	s.rewriteSlot(term.F(q), mqf, mqfn)
	s.rewriteSlot(term.F(qq), mqqf, mqqfn)

	if mpen == 0 || (mpd == mppd && mpen == mppen && mpf == mppf) {
		s.cascadeTriple(p)
		s.cascadeTriple(pp)
	}
	if mqfn == 0 || (mqd == mqqd && mqe == mqqe && mqfn == mqqfn) {
		s.cascadeTriple(q)
		s.cascadeTriple(qq)
	}
}

// cascadeTriple zeros the entire triple containing base (base, E(base),
// F(base)) and runs the common post-cascade bookkeeping. It is called
// once per degenerating triple, so a 6-way collapse that zeros two triples
// calls it twice, decrementing achieved by 3 each time for a net 6.
//
// Reading each slot's current value before removing it handles both
// cascade causes uniformly: a slot just rewritten to 0 by the flip removes
// its transient zero-valued index entry; a slot untouched by the flip
// still holds its real nonzero value and is removed for real. This also
// covers the identity-collapse case, where the "rewritten" slot (E(p) or
// F(q)) holds a nonzero value that must still be cleared — the uniform
// read-then-remove-then-zero here does that without a separate branch.
func (s *State) cascadeTriple(base int) {
	for _, slot := range [3]int{base, term.E(base), term.F(base)} {
		s.index.Remove(int32(slot), s.terms[slot])
		s.terms[slot] = 0
	}
	s.cascadeCommon(3)
}

// cascadeCommon runs the bookkeeping shared by every cascade event: update
// achieved and the best-ever snapshot, recompute plusby, and check the two
// early-exit conditions and the trigger-scan that can force an immediate
// plus transition. limit is only recomputed when this cascade sets a new
// best record and achieved is still above target, matching the reference
// implementation's updatelimit call sites.
func (s *State) cascadeCommon(delta int) {
	s.achieved -= delta
	newRecord := s.achieved < s.minmuls
	if newRecord {
		s.minmuls = s.achieved
		copy(s.best, s.terms)
	}
	s.recomputePlusBy()
	if newRecord && s.achieved > s.params.Target {
		s.recomputeLimit()
	}

	if s.index.NumCollisions() == 0 {
		s.rcode = ExitDeadEnd
		s.terminal = true
		return
	}
	if s.achieved <= s.params.Target {
		s.rcode = ExitTarget
		s.terminal = true
		return
	}
	if s.allCollisionsWithinOneGroup() {
		s.plusby = s.flips
	}
}

// allCollisionsWithinOneGroup reports whether every currently-colliding
// bitmask's slot list lies entirely within one symmetry group — when true,
// no further flip can make progress without a plus transition first.
func (s *State) allCollisionsWithinOneGroup() bool {
	groupSize := int32(s.params.Symmetry)
	for i := 0; i < s.index.NumCollisions(); i++ {
		v := s.index.CollisionAt(i)
		base := s.index.Base(v)
		length := s.index.SlotCount(base)
		if length < 2 {
			continue
		}
		group := s.index.SlotAt(base, 0) / groupSize
		for j := int32(1); j < length; j++ {
			if s.index.SlotAt(base, j)/groupSize != group {
				return false
			}
		}
	}
	return true
}

// flipStep performs one flip transition. It returns false when the run has
// become terminal (dead end or rejection-budget exhausted), true otherwise.
func (s *State) flipStep() bool {
	if s.index.NumCollisions() == 0 {
		s.rcode = ExitDeadEnd
		s.terminal = true
		return false
	}
	p, q, ok := s.selectFlipPair()
	if !ok {
		s.rcode = ExitRejectionBudget
		s.terminal = true
		return false
	}
	if s.params.Symmetry == 6 {
		s.doFlip6(p, q)
	} else {
		s.doFlip3(p, q)
	}
	return !s.terminal
}
