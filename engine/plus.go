package engine

import "github.com/jakobmoosbauer/symmetric-flips/term"

// acceptPlusPair is the plus-kernel acceptance test for one candidate pair
// of slots: both terms live, permitted to interact, pairwise distinct on
// every component, and — when a size filter is active — within bound after
// the tentative rewrite. The 6-way kernel applies this twice, once for
// (p, q) and once for their mirror (pp, qq).
func (s *State) acceptPlusPair(p, q int) bool {
	mpd := s.terms[p]
	mqd := s.terms[q]
	if mpd == 0 || mqd == 0 {
		return false
	}
	if !s.permit(p, q) {
		return false
	}
	mpe := s.terms[term.E(p)]
	mpf := s.terms[term.F(p)]
	mqe := s.terms[term.E(q)]
	mqf := s.terms[term.F(q)]
	if mpd == mqd || mpe == mqe || mpf == mqf {
		return false
	}
	if s.params.MaxSize == 0 {
		return true
	}
	mpen := mpe ^ mqe
	mqfn := mpf ^ mqf
	if s.params.MaxSize > 0 {
		pVolume := term.PopCount(mpd) * term.PopCount(mpen) * term.PopCount(mpf)
		qVolume := term.PopCount(mpd) * term.PopCount(mqe) * term.PopCount(mqfn)
		return pVolume <= s.params.MaxSize && qVolume <= s.params.MaxSize
	}
	exceed := 1 - s.params.MaxSize
	return term.BitLimit(mpen, exceed) && term.BitLimit(mqfn, exceed)
}

// selectPlusPair rejection-samples a pair of slots uniformly from the
// whole term array until acceptPlusPair (doubled, under 6-way symmetry)
// succeeds. There is deliberately no retry cap here, matching the
// reference implementation: under pathological parameters this can spin
// indefinitely.
func (s *State) selectPlusPair() (p, q int) {
	n := uint32(len(s.terms))
	for {
		p = int(s.rng.Intn(n))
		q = int(s.rng.Intn(n))
		if !s.acceptPlusPair(p, q) {
			continue
		}
		if s.params.Symmetry == 6 {
			pp := term.MirrorPair(p)
			qq := term.MirrorPair(q)
			if !s.acceptPlusPair(pp, qq) {
				continue
			}
		}
		return p, q
	}
}

// findFreeTriple scans for the first slot currently holding zero. Because
// terms always cascade to zero or get populated as whole triples (and, under
// 6-way symmetry, whole mirrored pairs of triples), the first such slot is
// always the base of a fully-free triple.
func (s *State) findFreeTriple() (int, bool) {
	for r, v := range s.terms {
		if v == 0 {
			return r, true
		}
	}
	return 0, false
}

// applyPlus3 splits term(p) into three: a rewritten term(p), a rewritten
// term(q), and a brand-new term at r.
func (s *State) applyPlus3(p, q, r int) {
	mpd := s.terms[p]
	mpe := s.terms[term.E(p)]
	mpf := s.terms[term.F(p)]
	mqd := s.terms[q]
	mqe := s.terms[term.E(q)]
	mqf := s.terms[term.F(q)]

	mpen := mpe ^ mqe
	mqfn := mpf ^ mqf
	mrdn := mpd ^ mqd

	s.rewriteSlot(term.E(p), mpe, mpen)
	s.rewriteSlot(q, mqd, mpd)
	s.rewriteSlot(term.F(q), mqf, mqfn)

	s.addSlot(r, mrdn)
	s.addSlot(term.E(r), mqe)
	s.addSlot(term.F(r), mqf)

	s.plus += 3
	s.achieved += 3
	s.recomputePlusBy()
}

// applyPlus6 mirrors applyPlus3 simultaneously at (p, q, r) and at their
// 6-way mirror triple.
func (s *State) applyPlus6(p, q, r int) {
	pp := term.MirrorPair(p)
	qq := term.MirrorPair(q)
	rr := term.MirrorPair(r)
	s.applyPlus3(p, q, r)
	s.applyPlus3(pp, qq, rr)
}

// plusStep performs one plus transition.
func (s *State) plusStep() {
	p, q := s.selectPlusPair()
	r, ok := s.findFreeTriple()
	if !ok {
		return
	}
	if s.params.Symmetry == 6 {
		s.applyPlus6(p, q, r)
	} else {
		s.applyPlus3(p, q, r)
	}
}
