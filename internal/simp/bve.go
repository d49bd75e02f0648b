// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package simp

import (
	"github.com/xhochy/cryptominisat/internal/xo"
	"github.com/xhochy/cryptominisat/z"
)

const (
	// elimination candidates with more occurrences than this are skipped
	elimMaxOccs = 20
	// grow allowance: how many more resolvents than original clauses an
	// elimination may produce
	elimGrow = 0
	// total literal growth bound per elimination
	elimMaxLitGrowth = 200
)

// elimPass runs bounded variable elimination: for each cheap candidate
// variable, if the pairwise non-tautological resolvents of its positive
// and negative occurrences are no more numerous than the originals
// (within the grow allowance), the originals are replaced by the
// resolvents and the variable is eliminated. The removed clauses go to
// the variable's blocked list so a model of the simplified formula
// extends to one of the original.
func (sp *Simp) elimPass() bool {
	s := sp.s
	t := s.Trail
	t.Back(0)
	if !t.Prop().IsNull() {
		return false
	}
	xo.NewActiveCdb(s.Cdb)
	defer func() { s.Cdb.Active = nil }()

	for v := z.Var(1); v <= s.Vars.Max; v++ {
		if s.Interrupted() {
			break
		}
		if s.Vars.Elim[v] != xo.ElimLive || s.Vars.Sign(v.Pos()) != 0 {
			continue
		}
		if !sp.tryEliminate(v) {
			return false
		}
	}
	return t.Prop().IsNull()
}

// occurrence is one clause containing the candidate, in literal form.
type occurrence struct {
	lits   []z.Lit
	loc    z.C  // CNull for implicit clauses
	learnt bool
}

func (sp *Simp) gather(m z.Lit) []occurrence {
	s := sp.s
	var occs []occurrence
	for _, w := range s.Vars.Watches[m] {
		switch {
		case w.IsBinary():
			occs = append(occs, occurrence{
				lits:   []z.Lit{m, w.Other()},
				loc:    xo.CNull,
				learnt: w.Learnt(),
			})
		case w.IsTernary():
			occs = append(occs, occurrence{
				lits:   []z.Lit{m, w.Other(), w.Other2()},
				loc:    xo.CNull,
				learnt: w.Learnt(),
			})
		}
	}
	if s.Cdb.Active != nil {
		s.Cdb.Active.ForOccs(m, func(loc z.C) {
			occs = append(occs, occurrence{
				lits:   s.Cdb.CDat.Load(loc, nil),
				loc:    loc,
				learnt: s.Cdb.CDat.Chd(loc).Learnt(),
			})
		})
	}
	return occs
}

func (sp *Simp) tryEliminate(v z.Var) bool {
	s := sp.s
	pos := sp.gather(v.Pos())
	neg := sp.gather(v.Neg())

	// learnt occurrences don't gate elimination; they are simply dropped
	irredPos := filterIrred(pos)
	irredNeg := filterIrred(neg)
	if len(irredPos) > elimMaxOccs || len(irredNeg) > elimMaxOccs {
		return true
	}
	if len(irredPos) == 0 && len(irredNeg) == 0 {
		return true
	}

	origCount := len(irredPos) + len(irredNeg)
	origLits := 0
	for _, o := range irredPos {
		origLits += len(o.lits)
	}
	for _, o := range irredNeg {
		origLits += len(o.lits)
	}

	var resolvents [][]z.Lit
	newLits := 0
	for _, p := range irredPos {
		for _, n := range irredNeg {
			r, taut := resolve(p.lits, n.lits, v)
			if taut {
				continue
			}
			resolvents = append(resolvents, r)
			newLits += len(r)
			if len(resolvents) > origCount+elimGrow || newLits > origLits+elimMaxLitGrowth {
				return true // too expensive, skip this variable
			}
		}
	}

	// commit: save originals to the blocked list, detach everything
	// containing v, add the resolvents
	for _, o := range irredPos {
		sp.blocked[v] = append(sp.blocked[v], BlockedClause{
			On:   v.Pos(),
			Lits: append([]z.Lit(nil), o.lits...),
		})
	}
	for _, o := range irredNeg {
		sp.blocked[v] = append(sp.blocked[v], BlockedClause{
			On:   v.Neg(),
			Lits: append([]z.Lit(nil), o.lits...),
		})
	}
	sp.elimOrder = append(sp.elimOrder, v)

	sp.detachOccs(pos)
	sp.detachOccs(neg)

	s.Vars.Elim[v] = xo.ElimResolution
	s.Vars.Decide[v] = false
	s.Cdb.St.VarsElimed++

	for _, r := range resolvents {
		if !sp.addClauseInt(r) {
			return false
		}
	}
	return true
}

func filterIrred(occs []occurrence) []occurrence {
	out := occs[:0:0]
	for _, o := range occs {
		if !o.learnt {
			out = append(out, o)
		}
	}
	return out
}

func (sp *Simp) detachOccs(occs []occurrence) {
	s := sp.s
	for _, o := range occs {
		if o.loc != xo.CNull {
			if stillAttached(s.Cdb.Added, o.loc) || stillAttached(s.Cdb.Learnts, o.loc) {
				s.Cdb.Remove(o.loc)
				s.Cdb.Added = dropLocs(s.Cdb.Added, []z.C{o.loc})
				s.Cdb.Learnts = dropLocs(s.Cdb.Learnts, []z.C{o.loc})
			}
			continue
		}
		switch len(o.lits) {
		case 2:
			s.Cdb.RemoveBin(o.lits[0], o.lits[1], o.learnt)
		case 3:
			s.Cdb.RemoveTri(o.lits[0], o.lits[1], o.lits[2], o.learnt)
		}
	}
}

// resolve computes the resolvent of a and b on v; taut reports a
// tautological result.
func resolve(a, b []z.Lit, v z.Var) (out []z.Lit, taut bool) {
	seen := make(map[z.Lit]bool, len(a)+len(b))
	for _, m := range a {
		if m.Var() == v {
			continue
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	for _, m := range b {
		if m.Var() == v {
			continue
		}
		if seen[m.Not()] {
			return nil, true
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out, false
}
