// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package simp

import (
	"sort"

	"github.com/xhochy/cryptominisat/internal/xo"
	"github.com/xhochy/cryptominisat/z"
)

// probePass tries both polarities of each candidate variable under unit
// propagation: a conflicting polarity is a failed literal (the other
// polarity becomes a level-0 unit); matching propagated values in both
// probes are unconditional units ("both-same"); opposite values are
// equivalences fed to the replacement queue. Hyper-binary resolution adds
// shortcut binaries for literals reached only through non-binary chains,
// and useless-binary removal drops binaries already implied transitively.
func (sp *Simp) probePass() bool {
	s := sp.s
	t := s.Trail
	t.Back(0)
	if !t.Prop().IsNull() {
		return false
	}

	budget := sp.probeBudget
	startProps := t.Props
	gain := 0

	// visit order: pre-computed literal degree, highest first, so one
	// added binary subsumes many chains
	cands := sp.orderProbeCandidates()

	// probe value snapshots, indexed by variable: 0 unseen this probe
	posVal := make([]int8, s.Vars.Max+1)
	negVal := make([]int8, s.Vars.Max+1)

	for _, v := range cands {
		if t.Props-startProps > budget {
			break
		}
		if s.Interrupted() {
			break
		}
		if s.Vars.Elim[v] != xo.ElimLive || !s.Vars.Decide[v] || s.Vars.Sign(v.Pos()) != 0 {
			continue
		}
		s.Cdb.St.Probed++

		okPos, propsPos := sp.probeOne(v.Pos(), posVal)
		if !okPos {
			// v=true failed: ¬v is a level-0 unit
			s.Cdb.St.ProbeFailed++
			gain++
			if !sp.enqueue(v.Neg()) {
				return false
			}
			continue
		}
		okNeg, propsNeg := sp.probeOne(v.Neg(), negVal)
		if !okNeg {
			s.Cdb.St.ProbeFailed++
			gain++
			if !sp.enqueue(v.Pos()) {
				return false
			}
			sp.clearSnap(posVal, propsPos)
			continue
		}

		// compare the two propagated sets
		for _, x := range propsPos {
			if x == v {
				continue
			}
			a, b := posVal[x], negVal[x]
			if b == 0 {
				continue
			}
			if a == b {
				// both-same: unconditionally implied
				gain++
				m := x.Pos()
				if a == -1 {
					m = x.Neg()
				}
				if !sp.enqueue(m) {
					return false
				}
				continue
			}
			// opposite values: x ≡ v (or anti-equivalent)
			if sp.cfg.DoFindAndReplaceEqLits {
				gain++
				if a == 1 {
					sp.Equiv(x.Pos(), v.Pos())
				} else {
					sp.Equiv(x.Pos(), v.Neg())
				}
			}
		}
		sp.clearSnap(posVal, propsPos)
		sp.clearSnap(negVal, propsNeg)

		// hyper-binary resolution on the positive probe
		if sp.cfg.DoStamp {
			if !sp.addHyperBinaries(v.Pos()) {
				return false
			}
		}
	}

	if !sp.removeUselessBinaries(budget, startProps) {
		return false
	}
	if !sp.performReplace() {
		return false
	}

	sp.adjustBudget(gain)
	return t.Prop().IsNull()
}

// probeOne decides m at a fresh level and propagates, recording every
// propagated variable's value in snap. It returns (false, nil) when the
// probe conflicts; the trail is always unwound back to level 0.
func (sp *Simp) probeOne(m z.Lit, snap []int8) (bool, []z.Var) {
	t := sp.s.Trail
	vars := sp.s.Vars
	start := t.Tail
	t.Decide(m)
	x := t.Prop()
	if !x.IsNull() {
		t.Back(0)
		return false, nil
	}
	var props []z.Var
	for i := start; i < t.Tail; i++ {
		n := t.D[i]
		snap[n.Var()] = vars.Sign(n.Var().Pos())
		props = append(props, n.Var())
	}
	t.Back(0)
	return true, props
}

func (sp *Simp) clearSnap(snap []int8, props []z.Var) {
	for _, v := range props {
		snap[v] = 0
	}
}

// addHyperBinaries adds the shortcut binary (¬v ∨ m) for every literal m
// the full probe of v reaches but a binary-only probe does not, unless
// the binary implication graph already implies m within one hop.
func (sp *Simp) addHyperBinaries(v z.Lit) bool {
	s := sp.s
	t := s.Trail

	// full closure
	full := make(map[z.Lit]bool)
	start := t.Tail
	t.Decide(v)
	if !t.Prop().IsNull() {
		t.Back(0)
		return sp.enqueue(v.Not())
	}
	for i := start; i < t.Tail; i++ {
		full[t.D[i]] = true
	}
	t.Back(0)

	// binary-only closure
	binReach := make(map[z.Lit]bool)
	t.Decide(v)
	if x := t.PropBinaryOnly(); !x.IsNull() {
		t.Back(0)
		return sp.enqueue(v.Not())
	}
	for i := start; i < t.Tail; i++ {
		binReach[t.D[i]] = true
	}
	t.Back(0)

	oneHop := make(map[z.Lit]bool)
	for _, m := range t.BinNeighbors(v, nil) {
		oneHop[m] = true
	}

	for m := range full {
		if m == v || binReach[m] || oneHop[m] {
			continue
		}
		if sp.reach != nil && sp.reach.Implies(s, v, m) {
			continue
		}
		s.Cdb.AddBin(v.Not(), m, true)
		s.Cdb.St.HyperBins++
	}
	return true
}

// removeUselessBinaries drops binaries (¬L ∨ N) whose implication L → N
// already follows from a chain L → M → N in the binary graph.
func (sp *Simp) removeUselessBinaries(budget, startProps int64) bool {
	s := sp.s
	t := s.Trail
	if budget <= 0 {
		return true
	}
	type rm struct {
		l, n   z.Lit
		learnt bool
	}
	var rms []rm
	for v := z.Var(1); v <= s.Vars.Max; v++ {
		if t.Props-startProps > budget {
			break
		}
		if s.Vars.Elim[v] != xo.ElimLive || s.Vars.Sign(v.Pos()) != 0 {
			continue
		}
		for _, l := range []z.Lit{v.Pos(), v.Neg()} {
			// one-hop implications of l
			hop := t.BinNeighbors(l, nil)
			if len(hop) < 2 {
				continue
			}
			inHop := make(map[z.Lit]bool, len(hop))
			for _, m := range hop {
				inHop[m] = true
			}
			for _, m := range hop {
				if s.Vars.Sign(m) != 0 {
					continue
				}
				// full binary closure of m
				start := t.Tail
				t.Decide(m)
				if x := t.PropBinaryOnly(); !x.IsNull() {
					t.Back(0)
					continue
				}
				closure := append([]z.Lit(nil), t.D[start+1:t.Tail]...)
				t.Back(0)
				throughL := false
				for _, n := range closure {
					if n == l {
						// the chain may itself pass through l and use
						// the very edge under test; skip this m
						throughL = true
						break
					}
				}
				if throughL {
					continue
				}
				for _, n := range closure {
					if n != m && inHop[n] {
						// l → m → n makes the direct (¬l ∨ n) redundant
						rms = append(rms, rm{l, n, binLearntOf(s, l.Not(), n)})
						delete(inHop, n)
					}
				}
			}
		}
	}
	seen := make(map[[2]z.Lit]bool)
	for _, r := range rms {
		a, b := r.l.Not(), r.n
		if b < a {
			a, b = b, a
		}
		key := [2]z.Lit{a, b}
		if seen[key] {
			continue
		}
		seen[key] = true
		s.Cdb.RemoveBin(r.l.Not(), r.n, r.learnt)
		s.Cdb.St.UselessBins++
	}
	return true
}

func binLearntOf(s *xo.S, a, b z.Lit) bool {
	for _, w := range s.Vars.Watches[a] {
		if w.IsBinary() && w.Other() == b {
			return w.Learnt()
		}
	}
	return false
}

// orderProbeCandidates returns unassigned decision variables ordered by
// descending binary-implication degree.
func (sp *Simp) orderProbeCandidates() []z.Var {
	s := sp.s
	type cand struct {
		v   z.Var
		deg int
	}
	var cs []cand
	for v := z.Var(1); v <= s.Vars.Max; v++ {
		if s.Vars.Elim[v] != xo.ElimLive || !s.Vars.Decide[v] || s.Vars.Sign(v.Pos()) != 0 {
			continue
		}
		deg := 0
		for _, w := range s.Vars.Watches[v.Pos()] {
			if w.IsBinary() {
				deg++
			}
		}
		for _, w := range s.Vars.Watches[v.Neg()] {
			if w.IsBinary() {
				deg++
			}
		}
		cs = append(cs, cand{v, deg})
	}
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].deg != cs[j].deg {
			return cs[i].deg > cs[j].deg
		}
		return cs[i].v < cs[j].v
	})
	out := make([]z.Var, len(cs))
	for i, c := range cs {
		out[i] = c.v
	}
	return out
}

// adjustBudget scales the next probing budget by how productive this
// call was.
func (sp *Simp) adjustBudget(gain int) {
	if gain > sp.lastProbeGain {
		sp.numPropsMult *= 1.3
	} else {
		sp.numPropsMult *= 0.8
	}
	if sp.numPropsMult < 0.25 {
		sp.numPropsMult = 0.25
	}
	if sp.numPropsMult > 4.0 {
		sp.numPropsMult = 4.0
	}
	sp.lastProbeGain = gain
	sp.probeBudget = int64(float64(sp.cfg.ProbeBudgetProps) * sp.numPropsMult)
}
