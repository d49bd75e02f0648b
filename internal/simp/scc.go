// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package simp

import (
	"github.com/xhochy/cryptominisat/internal/xo"
	"github.com/xhochy/cryptominisat/z"
)

// sccPass finds equivalent literals as strongly connected components of
// the binary implication graph and substitutes them out. The irredundant
// binary (L ∨ M) contributes the edges ¬L → M and ¬M → L; every SCC of
// size k>1 yields k-1 equivalences against its root. An SCC containing
// both polarities of a variable makes the formula UNSAT.
func (sp *Simp) sccPass() bool {
	s := sp.s
	n := 2 * (int(s.Vars.Max) + 1)

	index := make([]int32, n)
	low := make([]int32, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []z.Lit
	next := int32(0)

	// iterative Tarjan; frame.ei indexes into the successor list
	type frame struct {
		m    z.Lit
		succ []z.Lit
		ei   int
	}
	var frames []frame

	succsOf := func(m z.Lit) []z.Lit {
		// successors of m: partners of irredundant binary watchers on ¬m
		var out []z.Lit
		for _, w := range s.Vars.Watches[m.Not()] {
			if w.IsBinary() && !w.Learnt() {
				out = append(out, w.Other())
			}
		}
		return out
	}

	strongconnect := func(root z.Lit) bool {
		frames = frames[:0]
		frames = append(frames, frame{m: root, succ: succsOf(root)})
		index[root] = next
		low[root] = next
		next++
		stack = append(stack, root)
		onStack[root] = true

		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			if f.ei < len(f.succ) {
				w := f.succ[f.ei]
				f.ei++
				if index[w] == -1 {
					index[w] = next
					low[w] = next
					next++
					stack = append(stack, w)
					onStack[w] = true
					frames = append(frames, frame{m: w, succ: succsOf(w)})
				} else if onStack[w] {
					if index[w] < low[f.m] {
						low[f.m] = index[w]
					}
				}
				continue
			}
			m := f.m
			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				p := &frames[len(frames)-1]
				if low[m] < low[p.m] {
					low[p.m] = low[m]
				}
			}
			if low[m] != index[m] {
				continue
			}
			// m is the root of an SCC; pop it
			var comp []z.Lit
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == m {
					break
				}
			}
			if len(comp) < 2 {
				continue
			}
			// canonical root: the smallest literal in the component
			rt := comp[0]
			seen := make(map[z.Var]bool, len(comp))
			for _, w := range comp {
				if w < rt {
					rt = w
				}
			}
			for _, w := range comp {
				if seen[w.Var()] {
					// both polarities of one variable in one SCC
					return false
				}
				seen[w.Var()] = true
			}
			for _, w := range comp {
				if w == rt {
					continue
				}
				sp.Equiv(w, rt)
			}
		}
		return true
	}

	for v := z.Var(1); v <= s.Vars.Max; v++ {
		if s.Vars.Elim[v] != xo.ElimLive && s.Vars.Elim[v] != xo.ElimQueuedEquivalence {
			continue
		}
		for _, m := range []z.Lit{v.Pos(), v.Neg()} {
			if index[m] == -1 {
				if !strongconnect(m) {
					return false
				}
			}
		}
	}
	return sp.performReplace()
}

// performReplace substitutes every queued equivalence's non-root
// endpoint out of all attached clauses. Clauses may shorten to units
// (enqueued) or binaries (re-attached); duplicates and tautologies
// disappear in the same pass. After it returns true, the replacement
// table is a forest of height one and the replaced variables never
// reappear.
func (sp *Simp) performReplace() bool {
	s := sp.s
	if len(sp.rQueue) == 0 {
		return true
	}
	for _, pr := range sp.rQueue {
		a, b := sp.Root(pr[0]), sp.Root(pr[1])
		if a.Var() == b.Var() {
			if a != b {
				// a ≡ ¬a: inconsistent
				return false
			}
			continue
		}
		// root the pair at the smaller literal's variable
		if b < a {
			a, b = b, a
		}
		if b.IsPos() {
			sp.replace[b.Var()] = a
		} else {
			sp.replace[b.Var()] = a.Not()
		}
	}
	sp.rQueue = sp.rQueue[:0]

	// collect the set of replaced variables; roots go back to live
	replaced := make(map[z.Var]bool)
	for v := z.Var(1); v < z.Var(len(sp.replace)); v++ {
		if sp.replace[v].Var() != v {
			sp.Root(v.Pos()) // compress
			replaced[v] = true
		} else if s.Vars.Elim[v] == xo.ElimQueuedEquivalence {
			s.Vars.Elim[v] = xo.ElimLive
		}
	}
	if len(replaced) == 0 {
		return true
	}

	if !sp.rewriteImplicit(replaced) {
		return false
	}
	if !sp.rewriteLong(replaced) {
		return false
	}

	for v := range replaced {
		s.Vars.Elim[v] = xo.ElimEquivalence
		s.Vars.Decide[v] = false
		s.Cdb.St.VarsReplaced++
	}
	if sp.reach != nil {
		sp.reach.Invalidate()
	}
	return s.Trail.Prop().IsNull()
}

// rewriteImplicit detaches every binary and ternary clause touching a
// replaced variable and re-adds its rewritten form.
func (sp *Simp) rewriteImplicit(replaced map[z.Var]bool) bool {
	s := sp.s
	type bin struct {
		a, b   z.Lit
		learnt bool
	}
	type tri struct {
		a, b, c z.Lit
		learnt  bool
	}
	var bins []bin
	var tris []tri
	for v := range replaced {
		for _, m := range []z.Lit{v.Pos(), v.Neg()} {
			for _, w := range s.Vars.Watches[m] {
				if w.IsBinary() {
					if m < w.Other() || !replaced[w.Other().Var()] {
						bins = append(bins, bin{m, w.Other(), w.Learnt()})
					}
				} else if w.IsTernary() {
					o1, o2 := w.Other(), w.Other2()
					first := true
					if replaced[o1.Var()] && o1 < m {
						first = false
					}
					if replaced[o2.Var()] && o2 < m {
						first = false
					}
					if first {
						tris = append(tris, tri{m, o1, o2, w.Learnt()})
					}
				}
			}
		}
	}
	for _, b := range bins {
		s.Cdb.RemoveBin(b.a, b.b, b.learnt)
		if b.learnt {
			continue // learnt clauses are redundant, just drop them
		}
		if !sp.addClauseInt([]z.Lit{sp.Root(b.a), sp.Root(b.b)}) {
			return false
		}
	}
	for _, t := range tris {
		s.Cdb.RemoveTri(t.a, t.b, t.c, t.learnt)
		if t.learnt {
			continue
		}
		if !sp.addClauseInt([]z.Lit{sp.Root(t.a), sp.Root(t.b), sp.Root(t.c)}) {
			return false
		}
	}
	return true
}

// rewriteLong rewrites long clauses containing a replaced variable.
func (sp *Simp) rewriteLong(replaced map[z.Var]bool) bool {
	s := sp.s
	var rms []z.C
	var rewrites [][]z.Lit
	scan := func(locs []z.C, learnt bool) {
		for _, loc := range locs {
			ms := s.Cdb.CDat.Load(loc, nil)
			touched := false
			for _, m := range ms {
				if replaced[m.Var()] {
					touched = true
					break
				}
			}
			if !touched {
				continue
			}
			rms = append(rms, loc)
			if learnt {
				continue
			}
			nms := make([]z.Lit, len(ms))
			for i, m := range ms {
				nms[i] = sp.Root(m)
			}
			rewrites = append(rewrites, nms)
		}
	}
	scan(s.Cdb.Added, false)
	scan(s.Cdb.Learnts, true)
	s.Cdb.Remove(rms...)
	s.Cdb.Added = dropLocs(s.Cdb.Added, rms)
	s.Cdb.Learnts = dropLocs(s.Cdb.Learnts, rms)
	for _, nms := range rewrites {
		if !sp.addClauseInt(nms) {
			return false
		}
	}
	s.Cdb.MaybeCompact()
	return true
}

func dropLocs(cs []z.C, rms []z.C) []z.C {
	if len(rms) == 0 {
		return cs
	}
	rm := make(map[z.C]bool, len(rms))
	for _, c := range rms {
		rm[c] = true
	}
	j := 0
	for _, c := range cs {
		if !rm[c] {
			cs[j] = c
			j++
		}
	}
	return cs[:j]
}
