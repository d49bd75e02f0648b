// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package simp

import (
	"github.com/xhochy/cryptominisat/internal/xo"
	"github.com/xhochy/cryptominisat/z"
)

// subsumePass removes duplicate and subsumed implicit clauses and
// strengthens ternaries against binaries, per literal, over the sorted
// watch sequence (binaries first, then ternaries, key-ordered). Unit
// enqueues and new binaries are delayed to the end and applied under a
// fresh propagate-to-fixpoint; counters are updated atomically with each
// structural change.
func (sp *Simp) subsumePass() bool {
	s := sp.s
	var delayedUnits []z.Lit
	type bin struct{ a, b z.Lit }
	var delayedBins []bin

	for v := z.Var(1); v <= s.Vars.Max; v++ {
		if s.Vars.Elim[v] != xo.ElimLive {
			continue
		}
		for _, lit := range []z.Lit{v.Pos(), v.Neg()} {
			if sp.cfg.DoSortWatched {
				s.Cdb.SortWatched(lit)
			}
			sp.sweepLit(lit, &delayedUnits, func(a, b z.Lit) {
				delayedBins = append(delayedBins, bin{a, b})
			})
		}
	}

	for _, m := range delayedUnits {
		if !sp.enqueue(m) {
			return false
		}
	}
	for _, b := range delayedBins {
		if !sp.addClauseInt([]z.Lit{b.a, b.b}) {
			return false
		}
	}
	return s.Trail.Prop().IsNull()
}

type triKey struct{ a, b z.Lit }

func mkTriKey(a, b z.Lit) triKey {
	if b < a {
		a, b = b, a
	}
	return triKey{a, b}
}

// sweepLit runs the subsumption and strengthening sweeps over lit's
// watcher sequence. The sequence is read into a snapshot first; all
// structural changes happen after the sweep so the walk never observes
// its own mutations.
func (sp *Simp) sweepLit(lit z.Lit, units *[]z.Lit, addBin func(a, b z.Lit)) {
	s := sp.s

	type binOcc struct {
		p      z.Lit
		learnt bool
	}
	type triOcc struct {
		k      triKey
		learnt bool
	}
	var bins []binOcc
	var tris []triOcc
	for _, w := range s.Vars.Watches[lit] {
		switch {
		case w.IsBinary():
			bins = append(bins, binOcc{w.Other(), w.Learnt()})
		case w.IsTernary():
			tris = append(tris, triOcc{mkTriKey(w.Other(), w.Other2()), w.Learnt()})
		}
	}

	type rmBin struct {
		p      z.Lit
		learnt bool
	}
	type rmTri struct {
		k      triKey
		learnt bool
	}
	var rmBins []rmBin
	var rmTris []rmTri

	// subsumption sweep over binaries: keep the least-learnt copy of
	// each partner
	kept := make(map[z.Lit]bool)   // partner present after sweep
	keptLrn := make(map[z.Lit]bool) // learnt flag of the kept copy
	for _, b := range bins {
		if !kept[b.p] {
			kept[b.p] = true
			keptLrn[b.p] = b.learnt
			continue
		}
		if keptLrn[b.p] && !b.learnt {
			// duplicate of lesser learntness: demote by dropping the
			// learnt copy and keeping this one
			rmBins = append(rmBins, rmBin{b.p, true})
			keptLrn[b.p] = false
			s.Cdb.St.Subsumed++
			continue
		}
		rmBins = append(rmBins, rmBin{b.p, b.learnt})
		s.Cdb.St.Subsumed++
	}

	// ternaries: subsumed by a binary on either partner, or duplicate
	keptTri := make(map[triKey]bool)
	keptTriLrn := make(map[triKey]bool)
	for _, t := range tris {
		if kept[t.k.a] || kept[t.k.b] {
			rmTris = append(rmTris, rmTri{t.k, t.learnt})
			s.Cdb.St.Subsumed++
			continue
		}
		if !keptTri[t.k] {
			keptTri[t.k] = true
			keptTriLrn[t.k] = t.learnt
			continue
		}
		if keptTriLrn[t.k] && !t.learnt {
			rmTris = append(rmTris, rmTri{t.k, true})
			keptTriLrn[t.k] = false
			s.Cdb.St.Subsumed++
			continue
		}
		rmTris = append(rmTris, rmTri{t.k, t.learnt})
		s.Cdb.St.Subsumed++
	}

	// strengthening sweep
	for p := range kept {
		if p.IsPos() && kept[p.Not()] {
			// (lit, p) plus (lit, ¬p) ⇒ lit
			*units = append(*units, lit)
		}
	}
	for k := range keptTri {
		// ternary (lit, a, b) plus binary (lit, ¬a) reduces to
		// (lit, b); mirror on b
		if kept[k.a.Not()] {
			rmTris = append(rmTris, rmTri{k, keptTriLrn[k]})
			addBin(lit, k.b)
			s.Cdb.St.Strengthened++
			continue
		}
		if kept[k.b.Not()] {
			rmTris = append(rmTris, rmTri{k, keptTriLrn[k]})
			addBin(lit, k.a)
			s.Cdb.St.Strengthened++
		}
	}

	for _, r := range rmBins {
		s.Cdb.RemoveBin(lit, r.p, r.learnt)
	}
	for _, r := range rmTris {
		s.Cdb.RemoveTri(lit, r.k.a, r.k.b, r.learnt)
	}
}
