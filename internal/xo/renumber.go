// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"fmt"

	"github.com/xhochy/cryptominisat/z"
)

// ApplyVarPerm renumbers every variable-indexed structure under the
// bijection perm (perm[old] = new, perm[0] unused). The caller computes
// the permutation — live variables packed toward low indices — and is
// responsible for remapping its own side tables (replacement table,
// blocked lists, outer map). Must be called at decision level 0.
func (s *S) ApplyVarPerm(perm []z.Var) {
	if s.Trail.Level != 0 {
		panic(FatalError("renumbering above level 0"))
	}
	if len(perm) != int(s.Vars.Max)+1 {
		panic(FatalError(fmt.Sprintf("permutation size %d for %d vars", len(perm), s.Vars.Max)))
	}
	mapLit := func(m z.Lit) z.Lit {
		if m == z.LitNull {
			return m
		}
		nv := perm[m.Var()]
		if m.IsPos() {
			return nv.Pos()
		}
		return nv.Neg()
	}
	mapWatch := func(w Watch) Watch {
		switch {
		case w == ReasonNull:
			return w
		case w.IsBinary():
			return MakeBinWatch(mapLit(w.Other()), w.Learnt())
		case w.IsTernary():
			return MakeTriWatch(mapLit(w.Other()), mapLit(w.Other2()), w.Learnt())
		default:
			return w.WithBlocker(mapLit(w.Other()))
		}
	}

	vars := s.Vars
	n := int(vars.Max) + 1

	// arena literals, walking clause by clause so header words are
	// never touched
	for loc := z.C(2); int(loc) < s.Cdb.CDat.Len; {
		i := int(loc)
		for s.Cdb.CDat.D[i] != z.LitNull {
			s.Cdb.CDat.D[i] = mapLit(s.Cdb.CDat.D[i])
			i++
		}
		loc = z.C(i + 2)
	}

	// trail
	for i := 0; i < s.Trail.Tail; i++ {
		s.Trail.D[i] = mapLit(s.Trail.D[i])
	}

	// per-variable arrays
	nVals := make([]int8, len(vars.Vals))
	nReasons := make([]Watch, len(vars.Reasons))
	nLevels := make([]int, len(vars.Levels))
	for i := range nLevels {
		nLevels[i] = -1
	}
	nWatches := make([][]Watch, len(vars.Watches))
	nElim := make([]Elim, len(vars.Elim))
	nDecide := make([]bool, len(vars.Decide))
	for ov := 1; ov < n; ov++ {
		nv := perm[ov]
		op, on := z.Var(ov).Pos(), z.Var(ov).Neg()
		np, nn := nv.Pos(), nv.Neg()
		nVals[np] = vars.Vals[op]
		nVals[nn] = vars.Vals[on]
		nReasons[nv] = mapWatch(vars.Reasons[ov])
		nLevels[nv] = vars.Levels[ov]
		nElim[nv] = vars.Elim[ov]
		nDecide[nv] = vars.Decide[ov]
		nWatches[np] = remapWatches(vars.Watches[op], mapWatch)
		nWatches[nn] = remapWatches(vars.Watches[on], mapWatch)
	}
	vars.Vals = nVals
	vars.Reasons = nReasons
	vars.Levels = nLevels
	vars.Watches = nWatches
	vars.Elim = nElim
	vars.Decide = nDecide

	// decision heap and phase cache
	s.Guess.remapVars(perm)

	// occurrence index, if installed
	if s.Cdb.Active != nil {
		occs := make([][]z.C, len(s.Cdb.Active.Occs))
		for ov := 1; ov < n; ov++ {
			op, on := z.Var(ov).Pos(), z.Var(ov).Neg()
			nv := perm[ov]
			occs[nv.Pos()] = s.Cdb.Active.Occs[op]
			occs[nv.Neg()] = s.Cdb.Active.Occs[on]
		}
		s.Cdb.Active.Occs = occs
	}
	s.Cdb.St.Renumbers++
}

func remapWatches(ws []Watch, mapWatch func(Watch) Watch) []Watch {
	out := make([]Watch, len(ws))
	for i, w := range ws {
		out[i] = mapWatch(w)
	}
	return out
}

// remapVars permutes the heap's variable-indexed state.
func (g *Guess) remapVars(perm []z.Var) {
	n := len(perm)
	pos := make([]int, len(g.pos))
	heat := make([]float64, len(g.heat))
	cache := make([]int8, len(g.cache))
	for i := range pos {
		pos[i] = -1
	}
	for ov := 1; ov < n; ov++ {
		nv := perm[ov]
		heat[nv] = g.heat[ov]
		cache[nv] = g.cache[ov]
	}
	for i, v := range g.vhp {
		nv := perm[v]
		g.vhp[i] = nv
		pos[nv] = i
	}
	g.pos = pos
	g.heat = heat
	g.cache = cache
}
