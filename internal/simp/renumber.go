// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package simp

import (
	"github.com/xhochy/cryptominisat/internal/xo"
	"github.com/xhochy/cryptominisat/z"
)

// renumberFragmentation is the fraction of non-live variables above
// which a renumbering is worthwhile.
const renumberFragmentation = 0.2

// renumberPass compacts live variables toward low inner indices when
// fragmentation (assigned or eliminated variables scattered through the
// index space) exceeds a threshold. The outer index space is untouched:
// the outer<->inner translation absorbs the permutation.
func (sp *Simp) renumberPass() bool {
	s := sp.s
	maxVar := s.Vars.Max
	if maxVar < 8 {
		return true
	}
	live := 0
	for v := z.Var(1); v <= maxVar; v++ {
		if s.Vars.Elim[v] == xo.ElimLive && s.Vars.Sign(v.Pos()) == 0 {
			live++
		}
	}
	frag := float64(int(maxVar)-live) / float64(maxVar)
	if frag < renumberFragmentation {
		return true
	}

	// live variables first, then assigned-or-eliminated
	perm := make([]z.Var, maxVar+1)
	next := z.Var(1)
	for v := z.Var(1); v <= maxVar; v++ {
		if s.Vars.Elim[v] == xo.ElimLive && s.Vars.Sign(v.Pos()) == 0 {
			perm[v] = next
			next++
		}
	}
	for v := z.Var(1); v <= maxVar; v++ {
		if perm[v] == 0 {
			perm[v] = next
			next++
		}
	}

	s.ApplyVarPerm(perm)

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

	// replacement table
	nRepl := make([]z.Lit, len(sp.replace))
	for v := z.Var(1); v < z.Var(len(sp.replace)); v++ {
		nRepl[perm[v]] = mapLit(sp.replace[v])
	}
	if len(nRepl) > 0 {
		nRepl[0] = 0
	}
	sp.replace = nRepl

	// blocked lists
	nBlocked := make(map[z.Var][]BlockedClause, len(sp.blocked))
	for v, bcs := range sp.blocked {
		nv := perm[v]
		nbcs := make([]BlockedClause, len(bcs))
		for i, bc := range bcs {
			nl := make([]z.Lit, len(bc.Lits))
			for j, m := range bc.Lits {
				nl[j] = mapLit(m)
			}
			nbcs[i] = BlockedClause{On: mapLit(bc.On), Lits: nl}
		}
		nBlocked[nv] = nbcs
	}
	sp.blocked = nBlocked
	for i, v := range sp.elimOrder {
		sp.elimOrder[i] = perm[v]
	}

	// outer<->inner translation
	if sp.dv != nil {
		pm := make(map[z.Var]z.Var, maxVar)
		for v := z.Var(1); v <= maxVar; v++ {
			pm[v] = perm[v]
		}
		sp.dv.Renumber(pm, maxVar)
	}

	if sp.reach != nil {
		sp.reach.Invalidate()
	}
	return true
}
