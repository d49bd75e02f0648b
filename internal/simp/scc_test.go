// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package simp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xhochy/cryptominisat/internal/xo"
	"github.com/xhochy/cryptominisat/z"
)

func newTest(clauses [][]int) (*xo.S, *Simp) {
	s := xo.NewS()
	for _, c := range clauses {
		for _, m := range c {
			s.Add(z.Dimacs2Lit(m))
		}
		s.Add(z.LitNull)
	}
	return s, New(s, nil)
}

func TestSccCollapsesImplicationCycle(t *testing.T) {
	// 1 -> 2 -> 3 -> 4 -> 1
	s, sp := newTest([][]int{{-1, 2}, {-2, 3}, {-3, 4}, {-4, 1}})
	require.True(t, sp.sccPass())
	require.NoError(t, sp.CheckReplaceForest())

	root := sp.Root(z.Dimacs2Lit(1))
	for _, d := range []int{2, 3, 4} {
		require.Equal(t, root, sp.Root(z.Dimacs2Lit(d)), "var %d", d)
	}
	// three of the four variables are gone from every attached clause
	require.NoError(t, sp.CheckElimFree())
	replaced := 0
	for v := z.Var(1); v <= 4; v++ {
		if s.Vars.Elim[v] == xo.ElimEquivalence {
			replaced++
		}
	}
	require.Equal(t, 3, replaced)
}

func TestSccBothPolaritiesUnsat(t *testing.T) {
	// 1 <-> 2 and 1 <-> -2 puts both polarities of 2 in one SCC
	_, sp := newTest([][]int{{-1, 2}, {-2, 1}, {1, 2}, {-1, -2}})
	require.False(t, sp.sccPass())
}

func TestSccXorChainEquivalence(t *testing.T) {
	// a xor b = 1 as {a,b},{-a,-b}; b xor c = 1 likewise: a == c
	_, sp := newTest([][]int{{1, 2}, {-1, -2}, {2, 3}, {-2, -3}})
	require.True(t, sp.sccPass())
	require.NoError(t, sp.CheckReplaceForest())
	require.Equal(t, sp.Root(z.Dimacs2Lit(1)), sp.Root(z.Dimacs2Lit(3)))
	require.Equal(t, sp.Root(z.Dimacs2Lit(1)).Not(), sp.Root(z.Dimacs2Lit(2)))
}

func TestSccIdempotent(t *testing.T) {
	s, sp := newTest([][]int{{-1, 2}, {-2, 1}, {2, 3, 4}})
	require.True(t, sp.sccPass())
	bins := s.Cdb.St.IrredBins
	tris := s.Cdb.St.IrredTris
	repl := s.Cdb.St.VarsReplaced
	// a second pass finds no new equivalences and changes nothing
	require.True(t, sp.sccPass())
	require.Equal(t, bins, s.Cdb.St.IrredBins)
	require.Equal(t, tris, s.Cdb.St.IrredTris)
	require.Equal(t, repl, s.Cdb.St.VarsReplaced)
}

func TestPerformReplaceShortensClauses(t *testing.T) {
	// 1 == 2; the ternary {2,3,4} becomes {1,3,4} (as root), and the
	// binary {−2, 5} becomes {−1, 5}
	s, sp := newTest([][]int{{-1, 2}, {-2, 1}, {2, 3, 4}, {-2, 5}})
	require.True(t, sp.sccPass())
	require.NoError(t, sp.CheckElimFree())
	require.Empty(t, s.Cdb.CheckCounts())
	// the clause set is logically unchanged: solving still succeeds
	require.Equal(t, 1, s.Solve())
}
