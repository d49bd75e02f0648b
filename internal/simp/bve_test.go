// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package simp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xhochy/cryptominisat/internal/xo"
	"github.com/xhochy/cryptominisat/z"
)

func TestResolve(t *testing.T) {
	a := []z.Lit{z.Dimacs2Lit(1), z.Dimacs2Lit(2)}
	b := []z.Lit{z.Dimacs2Lit(-1), z.Dimacs2Lit(3)}
	r, taut := resolve(a, b, z.Dimacs2Lit(1).Var())
	require.False(t, taut)
	require.ElementsMatch(t, []z.Lit{z.Dimacs2Lit(2), z.Dimacs2Lit(3)}, r)

	c := []z.Lit{z.Dimacs2Lit(-1), z.Dimacs2Lit(-2)}
	_, taut = resolve(a, c, z.Dimacs2Lit(1).Var())
	require.True(t, taut)
}

func TestElimSimpleVariable(t *testing.T) {
	// 1 appears in (1 2) and (-1 3): the sole resolvent is (2 3)
	s, sp := newTest([][]int{{1, 2}, {-1, 3}, {4, 5, 6, 7}})
	require.True(t, sp.elimPass())
	require.NoError(t, sp.CheckElimFree())
	require.Empty(t, s.Cdb.CheckCounts())
	require.NotZero(t, s.Cdb.St.VarsElimed)
	require.Equal(t, 1, s.Solve())
}

func TestElimModelExtension(t *testing.T) {
	s, sp := newTest([][]int{{1, 2}, {-1, 3}, {-2, -3, 4}})
	require.True(t, sp.elimPass())
	require.Equal(t, 1, s.Solve())
	sp.ExtendModel()
	// the extended model must satisfy the original clauses
	val := func(d int) bool { return sp.Value(z.Dimacs2Lit(d)) }
	require.True(t, val(1) || val(2))
	require.True(t, !val(1) || val(3))
	require.True(t, !val(2) || !val(3) || val(4))
}

func TestElimSkipsExpensive(t *testing.T) {
	// variable 1 occurs in many clauses on both sides with distinct
	// partners, generating quadratic resolvents; elimination skips it
	clauses := [][]int{}
	for i := 0; i < 8; i++ {
		clauses = append(clauses, []int{1, 10 + i, 30 + i})
		clauses = append(clauses, []int{-1, 20 + i, 40 + i})
	}
	s, sp := newTest(clauses)
	require.True(t, sp.elimPass())
	require.Equal(t, xo.ElimLive, s.Vars.Elim[z.Dimacs2Lit(1).Var()])
}

func TestElimBlockedListRecorded(t *testing.T) {
	_, sp := newTest([][]int{{1, 2}, {-1, 3}})
	require.True(t, sp.elimPass())
	require.NotEmpty(t, sp.ElimOrder())
	v := sp.ElimOrder()[0]
	require.NotEmpty(t, sp.Blocked(v))
}
