// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xhochy/cryptominisat/gen"
	"github.com/xhochy/cryptominisat/z"
)

func addDimacs(s *S, clauses [][]int) {
	for _, c := range clauses {
		for _, m := range c {
			s.Add(z.Dimacs2Lit(m))
		}
		s.Add(z.LitNull)
	}
}

func TestSolveTrivialSat(t *testing.T) {
	s := NewS()
	addDimacs(s, [][]int{{1, -2}, {2, 3}})
	require.Equal(t, 1, s.Solve())
	// model satisfies both clauses
	c1 := s.Value(z.Dimacs2Lit(1)) || s.Value(z.Dimacs2Lit(-2))
	c2 := s.Value(z.Dimacs2Lit(2)) || s.Value(z.Dimacs2Lit(3))
	require.True(t, c1 && c2)
	require.Empty(t, s.CheckInvariants())
}

func TestSolveTrivialUnsat(t *testing.T) {
	s := NewS()
	addDimacs(s, [][]int{{1}, {-1}})
	require.False(t, s.Ok())
	require.Equal(t, -1, s.Solve())
}

func TestSolvePigeonSat(t *testing.T) {
	s := NewS()
	addDimacs(s, [][]int{
		{1, 2}, {3, 4}, {5, 6},
		{-1, -3}, {-1, -5}, {-3, -5},
		{-2, -4}, {-2, -6}, {-4, -6},
	})
	require.Equal(t, 1, s.Solve())
	require.Empty(t, s.CheckInvariants())
}

func TestSolvePhpUnsat(t *testing.T) {
	s := NewS()
	gen.Php(s, 6, 5)
	require.Equal(t, -1, s.Solve())
}

func TestSolveAssumptions(t *testing.T) {
	s := NewS()
	addDimacs(s, [][]int{{1, 2}, {-1, 2}, {1, -2}})
	s.Assume(z.Dimacs2Lit(-1))
	require.Equal(t, -1, s.Solve())
	why := s.Why(nil)
	require.NotEmpty(t, why)
	// without assumptions the problem is satisfiable again
	require.Equal(t, 1, s.Solve())
	require.True(t, s.Value(z.Dimacs2Lit(1)))
	require.True(t, s.Value(z.Dimacs2Lit(2)))
}

func TestSearchBudget(t *testing.T) {
	s := NewS()
	gen.Php(s, 9, 8)
	r := s.Search(1)
	require.Equal(t, 0, r)
	// state intact: can continue to completion
	for r == 0 {
		r = s.Search(10000)
	}
	require.Equal(t, -1, r)
}

func TestSolveRand3CnfAgainstDpll(t *testing.T) {
	n, m := 20, 85
	gen.Seed(99)
	for i := 0; i < 50; i++ {
		s := NewS()
		ref := gen.NewDpll()
		dup := &teeAdder{a: s, b: ref}
		gen.Rand3Cnf(dup, n, m)
		want := ref.Solve()
		got := s.Solve()
		require.Equal(t, want, got, "instance %d", i)
		if got == 1 {
			require.Empty(t, s.Cdb.CheckModel(), "instance %d", i)
		}
	}
}

type teeAdder struct {
	a, b interface{ Add(z.Lit) }
}

func (t *teeAdder) Add(m z.Lit) {
	t.a.Add(m)
	t.b.Add(m)
}

func TestSolveCopy(t *testing.T) {
	s := NewS()
	addDimacs(s, [][]int{{1, 2, 3, 4}, {-1, -2}, {-3, -4}, {2, 3}})
	o := s.Copy()
	require.Equal(t, 1, s.Solve())
	require.Equal(t, 1, o.Solve())
}

func TestLuby(t *testing.T) {
	l := NewLuby()
	want := []uint{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8}
	for i, w := range want {
		g := l.Next()
		require.Equal(t, w, g, "term %d", i)
	}
}

func TestScratchRestored(t *testing.T) {
	s := NewS()
	gen.Php(s, 5, 4)
	require.Equal(t, -1, s.Solve())
	require.NoError(t, s.Deriver.CheckScratch())
}
