// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package simp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xhochy/cryptominisat/gen"
	"github.com/xhochy/cryptominisat/internal/xo"
	"github.com/xhochy/cryptominisat/z"
)

func TestSimplifyIdempotent(t *testing.T) {
	s, sp := newTest([][]int{
		{-1, 2}, {-2, 1}, // 1 == 2
		{1, 3, 4}, {3, 4}, // ternary subsumed by its binary
		{5, 6, 7, 8}, {5, -7},
		{-5, 9}, {-9, 10},
	})
	require.Equal(t, 0, sp.Simplify())
	bins := s.Cdb.St.IrredBins
	tris := s.Cdb.St.IrredTris
	long := s.Cdb.St.IrredLong
	lits := s.Cdb.St.IrredLits
	elim := s.Cdb.St.VarsElimed
	repl := s.Cdb.St.VarsReplaced

	require.Equal(t, 0, sp.Simplify())
	require.Equal(t, bins, s.Cdb.St.IrredBins)
	require.Equal(t, tris, s.Cdb.St.IrredTris)
	require.Equal(t, long, s.Cdb.St.IrredLong)
	require.Equal(t, lits, s.Cdb.St.IrredLits)
	require.Equal(t, elim, s.Cdb.St.VarsElimed)
	require.Equal(t, repl, s.Cdb.St.VarsReplaced)
}

func TestSimplifyDetectsUnsat(t *testing.T) {
	_, sp := newTest([][]int{{1, 2}, {1, -2}, {-1, 2}, {-1, -2}})
	require.Equal(t, -1, sp.Simplify())
}

func TestSimplifyPreservesSatisfiability(t *testing.T) {
	gen.Seed(1234)
	for i := 0; i < 25; i++ {
		s := xo.NewS()
		ref := gen.NewDpll()
		tee := &teeAdder{a: s, b: ref}
		gen.Rand3Cnf(tee, 16, 68)
		sp := New(s, nil)
		want := ref.Solve()
		if sp.Simplify() == -1 {
			require.Equal(t, -1, want, "instance %d", i)
			continue
		}
		got := s.Solve()
		require.Equal(t, want, got, "instance %d", i)
		if got == 1 {
			sp.ExtendModel()
			require.True(t, ref.Satisfies(func(m z.Lit) bool { return sp.Value(m) }), "instance %d", i)
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
