// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package cryptominisat

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xhochy/cryptominisat/gen"
	"github.com/xhochy/cryptominisat/z"
)

func fromDimacs(t *testing.T, cnf string) *Solver {
	s, err := NewDimacs(strings.NewReader(cnf))
	require.NoError(t, err)
	return s
}

func checkModel(t *testing.T, s *Solver, clauses [][]int) {
	for _, c := range clauses {
		sat := false
		for _, d := range c {
			if s.Value(z.Dimacs2Lit(d)) {
				sat = true
				break
			}
		}
		require.True(t, sat, "clause %v unsatisfied", c)
	}
}

func TestTrivialSat(t *testing.T) {
	s := fromDimacs(t, "p cnf 3 2\n1 -2 0\n2 3 0\n")
	require.Equal(t, 1, s.Solve())
	checkModel(t, s, [][]int{{1, -2}, {2, 3}})
	require.Empty(t, s.CheckInvariants())
}

func TestTrivialUnsatAtAddTime(t *testing.T) {
	s := New()
	require.True(t, s.AddClause(z.Dimacs2Lit(1)))
	require.False(t, s.AddClause(z.Dimacs2Lit(-1)))
	require.Equal(t, -1, s.Solve())
}

func TestPigeonholeLikeSat(t *testing.T) {
	cls := [][]int{
		{1, 2}, {3, 4}, {5, 6},
		{-1, -3}, {-1, -5}, {-3, -5},
		{-2, -4}, {-2, -6}, {-4, -6},
	}
	s := fromDimacs(t, "p cnf 6 9\n1 2 0\n3 4 0\n5 6 0\n-1 -3 0\n-1 -5 0\n-3 -5 0\n-2 -4 0\n-2 -6 0\n-4 -6 0\n")
	require.Equal(t, 1, s.Solve())
	checkModel(t, s, cls)
}

func TestForcedChainCollapses(t *testing.T) {
	s := fromDimacs(t, "p cnf 4 4\n-1 2 0\n-2 3 0\n-3 4 0\n-4 1 0\n")
	require.Equal(t, 0, s.Simplify())
	// after simplification the cycle {1,2,3,4} has a single root
	require.NotZero(t, s.Stats().VarsReplaced)
	require.Equal(t, 1, s.Solve())
	checkModel(t, s, [][]int{{-1, 2}, {-2, 3}, {-3, 4}, {-4, 1}})
	v1 := s.Value(z.Dimacs2Lit(1))
	for _, d := range []int{2, 3, 4} {
		require.Equal(t, v1, s.Value(z.Dimacs2Lit(d)))
	}
}

func TestFailedLiteralFixes(t *testing.T) {
	s := fromDimacs(t, "p cnf 3 4\n1 2 0\n1 3 0\n1 -2 0\n1 -3 0\n")
	r := s.Simplify()
	require.NotEqual(t, -1, r)
	require.Equal(t, 1, s.Solve())
	require.True(t, s.Value(z.Dimacs2Lit(1)))
}

func TestXorByBinaryEquivalence(t *testing.T) {
	// a xor b = 1 and b xor c = 1 imply a == c
	s := fromDimacs(t, "p cnf 3 4\n1 2 0\n-1 -2 0\n2 3 0\n-2 -3 0\n")
	require.Equal(t, 0, s.Simplify())
	require.NotZero(t, s.Stats().VarsReplaced)
	require.Equal(t, 1, s.Solve())
	require.Equal(t, s.Value(z.Dimacs2Lit(1)), s.Value(z.Dimacs2Lit(3)))
	require.NotEqual(t, s.Value(z.Dimacs2Lit(1)), s.Value(z.Dimacs2Lit(2)))
}

func TestAssumptions(t *testing.T) {
	s := New()
	s.AddClause(z.Dimacs2Lit(1), z.Dimacs2Lit(2))
	s.AddClause(z.Dimacs2Lit(-1), z.Dimacs2Lit(2))
	s.AddClause(z.Dimacs2Lit(1), z.Dimacs2Lit(-2))
	s.Assume(z.Dimacs2Lit(-1))
	require.Equal(t, -1, s.Solve())
	require.NotEmpty(t, s.Why(nil))
	require.Equal(t, 1, s.Solve())
}

func TestNewVarDecide(t *testing.T) {
	s := New()
	a := s.NewVar(true)
	b := s.NewVar(false)
	s.AddClause(a.Pos(), b.Pos())
	require.Equal(t, 1, s.Solve())
	require.True(t, s.Value(a.Pos()) || s.Value(b.Pos()))
}

func TestDumpRoundTrip(t *testing.T) {
	cls := [][]int{
		{1, 2, 3}, {-1, -2}, {-2, -3}, {-1, -3},
		{4, 5}, {-4, 5}, {1, 4, 6, 7},
	}
	s := New()
	for _, c := range cls {
		ms := make([]z.Lit, len(c))
		for i, d := range c {
			ms[i] = z.Dimacs2Lit(d)
		}
		require.True(t, s.AddClause(ms...))
	}
	require.NotEqual(t, -1, s.Simplify())

	buf := bytes.NewBuffer(nil)
	require.NoError(t, s.DumpIrredClauses(buf))

	// parsing the dump into a fresh solver preserves satisfiability
	s2, err := NewDimacs(strings.NewReader("p cnf 7 1\n" + buf.String()))
	require.NoError(t, err)
	require.Equal(t, 1, s2.Solve())
	require.Equal(t, 1, s.Solve())
	checkModel(t, s, cls)
}

func TestDumpLearntsBounded(t *testing.T) {
	s := New()
	gen.Php(s, 6, 5)
	require.Equal(t, -1, s.Solve())
	buf := bytes.NewBuffer(nil)
	require.NoError(t, s.DumpLearnts(buf, 2))
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		require.LessOrEqual(t, len(fields), 3, "clause too long: %q", line)
	}
}

func TestInterruptReturnsUnknown(t *testing.T) {
	s := New()
	gen.HardRand3Cnf(s, 4096)
	done := make(chan int, 1)
	go func() { done <- s.Solve() }()
	time.Sleep(10 * time.Millisecond)
	s.SetNeedToInterrupt()
	select {
	case r := <-done:
		if r != 0 {
			t.Logf("finished before interrupt: %d", r)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("interrupt did not unwind the solver")
	}
}

func TestStress3CnfAgainstReference(t *testing.T) {
	n, m := 50, 213
	rounds := 1000
	if testing.Short() {
		rounds = 60
	}
	gen.Seed(42)
	for i := 0; i < rounds; i++ {
		s := New()
		ref := gen.NewDpll()
		tee := &stressTee{s: s, d: ref}
		gen.Rand3Cnf(tee, n, m)
		want := ref.Solve()
		got := s.Solve()
		require.Equal(t, want, got, "instance %d", i)
		if got == 1 {
			require.True(t, ref.Satisfies(func(m z.Lit) bool { return s.Value(m) }),
				"instance %d model", i)
		}
	}
}

type stressTee struct {
	s *Solver
	d *gen.Dpll
}

func (t *stressTee) Add(m z.Lit) {
	t.s.Add(m)
	t.d.Add(m)
}

func TestGoSolve(t *testing.T) {
	s := New()
	gen.BinCycle(s, 512)
	c := s.GoSolve()
	require.Equal(t, 1, c.Wait())
}

func TestSolverCopyIndependence(t *testing.T) {
	s := New()
	s.AddClause(z.Dimacs2Lit(1), z.Dimacs2Lit(2))
	o := s.Copy()
	o.AddClause(z.Dimacs2Lit(-1))
	o.AddClause(z.Dimacs2Lit(-2))
	require.Equal(t, -1, o.Solve())
	require.Equal(t, 1, s.Solve())
}

func TestConfigToggles(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.DoProbe = false
	cfg.DoSatElite = false
	cfg.DoClauseVivif = false
	s := NewWith(cfg)
	gen.Php(s, 5, 4)
	require.Equal(t, -1, s.Solve())
}

func TestParanoidSolve(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Paranoid = true
	s := NewWith(cfg)
	gen.Php(s, 5, 4)
	require.Equal(t, -1, s.Solve())

	s2 := NewWith(cfg.Copy())
	s2.AddClause(z.Dimacs2Lit(1), z.Dimacs2Lit(-2))
	s2.AddClause(z.Dimacs2Lit(2), z.Dimacs2Lit(3))
	require.Equal(t, 1, s2.Solve())
	require.NotEqual(t, -1, s2.Simplify())
}

func TestConsolidate(t *testing.T) {
	s := New()
	gen.Php(s, 6, 5)
	require.Equal(t, -1, s.Solve())
	// a forced consolidation is always legal, even with nothing pending
	s.Consolidate()
	require.Empty(t, s.CheckInvariants())
}
