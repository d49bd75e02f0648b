// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"math/rand"
	"testing"

	"github.com/xhochy/cryptominisat/gen"
	"github.com/xhochy/cryptominisat/z"
)

func TestTrailBinaryChain(t *testing.T) {
	N := 8
	s := NewS()
	gen.BinCycle(s, N)
	trail := s.Trail
	trail.Decide(z.Var(1).Pos())
	x := trail.Prop()
	if !x.IsNull() {
		t.Errorf("binary cycle: unexpected conflict")
	}
	if trail.Tail != N {
		t.Errorf("binary cycle: tail %d != %d", trail.Tail, N)
	}
	for v := z.Var(1); v <= z.Var(N); v++ {
		if s.Vars.Sign(v.Pos()) != 1 {
			t.Errorf("var %s not forced true", v)
		}
	}
	trail.Back(0)
	if trail.Tail != 0 || trail.Level != 0 {
		t.Errorf("backtrack didn't clear trail")
	}
}

func TestTrailBinaryConflict(t *testing.T) {
	N := 8
	s := NewS()
	gen.BinCycle(s, N)
	// the cycle makes all variables equivalent; (¬1 ∨ ¬2) then
	// conflicts with deciding 1 true
	s.Add(z.Var(1).Neg())
	s.Add(z.Var(2).Neg())
	s.Add(z.LitNull)
	trail := s.Trail
	trail.Decide(z.Var(1).Pos())
	x := trail.Prop()
	if x.IsNull() {
		t.Errorf("binary cycle with exclusion: expected conflict")
	}
}

func TestTrailTernary(t *testing.T) {
	s := NewS()
	// (1 2 3), forcing 3 once 1 and 2 are false
	s.Add(z.Var(1).Pos())
	s.Add(z.Var(2).Pos())
	s.Add(z.Var(3).Pos())
	s.Add(z.LitNull)
	trail := s.Trail
	trail.Decide(z.Var(1).Neg())
	if x := trail.Prop(); !x.IsNull() {
		t.Fatalf("conflict too early")
	}
	trail.Decide(z.Var(2).Neg())
	if x := trail.Prop(); !x.IsNull() {
		t.Fatalf("conflict instead of unit")
	}
	if s.Vars.Sign(z.Var(3).Pos()) != 1 {
		t.Errorf("ternary didn't propagate")
	}
	r := s.Vars.Reasons[3]
	if !r.IsTernary() {
		t.Errorf("reason not ternary: %s", r)
	}
}

func TestTrailLongUnit(t *testing.T) {
	s := NewS()
	s.Add(z.Var(1).Pos())
	s.Add(z.Var(2).Pos())
	s.Add(z.Var(3).Pos())
	s.Add(z.Var(4).Pos())
	s.Add(z.LitNull)
	trail := s.Trail
	for _, v := range []z.Var{1, 2, 3} {
		trail.Decide(v.Neg())
		if x := trail.Prop(); !x.IsNull() {
			t.Fatalf("early conflict at %s", v)
		}
	}
	if s.Vars.Sign(z.Var(4).Pos()) != 1 {
		t.Errorf("long clause didn't propagate")
	}
	if errs := s.Cdb.CheckWatches(); len(errs) != 0 {
		t.Errorf("watches broken: %v", errs)
	}

	trail.Back(0)
	s.Add(z.Var(4).Neg())
	s.Add(z.LitNull)
	if x := trail.Prop(); !x.IsNull() {
		t.Fatalf("unit alone conflicted")
	}
	trail.Decide(z.Var(1).Neg())
	if x := trail.Prop(); !x.IsNull() {
		t.Fatalf("early conflict")
	}
	trail.Decide(z.Var(2).Neg())
	if x := trail.Prop(); !x.IsNull() {
		t.Fatalf("conflict instead of unit")
	}
	// with 1, 2, 4 false the long clause forces 3
	if s.Vars.Sign(z.Var(3).Pos()) != 1 {
		t.Errorf("long clause didn't force the remaining literal")
	}
}

func TestTrailRandWalk(t *testing.T) {
	N := 128
	s := NewS()
	gen.Rand3Cnf(s, N, N*4)
	trail := s.Trail
	rnd := rand.New(rand.NewSource(7))
	for trail.Tail < N {
		m := z.Lit(rnd.Intn(N*2) + 2)
		if s.Vars.Vals[m] != 0 {
			continue
		}
		trail.Decide(m)
		x := trail.Prop()
		if !x.IsNull() {
			trail.Back(trail.Level - 1)
		}
		if errs := s.Cdb.CheckWatches(); len(errs) != 0 {
			t.Fatalf("watch errors: %v", errs)
		}
		if trail.Level == 0 {
			break
		}
	}
}

func TestBinNeighbors(t *testing.T) {
	s := NewS()
	gen.BinCycle(s, 4)
	// clause (1, -2): 2 implies 1
	ns := s.Trail.BinNeighbors(z.Var(2).Pos(), nil)
	found := false
	for _, n := range ns {
		if n == z.Var(1).Pos() {
			found = true
		}
	}
	if !found {
		t.Errorf("one-hop implication missing: %v", ns)
	}
}
