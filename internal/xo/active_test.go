// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"testing"

	"github.com/xhochy/cryptominisat/z"
)

func TestActiveOccs(t *testing.T) {
	s := NewS()
	add := func(ms ...z.Lit) {
		for _, m := range ms {
			s.Add(m)
		}
		s.Add(z.LitNull)
	}
	add(z.Var(1).Pos(), z.Var(2).Pos(), z.Var(3).Pos(), z.Var(4).Pos())
	add(z.Var(1).Pos(), z.Var(2).Neg(), z.Var(5).Pos(), z.Var(6).Pos())
	add(z.Var(1).Neg(), z.Var(3).Pos(), z.Var(5).Neg(), z.Var(7).Pos())

	a := NewActiveCdb(s.Cdb)
	if n := len(a.Occs[z.Var(1).Pos()]); n != 2 {
		t.Errorf("occs(1) = %d, want 2", n)
	}
	if n := len(a.Occs[z.Var(1).Neg()]); n != 1 {
		t.Errorf("occs(-1) = %d, want 1", n)
	}

	// removing a clause drops its occurrences
	loc := s.Cdb.Added[0]
	s.Cdb.Remove(loc)
	s.Cdb.Added = s.Cdb.Added[1:]
	if n := len(a.Occs[z.Var(1).Pos()]); n != 1 {
		t.Errorf("occs(1) after remove = %d, want 1", n)
	}

	// a freshly attached clause registers
	add(z.Var(2).Pos(), z.Var(4).Neg(), z.Var(6).Neg(), z.Var(7).Neg())
	if n := len(a.Occs[z.Var(2).Pos()]); n != 1 {
		t.Errorf("occs(2) after attach = %d, want 1", n)
	}
	s.Cdb.Active = nil
}

func TestActiveCRemap(t *testing.T) {
	s := NewS()
	add := func(ms ...z.Lit) {
		for _, m := range ms {
			s.Add(m)
		}
		s.Add(z.LitNull)
	}
	var firstVars []z.Var
	for i := 0; i < 16; i++ {
		v := z.Var(i*4 + 1)
		firstVars = append(firstVars, v)
		add(v.Pos(), (v + 1).Pos(), (v + 2).Pos(), (v + 3).Pos())
	}
	a := NewActiveCdb(s.Cdb)
	rm := append([]z.C(nil), s.Cdb.Added[:12]...)
	s.Cdb.Remove(rm...)
	s.Cdb.Added = s.Cdb.Added[12:]
	s.Cdb.MaybeCompact()
	// surviving occurrences must point at valid clauses containing the
	// right variable
	for _, v := range firstVars[12:] {
		occs := a.Occs[v.Pos()]
		if len(occs) != 1 {
			t.Errorf("occs(%s) = %d, want 1", v, len(occs))
			continue
		}
		ms := s.Cdb.CDat.Load(occs[0], nil)
		found := false
		for _, m := range ms {
			if m.Var() == v {
				found = true
			}
		}
		if !found {
			t.Errorf("occurrence of %s points at %v", v, ms)
		}
	}
	for _, v := range firstVars[:12] {
		if len(a.Occs[v.Pos()]) != 0 {
			t.Errorf("stale occurrence for removed clause of %s", v)
		}
	}
	s.Cdb.Active = nil
}
