// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"testing"

	"github.com/xhochy/cryptominisat/z"
)

func TestLongWatch(t *testing.T) {
	loc := z.C(77)
	blocker := z.Lit(1024)
	w := MakeLongWatch(loc, blocker)
	if w.IsImplicit() {
		t.Errorf("long watch tagged implicit")
	}
	if w.Other() != blocker {
		t.Errorf("blocker decode: %s != %s", w.Other(), blocker)
	}
	if w.C() != loc {
		t.Errorf("loc en/decode: %s != %s", w.C(), loc)
	}

	newLoc := z.C(22)
	w0 := w.Relocate(newLoc)
	if w0.Other() != blocker {
		t.Errorf("relocate blocker: %s != %s", w0.Other(), blocker)
	}
	if w0.C() != newLoc {
		t.Errorf("relocate newloc %s != %s", w0.C(), newLoc)
	}
	w1 := w.WithBlocker(z.Lit(9))
	if w1.Other() != z.Lit(9) || w1.C() != loc {
		t.Errorf("with blocker: %s", w1)
	}
}

func TestBinWatch(t *testing.T) {
	for _, learnt := range []bool{false, true} {
		w := MakeBinWatch(z.Lit(3), learnt)
		if !w.IsBinary() || w.IsTernary() || !w.IsImplicit() {
			t.Errorf("bin watch kind: %s", w)
		}
		if w.Other() != z.Lit(3) {
			t.Errorf("bin partner: %s", w.Other())
		}
		if w.Learnt() != learnt {
			t.Errorf("bin learnt: %t", w.Learnt())
		}
	}
}

func TestTriWatch(t *testing.T) {
	for _, learnt := range []bool{false, true} {
		w := MakeTriWatch(z.Lit(5), z.Lit(1024), learnt)
		if !w.IsTernary() || w.IsBinary() || !w.IsImplicit() {
			t.Errorf("tri watch kind: %s", w)
		}
		if w.Other() != z.Lit(5) || w.Other2() != z.Lit(1024) {
			t.Errorf("tri partners: %s %s", w.Other(), w.Other2())
		}
		if w.Learnt() != learnt {
			t.Errorf("tri learnt: %t", w.Learnt())
		}
	}
}

func TestLocOverflow(t *testing.T) {
	loc := z.C(1 << 29)
	w := MakeLongWatch(loc, z.Lit(7))
	if w.C() != loc {
		t.Errorf("loc overflow: %s != %s", w.C(), loc)
	}
}
