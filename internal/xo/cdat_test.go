// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"fmt"
	"testing"

	"github.com/xhochy/cryptominisat/z"
)

var cnf = [][]z.Lit{
	{z.Lit(3), z.Lit(5), z.Lit(6), z.Lit(24)},
	{z.Lit(104), z.Lit(97), z.Lit(17), z.Lit(19), z.Lit(3), z.Lit(9), z.Lit(10), z.Lit(12), z.Lit(14), z.Lit(20), z.Lit(22), z.Lit(24), z.Lit(26),
		z.Lit(28), z.Lit(30), z.Lit(32), z.Lit(34), z.Lit(36), z.Lit(38), z.Lit(40), z.Lit(42), z.Lit(44), z.Lit(46), z.Lit(48), z.Lit(50), z.Lit(52), z.Lit(54),
		z.Lit(56), z.Lit(58), z.Lit(60), z.Lit(62), z.Lit(64), z.Lit(66), z.Lit(68), z.Lit(70)},
	{z.Lit(33), z.Lit(7), z.Lit(9), z.Lit(11)},
	{z.Lit(13), z.Lit(15), z.Lit(17), z.Lit(19), z.Lit(21)},
	{z.Lit(2), z.Lit(4), z.Lit(8), z.Lit(16)}}

var hds = []Chd{
	MakeChd(false, 0, 4),
	MakeChd(true, 0, 35), // size exceeds the 5-bit modulus, exercising the scan in Next
	MakeChd(false, 4, 4),
	MakeChd(true, 3, 5),
	MakeChd(true, 0, 4)}

// remove clauses at indices rmi, leave behind those at indices left
var rmi = [...]int{0, 2, 3}
var left = [...]int{1, 4}

func TestCDat(t *testing.T) {
	ldb := NewCDat(8)
	locs := make([]z.C, 0, 10)
	for i, cls := range cnf {
		locs = append(locs, ldb.AddLits(hds[i], cls))
	}
	ms := make([]z.Lit, 0, 10)
	for i, p := range locs {
		ms = ms[:0]
		ms = ldb.Load(p, ms)
		if len(ms) != len(cnf[i]) {
			t.Errorf("bad load or put: %v != %v", ms, cnf[i])
		}
		for j, m := range ms {
			if m != cnf[i][j] {
				t.Errorf("mismatched clause %d[%d]: %s != %s", i, j, m, cnf[i][j])
			}
		}
		if ldb.Chd(p) != hds[i] {
			t.Errorf("mismatched header %d", i)
		}
	}
	for i, j := 0, 1; j < len(locs); i, j = i+1, j+1 {
		if locs[i] == locs[j] {
			t.Errorf("adjacent locs: %d, %d", i, j)
		}
		if ldb.Next(locs[i]) != locs[j] {
			t.Errorf("next: %s != %s", ldb.Next(locs[i]), locs[j])
		}
	}

	n := 0
	ldb.Forall(func(i int, loc z.C, ms []z.Lit) {
		if loc != locs[i] {
			t.Errorf("forall loc %d: %s != %s", i, loc, locs[i])
		}
		n++
	})
	if n != len(cnf) {
		t.Errorf("forall visited %d clauses, want %d", n, len(cnf))
	}

	// test compact
	rm := make([]z.C, len(rmi))
	for i, j := range rmi {
		rm[i] = locs[j]
	}
	m, _ := ldb.Compact(rm)
	for _, i := range left {
		p, ok := m[locs[i]]
		if !ok {
			t.Errorf("missing location")
			continue
		}
		if p == CNull {
			t.Errorf("left clause indicated as removed in map")
		}
		ms = ms[:0]
		ms = ldb.Load(p, ms)
		if len(ms) != len(cnf[i]) {
			t.Errorf("bad load after compact: %v != %v", ms, cnf[i])
		}
		for j, lit := range ms {
			if lit != cnf[i][j] {
				t.Errorf("mismatched clause %d[%d] after compact", i, j)
			}
		}
		if ldb.Chd(p) != hds[i] {
			t.Errorf("mismatched head after compact: %s != %s", ldb.Chd(p), hds[i])
		}
	}
	for _, j := range rmi {
		if _, ok := m[locs[j]]; ok {
			t.Errorf("removed clause still mapped")
		}
	}
	if ldb.ClsLen != len(left) {
		t.Errorf("ClsLen %d != %d", ldb.ClsLen, len(left))
	}
	// for coverage, not really value-tested...
	_ = fmt.Sprintf("%s", ldb)
}

func TestCDatBumpDecay(t *testing.T) {
	ldb := NewCDat(8)
	loc := ldb.AddLits(MakeChd(true, 2, 4), cnf[0])
	h0 := ldb.Chd(loc).Heat()
	for i := 0; i < 100; i++ {
		ldb.Bump(loc)
	}
	if ldb.Chd(loc).Heat() != h0+100 {
		t.Errorf("heat %d != %d", ldb.Chd(loc).Heat(), h0+100)
	}
	ldb.Decay()
	if ldb.Chd(loc).Heat() != (h0+100)/2 {
		t.Errorf("decay heat %d", ldb.Chd(loc).Heat())
	}
	if ldb.Chd(loc).Lbd() != 2 || !ldb.Chd(loc).Learnt() {
		t.Errorf("bump/decay clobbered header %s", ldb.Chd(loc))
	}
}
