// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"github.com/xhochy/cryptominisat/z"
)

// Dpll is a tiny reference solver used to cross-check answers on small
// random instances. It records clauses via Add like inter.Adder and
// decides satisfiability by plain recursive DPLL with unit propagation.
type Dpll struct {
	clauses [][]z.Lit
	cur     []z.Lit
	maxVar  z.Var
}

// NewDpll creates an empty reference solver.
func NewDpll() *Dpll {
	return &Dpll{}
}

// Add accumulates clause literals; z.LitNull terminates.
func (d *Dpll) Add(m z.Lit) {
	if m == z.LitNull {
		cl := make([]z.Lit, len(d.cur))
		copy(cl, d.cur)
		d.clauses = append(d.clauses, cl)
		d.cur = d.cur[:0]
		return
	}
	if m.Var() > d.maxVar {
		d.maxVar = m.Var()
	}
	d.cur = append(d.cur, m)
}

// Solve returns 1 if satisfiable, -1 otherwise.
func (d *Dpll) Solve() int {
	asn := make([]int8, d.maxVar+1)
	if d.sat(asn) {
		return 1
	}
	return -1
}

// Satisfies reports whether the assignment given by model satisfies
// every recorded clause.
func (d *Dpll) Satisfies(model func(z.Lit) bool) bool {
	for _, cl := range d.clauses {
		sat := false
		for _, m := range cl {
			if model(m) {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}

func (d *Dpll) sat(asn []int8) bool {
	for {
		unitVar, unitSign, status := d.scan(asn)
		switch status {
		case -1:
			return false
		case 1:
			return true
		}
		if unitVar == 0 {
			break
		}
		asn[unitVar] = unitSign
	}
	// branch on the first unassigned variable
	var v z.Var
	for i := z.Var(1); i <= d.maxVar; i++ {
		if asn[i] == 0 {
			v = i
			break
		}
	}
	if v == 0 {
		return d.allSat(asn)
	}
	for _, sign := range []int8{1, -1} {
		na := make([]int8, len(asn))
		copy(na, asn)
		na[v] = sign
		if d.sat(na) {
			return true
		}
	}
	return false
}

// scan looks for a unit clause or a falsified clause; status is -1 when
// some clause is false, 1 when every clause is satisfied.
func (d *Dpll) scan(asn []int8) (z.Var, int8, int) {
	allSat := true
	for _, cl := range d.clauses {
		sat := false
		unassigned := 0
		var last z.Lit
		for _, m := range cl {
			switch litVal(asn, m) {
			case 1:
				sat = true
			case 0:
				unassigned++
				last = m
			}
			if sat {
				break
			}
		}
		if sat {
			continue
		}
		allSat = false
		if unassigned == 0 {
			return 0, 0, -1
		}
		if unassigned == 1 {
			sign := int8(1)
			if !last.IsPos() {
				sign = -1
			}
			return last.Var(), sign, 0
		}
	}
	if allSat {
		return 0, 0, 1
	}
	return 0, 0, 0
}

func (d *Dpll) allSat(asn []int8) bool {
	for _, cl := range d.clauses {
		sat := false
		for _, m := range cl {
			if litVal(asn, m) == 1 {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}

func litVal(asn []int8, m z.Lit) int8 {
	v := asn[m.Var()]
	if m.IsPos() {
		return v
	}
	return -v
}
