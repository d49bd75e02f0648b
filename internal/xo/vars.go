// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"fmt"

	"github.com/xhochy/cryptominisat/z"
)

// Elim records why a variable is no longer live: eliminated by
// resolution (bounded variable elimination) or by equivalence (replaced
// by a root literal).
type Elim uint8

const (
	ElimLive Elim = iota
	ElimResolution
	ElimEquivalence
	ElimQueuedEquivalence
)

// Vars holds per-(inner)-variable solver state: current value, decision
// level, reason, and elimination bookkeeping. Distinct from z.Vars, which
// holds the outer<->inner index translation only.
type Vars struct {
	Max     z.Var
	Top     z.Var
	Vals    []int8 // -1, 0 (undef), 1, indexed by literal (2*v+sign)
	Reasons []Watch
	Levels  []int
	Watches [][]Watch // indexed by literal
	Elim    []Elim
	Decide  []bool // true while the variable is eligible as a decision
}

// NewVars creates per-variable state sized for capHint variables.
func NewVars(capHint int) *Vars {
	if capHint < 1 {
		capHint = 1
	}
	nv := &Vars{}
	nv.growToVar(z.Var(capHint))
	return nv
}

// Sign returns the stored value of literal m's variable translated into
// m's polarity: 1 true, -1 false, 0 undef.
func (vs *Vars) Sign(m z.Lit) int8 {
	v := vs.Vals[m.Var().Pos()]
	if m.Sign() < 0 {
		return -v
	}
	return v
}

// Set records m as true (and its negation false) at the current state,
// used by propagation/assignment; callers are expected to also update the
// trail and level/reason arrays.
func (vs *Vars) Set(m z.Lit) {
	vs.Vals[m] = 1
	vs.Vals[m.Not()] = -1
}

// Unset clears both polarities of m's variable back to undef.
func (vs *Vars) Unset(m z.Lit) {
	v := m.Var()
	vs.Vals[v.Pos()] = 0
	vs.Vals[v.Neg()] = 0
}

func (vs *Vars) growToVar(u z.Var) {
	if u <= vs.Max {
		return
	}
	w := u + 1
	nVals := make([]int8, 2*w)
	copy(nVals, vs.Vals)
	vs.Vals = nVals

	nReasons := make([]Watch, w)
	copy(nReasons, vs.Reasons)
	vs.Reasons = nReasons

	nLevels := make([]int, w)
	for i := range nLevels {
		nLevels[i] = -1
	}
	copy(nLevels, vs.Levels)
	vs.Levels = nLevels

	nWatches := make([][]Watch, 2*w)
	copy(nWatches, vs.Watches)
	vs.Watches = nWatches

	nElim := make([]Elim, w)
	copy(nElim, vs.Elim)
	vs.Elim = nElim

	nDecide := make([]bool, w)
	for i := range nDecide {
		nDecide[i] = true
	}
	copy(nDecide, vs.Decide)
	vs.Decide = nDecide

	vs.Max = u
}

// Copy returns a deep copy of the per-variable state.
func (vs *Vars) Copy() *Vars {
	o := &Vars{Max: vs.Max, Top: vs.Top}
	o.Vals = append([]int8(nil), vs.Vals...)
	o.Reasons = append([]Watch(nil), vs.Reasons...)
	o.Levels = append([]int(nil), vs.Levels...)
	o.Elim = append([]Elim(nil), vs.Elim...)
	o.Decide = append([]bool(nil), vs.Decide...)
	o.Watches = make([][]Watch, len(vs.Watches))
	for i, ws := range vs.Watches {
		o.Watches[i] = append([]Watch(nil), ws...)
	}
	return o
}

func (vs *Vars) String() string {
	return fmt.Sprintf("Vars{max:%d top:%d}", vs.Max, vs.Top)
}
