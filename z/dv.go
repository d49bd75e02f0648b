// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package z

import "fmt"

// Vars maintains the bidirectional outer<->inner variable map. Outer
// indices are what callers of the public surface see; inner indices are
// what the solver's variable-indexed arrays are keyed by. Renumbering
// compacts the inner space without disturbing any outer index a caller
// is holding.
type Vars struct {
	i2o  []Var // inner -> outer
	o2i  []Var // outer -> inner
	free []Var // freed inner slots, reusable before growing
	iMax Var
	oMax Var
}

// NewVars creates an empty outer<->inner map.
func NewVars() *Vars {
	v := &Vars{
		i2o: make([]Var, 1, 128),
		o2i: make([]Var, 1, 128),
	}
	v.i2o[0] = 0
	v.o2i[0] = 0
	return v
}

// Copy returns a deep copy.
func (vs *Vars) Copy() *Vars {
	o := &Vars{
		i2o:  make([]Var, len(vs.i2o), cap(vs.i2o)),
		o2i:  make([]Var, len(vs.o2i), cap(vs.o2i)),
		free: make([]Var, len(vs.free), cap(vs.free)),
		iMax: vs.iMax,
		oMax: vs.oMax,
	}
	copy(o.i2o, vs.i2o)
	copy(o.o2i, vs.o2i)
	copy(o.free, vs.free)
	return o
}

// Inner allocates a fresh inner variable (reusing a freed slot if any) and
// returns its positive literal. The caller is responsible for associating
// it with an outer variable via the embedding solver's new_var path.
func (vs *Vars) Inner() Lit {
	var iv Var
	if n := len(vs.free); n > 0 {
		iv = vs.free[n-1]
		vs.free = vs.free[:n-1]
	} else {
		vs.iMax++
		iv = vs.iMax
		vs.ensureInnerCap(iv)
	}
	return iv.Pos()
}

// Free releases the inner variable of m back to the free list so a future
// Inner() call can reuse its slot. This is how renumbering and
// bounded variable elimination give up an inner index without shrinking
// every array that is keyed by it.
func (vs *Vars) Free(m Lit) {
	vs.free = append(vs.free, m.Var())
}

// ToInner maps an outer literal to its inner equivalent, allocating a new
// inner variable and recording the mapping if m's variable has not been
// seen before (this is how new_var/add_clause populate the map lazily).
func (vs *Vars) ToInner(m Lit) Lit {
	if m == LitNull {
		return LitNull
	}
	ov := m.Var()
	vs.ensureOuterCap(ov)
	iv := vs.o2i[ov]
	if iv == 0 {
		inner := vs.Inner()
		iv = inner.Var()
		vs.o2i[ov] = iv
		vs.ensureInnerCap(iv)
		vs.i2o[iv] = ov
	}
	if m.Sign() < 0 {
		return iv.Neg()
	}
	return iv.Pos()
}

// ToInners maps a slice of outer literals to inner literals in place,
// returning the same backing slice for convenience.
func (vs *Vars) ToInners(ms []Lit) []Lit {
	for i, m := range ms {
		ms[i] = vs.ToInner(m)
	}
	return ms
}

// ToOuter maps an inner literal back to its outer literal. Unlike ToInner
// this never allocates: every inner variable must already have an outer
// counterpart (inner variables are created for renumbering and elimination
// bookkeeping only, never exposed to a caller that hasn't seen the outer
// side first).
func (vs *Vars) ToOuter(m Lit) Lit {
	if m == LitNull {
		return LitNull
	}
	iv := m.Var()
	ov := vs.i2o[iv]
	if m.Sign() < 0 {
		return ov.Neg()
	}
	return ov.Pos()
}

// ToOuters maps a slice of inner literals to outer literals in place.
func (vs *Vars) ToOuters(ms []Lit) []Lit {
	for i, m := range ms {
		ms[i] = vs.ToOuter(m)
	}
	return ms
}

// Renumber replaces the inner side of the map wholesale: perm[old inner
// var] = new inner var, for every still-live old inner var; dead vars are
// omitted and their slots become free. The outer side is untouched, so
// every caller-visible index keeps meaning what it always meant.
func (vs *Vars) Renumber(perm map[Var]Var, newMax Var) {
	i2o := make([]Var, newMax+1)
	o2i := make([]Var, len(vs.o2i))
	for iv, ov := range vs.i2o {
		if Var(iv) == 0 {
			continue
		}
		niv, live := perm[Var(iv)]
		if !live {
			continue
		}
		i2o[niv] = ov
		o2i[ov] = niv
	}
	vs.i2o = i2o
	vs.o2i = o2i
	vs.iMax = newMax
	vs.free = vs.free[:0]
}

func (vs *Vars) ensureInnerCap(u Var) {
	if int(u) < len(vs.i2o) {
		return
	}
	n := make([]Var, u+1)
	copy(n, vs.i2o)
	vs.i2o = n
}

func (vs *Vars) ensureOuterCap(u Var) {
	if u > vs.oMax {
		vs.oMax = u
	}
	if int(u) < len(vs.o2i) {
		return
	}
	n := make([]Var, u+1)
	copy(n, vs.o2i)
	vs.o2i = n
}

func (vs *Vars) String() string {
	return fmt.Sprintf("Vars{inner:%d outer:%d free:%d}", vs.iMax, vs.oMax, len(vs.free))
}
