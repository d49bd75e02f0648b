// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import "github.com/xhochy/cryptominisat/z"

// Active is a per-literal occurrence index over the long clauses in the
// arena. The simplifier builds it before bounded variable elimination
// and drops it afterwards;
// while installed on the Cdb it is kept current across arena compaction
// via CRemap.
type Active struct {
	Occs [][]z.C // indexed by literal
}

func newActive(vcap int) *Active {
	return &Active{
		Occs: make([][]z.C, 2*(vcap+1)),
	}
}

// NewActiveCdb builds the occurrence index for every attached long clause
// in cdb and installs it so compaction keeps it consistent.
func NewActiveCdb(cdb *Cdb) *Active {
	a := newActive(int(cdb.Vars.Max))
	for _, loc := range cdb.Added {
		a.add(cdb, loc)
	}
	for _, loc := range cdb.Learnts {
		a.add(cdb, loc)
	}
	cdb.Active = a
	return a
}

func (a *Active) add(cdb *Cdb, loc z.C) {
	for i := int(loc); cdb.CDat.D[i] != z.LitNull; i++ {
		m := cdb.CDat.D[i]
		a.Occs[m] = append(a.Occs[m], loc)
	}
}

// Add registers a freshly attached long clause.
func (a *Active) Add(cdb *Cdb, loc z.C) {
	a.add(cdb, loc)
}

// RemoveLoc unregisters loc from every literal's occurrence list.
func (a *Active) RemoveLoc(cdb *Cdb, loc z.C) {
	for i := int(loc); cdb.CDat.D[i] != z.LitNull; i++ {
		m := cdb.CDat.D[i]
		sl := a.Occs[m]
		for k, c := range sl {
			if c == loc {
				sl[k] = sl[len(sl)-1]
				a.Occs[m] = sl[:len(sl)-1]
				break
			}
		}
	}
}

// ForOccs calls f for every long clause containing m.
func (a *Active) ForOccs(m z.Lit, f func(z.C)) {
	for _, loc := range a.Occs[m] {
		f(loc)
	}
}

// CRemap rewrites occurrence entries after an arena compaction. Clauses
// absent from the relocation map were dropped by the compaction.
func (a *Active) CRemap(rlm map[z.C]z.C) {
	for i := range a.Occs {
		sl := a.Occs[i]
		j := 0
		for _, c := range sl {
			if d, ok := rlm[c]; ok && d != CNull {
				sl[j] = d
				j++
			}
		}
		a.Occs[i] = sl[:j]
	}
}

func (a *Active) growToVar(u z.Var) {
	w := 2 * (u + 1)
	if int(w) <= len(a.Occs) {
		return
	}
	oc := make([][]z.C, w)
	copy(oc, a.Occs)
	a.Occs = oc
}

// Copy returns a deep copy.
func (a *Active) Copy() *Active {
	res := &Active{
		Occs: make([][]z.C, len(a.Occs), cap(a.Occs)),
	}
	for i, asl := range a.Occs {
		res.Occs[i] = append([]z.C(nil), asl...)
	}
	return res
}
