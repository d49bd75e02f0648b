// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"fmt"

	"github.com/xhochy/cryptominisat/z"
)

// Deriver performs first-UIP conflict analysis: walking predecessors
// backward from a conflict, building the learnt clause, recursively
// minimizing it, and computing its glue and backjump level. The scratch
// arrays (Seen, Lvls, Rdnt) are solver-owned; every callee restores
// every entry to zero on exit.
type Deriver struct {
	Cdb   *Cdb
	Vars  *Vars
	Guess *Guess
	Trail *Trail

	CLits []z.Lit // the learnt clause under construction; CLits[0] is the asserting literal
	SLits []z.Lit // current-level literals seen during the walk
	RLits []z.Lit // literals visited by minimization, for scratch restore
	rsBuf []z.Lit // reason-literal scratch
	Lvls  []bool
	lvlS  []int // levels flagged in Lvls, for scratch restore
	Rdnt  []int8
	Seen  []bool

	Conflicts  int64
	Learnt     int64
	LearntLits int64
	RedLits    int64
}

// NewDeriver creates a deriver bound to cdb, g and t.
func NewDeriver(cdb *Cdb, g *Guess, t *Trail) *Deriver {
	n := int(cdb.Vars.Max) + 1
	return &Deriver{
		Cdb:   cdb,
		Vars:  cdb.Vars,
		Guess: g,
		Trail: t,
		CLits: make([]z.Lit, 0, 1024),
		SLits: make([]z.Lit, 0, 1024),
		RLits: make([]z.Lit, 0, 1024),
		rsBuf: make([]z.Lit, 0, 32),
		Lvls:  make([]bool, n+1),
		Rdnt:  make([]int8, n),
		Seen:  make([]bool, n),
	}
}

// CopyWith returns a deep copy bound to previously-copied components.
func (d *Deriver) CopyWith(cdb *Cdb, g *Guess, t *Trail) *Deriver {
	return &Deriver{
		Cdb:   cdb,
		Vars:  cdb.Vars,
		Guess: g,
		Trail: t,
		CLits: append([]z.Lit(nil), d.CLits...),
		SLits: append([]z.Lit(nil), d.SLits...),
		RLits: append([]z.Lit(nil), d.RLits...),
		rsBuf: make([]z.Lit, 0, 32),
		Lvls:  append([]bool(nil), d.Lvls...),
		Rdnt:  append([]int8(nil), d.Rdnt...),
		Seen:  append([]bool(nil), d.Seen...),
	}
}

// Derived is the product of one conflict analysis.
type Derived struct {
	P           z.C   // arena location if the learnt clause is long, CNull otherwise
	Unit        z.Lit // the asserting literal
	Reason      Watch // reason to attach when enqueueing Unit after backjump
	Size        int
	Glue        int
	TargetLevel int // backjump level: second-highest level in the learnt clause
}

// Derive analyzes the conflict x, learns the derived clause (committing it
// to the clause database), and returns the asserting literal, its reason,
// and the backjump level.
func (d *Deriver) Derive(x Conflict) *Derived {
	d.Conflicts++
	cdb := d.Cdb
	trail := d.Trail
	guess := d.Guess
	levels := d.Vars.Levels
	reasons := d.Vars.Reasons
	seen := d.Seen
	lvlP := d.Lvls
	curLevel := trail.Level

	if !x.W.IsImplicit() {
		cdb.Bump(x.W.C())
		cdb.NoteConfl(x.W.C())
	}

	cLits := append(d.CLits[:0], z.LitNull) // slot 0: the 1-UIP, filled below
	sLits := d.SLits[:0]
	result := &Derived{}
	glue := 0
	count := 0

	rs := cdb.ReasonLits(d.rsBuf[:0], x.Lit, x.W)
	i := trail.Tail - 1
	for {
		for _, m := range rs {
			v := m.Var()
			if seen[v] {
				continue
			}
			lvl := levels[v]
			if lvl == 0 {
				continue
			}
			seen[v] = true
			if lvl != curLevel {
				cLits = append(cLits, m)
				if result.TargetLevel < lvl {
					result.TargetLevel = lvl
				}
				if !lvlP[lvl] {
					lvlP[lvl] = true
					d.lvlS = append(d.lvlS, lvl)
					glue++
				}
				continue
			}
			sLits = append(sLits, m)
			guess.Bump(v)
			count++
		}
		// walk back to the next marked literal at the current level
		for !seen[trail.D[i].Var()] {
			i--
		}
		m := trail.D[i]
		count--
		if count == 0 {
			cLits[0] = m.Not()
			guess.Bump(m.Var())
			break
		}
		r := reasons[m.Var()]
		if !r.IsImplicit() && r != ReasonNull {
			cdb.Bump(r.C())
			cdb.NoteConfl(r.C())
		}
		rs = cdb.ReasonLits(d.rsBuf[:0], m, r)[1:] // skip m itself
		i--
	}

	// restore seen; minimize uses only Lvls and Rdnt
	for _, m := range sLits {
		seen[m.Var()] = false
	}
	for _, m := range cLits {
		seen[m.Var()] = false
	}
	d.SLits = sLits[:0]
	d.CLits = cLits

	d.minimize()
	cLits = d.CLits

	// the second watch must sit at the backjump level so the clause
	// stays correctly watched across backtracking; recompute the level
	// from the minimized literal set
	result.TargetLevel = 0
	if len(cLits) > 1 {
		hi := 1
		for i := 2; i < len(cLits); i++ {
			if levels[cLits[i].Var()] > levels[cLits[hi].Var()] {
				hi = i
			}
		}
		cLits[1], cLits[hi] = cLits[hi], cLits[1]
		result.TargetLevel = levels[cLits[1].Var()]
	}

	result.Glue = glue + 1 // plus the asserting literal's (current) level
	result.P = cdb.Learn(cLits, result.Glue)
	result.Unit = cLits[0]
	result.Size = len(cLits)
	switch len(cLits) {
	case 1:
		result.Reason = ReasonNull
		result.TargetLevel = 0
	case 2:
		result.Reason = MakeBinWatch(cLits[1], true)
	case 3:
		result.Reason = MakeTriWatch(cLits[1], cLits[2], true)
	default:
		result.Reason = MakeLongWatch(result.P, cLits[1])
	}
	d.Learnt++
	return result
}

// minimize removes literals whose reasons are subsumed by the rest of the
// learnt clause (recursive clause minimization).
func (d *Deriver) minimize() {
	cLits := d.CLits
	rdnt := d.Rdnt
	for i := 1; i < len(cLits); i++ {
		rdnt[cLits[i].Var()] = 1
	}
	j := 1
	i := 1
	for ; i < len(cLits); i++ {
		m := cLits[i]
		if d.isRdnt(m) {
			continue
		}
		d.Guess.Bump(m.Var())
		cLits[j] = m
		j++
	}
	d.LearntLits += int64(j)
	d.RedLits += int64(i - j)
	d.CLits = cLits[:j]

	// restore scratch: every entry point passed through isRdnt, which
	// records itself and everything it visits in RLits
	for _, m := range d.RLits {
		rdnt[m.Var()] = 0
	}
	d.RLits = d.RLits[:0]
	for _, lvl := range d.lvlS {
		d.Lvls[lvl] = false
	}
	d.lvlS = d.lvlS[:0]
}

func (d *Deriver) isRdnt(m z.Lit) bool {
	d.Rdnt[m.Var()] = 0
	res := d.isRdntRec(m)
	d.Rdnt[m.Var()] = 1
	return res
}

func (d *Deriver) isRdntRec(m z.Lit) bool {
	v := m.Var()
	switch d.Rdnt[v] {
	case 0:
		d.RLits = append(d.RLits, m)
		lvl := d.Vars.Levels[v]
		if lvl > 0 && !d.Lvls[lvl] {
			d.Rdnt[v] = -1
			return false
		}
		if lvl == 0 {
			d.Rdnt[v] = 1
			return true
		}
		r := d.Vars.Reasons[v]
		if r == ReasonNull {
			d.Rdnt[v] = -1
			return false
		}
		rs := d.Cdb.ReasonLits(nil, m, r)
		for _, n := range rs[1:] {
			if d.Vars.Levels[n.Var()] == 0 {
				continue
			}
			if !d.isRdntRec(n) {
				d.Rdnt[v] = -1
				return false
			}
		}
		d.Rdnt[v] = 1
		return true
	case 1:
		return true
	case -1:
		return false
	default:
		panic("unexpected Rdnt")
	}
}

// CheckScratch verifies every scratch array is zeroed. Used by tests.
func (d *Deriver) CheckScratch() error {
	for i, b := range d.Seen {
		if b {
			return fmt.Errorf("seen[%d] not restored", i)
		}
	}
	for i, b := range d.Lvls {
		if b {
			return fmt.Errorf("lvls[%d] not restored", i)
		}
	}
	for i, r := range d.Rdnt {
		if r != 0 {
			return fmt.Errorf("rdnt[%d] not restored", i)
		}
	}
	return nil
}

func (d *Deriver) growToVar(u z.Var) {
	n := int(u) + 1
	lvls := make([]bool, n+1)
	copy(lvls, d.Lvls)
	d.Lvls = lvls
	seen := make([]bool, n)
	copy(seen, d.Seen)
	d.Seen = seen
	rdnt := make([]int8, n)
	copy(rdnt, d.Rdnt)
	d.Rdnt = rdnt
}

func (d *Deriver) String() string {
	return fmt.Sprintf("Deriver{conflicts:%d learnt:%d minimized:%d}", d.Conflicts, d.Learnt, d.RedLits)
}
