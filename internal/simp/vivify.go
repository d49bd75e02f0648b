// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package simp

import (
	"github.com/xhochy/cryptominisat/z"
)

// vivifyPass re-examines each long irredundant clause under unit
// propagation of its negated prefix: a conflict or an implied literal
// proves a shorter equivalent clause, which replaces the original.
// Bounded by a propagation budget derived from the probing budget.
func (sp *Simp) vivifyPass() bool {
	s := sp.s
	t := s.Trail
	t.Back(0)
	if !t.Prop().IsNull() {
		return false
	}
	budget := sp.probeBudget
	startProps := t.Props

	locs := append([]z.C(nil), s.Cdb.Added...)
	for _, loc := range locs {
		if t.Props-startProps > budget {
			break
		}
		if s.Interrupted() {
			break
		}
		if !stillAttached(s.Cdb.Added, loc) {
			continue
		}
		ms := s.Cdb.CDat.Load(loc, nil)
		shorter, sat := sp.vivifyClause(ms)
		if sat || len(shorter) >= len(ms) {
			continue
		}
		s.Cdb.St.Vivified++
		s.Cdb.Remove(loc)
		s.Cdb.Added = dropLocs(s.Cdb.Added, []z.C{loc})
		if !sp.addClauseInt(shorter) {
			return false
		}
	}
	s.Cdb.MaybeCompact()
	return t.Prop().IsNull()
}

// vivifyClause assumes the negations of ms's literals one at a time,
// propagating after each. It returns the shortest prefix proven
// equivalent to ms, and whether the clause turned out satisfied at level
// 0 (in which case it is left alone; level-0 satisfied clauses are
// cleaned elsewhere).
func (sp *Simp) vivifyClause(ms []z.Lit) (shorter []z.Lit, sat bool) {
	s := sp.s
	t := s.Trail
	for _, m := range ms {
		switch s.Vars.Sign(m) {
		case 1:
			// prefix implies m (or m is true at level 0): the clause is
			// equivalent to prefix + m
			if t.Level == 0 {
				t.Back(0)
				return nil, true
			}
			shorter = append(shorter, m)
			t.Back(0)
			return shorter, false
		case -1:
			// prefix implies ¬m: m is redundant in the clause
			continue
		}
		shorter = append(shorter, m)
		t.Decide(m.Not())
		if x := t.Prop(); !x.IsNull() {
			// prefix is already contradictory: clause shortens to it
			t.Back(0)
			return shorter, false
		}
	}
	t.Back(0)
	return shorter, false
}

func stillAttached(locs []z.C, loc z.C) bool {
	for _, c := range locs {
		if c == loc {
			return true
		}
	}
	return false
}
