// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package simp is the in-processing simplifier: the pipeline of
// equivalence detection, implicit-clause subsumption, failed-literal
// probing, vivification, bounded variable elimination and renumbering
// that runs between search bursts.
package simp

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xhochy/cryptominisat/internal/config"
	"github.com/xhochy/cryptominisat/internal/reach"
	"github.com/xhochy/cryptominisat/internal/xo"
	"github.com/xhochy/cryptominisat/z"
)

// BlockedClause is a clause removed by variable elimination, kept so the
// eliminated variable's value can be recovered from a model of the
// simplified formula.
type BlockedClause struct {
	On  z.Lit // the literal of the eliminated variable in the clause
	Lits []z.Lit
}

// Simp orchestrates the simplification passes over a solver core. Each
// pass is reentrant-safe and may be skipped by configuration; any pass
// discovering level-0 inconsistency makes Simplify return -1.
type Simp struct {
	s   *xo.S
	cfg *config.Config
	dv  *z.Vars // outer<->inner translation, updated on renumbering

	// binary-equivalence replacement table: replace[v] is
	// the literal v is equivalent to; v.Pos() when v is its own root
	replace []z.Lit
	rQueue  [][2]z.Lit // queued equivalences (a ≡ b), pending performReplace

	// per-variable blocked-clause lists from variable elimination
	blocked map[z.Var][]BlockedClause
	elimOrder []z.Var // elimination order, replayed backwards on model extension

	reach *reach.Cache

	// adaptive probing budget; grows when past calls were productive
	probeBudget     int64
	numPropsMult    float64
	lastProbeGain   int

	rounds int64
}

// New creates a simplifier over s. dv may be nil when the caller does not
// maintain an outer<->inner translation.
func New(s *xo.S, dv *z.Vars) *Simp {
	sp := &Simp{
		s:            s,
		cfg:          s.Cfg,
		dv:           dv,
		blocked:      make(map[z.Var][]BlockedClause),
		numPropsMult: 1.0,
	}
	sp.probeBudget = sp.cfg.ProbeBudgetProps
	sp.growToVar(s.Vars.Max)
	if sp.cfg.DoCalcReach {
		sp.reach = reach.NewCache(int(s.Vars.Max))
	}
	return sp
}

// CopyWith returns a deep copy of the simplifier's state bound to a
// previously-copied core and translation, for portfolio instances.
func (sp *Simp) CopyWith(s *xo.S, dv *z.Vars) *Simp {
	o := &Simp{
		s:             s,
		cfg:           s.Cfg,
		dv:            dv,
		replace:       append([]z.Lit(nil), sp.replace...),
		rQueue:        append([][2]z.Lit(nil), sp.rQueue...),
		blocked:       make(map[z.Var][]BlockedClause, len(sp.blocked)),
		elimOrder:     append([]z.Var(nil), sp.elimOrder...),
		probeBudget:   sp.probeBudget,
		numPropsMult:  sp.numPropsMult,
		lastProbeGain: sp.lastProbeGain,
		rounds:        sp.rounds,
	}
	for v, bcs := range sp.blocked {
		nbcs := make([]BlockedClause, len(bcs))
		for i, bc := range bcs {
			nbcs[i] = BlockedClause{On: bc.On, Lits: append([]z.Lit(nil), bc.Lits...)}
		}
		o.blocked[v] = nbcs
	}
	if sp.reach != nil {
		o.reach = reach.NewCache(int(s.Vars.Max))
	}
	return o
}

func (sp *Simp) growToVar(u z.Var) {
	for v := z.Var(len(sp.replace)); v <= u; v++ {
		sp.replace = append(sp.replace, v.Pos())
	}
}

// Root follows the replacement table to v's root literal, with path
// compression; the sign of the result reflects parity along the path.
func (sp *Simp) Root(m z.Lit) z.Lit {
	v := m.Var()
	if int(v) >= len(sp.replace) {
		return m
	}
	r := sp.replace[v]
	if r.Var() == v {
		if m.IsPos() {
			return r
		}
		return r.Not()
	}
	root := sp.Root(r)
	sp.replace[v] = root
	if m.IsPos() {
		return root
	}
	return root.Not()
}

// Equiv queues the equivalence a ≡ b for the next performReplace.
func (sp *Simp) Equiv(a, b z.Lit) {
	sp.rQueue = append(sp.rQueue, [2]z.Lit{a, b})
	if sp.s.Vars.Elim[a.Var()] == xo.ElimLive {
		sp.s.Vars.Elim[a.Var()] = xo.ElimQueuedEquivalence
	}
	if sp.s.Vars.Elim[b.Var()] == xo.ElimLive {
		sp.s.Vars.Elim[b.Var()] = xo.ElimQueuedEquivalence
	}
}

// Simplify runs the configured pipeline once: SCC equivalence detection
// and replacement, implicit subsumption/strengthening, failed-literal
// probing with hyper-binary resolution, vivification, bounded variable
// elimination, and renumbering. Returns -1 if the formula became UNSAT,
// 0 otherwise. A second consecutive call with no intervening search
// changes nothing except statistics.
func (sp *Simp) Simplify() int {
	s := sp.s
	if !s.Ok() {
		return -1
	}
	sp.rounds++
	sp.growToVar(s.Vars.Max)
	s.Trail.Back(0)
	if x := s.Trail.Prop(); !x.IsNull() {
		return sp.fail()
	}

	type pass struct {
		name    string
		enabled bool
		run     func() bool
	}
	passes := []pass{
		{"scc", sp.cfg.DoFindAndReplaceEqLits, sp.sccPass},
		{"subsume", sp.cfg.DoSimplify, sp.subsumePass},
		{"probe", sp.cfg.DoProbe, sp.probePass},
		{"vivify", sp.cfg.DoClauseVivif, sp.vivifyPass},
		{"elim", sp.cfg.DoSatElite, sp.elimPass},
		{"renumber", sp.cfg.DoRenumberVars, sp.renumberPass},
	}
	for _, p := range passes {
		if !p.enabled {
			continue
		}
		if s.Interrupted() {
			return 0
		}
		before := s.Cdb.St.IrredLits + s.Cdb.St.RedLits
		if !p.run() {
			return sp.fail()
		}
		sp.cfg.LogFields(1, "simplify pass", logrus.Fields{
			"pass":   p.name,
			"round":  sp.rounds,
			"lits":   s.Cdb.St.IrredLits + s.Cdb.St.RedLits,
			"delta":  s.Cdb.St.IrredLits + s.Cdb.St.RedLits - before,
		})
	}
	return 0
}

func (sp *Simp) fail() int {
	sp.s.MarkUnsat()
	return -1
}

// enqueue asserts m at level 0 and propagates; false means UNSAT.
func (sp *Simp) enqueue(m z.Lit) bool {
	s := sp.s
	switch s.Vars.Sign(m) {
	case 1:
		return true
	case -1:
		return false
	}
	s.Trail.Assign(m, xo.ReasonNull)
	return s.Trail.Prop().IsNull()
}

// addClauseInt re-adds a rewritten clause through the solver's normal
// add path, which dedupes, drops false literals and handles units.
func (sp *Simp) addClauseInt(ms []z.Lit) bool {
	s := sp.s
	for _, m := range ms {
		s.Add(m)
	}
	s.Add(z.LitNull)
	if !s.Ok() {
		return false
	}
	return s.Trail.Prop().IsNull()
}

// ExtendModel assigns values to variables eliminated by resolution or
// equivalence so the model covers the original formula. Unassigned live
// variables get a default polarity; resolution-eliminated variables are
// recovered in reverse elimination order by scanning their
// blocked-clause lists (set true exactly when some blocked clause on
// the positive literal is otherwise unsatisfied — the resolvents
// guarantee this never clashes with the negative side); equivalence
// classes finally take their root's value.
func (sp *Simp) ExtendModel() {
	s := sp.s
	for v := z.Var(1); v <= s.Vars.Max; v++ {
		if s.Vars.Vals[v.Pos()] == 0 &&
			int(v) < len(sp.replace) && sp.replace[v].Var() == v &&
			s.Vars.Elim[v] != xo.ElimResolution {
			s.Vars.Vals[v.Pos()] = -1
			s.Vars.Vals[v.Neg()] = 1
		}
	}
	for i := len(sp.elimOrder) - 1; i >= 0; i-- {
		v := sp.elimOrder[i]
		val := int8(-1)
		for _, bc := range sp.blocked[v] {
			if !bc.On.IsPos() {
				continue
			}
			sat := false
			for _, m := range bc.Lits {
				if m.Var() == v {
					continue
				}
				if sp.litVal(m) == 1 {
					sat = true
					break
				}
			}
			if !sat {
				val = 1
				break
			}
		}
		s.Vars.Vals[v.Pos()] = val
		s.Vars.Vals[v.Neg()] = -val
	}
	for v := z.Var(1); v < z.Var(len(sp.replace)); v++ {
		if sp.replace[v].Var() == v {
			continue
		}
		r := sp.Root(v.Pos())
		val := sp.litVal(r)
		if val == 0 {
			val = 1
		}
		s.Vars.Vals[v.Pos()] = val
		s.Vars.Vals[v.Neg()] = -val
	}
}

// litVal evaluates m, following the replacement table when m's variable
// was substituted out.
func (sp *Simp) litVal(m z.Lit) int8 {
	v := m.Var()
	if int(v) < len(sp.replace) && sp.replace[v].Var() != v {
		r := sp.Root(v.Pos())
		rv := sp.s.Vars.Sign(r)
		if m.IsPos() {
			return rv
		}
		return -rv
	}
	return sp.s.Vars.Sign(m)
}

// Value reports m's value after ExtendModel, resolving replaced
// variables through the table.
func (sp *Simp) Value(m z.Lit) bool {
	return sp.litVal(m) == 1
}

// CheckReplaceForest verifies the replacement table is a forest of height
// one: every non-root entry points directly at a root.
func (sp *Simp) CheckReplaceForest() error {
	for v := z.Var(1); v < z.Var(len(sp.replace)); v++ {
		r := sp.replace[v]
		if r.Var() == v {
			continue
		}
		rr := sp.replace[r.Var()]
		if rr.Var() != r.Var() {
			return fmt.Errorf("replace[%s] = %s is not a root", v, r)
		}
	}
	return nil
}

// CheckElimFree verifies no eliminated variable appears in any attached
// clause.
func (sp *Simp) CheckElimFree() error {
	s := sp.s
	var err error
	check := func(m z.Lit) {
		if err != nil {
			return
		}
		if e := s.Vars.Elim[m.Var()]; e == xo.ElimResolution || e == xo.ElimEquivalence {
			err = fmt.Errorf("eliminated variable %s appears in an attached clause", m.Var())
		}
	}
	for lit := z.Lit(2); int(lit) < len(s.Vars.Watches); lit++ {
		for _, w := range s.Vars.Watches[lit] {
			if w.IsBinary() {
				check(lit)
				check(w.Other())
			} else if w.IsTernary() {
				check(lit)
				check(w.Other())
				check(w.Other2())
			}
		}
	}
	for _, loc := range s.Cdb.Added {
		for _, m := range s.Cdb.CDat.Load(loc, nil) {
			check(m)
		}
	}
	for _, loc := range s.Cdb.Learnts {
		for _, m := range s.Cdb.CDat.Load(loc, nil) {
			check(m)
		}
	}
	return err
}

// Blocked returns the saved clauses of a resolution-eliminated variable,
// for the irredundant-clause dump.
func (sp *Simp) Blocked(v z.Var) []BlockedClause {
	return sp.blocked[v]
}

// ElimOrder returns the variables eliminated by resolution, in order.
func (sp *Simp) ElimOrder() []z.Var {
	return sp.elimOrder
}

// Replaced returns the equivalences currently recorded in the table as
// (variable, root literal) pairs.
func (sp *Simp) Replaced() [][2]z.Lit {
	var out [][2]z.Lit
	for v := z.Var(1); v < z.Var(len(sp.replace)); v++ {
		if sp.replace[v].Var() != v {
			out = append(out, [2]z.Lit{v.Pos(), sp.Root(v.Pos())})
		}
	}
	return out
}
