// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package cryptominisat is a CDCL SAT solver with in-processing
// simplification: failed-literal probing with hyper-binary resolution,
// binary-equivalence replacement, implicit-clause subsumption and
// strengthening, clause vivification, bounded variable elimination and
// variable renumbering, run between conflict-budgeted search bursts.
package cryptominisat

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xhochy/cryptominisat/dimacs"
	"github.com/xhochy/cryptominisat/inter"
	"github.com/xhochy/cryptominisat/internal/config"
	"github.com/xhochy/cryptominisat/internal/simp"
	"github.com/xhochy/cryptominisat/internal/xo"
	"github.com/xhochy/cryptominisat/z"
)

// Config carries the solver's tunable options; see NewDefaultConfig for
// the defaults.
type Config = config.Config

// CleanType selects the learnt-clause reduction ordering.
type CleanType = config.CleanType

// Reduction orderings for Config.ClauseCleaningType.
const (
	CleanGlue      = config.CleanGlue
	CleanSize      = config.CleanSize
	CleanPropConfl = config.CleanPropConfl
)

// NewDefaultConfig returns the default configuration.
func NewDefaultConfig() *Config {
	return config.NewDefault()
}

// Solver is the concrete solver: a search core, a simplifier, and the
// outer<->inner variable translation between them and the caller.
type Solver struct {
	xo   *xo.S
	simp *simp.Simp
	dv   *z.Vars
	cfg  *config.Config

	maxOuter z.Var
	assumes  []z.Lit // outer literals, single-shot
	sat      bool    // last answer was SAT (model valid)
}

// New creates a solver with the default configuration.
func New() *Solver {
	return NewWith(config.NewDefault())
}

// NewWith creates a solver with the given configuration.
func NewWith(cfg *Config) *Solver {
	s := xo.NewS()
	s.SetConfig(cfg)
	g := &Solver{
		xo:  s,
		dv:  z.NewVars(),
		cfg: cfg,
	}
	g.simp = simp.New(s, g.dv)
	return g
}

// NewDimacs creates a solver from dimacs-formatted input.
func NewDimacs(r io.Reader) (*Solver, error) {
	return NewDimacsWith(r, config.NewDefault())
}

// NewDimacsWith creates a solver from dimacs input with the given
// configuration.
func NewDimacsWith(r io.Reader, cfg *Config) (*Solver, error) {
	g := NewWith(cfg)
	if err := dimacs.ReadCnf(r, &dimacsVis{g: g}); err != nil {
		return nil, err
	}
	return g, nil
}

type dimacsVis struct {
	g *Solver
}

func (d *dimacsVis) Init(v, c int) {}
func (d *dimacsVis) Add(m z.Lit)   { d.g.Add(m) }
func (d *dimacsVis) Eof()          {}

// NewVar allocates a fresh variable and returns its (outer) index.
// decide controls whether the search may branch on it.
func (g *Solver) NewVar(decide bool) z.Var {
	g.maxOuter++
	ov := g.maxOuter
	im := g.dv.ToInner(ov.Pos())
	g.xo.SetDecide(im.Var(), decide)
	return ov
}

// Lit allocates a fresh variable and returns its positive literal.
func (g *Solver) Lit() z.Lit {
	return g.NewVar(true).Pos()
}

// MaxVar returns the maximum (outer) variable seen.
func (g *Solver) MaxVar() z.Var {
	return g.maxOuter
}

// Add adds a clause literal; z.LitNull terminates the clause. Trivially
// inconsistent input (an empty clause after simplification of false
// literals) flips the solver into the UNSAT state before Solve is ever
// called.
func (g *Solver) Add(m z.Lit) {
	if m == z.LitNull {
		g.xo.Add(z.LitNull)
		return
	}
	if m.Var() > g.maxOuter {
		g.maxOuter = m.Var()
	}
	g.xo.Add(g.dv.ToInner(m))
}

// AddClause adds a whole clause at once, returning false if the solver
// is now known UNSAT.
func (g *Solver) AddClause(ms ...z.Lit) bool {
	for _, m := range ms {
		g.Add(m)
	}
	g.Add(z.LitNull)
	return g.xo.Ok()
}

// Assume adds single-shot assumptions for the next Solve call.
func (g *Solver) Assume(ms ...z.Lit) {
	for _, m := range ms {
		if m.Var() > g.maxOuter {
			g.maxOuter = m.Var()
		}
		g.assumes = append(g.assumes, m)
	}
}

// Why returns a subset of the assumptions responsible for the last UNSAT
// answer, in outer numbering.
func (g *Solver) Why(dst []z.Lit) []z.Lit {
	dst = g.xo.Why(dst)
	return g.dv.ToOuters(dst)
}

// Solve decides satisfiability under any pending assumptions: 1 SAT, -1
// UNSAT, 0 unknown (interrupted). It first simplifies, then alternates
// conflict-budgeted search bursts with further simplification.
func (g *Solver) Solve() int {
	defer g.xo.ClearInterrupt()
	if g.cfg.DoSQL {
		// the statistics sink is an external collaborator; emit the
		// row through the structured logger
		defer func() {
			st := g.Stats()
			g.cfg.LogFields(1, "solve stats", logrus.Fields{
				"conflicts": st.Conflicts,
				"props":     st.Props,
				"restarts":  st.Restarts,
				"learnt":    st.Learnt,
			})
		}()
	}
	g.sat = false
	g.xo.ClearOffTrailValues()
	assumes := g.assumes
	g.assumes = nil

	// in-processing runs only on the unconditioned formula
	if len(assumes) == 0 && g.cfg.DoSimplify {
		if r := g.simp.Simplify(); r == -1 {
			return -1
		}
		g.checkParanoid()
	}

	budget := g.cfg.StartClean
	cleans := 0
	for {
		if len(assumes) != 0 {
			inner := make([]z.Lit, len(assumes))
			for i, m := range assumes {
				inner[i] = g.dv.ToInner(m)
			}
			g.xo.Assume(inner...)
		}
		r := g.xo.Search(budget)
		switch r {
		case 1:
			g.checkParanoid()
			g.sat = true
			g.simp.ExtendModel()
			return 1
		case -1:
			return -1
		}
		if g.xo.Interrupted() {
			return 0
		}
		g.checkParanoid()
		cleans++
		if len(assumes) == 0 && g.cfg.DoSimplify &&
			cleans%maxInt(1, g.cfg.NumCleanBetweenSimplify) == 0 {
			if r := g.simp.Simplify(); r == -1 {
				return -1
			}
			g.checkParanoid()
		}
		budget = int64(float64(budget) * maxFloat(1.0, g.cfg.IncreaseClean))
	}
}

// checkParanoid runs the invariant verifiers when Config.Paranoid is
// set; a violation is a fatal internal error.
func (g *Solver) checkParanoid() {
	if !g.cfg.Paranoid {
		return
	}
	if errs := g.CheckInvariants(); len(errs) != 0 {
		panic(xo.FatalError(fmt.Sprintf("invariant violation: %v", errs[0])))
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Try solves with a timeout: 1 SAT, -1 UNSAT, 0 timeout.
func (g *Solver) Try(dur time.Duration) int {
	done := make(chan struct{})
	var res int
	go func() {
		res = g.Solve()
		close(done)
	}()
	select {
	case <-done:
		return res
	case <-time.After(dur):
		g.SetNeedToInterrupt()
		<-done
		if res != 0 {
			return res
		}
		return 0
	}
}

// GoSolve runs Solve in a background goroutine and returns its
// controller.
func (g *Solver) GoSolve() inter.Solve {
	return g.xo.GoSolveWith(g.Solve)
}

// Simplify runs one round of the in-processing pipeline without
// searching: 1 SAT (all variables assigned), -1 UNSAT, 0 otherwise.
func (g *Solver) Simplify() int {
	defer g.xo.ClearInterrupt()
	g.xo.ClearOffTrailValues()
	if r := g.simp.Simplify(); r == -1 {
		return -1
	}
	if !g.xo.Ok() {
		return -1
	}
	g.checkParanoid()
	if g.xo.FreeVars() == 0 {
		g.sat = true
		g.simp.ExtendModel()
		return 1
	}
	return 0
}

// Consolidate forces an arena compaction, copying live clauses into a
// fresh arena and updating every held offset; MaybeCompact does the
// same automatically once waste exceeds Config.ConsolidateWasteRatio.
// It returns the number of clauses and literals freed.
func (g *Solver) Consolidate() (int, int) {
	return g.xo.Consolidate()
}

// Value returns the truth value of the (outer) literal m; meaningful
// only after a SAT answer.
func (g *Solver) Value(m z.Lit) bool {
	return g.xo.Value(g.dv.ToInner(m))
}

// SetNeedToInterrupt makes the solver unwind and return unknown at its
// next budget-check point. The flag is sticky until the outermost Solve
// returns.
func (g *Solver) SetNeedToInterrupt() {
	g.xo.SetNeedToInterrupt()
}

// SCopy returns an independent deep copy, used by the portfolio driver.
func (g *Solver) SCopy() inter.S {
	return g.Copy()
}

// Copy returns an independent deep copy.
func (g *Solver) Copy() *Solver {
	nxo := g.xo.Copy()
	ndv := g.dv.Copy()
	o := &Solver{
		xo:       nxo,
		dv:       ndv,
		cfg:      nxo.Cfg,
		maxOuter: g.maxOuter,
		assumes:  append([]z.Lit(nil), g.assumes...),
	}
	o.simp = g.simp.CopyWith(nxo, ndv)
	return o
}

// SetExchange installs a learnt-clause exchange queue (portfolio use).
func (g *Solver) SetExchange(ex xo.LearntExchange) {
	g.xo.Ex = ex
}

// Reseed offsets the RNG seed, giving a copied instance its own search
// trajectory in a portfolio.
func (g *Solver) Reseed(delta int64) {
	cfg := g.cfg
	cfg.OrigSeed += delta
	g.xo.SetConfig(cfg)
}

// DisableRenumbering turns the renumbering pass off; portfolio instances
// must keep a shared inner numbering for exchanged clauses to stay
// meaningful.
func (g *Solver) DisableRenumbering() {
	g.cfg.DoRenumberVars = false
}

// Stats returns a snapshot of the solver's counters.
func (g *Solver) Stats() *xo.Stats {
	st := xo.NewStats()
	st.Accumulate(g.xo.Cdb.St)
	g.xo.ReadStats(st)
	return st
}

// CheckInvariants runs the internal verifiers, returning any violations.
func (g *Solver) CheckInvariants() []error {
	errs := g.xo.CheckInvariants()
	if e := g.simp.CheckReplaceForest(); e != nil {
		errs = append(errs, e)
	}
	if e := g.simp.CheckElimFree(); e != nil {
		errs = append(errs, e)
	}
	return errs
}

// Write emits the irredundant clauses in DIMACS body form, in outer
// numbering.
func (g *Solver) Write(w io.Writer) error {
	return g.DumpIrredClauses(w)
}
