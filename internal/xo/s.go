// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xhochy/cryptominisat/internal/config"
	"github.com/xhochy/cryptominisat/z"
)

const (
	// for each Search() call don't restart until this many conflicts;
	// good for incremental solving.
	RestartAfter  uint  = 1000
	RestartFactor       = 768
	PropTick      int64 = 20000

	// glue-based restarts: restart when the short-window glue average
	// exceeds the long-window average by this factor
	glueRestartFactor = 1.25
	glueShortAlpha    = 1.0 / 50.0
	glueLongAlpha     = 1.0 / 5000.0

	// fatal-input bound: no clause may exceed this length
	MaxClauseLen = 1 << 18
)

// FatalError is panicked on corrupted input or internal invariant
// violation.
type FatalError string

func (e FatalError) Error() string { return string(e) }

// LearntExchange is the portfolio hook: a bounded queue of learnt clauses
// shared between independent solver instances. Offer never blocks; Poll
// returns nil when the queue is empty.
type LearntExchange interface {
	Offer(ms []z.Lit)
	Poll() []z.Lit
}

// S is the propagation-and-search core: it owns the trail, the watch
// index and the assignments, and runs CDCL search bursts. The simplifier
// and the outer solver compose an S rather than extending it.
type S struct {
	Vars    *Vars
	Cdb     *Cdb
	Trail   *Trail
	Guess   *Guess
	Deriver *Deriver
	Active  *Active
	Cfg     *config.Config

	gmu  sync.Mutex
	rmu  sync.Mutex
	luby *Luby

	ok bool // false once UNSAT is established at level 0

	// last conflict, and first trivially-false assumption if any
	x    Conflict
	xLit z.Lit

	assumptLevel int
	assumes      []z.Lit
	failed       []z.Lit

	seeded bool
	rng    *rand.Rand

	control          *Ctl
	intr             atomic.Bool
	restartStopwatch int
	glueShort        float64
	glueLong         float64

	Ex LearntExchange

	startTime time.Time
	deadline  time.Time

	stRestarts int64
	stSat      int64
	stUnsat    int64
	stEnded    int64
	stAssumes  int64
	stFailed   int64
}

// NewS creates a solver with a small default capacity and default
// configuration.
func NewS() *S {
	return NewSVc(128, 768)
}

// NewSV creates a solver sized for vCapHint variables.
func NewSV(vCapHint int) *S {
	return NewSVc(vCapHint, vCapHint*8)
}

// NewSVc creates a solver with capacity hints for variables and clause
// literals.
func NewSVc(vCapHint, cCapHint int) *S {
	vars := NewVars(vCapHint)
	cdb := NewCdb(vars, cCapHint)
	return NewSCdb(cdb)
}

// NewSCdb creates a solver over an existing clause database.
func NewSCdb(cdb *Cdb) *S {
	guess := NewGuessCdb(cdb)
	trail := NewTrail(cdb, guess)
	drv := NewDeriver(cdb, guess, trail)
	cfg := config.NewDefault()
	s := &S{
		Vars:    cdb.Vars,
		Cdb:     cdb,
		Trail:   trail,
		Guess:   guess,
		Deriver: drv,
		Cfg:     cfg,
		luby:    NewLuby(),
		ok:      !cdb.Bot,
		assumes: make([]z.Lit, 0, 1024),
		failed:  make([]z.Lit, 0, 3),
		rng:     rand.New(rand.NewSource(cfg.OrigSeed)),
	}
	s.control = NewCtl(s)
	s.control.stFunc = func(st *Stats) *Stats {
		s.ReadStats(st)
		return st
	}
	s.startTime = time.Now()
	s.deadline = s.startTime
	return s
}

// SetConfig installs cfg, reseeds the RNG from cfg.OrigSeed and applies
// the activity-bump start value and arena-waste threshold.
func (s *S) SetConfig(cfg *config.Config) {
	s.Cfg = cfg
	s.rng = rand.New(rand.NewSource(cfg.OrigSeed))
	if cfg.VarIncStart > 0 {
		s.Guess.bumpInc = cfg.VarIncStart
	}
	s.Cdb.SetWasteRatio(cfg.ConsolidateWasteRatio)
}

// Copy returns a deep copy sharing nothing with s except the config's
// logger, for use as an independent portfolio instance.
func (s *S) Copy() *S {
	s.rmu.Lock()
	defer s.rmu.Unlock()
	other := &S{}
	other.Vars = s.Vars.Copy()
	other.Cdb = s.Cdb.CopyWith(other.Vars)
	other.Guess = s.Guess.Copy()
	other.Guess.Vars = other.Vars
	other.Trail = s.Trail.CopyWith(other.Cdb, other.Guess)
	other.Deriver = s.Deriver.CopyWith(other.Cdb, other.Guess, other.Trail)
	if s.Active != nil {
		other.Active = s.Active.Copy()
		other.Cdb.Active = other.Active
	}
	other.Cfg = s.Cfg.Copy()
	luby := NewLuby()
	*luby = *s.luby
	other.luby = luby
	other.ok = s.ok
	other.x = s.x
	other.xLit = s.xLit
	other.assumptLevel = s.assumptLevel
	other.assumes = append([]z.Lit(nil), s.assumes...)
	other.failed = append([]z.Lit(nil), s.failed...)
	other.seeded = s.seeded
	other.rng = rand.New(rand.NewSource(s.Cfg.OrigSeed))
	other.restartStopwatch = s.restartStopwatch
	other.glueShort = s.glueShort
	other.glueLong = s.glueLong
	other.control = NewCtl(other)
	other.control.stFunc = func(st *Stats) *Stats {
		other.ReadStats(st)
		return st
	}
	other.startTime = s.startTime
	other.deadline = s.deadline
	return other
}

// Ok reports whether the formula is still possibly satisfiable; false
// means UNSAT was established at level 0.
func (s *S) Ok() bool {
	return s.ok && !s.Cdb.Bot
}

// MarkUnsat records that level-0 inconsistency was established outside
// the search loop (by a simplification pass); every later public call
// short-circuits to UNSAT.
func (s *S) MarkUnsat() {
	s.ok = false
}

// Consolidate forces an arena compaction regardless of the waste
// threshold, returning the number of clauses and literals freed.
func (s *S) Consolidate() (int, int) {
	return s.Cdb.Consolidate()
}

// ClearOffTrailValues unsets values that model extension wrote directly
// into Vals (they carry no trail entry, recognizable by Levels == -1),
// restoring the pre-model assignment state before another solve.
func (s *S) ClearOffTrailValues() {
	for v := z.Var(1); v <= s.Vars.Max; v++ {
		if s.Vars.Levels[v] == -1 && s.Vars.Vals[v.Pos()] != 0 {
			s.Vars.Unset(v.Pos())
		}
	}
}

// SetNeedToInterrupt sets the sticky interrupt flag consulted at budget
// check points; the solver unwinds to the assumption level and returns
// unknown.
func (s *S) SetNeedToInterrupt() {
	s.intr.Store(true)
}

// ClearInterrupt resets the interrupt flag; called when the outermost
// solve returns.
func (s *S) ClearInterrupt() {
	s.intr.Store(false)
}

// Interrupted reports whether the interrupt flag is set.
func (s *S) Interrupted() bool {
	return s.intr.Load()
}

// GoSolve starts Solve in a new goroutine and returns its controller.
func (s *S) GoSolve() *Ctl {
	return s.GoSolveWith(s.Solve)
}

// GoSolveWith runs f — a Solve-shaped function built around this core,
// such as the outer solver's search/simplify alternation — in a new
// goroutine under this core's controller.
func (s *S) GoSolveWith(f func() int) *Ctl {
	go func() {
		s.control.cResult <- f()
	}()
	return s.control
}

// Try solves with a timeout, returning 0 if the deadline passes.
func (s *S) Try(dur time.Duration) int {
	if dur <= 0 {
		return 0
	}
	s.startTime = time.Now()
	s.deadline = s.startTime.Add(dur)
	defer func() { s.deadline = s.startTime }()
	return s.Solve()
}

// Solve searches without a conflict budget until SAT, UNSAT, interrupt or
// deadline; it consumes pending assumptions.
func (s *S) Solve() int {
	return s.Search(-1)
}

// Search runs one CDCL burst of at most budget conflicts (unbounded if
// budget < 0). It returns 1 for SAT, -1 for UNSAT, and 0 when the budget
// is exhausted or the solve was interrupted; in the 0 case the trail is
// unwound to the assumption level and all invariants hold, so Search may
// be called again.
func (s *S) Search(budget int64) int {
	s.lock()
	defer s.unlock()
	defer func() {
		s.assumes = s.assumes[:0]
	}()
	if r := s.searchInit(); r != 0 {
		return r
	}
	trail := s.Trail
	vars := s.Vars
	guess := s.Guess
	cdb := s.Cdb
	aLevel := s.assumptLevel
	conflicts := int64(0)
	nxtTick := trail.Props + PropTick

	for {
		x := trail.Prop()
		if !x.IsNull() {
			conflicts++
			cdb.St.Conflicts++
			if trail.Level <= aLevel {
				s.x = x
				if trail.Level == 0 {
					s.ok = false
				}
				s.stUnsat++
				return -1
			}
			drvd := s.Deriver.Derive(x)
			s.noteGlue(float64(drvd.Glue))
			target := drvd.TargetLevel
			if target < aLevel {
				target = aLevel
			}
			trail.Back(target)
			if vars.Sign(drvd.Unit) != 0 {
				// asserting literal already assigned at the backjump
				// level: conflicting under the current assumptions
				s.x = x
				if trail.Level == 0 {
					s.ok = false
				}
				s.stUnsat++
				return -1
			}
			trail.Assign(drvd.Unit, drvd.Reason)
			if drvd.P != CNull {
				cdb.NoteProp(drvd.P)
			}
			guess.Decay()
			cdb.gc.Tick()
			s.restartStopwatch--
			if s.Ex != nil && drvd.Size >= 2 && drvd.Size <= 8 {
				s.Ex.Offer(append([]z.Lit(nil), s.Deriver.CLits...))
			}
			if budget >= 0 && conflicts >= budget {
				trail.Back(aLevel)
				s.stEnded++
				return 0
			}
			continue
		}

		// budget-check point
		if trail.Props > nxtTick {
			nxtTick += PropTick
			if s.intr.Load() {
				trail.Back(aLevel)
				s.stEnded++
				return 0
			}
			if s.deadline != s.startTime && time.Until(s.deadline) <= 0 {
				trail.Back(aLevel)
				s.stEnded++
				return 0
			}
			if !s.control.Tick() {
				// a Stop is level-triggered like an interrupt: outer
				// search/simplify alternation must also unwind
				s.intr.Store(true)
				s.stEnded++
				trail.Back(aLevel)
				return 0
			}
		}

		// maybe restart
		if s.restartStopwatch <= 0 || s.glueRestartDue(conflicts) {
			nxt := s.luby.Next()
			s.restartStopwatch = int(nxt * RestartFactor)
			trail.Back(aLevel)
			s.stRestarts++
			cdb.St.Restarts++
			s.glueShort = s.glueLong
			guess.nextRestart(s.restartStopwatch)
			s.Cfg.LogFields(2, "restart", logrus.Fields{
				"conflicts": cdb.St.Conflicts,
				"restarts":  cdb.St.Restarts,
				"learnts":   len(cdb.Learnts),
			})
			if cdb.gc.Ready() {
				n := cdb.ReduceDB(s.Cfg)
				s.Cfg.LogFields(2, "reduce", logrus.Fields{
					"removed": n,
					"kept":    len(cdb.Learnts),
				})
			}
			if s.Ex != nil && aLevel == 0 {
				s.importLearnts()
			}
		}

		// guess
		m := guess.Guess(vars.Vals)
		if m != z.LitNull && s.rng.Intn(64) == 0 {
			// occasional random phase flip; this is what makes two
			// instances with different seeds take different paths
			m = m.Not()
		}
		if m == z.LitNull {
			if errs := cdb.CheckModel(); len(errs) != 0 {
				panic(FatalError(fmt.Sprintf("model check failed: %v", errs[0])))
			}
			s.stSat++
			return 1
		}
		cdb.MaybeCompact()
		trail.Decide(m)
	}
}

func (s *S) glueRestartDue(conflicts int64) bool {
	return conflicts > 32 && s.glueLong > 0 &&
		s.glueShort > s.glueLong*glueRestartFactor
}

func (s *S) noteGlue(g float64) {
	if s.glueShort == 0 {
		s.glueShort = g
		s.glueLong = g
		return
	}
	s.glueShort += glueShortAlpha * (g - s.glueShort)
	s.glueLong += glueLongAlpha * (g - s.glueLong)
}

// importLearnts drains the exchange queue at level 0, attaching clauses
// that are still fully unassigned.
func (s *S) importLearnts() {
	for {
		ms := s.Ex.Poll()
		if ms == nil {
			return
		}
		usable := len(ms) >= 2
		for _, m := range ms {
			if m.Var() > s.Vars.Max || s.Vars.Sign(m) != 0 ||
				s.Vars.Elim[m.Var()] != ElimLive {
				usable = false
				break
			}
		}
		if usable {
			s.Cdb.Learn(ms, len(ms))
		}
	}
}

// searchInit replays restart state, consumes pending assumptions, and
// seeds phases; it returns -1 if the problem is already inconsistent.
func (s *S) searchInit() int {
	if !s.Ok() {
		s.stUnsat++
		return -1
	}
	for {
		r := s.luby.Next() * RestartFactor
		if r >= RestartAfter {
			s.restartStopwatch = int(r)
			break
		}
	}
	if !s.seeded {
		s.Guess.Seed(s.Cdb)
		s.seeded = true
	}
	if r := s.makeAssumptions(); r == -1 {
		s.stUnsat++
		return -1
	}
	return 0
}

func (s *S) makeAssumptions() int {
	trail := s.Trail
	trail.Back(0)
	s.assumptLevel = 0
	s.x = ConflictNull
	s.xLit = z.LitNull
	s.failed = s.failed[:0]
	s.stAssumes += int64(len(s.assumes))
	if x := trail.Prop(); !x.IsNull() {
		s.x = x
		s.ok = false
		return -1
	}
	vals := s.Vars.Vals
	for _, m := range s.assumes {
		switch vals[m] {
		case 0:
			trail.Decide(m)
			s.assumptLevel++
			if x := trail.Prop(); !x.IsNull() {
				s.x = x
				return -1
			}
		case 1:
			// already implied
		case -1:
			s.xLit = m
			s.stFailed++
			return -1
		}
	}
	return 0
}

// Value returns whether m is true under the current assignment; valid
// only after a SAT result.
func (s *S) Value(m z.Lit) bool {
	return s.Vars.Vals[m] == 1
}

// Add accumulates clause literals; LitNull terminates the clause. Units
// are enqueued at level 0 immediately.
func (s *S) Add(m z.Lit) {
	if m != z.LitNull {
		if m.Var() <= s.Vars.Max && s.Vars.Elim[m.Var()] != ElimLive {
			panic(FatalError(fmt.Sprintf("added clause refers to eliminated variable %s", m.Var())))
		}
		s.ensureLitCap(m)
	} else if len(s.Cdb.addLits) > MaxClauseLen {
		panic(FatalError(fmt.Sprintf("clause length %d exceeds limit", len(s.Cdb.addLits))))
	}
	_, u := s.Cdb.Add(m)
	if s.Cdb.Bot {
		s.ok = false
	}
	if u != z.LitNull {
		if s.Trail.Level != 0 {
			s.Trail.Back(0)
		}
		s.Trail.Assign(u, ReasonNull)
		s.Cdb.St.AddedUnits++
	}
}

// Lit returns the positive literal of a fresh variable.
func (s *S) Lit() z.Lit {
	n := s.Vars.Max + 1
	m := n.Pos()
	s.ensureLitCap(m)
	return m
}

// SetDecide flags whether v is eligible as a decision variable.
func (s *S) SetDecide(v z.Var, decide bool) {
	s.ensureLitCap(v.Pos())
	s.Vars.Decide[v] = decide
}

// Assume adds assumptions for the next Solve/Search call.
func (s *S) Assume(ms ...z.Lit) {
	s.assumes = append(s.assumes, ms...)
	for _, m := range ms {
		s.ensureLitCap(m)
	}
}

// MaxVar returns the maximum variable added or assumed.
func (s *S) MaxVar() z.Var {
	return s.Vars.Max
}

// Who identifies the solver and platform.
func (s *S) Who() string {
	return fmt.Sprintf("xo.S %s/%s/%d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
}

// Why appends to ms a minimized set of assumptions responsible for the
// last UNSAT answer.
func (s *S) Why(ms []z.Lit) []z.Lit {
	s.failed = ms
	if s.xLit != z.LitNull {
		s.failed = append(s.failed, s.xLit)
		s.final([]z.Lit{s.xLit})
	} else if !s.x.IsNull() {
		s.final(s.Cdb.ReasonLits(nil, s.x.Lit, s.x.W))
	} else {
		return ms
	}
	return s.failed
}

func (s *S) final(ms []z.Lit) {
	marks := make([]bool, s.Vars.Max+1)
	for _, m := range ms {
		s.finalRec(m, marks)
	}
}

func (s *S) finalRec(m z.Lit, marks []bool) {
	if marks[m.Var()] {
		return
	}
	marks[m.Var()] = true
	r := s.Vars.Reasons[m.Var()]
	if r == ReasonNull {
		if s.Vars.Levels[m.Var()] > 0 {
			s.failed = append(s.failed, m.Not())
			s.stFailed++
		}
		return
	}
	for _, n := range s.Cdb.ReasonLits(nil, m, r)[1:] {
		s.finalRec(n, marks)
	}
}

// Rand returns the instance's seeded RNG.
func (s *S) Rand() *rand.Rand {
	return s.rng
}

// ReadStats folds the solver's counters into st, resetting the cumulative
// ones.
func (s *S) ReadStats(st *Stats) {
	s.rmu.Lock()
	defer s.rmu.Unlock()
	st.Restarts += s.stRestarts
	s.stRestarts = 0
	st.Sat += s.stSat
	s.stSat = 0
	st.Unsat += s.stUnsat
	s.stUnsat = 0
	st.Ended += s.stEnded
	s.stEnded = 0
	st.Assumptions += s.stAssumes
	s.stAssumes = 0
	st.Failed += s.stFailed
	s.stFailed = 0
	st.Props += s.Trail.Props
	s.Trail.Props = 0
	if st.MaxTrail < s.Trail.MaxTail {
		st.MaxTrail = s.Trail.MaxTail
	}
	// conflict and learnt counts live in Cdb.St (they key the
	// clause-introduction indices); the deriver's copies are only reset
	s.Deriver.Conflicts = 0
	s.Deriver.Learnt = 0
	s.Deriver.LearntLits = 0
	st.MinLits += s.Deriver.RedLits
	s.Deriver.RedLits = 0
	st.Vars = int(s.Vars.Max)
	st.FreeVars = s.FreeVars()
	st.DecisionVars = s.DecisionVars()
}

// FreeVars counts live, unassigned variables.
func (s *S) FreeVars() int {
	n := 0
	for v := z.Var(1); v <= s.Vars.Max; v++ {
		if s.Vars.Elim[v] == ElimLive && s.Vars.Vals[v.Pos()] == 0 {
			n++
		}
	}
	return n
}

// DecisionVars counts decision-eligible variables.
func (s *S) DecisionVars() int {
	n := 0
	for v := z.Var(1); v <= s.Vars.Max; v++ {
		if s.Vars.Decide[v] {
			n++
		}
	}
	return n
}

// CheckInvariants runs the testable-property verifiers: watch symmetry,
// counter consistency, the trail-prefix property, and scratch
// restoration.
func (s *S) CheckInvariants() []error {
	var errs []error
	errs = append(errs, s.Cdb.CheckWatches()...)
	errs = append(errs, s.Cdb.CheckCounts()...)
	errs = append(errs, s.checkTrail()...)
	if e := s.Deriver.CheckScratch(); e != nil {
		errs = append(errs, e)
	}
	return errs
}

func (s *S) checkTrail() []error {
	var errs []error
	t := s.Trail
	for i := 0; i < t.Tail; i++ {
		m := t.D[i]
		if s.Vars.Sign(m) != 1 {
			errs = append(errs, fmt.Errorf("trail entry %s not true", m))
			continue
		}
		r := s.Vars.Reasons[m.Var()]
		if r == ReasonNull {
			continue
		}
		rs := s.Cdb.ReasonLits(nil, m, r)
		if rs[0] != m {
			errs = append(errs, fmt.Errorf("reason of %s does not start with it", m))
			continue
		}
		for _, n := range rs[1:] {
			if s.Vars.Sign(n) != -1 {
				errs = append(errs, fmt.Errorf("reason literal %s of %s not false", n, m))
			}
		}
	}
	return errs
}

// ensureLitCap grows every variable-indexed structure to hold m's
// variable.
func (s *S) ensureLitCap(m z.Lit) {
	vars := s.Vars
	mv := m.Var()
	if mv <= vars.Max {
		return
	}
	old := vars.Max
	s.Cdb.growToVar(mv)
	s.Guess.growToVar(mv)
	s.Deriver.growToVar(mv)
	if s.Active != nil {
		s.Active.growToVar(mv)
	}
	for i := old + 1; i <= mv; i++ {
		s.Guess.Push(i, true)
	}
}

func (s *S) lock() {
	s.gmu.Lock()
	s.rmu.Lock()
}

func (s *S) unlock() {
	s.rmu.Unlock()
	s.gmu.Unlock()
}

func (s *S) String() string {
	return fmt.Sprintf("<xo@%d>", s.Trail.Level)
}
