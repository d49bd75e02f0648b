// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"fmt"
	"time"
)

// Stats holds the solver's counters. Every attach/detach call site in
// Cdb keeps the clause and literal counts current so CheckCounts can
// recompute them from the watch index and compare.
type Stats struct {
	Start time.Time
	Dur   time.Duration
	Vars  int

	// clause-count/literal-count counters, split irredundant/learnt
	IrredBins int64
	RedBins   int64
	IrredTris int64
	RedTris   int64
	IrredLong int64
	RedLong   int64
	IrredLits int64
	RedLits   int64

	Added      int64
	AddedLits  int64
	AddedUnits int64

	Props       int64
	Conflicts   int64
	Sat         int64
	Unsat       int64
	Ended       int64
	Assumptions int64
	Failed      int64
	Guesses     int64

	Learnt       int64
	LearntLits   int64
	MinLits      int64
	Restarts     int64
	Compactions  int64
	Removed      int64
	RemovedLits  int64
	CDatGcs      int64
	HeatRescales int64

	// simplifier counters
	VarsReplaced int64
	VarsElimed   int64
	Probed       int64
	ProbeFailed  int64
	HyperBins    int64
	UselessBins  int64
	Subsumed     int64
	Strengthened int64
	Vivified     int64
	Renumbers    int64

	MaxTrail     int
	FreeVars     int
	DecisionVars int
}

func NewStats() *Stats {
	return &Stats{Start: time.Now()}
}

func (s *Stats) Reset() {
	*s = Stats{Start: time.Now()}
}

// Accumulate adds t's counters into s, used to fold per-instance stats
// from a portfolio run into one report.
func (s *Stats) Accumulate(t *Stats) {
	s.IrredBins += t.IrredBins
	s.RedBins += t.RedBins
	s.IrredTris += t.IrredTris
	s.RedTris += t.RedTris
	s.IrredLong += t.IrredLong
	s.RedLong += t.RedLong
	s.IrredLits += t.IrredLits
	s.RedLits += t.RedLits
	s.Added += t.Added
	s.AddedLits += t.AddedLits
	s.AddedUnits += t.AddedUnits
	s.Props += t.Props
	s.Conflicts += t.Conflicts
	s.Sat += t.Sat
	s.Unsat += t.Unsat
	s.Ended += t.Ended
	s.Assumptions += t.Assumptions
	s.Failed += t.Failed
	s.Guesses += t.Guesses
	s.Learnt += t.Learnt
	s.LearntLits += t.LearntLits
	s.MinLits += t.MinLits
	s.Restarts += t.Restarts
	s.Compactions += t.Compactions
	s.Removed += t.Removed
	s.RemovedLits += t.RemovedLits
	s.CDatGcs += t.CDatGcs
	s.HeatRescales += t.HeatRescales
	s.VarsReplaced += t.VarsReplaced
	s.VarsElimed += t.VarsElimed
	s.Probed += t.Probed
	s.ProbeFailed += t.ProbeFailed
	s.HyperBins += t.HyperBins
	s.UselessBins += t.UselessBins
	s.Subsumed += t.Subsumed
	s.Strengthened += t.Strengthened
	s.Vivified += t.Vivified
	s.Renumbers += t.Renumbers
	if t.MaxTrail > s.MaxTrail {
		s.MaxTrail = t.MaxTrail
	}
}

func (s *Stats) String() string {
	return fmt.Sprintf(
		"c vars: %d\n"+
			"c free vars: %d\n"+
			"c decision vars: %d\n"+
			"c irred bins: %d\n"+
			"c red bins: %d\n"+
			"c irred tris: %d\n"+
			"c red tris: %d\n"+
			"c irred long: %d\n"+
			"c red long: %d\n"+
			"c irred lits: %d\n"+
			"c red lits: %d\n"+
			"c conflicts: %d\n"+
			"c restarts: %d\n"+
			"c props: %d\n"+
			"c learnt: %d\n"+
			"c removed: %d\n"+
			"c compactions: %d\n"+
			"c dur: %s\n",
		s.Vars, s.FreeVars, s.DecisionVars,
		s.IrredBins, s.RedBins, s.IrredTris, s.RedTris, s.IrredLong, s.RedLong,
		s.IrredLits, s.RedLits,
		s.Conflicts, s.Restarts, s.Props, s.Learnt, s.Removed, s.Compactions, s.Dur)
}
