// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"sort"

	"github.com/xhochy/cryptominisat/internal/config"
	"github.com/xhochy/cryptominisat/z"
)

// Cgc schedules learnt-clause reduction. Virtual time is counted in
// learnt clauses; the stopwatch interval follows a Luby sequence scaled
// by the configured clean cadence.
type Cgc struct {
	luby      *Luby
	factor    int64
	stopWatch int64
	cleans    int64
}

// NewCgc creates a reduction scheduler with the default cadence.
func NewCgc() *Cgc {
	l := NewLuby()
	return &Cgc{
		luby:      l,
		factor:    2048,
		stopWatch: 2048 * int64(l.Next()),
	}
}

// Copy returns a copy of the scheduler.
func (gc *Cgc) Copy() *Cgc {
	l := NewLuby()
	*l = *gc.luby
	return &Cgc{
		luby:      l,
		factor:    gc.factor,
		stopWatch: gc.stopWatch,
		cleans:    gc.cleans,
	}
}

// Tick advances virtual time; called once per learnt clause.
func (gc *Cgc) Tick() {
	if gc.stopWatch > 0 {
		gc.stopWatch--
	}
}

// Ready reports whether a reduction is due.
func (gc *Cgc) Ready() bool {
	return gc.stopWatch <= 0
}

// Cleans returns how many reductions have run.
func (gc *Cgc) Cleans() int64 {
	return gc.cleans
}

func (gc *Cgc) reset(cfg *config.Config) {
	gc.cleans++
	next := int64(gc.luby.Next()) * gc.factor
	if cfg != nil && cfg.IncreaseClean > 1 {
		next = int64(float64(next) * cfg.IncreaseClean)
	}
	gc.stopWatch = next
}

// ReduceDB removes roughly cfg.RatioRemoveClauses of the learnt long
// clauses, keeping the better half under the configured ordering
// (glue/size/propconfl). A pre-clean step first drops clauses whose
// props+conflicts are under cfg.PreClauseCleanPropAndConflLimit and whose
// introduction conflict-index is older than cfg.PreCleanMinConflTime.
// Clauses currently locked as reasons are never removed. Returns the
// number of clauses removed.
func (cdb *Cdb) ReduceDB(cfg *config.Config) int {
	cdb.gc.reset(cfg)
	locked := make(map[z.C]bool)
	for _, w := range cdb.Vars.Reasons {
		if w != ReasonNull && !w.IsImplicit() {
			locked[w.C()] = true
		}
	}

	var rms []z.C
	keep := cdb.Learnts[:0]
	if cfg != nil && cfg.PreClauseCleanPropAndConflLimit > 0 {
		for _, loc := range cdb.Learnts {
			m := cdb.Meta[loc]
			if m != nil && !locked[loc] &&
				m.Props+m.Confls < cfg.PreClauseCleanPropAndConflLimit &&
				cdb.St.Conflicts-m.Introduced > cfg.PreCleanMinConflTime {
				rms = append(rms, loc)
				continue
			}
			keep = append(keep, loc)
		}
		cdb.Learnts = keep
	}

	ratio := 0.5
	cleanType := config.CleanGlue
	if cfg != nil {
		if cfg.RatioRemoveClauses > 0 && cfg.RatioRemoveClauses <= 1 {
			ratio = cfg.RatioRemoveClauses
		}
		cleanType = cfg.ClauseCleaningType
	}

	learnts := cdb.Learnts
	switch cleanType {
	case config.CleanSize:
		sort.Sort(&reduceSize{learnts: learnts, cdb: cdb})
	case config.CleanPropConfl:
		sort.Sort(&reducePropConfl{learnts: learnts, cdb: cdb})
	default:
		sort.Sort(&reduceGlue{learnts: learnts, cdb: cdb})
	}

	lim := int(float64(len(learnts)) * ratio)
	kept := learnts[:0]
	for i, loc := range learnts {
		if i < len(learnts)-lim || locked[loc] || cdb.CDat.Chd(loc).Lbd() <= 2 {
			kept = append(kept, loc)
			continue
		}
		rms = append(rms, loc)
	}
	cdb.Learnts = kept
	cdb.Remove(rms...)
	cdb.MaybeCompact()
	return len(rms)
}

// reduceGlue orders learnts best-first by smaller glue, tie-break
// smaller size.
type reduceGlue struct {
	learnts []z.C
	cdb     *Cdb
}

func (r *reduceGlue) Len() int      { return len(r.learnts) }
func (r *reduceGlue) Swap(i, j int) { r.learnts[i], r.learnts[j] = r.learnts[j], r.learnts[i] }
func (r *reduceGlue) Less(i, j int) bool {
	p, q := r.learnts[i], r.learnts[j]
	ph, qh := r.cdb.CDat.Chd(p), r.cdb.CDat.Chd(q)
	if ph.Lbd() != qh.Lbd() {
		return ph.Lbd() < qh.Lbd()
	}
	if ph.Size() != qh.Size() {
		return ph.Size() < qh.Size()
	}
	return p < q
}

// reduceSize orders learnts best-first by smaller size, tie-break smaller
// glue.
type reduceSize struct {
	learnts []z.C
	cdb     *Cdb
}

func (r *reduceSize) Len() int      { return len(r.learnts) }
func (r *reduceSize) Swap(i, j int) { r.learnts[i], r.learnts[j] = r.learnts[j], r.learnts[i] }
func (r *reduceSize) Less(i, j int) bool {
	p, q := r.learnts[i], r.learnts[j]
	ph, qh := r.cdb.CDat.Chd(p), r.cdb.CDat.Chd(q)
	if ph.Size() != qh.Size() {
		return ph.Size() < qh.Size()
	}
	if ph.Lbd() != qh.Lbd() {
		return ph.Lbd() < qh.Lbd()
	}
	return p < q
}

// reducePropConfl orders learnts best-first by higher recent
// props+conflicts, tie-break smaller size.
type reducePropConfl struct {
	learnts []z.C
	cdb     *Cdb
}

func (r *reducePropConfl) Len() int { return len(r.learnts) }
func (r *reducePropConfl) Swap(i, j int) {
	r.learnts[i], r.learnts[j] = r.learnts[j], r.learnts[i]
}
func (r *reducePropConfl) Less(i, j int) bool {
	p, q := r.learnts[i], r.learnts[j]
	var pu, qu int64
	if m := r.cdb.Meta[p]; m != nil {
		pu = m.Props + m.Confls
	}
	if m := r.cdb.Meta[q]; m != nil {
		qu = m.Props + m.Confls
	}
	if pu != qu {
		return pu > qu
	}
	ph, qh := r.cdb.CDat.Chd(p), r.cdb.CDat.Chd(q)
	if ph.Size() != qh.Size() {
		return ph.Size() < qh.Size()
	}
	return p < q
}
