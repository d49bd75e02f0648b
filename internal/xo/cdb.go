// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/xhochy/cryptominisat/z"
)

// Tracer receives notification of every structural change to the clause
// database. A DRAT proof writer implements it; nil means no tracing.
type Tracer interface {
	OnAdd(ms []z.Lit)
	OnLearn(ms []z.Lit)
	OnRemove(ms []z.Lit)
}

// Cdb is the clause database: the arena for long clauses plus the
// watch-index entries for every length class, and the clause/literal
// counters, which every attach and detach keeps consistent.
type Cdb struct {
	Vars   *Vars
	Active *Active
	CDat   CDat

	// incremental clause-literal accumulator for Add/Learn
	addLits []z.Lit
	addVals []int8 // scratch indexed by literal: 1 if the literal was already seen in this clause
	addTrue bool   // clause already satisfied by a level-0 true literal

	// Bot is set when an empty clause was committed: the formula is
	// trivially UNSAT.
	Bot bool

	Added   []z.C // locations of irredundant long clauses
	Learnts []z.C // locations of learnt long clauses
	pendRm  []z.C // long-clause locations removed but not yet compacted

	// per-learnt-clause usage counters: propagations caused, conflicts
	// caused, and the conflict index at learning time
	Meta map[z.C]*CMeta

	Tracer Tracer
	St     *Stats

	// arena-waste fraction triggering automatic compaction
	wasteRatio float64

	gc *Cgc
}

// NewCdb creates a clause database over the given per-variable state.
func NewCdb(vars *Vars, capHint int) *Cdb {
	return &Cdb{
		Vars:    vars,
		CDat:    *NewCDat(capHint),
		addVals: make([]int8, 0, 128),
		Meta:    make(map[z.C]*CMeta),
		St:      NewStats(),
		gc:      NewCgc(),
	}
}

// CMeta carries a learnt long clause's usage counters.
type CMeta struct {
	Props      int64 // propagations this clause caused
	Confls     int64 // conflicts this clause participated in
	Looks      int64 // times propagation loaded the clause
	Introduced int64 // conflict index at learning time
}

// NoteProp records that the learnt clause at loc caused a propagation.
func (cdb *Cdb) NoteProp(loc z.C) {
	if m := cdb.Meta[loc]; m != nil {
		m.Props++
	}
}

// NoteConfl records that the learnt clause at loc participated in a
// conflict.
func (cdb *Cdb) NoteConfl(loc z.C) {
	if m := cdb.Meta[loc]; m != nil {
		m.Confls++
	}
}

// NoteLook records that propagation loaded the clause at loc.
func (cdb *Cdb) NoteLook(loc z.C) {
	if m := cdb.Meta[loc]; m != nil {
		m.Looks++
	}
}

func (cdb *Cdb) growToVar(u z.Var) {
	cdb.Vars.growToVar(u)
	if int(2*(u+2)) <= len(cdb.addVals) {
		return
	}
	n := make([]int8, 2*(u+2))
	copy(n, cdb.addVals)
	cdb.addVals = n
}

// Add accumulates a clause literal by literal; call with z.LitNull to
// terminate and commit. Returns (loc, unit): loc is the arena location if a
// long clause was attached (CNull otherwise), unit is the forced literal
// if the clause reduced to a single literal (LitNull otherwise). A
// clause that turned out tautological or already-satisfied yields
// (CNull, LitNull) with nothing attached.
func (cdb *Cdb) Add(m z.Lit) (z.C, z.Lit) {
	if m != z.LitNull {
		cdb.growToVar(m.Var())
		if cdb.addTrue {
			return CNull, z.LitNull
		}
		val := cdb.Vars.Sign(m)
		if val == 1 {
			cdb.addTrue = true
			return CNull, z.LitNull
		}
		if val == -1 {
			return CNull, z.LitNull // level-0 false literal: drop it
		}
		seen := cdb.addVals[m]
		if seen == 1 {
			return CNull, z.LitNull // duplicate literal
		}
		if cdb.addVals[m.Not()] == 1 {
			cdb.addTrue = true // tautology: L and ~L both present
			return CNull, z.LitNull
		}
		cdb.addVals[m] = 1
		cdb.addLits = append(cdb.addLits, m)
		return CNull, z.LitNull
	}

	// terminator
	defer cdb.resetAdd()
	if cdb.addTrue {
		return CNull, z.LitNull
	}
	ms := cdb.addLits
	if cdb.Tracer != nil {
		cdb.Tracer.OnAdd(ms)
	}
	return cdb.commitIrred(ms)
}

func (cdb *Cdb) resetAdd() {
	for _, m := range cdb.addLits {
		cdb.addVals[m] = 0
	}
	cdb.addLits = cdb.addLits[:0]
	cdb.addTrue = false
}

func (cdb *Cdb) commitIrred(ms []z.Lit) (z.C, z.Lit) {
	switch len(ms) {
	case 0:
		cdb.Bot = true
		return CNull, z.LitNull
	case 1:
		return CNull, ms[0]
	case 2:
		cdb.attachBin(ms[0], ms[1], false)
		cdb.St.IrredBins++
		cdb.St.IrredLits += 2
		return CNull, z.LitNull
	case 3:
		cdb.attachTri(ms[0], ms[1], ms[2], false)
		cdb.St.IrredTris++
		cdb.St.IrredLits += 3
		return CNull, z.LitNull
	default:
		loc := cdb.CDat.AddLits(MakeChd(false, 0, len(ms)), ms)
		cdb.attachLong(loc)
		cdb.Added = append(cdb.Added, loc)
		cdb.St.IrredLong++
		cdb.St.IrredLits += int64(len(ms))
		return loc, z.LitNull
	}
}

// Learn commits a clause derived by conflict analysis with the given glue
// (meaningless for size<=3, which have no LBD slot). See commitIrred for
// the size-class dispatch; Learn skips the tautology/duplicate scan since
// derive.go already guarantees a clean literal set.
func (cdb *Cdb) Learn(ms []z.Lit, lbd int) z.C {
	if cdb.Tracer != nil {
		cdb.Tracer.OnLearn(ms)
	}
	cdb.St.Learnt++
	cdb.St.LearntLits += int64(len(ms))
	switch len(ms) {
	case 0:
		return CNull
	case 1:
		return CNull
	case 2:
		cdb.attachBin(ms[0], ms[1], true)
		cdb.St.RedBins++
		cdb.St.RedLits += 2
		return CNull
	case 3:
		cdb.attachTri(ms[0], ms[1], ms[2], true)
		cdb.St.RedTris++
		cdb.St.RedLits += 3
		return CNull
	default:
		loc := cdb.CDat.AddLits(MakeChd(true, lbd, len(ms)), ms)
		cdb.attachLong(loc)
		cdb.Learnts = append(cdb.Learnts, loc)
		cdb.Meta[loc] = &CMeta{Introduced: cdb.St.Conflicts}
		cdb.St.RedLong++
		cdb.St.RedLits += int64(len(ms))
		return loc
	}
}

// Remove detaches and queues for compaction every long clause in cs.
func (cdb *Cdb) Remove(cs ...z.C) {
	for _, loc := range cs {
		ms := cdb.CDat.Load(loc, nil)
		if cdb.Tracer != nil {
			cdb.Tracer.OnRemove(ms)
		}
		cdb.detachLong(loc)
		h := cdb.CDat.Chd(loc)
		if h.Learnt() {
			cdb.St.RedLong--
			cdb.St.RedLits -= int64(len(ms))
		} else {
			cdb.St.IrredLong--
			cdb.St.IrredLits -= int64(len(ms))
		}
		cdb.St.Removed++
		cdb.St.RemovedLits += int64(len(ms))
		delete(cdb.Meta, loc)
		cdb.pendRm = append(cdb.pendRm, loc)
	}
}

// RemoveBin detaches an (l1, l2) binary clause with the given learnt
// flag. Used by implicit-clause subsumption/strengthening.
func (cdb *Cdb) RemoveBin(l1, l2 z.Lit, learnt bool) {
	cdb.detachBin(l1, l2, learnt)
	if learnt {
		cdb.St.RedBins--
		cdb.St.RedLits -= 2
	} else {
		cdb.St.IrredBins--
		cdb.St.IrredLits -= 2
	}
}

// RemoveTri detaches an (l1, l2, l3) ternary clause with the given
// learnt flag.
func (cdb *Cdb) RemoveTri(l1, l2, l3 z.Lit, learnt bool) {
	cdb.detachTri(l1, l2, l3, learnt)
	if learnt {
		cdb.St.RedTris--
		cdb.St.RedLits -= 3
	} else {
		cdb.St.IrredTris--
		cdb.St.IrredLits -= 3
	}
}

// AddBin attaches a fresh (l1, l2) binary clause outside of the
// Add/Learn accumulator protocol. Hyper-binary resolution and ternary
// strengthening both synthesize new binaries on the fly.
func (cdb *Cdb) AddBin(l1, l2 z.Lit, learnt bool) {
	cdb.attachBin(l1, l2, learnt)
	if learnt {
		cdb.St.RedBins++
		cdb.St.RedLits += 2
	} else {
		cdb.St.IrredBins++
		cdb.St.IrredLits += 2
	}
}

func (cdb *Cdb) attachLong(loc z.C) {
	ms := cdb.CDat.Load(loc, nil)
	cdb.Vars.Watches[ms[0]] = append(cdb.Vars.Watches[ms[0]], MakeLongWatch(loc, ms[1]))
	cdb.Vars.Watches[ms[1]] = append(cdb.Vars.Watches[ms[1]], MakeLongWatch(loc, ms[0]))
	if cdb.Active != nil {
		cdb.Active.Add(cdb, loc)
	}
}

func (cdb *Cdb) detachLong(loc z.C) {
	ms := cdb.CDat.Load(loc, nil)
	cdb.removeWatch(ms[0], func(w Watch) bool { return !w.IsImplicit() && w.C() == loc })
	cdb.removeWatch(ms[1], func(w Watch) bool { return !w.IsImplicit() && w.C() == loc })
	if cdb.Active != nil {
		cdb.Active.RemoveLoc(cdb, loc)
	}
}

func (cdb *Cdb) attachBin(l1, l2 z.Lit, learnt bool) {
	cdb.Vars.Watches[l1] = append(cdb.Vars.Watches[l1], MakeBinWatch(l2, learnt))
	cdb.Vars.Watches[l2] = append(cdb.Vars.Watches[l2], MakeBinWatch(l1, learnt))
}

func (cdb *Cdb) detachBin(l1, l2 z.Lit, learnt bool) {
	cdb.removeWatch(l1, func(w Watch) bool { return w.IsBinary() && w.Other() == l2 && w.Learnt() == learnt })
	cdb.removeWatch(l2, func(w Watch) bool { return w.IsBinary() && w.Other() == l1 && w.Learnt() == learnt })
}

func (cdb *Cdb) attachTri(l1, l2, l3 z.Lit, learnt bool) {
	cdb.Vars.Watches[l1] = append(cdb.Vars.Watches[l1], MakeTriWatch(l2, l3, learnt))
	cdb.Vars.Watches[l2] = append(cdb.Vars.Watches[l2], MakeTriWatch(l1, l3, learnt))
	cdb.Vars.Watches[l3] = append(cdb.Vars.Watches[l3], MakeTriWatch(l1, l2, learnt))
}

func (cdb *Cdb) detachTri(l1, l2, l3 z.Lit, learnt bool) {
	cdb.removeWatch(l1, func(w Watch) bool { return triMatches(w, l2, l3, learnt) })
	cdb.removeWatch(l2, func(w Watch) bool { return triMatches(w, l1, l3, learnt) })
	cdb.removeWatch(l3, func(w Watch) bool { return triMatches(w, l1, l2, learnt) })
}

func triMatches(w Watch, a, b z.Lit, learnt bool) bool {
	if !w.IsTernary() || w.Learnt() != learnt {
		return false
	}
	o1, o2 := w.Other(), w.Other2()
	return (o1 == a && o2 == b) || (o1 == b && o2 == a)
}

func (cdb *Cdb) removeWatch(lit z.Lit, pred func(Watch) bool) {
	ws := cdb.Vars.Watches[lit]
	for i, w := range ws {
		if pred(w) {
			ws[i] = ws[len(ws)-1]
			cdb.Vars.Watches[lit] = ws[:len(ws)-1]
			return
		}
	}
}

// SortWatched sorts lit's watch list binaries-then-ternaries-then-long,
// with binaries/ternaries key-ordered by their other literal(s). The
// ordering makes the self-subsumption sweep a single linear pass.
func (cdb *Cdb) SortWatched(lit z.Lit) {
	ws := cdb.Vars.Watches[lit]
	sort.Slice(ws, func(i, j int) bool {
		a, b := ws[i], ws[j]
		ra, rb := watchRank(a), watchRank(b)
		if ra != rb {
			return ra < rb
		}
		if a.Other() != b.Other() {
			return a.Other() < b.Other()
		}
		if a.IsTernary() {
			return a.Other2() < b.Other2()
		}
		return false
	})
}

func watchRank(w Watch) int {
	switch {
	case w.IsBinary():
		return 0
	case w.IsTernary():
		return 1
	default:
		return 2
	}
}

// Bump increases the heat of the long clause at loc.
func (cdb *Cdb) Bump(loc z.C) bool {
	return cdb.CDat.Bump(loc)
}

// Decay halves every long clause's heat.
func (cdb *Cdb) Decay() {
	cdb.CDat.Decay()
}

// InUse reports whether loc is a long clause still attached (not queued for
// removal) — used by Cgc to avoid double-freeing.
func (cdb *Cdb) InUse(loc z.C) bool {
	for _, r := range cdb.pendRm {
		if r == loc {
			return false
		}
	}
	return true
}

// MaybeCompact compacts the arena if accumulated garbage exceeds the
// configured waste ratio, relocating Added, Learnts, and every watch
// that references the arena. Returns the number of clauses and literals
// freed (0,0 if no compaction occurred).
func (cdb *Cdb) MaybeCompact() (int, int) {
	if !cdb.CDat.CompactReady(len(cdb.pendRm), 0, cdb.wasteRatio) {
		return 0, 0
	}
	return cdb.Consolidate()
}

// Consolidate compacts the arena unconditionally: live clauses are
// copied into a fresh arena and every offset holder is remapped.
func (cdb *Cdb) Consolidate() (int, int) {
	rlm, freedLits := cdb.CDat.Compact(cdb.pendRm)
	cdb.relocate(rlm)
	freedClauses := len(cdb.pendRm)
	cdb.pendRm = cdb.pendRm[:0]
	cdb.St.Compactions++
	return freedClauses, freedLits
}

// SetWasteRatio installs the arena-waste fraction above which
// MaybeCompact acts.
func (cdb *Cdb) SetWasteRatio(r float64) {
	cdb.wasteRatio = r
}

func (cdb *Cdb) relocate(rlm map[z.C]z.C) {
	for lit, ws := range cdb.Vars.Watches {
		for i, w := range ws {
			if w.IsImplicit() {
				continue
			}
			if nloc, ok := rlm[w.C()]; ok {
				ws[i] = w.Relocate(nloc)
			}
		}
		cdb.Vars.Watches[lit] = ws
	}
	cdb.Added = relocateSlice(cdb.Added, rlm)
	cdb.Learnts = relocateSlice(cdb.Learnts, rlm)
	for i, w := range cdb.Vars.Reasons {
		if w == ReasonNull || w.IsImplicit() {
			continue
		}
		if nloc, ok := rlm[w.C()]; ok {
			cdb.Vars.Reasons[i] = w.Relocate(nloc)
		}
	}
	meta := make(map[z.C]*CMeta, len(cdb.Meta))
	for loc, m := range cdb.Meta {
		if nloc, ok := rlm[loc]; ok {
			meta[nloc] = m
		}
	}
	cdb.Meta = meta
	if cdb.Active != nil {
		cdb.Active.CRemap(rlm)
	}
}

func relocateSlice(cs []z.C, rlm map[z.C]z.C) []z.C {
	j := 0
	for _, c := range cs {
		if n, ok := rlm[c]; ok {
			cs[j] = n
			j++
		}
	}
	return cs[:j]
}

// ReasonLits appends the literals of the clause that implied m under
// reason r to dst and returns the result: {m, r.Other()} for a binary
// reason, {m, r.Other(), r.Other2()} for a ternary one, or the arena
// clause's literals for a long one. Precondition: r != ReasonNull.
func (cdb *Cdb) ReasonLits(dst []z.Lit, m z.Lit, r Watch) []z.Lit {
	switch {
	case r.IsBinary():
		return append(dst, m, r.Other())
	case r.IsTernary():
		return append(dst, m, r.Other(), r.Other2())
	default:
		return cdb.CDat.Load(r.C(), dst)
	}
}

// ForallAdded calls f for every attached irredundant long clause.
func (cdb *Cdb) ForallAdded(f func(z.C)) {
	for _, loc := range cdb.Added {
		f(loc)
	}
}

// ForallLearnts calls f for every attached learnt long clause.
func (cdb *Cdb) ForallLearnts(f func(z.C)) {
	for _, loc := range cdb.Learnts {
		f(loc)
	}
}

// Write emits every irredundant clause (implicit and long) in DIMACS
// body form.
func (cdb *Cdb) Write(w io.Writer) error {
	for lit := z.Lit(2); int(lit) < len(cdb.Vars.Watches); lit++ {
		for _, watch := range cdb.Vars.Watches[lit] {
			if watch.Learnt() {
				continue
			}
			if watch.IsBinary() && lit < watch.Other() {
				if _, err := fmt.Fprintf(w, "%d %d 0\n", lit.Dimacs(), watch.Other().Dimacs()); err != nil {
					return errors.Wrap(err, "writing binary clause")
				}
			}
			if watch.IsTernary() && lit < watch.Other() && lit < watch.Other2() {
				if _, err := fmt.Fprintf(w, "%d %d %d 0\n", lit.Dimacs(), watch.Other().Dimacs(), watch.Other2().Dimacs()); err != nil {
					return errors.Wrap(err, "writing ternary clause")
				}
			}
		}
	}
	for _, loc := range cdb.Added {
		for _, m := range cdb.CDat.Load(loc, nil) {
			if _, err := fmt.Fprintf(w, "%d ", m.Dimacs()); err != nil {
				return errors.Wrap(err, "writing long clause")
			}
		}
		if _, err := fmt.Fprint(w, "0\n"); err != nil {
			return errors.Wrap(err, "writing long clause")
		}
	}
	return nil
}

// Size returns the literal count of the long clause at loc.
func (cdb *Cdb) Size(loc z.C) int {
	n := 0
	for i := int(loc); cdb.CDat.D[i] != z.LitNull; i++ {
		n++
	}
	return n
}

// Locked reports whether loc is currently the reason of an assigned
// variable and therefore must not be removed.
func (cdb *Cdb) Locked(loc z.C) bool {
	for _, w := range cdb.Vars.Reasons {
		if w != ReasonNull && !w.IsImplicit() && w.C() == loc {
			return true
		}
	}
	return false
}

// CheckCounts verifies that the irredundant/learnt
// binary, ternary, long and literal counters match what a walk of the
// watch index and the arena recomputes.
func (cdb *Cdb) CheckCounts() []error {
	var errs []error
	var bins, redBins, tris, redTris int64
	for lit := z.Lit(2); int(lit) < len(cdb.Vars.Watches); lit++ {
		for _, w := range cdb.Vars.Watches[lit] {
			switch {
			case w.IsBinary():
				if w.Learnt() {
					redBins++
				} else {
					bins++
				}
			case w.IsTernary():
				if w.Learnt() {
					redTris++
				} else {
					tris++
				}
			}
		}
	}
	// each binary is watched twice, each ternary three times
	if bins%2 != 0 || tris%3 != 0 || redBins%2 != 0 || redTris%3 != 0 {
		errs = append(errs, errors.Errorf("asymmetric implicit watchers: bins=%d tris=%d redBins=%d redTris=%d",
			bins, tris, redBins, redTris))
	}
	bins /= 2
	redBins /= 2
	tris /= 3
	redTris /= 3
	if bins != cdb.St.IrredBins || redBins != cdb.St.RedBins ||
		tris != cdb.St.IrredTris || redTris != cdb.St.RedTris {
		errs = append(errs, errors.Errorf(
			"implicit counters mismatch: have bins=%d/%d tris=%d/%d, counted bins=%d/%d tris=%d/%d",
			cdb.St.IrredBins, cdb.St.RedBins, cdb.St.IrredTris, cdb.St.RedTris,
			bins, redBins, tris, redTris))
	}
	var irredLong, redLong, irredLits, redLits int64
	pend := make(map[z.C]bool, len(cdb.pendRm))
	for _, loc := range cdb.pendRm {
		pend[loc] = true
	}
	cdb.CDat.Forall(func(i int, loc z.C, ms []z.Lit) {
		if pend[loc] {
			return
		}
		if cdb.CDat.Chd(loc).Learnt() {
			redLong++
			redLits += int64(len(ms))
		} else {
			irredLong++
			irredLits += int64(len(ms))
		}
	})
	irredLits += 2*bins + 3*tris
	redLits += 2*redBins + 3*redTris
	if irredLong != cdb.St.IrredLong || redLong != cdb.St.RedLong {
		errs = append(errs, errors.Errorf("long counters mismatch: have %d/%d, counted %d/%d",
			cdb.St.IrredLong, cdb.St.RedLong, irredLong, redLong))
	}
	if irredLits != cdb.St.IrredLits || redLits != cdb.St.RedLits {
		errs = append(errs, errors.Errorf("lit counters mismatch: have %d/%d, counted %d/%d",
			cdb.St.IrredLits, cdb.St.RedLits, irredLits, redLits))
	}
	return errs
}

// CheckWatches verifies that every attached long clause's first
// two literals each carry a watcher referencing it.
func (cdb *Cdb) CheckWatches() []error {
	var errs []error
	pend := make(map[z.C]bool, len(cdb.pendRm))
	for _, loc := range cdb.pendRm {
		pend[loc] = true
	}
	cdb.CDat.Forall(func(i int, loc z.C, ms []z.Lit) {
		if pend[loc] || len(ms) < 4 {
			return
		}
		for _, l := range ms[:2] {
			found := false
			for _, w := range cdb.Vars.Watches[l] {
				if !w.IsImplicit() && w.C() == loc {
					found = true
					break
				}
			}
			if !found {
				errs = append(errs, errors.Errorf("clause %s missing watch on %s", loc, l))
			}
		}
	})
	return errs
}

// CheckModel verifies that, under the current assignment, every
// attached irredundant clause (implicit and long) has at least one true
// literal.
func (cdb *Cdb) CheckModel() []error {
	var errs []error
	seen := map[[2]z.Lit]bool{}
	for lit := z.Lit(2); int(lit) < len(cdb.Vars.Watches); lit++ {
		for _, w := range cdb.Vars.Watches[lit] {
			if w.IsTernary() {
				// each ternary is watched by all three literals; check it once
				if w.Learnt() || lit > w.Other() || lit > w.Other2() {
					continue
				}
				if cdb.Vars.Sign(lit) != 1 && cdb.Vars.Sign(w.Other()) != 1 && cdb.Vars.Sign(w.Other2()) != 1 {
					errs = append(errs, errors.Errorf("ternary (%s %s %s) unsatisfied", lit, w.Other(), w.Other2()))
				}
				continue
			}
			if !w.IsBinary() {
				continue
			}
			key := [2]z.Lit{lit, w.Other()}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			if cdb.Vars.Sign(lit) != 1 && cdb.Vars.Sign(w.Other()) != 1 {
				errs = append(errs, errors.Errorf("binary (%s %s) unsatisfied", lit, w.Other()))
			}
		}
	}
	pend := make(map[z.C]bool, len(cdb.pendRm))
	for _, loc := range cdb.pendRm {
		pend[loc] = true
	}
	cdb.CDat.Forall(func(i int, loc z.C, ms []z.Lit) {
		if pend[loc] || cdb.CDat.Chd(loc).Learnt() {
			return
		}
		for _, m := range ms {
			if cdb.Vars.Sign(m) == 1 {
				return
			}
		}
		errs = append(errs, errors.Errorf("clause %s unsatisfied", loc))
	})
	return errs
}

// CopyWith returns a deep copy of the clause database bound to a
// previously-copied Vars, used by (*S).Copy for the portfolio driver.
func (cdb *Cdb) CopyWith(vars *Vars) *Cdb {
	o := &Cdb{
		Vars:    vars,
		CDat:    *cdb.CDat.Copy(),
		addVals: append([]int8(nil), cdb.addVals...),
		Added:   append([]z.C(nil), cdb.Added...),
		Learnts: append([]z.C(nil), cdb.Learnts...),
		pendRm:  append([]z.C(nil), cdb.pendRm...),
		Meta:    make(map[z.C]*CMeta, len(cdb.Meta)),
		St:      NewStats(),
		gc:      cdb.gc.Copy(),
	}
	o.wasteRatio = cdb.wasteRatio
	for loc, m := range cdb.Meta {
		cm := *m
		o.Meta[loc] = &cm
	}
	*o.St = *cdb.St
	return o
}

func (cdb *Cdb) String() string {
	return fmt.Sprintf("Cdb{%s irredBins:%d redBins:%d irredTris:%d redTris:%d}",
		cdb.CDat.String(), cdb.St.IrredBins, cdb.St.RedBins, cdb.St.IrredTris, cdb.St.RedTris)
}
