// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"fmt"

	"github.com/xhochy/cryptominisat/z"
)

// Trail is the assignment trail: an ordered sequence of assigned
// literals with a parallel per-decision-level start index (Lim), backed
// by the same Vars the watch index lives on.
type Trail struct {
	Cdb   *Cdb
	Vars  *Vars
	Guess *Guess

	Head, Tail int
	Level      int
	D          []z.Lit
	Lim        []int // Lim[d] = trail index where decision level d+1 started

	Props   int64
	MaxTail int
}

// NewTrail creates a trail bound to cdb's watch index and guess's decision
// heap, sized for cdb's current variable capacity.
func NewTrail(cdb *Cdb, guess *Guess) *Trail {
	n := int(cdb.Vars.Max) + 1
	return &Trail{
		Cdb:   cdb,
		Vars:  cdb.Vars,
		Guess: guess,
		D:     make([]z.Lit, 0, n),
		Lim:   make([]int, 0, n),
	}
}

// CopyWith returns a deep copy of the trail bound to previously-copied Cdb
// and Guess, used by (*S).Copy.
func (t *Trail) CopyWith(cdb *Cdb, guess *Guess) *Trail {
	return &Trail{
		Cdb:     cdb,
		Vars:    cdb.Vars,
		Guess:   guess,
		Head:    t.Head,
		Tail:    t.Tail,
		Level:   t.Level,
		D:       append([]z.Lit(nil), t.D...),
		Lim:     append([]int(nil), t.Lim...),
		Props:   t.Props,
		MaxTail: t.MaxTail,
	}
}

// Assign pushes m onto the trail with the given reason, without opening a
// new decision level. Level-0 units pass ReasonNull here; decisions go
// through Decide.
func (t *Trail) Assign(m z.Lit, reason Watch) {
	v := m.Var()
	t.Vars.Set(m)
	t.Vars.Levels[v] = t.Level
	t.Vars.Reasons[v] = reason
	if t.Tail < len(t.D) {
		t.D[t.Tail] = m
	} else {
		t.D = append(t.D, m)
	}
	t.Tail++
	if t.Tail > t.MaxTail {
		t.MaxTail = t.Tail
	}
}

// Decide opens a new decision level and assigns m as its decision.
func (t *Trail) Decide(m z.Lit) {
	t.Lim = append(t.Lim, t.Tail)
	t.Level++
	t.Assign(m, ReasonNull)
}

// LevelStart returns the trail index at which the given level's decision
// was made; 0 for level 0.
func (t *Trail) LevelStart(level int) int {
	if level <= 0 {
		return 0
	}
	return t.Lim[level-1]
}

// Back unwinds the trail to the end of trgLevel, clearing every
// assignment made at a higher level and pushing the freed variables back
// onto the decision heap.
func (t *Trail) Back(trgLevel int) {
	if trgLevel >= t.Level {
		return
	}
	lim := t.Lim[trgLevel]
	for i := t.Tail - 1; i >= lim; i-- {
		m := t.D[i]
		t.Vars.Unset(m)
		t.Vars.Levels[m.Var()] = -1
		t.Vars.Reasons[m.Var()] = ReasonNull
		if t.Vars.Decide[m.Var()] {
			t.Guess.Push(m.Var(), m.IsPos())
		}
	}
	t.Tail = lim
	t.Head = lim
	t.Lim = t.Lim[:trgLevel]
	t.Level = trgLevel
}

// Conflict identifies a clause that became false during propagation: Lit is
// one of its literals (the one that was just falsified) and W is its
// watcher. The pair together is enough for Cdb.ReasonLits to recover every
// literal of the clause, for binary/ternary/long alike.
type Conflict struct {
	Lit z.Lit
	W   Watch
}

// ConflictNull is the zero Conflict, meaning "no conflict".
var ConflictNull = Conflict{}

// IsNull reports whether c means "no conflict".
func (c Conflict) IsNull() bool { return c.W == ReasonNull }

// Prop propagates every enqueued literal to fixpoint over the watch
// index (two-watched-literal, with direct dispatch on the long / binary
// / ternary watcher kinds) and returns the conflicting clause, or
// ConflictNull if none. On conflict the queue is drained (Head = Tail)
// so the caller backtracks before propagating again.
func (t *Trail) Prop() Conflict {
	cdb := t.Cdb
	vars := t.Vars
	for t.Head < t.Tail {
		lit := t.D[t.Head]
		t.Head++
		t.Props++
		falseLit := lit.Not()
		ws := vars.Watches[falseLit]
		i, j, n := 0, 0, len(ws)
		for i = 0; i < n; i++ {
			w := ws[i]
			switch {
			case w.IsBinary():
				other := w.Other()
				sv := vars.Sign(other)
				if sv == 1 {
					ws[j] = w
					j++
					continue
				}
				if sv == -1 {
					ws[j] = w
					j++
					copy(ws[j:], ws[i+1:])
					vars.Watches[falseLit] = ws[:j+(n-i-1)]
					t.Head = t.Tail
					return Conflict{Lit: falseLit, W: w}
				}
				t.Assign(other, MakeBinWatch(falseLit, w.Learnt()))
				ws[j] = w
				j++

			case w.IsTernary():
				o1, o2 := w.Other(), w.Other2()
				s1, s2 := vars.Sign(o1), vars.Sign(o2)
				if s1 == 1 || s2 == 1 {
					ws[j] = w
					j++
					continue
				}
				if s1 == -1 && s2 == -1 {
					ws[j] = w
					j++
					copy(ws[j:], ws[i+1:])
					vars.Watches[falseLit] = ws[:j+(n-i-1)]
					t.Head = t.Tail
					return Conflict{Lit: falseLit, W: w}
				}
				if s1 == -1 {
					t.Assign(o2, MakeTriWatch(falseLit, o1, w.Learnt()))
				} else {
					t.Assign(o1, MakeTriWatch(falseLit, o2, w.Learnt()))
				}
				ws[j] = w
				j++

			default:
				blocker := w.Other()
				if vars.Sign(blocker) == 1 {
					ws[j] = w
					j++
					continue
				}
				loc := w.C()
				cdb.NoteLook(loc)
				D := cdb.CDat.D
				// keep the falsified watched literal at D[loc+1] so the
				// other watched literal is at D[loc]
				if D[loc] == falseLit {
					D[loc], D[loc+1] = D[loc+1], falseLit
				}
				other := D[loc]
				if other != blocker && vars.Sign(other) == 1 {
					ws[j] = w.WithBlocker(other)
					j++
					continue
				}
				moved := false
				for k := int(loc) + 2; D[k] != z.LitNull; k++ {
					nl := D[k]
					if vars.Sign(nl) == -1 {
						continue
					}
					// new watch found: swap it into the watched slot and
					// move this watcher to its list
					D[int(loc)+1], D[k] = nl, falseLit
					vars.Watches[nl] = append(vars.Watches[nl], MakeLongWatch(loc, other))
					moved = true
					break
				}
				if moved {
					continue
				}
				if vars.Sign(other) == -1 {
					ws[j] = w
					j++
					copy(ws[j:], ws[i+1:])
					vars.Watches[falseLit] = ws[:j+(n-i-1)]
					t.Head = t.Tail
					return Conflict{Lit: falseLit, W: w}
				}
				t.Assign(other, MakeLongWatch(loc, falseLit))
				cdb.NoteProp(loc)
				ws[j] = w
				j++
			}
		}
		vars.Watches[falseLit] = ws[:j]
	}
	return ConflictNull
}

// PropBinaryOnly propagates only binary watchers, used by probing and
// useless-binary detection.
func (t *Trail) PropBinaryOnly() Conflict {
	vars := t.Vars
	for t.Head < t.Tail {
		lit := t.D[t.Head]
		t.Head++
		t.Props++
		falseLit := lit.Not()
		for _, w := range vars.Watches[falseLit] {
			if !w.IsBinary() {
				continue
			}
			other := w.Other()
			sv := vars.Sign(other)
			if sv == 1 {
				continue
			}
			if sv == -1 {
				t.Head = t.Tail
				return Conflict{Lit: falseLit, W: w}
			}
			t.Assign(other, MakeBinWatch(falseLit, w.Learnt()))
		}
	}
	return ConflictNull
}

// BinNeighbors appends to dst the literals directly implied by m
// through a single binary clause, used by useless-binary removal to
// compute one-hop binary closures.
func (t *Trail) BinNeighbors(m z.Lit, dst []z.Lit) []z.Lit {
	for _, w := range t.Vars.Watches[m.Not()] {
		if w.IsBinary() {
			dst = append(dst, w.Other())
		}
	}
	return dst
}

func (t *Trail) String() string {
	return fmt.Sprintf("Trail{level:%d head:%d tail:%d props:%d}", t.Level, t.Head, t.Tail, t.Props)
}
