// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"fmt"

	"github.com/xhochy/cryptominisat/z"
)

// Watch is a tagged-union watcher: a long clause reference with a cached
// blocker literal, a binary partner, or a ternary pair of partners, all
// packed into one 64-bit value so a watch list is a flat []Watch with no
// interface-dispatch or pointer-chasing overhead. Dispatch is a switch on
// the two tag bits.
type Watch uint64

// ReasonNull marks a decision (or an externally-asserted unit): no
// clause implied the assignment. It aliases the zero Watch value, which
// would otherwise denote "long clause at arena offset 0", an offset CDat
// never hands out (D[0] is reserved), so Vars.Reasons can reuse Watch
// directly.
const ReasonNull Watch = 0

const (
	wLitBits = 30
	wLocBits = 30

	wLitMask = uint64(1)<<wLitBits - 1
	wLocMask = (uint64(1)<<wLocBits - 1) << wLitBits

	learntMask   = uint64(1) << 60
	triMask      = uint64(1) << 61
	implicitMask = uint64(1) << 62
)

// MakeLongWatch builds a watcher for a >=4-literal clause stored at loc,
// caching blocker as the literal to check before loading the clause.
func MakeLongWatch(loc z.C, blocker z.Lit) Watch {
	return Watch(uint64(blocker)&wLitMask | (uint64(loc)&(wLocMask>>wLitBits))<<wLitBits)
}

// MakeBinWatch builds a watcher for a binary clause (L, partner).
func MakeBinWatch(partner z.Lit, learnt bool) Watch {
	v := implicitMask | uint64(partner)&wLitMask
	if learnt {
		v |= learntMask
	}
	return Watch(v)
}

// MakeTriWatch builds a watcher for a ternary clause (L, p1, p2).
func MakeTriWatch(p1, p2 z.Lit, learnt bool) Watch {
	v := implicitMask | triMask | uint64(p1)&wLitMask | (uint64(p2)&(wLocMask>>wLitBits))<<wLitBits
	if learnt {
		v |= learntMask
	}
	return Watch(v)
}

// IsImplicit is true for binary and ternary watchers, false for long.
func (w Watch) IsImplicit() bool {
	return uint64(w)&implicitMask != 0
}

// IsBinary is true iff w watches a 2-literal clause.
func (w Watch) IsBinary() bool {
	return w.IsImplicit() && uint64(w)&triMask == 0
}

// IsTernary is true iff w watches a 3-literal clause.
func (w Watch) IsTernary() bool {
	return w.IsImplicit() && uint64(w)&triMask != 0
}

// Learnt reports the watcher's learnt bit; only meaningful for implicit
// (binary/ternary) watchers — long clauses carry their learnt flag in Chd.
func (w Watch) Learnt() bool {
	return uint64(w)&learntMask != 0
}

// Other returns the cached blocker (long) or the sole partner (binary), or
// the first partner (ternary).
func (w Watch) Other() z.Lit {
	return z.Lit(uint64(w) & wLitMask)
}

// Other2 returns the second partner of a ternary watcher. Calling it on a
// non-ternary watcher is a programming error.
func (w Watch) Other2() z.Lit {
	return z.Lit((uint64(w) & wLocMask) >> wLitBits)
}

// C returns the arena location of a long-clause watcher. Calling it on an
// implicit watcher is a programming error.
func (w Watch) C() z.C {
	return z.C((uint64(w) & wLocMask) >> wLitBits)
}

// Relocate returns a copy of a long watcher pointed at a new arena
// location, used after arena compaction.
func (w Watch) Relocate(o z.C) Watch {
	v := uint64(w)
	v &= ^wLocMask
	v |= (uint64(o) & (wLocMask >> wLitBits)) << wLitBits
	return Watch(v)
}

// WithBlocker returns a copy of a long watcher with a new blocker literal,
// used when propagation finds a different true literal to cache.
func (w Watch) WithBlocker(b z.Lit) Watch {
	v := uint64(w)
	v &= ^wLitMask
	v |= uint64(b) & wLitMask
	return Watch(v)
}

func (w Watch) String() string {
	switch {
	case w.IsBinary():
		return fmt.Sprintf("Watch{bin other:%s learnt:%t}", w.Other(), w.Learnt())
	case w.IsTernary():
		return fmt.Sprintf("Watch{tri others:%s,%s learnt:%t}", w.Other(), w.Other2(), w.Learnt())
	default:
		return fmt.Sprintf("Watch{long c:%s blocker:%s}", w.C(), w.Other())
	}
}
