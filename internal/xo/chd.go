// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import "fmt"

// Chd packs a long clause's header: whether it is learnt, its glue (LBD),
// its size, and a heat (activity) counter, all in 32 bits, stored at
// D[loc-1] in the arena right before the clause's literals.
type Chd uint32

const (
	szBits    = 5
	lbdBits   = 4
	heatBits  = 22
	heatShift = szBits + lbdBits
)

const (
	szMask   uint32 = (1 << szBits) - 1
	lbdMask         = 0xf << szBits
	heatMask        = ((1 << heatBits) - 1) << (szBits + lbdBits)
	lrnMask         = 1 << 31
)

// MakeChd builds a header for a freshly added clause of size sz and, if
// learnt, glue lbd.
func MakeChd(learnt bool, lbd, sz int) Chd {
	v := uint32(0)
	if learnt {
		v |= lrnMask
	}
	v |= uint32(sz) & szMask
	v |= (uint32(lbd) << szBits) & lbdMask
	return Chd(v)
}

// Size returns the clause's literal count modulo 32. CDat.Next does not
// use it: the next clause header is found by scanning for the LitNull
// terminator.
func (c Chd) Size() uint32 {
	return uint32(c) & szMask
}

// Lbd returns the glue value (meaningless for irredundant clauses).
func (c Chd) Lbd() uint32 {
	return (uint32(c) & lbdMask) >> szBits
}

// Learnt is true iff the clause is redundant (derived, not original).
func (c Chd) Learnt() bool {
	return c >= lrnMask
}

// Heat returns the current activity counter.
func (c Chd) Heat() uint32 {
	return (uint32(c) & heatMask) >> heatShift
}

// Bump increases heat by n, reporting whether heat saturated (the caller
// should then decay every clause's heat to keep headroom).
func (c Chd) Bump(n uint32) (Chd, bool) {
	ht := c.Heat() + n
	return Chd((uint32(c) & (lrnMask | szMask | lbdMask)) | (ht << heatShift)), ht >= heatMask>>heatShift
}

// Decay halves heat, used periodically so recent activity dominates.
func (c Chd) Decay() Chd {
	ht := c.Heat() / 2
	return Chd((uint32(c) & (lrnMask | szMask | lbdMask)) | (ht << heatShift))
}

func (c Chd) String() string {
	l := "i"
	if c.Learnt() {
		l = "*"
	}
	return fmt.Sprintf("c[lbd:%d, learnt:%s, size:%d, heat:%d]", c.Lbd(), l, c.Size(), c.Heat())
}
