// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"fmt"
	"io"

	"github.com/xhochy/cryptominisat/z"
)

// CDat is the clause arena for long (>=4-literal) clauses:
// variable-length clauses at stable offsets, laid out
// [Chd header][literals...][LitNull terminator]. z.C values are offsets
// of the first literal; D[loc-1] holds the Chd header.
type CDat struct {
	D      []z.Lit
	Len    int
	Cap    int
	ClsLen int // number of clauses currently stored

	bumpInc uint32
}

// NewCDat creates an arena with the given initial literal capacity.
func NewCDat(cap int) *CDat {
	if cap < 16 {
		cap = 16
	}
	return &CDat{
		D:       make([]z.Lit, 1, cap), // D[0] unused, so z.C(0) stays CNull
		Len:     1,
		Cap:     cap,
		bumpInc: 1,
	}
}

// Chd reads the header of the clause at loc.
func (c *CDat) Chd(loc z.C) Chd {
	return Chd(c.D[loc-1])
}

// SetChd overwrites the header of the clause at loc.
func (c *CDat) SetChd(loc z.C, h Chd) {
	c.D[loc-1] = z.Lit(h)
}

// AddLits appends a LitNull-terminated clause with header hdr, growing the
// arena if needed, and returns its location.
func (c *CDat) AddLits(hdr Chd, ms []z.Lit) z.C {
	need := c.Len + 2 + len(ms)
	if need > cap(c.D) {
		c.grow(need)
	}
	c.D = append(c.D, z.Lit(hdr))
	loc := z.C(len(c.D))
	c.D = append(c.D, ms...)
	c.D = append(c.D, z.LitNull)
	c.Len = len(c.D)
	c.ClsLen++
	return loc
}

// Next returns the location of the clause following the one at loc, found
// by scanning past its LitNull terminator and the next clause's header.
func (c *CDat) Next(loc z.C) z.C {
	i := int(loc)
	for c.D[i] != z.LitNull {
		i++
	}
	return z.C(i + 2)
}

// Load appends the clause's literals (without the header or terminator) to
// ms and returns the result.
func (c *CDat) Load(loc z.C, ms []z.Lit) []z.Lit {
	i := int(loc)
	for c.D[i] != z.LitNull {
		ms = append(ms, c.D[i])
		i++
	}
	return ms
}

// Forall calls f(i, loc, lits) for every clause in the arena in storage
// order, i being a 0-based clause index.
func (c *CDat) Forall(f func(i int, loc z.C, ms []z.Lit)) {
	i := 0
	loc := z.C(2)
	for int(loc) < c.Len {
		ms := c.Load(loc, nil)
		f(i, loc, ms)
		loc = c.Next(loc)
		i++
	}
}

// Bump increases the heat of the clause at loc, decaying the whole arena if
// any clause's heat saturates. Returns whether a decay occurred.
func (c *CDat) Bump(loc z.C) bool {
	h := c.Chd(loc)
	nh, saturated := h.Bump(c.bumpInc)
	c.SetChd(loc, nh)
	if saturated {
		c.Decay()
		return true
	}
	return false
}

// Decay halves every clause's heat.
func (c *CDat) Decay() {
	c.Forall(func(i int, loc z.C, ms []z.Lit) {
		c.SetChd(loc, c.Chd(loc).Decay())
	})
}

// CompactReady reports whether the arena holds enough garbage (nc removed
// clauses out of ClsLen, nl removed literals) to be worth compacting:
// either fraction of waste at or above wasteRatio triggers.
func (c *CDat) CompactReady(nc, nl int, wasteRatio float64) bool {
	if c.ClsLen == 0 {
		return false
	}
	if wasteRatio <= 0 {
		wasteRatio = 0.25
	}
	return float64(nc) >= wasteRatio*float64(c.ClsLen) ||
		float64(nl) >= wasteRatio*float64(c.Len)
}

// Compact rebuilds the arena, dropping every clause whose location is in
// rm, and returns a relocation map from old to new location plus the
// number of literals freed. Every watch list and learnt/irredundant index
// holding a z.C must be remapped through the returned map afterward.
func (c *CDat) Compact(rm []z.C) (map[z.C]z.C, int) {
	drop := make(map[z.C]bool, len(rm))
	for _, loc := range rm {
		drop[loc] = true
	}
	nd := make([]z.Lit, 1, c.estimateLocMapSize())
	rlm := make(map[z.C]z.C, c.ClsLen)
	freed := 0
	nClauses := 0
	c.Forall(func(i int, loc z.C, ms []z.Lit) {
		if drop[loc] {
			freed += len(ms)
			return
		}
		h := c.Chd(loc)
		nd = append(nd, z.Lit(h))
		nloc := z.C(len(nd))
		nd = append(nd, ms...)
		nd = append(nd, z.LitNull)
		rlm[loc] = nloc
		nClauses++
	})
	c.D = nd
	c.Len = len(nd)
	c.Cap = cap(nd)
	c.ClsLen = nClauses
	return rlm, freed
}

// Dimacs writes every clause in the arena to w in bare DIMACS clause form
// (no header line), used by the irredundant/learnt dump helpers.
func (c *CDat) Dimacs(w io.Writer) error {
	var err error
	c.Forall(func(i int, loc z.C, ms []z.Lit) {
		if err != nil {
			return
		}
		for _, m := range ms {
			if _, e := fmt.Fprintf(w, "%d ", m.Dimacs()); e != nil {
				err = e
				return
			}
		}
		if _, e := fmt.Fprint(w, "0\n"); e != nil {
			err = e
		}
	})
	return err
}

// Copy returns a deep copy of the arena.
func (c *CDat) Copy() *CDat {
	o := &CDat{
		D:       make([]z.Lit, len(c.D), cap(c.D)),
		Len:     c.Len,
		Cap:     c.Cap,
		ClsLen:  c.ClsLen,
		bumpInc: c.bumpInc,
	}
	copy(o.D, c.D)
	return o
}

func (c *CDat) estimateLocMapSize() int {
	if c.Len < 16 {
		return 16
	}
	return c.Len
}

func (c *CDat) grow(rLen int) {
	n := cap(c.D) * 2
	for n < rLen {
		n *= 2
	}
	nd := make([]z.Lit, len(c.D), n)
	copy(nd, c.D)
	c.D = nd
	c.Cap = n
}

func (c *CDat) String() string {
	return fmt.Sprintf("CDat{clauses:%d lits:%d cap:%d}", c.ClsLen, c.Len, c.Cap)
}
