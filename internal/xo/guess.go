// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"github.com/xhochy/cryptominisat/z"
)

const (
	gBumpInc       = 1.0
	gBumpDecay     = 0.95
	gBumpLim       = 1e100
	gDecayMin      = 0.67
	gDecayMax      = 0.935
	gDecayMaxMax   = 0.9875
	gDecayMaxDecay = 0.9999
)

// Guess is a binary max-heap over unassigned, decision-eligible
// variables keyed by activity ("heat"), with phase saving: the
// last-assigned polarity is cached per variable.
type Guess struct {
	Vars *Vars

	pos  []int   // var -> heap index, -1 if not in heap
	vhp  []z.Var // heap array of vars
	heat []float64

	cache []int8 // cached polarity per var: 1 pos, -1 neg

	bumpInc  float64
	decayMax float64

	decays        int64
	restartDecays int
	rescales      int64
	guesses       int64
}

func newGuess(vars *Vars) *Guess {
	n := int(vars.Max) + 1
	g := &Guess{
		Vars:     vars,
		pos:      make([]int, n),
		heat:     make([]float64, n),
		cache:    make([]int8, n),
		vhp:      make([]z.Var, 0, n),
		bumpInc:  gBumpInc,
		decayMax: gDecayMin,
	}
	for i := range g.pos {
		g.pos[i] = -1
	}
	for v := z.Var(1); v <= vars.Max; v++ {
		g.push(v)
	}
	return g
}

// NewGuessCdb creates a Guess over cdb's variables, seeded from the
// clauses already present.
func NewGuessCdb(cdb *Cdb) *Guess {
	g := newGuess(cdb.Vars)
	g.Seed(cdb)
	return g
}

// Seed initializes heat and polarity from short-clause literal occurrence
// counts; one pass serves both, since both want "how often does this
// literal appear in a short clause".
func (g *Guess) Seed(cdb *Cdb) {
	occ := make([]int, 2*(cdb.Vars.Max+2))
	bump := func(ms []z.Lit) {
		if len(ms) >= 16 {
			return
		}
		for _, m := range ms {
			occ[m]++
		}
	}
	for lit := z.Lit(2); int(lit) < len(cdb.Vars.Watches); lit++ {
		for _, w := range cdb.Vars.Watches[lit] {
			if w.IsBinary() && lit < w.Other() {
				bump([]z.Lit{lit, w.Other()})
			}
			if w.IsTernary() && lit < w.Other() && lit < w.Other2() {
				bump([]z.Lit{lit, w.Other(), w.Other2()})
			}
		}
	}
	cdb.CDat.Forall(func(i int, loc z.C, ms []z.Lit) { bump(ms) })
	for v := z.Var(1); v <= cdb.Vars.Max; v++ {
		g.growToVar(v)
		p, n := occ[v.Pos()], occ[v.Neg()]
		g.heat[v] = float64(p + n)
		if p >= n {
			g.cache[v] = 1
		} else {
			g.cache[v] = -1
		}
		g.fix(v)
	}
}

// Copy returns a deep copy.
func (g *Guess) Copy() *Guess {
	o := &Guess{
		Vars:     g.Vars,
		pos:      append([]int(nil), g.pos...),
		heat:     append([]float64(nil), g.heat...),
		cache:    append([]int8(nil), g.cache...),
		vhp:      append([]z.Var(nil), g.vhp...),
		bumpInc:  g.bumpInc,
		decayMax: g.decayMax,
		decays:   g.decays,
	}
	return o
}

func (g *Guess) growToVar(u z.Var) {
	if int(u) < len(g.pos) {
		return
	}
	n := int(u) + 1
	pos := make([]int, n)
	copy(pos, g.pos)
	for i := len(g.pos); i < n; i++ {
		pos[i] = -1
	}
	g.pos = pos
	heat := make([]float64, n)
	copy(heat, g.heat)
	g.heat = heat
	cache := make([]int8, n)
	copy(cache, g.cache)
	g.cache = cache
}

// Guess pops the highest-heat unassigned variable from the heap and
// returns its cached-polarity literal, or z.LitNull if every decision
// variable is assigned.
func (g *Guess) Guess(vals []int8) z.Lit {
	for len(g.vhp) > 0 {
		v := g.pop()
		if vals[v.Pos()] != 0 || !g.Vars.Decide[v] {
			continue
		}
		g.guesses++
		if g.cache[v] < 0 {
			return v.Neg()
		}
		return v.Pos()
	}
	return z.LitNull
}

// Push returns variable v to the heap, e.g. after backtracking frees it.
// polarity records the phase it last held, for phase saving.
func (g *Guess) Push(v z.Var, polarity bool) {
	if polarity {
		g.cache[v] = 1
	} else {
		g.cache[v] = -1
	}
	if g.pos[v] < 0 {
		g.push(v)
	}
}

// Bump increases v's heat, rescaling every variable's heat if it would
// saturate. Returns whether a rescale occurred.
func (g *Guess) Bump(v z.Var) bool {
	g.heat[v] += g.bumpInc
	rescaled := false
	if g.heat[v] > gBumpLim {
		for i := range g.heat {
			g.heat[i] /= gBumpLim
		}
		g.bumpInc /= gBumpLim
		g.rescales++
		rescaled = true
	}
	if g.has(v) {
		g.fix(v)
	}
	return rescaled
}

// Decay raises the bump increment (equivalent to decaying every existing
// activity), following a VSIDS-style schedule tied to the restart cadence.
func (g *Guess) Decay() {
	g.decays++
	g.bumpInc /= g.decayMax
}

// nextRestart adjusts the decay ceiling based on how long the solver ran
// between restarts: frequent restarts push decayMax toward gDecayMaxMax
// (more exploitative), infrequent ones relax it back toward gDecayMin.
func (g *Guess) nextRestart(nxt int) {
	g.restartDecays = 0
	if nxt < 100 {
		g.decayMax = gDecayMaxMax
	} else {
		g.decayMax -= (g.decayMax - gDecayMin) * (1 - gDecayMaxDecay)
		if g.decayMax < gDecayMin {
			g.decayMax = gDecayMin
		}
	}
}

func (g *Guess) Heat(v z.Var) float64 {
	return g.heat[v]
}

func (g *Guess) has(v z.Var) bool {
	return int(v) < len(g.pos) && g.pos[v] >= 0
}

func (g *Guess) push(v z.Var) {
	g.growToVar(v)
	i := len(g.vhp)
	g.vhp = append(g.vhp, v)
	g.pos[v] = i
	g.up(i)
}

func (g *Guess) pop() z.Var {
	top := g.vhp[0]
	n := len(g.vhp) - 1
	g.vhp[0] = g.vhp[n]
	g.pos[g.vhp[0]] = 0
	g.vhp = g.vhp[:n]
	g.pos[top] = -1
	if n > 0 {
		g.down(0)
	}
	return top
}

func (g *Guess) fix(v z.Var) {
	i := g.pos[v]
	if i < 0 {
		return
	}
	g.up(i)
	g.down(i)
}

func (g *Guess) less(i, j int) bool {
	return g.heat[g.vhp[i]] > g.heat[g.vhp[j]]
}

func (g *Guess) swap(i, j int) {
	g.vhp[i], g.vhp[j] = g.vhp[j], g.vhp[i]
	g.pos[g.vhp[i]] = i
	g.pos[g.vhp[j]] = j
}

func (g *Guess) up(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !g.less(i, p) {
			break
		}
		g.swap(i, p)
		i = p
	}
}

func (g *Guess) down(i int) {
	n := len(g.vhp)
	for {
		l, r := 2*i+1, 2*i+2
		small := i
		if l < n && g.less(l, small) {
			small = l
		}
		if r < n && g.less(r, small) {
			small = r
		}
		if small == i {
			break
		}
		g.swap(i, small)
		i = small
	}
}
