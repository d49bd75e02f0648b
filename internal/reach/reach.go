// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package reach caches reachability over the binary implication graph.
// Probing consults it to skip hyper-binary shortcuts that the existing
// binary clauses already imply.
package reach

import (
	"github.com/xhochy/cryptominisat/internal/xo"
	"github.com/xhochy/cryptominisat/z"
)

// maxFrontier bounds the depth-first search work per query so a dense graph cannot make
// a single lookup quadratic.
const maxFrontier = 4096

// Cache memoizes per-literal closures of the binary implication graph.
// Entries are invalidated wholesale when the graph changes shape
// (renumbering, replacement).
type Cache struct {
	closure map[z.Lit]map[z.Lit]bool
}

// NewCache creates an empty cache sized for nVars variables.
func NewCache(nVars int) *Cache {
	return &Cache{
		closure: make(map[z.Lit]map[z.Lit]bool, nVars),
	}
}

// Invalidate drops every cached closure.
func (c *Cache) Invalidate() {
	c.closure = make(map[z.Lit]map[z.Lit]bool)
}

// Implies reports whether assigning a true forces b true through binary
// clauses alone.
func (c *Cache) Implies(s *xo.S, a, b z.Lit) bool {
	cl, ok := c.closure[a]
	if !ok {
		cl = c.compute(s, a)
		c.closure[a] = cl
	}
	return cl[b]
}

func (c *Cache) compute(s *xo.S, a z.Lit) map[z.Lit]bool {
	cl := make(map[z.Lit]bool)
	frontier := []z.Lit{a}
	for len(frontier) > 0 && len(cl) < maxFrontier {
		m := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, w := range s.Vars.Watches[m.Not()] {
			if !w.IsBinary() {
				continue
			}
			n := w.Other()
			if n == a || cl[n] {
				continue
			}
			cl[n] = true
			frontier = append(frontier, n)
		}
	}
	return cl
}
