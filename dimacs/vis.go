// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dimacs

import "github.com/xhochy/cryptominisat/z"

// CnfVis is the visitor interface for reading DIMACS CNF input. Anything
// implementing CnfVis can be fed a cnf file.
type CnfVis interface {
	// Init is called with the header's variable and clause counts, or
	// with defaults if no header is present and strictness is off.
	Init(v, c int)

	// Add adds a literal; LitNull terminates a clause.
	Add(m z.Lit)

	// Eof is called at end of input.
	Eof()
}

// ICnfVis is the visitor interface for reading icnf (incremental CNF)
// input.
type ICnfVis interface {
	// Add adds a clause literal; LitNull terminates.
	Add(m z.Lit)

	// Assume is called in a 0-terminated sequence; the terminator
	// normally triggers a solve.
	Assume(m z.Lit)

	// Eof is called at end of input.
	Eof()
}

// SolveVis is a visitor for reading solver output.
type SolveVis interface {
	// Solution is called for a solution line: 1 sat, -1 unsat, 0 unknown.
	Solution(r int)

	// Value gives one model literal.
	Value(m z.Lit)

	// Eof is called at end of output.
	Eof()
}
