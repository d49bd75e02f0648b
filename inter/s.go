// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package inter holds the public solver interfaces.
package inter

import "github.com/xhochy/cryptominisat/z"

// Solvable encapsulates a decision procedure which may run for a long
// time.
//
// Solve returns
//
//	 1  if the problem is SAT
//	 0  if the problem is undetermined (budget exhausted or interrupted)
//	-1  if the problem is UNSAT
//
// These result codes are used throughout this module.
type Solvable interface {
	Solve() int
}

// GoSolvable encapsulates a handle on a Solve running in its own
// goroutine.
type GoSolvable interface {
	GoSolve() Solve
}

// Adder is something to which clauses can be added as sequences of
// z.LitNull-terminated literals.
//
// Add should not be used while another goroutine accesses the object.
type Adder interface {
	Add(m z.Lit)
}

// MaxVar records the maximum variable from a stream of inputs (Adds,
// Assumes) and returns the maximum of all such variables.
type MaxVar interface {
	MaxVar() z.Var
}

// Liter produces fresh variables and returns the corresponding positive
// literal.
type Liter interface {
	Lit() z.Lit
}

// Model is something from which a satisfying assignment can be
// extracted.
type Model interface {
	Value(m z.Lit) bool
}

// Assumable supports single-shot assumptions: literals assumed true for
// the next Solve call only, with Why yielding a subset of failed
// assumptions after an UNSAT answer.
type Assumable interface {
	Assume(m ...z.Lit)
	Why(dst []z.Lit) []z.Lit
}

// S is a complete solver interface: a Solvable, Assumable Adder with
// model extraction, background solving, and copying.
type S interface {
	MaxVar
	Liter
	Adder
	Solvable
	GoSolvable
	Model
	Assumable

	// SCopy copies everything in the S interface and nothing more.
	SCopy() S
}

// Sv is an S which uses inner variables hidden from the caller.
type Sv interface {
	S

	// Inner returns the positive literal of a new inner variable.
	Inner() z.Lit

	// FreeInner frees a variable previously allocated with Inner.
	FreeInner(m z.Lit)
}

// Simplifiable is implemented by solvers supporting in-processing simplification between
// search bursts.
type Simplifiable interface {
	// Simplify returns 1 if the result is SAT, -1 if UNSAT, and 0 if
	// unknown.
	Simplify() int
}
