// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package cryptominisat

import (
	"github.com/xhochy/cryptominisat/inter"
	"github.com/xhochy/cryptominisat/z"
)

// svWrap adapts a Solver to inter.Sv, exposing inner-variable
// allocation for callers that compile constraints through hidden
// variables.
type svWrap struct {
	S *Solver
	V *z.Vars
}

// NewSv creates an inter.Sv implementation.
func NewSv() inter.Sv {
	s := New()
	return &svWrap{S: s, V: z.NewVars()}
}

func (w *svWrap) Inner() z.Lit {
	return w.V.Inner()
}

func (w *svWrap) FreeInner(m z.Lit) {
	w.V.Free(m)
}

func (w *svWrap) Assume(ms ...z.Lit) {
	w.S.Assume(w.V.ToInners(ms)...)
}

func (w *svWrap) Add(m z.Lit) {
	w.S.Add(w.V.ToInner(m))
}

func (w *svWrap) MaxVar() z.Var {
	return w.S.MaxVar()
}

func (w *svWrap) Lit() z.Lit {
	return w.S.Lit()
}

func (w *svWrap) Why(dst []z.Lit) []z.Lit {
	dst = w.S.Why(dst)
	return w.V.ToOuters(dst)
}

func (w *svWrap) Value(m z.Lit) bool {
	return w.S.Value(w.V.ToInner(m))
}

func (w *svWrap) Solve() int {
	return w.S.Solve()
}

func (w *svWrap) GoSolve() inter.Solve {
	return w.S.GoSolve()
}

func (w *svWrap) SCopy() inter.S {
	return &svWrap{
		S: w.S.Copy(),
		V: w.V.Copy(),
	}
}
