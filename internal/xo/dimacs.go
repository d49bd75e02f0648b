// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"io"

	"github.com/pkg/errors"

	"github.com/xhochy/cryptominisat/dimacs"
	"github.com/xhochy/cryptominisat/z"
)

// NewSDimacs creates a solver core from dimacs cnf input.
func NewSDimacs(r io.Reader) (*S, error) {
	vis := &DimacsVis{}
	if err := dimacs.ReadCnf(r, vis); err != nil {
		return nil, errors.Wrap(err, "reading dimacs")
	}
	return vis.S(), nil
}

// DimacsVis implements dimacs.CnfVis for constructing solvers from dimacs
// cnf input.
type DimacsVis struct {
	s *S
}

func (d *DimacsVis) Init(v, c int) {
	d.s = NewSVc(v, c)
}

func (d *DimacsVis) Add(m z.Lit) {
	d.s.Add(m)
}

// S returns the constructed solver.
func (d *DimacsVis) S() *S {
	if d.s == nil {
		d.s = NewS()
	}
	return d.s
}

func (d *DimacsVis) Eof() {
}
