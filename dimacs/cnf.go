// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package dimacs reads DIMACS CNF and icnf formatted problems.
package dimacs

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/xhochy/cryptominisat/z"
)

type cnfReader struct {
	rdr     *bufio.Reader
	vis     CnfVis
	vMax    int
	nCls    int
	hdrVars int
	hdrCls  int
	strict  bool
}

func newCnfReader(r io.Reader, vis CnfVis) *cnfReader {
	cfiltRdr := NewCommentFilter(r)
	return &cnfReader{
		rdr:     bufio.NewReader(cfiltRdr),
		vis:     vis,
		hdrVars: -1,
		hdrCls:  -1}
}

// ReadCnf reads a dimacs CNF, outputting the problem to vis.
func ReadCnf(r io.Reader, vis CnfVis) error {
	return ReadCnfStrict(r, vis, false)
}

// ReadCnfStrict reads a dimacs CNF; when strict is set, the header must be
// present and its variable/clause counts accurate.
func ReadCnfStrict(r io.Reader, vis CnfVis, strict bool) error {
	cnfRdr := newCnfReader(r, vis)
	cnfRdr.strict = strict
	return cnfRdr.Read()
}

// Read parses a dimacs formatted cnf problem.
func (r *cnfReader) Read() error {
	e := r.readHeader()
	if e != nil {
		if r.strict || e != io.EOF {
			return errors.Wrap(e, "reading cnf header")
		}
	}
	if r.strict {
		if r.hdrVars == -1 || r.hdrCls == -1 {
			return errors.New("no header specified")
		}
	}
	e = r.readBody()
	if e != nil && e != io.EOF {
		return errors.Wrap(e, "reading cnf body")
	}
	if r.strict {
		if r.hdrVars != r.vMax || r.hdrCls != r.nCls {
			return errors.Errorf("wrong number of vars/clauses in header %d:%d != %d:%d",
				r.hdrVars, r.hdrCls, r.vMax, r.nCls)
		}
	}
	r.vis.Eof()
	return nil
}

func (r *cnfReader) readHeader() error {
	b, e := r.rdr.ReadByte()
	if e != nil {
		return e
	}
	if b == byte('p') {
		if e := r.rdr.UnreadByte(); e != nil {
			return e
		}
		return r.readP()
	}
	return r.rdr.UnreadByte()
}

func (r *cnfReader) readBody() error {
	vCap := r.hdrVars
	if vCap == -1 {
		vCap = 8192
	}
	cCap := r.hdrCls
	if cCap == -1 {
		cCap = vCap * 5
	}
	r.vis.Init(vCap, cCap)
	vis := r.vis
	for {
		v, e := readInt(r.rdr)
		if e == io.EOF {
			return nil
		}
		if e != nil {
			return e
		}
		if v == 0 {
			vis.Add(z.LitNull)
			r.nCls++
			continue
		}
		if v < 0 {
			if -v > r.vMax {
				r.vMax = -v
			}
		} else if r.vMax < v {
			r.vMax = v
		}
		vis.Add(z.Dimacs2Lit(v))
	}
}

// readP parses the problem statement 'p cnf <vars> <clauses>'.
func (r *cnfReader) readP() error {
	if r.hdrVars != -1 {
		return errors.New("more than one problem statement")
	}
	rdr := r.rdr
	for _, c := range []byte("p cnf ") {
		b, e := rdr.ReadByte()
		if e != nil {
			return e
		}
		if b != c {
			return errors.Errorf("problem statement: expected '%c' got '%c'", c, b)
		}
	}
	nv, e := readInt(rdr)
	if e != nil {
		return e
	}
	nc, e := readInt(rdr)
	if e != nil {
		return e
	}
	r.hdrVars = nv
	r.hdrCls = nc
	return nil
}
