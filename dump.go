// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package cryptominisat

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/xhochy/cryptominisat/z"
)

// DumpIrredClauses writes the simplified formula in DIMACS body form, in
// outer numbering: level-0 unit assignments, one binary clause pair per
// known literal equivalence, the attached binary/ternary/long
// irredundant clauses, and a trailing comment block listing the
// variables eliminated by resolution together with their blocked-clause
// sets, so a consumer can extend a model of the dump to the original
// formula.
func (g *Solver) DumpIrredClauses(w io.Writer) error {
	bw := bufio.NewWriter(w)
	s := g.xo

	// level-0 units
	for i := 0; i < s.Trail.Tail && (s.Trail.Level == 0 || i < s.Trail.LevelStart(1)); i++ {
		m := s.Trail.D[i]
		if s.Vars.Levels[m.Var()] != 0 {
			continue
		}
		if _, err := io.WriteString(bw, litStr(g.dv.ToOuter(m))+" 0\n"); err != nil {
			return errors.Wrap(err, "dumping units")
		}
	}

	// equivalences as binary clause pairs
	for _, pr := range g.simp.Replaced() {
		a := g.dv.ToOuter(pr[0])
		r := g.dv.ToOuter(pr[1])
		if _, err := io.WriteString(bw, litStr(a)+" "+litStr(r.Not())+" 0\n"); err != nil {
			return errors.Wrap(err, "dumping equivalences")
		}
		if _, err := io.WriteString(bw, litStr(a.Not())+" "+litStr(r)+" 0\n"); err != nil {
			return errors.Wrap(err, "dumping equivalences")
		}
	}

	if err := g.dumpImplicit(bw, false, 0); err != nil {
		return err
	}
	for _, loc := range s.Cdb.Added {
		if err := g.dumpLong(bw, loc); err != nil {
			return err
		}
	}

	// eliminated variables and their blocked clauses
	elim := g.simp.ElimOrder()
	if len(elim) > 0 {
		if _, err := io.WriteString(bw, "c eliminated by resolution:\n"); err != nil {
			return errors.Wrap(err, "dumping eliminated")
		}
		for _, v := range elim {
			ov := g.dv.ToOuter(v.Pos()).Var()
			if _, err := io.WriteString(bw, "c elim "+ov.Pos().String()+"\n"); err != nil {
				return errors.Wrap(err, "dumping eliminated")
			}
			for _, bc := range g.simp.Blocked(v) {
				line := "c"
				for _, m := range bc.Lits {
					line += " " + litStr(g.dv.ToOuter(m))
				}
				if _, err := io.WriteString(bw, line+" 0\n"); err != nil {
					return errors.Wrap(err, "dumping blocked clauses")
				}
			}
		}
	}
	return errors.Wrap(bw.Flush(), "flushing dump")
}

// DumpLearnts writes the learnt clauses of size at most maxSize in
// DIMACS body form, outer numbering. maxSize <= 0 means no bound.
func (g *Solver) DumpLearnts(w io.Writer, maxSize int) error {
	bw := bufio.NewWriter(w)
	if err := g.dumpImplicit(bw, true, maxSize); err != nil {
		return err
	}
	for _, loc := range g.xo.Cdb.Learnts {
		if maxSize > 0 && g.xo.Cdb.Size(loc) > maxSize {
			continue
		}
		if err := g.dumpLong(bw, loc); err != nil {
			return err
		}
	}
	return errors.Wrap(bw.Flush(), "flushing learnt dump")
}

// DumpBinClauses writes every attached binary clause, irredundant and
// learnt, in DIMACS body form.
func (g *Solver) DumpBinClauses(w io.Writer) error {
	bw := bufio.NewWriter(w)
	s := g.xo
	for lit := z.Lit(2); int(lit) < len(s.Vars.Watches); lit++ {
		for _, wt := range s.Vars.Watches[lit] {
			if !wt.IsBinary() || lit > wt.Other() {
				continue
			}
			a, b := g.dv.ToOuter(lit), g.dv.ToOuter(wt.Other())
			if _, err := io.WriteString(bw, litStr(a)+" "+litStr(b)+" 0\n"); err != nil {
				return errors.Wrap(err, "dumping binaries")
			}
		}
	}
	return errors.Wrap(bw.Flush(), "flushing binary dump")
}

// dumpImplicit writes the binary and ternary clauses of the given
// learntness, each once.
func (g *Solver) dumpImplicit(bw *bufio.Writer, learnt bool, maxSize int) error {
	s := g.xo
	for lit := z.Lit(2); int(lit) < len(s.Vars.Watches); lit++ {
		for _, wt := range s.Vars.Watches[lit] {
			switch {
			case wt.IsBinary() && wt.Learnt() == learnt && lit < wt.Other():
				if maxSize > 0 && maxSize < 2 {
					continue
				}
				a, b := g.dv.ToOuter(lit), g.dv.ToOuter(wt.Other())
				if _, err := io.WriteString(bw, litStr(a)+" "+litStr(b)+" 0\n"); err != nil {
					return errors.Wrap(err, "dumping implicit clauses")
				}
			case wt.IsTernary() && wt.Learnt() == learnt && lit < wt.Other() && lit < wt.Other2():
				if maxSize > 0 && maxSize < 3 {
					continue
				}
				a := g.dv.ToOuter(lit)
				b := g.dv.ToOuter(wt.Other())
				c := g.dv.ToOuter(wt.Other2())
				if _, err := io.WriteString(bw, litStr(a)+" "+litStr(b)+" "+litStr(c)+" 0\n"); err != nil {
					return errors.Wrap(err, "dumping implicit clauses")
				}
			}
		}
	}
	return nil
}

func (g *Solver) dumpLong(bw *bufio.Writer, loc z.C) error {
	line := ""
	for _, m := range g.xo.Cdb.CDat.Load(loc, nil) {
		line += litStr(g.dv.ToOuter(m)) + " "
	}
	if _, err := io.WriteString(bw, line+"0\n"); err != nil {
		return errors.Wrap(err, "dumping long clause")
	}
	return nil
}

func litStr(m z.Lit) string {
	return m.String()
}
