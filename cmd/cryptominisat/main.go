// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Command cryptominisat solves DIMACS CNF problems, exiting 10 for SAT,
// 20 for UNSAT and 0 for unknown.
package main

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/xhochy/cryptominisat"
	"github.com/xhochy/cryptominisat/internal/config"
	"github.com/xhochy/cryptominisat/internal/portfolio"
	"github.com/xhochy/cryptominisat/z"
)

const (
	exitSat     = 10
	exitUnsat   = 20
	exitUnknown = 0
)

var (
	timeout   = pflag.Duration("timeout", 0, "solve timeout (0 = none)")
	model     = pflag.Bool("model", false, "output the model on SAT")
	stats     = pflag.Bool("stats", false, "print statistics after solving")
	verbosity = pflag.IntP("verbosity", "v", 0, "verbosity 0..4")
	threads   = pflag.IntP("threads", "t", 1, "number of portfolio instances")
	seed      = pflag.Int64("seed", 33, "random seed")

	doProbe    = pflag.Bool("probe", true, "failed-literal probing")
	doSimplify = pflag.Bool("simplify", true, "in-processing simplification")
	doVivif    = pflag.Bool("vivif", true, "clause vivification")
	doEqLits   = pflag.Bool("eqlits", true, "find and replace equivalent literals")
	doElim     = pflag.Bool("elim", true, "bounded variable elimination")
	doRenumber = pflag.Bool("renumber", true, "variable renumbering")

	cleanType  = pflag.String("clean", "glue", "learnt cleaning order: glue|size|propconfl")
	cleanRatio = pflag.Float64("clean-ratio", 0.5, "fraction of learnts removed per cleaning")
	paranoid   = pflag.Bool("paranoid", false, "run invariant verifiers after every search burst")

	dumpIrred  = pflag.String("dump-irred", "", "write simplified irredundant clauses to file")
	dumpLearnt = pflag.String("dump-learnt", "", "write learnt clauses to file")
	maxLearnt  = pflag.Int("dump-learnt-max", 0, "max learnt clause size to dump (0 = all)")

	assumeFlag = pflag.String("assume", "", "comma-separated assumption literals")
)

func path2Reader(p string) (io.Reader, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(p) {
	case ".gz":
		return gzip.NewReader(f)
	case ".bz2":
		return bzip2.NewReader(f), nil
	default:
		return f, nil
	}
}

func buildConfig() *cryptominisat.Config {
	cfg := cryptominisat.NewDefaultConfig()
	cfg.DoProbe = *doProbe
	cfg.DoSimplify = *doSimplify
	cfg.DoClauseVivif = *doVivif
	cfg.DoFindAndReplaceEqLits = *doEqLits
	cfg.DoSatElite = *doElim
	cfg.DoRenumberVars = *doRenumber
	cfg.ClauseCleaningType = config.ParseCleanType(*cleanType)
	cfg.RatioRemoveClauses = *cleanRatio
	cfg.OrigSeed = *seed
	cfg.Verbosity = *verbosity
	cfg.Paranoid = *paranoid
	if *verbosity > 0 {
		lg := logrus.New()
		lg.SetOutput(os.Stderr)
		if *verbosity >= 2 {
			lg.SetLevel(logrus.TraceLevel)
		} else {
			lg.SetLevel(logrus.InfoLevel)
		}
		cfg.Logger = lg
	}
	return cfg
}

func parseAssumes(s *cryptominisat.Solver, spec string) error {
	if spec == "" {
		return nil
	}
	for _, part := range strings.Split(spec, ",") {
		i, err := strconv.Atoi(part)
		if err != nil {
			return err
		}
		if i == 0 {
			return fmt.Errorf("zero assumption")
		}
		s.Assume(z.Dimacs2Lit(i))
	}
	return nil
}

func main() {
	pflag.Parse()
	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <cnf file>\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(1)
	}
	r, err := path2Reader(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening %s: %s\n", args[0], err)
		os.Exit(1)
	}
	cfg := buildConfig()
	s, err := cryptominisat.NewDimacsWith(r, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %s\n", args[0], err)
		os.Exit(1)
	}
	if err := parseAssumes(s, *assumeFlag); err != nil {
		fmt.Fprintf(os.Stderr, "bad assumptions: %s\n", err)
		os.Exit(1)
	}

	res, winner := solve(s)

	switch res {
	case 1:
		fmt.Println("s SATISFIABLE")
		if *model {
			printModel(winner)
		}
	case -1:
		fmt.Println("s UNSATISFIABLE")
	default:
		fmt.Println("s UNKNOWN")
	}
	dump(winner)
	if *stats {
		fmt.Print(winner.Stats())
	}
	switch res {
	case 1:
		os.Exit(exitSat)
	case -1:
		os.Exit(exitUnsat)
	default:
		os.Exit(exitUnknown)
	}
}

func solve(s *cryptominisat.Solver) (int, *cryptominisat.Solver) {
	if *timeout > 0 {
		go func() {
			time.Sleep(*timeout)
			s.SetNeedToInterrupt()
		}()
	}
	if *threads > 1 {
		p := portfolio.New(s, *threads)
		r := p.Solve()
		if r.Winner != nil {
			return r.Res, r.Winner
		}
		return r.Res, s
	}
	return s.Solve(), s
}

func printModel(s *cryptominisat.Solver) {
	line := "v"
	for v := z.Var(1); v <= s.MaxVar(); v++ {
		m := v.Pos()
		if !s.Value(m) {
			m = v.Neg()
		}
		line += " " + strconv.Itoa(m.Dimacs())
		if len(line) > 72 {
			fmt.Println(line)
			line = "v"
		}
	}
	fmt.Println(line + " 0")
}

func dump(s *cryptominisat.Solver) {
	if *dumpIrred != "" {
		if f, err := os.Create(*dumpIrred); err == nil {
			if err := s.DumpIrredClauses(f); err != nil {
				fmt.Fprintf(os.Stderr, "dump error: %s\n", err)
			}
			f.Close()
		}
	}
	if *dumpLearnt != "" {
		if f, err := os.Create(*dumpLearnt); err == nil {
			if err := s.DumpLearnts(f, *maxLearnt); err != nil {
				fmt.Fprintf(os.Stderr, "dump error: %s\n", err)
			}
			f.Close()
		}
	}
}
