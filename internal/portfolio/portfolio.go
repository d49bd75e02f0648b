// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package portfolio

import (
	"sync"

	"github.com/xhochy/cryptominisat"
)

// Portfolio drives N copies of a solver, each with its own seed,
// sharing a learnt-clause exchange. Instances share nothing else: each
// owns its arena, trail and watch index.
type Portfolio struct {
	solvers []*cryptominisat.Solver
	ex      *Exchange
}

// New builds a portfolio of n instances copied from base. Instance i
// gets seed base.seed + i.
func New(base *cryptominisat.Solver, n int) *Portfolio {
	if n < 1 {
		n = 1
	}
	p := &Portfolio{
		ex: NewExchange(4096),
	}
	for i := 0; i < n; i++ {
		s := base.Copy()
		// distinct seeds give distinct search trajectories; renumbering
		// stays off so exchanged clauses mean the same literals in
		// every instance
		s.Reseed(int64(i))
		s.DisableRenumbering()
		s.SetExchange(p.ex)
		p.solvers = append(p.solvers, s)
	}
	return p
}

// Result is the outcome of a race: Res is 1 SAT, -1 UNSAT or 0 unknown,
// and Winner is the instance whose answer was taken (nil when every
// instance returned unknown).
type Result struct {
	Res    int
	Winner *cryptominisat.Solver
}

// Solve runs every instance concurrently and returns the first
// definitive answer (1 SAT, -1 UNSAT); the remaining instances are
// asked to interrupt. The winning instance's model backs Value.
func (p *Portfolio) Solve() Result {
	type answer struct {
		res int
		s   *cryptominisat.Solver
	}
	ansc := make(chan answer, len(p.solvers))
	var wg sync.WaitGroup
	for _, s := range p.solvers {
		wg.Add(1)
		go func(s *cryptominisat.Solver) {
			defer wg.Done()
			r := s.Solve()
			ansc <- answer{r, s}
		}(s)
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var win answer
	for {
		select {
		case a := <-ansc:
			if a.res != 0 {
				win = a
				for _, s := range p.solvers {
					if s != a.s {
						s.SetNeedToInterrupt()
					}
				}
				<-done
				return Result{Res: win.res, Winner: win.s}
			}
		case <-done:
			// every instance has returned; a definitive answer may still
			// be buffered
			for {
				select {
				case a := <-ansc:
					if a.res != 0 {
						return Result{Res: a.res, Winner: a.s}
					}
				default:
					return Result{Res: 0}
				}
			}
		}
	}
}
