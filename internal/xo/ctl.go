// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"sync"
	"time"
)

// Ctl gives asynchronous control over a Solve running in its own
// goroutine: stop, pause/unpause, timed tries, and stats snapshots. It
// implements the inter.Solve contract returned by GoSolve.
type Ctl struct {
	mu           sync.Mutex
	xo           *S
	cResult      chan int
	cStopOrPause chan bool
	stFunc       func(stats *Stats) *Stats
}

// NewCtl creates a new controller for s.
func NewCtl(s *S) *Ctl {
	return &Ctl{
		xo:           s,
		cResult:      make(chan int),
		cStopOrPause: make(chan bool),
		stFunc:       func(st *Stats) *Stats { return st },
	}
}

// Tick is called by the solver at its budget-check points. It returns
// false if the solver must stop; if the solve was paused, Tick blocks
// until unpause and returns true.
func (c *Ctl) Tick() bool {
	select {
	case end, ok := <-c.cStopOrPause:
		if end || !ok {
			return false
		}
		// paused, other end receives to unpause
		c.cStopOrPause <- true
	default:
	}
	return true
}

// Stop stops the current call to Solve and returns the solve result.
func (c *Ctl) Stop() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop()
}

func (c *Ctl) stop() int {
	select {
	case c.cStopOrPause <- true:
		return <-c.cResult
	case res := <-c.cResult:
		return res
	}
}

// Test reports whether a result is available, and the result if so
// (1 SAT, -1 UNSAT, 0 unknown).
func (c *Ctl) Test() (result int, done bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case res := <-c.cResult:
		return res, true
	default:
		return 0, false
	}
}

// Try waits up to d for a result, stopping the solve and returning 0 if
// none arrives in time.
func (c *Ctl) Try(d time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	alarm := time.After(d)
	select {
	case <-alarm:
		return c.stop()
	case res := <-c.cResult:
		return res
	}
}

// Wait blocks until the Solve finishes and returns the result.
func (c *Ctl) Wait() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return <-c.cResult
}

// Pause tries to pause the underlying Solve. If the solve finished first,
// it returns the result and false; otherwise (0, true). A successful
// Pause must be followed by Unpause.
func (c *Ctl) Pause() (res int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case res := <-c.cResult:
		return res, false
	case c.cStopOrPause <- false:
		c.xo.rmu.Unlock()
		return 0, true
	}
}

// Unpause resumes a paused solve.
func (c *Ctl) Unpause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.xo.rmu.Lock()
	<-c.cStopOrPause
}

// StatsResult pairs a stats snapshot with a solve result.
type StatsResult struct {
	Result int
	Stats  *Stats
}

// TryStats runs for at most timeout, emitting a stats snapshot every
// stFreq, and closes the channel when the solve ends or times out.
func (c *Ctl) TryStats(timeout, stFreq time.Duration) <-chan StatsResult {
	rc := make(chan StatsResult)
	st := NewStats()
	tst := NewStats()
	go func() {
		ticker := time.NewTicker(stFreq)
		defer ticker.Stop()
		alarm := time.After(timeout)
		for {
			select {
			case <-alarm:
				close(rc)
				return
			case res := <-c.cResult:
				c.stFunc(tst)
				st.Accumulate(tst)
				st2 := *st
				rc <- StatsResult{Result: res, Stats: &st2}
				close(rc)
				return
			case <-ticker.C:
				res, ok := c.Pause()
				c.stFunc(tst)
				st.Accumulate(tst)
				st2 := *st
				tst = NewStats()
				rc <- StatsResult{Result: res, Stats: &st2}
				if !ok {
					close(rc)
					return
				}
				c.Unpause()
			}
		}
	}()
	return rc
}
