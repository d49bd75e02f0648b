// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"math/rand"
	"testing"
	"time"

	"github.com/xhochy/cryptominisat/gen"
)

func TestSolveTest(t *testing.T) {
	s := NewS()
	gen.HardRand3Cnf(s, 1024)
	c := s.GoSolve()
	for i := 0; i < 10; i++ {
		_, ok := c.Test()
		if ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	c.Stop()
}

func TestSolveStatsTest(t *testing.T) {
	s := NewS()
	gen.HardRand3Cnf(s, 350)
	c := s.GoSolve()
	src := c.TryStats(500*time.Millisecond, 50*time.Millisecond)
	for sr := range src {
		if sr.Stats == nil {
			t.Errorf("nil stats snapshot")
		}
	}
}

func TestSolveTryHard(t *testing.T) {
	s := NewS()
	gen.HardRand3Cnf(s, 2048)
	c := s.GoSolve()
	r := c.Try(10 * time.Millisecond)
	if r != 0 {
		t.Logf("solved hard problem quickly: %d", r)
	}
}

func TestSolveTryEasy(t *testing.T) {
	s := NewS()
	gen.BinCycle(s, 4096)
	c := s.GoSolve()
	r := c.Try(10 * time.Second)
	if r != 1 {
		t.Errorf("couldn't solve easy problem: %d", r)
	}
}

func TestSolvePauseUnpause(t *testing.T) {
	s := NewS()
	gen.HardRand3Cnf(s, 1024)
	c := s.GoSolve()
	for i := 0; i < 10; i++ {
		if res, ok := c.Pause(); !ok {
			t.Logf("solve ended early: %d", res)
			return
		}
		d := time.Duration(rand.Intn(20)+1) * time.Millisecond
		<-time.After(d)
		c.Unpause()
	}
	c.Stop()
}

func TestInterrupt(t *testing.T) {
	s := NewS()
	gen.HardRand3Cnf(s, 4096)
	done := make(chan int, 1)
	go func() {
		done <- s.Solve()
	}()
	time.Sleep(20 * time.Millisecond)
	s.SetNeedToInterrupt()
	select {
	case r := <-done:
		if r != 0 {
			t.Logf("finished before interrupt: %d", r)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("interrupt did not stop the solver")
	}
	if !s.Interrupted() {
		t.Errorf("interrupt flag not sticky")
	}
	s.ClearInterrupt()
}
