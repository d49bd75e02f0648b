// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package inter

import "time"

// Solve represents a connection to a call to (S).Solve() running in its
// own goroutine, constructed by (S).GoSolve().
//
// This interface is NOT safe for usage in multiple goroutines and the
// following must be respected:
//
//  1. Once a result from the underlying Solve() is obtained, Solve
//     should no longer be used.
//  2. Every successful Pause() must be followed by Unpause() before
//     trying to obtain a result.
type Solve interface {
	// Stop stops the Solve() call and returns the result, 0 if the
	// answer is unknown.
	Stop() int

	// Try lets Solve() run for at most d and then returns the result.
	Try(d time.Duration) int

	// Test checks whether a result is ready, and if so returns it
	// together with true; otherwise (0, false).
	Test() (int, bool)

	// Pause tries to pause the Solve(), returning the result of solve
	// if any and whether the pause succeeded.
	Pause() (res int, ok bool)

	// Unpause unpauses the Solve(); call only after a successful Pause.
	Unpause()

	// Wait blocks until there is a result.
	Wait() int
}
