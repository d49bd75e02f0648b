// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package portfolio runs several independent solver instances in
// parallel with different seeds, sharing only a bounded queue of learnt
// clauses; the first instance to answer wins and the rest are
// interrupted.
package portfolio

import (
	"github.com/xhochy/cryptominisat/z"
)

// Exchange is a bounded multi-producer/multi-consumer queue of learnt
// clauses. Ownership of a clause slice transfers with the message: a
// producer never touches a slice after a successful Offer, a consumer
// owns what Poll returns.
type Exchange struct {
	ch chan []z.Lit
}

// NewExchange creates a queue holding at most bound clauses.
func NewExchange(bound int) *Exchange {
	if bound < 1 {
		bound = 1
	}
	return &Exchange{ch: make(chan []z.Lit, bound)}
}

// Offer enqueues ms without blocking; a full queue drops the clause.
func (e *Exchange) Offer(ms []z.Lit) {
	select {
	case e.ch <- ms:
	default:
	}
}

// Poll dequeues one clause, or returns nil when the queue is empty.
func (e *Exchange) Poll() []z.Lit {
	select {
	case ms := <-e.ch:
		return ms
	default:
		return nil
	}
}

// Len reports the number of queued clauses.
func (e *Exchange) Len() int {
	return len(e.ch)
}
