// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package simp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xhochy/cryptominisat/z"
)

func TestSubsumeDuplicateBinary(t *testing.T) {
	s, sp := newTest([][]int{{1, 2}, {1, 2}, {3, 4, 5}})
	require.Equal(t, int64(2), s.Cdb.St.IrredBins)
	require.True(t, sp.subsumePass())
	require.Equal(t, int64(1), s.Cdb.St.IrredBins)
	require.Empty(t, s.Cdb.CheckCounts())
}

func TestSubsumeLearntDuplicateDemotes(t *testing.T) {
	s, sp := newTest([][]int{{1, 2}})
	s.Cdb.Learn([]z.Lit{z.Dimacs2Lit(1), z.Dimacs2Lit(2)}, 2)
	require.Equal(t, int64(1), s.Cdb.St.IrredBins)
	require.Equal(t, int64(1), s.Cdb.St.RedBins)
	require.True(t, sp.subsumePass())
	// the learnt copy goes, the irredundant one stays
	require.Equal(t, int64(1), s.Cdb.St.IrredBins)
	require.Equal(t, int64(0), s.Cdb.St.RedBins)
	require.Empty(t, s.Cdb.CheckCounts())
}

func TestSubsumeTernaryByBinary(t *testing.T) {
	s, sp := newTest([][]int{{1, 2}, {1, 2, 3}})
	require.True(t, sp.subsumePass())
	require.Equal(t, int64(0), s.Cdb.St.IrredTris)
	require.Equal(t, int64(1), s.Cdb.St.IrredBins)
	require.Empty(t, s.Cdb.CheckCounts())
}

func TestSubsumeDuplicateTernary(t *testing.T) {
	s, sp := newTest([][]int{{1, 2, 3}, {2, 3, 1}, {4, 5, 6}})
	require.Equal(t, int64(3), s.Cdb.St.IrredTris)
	require.True(t, sp.subsumePass())
	require.Equal(t, int64(2), s.Cdb.St.IrredTris)
	require.Empty(t, s.Cdb.CheckCounts())
}

func TestStrengthenUnit(t *testing.T) {
	// (1 2) and (1 -2) force 1
	s, sp := newTest([][]int{{1, 2}, {1, -2}, {5, 6, 7}})
	require.True(t, sp.subsumePass())
	require.Equal(t, int8(1), s.Vars.Sign(z.Dimacs2Lit(1)))
}

func TestStrengthenTernaryToBinary(t *testing.T) {
	// (1 2 3) with (1 -2) strengthens to (1 3)
	s, sp := newTest([][]int{{1, 2, 3}, {1, -2}})
	require.True(t, sp.subsumePass())
	require.Equal(t, int64(0), s.Cdb.St.IrredTris)
	found := false
	for _, w := range s.Vars.Watches[z.Dimacs2Lit(1)] {
		if w.IsBinary() && w.Other() == z.Dimacs2Lit(3) {
			found = true
		}
	}
	require.True(t, found, "strengthened binary (1 3) missing")
	require.NotZero(t, s.Cdb.St.Strengthened)
	require.Empty(t, s.Cdb.CheckCounts())
	require.Equal(t, 1, s.Solve())
}

func TestSubsumeIdempotent(t *testing.T) {
	s, sp := newTest([][]int{{1, 2}, {1, 2}, {1, 2, 3}, {4, 5}, {4, 5, 6}, {-4, 7}})
	require.True(t, sp.subsumePass())
	bins, tris := s.Cdb.St.IrredBins, s.Cdb.St.IrredTris
	require.True(t, sp.subsumePass())
	require.Equal(t, bins, s.Cdb.St.IrredBins)
	require.Equal(t, tris, s.Cdb.St.IrredTris)
}
