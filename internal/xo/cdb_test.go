// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xhochy/cryptominisat/z"
)

var cnfDat = [...][]z.Lit{
	{z.Lit(32), z.Lit(11), z.Lit(77), z.Lit(80)},
	{z.Lit(55), z.Lit(861), z.Lit(862), z.Lit(2)},
	{z.Lit(118), z.Lit(121)},
	{z.Lit(32), z.Lit(12), z.Lit(76)}}

func addAll(cdb *Cdb, c []z.Lit) (z.C, z.Lit) {
	for _, m := range c {
		cdb.growToVar(m.Var())
		cdb.Add(m)
	}
	return cdb.Add(z.LitNull)
}

func TestCdbAdd(t *testing.T) {
	vars := NewVars(512)
	cdb := NewCdb(vars, 512)
	for _, c := range cnfDat {
		addAll(cdb, c)
	}
	require.Equal(t, int64(1), cdb.St.IrredBins)
	require.Equal(t, int64(1), cdb.St.IrredTris)
	require.Equal(t, int64(2), cdb.St.IrredLong)
	require.Equal(t, int64(2+3+4+4), cdb.St.IrredLits)
	require.Empty(t, cdb.CheckWatches())
	require.Empty(t, cdb.CheckCounts())
}

func TestCdbAddUnit(t *testing.T) {
	vars := NewVars(16)
	cdb := NewCdb(vars, 16)
	_, u := addAll(cdb, []z.Lit{z.Lit(8)})
	require.Equal(t, z.Lit(8), u)
}

func TestCdbAddTautology(t *testing.T) {
	vars := NewVars(16)
	cdb := NewCdb(vars, 16)
	addAll(cdb, []z.Lit{z.Lit(8), z.Lit(9), z.Lit(10)})
	require.Equal(t, int64(0), cdb.St.IrredBins+cdb.St.IrredTris+cdb.St.IrredLong)
	require.False(t, cdb.Bot)
}

func TestCdbAddEmpty(t *testing.T) {
	vars := NewVars(16)
	cdb := NewCdb(vars, 16)
	cdb.Add(z.LitNull)
	require.True(t, cdb.Bot)
}

func TestCdbLearn(t *testing.T) {
	vars := NewVars(512)
	cdb := NewCdb(vars, 512)
	for _, c := range cnfDat {
		for _, m := range c {
			cdb.growToVar(m.Var())
		}
	}
	loc := cdb.Learn([]z.Lit{z.Lit(10), z.Lit(12), z.Lit(14), z.Lit(16)}, 3)
	require.NotEqual(t, CNull, loc)
	require.Equal(t, uint32(3), cdb.CDat.Chd(loc).Lbd())
	require.True(t, cdb.CDat.Chd(loc).Learnt())
	require.NotNil(t, cdb.Meta[loc])

	cdb.Learn([]z.Lit{z.Lit(10), z.Lit(12)}, 2)
	require.Equal(t, int64(1), cdb.St.RedBins)
	cdb.Learn([]z.Lit{z.Lit(10), z.Lit(12), z.Lit(18)}, 2)
	require.Equal(t, int64(1), cdb.St.RedTris)
	require.Empty(t, cdb.CheckCounts())
}

func TestCdbRemove(t *testing.T) {
	vars := NewVars(512)
	cdb := NewCdb(vars, 512)
	var locs []z.C
	for _, c := range cnfDat {
		loc, _ := addAll(cdb, c)
		if loc != CNull {
			locs = append(locs, loc)
		}
	}
	require.Len(t, locs, 2)
	cdb.Remove(locs[0])
	cdb.Added = cdb.Added[1:]
	require.Equal(t, int64(1), cdb.St.IrredLong)
	require.Empty(t, cdb.CheckWatches())
	require.Empty(t, cdb.CheckCounts())

	cdb.RemoveBin(z.Lit(118), z.Lit(121), false)
	require.Equal(t, int64(0), cdb.St.IrredBins)
	cdb.RemoveTri(z.Lit(32), z.Lit(12), z.Lit(76), false)
	require.Equal(t, int64(0), cdb.St.IrredTris)
	require.Empty(t, cdb.CheckCounts())
}

func TestCdbSortWatched(t *testing.T) {
	vars := NewVars(64)
	cdb := NewCdb(vars, 64)
	addAll(cdb, []z.Lit{z.Lit(2), z.Lit(40), z.Lit(42), z.Lit(44)})
	addAll(cdb, []z.Lit{z.Lit(2), z.Lit(30), z.Lit(32)})
	addAll(cdb, []z.Lit{z.Lit(2), z.Lit(20)})
	addAll(cdb, []z.Lit{z.Lit(2), z.Lit(10)})
	cdb.SortWatched(z.Lit(2))
	ws := vars.Watches[z.Lit(2)]
	require.Len(t, ws, 4)
	require.True(t, ws[0].IsBinary())
	require.Equal(t, z.Lit(10), ws[0].Other())
	require.True(t, ws[1].IsBinary())
	require.Equal(t, z.Lit(20), ws[1].Other())
	require.True(t, ws[2].IsTernary())
	require.False(t, ws[3].IsImplicit())
}

func TestCdbWrite(t *testing.T) {
	vars := NewVars(512)
	cdb := NewCdb(vars, 512)
	for _, c := range cnfDat {
		addAll(cdb, c)
	}
	buf := bytes.NewBuffer(nil)
	require.NoError(t, cdb.Write(buf))
	require.NotEmpty(t, buf.String())
}

func TestCdbConsolidateForcesCompaction(t *testing.T) {
	vars := NewVars(64)
	cdb := NewCdb(vars, 64)
	var locs []z.C
	for i := 0; i < 16; i++ {
		v := z.Var(i*4 + 1)
		loc, _ := addAll(cdb, []z.Lit{v.Pos(), (v + 1).Pos(), (v + 2).Pos(), (v + 3).Pos()})
		locs = append(locs, loc)
	}
	// one removed clause is far below the waste threshold
	cdb.Remove(locs[0])
	cdb.Added = cdb.Added[1:]
	freedC, freedL := cdb.MaybeCompact()
	require.Zero(t, freedC)
	require.Zero(t, freedL)
	freedC, freedL = cdb.Consolidate()
	require.Equal(t, 1, freedC)
	require.Equal(t, 4, freedL)
	require.Empty(t, cdb.CheckWatches())
	require.Empty(t, cdb.CheckCounts())
}

func TestCdbWasteRatio(t *testing.T) {
	vars := NewVars(64)
	cdb := NewCdb(vars, 64)
	cdb.SetWasteRatio(0.05)
	var locs []z.C
	for i := 0; i < 16; i++ {
		v := z.Var(i*4 + 1)
		loc, _ := addAll(cdb, []z.Lit{v.Pos(), (v + 1).Pos(), (v + 2).Pos(), (v + 3).Pos()})
		locs = append(locs, loc)
	}
	// 1/16 removed exceeds the lowered threshold
	cdb.Remove(locs[0])
	cdb.Added = cdb.Added[1:]
	freedC, _ := cdb.MaybeCompact()
	require.Equal(t, 1, freedC)
	require.Empty(t, cdb.CheckWatches())
}

func TestCdbCompactRelocates(t *testing.T) {
	vars := NewVars(64)
	cdb := NewCdb(vars, 64)
	var locs []z.C
	for i := 0; i < 16; i++ {
		v := z.Var(i*4 + 1)
		loc, _ := addAll(cdb, []z.Lit{v.Pos(), (v + 1).Pos(), (v + 2).Pos(), (v + 3).Pos()})
		locs = append(locs, loc)
	}
	rm := locs[:12]
	cdb.Remove(rm...)
	cdb.Added = cdb.Added[12:]
	freedC, _ := cdb.MaybeCompact()
	require.Equal(t, 12, freedC)
	require.Empty(t, cdb.CheckWatches())
	require.Empty(t, cdb.CheckCounts())
}
