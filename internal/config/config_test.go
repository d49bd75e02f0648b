// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := NewDefault()
	require.True(t, c.DoProbe)
	require.True(t, c.DoSimplify)
	require.Equal(t, CleanGlue, c.ClauseCleaningType)
	require.Equal(t, 0.5, c.RatioRemoveClauses)
	require.Equal(t, int64(500000), c.ProbeBudgetProps)
	require.Equal(t, int64(33), c.OrigSeed)
	require.Equal(t, 0.25, c.ConsolidateWasteRatio)
	require.False(t, c.Paranoid)
}

func TestParseCleanType(t *testing.T) {
	require.Equal(t, CleanSize, ParseCleanType("size"))
	require.Equal(t, CleanPropConfl, ParseCleanType("propconfl"))
	require.Equal(t, CleanGlue, ParseCleanType("glue"))
	require.Equal(t, CleanGlue, ParseCleanType("bogus"))
}

func TestLogfNilSafe(t *testing.T) {
	var c *Config
	c.Logf(1, "nothing happens")
	c2 := NewDefault()
	c2.Logf(1, "still nothing, nil logger")
}

func TestCopyIsolation(t *testing.T) {
	a := NewDefault()
	b := a.Copy()
	b.OrigSeed = 99
	require.Equal(t, int64(33), a.OrigSeed)
}
