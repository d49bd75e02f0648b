// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package config holds the solver's tunable options and its logger.
package config

import (
	"github.com/sirupsen/logrus"
)

// CleanType selects the ordering used by learnt-clause reduction.
type CleanType int

const (
	// CleanGlue prefers smaller glue, tie-break smaller size.
	CleanGlue CleanType = iota
	// CleanSize prefers smaller size, tie-break smaller glue.
	CleanSize
	// CleanPropConfl prefers higher recent props+conflicts, tie-break
	// smaller size.
	CleanPropConfl
)

func (t CleanType) String() string {
	switch t {
	case CleanGlue:
		return "glue"
	case CleanSize:
		return "size"
	case CleanPropConfl:
		return "propconfl"
	default:
		return "unknown"
	}
}

// ParseCleanType maps the option strings accepted on the command line to a
// CleanType; unrecognized input falls back to glue.
func ParseCleanType(s string) CleanType {
	switch s {
	case "size":
		return CleanSize
	case "propconfl":
		return CleanPropConfl
	default:
		return CleanGlue
	}
}

// Config carries every tunable threshold and pass toggle, plus the logger.
// A zero Verbosity (or a nil Logger) means silent.
type Config struct {
	// per-pass toggles
	DoProbe                bool
	DoSimplify             bool
	DoClauseVivif          bool
	DoFindAndReplaceEqLits bool
	DoSatElite             bool // bounded variable elimination
	DoSortWatched          bool
	DoRenumberVars         bool
	DoStamp                bool
	DoCalcReach            bool
	DoSQL                  bool

	// learnt-clause reduction
	ClauseCleaningType              CleanType
	RatioRemoveClauses              float64
	PreClauseCleanPropAndConflLimit int64
	PreCleanMinConflTime            int64
	StartClean                      int64
	IncreaseClean                   float64
	NumCleanBetweenSimplify         int

	OrigSeed    int64
	VarIncStart float64
	Verbosity   int

	// propagation budget for one probing pass
	ProbeBudgetProps int64

	// arena-waste fraction (removed clauses or literals over total)
	// above which compaction runs automatically; Consolidate forces it
	// regardless
	ConsolidateWasteRatio float64

	// Paranoid runs the internal invariant verifiers at the end of
	// every search burst and simplification round
	Paranoid bool

	Logger *logrus.Logger
}

// NewDefault returns the default configuration.
func NewDefault() *Config {
	return &Config{
		DoProbe:                true,
		DoSimplify:             true,
		DoClauseVivif:          true,
		DoFindAndReplaceEqLits: true,
		DoSatElite:             true,
		DoSortWatched:          true,
		DoRenumberVars:         true,
		DoStamp:                true,
		DoCalcReach:            true,
		DoSQL:                  false,

		ClauseCleaningType:              CleanGlue,
		RatioRemoveClauses:              0.5,
		PreClauseCleanPropAndConflLimit: 2,
		PreCleanMinConflTime:            10000,
		StartClean:                      10000,
		IncreaseClean:                   1.1,
		NumCleanBetweenSimplify:         2,

		OrigSeed:    33,
		VarIncStart: 1.0,
		Verbosity:   0,

		ProbeBudgetProps: 500000,

		ConsolidateWasteRatio: 0.25,
		Paranoid:              false,
	}
}

// Copy returns a shallow copy (the Logger is shared).
func (c *Config) Copy() *Config {
	o := *c
	return &o
}

// Logf emits a log line when the configured verbosity is at least v.
// Verbosity 1 maps to Info, 2 to Debug, 3+ to Trace; 0 is silent.
func (c *Config) Logf(v int, format string, args ...interface{}) {
	if c == nil || c.Logger == nil || c.Verbosity < v {
		return
	}
	switch {
	case v <= 1:
		c.Logger.Infof(format, args...)
	case v == 2:
		c.Logger.Debugf(format, args...)
	default:
		c.Logger.Tracef(format, args...)
	}
}

// LogFields emits a structured log line with fields at verbosity v.
func (c *Config) LogFields(v int, msg string, fields logrus.Fields) {
	if c == nil || c.Logger == nil || c.Verbosity < v {
		return
	}
	e := c.Logger.WithFields(fields)
	switch {
	case v <= 1:
		e.Info(msg)
	case v == 2:
		e.Debug(msg)
	default:
		e.Trace(msg)
	}
}
