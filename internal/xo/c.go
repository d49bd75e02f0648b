// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package xo

import "github.com/xhochy/cryptominisat/z"

const (
	// CNull is the null clause reference, never a valid arena offset.
	CNull z.C = 0
	// CInf marks "no occurrence" in per-variable occurrence lists.
	CInf z.C = 0xffffffff
)
