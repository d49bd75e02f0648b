// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package z

import "fmt"

// C is an ephemeral reference to a clause stored in the arena: the offset
// of its first literal. C values are invalidated by compaction and must be
// relocated via the map returned from a compacting call. The sentinel
// values (null, infinity) live in package xo, which owns the arena.
type C uint32

func (p C) String() string {
	return fmt.Sprintf("c%d", uint32(p))
}
