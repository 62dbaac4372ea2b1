// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package lirs

// Config carries the parameters of a segmented cache.
type Config struct {
	// MaxMemory is the maximum memory to use, in caller-chosen units
	// (1 or larger). Bytes are the suggested unit.
	MaxMemory int64

	// SegmentCount is the number of cache segments (must be a power of 2).
	SegmentCount int

	// StackMoveDistance is how many other entries have to be moved to the top
	// of the stack before an accessed hot entry is moved again. It batches
	// list writes on frequently accessed entries.
	StackMoveDistance int

	// NonResidentQueueSize is the low watermark for the number of entries in
	// the non-resident queue, as a factor of the resident entry count.
	NonResidentQueueSize int

	// NonResidentQueueSizeHigh is the high watermark for the number of
	// entries in the non-resident queue, as a factor of the resident entry
	// count.
	NonResidentQueueSizeHigh int
}

// DefaultConfig returns the default cache parameters, except for the memory
// limit, which callers have to raise to their budget.
func DefaultConfig() Config {
	return Config{
		MaxMemory:                1,
		SegmentCount:             16,
		StackMoveDistance:        32,
		NonResidentQueueSize:     3,
		NonResidentQueueSizeHigh: 12,
	}
}
