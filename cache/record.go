// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cache

// Record is one cached page. Records are created by the owning storage engine
// and owned by at most one cache at a time. Implementations embed RecordBase,
// which provides the position and the link storage used by the cache.
type Record interface {
	// Pos returns the non-negative page position identifying this record.
	// Positions are unique within a cache.
	Pos() int32

	// GetMemory returns the estimated record size, in 4-byte words.
	GetMemory() int

	// IsChanged reports whether the record carries unwritten changes.
	IsChanged() bool

	// CanRemove reports whether the record may be evicted right now, i.e. it
	// is not pinned by an ongoing operation.
	CanRemove() bool

	// BeenRead reports the reference bit observed by the Clock policy. The
	// bit is managed by the owning engine; the cache never modifies it.
	BeenRead() bool

	base() *RecordBase
}

// RecordBase provides the identity and link storage every cache record needs.
// The link fields belong to the cache holding the record and must not be
// touched by the engine.
type RecordBase struct {
	pos     int32
	next    Record // successor in the replacement list
	prev    Record // predecessor in the replacement list
	chained Record // successor in the bucket chain
}

// Pos returns the page position of this record.
func (r *RecordBase) Pos() int32 {
	return r.pos
}

// SetPos assigns the page position. It must only be called while the record
// is not held by a cache.
func (r *RecordBase) SetPos(pos int32) {
	r.pos = pos
}

// BeenRead reports the Clock reference bit. Records that do not track reads
// always count as read; engines using the Clock policy shadow this method.
func (r *RecordBase) BeenRead() bool {
	return true
}

func (r *RecordBase) base() *RecordBase {
	return r
}

// recordHead is the sentinel of the circular replacement list. It is never
// evicted, reordered or counted.
type recordHead struct {
	RecordBase
}

func (h *recordHead) GetMemory() int  { return 0 }
func (h *recordHead) IsChanged() bool { return false }
func (h *recordHead) CanRemove() bool { return false }
