// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package cache provides the write-back page caches of the storage engine.
//
// A cache maps a 32-bit page position to a record and keeps the total record
// memory below a configurable watermark by evicting records in an order
// chosen by the replacement policy. Clean records are dropped immediately;
// dirty records are buffered, written back in position order through the
// injected Writer, and dropped afterwards. Caches are single-threaded; the
// owning engine serializes all calls.
package cache

//go:generate mockgen -source cache.go -destination cache_mocks.go -package cache

import (
	"fmt"
	"strings"

	"github.com/akwong189/h2database-csc468/common"
)

const (
	// TypeDefault is the cache type used when the engine does not configure one.
	TypeDefault = "LRU"

	// MemoryPointer is the estimated memory overhead of one bucket slot,
	// in 4-byte words.
	MemoryPointer = 8

	// MinRecords is the number of records every cache keeps resident
	// regardless of its memory watermark.
	MinRecords = 16
)

// Check gates the internal invariant verification on the hot paths. It is
// enabled by default; engines may disable it for performance.
var Check = true

// Cache is a write-back page cache with a pluggable replacement policy.
// Implementations are not safe for concurrent use; the owning engine holds an
// external lock across any cache operation, including Writer side effects.
type Cache interface {
	// Get returns the record at the given position or nil. The access may
	// reorder the replacement list, depending on the policy.
	Get(pos int32) Record

	// Find returns the record at the given position or nil, without touching
	// the replacement order.
	Find(pos int32) Record

	// Put inserts a new record. Inserting a position twice is an internal
	// error. The insert may evict other records and propagates write-back
	// failures.
	Put(rec Record) error

	// Update inserts the record if its position is not cached yet; for a
	// present record it may refresh the replacement order, depending on the
	// policy. It returns the previously resident record, if any.
	Update(pos int32, rec Record) (Record, error)

	// Remove drops the record at the given position without writing it back
	// and reports whether a record was present.
	Remove(pos int32) bool

	// Clear drops all records and resets the memory accounting. The bucket
	// count remains unchanged.
	Clear()

	// GetAllChanged returns all records carrying unwritten changes, in list
	// traversal order.
	GetAllChanged() []Record

	// SetMaxMemory updates the memory watermark, in KB, evicting records if
	// the cache exceeds the new watermark.
	SetMaxMemory(kb int) error

	// GetMaxMemory returns the configured memory watermark in KB.
	GetMaxMemory() int

	// GetMemory returns the memory used by the cached records plus the
	// bucket array overhead, in KB.
	GetMemory() int

	// GetMemoryFootprint returns the memory consumed by the cache structure,
	// including the cached records.
	GetMemoryFootprint() *common.MemoryFootprint

	fmt.Stringer
}

// Writer is the narrow contract between a cache and the log and persistence
// layers of the owning engine. The cache never retains a record after
// WriteBack returned; the writer must not mutate record link fields.
type Writer interface {
	// FlushLog commits the write-ahead log up to the point required before
	// any dirty record may be written back.
	FlushLog() error

	// WriteBack synchronously persists one dirty record. The cache has called
	// FlushLog at least once before the first WriteBack of an eviction pass.
	WriteBack(rec Record) error

	// GetTrace returns the tracing handle used for diagnostic messages when
	// eviction fails to free enough memory.
	GetTrace() Trace
}

// Trace receives diagnostic messages about degraded cache operation.
type Trace interface {
	Info(msg string)
}

// New creates a cache of the given type with the given memory watermark in
// KB. Supported types are "LRU", "FIFO", "MRU", "Clock" and "Random"; a
// "SOFT_" prefix wraps the chosen policy in a second-level soft cache.
func New(writer Writer, cacheType string, maxMemoryKb int) (Cache, error) {
	soft := false
	if strings.HasPrefix(cacheType, "SOFT_") {
		soft = true
		cacheType = strings.TrimPrefix(cacheType, "SOFT_")
	}
	var c Cache
	var err error
	switch cacheType {
	case TypeLRU:
		c, err = NewLRU(writer, maxMemoryKb)
	case TypeFIFO:
		c, err = NewFIFO(writer, maxMemoryKb)
	case TypeMRU:
		c, err = NewMRU(writer, maxMemoryKb)
	case TypeClock:
		c, err = NewClock(writer, maxMemoryKb)
	case TypeRandom:
		c, err = NewRandom(writer, maxMemoryKb)
	default:
		return nil, fmt.Errorf("%w; CACHE_TYPE: %v", common.ErrInvalidValue, cacheType)
	}
	if err != nil {
		return nil, err
	}
	if soft {
		c = newSecondLevel(c)
	}
	return c, nil
}
