// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package lirs provides a concurrent scan resistant cache for values keyed by
// 64-bit integers. It is meant to cache objects that are relatively costly to
// acquire, for example file content.
//
// Each entry is assigned a distinct memory cost and the cache keeps the total
// cost of resident entries below a configurable limit. The replacement policy
// is an approximation of the LIRS algorithm by Jiang and Zhang, with an
// additional bounded queue for non-resident entries. About 3% of the mapped
// entries are kept cold; accessed entries move to the top of the recency
// stack only after a configurable number of other entries have moved, which
// batches the list writes of hot entries.
//
// The cache is split into independently locked segments. Mutating calls take
// one segment lock; probes and statistics read atomically published state
// without locking.
package lirs

import (
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/akwong189/h2database-csc468/common"
)

// Cache is a segmented scan resistant cache. Use NewCache to create one.
type Cache[V any] struct {
	maxMemory atomic.Int64

	segments     []atomic.Pointer[segment[V]]
	segmentCount int
	segmentShift uint
	segmentMask  uint32

	stackMoveDistance        int
	nonResidentQueueSize     int
	nonResidentQueueSizeHigh int
}

// NewCache creates a cache with the given configuration.
func NewCache[V any](config Config) (*Cache[V], error) {
	if config.MaxMemory < 1 {
		return nil, fmt.Errorf("%w; max memory must be larger than 0, is %d",
			common.ErrInvalidValue, config.MaxMemory)
	}
	if !common.IsPowerOfTwo(config.SegmentCount) {
		return nil, fmt.Errorf("%w; the segment count must be a power of 2, is %d",
			common.ErrInvalidValue, config.SegmentCount)
	}
	c := &Cache[V]{
		segments:                 make([]atomic.Pointer[segment[V]], config.SegmentCount),
		segmentCount:             config.SegmentCount,
		segmentMask:              uint32(config.SegmentCount - 1),
		stackMoveDistance:        config.StackMoveDistance,
		nonResidentQueueSize:     config.NonResidentQueueSize,
		nonResidentQueueSizeHigh: config.NonResidentQueueSizeHigh,
	}
	c.maxMemory.Store(config.MaxMemory)
	// the high bits of the hash select the segment
	c.segmentShift = 32 - uint(bits.OnesCount32(c.segmentMask))
	c.Clear()
	return c, nil
}

// Clear removes all entries and resets the segment maps.
func (c *Cache[V]) Clear() {
	max := c.maxSegmentMemory()
	for i := range c.segments {
		c.segments[i].Store(newSegment[V](max, c.stackMoveDistance, 8,
			c.nonResidentQueueSize, c.nonResidentQueueSizeHigh))
	}
}

func (c *Cache[V]) maxSegmentMemory() int64 {
	m := c.maxMemory.Load() / int64(c.segmentCount)
	if m < 1 {
		m = 1
	}
	return m
}

func (c *Cache[V]) segmentIndex(hash uint32) int {
	return int((hash >> c.segmentShift) & c.segmentMask)
}

func (c *Cache[V]) segment(hash uint32) *segment[V] {
	return c.segments[c.segmentIndex(hash)].Load()
}

// lockSegment returns the current segment for the hash with its lock held,
// re-sizing the bucket array first when needed. The caller unlocks.
func (c *Cache[V]) lockSegment(hash uint32) *segment[V] {
	index := c.segmentIndex(hash)
	for {
		s := c.segments[index].Load()
		s.mu.Lock()
		if c.segments[index].Load() != s {
			// another goroutine replaced the segment, try again
			s.mu.Unlock()
			continue
		}
		if newLen := s.getNewMapLen(); newLen != 0 {
			// the old segment stays intact; probes still holding it read
			// stale but safe state
			ns := newSegmentFrom(s, newLen)
			c.segments[index].Store(ns)
			s.mu.Unlock()
			continue
		}
		return s
	}
}

// Get returns the value for the key, if resident or if the entry is
// non-resident but still holds its demoted value, adjusting the recency
// state of the cache. A non-resident entry served this way becomes resident
// again.
func (c *Cache[V]) Get(key int64) (V, bool) {
	hash := getHash(key)
	s := c.segment(hash)
	return s.get(s.find(key, hash))
}

// Peek returns the value for the key, if held, without side effects.
func (c *Cache[V]) Peek(key int64) (V, bool) {
	e := c.find(key)
	if e != nil {
		if v := e.loadValue(); v != nil {
			return *v, true
		}
	}
	var zero V
	return zero, false
}

// ContainsKey reports whether there is a resident entry for the key. It does
// not adjust the internal state of the cache.
func (c *Cache[V]) ContainsKey(key int64) bool {
	e := c.find(key)
	return e != nil && e.value.Load() != nil
}

// GetMemory returns the memory cost accounted for the key, or 0 when there is
// no resident entry.
func (c *Cache[V]) GetMemory(key int64) int {
	e := c.find(key)
	if e == nil {
		return 0
	}
	return e.getMemory()
}

func (c *Cache[V]) find(key int64) *entry[V] {
	hash := getHash(key)
	return c.segment(hash).find(key, hash)
}

// Put adds an entry with a memory cost of one unit and returns the replaced
// value, if any.
func (c *Cache[V]) Put(key int64, value V) (V, bool) {
	return c.PutSized(key, value, 1)
}

// PutSized adds an entry with the given memory cost. The entry may or may not
// exist in the cache yet; unknown entries usually enter cold, entries seen
// before become hot. It returns the replaced value, if any.
func (c *Cache[V]) PutSized(key int64, value V, memory int) (V, bool) {
	hash := getHash(key)
	s := c.lockSegment(hash)
	defer s.mu.Unlock()
	return s.put(key, hash, value, memory)
}

// PutAll adds all entries of the map, with a memory cost of one unit each.
func (c *Cache[V]) PutAll(m map[int64]V) {
	for k, v := range m {
		c.Put(k, v)
	}
}

// Remove drops the entry for the key, resident or not, and returns the old
// value, if any.
func (c *Cache[V]) Remove(key int64) (V, bool) {
	hash := getHash(key)
	s := c.lockSegment(hash)
	defer s.mu.Unlock()
	return s.remove(key, hash)
}

// SetMaxMemory changes the memory limit. Entries are not removed immediately;
// the limit applies from the next insert on.
func (c *Cache[V]) SetMaxMemory(maxMemory int64) error {
	if maxMemory < 1 {
		return fmt.Errorf("%w; max memory must be larger than 0, is %d",
			common.ErrInvalidValue, maxMemory)
	}
	c.maxMemory.Store(maxMemory)
	max := c.maxSegmentMemory()
	for i := range c.segments {
		s := c.segments[i].Load()
		s.mu.Lock()
		s.maxMemory = max
		s.mu.Unlock()
	}
	return nil
}

// GetMaxMemory returns the configured memory limit.
func (c *Cache[V]) GetMaxMemory() int64 {
	return c.maxMemory.Load()
}

// GetUsedMemory returns the memory cost of all resident entries. The view
// across segments is not atomic.
func (c *Cache[V]) GetUsedMemory() int64 {
	var x int64
	for i := range c.segments {
		x += c.segments[i].Load().usedMemory.Load()
	}
	return x
}

// Size returns the number of resident entries.
func (c *Cache[V]) Size() int {
	var x int32
	for i := range c.segments {
		s := c.segments[i].Load()
		x += s.mapSize.Load() - s.queue2Size.Load()
	}
	return int(x)
}

// SizeHot returns the number of hot entries.
func (c *Cache[V]) SizeHot() int {
	var x int32
	for i := range c.segments {
		s := c.segments[i].Load()
		x += s.mapSize.Load() - s.queueSize.Load() - s.queue2Size.Load()
	}
	return int(x)
}

// SizeNonResident returns the number of non-resident entries.
func (c *Cache[V]) SizeNonResident() int {
	var x int32
	for i := range c.segments {
		x += c.segments[i].Load().queue2Size.Load()
	}
	return int(x)
}

// SizeMapArray returns the total number of hash table buckets.
func (c *Cache[V]) SizeMapArray() int {
	x := 0
	for i := range c.segments {
		x += len(c.segments[i].Load().buckets)
	}
	return x
}

// GetHits returns the number of cache hits.
func (c *Cache[V]) GetHits() int64 {
	var x int64
	for i := range c.segments {
		x += c.segments[i].Load().hits.Load()
	}
	return x
}

// GetMisses returns the number of cache misses.
func (c *Cache[V]) GetMisses() int64 {
	var x int64
	for i := range c.segments {
		x += c.segments[i].Load().misses.Load()
	}
	return x
}

// IsEmpty reports whether the cache holds no resident entries.
func (c *Cache[V]) IsEmpty() bool {
	return c.Size() == 0
}

// Keys lists the keys of one entry class: the recency stack for cold=false,
// the resident cold queue for cold=true, or the non-resident queue when
// nonResident is also set.
func (c *Cache[V]) Keys(cold, nonResident bool) []int64 {
	var keys []int64
	for i := range c.segments {
		keys = append(keys, c.segments[i].Load().keys(cold, nonResident)...)
	}
	return keys
}

// KeySet returns the keys of all resident entries.
func (c *Cache[V]) KeySet() map[int64]struct{} {
	set := make(map[int64]struct{})
	for i := range c.segments {
		for k := range c.segments[i].Load().keySet() {
			set[k] = struct{}{}
		}
	}
	return set
}

// Values returns the values of all resident entries.
func (c *Cache[V]) Values() []V {
	var values []V
	for k := range c.KeySet() {
		if v, ok := c.Peek(k); ok {
			values = append(values, v)
		}
	}
	return values
}

// GetMap returns a snapshot of all resident entries.
func (c *Cache[V]) GetMap() map[int64]V {
	m := make(map[int64]V)
	for k := range c.KeySet() {
		if v, ok := c.Peek(k); ok {
			m[k] = v
		}
	}
	return m
}

// TrimNonResidentQueue applies the non-resident queue watermarks in every
// segment.
func (c *Cache[V]) TrimNonResidentQueue() {
	for i := range c.segments {
		s := c.segments[i].Load()
		s.mu.Lock()
		s.trimNonResidentQueue()
		s.mu.Unlock()
	}
}

// DropUnreferenced clears the demoted values of all non-resident entries.
// The owning engine calls this on memory pressure, in place of the garbage
// collector of a managed runtime.
func (c *Cache[V]) DropUnreferenced() {
	for i := range c.segments {
		c.segments[i].Load().dropUnreferenced()
	}
}

// GetMemoryFootprint returns the memory consumed by the cache structure
// itself, excluding the cached values.
func (c *Cache[V]) GetMemoryFootprint() *common.MemoryFootprint {
	mf := common.NewMemoryFootprint(unsafe.Sizeof(*c))
	var buckets, entries uintptr
	for i := range c.segments {
		s := c.segments[i].Load()
		buckets += unsafe.Sizeof(*s) + uintptr(len(s.buckets))*unsafe.Sizeof(atomic.Pointer[entry[V]]{})
		entries += uintptr(s.mapSize.Load()) * unsafe.Sizeof(entry[V]{})
	}
	mf.AddChild("segments", common.NewMemoryFootprint(buckets))
	mf.AddChild("entries", common.NewMemoryFootprint(entries))
	return mf
}

// ContainsValue reports whether the value is stored in the cache.
func ContainsValue[V comparable](c *Cache[V], value V) bool {
	for _, v := range c.GetMap() {
		if v == value {
			return true
		}
	}
	return false
}
