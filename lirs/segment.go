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

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/akwong189/h2database-csc468/common"
)

// segment is an individual LIRS cache: a power-of-two bucket array, the
// recency stack, the queue of resident cold entries and the queue of
// non-resident cold entries.
//
// All mutating methods assume the caller holds mu. The counters are atomic so
// that the cache-level statistics can sum them without locking; probes walk
// the bucket chains through atomic pointers for the same reason. A replaced
// segment stays structurally intact, so a probe still holding it reads stale
// but never dangling state.
type segment[V any] struct {
	mu sync.Mutex

	maxMemory                int64
	stackMoveDistance        int
	nonResidentQueueSize     int
	nonResidentQueueSizeHigh int

	buckets []atomic.Pointer[entry[V]]
	mask    uint32

	mapSize    atomic.Int32 // entries in the map, including non-resident
	queueSize  atomic.Int32 // resident cold entries
	queue2Size atomic.Int32 // non-resident cold entries
	usedMemory atomic.Int64
	hits       atomic.Int64
	misses     atomic.Int64

	// The stack of recently referenced entries: all hot entries and the
	// recently referenced cold entries. The tail is always hot.
	stack     *entry[V]
	stackSize int

	// stackMoveCounter counts how many times any entry was moved to the top
	// of the stack.
	stackMoveCounter int

	queue  *entry[V] // resident cold entries
	queue2 *entry[V] // non-resident cold entries
}

func newSegment[V any](maxMemory int64, stackMoveDistance, length,
	nonResidentQueueSize, nonResidentQueueSizeHigh int) *segment[V] {
	s := &segment[V]{
		maxMemory:                maxMemory,
		stackMoveDistance:        stackMoveDistance,
		nonResidentQueueSize:     nonResidentQueueSize,
		nonResidentQueueSizeHigh: nonResidentQueueSizeHigh,
		buckets:                  make([]atomic.Pointer[entry[V]], length),
		mask:                     uint32(length - 1),
	}
	s.stack = &entry[V]{}
	s.stack.stackPrev = s.stack
	s.stack.stackNext = s.stack
	s.queue = &entry[V]{}
	s.queue.queuePrev = s.queue
	s.queue.queueNext = s.queue
	s.queue2 = &entry[V]{}
	s.queue2.queuePrev = s.queue2
	s.queue2.queueNext = s.queue2
	return s
}

// newSegmentFrom rebuilds a segment with a new bucket count, preserving the
// classification of all entries. The caller must hold the lock of the old
// segment.
func newSegmentFrom[V any](old *segment[V], length int) *segment[V] {
	s := newSegment[V](old.maxMemory, old.stackMoveDistance, length,
		old.nonResidentQueueSize, old.nonResidentQueueSizeHigh)
	s.hits.Store(old.hits.Load())
	s.misses.Store(old.misses.Load())
	for e := old.stack.stackPrev; e != old.stack; e = e.stackPrev {
		dup := copyEntry(e)
		s.addToMap(dup)
		s.addToStack(dup)
	}
	for e := old.queue.queuePrev; e != old.queue; e = e.queuePrev {
		found := s.find(e.key, getHash(e.key))
		if found == nil {
			found = copyEntry(e)
			s.addToMap(found)
		}
		s.addToQueue(s.queue, found)
	}
	for e := old.queue2.queuePrev; e != old.queue2; e = e.queuePrev {
		found := s.find(e.key, getHash(e.key))
		if found == nil {
			found = copyEntry(e)
			s.addToMap(found)
		}
		s.addToQueue(s.queue2, found)
	}
	return s
}

// getNewMapLen returns the new number of buckets if the map should be
// re-sized, or 0 when the current size is fine.
func (s *segment[V]) getNewMapLen() int {
	length := int(s.mask) + 1
	mapSize := int(s.mapSize.Load())
	if length*3 < mapSize*4 && length < (1<<28) {
		// more than 75% usage
		return length * 2
	} else if length > 32 && length/8 > mapSize {
		// less than 12% usage
		return length / 2
	}
	return 0
}

func (s *segment[V]) addToMap(e *entry[V]) {
	index := getHash(e.key) & s.mask
	e.mapNext.Store(s.buckets[index].Load())
	s.buckets[index].Store(e)
	s.usedMemory.Add(int64(e.getMemory()))
	s.mapSize.Add(1)
}

// find returns the entry for the key, which may be non-resident, or nil. It
// is safe without the segment lock.
func (s *segment[V]) find(key int64, hash uint32) *entry[V] {
	e := s.buckets[hash&s.mask].Load()
	for e != nil && e.key != key {
		e = e.mapNext.Load()
	}
	return e
}

// get returns the value of the entry, adjusting the recency state so that
// commonly used entries stay in the cache.
func (s *segment[V]) get(e *entry[V]) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var v *V
	if e != nil {
		v = e.loadValue()
	}
	if v == nil {
		// the entry was not found, or it was non-resident and lost its value
		s.misses.Add(1)
		var zero V
		return zero, false
	}
	s.access(e)
	s.hits.Add(1)
	return *v, true
}

// access records a use of the entry, moving it to the top of the stack or the
// front of the queue as the policy demands.
func (s *segment[V]) access(e *entry[V]) {
	if e.isHot() {
		if e != s.stack.stackNext && e.stackNext != nil {
			if s.stackMoveCounter-e.topMove > s.stackMoveDistance {
				// move the hot entry to the top of the stack, unless it is
				// already there
				wasEnd := e == s.stack.stackPrev
				s.removeFromStack(e)
				if wasEnd {
					// if moving the last entry, the last entry could now be
					// cold, which is not allowed
					s.pruneStack()
				}
				s.addToStack(e)
			}
		}
		return
	}
	v := e.loadValue()
	if v == nil {
		return
	}
	s.removeFromQueue(e)
	if e.reference.Load() != nil {
		// a non-resident entry whose demoted value survived: upgrade it
		// back to resident
		e.value.Store(v)
		e.reference.Store(nil)
		s.usedMemory.Add(int64(e.memory))
	}
	if e.stackNext != nil {
		// cold entries on the stack become hot, which means a hot entry
		// needs to become cold
		s.removeFromStack(e)
		s.convertOldestHotToCold()
	} else {
		// cold entries that are not on the stack move to the front of the
		// queue
		s.addToQueue(s.queue, e)
	}
	// in any case, the cold entry moves to the top of the stack
	s.addToStack(e)
	// if the promoted entry is the only one on the stack, the last one is
	// cold now and needs to be pruned
	s.pruneStack()
}

// put adds an entry. Unknown entries usually become cold, entries seen before
// (even non-resident ones) become hot. It returns the replaced value, if any.
func (s *segment[V]) put(key int64, hash uint32, value V, memory int) (old V, replaced bool) {
	e := s.find(key, hash)
	existed := e != nil
	if existed {
		if v := e.loadValue(); v != nil {
			old = *v
			replaced = true
		}
		s.remove(key, hash)
	}
	if int64(memory) > s.maxMemory {
		// the new entry is too big to fit
		return old, replaced
	}
	e = &entry[V]{key: key, memory: memory}
	e.value.Store(&value)
	index := hash & s.mask
	e.mapNext.Store(s.buckets[index].Load())
	s.buckets[index].Store(e)
	s.usedMemory.Add(int64(memory))
	if s.usedMemory.Load() > s.maxMemory {
		// old entries need to be removed
		s.evict()
		// if the cache is full, the new entry enters cold
		if s.stackSize > 0 {
			s.addToQueue(s.queue, e)
		}
	}
	s.mapSize.Add(1)
	// added entries always enter the stack
	s.addToStack(e)
	if existed {
		// if it was there before (even non-resident), it becomes hot
		s.access(e)
	}
	return old, replaced
}

// remove drops the entry for the key, resident or not, and returns the old
// value, if any.
func (s *segment[V]) remove(key int64, hash uint32) (old V, removed bool) {
	index := hash & s.mask
	e := s.buckets[index].Load()
	if e == nil {
		return old, false
	}
	if e.key == key {
		s.buckets[index].Store(e.mapNext.Load())
	} else {
		var last *entry[V]
		for {
			last = e
			e = e.mapNext.Load()
			if e == nil {
				return old, false
			}
			if e.key == key {
				break
			}
		}
		last.mapNext.Store(e.mapNext.Load())
	}
	if v := e.loadValue(); v != nil {
		old = *v
		removed = true
	}
	s.mapSize.Add(-1)
	s.usedMemory.Add(-int64(e.getMemory()))
	if e.stackNext != nil {
		s.removeFromStack(e)
	}
	if e.isHot() {
		// when removing a hot entry, the newest cold entry gets hot, so the
		// number of hot entries does not change
		e = s.queue.queueNext
		if e != s.queue {
			s.removeFromQueue(e)
			if e.stackNext == nil {
				s.addToStackBottom(e)
			}
		}
		s.pruneStack()
	} else {
		s.removeFromQueue(e)
	}
	return old, removed
}

// evict demotes cold entries until the memory limit is kept.
func (s *segment[V]) evict() {
	for {
		s.evictBlock()
		if s.usedMemory.Load() <= s.maxMemory {
			return
		}
	}
}

func (s *segment[V]) evictBlock() {
	// ensure there are not too many hot entries: right shift of 5 is a
	// division by 32, that means if there are only 1/32 (3.125%) or less cold
	// entries, a hot entry needs to become cold
	for s.queueSize.Load() <= (s.mapSize.Load()-s.queue2Size.Load())>>5 && s.stackSize > 0 {
		s.convertOldestHotToCold()
	}
	// the oldest resident cold entries become non-resident
	for s.usedMemory.Load() > s.maxMemory && s.queueSize.Load() > 0 {
		e := s.queue.queuePrev
		s.usedMemory.Add(-int64(e.memory))
		s.removeFromQueue(e)
		e.reference.Store(e.value.Load())
		e.value.Store(nil)
		s.addToQueue(s.queue2, e)
		// the size of the non-resident-cold entries needs to be limited
		s.trimNonResidentQueue()
	}
}

func (s *segment[V]) trimNonResidentQueue() {
	residentCount := s.mapSize.Load() - s.queue2Size.Load()
	maxQueue2SizeHigh := int32(s.nonResidentQueueSizeHigh) * residentCount
	maxQueue2Size := int32(s.nonResidentQueueSize) * residentCount
	for s.queue2Size.Load() > maxQueue2Size {
		e := s.queue2.queuePrev
		if s.queue2Size.Load() <= maxQueue2SizeHigh {
			if e.reference.Load() != nil {
				// the entry still holds its value, stop trimming to give it
				// a second chance
				break
			}
		}
		s.remove(e.key, getHash(e.key))
	}
}

func (s *segment[V]) convertOldestHotToCold() {
	// the last entry of the stack is known to be hot
	last := s.stack.stackPrev
	if last == s.stack {
		// never remove the stack head itself; this would mean the internal
		// structure of the cache is corrupt
		panic(fmt.Errorf("%w; try to convert the stack head", common.ErrInternal))
	}
	s.removeFromStack(last)
	// adding an entry to the queue makes it cold
	s.addToQueue(s.queue, last)
	s.pruneStack()
}

// pruneStack strips cold entries off the stack tail, so that the tail stays
// hot.
func (s *segment[V]) pruneStack() {
	for {
		last := s.stack.stackPrev
		// the stack head itself is also hot, no need to test for it
		if last.isHot() {
			return
		}
		// the cold entry is still in the queue
		s.removeFromStack(last)
	}
}

func (s *segment[V]) addToStack(e *entry[V]) {
	e.stackPrev = s.stack
	e.stackNext = s.stack.stackNext
	e.stackNext.stackPrev = e
	s.stack.stackNext = e
	s.stackSize++
	e.topMove = s.stackMoveCounter
	s.stackMoveCounter++
}

func (s *segment[V]) addToStackBottom(e *entry[V]) {
	e.stackNext = s.stack
	e.stackPrev = s.stack.stackPrev
	e.stackPrev.stackNext = e
	s.stack.stackPrev = e
	s.stackSize++
}

// removeFromStack unlinks the entry from the stack. The head itself must
// never be removed.
func (s *segment[V]) removeFromStack(e *entry[V]) {
	e.stackPrev.stackNext = e.stackNext
	e.stackNext.stackPrev = e.stackPrev
	e.stackPrev = nil
	e.stackNext = nil
	s.stackSize--
}

func (s *segment[V]) addToQueue(q *entry[V], e *entry[V]) {
	e.queuePrev = q
	e.queueNext = q.queueNext
	e.queueNext.queuePrev = e
	q.queueNext = e
	if e.value.Load() != nil {
		s.queueSize.Add(1)
	} else {
		s.queue2Size.Add(1)
	}
}

func (s *segment[V]) removeFromQueue(e *entry[V]) {
	e.queuePrev.queueNext = e.queueNext
	e.queueNext.queuePrev = e.queuePrev
	e.queuePrev = nil
	e.queueNext = nil
	if e.value.Load() != nil {
		s.queueSize.Add(-1)
	} else {
		s.queue2Size.Add(-1)
	}
}

// keys lists the keys of one entry class: the stack for hot and recently
// referenced entries, or one of the cold queues.
func (s *segment[V]) keys(cold, nonResident bool) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []int64
	if cold {
		start := s.queue
		if nonResident {
			start = s.queue2
		}
		for e := start.queueNext; e != start; e = e.queueNext {
			keys = append(keys, e.key)
		}
	} else {
		for e := s.stack.stackNext; e != s.stack; e = e.stackNext {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// keySet returns the keys of all resident entries.
func (s *segment[V]) keySet() map[int64]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[int64]struct{})
	for e := s.stack.stackNext; e != s.stack; e = e.stackNext {
		// the stack may also hold non-resident entries
		if e.value.Load() != nil {
			set[e.key] = struct{}{}
		}
	}
	for e := s.queue.queueNext; e != s.queue; e = e.queueNext {
		set[e.key] = struct{}{}
	}
	return set
}

// dropUnreferenced clears the demoted values of all non-resident entries, as
// a garbage collector would under memory pressure.
func (s *segment[V]) dropUnreferenced() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for e := s.queue2.queueNext; e != s.queue2; e = e.queueNext {
		e.reference.Store(nil)
	}
}

// getHash spreads the key bits with a supplemental secondary hash function,
// to protect against keys that do not differ much.
func getHash(key int64) uint32 {
	hash := uint32(uint64(key)>>32) ^ uint32(uint64(key))
	hash = ((hash >> 16) ^ hash) * 0x45d9f3b
	hash = ((hash >> 16) ^ hash) * 0x45d9f3b
	hash = (hash >> 16) ^ hash
	return hash
}
