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

import "sync/atomic"

// entry is one mapping slot. An entry is either hot (low inter-reference
// recency, on the stack only), cold and resident (on the resident queue,
// possibly also on the stack), or cold and non-resident (on the non-resident
// queue, its value demoted into the reference slot).
//
// The value, reference and bucket chain fields are atomic so that probes may
// read them without holding the segment lock; all other fields are only
// touched under the lock.
type entry[V any] struct {
	key    int64
	memory int

	// value holds the resident value; nil for non-resident entries.
	value atomic.Pointer[V]

	// reference holds the demoted value of a non-resident entry until the
	// queue trim or a memory pressure signal drops it. It may turn nil at any
	// moment; all readers have to tolerate that.
	reference atomic.Pointer[V]

	// topMove is the stack move counter value of the last promotion.
	topMove int

	stackNext *entry[V]
	stackPrev *entry[V]
	queueNext *entry[V]
	queuePrev *entry[V]
	mapNext   atomic.Pointer[entry[V]]
}

// isHot reports whether the entry is hot; cold entries are in one of the two
// queues.
func (e *entry[V]) isHot() bool {
	return e.queueNext == nil
}

// loadValue returns the resident value or, for a non-resident entry, the
// still referenced demoted value. It returns nil when neither is held.
func (e *entry[V]) loadValue() *V {
	if v := e.value.Load(); v != nil {
		return v
	}
	return e.reference.Load()
}

// getMemory returns the accounted memory; non-resident entries count as zero.
func (e *entry[V]) getMemory() int {
	if e.value.Load() == nil {
		return 0
	}
	return e.memory
}

func copyEntry[V any](old *entry[V]) *entry[V] {
	e := &entry[V]{key: old.key, memory: old.memory, topMove: old.topMove}
	e.value.Store(old.value.Load())
	e.reference.Store(old.reference.Load())
	return e
}
