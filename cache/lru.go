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

import (
	"fmt"

	"github.com/akwong189/h2database-csc468/common"
)

const (
	TypeLRU  = "LRU"
	TypeFIFO = "FIFO"
)

// lru evicts the least recently used record first. With the fifo flag set,
// accesses do not refresh the replacement order, which turns the policy into
// first-in-first-out over the insertion order.
type lru struct {
	table
	fifo bool
}

// NewLRU creates a cache evicting the least recently used records first.
func NewLRU(writer Writer, maxMemoryKb int) (Cache, error) {
	t, err := newTable(writer, maxMemoryKb)
	if err != nil {
		return nil, err
	}
	return &lru{table: t}, nil
}

// NewFIFO creates a cache evicting records in insertion order.
func NewFIFO(writer Writer, maxMemoryKb int) (Cache, error) {
	t, err := newTable(writer, maxMemoryKb)
	if err != nil {
		return nil, err
	}
	return &lru{table: t, fifo: true}, nil
}

func (c *lru) Put(rec Record) error {
	c.checkNotPresent(rec)
	c.link(rec)
	c.memory += int64(rec.GetMemory())
	c.addToFront(rec)
	return c.removeOldIfRequired()
}

func (c *lru) Update(pos int32, rec Record) (Record, error) {
	old := c.find(pos)
	if old == nil {
		return nil, c.Put(rec)
	}
	checkSameRecord(pos, old, rec)
	if !c.fifo {
		c.removeFromList(rec)
		c.addToFront(rec)
	}
	return old, nil
}

func (c *lru) Get(pos int32) Record {
	rec := c.find(pos)
	if rec != nil && !c.fifo {
		c.removeFromList(rec)
		c.addToFront(rec)
	}
	return rec
}

func (c *lru) Remove(pos int32) bool {
	return c.remove(pos)
}

func (c *lru) SetMaxMemory(kb int) error {
	c.setMaxMemory(kb)
	return c.removeOldIfRequired()
}

func (c *lru) removeOldIfRequired() error {
	// a small method, to allow inlining
	if c.memory >= c.maxMemory {
		return c.removeOld()
	}
	return nil
}

func (c *lru) removeOld() error {
	i := 0
	var changed []Record
	mem := c.memory
	rc := c.recordCount
	flushed := false
	next := c.head.base().next

	for {
		if rc <= MinRecords {
			break
		}
		if len(changed) == 0 {
			if mem <= c.maxMemory {
				break
			}
		} else {
			// buffered writes will reclaim memory once flushed, so a relaxed
			// watermark of 3/4 is enough to stop
			if mem*4 <= c.maxMemory*3 {
				break
			}
		}

		check := next
		next = check.base().next
		i++
		if i >= c.recordCount {
			if !flushed {
				if err := c.writer.FlushLog(); err != nil {
					return err
				}
				flushed = true
				i = 0
			} else {
				// can't remove any record; hopefully this does not happen
				// frequently, but it can happen
				c.traceCannotRemove()
				break
			}
		}
		if check == c.head {
			panic(fmt.Errorf("%w; try to remove head", common.ErrInternal))
		}
		// a dirty record must not be expelled before the log is written, and
		// a pinned record cannot be expelled at all
		if !check.CanRemove() {
			c.removeFromList(check)
			c.addToFront(check)
			continue
		}

		rc--
		mem -= int64(check.GetMemory())
		if check.IsChanged() {
			changed = append(changed, check)
		} else {
			c.remove(check.Pos())
		}
	}

	return c.writeBackChanged(changed, flushed, c.Remove)
}

func (c *lru) String() string {
	if c.fifo {
		return TypeFIFO
	}
	return TypeLRU
}
