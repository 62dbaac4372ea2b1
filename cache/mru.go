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

const TypeMRU = "MRU"

// mru evicts the most recently used record first. Useful for cyclic scans
// larger than the cache, where the least recently used record is the one
// needed again soonest.
type mru struct {
	table
}

// NewMRU creates a cache evicting the most recently used records first.
func NewMRU(writer Writer, maxMemoryKb int) (Cache, error) {
	t, err := newTable(writer, maxMemoryKb)
	if err != nil {
		return nil, err
	}
	return &mru{table: t}, nil
}

func (c *mru) Put(rec Record) error {
	c.checkNotPresent(rec)
	c.link(rec)
	c.memory += int64(rec.GetMemory())
	// evict before the record enters the list, so the scan starts at the
	// newest prior record rather than the one just inserted
	err := c.removeNewIfRequired()
	c.addToFront(rec)
	return err
}

func (c *mru) Update(pos int32, rec Record) (Record, error) {
	old := c.find(pos)
	if old == nil {
		return nil, c.Put(rec)
	}
	checkSameRecord(pos, old, rec)
	c.removeFromList(rec)
	c.addToFront(rec)
	return old, nil
}

func (c *mru) Get(pos int32) Record {
	rec := c.find(pos)
	if rec != nil {
		c.removeFromList(rec)
		c.addToFront(rec)
	}
	return rec
}

func (c *mru) Remove(pos int32) bool {
	return c.remove(pos)
}

func (c *mru) SetMaxMemory(kb int) error {
	c.setMaxMemory(kb)
	return c.removeNewIfRequired()
}

func (c *mru) removeNewIfRequired() error {
	// a small method, to allow inlining
	if c.memory >= c.maxMemory {
		return c.removeNew()
	}
	return nil
}

func (c *mru) removeNew() error {
	i := 0
	var changed []Record
	mem := c.memory
	rc := c.recordCount
	flushed := false
	prev := c.head.base().prev

	for {
		if rc <= MinRecords {
			break
		}
		if len(changed) == 0 {
			if mem <= c.maxMemory {
				break
			}
		} else {
			if mem*4 <= c.maxMemory*3 {
				break
			}
		}

		check := prev
		prev = check.base().prev
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
		// a skipped record moves to the back, out of the way of the scan
		if !check.CanRemove() {
			c.removeFromList(check)
			c.addToBack(check)
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

func (c *mru) String() string {
	return TypeMRU
}
