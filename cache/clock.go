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

const TypeClock = "Clock"

// clock approximates LRU with a clock hand sweeping the replacement list.
// Records whose reference bit is not set get a second chance; the bit itself
// is managed by the owning engine and only observed here.
type clock struct {
	table
	pointer Record // the clock hand, persists across eviction passes
}

// NewClock creates a cache evicting records by the second-chance clock
// algorithm.
func NewClock(writer Writer, maxMemoryKb int) (Cache, error) {
	t, err := newTable(writer, maxMemoryKb)
	if err != nil {
		return nil, err
	}
	c := &clock{table: t}
	c.pointer = c.head
	return c, nil
}

func (c *clock) Put(rec Record) error {
	c.checkNotPresent(rec)
	// evict before accounting the new record, so the hand only sweeps
	// records that were present when the watermark was reached
	err := c.removeClockIfRequired()
	c.link(rec)
	c.memory += int64(rec.GetMemory())
	c.addToFront(rec)
	return err
}

func (c *clock) Update(pos int32, rec Record) (Record, error) {
	old := c.find(pos)
	if old == nil {
		return nil, c.Put(rec)
	}
	checkSameRecord(pos, old, rec)
	return old, nil
}

func (c *clock) Get(pos int32) Record {
	return c.find(pos)
}

func (c *clock) Remove(pos int32) bool {
	// never leave the hand on a removed record
	if rec := c.find(pos); rec != nil && rec == c.pointer {
		c.pointer = rec.base().next
	}
	return c.remove(pos)
}

func (c *clock) Clear() {
	c.clear()
	c.pointer = c.head
}

func (c *clock) SetMaxMemory(kb int) error {
	c.setMaxMemory(kb)
	return c.removeClockIfRequired()
}

func (c *clock) removeClockIfRequired() error {
	// a small method, to allow inlining
	if c.memory >= c.maxMemory {
		return c.removeClock()
	}
	return nil
}

func (c *clock) removeClock() error {
	i := 0
	var changed []Record
	buffered := make(map[int32]struct{})
	mem := c.memory
	rc := c.recordCount
	flushed := false
	check := c.pointer

	for {
		if rc <= MinRecords {
			break
		}
		if len(changed) == 0 {
			// a pass may start exactly at the watermark and must still free
			// a batch, hence the strict bound
			if mem < c.maxMemory {
				break
			}
		} else {
			if mem*4 <= c.maxMemory*3 {
				break
			}
		}

		i++
		if i >= c.recordCount {
			if !flushed {
				if err := c.writer.FlushLog(); err != nil {
					c.pointer = check
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

		// the hand passes over the sentinel
		if check == c.head {
			check = check.base().next
			continue
		}
		cur := check
		check = check.base().next
		if !cur.CanRemove() {
			continue
		}
		// second chance: the reference bit stays untouched for the engine
		if !cur.BeenRead() {
			continue
		}
		if _, ok := buffered[cur.Pos()]; ok {
			continue
		}

		rc--
		mem -= int64(cur.GetMemory())
		if cur.IsChanged() {
			changed = append(changed, cur)
			buffered[cur.Pos()] = struct{}{}
		} else {
			c.remove(cur.Pos())
		}
	}

	c.pointer = check
	return c.writeBackChanged(changed, flushed, c.Remove)
}

func (c *clock) String() string {
	return TypeClock
}
