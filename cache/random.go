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
	"math/rand"
	"time"
)

const TypeRandom = "Random"

// random evicts uniformly chosen records. It has no bookkeeping on access
// paths, trading hit rate for the cheapest possible Get.
type random struct {
	table
	rand *rand.Rand
}

// NewRandom creates a cache evicting randomly chosen records.
func NewRandom(writer Writer, maxMemoryKb int) (Cache, error) {
	t, err := newTable(writer, maxMemoryKb)
	if err != nil {
		return nil, err
	}
	return &random{table: t, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}, nil
}

func (c *random) Put(rec Record) error {
	c.checkNotPresent(rec)
	// account the record first, so that the new record itself cannot be the
	// one picked for removal
	c.memory += int64(rec.GetMemory())
	err := c.removeRandomIfRequired()
	c.link(rec)
	c.addToFront(rec)
	return err
}

func (c *random) Update(pos int32, rec Record) (Record, error) {
	old := c.find(pos)
	if old == nil {
		return nil, c.Put(rec)
	}
	checkSameRecord(pos, old, rec)
	c.removeFromList(rec)
	c.addToFront(rec)
	return old, nil
}

func (c *random) Get(pos int32) Record {
	return c.find(pos)
}

func (c *random) Remove(pos int32) bool {
	return c.remove(pos)
}

func (c *random) SetMaxMemory(kb int) error {
	c.setMaxMemory(kb)
	return c.removeRandomIfRequired()
}

func (c *random) removeRandomIfRequired() error {
	// a small method, to allow inlining
	if c.memory >= c.maxMemory {
		return c.removeRandom()
	}
	return nil
}

func (c *random) removeRandom() error {
	i := 0
	var changed []Record
	buffered := make(map[int32]struct{})
	mem := c.memory
	rc := c.recordCount
	flushed := false

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

		check := c.pickRandom(rc)
		// a buffered record must not be picked twice
		if _, ok := buffered[check.Pos()]; ok {
			continue
		}
		if !check.CanRemove() {
			continue
		}

		rc--
		mem -= int64(check.GetMemory())
		if check.IsChanged() {
			changed = append(changed, check)
			buffered[check.Pos()] = struct{}{}
		} else {
			c.remove(check.Pos())
		}
	}

	return c.writeBackChanged(changed, flushed, c.Remove)
}

// pickRandom walks the replacement list to a uniformly chosen index. The
// sentinel resolves to its successor.
func (c *random) pickRandom(rc int) Record {
	index := c.rand.Intn(rc)
	rec := c.head
	for i := 0; i < index; i++ {
		rec = rec.base().next
	}
	if rec == c.head {
		rec = rec.base().next
	}
	return rec
}

func (c *random) String() string {
	return TypeRandom
}
