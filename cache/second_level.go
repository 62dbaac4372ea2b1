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
	"unsafe"

	"github.com/akwong189/h2database-csc468/common"
)

// secondLevel composes a base cache with an unbounded softly held map that
// gives evicted records a second chance. A lookup missing the base probes the
// map and, when the record is still held, promotes it back into the base.
// The soft tier is not accounted in the primary memory budget.
type secondLevel struct {
	base Cache
	soft *softMap
}

func newSecondLevel(base Cache) *secondLevel {
	return &secondLevel{base: base, soft: newSoftMap()}
}

func (c *secondLevel) Put(rec Record) error {
	if err := c.base.Put(rec); err != nil {
		return err
	}
	c.soft.put(rec)
	return nil
}

func (c *secondLevel) Update(pos int32, rec Record) (Record, error) {
	old, err := c.base.Update(pos, rec)
	if err != nil {
		return old, err
	}
	c.soft.put(rec)
	return old, nil
}

func (c *secondLevel) Get(pos int32) Record {
	rec := c.base.Get(pos)
	if rec == nil {
		rec = c.soft.get(pos)
		if rec != nil {
			if err := c.base.Put(rec); err != nil {
				// the promotion failed on a write-back of other records; keep
				// serving from the soft tier and retry on the next access
				c.base.Remove(pos)
			}
		}
	}
	return rec
}

func (c *secondLevel) Find(pos int32) Record {
	rec := c.base.Find(pos)
	if rec == nil {
		rec = c.soft.get(pos)
	}
	return rec
}

func (c *secondLevel) Remove(pos int32) bool {
	removed := c.base.Remove(pos)
	if c.soft.remove(pos) {
		removed = true
	}
	return removed
}

func (c *secondLevel) Clear() {
	c.base.Clear()
	c.soft.clear()
}

// GetAllChanged returns the changed records of the base cache only; records
// surviving in the soft tier have been written back on eviction already.
func (c *secondLevel) GetAllChanged() []Record {
	return c.base.GetAllChanged()
}

func (c *secondLevel) SetMaxMemory(kb int) error {
	return c.base.SetMaxMemory(kb)
}

func (c *secondLevel) GetMaxMemory() int {
	return c.base.GetMaxMemory()
}

func (c *secondLevel) GetMemory() int {
	return c.base.GetMemory()
}

// ReleaseMemory drops the soft tier, as the runtime would on memory pressure.
func (c *secondLevel) ReleaseMemory() {
	c.soft.releaseMemory()
}

func (c *secondLevel) GetMemoryFootprint() *common.MemoryFootprint {
	mf := common.NewMemoryFootprint(unsafe.Sizeof(*c))
	mf.AddChild("base", c.base.GetMemoryFootprint())
	mf.AddChild("soft", common.NewMemoryFootprint(uintptr(c.soft.size())*unsafe.Sizeof(Record(nil))))
	return mf
}

func (c *secondLevel) String() string {
	return "SOFT_" + c.base.String()
}
