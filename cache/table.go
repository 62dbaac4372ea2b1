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
	"math"
	"sort"
	"unsafe"

	"github.com/akwong189/h2database-csc468/common"
)

// table is the skeleton shared by all replacement policies: a power-of-two
// bucket array of chained records, a circular doubly linked replacement list
// through a sentinel head, and memory accounting in 4-byte words.
type table struct {
	writer      Writer
	head        Record
	values      []Record
	mask        int32
	len         int
	recordCount int
	memory      int64 // used memory, in 4-byte words
	maxMemory   int64 // memory watermark, in 4-byte words
}

func newTable(writer Writer, maxMemoryKb int) (table, error) {
	t := table{writer: writer, head: &recordHead{}}
	t.setMaxMemory(maxMemoryKb)
	// one bucket per 64 words of capacity
	l := t.maxMemory / 64
	if l > math.MaxInt32 {
		return table{}, fmt.Errorf("%w; this much cache memory is not supported: %dkb",
			common.ErrInvalidState, maxMemoryKb)
	}
	t.len = common.NextPowerOfTwo(int(l))
	t.mask = int32(t.len - 1)
	t.clear()
	return t, nil
}

func (t *table) setMaxMemory(kb int) {
	size := int64(kb) * 1024 / 4
	if size < 0 {
		size = 0
	}
	t.maxMemory = size
}

func (t *table) clear() {
	h := t.head.base()
	h.next = t.head
	h.prev = t.head
	t.values = make([]Record, t.len)
	t.recordCount = 0
	t.memory = int64(t.len) * MemoryPointer
}

// find returns the record at the given position or nil. It never mutates the
// replacement list.
func (t *table) find(pos int32) Record {
	rec := t.values[pos&t.mask]
	for rec != nil && rec.Pos() != pos {
		rec = rec.base().chained
	}
	return rec
}

// link chains the record into its bucket and counts it. The caller accounts
// the record memory and adds the record to the replacement list.
func (t *table) link(rec Record) {
	index := rec.Pos() & t.mask
	rec.base().chained = t.values[index]
	t.values[index] = rec
	t.recordCount++
}

// remove drops the record at the given position from the bucket chain and the
// replacement list, reporting whether a record was present.
func (t *table) remove(pos int32) bool {
	index := pos & t.mask
	rec := t.values[index]
	if rec == nil {
		return false
	}
	if rec.Pos() == pos {
		t.values[index] = rec.base().chained
	} else {
		var last Record
		for {
			last = rec
			rec = rec.base().chained
			if rec == nil {
				return false
			}
			if rec.Pos() == pos {
				break
			}
		}
		last.base().chained = rec.base().chained
	}
	t.recordCount--
	t.memory -= int64(rec.GetMemory())
	t.removeFromList(rec)
	if Check {
		rec.base().chained = nil
		if o := t.find(pos); o != nil {
			panic(fmt.Errorf("%w; not removed: %d", common.ErrInternal, pos))
		}
	}
	return true
}

func (t *table) addToFront(rec Record) {
	if rec == t.head {
		panic(fmt.Errorf("%w; try to move head", common.ErrInternal))
	}
	b := rec.base()
	b.next = t.head
	b.prev = t.head.base().prev
	b.prev.base().next = rec
	t.head.base().prev = rec
}

func (t *table) addToBack(rec Record) {
	if rec == t.head {
		panic(fmt.Errorf("%w; try to move head", common.ErrInternal))
	}
	b := rec.base()
	b.next = t.head.base().next
	b.prev = t.head
	b.next.base().prev = rec
	t.head.base().next = rec
}

func (t *table) removeFromList(rec Record) {
	if rec == t.head {
		panic(fmt.Errorf("%w; try to remove head", common.ErrInternal))
	}
	b := rec.base()
	b.prev.base().next = b.next
	b.next.base().prev = b.prev
	b.next = nil
	b.prev = nil
}

func (t *table) getAllChanged() []Record {
	var list []Record
	for rec := t.head.base().next; rec != t.head; rec = rec.base().next {
		if rec.IsChanged() {
			list = append(list, rec)
		}
	}
	return list
}

// checkNotPresent guards Put against double insertion of a position.
func (t *table) checkNotPresent(rec Record) {
	if !Check {
		return
	}
	pos := rec.Pos()
	if old := t.find(pos); old != nil {
		panic(fmt.Errorf("%w; try to add a record twice at pos %d", common.ErrInternal, pos))
	}
}

// checkSameRecord guards Update against a record that is resident under the
// same position but is not the given record.
func checkSameRecord(pos int32, old, rec Record) {
	if old != rec {
		panic(fmt.Errorf("%w; old!=record pos: %d", common.ErrInternal, pos))
	}
}

// traceCannotRemove emits the degraded-mode warning after a full traversal
// could not free enough memory.
func (t *table) traceCannotRemove() {
	if trace := t.writer.GetTrace(); trace != nil {
		trace.Info(fmt.Sprintf("cannot remove records, cache size too small? records: %d memory: %d",
			t.recordCount, t.memory))
	}
}

// writeBackChanged flushes the dirty records buffered by an eviction pass and
// drops them from the cache, in ascending position order. The memory
// watermark is lifted while the writer runs so that write-back side effects
// cannot re-enter eviction; it is restored even when the writer fails.
func (t *table) writeBackChanged(changed []Record, flushed bool, remove func(pos int32) bool) error {
	if len(changed) == 0 {
		return nil
	}
	if !flushed {
		if err := t.writer.FlushLog(); err != nil {
			return err
		}
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i].Pos() < changed[j].Pos() })
	max := t.maxMemory
	t.maxMemory = math.MaxInt64
	defer func() { t.maxMemory = max }()
	for _, rec := range changed {
		if err := t.writer.WriteBack(rec); err != nil {
			return err
		}
		remove(rec.Pos())
		if b := rec.base(); b.next != nil || b.prev != nil {
			panic(fmt.Errorf("%w; record %d still linked after removal", common.ErrInternal, rec.Pos()))
		}
	}
	return nil
}

func (t *table) GetMaxMemory() int {
	return int(t.maxMemory * 4 / 1024)
}

func (t *table) GetMemory() int {
	return int(t.memory * 4 / 1024)
}

func (t *table) Find(pos int32) Record {
	return t.find(pos)
}

func (t *table) GetAllChanged() []Record {
	return t.getAllChanged()
}

func (t *table) Clear() {
	t.clear()
}

func (t *table) GetMemoryFootprint() *common.MemoryFootprint {
	mf := common.NewMemoryFootprint(unsafe.Sizeof(*t))
	mf.AddChild("values", common.NewMemoryFootprint(uintptr(len(t.values))*unsafe.Sizeof(Record(nil))))
	mf.AddChild("records", common.NewMemoryFootprint(uintptr(t.memory)*4))
	return mf
}
