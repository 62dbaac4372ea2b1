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
	"errors"
	"sync"
	"testing"

	"golang.org/x/exp/slices"

	"github.com/akwong189/h2database-csc468/common"
)

func TestNewCacheRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemory = 0
	if _, err := NewCache[int](cfg); !errors.Is(err, common.ErrInvalidValue) {
		t.Errorf("expected invalid value error for zero max memory, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.MaxMemory = 100
	cfg.SegmentCount = 10
	if _, err := NewCache[int](cfg); !errors.Is(err, common.ErrInvalidValue) {
		t.Errorf("expected invalid value error for segment count 10, got %v", err)
	}
}

func TestCachePutPeekRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemory = 1000
	c, err := NewCache[string](cfg)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	if _, replaced := c.Put(1, "a"); replaced {
		t.Errorf("first put reported a replaced value")
	}
	if v, ok := c.Peek(1); !ok || v != "a" {
		t.Errorf("peek after put returned %q, %t", v, ok)
	}
	if old, replaced := c.Put(1, "b"); !replaced || old != "a" {
		t.Errorf("second put returned %q, %t", old, replaced)
	}
	if v, ok := c.Peek(1); !ok || v != "b" {
		t.Errorf("peek after replace returned %q, %t", v, ok)
	}
	if !c.ContainsKey(1) {
		t.Errorf("key 1 not reported as resident")
	}
	if c.ContainsKey(2) {
		t.Errorf("key 2 reported as resident")
	}
	if got := c.GetMemory(1); got != 1 {
		t.Errorf("unexpected memory of key 1: %d", got)
	}
}

func TestCacheCountsHitsAndMisses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemory = 1000
	c, err := NewCache[int](cfg)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	c.Put(1, 10)
	if v, ok := c.Get(1); !ok || v != 10 {
		t.Errorf("get of a resident key returned %d, %t", v, ok)
	}
	if _, ok := c.Get(2); ok {
		t.Errorf("get of an absent key reported a hit")
	}
	if hits := c.GetHits(); hits != 1 {
		t.Errorf("unexpected hit count: %d", hits)
	}
	if misses := c.GetMisses(); misses != 1 {
		t.Errorf("unexpected miss count: %d", misses)
	}
}

// TestCacheScanResistance streams a large scan past a small repeatedly
// accessed working set. The working set must stay hot while most of the scan
// is pushed out.
func TestCacheScanResistance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemory = 100 * 1024
	c, err := NewCache[int64](cfg)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	readWorkingSet := func() {
		for k := int64(0); k < 16; k++ {
			c.Get(k)
		}
	}

	for k := int64(0); k < 16; k++ {
		c.PutSized(k, k, 1024)
	}
	rounds := 0
	for k := int64(16); k < 1000; k++ {
		c.PutSized(k, k, 1024)
		if k%100 == 0 {
			readWorkingSet()
			rounds++
		}
	}
	for ; rounds < 10; rounds++ {
		readWorkingSet()
	}

	// the working set survived the scan as hot entries
	stack := c.Keys(false, false)
	coldResident := c.Keys(true, false)
	nonResident := c.Keys(true, true)
	for k := int64(0); k < 16; k++ {
		if !c.ContainsKey(k) {
			t.Errorf("working set key %d was pushed out by the scan", k)
			continue
		}
		if !slices.Contains(stack, k) {
			t.Errorf("working set key %d is not on the stack", k)
		}
		if slices.Contains(coldResident, k) || slices.Contains(nonResident, k) {
			t.Errorf("working set key %d is cold", k)
		}
	}

	// after a memory pressure signal, at least 90% of the scanned keys are
	// gone
	c.DropUnreferenced()
	absent := 0
	for k := int64(200); k < 1000; k++ {
		if _, ok := c.Peek(k); !ok {
			absent++
		}
	}
	if absent < 720 {
		t.Errorf("only %d of 800 scanned keys absent after the scan", absent)
	}

	checkSegmentInvariants(t, c)
}

// TestCacheNonResidentSecondChance drives entries into the non-resident queue
// and verifies that a re-insert finds their demoted value.
func TestCacheNonResidentSecondChance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemory = 10
	cfg.SegmentCount = 1
	c, err := NewCache[int](cfg)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	for k := int64(0); k < 30; k++ {
		c.Put(k, 1000+int(k))
	}
	if c.SizeNonResident() == 0 {
		t.Fatalf("no entries were demoted to non-resident")
	}
	if c.ContainsKey(0) {
		t.Fatalf("key 0 is still resident")
	}

	old, replaced := c.Put(0, 2000)
	if !replaced || old != 1000 {
		t.Errorf("re-insert of a demoted key returned %d, %t", old, replaced)
	}
	if !c.ContainsKey(0) {
		t.Errorf("key 0 not resident after re-insert")
	}
	checkSegmentInvariants(t, c)
}

func TestCacheRemoveDropsResidentAndNonResidentEntries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemory = 10
	cfg.SegmentCount = 1
	c, err := NewCache[int](cfg)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	for k := int64(0); k < 30; k++ {
		c.Put(k, int(k))
	}

	// key 0 is non-resident by now, but its demoted value is still held
	if old, removed := c.Remove(0); !removed || old != 0 {
		t.Errorf("removing a non-resident key returned %d, %t", old, removed)
	}
	if _, ok := c.Peek(0); ok {
		t.Errorf("key 0 survived removal")
	}

	if old, removed := c.Remove(29); !removed || old != 29 {
		t.Errorf("removing a resident key returned %d, %t", old, removed)
	}
	if _, removed := c.Remove(29); removed {
		t.Errorf("removing an absent key reported a value")
	}
	checkSegmentInvariants(t, c)
}

func TestCacheViews(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemory = 1000
	c, err := NewCache[int](cfg)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	if !c.IsEmpty() {
		t.Errorf("new cache not empty")
	}
	c.PutAll(map[int64]int{1: 10, 2: 20, 3: 30})
	if c.IsEmpty() || c.Size() != 3 {
		t.Fatalf("unexpected size %d", c.Size())
	}

	keys := c.KeySet()
	for _, k := range []int64{1, 2, 3} {
		if _, exists := keys[k]; !exists {
			t.Errorf("key %d missing from key set", k)
		}
	}
	if len(keys) != 3 {
		t.Errorf("unexpected key set size %d", len(keys))
	}

	m := c.GetMap()
	if len(m) != 3 || m[2] != 20 {
		t.Errorf("unexpected map snapshot %v", m)
	}
	if got := len(c.Values()); got != 3 {
		t.Errorf("unexpected number of values %d", got)
	}
	if !ContainsValue(c, 30) {
		t.Errorf("value 30 not found")
	}
	if ContainsValue(c, 42) {
		t.Errorf("value 42 unexpectedly found")
	}
}

func TestCacheSetMaxMemory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemory = 1000
	c, err := NewCache[int](cfg)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	if err := c.SetMaxMemory(0); !errors.Is(err, common.ErrInvalidValue) {
		t.Errorf("expected invalid value error, got %v", err)
	}
	if err := c.SetMaxMemory(2000); err != nil {
		t.Errorf("set max memory failed: %v", err)
	}
	if got := c.GetMaxMemory(); got != 2000 {
		t.Errorf("unexpected max memory %d", got)
	}
}

func TestCacheResizesSegmentMaps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemory = 1 << 20
	cfg.SegmentCount = 4
	c, err := NewCache[int64](cfg)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	initial := c.SizeMapArray()
	for k := int64(0); k < 10_000; k++ {
		c.Put(k, k)
	}
	grown := c.SizeMapArray()
	if grown <= initial {
		t.Errorf("map array did not grow: %d -> %d", initial, grown)
	}
	for k := int64(0); k < 10_000; k++ {
		c.Remove(k)
	}
	shrunk := c.SizeMapArray()
	if shrunk >= grown {
		t.Errorf("map array did not shrink: %d -> %d", grown, shrunk)
	}
	checkSegmentInvariants(t, c)
}

func TestCacheClearDropsAllEntries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemory = 1000
	c, err := NewCache[int](cfg)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	for k := int64(0); k < 100; k++ {
		c.Put(k, int(k))
	}
	c.Get(1)
	c.Clear()
	if !c.IsEmpty() {
		t.Errorf("cache not empty after clear")
	}
	if c.GetUsedMemory() != 0 {
		t.Errorf("used memory not reset after clear")
	}
	if c.GetHits() != 0 || c.GetMisses() != 0 {
		t.Errorf("statistics survived clear")
	}
}

func TestCacheNonResidentQueueStaysBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemory = 64
	cfg.SegmentCount = 1
	c, err := NewCache[int64](cfg)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	for k := int64(0); k < 10_000; k++ {
		c.Put(k, k)
	}
	c.DropUnreferenced()
	c.TrimNonResidentQueue()
	if nr, resident := c.SizeNonResident(), c.Size(); nr > cfg.NonResidentQueueSize*resident {
		t.Errorf("non-resident queue exceeds the low watermark: %d > %d*%d",
			nr, cfg.NonResidentQueueSize, resident)
	}
	checkSegmentInvariants(t, c)
}

func TestCacheConcurrentSmoke(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMemory = 1024
	c, err := NewCache[int64](cfg)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			for i := int64(0); i < 5_000; i++ {
				k := (seed*7 + i) % 2048
				switch i % 4 {
				case 0, 1:
					c.Put(k, k)
				case 2:
					c.Get(k)
					c.Peek(k)
					c.ContainsKey(k)
				case 3:
					c.Remove(k)
					c.GetUsedMemory()
					c.Size()
				}
			}
		}(int64(g))
	}
	wg.Wait()
	checkSegmentInvariants(t, c)
}

// checkSegmentInvariants verifies the structural segment invariants: the map
// size matches the sum of the entry classes, the used memory matches the
// resident entry costs, and the stack tail is hot.
func checkSegmentInvariants[V any](t *testing.T, c *Cache[V]) {
	t.Helper()
	for i := range c.segments {
		s := c.segments[i].Load()
		s.mu.Lock()

		total, hot := 0, 0
		var used int64
		for b := range s.buckets {
			for e := s.buckets[b].Load(); e != nil; e = e.mapNext.Load() {
				total++
				used += int64(e.getMemory())
				if e.isHot() {
					hot++
				}
			}
		}
		if total != int(s.mapSize.Load()) {
			t.Errorf("segment %d: map size %d does not match %d chained entries",
				i, s.mapSize.Load(), total)
		}
		if used != s.usedMemory.Load() {
			t.Errorf("segment %d: used memory %d does not match resident costs %d",
				i, s.usedMemory.Load(), used)
		}
		if want := s.mapSize.Load() - s.queueSize.Load() - s.queue2Size.Load(); hot != int(want) {
			t.Errorf("segment %d: hot count %d does not match %d", i, hot, want)
		}
		if tail := s.stack.stackPrev; tail != s.stack && !tail.isHot() {
			t.Errorf("segment %d: stack tail is cold", i)
		}

		s.mu.Unlock()
	}
}
