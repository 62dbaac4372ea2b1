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
	"strings"
	"testing"
)

func newSoftLru(t *testing.T, w Writer, maxMemoryKb int) *secondLevel {
	t.Helper()
	c, err := New(w, "SOFT_LRU", maxMemoryKb)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	return c.(*secondLevel)
}

func TestSecondLevelGivesEvictedRecordsASecondChance(t *testing.T) {
	w := &recordingWriter{}
	c := newSoftLru(t, w, 16)
	for i := int32(0); i < 20; i++ {
		if err := c.Put(newTestRecord(i, int(i), 1024)); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}
	// records 0..3 were evicted from the base cache
	if !strings.HasPrefix(w.out.String(), "flush 0 ") {
		t.Fatalf("unexpected writer log: %q", w.out.String())
	}
	if c.base.Find(0) != nil {
		t.Fatalf("record 0 still resides in the base cache")
	}

	// the evicted record is still found and a get promotes it back
	if rec := c.Find(0); rec == nil {
		t.Errorf("evicted record lost by the soft tier")
	}
	rec := c.Get(0)
	if rec == nil {
		t.Fatalf("evicted record not served by the soft tier")
	}
	if c.base.Find(0) != rec {
		t.Errorf("accessed record was not promoted into the base cache")
	}
	checkConsistency(t, c)
}

func TestSecondLevelReleaseMemoryDropsSoftTier(t *testing.T) {
	w := &recordingWriter{}
	c := newSoftLru(t, w, 16)
	for i := int32(0); i < 20; i++ {
		if err := c.Put(newTestRecord(i, int(i), 1024)); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}
	c.ReleaseMemory()
	if rec := c.Get(0); rec != nil {
		t.Errorf("evicted record survived the memory pressure signal: %v", rec)
	}
	// records resident in the base cache are not affected
	if rec := c.Get(19); rec == nil {
		t.Errorf("resident record lost by the memory pressure signal")
	}
}

func TestSecondLevelRemoveDropsBothTiers(t *testing.T) {
	c := newSoftLru(t, &recordingWriter{}, 16)
	for i := int32(0); i < 20; i++ {
		if err := c.Put(newTestRecord(i, int(i), 1024)); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}
	// record 0 lives in the soft tier only
	if !c.Remove(0) {
		t.Errorf("removing an evicted record reported false")
	}
	if rec := c.Get(0); rec != nil {
		t.Errorf("record survived removal: %v", rec)
	}
	// record 19 lives in both tiers
	if !c.Remove(19) {
		t.Errorf("removing a resident record reported false")
	}
	if rec := c.Get(19); rec != nil {
		t.Errorf("record survived removal: %v", rec)
	}
	if c.Remove(42) {
		t.Errorf("removing an absent record reported true")
	}
}

func TestSecondLevelReportsChangedRecordsOfBaseOnly(t *testing.T) {
	c := newSoftLru(t, &recordingWriter{}, 16)
	for i := int32(0); i < 20; i++ {
		if err := c.Put(newTestRecord(i, int(i), 1024)); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}
	for _, rec := range c.GetAllChanged() {
		if c.base.Find(rec.Pos()) == nil {
			t.Errorf("changed record %d is not resident in the base cache", rec.Pos())
		}
	}
}
