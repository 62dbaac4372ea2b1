package common

import (
	"strings"
	"testing"
)

func TestMemoryFootprintTotalIncludesChildren(t *testing.T) {
	mf := NewMemoryFootprint(100)
	mf.AddChild("index", NewMemoryFootprint(20))
	mf.AddChild("records", NewMemoryFootprint(300))
	if mf.Value() != 100 {
		t.Errorf("unexpected value: %d", mf.Value())
	}
	if mf.Total() != 420 {
		t.Errorf("unexpected total: %d", mf.Total())
	}
}

func TestMemoryFootprintSharedChildrenCountOnce(t *testing.T) {
	shared := NewMemoryFootprint(50)
	mf := NewMemoryFootprint(10)
	mf.AddChild("a", shared)
	mf.AddChild("b", shared)
	if mf.Total() != 60 {
		t.Errorf("shared child counted twice: %d", mf.Total())
	}
}

func TestMemoryFootprintStringListsChildren(t *testing.T) {
	mf := NewMemoryFootprint(1 << 20)
	mf.AddChild("index", NewMemoryFootprint(1<<10))
	str := mf.String()
	if !strings.Contains(str, "./index") {
		t.Errorf("child path missing in summary: %s", str)
	}
}
