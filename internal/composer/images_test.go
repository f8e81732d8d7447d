package composer

import (
	"errors"
	"fmt"
	"testing"
)

func localEntry(n int) ImageEntry {
	return NewLocalEntry(fmt.Sprintf("staged-%d", n), fmt.Sprintf("/uploads/staged-%d.jpg", n))
}

func TestAddEntriesRespectsCap(t *testing.T) {
	g := NewImageGroup(GroupProject)
	for i := 0; i < MaxGroupSize; i++ {
		if err := g.AddEntries(localEntry(i)); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	if g.Len() != MaxGroupSize {
		t.Fatalf("expected %d entries, got %d", MaxGroupSize, g.Len())
	}

	err := g.AddEntries(localEntry(10))
	if !errors.Is(err, ErrGroupFull) {
		t.Fatalf("expected ErrGroupFull, got %v", err)
	}
	if g.Len() != MaxGroupSize {
		t.Fatalf("rejected add changed length to %d", g.Len())
	}
}

func TestAddEntriesRejectsWholeBatchOverCap(t *testing.T) {
	g := NewImageGroup(GroupFloor)
	for i := 0; i < 8; i++ {
		if err := g.AddEntries(localEntry(i)); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	err := g.AddEntries(localEntry(8), localEntry(9), localEntry(10))
	if !errors.Is(err, ErrGroupFull) {
		t.Fatalf("expected ErrGroupFull, got %v", err)
	}
	if g.Len() != 8 {
		t.Fatalf("expected 8 entries after rejected batch, got %d", g.Len())
	}
}

func TestFirstAddBecomesMain(t *testing.T) {
	g := NewImageGroup(GroupAmenity)
	if g.MainIndex != -1 {
		t.Fatalf("empty group should have no main, got %d", g.MainIndex)
	}
	if err := g.AddEntries(localEntry(0), localEntry(1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if g.MainIndex != 0 {
		t.Fatalf("expected main at 0, got %d", g.MainIndex)
	}
}

func TestRemoveMainShiftsToFirst(t *testing.T) {
	g := NewImageGroup(GroupProject)
	if err := g.AddEntries(localEntry(0), localEntry(1), localEntry(2)); err != nil {
		t.Fatalf("add: %v", err)
	}
	g.SetMain(2)

	removed, err := g.RemoveAt(2)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.StagedID != "staged-2" {
		t.Fatalf("unexpected removed entry: %+v", removed)
	}
	if g.MainIndex != 0 {
		t.Fatalf("expected main to shift to 0, got %d", g.MainIndex)
	}
}

func TestRemoveBeforeMainDecrementsMain(t *testing.T) {
	g := NewImageGroup(GroupProject)
	if err := g.AddEntries(localEntry(0), localEntry(1), localEntry(2)); err != nil {
		t.Fatalf("add: %v", err)
	}
	g.SetMain(2)

	if _, err := g.RemoveAt(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if g.MainIndex != 1 {
		t.Fatalf("expected main to follow entry to index 1, got %d", g.MainIndex)
	}
	if g.Entries[g.MainIndex].StagedID != "staged-2" {
		t.Fatalf("main no longer points at the same logical entry")
	}
}

func TestRemoveLastEntryClearsMain(t *testing.T) {
	g := NewImageGroup(GroupFloor)
	if err := g.AddEntries(localEntry(0)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := g.RemoveAt(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if g.Len() != 0 || g.MainIndex != -1 {
		t.Fatalf("expected empty group with no main, got len=%d main=%d", g.Len(), g.MainIndex)
	}
}

func TestRemoveMainThenAddNeverYieldsTwoMains(t *testing.T) {
	g := NewImageGroup(GroupProject)
	if err := g.AddEntries(localEntry(0), localEntry(1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := g.RemoveAt(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := g.AddEntries(localEntry(2)); err != nil {
		t.Fatalf("add: %v", err)
	}

	mains := 0
	for i := range g.Entries {
		if g.IsMain(i) {
			mains++
		}
	}
	if mains != 1 {
		t.Fatalf("expected exactly one main, got %d", mains)
	}
}

func TestSetMainOutOfRangeIsNoop(t *testing.T) {
	g := NewImageGroup(GroupAmenity)
	if err := g.AddEntries(localEntry(0)); err != nil {
		t.Fatalf("add: %v", err)
	}
	g.SetMain(5)
	if g.MainIndex != 0 {
		t.Fatalf("expected main unchanged at 0, got %d", g.MainIndex)
	}
	g.SetMain(-1)
	if g.MainIndex != 0 {
		t.Fatalf("expected main unchanged at 0, got %d", g.MainIndex)
	}
}

func TestRemoveAtOutOfRange(t *testing.T) {
	g := NewImageGroup(GroupProject)
	if _, err := g.RemoveAt(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestStagedIDsSkipsRemoteEntries(t *testing.T) {
	g := NewImageGroup(GroupProject)
	if err := g.AddEntries(localEntry(0), NewRemoteEntry("https://cdn.example.com/a.jpg"), localEntry(1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	ids := g.StagedIDs()
	if len(ids) != 2 || ids[0] != "staged-0" || ids[1] != "staged-1" {
		t.Fatalf("unexpected staged ids: %v", ids)
	}
}
