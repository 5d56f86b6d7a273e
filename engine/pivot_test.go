package engine

import (
	"testing"
	"time"
)

func TestBuildPivotMergesSharedSlot(t *testing.T) {
	rows := []SlotAssignment{
		{Weekday: time.Monday, TimeSlot: "10:00", TeacherID: "t1", StudentID: "A", Status: "Active"},
		{Weekday: time.Monday, TimeSlot: "10:00", TeacherID: "t1", StudentID: "B", Status: "active"},
	}
	cells, err := BuildPivot(rows, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cells) != 1 {
		t.Fatalf("expected one merged cell, got %d", len(cells))
	}
	c := cells[0]
	if len(c.StudentIDs) != 2 || c.StudentIDs[0] != "A" || c.StudentIDs[1] != "B" {
		t.Fatalf("expected both students in encounter order, got %v", c.StudentIDs)
	}
}

func TestBuildPivotFilters(t *testing.T) {
	rows := []SlotAssignment{
		{Weekday: time.Monday, TimeSlot: "10:00", TeacherID: " T1 ", StudentID: "A", Status: "active"},
		{Weekday: time.Monday, TimeSlot: "10:00", TeacherID: "t2", StudentID: "B", Status: "active"},
		{Weekday: time.Tuesday, TimeSlot: "11:00", TeacherID: "t1", StudentID: "C", Status: "cancelled"},
		{Weekday: time.Tuesday, TimeSlot: "12:00", TeacherID: "t1", StudentID: "D", Status: ""},
	}
	cells, err := BuildPivot(rows, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d: %+v", len(cells), cells)
	}
	// Other teachers and cancelled rows are gone; a missing status counts as
	// active.
	if cells[0].StudentIDs[0] != "A" || cells[1].StudentIDs[0] != "D" {
		t.Fatalf("unexpected cells: %+v", cells)
	}
}

func TestBuildPivotCanonicalOrder(t *testing.T) {
	rows := []SlotAssignment{
		{Weekday: time.Saturday, TimeSlot: "09:00", TeacherID: "t1", StudentID: "A", Status: "active"},
		{Weekday: time.Sunday, TimeSlot: "09:00", TeacherID: "t1", StudentID: "B", Status: "active"},
		{Weekday: time.Wednesday, TimeSlot: "08:00", TeacherID: "t1", StudentID: "C", Status: "active"},
	}
	cells, err := BuildPivot(rows, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(cells))
	}
	// Sorted by slot first, then Sun..Sat within a slot.
	if cells[0].TimeSlot != "08:00" {
		t.Fatalf("expected earliest slot first, got %+v", cells[0])
	}
	if cells[1].Weekday != time.Sunday || cells[2].Weekday != time.Saturday {
		t.Fatalf("expected Sun before Sat for 09:00, got %+v", cells[1:])
	}
}

func TestBuildPivotNilInput(t *testing.T) {
	if _, err := BuildPivot(nil, "t1"); err == nil {
		t.Fatalf("expected error for nil rows")
	}
}
