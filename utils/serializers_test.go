package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"anglebelearn_go/engine"
	"anglebelearn_go/models"
)

func TestToSessionRecord(t *testing.T) {
	row := models.ClassSession{
		Date:        "15/07/2024",
		StudentID:   "AB - 2024 - 001",
		StudentName: "Rahul Mehta",
		TeacherID:   "AB - T - 001",
		TeacherName: "Priya Sharma",
		Level:       "9-10",
		Syllabus:    "IGCSE",
		ClassType:   "Regular",
		Hours:       1.5,
		SourceSheet: "Student class details",
	}

	rec := ToSessionRecord(row)
	if rec.StudentID != row.StudentID || rec.TeacherName != row.TeacherName {
		t.Fatalf("identity fields not carried over: %+v", rec)
	}
	if rec.RawLevel != "9-10" || rec.Board != "IGCSE" {
		t.Fatalf("level/board mapping wrong: %+v", rec)
	}
	if !rec.Hours.Equal(decimal.NewFromFloat(1.5)) {
		t.Fatalf("hours mismatch: %s", rec.Hours)
	}
}

func TestToRateRule(t *testing.T) {
	o := models.RateOverride{
		RuleID:   "igcse-8-10",
		Category: "standard",
		Board:    "IB_IGCSE",
		MinLevel: 8,
		MaxLevel: 10,
		Rate:     175,
		Formula:  "perHour",
	}

	rule := ToRateRule(o)
	if rule.Category != engine.CategoryStandard {
		t.Fatalf("expected standard category, got %s", rule.Category)
	}
	if rule.Board != engine.BoardIBIGCSE {
		t.Fatalf("expected IB_IGCSE board, got %s", rule.Board)
	}
	if rule.MinLevel != 8 || rule.MaxLevel != 10 {
		t.Fatalf("level range not preserved: %+v", rule)
	}
	if !rule.Rate.Equal(decimal.NewFromInt(175)) {
		t.Fatalf("rate mismatch: %s", rule.Rate)
	}
	if rule.Formula != engine.FormulaPerHour {
		t.Fatalf("formula mismatch: %s", rule.Formula)
	}
}

func TestToSlotAssignment(t *testing.T) {
	a := models.SlotAssignment{
		Weekday:   3,
		TimeSlot:  "4:00 PM - 5:00 PM",
		TeacherID: "AB - T - 001",
		StudentID: "AB - 2024 - 001",
		Status:    "confirmed",
	}

	slot := ToSlotAssignment(a)
	if slot.Weekday != time.Wednesday {
		t.Fatalf("expected Wednesday, got %s", slot.Weekday)
	}
	if slot.TimeSlot != a.TimeSlot || slot.TeacherID != a.TeacherID {
		t.Fatalf("slot fields not carried over: %+v", slot)
	}
}
