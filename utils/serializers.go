package utils

import (
	"time"

	"github.com/shopspring/decimal"

	"anglebelearn_go/engine"
	"anglebelearn_go/models"
)

// Compact representations used across APIs
type TeacherShort struct {
	ID        uint   `json:"id"`
	TeacherID string `json:"teacher_id"`
	Name      string `json:"name,omitempty"`
}

type StudentShort struct {
	ID        uint   `json:"id"`
	StudentID string `json:"student_id"`
	Name      string `json:"name,omitempty"`
	EMName    string `json:"em_name,omitempty"`
	EMPhone   string `json:"em_phone,omitempty"`
}

type SessionDTO struct {
	ID           uint      `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Date         string    `json:"date"`
	Month        string    `json:"month"`
	Year         string    `json:"year"`
	StudentID    string    `json:"student_id"`
	StudentName  string    `json:"student_name,omitempty"`
	TeacherID    string    `json:"teacher_id"`
	TeacherName  string    `json:"teacher_name,omitempty"`
	Level        string    `json:"level"`
	Syllabus     string    `json:"syllabus,omitempty"`
	ClassType    string    `json:"class_type,omitempty"`
	Subject      string    `json:"subject,omitempty"`
	ChapterTaken string    `json:"chapter_taken,omitempty"`
	Hours        float64   `json:"hours"`
	SourceSheet  string    `json:"source_sheet,omitempty"`
}

// ToSessionDTO maps a stored session row to the compact API representation
func ToSessionDTO(s models.ClassSession) SessionDTO {
	return SessionDTO{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		Date:         s.Date,
		Month:        s.Month,
		Year:         s.Year,
		StudentID:    s.StudentID,
		StudentName:  s.StudentName,
		TeacherID:    s.TeacherID,
		TeacherName:  s.TeacherName,
		Level:        s.Level,
		Syllabus:     s.Syllabus,
		ClassType:    s.ClassType,
		Subject:      s.Subject,
		ChapterTaken: s.ChapterTaken,
		Hours:        s.Hours,
		SourceSheet:  s.SourceSheet,
	}
}

// ToSessionRecord maps a stored session row into the pricing engine's input
func ToSessionRecord(s models.ClassSession) engine.SessionRecord {
	return engine.SessionRecord{
		Date:        s.Date,
		StudentID:   s.StudentID,
		StudentName: s.StudentName,
		TeacherID:   s.TeacherID,
		TeacherName: s.TeacherName,
		RawLevel:    s.Level,
		Board:       s.Syllabus,
		ClassType:   s.ClassType,
		Hours:       decimal.NewFromFloat(s.Hours),
		SourceSheet: s.SourceSheet,
	}
}

// ToSessionRecords maps a batch of stored rows, preserving order so priced
// results can be joined back by index
func ToSessionRecords(rows []models.ClassSession) []engine.SessionRecord {
	out := make([]engine.SessionRecord, len(rows))
	for i, r := range rows {
		out[i] = ToSessionRecord(r)
	}
	return out
}

// ToSlotAssignment maps a timetable row into the pivot engine's input
func ToSlotAssignment(a models.SlotAssignment) engine.SlotAssignment {
	return engine.SlotAssignment{
		Weekday:   time.Weekday(a.Weekday),
		TimeSlot:  a.TimeSlot,
		TeacherID: a.TeacherID,
		StudentID: a.StudentID,
		Status:    a.Status,
	}
}

// ToSlotAssignments maps a batch of timetable rows
func ToSlotAssignments(rows []models.SlotAssignment) []engine.SlotAssignment {
	out := make([]engine.SlotAssignment, len(rows))
	for i, r := range rows {
		out[i] = ToSlotAssignment(r)
	}
	return out
}

// ToRateRule maps a stored override row into an engine rule. Rates are
// entered by admins as plain numbers; decimal conversion happens here so the
// engine never sees floats.
func ToRateRule(o models.RateOverride) engine.RateRule {
	return engine.RateRule{
		ID:       o.RuleID,
		Category: engine.Category(o.Category),
		Board:    engine.BoardGroup(o.Board),
		MinLevel: o.MinLevel,
		MaxLevel: o.MaxLevel,
		Rate:     decimal.NewFromFloat(o.Rate),
		Formula:  engine.Formula(o.Formula),
	}
}

// ToTeacherShort maps a teacher row to its compact form
func ToTeacherShort(t models.Teacher) TeacherShort {
	return TeacherShort{ID: t.ID, TeacherID: t.TeacherID, Name: t.Name}
}

// ToStudentShort maps a student row to its compact form including the EM
// (point-of-contact) details
func ToStudentShort(s models.Student) StudentShort {
	return StudentShort{
		ID:        s.ID,
		StudentID: s.StudentID,
		Name:      s.Name,
		EMName:    s.EMName,
		EMPhone:   s.EMPhone,
	}
}
