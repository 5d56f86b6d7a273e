package services

import (
	"testing"
	"time"
)

func TestMapHeaderIndexes(t *testing.T) {
	header := []string{"Date", " Student ID ", "", "Teacher Name", "HOURS"}
	col := MapHeaderIndexes(header)

	if col["date"] != 0 {
		t.Fatalf("expected date at 0, got %d", col["date"])
	}
	if col["student id"] != 1 {
		t.Fatalf("expected trimmed 'student id' at 1, got %d", col["student id"])
	}
	if col["hours"] != 4 {
		t.Fatalf("expected lowercased 'hours' at 4, got %d", col["hours"])
	}
	if _, ok := col[""]; ok {
		t.Fatalf("blank headers must not be indexed")
	}
}

func TestCellValue(t *testing.T) {
	col := MapHeaderIndexes([]string{"date", "student id", "name of student"})
	row := []string{"15/07/2024", "", "Rahul Mehta"}

	if got := cellValue(col, row, "student id", "name of student"); got != "Rahul Mehta" {
		t.Fatalf("expected fallback to second candidate, got %q", got)
	}
	if got := cellValue(col, row, "date"); got != "15/07/2024" {
		t.Fatalf("unexpected date cell: %q", got)
	}
	if got := cellValue(col, row[:1], "student id"); got != "" {
		t.Fatalf("short row must yield empty string, got %q", got)
	}
	if got := cellValue(col, row, "missing header"); got != "" {
		t.Fatalf("unknown header must yield empty string, got %q", got)
	}
}

func TestCellValueLiveSheetHeaders(t *testing.T) {
	// Header row as the "Student class details" sheet actually titles it
	header := []string{
		"Date", "MM", "Year", "Student id", "Student", "Teachers ID",
		"Teachers Name", "Class", "Syllabus", "Type of class", "Subject",
		"Chapter taken", "Hr", "Supalearn Password",
	}
	row := []string{
		"15/07/2024", "Jul", "2024", "ab - 2024 - 001", "Rahul Mehta",
		"AB - T - 001", "Priya Sharma", "9", "IGCSE", "Regular", "Maths",
		"Quadratics", "1.5", "sply-4821",
	}
	col := MapHeaderIndexes(header)

	tests := []struct {
		name string
		keys []string
		exp  string
	}{
		{name: "student name", keys: []string{"student name", "student"}, exp: "Rahul Mehta"},
		{name: "teacher id", keys: []string{"teacher id", "teachers id"}, exp: "AB - T - 001"},
		{name: "teacher name", keys: []string{"teacher name", "teachers name"}, exp: "Priya Sharma"},
		{name: "class type", keys: []string{"class type", "type of class"}, exp: "Regular"},
		{name: "hours", keys: []string{"hours", "hr"}, exp: "1.5"},
		{name: "month", keys: []string{"mm", "month"}, exp: "Jul"},
		{name: "supalearn password", keys: []string{"supalearn password"}, exp: "sply-4821"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := cellValue(col, row, tc.keys...); got != tc.exp {
				t.Fatalf("expected %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestCellValueStudentRegisterHeaders(t *testing.T) {
	// The "Student Data" register titles the EM columns plain "EM" / "EM Phone"
	col := MapHeaderIndexes([]string{"Student id", "Student", "EM", "EM Phone"})
	row := []string{"ab - 2024 - 001", "Rahul Mehta", "Kavita Iyer", "98201 44770"}

	if got := cellValue(col, row, "em name", "em"); got != "Kavita Iyer" {
		t.Fatalf("expected EM name, got %q", got)
	}
	if got := cellValue(col, row, "em phone", "phone number", "em phone number"); got != "98201 44770" {
		t.Fatalf("expected EM phone, got %q", got)
	}
	if got := cellValue(col, row, "student name", "student", "name"); got != "Rahul Mehta" {
		t.Fatalf("expected student name, got %q", got)
	}
}

func TestParseSheetDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		exp   string
	}{
		{name: "day first slashes", input: "15/07/2024", exp: "2024-07-15"},
		{name: "single digit day and month", input: "4/7/2024", exp: "2024-07-04"},
		{name: "iso date", input: "2024-07-15", exp: "2024-07-15"},
		{name: "day first dashes", input: "15-07-2024", exp: "2024-07-15"},
		{name: "two digit year", input: "15/7/24", exp: "2024-07-15"},
		{name: "padded input", input: "  15/07/2024 ", exp: "2024-07-15"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := ParseSheetDate(tc.input)
			if got == nil {
				t.Fatalf("expected a parsed date for %q", tc.input)
			}
			if got.Format("2006-01-02") != tc.exp {
				t.Fatalf("expected %s, got %s", tc.exp, got.Format("2006-01-02"))
			}
		})
	}
}

func TestParseSheetDateInvalid(t *testing.T) {
	for _, input := range []string{"", "not a date", "32/13/2024"} {
		if got := ParseSheetDate(input); got != nil {
			t.Fatalf("expected nil for %q, got %s", input, got.Format(time.RFC3339))
		}
	}
}
