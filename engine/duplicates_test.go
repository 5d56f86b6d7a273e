package engine

import "testing"

func TestFindDuplicatesByDateStudent(t *testing.T) {
	sessions := []SessionRecord{
		{Date: "2024-05-01", StudentID: "s1", TeacherName: "Alice"},
		{Date: "2024-05-01", StudentID: "s1", TeacherName: "Bob"},
		{Date: "2024-05-01", StudentID: "s2", TeacherName: "Alice"},
	}

	groups, err := FindDuplicates(sessions, KeyDateStudent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected exactly one group, got %d", len(groups))
	}
	g := groups[0]
	if g.Date != "2024-05-01" || g.StudentID != "s1" {
		t.Fatalf("unexpected group key: %+v", g)
	}
	if len(g.Members) != 2 || g.Members[0] != 0 || g.Members[1] != 1 {
		t.Fatalf("expected members [0 1], got %v", g.Members)
	}
}

func TestFindDuplicatesTeacherKeySplitsGroups(t *testing.T) {
	sessions := []SessionRecord{
		{Date: "2024-05-01", StudentID: "s1", TeacherName: "Alice"},
		{Date: "2024-05-01", StudentID: "s1", TeacherName: "Bob"},
		{Date: "2024-05-01", StudentID: "s1", TeacherName: "alice "},
	}

	groups, err := FindDuplicates(sessions, KeyDateStudentTeacher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Alice appears twice (case/whitespace folded); Bob's single row is not
	// a duplicate.
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}
	if groups[0].TeacherName != "Alice" {
		t.Fatalf("expected Alice group, got %q", groups[0].TeacherName)
	}
	if len(groups[0].Members) != 2 {
		t.Fatalf("expected 2 members, got %v", groups[0].Members)
	}
}

func TestFindDuplicatesKeepsMalformedDatesApart(t *testing.T) {
	sessions := []SessionRecord{
		{Date: "1/5/24???", StudentID: "s1"},
		{Date: "05-01-2024", StudentID: "s1"},
	}
	groups, err := FindDuplicates(sessions, KeyDateStudent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("different raw date literals must not merge, got %+v", groups)
	}
}

func TestFindDuplicatesNilInput(t *testing.T) {
	if _, err := FindDuplicates(nil, KeyDateStudent); err == nil {
		t.Fatalf("expected error for nil input")
	}
}
