package engine

import (
	"sort"
	"strings"
)

// DuplicateKey selects which fields define a duplicate. Both semantics are in
// use: admins review "same student logged twice on a date", teachers review
// "same student-teacher pair logged twice".
type DuplicateKey int

const (
	KeyDateStudent DuplicateKey = iota
	KeyDateStudentTeacher
)

// DuplicateGroup is a set of session records sharing one duplicate key.
// Members holds positions in the input slice, in input order. Groups only
// flag; resolving or deleting rows is a human decision downstream.
type DuplicateGroup struct {
	Date        string `json:"date"`
	StudentID   string `json:"student_id"`
	TeacherName string `json:"teacher_name,omitempty"`
	Members     []int  `json:"members"`
}

// FindDuplicates groups sessions by the chosen key and returns every group
// with two or more members. Dates are grouped by their raw string literal:
// the source pipeline leaves unparseable dates opaque, and coercing them here
// could silently merge genuinely different malformed values. Student and
// teacher fields are compared trimmed and case-insensitively, matching how
// the sheets are filtered everywhere else.
func FindDuplicates(sessions []SessionRecord, key DuplicateKey) ([]DuplicateGroup, error) {
	if sessions == nil {
		return nil, ErrNilInput
	}

	type bucket struct {
		first   int
		members []int
	}
	buckets := make(map[string]*bucket)

	for i, s := range sessions {
		parts := []string{
			s.Date,
			strings.ToLower(strings.TrimSpace(s.StudentID)),
		}
		if key == KeyDateStudentTeacher {
			parts = append(parts, strings.ToLower(strings.TrimSpace(s.TeacherName)))
		}
		k := strings.Join(parts, "\x1f")
		b, ok := buckets[k]
		if !ok {
			b = &bucket{first: i}
			buckets[k] = b
		}
		b.members = append(b.members, i)
	}

	var groups []DuplicateGroup
	for _, b := range buckets {
		if len(b.members) < 2 {
			continue
		}
		first := sessions[b.first]
		g := DuplicateGroup{
			Date:      first.Date,
			StudentID: strings.TrimSpace(first.StudentID),
			Members:   b.members,
		}
		if key == KeyDateStudentTeacher {
			g.TeacherName = strings.TrimSpace(first.TeacherName)
		}
		groups = append(groups, g)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Date != groups[j].Date {
			return groups[i].Date < groups[j].Date
		}
		if groups[i].StudentID != groups[j].StudentID {
			return groups[i].StudentID < groups[j].StudentID
		}
		return groups[i].TeacherName < groups[j].TeacherName
	})
	return groups, nil
}
