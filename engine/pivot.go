package engine

import (
	"sort"
	"strings"
	"time"
)

// SlotAssignment is one row of the per-weekday timetable sheets: a student
// booked into a teacher's time slot. Status is freeform; only "active" rows
// (or rows with no status at all) count.
type SlotAssignment struct {
	Weekday   time.Weekday `json:"weekday"`
	TimeSlot  string       `json:"time_slot"`
	TeacherID string       `json:"teacher_id"`
	StudentID string       `json:"student_id"`
	Status    string       `json:"status"`
}

// ScheduleCell is one cell of a teacher's weekly pivot. Several students can
// legitimately share a slot, so StudentIDs keeps every booking in encounter
// order instead of letting the last row win.
type ScheduleCell struct {
	TimeSlot   string       `json:"time_slot"`
	Weekday    time.Weekday `json:"weekday"`
	StudentIDs []string     `json:"student_ids"`
}

// BuildPivot filters the week's slot assignments down to one teacher and
// folds them into (time slot, weekday) cells. Teacher matching is trimmed and
// case-insensitive. Cells come back sorted by time slot, then weekday
// Sun..Sat, so a full 7-day grid renders in canonical order however the rows
// arrived; days with no bookings simply have no cells.
func BuildPivot(rows []SlotAssignment, teacherID string) ([]ScheduleCell, error) {
	if rows == nil {
		return nil, ErrNilInput
	}

	want := strings.ToLower(strings.TrimSpace(teacherID))

	type cellKey struct {
		slot string
		day  time.Weekday
	}
	cells := make(map[cellKey]*ScheduleCell)
	var order []cellKey

	for _, r := range rows {
		if strings.ToLower(strings.TrimSpace(r.TeacherID)) != want {
			continue
		}
		if r.Status != "" && !strings.EqualFold(strings.TrimSpace(r.Status), "active") {
			continue
		}
		k := cellKey{slot: strings.TrimSpace(r.TimeSlot), day: r.Weekday}
		c, ok := cells[k]
		if !ok {
			c = &ScheduleCell{TimeSlot: k.slot, Weekday: k.day}
			cells[k] = c
			order = append(order, k)
		}
		c.StudentIDs = append(c.StudentIDs, strings.TrimSpace(r.StudentID))
	}

	out := make([]ScheduleCell, 0, len(order))
	for _, k := range order {
		out = append(out, *cells[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TimeSlot != out[j].TimeSlot {
			return out[i].TimeSlot < out[j].TimeSlot
		}
		return out[i].Weekday < out[j].Weekday
	})
	return out, nil
}
