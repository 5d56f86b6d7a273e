package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func pricedFixture(t *testing.T) []PricedSession {
	t.Helper()
	sessions := []SessionRecord{
		session("4", "IGCSE", "Regular", 2),
		session("11", "IB", "Regular", 1),
		session("7", "CBSE", "Regular", 1.5),
		session("n/a", "", "Regular", 2),
	}
	sessions[1].TeacherID = "t2"
	sessions[1].TeacherName = "Teacher Two"
	sessions[2].StudentID = "s2"
	sessions[3].Date = "08/05/2024"

	priced, err := PriceAll(sessions, DefaultSchedule())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return priced
}

func TestAggregateConservation(t *testing.T) {
	priced := pricedFixture(t)
	want := TotalAmount(priced)

	for _, dim := range []Dimension{ByTeacher, ByLevelBoardType, ByISOWeek, ByStudent} {
		buckets, err := Aggregate(priced, dim)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := decimal.Zero
		members := 0
		for _, b := range buckets {
			got = got.Add(b.TotalAmount)
			members += b.Members
		}
		if !got.Equal(want) {
			t.Fatalf("dimension %d: bucket totals %s != session totals %s", dim, got, want)
		}
		if members != len(priced) {
			t.Fatalf("dimension %d: bucket members %d != %d sessions", dim, members, len(priced))
		}
	}
}

func TestAggregateOrderIndependence(t *testing.T) {
	priced := pricedFixture(t)
	shuffled := []PricedSession{priced[3], priced[1], priced[0], priced[2]}

	a, err := Aggregate(priced, ByTeacher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Aggregate(shuffled, ByTeacher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("bucket counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Key[0] != b[i].Key[0] || !a[i].TotalAmount.Equal(b[i].TotalAmount) || a[i].Members != b[i].Members {
			t.Fatalf("bucket %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestAggregateByTeacherGroups(t *testing.T) {
	priced := pricedFixture(t)
	buckets, err := Aggregate(priced, ByTeacher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 teacher buckets, got %d", len(buckets))
	}
	// Sorted by key: t1 before t2.
	if buckets[0].Key[0] != "t1" || buckets[0].Members != 3 {
		t.Fatalf("unexpected t1 bucket: %+v", buckets[0])
	}
	if buckets[1].Key[0] != "t2" || buckets[1].Members != 1 {
		t.Fatalf("unexpected t2 bucket: %+v", buckets[1])
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	buckets, err := Aggregate([]PricedSession{}, ByStudent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 0 {
		t.Fatalf("expected no buckets, got %d", len(buckets))
	}
	if _, err := Aggregate(nil, ByStudent); err == nil {
		t.Fatalf("expected error for nil input")
	}
}

func TestISOWeekKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "dd/mm/yyyy", input: "01/05/2024", want: "2024-W18"},
		{name: "iso", input: "2024-05-01", want: "2024-W18"},
		{name: "year boundary", input: "2024-12-30", want: "2025-W01"},
		{name: "malformed keeps literal", input: "sometime in may", want: "sometime in may"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := ISOWeekKey(tc.input); got != tc.want {
				t.Fatalf("ISOWeekKey(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
