package services

import (
	"testing"

	"anglebelearn_go/models"
)

func TestNormalizeMonth(t *testing.T) {
	tests := []struct {
		input string
		exp   string
	}{
		{input: "January", exp: "Jan"},
		{input: "jan", exp: "Jan"},
		{input: "JULY", exp: "Jul"},
		{input: " sep ", exp: "Sep"},
		{input: "September", exp: "Sep"},
		{input: "not a month", exp: "not a month"},
		{input: "", exp: ""},
	}

	for _, tc := range tests {
		if got := normalizeMonth(tc.input); got != tc.exp {
			t.Fatalf("normalizeMonth(%q) = %q, expected %q", tc.input, got, tc.exp)
		}
	}
}

func TestVerifyClaimedName(t *testing.T) {
	if verifyClaimedName("", "Priya Sharma") {
		t.Fatalf("empty claim must never pass")
	}
	if verifyClaimedName("   ", "Priya Sharma") {
		t.Fatalf("whitespace claim must never pass")
	}
	if !verifyClaimedName("Priya", "Priya Sharma") {
		t.Fatalf("valid claim rejected")
	}
	if verifyClaimedName("Arjun", "Priya Sharma") {
		t.Fatalf("mismatched claim accepted")
	}
	// Students verify with a name fragment the same way teachers do
	if !verifyClaimedName("Rahul", "Rahul Mehta") {
		t.Fatalf("valid student fragment rejected")
	}
	if verifyClaimedName("Ananya", "Rahul Mehta") {
		t.Fatalf("wrong student name accepted")
	}
}

func TestFirstSupalearnPassword(t *testing.T) {
	rows := []models.ClassSession{
		{StudentID: "ab - 2024 - 001"},
		{StudentID: "ab - 2024 - 001", SupalearnPassword: "sply-4821"},
		{StudentID: "ab - 2024 - 001", SupalearnPassword: "stale-later-value"},
	}
	if got := firstSupalearnPassword(rows); got != "sply-4821" {
		t.Fatalf("expected first non-empty password, got %q", got)
	}
	if got := firstSupalearnPassword(nil); got != "" {
		t.Fatalf("expected empty for no rows, got %q", got)
	}
}
