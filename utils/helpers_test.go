package utils

import "testing"

func TestTeacherNameMatches(t *testing.T) {
	tests := []struct {
		name    string
		claimed string
		stored  string
		exp     bool
	}{
		{
			name:    "exact match",
			claimed: "Priya Sharma",
			stored:  "Priya Sharma",
			exp:     true,
		},
		{
			name:    "case insensitive",
			claimed: "priya SHARMA",
			stored:  "Priya Sharma",
			exp:     true,
		},
		{
			name:    "honorific ignored",
			claimed: "Ms. Priya",
			stored:  "Priya Sharma",
			exp:     true,
		},
		{
			name:    "single part of full name",
			claimed: "Sharma",
			stored:  "Priya Sharma",
			exp:     true,
		},
		{
			name:    "wrong teacher",
			claimed: "Arjun Nair",
			stored:  "Priya Sharma",
			exp:     false,
		},
		{
			name:    "one part wrong",
			claimed: "Priya Nair",
			stored:  "Priya Sharma",
			exp:     false,
		},
		{
			name:    "only short parts",
			claimed: "Ms. P",
			stored:  "Priya Sharma",
			exp:     false,
		},
		{
			name:    "empty stored name",
			claimed: "Priya",
			stored:  "",
			exp:     false,
		},
		{
			name:    "empty claimed name",
			claimed: "",
			stored:  "Priya Sharma",
			exp:     false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := TeacherNameMatches(tc.claimed, tc.stored); got != tc.exp {
				t.Fatalf("TeacherNameMatches(%q, %q) = %v, expected %v", tc.claimed, tc.stored, got, tc.exp)
			}
		})
	}
}

func TestNormalizeSheetID(t *testing.T) {
	if got := NormalizeSheetID("  AB - T - 001 "); got != "ab - t - 001" {
		t.Fatalf("unexpected normalized id: %q", got)
	}
	if got := NormalizeSheetID(""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
