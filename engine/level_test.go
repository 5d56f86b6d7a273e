package engine

import "testing"

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Level
	}{
		{name: "plain integer", input: "7", want: Level{Kind: LevelNumeric, Number: 7}},
		{name: "padded integer", input: "  12 ", want: Level{Kind: LevelNumeric, Number: 12}},
		{name: "named kindergarten", input: "LKG", want: Level{Kind: LevelNamed, Name: "LKG"}},
		{name: "named lowercase", input: "lkg", want: Level{Kind: LevelNamed, Name: "LKG"}},
		{name: "range maps to upper bound", input: "1-10", want: Level{Kind: LevelNumeric, Number: 10}},
		{name: "senior range", input: "11-12", want: Level{Kind: LevelNumeric, Number: 12}},
		{name: "range with spaces", input: "11 - 12", want: Level{Kind: LevelNumeric, Number: 12}},
		{name: "empty", input: "", want: Level{Kind: LevelUnknown}},
		{name: "garbage", input: "n/a", want: Level{Kind: LevelUnknown}},
		{name: "zero is not a grade", input: "0", want: Level{Kind: LevelUnknown}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeLevel(tc.input)
			if got != tc.want {
				t.Fatalf("NormalizeLevel(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if s := (Level{Kind: LevelNumeric, Number: 9}).String(); s != "9" {
		t.Fatalf("expected 9, got %s", s)
	}
	if s := (Level{Kind: LevelNamed, Name: "LKG"}).String(); s != "LKG" {
		t.Fatalf("expected LKG, got %s", s)
	}
	if s := (Level{Kind: LevelUnknown}).String(); s != "unknown" {
		t.Fatalf("expected unknown, got %s", s)
	}
}
