package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func session(level, board, classType string, hours float64) SessionRecord {
	return SessionRecord{
		Date:        "01/05/2024",
		StudentID:   "s1",
		StudentName: "Student One",
		TeacherID:   "t1",
		TeacherName: "Teacher One",
		RawLevel:    level,
		Board:       board,
		ClassType:   classType,
		Hours:       decimal.NewFromFloat(hours),
	}
}

func TestPriceStandardTierBoundaries(t *testing.T) {
	tests := []struct {
		level string
		board string
		rate  int64
		rule  string
	}{
		{level: "4", board: "IGCSE", rate: 120, rule: "std-ib-1-4"},
		{level: "5", board: "IGCSE", rate: 150, rule: "std-ib-5-7"},
		{level: "7", board: "IB", rate: 150, rule: "std-ib-5-7"},
		{level: "8", board: "IB", rate: 170, rule: "std-ib-8-10"},
		{level: "10", board: "IGCSE", rate: 170, rule: "std-ib-8-10"},
		{level: "11", board: "IGCSE", rate: 200, rule: "std-ib-11-13"},
		{level: "13", board: "IB", rate: 200, rule: "std-ib-11-13"},
		{level: "4", board: "CBSE", rate: 120, rule: "std-other-1-4"},
		{level: "10", board: "", rate: 150, rule: "std-other-5-10"},
		{level: "12", board: "CBSE", rate: 180, rule: "std-other-11-12"},
	}

	schedule := DefaultSchedule()
	for _, tc := range tests {
		tc := tc
		t.Run(tc.board+"-"+tc.level, func(t *testing.T) {
			p := Price(session(tc.level, tc.board, "Regular", 1), schedule)
			if p.Warning != "" {
				t.Fatalf("unexpected warning %q", p.Warning)
			}
			if p.MatchedRule != tc.rule {
				t.Fatalf("expected rule %s, got %s", tc.rule, p.MatchedRule)
			}
			if !p.Amount.Equal(decimal.NewFromInt(tc.rate)) {
				t.Fatalf("expected amount %d, got %s", tc.rate, p.Amount)
			}
		})
	}
}

func TestPriceAboveTopBandIsUnclassified(t *testing.T) {
	p := Price(session("14", "IGCSE", "Regular", 2), DefaultSchedule())
	if p.MatchedRule != "" {
		t.Fatalf("expected no rule, got %s", p.MatchedRule)
	}
	if p.Warning != WarningUnclassified {
		t.Fatalf("expected unclassified warning, got %q", p.Warning)
	}
	if !p.Amount.IsZero() {
		t.Fatalf("expected zero amount, got %s", p.Amount)
	}
}

func TestPriceDemoPrecedenceWins(t *testing.T) {
	s := session("9", "IGCSE", "Paid", 2)
	s.StudentID = "Demo Class I - X - 001"
	p := Price(s, DefaultSchedule())
	if p.Category != CategoryDemo {
		t.Fatalf("expected demo category, got %s", p.Category)
	}
	if !p.Amount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected 2 x 150 = 300, got %s", p.Amount)
	}
}

func TestPriceDemoSeniorMarkerInClassType(t *testing.T) {
	s := session("", "", "Demo Class XI - XII", 1)
	p := Price(s, DefaultSchedule())
	if p.MatchedRule != "demo-11-12" {
		t.Fatalf("expected demo-11-12, got %q", p.MatchedRule)
	}
	if !p.Amount.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("expected 180, got %s", p.Amount)
	}
}

func TestPricePaidFlatRate(t *testing.T) {
	p := Price(session("3", "CBSE", "Paid - extra", 1.5), DefaultSchedule())
	if p.Category != CategoryPaid {
		t.Fatalf("expected paid category, got %s", p.Category)
	}
	if !p.Amount.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected 1.5 x 4 x 100 = 600, got %s", p.Amount)
	}
}

func TestPriceGracefulDegradation(t *testing.T) {
	p := Price(session("n/a", "CBSE", "Regular", 2), DefaultSchedule())
	if p.Warning != WarningUnclassified {
		t.Fatalf("expected unclassified, got %q", p.Warning)
	}
	if !p.Amount.IsZero() {
		t.Fatalf("expected zero amount, got %s", p.Amount)
	}
}

func TestPriceZeroHoursPaysNothing(t *testing.T) {
	p := Price(session("7", "IB", "Regular", 0), DefaultSchedule())
	if p.MatchedRule == "" {
		t.Fatalf("rule should still match at zero hours")
	}
	if !p.Amount.IsZero() {
		t.Fatalf("expected zero amount for zero hours, got %s", p.Amount)
	}

	neg := session("7", "IB", "Regular", 0)
	neg.Hours = decimal.NewFromInt(-2)
	if p := Price(neg, DefaultSchedule()); !p.Amount.IsZero() {
		t.Fatalf("expected zero amount for negative hours, got %s", p.Amount)
	}
}

func TestPriceIsDeterministic(t *testing.T) {
	s := session("8", "IGCSE", "Regular", 2.25)
	schedule := DefaultSchedule()
	first := Price(s, schedule)
	for i := 0; i < 5; i++ {
		again := Price(s, schedule)
		if !again.Amount.Equal(first.Amount) || again.MatchedRule != first.MatchedRule || again.Warning != first.Warning {
			t.Fatalf("pricing not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestPriceAllNilInput(t *testing.T) {
	if _, err := PriceAll(nil, DefaultSchedule()); err == nil {
		t.Fatalf("expected error for nil batch")
	}
	priced, err := PriceAll([]SessionRecord{}, DefaultSchedule())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(priced) != 0 {
		t.Fatalf("expected empty result, got %d", len(priced))
	}
}

func TestPriceOverrideSchedule(t *testing.T) {
	override := RateSchedule{
		{ID: "flat-everything", Category: CategoryStandard, Rate: decimal.NewFromInt(99), Formula: FormulaPerHour},
	}
	p := Price(session("7", "IB", "Regular", 2), override)
	if p.MatchedRule != "flat-everything" {
		t.Fatalf("expected override rule, got %q", p.MatchedRule)
	}
	if !p.Amount.Equal(decimal.NewFromInt(198)) {
		t.Fatalf("expected 198, got %s", p.Amount)
	}
}
