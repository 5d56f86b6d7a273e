package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Category is the pay classification of a session. Detection precedence is
// demo, then paid, then standard (see DetectCategory).
type Category string

const (
	CategoryDemo     Category = "demo"
	CategoryPaid     Category = "paid"
	CategoryStandard Category = "standard"
)

// BoardGroup buckets syllabi for rate selection. IGCSE and IB share one
// tier ladder; every other board (including blank) uses the domestic ladder.
type BoardGroup string

const (
	BoardIBIGCSE BoardGroup = "IB_IGCSE"
	BoardOther   BoardGroup = "OTHER"
)

// Formula selects how a rule turns hours and rate into money.
type Formula string

const (
	// FormulaPerHour pays hours x rate.
	FormulaPerHour Formula = "perHour"
	// FormulaPerHourTimesFour pays hours x 4 x rate, the flat paid-class
	// multiplier used by payroll.
	FormulaPerHourTimesFour Formula = "perHourTimesFour"
)

// RateRule is one row of the rate schedule. A zero MinLevel/MaxLevel pair
// means the rule matches any level; a zero Board means any board group.
type RateRule struct {
	ID       string          `json:"id"`
	Category Category        `json:"category"`
	Board    BoardGroup      `json:"board,omitempty"`
	MinLevel int             `json:"min_level,omitempty"`
	MaxLevel int             `json:"max_level,omitempty"`
	Rate     decimal.Decimal `json:"rate"`
	Formula  Formula         `json:"formula"`
}

// RateSchedule is an ordered rule table. Rules are written so that level
// bands inside one (category, board) pair never overlap, but matching is
// still strictly first-hit so inconsistent override tables stay predictable.
type RateSchedule []RateRule

// DefaultSchedule returns the built-in rate table. Callers that let admins
// edit rates pass their own table of the same shape instead.
func DefaultSchedule() RateSchedule {
	return RateSchedule{
		{ID: "demo-1-10", Category: CategoryDemo, MinLevel: 1, MaxLevel: 10, Rate: decimal.NewFromInt(150), Formula: FormulaPerHour},
		{ID: "demo-11-12", Category: CategoryDemo, MinLevel: 11, MaxLevel: 12, Rate: decimal.NewFromInt(180), Formula: FormulaPerHour},
		{ID: "paid-flat", Category: CategoryPaid, Rate: decimal.NewFromInt(100), Formula: FormulaPerHourTimesFour},
		{ID: "std-ib-1-4", Category: CategoryStandard, Board: BoardIBIGCSE, MinLevel: 1, MaxLevel: 4, Rate: decimal.NewFromInt(120), Formula: FormulaPerHour},
		{ID: "std-ib-5-7", Category: CategoryStandard, Board: BoardIBIGCSE, MinLevel: 5, MaxLevel: 7, Rate: decimal.NewFromInt(150), Formula: FormulaPerHour},
		{ID: "std-ib-8-10", Category: CategoryStandard, Board: BoardIBIGCSE, MinLevel: 8, MaxLevel: 10, Rate: decimal.NewFromInt(170), Formula: FormulaPerHour},
		{ID: "std-ib-11-13", Category: CategoryStandard, Board: BoardIBIGCSE, MinLevel: 11, MaxLevel: 13, Rate: decimal.NewFromInt(200), Formula: FormulaPerHour},
		{ID: "std-other-1-4", Category: CategoryStandard, Board: BoardOther, MinLevel: 1, MaxLevel: 4, Rate: decimal.NewFromInt(120), Formula: FormulaPerHour},
		{ID: "std-other-5-10", Category: CategoryStandard, Board: BoardOther, MinLevel: 5, MaxLevel: 10, Rate: decimal.NewFromInt(150), Formula: FormulaPerHour},
		{ID: "std-other-11-12", Category: CategoryStandard, Board: BoardOther, MinLevel: 11, MaxLevel: 12, Rate: decimal.NewFromInt(180), Formula: FormulaPerHour},
	}
}

// GroupBoard maps a raw syllabus string onto its board group. Blank and
// unrecognized boards count as OTHER.
func GroupBoard(board string) BoardGroup {
	switch strings.ToLower(strings.TrimSpace(board)) {
	case "igcse", "ib":
		return BoardIBIGCSE
	default:
		return BoardOther
	}
}

// Demo class markers as they appear in the source sheets, embedded either in
// the student ID or the class-type column.
const (
	demoMarkerJunior = "demo class i - x"
	demoMarkerSenior = "demo class xi - xii"
)

// DetectCategory classifies a session from its student ID and class type.
// The keywords are not mutually exclusive in free text, so precedence is
// fixed: demo markers win over a "paid" prefix, which wins over standard.
// For demo sessions the marker names the tier itself, so the returned
// demoLevel carries the tier's representative level (10 or 12) regardless of
// what the Class column says.
func DetectCategory(studentID, classType string) (Category, int) {
	id := strings.ToLower(strings.TrimSpace(studentID))
	ct := strings.ToLower(strings.TrimSpace(classType))

	if strings.Contains(id, demoMarkerJunior) || strings.Contains(ct, demoMarkerJunior) {
		return CategoryDemo, 10
	}
	if strings.Contains(id, demoMarkerSenior) || strings.Contains(ct, demoMarkerSenior) {
		return CategoryDemo, 12
	}
	if strings.HasPrefix(ct, "paid") {
		return CategoryPaid, 0
	}
	return CategoryStandard, 0
}

// Match returns the first rule matching the given classification, or nil if
// none does. A standard session with an unknown level matches nothing.
func (rs RateSchedule) Match(cat Category, board BoardGroup, level Level) *RateRule {
	for i := range rs {
		r := &rs[i]
		if r.Category != cat {
			continue
		}
		if r.Board != "" && r.Board != board {
			continue
		}
		if r.MinLevel != 0 || r.MaxLevel != 0 {
			if level.Kind != LevelNumeric {
				continue
			}
			if level.Number < r.MinLevel || level.Number > r.MaxLevel {
				continue
			}
		}
		return r
	}
	return nil
}

// Amount applies the rule's formula to a duration.
func (r *RateRule) Amount(hours decimal.Decimal) decimal.Decimal {
	switch r.Formula {
	case FormulaPerHourTimesFour:
		return hours.Mul(decimal.NewFromInt(4)).Mul(r.Rate)
	default:
		return hours.Mul(r.Rate)
	}
}
