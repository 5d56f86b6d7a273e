package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// LevelKind distinguishes the three shapes a class level can take after
// normalization.
type LevelKind int

const (
	LevelUnknown LevelKind = iota
	LevelNumeric
	LevelNamed
)

// Level is the canonical form of the freeform "Class" column. Numeric levels
// carry the grade number, named levels carry a canonical tag (e.g. "LKG"),
// everything else is Unknown. Unknown is data, not an error.
type Level struct {
	Kind   LevelKind `json:"kind"`
	Number int       `json:"number,omitempty"`
	Name   string    `json:"name,omitempty"`
}

// namedLevels maps lowercase named exceptions to their canonical tags.
var namedLevels = map[string]string{
	"lkg":     "LKG",
	"ukg":     "UKG",
	"nursery": "Nursery",
}

// rangePattern matches hyphenated level ranges like "1-10" or "11 - 12".
var rangePattern = regexp.MustCompile(`^(\d{1,2})\s*-\s*(\d{1,2})$`)

// NormalizeLevel parses a raw class-level string into its canonical form.
// Comparison is done on a trimmed, lowercased copy; the input is never
// mutated. Hyphenated ranges select a tier, so they map to the range's upper
// bound ("1-10" -> 10, "11-12" -> 12). NormalizeLevel never fails: anything
// unrecognized comes back as Unknown.
func NormalizeLevel(raw string) Level {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return Level{Kind: LevelUnknown}
	}

	if tag, ok := namedLevels[v]; ok {
		return Level{Kind: LevelNamed, Name: tag}
	}

	if m := rangePattern.FindStringSubmatch(v); m != nil {
		upper, err := strconv.Atoi(m[2])
		if err == nil && upper > 0 {
			return Level{Kind: LevelNumeric, Number: upper}
		}
		return Level{Kind: LevelUnknown}
	}

	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return Level{Kind: LevelNumeric, Number: n}
	}

	return Level{Kind: LevelUnknown}
}

// String renders the level for grouping keys and report rows.
func (l Level) String() string {
	switch l.Kind {
	case LevelNumeric:
		return strconv.Itoa(l.Number)
	case LevelNamed:
		return l.Name
	default:
		return "unknown"
	}
}
