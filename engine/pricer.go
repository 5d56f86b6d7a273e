package engine

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNilInput is returned when a batch operation receives a nil collection.
// Passing no sessions at all is a caller bug; an empty slice is fine.
var ErrNilInput = errors.New("engine: nil input collection")

// WarningUnclassified marks a session no rate rule could price. The session
// still comes back with a zero amount so one bad row never blocks a batch.
const WarningUnclassified = "unclassified"

// SessionRecord is one tutoring class as received from the data source.
// Every field may be missing or malformed; the pricer degrades instead of
// failing. Records are treated as immutable: pricing produces new values and
// never touches the original fields.
type SessionRecord struct {
	Date        string          `json:"date"`
	StudentID   string          `json:"student_id"`
	StudentName string          `json:"student_name"`
	TeacherID   string          `json:"teacher_id"`
	TeacherName string          `json:"teacher_name"`
	RawLevel    string          `json:"raw_level"`
	Board       string          `json:"board"`
	ClassType   string          `json:"class_type"`
	Hours       decimal.Decimal `json:"hours"`
	SourceSheet string          `json:"source_sheet,omitempty"`
}

// PricedSession is a session record plus its classification and payable
// amount. Amount is always computable; when nothing matched it is zero and
// Warning is set.
type PricedSession struct {
	Session     SessionRecord   `json:"session"`
	Category    Category        `json:"category"`
	Board       BoardGroup      `json:"board_group"`
	Level       Level           `json:"level"`
	Amount      decimal.Decimal `json:"amount"`
	MatchedRule string          `json:"matched_rule,omitempty"`
	Warning     string          `json:"warning,omitempty"`
}

// Price classifies and prices a single session against a rate schedule.
// It is a pure function: the same (session, schedule) pair always yields the
// same result, and it never panics on bad data. Unclassifiable sessions come
// back with a zero amount and the "unclassified" warning.
func Price(s SessionRecord, schedule RateSchedule) PricedSession {
	level := NormalizeLevel(s.RawLevel)
	category, demoLevel := DetectCategory(s.StudentID, s.ClassType)
	board := GroupBoard(s.Board)

	// The demo marker names the tier itself, so rule matching uses the
	// marker's representative level rather than the Class column.
	matchLevel := level
	if category == CategoryDemo {
		matchLevel = Level{Kind: LevelNumeric, Number: demoLevel}
	}

	out := PricedSession{
		Session:  s,
		Category: category,
		Board:    board,
		Level:    level,
		Amount:   decimal.Zero,
	}

	rule := schedule.Match(category, board, matchLevel)
	if rule == nil {
		out.Warning = WarningUnclassified
		return out
	}

	out.MatchedRule = rule.ID
	if s.Hours.Sign() > 0 {
		out.Amount = rule.Amount(s.Hours)
	}
	return out
}

// PriceAll prices a batch. Each record is priced independently, so output
// position i always corresponds to input position i and the result is the
// same regardless of processing order. A nil batch is a caller contract
// violation and fails fast.
func PriceAll(sessions []SessionRecord, schedule RateSchedule) ([]PricedSession, error) {
	if sessions == nil {
		return nil, ErrNilInput
	}
	priced := make([]PricedSession, len(sessions))
	for i, s := range sessions {
		priced[i] = Price(s, schedule)
	}
	return priced, nil
}

// TotalAmount sums the payable amounts of a priced batch.
func TotalAmount(priced []PricedSession) decimal.Decimal {
	total := decimal.Zero
	for _, p := range priced {
		total = total.Add(p.Amount)
	}
	return total
}

// Unclassified filters the sessions no rule could price, for audit views.
func Unclassified(priced []PricedSession) []PricedSession {
	var out []PricedSession
	for _, p := range priced {
		if p.Warning != "" {
			out = append(out, p)
		}
	}
	return out
}
