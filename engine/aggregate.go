package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Dimension names a grouping axis for Aggregate.
type Dimension int

const (
	ByTeacher Dimension = iota
	ByLevelBoardType
	ByISOWeek
	ByStudent
)

// Bucket is one aggregate row: the group key fields, plain sums of hours and
// amount, and the member count. Sums stay unrounded; rounding to two places
// happens at presentation time only.
type Bucket struct {
	Key         []string        `json:"key"`
	TotalHours  decimal.Decimal `json:"total_hours"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Members     int             `json:"members"`
}

// dateLayouts covers the formats the class-details sheet has been seen to
// hold. DD/MM/YYYY comes first because that is how the sheet is filled in.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
	"02-01-2006",
	time.RFC3339,
}

// ISOWeekKey derives an ISO "2024-W18" style key from a raw date string.
// Unparseable dates keep their raw literal as the key, so malformed rows
// group with their exact twins instead of silently merging into one another.
func ISOWeekKey(raw string) string {
	v := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			year, week := t.ISOWeek()
			return fmt.Sprintf("%d-W%02d", year, week)
		}
	}
	return v
}

// Aggregate reduces a priced batch into grouped totals along one dimension.
// The result is sorted by key, so shuffled input produces identical output.
// An empty batch yields an empty list; only a nil batch is an error.
func Aggregate(priced []PricedSession, dim Dimension) ([]Bucket, error) {
	if priced == nil {
		return nil, ErrNilInput
	}

	type acc struct {
		key     []string
		hours   decimal.Decimal
		amount  decimal.Decimal
		members int
	}
	accs := make(map[string]*acc)

	for _, p := range priced {
		key := bucketKey(p, dim)
		mapKey := strings.Join(key, "\x1f")
		a, ok := accs[mapKey]
		if !ok {
			a = &acc{key: key, hours: decimal.Zero, amount: decimal.Zero}
			accs[mapKey] = a
		}
		a.hours = a.hours.Add(positiveHours(p.Session.Hours))
		a.amount = a.amount.Add(p.Amount)
		a.members++
	}

	buckets := make([]Bucket, 0, len(accs))
	for _, a := range accs {
		buckets = append(buckets, Bucket{
			Key:         a.key,
			TotalHours:  a.hours,
			TotalAmount: a.amount,
			Members:     a.members,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return strings.Join(buckets[i].Key, "\x1f") < strings.Join(buckets[j].Key, "\x1f")
	})
	return buckets, nil
}

func bucketKey(p PricedSession, dim Dimension) []string {
	s := p.Session
	switch dim {
	case ByTeacher:
		return []string{strings.ToLower(strings.TrimSpace(s.TeacherID))}
	case ByLevelBoardType:
		return []string{p.Level.String(), string(p.Board), strings.TrimSpace(s.ClassType)}
	case ByISOWeek:
		return []string{ISOWeekKey(s.Date)}
	case ByStudent:
		return []string{strings.ToLower(strings.TrimSpace(s.StudentID))}
	default:
		return []string{""}
	}
}

// positiveHours clamps malformed negative durations to zero, mirroring the
// pricer's no-negative-pay rule.
func positiveHours(h decimal.Decimal) decimal.Decimal {
	if h.Sign() < 0 {
		return decimal.Zero
	}
	return h
}
