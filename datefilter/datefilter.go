// Package datefilter narrows entry sequences to a date range given as
// natural-language expressions ("today", "3 days ago", absolute dates).
package datefilter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	naturaldate "github.com/tj/go-naturaldate"

	"github.com/maxdata/claude-code-log/transcript/models"
)

// InvalidDateExpressionError reports a from/to expression that could
// not be resolved. It is fatal to the filtering call; per-entry
// problems never raise it.
type InvalidDateExpressionError struct {
	Expression string
	Err        error
}

func (e *InvalidDateExpressionError) Error() string {
	return fmt.Sprintf("could not parse date expression %q", e.Expression)
}

func (e *InvalidDateExpressionError) Unwrap() error { return e.Err }

// Range holds resolved, timezone-naive inclusive bounds. A nil bound
// is open.
type Range struct {
	From *time.Time
	To   *time.Time
}

// NewRange resolves from/to expressions into a Range. Empty
// expressions leave the corresponding bound open. Relative single-day
// expressions are normalized: a from bound floors to 00:00:00 of the
// resolved day, a to bound ceilings to 23:59:59.999999. Other
// expressions keep the parser's resolved instant.
func NewRange(fromExpr, toExpr string) (*Range, error) {
	rng := &Range{}

	if fromExpr != "" {
		t, err := resolve(fromExpr, false)
		if err != nil {
			return nil, err
		}
		rng.From = &t
	}
	if toExpr != "" {
		t, err := resolve(toExpr, true)
		if err != nil {
			return nil, err
		}
		rng.To = &t
	}

	return rng, nil
}

// Filter keeps the entries whose timestamps fall within the resolved
// range, inclusive on both bounds. With both expressions empty it is
// the identity. Summary entries carry no timestamp to test and are
// always retained; entries whose timestamp is absent or unparseable
// are dropped silently.
func Filter(entries []models.Entry, fromExpr, toExpr string) ([]models.Entry, error) {
	if fromExpr == "" && toExpr == "" {
		return entries, nil
	}

	rng, err := NewRange(fromExpr, toExpr)
	if err != nil {
		return nil, err
	}
	return rng.Apply(entries), nil
}

// Apply filters entries against the range. See Filter.
func (r *Range) Apply(entries []models.Entry) []models.Entry {
	if r == nil || (r.From == nil && r.To == nil) {
		return entries
	}

	filtered := make([]models.Entry, 0, len(entries))
	for _, entry := range entries {
		if _, ok := entry.(*models.SummaryEntry); ok {
			filtered = append(filtered, entry)
			continue
		}

		t, ok := models.ParseTimestamp(entry.GetTimestamp())
		if !ok {
			// No wall-clock value to compare against.
			continue
		}
		naiveT := naive(t)

		if r.From != nil && naiveT.Before(*r.From) {
			continue
		}
		if r.To != nil && naiveT.After(*r.To) {
			continue
		}
		filtered = append(filtered, entry)
	}

	return filtered
}

// resolve parses one date expression. Absolute forms go through
// dateparse; relative phrases fall back to naturaldate.
func resolve(expr string, end bool) (time.Time, error) {
	var t time.Time
	if parsed, err := dateparse.ParseLocal(expr); err == nil {
		t = parsed
	} else if parsed, nerr := parseRelative(expr); nerr == nil {
		t = parsed
	} else {
		return time.Time{}, &InvalidDateExpressionError{Expression: expr, Err: nerr}
	}

	if isSingleDayExpr(expr) {
		if end {
			t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999000, t.Location())
		} else {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		}
	}

	return naive(t), nil
}

// parseRelative resolves a relative expression via naturaldate.
// naturaldate reports no error for input it cannot match: it returns
// the base time unchanged. An unmatched expression is therefore
// detected by the result landing exactly on the base, carving out the
// expressions that genuinely mean the base instant.
func parseRelative(expr string) (time.Time, error) {
	base := time.Now()
	t, err := naturaldate.Parse(expr, base, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return time.Time{}, err
	}
	if t.Equal(base) && !meansNow(expr) {
		return time.Time{}, errors.New("expression did not match any date grammar")
	}
	return t, nil
}

// meansNow matches the expressions whose resolved instant is exactly
// the base time.
func meansNow(expr string) bool {
	switch strings.ToLower(strings.TrimSpace(expr)) {
	case "now", "today":
		return true
	}
	return false
}

// isSingleDayExpr matches the relative expressions that denote one
// whole day rather than an instant.
func isSingleDayExpr(expr string) bool {
	if expr == "today" || expr == "yesterday" {
		return true
	}
	return strings.Contains(expr, "days ago")
}

// naive strips the offset, keeping the wall-clock reading. Entry
// timestamps and resolved bounds are compared timezone-naive.
func naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
