package utils

import (
	"fmt"
	"time"
)

// Date is a UTC calendar day. All reservation math runs on Dates so that
// timezone offsets can never shift a blocked-date boundary.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate truncates t to its UTC calendar day.
func NewDate(t time.Time) Date {
	t = t.UTC()
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

func (d Date) String() string {
	return d.Time.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange expands the half-open interval [in, out) into individual days.
// An empty or inverted range yields nil.
func DateRange(in, out Date) []Date {
	var days []Date
	for d := in; d.Before(out.Time); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// RangesOverlap reports whether the half-open intervals [aIn, aOut) and
// [bIn, bOut) share at least one day.
func RangesOverlap(aIn, aOut, bIn, bOut Date) bool {
	return aIn.Before(bOut.Time) && aOut.After(bIn.Time)
}

// Nights returns the number of nights in [in, out).
func Nights(in, out Date) int {
	return int(out.Sub(in.Time).Hours() / 24)
}
