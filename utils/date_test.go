package utils

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-06-01" {
		t.Fatalf("expected 2024-06-01, got %s", d.String())
	}
	if d.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", d.Location())
	}

	if _, err := ParseDate("06/01/2024"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
	if _, err := ParseDate("2024-6-1"); err == nil {
		t.Fatal("expected error for unpadded date")
	}
}

func TestNewDateNormalizesToUTCMidnight(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	// 23:30 in New York on June 1st is already June 2nd in UTC.
	d := NewDate(time.Date(2024, 6, 1, 23, 30, 0, 0, loc))
	if d.String() != "2024-06-02" {
		t.Fatalf("expected 2024-06-02, got %s", d.String())
	}
	if h := d.Hour(); h != 0 {
		t.Fatalf("expected midnight, got hour %d", h)
	}
}

func TestDateRangeHalfOpen(t *testing.T) {
	in, _ := ParseDate("2024-06-01")
	out, _ := ParseDate("2024-06-04")

	days := DateRange(in, out)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if days[0].String() != "2024-06-01" || days[2].String() != "2024-06-03" {
		t.Fatalf("unexpected expansion: %v", days)
	}

	// Checkout day is excluded.
	for _, day := range days {
		if day.String() == "2024-06-04" {
			t.Fatal("checkout day must not be part of the range")
		}
	}

	if got := DateRange(out, in); got != nil {
		t.Fatalf("inverted range should be nil, got %v", got)
	}
	if got := DateRange(in, in); got != nil {
		t.Fatalf("empty range should be nil, got %v", got)
	}
}

func TestRangesOverlap(t *testing.T) {
	d := func(s string) Date {
		parsed, err := ParseDate(s)
		if err != nil {
			t.Fatalf("bad date %s: %v", s, err)
		}
		return parsed
	}

	cases := []struct {
		name string
		aIn  string
		aOut string
		bIn  string
		bOut string
		want bool
	}{
		{"identical", "2024-06-01", "2024-06-03", "2024-06-01", "2024-06-03", true},
		{"partial", "2024-06-01", "2024-06-03", "2024-06-02", "2024-06-05", true},
		{"contained", "2024-06-01", "2024-06-10", "2024-06-03", "2024-06-05", true},
		{"back to back", "2024-06-01", "2024-06-03", "2024-06-03", "2024-06-05", false},
		{"disjoint", "2024-06-01", "2024-06-03", "2024-06-10", "2024-06-12", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RangesOverlap(d(tc.aIn), d(tc.aOut), d(tc.bIn), d(tc.bOut))
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestNights(t *testing.T) {
	in, _ := ParseDate("2024-06-01")
	out, _ := ParseDate("2024-06-04")
	if n := Nights(in, out); n != 3 {
		t.Fatalf("expected 3 nights, got %d", n)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, _ := ParseDate("2024-06-01")
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-06-01"` {
		t.Fatalf("unexpected JSON: %s", b)
	}

	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v vs %v", back, d)
	}
}
