package cycledate

import (
	"errors"
	"testing"
	"time"
)

func mustDate(t *testing.T, value string) Date {
	t.Helper()
	parsed, err := ParseISO(value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func TestParseRelativeTokens(t *testing.T) {
	t.Parallel()

	// 2024-06-12 is a Wednesday.
	reference := mustDate(t, "2024-06-12")

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "today", input: "today", want: "2024-06-12"},
		{name: "today japanese", input: "今日", want: "2024-06-12"},
		{name: "yesterday", input: "Yesterday", want: "2024-06-11"},
		{name: "day before yesterday", input: "一昨日", want: "2024-06-10"},
		{name: "day before yesterday kana", input: "おととい", want: "2024-06-10"},
		{name: "tomorrow", input: "tomorrow", want: "2024-06-13"},
		{name: "days ago", input: "3 days ago", want: "2024-06-09"},
		{name: "days ago japanese", input: "3日前", want: "2024-06-09"},
		{name: "single day ago", input: "1 day ago", want: "2024-06-11"},
		{name: "days later", input: "10 days later", want: "2024-06-22"},
		{name: "weeks ago", input: "2 weeks ago", want: "2024-05-29"},
		{name: "weeks ago japanese", input: "1週間前", want: "2024-06-05"},
		{name: "last friday", input: "last friday", want: "2024-06-07"},
		{name: "last friday japanese", input: "先週の金曜日", want: "2024-06-07"},
		{name: "last sunday", input: "last sunday", want: "2024-06-02"},
		{name: "this tuesday", input: "this tuesday", want: "2024-06-11"},
		{name: "this tuesday japanese", input: "今週の火曜日", want: "2024-06-11"},
		{name: "month day", input: "12/25", want: "2024-12-25"},
		{name: "iso date", input: "2024-03-15", want: "2024-03-15"},
		{name: "padded input", input: "  today  ", want: "2024-06-12"},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			got, canceled, err := Parse(testCase.input, reference)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", testCase.input, err)
			}
			if canceled {
				t.Fatalf("Parse(%q) unexpectedly canceled", testCase.input)
			}
			if got.String() != testCase.want {
				t.Fatalf("Parse(%q) = %s, want %s", testCase.input, got, testCase.want)
			}
		})
	}
}

func TestParseCancelToken(t *testing.T) {
	t.Parallel()

	reference := mustDate(t, "2024-06-12")
	for _, input := range []string{"cancel", "キャンセル", " Cancel "} {
		_, canceled, err := Parse(input, reference)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", input, err)
		}
		if !canceled {
			t.Fatalf("Parse(%q) expected cancel signal", input)
		}
	}
}

func TestParseFailures(t *testing.T) {
	t.Parallel()

	reference := mustDate(t, "2024-06-12")

	inputs := []string{
		"",
		"next month",
		"0 days ago",
		"366 days ago",
		"400 days later",
		"53 weeks ago",
		"13/01",
		"2/30",
		"4/31",
		"0/10",
		"2024-13-01",
		"2024-02-30",
		"hello there",
	}

	for _, input := range inputs {
		_, canceled, err := Parse(input, reference)
		if canceled {
			t.Fatalf("Parse(%q) unexpectedly canceled", input)
		}
		if !errors.Is(err, ErrParseFailure) {
			t.Fatalf("Parse(%q) expected ErrParseFailure, got %v", input, err)
		}
	}
}

func TestParseMonthDayUsesReferenceYear(t *testing.T) {
	t.Parallel()

	// 2024 is a leap year, 2025 is not.
	leapReference := mustDate(t, "2024-01-10")
	got, _, err := Parse("2/29", leapReference)
	if err != nil {
		t.Fatalf("Parse(2/29) in leap year failed: %v", err)
	}
	if got.String() != "2024-02-29" {
		t.Fatalf("Parse(2/29) = %s, want 2024-02-29", got)
	}

	plainReference := mustDate(t, "2025-01-10")
	if _, _, err := Parse("2/29", plainReference); !errors.Is(err, ErrParseFailure) {
		t.Fatalf("Parse(2/29) in non-leap year expected ErrParseFailure, got %v", err)
	}
}

func TestParseAbsoluteRoundTrip(t *testing.T) {
	t.Parallel()

	reference := mustDate(t, "2024-06-12")
	for _, input := range []string{"2024-03-15", "2023-12-31", "2024-02-29"} {
		first, _, err := Parse(input, reference)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", input, err)
		}
		second, _, err := Parse(first.String(), reference)
		if err != nil {
			t.Fatalf("re-parse of %q failed: %v", first.String(), err)
		}
		if !first.Equal(second) {
			t.Fatalf("round-trip changed date: %s -> %s", first, second)
		}
	}
}

func TestDateArithmetic(t *testing.T) {
	t.Parallel()

	start := New(2024, time.January, 31)
	if got := start.AddDays(1).String(); got != "2024-02-01" {
		t.Fatalf("AddDays across month = %s, want 2024-02-01", got)
	}
	if got := start.DaysSince(New(2024, time.January, 1)); got != 30 {
		t.Fatalf("DaysSince = %d, want 30", got)
	}
	if got := New(2024, time.February, 30); got.String() != "2024-03-01" {
		t.Fatalf("overflow normalization = %s, want 2024-03-01", got)
	}
}

func TestValidateEntry(t *testing.T) {
	t.Parallel()

	today := mustDate(t, "2024-06-12")

	if err := ValidateEntry(today, today, 365); err != nil {
		t.Fatalf("same-day entry rejected: %v", err)
	}
	if err := ValidateEntry(today.AddDays(-365), today, 365); err != nil {
		t.Fatalf("boundary entry rejected: %v", err)
	}
	if err := ValidateEntry(today.AddDays(1), today, 365); !errors.Is(err, ErrFutureDate) {
		t.Fatalf("future entry expected ErrFutureDate, got %v", err)
	}
	if err := ValidateEntry(today.AddDays(-366), today, 365); !errors.Is(err, ErrTooOld) {
		t.Fatalf("stale entry expected ErrTooOld, got %v", err)
	}
	if err := ValidateEntry(today.AddDays(-91), today, 90); !errors.Is(err, ErrTooOld) {
		t.Fatalf("form-path entry expected ErrTooOld, got %v", err)
	}
}

func TestReasonCode(t *testing.T) {
	t.Parallel()

	cases := map[error]string{
		ErrFutureDate:   ReasonFutureDate,
		ErrTooOld:       ReasonOldDate,
		ErrParseFailure: ReasonParseFailure,
		errors.New("x"): "",
	}
	for err, want := range cases {
		if got := ReasonCode(err); got != want {
			t.Fatalf("ReasonCode(%v) = %q, want %q", err, got, want)
		}
	}
}
