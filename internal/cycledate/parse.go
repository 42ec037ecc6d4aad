package cycledate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrParseFailure is the expected outcome for input that matches no rule in
// the grammar. It is routine user input, not an exceptional condition.
var ErrParseFailure = errors.New("date phrase not recognized")

const (
	maxDaysAgo   = 365
	maxDaysLater = 365
	maxWeeksAgo  = 52
)

var (
	daysAgoPattern   = regexp.MustCompile(`^(\d+)\s*(?:days?\s*ago|日前)$`)
	daysLaterPattern = regexp.MustCompile(`^(\d+)\s*(?:days?\s*later|日後)$`)
	weeksAgoPattern  = regexp.MustCompile(`^(\d+)\s*(?:weeks?\s*ago|週間前)$`)
	lastWeekdayJa    = regexp.MustCompile(`^先週の?(月|火|水|木|金|土|日)曜?日?$`)
	thisWeekdayJa    = regexp.MustCompile(`^今週の?(月|火|水|木|金|土|日)曜?日?$`)
	lastWeekdayEn    = regexp.MustCompile(`^last\s+(sunday|monday|tuesday|wednesday|thursday|friday|saturday)$`)
	thisWeekdayEn    = regexp.MustCompile(`^this\s+(sunday|monday|tuesday|wednesday|thursday|friday|saturday)$`)
	monthDayPattern  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
	isoPattern       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

var weekdayNamesJa = map[string]time.Weekday{
	"日": time.Sunday, "月": time.Monday, "火": time.Tuesday, "水": time.Wednesday,
	"木": time.Thursday, "金": time.Friday, "土": time.Saturday,
}

var weekdayNamesEn = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

var cancelTokens = []string{"cancel", "キャンセル"}

// Parse resolves a date phrase against a reference date. The canceled flag
// reports the explicit cancel token; any input matching no rule returns
// ErrParseFailure. Localized spellings are alternate forms of the same
// token, not separate grammar rules.
func Parse(input string, reference Date) (date Date, canceled bool, err error) {
	phrase := strings.ToLower(strings.TrimSpace(input))
	if phrase == "" {
		return Date{}, false, ErrParseFailure
	}

	for _, token := range cancelTokens {
		if phrase == token {
			return Date{}, true, nil
		}
	}

	switch phrase {
	case "today", "今日":
		return reference, false, nil
	case "yesterday", "昨日":
		return reference.AddDays(-1), false, nil
	case "day before yesterday", "一昨日", "おととい":
		return reference.AddDays(-2), false, nil
	case "tomorrow", "明日":
		return reference.AddDays(1), false, nil
	}

	if match := daysAgoPattern.FindStringSubmatch(phrase); match != nil {
		return parseOffset(reference, match[1], -1, maxDaysAgo)
	}
	if match := daysLaterPattern.FindStringSubmatch(phrase); match != nil {
		return parseOffset(reference, match[1], 1, maxDaysLater)
	}
	if match := weeksAgoPattern.FindStringSubmatch(phrase); match != nil {
		weeks, convErr := strconv.Atoi(match[1])
		if convErr != nil || weeks < 1 || weeks > maxWeeksAgo {
			return Date{}, false, ErrParseFailure
		}
		return reference.AddDays(-weeks * 7), false, nil
	}

	if weekday, ok := matchWeekday(phrase, lastWeekdayJa, weekdayNamesJa); ok {
		return lastWeekdayDate(reference, weekday), false, nil
	}
	if weekday, ok := matchWeekday(phrase, lastWeekdayEn, weekdayNamesEn); ok {
		return lastWeekdayDate(reference, weekday), false, nil
	}
	if weekday, ok := matchWeekday(phrase, thisWeekdayJa, weekdayNamesJa); ok {
		return thisWeekdayDate(reference, weekday), false, nil
	}
	if weekday, ok := matchWeekday(phrase, thisWeekdayEn, weekdayNamesEn); ok {
		return thisWeekdayDate(reference, weekday), false, nil
	}

	if match := monthDayPattern.FindStringSubmatch(phrase); match != nil {
		return parseMonthDay(reference, match[1], match[2])
	}

	if isoPattern.MatchString(phrase) {
		parsed, parseErr := ParseISO(phrase)
		if parseErr != nil {
			return Date{}, false, ErrParseFailure
		}
		return parsed, false, nil
	}

	return Date{}, false, ErrParseFailure
}

func parseOffset(reference Date, raw string, direction int, limit int) (Date, bool, error) {
	count, err := strconv.Atoi(raw)
	if err != nil || count < 1 || count > limit {
		return Date{}, false, ErrParseFailure
	}
	return reference.AddDays(direction * count), false, nil
}

func matchWeekday(phrase string, pattern *regexp.Regexp, names map[string]time.Weekday) (time.Weekday, bool) {
	match := pattern.FindStringSubmatch(phrase)
	if match == nil {
		return 0, false
	}
	weekday, ok := names[match[1]]
	return weekday, ok
}

// lastWeekdayDate resolves "last <weekday>" to a date in the 7-day window
// preceding the current week, counting weeks from Sunday.
func lastWeekdayDate(reference Date, target time.Weekday) Date {
	daysBack := 7 + int(reference.Weekday()) - int(target)
	return reference.AddDays(-daysBack)
}

func thisWeekdayDate(reference Date, target time.Weekday) Date {
	return reference.AddDays(int(target) - int(reference.Weekday()))
}

// parseMonthDay interprets MM/DD in the reference year and rejects
// combinations that only "work" via overflow (2/30 would otherwise become
// 3/2), by confirming the month/day round-trip.
func parseMonthDay(reference Date, rawMonth string, rawDay string) (Date, bool, error) {
	month, monthErr := strconv.Atoi(rawMonth)
	day, dayErr := strconv.Atoi(rawDay)
	if monthErr != nil || dayErr != nil {
		return Date{}, false, ErrParseFailure
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, false, ErrParseFailure
	}

	candidate := New(reference.Year(), time.Month(month), day)
	if candidate.Month() != time.Month(month) || candidate.Day() != day {
		return Date{}, false, ErrParseFailure
	}
	return candidate, false, nil
}
