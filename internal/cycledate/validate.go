package cycledate

import "errors"

var (
	ErrFutureDate = errors.New("date is in the future")
	ErrTooOld     = errors.New("date is too far in the past")
)

// Machine-readable reason codes surfaced to API callers.
const (
	ReasonFutureDate   = "FUTURE_DATE"
	ReasonOldDate      = "OLD_DATE"
	ReasonParseFailure = "PARSE_FAILURE"
)

// ValidateEntry checks that a period start date is usable for a new record:
// not in the future and at most maxAgeDays in the past. The allowed age
// depends on the entry path (90 days for the structured form, 365 for
// conversational entry).
func ValidateEntry(date Date, today Date, maxAgeDays int) error {
	if date.After(today) {
		return ErrFutureDate
	}
	if maxAgeDays > 0 && today.DaysSince(date) > maxAgeDays {
		return ErrTooOld
	}
	return nil
}

// ReasonCode maps validation and parse errors to their wire reason codes.
// Unknown errors map to an empty string.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrFutureDate):
		return ReasonFutureDate
	case errors.Is(err, ErrTooOld):
		return ReasonOldDate
	case errors.Is(err, ErrParseFailure):
		return ReasonParseFailure
	default:
		return ""
	}
}
