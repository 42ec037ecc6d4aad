package services

import (
	"time"

	"github.com/terraincognita07/tsukimi/internal/cycledate"
	"github.com/terraincognita07/tsukimi/internal/models"
)

// Luteal phase length in days, fixed rather than personalized.
const lutealPhaseDays = 14

// Fertile window around the ovulation date, asymmetric toward the
// pre-ovulation side (sperm viability outlasts the egg's).
const (
	fertileWindowDaysBefore = 5
	fertileWindowDaysAfter  = 1
)

// Phase boundaries on days-since-start. The follicular/ovulation cut
// points are fixed and do not scale with the configured cycle length; a
// 21-day cycle reaches its luteal bucket on day 17 regardless.
const (
	follicularEndDay = 13
	ovulationEndDay  = 17
)

const (
	PhaseUnknown    = "unknown"
	PhaseMenstrual  = "menstrual"
	PhaseFollicular = "follicular"
	PhaseOvulation  = "ovulation"
	PhaseLuteal     = "luteal"
	PhaseOverdue    = "overdue"
)

const (
	AccuracyHigh   = "high"
	AccuracyMedium = "medium"
)

type PredictedDates struct {
	EndDate       cycledate.Date `json:"endDate"`
	NextStartDate cycledate.Date `json:"nextStartDate"`
}

type OvulationInfo struct {
	OvulationDate  cycledate.Date `json:"ovulationDate"`
	FertileStart   cycledate.Date `json:"fertileStart"`
	FertileEnd     cycledate.Date `json:"fertileEnd"`
	NextPeriodDate cycledate.Date `json:"nextPeriodDate"`
}

type CyclePhase struct {
	Phase          string `json:"phase"`
	DaysSinceStart int    `json:"daysSinceStart"`
	DaysInPhase    int    `json:"daysInPhase"`
}

type NextPeriodInfo struct {
	NextPeriodDate cycledate.Date `json:"nextPeriodDate"`
	DaysUntil      int            `json:"daysUntil"`
	Overdue        bool           `json:"isOverdue"`
}

// RecordDetails is the composite view of one record against the user's
// configuration, used by conversational replies and the history view.
type RecordDetails struct {
	StartDate     cycledate.Date  `json:"startDate"`
	EndDate       *cycledate.Date `json:"endDate,omitempty"`
	ActualDays    int             `json:"actualDays"`
	PredictedDays int             `json:"predictedDays"`
	Accuracy      string          `json:"accuracy"`
	Ovulation     OvulationInfo   `json:"ovulation"`
	Phase         CyclePhase      `json:"phase"`
	NextPeriod    NextPeriodInfo  `json:"nextPeriod"`
}

// ComputePredictedDates derives the expected period end and next cycle
// start. The start date counts as day 1, so a 5-day period ends 4 days
// after it starts.
func ComputePredictedDates(startDate cycledate.Date, settings models.Settings) PredictedDates {
	return PredictedDates{
		EndDate:       startDate.AddDays(settings.Period - 1),
		NextStartDate: startDate.AddDays(settings.Cycle),
	}
}

// ComputeOvulationInfo places the ovulation date a fixed luteal-phase
// length before the next predicted period, with the fertile window
// around it. ok is false when the inputs are unusable.
func ComputeOvulationInfo(lastPeriodStart cycledate.Date, cycleLength int) (OvulationInfo, bool) {
	if lastPeriodStart.IsZero() || cycleLength <= 0 {
		return OvulationInfo{}, false
	}

	nextPeriod := lastPeriodStart.AddDays(cycleLength)
	ovulation := nextPeriod.AddDays(-lutealPhaseDays)
	return OvulationInfo{
		OvulationDate:  ovulation,
		FertileStart:   ovulation.AddDays(-fertileWindowDaysBefore),
		FertileEnd:     ovulation.AddDays(fertileWindowDaysAfter),
		NextPeriodDate: nextPeriod,
	}, true
}

// ComputeCyclePhase buckets today into exactly one phase. The buckets are
// half-open intervals over days-since-start and jointly cover [0, inf);
// a negative offset (future-dated record) reports unknown.
func ComputeCyclePhase(lastPeriodStart cycledate.Date, periodLength int, cycleLength int, today cycledate.Date) (CyclePhase, bool) {
	if lastPeriodStart.IsZero() || periodLength <= 0 || cycleLength <= 0 {
		return CyclePhase{}, false
	}

	daysSinceStart := today.DaysSince(lastPeriodStart)
	phase := CyclePhase{
		DaysSinceStart: daysSinceStart,
		DaysInPhase:    daysSinceStart + 1,
	}

	switch {
	case daysSinceStart < 0:
		phase.Phase = PhaseUnknown
		phase.DaysInPhase = 0
	case daysSinceStart < periodLength:
		phase.Phase = PhaseMenstrual
	case daysSinceStart < follicularEndDay:
		phase.Phase = PhaseFollicular
	case daysSinceStart < ovulationEndDay:
		phase.Phase = PhaseOvulation
	case daysSinceStart < cycleLength:
		phase.Phase = PhaseLuteal
	default:
		phase.Phase = PhaseOverdue
	}

	return phase, true
}

// ComputeDaysUntilNextPeriod returns the signed day count to the next
// predicted start; negative means overdue.
func ComputeDaysUntilNextPeriod(lastPeriodStart cycledate.Date, cycleLength int, today cycledate.Date) (NextPeriodInfo, bool) {
	if lastPeriodStart.IsZero() || cycleLength <= 0 {
		return NextPeriodInfo{}, false
	}

	nextPeriod := lastPeriodStart.AddDays(cycleLength)
	daysUntil := nextPeriod.DaysSince(today)
	return NextPeriodInfo{
		NextPeriodDate: nextPeriod,
		DaysUntil:      daysUntil,
		Overdue:        daysUntil < 0,
	}, true
}

// GenerateRecordDetails composes the derived facts for one record. ok is
// false when the record has no start date; callers treat that as
// "insufficient data to display", not as an error.
func GenerateRecordDetails(record models.PeriodRecord, settings models.Settings, today cycledate.Date, location *time.Location) (RecordDetails, bool) {
	if record.StartDate.IsZero() {
		return RecordDetails{}, false
	}

	startDate := cycledate.FromTime(record.StartDate, location)
	details := RecordDetails{
		StartDate:     startDate,
		ActualDays:    settings.Period,
		PredictedDays: settings.Period,
	}

	if record.EndDate != nil {
		endDate := cycledate.FromTime(*record.EndDate, location)
		details.EndDate = &endDate
		details.ActualDays = endDate.DaysSince(startDate) + 1
	}

	if delta := details.ActualDays - settings.Period; delta >= -1 && delta <= 1 {
		details.Accuracy = AccuracyHigh
	} else {
		details.Accuracy = AccuracyMedium
	}

	details.Ovulation, _ = ComputeOvulationInfo(startDate, settings.Cycle)
	details.Phase, _ = ComputeCyclePhase(startDate, settings.Period, settings.Cycle, today)
	details.NextPeriod, _ = ComputeDaysUntilNextPeriod(startDate, settings.Cycle, today)

	return details, true
}
