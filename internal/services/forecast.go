package services

import (
	"iter"
	"time"

	"github.com/terraincognita07/tsukimi/internal/cycledate"
	"github.com/terraincognita07/tsukimi/internal/models"
)

// DefaultForecastHorizon is the number of future cycles the calendar view
// renders.
const DefaultForecastHorizon = 6

// Consecutive-record gaps outside this range are discarded as outliers
// before averaging (a 95-day gap is a missed entry, not a cycle).
const (
	minPlausibleGapDays = 21
	maxPlausibleGapDays = 40
)

// History agreement classifications.
const (
	CycleAgreementAccurate = "accurate"
	CycleAgreementReview   = "review suggested"
	CycleAgreementUnknown  = "insufficient data"
)

const cycleAgreementToleranceDays = 2

type ForecastEntry struct {
	CycleIndex    int            `json:"cycle"`
	PeriodStart   cycledate.Date `json:"periodStart"`
	PeriodEnd     cycledate.Date `json:"periodEnd"`
	OvulationDate cycledate.Date `json:"ovulationDate"`
}

// HistorySummary compares the observed average cycle length against the
// configured one. SampleCount is the number of gaps that survived the
// outlier filter; zero means AverageCycleLength is undefined, which is
// distinct from an average of zero.
type HistorySummary struct {
	AverageCycleLength int    `json:"averageCycleLength"`
	SettingCycleLength int    `json:"settingCycleLength"`
	SampleCount        int    `json:"sampleCount"`
	Classification     string `json:"classification"`
}

// ForecastSeries yields one entry per future cycle, nearest first. The
// sequence is finite, restartable and safe to truncate early.
func ForecastSeries(lastPeriodStart cycledate.Date, settings models.Settings, horizonCycles int) iter.Seq[ForecastEntry] {
	return func(yield func(ForecastEntry) bool) {
		if lastPeriodStart.IsZero() || settings.Cycle <= 0 {
			return
		}
		for index := 1; index <= horizonCycles; index++ {
			periodStart := lastPeriodStart.AddDays(settings.Cycle * index)
			entry := ForecastEntry{
				CycleIndex:    index,
				PeriodStart:   periodStart,
				PeriodEnd:     periodStart.AddDays(settings.Period - 1),
				OvulationDate: periodStart.AddDays(-lutealPhaseDays),
			}
			if !yield(entry) {
				return
			}
		}
	}
}

// BuildForecastSeries collects the full forecast into a slice for
// payload building.
func BuildForecastSeries(lastPeriodStart cycledate.Date, settings models.Settings, horizonCycles int) []ForecastEntry {
	entries := make([]ForecastEntry, 0, horizonCycles)
	for entry := range ForecastSeries(lastPeriodStart, settings, horizonCycles) {
		entries = append(entries, entry)
	}
	return entries
}

// SummarizeHistory averages the start-to-start gaps of a newest-first
// record list, discarding implausible gaps, and classifies how well the
// configured cycle length agrees with the observed average.
func SummarizeHistory(records []models.PeriodRecord, settings models.Settings, location *time.Location) HistorySummary {
	summary := HistorySummary{
		SettingCycleLength: settings.Cycle,
		Classification:     CycleAgreementUnknown,
	}

	totalGapDays := 0
	for index := 0; index+1 < len(records); index++ {
		newer := cycledate.FromTime(records[index].StartDate, location)
		older := cycledate.FromTime(records[index+1].StartDate, location)
		gap := newer.DaysSince(older)
		if gap < minPlausibleGapDays || gap > maxPlausibleGapDays {
			continue
		}
		totalGapDays += gap
		summary.SampleCount++
	}

	if summary.SampleCount == 0 {
		return summary
	}

	summary.AverageCycleLength = (totalGapDays + summary.SampleCount/2) / summary.SampleCount

	delta := summary.AverageCycleLength - settings.Cycle
	if delta < 0 {
		delta = -delta
	}
	if delta <= cycleAgreementToleranceDays {
		summary.Classification = CycleAgreementAccurate
	} else {
		summary.Classification = CycleAgreementReview
	}
	return summary
}
