package api

import (
	"time"

	"github.com/terraincognita07/tsukimi/internal/cycledate"
	"github.com/terraincognita07/tsukimi/internal/models"
	"github.com/terraincognita07/tsukimi/internal/services"
)

// Payloads returned to the web views. All dates are ISO calendar dates;
// every derived number comes straight from the services package.

type recordView struct {
	ID                 string          `json:"id"`
	StartDate          cycledate.Date  `json:"startDate"`
	EndDate            *cycledate.Date `json:"endDate,omitempty"`
	NextPredictedStart cycledate.Date  `json:"nextPredictedStart"`
	Duration           *int            `json:"duration,omitempty"`
	Status             string          `json:"status"`
	InputMethod        string          `json:"inputMethod"`
}

type calendarPayload struct {
	HasRecords        bool                     `json:"hasRecords"`
	Settings          models.Settings          `json:"settings"`
	Records           []recordView             `json:"records"`
	CurrentPhase      *services.CyclePhase     `json:"currentPhase,omitempty"`
	NextPeriod        *services.NextPeriodInfo `json:"nextPeriod,omitempty"`
	Ovulation         *services.OvulationInfo  `json:"ovulation,omitempty"`
	FuturePredictions []services.ForecastEntry `json:"futurePredictions"`
}

type dashboardPayload struct {
	HasRecords        bool                     `json:"hasRecords"`
	SetupCompleted    bool                     `json:"setupCompleted"`
	Settings          models.Settings          `json:"settings"`
	LastRecord        *services.RecordDetails  `json:"lastRecord,omitempty"`
	CurrentPhase      *services.CyclePhase     `json:"currentPhase,omitempty"`
	NextPeriod        *services.NextPeriodInfo `json:"nextPeriod,omitempty"`
	Ovulation         *services.OvulationInfo  `json:"ovulation,omitempty"`
	FuturePredictions []services.ForecastEntry `json:"futurePredictions"`
	History           services.HistorySummary  `json:"history"`
}

func buildRecordView(record models.PeriodRecord, location *time.Location) recordView {
	view := recordView{
		ID:                 record.ID,
		StartDate:          cycledate.FromTime(record.StartDate, location),
		NextPredictedStart: cycledate.FromTime(record.NextPredictedStart, location),
		Duration:           record.Duration,
		Status:             record.Status,
		InputMethod:        record.InputMethod,
	}
	if record.EndDate != nil {
		endDate := cycledate.FromTime(*record.EndDate, location)
		view.EndDate = &endDate
	}
	return view
}

func buildCalendarPayload(records []models.PeriodRecord, settings models.Settings, today cycledate.Date, location *time.Location) calendarPayload {
	payload := calendarPayload{
		Settings:          settings,
		Records:           make([]recordView, 0, len(records)),
		FuturePredictions: []services.ForecastEntry{},
	}
	for _, record := range records {
		payload.Records = append(payload.Records, buildRecordView(record, location))
	}
	if len(records) == 0 {
		return payload
	}

	payload.HasRecords = true
	latestStart := cycledate.FromTime(records[0].StartDate, location)

	if phase, ok := services.ComputeCyclePhase(latestStart, settings.Period, settings.Cycle, today); ok {
		payload.CurrentPhase = &phase
	}
	if next, ok := services.ComputeDaysUntilNextPeriod(latestStart, settings.Cycle, today); ok {
		payload.NextPeriod = &next
	}
	if ovulation, ok := services.ComputeOvulationInfo(latestStart, settings.Cycle); ok {
		payload.Ovulation = &ovulation
	}
	payload.FuturePredictions = services.BuildForecastSeries(latestStart, settings, services.DefaultForecastHorizon)

	return payload
}
