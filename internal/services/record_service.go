package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/terraincognita07/tsukimi/internal/cycledate"
	"github.com/terraincognita07/tsukimi/internal/models"
)

// RecordService owns period-record creation: entry validation, derived
// date computation, persistence and the fire-and-forget partner
// notification.
type RecordService struct {
	records       RecordStore
	settings      *SettingsService
	notifications *NotificationService
	location      *time.Location
	log           zerolog.Logger
	now           func() time.Time
}

func NewRecordService(records RecordStore, settings *SettingsService, notifications *NotificationService, location *time.Location, log zerolog.Logger) *RecordService {
	if location == nil {
		location = time.UTC
	}
	return &RecordService{
		records:       records,
		settings:      settings,
		notifications: notifications,
		location:      location,
		log:           log,
		now:           time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (service *RecordService) WithClock(now func() time.Time) *RecordService {
	service.now = now
	return service
}

// RecordEntry describes one cycle-start entry. EndDate and Duration are
// only supplied by the structured form path.
type RecordEntry struct {
	StartDate     cycledate.Date
	EndDate       *cycledate.Date
	Duration      *int
	InputMethod   string
	OriginalInput string
	MaxAgeDays    int
}

// RecordOutcome reports what was saved and the derived dates the reply
// and the partner notification interpolate.
type RecordOutcome struct {
	Record    models.PeriodRecord
	Predicted PredictedDates
	Settings  models.Settings
}

// RecordCycleStart validates the entry, persists the record and notifies
// the partner. The notification is best-effort: its failure never rolls
// back or fails the save.
func (service *RecordService) RecordCycleStart(ctx context.Context, userID string, entry RecordEntry) (RecordOutcome, error) {
	today := cycledate.FromTime(service.now(), service.location)
	maxAge := entry.MaxAgeDays
	if maxAge <= 0 {
		maxAge = models.MaxEntryAgeDaysConversational
	}
	if err := cycledate.ValidateEntry(entry.StartDate, today, maxAge); err != nil {
		return RecordOutcome{}, err
	}
	if entry.EndDate != nil && entry.EndDate.Before(entry.StartDate) {
		return RecordOutcome{}, cycledate.ErrParseFailure
	}

	settings := service.settings.Settings(userID)
	predicted := ComputePredictedDates(entry.StartDate, settings)

	endDate := predicted.EndDate
	if entry.EndDate != nil {
		endDate = *entry.EndDate
	}
	endTime := endDate.Time(service.location)

	inputMethod := entry.InputMethod
	if inputMethod == "" {
		inputMethod = models.InputMethodNatural
	}

	record := models.PeriodRecord{
		ID:                 uuid.NewString(),
		UserID:             userID,
		StartDate:          entry.StartDate.Time(service.location),
		EndDate:            &endTime,
		NextPredictedStart: predicted.NextStartDate.Time(service.location),
		Duration:           entry.Duration,
		Status:             models.RecordStatusActive,
		InputMethod:        inputMethod,
		OriginalInput:      entry.OriginalInput,
		RecordedAt:         service.now(),
	}
	if err := service.records.Create(&record); err != nil {
		return RecordOutcome{}, err
	}

	service.log.Info().
		Str("user_id", userID).
		Str("record_id", record.ID).
		Str("start_date", entry.StartDate.String()).
		Msg("period record saved")

	service.notifications.NotifyPartnerCycleStart(ctx, userID, CycleStartNotification{
		StartDate:     entry.StartDate,
		EndDate:       endDate,
		NextStartDate: predicted.NextStartDate,
	})

	return RecordOutcome{Record: record, Predicted: predicted, Settings: settings}, nil
}

// LatestDetails loads the newest record and composes its derived view.
func (service *RecordService) LatestDetails(userID string) (RecordDetails, bool, error) {
	record, found, err := service.records.LatestActive(userID)
	if err != nil || !found {
		return RecordDetails{}, false, err
	}

	today := cycledate.FromTime(service.now(), service.location)
	details, ok := GenerateRecordDetails(record, service.settings.Settings(userID), today, service.location)
	return details, ok, nil
}

// History returns derived views for the newest records plus the summary
// statistics over them.
func (service *RecordService) History(userID string, limit int) ([]RecordDetails, HistorySummary, error) {
	records, err := service.records.ListActive(userID, limit)
	if err != nil {
		return nil, HistorySummary{}, err
	}

	settings := service.settings.Settings(userID)
	today := cycledate.FromTime(service.now(), service.location)

	views := make([]RecordDetails, 0, len(records))
	for _, record := range records {
		if details, ok := GenerateRecordDetails(record, settings, today, service.location); ok {
			views = append(views, details)
		}
	}

	return views, SummarizeHistory(records, settings, service.location), nil
}
