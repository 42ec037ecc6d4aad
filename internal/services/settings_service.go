package services

import (
	"github.com/rs/zerolog"
	"github.com/terraincognita07/tsukimi/internal/models"
)

// SettingsService validates and applies per-user configuration changes.
// Domain validation happens here, before anything reaches the store; the
// store never sees an out-of-range value.
type SettingsService struct {
	users UserStore
	log   zerolog.Logger
}

func NewSettingsService(users UserStore, log zerolog.Logger) *SettingsService {
	return &SettingsService{users: users, log: log}
}

func ValidCycleLength(cycleLength int) bool {
	return cycleLength >= models.MinCycleLength && cycleLength <= models.MaxCycleLength
}

func ValidPeriodLength(periodLength int) bool {
	return periodLength >= models.MinPeriodLength && periodLength <= models.MaxPeriodLength
}

// Settings returns the user's configuration, falling back to defaults on
// any store failure. Settings reads never fail visibly.
func (service *SettingsService) Settings(userID string) models.Settings {
	settings, err := service.users.Settings(userID)
	if err != nil {
		service.log.Warn().Err(err).Str("user_id", userID).Msg("settings fetch failed, using defaults")
		return models.DefaultSettings()
	}
	return settings
}

func (service *SettingsService) UpdateCycleLength(userID string, cycleLength int) error {
	if !ValidCycleLength(cycleLength) {
		return ErrCycleOutOfRange
	}
	return service.users.UpdateCycleLength(userID, cycleLength)
}

func (service *SettingsService) UpdatePeriodLength(userID string, periodLength int) error {
	if !ValidPeriodLength(periodLength) {
		return ErrPeriodOutOfRange
	}
	return service.users.UpdatePeriodLength(userID, periodLength)
}

// ToggleNotifications flips the notification flag and returns the new value.
func (service *SettingsService) ToggleNotifications(userID string) (bool, error) {
	settings, err := service.users.Settings(userID)
	if err != nil {
		return false, err
	}
	enabled := !settings.Notifications
	if err := service.users.UpdateNotifications(userID, enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

// SettingsUpdate is the structured settings form. Fields are explicit and
// individually validated; unknown keys cannot exist by construction.
type SettingsUpdate struct {
	Cycle         int  `json:"cycle"`
	Period        int  `json:"period"`
	Notifications bool `json:"notifications"`
}

// ApplyUpdate validates every field before writing any of them, then
// marks initial setup as completed.
func (service *SettingsService) ApplyUpdate(userID string, update SettingsUpdate) error {
	if !ValidCycleLength(update.Cycle) {
		return ErrCycleOutOfRange
	}
	if !ValidPeriodLength(update.Period) {
		return ErrPeriodOutOfRange
	}

	if err := service.users.UpdateCycleLength(userID, update.Cycle); err != nil {
		return err
	}
	if err := service.users.UpdatePeriodLength(userID, update.Period); err != nil {
		return err
	}
	if err := service.users.UpdateNotifications(userID, update.Notifications); err != nil {
		return err
	}
	return service.users.MarkInitialSetupCompleted(userID)
}
