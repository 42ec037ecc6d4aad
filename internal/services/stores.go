package services

import (
	"time"

	"github.com/terraincognita07/tsukimi/internal/models"
)

// Storage contracts consumed by the services. The GORM repositories in
// internal/db satisfy them; tests substitute in-memory fakes.

type UserStore interface {
	EnsureUser(userID string, now time.Time) (models.User, error)
	FindByID(userID string) (models.User, error)
	Settings(userID string) (models.Settings, error)
	UpdateCycleLength(userID string, cycleLength int) error
	UpdatePeriodLength(userID string, periodLength int) error
	UpdateNotifications(userID string, enabled bool) error
	MarkInitialSetupCompleted(userID string) error
}

type RecordStore interface {
	Create(record *models.PeriodRecord) error
	ListActive(userID string, limit int) ([]models.PeriodRecord, error)
	LatestActive(userID string) (models.PeriodRecord, bool, error)
}

type PartnershipStore interface {
	FindActiveByUser(userID string) (models.Partnership, bool, error)
	PartnerOf(userID string) (string, bool, error)
	Deactivate(partnershipID string, deactivatedBy string, now time.Time) error
}

type InviteStore interface {
	Create(invite *models.InviteCode) error
	FindByCode(code string) (models.InviteCode, bool, error)
	LatestActiveByGenerator(userID string) (models.InviteCode, bool, error)
	MarkExpired(code string) error
	InvalidateAllFor(userID string) error
	Redeem(invite models.InviteCode, partnership models.Partnership, redeemedBy string, now time.Time) error
}

type ConversationStore interface {
	Set(userID string, kind string, now time.Time) error
	Take(userID string) (models.ConversationState, bool, error)
	Clear(userID string) error
}
