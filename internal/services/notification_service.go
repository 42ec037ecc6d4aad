package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/tsukimi/internal/cycledate"
)

// CycleStartNotification is the payload pushed to a partner when a new
// cycle is recorded.
type CycleStartNotification struct {
	StartDate     cycledate.Date
	EndDate       cycledate.Date
	NextStartDate cycledate.Date
}

// PartnerNotifier delivers a cycle-start notification to one recipient.
// The messaging client implements it; delivery is best-effort.
type PartnerNotifier interface {
	NotifyCycleStart(ctx context.Context, recipientID string, note CycleStartNotification) error
}

// NotificationService resolves whether a partner should be notified and
// dispatches the push. Failures are logged and swallowed: notification
// problems must never affect the record save that triggered them.
type NotificationService struct {
	partnerships PartnershipStore
	users        UserStore
	notifier     PartnerNotifier
	log          zerolog.Logger
}

func NewNotificationService(partnerships PartnershipStore, users UserStore, notifier PartnerNotifier, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		partnerships: partnerships,
		users:        users,
		notifier:     notifier,
		log:          log,
	}
}

// NotifyPartnerCycleStart pushes the payload to the user's partner when
// one exists and has notifications enabled. Never returns an error.
func (service *NotificationService) NotifyPartnerCycleStart(ctx context.Context, userID string, note CycleStartNotification) {
	if service.notifier == nil {
		return
	}

	partnerID, found, err := service.partnerships.PartnerOf(userID)
	if err != nil {
		service.log.Warn().Err(err).Str("user_id", userID).Msg("partner lookup failed, notification skipped")
		return
	}
	if !found || partnerID == "" {
		return
	}

	partnerSettings, err := service.users.Settings(partnerID)
	if err != nil {
		service.log.Warn().Err(err).Str("partner_id", partnerID).Msg("partner settings fetch failed, notification skipped")
		return
	}
	if !partnerSettings.Notifications {
		return
	}

	if err := service.notifier.NotifyCycleStart(ctx, partnerID, note); err != nil {
		service.log.Error().Err(err).Str("partner_id", partnerID).Msg("partner notification dispatch failed")
	}
}
