package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/tsukimi/internal/models"
	"github.com/terraincognita07/tsukimi/internal/security"
)

// inviteCodeAttempts bounds the retry loop when a freshly generated code
// collides with an existing row.
const inviteCodeAttempts = 10

// PairingNotifier delivers partnership lifecycle pushes. Like cycle
// notifications, delivery is best-effort.
type PairingNotifier interface {
	NotifyPartnerLinked(ctx context.Context, recipientID string) error
	NotifyPartnerRemoved(ctx context.Context, recipientID string) error
}

// PartnerService owns the invite and partnership workflow.
type PartnerService struct {
	partnerships PartnershipStore
	invites      InviteStore
	users        UserStore
	notifier     PairingNotifier
	log          zerolog.Logger
	now          func() time.Time
}

func NewPartnerService(partnerships PartnershipStore, invites InviteStore, users UserStore, notifier PairingNotifier, log zerolog.Logger) *PartnerService {
	return &PartnerService{
		partnerships: partnerships,
		invites:      invites,
		users:        users,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (service *PartnerService) WithClock(now func() time.Time) *PartnerService {
	service.now = now
	return service
}

// GenerateInvite returns an active invite code for the user. A still
// valid previously issued code is reused instead of minting a new one,
// so repeated requests hand back the same code until it expires or is
// consumed; reused reports which case applied.
func (service *PartnerService) GenerateInvite(userID string) (invite models.InviteCode, reused bool, err error) {
	now := service.now()

	if _, found, err := service.partnerships.FindActiveByUser(userID); err != nil {
		return models.InviteCode{}, false, fmt.Errorf("partnership lookup: %w", err)
	} else if found {
		return models.InviteCode{}, false, ErrPartnerExists
	}

	existing, found, err := service.invites.LatestActiveByGenerator(userID)
	if err != nil {
		return models.InviteCode{}, false, fmt.Errorf("invite lookup: %w", err)
	}
	if found && !existing.Expired(now) && existing.CurrentUses < existing.MaxUses {
		return existing, true, nil
	}
	if found && existing.Expired(now) {
		if err := service.invites.MarkExpired(existing.Code); err != nil {
			service.log.Warn().Err(err).Str("code", existing.Code).Msg("stale invite cleanup failed")
		}
	}

	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := security.RandomString(models.InviteCodeLength, models.InviteCodeAlphabet)
		if err != nil {
			return models.InviteCode{}, false, fmt.Errorf("invite code generation: %w", err)
		}

		fresh := models.InviteCode{
			Code:        code,
			GeneratedBy: userID,
			Status:      models.InviteStatusActive,
			MaxUses:     1,
			CreatedAt:   now,
			ExpiresAt:   now.Add(models.InviteCodeTTL),
		}
		if err := service.invites.Create(&fresh); err != nil {
			// Primary-key collision on the code column; try again.
			service.log.Debug().Err(err).Int("attempt", attempt+1).Msg("invite code collision")
			continue
		}

		service.log.Info().Str("user_id", userID).Str("code", code).Msg("invite code generated")
		return fresh, false, nil
	}

	return models.InviteCode{}, false, ErrInviteExhausted
}

// RedeemInvite pairs the redeeming user with the code's generator. The
// partnership creation and code consumption happen in one transaction
// inside the store, so two concurrent redemptions cannot both succeed.
func (service *PartnerService) RedeemInvite(ctx context.Context, userID string, code string) (models.Partnership, error) {
	now := service.now()

	invite, found, err := service.invites.FindByCode(code)
	if err != nil {
		return models.Partnership{}, fmt.Errorf("invite lookup: %w", err)
	}
	if !found {
		return models.Partnership{}, ErrInviteNotFound
	}
	if invite.GeneratedBy == userID {
		return models.Partnership{}, ErrOwnInviteCode
	}
	if invite.Status != models.InviteStatusActive || invite.CurrentUses >= invite.MaxUses {
		return models.Partnership{}, ErrInviteConsumed
	}
	if invite.Expired(now) {
		if err := service.invites.MarkExpired(invite.Code); err != nil {
			service.log.Warn().Err(err).Str("code", invite.Code).Msg("expired invite cleanup failed")
		}
		return models.Partnership{}, ErrInviteExpired
	}

	for _, memberID := range []string{userID, invite.GeneratedBy} {
		if _, found, err := service.partnerships.FindActiveByUser(memberID); err != nil {
			return models.Partnership{}, fmt.Errorf("partnership lookup: %w", err)
		} else if found {
			return models.Partnership{}, ErrPartnerExists
		}
	}

	partnership := models.Partnership{
		ID:         models.PartnershipKey(userID, invite.GeneratedBy),
		UserA:      invite.GeneratedBy,
		UserB:      userID,
		Status:     models.PartnershipStatusActive,
		InviteCode: invite.Code,
		InvitedBy:  invite.GeneratedBy,
		CreatedAt:  now,
	}
	if err := service.invites.Redeem(invite, partnership, userID, now); err != nil {
		return models.Partnership{}, fmt.Errorf("invite redemption: %w", err)
	}

	service.log.Info().
		Str("user_id", userID).
		Str("partner_id", invite.GeneratedBy).
		Str("code", invite.Code).
		Msg("partnership established")

	if service.notifier != nil {
		if err := service.notifier.NotifyPartnerLinked(ctx, invite.GeneratedBy); err != nil {
			service.log.Warn().Err(err).Str("partner_id", invite.GeneratedBy).Msg("pairing notification failed")
		}
	}

	return partnership, nil
}

// CheckPartner reports the user's current partner, if any.
func (service *PartnerService) CheckPartner(userID string) (models.Partnership, bool, error) {
	partnership, found, err := service.partnerships.FindActiveByUser(userID)
	if err != nil {
		return models.Partnership{}, false, fmt.Errorf("partnership lookup: %w", err)
	}
	return partnership, found, nil
}

// RemovePartner dissolves the user's partnership. Outstanding invite
// codes of both members are invalidated so a stale code cannot silently
// re-link the pair.
func (service *PartnerService) RemovePartner(ctx context.Context, userID string) (string, error) {
	partnership, found, err := service.partnerships.FindActiveByUser(userID)
	if err != nil {
		return "", fmt.Errorf("partnership lookup: %w", err)
	}
	if !found {
		return "", ErrNoPartner
	}

	partnerID := partnership.PartnerOf(userID)
	if err := service.partnerships.Deactivate(partnership.ID, userID, service.now()); err != nil {
		return "", fmt.Errorf("partnership deactivation: %w", err)
	}

	for _, memberID := range []string{userID, partnerID} {
		if err := service.invites.InvalidateAllFor(memberID); err != nil {
			service.log.Warn().Err(err).Str("user_id", memberID).Msg("invite invalidation failed")
		}
	}

	service.log.Info().Str("user_id", userID).Str("partner_id", partnerID).Msg("partnership removed")

	if service.notifier != nil && partnerID != "" {
		if err := service.notifier.NotifyPartnerRemoved(ctx, partnerID); err != nil {
			service.log.Warn().Err(err).Str("partner_id", partnerID).Msg("removal notification failed")
		}
	}

	return partnerID, nil
}
