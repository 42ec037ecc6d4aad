package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/terraincognita07/tsukimi/internal/models"
)

// In-memory store fakes shared by the service tests. They are not safe
// for concurrent use; each test builds its own instances.

type fakeUserStore struct {
	users       map[string]*models.User
	settingsErr error
	updateErr   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (store *fakeUserStore) addUser(userID string, settings models.Settings, setupDone bool) {
	store.users[userID] = &models.User{
		ID:                    userID,
		CycleLength:           settings.Cycle,
		PeriodLength:          settings.Period,
		NotificationsEnabled:  settings.Notifications,
		InitialSetupCompleted: setupDone,
	}
}

func (store *fakeUserStore) EnsureUser(userID string, now time.Time) (models.User, error) {
	if user, ok := store.users[userID]; ok {
		user.LastActiveAt = now
		return *user, nil
	}
	user := &models.User{
		ID:                   userID,
		CycleLength:          models.DefaultCycleLength,
		PeriodLength:         models.DefaultPeriodLength,
		NotificationsEnabled: true,
		RegisteredAt:         now,
		LastActiveAt:         now,
	}
	store.users[userID] = user
	return *user, nil
}

func (store *fakeUserStore) FindByID(userID string) (models.User, error) {
	user, ok := store.users[userID]
	if !ok {
		return models.User{}, errors.New("user not found")
	}
	return *user, nil
}

func (store *fakeUserStore) Settings(userID string) (models.Settings, error) {
	if store.settingsErr != nil {
		return models.Settings{}, store.settingsErr
	}
	user, ok := store.users[userID]
	if !ok {
		return models.DefaultSettings(), nil
	}
	return user.Settings(), nil
}

func (store *fakeUserStore) UpdateCycleLength(userID string, cycleLength int) error {
	if store.updateErr != nil {
		return store.updateErr
	}
	store.users[userID].CycleLength = cycleLength
	return nil
}

func (store *fakeUserStore) UpdatePeriodLength(userID string, periodLength int) error {
	if store.updateErr != nil {
		return store.updateErr
	}
	store.users[userID].PeriodLength = periodLength
	return nil
}

func (store *fakeUserStore) UpdateNotifications(userID string, enabled bool) error {
	if store.updateErr != nil {
		return store.updateErr
	}
	store.users[userID].NotificationsEnabled = enabled
	return nil
}

func (store *fakeUserStore) MarkInitialSetupCompleted(userID string) error {
	store.users[userID].InitialSetupCompleted = true
	return nil
}

type fakeRecordStore struct {
	records   []models.PeriodRecord
	createErr error
}

func (store *fakeRecordStore) Create(record *models.PeriodRecord) error {
	if store.createErr != nil {
		return store.createErr
	}
	store.records = append(store.records, *record)
	return nil
}

func (store *fakeRecordStore) ListActive(userID string, limit int) ([]models.PeriodRecord, error) {
	var active []models.PeriodRecord
	for _, record := range store.records {
		if record.UserID == userID && record.Status == models.RecordStatusActive {
			active = append(active, record)
		}
	}
	sort.Slice(active, func(left, right int) bool {
		return active[left].StartDate.After(active[right].StartDate)
	})
	if limit > 0 && len(active) > limit {
		active = active[:limit]
	}
	return active, nil
}

func (store *fakeRecordStore) LatestActive(userID string) (models.PeriodRecord, bool, error) {
	active, err := store.ListActive(userID, 1)
	if err != nil || len(active) == 0 {
		return models.PeriodRecord{}, false, err
	}
	return active[0], true, nil
}

type fakePartnershipStore struct {
	partnerships map[string]*models.Partnership
}

func newFakePartnershipStore() *fakePartnershipStore {
	return &fakePartnershipStore{partnerships: map[string]*models.Partnership{}}
}

func (store *fakePartnershipStore) FindActiveByUser(userID string) (models.Partnership, bool, error) {
	for _, partnership := range store.partnerships {
		if partnership.Status != models.PartnershipStatusActive {
			continue
		}
		if partnership.UserA == userID || partnership.UserB == userID {
			return *partnership, true, nil
		}
	}
	return models.Partnership{}, false, nil
}

func (store *fakePartnershipStore) PartnerOf(userID string) (string, bool, error) {
	partnership, found, err := store.FindActiveByUser(userID)
	if err != nil || !found {
		return "", false, err
	}
	return partnership.PartnerOf(userID), true, nil
}

func (store *fakePartnershipStore) Deactivate(partnershipID string, deactivatedBy string, now time.Time) error {
	partnership, ok := store.partnerships[partnershipID]
	if !ok {
		return errors.New("partnership not found")
	}
	partnership.Status = models.PartnershipStatusInactive
	partnership.DeactivatedAt = &now
	partnership.DeactivatedBy = deactivatedBy
	return nil
}

type fakeInviteStore struct {
	invites      map[string]*models.InviteCode
	partnerships *fakePartnershipStore
	collisions   int
	redeemErr    error
}

func newFakeInviteStore(partnerships *fakePartnershipStore) *fakeInviteStore {
	return &fakeInviteStore{invites: map[string]*models.InviteCode{}, partnerships: partnerships}
}

func (store *fakeInviteStore) Create(invite *models.InviteCode) error {
	if store.collisions > 0 {
		store.collisions--
		return errors.New("UNIQUE constraint failed: invite_codes.code")
	}
	if _, exists := store.invites[invite.Code]; exists {
		return errors.New("UNIQUE constraint failed: invite_codes.code")
	}
	clone := *invite
	store.invites[invite.Code] = &clone
	return nil
}

func (store *fakeInviteStore) FindByCode(code string) (models.InviteCode, bool, error) {
	invite, ok := store.invites[code]
	if !ok {
		return models.InviteCode{}, false, nil
	}
	return *invite, true, nil
}

func (store *fakeInviteStore) LatestActiveByGenerator(userID string) (models.InviteCode, bool, error) {
	var newest *models.InviteCode
	for _, invite := range store.invites {
		if invite.GeneratedBy != userID || invite.Status != models.InviteStatusActive {
			continue
		}
		if newest == nil || invite.CreatedAt.After(newest.CreatedAt) {
			newest = invite
		}
	}
	if newest == nil {
		return models.InviteCode{}, false, nil
	}
	return *newest, true, nil
}

func (store *fakeInviteStore) MarkExpired(code string) error {
	if invite, ok := store.invites[code]; ok {
		invite.Status = models.InviteStatusExpired
	}
	return nil
}

func (store *fakeInviteStore) InvalidateAllFor(userID string) error {
	for _, invite := range store.invites {
		if invite.GeneratedBy == userID && invite.Status == models.InviteStatusActive {
			invite.Status = models.InviteStatusInvalidated
		}
	}
	return nil
}

func (store *fakeInviteStore) Redeem(invite models.InviteCode, partnership models.Partnership, redeemedBy string, now time.Time) error {
	if store.redeemErr != nil {
		return store.redeemErr
	}
	stored, ok := store.invites[invite.Code]
	if !ok || stored.Status != models.InviteStatusActive {
		return errors.New("invite no longer redeemable")
	}
	stored.Status = models.InviteStatusUsed
	stored.CurrentUses++
	stored.UsedBy = redeemedBy
	stored.UsedAt = &now
	clone := partnership
	store.partnerships.partnerships[partnership.ID] = &clone
	return nil
}

type fakeConversationStore struct {
	states map[string]models.ConversationState
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{states: map[string]models.ConversationState{}}
}

func (store *fakeConversationStore) Set(userID string, kind string, now time.Time) error {
	store.states[userID] = models.ConversationState{UserID: userID, Kind: kind, CreatedAt: now}
	return nil
}

func (store *fakeConversationStore) Take(userID string) (models.ConversationState, bool, error) {
	state, ok := store.states[userID]
	if !ok {
		return models.ConversationState{}, false, nil
	}
	delete(store.states, userID)
	return state, true, nil
}

func (store *fakeConversationStore) Clear(userID string) error {
	delete(store.states, userID)
	return nil
}

type fakeNotifier struct {
	cycleStarts    []string
	linked         []string
	removed        []string
	cycleStartErr  error
	lastCycleStart CycleStartNotification
}

func (notifier *fakeNotifier) NotifyCycleStart(ctx context.Context, recipientID string, note CycleStartNotification) error {
	if notifier.cycleStartErr != nil {
		return notifier.cycleStartErr
	}
	notifier.cycleStarts = append(notifier.cycleStarts, recipientID)
	notifier.lastCycleStart = note
	return nil
}

func (notifier *fakeNotifier) NotifyPartnerLinked(ctx context.Context, recipientID string) error {
	notifier.linked = append(notifier.linked, recipientID)
	return nil
}

func (notifier *fakeNotifier) NotifyPartnerRemoved(ctx context.Context, recipientID string) error {
	notifier.removed = append(notifier.removed, recipientID)
	return nil
}

type fakeLinkBuilder struct{}

func (fakeLinkBuilder) WebLink(userID string, view string) (string, error) {
	return "https://example.test/" + view + "?user=" + userID, nil
}
