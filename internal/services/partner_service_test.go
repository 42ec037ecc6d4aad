package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/tsukimi/internal/models"
)

type partnerServiceFixture struct {
	users        *fakeUserStore
	partnerships *fakePartnershipStore
	invites      *fakeInviteStore
	notifier     *fakeNotifier
	service      *PartnerService
}

func newPartnerServiceFixture(t *testing.T) *partnerServiceFixture {
	t.Helper()

	users := newFakeUserStore()
	users.addUser("alice", defaultTestSettings(), true)
	users.addUser("bob", defaultTestSettings(), true)

	partnerships := newFakePartnershipStore()
	invites := newFakeInviteStore(partnerships)
	notifier := &fakeNotifier{}

	service := NewPartnerService(partnerships, invites, users, notifier, zerolog.Nop()).
		WithClock(fixedClock(2024, time.June, 12))

	return &partnerServiceFixture{
		users:        users,
		partnerships: partnerships,
		invites:      invites,
		notifier:     notifier,
		service:      service,
	}
}

var inviteCodeFormat = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestGenerateInvite(t *testing.T) {
	t.Parallel()

	fixture := newPartnerServiceFixture(t)

	invite, reused, err := fixture.service.GenerateInvite("alice")
	if err != nil {
		t.Fatalf("GenerateInvite: %v", err)
	}
	if reused {
		t.Error("first invite reported as reused")
	}
	if !inviteCodeFormat.MatchString(invite.Code) {
		t.Errorf("Code = %q, want six uppercase alphanumerics", invite.Code)
	}
	if invite.MaxUses != 1 {
		t.Errorf("MaxUses = %d, want 1", invite.MaxUses)
	}
	if want := invite.CreatedAt.Add(models.InviteCodeTTL); !invite.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", invite.ExpiresAt, want)
	}
}

func TestGenerateInviteReusesActiveCode(t *testing.T) {
	t.Parallel()

	fixture := newPartnerServiceFixture(t)

	first, _, err := fixture.service.GenerateInvite("alice")
	if err != nil {
		t.Fatalf("first GenerateInvite: %v", err)
	}
	second, reused, err := fixture.service.GenerateInvite("alice")
	if err != nil {
		t.Fatalf("second GenerateInvite: %v", err)
	}
	if !reused {
		t.Error("second invite not reported as reused")
	}
	if second.Code != first.Code {
		t.Errorf("second code %q differs from first %q", second.Code, first.Code)
	}
}

func TestGenerateInviteRetriesOnCollision(t *testing.T) {
	t.Parallel()

	fixture := newPartnerServiceFixture(t)
	fixture.invites.collisions = 3

	if _, _, err := fixture.service.GenerateInvite("alice"); err != nil {
		t.Fatalf("GenerateInvite: %v", err)
	}
}

func TestGenerateInviteExhaustsRetries(t *testing.T) {
	t.Parallel()

	fixture := newPartnerServiceFixture(t)
	fixture.invites.collisions = inviteCodeAttempts

	if _, _, err := fixture.service.GenerateInvite("alice"); !errors.Is(err, ErrInviteExhausted) {
		t.Fatalf("err = %v, want ErrInviteExhausted", err)
	}
}

func TestGenerateInviteRejectsWhenPartnered(t *testing.T) {
	t.Parallel()

	fixture := newPartnerServiceFixture(t)
	mustPair(t, fixture, "alice", "bob")

	if _, _, err := fixture.service.GenerateInvite("alice"); !errors.Is(err, ErrPartnerExists) {
		t.Fatalf("err = %v, want ErrPartnerExists", err)
	}
}

func mustPair(t *testing.T, fixture *partnerServiceFixture, inviter string, redeemer string) models.Partnership {
	t.Helper()

	invite, _, err := fixture.service.GenerateInvite(inviter)
	if err != nil {
		t.Fatalf("GenerateInvite(%s): %v", inviter, err)
	}
	partnership, err := fixture.service.RedeemInvite(context.Background(), redeemer, invite.Code)
	if err != nil {
		t.Fatalf("RedeemInvite(%s): %v", redeemer, err)
	}
	return partnership
}

func TestRedeemInvite(t *testing.T) {
	t.Parallel()

	fixture := newPartnerServiceFixture(t)
	partnership := mustPair(t, fixture, "alice", "bob")

	if want := models.PartnershipKey("alice", "bob"); partnership.ID != want {
		t.Errorf("ID = %q, want %q", partnership.ID, want)
	}
	if partnership.InvitedBy != "alice" {
		t.Errorf("InvitedBy = %q, want alice", partnership.InvitedBy)
	}
	if got := partnership.PartnerOf("bob"); got != "alice" {
		t.Errorf("PartnerOf(bob) = %q, want alice", got)
	}

	stored, _, _ := fixture.invites.FindByCode(partnership.InviteCode)
	if stored.Status != models.InviteStatusUsed {
		t.Errorf("invite status = %q, want %q", stored.Status, models.InviteStatusUsed)
	}

	// Inviter is told about the pairing.
	if len(fixture.notifier.linked) != 1 || fixture.notifier.linked[0] != "alice" {
		t.Errorf("linked notifications = %v, want [alice]", fixture.notifier.linked)
	}
}

func TestRedeemInviteRejectsOwnCode(t *testing.T) {
	t.Parallel()

	fixture := newPartnerServiceFixture(t)

	invite, _, err := fixture.service.GenerateInvite("alice")
	if err != nil {
		t.Fatalf("GenerateInvite: %v", err)
	}

	if _, err := fixture.service.RedeemInvite(context.Background(), "alice", invite.Code); !errors.Is(err, ErrOwnInviteCode) {
		t.Fatalf("err = %v, want ErrOwnInviteCode", err)
	}
}

func TestRedeemInviteUnknownCode(t *testing.T) {
	t.Parallel()

	fixture := newPartnerServiceFixture(t)

	if _, err := fixture.service.RedeemInvite(context.Background(), "bob", "ZZZZZZ"); !errors.Is(err, ErrInviteNotFound) {
		t.Fatalf("err = %v, want ErrInviteNotFound", err)
	}
}

func TestRedeemInviteConsumedCode(t *testing.T) {
	t.Parallel()

	fixture := newPartnerServiceFixture(t)
	fixture.users.addUser("carol", defaultTestSettings(), true)

	partnership := mustPair(t, fixture, "alice", "bob")

	if _, err := fixture.service.RedeemInvite(context.Background(), "carol", partnership.InviteCode); !errors.Is(err, ErrInviteConsumed) {
		t.Fatalf("err = %v, want ErrInviteConsumed", err)
	}
}

func TestRedeemInviteExpiredCode(t *testing.T) {
	t.Parallel()

	fixture := newPartnerServiceFixture(t)

	invite, _, err := fixture.service.GenerateInvite("alice")
	if err != nil {
		t.Fatalf("GenerateInvite: %v", err)
	}

	// Jump past the 24-hour TTL.
	fixture.service.WithClock(fixedClock(2024, time.June, 14))

	if _, err := fixture.service.RedeemInvite(context.Background(), "bob", invite.Code); !errors.Is(err, ErrInviteExpired) {
		t.Fatalf("err = %v, want ErrInviteExpired", err)
	}

	stored, _, _ := fixture.invites.FindByCode(invite.Code)
	if stored.Status != models.InviteStatusExpired {
		t.Errorf("invite status = %q, want %q", stored.Status, models.InviteStatusExpired)
	}
}

func TestRedeemInviteRejectsWhenInviterAlreadyPartnered(t *testing.T) {
	t.Parallel()

	fixture := newPartnerServiceFixture(t)
	fixture.users.addUser("carol", defaultTestSettings(), true)

	invite, _, err := fixture.service.GenerateInvite("alice")
	if err != nil {
		t.Fatalf("GenerateInvite: %v", err)
	}
	mustPair(t, fixture, "carol", "bob")

	if _, err := fixture.service.RedeemInvite(context.Background(), "bob", invite.Code); !errors.Is(err, ErrPartnerExists) {
		t.Fatalf("err = %v, want ErrPartnerExists", err)
	}
}

func TestCheckPartner(t *testing.T) {
	t.Parallel()

	fixture := newPartnerServiceFixture(t)

	if _, found, err := fixture.service.CheckPartner("alice"); err != nil || found {
		t.Fatalf("CheckPartner before pairing: found=%v err=%v", found, err)
	}

	mustPair(t, fixture, "alice", "bob")

	partnership, found, err := fixture.service.CheckPartner("alice")
	if err != nil || !found {
		t.Fatalf("CheckPartner after pairing: found=%v err=%v", found, err)
	}
	if got := partnership.PartnerOf("alice"); got != "bob" {
		t.Errorf("PartnerOf(alice) = %q, want bob", got)
	}
}

func TestRemovePartner(t *testing.T) {
	t.Parallel()

	fixture := newPartnerServiceFixture(t)
	mustPair(t, fixture, "alice", "bob")

	partnerID, err := fixture.service.RemovePartner(context.Background(), "alice")
	if err != nil {
		t.Fatalf("RemovePartner: %v", err)
	}
	if partnerID != "bob" {
		t.Errorf("partnerID = %q, want bob", partnerID)
	}

	if _, found, _ := fixture.service.CheckPartner("alice"); found {
		t.Error("partnership still active after removal")
	}
	if len(fixture.notifier.removed) != 1 || fixture.notifier.removed[0] != "bob" {
		t.Errorf("removal notifications = %v, want [bob]", fixture.notifier.removed)
	}

	// A new pairing needs a fresh code.
	if _, _, err := fixture.service.GenerateInvite("alice"); err != nil {
		t.Fatalf("GenerateInvite after removal: %v", err)
	}
}

func TestRemovePartnerWithoutPartnership(t *testing.T) {
	t.Parallel()

	fixture := newPartnerServiceFixture(t)

	if _, err := fixture.service.RemovePartner(context.Background(), "alice"); !errors.Is(err, ErrNoPartner) {
		t.Fatalf("err = %v, want ErrNoPartner", err)
	}
}
