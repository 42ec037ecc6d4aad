package services

import "errors"

var (
	ErrCycleOutOfRange  = errors.New("cycle length out of range")
	ErrPeriodOutOfRange = errors.New("period length out of range")

	ErrOwnInviteCode   = errors.New("invite code was generated by the redeeming user")
	ErrPartnerExists   = errors.New("an active partnership already exists")
	ErrInviteNotFound  = errors.New("invite code not found")
	ErrInviteConsumed  = errors.New("invite code already used or retired")
	ErrInviteExpired   = errors.New("invite code expired")
	ErrInviteExhausted = errors.New("could not generate a unique invite code")
	ErrNoPartner       = errors.New("no active partnership")
)

// Wire reason codes for the error taxonomy. Input validation reason
// codes for dates live in the cycledate package.
const (
	ReasonInvalidRange    = "INVALID_RANGE"
	ReasonOwnInviteCode   = "OWN_INVITE_CODE"
	ReasonPartnerExists   = "PARTNER_EXISTS"
	ReasonInviteNotFound  = "INVITE_NOT_FOUND"
	ReasonInviteConsumed  = "INVITE_CONSUMED"
	ReasonInviteExpired   = "INVITE_EXPIRED"
	ReasonInviteExhausted = "INVITE_EXHAUSTED"
	ReasonNoPartner       = "NO_PARTNER"
)

// ReasonCode maps service errors to their machine-readable codes; callers
// branch on these to pick user-facing guidance.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrCycleOutOfRange), errors.Is(err, ErrPeriodOutOfRange):
		return ReasonInvalidRange
	case errors.Is(err, ErrOwnInviteCode):
		return ReasonOwnInviteCode
	case errors.Is(err, ErrPartnerExists):
		return ReasonPartnerExists
	case errors.Is(err, ErrInviteNotFound):
		return ReasonInviteNotFound
	case errors.Is(err, ErrInviteConsumed):
		return ReasonInviteConsumed
	case errors.Is(err, ErrInviteExpired):
		return ReasonInviteExpired
	case errors.Is(err, ErrInviteExhausted):
		return ReasonInviteExhausted
	case errors.Is(err, ErrNoPartner):
		return ReasonNoPartner
	default:
		return ""
	}
}
