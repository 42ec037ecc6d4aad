package models

import "time"

const (
	InviteStatusActive      = "active"
	InviteStatusUsed        = "used"
	InviteStatusExpired     = "expired"
	InviteStatusInvalidated = "invalidated"
)

const (
	InviteCodeLength   = 6
	InviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	InviteCodeTTL      = 24 * time.Hour
)

// InviteCode is a single-use pairing code. A code leaves the active
// status exactly once; expired and invalidated codes are never matched
// during redemption even before they are garbage collected.
type InviteCode struct {
	Code        string `gorm:"primaryKey"`
	GeneratedBy string `gorm:"not null;index"`
	Status      string `gorm:"not null;default:active"`
	MaxUses     int    `gorm:"not null;default:1"`
	CurrentUses int    `gorm:"not null;default:0"`
	UsedBy      string `gorm:"not null;default:''"`
	CreatedAt   time.Time
	ExpiresAt   time.Time `gorm:"not null"`
	UsedAt      *time.Time
}

func (c InviteCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
