package models

import (
	"sort"
	"strings"
	"time"
)

const (
	PartnershipStatusActive   = "active"
	PartnershipStatusInactive = "inactive"
)

// Partnership links two users for cross-notification. The primary key is
// the deterministic unordered-pair key, which guarantees at most one
// partnership row per pair regardless of who invited whom.
type Partnership struct {
	ID            string `gorm:"primaryKey"`
	UserA         string `gorm:"not null;index"`
	UserB         string `gorm:"not null;index"`
	Status        string `gorm:"not null;default:active"`
	InviteCode    string `gorm:"not null;default:''"`
	InvitedBy     string `gorm:"not null;default:''"`
	CreatedAt     time.Time
	DeactivatedAt *time.Time
	DeactivatedBy string `gorm:"not null;default:''"`
}

// PartnershipKey builds the canonical key for an unordered user pair.
func PartnershipKey(userA string, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// PartnerOf returns the other member of the pair, or "" when the given
// user is not part of it.
func (p Partnership) PartnerOf(userID string) string {
	switch userID {
	case p.UserA:
		return p.UserB
	case p.UserB:
		return p.UserA
	default:
		return ""
	}
}
