package models

import "time"

// Pending multi-turn conversation kinds.
const (
	ConversationAwaitingDate   = "date_input"
	ConversationAwaitingCycle  = "cycle_setting"
	ConversationAwaitingPeriod = "period_setting"
)

// ConversationState marks a user as being mid-way through a multi-turn
// exchange ("send me the start date"). One row per user; consumed through
// an atomic get-and-clear so that two racing messages cannot both claim
// the same pending state.
type ConversationState struct {
	UserID    string `gorm:"primaryKey"`
	Kind      string `gorm:"not null"`
	CreatedAt time.Time
}
