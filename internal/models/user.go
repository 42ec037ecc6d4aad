package models

import "time"

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5

	MinCycleLength  = 21
	MaxCycleLength  = 35
	MinPeriodLength = 3
	MaxPeriodLength = 7
)

// User is one messaging-channel account. The primary key is the opaque
// user identifier issued by the channel, not a local sequence.
type User struct {
	ID                    string    `gorm:"primaryKey"`
	CycleLength           int       `gorm:"not null;default:28"`
	PeriodLength          int       `gorm:"not null;default:5"`
	NotificationsEnabled  bool      `gorm:"not null;default:true"`
	InitialSetupCompleted bool      `gorm:"not null;default:false"`
	RegisteredAt          time.Time `gorm:"not null"`
	LastActiveAt          time.Time `gorm:"not null"`
}

// Settings is the per-user configuration slice the cycle engine consumes.
type Settings struct {
	Cycle         int  `json:"cycle"`
	Period        int  `json:"period"`
	Notifications bool `json:"notifications"`
}

// DefaultSettings are applied on first contact and whenever a settings
// fetch fails (the caller degrades to defaults rather than erroring).
func DefaultSettings() Settings {
	return Settings{
		Cycle:         DefaultCycleLength,
		Period:        DefaultPeriodLength,
		Notifications: true,
	}
}

func (u User) Settings() Settings {
	return Settings{
		Cycle:         u.CycleLength,
		Period:        u.PeriodLength,
		Notifications: u.NotificationsEnabled,
	}
}
