package models

import "time"

const (
	RecordStatusActive   = "active"
	RecordStatusModified = "modified"
	RecordStatusDeleted  = "deleted"
)

const (
	InputMethodNatural = "natural"
	InputMethodForm    = "form"
)

// Maximum allowed age of a start date, per entry path.
const (
	MaxEntryAgeDaysConversational = 365
	MaxEntryAgeDaysForm           = 90
)

// PeriodRecord is one recorded cycle start. Records are soft-deleted:
// status moves active->modified or active->deleted exactly once and
// deleted records are excluded from every query and calculation.
//
// Duration is stored as entered and is deliberately independent of
// EndDate; the two are never reconciled (the engine derives actual day
// counts from EndDate alone).
type PeriodRecord struct {
	ID                 string     `gorm:"primaryKey"`
	UserID             string     `gorm:"not null;index:idx_records_user_status"`
	StartDate          time.Time  `gorm:"type:date;not null"`
	EndDate            *time.Time `gorm:"type:date"`
	NextPredictedStart time.Time  `gorm:"type:date;not null"`
	Duration           *int
	Status             string    `gorm:"not null;default:active;index:idx_records_user_status"`
	InputMethod        string    `gorm:"not null;default:natural"`
	OriginalInput      string    `gorm:"not null;default:''"`
	RecordedAt         time.Time `gorm:"not null"`
	UpdatedAt          time.Time
}
