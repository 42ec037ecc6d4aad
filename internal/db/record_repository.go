package db

import (
	"time"

	"github.com/terraincognita07/tsukimi/internal/models"
	"gorm.io/gorm"
)

type RecordRepository struct {
	database *gorm.DB
}

func NewRecordRepository(database *gorm.DB) *RecordRepository {
	return &RecordRepository{database: database}
}

func (repo *RecordRepository) Create(record *models.PeriodRecord) error {
	return repo.database.Create(record).Error
}

// ListActive returns the user's active records, newest start date first.
// limit <= 0 means no limit.
func (repo *RecordRepository) ListActive(userID string, limit int) ([]models.PeriodRecord, error) {
	query := repo.database.
		Where("user_id = ? AND status = ?", userID, models.RecordStatusActive).
		Order("start_date DESC, recorded_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	records := make([]models.PeriodRecord, 0)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// LatestActive returns the most recent active record, if any.
func (repo *RecordRepository) LatestActive(userID string) (models.PeriodRecord, bool, error) {
	records, err := repo.ListActive(userID, 1)
	if err != nil {
		return models.PeriodRecord{}, false, err
	}
	if len(records) == 0 {
		return models.PeriodRecord{}, false, nil
	}
	return records[0], true, nil
}

func (repo *RecordRepository) CountActive(userID string) (int64, error) {
	var count int64
	err := repo.database.Model(&models.PeriodRecord{}).
		Where("user_id = ? AND status = ?", userID, models.RecordStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MarkDeleted soft-deletes a record. The transition is one-directional:
// only active records can move to deleted.
func (repo *RecordRepository) MarkDeleted(userID string, recordID string, now time.Time) error {
	result := repo.database.Model(&models.PeriodRecord{}).
		Where("id = ? AND user_id = ? AND status = ?", recordID, userID, models.RecordStatusActive).
		Updates(map[string]any{
			"status":     models.RecordStatusDeleted,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
