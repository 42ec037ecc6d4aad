package db

import (
	"errors"
	"time"

	"github.com/terraincognita07/tsukimi/internal/models"
	"gorm.io/gorm"
)

type PartnershipRepository struct {
	database *gorm.DB
}

func NewPartnershipRepository(database *gorm.DB) *PartnershipRepository {
	return &PartnershipRepository{database: database}
}

// FindActiveByUser returns the user's active partnership, if any. A user
// holds at most one at a time.
func (repo *PartnershipRepository) FindActiveByUser(userID string) (models.Partnership, bool, error) {
	var partnership models.Partnership
	err := repo.database.
		Where("status = ? AND (user_a = ? OR user_b = ?)", models.PartnershipStatusActive, userID, userID).
		First(&partnership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Partnership{}, false, nil
	}
	if err != nil {
		return models.Partnership{}, false, err
	}
	return partnership, true, nil
}

// PartnerOf resolves the active partner's user ID, if one exists.
func (repo *PartnershipRepository) PartnerOf(userID string) (string, bool, error) {
	partnership, found, err := repo.FindActiveByUser(userID)
	if err != nil || !found {
		return "", false, err
	}
	return partnership.PartnerOf(userID), true, nil
}

// Deactivate marks the partnership inactive. It is never deleted.
func (repo *PartnershipRepository) Deactivate(partnershipID string, deactivatedBy string, now time.Time) error {
	return repo.database.Model(&models.Partnership{}).
		Where("id = ? AND status = ?", partnershipID, models.PartnershipStatusActive).
		Updates(map[string]any{
			"status":         models.PartnershipStatusInactive,
			"deactivated_at": now,
			"deactivated_by": deactivatedBy,
		}).Error
}
