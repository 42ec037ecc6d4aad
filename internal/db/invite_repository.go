package db

import (
	"errors"
	"time"

	"github.com/terraincognita07/tsukimi/internal/models"
	"gorm.io/gorm"
)

type InviteRepository struct {
	database *gorm.DB
}

func NewInviteRepository(database *gorm.DB) *InviteRepository {
	return &InviteRepository{database: database}
}

func (repo *InviteRepository) Create(invite *models.InviteCode) error {
	return repo.database.Create(invite).Error
}

func (repo *InviteRepository) FindByCode(code string) (models.InviteCode, bool, error) {
	var invite models.InviteCode
	err := repo.database.First(&invite, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.InviteCode{}, false, nil
	}
	if err != nil {
		return models.InviteCode{}, false, err
	}
	return invite, true, nil
}

// LatestActiveByGenerator returns the newest active code a user generated.
func (repo *InviteRepository) LatestActiveByGenerator(userID string) (models.InviteCode, bool, error) {
	var invite models.InviteCode
	err := repo.database.
		Where("generated_by = ? AND status = ?", userID, models.InviteStatusActive).
		Order("created_at DESC").
		First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.InviteCode{}, false, nil
	}
	if err != nil {
		return models.InviteCode{}, false, err
	}
	return invite, true, nil
}

func (repo *InviteRepository) MarkExpired(code string) error {
	return repo.database.Model(&models.InviteCode{}).
		Where("code = ? AND status = ?", code, models.InviteStatusActive).
		Update("status", models.InviteStatusExpired).Error
}

// InvalidateAllFor retires every outstanding active code a user generated.
func (repo *InviteRepository) InvalidateAllFor(userID string) error {
	return repo.database.Model(&models.InviteCode{}).
		Where("generated_by = ? AND status = ?", userID, models.InviteStatusActive).
		Update("status", models.InviteStatusInvalidated).Error
}

// Redeem atomically applies an accepted invite: the partnership row is
// created, the code marked used, and both users' activity timestamps
// updated, or none of it happens.
func (repo *InviteRepository) Redeem(invite models.InviteCode, partnership models.Partnership, redeemedBy string, now time.Time) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&partnership).Error; err != nil {
			return err
		}

		result := tx.Model(&models.InviteCode{}).
			Where("code = ? AND status = ?", invite.Code, models.InviteStatusActive).
			Updates(map[string]any{
				"status":       models.InviteStatusUsed,
				"used_by":      redeemedBy,
				"used_at":      now,
				"current_uses": invite.CurrentUses + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.User{}).
			Where("id IN ?", []string{partnership.UserA, partnership.UserB}).
			Update("last_active_at", now).Error
	})
}
