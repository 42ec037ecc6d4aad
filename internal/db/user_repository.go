package db

import (
	"errors"
	"time"

	"github.com/terraincognita07/tsukimi/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

// EnsureUser creates the user with default settings on first contact, or
// touches last_active_at for a known user.
func (repo *UserRepository) EnsureUser(userID string, now time.Time) (models.User, error) {
	var user models.User
	err := repo.database.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			ID:                   userID,
			CycleLength:          models.DefaultCycleLength,
			PeriodLength:         models.DefaultPeriodLength,
			NotificationsEnabled: true,
			RegisteredAt:         now,
			LastActiveAt:         now,
		}
		if createErr := repo.database.Create(&user).Error; createErr != nil {
			return models.User{}, createErr
		}
		return user, nil
	}
	if err != nil {
		return models.User{}, err
	}

	if touchErr := repo.TouchLastActive(userID, now); touchErr != nil {
		return models.User{}, touchErr
	}
	user.LastActiveAt = now
	return user, nil
}

func (repo *UserRepository) FindByID(userID string) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, "id = ?", userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Settings loads the engine-facing settings slice for a user.
func (repo *UserRepository) Settings(userID string) (models.Settings, error) {
	var user models.User
	err := repo.database.
		Select("cycle_length", "period_length", "notifications_enabled").
		First(&user, "id = ?", userID).Error
	if err != nil {
		return models.Settings{}, err
	}
	return user.Settings(), nil
}

func (repo *UserRepository) UpdateCycleLength(userID string, cycleLength int) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).
		Update("cycle_length", cycleLength).Error
}

func (repo *UserRepository) UpdatePeriodLength(userID string, periodLength int) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).
		Update("period_length", periodLength).Error
}

func (repo *UserRepository) UpdateNotifications(userID string, enabled bool) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).
		Update("notifications_enabled", enabled).Error
}

func (repo *UserRepository) MarkInitialSetupCompleted(userID string) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).
		Update("initial_setup_completed", true).Error
}

func (repo *UserRepository) TouchLastActive(userID string, now time.Time) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).
		Update("last_active_at", now).Error
}
