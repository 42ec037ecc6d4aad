package db

import (
	"errors"
	"time"

	"github.com/terraincognita07/tsukimi/internal/models"
	"gorm.io/gorm"
)

type ConversationRepository struct {
	database *gorm.DB
}

func NewConversationRepository(database *gorm.DB) *ConversationRepository {
	return &ConversationRepository{database: database}
}

// Set arms (or replaces) the pending conversation state for a user.
func (repo *ConversationRepository) Set(userID string, kind string, now time.Time) error {
	state := models.ConversationState{UserID: userID, Kind: kind, CreatedAt: now}
	return repo.database.Save(&state).Error
}

// Take reads and clears the pending state in one transaction. Two
// concurrent messages from the same user cannot both observe the same
// state: the delete inside the transaction arbitrates the race.
func (repo *ConversationRepository) Take(userID string) (models.ConversationState, bool, error) {
	var state models.ConversationState
	found := false

	err := repo.database.Transaction(func(tx *gorm.DB) error {
		findErr := tx.First(&state, "user_id = ?", userID).Error
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			return nil
		}
		if findErr != nil {
			return findErr
		}

		result := tx.Delete(&models.ConversationState{}, "user_id = ?", userID)
		if result.Error != nil {
			return result.Error
		}
		found = result.RowsAffected > 0
		return nil
	})
	if err != nil || !found {
		return models.ConversationState{}, false, err
	}
	return state, true, nil
}

// Clear drops any pending state without reading it.
func (repo *ConversationRepository) Clear(userID string) error {
	return repo.database.Delete(&models.ConversationState{}, "user_id = ?", userID).Error
}
