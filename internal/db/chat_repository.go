package db

import (
	"github.com/terraincognita07/venus/internal/models"
	"gorm.io/gorm"
)

type ChatRepository struct {
	database *gorm.DB
}

func NewChatRepository(database *gorm.DB) *ChatRepository {
	return &ChatRepository{database: database}
}

// ListRecent returns up to limit of the newest messages in conversation order.
func (repo *ChatRepository) ListRecent(userID uint, limit int) ([]models.ChatMessage, error) {
	messages := make([]models.ChatMessage, 0, limit)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}

	for left, right := 0, len(messages)-1; left < right; left, right = left+1, right-1 {
		messages[left], messages[right] = messages[right], messages[left]
	}
	return messages, nil
}

func (repo *ChatRepository) Create(message *models.ChatMessage) error {
	return repo.database.Create(message).Error
}

func (repo *ChatRepository) DeleteByUser(userID uint) error {
	return repo.database.Where("user_id = ?", userID).Delete(&models.ChatMessage{}).Error
}
