package db

import (
	"github.com/terraincognita07/venus/internal/models"
	"gorm.io/gorm"
)

type CycleRepository struct {
	database *gorm.DB
}

func NewCycleRepository(database *gorm.DB) *CycleRepository {
	return &CycleRepository{database: database}
}

// ListByUser returns the user's cycles, most recent start first.
func (repo *CycleRepository) ListByUser(userID uint) ([]models.Cycle, error) {
	cycles := make([]models.Cycle, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("start_date DESC, id ASC").
		Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

func (repo *CycleRepository) FindByIDForUser(userID uint, cycleID string) (models.Cycle, error) {
	var cycle models.Cycle
	if err := repo.database.
		Where("id = ? AND user_id = ?", cycleID, userID).
		First(&cycle).Error; err != nil {
		return models.Cycle{}, err
	}
	return cycle, nil
}

func (repo *CycleRepository) Create(cycle *models.Cycle) error {
	return repo.database.Create(cycle).Error
}

func (repo *CycleRepository) Save(cycle *models.Cycle) error {
	return repo.database.Save(cycle).Error
}

// DeleteByIDForUser reports whether a row owned by the user was removed.
func (repo *CycleRepository) DeleteByIDForUser(userID uint, cycleID string) (bool, error) {
	result := repo.database.Where("id = ? AND user_id = ?", cycleID, userID).Delete(&models.Cycle{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
