package db

import (
	"time"

	"github.com/terraincognita07/venus/internal/models"
	"gorm.io/gorm"
)

type DiaryRepository struct {
	database *gorm.DB
}

func NewDiaryRepository(database *gorm.DB) *DiaryRepository {
	return &DiaryRepository{database: database}
}

func (repo *DiaryRepository) ListByUser(userID uint) ([]models.DiaryEntry, error) {
	return repo.ListByUserRange(userID, nil, nil)
}

// ListByUserRange returns entries with fromStart <= date < toEnd, newest first. Nil bounds are open.
func (repo *DiaryRepository) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.DiaryEntry, error) {
	query := repo.database.Model(&models.DiaryEntry{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("date >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("date < ?", *toEnd)
	}

	entries := make([]models.DiaryEntry, 0)
	if err := query.Order("date DESC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *DiaryRepository) FindByIDForUser(userID uint, entryID string) (models.DiaryEntry, error) {
	var entry models.DiaryEntry
	if err := repo.database.
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error; err != nil {
		return models.DiaryEntry{}, err
	}
	return entry, nil
}

func (repo *DiaryRepository) ExistsForDate(userID uint, day time.Time, excludeID string) (bool, error) {
	query := repo.database.Model(&models.DiaryEntry{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, day, day.AddDate(0, 0, 1))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var matched int64
	if err := query.Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *DiaryRepository) Create(entry *models.DiaryEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *DiaryRepository) Save(entry *models.DiaryEntry) error {
	return repo.database.Save(entry).Error
}

func (repo *DiaryRepository) DeleteByIDForUser(userID uint, entryID string) (bool, error) {
	result := repo.database.Where("id = ? AND user_id = ?", entryID, userID).Delete(&models.DiaryEntry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
