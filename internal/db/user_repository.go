package db

import (
	"github.com/terraincognita07/venus/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) CountUsers() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByNormalizedEmail(email string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("lower(trim(email)) = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("lower(trim(email)) = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

func (repo *UserRepository) Save(user *models.User) error {
	return repo.database.Save(user).Error
}

// UpdatePassword stores a new hash. mustChange marks an operator-issued password the owner has to replace.
func (repo *UserRepository) UpdatePassword(userID uint, passwordHash string, mustChange bool) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"password_hash":        passwordHash,
		"must_change_password": mustChange,
	}).Error
}

func (repo *UserRepository) UpdateByID(userID uint, updates map[string]any) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

// ListReminderRecipients returns users who opted in to reminders and linked a Telegram chat.
func (repo *UserRepository) ListReminderRecipients() ([]models.User, error) {
	users := make([]models.User, 0)
	if err := repo.database.
		Where("reminders_enabled = ? AND telegram_chat_id <> 0", true).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ClearAllDataAndResetSettings keeps the account but drops every record and restores default settings.
func (repo *UserRepository) ClearAllDataAndResetSettings(userID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := deleteUserRecords(tx, userID); err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
			"cycle_length":         models.DefaultCycleLength,
			"period_length":        models.DefaultPeriodLength,
			"language":             models.LanguageEnglish,
			"display_name":         "",
			"onboarding_completed": false,
			"reminders_enabled":    false,
			"telegram_chat_id":     0,
		}).Error
	})
}

func (repo *UserRepository) DeleteAccountAndRelatedData(userID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := deleteUserRecords(tx, userID); err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}

func deleteUserRecords(tx *gorm.DB, userID uint) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.Cycle{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.DiaryEntry{}).Error; err != nil {
		return err
	}
	return tx.Where("user_id = ?", userID).Delete(&models.ChatMessage{}).Error
}
