package models

import "time"

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5

	LanguageEnglish = "en"
	LanguageTurkish = "tr"
)

type User struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Email               string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash        string    `gorm:"not null" json:"-"`
	DisplayName         string    `gorm:"not null;default:''" json:"display_name"`
	CycleLength         int       `gorm:"not null;default:28" json:"cycle_length"`
	PeriodLength        int       `gorm:"not null;default:5" json:"period_length"`
	Language            string    `gorm:"not null;default:en" json:"language"`
	OnboardingCompleted bool      `gorm:"not null;default:false" json:"onboarding_completed"`
	RemindersEnabled    bool      `gorm:"not null;default:false" json:"reminders_enabled"`
	TelegramChatID      int64     `gorm:"not null;default:0" json:"telegram_chat_id"`
	MustChangePassword  bool      `gorm:"not null;default:false" json:"must_change_password"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
