package models

import "time"

const (
	MoodHappy     = "happy"
	MoodCalm      = "calm"
	MoodSad       = "sad"
	MoodEnergetic = "energetic"
)

type DiaryEntry struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uidx_diary_user_date" json:"-"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uidx_diary_user_date" json:"date"`
	Mood      string    `gorm:"not null" json:"mood"`
	Symptoms  []string  `gorm:"type:text;serializer:json" json:"symptoms"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func DiaryMoods() []string {
	return []string{MoodHappy, MoodCalm, MoodSad, MoodEnergetic}
}
