package db

import (
	"fmt"

	"github.com/terraincognita07/venus/internal/models"
	"gorm.io/gorm"
)

type Repositories struct {
	Users   *UserRepository
	Cycles  *CycleRepository
	Diary   *DiaryRepository
	Chat    *ChatRepository
	counter *gorm.DB
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:   NewUserRepository(database),
		Cycles:  NewCycleRepository(database),
		Diary:   NewDiaryRepository(database),
		Chat:    NewChatRepository(database),
		counter: database,
	}
}

type TableCount struct {
	Table string
	Rows  int64
}

// TableCounts reports row counts for every application table in a fixed order.
func (repos *Repositories) TableCounts() ([]TableCount, error) {
	tables := []struct {
		name  string
		model any
	}{
		{name: "users", model: &models.User{}},
		{name: "cycles", model: &models.Cycle{}},
		{name: "diary_entries", model: &models.DiaryEntry{}},
		{name: "chat_messages", model: &models.ChatMessage{}},
	}

	counts := make([]TableCount, 0, len(tables))
	for _, table := range tables {
		var rows int64
		if err := repos.counter.Model(table.model).Count(&rows).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", table.name, err)
		}
		counts = append(counts, TableCount{Table: table.name, Rows: rows})
	}
	return counts, nil
}
