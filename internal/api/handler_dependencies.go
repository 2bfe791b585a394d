package api

import (
	"github.com/terraincognita07/venus/internal/db"
	"github.com/terraincognita07/venus/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	handler.setupService = services.NewSetupService(handler.repositories.Users, handler.allowSignups)
	handler.settingsService = services.NewSettingsService(handler.repositories.Users)
	handler.cycleService = services.NewCycleService(handler.repositories.Cycles, handler.broker)
	handler.diaryService = services.NewDiaryService(handler.repositories.Diary, handler.broker)
	handler.overviewService = services.NewOverviewService(handler.repositories.Cycles, handler.repositories.Diary, handler.clock)
	handler.chatService = services.NewChatService(handler.repositories.Chat, handler.repositories.Cycles, handler.completer, handler.clock)
	handler.onboardingService = services.NewOnboardingService(handler.settingsService, handler.cycleService, handler.clock)
	handler.exportService = services.NewExportService(handler.repositories.Cycles, handler.repositories.Diary)
	return handler
}
