package api

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/venus/internal/db"
	"github.com/terraincognita07/venus/internal/services"
	"gorm.io/gorm"
)

const (
	defaultAuthTokenTTL    = 7 * 24 * time.Hour
	defaultEventsHeartbeat = 25 * time.Second
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	tokenTTL     time.Duration
	location     *time.Location
	clock        services.Clock
	allowSignups bool
	heartbeat    time.Duration
	log          logrus.FieldLogger
	completer    services.ChatCompleter
	broker       *services.ChangeBroker
	loginLimiter *attemptLimiter
	done         chan struct{}
	closeOnce    sync.Once

	repositories      *db.Repositories
	authService       *services.AuthService
	setupService      *services.SetupService
	settingsService   *services.SettingsService
	onboardingService *services.OnboardingService
	cycleService      *services.CycleService
	diaryService      *services.DiaryService
	overviewService   *services.OverviewService
	chatService       *services.ChatService
	exportService     *services.ExportService
}

// Options configures a Handler. Zero values fall back to defaults.
type Options struct {
	SecretKey      string
	Location       *time.Location
	Clock          services.Clock
	AllowSignups   bool
	TokenTTL       time.Duration
	EventHeartbeat time.Duration
	Logger         logrus.FieldLogger
	Completer      services.ChatCompleter
	Broker         *services.ChangeBroker
}
