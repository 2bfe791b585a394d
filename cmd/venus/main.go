package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/venus/internal/api"
	"github.com/terraincognita07/venus/internal/config"
	"github.com/terraincognita07/venus/internal/db"
	"github.com/terraincognita07/venus/internal/i18n"
	"github.com/terraincognita07/venus/internal/llm"
	"github.com/terraincognita07/venus/internal/logger"
	"github.com/terraincognita07/venus/internal/notify"
	"github.com/terraincognita07/venus/internal/services"
	"gorm.io/gorm"
)

const (
	shutdownTimeout    = 10 * time.Second
	reminderRunTimeout = 2 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config load failed")
	}

	log := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	time.Local = cfg.Location

	database, err := db.Open(cfg.Database, log)
	if err != nil {
		return err
	}

	completer := llm.NewClientFromConfig(cfg.LLM)
	if !completer.Configured() {
		log.Warn("LLM_API_KEY is not set, chat assistant disabled")
	}

	broker := services.NewChangeBroker(0)
	handler, err := api.NewHandler(database, api.Options{
		SecretKey:    cfg.SecretKey,
		Location:     cfg.Location,
		AllowSignups: cfg.AllowSignups,
		Logger:       log,
		Completer:    completer,
		Broker:       broker,
	})
	if err != nil {
		return err
	}

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	notifier := newNotifier(lifecycleCtx, cfg.Reminders, log)
	localizer, err := i18n.NewManager(i18n.LangEN)
	if err != nil {
		return err
	}
	scheduler, err := newReminderScheduler(cfg, database, notifier, localizer, log)
	if err != nil {
		return err
	}
	scheduler.Start()

	app := newApp(handler, log)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		log.Info("shutting down")
		cancelLifecycle()
		handler.Close()
		<-scheduler.Stop().Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":     cfg.Port,
		"driver":   cfg.Database.Driver,
		"tz":       cfg.Location.String(),
		"chat":     completer.Configured(),
		"env":      cfg.Environment,
		"signups":  cfg.AllowSignups,
		"reminder": cfg.Reminders.CronSpec,
	}).Info("venus listening")
	return app.Listen(":" + cfg.Port)
}

func newApp(handler *api.Handler, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Venus",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Output: log.Writer()}))
	app.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/events"
		},
	}))

	api.RegisterRoutes(app, handler)
	return app
}

// newNotifier uses the Telegram bot when a token is configured and falls back to logging otherwise.
func newNotifier(ctx context.Context, reminders config.ReminderConfig, log logrus.FieldLogger) services.Notifier {
	if reminders.TelegramBotToken == "" {
		log.Info("TELEGRAM_BOT_TOKEN is not set, reminders are written to the log")
		return notify.LogNotifier{Log: log}
	}

	telegram, err := notify.NewTelegramNotifier(notify.TelegramOptions{Token: reminders.TelegramBotToken}, log)
	if err != nil {
		log.WithError(err).Warn("telegram bot unavailable, reminders are written to the log")
		return notify.LogNotifier{Log: log}
	}
	telegram.Start(ctx)
	return telegram
}

func newReminderScheduler(cfg *config.Config, database *gorm.DB, notifier services.Notifier, localizer services.ReminderLocalizer, log logrus.FieldLogger) (*cron.Cron, error) {
	repositories := db.NewRepositories(database)
	reminders := services.NewReminderService(
		repositories.Users,
		repositories.Cycles,
		notifier,
		services.SystemClock{Location: cfg.Location},
		cfg.Reminders.DaysBefore,
		log,
	).WithLocalizer(localizer)

	scheduler := cron.New(cron.WithLocation(cfg.Location))
	if _, err := reminders.Schedule(scheduler, cfg.Reminders.CronSpec, reminderRunTimeout); err != nil {
		return nil, err
	}
	return scheduler, nil
}
