package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/venus/internal/models"
)

const (
	ReminderKindPeriod    = "period"
	ReminderKindOvulation = "ovulation"

	maxTrackedReminders = 500
)

// Notifier delivers a reminder text to a Telegram chat.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// ReminderLocalizer renders reminder texts in a user's language.
type ReminderLocalizer interface {
	Translate(language string, key string) string
	Translatef(language string, key string, args ...any) string
}

type ReminderUserReader interface {
	ListReminderRecipients() ([]models.User, error)
}

type ReminderService struct {
	users      ReminderUserReader
	cycles     OverviewCycleReader
	notifier   Notifier
	clock      Clock
	daysBefore int
	log        logrus.FieldLogger
	localizer  ReminderLocalizer

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewReminderService(users ReminderUserReader, cycles OverviewCycleReader, notifier Notifier, clock Clock, daysBefore int, log logrus.FieldLogger) *ReminderService {
	if clock == nil {
		clock = SystemClock{Location: time.UTC}
	}
	if daysBefore < 0 {
		daysBefore = 0
	}
	return &ReminderService{
		users:      users,
		cycles:     cycles,
		notifier:   notifier,
		clock:      clock,
		daysBefore: daysBefore,
		log:        log,
		sent:       make(map[string]time.Time),
	}
}

// WithLocalizer makes Run send reminders in each recipient's language.
func (service *ReminderService) WithLocalizer(localizer ReminderLocalizer) *ReminderService {
	service.localizer = localizer
	return service
}

// Schedule registers Run on scheduler. Each run gets its own timeout.
func (service *ReminderService) Schedule(scheduler *cron.Cron, spec string, timeout time.Duration) (cron.EntryID, error) {
	return scheduler.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		sent, err := service.Run(ctx)
		entry := service.log.WithField("job", "reminders")
		if err != nil {
			entry.WithError(err).Error("reminder run failed")
			return
		}
		entry.WithField("sent", sent).Info("reminder run finished")
	})
}

// Run sends the reminders due today and returns how many were delivered. A failed delivery is
// logged and does not stop the run.
func (service *ReminderService) Run(ctx context.Context) (int, error) {
	users, err := service.users.ListReminderRecipients()
	if err != nil {
		return 0, fmt.Errorf("list reminder recipients: %w", err)
	}

	today := service.clock.Today()
	sent := 0
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		cycles, err := service.cycles.ListByUser(user.ID)
		if err != nil {
			service.log.WithField("user_id", user.ID).WithError(err).Warn("load cycles for reminders failed")
			continue
		}

		for _, reminder := range DueReminders(cycles, CycleSettingsForUser(user), today, service.daysBefore) {
			key := fmt.Sprintf("%s:%d:%s", reminder.Kind, user.ID, FormatDay(today))
			if !service.shouldSend(key, today) {
				continue
			}
			if err := service.notifier.Notify(ctx, user.TelegramChatID, service.render(reminder, user.Language)); err != nil {
				service.forget(key)
				service.log.WithFields(logrus.Fields{"user_id": user.ID, "kind": reminder.Kind}).WithError(err).Warn("send reminder failed")
				continue
			}
			sent++
		}
	}
	return sent, nil
}

type Reminder struct {
	Kind string
	Text string
	Days int
	Date time.Time
}

const (
	reminderPeriodKey    = "reminder.period"
	reminderOvulationKey = "reminder.ovulation"
)

func (service *ReminderService) render(reminder Reminder, language string) string {
	if service.localizer == nil {
		return reminder.Text
	}
	if reminder.Kind == ReminderKindPeriod {
		return service.localizer.Translatef(language, reminderPeriodKey, reminder.Days, FormatDay(reminder.Date))
	}
	return service.localizer.Translate(language, reminderOvulationKey)
}

// DueReminders lists the reminders that fall on today for a cycle history.
func DueReminders(cycles []models.Cycle, settings CycleSettings, today time.Time, daysBefore int) []Reminder {
	nextPeriod := NextPeriodDate(LastPeriodStart(cycles), settings.CycleLength, today)
	if nextPeriod.IsZero() {
		return nil
	}

	reminders := make([]Reminder, 0, 2)
	if days, ok := DaysUntil(nextPeriod, today); ok && days == daysBefore {
		reminders = append(reminders, Reminder{
			Kind: ReminderKindPeriod,
			Text: fmt.Sprintf("Venus reminder: your next period is expected in %d day(s), on %s.", days, nextPeriod.Format("Jan 2")),
			Days: days,
			Date: nextPeriod,
		})
	}
	if OvulationDate(nextPeriod).Equal(dateOnly(today)) {
		reminders = append(reminders, Reminder{
			Kind: ReminderKindOvulation,
			Text: "Venus reminder: today is your estimated ovulation day.",
			Date: dateOnly(today),
		})
	}
	return reminders
}

func (service *ReminderService) shouldSend(key string, today time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if sentOn, ok := service.sent[key]; ok && sentOn.Equal(today) {
		return false
	}

	if len(service.sent) >= maxTrackedReminders {
		service.sent = make(map[string]time.Time)
	}
	service.sent[key] = today
	return true
}

func (service *ReminderService) forget(key string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.sent, key)
}
