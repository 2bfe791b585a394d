// Package notify delivers reminder messages.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const startReply = "Your Telegram chat id is %d. Add it under reminders in Venus settings to get period and ovulation reminders."

type TelegramOptions struct {
	Token string
	// APIURL overrides the Telegram Bot API endpoint.
	APIURL string
	// Offline skips the getMe handshake and disables polling.
	Offline bool
}

// TelegramNotifier sends reminders through a Telegram bot and answers /start with the chat id a
// user needs to link their account.
type TelegramNotifier struct {
	bot     *telebot.Bot
	offline bool
	log     logrus.FieldLogger
}

func NewTelegramNotifier(options TelegramOptions, log logrus.FieldLogger) (*TelegramNotifier, error) {
	token := strings.TrimSpace(options.Token)
	if token == "" {
		return nil, errors.New("telegram bot token is required")
	}

	settings := telebot.Settings{
		Token:   token,
		URL:     options.APIURL,
		Offline: options.Offline,
		OnError: func(err error, c telebot.Context) {
			entry := log.WithError(err)
			if c != nil && c.Chat() != nil {
				entry = entry.WithField("chat_id", c.Chat().ID)
			}
			entry.Warn("telegram handler failed")
		},
	}
	if !options.Offline {
		settings.Poller = &telebot.LongPoller{Timeout: 10 * time.Second}
	}

	bot, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	bot.Handle("/start", func(c telebot.Context) error {
		return c.Send(fmt.Sprintf(startReply, c.Chat().ID))
	})

	return &TelegramNotifier{bot: bot, offline: options.Offline, log: log}, nil
}

// Start polls for bot commands until ctx is cancelled.
func (notifier *TelegramNotifier) Start(ctx context.Context) {
	if notifier.offline {
		return
	}
	go notifier.bot.Start()
	go func() {
		<-ctx.Done()
		notifier.bot.Stop()
	}()
}

func (notifier *TelegramNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if chatID == 0 {
		return errors.New("telegram chat id is not set")
	}
	if _, err := notifier.bot.Send(&telebot.Chat{ID: chatID}, text); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// LogNotifier writes reminders to the log when no bot is configured.
type LogNotifier struct {
	Log logrus.FieldLogger
}

func (notifier LogNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	notifier.Log.WithField("chat_id", chatID).Info(text)
	return nil
}
