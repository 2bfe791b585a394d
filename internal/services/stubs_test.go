package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/terraincognita07/venus/internal/llm"
	"github.com/terraincognita07/venus/internal/models"
	"gorm.io/gorm"
)

type stubUserRepository struct {
	users        map[uint]models.User
	nextID       uint
	clearedIDs   []uint
	deletedIDs   []uint
	recipientErr error
	updateErr    error
}

func newStubUserRepository(users ...models.User) *stubUserRepository {
	repo := &stubUserRepository{users: make(map[uint]models.User), nextID: 1}
	for _, user := range users {
		if user.ID == 0 {
			user.ID = repo.nextID
		}
		if user.ID >= repo.nextID {
			repo.nextID = user.ID + 1
		}
		repo.users[user.ID] = user
	}
	return repo
}

func (repo *stubUserRepository) FindByID(userID uint) (models.User, error) {
	user, ok := repo.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (repo *stubUserRepository) FindByNormalizedEmail(email string) (models.User, error) {
	for _, user := range repo.users {
		if strings.ToLower(strings.TrimSpace(user.Email)) == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (repo *stubUserRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	_, err := repo.FindByNormalizedEmail(email)
	return err == nil, nil
}

func (repo *stubUserRepository) Create(user *models.User) error {
	user.ID = repo.nextID
	repo.nextID++
	repo.users[user.ID] = *user
	return nil
}

func (repo *stubUserRepository) UpdatePassword(userID uint, passwordHash string, mustChange bool) error {
	user, ok := repo.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = passwordHash
	user.MustChangePassword = mustChange
	repo.users[userID] = user
	return nil
}

func (repo *stubUserRepository) UpdateByID(userID uint, updates map[string]any) error {
	if repo.updateErr != nil {
		return repo.updateErr
	}
	user, ok := repo.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for column, value := range updates {
		switch column {
		case "display_name":
			user.DisplayName = value.(string)
		case "cycle_length":
			user.CycleLength = value.(int)
		case "period_length":
			user.PeriodLength = value.(int)
		case "language":
			user.Language = value.(string)
		case "onboarding_completed":
			user.OnboardingCompleted = value.(bool)
		case "reminders_enabled":
			user.RemindersEnabled = value.(bool)
		case "telegram_chat_id":
			switch typed := value.(type) {
			case int:
				user.TelegramChatID = int64(typed)
			case int64:
				user.TelegramChatID = typed
			}
		default:
			return errors.New("unexpected column " + column)
		}
	}
	repo.users[userID] = user
	return nil
}

func (repo *stubUserRepository) ClearAllDataAndResetSettings(userID uint) error {
	repo.clearedIDs = append(repo.clearedIDs, userID)
	return nil
}

func (repo *stubUserRepository) DeleteAccountAndRelatedData(userID uint) error {
	repo.deletedIDs = append(repo.deletedIDs, userID)
	delete(repo.users, userID)
	return nil
}

func (repo *stubUserRepository) ListReminderRecipients() ([]models.User, error) {
	if repo.recipientErr != nil {
		return nil, repo.recipientErr
	}
	users := make([]models.User, 0)
	for _, user := range repo.users {
		if user.RemindersEnabled && user.TelegramChatID != 0 {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

type stubCycleRepository struct {
	cycles  []models.Cycle
	listErr error
}

func (repo *stubCycleRepository) ListByUser(userID uint) ([]models.Cycle, error) {
	if repo.listErr != nil {
		return nil, repo.listErr
	}
	cycles := make([]models.Cycle, 0)
	for _, cycle := range repo.cycles {
		if cycle.UserID == userID {
			cycles = append(cycles, cycle)
		}
	}
	sort.SliceStable(cycles, func(i, j int) bool { return cycles[i].StartDate.After(cycles[j].StartDate) })
	return cycles, nil
}

func (repo *stubCycleRepository) FindByIDForUser(userID uint, cycleID string) (models.Cycle, error) {
	for _, cycle := range repo.cycles {
		if cycle.ID == cycleID && cycle.UserID == userID {
			return cycle, nil
		}
	}
	return models.Cycle{}, gorm.ErrRecordNotFound
}

func (repo *stubCycleRepository) Create(cycle *models.Cycle) error {
	repo.cycles = append(repo.cycles, *cycle)
	return nil
}

func (repo *stubCycleRepository) Save(cycle *models.Cycle) error {
	for index := range repo.cycles {
		if repo.cycles[index].ID == cycle.ID {
			repo.cycles[index] = *cycle
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (repo *stubCycleRepository) DeleteByIDForUser(userID uint, cycleID string) (bool, error) {
	for index, cycle := range repo.cycles {
		if cycle.ID == cycleID && cycle.UserID == userID {
			repo.cycles = append(repo.cycles[:index], repo.cycles[index+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type stubDiaryRepository struct {
	entries []models.DiaryEntry
}

func (repo *stubDiaryRepository) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.DiaryEntry, error) {
	entries := make([]models.DiaryEntry, 0)
	for _, entry := range repo.entries {
		if entry.UserID != userID {
			continue
		}
		if fromStart != nil && entry.Date.Before(*fromStart) {
			continue
		}
		if toEnd != nil && !entry.Date.Before(*toEnd) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.After(entries[j].Date) })
	return entries, nil
}

func (repo *stubDiaryRepository) FindByIDForUser(userID uint, entryID string) (models.DiaryEntry, error) {
	for _, entry := range repo.entries {
		if entry.ID == entryID && entry.UserID == userID {
			return entry, nil
		}
	}
	return models.DiaryEntry{}, gorm.ErrRecordNotFound
}

func (repo *stubDiaryRepository) ExistsForDate(userID uint, day time.Time, excludeID string) (bool, error) {
	for _, entry := range repo.entries {
		if entry.UserID == userID && entry.Date.Equal(day) && entry.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *stubDiaryRepository) Create(entry *models.DiaryEntry) error {
	repo.entries = append(repo.entries, *entry)
	return nil
}

func (repo *stubDiaryRepository) Save(entry *models.DiaryEntry) error {
	for index := range repo.entries {
		if repo.entries[index].ID == entry.ID {
			repo.entries[index] = *entry
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (repo *stubDiaryRepository) DeleteByIDForUser(userID uint, entryID string) (bool, error) {
	for index, entry := range repo.entries {
		if entry.ID == entryID && entry.UserID == userID {
			repo.entries = append(repo.entries[:index], repo.entries[index+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type stubChatRepository struct {
	messages  []models.ChatMessage
	createErr error
}

func (repo *stubChatRepository) ListRecent(userID uint, limit int) ([]models.ChatMessage, error) {
	messages := make([]models.ChatMessage, 0)
	for _, message := range repo.messages {
		if message.UserID == userID {
			messages = append(messages, message)
		}
	}
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func (repo *stubChatRepository) Create(message *models.ChatMessage) error {
	if repo.createErr != nil {
		return repo.createErr
	}
	repo.messages = append(repo.messages, *message)
	return nil
}

func (repo *stubChatRepository) DeleteByUser(userID uint) error {
	kept := repo.messages[:0]
	for _, message := range repo.messages {
		if message.UserID != userID {
			kept = append(kept, message)
		}
	}
	repo.messages = kept
	return nil
}

type recordingPublisher struct {
	events []ChangeEvent
}

func (publisher *recordingPublisher) Publish(event ChangeEvent) {
	publisher.events = append(publisher.events, event)
}

type stubCompleter struct {
	configured bool
	reply      string
	err        error
	received   []llm.Message
}

func (completer *stubCompleter) Configured() bool {
	return completer.configured
}

func (completer *stubCompleter) Complete(ctx context.Context, messages []llm.Message) (llm.Response, error) {
	completer.received = messages
	if completer.err != nil {
		return llm.Response{}, completer.err
	}
	return llm.Response{Content: completer.reply}, nil
}

type sentReminder struct {
	chatID int64
	text   string
}

type stubNotifier struct {
	mu     sync.Mutex
	sent   []sentReminder
	failOn int64
}

func (notifier *stubNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if chatID == notifier.failOn {
		return errors.New("telegram unavailable")
	}
	notifier.sent = append(notifier.sent, sentReminder{chatID: chatID, text: text})
	return nil
}

func ownedCycle(userID uint, id string, start string, end string) models.Cycle {
	cycle := makeCycle(id, start, end)
	cycle.UserID = userID
	return cycle
}

func (repo *stubUserRepository) CountUsers() (int64, error) {
	return int64(len(repo.users)), nil
}
