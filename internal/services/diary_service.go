package services

import (
	"errors"
	"fmt"
	"html"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/terraincognita07/venus/internal/models"
	"gorm.io/gorm"
)

const (
	maxDiaryNoteLength    = 2000
	maxDiarySymptoms      = 20
	maxDiarySymptomLength = 40
)

var (
	ErrDiaryNotFound        = errors.New("diary entry not found")
	ErrDiaryDateRequired    = errors.New("diary date required")
	ErrDiaryMoodInvalid     = errors.New("diary mood invalid")
	ErrDiaryDateTaken       = errors.New("diary entry already exists for date")
	ErrDiaryNoteTooLong     = errors.New("diary note too long")
	ErrDiarySymptomsInvalid = errors.New("diary symptoms invalid")
)

var diaryNotePolicy = bluemonday.StrictPolicy()

const maxEntityDecodePasses = 4

type DiaryRepository interface {
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.DiaryEntry, error)
	FindByIDForUser(userID uint, entryID string) (models.DiaryEntry, error)
	ExistsForDate(userID uint, day time.Time, excludeID string) (bool, error)
	Create(entry *models.DiaryEntry) error
	Save(entry *models.DiaryEntry) error
	DeleteByIDForUser(userID uint, entryID string) (bool, error)
}

type DiaryInput struct {
	Date     time.Time
	Mood     string
	Symptoms []string
	Notes    string
}

type DiaryService struct {
	entries DiaryRepository
	events  ChangePublisher
	newID   func() string
}

func NewDiaryService(entries DiaryRepository, events ChangePublisher) *DiaryService {
	if events == nil {
		events = noopPublisher{}
	}
	return &DiaryService{entries: entries, events: events, newID: uuid.NewString}
}

// List returns entries in [from, to] inclusive, newest first. Zero bounds are open.
func (service *DiaryService) List(userID uint, from time.Time, to time.Time) ([]models.DiaryEntry, error) {
	var fromStart, toEnd *time.Time
	if !from.IsZero() {
		day := dateOnly(from)
		fromStart = &day
	}
	if !to.IsZero() {
		day := dateOnly(to).AddDate(0, 0, 1)
		toEnd = &day
	}

	entries, err := service.entries.ListByUserRange(userID, fromStart, toEnd)
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}
	return entries, nil
}

// ForDate returns the user's entry on day, if any.
func (service *DiaryService) ForDate(userID uint, day time.Time) (models.DiaryEntry, bool, error) {
	entries, err := service.List(userID, day, day)
	if err != nil {
		return models.DiaryEntry{}, false, err
	}
	if len(entries) == 0 {
		return models.DiaryEntry{}, false, nil
	}
	return entries[0], true, nil
}

func (service *DiaryService) Create(userID uint, input DiaryInput) (models.DiaryEntry, error) {
	normalized, err := normalizeDiaryInput(input)
	if err != nil {
		return models.DiaryEntry{}, err
	}
	if err := service.ensureDateFree(userID, normalized.Date, ""); err != nil {
		return models.DiaryEntry{}, err
	}

	entry := models.DiaryEntry{
		ID:       service.newID(),
		UserID:   userID,
		Date:     normalized.Date,
		Mood:     normalized.Mood,
		Symptoms: normalized.Symptoms,
		Notes:    normalized.Notes,
	}
	if err := service.entries.Create(&entry); err != nil {
		return models.DiaryEntry{}, fmt.Errorf("create diary entry: %w", err)
	}

	service.events.Publish(ChangeEvent{Table: ChangeTableDiary, Action: ChangeActionInsert, RecordID: entry.ID, UserID: userID})
	return entry, nil
}

func (service *DiaryService) Update(userID uint, entryID string, input DiaryInput) (models.DiaryEntry, error) {
	entry, err := service.entries.FindByIDForUser(userID, entryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DiaryEntry{}, ErrDiaryNotFound
	}
	if err != nil {
		return models.DiaryEntry{}, fmt.Errorf("load diary entry: %w", err)
	}

	normalized, err := normalizeDiaryInput(input)
	if err != nil {
		return models.DiaryEntry{}, err
	}
	if err := service.ensureDateFree(userID, normalized.Date, entry.ID); err != nil {
		return models.DiaryEntry{}, err
	}

	entry.Date = normalized.Date
	entry.Mood = normalized.Mood
	entry.Symptoms = normalized.Symptoms
	entry.Notes = normalized.Notes
	if err := service.entries.Save(&entry); err != nil {
		return models.DiaryEntry{}, fmt.Errorf("save diary entry: %w", err)
	}

	service.events.Publish(ChangeEvent{Table: ChangeTableDiary, Action: ChangeActionUpdate, RecordID: entry.ID, UserID: userID})
	return entry, nil
}

func (service *DiaryService) Delete(userID uint, entryID string) error {
	deleted, err := service.entries.DeleteByIDForUser(userID, entryID)
	if err != nil {
		return fmt.Errorf("delete diary entry: %w", err)
	}
	if !deleted {
		return ErrDiaryNotFound
	}

	service.events.Publish(ChangeEvent{Table: ChangeTableDiary, Action: ChangeActionDelete, RecordID: entryID, UserID: userID})
	return nil
}

func (service *DiaryService) ensureDateFree(userID uint, day time.Time, excludeID string) error {
	taken, err := service.entries.ExistsForDate(userID, day, excludeID)
	if err != nil {
		return fmt.Errorf("check diary date: %w", err)
	}
	if taken {
		return ErrDiaryDateTaken
	}
	return nil
}

func normalizeDiaryInput(input DiaryInput) (DiaryInput, error) {
	if input.Date.IsZero() {
		return DiaryInput{}, ErrDiaryDateRequired
	}

	mood := strings.ToLower(strings.TrimSpace(input.Mood))
	if !slices.Contains(models.DiaryMoods(), mood) {
		return DiaryInput{}, ErrDiaryMoodInvalid
	}

	notes := SanitizeDiaryNote(input.Notes)
	if utf8.RuneCountInString(notes) > maxDiaryNoteLength {
		return DiaryInput{}, ErrDiaryNoteTooLong
	}

	symptoms, err := normalizeDiarySymptoms(input.Symptoms)
	if err != nil {
		return DiaryInput{}, err
	}

	return DiaryInput{
		Date:     dateOnly(input.Date),
		Mood:     mood,
		Symptoms: symptoms,
		Notes:    notes,
	}, nil
}

// SanitizeDiaryNote strips markup and returns plain text. Entities are decoded before the policy
// runs so encoded tags are stripped like literal ones.
func SanitizeDiaryNote(raw string) string {
	decoded, settled := decodeEntities(raw)
	sanitized := diaryNotePolicy.Sanitize(decoded)
	if !settled {
		return strings.TrimSpace(sanitized)
	}
	return strings.TrimSpace(html.UnescapeString(sanitized))
}

// decodeEntities unescapes until the text stops changing. settled is false when nesting runs
// deeper than maxEntityDecodePasses.
func decodeEntities(raw string) (string, bool) {
	text := raw
	for pass := 0; pass < maxEntityDecodePasses; pass++ {
		next := html.UnescapeString(text)
		if next == text {
			return text, true
		}
		text = next
	}
	return text, false
}

func normalizeDiarySymptoms(raw []string) ([]string, error) {
	symptoms := make([]string, 0, len(raw))
	for _, value := range raw {
		symptom := strings.ToLower(strings.TrimSpace(value))
		if symptom == "" || slices.Contains(symptoms, symptom) {
			continue
		}
		if utf8.RuneCountInString(symptom) > maxDiarySymptomLength {
			return nil, ErrDiarySymptomsInvalid
		}
		symptoms = append(symptoms, symptom)
	}
	if len(symptoms) > maxDiarySymptoms {
		return nil, ErrDiarySymptomsInvalid
	}
	return symptoms, nil
}
