package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/terraincognita07/venus/internal/llm"
	"github.com/terraincognita07/venus/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	ChatHistoryLimit      = 20
	maxChatMessageLength  = 4000
	chatSystemPromptShape = "You are a supportive AI companion for a menstrual cycle tracking app called Venus. " +
		"The user is currently in their %s phase, on day %d of their cycle. " +
		"Provide empathetic, personalized advice based on their cycle phase. " +
		"Be warm, understanding, and supportive. Keep responses concise (2-3 sentences) and encouraging."
)

var (
	ErrChatMessageEmpty   = errors.New("chat message empty")
	ErrChatMessageTooLong = errors.New("chat message too long")
	ErrChatUnavailable    = errors.New("chat assistant unavailable")
	ErrChatCompletion     = errors.New("chat assistant request failed")
)

var (
	chatMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	chatSanitizer = bluemonday.UGCPolicy()
)

type ChatRepository interface {
	ListRecent(userID uint, limit int) ([]models.ChatMessage, error)
	Create(message *models.ChatMessage) error
	DeleteByUser(userID uint) error
}

type ChatCompleter interface {
	Configured() bool
	Complete(ctx context.Context, messages []llm.Message) (llm.Response, error)
}

type ChatReply struct {
	Message models.ChatMessage `json:"message"`
	Reply   models.ChatMessage `json:"reply"`
	HTML    string             `json:"html"`
}

type ChatService struct {
	messages  ChatRepository
	cycles    OverviewCycleReader
	completer ChatCompleter
	clock     Clock
	now       func() time.Time
	newID     func() string
}

func NewChatService(messages ChatRepository, cycles OverviewCycleReader, completer ChatCompleter, clock Clock) *ChatService {
	if clock == nil {
		clock = SystemClock{Location: time.UTC}
	}
	return &ChatService{
		messages:  messages,
		cycles:    cycles,
		completer: completer,
		clock:     clock,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (service *ChatService) Available() bool {
	return service.completer != nil && service.completer.Configured()
}

func (service *ChatService) History(userID uint) ([]models.ChatMessage, error) {
	history, err := service.messages.ListRecent(userID, ChatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	return history, nil
}

func (service *ChatService) Clear(userID uint) error {
	return service.messages.DeleteByUser(userID)
}

// Send asks the assistant for a reply grounded in the user's current phase. Both turns are stored
// only when the completion succeeds.
func (service *ChatService) Send(ctx context.Context, user models.User, content string) (ChatReply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return ChatReply{}, ErrChatMessageEmpty
	}
	if utf8.RuneCountInString(content) > maxChatMessageLength {
		return ChatReply{}, ErrChatMessageTooLong
	}
	if !service.Available() {
		return ChatReply{}, ErrChatUnavailable
	}

	cycles, err := service.cycles.ListByUser(user.ID)
	if err != nil {
		return ChatReply{}, fmt.Errorf("load cycles: %w", err)
	}
	history, err := service.History(user.ID)
	if err != nil {
		return ChatReply{}, err
	}

	phaseInfo := BuildPhaseInfo(cycles, CycleSettingsForUser(user), service.clock.Today())
	prompt := make([]llm.Message, 0, len(history)+2)
	prompt = append(prompt, llm.Message{Role: llm.RoleSystem, Content: ChatSystemPrompt(phaseInfo)})
	for _, message := range history {
		prompt = append(prompt, llm.Message{Role: message.Role, Content: message.Content})
	}
	prompt = append(prompt, llm.Message{Role: llm.RoleUser, Content: content})

	response, err := service.completer.Complete(ctx, prompt)
	if err != nil {
		return ChatReply{}, fmt.Errorf("%w: %w", ErrChatCompletion, err)
	}

	sentAt := service.now().UTC()
	userMessage := models.ChatMessage{
		ID:        service.newID(),
		UserID:    user.ID,
		Role:      models.ChatRoleUser,
		Content:   content,
		CreatedAt: sentAt,
	}
	replyMessage := models.ChatMessage{
		ID:        service.newID(),
		UserID:    user.ID,
		Role:      models.ChatRoleAssistant,
		Content:   strings.TrimSpace(response.Content),
		CreatedAt: sentAt.Add(time.Millisecond),
	}
	for _, message := range []*models.ChatMessage{&userMessage, &replyMessage} {
		if err := service.messages.Create(message); err != nil {
			return ChatReply{}, fmt.Errorf("store chat message: %w", err)
		}
	}

	rendered, err := RenderChatMarkdown(replyMessage.Content)
	if err != nil {
		return ChatReply{}, err
	}
	return ChatReply{Message: userMessage, Reply: replyMessage, HTML: rendered}, nil
}

func ChatSystemPrompt(info PhaseInfo) string {
	cycleDay := info.CycleDay
	if cycleDay < 1 {
		cycleDay = 1
	}
	return fmt.Sprintf(chatSystemPromptShape, info.Phase, cycleDay)
}

// RenderChatMarkdown converts assistant markdown into sanitized HTML.
func RenderChatMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := chatMarkdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render chat markdown: %w", err)
	}
	return string(chatSanitizer.SanitizeBytes(buf.Bytes())), nil
}
