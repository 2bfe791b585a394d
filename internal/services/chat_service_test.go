package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/venus/internal/llm"
	"github.com/terraincognita07/venus/internal/models"
)

func newTestChatService(completer *stubCompleter) (*ChatService, *stubChatRepository) {
	messages := &stubChatRepository{}
	cycles := &stubCycleRepository{cycles: []models.Cycle{ownedCycle(1, "a", "2025-03-01", "2025-03-05")}}
	service := NewChatService(messages, cycles, completer, FixedClock(mustParseDay("2025-03-10")))
	service.now = func() time.Time { return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC) }
	return service, messages
}

func TestChatServiceSendStoresBothTurns(t *testing.T) {
	completer := &stubCompleter{configured: true, reply: "  **Rest** and hydrate.  "}
	service, messages := newTestChatService(completer)
	user := models.User{ID: 1, CycleLength: 28, PeriodLength: 5}

	reply, err := service.Send(context.Background(), user, "  How should I train today?  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Message.Content != "How should I train today?" || reply.Reply.Content != "**Rest** and hydrate." {
		t.Fatalf("unexpected stored turns: %#v", reply)
	}
	if !strings.Contains(reply.HTML, "<strong>Rest</strong>") {
		t.Fatalf("expected rendered markdown, got %q", reply.HTML)
	}
	if len(messages.messages) != 2 || messages.messages[0].Role != models.ChatRoleUser || messages.messages[1].Role != models.ChatRoleAssistant {
		t.Fatalf("expected user then assistant turn, got %#v", messages.messages)
	}

	system := completer.received[0]
	if system.Role != llm.RoleSystem || !strings.Contains(system.Content, "follicular phase, on day 10") {
		t.Fatalf("unexpected system prompt: %#v", system)
	}

	if _, err := service.Send(context.Background(), user, "And tomorrow?"); err != nil {
		t.Fatalf("second send: %v", err)
	}
	if len(completer.received) != 4 {
		t.Fatalf("expected system, two history turns and the new message, got %d", len(completer.received))
	}
	if completer.received[3].Content != "And tomorrow?" {
		t.Fatalf("expected new message last, got %#v", completer.received[3])
	}
}

func TestChatServiceSendRejects(t *testing.T) {
	user := models.User{ID: 1}

	cases := []struct {
		name      string
		completer *stubCompleter
		content   string
		want      error
	}{
		{name: "empty", completer: &stubCompleter{configured: true}, content: "   ", want: ErrChatMessageEmpty},
		{name: "too long", completer: &stubCompleter{configured: true}, content: strings.Repeat("x", 4001), want: ErrChatMessageTooLong},
		{name: "unconfigured", completer: &stubCompleter{}, content: "hello", want: ErrChatUnavailable},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			service, messages := newTestChatService(testCase.completer)
			if _, err := service.Send(context.Background(), user, testCase.content); !errors.Is(err, testCase.want) {
				t.Fatalf("expected %v, got %v", testCase.want, err)
			}
			if len(messages.messages) != 0 {
				t.Fatalf("expected nothing stored, got %d messages", len(messages.messages))
			}
		})
	}
}

func TestChatServiceSendKeepsHistoryOnCompletionFailure(t *testing.T) {
	service, messages := newTestChatService(&stubCompleter{configured: true, err: errors.New("upstream 500")})

	if _, err := service.Send(context.Background(), models.User{ID: 1}, "hello"); !errors.Is(err, ErrChatCompletion) {
		t.Fatalf("expected ErrChatCompletion, got %v", err)
	}
	if len(messages.messages) != 0 {
		t.Fatalf("expected no stored turns after failure, got %d", len(messages.messages))
	}
}

func TestChatServiceClear(t *testing.T) {
	service, messages := newTestChatService(&stubCompleter{configured: true})
	messages.messages = []models.ChatMessage{{ID: "1", UserID: 1}, {ID: "2", UserID: 2}}

	if err := service.Clear(1); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(messages.messages) != 1 || messages.messages[0].UserID != 2 {
		t.Fatalf("expected only other user's history to remain, got %#v", messages.messages)
	}
}

func TestChatSystemPromptClampsCycleDay(t *testing.T) {
	t.Parallel()

	prompt := ChatSystemPrompt(PhaseInfo{Phase: PhaseLuteal, CycleDay: 0})
	if !strings.Contains(prompt, "luteal phase, on day 1 ") {
		t.Fatalf("expected clamped cycle day, got %q", prompt)
	}
}

func TestRenderChatMarkdownSanitizes(t *testing.T) {
	t.Parallel()

	rendered, err := RenderChatMarkdown("hi <script>alert(1)</script>\n\n- one")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(rendered, "<script") {
		t.Fatalf("expected script to be stripped, got %q", rendered)
	}
	if !strings.Contains(rendered, "<li>one</li>") {
		t.Fatalf("expected list markup, got %q", rendered)
	}
}
