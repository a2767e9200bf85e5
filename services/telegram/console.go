package telegramsvc

import (
	"context"
	"log"
	"sync"

	"github.com/pkg/errors"

	"github.com/attendancr/attendancr/core"
)

type SentMessage struct {
	ChatID string
	Text   string
}

var (
	SentMessages = make([]SentMessage, 0)
	mu           sync.Mutex
)

func ResetSentMessages() {
	mu.Lock()
	SentMessages = SentMessages[:0]
	mu.Unlock()
}

// consoleService prints messages instead of delivering them; used in DEV
// and as the test double.
type consoleService struct {
	disableOutput bool
	failures      map[string]string // chatID -> scripted error
}

var _ core.NotificationService = (*consoleService)(nil)

func NewConsoleService() core.NotificationService {
	return &consoleService{}
}

// NewConsoleServiceMock records messages silently; chat IDs present in
// failures fail with the scripted error instead of being recorded.
func NewConsoleServiceMock(failures map[string]string) core.NotificationService {
	return &consoleService{disableOutput: true, failures: failures}
}

func (svc *consoleService) Send(_ context.Context, chatID, text string) error {
	if msg, ok := svc.failures[chatID]; ok {
		return errors.New(msg)
	}

	mu.Lock()
	SentMessages = append(SentMessages, SentMessage{ChatID: chatID, Text: text})
	mu.Unlock()

	if !svc.disableOutput {
		log.Printf("telegram message to %s:\n%s\n", chatID, text)
	}
	return nil
}
