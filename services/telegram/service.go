package telegramsvc

import (
	"context"
	"regexp"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/attendancr/attendancr/core"
)

// rateLimitBackoff is the fixed wait before the single retry Telegram's
// 429 responses get.
const rateLimitBackoff = time.Second

var startCmdRegex = regexp.MustCompile(`^/start\s+(\w+)$`)

type service struct {
	bot    *tgbotapi.BotAPI
	logger core.Logger
}

var _ core.NotificationService = (*service)(nil)

func NewService(conf *core.Config, logger core.Logger) (*service, error) {
	bot, err := tgbotapi.NewBotAPI(conf.Telegram.BotToken)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to telegram bot api")
	}
	return &service{bot: bot, logger: logger}, nil
}

func (svc *service) Send(ctx context.Context, chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid chat id %q", chatID)
	}

	msg := tgbotapi.NewMessage(id, text)
	if _, err = svc.bot.Send(msg); err != nil {
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 429 {
			// rate limited: wait a beat and retry exactly once
			time.Sleep(rateLimitBackoff)
			if _, err = svc.bot.Send(msg); err == nil {
				return nil
			}
		}
		return errors.Wrap(err, "sending telegram message")
	}
	return nil
}

// ExtractStartCode pulls the link code out of a "/start <code>" command.
// Returns "" for a bare /start or anything else.
func ExtractStartCode(text string) string {
	if m := startCmdRegex.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}
