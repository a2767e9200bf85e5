package echoapi

import (
	"fmt"
	"net/http"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/link"
	telegramsvc "github.com/attendancr/attendancr/services/telegram"
)

const startGreeting = "Welcome! To link your Telegram account, please use the link provided by your tuition centre."

type telegramApi struct {
	linkSvc  *link.Service
	notifier core.NotificationService
	logger   core.Logger
}

func registerTelegramAPI(g *echo.Group, deps ServerDeps) {
	api := telegramApi{
		linkSvc:  deps.LinkSvc,
		notifier: deps.Notifier,
		logger:   deps.Logger,
	}

	g.POST("/telegram/webhook", api.webhook)
}

// webhook processes Telegram bot updates. Telegram retries any non-200
// response forever, so every path acknowledges; problems go to the logs.
func (api *telegramApi) webhook(ctx echo.Context) error {
	ok := func() error { return ctx.JSON(http.StatusOK, echo.Map{"ok": true}) }

	var update tgbotapi.Update
	if err := ctx.Bind(&update); err != nil || update.Message == nil || update.Message.Chat == nil {
		return ok()
	}

	msg := update.Message
	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	var firstName string
	if msg.From != nil {
		firstName = msg.From.FirstName
	}

	rctx := ctx.Request().Context()
	if code := telegramsvc.ExtractStartCode(msg.Text); code != "" {
		if err := api.linkSvc.Consume(rctx, chatID, code, firstName); err != nil {
			api.logger.Error(fmt.Sprintf("consuming link code: %v", err), err)
		}
		return ok()
	}

	reply := "Please use the link provided by your tuition centre to connect your account."
	if msg.Text == "/start" {
		reply = startGreeting
	}
	if err := api.notifier.Send(rctx, chatID, reply); err != nil {
		api.logger.Error(fmt.Sprintf("replying to chat %s: %v", chatID, err), err)
	}
	return ok()
}
