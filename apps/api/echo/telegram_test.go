package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	telegramsvc "github.com/attendancr/attendancr/services/telegram"
)

func telegramUpdate(chatID int64, firstName, text string) map[string]interface{} {
	return map[string]interface{}{
		"update_id": 1,
		"message": map[string]interface{}{
			"message_id": 1,
			"chat":       map[string]interface{}{"id": chatID, "type": "private"},
			"from":       map[string]interface{}{"id": chatID, "first_name": firstName},
			"text":       text,
		},
	}
}

func Test_telegramApi_webhook_linkFlow(t *testing.T) {
	app := setupApp(t, nil)
	ctx := context.Background()

	ann := createStudentWithGuardian(t, app, "Ann Tan", "91234567", "")
	parent, err := app.students.GetParentByID(ctx, ann.PrimaryParentID.String)
	require.NoError(t, err)
	lnk, err := app.linkSvc.IssueLink(ctx, parent.ID)
	require.NoError(t, err)

	rec := app.request(t, http.MethodPost, "/v1/telegram/webhook", "", telegramUpdate(555, "Mary", "/start "+lnk.Code))
	checkCode(t, rec, http.StatusOK)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	got, err := app.students.GetParentByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, "555", got.TelegramChatID.String)

	require.NotEmpty(t, telegramsvc.SentMessages)
	assert.Contains(t, telegramsvc.SentMessages[len(telegramsvc.SentMessages)-1].Text, "Successfully linked!")
}

func Test_telegramApi_webhook_bareStart(t *testing.T) {
	app := setupApp(t, nil)

	rec := app.request(t, http.MethodPost, "/v1/telegram/webhook", "", telegramUpdate(555, "Mary", "/start"))
	checkCode(t, rec, http.StatusOK)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	require.Len(t, telegramsvc.SentMessages, 1)
	assert.Equal(t, startGreeting, telegramsvc.SentMessages[0].Text)
}

func Test_telegramApi_webhook_unknownText(t *testing.T) {
	app := setupApp(t, nil)

	rec := app.request(t, http.MethodPost, "/v1/telegram/webhook", "", telegramUpdate(555, "Mary", "hello?"))
	checkCode(t, rec, http.StatusOK)

	require.Len(t, telegramsvc.SentMessages, 1)
	assert.Contains(t, telegramsvc.SentMessages[0].Text, "use the link provided by your tuition centre")
}

func Test_telegramApi_webhook_invalidCode(t *testing.T) {
	app := setupApp(t, nil)

	rec := app.request(t, http.MethodPost, "/v1/telegram/webhook", "", telegramUpdate(555, "Mary", "/start XXXXXX"))
	checkCode(t, rec, http.StatusOK) // the webhook acknowledges either way

	require.Len(t, telegramsvc.SentMessages, 1)
	assert.Contains(t, telegramsvc.SentMessages[0].Text, "invalid or has expired")
}

func Test_telegramApi_webhook_malformedPayloads(t *testing.T) {
	app := setupApp(t, nil)

	// Telegram retries non-200s forever; junk must still be acknowledged
	for _, body := range []interface{}{
		nil,
		map[string]interface{}{"update_id": 1}, // no message
		"not even json",
	} {
		rec := app.request(t, http.MethodPost, "/v1/telegram/webhook", "", body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	}
	assert.Empty(t, telegramsvc.SentMessages)
}
