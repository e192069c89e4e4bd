package notify

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-jobwatch/internal/errors"
	"go-jobwatch/internal/listing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers messages to one fixed chat. The bot is checked
// with getMe on first use, so a Telegram outage at start-up only fails
// deliveries and the next delivery tries again. Not safe for concurrent use.
type TelegramNotifier struct {
	token    string
	endpoint string
	client   tgbotapi.HTTPClient

	chatID  int64
	channel string

	bot *tgbotapi.BotAPI
}

func NewTelegramNotifier(token, chat string) (*TelegramNotifier, error) {
	return NewTelegramNotifierWithEndpoint(token, chat, tgbotapi.APIEndpoint, &http.Client{Timeout: 10 * time.Second})
}

// NewTelegramNotifierWithEndpoint lets the Bot API endpoint and HTTP client be
// swapped, e.g. for a local Bot API server. endpoint is a format string with
// the token and method, like tgbotapi.APIEndpoint. chat is a numeric chat ID
// or a @channelusername. No request is made until Connect or Deliver.
func NewTelegramNotifierWithEndpoint(token, chat, endpoint string, client tgbotapi.HTTPClient) (*TelegramNotifier, error) {
	t := &TelegramNotifier{
		token:    token,
		endpoint: endpoint,
		client:   client,
	}

	chat = strings.TrimSpace(chat)
	if strings.HasPrefix(chat, "@") && len(chat) > 1 {
		t.channel = chat
		return t, nil
	}
	id, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid telegram chat %q", chat)
	}
	t.chatID = id
	return t, nil
}

// Connect checks the token with getMe. It is a no-op once it has succeeded.
func (t *TelegramNotifier) Connect(ctx context.Context) error {
	if t.bot != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	bot, err := tgbotapi.NewBotAPIWithClient(t.token, t.endpoint, t.client)
	if err != nil {
		return errors.Wrap(err, "failed to init telegram bot")
	}

	//turn this on in case of debug
	//bot.Debug = true

	t.bot = bot
	return nil
}

// Deliver sends an HTML-formatted message with link previews on.
func (t *TelegramNotifier) Deliver(ctx context.Context, text string) error {
	if err := t.Connect(ctx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg tgbotapi.MessageConfig
	if t.channel != "" {
		msg = tgbotapi.NewMessageToChannel(t.channel, text)
	} else {
		msg = tgbotapi.NewMessage(t.chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = false
	if _, err := t.bot.Send(msg); err != nil {
		return errors.Wrap(err, "telegram sendMessage")
	}
	return nil
}

// FormatJob renders the notification for a newly found job.
func FormatJob(job listing.Job) string {
	e := html.EscapeString
	lines := []string{
		"🆕 <b>New Amazon Job!</b>",
		"",
		fmt.Sprintf("📋 <b>%s</b>", e(job.Title)),
		fmt.Sprintf("🏷 Category: %s", e(job.Category)),
	}
	if job.Type != "" {
		lines = append(lines, fmt.Sprintf("⏰ Type: %s", e(job.Type)))
	}
	if job.Duration != "" {
		lines = append(lines, fmt.Sprintf("📆 Duration: %s", e(job.Duration)))
	}
	if job.Pay != "" {
		lines = append(lines, fmt.Sprintf("💷 Pay: %s", e(job.Pay)))
	}
	lines = append(lines,
		fmt.Sprintf("📍 Location: %s", e(job.Location)),
		fmt.Sprintf("🔗 <a href=\"%s\">View Job →</a>", e(job.URL)),
	)
	return strings.Join(lines, "\n")
}

// FormatSummary renders the end-of-run status message.
func FormatSummary(newJobs, notified, failed int) string {
	text := fmt.Sprintf("ℹ️ Found %d new job(s), sent %d.", newJobs, notified)
	if failed > 0 {
		text += fmt.Sprintf(" ⚠️ %d failed to send.", failed)
	}
	return text
}
