package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go-jobwatch/internal/listing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	chatID    string
	text      string
	parseMode string
}

// fakeBotAPI answers getMe and sendMessage like the Telegram Bot API.
type fakeBotAPI struct {
	mu        sync.Mutex
	sent      []sentMessage
	getMes    int
	failGetMe bool
	failSend  bool
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		f.mu.Lock()
		f.getMes++
		down := f.failGetMe
		f.mu.Unlock()
		if down {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":502,"description":"Bad Gateway"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"jobwatch","username":"jobwatch_bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		if f.failSend {
			_, _ = w.Write([]byte(`{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 1"}`))
			return
		}
		_ = r.ParseForm()
		f.mu.Lock()
		f.sent = append(f.sent, sentMessage{
			chatID:    r.FormValue("chat_id"),
			text:      r.FormValue("text"),
			parseMode: r.FormValue("parse_mode"),
		})
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestNotifierForChat(t *testing.T, api *fakeBotAPI, chat string) *TelegramNotifier {
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	n, err := NewTelegramNotifierWithEndpoint("123:abc", chat, srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)
	return n
}

func newTestNotifier(t *testing.T, api *fakeBotAPI) *TelegramNotifier {
	return newTestNotifierForChat(t, api, "42")
}

func TestTelegramNotifier_Deliver(t *testing.T) {
	api := &fakeBotAPI{}
	n := newTestNotifier(t, api)

	require.NoError(t, n.Deliver(context.Background(), "<b>hello</b>"))

	require.Len(t, api.sent, 1)
	assert.Equal(t, "42", api.sent[0].chatID)
	assert.Equal(t, "<b>hello</b>", api.sent[0].text)
	assert.Equal(t, "HTML", api.sent[0].parseMode)
}

func TestTelegramNotifier_DeliverError(t *testing.T) {
	api := &fakeBotAPI{failSend: true}
	n := newTestNotifier(t, api)

	err := n.Deliver(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Too Many Requests")
}

func TestTelegramNotifier_DeliverCancelled(t *testing.T) {
	api := &fakeBotAPI{}
	n := newTestNotifier(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Deliver(ctx, "hi"), context.Canceled)
	assert.Empty(t, api.sent)
}

func TestTelegramNotifier_ChannelUsername(t *testing.T) {
	api := &fakeBotAPI{}
	n := newTestNotifierForChat(t, api, "@amazon_jobs")

	require.NoError(t, n.Deliver(context.Background(), "hi"))

	require.Len(t, api.sent, 1)
	assert.Equal(t, "@amazon_jobs", api.sent[0].chatID)
}

func TestNewTelegramNotifier_InvalidChat(t *testing.T) {
	_, err := NewTelegramNotifierWithEndpoint("123:abc", "amazon_jobs", tgbotapi.APIEndpoint, http.DefaultClient)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid telegram chat "amazon_jobs"`)
}

func TestTelegramNotifier_GetMeOutageOnlyFailsDelivery(t *testing.T) {
	api := &fakeBotAPI{failGetMe: true}
	n := newTestNotifier(t, api)
	assert.Zero(t, api.getMes, "constructor must not call the Bot API")

	require.Error(t, n.Connect(context.Background()))
	require.Error(t, n.Deliver(context.Background(), "first"))
	assert.Empty(t, api.sent)

	api.mu.Lock()
	api.failGetMe = false
	api.mu.Unlock()

	require.NoError(t, n.Deliver(context.Background(), "second"))
	require.NoError(t, n.Deliver(context.Background(), "third"))

	require.Len(t, api.sent, 2)
	assert.Equal(t, "second", api.sent[0].text)
	assert.Equal(t, 3, api.getMes)
}

func TestFormatJob(t *testing.T) {
	job := listing.Job{
		Title:    "Warehouse Operative",
		Type:     "Full Time",
		Duration: "Fixed-term",
		Pay:      "£12.30/hr",
		Location: "Leeds",
		URL:      "https://www.jobsatamazon.co.uk/app#/jobSearch?query=Warehouse%20Operative&locale=en-GB",
		Category: "Warehouse Operative",
	}

	want := strings.Join([]string{
		"🆕 <b>New Amazon Job!</b>",
		"",
		"📋 <b>Warehouse Operative</b>",
		"🏷 Category: Warehouse Operative",
		"⏰ Type: Full Time",
		"📆 Duration: Fixed-term",
		"💷 Pay: £12.30/hr",
		"📍 Location: Leeds",
		`🔗 <a href="https://www.jobsatamazon.co.uk/app#/jobSearch?query=Warehouse%20Operative&amp;locale=en-GB">View Job →</a>`,
	}, "\n")
	assert.Equal(t, want, FormatJob(job))
}

func TestFormatJob_OptionalFieldsAndEscaping(t *testing.T) {
	msg := FormatJob(listing.Job{Title: "Pick & Pack <Nights>", Location: "Unknown", Category: "A"})

	assert.Contains(t, msg, "📋 <b>Pick &amp; Pack &lt;Nights&gt;</b>")
	assert.NotContains(t, msg, "Type:")
	assert.NotContains(t, msg, "Duration:")
	assert.NotContains(t, msg, "Pay:")
	assert.Contains(t, msg, "📍 Location: Unknown")
}

func TestFormatSummary(t *testing.T) {
	assert.Equal(t, "ℹ️ Found 2 new job(s), sent 2.", FormatSummary(2, 2, 0))
	assert.Equal(t, "ℹ️ Found 3 new job(s), sent 1. ⚠️ 2 failed to send.", FormatSummary(3, 1, 2))
}
