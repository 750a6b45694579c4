package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/amishk599/jobwatch/internal/model"
)

// telegramMaxLen is Telegram's message limit in UTF-16 code units.
const telegramMaxLen = 4096

// Ensure TelegramNotifier implements model.Notifier.
var _ model.Notifier = (*TelegramNotifier)(nil)

// TelegramNotifier sends the run message through a Telegram bot. The bot is
// authenticated on first use, so an unreachable API fails that delivery only
// and never the setup of a run.
type TelegramNotifier struct {
	token       string
	chatID      string
	apiEndpoint string
	httpClient  *http.Client
	logger      *slog.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// NewTelegramNotifier validates the credentials without contacting the API.
// chatID is either a numeric chat id or an @channel username.
func NewTelegramNotifier(token, chatID string, httpClient *http.Client, logger *slog.Logger) (*TelegramNotifier, error) {
	return newTelegramNotifier(token, chatID, tgbotapi.APIEndpoint, httpClient, logger)
}

func newTelegramNotifier(token, chatID, apiEndpoint string, httpClient *http.Client, logger *slog.Logger) (*TelegramNotifier, error) {
	if token == "" {
		return nil, errors.New("telegram token is required")
	}
	if chatID == "" {
		return nil, errors.New("telegram chat id is required")
	}
	if _, err := strconv.ParseInt(chatID, 10, 64); err != nil && !strings.HasPrefix(chatID, "@") {
		return nil, fmt.Errorf("telegram chat id %q must be numeric or an @channel", chatID)
	}

	return &TelegramNotifier{
		token:       token,
		chatID:      chatID,
		apiEndpoint: apiEndpoint,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

// client returns the authenticated bot, creating it on first success.
func (t *TelegramNotifier) client() (*tgbotapi.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bot != nil {
		return t.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(t.token, t.apiEndpoint, t.httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	t.bot = bot
	return bot, nil
}

// Notify sends message as one plain-text Telegram message, truncated to the
// API limit.
func (t *TelegramNotifier) Notify(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bot, err := t.client()
	if err != nil {
		return err
	}

	text := truncateUTF16(message, telegramMaxLen)
	var msg tgbotapi.MessageConfig
	if id, err := strconv.ParseInt(t.chatID, 10, 64); err == nil {
		msg = tgbotapi.NewMessage(id, text)
	} else {
		msg = tgbotapi.NewMessageToChannel(t.chatID, text)
	}
	msg.DisableWebPagePreview = true

	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	t.logger.Info("telegram message sent", "chat_id", t.chatID, "truncated", text != message)
	return nil
}

// truncateUTF16 cuts s so that it fits in max UTF-16 code units, ending with
// an ellipsis when anything was dropped. Runes are never split.
func truncateUTF16(s string, max int) string {
	units := 0
	for _, r := range s {
		units += utf16Len(r)
	}
	if units <= max {
		return s
	}

	const ellipsis = "…"
	limit := max - 1
	units = 0
	var b strings.Builder
	for _, r := range s {
		n := utf16Len(r)
		if units+n > limit {
			break
		}
		units += n
		b.WriteRune(r)
	}
	return b.String() + ellipsis
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
