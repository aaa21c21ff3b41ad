package notify

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/alert"
)

// Telegram sends alert messages to a caregiver chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram authorizes the bot and resolves the chat ID.
func NewTelegram(token, chatID string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("telegram chat id: %w", err)
	}
	log.Info("telegram notifier ready", "bot", bot.Self.UserName)
	return &Telegram{bot: bot, chatID: id}, nil
}

// Notify sends one formatted alert message.
func (t *Telegram) Notify(a alert.Alert) error {
	msg := tgbotapi.NewMessage(t.chatID, formatMessage(a))
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Close is a no-op; the bot API holds no persistent connection.
func (t *Telegram) Close() error { return nil }

func formatMessage(a alert.Alert) string {
	var sb strings.Builder
	switch a.Source {
	case alert.SourceFall:
		sb.WriteString("<b>FALL DETECTED</b>\n\n")
	case alert.SourceEmergency:
		sb.WriteString("<b>EMERGENCY BUTTON PRESSED</b>\n\n")
	case alert.SourceAssistance:
		sb.WriteString("<b>ASSISTANCE REQUESTED</b>\n\n")
	default:
		sb.WriteString("<b>ALERT</b>\n\n")
	}
	sb.WriteString(a.Text)
	if !a.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("\n\nTime: %s", a.Timestamp.Format("2006-01-02 15:04:05")))
	}
	return sb.String()
}
