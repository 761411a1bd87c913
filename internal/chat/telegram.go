// Package chat wraps the chat platform API: one client for outgoing messages
// and keyboards, file resolution, and the update stream. Everything above
// this package speaks domain types; nothing above it imports the platform
// SDK except the router, which translates updates.
package chat

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"pazlcollab/internal/notify"
)

// Telegram is the live chat client. It also implements notify.Sender, so the
// notification worker delivers through the same connection.
type Telegram struct {
	api       *tgbotapi.BotAPI
	log       *zap.Logger
	webAppURL string
}

func NewTelegram(token, webAppURL string, log *zap.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect bot api: %w", err)
	}
	log.Info("bot authorized", zap.String("username", api.Self.UserName))
	return &Telegram{api: api, log: log, webAppURL: webAppURL}, nil
}

// Username is the bot's public handle, used in deep links.
func (t *Telegram) Username() string {
	return t.api.Self.UserName
}

// Updates opens the long-poll update stream.
func (t *Telegram) Updates() tgbotapi.UpdatesChannel {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	return t.api.GetUpdatesChan(cfg)
}

// Stop closes the update stream.
func (t *Telegram) Stop() {
	t.api.StopReceivingUpdates()
}

// Send implements notify.Sender: queued notifications carry a keyboard hint
// that maps onto the reply menus here.
func (t *Telegram) Send(_ context.Context, msg notify.Message) error {
	out := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	switch msg.Keyboard {
	case notify.KeyboardMain:
		out.ReplyMarkup = MainMenu(msg.Locale)
	case notify.KeyboardStatus:
		out.ReplyMarkup = StatusMenu(msg.Locale)
	case notify.KeyboardPostApproval:
		out.ReplyMarkup = PostApprovalMenu(msg.Locale, t.webAppURL)
	}
	_, err := t.api.Send(out)
	return err
}

// SendText sends a plain message with no keyboard change.
func (t *Telegram) SendText(chatID int64, text string) error {
	_, err := t.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendReply sends a message with a reply-menu keyboard.
func (t *Telegram) SendReply(chatID int64, text string, kb tgbotapi.ReplyKeyboardMarkup) error {
	out := tgbotapi.NewMessage(chatID, text)
	out.ReplyMarkup = kb
	_, err := t.api.Send(out)
	return err
}

// SendInline sends a message with an inline keyboard.
func (t *Telegram) SendInline(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	out := tgbotapi.NewMessage(chatID, text)
	out.ReplyMarkup = markup
	_, err := t.api.Send(out)
	return err
}

// EditMarkup swaps only the inline keyboard of a sent message.
func (t *Telegram) EditMarkup(chatID int64, messageID int, markup tgbotapi.InlineKeyboardMarkup) error {
	_, err := t.api.Send(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, markup))
	return err
}

// AnswerCallback acknowledges a callback query, optionally with an alert.
func (t *Telegram) AnswerCallback(callbackID, text string) {
	cb := tgbotapi.NewCallback(callbackID, text)
	cb.ShowAlert = text != ""
	if _, err := t.api.Request(cb); err != nil {
		t.log.Warn("answer callback failed", zap.Error(err))
	}
}

// FileURL resolves an uploaded file to a downloadable URL.
func (t *Telegram) FileURL(fileID string) (string, error) {
	file, err := t.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("resolve file %s: %w", fileID, err)
	}
	return file.Link(t.api.Token), nil
}
