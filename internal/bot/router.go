// Package bot is the update loop: it translates chat platform updates into
// engine calls and renders the engine's transport-free replies back into
// messages and keyboards. No questionnaire logic lives here.
package bot

import (
	"context"
	"errors"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"pazlcollab/internal/chat"
	"pazlcollab/internal/conversation"
	"pazlcollab/internal/domain"
	"pazlcollab/internal/partnership"
	"pazlcollab/pkg/sentinel"
)

// Chat is the slice of the chat client the router drives.
type Chat interface {
	Updates() tgbotapi.UpdatesChannel
	Stop()
	SendText(chatID int64, text string) error
	SendReply(chatID int64, text string, kb tgbotapi.ReplyKeyboardMarkup) error
	SendInline(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error
	EditMarkup(chatID int64, messageID int, markup tgbotapi.InlineKeyboardMarkup) error
	AnswerCallback(callbackID, text string)
	FileURL(fileID string) (string, error)
}

// Router drives the update loop.
type Router struct {
	chat     Chat
	engine   *conversation.Engine
	profiles conversation.ProfileFinder
	partners *partnership.Service
	log      *zap.Logger

	botName   string
	webAppURL string

	mu      sync.Mutex
	locales map[int64]string
}

func NewRouter(c Chat, engine *conversation.Engine, profiles conversation.ProfileFinder,
	partners *partnership.Service, botName, webAppURL string, log *zap.Logger) *Router {
	return &Router{
		chat:      c,
		engine:    engine,
		profiles:  profiles,
		partners:  partners,
		log:       log,
		botName:   botName,
		webAppURL: webAppURL,
		locales:   make(map[int64]string),
	}
}

// Run consumes updates until ctx is cancelled.
func (r *Router) Run(ctx context.Context) error {
	updates := r.chat.Updates()
	for {
		select {
		case <-ctx.Done():
			r.chat.Stop()
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			r.handle(ctx, upd)
		}
	}
}

func (r *Router) handle(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("update handler panicked", zap.Any("panic", rec))
		}
	}()

	switch {
	case upd.CallbackQuery != nil:
		r.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		r.handleMessage(ctx, upd.Message)
	}
}

func (r *Router) locale(userID int64, hint string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if loc, ok := r.locales[userID]; ok {
		return loc
	}
	loc := domain.NormalizeLocale(hint)
	r.locales[userID] = loc
	return loc
}

func (r *Router) setLocale(userID int64, locale string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locales[userID] = locale
}

func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	locale := r.locale(userID, msg.From.LanguageCode)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			r.handleStart(ctx, userID, chatID, msg.CommandArguments())
		case "cancel":
			r.handleCancel(ctx, userID, chatID, locale)
		default:
			r.send(chatID, menuHintText(locale))
		}
		return
	}

	if len(msg.Photo) > 0 {
		r.handlePhoto(ctx, userID, chatID, locale, msg.Photo)
		return
	}

	text := strings.TrimSpace(msg.Text)
	switch {
	case strings.EqualFold(text, "отмена") || strings.EqualFold(text, "cancel"):
		r.handleCancel(ctx, userID, chatID, locale)
	case text == chat.FormButtonText(locale):
		r.startForm(ctx, userID, chatID, locale)
	case text == chat.StatusButtonText(locale):
		r.checkStatus(ctx, userID, chatID, locale)
	case text == chat.PartnershipButtonText(locale):
		r.partnershipHint(ctx, userID, chatID, locale)
	case r.engine.Active(userID):
		reply, err := r.engine.Input(ctx, userID, msg.Text)
		if err != nil {
			r.log.Warn("input rejected", zap.Int64("user_id", userID), zap.Error(err))
			return
		}
		r.render(chatID, locale, reply)
	default:
		if err := r.chat.SendReply(chatID, menuHintText(locale), chat.MainMenu(locale)); err != nil {
			r.logSendErr(chatID, err)
		}
	}
}

func (r *Router) handleStart(ctx context.Context, userID, chatID int64, payload string) {
	if target, ok := strings.CutPrefix(payload, "partner_"); ok {
		r.handlePartnerLink(ctx, userID, chatID, target)
		return
	}
	if err := r.chat.SendInline(chatID, pickLanguageText(), chat.LanguageKeyboard()); err != nil {
		r.logSendErr(chatID, err)
	}
}

func (r *Router) handleCancel(ctx context.Context, userID, chatID int64, locale string) {
	text := nothingToCancelText(locale)
	if r.engine.Cancel(ctx, userID) {
		text = cancelledText(locale)
	}
	if err := r.chat.SendReply(chatID, text, chat.MainMenu(locale)); err != nil {
		r.logSendErr(chatID, err)
	}
}

func (r *Router) handlePhoto(ctx context.Context, userID, chatID int64, locale string, sizes []tgbotapi.PhotoSize) {
	if !r.engine.Active(userID) {
		return
	}
	// Sizes come smallest first; take the largest.
	fileID := sizes[len(sizes)-1].FileID
	url, err := r.chat.FileURL(fileID)
	if err != nil {
		r.log.Warn("photo resolve failed", zap.Int64("user_id", userID), zap.Error(err))
		r.send(chatID, photoFailedText(locale))
		return
	}
	r.finish(ctx, userID, chatID, locale, url)
}

func (r *Router) finish(ctx context.Context, userID, chatID int64, locale, photoURL string) {
	reply, err := r.engine.Finish(ctx, userID, photoURL)
	if err != nil {
		return
	}
	r.render(chatID, locale, reply)
}

func (r *Router) startForm(ctx context.Context, userID, chatID int64, locale string) {
	reply, err := r.engine.Start(ctx, userID, locale)
	if err != nil {
		r.send(chatID, statusUnavailableText(locale))
		return
	}
	if reply.Profile != nil {
		r.sendStatus(chatID, locale, reply.Profile.Status)
		return
	}
	r.render(chatID, locale, reply)
}

func (r *Router) checkStatus(ctx context.Context, userID, chatID int64, locale string) {
	p, err := r.profiles.FindByUser(ctx, userID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		if err := r.chat.SendReply(chatID, noProfileText(locale), chat.MainMenu(locale)); err != nil {
			r.logSendErr(chatID, err)
		}
	case err != nil:
		r.send(chatID, statusUnavailableText(locale))
	default:
		r.sendStatus(chatID, locale, p.Status)
	}
}

func (r *Router) sendStatus(chatID int64, locale string, status domain.Status) {
	var text string
	var kb tgbotapi.ReplyKeyboardMarkup
	switch status {
	case domain.StatusApproved:
		text = statusApprovedText(locale)
		kb = chat.PostApprovalMenu(locale, r.webAppURL)
	case domain.StatusDeclined:
		text = statusDeclinedText(locale)
		kb = chat.MainMenu(locale)
	default:
		text = statusPendingText(locale)
		kb = chat.StatusMenu(locale)
	}
	if err := r.chat.SendReply(chatID, text, kb); err != nil {
		r.logSendErr(chatID, err)
	}
}

func (r *Router) partnershipHint(ctx context.Context, userID, chatID int64, locale string) {
	p, err := r.profiles.FindByUser(ctx, userID)
	if err != nil || p.Status != domain.StatusApproved {
		r.send(chatID, partnershipOnlyApprovedText(locale))
		return
	}
	r.send(chatID, partnershipHintText(locale, r.botName))
}

// handlePartnerLink serves the /start partner_<telegramID> deep link: the
// visitor proposes a partnership to the expert the link belongs to.
func (r *Router) handlePartnerLink(ctx context.Context, userID, chatID int64, target string) {
	locale := r.locale(userID, "")

	from, err := r.profiles.FindByUser(ctx, userID)
	if err != nil || from.Status != domain.StatusApproved {
		r.send(chatID, partnershipOnlyApprovedText(locale))
		return
	}

	var toUserID int64
	for _, c := range target {
		if c < '0' || c > '9' {
			r.send(chatID, menuHintText(locale))
			return
		}
		toUserID = toUserID*10 + int64(c-'0')
	}

	req, err := r.partners.Create(ctx, from, toUserID)
	switch {
	case partnership.IsDuplicatePending(err):
		r.send(chatID, partnershipPendingText(locale))
		return
	case err != nil:
		r.log.Warn("partnership create failed", zap.Int64("from", userID), zap.Error(err))
		r.send(chatID, statusUnavailableText(locale))
		return
	}

	// The target answers inline; their locale comes from their own profile.
	toLocale := locale
	if to, err := r.profiles.FindByUser(ctx, toUserID); err == nil {
		toLocale = to.Locale
	}
	if err := r.chat.SendInline(toUserID,
		partnership.RequestText(from.Name, toLocale),
		chat.PartnershipKeyboard(req.ID, toLocale)); err != nil {
		r.logSendErr(toUserID, err)
	}
	r.send(chatID, partnershipSentText(locale))
}

func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		r.chat.AnswerCallback(cb.ID, "")
		return
	}
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	locale := r.locale(userID, cb.From.LanguageCode)

	parts := strings.SplitN(cb.Data, ":", 3)
	switch {
	case parts[0] == "lang" && len(parts) == 2:
		locale = domain.NormalizeLocale(parts[1])
		r.setLocale(userID, locale)
		r.chat.AnswerCallback(cb.ID, "")
		if err := r.chat.SendReply(chatID, welcomeText(locale), chat.MainMenu(locale)); err != nil {
			r.logSendErr(chatID, err)
		}

	case parts[0] == "photo" && len(parts) == 2 && parts[1] == "skip":
		r.chat.AnswerCallback(cb.ID, "")
		r.finish(ctx, userID, chatID, locale, "")

	case parts[0] == "partner" && len(parts) == 3:
		r.resolvePartnership(ctx, cb, parts[1], parts[2])

	case len(parts) >= 2:
		reply, err := r.engine.Toggle(ctx, userID, parts[0], strings.Join(parts[1:], ":"))
		if err != nil {
			r.chat.AnswerCallback(cb.ID, "")
			return
		}
		r.chat.AnswerCallback(cb.ID, reply.Alert)
		if reply.Alert != "" {
			return
		}
		if reply.EditKeyboard {
			markup := chat.OptionsKeyboard(reply.Step, reply.Options, reply.ShowDone, locale)
			if err := r.chat.EditMarkup(chatID, cb.Message.MessageID, markup); err != nil {
				r.logSendErr(chatID, err)
			}
			return
		}
		r.render(chatID, locale, reply)

	default:
		r.chat.AnswerCallback(cb.ID, "")
	}
}

func (r *Router) resolvePartnership(ctx context.Context, cb *tgbotapi.CallbackQuery, verb, requestID string) {
	accepted := verb == "accept"
	_, err := r.partners.Resolve(ctx, requestID, cb.From.ID, accepted)
	if err != nil {
		r.chat.AnswerCallback(cb.ID, "")
		return
	}
	r.chat.AnswerCallback(cb.ID, "")
	locale := r.locale(cb.From.ID, cb.From.LanguageCode)
	r.send(cb.Message.Chat.ID, partnershipResolvedText(locale, accepted))
}

// render turns an engine reply into outgoing messages.
func (r *Router) render(chatID int64, locale string, reply conversation.Reply) {
	if reply.Text == "" {
		return
	}
	switch {
	case reply.Step == conversation.StepPhoto && !reply.Finished:
		if err := r.chat.SendInline(chatID, reply.Text, chat.PhotoKeyboard(locale)); err != nil {
			r.logSendErr(chatID, err)
		}
	case len(reply.Options) > 0 || reply.ShowDone:
		markup := chat.OptionsKeyboard(reply.Step, reply.Options, reply.ShowDone, locale)
		if err := r.chat.SendInline(chatID, reply.Text, markup); err != nil {
			r.logSendErr(chatID, err)
		}
	case reply.Finished:
		if err := r.chat.SendReply(chatID, reply.Text, chat.StatusMenu(locale)); err != nil {
			r.logSendErr(chatID, err)
		}
	default:
		r.send(chatID, reply.Text)
	}
}

func (r *Router) send(chatID int64, text string) {
	if err := r.chat.SendText(chatID, text); err != nil {
		r.logSendErr(chatID, err)
	}
}

func (r *Router) logSendErr(chatID int64, err error) {
	r.log.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
}
