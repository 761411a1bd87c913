package bot

import (
	"context"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pazlcollab/internal/chat"
	"pazlcollab/internal/conversation"
	"pazlcollab/internal/domain"
	"pazlcollab/internal/notify"
	"pazlcollab/internal/partnership"
	"pazlcollab/pkg/sentinel"
)

type fakeChat struct {
	mu          sync.Mutex
	texts       []string
	inlineTexts []string
	replyTexts  []string
	markupEdits int
	alerts      []string
}

func (f *fakeChat) Updates() tgbotapi.UpdatesChannel { return nil }
func (f *fakeChat) Stop()                            {}

func (f *fakeChat) SendText(_ int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeChat) SendReply(_ int64, text string, _ tgbotapi.ReplyKeyboardMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replyTexts = append(f.replyTexts, text)
	return nil
}

func (f *fakeChat) SendInline(_ int64, text string, _ tgbotapi.InlineKeyboardMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inlineTexts = append(f.inlineTexts, text)
	return nil
}

func (f *fakeChat) EditMarkup(int64, int, tgbotapi.InlineKeyboardMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markupEdits++
	return nil
}

func (f *fakeChat) AnswerCallback(_ string, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, text)
}

func (f *fakeChat) FileURL(string) (string, error) {
	return "https://files.example/photo.jpg", nil
}

type stubProfiles struct {
	profile domain.Profile
	err     error
}

func (s *stubProfiles) FindByUser(context.Context, int64) (domain.Profile, error) {
	return s.profile, s.err
}

type stubFinalizer struct{ calls int }

func (s *stubFinalizer) Submit(context.Context, *domain.Draft) error {
	s.calls++
	return nil
}

type nullSender struct{}

func (nullSender) Send(context.Context, notify.Message) error { return nil }

func newTestRouter(profiles *stubProfiles) (*Router, *fakeChat, *stubFinalizer) {
	if profiles == nil {
		profiles = &stubProfiles{err: sentinel.ErrNotFound}
	}
	fin := &stubFinalizer{}
	engine := conversation.NewEngine(conversation.NewSessions(), profiles, fin, zap.NewNop())
	queue := notify.NewQueue(8, nullSender{}, zap.NewNop(), nil)
	partners := partnership.NewService(partnership.NewMemoryStore(), queue, zap.NewNop())
	fc := &fakeChat{}
	return NewRouter(fc, engine, profiles, partners, "collab_bot", "", zap.NewNop()), fc, fin
}

func message(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID, LanguageCode: "ru"},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}}
}

func command(userID int64, cmd string) tgbotapi.Update {
	upd := message(userID, cmd)
	upd.Message.Entities = []tgbotapi.MessageEntity{{
		Type: "bot_command", Offset: 0, Length: len(cmd),
	}}
	return upd
}

func callback(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb1",
		From: &tgbotapi.User{ID: userID, LanguageCode: "ru"},
		Message: &tgbotapi.Message{
			MessageID: 10,
			Chat:      &tgbotapi.Chat{ID: userID},
		},
		Data: data,
	}}
}

func TestStartShowsLanguagePicker(t *testing.T) {
	r, fc, _ := newTestRouter(nil)
	r.handle(context.Background(), command(7, "/start"))
	require.Len(t, fc.inlineTexts, 1)
	assert.Equal(t, pickLanguageText(), fc.inlineTexts[0])
}

func TestLanguageCallbackOpensMenu(t *testing.T) {
	r, fc, _ := newTestRouter(nil)
	r.handle(context.Background(), callback(7, "lang:en"))
	require.Len(t, fc.replyTexts, 1)
	assert.Equal(t, welcomeText(domain.LocaleEN), fc.replyTexts[0])
}

func TestFormButtonStartsQuestionnaire(t *testing.T) {
	r, fc, _ := newTestRouter(nil)
	ctx := context.Background()

	r.handle(ctx, message(7, chat.FormButtonText(domain.LocaleRU)))
	require.Len(t, fc.texts, 1, "first step prompt goes out as plain text")
	assert.True(t, r.engine.Active(7))

	// Free text answers flow into the engine.
	r.handle(ctx, message(7, "Анна Иванова"))
	require.Len(t, fc.texts, 2)
}

func TestFormButtonWithExistingProfileShowsStatus(t *testing.T) {
	profiles := &stubProfiles{profile: domain.Profile{
		UserID: 7, Status: domain.StatusPending, Locale: domain.LocaleRU,
	}}
	r, fc, _ := newTestRouter(profiles)

	r.handle(context.Background(), message(7, chat.FormButtonText(domain.LocaleRU)))
	require.Len(t, fc.replyTexts, 1)
	assert.Equal(t, statusPendingText(domain.LocaleRU), fc.replyTexts[0])
	assert.False(t, r.engine.Active(7))
}

func TestSelectionCallbackEditsKeyboard(t *testing.T) {
	r, fc, _ := newTestRouter(nil)
	ctx := context.Background()

	r.handle(ctx, message(7, chat.FormButtonText(domain.LocaleRU)))
	for _, answer := range []string{"Анна", "+79991234567", "@anna", "Москва", "instagram.com/anna"} {
		r.handle(ctx, message(7, answer))
	}
	require.Len(t, fc.inlineTexts, 1, "direction step renders inline options")

	r.handle(ctx, callback(7, "direction:coaching_life"))
	assert.Equal(t, 1, fc.markupEdits, "toggling re-renders the keyboard in place")

	r.handle(ctx, callback(7, "direction:done"))
	assert.Len(t, fc.inlineTexts, 2, "done advances to the next selection step")
}

func TestCancelMidFlow(t *testing.T) {
	r, fc, fin := newTestRouter(nil)
	ctx := context.Background()

	r.handle(ctx, message(7, chat.FormButtonText(domain.LocaleRU)))
	r.handle(ctx, message(7, "Анна"))
	r.handle(ctx, command(7, "/cancel"))

	assert.False(t, r.engine.Active(7))
	assert.Zero(t, fin.calls)
	require.NotEmpty(t, fc.replyTexts)
	assert.Equal(t, cancelledText(domain.LocaleRU), fc.replyTexts[len(fc.replyTexts)-1])
}

func TestStatusButtonWithoutProfile(t *testing.T) {
	r, fc, _ := newTestRouter(nil)
	r.handle(context.Background(), message(7, chat.StatusButtonText(domain.LocaleRU)))
	require.Len(t, fc.replyTexts, 1)
	assert.Equal(t, noProfileText(domain.LocaleRU), fc.replyTexts[0])
}

func TestPartnerDeepLinkRequiresApproval(t *testing.T) {
	r, fc, _ := newTestRouter(nil)
	r.handle(context.Background(), command(7, "/start"))
	r.handleStart(context.Background(), 7, 7, "partner_8")
	assert.Contains(t, fc.texts, partnershipOnlyApprovedText(domain.LocaleRU))
}

func TestPartnerDeepLinkFromApprovedExpert(t *testing.T) {
	profiles := &stubProfiles{profile: domain.Profile{
		UserID: 7, Name: "Анна", Status: domain.StatusApproved, Locale: domain.LocaleRU,
	}}
	r, fc, _ := newTestRouter(profiles)

	r.handleStart(context.Background(), 7, 7, "partner_8")
	assert.Contains(t, fc.texts, partnershipSentText(domain.LocaleRU))
	require.Len(t, fc.inlineTexts, 1, "target gets the inline accept/decline prompt")
}
