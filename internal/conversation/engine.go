// Package conversation drives the questionnaire dialogue. Each active user
// owns a session holding their draft and a state machine whose transition
// table is declared once in the step graph; the engine interprets incoming
// text and selections against the current step and produces transport-free
// replies for the bot layer to render.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"pazlcollab/internal/domain"
	"pazlcollab/internal/fieldmap"
	"pazlcollab/pkg/sentinel"
)

// DoneCode is the multi-select confirmation signal carried in callback data.
const DoneCode = "done"

const maxAnswerLen = 500

// OptionView is one selectable option prepared for rendering.
type OptionView struct {
	Code     string
	Label    string
	Selected bool
}

// Reply tells the bot layer what to show. Exactly one rendering applies:
// an alert answers the callback in place, EditKeyboard re-renders the option
// keyboard, otherwise Text (with Options, if any) goes out as a message.
type Reply struct {
	Text     string
	Step     string
	Options  []OptionView
	ShowDone bool

	Alert        string
	EditKeyboard bool

	// Finished marks the end of the session: either a successful submission
	// or a duplicate that was turned away.
	Finished bool

	// Profile is set when Start finds the user already submitted; the session
	// is not created in that case.
	Profile *domain.Profile
}

// ProfileFinder checks whether a user already has a stored profile.
type ProfileFinder interface {
	FindByUser(ctx context.Context, userID int64) (domain.Profile, error)
}

// Finalizer turns a completed draft into a stored record. It must return
// sentinel.ErrAlreadySubmitted when the user raced a second submission in.
type Finalizer interface {
	Submit(ctx context.Context, d *domain.Draft) error
}

// Engine owns the session table and interprets input against the step graph.
type Engine struct {
	sessions *Sessions
	profiles ProfileFinder
	finalize Finalizer
	log      *zap.Logger
}

func NewEngine(sessions *Sessions, profiles ProfileFinder, finalize Finalizer, log *zap.Logger) *Engine {
	return &Engine{sessions: sessions, profiles: profiles, finalize: finalize, log: log}
}

// Start opens a questionnaire for the user. If a stored profile already
// exists the user is turned away before any session state is created; a store
// error on the lookup is logged and treated as no profile, so the store being
// down never blocks intake.
func (e *Engine) Start(ctx context.Context, userID int64, locale string) (Reply, error) {
	profile, err := e.profiles.FindByUser(ctx, userID)
	switch {
	case err == nil:
		return Reply{Profile: &profile, Text: alreadySubmittedText(locale), Finished: true}, nil
	case !errors.Is(err, sentinel.ErrNotFound):
		e.log.Warn("profile lookup failed, starting form anyway",
			zap.Int64("user_id", userID), zap.Error(err))
	}

	sess := e.sessions.Create(userID, locale)
	return e.promptReply(sess), nil
}

// Active reports whether the user has an in-flight questionnaire.
func (e *Engine) Active(userID int64) bool {
	return e.sessions.Active(userID)
}

// Cancel discards the user's session with no side effects on the draft or the
// store, reporting whether a session existed.
func (e *Engine) Cancel(ctx context.Context, userID int64) bool {
	sess := e.sessions.Get(userID)
	if sess == nil {
		return false
	}
	if err := sess.flow.Event(ctx, EventCancel); err != nil {
		e.log.Warn("cancel transition rejected", zap.Int64("user_id", userID), zap.Error(err))
	}
	return e.sessions.Delete(userID)
}

// Reset evicts the user's session without ceremony. The reconciliation loop
// calls it when the user's stored profile disappears.
func (e *Engine) Reset(userID int64) bool {
	return e.sessions.Delete(userID)
}

// Input consumes a free-text message for the current step. Text arriving at a
// selection or photo step re-issues the current prompt.
func (e *Engine) Input(ctx context.Context, userID int64, text string) (Reply, error) {
	sess := e.sessions.Get(userID)
	if sess == nil {
		return Reply{}, sentinel.ErrNotFound
	}
	step := steps[sess.Current()]
	locale := sess.Draft.Locale

	switch step.Kind {
	case FreeText:
		v := cleanText(text)
		if v == "" {
			return Reply{Text: step.Reject(locale), Step: step.ID}, nil
		}
		step.setText(sess.Draft, v)
		return e.advance(ctx, sess)

	case FreeTextOther:
		v := cleanText(text)
		if v == "" {
			return Reply{Text: step.Reject(locale), Step: step.ID}, nil
		}
		// The free-text answer replaces the placeholder code in the owning
		// multi-select set.
		set := step.list(sess.Draft)
		if i := slices.Index(*set, fieldmap.OtherCode); i >= 0 {
			(*set)[i] = v
		} else {
			*set = append(*set, v)
		}
		return e.advance(ctx, sess)

	default:
		return e.promptReply(sess), nil
	}
}

// Toggle consumes a selection callback scoped to a step. Callbacks for a step
// the session is no longer on are stale and ignored.
func (e *Engine) Toggle(ctx context.Context, userID int64, stepID, code string) (Reply, error) {
	sess := e.sessions.Get(userID)
	if sess == nil {
		return Reply{}, sentinel.ErrNotFound
	}
	step := steps[sess.Current()]
	if step.ID != stepID {
		return Reply{}, nil
	}
	locale := sess.Draft.Locale

	switch step.Kind {
	case SingleSelect:
		step.setText(sess.Draft, code)
		return e.advance(ctx, sess)

	case MultiSelect:
		if code == DoneCode {
			return e.confirmSelection(ctx, sess, step)
		}
		set := step.list(sess.Draft)
		if i := slices.Index(*set, code); i >= 0 {
			*set = slices.Delete(*set, i, i+1)
		} else {
			if step.MaxSelections > 0 && len(*set) >= step.MaxSelections {
				return Reply{Alert: tooManyText(locale, step.MaxSelections)}, nil
			}
			*set = append(*set, code)
		}
		return Reply{
			Step:         step.ID,
			Options:      e.optionViews(step, sess.Draft),
			ShowDone:     true,
			EditKeyboard: true,
		}, nil

	default:
		return Reply{}, nil
	}
}

func (e *Engine) confirmSelection(ctx context.Context, sess *Session, step Step) (Reply, error) {
	locale := sess.Draft.Locale
	set := step.list(sess.Draft)

	if len(*set) == 0 {
		return Reply{Alert: pickOneText(locale)}, nil
	}
	if step.MaxSelections > 0 && len(*set) > step.MaxSelections {
		return Reply{Alert: tooManyText(locale, step.MaxSelections)}, nil
	}
	if step.OtherStep != "" && slices.Contains(*set, fieldmap.OtherCode) {
		if err := sess.flow.Event(ctx, EventOther); err != nil {
			return Reply{}, fmt.Errorf("other transition from %s: %w", step.ID, err)
		}
		return e.promptReply(sess), nil
	}
	return e.advance(ctx, sess)
}

// Finish completes the questionnaire from the photo step. An empty photoURL
// means the user skipped the photo; the submit pipeline falls back to the
// configured default. On a transient submit failure the session survives so
// the user can retry.
func (e *Engine) Finish(ctx context.Context, userID int64, photoURL string) (Reply, error) {
	sess := e.sessions.Get(userID)
	if sess == nil {
		return Reply{}, sentinel.ErrNotFound
	}
	if sess.Current() != StepPhoto {
		return e.promptReply(sess), nil
	}
	locale := sess.Draft.Locale
	sess.Draft.PhotoURL = photoURL

	if err := e.finalize.Submit(ctx, sess.Draft); err != nil {
		if errors.Is(err, sentinel.ErrAlreadySubmitted) {
			e.sessions.Delete(userID)
			return Reply{Text: alreadySubmittedText(locale), Finished: true}, nil
		}
		e.log.Error("submission failed", zap.Int64("user_id", userID), zap.Error(err))
		return Reply{Text: submitFailedText(locale)}, nil
	}

	if err := sess.flow.Event(ctx, EventAdvance); err != nil {
		e.log.Warn("final transition rejected", zap.Int64("user_id", userID), zap.Error(err))
	}
	e.sessions.Delete(userID)
	return Reply{Text: submittedText(locale), Finished: true}, nil
}

func (e *Engine) advance(ctx context.Context, sess *Session) (Reply, error) {
	if err := sess.flow.Event(ctx, EventAdvance); err != nil {
		return Reply{}, fmt.Errorf("advance from %s: %w", sess.Current(), err)
	}
	return e.promptReply(sess), nil
}

func (e *Engine) promptReply(sess *Session) Reply {
	step := steps[sess.Current()]
	r := Reply{Text: step.Prompt(sess.Draft.Locale), Step: step.ID}
	if step.Kind == SingleSelect || step.Kind == MultiSelect {
		r.Options = e.optionViews(step, sess.Draft)
		r.ShowDone = step.Kind == MultiSelect
	}
	return r
}

func (e *Engine) optionViews(step Step, d *domain.Draft) []OptionView {
	opts := fieldmap.Options(step.Field, d.Locale)
	views := make([]OptionView, 0, len(opts))
	var selected []string
	if step.list != nil {
		selected = *step.list(d)
	}
	for _, opt := range opts {
		views = append(views, OptionView{
			Code:     opt.Code,
			Label:    opt.Label,
			Selected: slices.Contains(selected, opt.Code),
		})
	}
	return views
}

func cleanText(s string) string {
	s = strings.TrimSpace(s)
	// Cap in runes, not bytes: a byte slice could cut a multi-byte character
	// in half and store mangled text.
	if utf8.RuneCountInString(s) > maxAnswerLen {
		s = string([]rune(s)[:maxAnswerLen])
	}
	return s
}

func alreadySubmittedText(locale string) string {
	if locale == domain.LocaleEN {
		return "You have already submitted a form. Check your status from the menu."
	}
	return "Вы уже отправили анкету. Проверить статус можно в меню."
}

func submittedText(locale string) string {
	if locale == domain.LocaleEN {
		return "✅ Your form has been sent for moderation! We will notify you of the result."
	}
	return "✅ Анкета отправлена на модерацию! Мы сообщим вам о результате."
}

func submitFailedText(locale string) string {
	if locale == domain.LocaleEN {
		return "⚠️ Could not send the form, please try again later."
	}
	return "⚠️ Не удалось отправить анкету, попробуйте ещё раз позже."
}

func pickOneText(locale string) string {
	if locale == domain.LocaleEN {
		return "Select at least one option."
	}
	return "Выберите хотя бы один вариант."
}

func tooManyText(locale string, max int) string {
	if locale == domain.LocaleEN {
		return fmt.Sprintf("You can select up to %d options.", max)
	}
	return fmt.Sprintf("Можно выбрать не более %d вариантов.", max)
}
