package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pazlcollab/internal/domain"
	"pazlcollab/internal/fieldmap"
	"pazlcollab/pkg/sentinel"
)

type stubFinder struct {
	profile domain.Profile
	err     error
}

func (s *stubFinder) FindByUser(context.Context, int64) (domain.Profile, error) {
	return s.profile, s.err
}

type stubFinalizer struct {
	calls int
	err   error
	last  *domain.Draft
}

func (s *stubFinalizer) Submit(_ context.Context, d *domain.Draft) error {
	s.calls++
	s.last = d
	return s.err
}

func newTestEngine(finder *stubFinder, fin *stubFinalizer) *Engine {
	if finder == nil {
		finder = &stubFinder{err: sentinel.ErrNotFound}
	}
	if fin == nil {
		fin = &stubFinalizer{}
	}
	return NewEngine(NewSessions(), finder, fin, zap.NewNop())
}

// walkToStep drives a fresh session through valid answers until the flow
// sits on want.
func walkToStep(t *testing.T, e *Engine, userID int64, want string) {
	t.Helper()
	ctx := context.Background()

	_, err := e.Start(ctx, userID, domain.LocaleRU)
	require.NoError(t, err)

	answers := []struct {
		step string
		text string
		code string
	}{
		{step: StepName, text: "Анна Иванова"},
		{step: StepPhone, text: "+7 999 123-45-67"},
		{step: StepTelegram, text: "@anna"},
		{step: StepCity, text: "Москва"},
		{step: StepSocial, text: "instagram.com/anna"},
		{step: StepDirection, code: "coaching_life"},
		{step: StepMethods, code: "nlp"},
		{step: StepEducation, code: "psych_higher"},
		{step: StepExperience, code: "3_5"},
		{step: StepWorkFormat, code: "individual_online"},
		{step: StepClientsCount, code: "5_10"},
		{step: StepAverageCheck, code: "10_30k"},
		{step: StepRequests, code: "anxiety"},
		{step: StepAudience, text: "Женщины 25-40"},
		{step: StepPositioning, text: "Помогаю мягко и по делу"},
	}
	for _, a := range answers {
		sess := e.sessions.Get(userID)
		require.NotNil(t, sess)
		if sess.Current() == want {
			return
		}
		require.Equal(t, a.step, sess.Current())

		var err error
		if a.text != "" {
			_, err = e.Input(ctx, userID, a.text)
		} else {
			_, err = e.Toggle(ctx, userID, a.step, a.code)
			require.NoError(t, err)
			step := steps[a.step]
			if step.Kind == MultiSelect {
				_, err = e.Toggle(ctx, userID, a.step, DoneCode)
			}
		}
		require.NoError(t, err)
	}
	require.Equal(t, want, e.sessions.Get(userID).Current())
}

func TestStartTurnsAwayExistingProfile(t *testing.T) {
	finder := &stubFinder{profile: domain.Profile{RecordID: "rec1", UserID: 7}}
	e := newTestEngine(finder, nil)

	reply, err := e.Start(context.Background(), 7, domain.LocaleRU)
	require.NoError(t, err)
	assert.True(t, reply.Finished)
	require.NotNil(t, reply.Profile)
	assert.Equal(t, "rec1", reply.Profile.RecordID)
	assert.False(t, e.Active(7))
}

func TestStartSurvivesLookupError(t *testing.T) {
	finder := &stubFinder{err: errors.New("store down")}
	e := newTestEngine(finder, nil)

	reply, err := e.Start(context.Background(), 7, domain.LocaleRU)
	require.NoError(t, err)
	assert.Equal(t, StepName, reply.Step)
	assert.True(t, e.Active(7))
}

func TestEmptyTextReprompts(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()
	_, err := e.Start(ctx, 7, domain.LocaleRU)
	require.NoError(t, err)

	reply, err := e.Input(ctx, 7, "   ")
	require.NoError(t, err)
	assert.Equal(t, StepName, reply.Step)
	assert.Equal(t, StepName, e.sessions.Get(7).Current())

	reply, err = e.Input(ctx, 7, "Анна")
	require.NoError(t, err)
	assert.Equal(t, StepPhone, reply.Step)
}

func TestLongAnswerTruncatesOnRuneBoundary(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()
	_, err := e.Start(ctx, 7, domain.LocaleRU)
	require.NoError(t, err)

	// 499 ASCII bytes put the cap mid-way through the first Cyrillic rune.
	_, err = e.Input(ctx, 7, strings.Repeat("a", 499)+"яяя")
	require.NoError(t, err)

	name := e.sessions.Get(7).Draft.Name
	assert.True(t, utf8.ValidString(name))
	assert.Equal(t, maxAnswerLen, utf8.RuneCountInString(name))
	assert.True(t, strings.HasSuffix(name, "я"))
}

func TestMultiSelectToggleAndBound(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()
	walkToStep(t, e, 7, StepRequests)

	// Toggle on, toggle off.
	reply, err := e.Toggle(ctx, 7, StepRequests, "anxiety")
	require.NoError(t, err)
	assert.True(t, reply.EditKeyboard)
	assert.Equal(t, []string{"anxiety"}, e.sessions.Get(7).Draft.Requests)

	_, err = e.Toggle(ctx, 7, StepRequests, "anxiety")
	require.NoError(t, err)
	assert.Empty(t, e.sessions.Get(7).Draft.Requests)

	// Fill to the cap; the next toggle is rejected with an alert.
	codes := []string{"anxiety", "depression", "self_esteem", "partner_relations",
		"breakup", "burnout", "career"}
	for _, c := range codes {
		_, err = e.Toggle(ctx, 7, StepRequests, c)
		require.NoError(t, err)
	}
	reply, err = e.Toggle(ctx, 7, StepRequests, "trauma")
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Alert)
	assert.Len(t, e.sessions.Get(7).Draft.Requests, 7)
	assert.Equal(t, StepRequests, e.sessions.Get(7).Current())
}

func TestDoneRejectsEmptySelection(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()
	walkToStep(t, e, 7, StepDirection)

	reply, err := e.Toggle(ctx, 7, StepDirection, DoneCode)
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Alert)
	assert.Equal(t, StepDirection, e.sessions.Get(7).Current())
}

func TestOtherDirectionDetour(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()
	walkToStep(t, e, 7, StepDirection)

	_, err := e.Toggle(ctx, 7, StepDirection, "astrology")
	require.NoError(t, err)
	_, err = e.Toggle(ctx, 7, StepDirection, fieldmap.OtherCode)
	require.NoError(t, err)

	reply, err := e.Toggle(ctx, 7, StepDirection, DoneCode)
	require.NoError(t, err)
	assert.Equal(t, StepDirectionOther, reply.Step)
	assert.Equal(t, StepDirectionOther, e.sessions.Get(7).Current())

	// The free-text answer replaces the placeholder, not appends.
	reply, err = e.Input(ctx, 7, "Соматика")
	require.NoError(t, err)
	assert.Equal(t, StepMethods, reply.Step)
	assert.Equal(t, []string{"astrology", "Соматика"}, e.sessions.Get(7).Draft.Directions)
}

func TestStaleCallbackIgnored(t *testing.T) {
	e := newTestEngine(nil, nil)
	ctx := context.Background()
	walkToStep(t, e, 7, StepMethods)

	reply, err := e.Toggle(ctx, 7, StepDirection, "coaching_life")
	require.NoError(t, err)
	assert.Equal(t, Reply{}, reply)
	assert.Equal(t, StepMethods, e.sessions.Get(7).Current())
}

func TestFinishSubmitsOnceAndEndsSession(t *testing.T) {
	fin := &stubFinalizer{}
	e := newTestEngine(nil, fin)
	ctx := context.Background()
	walkToStep(t, e, 7, StepPhoto)

	reply, err := e.Finish(ctx, 7, "https://files.example/photo.jpg")
	require.NoError(t, err)
	assert.True(t, reply.Finished)
	assert.Equal(t, 1, fin.calls)
	assert.Equal(t, "https://files.example/photo.jpg", fin.last.PhotoURL)
	assert.False(t, e.Active(7))
}

func TestFinishKeepsSessionOnTransientFailure(t *testing.T) {
	fin := &stubFinalizer{err: sentinel.ErrUnavailable}
	e := newTestEngine(nil, fin)
	ctx := context.Background()
	walkToStep(t, e, 7, StepPhoto)

	reply, err := e.Finish(ctx, 7, "")
	require.NoError(t, err)
	assert.False(t, reply.Finished)
	assert.True(t, e.Active(7), "session must survive so the user can retry")

	fin.err = nil
	reply, err = e.Finish(ctx, 7, "")
	require.NoError(t, err)
	assert.True(t, reply.Finished)
	assert.Equal(t, 2, fin.calls)
}

func TestFinishDropsSessionOnDuplicate(t *testing.T) {
	fin := &stubFinalizer{err: sentinel.ErrAlreadySubmitted}
	e := newTestEngine(nil, fin)
	ctx := context.Background()
	walkToStep(t, e, 7, StepPhoto)

	reply, err := e.Finish(ctx, 7, "")
	require.NoError(t, err)
	assert.True(t, reply.Finished)
	assert.False(t, e.Active(7))
}

func TestCancelDiscardsWithoutSideEffects(t *testing.T) {
	fin := &stubFinalizer{}
	e := newTestEngine(nil, fin)
	ctx := context.Background()
	walkToStep(t, e, 7, StepAudience)

	assert.True(t, e.Cancel(ctx, 7))
	assert.False(t, e.Active(7))
	assert.Zero(t, fin.calls)
	assert.False(t, e.Cancel(ctx, 7))
}
