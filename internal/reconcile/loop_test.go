package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pazlcollab/internal/audit"
	"pazlcollab/internal/notify"
	"pazlcollab/internal/recordstore"
	"pazlcollab/pkg/sentinel"
)

type fakeStore struct {
	mu      sync.Mutex
	records []recordstore.Record
	listErr error
	updates map[string]recordstore.Fields
}

func (f *fakeStore) List(context.Context, recordstore.ListOptions) ([]recordstore.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]recordstore.Record(nil), f.records...), nil
}

func (f *fakeStore) Update(_ context.Context, id string, fields recordstore.Fields) (recordstore.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = make(map[string]recordstore.Fields)
	}
	f.updates[id] = fields
	return recordstore.Record{ID: id, Fields: fields}, nil
}

func (f *fakeStore) setRecords(recs []recordstore.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = recs
}

func (f *fakeStore) updated(id string) (recordstore.Fields, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fields, ok := f.updates[id]
	return fields, ok
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *recordingSender) sent() []notify.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Message(nil), s.msgs...)
}

func (s *recordingSender) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

type recordingResetter struct {
	mu  sync.Mutex
	ids []int64
}

func (r *recordingResetter) Reset(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, userID)
	return true
}

func (r *recordingResetter) Forget(userID int64) { r.Reset(userID) }

func expertRecord(id string, userID, status string, notified bool) recordstore.Record {
	fields := recordstore.Fields{
		recordstore.FieldTelegramID: userID,
		recordstore.FieldStatus:     status,
		recordstore.FieldLanguage:   "ru",
	}
	if notified {
		fields[recordstore.FieldNotified] = true
	}
	return recordstore.Record{ID: id, Fields: fields}
}

type fixture struct {
	store    *fakeStore
	sender   *recordingSender
	cache    *MemoryCache
	loop     *Loop
	resetter *recordingResetter
	cancel   context.CancelFunc
	done     chan struct{}
}

func newFixture(t *testing.T, store *fakeStore) *fixture {
	t.Helper()
	sender := &recordingSender{}
	queue := notify.NewQueue(16, sender, zap.NewNop(), nil)
	cache := NewMemoryCache()
	resetter := &recordingResetter{}
	loop := New(store, cache, queue, nil, resetter, resetter,
		time.Minute, time.Hour, zap.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		queue.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return &fixture{store: store, sender: sender, cache: cache, loop: loop,
		resetter: resetter, cancel: cancel, done: done}
}

func TestTerminalTransitionNotifiesOnceAndFlagsRecord(t *testing.T) {
	store := &fakeStore{records: []recordstore.Record{
		expertRecord("rec1", "7", "🟢 Одобрено", false),
	}}
	fx := newFixture(t, store)
	ctx := context.Background()

	fx.loop.Cycle(ctx)

	require.Eventually(t, func() bool { return len(fx.sender.sent()) == 1 }, time.Second, 10*time.Millisecond)
	msg := fx.sender.sent()[0]
	assert.Equal(t, int64(7), msg.ChatID)
	assert.Equal(t, notify.ApprovedText("ru"), msg.Text)
	assert.Equal(t, notify.KeyboardPostApproval, msg.Keyboard)

	require.Eventually(t, func() bool {
		fields, ok := fx.store.updated("rec1")
		return ok && fields[recordstore.FieldNotified] == true
	}, time.Second, 10*time.Millisecond)

	// Subsequent cycles over the unchanged record stay silent.
	fx.loop.Cycle(ctx)
	fx.loop.Cycle(ctx)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, fx.sender.sent(), 1)
}

func TestTerminalTransitionAuditsChangeAndDelivery(t *testing.T) {
	store := &fakeStore{records: []recordstore.Record{
		expertRecord("rec1", "7", "🟢 Одобрено", false),
	}}
	sender := &recordingSender{}
	queue := notify.NewQueue(16, sender, zap.NewNop(), nil)
	auditStore := audit.NewMemoryStore()
	auditSvc := audit.NewService(auditStore, nil, zap.NewNop())
	resetter := &recordingResetter{}
	loop := New(store, NewMemoryCache(), queue, auditSvc, resetter, resetter,
		time.Minute, time.Hour, zap.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	queueDone := make(chan struct{})
	auditDone := make(chan struct{})
	go func() {
		defer close(queueDone)
		queue.Run(ctx)
	}()
	go func() {
		defer close(auditDone)
		auditSvc.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-queueDone
		<-auditDone
	})

	loop.Cycle(ctx)

	// The trail carries the observed transition and the delivered message.
	var events []audit.Event
	require.Eventually(t, func() bool {
		var err error
		events, err = auditStore.ListByUser(context.Background(), 7, 0)
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	kinds := map[string]bool{}
	for _, e := range events {
		kinds[e.Kind] = true
		assert.Equal(t, "rec1", e.RecordID)
		assert.Equal(t, "Approved", e.Detail)
	}
	assert.True(t, kinds[audit.KindStatusChange])
	assert.True(t, kinds[audit.KindNotification])
}

func TestNotifiedFlagSuppressesRedeliveryAfterRestart(t *testing.T) {
	// Fresh cache, terminal status, flag already set: the restart case.
	store := &fakeStore{records: []recordstore.Record{
		expertRecord("rec1", "7", "Одобрено", true),
	}}
	fx := newFixture(t, store)

	fx.loop.Cycle(context.Background())
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, fx.sender.sent())
}

func TestDecorationChangeIsNotATransition(t *testing.T) {
	store := &fakeStore{records: []recordstore.Record{
		expertRecord("rec1", "7", "🟢 Approved", true),
	}}
	fx := newFixture(t, store)
	ctx := context.Background()

	fx.loop.Cycle(ctx)
	// A moderator re-typing the same status without the marker.
	store.setRecords([]recordstore.Record{
		expertRecord("rec1", "7", "Approved", true),
	})
	fx.loop.Cycle(ctx)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, fx.sender.sent())
}

func TestDeclinedAfterPendingNotifies(t *testing.T) {
	store := &fakeStore{records: []recordstore.Record{
		expertRecord("rec1", "7", "На проверке", false),
	}}
	fx := newFixture(t, store)
	ctx := context.Background()

	fx.loop.Cycle(ctx)
	store.setRecords([]recordstore.Record{
		expertRecord("rec1", "7", "🔴 Отклонено", false),
	})
	fx.loop.Cycle(ctx)

	require.Eventually(t, func() bool { return len(fx.sender.sent()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, notify.DeclinedText("ru"), fx.sender.sent()[0].Text)
}

func TestFailedSendRetriesNextCycleWithoutFlagging(t *testing.T) {
	store := &fakeStore{records: []recordstore.Record{
		expertRecord("rec1", "7", "Одобрено", false),
	}}
	fx := newFixture(t, store)
	ctx := context.Background()

	fx.sender.fail(sentinel.ErrUnavailable)
	fx.loop.Cycle(ctx)
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, fx.sender.sent())
	_, flagged := fx.store.updated("rec1")
	assert.False(t, flagged, "notified flag must not move before a successful send")

	fx.sender.fail(nil)
	fx.loop.Cycle(ctx)
	require.Eventually(t, func() bool { return len(fx.sender.sent()) == 1 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		_, ok := fx.store.updated("rec1")
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestRemovedProfileEvictsAndNotifies(t *testing.T) {
	store := &fakeStore{records: []recordstore.Record{
		expertRecord("rec1", "7", "На проверке", false),
		expertRecord("rec2", "8", "На проверке", false),
	}}
	fx := newFixture(t, store)
	ctx := context.Background()

	fx.loop.Cycle(ctx)
	store.setRecords([]recordstore.Record{
		expertRecord("rec2", "8", "На проверке", false),
	})
	fx.loop.Cycle(ctx)

	require.Eventually(t, func() bool { return len(fx.sender.sent()) == 1 }, time.Second, 10*time.Millisecond)
	msg := fx.sender.sent()[0]
	assert.Equal(t, int64(7), msg.ChatID)
	assert.Equal(t, notify.RemovedText("ru"), msg.Text)

	_, cached := fx.cache.Get(7)
	assert.False(t, cached)
	// Session evicted and submission re-opened, twice recorded via the shared
	// recorder.
	assert.Equal(t, []int64{7, 7}, fx.resetter.ids)
}

func TestEmptyListingSkipsRemovalDetection(t *testing.T) {
	store := &fakeStore{records: []recordstore.Record{
		expertRecord("rec1", "7", "На проверке", false),
	}}
	fx := newFixture(t, store)
	ctx := context.Background()

	fx.loop.Cycle(ctx)
	store.setRecords(nil)
	fx.loop.Cycle(ctx)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, fx.sender.sent())
	_, cached := fx.cache.Get(7)
	assert.True(t, cached)
}

func TestListErrorLeavesStateUntouched(t *testing.T) {
	store := &fakeStore{records: []recordstore.Record{
		expertRecord("rec1", "7", "На проверке", false),
	}}
	fx := newFixture(t, store)
	ctx := context.Background()

	fx.loop.Cycle(ctx)
	store.mu.Lock()
	store.listErr = sentinel.ErrUnavailable
	store.mu.Unlock()
	fx.loop.Cycle(ctx)

	_, cached := fx.cache.Get(7)
	assert.True(t, cached)
	assert.Empty(t, fx.sender.sent())
}
