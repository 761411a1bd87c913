// Package reconcile watches the record store for moderation outcomes. The
// loop polls on an interval, diffs parsed statuses against an injected cache,
// and hands terminal transitions to the notification queue; the durable
// notified flag is only written after the message actually went out, so a
// crash between send attempts re-delivers rather than silently losing the
// outcome.
package reconcile

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pazlcollab/internal/audit"
	"pazlcollab/internal/domain"
	"pazlcollab/internal/notify"
	"pazlcollab/internal/platform/metrics"
	"pazlcollab/internal/recordstore"
)

// RecordAPI is the slice of the record store the loop needs.
type RecordAPI interface {
	List(ctx context.Context, opts recordstore.ListOptions) ([]recordstore.Record, error)
	Update(ctx context.Context, id string, fields recordstore.Fields) (recordstore.Record, error)
}

// SessionResetter evicts a user's in-flight questionnaire.
type SessionResetter interface {
	Reset(userID int64) bool
}

// SubmitReopener re-opens the submission guard for a user.
type SubmitReopener interface {
	Forget(userID int64)
}

// Loop is the reconciliation worker.
type Loop struct {
	store    RecordAPI
	cache    Cache
	queue    *notify.Queue
	audit    *audit.Service
	sessions SessionResetter
	submits  SubmitReopener
	log      *zap.Logger
	metrics  *metrics.Metrics

	interval   time.Duration
	cacheReset time.Duration
}

// New wires the loop. audit may be nil in tests; metrics may be nil as
// everywhere else.
func New(store RecordAPI, cache Cache, queue *notify.Queue, auditSvc *audit.Service,
	sessions SessionResetter, submits SubmitReopener,
	interval, cacheReset time.Duration, log *zap.Logger, m *metrics.Metrics) *Loop {
	return &Loop{
		store:      store,
		cache:      cache,
		queue:      queue,
		audit:      auditSvc,
		sessions:   sessions,
		submits:    submits,
		log:        log,
		metrics:    m,
		interval:   interval,
		cacheReset: cacheReset,
	}
}

// Run cycles until ctx is cancelled. A failed cycle is logged and the loop
// waits for the next tick; it never exits on store errors.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	lastReset := time.Now()
	l.Cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// Periodic full reset flushes entries for records edited in ways
			// diffing cannot see, at the cost of one re-read cycle.
			if l.cacheReset > 0 && time.Since(lastReset) >= l.cacheReset {
				l.cache.Reset()
				lastReset = time.Now()
			}
			l.Cycle(ctx)
		}
	}
}

// Cycle runs one reconciliation pass.
func (l *Loop) Cycle(ctx context.Context) {
	if l.metrics != nil {
		l.metrics.ReconcileCycles.Inc()
	}
	recs, err := l.store.List(ctx, recordstore.ListOptions{
		Fields: []string{
			recordstore.FieldTelegramID,
			recordstore.FieldStatus,
			recordstore.FieldLanguage,
			recordstore.FieldNotified,
		},
	})
	if err != nil {
		if l.metrics != nil {
			l.metrics.ReconcileCycleErrors.Inc()
		}
		l.log.Error("reconcile list failed", zap.Error(err))
		return
	}

	seen := make(map[int64]struct{}, len(recs))
	for _, rec := range recs {
		p := recordstore.ProfileFromRecord(rec)
		if p.UserID == 0 {
			continue
		}
		seen[p.UserID] = struct{}{}
		l.observe(p)
	}
	l.evictRemoved(recs, seen)
}

func (l *Loop) observe(p domain.Profile) {
	entry := Entry{Status: p.Status, Locale: p.Locale, RecordID: p.RecordID}

	prev, known := l.cache.Get(p.UserID)
	if known && prev.Status == p.Status {
		return
	}

	// A terminal status that was already flagged notified needs no message,
	// whether we just restarted or the cache was reset.
	if !p.Status.Terminal() || p.Notified {
		l.cache.Put(p.UserID, entry)
		return
	}

	if l.metrics != nil {
		l.metrics.ReconcileTransitions.Inc()
	}
	l.log.Info("moderation outcome observed",
		zap.Int64("user_id", p.UserID),
		zap.String("status", p.Status.String()),
		zap.String("raw_status", p.RawStatus))
	if l.audit != nil {
		e := audit.NewEvent(audit.KindStatusChange, p.UserID)
		e.RecordID = p.RecordID
		e.Locale = p.Locale
		e.Detail = p.Status.String()
		l.audit.Emit(e)
	}

	text := notify.ApprovedText(p.Locale)
	keyboard := notify.KeyboardPostApproval
	if p.Status == domain.StatusDeclined {
		text = notify.DeclinedText(p.Locale)
		keyboard = notify.KeyboardMain
	}

	userID, recordID, status := p.UserID, p.RecordID, p.Status
	l.queue.Enqueue(notify.Message{
		ChatID:   userID,
		Locale:   p.Locale,
		Text:     text,
		Keyboard: keyboard,
		// The durable flag and the cache entry move only after the message
		// went out. A failed write here means one possible re-delivery next
		// cycle, never a lost outcome.
		OnDelivered: func(hookCtx context.Context) error {
			if _, err := l.store.Update(hookCtx, recordID, recordstore.Fields{
				recordstore.FieldNotified: true,
			}); err != nil {
				return err
			}
			l.cache.Put(userID, entry)
			if l.audit != nil {
				e := audit.NewEvent(audit.KindNotification, userID)
				e.RecordID = recordID
				e.Locale = entry.Locale
				e.Detail = status.String()
				l.audit.Emit(e)
			}
			return nil
		},
	})
}

// evictRemoved notifies and resets users whose records disappeared from the
// store. An entirely empty listing is treated as a store glitch, not a mass
// removal.
func (l *Loop) evictRemoved(recs []recordstore.Record, seen map[int64]struct{}) {
	snapshot := l.cache.Snapshot()
	if len(recs) == 0 && len(snapshot) > 0 {
		l.log.Warn("store listing came back empty, skipping removal detection",
			zap.Int("cached", len(snapshot)))
		return
	}
	for userID, entry := range snapshot {
		if _, ok := seen[userID]; ok {
			continue
		}
		l.log.Info("profile removed from store", zap.Int64("user_id", userID))
		l.cache.Delete(userID)
		if l.sessions != nil {
			l.sessions.Reset(userID)
		}
		if l.submits != nil {
			l.submits.Forget(userID)
		}
		l.queue.Enqueue(notify.Message{
			ChatID:   userID,
			Locale:   entry.Locale,
			Text:     notify.RemovedText(entry.Locale),
			Keyboard: notify.KeyboardMain,
		})
		if l.audit != nil {
			e := audit.NewEvent(audit.KindProfileRemoved, userID)
			e.RecordID = entry.RecordID
			e.Locale = entry.Locale
			l.audit.Emit(e)
		}
	}
}
