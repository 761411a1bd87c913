// Package submit turns a completed draft into a stored profile record,
// exactly once per user: an in-process guard stops races, a store-side lookup
// stops resubmission across restarts, and the guard is only marked durable
// after the store confirmed the write.
package submit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"pazlcollab/internal/audit"
	"pazlcollab/internal/domain"
	"pazlcollab/internal/fieldmap"
	"pazlcollab/internal/notify"
	"pazlcollab/internal/platform/metrics"
	"pazlcollab/internal/recordstore"
	"pazlcollab/pkg/sentinel"
)

// RecordAPI is the slice of the record store the pipeline needs.
type RecordAPI interface {
	List(ctx context.Context, opts recordstore.ListOptions) ([]recordstore.Record, error)
	Create(ctx context.Context, fields recordstore.Fields) (recordstore.Record, error)
}

// Pipeline is the submission path.
type Pipeline struct {
	store   RecordAPI
	guard   *Guard
	queue   *notify.Queue
	audit   *audit.Service
	log     *zap.Logger
	metrics *metrics.Metrics

	adminChatID  int64
	defaultPhoto string
}

// New wires the pipeline. queue and auditSvc may be nil in tests; metrics may
// be nil as everywhere else.
func New(store RecordAPI, guard *Guard, queue *notify.Queue, auditSvc *audit.Service,
	adminChatID int64, defaultPhoto string, log *zap.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		store:        store,
		guard:        guard,
		queue:        queue,
		audit:        auditSvc,
		log:          log,
		metrics:      m,
		adminChatID:  adminChatID,
		defaultPhoto: defaultPhoto,
	}
}

// FindByUser looks up the user's stored profile; sentinel.ErrNotFound when
// none exists.
func (p *Pipeline) FindByUser(ctx context.Context, userID int64) (domain.Profile, error) {
	formula := fmt.Sprintf("{%s}='%d'", recordstore.FieldTelegramID, userID)
	recs, err := p.store.List(ctx, recordstore.ListOptions{Formula: formula, MaxRecords: 1})
	if err != nil {
		return domain.Profile{}, err
	}
	if len(recs) == 0 {
		return domain.Profile{}, sentinel.ErrNotFound
	}
	return recordstore.ProfileFromRecord(recs[0]), nil
}

// Submit writes the draft as a new record. On any failure the guard and the
// draft are left untouched, so the user can retry; only a confirmed duplicate
// returns sentinel.ErrAlreadySubmitted.
func (p *Pipeline) Submit(ctx context.Context, d *domain.Draft) error {
	if !p.guard.Begin(d.UserID) {
		return sentinel.ErrAlreadySubmitted
	}

	// Durable check: the in-process guard does not survive restarts.
	_, err := p.FindByUser(ctx, d.UserID)
	switch {
	case err == nil:
		p.guard.Commit(d.UserID)
		if p.metrics != nil {
			p.metrics.SubmissionsDuplicate.Inc()
		}
		return sentinel.ErrAlreadySubmitted
	case !errors.Is(err, sentinel.ErrNotFound):
		p.guard.Abort(d.UserID)
		return fmt.Errorf("duplicate check: %w", err)
	}

	rec, err := p.store.Create(ctx, p.payload(d))
	if err != nil {
		p.guard.Abort(d.UserID)
		if p.metrics != nil {
			p.metrics.SubmissionsFailed.Inc()
		}
		return fmt.Errorf("create profile record: %w", err)
	}
	p.guard.Commit(d.UserID)
	if p.metrics != nil {
		p.metrics.SubmissionsCreated.Inc()
	}
	p.log.Info("profile submitted",
		zap.Int64("user_id", d.UserID), zap.String("record_id", rec.ID))

	if p.audit != nil {
		e := audit.NewEvent(audit.KindSubmission, d.UserID)
		e.RecordID = rec.ID
		e.Locale = d.Locale
		p.audit.Emit(e)
	}
	if p.queue != nil && p.adminChatID != 0 {
		p.queue.Enqueue(notify.Message{
			ChatID: p.adminChatID,
			Text:   notify.ModeratorText(d.Name, d.UserID),
		})
	}
	return nil
}

// Forget re-opens submission for a user whose stored record disappeared.
func (p *Pipeline) Forget(userID int64) {
	p.guard.Forget(userID)
}

// payload maps the draft onto store fields. All choice values go out as
// localized labels; only the requests set is filtered, because it is the one
// constrained multi-select users can carry stale codes into.
func (p *Pipeline) payload(d *domain.Draft) recordstore.Fields {
	photo := d.PhotoURL
	if photo == "" {
		photo = p.defaultPhoto
	}
	requests := fieldmap.Filter(fieldmap.FieldRequests,
		fieldmap.Labels(fieldmap.FieldRequests, d.Locale, d.Requests))

	fields := recordstore.Fields{
		recordstore.FieldName:         d.Name,
		recordstore.FieldPhone:        d.Phone,
		recordstore.FieldTelegram:     d.Telegram,
		recordstore.FieldCity:         d.City,
		recordstore.FieldSocial:       d.Social,
		recordstore.FieldLanguage:     d.Locale,
		recordstore.FieldEducation:    fieldmap.Label(fieldmap.FieldEducation, d.Locale, d.Education),
		recordstore.FieldExperience:   fieldmap.Label(fieldmap.FieldExperience, d.Locale, d.Experience),
		recordstore.FieldClients:      fieldmap.Label(fieldmap.FieldClients, d.Locale, d.ClientsCount),
		recordstore.FieldAverageCheck: fieldmap.Label(fieldmap.FieldAverageCheck, d.Locale, d.AverageCheck),
		recordstore.FieldDirection:    fieldmap.Labels(fieldmap.FieldDirection, d.Locale, d.Directions),
		recordstore.FieldMethods:      fieldmap.Labels(fieldmap.FieldMethods, d.Locale, d.Methods),
		recordstore.FieldFormat:       fieldmap.Labels(fieldmap.FieldFormat, d.Locale, d.WorkFormats),
		recordstore.FieldRequests:     requests,
		recordstore.FieldAudience:     d.Audience,
		recordstore.FieldPositioning:  d.Positioning,
		recordstore.FieldTelegramID:   strconv.FormatInt(d.UserID, 10),
		recordstore.FieldPhoto:        recordstore.Attachment(photo),
		recordstore.FieldStatus:       domain.StatusPending.Label(d.Locale),
		recordstore.FieldNotified:     false,
		recordstore.FieldSubmitDate:   time.Now().UTC().Format("2006-01-02"),
	}
	// The store rejects empty values for constrained fields; unanswered
	// fields are omitted, not written blank.
	for key, v := range fields {
		switch val := v.(type) {
		case string:
			if val == "" {
				delete(fields, key)
			}
		case []string:
			if len(val) == 0 {
				delete(fields, key)
			}
		}
	}
	return fields
}
