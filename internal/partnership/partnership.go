// Package partnership handles expert-to-expert collaboration requests:
// one pending request per initiator/target pair, resolved by the target,
// with the initiator told the outcome.
package partnership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pazlcollab/internal/domain"
	"pazlcollab/internal/notify"
	"pazlcollab/pkg/sentinel"
)

// Request statuses.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusDeclined  = "declined"
	StatusCancelled = "cancelled"
)

// Request is one collaboration request between two experts.
type Request struct {
	ID         string    `json:"id"`
	FromUserID int64     `json:"from_user_id"`
	ToUserID   int64     `json:"to_user_id"`
	FromName   string    `json:"from_name"`
	Locale     string    `json:"locale"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	ResolvedAt time.Time `json:"resolved_at,omitempty"`
}

// Store persists requests. Implementations return sentinel.ErrNotFound for
// unknown ids and sentinel.ErrConflict from Insert when the pair already has
// a pending request.
type Store interface {
	Insert(ctx context.Context, r Request) error
	Get(ctx context.Context, id string) (Request, error)
	Update(ctx context.Context, r Request) error
	ListByUser(ctx context.Context, userID int64) ([]Request, error)
}

// Service is the partnership workflow.
type Service struct {
	store Store
	queue *notify.Queue
	log   *zap.Logger
}

func NewService(store Store, queue *notify.Queue, log *zap.Logger) *Service {
	return &Service{store: store, queue: queue, log: log}
}

// Create opens a request from an approved expert to another. The target is
// told separately by the caller, which owns the inline keyboard.
func (s *Service) Create(ctx context.Context, from domain.Profile, toUserID int64) (Request, error) {
	if toUserID == from.UserID {
		return Request{}, sentinel.ErrInvalidInput
	}
	r := Request{
		ID:         uuid.NewString(),
		FromUserID: from.UserID,
		ToUserID:   toUserID,
		FromName:   from.Name,
		Locale:     from.Locale,
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, r); err != nil {
		return Request{}, fmt.Errorf("insert partnership request: %w", err)
	}
	s.log.Info("partnership requested",
		zap.Int64("from", from.UserID), zap.Int64("to", toUserID))
	return r, nil
}

// Resolve records the target's answer and notifies the initiator. Only the
// target may resolve; an already resolved request returns
// sentinel.ErrConflict.
func (s *Service) Resolve(ctx context.Context, id string, byUserID int64, accepted bool) (Request, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if r.ToUserID != byUserID {
		return Request{}, sentinel.ErrInvalidInput
	}
	if r.Status != StatusPending {
		return Request{}, sentinel.ErrConflict
	}
	r.Status = StatusDeclined
	if accepted {
		r.Status = StatusAccepted
	}
	r.ResolvedAt = time.Now().UTC()
	if err := s.store.Update(ctx, r); err != nil {
		return Request{}, fmt.Errorf("update partnership request: %w", err)
	}

	s.queue.Enqueue(notify.Message{
		ChatID: r.FromUserID,
		Locale: r.Locale,
		Text:   outcomeText(r.Locale, accepted),
	})
	return r, nil
}

// Cancel withdraws a pending request on the initiator's behalf.
func (s *Service) Cancel(ctx context.Context, id string, byUserID int64) error {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if r.FromUserID != byUserID {
		return sentinel.ErrInvalidInput
	}
	if r.Status != StatusPending {
		return sentinel.ErrConflict
	}
	r.Status = StatusCancelled
	r.ResolvedAt = time.Now().UTC()
	return s.store.Update(ctx, r)
}

// RequestText is the message shown to the target expert.
func RequestText(fromName, locale string) string {
	if locale == domain.LocaleEN {
		return fmt.Sprintf("🤝 %s proposes a partnership. Accept?", fromName)
	}
	return fmt.Sprintf("🤝 %s предлагает партнёрство. Принять?", fromName)
}

func outcomeText(locale string, accepted bool) string {
	if accepted {
		if locale == domain.LocaleEN {
			return "🤝 Your partnership request was accepted!"
		}
		return "🤝 Ваш запрос на партнёрство принят!"
	}
	if locale == domain.LocaleEN {
		return "Your partnership request was declined."
	}
	return "Ваш запрос на партнёрство отклонён."
}

// IsDuplicatePending reports whether err marks a second pending request for
// the same pair.
func IsDuplicatePending(err error) bool {
	return errors.Is(err, sentinel.ErrConflict)
}
