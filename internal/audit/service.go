package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	inboxSize    = 128
	persistLimit = 5 * time.Second
)

// Service accepts events and persists them off the caller's goroutine.
type Service struct {
	inbox chan Event
	store Store
	pub   *KafkaPublisher
	log   *zap.Logger
}

// NewService wires the worker. pub may be nil when no broker is configured.
func NewService(store Store, pub *KafkaPublisher, log *zap.Logger) *Service {
	return &Service{
		inbox: make(chan Event, inboxSize),
		store: store,
		pub:   pub,
		log:   log,
	}
}

// Emit hands an event to the worker without blocking; a full inbox drops the
// event with a log line.
func (s *Service) Emit(e Event) {
	select {
	case s.inbox <- e:
	default:
		s.log.Warn("audit inbox full, dropping event",
			zap.String("kind", e.Kind), zap.Int64("user_id", e.UserID))
	}
}

// Run persists events until ctx is cancelled, then drains the inbox.
func (s *Service) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.drain()
			return ctx.Err()
		case e := <-s.inbox:
			s.persist(ctx, e)
		}
	}
}

func (s *Service) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), persistLimit)
	defer cancel()
	for {
		select {
		case e := <-s.inbox:
			s.persist(ctx, e)
		default:
			return
		}
	}
}

func (s *Service) persist(ctx context.Context, e Event) {
	opCtx, cancel := context.WithTimeout(ctx, persistLimit)
	defer cancel()

	if err := s.store.Insert(opCtx, e); err != nil {
		s.log.Error("audit insert failed",
			zap.String("event_id", e.ID), zap.String("kind", e.Kind), zap.Error(err))
	}
	if s.pub != nil {
		s.pub.Publish(opCtx, e)
	}
}
