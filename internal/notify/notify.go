// Package notify owns user-facing status notifications: a bounded queue
// consumed by a single worker, so message-delivery latency never blocks the
// submission path or the reconciliation loop, and back-pressure is explicit.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pazlcollab/internal/platform/metrics"
)

// Keyboard selects which reply menu the sender attaches to a notification.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardMain
	KeyboardStatus
	KeyboardPostApproval
)

// Message is one queued notification.
type Message struct {
	ChatID   int64
	Locale   string
	Text     string
	Keyboard Keyboard

	// OnDelivered runs after a successful send. The reconciliation loop uses
	// it to set the durable notified flag, so a failed send stays eligible
	// for retry on the next cycle.
	OnDelivered func(ctx context.Context) error
}

// Sender delivers one message to the chat platform.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

const sendTimeout = 10 * time.Second

// Queue is the bounded notification queue plus its worker.
type Queue struct {
	inbox   chan Message
	sender  Sender
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewQueue sizes the queue; metrics may be nil in tests.
func NewQueue(size int, sender Sender, log *zap.Logger, m *metrics.Metrics) *Queue {
	return &Queue{
		inbox:   make(chan Message, size),
		sender:  sender,
		log:     log,
		metrics: m,
	}
}

// Enqueue hands a message to the worker without blocking. A full queue drops
// the message; the caller's flow must not stall on notification delivery.
func (q *Queue) Enqueue(msg Message) bool {
	select {
	case q.inbox <- msg:
		return true
	default:
		if q.metrics != nil {
			q.metrics.NotificationsDropped.Inc()
		}
		q.log.Warn("notification queue full, dropping message",
			zap.Int64("chat_id", msg.ChatID))
		return false
	}
}

// Run consumes the queue until ctx is cancelled, then drains whatever is
// already queued before returning.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			q.drain()
			return ctx.Err()
		case msg := <-q.inbox:
			q.deliver(ctx, msg)
		}
	}
}

func (q *Queue) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	for {
		select {
		case msg := <-q.inbox:
			q.deliver(ctx, msg)
		default:
			return
		}
	}
}

func (q *Queue) deliver(ctx context.Context, msg Message) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := q.sender.Send(sendCtx, msg); err != nil {
		if q.metrics != nil {
			q.metrics.NotificationsFailed.Inc()
		}
		q.log.Error("notification send failed",
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err))
		return
	}
	if q.metrics != nil {
		q.metrics.NotificationsSent.Inc()
	}

	if msg.OnDelivered != nil {
		if err := msg.OnDelivered(sendCtx); err != nil {
			q.log.Error("post-delivery hook failed",
				zap.Int64("chat_id", msg.ChatID),
				zap.Error(err))
		}
	}
}
