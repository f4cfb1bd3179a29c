package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

// Email is the boundary contract with the mail collaborator.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a single message. Implementations live at the edge of the
// system; the notifier only cares that delivery may fail.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// NotifyService dispatches booking emails asynchronously. Delivery is
// fire-and-forget relative to the booking transaction: a full buffer or a
// failed send is logged and counted, never surfaced to the caller.
type NotifyService struct {
	mailer  Mailer
	log     *zap.Logger
	metrics *metrics.Collector
	queue   chan Email
	done    chan struct{}
}

func NewNotifyService(mailer Mailer, log *zap.Logger, m *metrics.Collector, bufferSize int) *NotifyService {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	svc := &NotifyService{
		mailer:  mailer,
		log:     log,
		metrics: m,
		queue:   make(chan Email, bufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// Enqueue hands a message to the delivery worker. If the buffer is full the
// message is dropped with a warning.
func (s *NotifyService) Enqueue(msg Email) {
	select {
	case s.queue <- msg:
	default:
		s.log.Warn("notification buffer full, dropping message",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
		s.metrics.NotificationsDropped.Inc()
	}
}

func (s *NotifyService) Shutdown() {
	close(s.queue)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("notify service shutdown timed out; some messages may be lost")
	}
}

func (s *NotifyService) worker() {
	defer close(s.done)
	for msg := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.log.Error("failed to deliver notification",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
			s.metrics.NotificationsFailed.Inc()
		} else {
			s.metrics.NotificationsSent.Inc()
		}
		cancel()
	}
}

// LogMailer is the development mailer: it records what would have been sent.
type LogMailer struct {
	Log *zap.Logger
}

func (m *LogMailer) Send(_ context.Context, msg Email) error {
	m.Log.Info("email (log mailer)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
