package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/smartclean-api/pkg/events"
	"github.com/noah-isme/smartclean-api/pkg/jobs"
)

// Background job types.
const (
	JobTypeMagicLink   = "magic_link"
	JobTypeDomainEvent = "domain_event"
)

// MagicLinkMessage is the content of a sign-in email.
type MagicLinkMessage struct {
	Email     string
	Name      string
	Link      string
	ExpiresAt time.Time
}

// Mailer delivers transactional email.
type Mailer interface {
	SendMagicLink(ctx context.Context, msg MagicLinkMessage) error
}

// LogMailer writes magic links to the log instead of sending email.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer constructs a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// SendMagicLink logs the link.
func (m *LogMailer) SendMagicLink(ctx context.Context, msg MagicLinkMessage) error {
	m.logger.Info("magic link ready",
		zap.String("email", msg.Email),
		zap.String("link", msg.Link),
		zap.Time("expires_at", msg.ExpiresAt),
	)
	return nil
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// NotificationService hands outbound work to the background queue and executes it there.
type NotificationService struct {
	queue     jobEnqueuer
	mailer    Mailer
	publisher events.Publisher
	logger    *zap.Logger
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(queue jobEnqueuer, mailer Mailer, publisher events.Publisher, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mailer == nil {
		mailer = NewLogMailer(logger)
	}
	if publisher == nil {
		publisher = events.NewNopPublisher(logger)
	}
	return &NotificationService{queue: queue, mailer: mailer, publisher: publisher, logger: logger}
}

// Register installs the job handlers on mux.
func (s *NotificationService) Register(mux *jobs.Mux) {
	mux.Handle(JobTypeMagicLink, s.handleMagicLink)
	mux.Handle(JobTypeDomainEvent, s.handleDomainEvent)
}

// SendMagicLink queues a sign-in email.
func (s *NotificationService) SendMagicLink(ctx context.Context, msg MagicLinkMessage) error {
	return s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: JobTypeMagicLink, Payload: msg})
}

// Publish queues a domain event. Failures to queue are logged and swallowed: events never block
// the request that produced them.
func (s *NotificationService) Publish(ctx context.Context, eventType, aggregateID string, data interface{}) {
	evt, err := events.New(eventType, aggregateID, data)
	if err != nil {
		s.logger.Warn("event not built", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.queue.Enqueue(jobs.Job{ID: evt.ID, Type: JobTypeDomainEvent, Payload: evt}); err != nil {
		s.logger.Warn("event not queued", zap.String("type", eventType), zap.String("aggregate_id", aggregateID), zap.Error(err))
	}
}

func (s *NotificationService) handleMagicLink(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(MagicLinkMessage)
	if !ok {
		return fmt.Errorf("magic link job %s: unexpected payload %T: %w", job.ID, job.Payload, jobs.ErrPermanent)
	}
	return s.mailer.SendMagicLink(ctx, msg)
}

func (s *NotificationService) handleDomainEvent(ctx context.Context, job jobs.Job) error {
	evt, ok := job.Payload.(events.Event)
	if !ok {
		return fmt.Errorf("event job %s: unexpected payload %T: %w", job.ID, job.Payload, jobs.ErrPermanent)
	}
	return s.publisher.Publish(ctx, evt)
}

// JobResultRecorder feeds queue outcomes into metrics.
func JobResultRecorder(metrics *MetricsService) jobs.ResultFunc {
	return func(job jobs.Job, err error, final bool) {
		switch {
		case err == nil:
			metrics.ObserveJob(job.Type, "ok")
		case errors.Is(err, jobs.ErrPermanent) || final:
			metrics.ObserveJob(job.Type, "failed")
		default:
			metrics.ObserveJob(job.Type, "retry")
		}
	}
}
