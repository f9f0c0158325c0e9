// Package worker processes background jobs dequeued from Redis.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/relieflink/backend/pkg/queue"
)

// Sender delivers one message to a phone number over a channel ("sms" or
// "whatsapp"). The default LogSender just records the message; a real gateway
// client can be dropped in without touching the processor.
type Sender interface {
	Send(ctx context.Context, phone, channel, message string) error
}

// LogSender logs outbound messages instead of delivering them.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a sender that writes messages to the log.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the message.
func (s *LogSender) Send(_ context.Context, phone, channel, message string) error {
	s.logger.Info("notification delivered",
		zap.String("phone", phone),
		zap.String("channel", channel),
		zap.String("message", message))
	return nil
}

// NotificationProcessor consumes notification jobs and delivers them.
type NotificationProcessor struct {
	queue  *queue.Queue
	sender Sender
	logger *zap.Logger
}

// NewNotificationProcessor creates a notification processor.
func NewNotificationProcessor(q *queue.Queue, sender Sender, logger *zap.Logger) *NotificationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = NewLogSender(logger)
	}
	return &NotificationProcessor{queue: q, sender: sender, logger: logger}
}

// Run blocks processing jobs until ctx is cancelled.
func (p *NotificationProcessor) Run(ctx context.Context) {
	p.logger.Info("notification processor started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification processor stopped")
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("dequeue failed", zap.Error(err))
			time.Sleep(2 * time.Second)
			continue
		}
		if job == nil {
			continue
		}

		if err := p.process(ctx, job); err != nil {
			p.logger.Error("job failed",
				zap.String("job_id", job.ID),
				zap.Int("attempt", job.Attempt),
				zap.Error(err))
			if retryErr := p.queue.Retry(ctx, job); retryErr != nil {
				p.logger.Error("retry failed", zap.Error(retryErr), zap.String("job_id", job.ID))
			}
		}
	}
}

func (p *NotificationProcessor) process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeNotification:
		var payload queue.NotificationPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		if payload.Phone == "" {
			p.logger.Debug("skipping notification without phone",
				zap.Int64("request_id", payload.RequestID))
			return nil
		}
		if err := p.sender.Send(ctx, payload.Phone, payload.Channel, payload.Message); err != nil {
			return fmt.Errorf("send: %w", err)
		}
		p.logger.Info("notification sent",
			zap.String("job_id", job.ID),
			zap.Int64("request_id", payload.RequestID),
			zap.String("channel", payload.Channel))
		return nil
	default:
		p.logger.Warn("unknown job type", zap.String("type", string(job.Type)))
		return nil
	}
}
