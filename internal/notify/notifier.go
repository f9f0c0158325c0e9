// Package notify hands status messages to the outbound notification collaborator.
// Delivery (SMS/WhatsApp gateway) is out of process; this package only enqueues.
// Enqueue failures are logged and suppressed so a notification can never roll back
// the state change that produced it.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/relieflink/backend/internal/models"
	"github.com/relieflink/backend/pkg/queue"
)

// Notifier enqueues outbound status notifications.
type Notifier struct {
	queue  *queue.Queue
	logger *zap.Logger
}

// NewNotifier creates a queue-backed notifier. A nil queue disables delivery
// entirely, which is fine for tests and single-binary setups.
func NewNotifier(q *queue.Queue, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{queue: q, logger: logger}
}

// RequestStatusChanged notifies the request's contact about a status change.
// Never returns an error: failures are logged and dropped.
func (n *Notifier) RequestStatusChanged(ctx context.Context, req *models.Request) {
	if n.queue == nil || req.ContactPhone == "" {
		return
	}
	payload := queue.NotificationPayload{
		RequestID: req.ID,
		Phone:     req.ContactPhone,
		Channel:   "sms",
		Message:   StatusMessage(req),
	}
	if err := n.queue.EnqueueNotification(ctx, payload); err != nil {
		n.logger.Warn("notification enqueue failed",
			zap.Error(err),
			zap.Int64("request_id", req.ID))
	}
}

// StatusMessage renders the human-readable message sent to the victim when their
// request changes status.
func StatusMessage(req *models.Request) string {
	switch req.Status {
	case models.RequestNew, models.RequestTriaged:
		if req.IsSOS {
			return fmt.Sprintf("Your SOS request #%d has been received and marked as an emergency. A dispatcher will reach out as soon as possible.", req.ID)
		}
		return fmt.Sprintf("Your relief request #%d has been received. You will be notified when an organization is assigned.", req.ID)
	case models.RequestInProgress:
		return fmt.Sprintf("Good news: a relief organization has been assigned to your request #%d and is on the way.", req.ID)
	case models.RequestClosed:
		return fmt.Sprintf("Your relief request #%d has been completed. Stay safe.", req.ID)
	default:
		return fmt.Sprintf("Your relief request #%d has been updated (status: %s).", req.ID, req.Status)
	}
}
