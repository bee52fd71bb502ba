package worker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/mail"
)

// MailWorker drains the outbound-mail queue and delivers each message
// over SMTP. Delivery failures are logged and the message is dropped;
// handshake tokens are cheap to re-issue, so there is no retry machinery.
type MailWorker struct {
	queue  *mail.Queue
	sender *mail.SMTPSender
	logger *zap.Logger
}

// NewMailWorker constructs the worker.
func NewMailWorker(queue *mail.Queue, sender *mail.SMTPSender, logger *zap.Logger) *MailWorker {
	return &MailWorker{queue: queue, sender: sender, logger: logger}
}

// Run consumes the queue until the context is cancelled.
func (w *MailWorker) Run(ctx context.Context) error {
	w.logger.Info("mail worker started")
	for {
		msg, err := w.queue.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				w.logger.Info("mail worker stopping")
				return nil
			}
			return err
		}

		if err := w.sender.Deliver(msg); err != nil {
			w.logger.Error("mail delivery failed",
				zap.String("mail_id", msg.ID),
				zap.Strings("to", msg.To),
				zap.Error(err))
			continue
		}
		w.logger.Info("mail delivered", zap.String("mail_id", msg.ID))
	}
}
