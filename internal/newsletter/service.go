// Package newsletter provides the broadcast workflow: delivering a newsletter
// issue to every confirmed subscriber.
package newsletter

import (
	"context"
	"fmt"

	"github.com/jimmycarrlin/zero2prod/internal/domain"
	"github.com/jimmycarrlin/zero2prod/internal/pkg/ctxlog"
)

// SubscriberSource lists the stored emails of confirmed subscribers.
type SubscriberSource interface {
	ListConfirmedSubscriberEmails(ctx context.Context) ([]string, error)
}

// EmailSender is the outbound mail capability consumed by the broadcast.
type EmailSender interface {
	Send(ctx context.Context, recipient domain.SubscriberEmail, subject, htmlBody, textBody string) error
}

// Service provides the newsletter broadcast workflow.
type Service struct {
	subscribers SubscriberSource
	sender      EmailSender
}

// NewService creates a new newsletter service.
func NewService(subscribers SubscriberSource, sender EmailSender) *Service {
	return &Service{
		subscribers: subscribers,
		sender:      sender,
	}
}

// Broadcast sends a newsletter issue to every confirmed subscriber. Stored
// emails are re-validated before dispatch: rows written under looser
// historical constraints are logged and skipped rather than failing the
// batch. The first dispatch failure aborts the remaining batch and surfaces
// the recipient it failed on.
func (s *Service) Broadcast(ctx context.Context, subject, htmlBody, textBody string) error {
	emails, err := s.subscribers.ListConfirmedSubscriberEmails(ctx)
	if err != nil {
		return &domain.PersistenceError{Op: "list confirmed subscribers", Err: err}
	}

	logger := ctxlog.FromContext(ctx)
	logger.Info("broadcasting newsletter issue",
		"subject", subject,
		"subscriber_count", len(emails),
	)

	for _, stored := range emails {
		recipient, err := domain.ParseEmail(stored)
		if err != nil {
			RecipientsSkipped.Inc()
			logger.Warn("skipping confirmed subscriber, stored contact details are invalid",
				"email", stored,
				"error", err,
			)
			continue
		}

		if err := s.sender.Send(ctx, recipient, subject, htmlBody, textBody); err != nil {
			DispatchFailures.Inc()
			return &domain.UnexpectedError{
				Err: fmt.Errorf("send newsletter issue to %s: %w", recipient, err),
			}
		}
		IssuesDelivered.Inc()
	}

	return nil
}
