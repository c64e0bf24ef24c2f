// Package subscriptions provides the subscription lifecycle: subscribing with
// a pending status, issuing confirmation tokens, and confirming subscribers.
package subscriptions

import (
	"context"

	"github.com/jimmycarrlin/zero2prod/internal/domain"
)

// Tx is a transaction handle handed out by the repository. The workflow that
// opened it owns the boundary: it must either Commit or Rollback, and no
// network call outside the store may happen while it is open.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Repository defines the interface for subscription data access.
type Repository interface {
	// BeginTx opens a transaction covering subscriber and token writes.
	BeginTx(ctx context.Context) (Tx, error)

	// InsertSubscriber inserts a new subscriber in pending_confirmation
	// status and returns its generated ID.
	InsertSubscriber(ctx context.Context, tx Tx, sub domain.NewSubscriber) (string, error)

	// StoreToken binds a confirmation token to a subscriber inside the same
	// transaction that created the subscriber.
	StoreToken(ctx context.Context, tx Tx, subscriberID, token string) error

	// FindSubscriberIDByToken resolves a token to a subscriber ID.
	// An unmatched token is found=false, not an error.
	FindSubscriberIDByToken(ctx context.Context, token string) (subscriberID string, found bool, err error)

	// ConfirmSubscriber marks a subscriber confirmed. Confirming an already
	// confirmed subscriber succeeds silently.
	ConfirmSubscriber(ctx context.Context, subscriberID string) error

	// ListConfirmedSubscriberEmails returns the raw stored email of every
	// confirmed subscriber, in store-defined order.
	ListConfirmedSubscriberEmails(ctx context.Context) ([]string, error)
}

// EmailSender is the outbound mail capability consumed by the workflows.
// Production uses the HTTP email client; tests use recording stubs.
type EmailSender interface {
	Send(ctx context.Context, recipient domain.SubscriberEmail, subject, htmlBody, textBody string) error
}

// ConfirmationRenderer renders the confirmation email for a given link.
type ConfirmationRenderer interface {
	RenderConfirmation(confirmationLink string) (subject, htmlBody, textBody string, err error)
}
