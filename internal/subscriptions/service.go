package subscriptions

import (
	"context"
	"fmt"

	"github.com/jimmycarrlin/zero2prod/internal/domain"
	"github.com/jimmycarrlin/zero2prod/internal/pkg/ctxlog"
)

// Service provides the subscribe and confirm workflows.
type Service struct {
	repo     Repository
	sender   EmailSender
	renderer ConfirmationRenderer
	baseURL  string
}

// NewService creates a new subscriptions service. baseURL is the public base
// URL of this application, used to build confirmation links.
func NewService(repo Repository, sender EmailSender, renderer ConfirmationRenderer, baseURL string) *Service {
	return &Service{
		repo:     repo,
		sender:   sender,
		renderer: renderer,
		baseURL:  baseURL,
	}
}

// Subscribe validates the raw input, stores the subscriber together with a
// confirmation token in one transaction, and sends the confirmation email
// after the transaction committed. A failed email dispatch does not roll the
// subscription back: the row is confirmable and the email can be resent.
func (s *Service) Subscribe(ctx context.Context, rawName, rawEmail string) error {
	name, err := domain.ParseName(rawName)
	if err != nil {
		return err
	}
	email, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return err
	}
	newSubscriber := domain.NewSubscriber{Name: name, Email: email}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return &domain.PersistenceError{Op: "begin subscription transaction", Err: err}
	}
	// Rollback is a no-op after a successful commit.
	defer func() { _ = tx.Rollback(ctx) }()

	subscriberID, err := s.repo.InsertSubscriber(ctx, tx, newSubscriber)
	if err != nil {
		return &domain.PersistenceError{Op: "insert new subscriber", Err: err}
	}

	token := GenerateToken()
	if err := s.repo.StoreToken(ctx, tx, subscriberID, token); err != nil {
		return &domain.PersistenceError{Op: "store confirmation token", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &domain.PersistenceError{Op: "commit subscription transaction", Err: err}
	}

	SubscriptionsCreated.Inc()
	ctxlog.FromContext(ctx).Info("new subscriber stored",
		"subscriber_id", subscriberID,
	)

	if err := s.sendConfirmationEmail(ctx, email, token); err != nil {
		ConfirmationEmailFailures.Inc()
		return &domain.UnexpectedError{Err: fmt.Errorf("send confirmation email: %w", err)}
	}

	return nil
}

// Confirm redeems a confirmation token. An unknown token is rejected with
// ErrUnknownToken; redeeming a token for an already confirmed subscriber
// succeeds silently.
func (s *Service) Confirm(ctx context.Context, token string) error {
	subscriberID, found, err := s.repo.FindSubscriberIDByToken(ctx, token)
	if err != nil {
		return &domain.PersistenceError{Op: "look up subscription token", Err: err}
	}
	if !found {
		return ErrUnknownToken
	}

	if err := s.repo.ConfirmSubscriber(ctx, subscriberID); err != nil {
		return &domain.UnexpectedError{Err: fmt.Errorf("mark subscriber confirmed: %w", err)}
	}

	SubscriptionsConfirmed.Inc()
	ctxlog.FromContext(ctx).Info("subscriber confirmed",
		"subscriber_id", subscriberID,
	)
	return nil
}

func (s *Service) sendConfirmationEmail(ctx context.Context, recipient domain.SubscriberEmail, token string) error {
	confirmationLink := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", s.baseURL, token)

	subject, htmlBody, textBody, err := s.renderer.RenderConfirmation(confirmationLink)
	if err != nil {
		return fmt.Errorf("render confirmation email: %w", err)
	}

	return s.sender.Send(ctx, recipient, subject, htmlBody, textBody)
}
