// Package postgres provides the PostgreSQL implementation of the
// subscriptions repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimmycarrlin/zero2prod/internal/domain"
	"github.com/jimmycarrlin/zero2prod/internal/subscriptions"
)

// Repository implements subscriptions.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgxTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// BeginTx opens a transaction on the pool.
func (r *Repository) BeginTx(ctx context.Context) (subscriptions.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &pgxTx{tx: tx}, nil
}

// InsertSubscriber inserts a new pending subscriber inside tx and returns the
// generated subscriber ID.
func (r *Repository) InsertSubscriber(ctx context.Context, tx subscriptions.Tx, sub domain.NewSubscriber) (string, error) {
	ptx, err := unwrapTx(tx)
	if err != nil {
		return "", err
	}

	subscriberID := uuid.NewString()
	query := `
		INSERT INTO subscriptions (id, email, name, subscribed_at, status)
		VALUES ($1, $2, $3, NOW(), $4)
	`
	if _, err := ptx.Exec(ctx, query,
		subscriberID,
		sub.Email.String(),
		sub.Name.String(),
		string(domain.StatusPendingConfirmation),
	); err != nil {
		return "", fmt.Errorf("insert subscriber: %w", err)
	}

	return subscriberID, nil
}

// StoreToken inserts the token mapping for a subscriber inside tx.
func (r *Repository) StoreToken(ctx context.Context, tx subscriptions.Tx, subscriberID, token string) error {
	ptx, err := unwrapTx(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO subscription_tokens (subscription_token, subscriber_id)
		VALUES ($1, $2)
	`
	if _, err := ptx.Exec(ctx, query, token, subscriberID); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	return nil
}

// FindSubscriberIDByToken resolves a confirmation token to a subscriber ID.
func (r *Repository) FindSubscriberIDByToken(ctx context.Context, token string) (string, bool, error) {
	query := `
		SELECT subscriber_id
		FROM subscription_tokens
		WHERE subscription_token = $1
	`
	var subscriberID string
	err := r.db.QueryRow(ctx, query, token).Scan(&subscriberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("find subscriber by token: %w", err)
	}
	return subscriberID, true, nil
}

// ConfirmSubscriber sets the subscriber status to confirmed. Updating an
// already confirmed row is a successful no-op.
func (r *Repository) ConfirmSubscriber(ctx context.Context, subscriberID string) error {
	query := `
		UPDATE subscriptions
		SET status = $2
		WHERE id = $1
	`
	if _, err := r.db.Exec(ctx, query, subscriberID, string(domain.StatusConfirmed)); err != nil {
		return fmt.Errorf("confirm subscriber: %w", err)
	}
	return nil
}

// ListConfirmedSubscriberEmails returns the stored email of every confirmed
// subscriber.
func (r *Repository) ListConfirmedSubscriberEmails(ctx context.Context) ([]string, error) {
	query := `
		SELECT email
		FROM subscriptions
		WHERE status = $1
	`
	rows, err := r.db.Query(ctx, query, string(domain.StatusConfirmed))
	if err != nil {
		return nil, fmt.Errorf("list confirmed subscribers: %w", err)
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan subscriber email: %w", err)
		}
		emails = append(emails, email)
	}

	return emails, rows.Err()
}

func unwrapTx(tx subscriptions.Tx) (pgx.Tx, error) {
	ptx, ok := tx.(*pgxTx)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction type %T", tx)
	}
	return ptx.tx, nil
}
