package subscriptions

import (
	"context"
	"errors"
	"testing"

	"github.com/jimmycarrlin/zero2prod/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTx implements Tx for testing.
type mockTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (m *mockTx) Commit(_ context.Context) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committed = true
	return nil
}

func (m *mockTx) Rollback(_ context.Context) error {
	if !m.committed {
		m.rolledBack = true
	}
	return nil
}

// mockRepository implements Repository for testing.
type mockRepository struct {
	tx              *mockTx
	subscriberID    string
	storedName      string
	storedEmail     string
	storedToken     string
	confirmedIDs    []string
	confirmedEmails []string

	beginErr   error
	insertErr  error
	tokenErr   error
	lookupErr  error
	confirmErr error
	tokenOwner map[string]string
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		tx:           &mockTx{},
		subscriberID: "11111111-2222-3333-4444-555555555555",
		tokenOwner:   make(map[string]string),
	}
}

func (m *mockRepository) BeginTx(_ context.Context) (Tx, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	return m.tx, nil
}

func (m *mockRepository) InsertSubscriber(_ context.Context, _ Tx, sub domain.NewSubscriber) (string, error) {
	if m.insertErr != nil {
		return "", m.insertErr
	}
	m.storedName = sub.Name.String()
	m.storedEmail = sub.Email.String()
	return m.subscriberID, nil
}

func (m *mockRepository) StoreToken(_ context.Context, _ Tx, subscriberID, token string) error {
	if m.tokenErr != nil {
		return m.tokenErr
	}
	m.storedToken = token
	m.tokenOwner[token] = subscriberID
	return nil
}

func (m *mockRepository) FindSubscriberIDByToken(_ context.Context, token string) (string, bool, error) {
	if m.lookupErr != nil {
		return "", false, m.lookupErr
	}
	id, ok := m.tokenOwner[token]
	return id, ok, nil
}

func (m *mockRepository) ConfirmSubscriber(_ context.Context, subscriberID string) error {
	if m.confirmErr != nil {
		return m.confirmErr
	}
	m.confirmedIDs = append(m.confirmedIDs, subscriberID)
	return nil
}

func (m *mockRepository) ListConfirmedSubscriberEmails(_ context.Context) ([]string, error) {
	return m.confirmedEmails, nil
}

// mockSender implements EmailSender for testing.
type mockSender struct {
	sent []sentEmail
	err  error
}

type sentEmail struct {
	recipient string
	subject   string
	htmlBody  string
	textBody  string
}

func (m *mockSender) Send(_ context.Context, recipient domain.SubscriberEmail, subject, htmlBody, textBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{
		recipient: recipient.String(),
		subject:   subject,
		htmlBody:  htmlBody,
		textBody:  textBody,
	})
	return nil
}

// mockRenderer implements ConfirmationRenderer for testing.
type mockRenderer struct {
	link string
}

func (m *mockRenderer) RenderConfirmation(confirmationLink string) (string, string, string, error) {
	m.link = confirmationLink
	return "Welcome!", "<a href=\"" + confirmationLink + "\">confirm</a>", confirmationLink, nil
}

func newTestService(repo *mockRepository, sender *mockSender) (*Service, *mockRenderer) {
	renderer := &mockRenderer{}
	return NewService(repo, sender, renderer, "https://newsletter.example.com"), renderer
}

func TestSubscribe_StoresSubscriberAndTokenAndSendsEmail(t *testing.T) {
	repo := newMockRepository()
	sender := &mockSender{}
	service, renderer := newTestService(repo, sender)

	err := service.Subscribe(context.Background(), "le guin", "ursula_le_guin@gmail.com")

	require.NoError(t, err)
	assert.True(t, repo.tx.committed, "transaction should be committed")
	assert.Equal(t, "le guin", repo.storedName)
	assert.Equal(t, "ursula_le_guin@gmail.com", repo.storedEmail)
	assert.Regexp(t, `^[a-zA-Z0-9]{25}$`, repo.storedToken)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ursula_le_guin@gmail.com", sender.sent[0].recipient)
	assert.Equal(t, "Welcome!", sender.sent[0].subject)
	assert.Contains(t, renderer.link, "https://newsletter.example.com/subscriptions/confirm?subscription_token=")
	assert.Contains(t, renderer.link, repo.storedToken)
}

func TestSubscribe_InvalidName(t *testing.T) {
	repo := newMockRepository()
	sender := &mockSender{}
	service, _ := newTestService(repo, sender)

	err := service.Subscribe(context.Background(), "", "ursula_le_guin@gmail.com")

	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Empty(t, repo.storedEmail, "nothing should be persisted on validation failure")
	assert.Empty(t, sender.sent)
}

func TestSubscribe_InvalidEmail(t *testing.T) {
	repo := newMockRepository()
	sender := &mockSender{}
	service, _ := newTestService(repo, sender)

	err := service.Subscribe(context.Background(), "le guin", "definitely-not-an-email")

	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Empty(t, sender.sent)
}

func TestSubscribe_TokenStoreFailureRollsBack(t *testing.T) {
	repo := newMockRepository()
	repo.tokenErr = errors.New("column subscription_token does not exist")
	sender := &mockSender{}
	service, _ := newTestService(repo, sender)

	err := service.Subscribe(context.Background(), "le guin", "ursula_le_guin@gmail.com")

	var pErr *domain.PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "store confirmation token", pErr.Op)
	assert.False(t, repo.tx.committed)
	assert.True(t, repo.tx.rolledBack, "transaction should be rolled back")
	assert.Empty(t, sender.sent, "no email may be sent for an aborted subscription")
}

func TestSubscribe_CommitFailure(t *testing.T) {
	repo := newMockRepository()
	repo.tx.commitErr = errors.New("connection reset")
	sender := &mockSender{}
	service, _ := newTestService(repo, sender)

	err := service.Subscribe(context.Background(), "le guin", "ursula_le_guin@gmail.com")

	var pErr *domain.PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Empty(t, sender.sent)
}

func TestSubscribe_EmailFailureAfterCommit(t *testing.T) {
	repo := newMockRepository()
	sender := &mockSender{err: errors.New("email api unavailable")}
	service, _ := newTestService(repo, sender)

	err := service.Subscribe(context.Background(), "le guin", "ursula_le_guin@gmail.com")

	// The subscription is committed even though the email failed.
	var uErr *domain.UnexpectedError
	require.ErrorAs(t, err, &uErr)
	assert.True(t, repo.tx.committed, "commit must not be undone by a dispatch failure")
	assert.NotEmpty(t, repo.storedToken, "token stays redeemable for a later resend")
}

func TestConfirm_TransitionsSubscriber(t *testing.T) {
	repo := newMockRepository()
	repo.tokenOwner["sometoken1234567890123456"] = repo.subscriberID
	service, _ := newTestService(repo, &mockSender{})

	err := service.Confirm(context.Background(), "sometoken1234567890123456")

	require.NoError(t, err)
	assert.Equal(t, []string{repo.subscriberID}, repo.confirmedIDs)
}

func TestConfirm_IsIdempotent(t *testing.T) {
	repo := newMockRepository()
	repo.tokenOwner["sometoken1234567890123456"] = repo.subscriberID
	service, _ := newTestService(repo, &mockSender{})

	require.NoError(t, service.Confirm(context.Background(), "sometoken1234567890123456"))
	require.NoError(t, service.Confirm(context.Background(), "sometoken1234567890123456"))

	assert.Len(t, repo.confirmedIDs, 2, "both redemptions reach the store and succeed")
}

func TestConfirm_UnknownToken(t *testing.T) {
	repo := newMockRepository()
	service, _ := newTestService(repo, &mockSender{})

	err := service.Confirm(context.Background(), "not-a-real-token")

	assert.ErrorIs(t, err, ErrUnknownToken)
	assert.Empty(t, repo.confirmedIDs, "no subscriber may be mutated for an unknown token")
}

func TestConfirm_LookupFailure(t *testing.T) {
	repo := newMockRepository()
	repo.lookupErr = errors.New("connection refused")
	service, _ := newTestService(repo, &mockSender{})

	err := service.Confirm(context.Background(), "sometoken1234567890123456")

	var pErr *domain.PersistenceError
	assert.ErrorAs(t, err, &pErr)
}
