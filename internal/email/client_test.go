package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jimmycarrlin/zero2prod/internal/domain"
	"github.com/jimmycarrlin/zero2prod/internal/pkg/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseEmail(t *testing.T, raw string) domain.SubscriberEmail {
	t.Helper()
	email, err := domain.ParseEmail(raw)
	require.NoError(t, err)
	return email
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:            baseURL,
		SenderAddress:      "newsletter@example.com",
		AuthorizationToken: secret.New("test-server-token"),
		Timeout:            200 * time.Millisecond,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:    "missing base url",
			config:  Config{SenderAddress: "newsletter@example.com"},
			wantErr: "base URL is required",
		},
		{
			name:    "invalid sender address",
			config:  Config{BaseURL: "http://localhost", SenderAddress: "not-an-email"},
			wantErr: "invalid sender address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, client)
		})
	}
}

func TestSend_SendsExpectedRequest(t *testing.T) {
	var captured struct {
		method string
		path   string
		token  string
		body   map[string]string
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.token = r.Header.Get("X-Postmark-Server-Token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	err := client.Send(context.Background(),
		mustParseEmail(t, "ursula_le_guin@gmail.com"),
		"Welcome!", "<p>html</p>", "text",
	)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/email", captured.path)
	assert.Equal(t, "test-server-token", captured.token)
	assert.Equal(t, map[string]string{
		"From":     "newsletter@example.com",
		"To":       "ursula_le_guin@gmail.com",
		"Subject":  "Welcome!",
		"HtmlBody": "<p>html</p>",
		"TextBody": "text",
	}, captured.body)
}

func TestSend_FailsOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	err := client.Send(context.Background(),
		mustParseEmail(t, "ursula_le_guin@gmail.com"),
		"Welcome!", "<p>html</p>", "text",
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSend_FailsOnTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	err := client.Send(context.Background(),
		mustParseEmail(t, "ursula_le_guin@gmail.com"),
		"Welcome!", "<p>html</p>", "text",
	)

	require.Error(t, err)
}
