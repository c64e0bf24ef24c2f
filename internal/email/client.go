// Package email provides the HTTP client for a Postmark-compatible
// transactional email API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jimmycarrlin/zero2prod/internal/domain"
	"github.com/jimmycarrlin/zero2prod/internal/pkg/secret"
	"golang.org/x/time/rate"
)

const defaultTimeout = 10 * time.Second

// Config holds email client configuration.
type Config struct {
	BaseURL            string
	SenderAddress      string
	AuthorizationToken secret.String
	Timeout            time.Duration
	RateLimit          float64 // requests per second, 0 means unlimited
}

// Client sends emails through the provider's HTTP API.
type Client struct {
	config     Config
	sender     domain.SubscriberEmail
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new email API client.
// Returns an error if the base URL is missing or the sender address is not a
// valid email.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("email client: base URL is required")
	}

	sender, err := domain.ParseEmail(config.SenderAddress)
	if err != nil {
		return nil, fmt.Errorf("email client: invalid sender address: %w", err)
	}

	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	slog.Info("email client configured",
		"base_url", config.BaseURL,
		"sender", config.SenderAddress,
		"timeout", config.Timeout,
		"rate_limit", config.RateLimit,
	)

	return &Client{
		config: config,
		sender: sender,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: limiter,
	}, nil
}

type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// Send delivers a single email through the provider API. A non-2xx response
// or transport failure (including the client timeout) is returned as an
// error; the caller decides whether that aborts its larger operation.
func (c *Client) Send(ctx context.Context, recipient domain.SubscriberEmail, subject, htmlBody, textBody string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for send slot: %w", err)
	}

	payload := sendEmailRequest{
		From:     c.sender.String(),
		To:       recipient.String(),
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.config.AuthorizationToken.ExposeSecret())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email api returned status %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
