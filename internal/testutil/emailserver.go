package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// CapturedEmail is a single request received by the EmailServer.
type CapturedEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// EmailServer is an in-process stand-in for the email delivery API. It
// records every message it receives and can be told to fail requests.
type EmailServer struct {
	server *httptest.Server

	mu         sync.Mutex
	received   []CapturedEmail
	failStatus int
}

// NewEmailServer starts a stub delivery API.
func NewEmailServer() *EmailServer {
	s := &EmailServer{}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *EmailServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/email" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var email CapturedEmail
	if err := json.NewDecoder(r.Body).Decode(&email); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failStatus != 0 {
		w.WriteHeader(s.failStatus)
		return
	}

	s.received = append(s.received, email)
	w.WriteHeader(http.StatusOK)
}

// URL returns the base URL clients should send to.
func (s *EmailServer) URL() string {
	return s.server.URL
}

// Received returns a copy of every message accepted so far.
func (s *EmailServer) Received() []CapturedEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CapturedEmail, len(s.received))
	copy(out, s.received)
	return out
}

// FailWith makes subsequent requests fail with the given status.
// Pass 0 to restore normal behavior.
func (s *EmailServer) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// Reset clears recorded messages and failure behavior.
func (s *EmailServer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = nil
	s.failStatus = 0
}

// Close shuts the stub server down.
func (s *EmailServer) Close() {
	s.server.Close()
}
