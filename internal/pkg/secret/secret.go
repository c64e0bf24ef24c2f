// Package secret provides a wrapper for credential values that must not leak
// through logging or default formatting.
package secret

import "log/slog"

const redacted = "[REDACTED]"

// String holds a sensitive value. Every default rendering path (fmt verbs,
// slog attributes, JSON encoding) produces a redacted placeholder; the
// underlying value is only reachable through ExposeSecret.
type String struct {
	value string
}

// New wraps a sensitive value.
func New(value string) String {
	return String{value: value}
}

// ExposeSecret returns the wrapped value.
func (s String) ExposeSecret() string {
	return s.value
}

func (s String) String() string {
	return redacted
}

func (s String) GoString() string {
	return redacted
}

// LogValue implements slog.LogValuer.
func (s String) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// MarshalText redacts the value in text and JSON encodings.
func (s String) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

// UnmarshalText lets configuration loaders decode into a String.
func (s *String) UnmarshalText(text []byte) error {
	s.value = string(text)
	return nil
}
