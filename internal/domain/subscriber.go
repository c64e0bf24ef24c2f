// Package domain contains the subscriber value objects and the shared error
// vocabulary of the subscription service.
package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rivo/uniseg"
)

// SubscriberStatus is the lifecycle state of a subscriber.
type SubscriberStatus string

const (
	StatusPendingConfirmation SubscriberStatus = "pending_confirmation"
	StatusConfirmed           SubscriberStatus = "confirmed"
)

// maxNameGraphemes limits names to 256 grapheme clusters, not bytes, so that
// combining-character names are measured the way a reader perceives them.
const maxNameGraphemes = 256

// forbiddenNameCharacters are rejected in subscriber names.
const forbiddenNameCharacters = `/()"<>\{}`

var validate = validator.New()

// SubscriberName is a validated subscriber display name.
// The zero value is invalid; construct it with ParseName.
type SubscriberName struct {
	value string
}

// ParseName validates a raw name string into a SubscriberName.
// It fails if the input is empty or whitespace-only, longer than 256 grapheme
// clusters, or contains any of the forbidden characters.
func ParseName(raw string) (SubscriberName, error) {
	if strings.TrimSpace(raw) == "" {
		return SubscriberName{}, validationErrorf("%q is empty or contains only whitespace", raw)
	}
	if uniseg.GraphemeClusterCount(raw) > maxNameGraphemes {
		return SubscriberName{}, validationErrorf("%q is longer than %d grapheme clusters", raw, maxNameGraphemes)
	}
	if strings.ContainsAny(raw, forbiddenNameCharacters) {
		return SubscriberName{}, validationErrorf("%q contains forbidden characters: %s", raw, forbiddenNameCharacters)
	}
	return SubscriberName{value: raw}, nil
}

func (n SubscriberName) String() string {
	return n.value
}

// SubscriberEmail is a validated email address.
// The zero value is invalid; construct it with ParseEmail.
type SubscriberEmail struct {
	value string
}

// ParseEmail validates a raw string against the email address grammar.
func ParseEmail(raw string) (SubscriberEmail, error) {
	if err := validate.Var(raw, "required,email"); err != nil {
		return SubscriberEmail{}, validationErrorf("%q is not a valid email address", raw)
	}
	return SubscriberEmail{value: raw}, nil
}

func (e SubscriberEmail) String() string {
	return e.value
}

// NewSubscriber is a validated subscribe request, the only input accepted by
// the persistence layer for subscriber creation.
type NewSubscriber struct {
	Name  SubscriberName
	Email SubscriberEmail
}

// Subscriber is a persisted subscriber record.
type Subscriber struct {
	ID           string
	Email        string
	Name         string
	SubscribedAt time.Time
	Status       SubscriberStatus
}
