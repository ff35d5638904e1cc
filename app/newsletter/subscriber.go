// Package newsletter holds the signup glue between the API and the external
// email service. The delivery provider itself is an external collaborator;
// this package only validates addresses and hands them off.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
)

var ErrInvalidEmail = errors.New("invalid email address")

// Subscriber accepts a validated email address for newsletter delivery.
type Subscriber interface {
	Subscribe(ctx context.Context, email string) error
}

// ValidateEmail normalizes and validates a signup address.
func ValidateEmail(raw string) (string, error) {
	email := strings.TrimSpace(strings.ToLower(raw))
	if email == "" {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEmail, err)
	}
	if !strings.Contains(addr.Address, "@") || strings.HasSuffix(addr.Address, "@") {
		return "", ErrInvalidEmail
	}

	return addr.Address, nil
}

var _ Subscriber = (*LogSubscriber)(nil)

// LogSubscriber is the default no-op handoff used when no email provider is
// configured; it records the signup and succeeds.
type LogSubscriber struct{}

func NewLogSubscriber() *LogSubscriber {
	return &LogSubscriber{}
}

func (s *LogSubscriber) Subscribe(ctx context.Context, email string) error {
	slog.Info("Newsletter signup accepted", "email", email)
	return nil
}
