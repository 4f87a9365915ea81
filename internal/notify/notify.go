package notify

import (
	"context"
	"log"
	"time"
)

// Message is one subscribe-message push to a mini-program user.
type Message struct {
	OpenID string
	// Data maps template field keys to display values.
	Data map[string]string
}

// RejectedError is returned by a provider when the user has revoked the
// subscription. The send must not be retried and the user's quota is spent.
type RejectedError struct {
	OpenID string
}

func (e *RejectedError) Error() string {
	return "user " + e.OpenID + " rejected subscribe messages"
}

// Provider delivers one message. Implementations decide transport.
type Provider interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// Sender wraps a provider with retry. Transient failures are retried with a
// linear backoff up to maxAttempts; a RejectedError stops immediately.
type Sender struct {
	provider    Provider
	maxAttempts int
	backoff     time.Duration
}

func NewSender(provider Provider) *Sender {
	return &Sender{
		provider:    provider,
		maxAttempts: 6,
		backoff:     2 * time.Second,
	}
}

// Send pushes msg, retrying transient failures. The returned error is the
// last attempt's error.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err := s.provider.Send(ctx, msg)
		if err == nil {
			return nil
		}
		if _, rejected := err.(*RejectedError); rejected {
			return err
		}
		lastErr = err
		log.Printf("[Notify] %s send attempt %d/%d failed: %v", s.provider.Name(), attempt, s.maxAttempts, err)

		if attempt == s.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * s.backoff):
		}
	}
	return lastErr
}
