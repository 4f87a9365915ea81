package notify

import (
	"context"
	"log"
	"sync"
)

// MockProvider logs sends instead of calling the platform. Used in dev mode
// and in tests; Rejected openids simulate revoked subscriptions.
type MockProvider struct {
	mu       sync.Mutex
	Sent     []Message
	Rejected map[string]bool
	Fail     int // fail this many sends before succeeding
}

func NewMockProvider() *MockProvider {
	return &MockProvider{Rejected: make(map[string]bool)}
}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) Send(ctx context.Context, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Rejected[msg.OpenID] {
		return &RejectedError{OpenID: msg.OpenID}
	}
	if p.Fail > 0 {
		p.Fail--
		return context.DeadlineExceeded
	}
	p.Sent = append(p.Sent, msg)
	log.Printf("[Notify] mock send to %s: %v", msg.OpenID, msg.Data)
	return nil
}

// SentCount returns how many messages were delivered.
func (p *MockProvider) SentCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Sent)
}
