package notify

import (
	"context"
	"sync"

	"subscription-tracker/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*NoopNotifier)(nil)

// NoopNotifier records reminders instead of delivering them. It serves
// tests and deployments with no webhook configured.
type NoopNotifier struct {
	mu   sync.Mutex
	sent []adapter.Reminder
}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) SendReminder(ctx context.Context, r adapter.Reminder) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, r)
	return nil
}

// Sent returns a copy of everything recorded so far.
func (n *NoopNotifier) Sent() []adapter.Reminder {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]adapter.Reminder, len(n.sent))
	copy(out, n.sent)
	return out
}
