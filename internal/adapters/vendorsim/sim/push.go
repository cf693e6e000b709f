package sim

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gplaydev/gtv-sdk-go/internal/ports"
)

// Push is a log-only push-messaging client tracking topic subscriptions.
type Push struct {
	log *slog.Logger

	mu     sync.Mutex
	topics map[string]struct{}
}

var _ ports.PushClient = (*Push)(nil)

func NewPush(log *slog.Logger) *Push {
	if log == nil {
		log = slog.Default()
	}
	return &Push{log: log, topics: make(map[string]struct{})}
}

func (p *Push) SubscribeTopic(_ context.Context, topic string) error {
	p.mu.Lock()
	p.topics[topic] = struct{}{}
	p.mu.Unlock()

	p.log.Info("push topic subscribed", "topic", topic)
	return nil
}

func (p *Push) UnsubscribeTopic(_ context.Context, topic string) error {
	p.mu.Lock()
	delete(p.topics, topic)
	p.mu.Unlock()

	p.log.Info("push topic unsubscribed", "topic", topic)
	return nil
}

// Subscribed reports whether the topic currently has a subscription.
func (p *Push) Subscribed(topic string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok := p.topics[topic]
	return ok
}
