package ports

import "context"

// PushClient is the boundary to the push-messaging vendor.
type PushClient interface {
	SubscribeTopic(ctx context.Context, topic string) error
	UnsubscribeTopic(ctx context.Context, topic string) error
}
