package rbac

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultReloadChannel is the pub/sub channel used for reload announcements.
const DefaultReloadChannel = "rbac.reload"

// ReloadNotifier propagates role table reloads between instances over Redis
// pub/sub. Each instance ignores its own announcements.
type ReloadNotifier struct {
	client     *redis.Client
	channel    string
	instanceID string
	logger     *slog.Logger
}

// NewReloadNotifier constructs a notifier bound to channel.
func NewReloadNotifier(client *redis.Client, channel string, logger *slog.Logger) *ReloadNotifier {
	if channel == "" {
		channel = DefaultReloadChannel
	}
	return &ReloadNotifier{client: client, channel: channel, instanceID: uuid.NewString(), logger: logger}
}

// InstanceID identifies this process in announcements.
func (n *ReloadNotifier) InstanceID() string {
	if n == nil {
		return ""
	}
	return n.instanceID
}

// Publish announces a reload.
func (n *ReloadNotifier) Publish(ctx context.Context) error {
	if n == nil || n.client == nil {
		return nil
	}
	return n.client.Publish(ctx, n.channel, n.instanceID).Err()
}

// Listen subscribes to announcements from other instances and calls reload
// for each one until ctx is cancelled. The subscription is confirmed before
// Listen returns.
func (n *ReloadNotifier) Listen(ctx context.Context, reload func(context.Context) error) error {
	if n == nil || n.client == nil {
		return nil
	}
	pubsub := n.client.Subscribe(ctx, n.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}
	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if msg.Payload == n.instanceID {
					continue
				}
				if err := reload(ctx); err != nil && n.logger != nil {
					n.logger.Warn("rbac reload from peer", slog.String("peer", msg.Payload), slog.Any("error", err))
				}
			}
		}
	}()
	return nil
}
