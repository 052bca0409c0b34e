package ports

import "context"

// StatusPublisher receives every encoded broadcast in addition to the
// connected sessions. topic is the message type, e.g. "system_status".
type StatusPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}
