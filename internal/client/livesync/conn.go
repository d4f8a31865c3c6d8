// Package livesync adapts the document-sync service's push model (register a
// callback, explicitly unregister it) into cancellable snapshot subscriptions
// with deterministic teardown on every exit path.
package livesync

import (
	"context"

	"github.com/nats-io/nats.go"
)

// Unsubscriber releases a raw transport subscription.
type Unsubscriber interface {
	Unsubscribe() error
}

// Conn is the narrow slice of the messaging transport livesync needs.
// *nats.Conn is adapted by NewNATSConn; tests substitute a fake.
type Conn interface {
	// Subscribe registers handler for every payload published on subject.
	Subscribe(subject string, handler func(data []byte)) (Unsubscriber, error)
	// Request performs a request/reply roundtrip bounded by ctx.
	Request(ctx context.Context, subject string, payload []byte) ([]byte, error)
	// Publish sends a fire-and-forget payload.
	Publish(subject string, payload []byte) error
	// NewInbox returns a unique subject for receiving pushed snapshots.
	NewInbox() string
}

type natsConn struct {
	nc *nats.Conn
}

// NewNATSConn wraps an established NATS connection.
func NewNATSConn(nc *nats.Conn) Conn {
	return &natsConn{nc: nc}
}

func (c *natsConn) Subscribe(subject string, handler func(data []byte)) (Unsubscriber, error) {
	return c.nc.Subscribe(subject, func(m *nats.Msg) {
		handler(m.Data)
	})
}

func (c *natsConn) Request(ctx context.Context, subject string, payload []byte) ([]byte, error) {
	msg, err := c.nc.RequestWithContext(ctx, subject, payload)
	if err != nil {
		return nil, err
	}
	return msg.Data, nil
}

func (c *natsConn) Publish(subject string, payload []byte) error {
	return c.nc.Publish(subject, payload)
}

func (c *natsConn) NewInbox() string {
	return nats.NewInbox()
}
