// Package rabbitmq fans status broadcasts out to a RabbitMQ exchange so
// consumers that do not hold a TCP session can follow the dispatch state.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dispatch/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is the fanout exchange used when none is configured.
const DefaultExchange = "dispatch.status"

var ErrPublisherClosed = errors.New("rabbitmq publisher is closed")

var _ ports.StatusPublisher = (*Publisher)(nil)

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	timeout  time.Duration

	mu     sync.Mutex
	closed bool
}

// Dial connects to url and declares exchange as a durable fanout exchange.
func Dial(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeFanout,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	p := newPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, timeout: 5 * time.Second}
}

// Publish sends payload with the message type as routing key. Messages are
// transient: a status snapshot is stale as soon as the next one is out.
func (p *Publisher) Publish(ctx context.Context, topic string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.ch.PublishWithContext(ctx, p.exchange, topic,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Transient,
			ContentType:  "application/json",
			Timestamp:    time.Now().UTC(),
			Type:         topic,
			Headers:      amqp.Table{"x-source": "dispatch"},
			Body:         payload,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	err := p.ch.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}
