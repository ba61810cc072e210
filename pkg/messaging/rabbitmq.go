package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wageflow/wageflow-backend/pkg/config"
	"github.com/wageflow/wageflow-backend/pkg/logger"
)

// ErrClosed is returned by Reconnect after Close.
var ErrClosed = errors.New("rabbitmq connection is permanently closed")

// RabbitMQ manages the connection to RabbitMQ
type RabbitMQ struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	exchanges []string
	config    *config.RabbitMQConfig
	logger    *logger.Logger
	mu        sync.RWMutex
	closed    bool
}

// New dials the broker, retrying up to MaxRetries times with ReconnectDelay between attempts.
func New(ctx context.Context, cfg *config.RabbitMQConfig, log *logger.Logger) (*RabbitMQ, error) {
	rmq := &RabbitMQ{
		config: cfg,
		logger: log,
	}

	if err := rmq.dialWithRetry(ctx); err != nil {
		return nil, err
	}
	return rmq, nil
}

func (r *RabbitMQ) attempts() int {
	if r.config.MaxRetries < 1 {
		return 1
	}
	return r.config.MaxRetries
}

// dialWithRetry replaces the current connection with a fresh one.
func (r *RabbitMQ) dialWithRetry(ctx context.Context) error {
	var err error
	for i := 0; i < r.attempts(); i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.config.ReconnectDelay):
			}
		}

		var conn *amqp.Connection
		var ch *amqp.Channel
		if conn, ch, err = r.dial(); err == nil {
			r.mu.Lock()
			r.conn, r.channel = conn, ch
			r.mu.Unlock()
			r.logger.Info().Msg("connected to RabbitMQ")
			return nil
		}
		r.logger.Warn().Err(err).Int("attempt", i+1).Msg("RabbitMQ connection attempt failed")
	}
	return fmt.Errorf("failed to connect after %d attempts: %w", r.attempts(), err)
}

func (r *RabbitMQ) dial() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(r.config.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return conn, ch, nil
}

// Channel returns the current channel, nil before the first connection
func (r *RabbitMQ) Channel() *amqp.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channel
}

func (r *RabbitMQ) isClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

// Close closes the RabbitMQ connection
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true

	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			r.logger.Warn().Err(err).Msg("failed to close channel")
		}
	}

	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}

	r.logger.Info().Msg("RabbitMQ connection closed")
	return nil
}

// Health returns the health status of RabbitMQ
func (r *RabbitMQ) Health() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := map[string]string{
		"status": "up",
	}

	if r.conn == nil || r.conn.IsClosed() {
		status["status"] = "down"
		status["error"] = "connection closed"
	}

	return status
}

// DeclareExchange declares a durable topic exchange. Declared exchanges are
// declared again after a reconnect.
func (r *RabbitMQ) DeclareExchange(name string) error {
	if err := declareTopic(r.Channel(), name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.exchanges {
		if e == name {
			return nil
		}
	}
	r.exchanges = append(r.exchanges, name)
	return nil
}

func declareTopic(ch *amqp.Channel, name string) error {
	if ch == nil {
		return ErrNotConnected
	}
	return ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-deleted
		false,   // internal
		false,   // no-wait
		nil,     // arguments
	)
}

// Reconnect replaces a dropped connection and redeclares the known exchanges.
func (r *RabbitMQ) Reconnect(ctx context.Context) error {
	if r.isClosed() {
		return ErrClosed
	}

	r.mu.Lock()
	old := r.conn
	r.mu.Unlock()
	if old != nil && !old.IsClosed() {
		_ = old.Close()
	}

	if err := r.dialWithRetry(ctx); err != nil {
		return err
	}

	r.mu.RLock()
	ch, exchanges := r.channel, append([]string(nil), r.exchanges...)
	r.mu.RUnlock()

	for _, name := range exchanges {
		if err := declareTopic(ch, name); err != nil {
			return fmt.Errorf("failed to redeclare exchange %s: %w", name, err)
		}
	}
	return nil
}

// Watch reconnects whenever the broker drops the connection or the channel.
// It returns when ctx is done or after Close.
func (r *RabbitMQ) Watch(ctx context.Context) {
	for {
		if r.isClosed() {
			return
		}

		r.mu.RLock()
		conn, ch := r.conn, r.channel
		r.mu.RUnlock()
		if conn == nil || ch == nil {
			return
		}

		connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
		chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))

		var reason *amqp.Error
		select {
		case <-ctx.Done():
			return
		case reason = <-connClosed:
		case reason = <-chClosed:
		}

		if r.isClosed() {
			return
		}

		r.logger.Warn().Interface("reason", reason).Msg("RabbitMQ connection lost, reconnecting")
		if err := r.Reconnect(ctx); err != nil {
			if errors.Is(err, ErrClosed) || ctx.Err() != nil {
				return
			}
			r.logger.Error().Err(err).Msg("RabbitMQ reconnect failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(r.config.ReconnectDelay):
			}
		}
	}
}
