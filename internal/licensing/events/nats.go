package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is prepended to every event type.
const DefaultSubjectPrefix = "licensing."

type natsConn interface {
	Publish(subj string, data []byte) error
	Drain() error
	IsConnected() bool
}

// NATSPublisher publishes events as JSON on core NATS subjects.
type NATSPublisher struct {
	conn   natsConn
	prefix string
}

// Connect dials url and returns a publisher. The connection retries in the
// background so a NATS outage never blocks startup.
func Connect(url, name string, logger *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ReconnectBufSize(8*1024*1024),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error("nats error", slog.Any("error", err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return NewNATSPublisher(nc, DefaultSubjectPrefix), nil
}

// NewNATSPublisher wraps an established connection.
func NewNATSPublisher(nc *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: nc, prefix: prefix}
}

// Subject returns the subject an event of type t is published on.
func (p *NATSPublisher) Subject(t string) string { return p.prefix + t }

func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", e.Type, err)
	}
	if err := p.conn.Publish(p.Subject(e.Type), data); err != nil {
		return fmt.Errorf("publish %s: %w", p.Subject(e.Type), err)
	}
	return nil
}

// Healthy reports whether the connection to the server is currently up.
func (p *NATSPublisher) Healthy() error {
	if !p.conn.IsConnected() {
		return errors.New("nats not connected")
	}
	return nil
}

// Close flushes buffered messages and closes the connection.
func (p *NATSPublisher) Close() error { return p.conn.Drain() }
