package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Forwarder relays events to systems outside the process.
type Forwarder interface {
	Forward(ctx context.Context, event Event) error
}

// Publisher is the subset of *nats.Conn the forwarder needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSForwarder publishes events as JSON on "<prefix>.<event type>".
type NATSForwarder struct {
	publisher Publisher
	prefix    string
}

// NewNATSForwarder wraps a publisher. An empty prefix publishes on the bare event type.
func NewNATSForwarder(publisher Publisher, prefix string) *NATSForwarder {
	return &NATSForwarder{publisher: publisher, prefix: strings.TrimSuffix(prefix, ".")}
}

// Subject returns the subject an event type is published on.
func (f *NATSForwarder) Subject(eventType EventType) string {
	if f.prefix == "" {
		return string(eventType)
	}
	return f.prefix + "." + string(eventType)
}

// Forward publishes the event.
func (f *NATSForwarder) Forward(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	if err := f.publisher.Publish(f.Subject(event.Type), data); err != nil {
		return fmt.Errorf("publish event %s: %w", event.ID, err)
	}
	return nil
}

// ConnectNATS dials the broker with reconnect handling wired to the logger.
// It returns nil, nil when url is empty.
func ConnectNATS(url, name string, logger *zap.Logger) (*nats.Conn, error) {
	if url == "" {
		logger.Warn("NATS_URL not provided; complaint events stay in-process")
		return nil, nil
	}

	opts := []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.Timeout(10 * time.Second),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			logger.Info("nats connection closed")
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to nats", zap.String("url", url))
	return conn, nil
}
