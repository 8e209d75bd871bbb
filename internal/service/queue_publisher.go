// Package queue_publisher publishes domain events to RabbitMQ.  Errors are
// logged and returned so callers can ignore failures without interrupting
// the main request flow.
package queue_publisher

import (
    "context"
    "encoding/json"
    "net"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    q "github.com/iliyamo/cinemax-booking/internal/queue"
)

// Publisher dials the broker at URL for every event.  Orders are rare
// enough that a pooled connection is not worth its reconnect logic.
type Publisher struct {
    URL    string
    Logger *zap.Logger
}

// New returns a Publisher for url.
func New(url string, logger *zap.Logger) *Publisher {
    if logger == nil {
        logger = zap.NewNop()
    }
    return &Publisher{URL: url, Logger: logger}
}

// PublishOrderConfirmed sends event to the booking.confirmed queue as a
// persistent JSON message.
func (p *Publisher) PublishOrderConfirmed(ctx context.Context, event q.OrderConfirmedEvent) error {
    log := p.Logger.With(zap.String("order_id", event.OrderID))

    conn, err := p.dial(ctx)
    if err != nil {
        log.Warn("rabbitmq: dial failed", zap.Error(err))
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Warn("rabbitmq: channel open failed", zap.Error(err))
        return err
    }
    defer func() { _ = ch.Close() }()

    // durable so messages survive broker restarts
    if _, err := ch.QueueDeclare(q.BookingQueue, true, false, false, false, nil); err != nil {
        log.Warn("rabbitmq: queue declare failed", zap.Error(err))
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        log.Warn("rabbitmq: marshal event failed", zap.Error(err))
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    event.OrderID,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", q.BookingQueue, false, false, pub); err != nil {
        log.Warn("rabbitmq: publish failed", zap.Error(err))
        return err
    }
    return nil
}

// dial connects within ctx: the TCP connect and the AMQP handshake both
// give up at ctx's deadline instead of amqp's 30s default.
func (p *Publisher) dial(ctx context.Context) (*amqp.Connection, error) {
    return amqp.DialConfig(p.URL, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial: func(network, addr string) (net.Conn, error) {
            var d net.Dialer
            conn, err := d.DialContext(ctx, network, addr)
            if err != nil {
                return nil, err
            }
            if dl, ok := ctx.Deadline(); ok {
                // cleared by amqp once the handshake completes
                _ = conn.SetDeadline(dl)
            }
            return conn, nil
        },
    })
}

// Noop drops every event.  It is used when EVENTS_ENABLED is false.
type Noop struct{}

func (Noop) PublishOrderConfirmed(context.Context, q.OrderConfirmedEvent) error { return nil }
