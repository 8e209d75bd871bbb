package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

// Consumer listens on BookingQueue and appends each order to
// <LogDir>/booking.log.
type Consumer struct {
    URL    string
    LogDir string
    Logger *zap.Logger
}

// Run connects to RabbitMQ, declares the durable queue and consumes until
// ctx is cancelled, reconnecting with backoff when the broker goes away.
// Messages that cannot be handled are rejected without requeue so a bad
// payload cannot spin the loop.
func (c *Consumer) Run(ctx context.Context) error {
    log := c.Logger
    if log == nil {
        log = zap.NewNop()
    }
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            log.Warn("booking consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consume(ctx, conn, log)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn("booking consumer: loop ended, reconnecting", zap.Error(err))
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection, log *zap.Logger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn("booking consumer: set QoS failed", zap.Error(err))
    }
    if _, err := ch.QueueDeclare(BookingQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(BookingQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.Handle(d.Body); err != nil {
                log.Error("booking consumer: handle message failed", zap.Error(err))
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// Handle decodes one message body and appends its log line.
func (c *Consumer) Handle(body []byte) error {
    var ev OrderConfirmedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.OrderID == "" {
        return errors.New("event without order id")
    }
    dir := c.LogDir
    if dir == "" {
        dir = "logs"
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(filepath.Join(dir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(ev.LogLine()); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
