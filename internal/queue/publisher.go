package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/party-rental/internal/logger"
)

// Publisher sends rental events to RabbitMQ. Each call dials its own
// connection; event volume is a handful per rental.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// Publish delivers ev as a persistent JSON message on QueueName. Errors are
// logged and returned so callers may ignore them.
func (p *Publisher) Publish(ctx context.Context, ev ReservationEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(3 * time.Second),
	})
	if err != nil {
		logger.Warn("rabbitmq dial failed", "error", err)
		return errors.Wrap(err, "queue: dial")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn("rabbitmq channel open failed", "error", err)
		return errors.Wrap(err, "queue: channel")
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		logger.Warn("rabbitmq queue declare failed", "queue", QueueName, "error", err)
		return errors.Wrap(err, "queue: declare")
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "queue: marshal event")
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", QueueName, false, false, pub); err != nil {
		logger.Warn("rabbitmq publish failed", "type", ev.Type, "error", err)
		return errors.Wrap(err, "queue: publish")
	}
	logger.Debug("event published", "type", ev.Type, "event_id", ev.EventID)
	return nil
}
