package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher sends reservation events to RabbitMQ. Publishing is best-effort:
// errors are logged and returned so callers can ignore them without
// interrupting the request flow.
type Publisher struct {
	url string
}

// NewPublisher returns a publisher for the given broker URL. An empty URL
// yields a disabled publisher whose Publish is a no-op.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// Publish declares the durable events queue and sends one persistent
// message. Each publish uses a short-lived connection; event volume here is
// one message per mutation, not a hot path.
func (p *Publisher) Publish(ctx context.Context, ev ReservationEvent) error {
	if p == nil || p.url == "" {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		logrus.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logrus.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		EventsQueueName, // name
		true,            // durable
		false,           // autoDelete
		false,           // exclusive
		false,           // noWait
		nil,             // args
	); err != nil {
		logrus.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		logrus.WithError(err).Warn("rabbitmq: marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",              // default exchange
		EventsQueueName, // routing key = queue name
		false,           // mandatory
		false,           // immediate
		pub,
	); err != nil {
		logrus.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	return nil
}
