package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DispenseQueue is the queue dispense events are published to.
const DispenseQueue = "dispense.recorded"

// Publisher emits domain events to a message broker.
type Publisher interface {
	PublishDispenseRecorded(ctx context.Context, event DispenseRecordedEvent) error
}

// AMQPPublisher publishes events to RabbitMQ. It dials per publish so a
// broker restart never leaves the service holding a dead connection.
// Errors are logged and returned so callers can ignore failures without
// interrupting the request flow.
type AMQPPublisher struct {
	url string
}

// NewPublisher creates an AMQP publisher for the given broker URL.
func NewPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

// PublishDispenseRecorded publishes event to the dispense queue. The queue
// is declared durable and messages are marked persistent so confirmed
// dispenses survive a broker restart.
func (p *AMQPPublisher) PublishDispenseRecorded(ctx context.Context, event DispenseRecordedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent).
	if _, err := ch.QueueDeclare(
		DispenseQueue, // name
		true,          // durable
		false,         // autoDelete
		false,         // exclusive
		false,         // noWait
		nil,           // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",            // default exchange
		DispenseQueue, // routing key = queue name
		false,         // mandatory
		false,         // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
