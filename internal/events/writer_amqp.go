package events

import (
	"context"
	"fmt"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AMQPWriter publishes events to a RabbitMQ topic exchange, routed by event type.
type AMQPWriter struct {
	lock     sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewAMQPWriter(url, exchange string) (*AMQPWriter, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange, // name
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	zap.S().Named("amqp_writer").Infof("connected to RabbitMQ, publishing to exchange %s", exchange)

	return &AMQPWriter{conn: conn, channel: ch, exchange: exchange}, nil
}

func (a *AMQPWriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	body, err := e.MarshalJSON()
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.channel.PublishWithContext(
		ctx,
		a.exchange,
		e.Type(), // routing key
		false,    // mandatory
		false,    // immediate
		amqp.Publishing{
			ContentType:  cloudevents.ApplicationCloudEventsJSON,
			DeliveryMode: amqp.Persistent,
			MessageId:    e.ID(),
			Type:         e.Type(),
			Timestamp:    e.Time(),
			AppId:        topic,
			Body:         body,
		},
	)
}

func (a *AMQPWriter) Close(_ context.Context) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if err := a.channel.Close(); err != nil {
		_ = a.conn.Close()
		return err
	}
	return a.conn.Close()
}
