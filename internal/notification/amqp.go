package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// AMQPSink publishes notifications to a RabbitMQ fanout exchange.
type AMQPSink struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

// transferMessage is the payload published for every completed transfer.
type transferMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAMQPSink connects to the broker and declares the notification exchange.
func NewAMQPSink(source, exchange string) (*AMQPSink, error) {
	conn, err := amqp091.Dial(source)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = channel.ExchangeDeclare(
		exchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()

		return nil, err
	}

	return &AMQPSink{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

// Notify publishes the message to the notification exchange.
func (s *AMQPSink) Notify(ctx context.Context, message string) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	body, err := json.Marshal(transferMessage{
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(ctx,
		s.exchange,
		"", // fanout ignores the routing key
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Body:         body,
		},
	)
}

// Close releases the channel and connection.
func (s *AMQPSink) Close() {
	if s.channel != nil {
		s.channel.Close()
	}

	if s.conn != nil {
		s.conn.Close()
	}
}
