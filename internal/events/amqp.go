package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// AMQPPublisher publishes events to a durable direct exchange.
type AMQPPublisher struct {
	mu           sync.Mutex
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

var _ Publisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher dials the broker and declares the exchange, queue and binding.
func NewAMQPPublisher(url, exchangeName, queueName string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &AMQPPublisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := p.setup(); err != nil {
		p.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return p, nil
}

func (p *AMQPPublisher) setup() error {
	err := p.channel.ExchangeDeclare(
		p.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = p.channel.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key is the event type so consumers can bind per event.
	err = p.channel.QueueBind(
		p.queueName,
		TypeExpenseAdded,
		p.exchangeName,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishExpenseAdded publishes a persistent expense.added message.
func (p *AMQPPublisher) PublishExpenseAdded(ctx context.Context, msg *ExpenseAddedMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName,   // exchange
		TypeExpenseAdded, // routing key
		false,            // mandatory
		false,            // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
			Type:         msg.Type,
			MessageId:    msg.ExpenseID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.DebugContext(ctx, "Published expense event",
		"expense_id", msg.ExpenseID,
		"group_id", msg.GroupID,
		"exchange", p.exchangeName,
	)

	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
