package rabbitmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher struct {
	chManager *ChannelManager
	ctx       context.Context
}

func NewPublisher(ctx context.Context, connManager *ConnectionManager) (*Publisher, error) {
	if connManager == nil {
		return nil, fmt.Errorf("connection manager is required")
	}

	return &Publisher{
		chManager: NewChannelManager(ctx, connManager),
		ctx:       ctx,
	}, nil
}

// Publish declares the queue (durable by default) and sends the message to it
// through the default exchange.
func (p *Publisher) Publish(queueName string, msg *Message) error {
	return p.publish(queueName, msg.GeneratePayload())
}

func (p *Publisher) publish(queueName string, publishing *amqp.Publishing) error {
	ch, err := p.chManager.GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	config := DefaultQueueConfig()
	if _, err := ch.QueueDeclare(
		queueName,
		config.Durable,
		config.AutoDelete,
		config.Exclusive,
		config.NoWait,
		config.Args,
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	if err := ch.PublishWithContext(
		p.ctx,
		"", // default exchange
		queueName,
		false,
		false,
		*publishing,
	); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queueName, err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.chManager.Close()
}
