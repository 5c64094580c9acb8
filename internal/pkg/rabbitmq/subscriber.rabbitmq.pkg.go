package rabbitmq

import (
	"context"
	"decor-wallet/internal/pkg/logger"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	amqp "github.com/rabbitmq/amqp091-go"
)

type MessageHandler func(msg *amqp.Delivery) error

type RetryStrategy string

const (
	FixedRetry       RetryStrategy = "fixed"
	ExponentialRetry RetryStrategy = "exponential"
	LinearRetry      RetryStrategy = "linear"
)

type SubscribeOptions struct {
	QueueOpts        *QueueConfig
	QueueName        string
	ConsumerName     string
	AutoAck          bool
	WorkerCount      int
	PrefetchCount    int
	MaxRetryAttempts int
	EnableDeadLetter bool
	DeadLetterName   string
	RetryStrategy    RetryStrategy
	BaseRetryDelay   time.Duration
	MaxRetryDelay    time.Duration
}

func DefaultSubscribeOptions(queueName string) *SubscribeOptions {
	return &SubscribeOptions{
		QueueOpts:        nil,
		QueueName:        queueName,
		ConsumerName:     queueName,
		AutoAck:          false,
		WorkerCount:      3,
		PrefetchCount:    10,
		MaxRetryAttempts: 5,
		EnableDeadLetter: true,
		DeadLetterName:   "fail:" + queueName,
		RetryStrategy:    FixedRetry,
		BaseRetryDelay:   time.Second * 5,
		MaxRetryDelay:    time.Minute * 10,
	}
}

type Subscriber struct {
	connManager     *ConnectionManager
	channelManagers []*ChannelManager
	handler         MessageHandler
	opts            *SubscribeOptions
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	isRunning       atomic.Bool
	pool            *ants.Pool
}

func NewSubscriber(ctx context.Context, connManager *ConnectionManager, handler MessageHandler, opts *SubscribeOptions) (*Subscriber, error) {
	ctx, cancel := context.WithCancel(ctx)

	poolOpts := ants.Options{
		ExpiryDuration: time.Hour,
		PreAlloc:       true,
		Nonblocking:    true,
		PanicHandler: func(i interface{}) {
			logger.Error.Printf("Worker panic: %v\n", i)
		},
	}

	pool, err := ants.NewPool(opts.WorkerCount, ants.WithOptions(poolOpts))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create subscriber worker pool: %w", err)
	}

	sub := &Subscriber{
		connManager:     connManager,
		handler:         handler,
		opts:            opts,
		ctx:             ctx,
		cancel:          cancel,
		channelManagers: make([]*ChannelManager, opts.WorkerCount),
		pool:            pool,
	}

	for i := 0; i < opts.WorkerCount; i++ {
		sub.channelManagers[i] = NewChannelManager(ctx, connManager)
	}

	return sub, nil
}

func (s *Subscriber) declareQueue(workerID int) (*amqp.Queue, error) {
	ch, err := s.channelManagers[workerID].GetChannel()
	if err != nil || ch == nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	if err := ch.Qos(s.opts.PrefetchCount, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	config := s.opts.QueueOpts
	if config == nil {
		config = DefaultQueueConfig()
	}
	if config.Args == nil {
		config.Args = make(amqp.Table)
	}

	reply, err := ch.QueueDeclare(
		s.opts.QueueName,
		config.Durable,
		config.AutoDelete,
		config.Exclusive,
		config.NoWait,
		config.Args,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &reply, nil
}

func (s *Subscriber) Start() error {
	if s.isRunning.Swap(true) {
		return fmt.Errorf("subscriber is already running")
	}

	for i := 0; i < s.opts.WorkerCount; i++ {
		s.wg.Add(1)
		workerID := i
		if err := s.pool.Submit(func() {
			defer s.wg.Done()
			s.runWorker(workerID)
		}); err != nil {
			s.wg.Done()
			return fmt.Errorf("failed to submit worker %d: %w", workerID, err)
		}
	}

	return nil
}

func (s *Subscriber) runWorker(workerID int) {
	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		if err := s.consume(workerID); err != nil {
			logger.Warning.Printf("Worker %d consume error: %v. Restarting...\n", workerID, err)
			// Back off before reconnecting to avoid a CPU spike while the
			// broker is down.
			time.Sleep(time.Second * 2)
		}
	}
}

func (s *Subscriber) consume(workerID int) error {
	q, err := s.declareQueue(workerID)
	if err != nil {
		return err
	}

	ch, err := s.channelManagers[workerID].GetChannel()
	if err != nil || ch == nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	consumerName := fmt.Sprintf("%s-%d-%d", s.opts.ConsumerName, workerID, time.Now().Unix())
	msgs, err := ch.ConsumeWithContext(
		s.ctx,
		q.Name,
		consumerName,
		s.opts.AutoAck,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming %d: %w", workerID, err)
	}

	for msg := range msgs {
		select {
		case <-s.ctx.Done():
			return nil
		default:
		}

		if err := s.processMessage(workerID, &msg); err != nil {
			logger.Error.Printf("Worker %d failed to process message: %v\n", workerID, err)
		}
	}

	return nil
}

func (s *Subscriber) processMessage(workerID int, msg *amqp.Delivery) error {
	deliveryCount := s.getDeliveryCount(msg)

	if err := s.handler(msg); err != nil {
		return s.handleProcessingError(workerID, msg, err, deliveryCount)
	}

	if !s.opts.AutoAck {
		if err := msg.Ack(false); err != nil {
			return fmt.Errorf("failed to acknowledge message: %w", err)
		}
	}

	return nil
}

func (s *Subscriber) getDeliveryCount(msg *amqp.Delivery) int {
	deliveryCount := 0
	if msg.Headers != nil {
		if count, exists := msg.Headers["x-retry-count"]; exists {
			switch v := count.(type) {
			case int:
				deliveryCount = v
			case int32:
				deliveryCount = int(v)
			case int64:
				deliveryCount = int(v)
			default:
				logger.Warning.Printf("Unexpected type for x-retry-count: %T", v)
			}
		}
	}

	if msg.Redelivered && deliveryCount == 0 {
		deliveryCount = 1
	}

	return deliveryCount
}

func (s *Subscriber) handleProcessingError(workerID int, msg *amqp.Delivery, err error, deliveryCount int) error {
	if deliveryCount >= s.opts.MaxRetryAttempts {
		if s.opts.EnableDeadLetter {
			return s.moveToDeadLetter(workerID, msg, err)
		}

		if rejectErr := msg.Reject(false); rejectErr != nil {
			return fmt.Errorf("failed to reject message: %w", rejectErr)
		}
		return nil
	}

	if retryErr := s.republishWithDelay(workerID, msg, deliveryCount+1); retryErr != nil {
		return fmt.Errorf("failed to republish message with delay: %w", retryErr)
	}

	return fmt.Errorf("handler error on attempt %d: %w", deliveryCount+1, err)
}

func (s *Subscriber) moveToDeadLetter(workerID int, msg *amqp.Delivery, err error) error {
	if !s.opts.AutoAck {
		if ackErr := msg.Ack(false); ackErr != nil {
			return fmt.Errorf("failed to acknowledge message: %w", ackErr)
		}
	}

	ch, chErr := s.channelManagers[workerID].GetChannel()
	if chErr != nil || ch == nil {
		return fmt.Errorf("failed to get channel for dead letter: %w", chErr)
	}

	config := DefaultQueueConfig()
	if _, qErr := ch.QueueDeclare(
		s.opts.DeadLetterName,
		config.Durable,
		config.AutoDelete,
		config.Exclusive,
		config.NoWait,
		config.Args,
	); qErr != nil {
		return fmt.Errorf("failed to declare dead letter queue: %w", qErr)
	}

	headers := msg.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers["x-death-reason"] = err.Error()
	headers["x-original-queue"] = s.opts.QueueName

	if pubErr := ch.PublishWithContext(s.ctx, "", s.opts.DeadLetterName, false, false, amqp.Publishing{
		ContentType:  msg.ContentType,
		Body:         msg.Body,
		MessageId:    msg.MessageId,
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
		Headers:      headers,
	}); pubErr != nil {
		return fmt.Errorf("failed to publish to dead letter queue: %w", pubErr)
	}

	logger.Warning.Printf("Worker %d moved message %s to dead letter %s: %v\n",
		workerID, msg.MessageId, s.opts.DeadLetterName, err)
	return nil
}

func (s *Subscriber) republishWithDelay(workerID int, msg *amqp.Delivery, retryCount int) error {
	if !s.opts.AutoAck {
		if ackErr := msg.Ack(false); ackErr != nil {
			return fmt.Errorf("failed to acknowledge message before retry: %w", ackErr)
		}
	}

	delay := s.calculateRetryDelay(retryCount)
	time.Sleep(delay)

	headers := msg.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers["x-retry-count"] = retryCount

	ch, err := s.channelManagers[workerID].GetChannel()
	if err != nil || ch == nil {
		return fmt.Errorf("failed to get channel for retry: %w", err)
	}

	return ch.PublishWithContext(s.ctx, "", s.opts.QueueName, false, false, amqp.Publishing{
		ContentType:  msg.ContentType,
		Body:         msg.Body,
		MessageId:    msg.MessageId,
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
		Headers:      headers,
	})
}

func (s *Subscriber) calculateRetryDelay(retryCount int) time.Duration {
	var delay time.Duration

	switch s.opts.RetryStrategy {
	case ExponentialRetry:
		delay = s.opts.BaseRetryDelay * time.Duration(1<<uint(retryCount-1))
	case LinearRetry:
		delay = s.opts.BaseRetryDelay * time.Duration(retryCount)
	default:
		delay = s.opts.BaseRetryDelay
	}

	if delay > s.opts.MaxRetryDelay {
		delay = s.opts.MaxRetryDelay
	}

	return delay
}

func (s *Subscriber) Stop() error {
	s.cancel()
	s.wg.Wait()

	for _, cm := range s.channelManagers {
		if err := cm.Close(); err != nil {
			logger.Warning.Printf("Failed to close subscriber channel: %v\n", err)
		}
	}

	s.pool.Release()
	s.isRunning.Store(false)
	return nil
}

func (s *Subscriber) IsHealthy() bool {
	return s.isRunning.Load() && !s.connManager.IsClosed()
}
