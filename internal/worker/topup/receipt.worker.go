package topup

import (
	"context"
	"decor-wallet/internal/common/enum"
	"decor-wallet/internal/pkg/helper"
	"decor-wallet/internal/pkg/logger"
	"decor-wallet/internal/pkg/rabbitmq"
	s3aws "decor-wallet/internal/pkg/storage/s3"
	topupService "decor-wallet/internal/service/topup"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Worker consumes resolved top-up events and writes a receipt document to
// object storage for every successful top-up.
type Worker struct {
	ctx        context.Context
	rb         *rabbitmq.ConnectionManager
	s3         s3aws.Is3
	subscriber *rabbitmq.Subscriber
}

type Receipt struct {
	OrderRef      string    `json:"order_ref"`
	CustomerID    string    `json:"customer_id"`
	Amount        int64     `json:"amount"`
	AmountDisplay string    `json:"amount_display"`
	Channel       string    `json:"channel"`
	Status        string    `json:"status"`
	ResponseCode  string    `json:"response_code"`
	Source        string    `json:"source"`
	ResolvedAt    time.Time `json:"resolved_at"`
	GeneratedAt   time.Time `json:"generated_at"`
}

func NewWorker(ctx context.Context, rb *rabbitmq.ConnectionManager, s3 s3aws.Is3) *Worker {
	return &Worker{
		ctx: ctx,
		rb:  rb,
		s3:  s3,
	}
}

// Subscribe attaches to the resolved-event queue and blocks until the
// subscriber stops.
func (w *Worker) Subscribe() error {
	subscriber, err := rabbitmq.NewSubscriber(
		w.ctx,
		w.rb,
		w.handleResolved,
		rabbitmq.DefaultSubscribeOptions(topupService.QueueTopupResolved),
	)
	if err != nil {
		return fmt.Errorf("failed to create receipt subscriber: %w", err)
	}

	w.subscriber = subscriber
	return subscriber.Start()
}

func (w *Worker) Stop() error {
	if w.subscriber == nil {
		return nil
	}
	return w.subscriber.Stop()
}

func (w *Worker) handleResolved(msg *amqp.Delivery) error {
	var body rabbitmq.PubsubBody
	if err := json.Unmarshal(msg.Body, &body); err != nil {
		return fmt.Errorf("malformed resolved event: %w", err)
	}

	data, ok := body.Data.(map[string]interface{})
	if !ok {
		return fmt.Errorf("malformed resolved event data for message %s", body.ID)
	}

	orderRef := *helper.GetMapStringValue(data, "order_ref")
	if orderRef == "" {
		return fmt.Errorf("resolved event without order ref in message %s", body.ID)
	}

	status := *helper.GetMapStringValue(data, "status")
	if status != enum.TopupSucceeded.ToString() {
		logger.Debug.Printf("no receipt for %s: status %s", orderRef, status)
		return nil
	}

	amount := *helper.GetMapInt64Value(data, "amount")
	resolvedAt := helper.GetMapDateTimeValue(data, "resolved_at")
	if resolvedAt == nil {
		now := time.Now().UTC()
		resolvedAt = &now
	}

	receipt := Receipt{
		OrderRef:      orderRef,
		CustomerID:    *helper.GetMapStringValue(data, "customer_id"),
		Amount:        amount,
		AmountDisplay: helper.FormatVND(amount),
		Channel:       *helper.GetMapStringValue(data, "channel"),
		Status:        status,
		ResponseCode:  *helper.GetMapStringValue(data, "response_code"),
		Source:        *helper.GetMapStringValue(data, "source"),
		ResolvedAt:    *resolvedAt,
		GeneratedAt:   time.Now(),
	}

	doc, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return err
	}

	key := fmt.Sprintf("receipts/%s/%s.json", resolvedAt.Format("2006/01"), orderRef)
	if err := w.s3.UploadFile(key, doc, "application/json"); err != nil {
		return fmt.Errorf("failed to upload receipt %s: %w", key, err)
	}

	logger.Info.Printf("receipt stored for %s at %s", orderRef, key)
	return nil
}
