package topup

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"decor-wallet/internal/pkg/rabbitmq"
	topupService "decor-wallet/internal/service/topup"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	keys         []string
	docs         [][]byte
	contentTypes []string
}

func (f *fakeS3) GetBucketName() string { return "receipts-test" }

func (f *fakeS3) UploadFile(fileName string, fileBytes []byte, contentType string) error {
	f.keys = append(f.keys, fileName)
	f.docs = append(f.docs, fileBytes)
	f.contentTypes = append(f.contentTypes, contentType)
	return nil
}

func (f *fakeS3) GetPresignedURL(string) (string, error) { return "", nil }

func resolvedDelivery(t *testing.T, event topupService.TopupResolvedEvent) *amqp.Delivery {
	t.Helper()
	raw, err := json.Marshal(rabbitmq.PubsubBody{
		Pattern: topupService.QueueTopupResolved,
		Data:    event,
		ID:      "msg_test",
	})
	require.NoError(t, err)
	return &amqp.Delivery{Body: raw}
}

func TestHandleResolvedStoresReceipt(t *testing.T) {
	s3 := &fakeS3{}
	w := NewWorker(context.Background(), nil, s3)

	resolvedAt := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	msg := resolvedDelivery(t, topupService.TopupResolvedEvent{
		OrderRef:     "TOPUP-TESTORDER000001",
		CustomerID:   "cust-1",
		Amount:       150000,
		Channel:      "vnpay",
		Status:       "succeeded",
		ResponseCode: "00",
		Source:       "navigation_state",
		ResolvedAt:   resolvedAt,
	})

	require.NoError(t, w.handleResolved(msg))
	require.Len(t, s3.keys, 1)
	assert.Equal(t, "receipts/2026/08/TOPUP-TESTORDER000001.json", s3.keys[0])
	assert.Equal(t, "application/json", s3.contentTypes[0])

	var receipt Receipt
	require.NoError(t, json.Unmarshal(s3.docs[0], &receipt))
	assert.Equal(t, int64(150000), receipt.Amount)
	assert.Equal(t, "150.000 ₫", receipt.AmountDisplay)
	assert.Equal(t, "navigation_state", receipt.Source)
	assert.True(t, resolvedAt.Equal(receipt.ResolvedAt))
}

func TestHandleResolvedSkipsFailedTopups(t *testing.T) {
	s3 := &fakeS3{}
	w := NewWorker(context.Background(), nil, s3)

	msg := resolvedDelivery(t, topupService.TopupResolvedEvent{
		OrderRef:     "TOPUP-TESTORDER000002",
		Amount:       50000,
		Status:       "failed",
		ResponseCode: "24",
		ResolvedAt:   time.Now(),
	})

	require.NoError(t, w.handleResolved(msg))
	assert.Empty(t, s3.keys)
}

func TestHandleResolvedRejectsMalformedMessages(t *testing.T) {
	s3 := &fakeS3{}
	w := NewWorker(context.Background(), nil, s3)

	assert.Error(t, w.handleResolved(&amqp.Delivery{Body: []byte("not json")}))

	raw, err := json.Marshal(rabbitmq.PubsubBody{Pattern: topupService.QueueTopupResolved, Data: "plain string"})
	require.NoError(t, err)
	assert.Error(t, w.handleResolved(&amqp.Delivery{Body: raw}))

	raw, err = json.Marshal(rabbitmq.PubsubBody{
		Pattern: topupService.QueueTopupResolved,
		Data:    map[string]any{"status": "succeeded"},
	})
	require.NoError(t, err)
	assert.Error(t, w.handleResolved(&amqp.Delivery{Body: raw}))

	assert.Empty(t, s3.keys)
}
