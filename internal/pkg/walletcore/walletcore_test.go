package walletcore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(&Config{
		BaseURL:        server.URL,
		RequestTimeout: 5,
	})
}

func topupReq() *TopupRequest {
	return &TopupRequest{
		Amount:            150000,
		TransactionType:   "topup",
		TransactionStatus: "pending",
		CustomerID:        "cust-1",
	}
}

func TestCreateTopupTopLevelPaymentURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/wallet/topup", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(150000), body["amount"])
		assert.Equal(t, "topup", body["transactionType"])
		assert.Equal(t, "pending", body["transactionStatus"])
		assert.Equal(t, "cust-1", body["customerId"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"paymentUrl": "https://pay.example.com/session/abc",
		})
	})

	url, err := client.CreateTopup(context.Background(), topupReq())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/session/abc", url)
}

func TestCreateTopupNestedPaymentURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"data": map[string]any{
				"paymentUrl": "https://pay.example.com/session/nested",
			},
		})
	})

	url, err := client.CreateTopup(context.Background(), topupReq())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/session/nested", url)
}

func TestCreateTopupMalformedResponse(t *testing.T) {
	// A 200 with an empty object must surface as a malformed response, not a
	// success with an empty URL.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.CreateTopup(context.Background(), topupReq())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestCreateTopupUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})

	_, err := client.CreateTopup(context.Background(), topupReq())
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCreateTopupConnectionRefused(t *testing.T) {
	client := NewClient(&Config{
		BaseURL:        "http://127.0.0.1:1",
		RequestTimeout: 1,
	})

	_, err := client.CreateTopup(context.Background(), topupReq())
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestExtractPaymentURL(t *testing.T) {
	assert.Equal(t, "u", extractPaymentURL(map[string]any{"paymentUrl": "u"}))
	assert.Equal(t, "u", extractPaymentURL(map[string]any{"data": map[string]any{"paymentUrl": "u"}}))
	assert.Empty(t, extractPaymentURL(map[string]any{"data": map[string]any{}}))
	assert.Empty(t, extractPaymentURL(map[string]any{"paymentUrl": ""}))
	assert.Empty(t, extractPaymentURL("not a map"))
	assert.Empty(t, extractPaymentURL(nil))
}
