package walletcore

import (
	"context"
	"decor-wallet/internal/pkg/helper"
	"decor-wallet/internal/pkg/logger"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors the service layer maps onto user-facing responses.
var (
	// ErrGatewayUnavailable covers network failures and non-2xx responses
	// from wallet-core.
	ErrGatewayUnavailable = errors.New("wallet-core unavailable")
	// ErrMalformedResponse means wallet-core answered but no payment URL
	// could be discovered anywhere in the body.
	ErrMalformedResponse = errors.New("wallet-core response carries no payment URL")
)

type Config struct {
	BaseURL        string
	ProxyURL       string
	SkipTLSVerify  bool
	RequestTimeout int
}

type Client struct {
	http    *helper.VPNHTTPClient
	baseURL string
}

// TopupRequest is the wallet-core top-up contract.
type TopupRequest struct {
	Amount            int64  `json:"amount"`
	TransactionType   string `json:"transactionType"`
	TransactionStatus string `json:"transactionStatus"`
	CustomerID        string `json:"customerId"`
}

func NewClient(cfg *Config) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30
	}

	return &Client{
		http: helper.NewVPNHTTPClient(&helper.VPNConfig{
			ProxyURL:       cfg.ProxyURL,
			SkipTLSVerify:  cfg.SkipTLSVerify,
			RequestTimeout: timeout,
		}),
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

// CreateTopup asks wallet-core for a payment session and returns the gateway
// payment URL. Wallet-core gives no schema guarantee: the URL may sit at the
// top level or nested one level under "data", so both locations are checked
// before declaring the response malformed.
func (c *Client) CreateTopup(ctx context.Context, req *TopupRequest) (string, error) {
	resp, err := c.http.VPNHTTPRequest(
		&helper.HTTPRequestPayload{
			Method: helper.POST,
			URL:    fmt.Sprintf("%s/wallet/topup", c.baseURL),
			Body:   req,
		},
		&helper.HTTPRequestConfig{
			Ctx:     ctx,
			Headers: http.Header{"Accept": []string{"application/json"}},
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger.Warning.Printf("wallet-core top-up returned status %d", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	paymentURL := extractPaymentURL(resp.Data)
	if paymentURL == "" {
		return "", ErrMalformedResponse
	}

	return paymentURL, nil
}

func extractPaymentURL(data any) string {
	body, ok := data.(map[string]any)
	if !ok {
		return ""
	}

	if s := helper.GetMapStringValue(body, "paymentUrl"); s != nil && *s != "" {
		return *s
	}

	if nested, ok := body["data"].(map[string]any); ok {
		if s := helper.GetMapStringValue(nested, "paymentUrl"); s != nil && *s != "" {
			return *s
		}
	}

	return ""
}
