package gateway

import (
	"context"
	"decor-wallet/internal/common/enum"
	"decor-wallet/internal/pkg/walletcore"
)

// VNPayProvider delegates session creation to wallet-core, which holds the
// VNPay merchant credentials and builds the signed paygate URL server-side.
// This service never interprets the URL beyond its status query parameters.
type VNPayProvider struct {
	core *walletcore.Client
}

func NewVNPayProvider(core *walletcore.Client) *VNPayProvider {
	return &VNPayProvider{core: core}
}

func (p *VNPayProvider) Channel() enum.TopupChannelEnum {
	return enum.ChannelVNPay
}

func (p *VNPayProvider) CreateSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	paymentURL, err := p.core.CreateTopup(ctx, &walletcore.TopupRequest{
		Amount:            req.Amount,
		TransactionType:   "topup",
		TransactionStatus: "pending",
		CustomerID:        req.CustomerID,
	})
	if err != nil {
		return nil, err
	}

	return &Session{
		OrderRef:   req.OrderRef,
		PaymentURL: paymentURL,
		Channel:    enum.ChannelVNPay,
	}, nil
}
