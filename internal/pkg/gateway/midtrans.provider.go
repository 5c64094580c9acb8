package gateway

import (
	"context"
	"decor-wallet/internal/common/enum"
	midtransPkg "decor-wallet/internal/pkg/midtrans"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransProvider opens a Snap transaction directly. Kept as a secondary
// top-up channel for markets where VNPay is not available.
type MidtransProvider struct {
	client *midtransPkg.MidtransClient
}

func NewMidtransProvider(client *midtransPkg.MidtransClient) *MidtransProvider {
	return &MidtransProvider{client: client}
}

func (p *MidtransProvider) Channel() enum.TopupChannelEnum {
	return enum.ChannelMidtrans
}

func (p *MidtransProvider) CreateSession(_ context.Context, req *SessionRequest) (*Session, error) {
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderRef,
			GrossAmt: req.Amount,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.OrderRef,
				Name:  "Wallet top-up",
				Price: req.Amount,
				Qty:   1,
			},
		},
	}

	snapResp, midErr := p.client.Snap.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %s", midErr.GetMessage())
	}

	return &Session{
		OrderRef:   req.OrderRef,
		PaymentURL: snapResp.RedirectURL,
		Channel:    enum.ChannelMidtrans,
	}, nil
}
