package topup

import (
	"context"
	types "decor-wallet/internal/common/type"
	database "decor-wallet/internal/pkg/db"
	"decor-wallet/internal/pkg/gateway"
	"decor-wallet/internal/pkg/rabbitmq"
	"decor-wallet/internal/pkg/redis"
	"decor-wallet/internal/pkg/vnpay"
	"decor-wallet/internal/repository"
	"net/url"
	"time"
)

// QueueTopupResolved carries one event per resolved top-up to the receipt
// worker.
const QueueTopupResolved = "wallet.topup.resolved"

type Service struct {
	ctx       context.Context
	rp        repository.IRepository
	db        *database.Database
	rds       redis.IRedis
	publisher *rabbitmq.Publisher
	gateways  *gateway.Manager
	sessions  *SessionManager
	vnp       *vnpay.Config
	appScheme string
}

type IService interface {
	CreateTopup(req *CreateTopupRequest, user *types.UserWithAuth) *types.Response
	ReportSessionEvent(orderRef string, req *SessionEventRequest) *types.Response
	HandleReturn(query url.Values) *types.Response
	HandleIPN(query url.Values) *types.Response
	CheckStatus(orderRef string) *types.Response
	ListTopups(customerID string, cursor string, limit int) *types.Response
}

func NewService(
	ctx context.Context,
	rp repository.IRepository,
	db *database.Database,
	rds redis.IRedis,
	publisher *rabbitmq.Publisher,
	gateways *gateway.Manager,
	vnp *vnpay.Config,
	appScheme string,
) IService {
	return &Service{
		ctx:       ctx,
		rp:        rp,
		db:        db,
		rds:       rds,
		publisher: publisher,
		gateways:  gateways,
		sessions:  NewSessionManager(),
		vnp:       vnp,
		appScheme: appScheme,
	}
}

// Request/Response DTOs

type CreateTopupRequest struct {
	Amount  int64  `json:"amount" binding:"required"`
	Channel string `json:"channel"`
}

type CreateTopupResponse struct {
	OrderRef       string `json:"order_ref"`
	PaymentURL     string `json:"payment_url"`
	Channel        string `json:"channel"`
	Status         string `json:"status"`
	InjectedScript string `json:"injected_script"`
}

type SessionEventRequest struct {
	Event   string         `json:"event" binding:"required"`
	URL     string         `json:"url"`
	Payload map[string]any `json:"payload"`
}

type SessionEventResponse struct {
	Allow  bool   `json:"allow"`
	Status string `json:"status"`
}

type TopupStatusResponse struct {
	OrderRef       string     `json:"order_ref"`
	Status         string     `json:"status"`
	Channel        string     `json:"channel"`
	Amount         int64      `json:"amount"`
	AmountDisplay  string     `json:"amount_display"`
	ResponseCode   string     `json:"response_code,omitempty"`
	ResolvedSource string     `json:"resolved_source,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
}

type ListTopupsResponse struct {
	Items      []TopupStatusResponse `json:"items"`
	NextCursor string                `json:"next_cursor,omitempty"`
}

// IPNResponse follows the VNPay IPN acknowledgement contract: the gateway
// retries until it receives RspCode 00.
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

// TopupResolvedEvent is the payload published on QueueTopupResolved.
type TopupResolvedEvent struct {
	OrderRef     string    `json:"order_ref"`
	CustomerID   string    `json:"customer_id"`
	Amount       int64     `json:"amount"`
	Channel      string    `json:"channel"`
	Status       string    `json:"status"`
	ResponseCode string    `json:"response_code"`
	Source       string    `json:"source"`
	ResolvedAt   time.Time `json:"resolved_at"`
}
