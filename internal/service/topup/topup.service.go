package topup

import (
	"decor-wallet/internal/common/enum"
	"decor-wallet/internal/common/models"
	types "decor-wallet/internal/common/type"
	"decor-wallet/internal/pkg/gateway"
	"decor-wallet/internal/pkg/helper"
	"decor-wallet/internal/pkg/logger"
	"decor-wallet/internal/pkg/rabbitmq"
	"decor-wallet/internal/pkg/vnpay"
	"decor-wallet/internal/pkg/walletcore"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const (
	orderRefAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
	statusCacheTTL   = 15 * time.Minute
)

func statusCacheKey(orderRef string) string {
	return fmt.Sprintf("topup:status:%s", orderRef)
}

func (s *Service) CreateTopup(req *CreateTopupRequest, user *types.UserWithAuth) *types.Response {
	if user == nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
			Error:   errors.New("missing auth context"),
		})
	}

	// Non-positive amounts are rejected locally; the gateway is never called.
	if req.Amount <= 0 {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Amount must be greater than zero",
			Error:   fmt.Errorf("invalid amount %d", req.Amount),
		})
	}

	channel := enum.TopupChannelEnum(req.Channel)
	if req.Channel == "" {
		channel = enum.ChannelVNPay
	}
	if !channel.IsValid() {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Unknown payment channel",
			Error:   fmt.Errorf("channel '%s' not supported", req.Channel),
		})
	}

	provider, err := s.gateways.Get(channel)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Payment channel not configured",
			Error:   err,
		})
	}

	ref, err := gonanoid.Generate(orderRefAlphabet, 16)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:  http.StatusInternalServerError,
			Error: err,
		})
	}
	orderRef := fmt.Sprintf("TOPUP-%s", ref)

	session, err := provider.CreateSession(s.ctx, &gateway.SessionRequest{
		OrderRef:   orderRef,
		CustomerID: user.ID.String(),
		Amount:     req.Amount,
	})
	if err != nil {
		return s.gatewayErrorResponse(err)
	}

	topup := &models.WalletTopup{
		OrderRef:   orderRef,
		CustomerID: user.ID.String(),
		Amount:     req.Amount,
		Channel:    channel.ToString(),
		PaymentURL: session.PaymentURL,
		Status:     enum.TopupPending.ToString(),
	}
	if err := s.rp.Topup.Create(s.ctx, topup); err != nil {
		logger.Error.Printf("failed to persist top-up %s: %v", orderRef, err)
		return helper.ParseResponse(&types.Response{
			Code:  http.StatusInternalServerError,
			Error: err,
		})
	}

	browserSession := s.openSession(orderRef, session.PaymentURL)

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusCreated,
		Message: "Top-up session created",
		Data: &CreateTopupResponse{
			OrderRef:       orderRef,
			PaymentURL:     session.PaymentURL,
			Channel:        channel.ToString(),
			Status:         enum.TopupPending.ToString(),
			InjectedScript: browserSession.InterstitialBypassScript(),
		},
	})
}

func (s *Service) gatewayErrorResponse(err error) *types.Response {
	switch {
	case errors.Is(err, walletcore.ErrMalformedResponse):
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadGateway,
			Message: "Payment gateway returned an unusable response",
			Error:   err,
		})
	case errors.Is(err, walletcore.ErrGatewayUnavailable):
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadGateway,
			Message: "Payment gateway unavailable",
			Error:   err,
		})
	default:
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadGateway,
			Message: "Failed to create payment session",
			Error:   err,
		})
	}
}

// openSession arms a fresh arbiter for the order and registers the browser
// session, replacing any session left over from an earlier attempt.
func (s *Service) openSession(orderRef, paymentURL string) *BrowserSession {
	arbiter := NewArbiter(
		func(sig CompletionSignal) { s.resolve(orderRef, enum.TopupSucceeded, sig) },
		func(sig CompletionSignal) { s.resolve(orderRef, enum.TopupFailed, sig) },
	)
	return s.sessions.Open(orderRef, paymentURL, s.appScheme, arbiter)
}

func (s *Service) ReportSessionEvent(orderRef string, req *SessionEventRequest) *types.Response {
	session, ok := s.sessions.Get(orderRef)
	if !ok {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusNotFound,
			Message: "No active payment session for this order",
			Error:   fmt.Errorf("no session for %s", orderRef),
		})
	}

	allow := true
	switch enum.SignalSourceEnum(req.Event) {
	case enum.SourceNavigationState:
		session.HandleNavigation(req.URL)
	case enum.SourceRequestIntercept:
		allow = session.HandleOutgoingRequest(req.URL)
	case enum.SourceDeepLink:
		session.HandleDeepLink(req.URL)
	case enum.SourcePageMessage:
		session.HandlePageMessage(req.Payload)
	default:
		if req.Event == "load_error" {
			session.HandleLoadError(req.URL)
			break
		}
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Unknown session event",
			Error:   fmt.Errorf("event '%s' not recognized", req.Event),
		})
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Event accepted",
		Data: &SessionEventResponse{
			Allow:  allow,
			Status: statusFromState(session.State()),
		},
	})
}

func statusFromState(state ArbiterState) string {
	switch state {
	case StateSucceeded:
		return enum.TopupSucceeded.ToString()
	case StateFailed:
		return enum.TopupFailed.ToString()
	default:
		return enum.TopupPending.ToString()
	}
}

// HandleReturn processes the browser redirect back from the paygate. When the
// session is still live the URL flows through the arbiter like any other
// signal; after a restart the outcome is applied straight to storage.
func (s *Service) HandleReturn(query url.Values) *types.Response {
	params := vnpay.ParseReturnQuery(query)
	if params.TxnRef == "" {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Missing transaction reference",
			Error:   errors.New("return URL carries no vnp_TxnRef"),
		})
	}

	if session, ok := s.sessions.Get(params.TxnRef); ok {
		session.HandleDeepLink("?" + query.Encode())
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusOK,
			Message: "Payment result recorded",
			Data:    &SessionEventResponse{Allow: true, Status: statusFromState(session.State())},
		})
	}

	status, resp := s.resolveDetached(params, enum.SourceDeepLink)
	if resp != nil {
		return resp
	}
	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Payment result recorded",
		Data:    &SessionEventResponse{Allow: true, Status: status},
	})
}

// HandleIPN processes the server-to-server notification. The response codes
// follow the gateway's acknowledgement contract; it retries anything but 00.
func (s *Service) HandleIPN(query url.Values) *types.Response {
	if !vnpay.VerifySecureHash(query, s.vnp.HashSecret) {
		logger.Warning.Print("IPN rejected: secure hash mismatch")
		return helper.ParseResponse(&types.Response{
			Code: http.StatusOK,
			Data: &IPNResponse{RspCode: "97", Message: "Invalid signature"},
		})
	}

	params := vnpay.ParseReturnQuery(query)
	topup, err := s.rp.Topup.FindByOrderRef(s.ctx, params.TxnRef)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code: http.StatusOK,
			Data: &IPNResponse{RspCode: "01", Message: "Order not found"},
		})
	}

	if enum.TopupStatusEnum(topup.Status).IsTerminal() {
		return helper.ParseResponse(&types.Response{
			Code: http.StatusOK,
			Data: &IPNResponse{RspCode: "02", Message: "Order already confirmed"},
		})
	}

	if session, ok := s.sessions.Get(params.TxnRef); ok {
		session.HandleDeepLink("?" + query.Encode())
	} else if _, resp := s.resolveDetached(params, enum.SourceDeepLink); resp != nil {
		return helper.ParseResponse(&types.Response{
			Code: http.StatusOK,
			Data: &IPNResponse{RspCode: "99", Message: "Unknown error"},
		})
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: &IPNResponse{RspCode: "00", Message: "Confirm Success"},
	})
}

// resolveDetached applies a completion outcome when no in-memory session
// exists anymore. The pending check above makes the write idempotent.
func (s *Service) resolveDetached(params vnpay.ReturnParams, source enum.SignalSourceEnum) (string, *types.Response) {
	if !params.IsComplete() {
		return enum.TopupPending.ToString(), nil
	}

	status := enum.TopupFailed
	if params.IsSuccess() {
		status = enum.TopupSucceeded
	}

	sig := CompletionSignal{
		Source:            source,
		ResponseCode:      params.ResponseCode,
		TransactionStatus: params.TransactionStatus,
		ReceivedAt:        time.Now(),
	}
	if err := s.persistResolution(params.TxnRef, status, sig, []CompletionSignal{sig}); err != nil {
		return "", helper.ParseResponse(&types.Response{
			Code:  http.StatusInternalServerError,
			Error: err,
		})
	}

	s.publishResolved(params.TxnRef, status, sig)
	return status.ToString(), nil
}

// resolve is the arbiter callback: exactly one invocation per attempt.
func (s *Service) resolve(orderRef string, status enum.TopupStatusEnum, sig CompletionSignal) {
	var signals []CompletionSignal
	if session, ok := s.sessions.Get(orderRef); ok {
		signals = session.Signals()
	}

	if err := s.persistResolution(orderRef, status, sig, signals); err != nil {
		logger.Error.Printf("failed to persist resolution of %s: %v", orderRef, err)
		return
	}

	s.publishResolved(orderRef, status, sig)
}

func (s *Service) persistResolution(orderRef string, status enum.TopupStatusEnum, sig CompletionSignal, signals []CompletionSignal) error {
	updates := map[string]any{
		"status":          status.ToString(),
		"response_code":   sig.ResponseCode,
		"resolved_source": sig.Source.ToString(),
	}
	if status == enum.TopupSucceeded {
		updates["paid_at"] = time.Now()
	}

	if err := s.rp.Topup.UpdateStatus(s.ctx, orderRef, updates); err != nil {
		return err
	}

	if len(signals) > 0 {
		if raw, err := json.Marshal(map[string]any{"events": signals}); err == nil {
			if err := s.rp.Topup.AppendSignal(s.ctx, orderRef, models.JSONB(raw)); err != nil {
				logger.Warning.Printf("failed to store signal log for %s: %v", orderRef, err)
			}
		}
	}

	if topup, err := s.rp.Topup.FindByOrderRef(s.ctx, orderRef); err == nil {
		s.cacheStatus(topup)
	}

	logger.Info.Printf("top-up %s resolved %s via %s (code %s)", orderRef, status, sig.Source, sig.ResponseCode)
	return nil
}

// cacheStatus stores the serialized status payload for the polling endpoint.
// Only terminal records are cached; a pending record would go stale the
// moment the arbiter resolves.
func (s *Service) cacheStatus(topup *models.WalletTopup) {
	if !enum.TopupStatusEnum(topup.Status).IsTerminal() {
		return
	}

	if err := s.rds.Set(statusCacheKey(topup.OrderRef), topupToStatus(topup), statusCacheTTL); err != nil {
		logger.Warning.Printf("failed to cache status of %s: %v", topup.OrderRef, err)
	}
}

func (s *Service) publishResolved(orderRef string, status enum.TopupStatusEnum, sig CompletionSignal) {
	if s.publisher == nil {
		return
	}

	topup, err := s.rp.Topup.FindByOrderRef(s.ctx, orderRef)
	if err != nil {
		logger.Warning.Printf("resolved top-up %s not found for publish: %v", orderRef, err)
		return
	}

	msg, err := rabbitmq.NewMessage(&rabbitmq.PubsubBody{
		Pattern: QueueTopupResolved,
		Data: &TopupResolvedEvent{
			OrderRef:     orderRef,
			CustomerID:   topup.CustomerID,
			Amount:       topup.Amount,
			Channel:      topup.Channel,
			Status:       status.ToString(),
			ResponseCode: sig.ResponseCode,
			Source:       sig.Source.ToString(),
			ResolvedAt:   time.Now(),
		},
	}, nil)
	if err != nil {
		logger.Error.Printf("failed to build resolved event for %s: %v", orderRef, err)
		return
	}

	if err := s.publisher.Publish(QueueTopupResolved, msg); err != nil {
		logger.Error.Printf("failed to publish resolved event for %s: %v", orderRef, err)
	}
}

func (s *Service) CheckStatus(orderRef string) *types.Response {
	if cached, err := s.rds.Get(statusCacheKey(orderRef)); err == nil && cached != "" {
		if status, err := helper.StringToStruct[TopupStatusResponse](cached); err == nil {
			return helper.ParseResponse(&types.Response{
				Code:    http.StatusOK,
				Message: "Top-up status",
				Data:    status,
			})
		}
	}

	topup, err := s.rp.Topup.FindByOrderRef(s.ctx, orderRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.ParseResponse(&types.Response{
				Code:    http.StatusNotFound,
				Message: "Top-up not found",
				Error:   err,
			})
		}
		return helper.ParseResponse(&types.Response{
			Code:  http.StatusInternalServerError,
			Error: err,
		})
	}

	s.cacheStatus(topup)

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Top-up status",
		Data:    topupToStatus(topup),
	})
}

func topupToStatus(topup *models.WalletTopup) *TopupStatusResponse {
	return &TopupStatusResponse{
		OrderRef:       topup.OrderRef,
		Status:         topup.Status,
		Channel:        topup.Channel,
		Amount:         topup.Amount,
		AmountDisplay:  helper.FormatVND(topup.Amount),
		ResponseCode:   topup.ResponseCode,
		ResolvedSource: topup.ResolvedSource,
		CreatedAt:      topup.CreatedAt,
		PaidAt:         topup.PaidAt,
	}
}

func (s *Service) ListTopups(customerID string, cursor string, limit int) *types.Response {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var after *time.Time
	if cursor != "" {
		plain, err := s.db.DecodeCursor(cursor)
		if err != nil {
			return helper.ParseResponse(&types.Response{
				Code:    http.StatusBadRequest,
				Message: "Invalid cursor",
				Error:   err,
			})
		}
		t, err := time.Parse(time.RFC3339Nano, plain)
		if err != nil {
			return helper.ParseResponse(&types.Response{
				Code:    http.StatusBadRequest,
				Message: "Invalid cursor",
				Error:   err,
			})
		}
		after = &t
	}

	topups, err := s.rp.Topup.FindByCustomer(s.ctx, customerID, after, limit+1)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:  http.StatusInternalServerError,
			Error: err,
		})
	}

	resp := &ListTopupsResponse{Items: make([]TopupStatusResponse, 0, len(topups))}
	hasMore := len(topups) > limit
	if hasMore {
		topups = topups[:limit]
	}
	for i := range topups {
		resp.Items = append(resp.Items, *topupToStatus(&topups[i]))
	}

	if hasMore && len(topups) > 0 {
		last := topups[len(topups)-1]
		next, err := s.db.EncodeCursor(last.CreatedAt.Format(time.RFC3339Nano))
		if err == nil {
			resp.NextCursor = next
		}
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Top-up history",
		Data:    resp,
	})
}
