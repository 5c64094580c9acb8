package topup

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"decor-wallet/internal/common/enum"
	"decor-wallet/internal/common/models"
	types "decor-wallet/internal/common/type"
	"decor-wallet/internal/pkg/gateway"
	"decor-wallet/internal/pkg/vnpay"
	"decor-wallet/internal/pkg/walletcore"
	"decor-wallet/internal/repository"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

/*----------- fakes -----------*/

type fakeTopupRepo struct {
	mu    sync.Mutex
	byRef map[string]*models.WalletTopup
}

func newFakeTopupRepo() *fakeTopupRepo {
	return &fakeTopupRepo{byRef: make(map[string]*models.WalletTopup)}
}

func (r *fakeTopupRepo) Create(_ context.Context, topup *models.WalletTopup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *topup
	clone.CreatedAt = time.Now()
	r.byRef[topup.OrderRef] = &clone
	return nil
}

func (r *fakeTopupRepo) FindByOrderRef(_ context.Context, orderRef string) (*models.WalletTopup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	topup, ok := r.byRef[orderRef]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *topup
	return &clone, nil
}

func (r *fakeTopupRepo) FindByCustomer(_ context.Context, customerID string, after *time.Time, limit int) ([]models.WalletTopup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []models.WalletTopup
	for _, topup := range r.byRef {
		if topup.CustomerID != customerID {
			continue
		}
		if after != nil && !topup.CreatedAt.Before(*after) {
			continue
		}
		result = append(result, *topup)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeTopupRepo) UpdateStatus(_ context.Context, orderRef string, updates map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	topup, ok := r.byRef[orderRef]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["status"].(string); ok {
		topup.Status = v
	}
	if v, ok := updates["response_code"].(string); ok {
		topup.ResponseCode = v
	}
	if v, ok := updates["resolved_source"].(string); ok {
		topup.ResolvedSource = v
	}
	if v, ok := updates["paid_at"].(time.Time); ok {
		topup.PaidAt = &v
	}
	return nil
}

func (r *fakeTopupRepo) AppendSignal(_ context.Context, orderRef string, signals models.JSONB) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	topup, ok := r.byRef[orderRef]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	topup.Signals = signals
	return nil
}

type fakeRedis struct {
	mu    sync.Mutex
	store map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{store: make(map[string]string)}
}

func (r *fakeRedis) Set(key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[key] = string(data)
	return nil
}

func (r *fakeRedis) Get(key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	val, ok := r.store[key]
	if !ok {
		return "", fmt.Errorf("key %s not found", key)
	}
	return val, nil
}

func (r *fakeRedis) Del(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, key)
	return nil
}

func (r *fakeRedis) Expire(string, time.Duration) error { return nil }
func (r *fakeRedis) Ping() error                        { return nil }
func (r *fakeRedis) Close() error                       { return nil }

type fakeProvider struct {
	channel enum.TopupChannelEnum
	url     string
	err     error
	calls   int32
}

func (p *fakeProvider) Channel() enum.TopupChannelEnum { return p.channel }

func (p *fakeProvider) CreateSession(_ context.Context, req *gateway.SessionRequest) (*gateway.Session, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.err != nil {
		return nil, p.err
	}
	return &gateway.Session{
		OrderRef:   req.OrderRef,
		PaymentURL: p.url,
		Channel:    p.channel,
	}, nil
}

const testHashSecret = "test-secret"

func newTestService(provider *fakeProvider) (*Service, *fakeTopupRepo, *fakeRedis) {
	repo := newFakeTopupRepo()
	rds := newFakeRedis()

	svc := NewService(
		context.Background(),
		repository.IRepository{Topup: repo},
		nil,
		rds,
		nil,
		gateway.NewManager(provider),
		&vnpay.Config{HashSecret: testHashSecret},
		testAppScheme,
	).(*Service)

	return svc, repo, rds
}

func vnpayProvider() *fakeProvider {
	return &fakeProvider{
		channel: enum.ChannelVNPay,
		url:     "https://pay.example.com/session/1",
	}
}

func testUser() *types.UserWithAuth {
	return &types.UserWithAuth{ID: uuid.New(), Email: "user@example.com"}
}

/*----------- tests -----------*/

func TestCreateTopup(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		svc, repo, _ := newTestService(vnpayProvider())

		resp := svc.CreateTopup(&CreateTopupRequest{Amount: 150000}, testUser())
		require.Equal(t, http.StatusCreated, resp.Code)

		data := resp.Data.(*CreateTopupResponse)
		assert.True(t, strings.HasPrefix(data.OrderRef, "TOPUP-"))
		assert.Equal(t, "https://pay.example.com/session/1", data.PaymentURL)
		assert.Equal(t, "pending", data.Status)
		assert.NotEmpty(t, data.InjectedScript)

		stored, err := repo.FindByOrderRef(context.Background(), data.OrderRef)
		require.NoError(t, err)
		assert.Equal(t, int64(150000), stored.Amount)
		assert.Equal(t, "pending", stored.Status)

		_, ok := svc.sessions.Get(data.OrderRef)
		assert.True(t, ok)
	})

	t.Run("non-positive amount never reaches the gateway", func(t *testing.T) {
		provider := vnpayProvider()
		svc, _, _ := newTestService(provider)

		for _, amount := range []int64{0, -1, -150000} {
			resp := svc.CreateTopup(&CreateTopupRequest{Amount: amount}, testUser())
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		}
		assert.Equal(t, int32(0), atomic.LoadInt32(&provider.calls))
	})

	t.Run("missing auth", func(t *testing.T) {
		svc, _, _ := newTestService(vnpayProvider())

		resp := svc.CreateTopup(&CreateTopupRequest{Amount: 1000}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("unknown channel", func(t *testing.T) {
		svc, _, _ := newTestService(vnpayProvider())

		resp := svc.CreateTopup(&CreateTopupRequest{Amount: 1000, Channel: "paypal"}, testUser())
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("malformed gateway response", func(t *testing.T) {
		svc, _, _ := newTestService(&fakeProvider{
			channel: enum.ChannelVNPay,
			err:     walletcore.ErrMalformedResponse,
		})

		resp := svc.CreateTopup(&CreateTopupRequest{Amount: 1000}, testUser())
		assert.Equal(t, http.StatusBadGateway, resp.Code)
	})

	t.Run("gateway unavailable", func(t *testing.T) {
		svc, _, _ := newTestService(&fakeProvider{
			channel: enum.ChannelVNPay,
			err:     fmt.Errorf("%w: status 503", walletcore.ErrGatewayUnavailable),
		})

		resp := svc.CreateTopup(&CreateTopupRequest{Amount: 1000}, testUser())
		assert.Equal(t, http.StatusBadGateway, resp.Code)
	})
}

func createTopup(t *testing.T, svc *Service) string {
	t.Helper()
	resp := svc.CreateTopup(&CreateTopupRequest{Amount: 150000}, testUser())
	require.Equal(t, http.StatusCreated, resp.Code)
	return resp.Data.(*CreateTopupResponse).OrderRef
}

func TestSessionEventResolvesTopup(t *testing.T) {
	svc, repo, _ := newTestService(vnpayProvider())
	orderRef := createTopup(t, svc)

	resp := svc.ReportSessionEvent(orderRef, &SessionEventRequest{
		Event: enum.SourceNavigationState.ToString(),
		URL:   "https://pay.example.com/return?vnp_ResponseCode=00&vnp_TransactionStatus=00",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "succeeded", resp.Data.(*SessionEventResponse).Status)

	stored, err := repo.FindByOrderRef(context.Background(), orderRef)
	require.NoError(t, err)
	assert.Equal(t, "succeeded", stored.Status)
	assert.Equal(t, "00", stored.ResponseCode)
	assert.Equal(t, "navigation_state", stored.ResolvedSource)
	assert.NotNil(t, stored.PaidAt)
	assert.NotEmpty(t, stored.Signals)
}

func TestSessionEventDuplicatesDoNotRewrite(t *testing.T) {
	svc, repo, _ := newTestService(vnpayProvider())
	orderRef := createTopup(t, svc)

	svc.ReportSessionEvent(orderRef, &SessionEventRequest{
		Event: enum.SourceNavigationState.ToString(),
		URL:   "https://pay.example.com/return?vnp_ResponseCode=24&vnp_TransactionStatus=02",
	})

	// A late success from another channel must not flip the failed attempt.
	svc.ReportSessionEvent(orderRef, &SessionEventRequest{
		Event: enum.SourceDeepLink.ToString(),
		URL:   "decorwallet://return?vnp_ResponseCode=00&vnp_TransactionStatus=00",
	})

	stored, err := repo.FindByOrderRef(context.Background(), orderRef)
	require.NoError(t, err)
	assert.Equal(t, "failed", stored.Status)
	assert.Nil(t, stored.PaidAt)
}

func TestSessionEventValidation(t *testing.T) {
	svc, _, _ := newTestService(vnpayProvider())
	orderRef := createTopup(t, svc)

	resp := svc.ReportSessionEvent(orderRef, &SessionEventRequest{Event: "mystery"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = svc.ReportSessionEvent("TOPUP-UNKNOWN", &SessionEventRequest{
		Event: enum.SourceNavigationState.ToString(),
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCheckStatusServedFromCacheAfterResolution(t *testing.T) {
	svc, _, rds := newTestService(vnpayProvider())
	orderRef := createTopup(t, svc)

	svc.ReportSessionEvent(orderRef, &SessionEventRequest{
		Event: enum.SourceDeepLink.ToString(),
		URL:   "decorwallet://return?vnp_ResponseCode=00&vnp_TransactionStatus=00",
	})

	cached, err := rds.Get(statusCacheKey(orderRef))
	require.NoError(t, err)
	assert.Contains(t, cached, `"succeeded"`)

	resp := svc.CheckStatus(orderRef)
	require.Equal(t, http.StatusOK, resp.Code)
	status := resp.Data.(*TopupStatusResponse)
	assert.Equal(t, "succeeded", status.Status)
	assert.Equal(t, int64(150000), status.Amount)
	assert.Equal(t, "150.000 ₫", status.AmountDisplay)
}

func TestCheckStatusNotFound(t *testing.T) {
	svc, _, _ := newTestService(vnpayProvider())

	resp := svc.CheckStatus("TOPUP-MISSING")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func signIPNQuery(q url.Values) {
	keys := make([]string, 0, len(q))
	for key := range q {
		if strings.HasPrefix(key, "vnp_") && key != vnpay.ParamSecureHash {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(q.Get(key)))
	}

	mac := hmac.New(sha512.New, []byte(testHashSecret))
	mac.Write([]byte(strings.Join(parts, "&")))
	q.Set(vnpay.ParamSecureHash, hex.EncodeToString(mac.Sum(nil)))
}

func TestHandleIPN(t *testing.T) {
	t.Run("invalid signature", func(t *testing.T) {
		svc, _, _ := newTestService(vnpayProvider())

		q := url.Values{}
		q.Set("vnp_TxnRef", "TOPUP-1")
		q.Set(vnpay.ParamSecureHash, "deadbeef")

		resp := svc.HandleIPN(q)
		assert.Equal(t, "97", resp.Data.(*IPNResponse).RspCode)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, _, _ := newTestService(vnpayProvider())

		q := url.Values{}
		q.Set("vnp_TxnRef", "TOPUP-GHOST")
		q.Set("vnp_ResponseCode", "00")
		q.Set("vnp_TransactionStatus", "00")
		signIPNQuery(q)

		resp := svc.HandleIPN(q)
		assert.Equal(t, "01", resp.Data.(*IPNResponse).RspCode)
	})

	t.Run("confirms pending order", func(t *testing.T) {
		svc, repo, _ := newTestService(vnpayProvider())
		orderRef := createTopup(t, svc)

		q := url.Values{}
		q.Set("vnp_TxnRef", orderRef)
		q.Set("vnp_ResponseCode", "00")
		q.Set("vnp_TransactionStatus", "00")
		signIPNQuery(q)

		resp := svc.HandleIPN(q)
		assert.Equal(t, "00", resp.Data.(*IPNResponse).RspCode)

		stored, err := repo.FindByOrderRef(context.Background(), orderRef)
		require.NoError(t, err)
		assert.Equal(t, "succeeded", stored.Status)
	})

	t.Run("already confirmed order", func(t *testing.T) {
		svc, _, _ := newTestService(vnpayProvider())
		orderRef := createTopup(t, svc)

		q := url.Values{}
		q.Set("vnp_TxnRef", orderRef)
		q.Set("vnp_ResponseCode", "00")
		q.Set("vnp_TransactionStatus", "00")
		signIPNQuery(q)

		require.Equal(t, "00", svc.HandleIPN(q).Data.(*IPNResponse).RspCode)

		resp := svc.HandleIPN(q)
		assert.Equal(t, "02", resp.Data.(*IPNResponse).RspCode)
	})
}

func TestHandleReturnWithoutSession(t *testing.T) {
	svc, repo, _ := newTestService(vnpayProvider())
	orderRef := createTopup(t, svc)

	// Simulate a process restart: the in-memory session is gone but the
	// redirect still lands on the return endpoint.
	svc.sessions.Remove(orderRef)

	q := url.Values{}
	q.Set("vnp_TxnRef", orderRef)
	q.Set("vnp_ResponseCode", "00")
	q.Set("vnp_TransactionStatus", "00")

	resp := svc.HandleReturn(q)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "succeeded", resp.Data.(*SessionEventResponse).Status)

	stored, err := repo.FindByOrderRef(context.Background(), orderRef)
	require.NoError(t, err)
	assert.Equal(t, "succeeded", stored.Status)
}

func TestListTopups(t *testing.T) {
	svc, _, _ := newTestService(vnpayProvider())
	user := testUser()

	for i := 0; i < 3; i++ {
		resp := svc.CreateTopup(&CreateTopupRequest{Amount: int64(1000 * (i + 1))}, user)
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	resp := svc.ListTopups(user.ID.String(), "", 10)
	require.Equal(t, http.StatusOK, resp.Code)

	list := resp.Data.(*ListTopupsResponse)
	assert.Len(t, list.Items, 3)
	assert.Empty(t, list.NextCursor)
}
