package topup

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAppScheme = "decorwallet"

func newTestSession(t *testing.T) (*BrowserSession, *int32, *int32) {
	t.Helper()
	var successes, failures int32
	arbiter := NewArbiter(
		func(CompletionSignal) { atomic.AddInt32(&successes, 1) },
		func(CompletionSignal) { atomic.AddInt32(&failures, 1) },
	)
	manager := NewSessionManager()
	session := manager.Open("TOPUP-1", "https://pay.example.com/start", testAppScheme, arbiter)
	return session, &successes, &failures
}

func TestSessionVetoesCustomSchemeRequests(t *testing.T) {
	t.Run("success marker resolves and vetoes", func(t *testing.T) {
		session, successes, _ := newTestSession(t)

		allow := session.HandleOutgoingRequest("decorwallet://payment-success?ref=TOPUP-1")
		assert.False(t, allow)
		assert.Equal(t, int32(1), atomic.LoadInt32(successes))
		assert.Equal(t, StateSucceeded, session.State())
	})

	t.Run("custom scheme without marker vetoes silently", func(t *testing.T) {
		session, successes, failures := newTestSession(t)

		allow := session.HandleOutgoingRequest("decorwallet://open-home")
		assert.False(t, allow)
		assert.Equal(t, int32(0), atomic.LoadInt32(successes))
		assert.Equal(t, int32(0), atomic.LoadInt32(failures))
		assert.Equal(t, StateAwaitingResult, session.State())
	})

	t.Run("web URLs are allowed through", func(t *testing.T) {
		session, _, _ := newTestSession(t)

		assert.True(t, session.HandleOutgoingRequest("https://pay.example.com/step2"))
		assert.Equal(t, StateAwaitingResult, session.State())
	})

	t.Run("web URL carrying completion codes resolves and loads", func(t *testing.T) {
		session, successes, _ := newTestSession(t)

		allow := session.HandleOutgoingRequest("https://pay.example.com/return?vnp_ResponseCode=00&vnp_TransactionStatus=00")
		assert.True(t, allow)
		assert.Equal(t, int32(1), atomic.LoadInt32(successes))
	})
}

func TestSessionLoadErrorCarriesResult(t *testing.T) {
	// Some environments redirect to an unreachable loopback host; the load
	// fails but the URL still carries the gateway result.
	session, successes, _ := newTestSession(t)

	session.HandleLoadError("http://127.0.0.1:8443/return?vnp_ResponseCode=00&vnp_TransactionStatus=00")
	assert.Equal(t, int32(1), atomic.LoadInt32(successes))
	assert.Equal(t, StateSucceeded, session.State())
}

func TestSessionPageMessages(t *testing.T) {
	t.Run("success message resolves", func(t *testing.T) {
		session, successes, _ := newTestSession(t)

		session.HandlePageMessage(map[string]any{"type": "PAYMENT_SUCCESS", "url": "https://pay.example.com/done"})
		assert.Equal(t, int32(1), atomic.LoadInt32(successes))
	})

	t.Run("other message types are ignored", func(t *testing.T) {
		session, successes, failures := newTestSession(t)

		session.HandlePageMessage(map[string]any{"type": "PAGE_READY"})
		session.HandlePageMessage(map[string]any{})
		session.HandlePageMessage(map[string]any{"type": 42})

		assert.Equal(t, int32(0), atomic.LoadInt32(successes))
		assert.Equal(t, int32(0), atomic.LoadInt32(failures))
	})
}

func TestSessionFirstChannelWins(t *testing.T) {
	session, successes, failures := newTestSession(t)

	session.HandleNavigation("https://pay.example.com/return?vnp_ResponseCode=24&vnp_TransactionStatus=02")
	session.HandleDeepLink("decorwallet://return?vnp_ResponseCode=00&vnp_TransactionStatus=00")

	assert.Equal(t, StateFailed, session.State())
	assert.Equal(t, int32(0), atomic.LoadInt32(successes))
	assert.Equal(t, int32(1), atomic.LoadInt32(failures))
}

func TestSessionClosedDropsSignals(t *testing.T) {
	session, successes, _ := newTestSession(t)

	session.Close()
	session.HandleNavigation("https://pay.example.com/return?vnp_ResponseCode=00&vnp_TransactionStatus=00")
	session.HandleDeepLink("decorwallet://payment-success")
	assert.False(t, session.HandleOutgoingRequest("https://pay.example.com/step2"))

	assert.Equal(t, int32(0), atomic.LoadInt32(successes))
	assert.Empty(t, session.Signals())
}

func TestSessionManagerReplacesStaleSession(t *testing.T) {
	var successes int32
	manager := NewSessionManager()

	newArbiter := func() *Arbiter {
		return NewArbiter(
			func(CompletionSignal) { atomic.AddInt32(&successes, 1) },
			func(CompletionSignal) {},
		)
	}

	first := manager.Open("TOPUP-9", "https://pay.example.com/a", testAppScheme, newArbiter())

	// The user backs out and retries: a fresh session replaces the stale one.
	second := manager.Open("TOPUP-9", "https://pay.example.com/b", testAppScheme, newArbiter())

	// Late signals from the abandoned attempt must not leak into the retry.
	first.HandleNavigation("https://pay.example.com/return?vnp_ResponseCode=00&vnp_TransactionStatus=00")
	assert.Equal(t, int32(0), atomic.LoadInt32(&successes))

	got, ok := manager.Get("TOPUP-9")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, StateAwaitingResult, second.State())

	second.HandleNavigation("https://pay.example.com/return?vnp_ResponseCode=00&vnp_TransactionStatus=00")
	assert.Equal(t, int32(1), atomic.LoadInt32(&successes))

	manager.Remove("TOPUP-9")
	_, ok = manager.Get("TOPUP-9")
	assert.False(t, ok)
}

func TestInterstitialBypassScript(t *testing.T) {
	session, _, _ := newTestSession(t)
	assert.Contains(t, session.InterstitialBypassScript(), "setInterval")
}
