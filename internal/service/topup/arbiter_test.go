package topup

import (
	"decor-wallet/internal/common/enum"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArbiter() (*Arbiter, *int32, *int32) {
	var successes, failures int32
	a := NewArbiter(
		func(CompletionSignal) { atomic.AddInt32(&successes, 1) },
		func(CompletionSignal) { atomic.AddInt32(&failures, 1) },
	)
	a.Begin()
	return a, &successes, &failures
}

func successSig(source enum.SignalSourceEnum) CompletionSignal {
	return successSignal(source, "https://pay.example.com/return?vnp_ResponseCode=00&vnp_TransactionStatus=00")
}

func failureSig(source enum.SignalSourceEnum) CompletionSignal {
	return signalFromURL(source, "https://pay.example.com/return?vnp_ResponseCode=24&vnp_TransactionStatus=02")
}

func TestArbiterSuccessFiresOnce(t *testing.T) {
	a, successes, failures := newTestArbiter()

	assert.True(t, a.Apply(successSig(enum.SourceDeepLink)))
	assert.False(t, a.Apply(successSig(enum.SourceNavigationState)))
	assert.False(t, a.Apply(successSig(enum.SourcePageMessage)))

	assert.Equal(t, StateSucceeded, a.State())
	assert.True(t, a.Processed())
	assert.Equal(t, int32(1), atomic.LoadInt32(successes))
	assert.Equal(t, int32(0), atomic.LoadInt32(failures))
}

func TestArbiterFirstResolutionWins(t *testing.T) {
	t.Run("failure then success stays failed", func(t *testing.T) {
		a, successes, failures := newTestArbiter()

		assert.True(t, a.Apply(failureSig(enum.SourceNavigationState)))
		assert.False(t, a.Apply(successSig(enum.SourceDeepLink)))

		assert.Equal(t, StateFailed, a.State())
		assert.False(t, a.Processed())
		assert.Equal(t, int32(0), atomic.LoadInt32(successes))
		assert.Equal(t, int32(1), atomic.LoadInt32(failures))
	})

	t.Run("success then failure stays succeeded", func(t *testing.T) {
		a, successes, failures := newTestArbiter()

		assert.True(t, a.Apply(successSig(enum.SourceRequestIntercept)))
		assert.False(t, a.Apply(failureSig(enum.SourceNavigationState)))

		assert.Equal(t, StateSucceeded, a.State())
		assert.Equal(t, int32(1), atomic.LoadInt32(successes))
		assert.Equal(t, int32(0), atomic.LoadInt32(failures))
	})
}

func TestArbiterIgnoresIncompleteSignals(t *testing.T) {
	a, successes, failures := newTestArbiter()

	a.Apply(signalFromURL(enum.SourceNavigationState, "https://pay.example.com/step1"))
	a.Apply(signalFromURL(enum.SourceNavigationState, "https://pay.example.com/return?vnp_ResponseCode=00"))
	a.Apply(signalFromURL(enum.SourceNavigationState, "https://pay.example.com/return?vnp_TransactionStatus=00"))

	assert.Equal(t, StateAwaitingResult, a.State())
	assert.False(t, a.Processed())
	assert.Equal(t, int32(0), atomic.LoadInt32(successes))
	assert.Equal(t, int32(0), atomic.LoadInt32(failures))

	// The ignored signals are still logged for diagnostics.
	assert.Len(t, a.Signals(), 3)
}

func TestArbiterSuccessRequiresBothCodes(t *testing.T) {
	a, successes, _ := newTestArbiter()

	// Response code 00 with a failed transaction status is a failure, not a
	// success.
	sig := signalFromURL(enum.SourceDeepLink, "https://pay.example.com/return?vnp_ResponseCode=00&vnp_TransactionStatus=02")
	assert.True(t, a.Apply(sig))

	assert.Equal(t, StateFailed, a.State())
	assert.Equal(t, int32(0), atomic.LoadInt32(successes))
}

func TestArbiterBeginResetsLatch(t *testing.T) {
	a, successes, _ := newTestArbiter()

	require.True(t, a.Apply(successSig(enum.SourceDeepLink)))
	require.Equal(t, int32(1), atomic.LoadInt32(successes))

	// A retry re-arms the latch; the new attempt can succeed again.
	a.Begin()
	assert.Equal(t, StateAwaitingResult, a.State())
	assert.False(t, a.Processed())
	assert.Empty(t, a.Signals())

	assert.True(t, a.Apply(successSig(enum.SourceDeepLink)))
	assert.Equal(t, int32(2), atomic.LoadInt32(successes))
}

func TestArbiterConcurrentSuccessSignals(t *testing.T) {
	a, successes, failures := newTestArbiter()

	sources := []enum.SignalSourceEnum{
		enum.SourceNavigationState,
		enum.SourceRequestIntercept,
		enum.SourceDeepLink,
		enum.SourcePageMessage,
	}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		source := sources[i%len(sources)]
		go func() {
			defer wg.Done()
			a.Apply(successSig(source))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(successes))
	assert.Equal(t, int32(0), atomic.LoadInt32(failures))
	assert.Equal(t, StateSucceeded, a.State())
	assert.Len(t, a.Signals(), 100)
}

func TestArbiterDuplicateDeliveryAcrossChannels(t *testing.T) {
	// The same gateway result typically arrives two or three times: once via
	// navigation, once via the deep link, sometimes via the page message.
	a, successes, failures := newTestArbiter()

	a.Apply(signalFromURL(enum.SourceNavigationState, "https://pay.example.com/return?vnp_ResponseCode=00&vnp_TransactionStatus=00&vnp_TxnRef=TOPUP-7"))
	a.Apply(signalFromURL(enum.SourceDeepLink, "decorwallet://payment-success?vnp_ResponseCode=00&vnp_TransactionStatus=00&vnp_TxnRef=TOPUP-7"))
	a.Apply(successSig(enum.SourcePageMessage))

	assert.Equal(t, int32(1), atomic.LoadInt32(successes))
	assert.Equal(t, int32(0), atomic.LoadInt32(failures))
}
