package topup

import (
	"decor-wallet/internal/common/enum"
	"decor-wallet/internal/pkg/logger"
	"decor-wallet/internal/pkg/vnpay"
	"sync"
	"time"
)

/*----------- ArbiterState -----------*/

type ArbiterState string

const (
	StateIdle           ArbiterState = "idle"
	StateAwaitingResult ArbiterState = "awaiting_result"
	StateSucceeded      ArbiterState = "succeeded"
	StateFailed         ArbiterState = "failed"
)

func (s ArbiterState) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

/*----------- CompletionSignal -----------*/

// CompletionSignal is one tagged event from any of the embedded-browser
// channels. ResponseCode and TransactionStatus are raw strings copied from
// the gateway return URL or page message; either one missing means the event
// carries no completion information.
type CompletionSignal struct {
	Source            enum.SignalSourceEnum `json:"source"`
	ResponseCode      string                `json:"response_code,omitempty"`
	TransactionStatus string                `json:"transaction_status,omitempty"`
	RawURL            string                `json:"raw_url,omitempty"`
	ReceivedAt        time.Time             `json:"received_at"`
}

// signalFromURL builds a signal from any URL the session sees. Codes stay
// empty when the URL is not a completion URL.
func signalFromURL(source enum.SignalSourceEnum, rawURL string) CompletionSignal {
	sig := CompletionSignal{
		Source:     source,
		RawURL:     rawURL,
		ReceivedAt: time.Now(),
	}

	if params, ok := vnpay.ParseReturnURL(rawURL); ok {
		sig.ResponseCode = params.ResponseCode
		sig.TransactionStatus = params.TransactionStatus
	}

	return sig
}

// successSignal builds a synthetic success-shaped signal for channels that
// assert success without carrying gateway codes (custom-scheme redirects,
// injected page messages).
func successSignal(source enum.SignalSourceEnum, rawURL string) CompletionSignal {
	return CompletionSignal{
		Source:            source,
		ResponseCode:      vnpay.CodeSuccess,
		TransactionStatus: vnpay.CodeSuccess,
		RawURL:            rawURL,
		ReceivedAt:        time.Now(),
	}
}

func (s CompletionSignal) isComplete() bool {
	return s.ResponseCode != "" && s.TransactionStatus != ""
}

func (s CompletionSignal) isSuccess() bool {
	return s.ResponseCode == vnpay.CodeSuccess && s.TransactionStatus == vnpay.CodeSuccess
}

/*----------- Arbiter -----------*/

// ResolveFunc is invoked at most once per arbiter with the signal that won.
type ResolveFunc func(sig CompletionSignal)

// Arbiter is the completion state machine for one payment session. Any
// number of signals from any channel may arrive in any order, duplicated or
// interleaved; the arbiter guarantees:
//
//   - the success route fires exactly once, gated by a one-way latch;
//   - a latched success is never downgraded by a late failure;
//   - the first terminal resolution wins; later signals of either shape
//     are inert (logged only);
//   - events without both gateway codes never change state.
//
// Signals arrive on HTTP handler goroutines, so the latch is mutex-guarded.
type Arbiter struct {
	mu        sync.Mutex
	state     ArbiterState
	processed bool
	log       []CompletionSignal
	onSuccess ResolveFunc
	onFailure ResolveFunc
}

func NewArbiter(onSuccess, onFailure ResolveFunc) *Arbiter {
	return &Arbiter{
		state:     StateIdle,
		onSuccess: onSuccess,
		onFailure: onFailure,
	}
}

// Begin arms the arbiter for a fresh attempt: the latch and any stale state
// from a previous attempt are cleared so an old success signal cannot leak
// into the new session.
func (a *Arbiter) Begin() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state = StateAwaitingResult
	a.processed = false
	a.log = nil
}

// Apply runs the transition rule for one signal and reports whether the
// signal resolved the session. The resolve callback runs outside the lock;
// exactly-once is already guaranteed by the latch at that point.
func (a *Arbiter) Apply(sig CompletionSignal) bool {
	var resolve ResolveFunc

	a.mu.Lock()
	a.log = append(a.log, sig)

	switch {
	case a.state.IsTerminal():
		// First resolution wins; everything after is inert.
		logger.Debug.Printf("inert signal from %s after terminal state %s", sig.Source, a.state)

	case !sig.isComplete():
		// Not a completion signal. Partial codes count as absent: many
		// irrelevant navigations happen during normal gateway interaction.

	case sig.isSuccess():
		if !a.processed {
			a.processed = true
			a.state = StateSucceeded
			resolve = a.onSuccess
		}

	default:
		a.state = StateFailed
		resolve = a.onFailure
	}
	a.mu.Unlock()

	if resolve != nil {
		resolve(sig)
		return true
	}
	return false
}

func (a *Arbiter) State() ArbiterState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Processed reports the latch. Once true it stays true for the lifetime of
// the attempt.
func (a *Arbiter) Processed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.processed
}

// Signals returns a copy of every signal seen so far, inert ones included.
func (a *Arbiter) Signals() []CompletionSignal {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]CompletionSignal, len(a.log))
	copy(out, a.log)
	return out
}
