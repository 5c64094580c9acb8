package topup

import (
	"decor-wallet/internal/common/enum"
	"decor-wallet/internal/pkg/logger"
	"net/url"
	"strings"
	"sync"
)

const (
	// Path marker the backend puts on custom-scheme redirects into the app.
	deepLinkSuccessMarker = "payment-success"
	// Message type the injected page script posts back to the host when the
	// redirect chain is obstructed.
	pageMessageSuccessType = "PAYMENT_SUCCESS"
)

// interstitialBypassScript is injected into the hosted page. Some gateway
// flows pass through a tunneling proxy whose warning interstitial asks for a
// click before continuing; the user should never see infrastructure chrome,
// so the script waits for the continue control and clicks it.
const interstitialBypassScript = `(function () {
	var tries = 0;
	var timer = setInterval(function () {
		var btn = document.querySelector('button[type="submit"], a#continue, button#continue');
		if (btn) {
			clearInterval(timer);
			btn.click();
		} else if (++tries > 50) {
			clearInterval(timer);
		}
	}, 200);
})();`

// BrowserSession bridges one embedded-browser instance to the arbiter. Each
// hook maps a raw engine event onto a tagged CompletionSignal; all decisions
// live in the arbiter so the three channels cannot drift apart.
type BrowserSession struct {
	OrderRef   string
	PaymentURL string

	arbiter   *Arbiter
	appScheme string

	mu     sync.Mutex
	closed bool
}

func newBrowserSession(orderRef, paymentURL, appScheme string, arbiter *Arbiter) *BrowserSession {
	arbiter.Begin()
	return &BrowserSession{
		OrderRef:   orderRef,
		PaymentURL: paymentURL,
		arbiter:    arbiter,
		appScheme:  appScheme,
	}
}

// HandleNavigation processes a navigation-state change of the hosted page.
func (s *BrowserSession) HandleNavigation(rawURL string) {
	if s.isClosed() {
		return
	}
	s.arbiter.Apply(signalFromURL(enum.SourceNavigationState, rawURL))
}

// HandleOutgoingRequest inspects a URL before the engine loads it and
// reports whether the load may proceed. Custom-scheme redirects into the app
// are consumed here: the engine cannot render them, and when they carry the
// success marker they are themselves the completion proof.
func (s *BrowserSession) HandleOutgoingRequest(rawURL string) (allow bool) {
	if s.isClosed() {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}

	if s.appScheme != "" && u.Scheme == s.appScheme {
		if strings.Contains(u.Path, deepLinkSuccessMarker) || strings.Contains(u.Opaque, deepLinkSuccessMarker) ||
			strings.Contains(u.Host, deepLinkSuccessMarker) {
			s.arbiter.Apply(successSignal(enum.SourceRequestIntercept, rawURL))
		}
		return false
	}

	s.arbiter.Apply(signalFromURL(enum.SourceRequestIntercept, rawURL))
	return true
}

// HandleDeepLink processes a deep link the OS routed back into the app.
func (s *BrowserSession) HandleDeepLink(rawURL string) {
	if s.isClosed() {
		return
	}
	s.arbiter.Apply(signalFromURL(enum.SourceDeepLink, rawURL))
}

// HandlePageMessage processes a structured message posted by the injected
// page script. Only the success marker type is meaningful; anything else is
// no signal.
func (s *BrowserSession) HandlePageMessage(payload map[string]any) {
	if s.isClosed() {
		return
	}

	msgType, _ := payload["type"].(string)
	if msgType != pageMessageSuccessType {
		return
	}

	rawURL, _ := payload["url"].(string)
	s.arbiter.Apply(successSignal(enum.SourcePageMessage, rawURL))
}

// HandleLoadError processes an engine load failure. Some gateway and
// environment combinations redirect to a loopback address the device cannot
// reach; the failing URL's query parameters are still proof of completion,
// so the URL is evaluated exactly like a navigation.
func (s *BrowserSession) HandleLoadError(rawURL string) {
	if s.isClosed() {
		return
	}
	s.arbiter.Apply(signalFromURL(enum.SourceNavigationState, rawURL))
}

// InterstitialBypassScript returns the JS the host injects into the hosted
// page.
func (s *BrowserSession) InterstitialBypassScript() string {
	return interstitialBypassScript
}

func (s *BrowserSession) State() ArbiterState {
	return s.arbiter.State()
}

func (s *BrowserSession) Signals() []CompletionSignal {
	return s.arbiter.Signals()
}

// Close stops listening on all channels. Signals delivered after close are
// dropped without reaching the arbiter.
func (s *BrowserSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *BrowserSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

/*----------- SessionManager -----------*/

// SessionManager owns the live sessions keyed by order ref. Sessions are
// in-memory only: a restart forgets them, matching the screen-scoped
// lifetime of the flow.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*BrowserSession
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*BrowserSession)}
}

// Open registers a fresh session, closing and replacing any previous one for
// the same order ref so stale signals from an aborted attempt cannot leak in.
func (m *SessionManager) Open(orderRef, paymentURL, appScheme string, arbiter *Arbiter) *BrowserSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.sessions[orderRef]; ok {
		prev.Close()
		logger.Debug.Printf("replaced stale session for %s", orderRef)
	}

	session := newBrowserSession(orderRef, paymentURL, appScheme, arbiter)
	m.sessions[orderRef] = session
	return session
}

func (m *SessionManager) Get(orderRef string) (*BrowserSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[orderRef]
	return session, ok
}

// Remove closes and forgets a session.
func (m *SessionManager) Remove(orderRef string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[orderRef]; ok {
		session.Close()
		delete(m.sessions, orderRef)
	}
}
