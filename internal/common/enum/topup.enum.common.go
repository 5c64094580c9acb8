package enum

/*----------- TopupStatusEnum -----------*/

// TopupStatusEnum is the lifecycle of a wallet top-up attempt. PENDING covers
// both "session created" and "awaiting gateway result"; the terminal states
// are only ever written by the completion arbiter.
type TopupStatusEnum string

const (
	TopupPending   TopupStatusEnum = "pending"
	TopupSucceeded TopupStatusEnum = "succeeded"
	TopupFailed    TopupStatusEnum = "failed"
)

func (e TopupStatusEnum) ToString() string {
	switch e {
	case TopupPending:
		return "pending"
	case TopupSucceeded:
		return "succeeded"
	case TopupFailed:
		return "failed"
	}
	return ""
}

func (e TopupStatusEnum) IsValid() bool {
	switch e {
	case TopupPending, TopupSucceeded, TopupFailed:
		return true
	}
	return false
}

func (e TopupStatusEnum) IsTerminal() bool {
	return e == TopupSucceeded || e == TopupFailed
}

/*----------- SignalSourceEnum -----------*/

// SignalSourceEnum tags which embedded-browser channel produced a completion
// signal. None of the channels is reliable on its own across gateway and
// environment combinations, which is why all four exist.
type SignalSourceEnum string

const (
	SourceNavigationState  SignalSourceEnum = "navigation_state"
	SourceRequestIntercept SignalSourceEnum = "request_intercept"
	SourceDeepLink         SignalSourceEnum = "deep_link"
	SourcePageMessage      SignalSourceEnum = "injected_script_message"
)

func (e SignalSourceEnum) ToString() string {
	return string(e)
}

func (e SignalSourceEnum) IsValid() bool {
	switch e {
	case SourceNavigationState, SourceRequestIntercept, SourceDeepLink, SourcePageMessage:
		return true
	}
	return false
}

/*----------- TopupChannelEnum -----------*/

type TopupChannelEnum string

const (
	ChannelVNPay    TopupChannelEnum = "vnpay"
	ChannelMidtrans TopupChannelEnum = "midtrans"
)

func (e TopupChannelEnum) ToString() string {
	return string(e)
}

func (e TopupChannelEnum) IsValid() bool {
	switch e {
	case ChannelVNPay, ChannelMidtrans:
		return true
	}
	return false
}
