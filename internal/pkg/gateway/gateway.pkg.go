package gateway

import (
	"context"
	"decor-wallet/internal/common/enum"
	"fmt"
)

// SessionRequest is what every provider needs to open a hosted payment page.
type SessionRequest struct {
	OrderRef   string
	CustomerID string
	Amount     int64
}

// Session is the provider-agnostic result: an opaque URL the embedded
// browser renders. Nothing else about the gateway page is interpreted here.
type Session struct {
	OrderRef   string
	PaymentURL string
	Channel    enum.TopupChannelEnum
}

type IProvider interface {
	CreateSession(ctx context.Context, req *SessionRequest) (*Session, error)
	Channel() enum.TopupChannelEnum
}

// Manager holds the configured providers keyed by channel.
type Manager struct {
	providers map[enum.TopupChannelEnum]IProvider
}

func NewManager(providers ...IProvider) *Manager {
	m := &Manager{providers: make(map[enum.TopupChannelEnum]IProvider)}
	for _, p := range providers {
		m.providers[p.Channel()] = p
	}
	return m
}

func (m *Manager) Get(channel enum.TopupChannelEnum) (IProvider, error) {
	p, ok := m.providers[channel]
	if !ok {
		return nil, fmt.Errorf("payment channel '%s' not configured", channel)
	}
	return p, nil
}

func (m *Manager) Channels() []enum.TopupChannelEnum {
	channels := make([]enum.TopupChannelEnum, 0, len(m.providers))
	for name := range m.providers {
		channels = append(channels, name)
	}
	return channels
}
