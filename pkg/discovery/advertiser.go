package discovery

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

//go:generate go tool mockery --name=Advertiser --with-expecter --output=mocks --outpkg=mocks

// Advertiser publishes responder channels.
type Advertiser interface {
	// AdvertiseChannel starts advertising a channel. An existing
	// advertisement for the same agent is replaced.
	AdvertiseChannel(ctx context.Context, info *ChannelInfo) error

	// StopChannel stops the advertisement of one agent's channel.
	StopChannel(agentID uint32) error

	// StopAll stops all advertisements.
	StopAll()
}

// Browser finds responder channels.
type Browser interface {
	// BrowseChannels streams channels until ctx is done.
	BrowseChannels(ctx context.Context) (<-chan *ChannelService, error)

	// Stop stops all active browsing operations.
	Stop()
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		TTL: DefaultTTL,
	}
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// Interface restricts browsing to one network interface.
	Interface string
}

// Manager tracks the channels a responder advertises and keeps the
// advertiser in step with them.
type Manager struct {
	mu sync.Mutex

	advertiser Advertiser
	channels   map[uint32]*ChannelInfo
	closed     bool
}

// NewManager creates a manager on top of an advertiser.
func NewManager(advertiser Advertiser) *Manager {
	return &Manager{
		advertiser: advertiser,
		channels:   make(map[uint32]*ChannelInfo),
	}
}

// ErrManagerClosed is returned after Close.
var ErrManagerClosed = errors.New("discovery manager closed")

// Add validates and advertises a channel.
func (m *Manager) Add(ctx context.Context, info *ChannelInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}
	if err := m.advertiser.AdvertiseChannel(ctx, info); err != nil {
		return err
	}
	stored := *info
	m.channels[info.AgentID] = &stored
	return nil
}

// Remove stops advertising an agent's channel.
func (m *Manager) Remove(agentID uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.channels[agentID]; !ok {
		return ErrNotFound
	}
	delete(m.channels, agentID)
	return m.advertiser.StopChannel(agentID)
}

// Channels returns the advertised channels ordered by agent id.
func (m *Manager) Channels() []ChannelInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ChannelInfo, 0, len(m.channels))
	for _, c := range m.channels {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AgentID < out[j].AgentID })
	return out
}

// Close stops every advertisement. It is safe to call more than once.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.channels = make(map[uint32]*ChannelInfo)
	m.advertiser.StopAll()
}
