package discovery

import (
	"errors"
	"time"
)

const (
	// ServiceType is the DNS-SD service type of a responder channel.
	ServiceType = "_scmi-pinctrl._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// DefaultTTL is used when AdvertiserConfig.TTL is zero.
	DefaultTTL = 120 * time.Second

	// DefaultBrowseTimeout bounds a one-shot browse.
	DefaultBrowseTimeout = 3 * time.Second
)

// TXT record keys.
const (
	TXTKeyProtocol = "proto"
	TXTKeyVersion  = "ver"
	TXTKeyAgent    = "agent"
	TXTKeyName     = "name"
)

const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// MaxTXTValueLen keeps "key=value" inside a single TXT string.
	MaxTXTValueLen = 200
)

var (
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrMissingRequired     = errors.New("missing required field")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrInvalidPort         = errors.New("invalid port")
	ErrNotFound            = errors.New("service not found")
	ErrBrowseTimeout       = errors.New("browse timeout")
)

// ChannelInfo describes one advertised responder channel.
type ChannelInfo struct {
	// Responder names the responder instance, shared by all its channels.
	Responder string

	AgentID   uint32
	AgentName string

	Port uint16

	// Protocol and Version default to the pin-control values when zero.
	Protocol uint8
	Version  uint32
}

// InstanceName returns the DNS-SD instance name for the channel.
func (c *ChannelInfo) InstanceName() string {
	return instanceName(c.Responder, c.AgentID)
}

// Validate checks the fields needed for registration.
func (c *ChannelInfo) Validate() error {
	if c.Port == 0 {
		return ErrInvalidPort
	}
	if len(c.AgentName) > MaxTXTValueLen {
		return ErrInvalidTXTRecord
	}
	return ValidateInstanceName(c.InstanceName())
}

// ChannelService is a channel found by browsing.
type ChannelService struct {
	InstanceName string
	Host         string
	Port         uint16
	Addresses    []string

	Protocol  uint8
	Version   uint32
	AgentID   uint32
	AgentName string
}

// Address returns a dialable host:port, preferring the first resolved
// address over the host name.
func (s *ChannelService) Address() string {
	host := s.Host
	if len(s.Addresses) > 0 {
		host = s.Addresses[0]
	}
	return joinHostPort(host, s.Port)
}
