// Package config loads the responder configuration file.
//
// A configuration names the catalog, the agents in id order, and the
// channel each agent connects on:
//
//	name: board0
//	catalog: board0-pins.yaml
//	agents:
//	  - {name: platform, privileged: true}
//	  - {name: ospm}
//	channels:
//	  - {agent: platform, address: "127.0.0.1:4190"}
//	  - {agent: ospm, network: unix, address: /run/pinctrl/ospm.sock}
//	release_on_disconnect: true
//	mdns: {enabled: true}
//	log: {level: debug, protocol_log: /var/log/pinctrl.cbor}
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/agent"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/service"
)

// Config errors.
var (
	ErrInvalid      = errors.New("invalid configuration")
	ErrUnknownAgent = errors.New("unknown agent")
)

// Agent declares one agent. Agents get ids in declaration order.
type Agent struct {
	Name       string `yaml:"name"`
	Privileged bool   `yaml:"privileged,omitempty"`
}

// Channel declares a listener bound to an agent.
type Channel struct {
	// Agent is the agent's name or numeric id.
	Agent      string `yaml:"agent"`
	Network    string `yaml:"network,omitempty"`
	Address    string `yaml:"address"`
	MaxPayload int    `yaml:"max_payload,omitempty"`
}

// MDNS controls channel advertisement.
type MDNS struct {
	Enabled   bool   `yaml:"enabled"`
	Interface string `yaml:"interface,omitempty"`
}

// Log controls operational and protocol logging.
type Log struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level,omitempty"`

	// Format is text or json.
	Format string `yaml:"format,omitempty"`

	// ProtocolLog is the path of the CBOR protocol event log. Empty
	// disables it.
	ProtocolLog string `yaml:"protocol_log,omitempty"`
}

// Config is the responder configuration file.
type Config struct {
	Name string `yaml:"name,omitempty"`

	// Catalog is the path of a catalog file. Empty selects the built-in
	// reference catalog.
	Catalog string `yaml:"catalog,omitempty"`

	// State is the path of the permission state file. Empty keeps
	// administered permissions in memory only.
	State string `yaml:"state,omitempty"`

	Agents              []Agent   `yaml:"agents"`
	Channels            []Channel `yaml:"channels"`
	ReleaseOnDisconnect bool      `yaml:"release_on_disconnect"`
	MaxFrameSize        uint32    `yaml:"max_frame_size,omitempty"`
	MDNS                MDNS      `yaml:"mdns"`
	Log                 Log       `yaml:"log"`
}

// Default returns the configuration used without a file: a privileged
// platform agent and an OSPM agent on loopback TCP.
func Default() *Config {
	return &Config{
		Name: "pinctrl",
		Agents: []Agent{
			{Name: "platform", Privileged: true},
			{Name: "ospm"},
		},
		Channels: []Channel{
			{Agent: "platform", Network: "tcp", Address: "127.0.0.1:4190"},
			{Agent: "ospm", Network: "tcp", Address: "127.0.0.1:4191"},
		},
		ReleaseOnDisconnect: true,
		Log:                 Log{Level: "info", Format: "text"},
	}
}

// Parse decodes YAML over the defaults and validates the result. Agents
// and channels in the file replace the default lists.
func Parse(data []byte) (*Config, error) {
	c := Default()
	c.Agents, c.Channels = nil, nil
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Save writes the configuration as YAML.
func Save(path string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks agents, channel references and log settings.
func (c *Config) Validate() error {
	if len(c.Agents) == 0 {
		return fmt.Errorf("%w: no agents", ErrInvalid)
	}
	if len(c.Agents) > agent.MaxAgents {
		return fmt.Errorf("%w: %d agents, at most %d", ErrInvalid, len(c.Agents), agent.MaxAgents)
	}
	names := make(map[string]bool, len(c.Agents))
	for i, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("%w: agent %d has no name", ErrInvalid, i)
		}
		if names[a.Name] {
			return fmt.Errorf("%w: duplicate agent %q", ErrInvalid, a.Name)
		}
		names[a.Name] = true
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalid)
	}
	for i, ch := range c.Channels {
		if _, err := c.AgentID(ch.Agent); err != nil {
			return fmt.Errorf("%w: channel %d: %w", ErrInvalid, i, err)
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// AgentID resolves an agent name or numeric id.
func (c *Config) AgentID(ref string) (uint32, error) {
	for i, a := range c.Agents {
		if a.Name == ref {
			return uint32(i), nil
		}
	}
	if n, err := strconv.ParseUint(ref, 10, 32); err == nil && n < uint64(len(c.Agents)) {
		return uint32(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAgent, ref)
}

// Registry builds the agent registry.
func (c *Config) Registry() (*agent.Registry, error) {
	r := agent.NewRegistry()
	for i, a := range c.Agents {
		if err := r.Add(uint32(i), a.Name, a.Privileged); err != nil {
			return nil, fmt.Errorf("agent %q: %w", a.Name, err)
		}
	}
	return r, nil
}

// LoadCatalog loads the configured catalog, or the reference catalog.
func (c *Config) LoadCatalog() (*catalog.Catalog, error) {
	if c.Catalog == "" {
		return catalog.Reference(), nil
	}
	return catalog.Load(c.Catalog)
}

// ServiceConfig converts the file into a responder configuration. Logger
// and ProtocolLogger are left for the caller.
func (c *Config) ServiceConfig() (service.Config, error) {
	sc := service.DefaultConfig()
	if c.Name != "" {
		sc.Name = c.Name
	}
	if c.MaxFrameSize != 0 {
		sc.MaxFrameSize = c.MaxFrameSize
	}
	sc.ReleaseOnDisconnect = c.ReleaseOnDisconnect
	sc.Advertise = c.MDNS.Enabled
	sc.Interface = c.MDNS.Interface

	for _, ch := range c.Channels {
		id, err := c.AgentID(ch.Agent)
		if err != nil {
			return service.Config{}, err
		}
		sc.Channels = append(sc.Channels, service.ChannelConfig{
			AgentID:        id,
			Network:        ch.Network,
			Address:        ch.Address,
			MaxPayloadSize: ch.MaxPayload,
		})
	}
	if err := sc.Validate(len(c.Agents)); err != nil {
		return service.Config{}, err
	}
	return sc, nil
}

// ParseLevel converts a level name. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
