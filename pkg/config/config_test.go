package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
)

const sample = `
name: board0
agents:
  - {name: platform, privileged: true}
  - {name: ospm}
  - {name: modem}
channels:
  - {agent: platform, address: "127.0.0.1:0"}
  - {agent: "2", network: unix, address: /tmp/modem.sock, max_payload: 64}
release_on_disconnect: false
state: /var/lib/pinctrl/perms.json
mdns: {enabled: true, interface: eth0}
log: {level: debug, format: json, protocol_log: /tmp/pinctrl.cbor}
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "board0", c.Name)
	assert.Len(t, c.Agents, 3)
	assert.False(t, c.ReleaseOnDisconnect)
	assert.Equal(t, "/var/lib/pinctrl/perms.json", c.State)
	assert.Equal(t, "json", c.Log.Format)

	sc, err := c.ServiceConfig()
	require.NoError(t, err)
	assert.Equal(t, "board0", sc.Name)
	assert.True(t, sc.Advertise)
	assert.Equal(t, "eth0", sc.Interface)
	require.Len(t, sc.Channels, 2)
	assert.Equal(t, uint32(0), sc.Channels[0].AgentID)
	assert.Equal(t, uint32(2), sc.Channels[1].AgentID)
	assert.Equal(t, "unix", sc.Channels[1].Network)
	assert.Equal(t, 64, sc.Channels[1].MaxPayloadSize)

	r, err := c.Registry()
	require.NoError(t, err)
	assert.Equal(t, 3, r.Count())
	assert.True(t, r.IsPrivileged(0))
	assert.False(t, r.IsPrivileged(2))
}

func TestParseKeepsDefaults(t *testing.T) {
	c, err := Parse([]byte("agents: [{name: a}]\nchannels: [{agent: a, address: ':0'}]\n"))
	require.NoError(t, err)
	assert.Equal(t, "pinctrl", c.Name)
	assert.True(t, c.ReleaseOnDisconnect)
	assert.Equal(t, "info", c.Log.Level)
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	sc, err := c.ServiceConfig()
	require.NoError(t, err)
	assert.Len(t, sc.Channels, 2)
	assert.True(t, sc.ReleaseOnDisconnect)

	cat, err := c.LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, 18, cat.Count(0))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no agents", func(c *Config) { c.Agents = nil }},
		{"unnamed agent", func(c *Config) { c.Agents[1].Name = "" }},
		{"duplicate agent", func(c *Config) { c.Agents[1].Name = "platform" }},
		{"too many agents", func(c *Config) { c.Agents = make([]Agent, 33) }},
		{"no channels", func(c *Config) { c.Channels = nil }},
		{"unknown agent", func(c *Config) { c.Channels[0].Agent = "modem" }},
		{"agent id out of range", func(c *Config) { c.Channels[0].Agent = "2" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestServiceConfigRejectsDuplicateAddress(t *testing.T) {
	c := Default()
	c.Channels[1].Address = c.Channels[0].Address
	_, err := c.ServiceConfig()
	assert.Error(t, err)
}

func TestAgentID(t *testing.T) {
	c := Default()
	id, err := c.AgentID("ospm")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), id)

	id, err = c.AgentID("0")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), id)

	_, err = c.AgentID("modem")
	assert.ErrorIs(t, err, ErrUnknownAgent)
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()

	catPath := filepath.Join(dir, "pins.yaml")
	data, err := catalog.Marshal(catalog.Reference())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(catPath, data, 0644))

	c := Default()
	c.Catalog = catPath
	path := filepath.Join(dir, "pinctrl.yaml")
	require.NoError(t, Save(path, c))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)

	cat, err := loaded.LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, 7, cat.Count(1))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(path, []byte("agents: {"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("trace")
	assert.Error(t, err)
}
