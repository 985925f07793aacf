package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/agent"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/inspect"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/service"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// startResponder serves the reference catalog with a privileged agent 0
// and agent 1, both on loopback TCP. It returns the channel addresses.
func startResponder(t *testing.T) (platform, ospm string, table *ownership.Table) {
	t.Helper()

	table, err := ownership.New(catalog.Reference(), 2)
	require.NoError(t, err)
	registry := agent.NewRegistry()
	require.NoError(t, registry.Add(0, "platform", true))
	require.NoError(t, registry.Add(1, "ospm", false))

	config := service.DefaultConfig()
	config.Channels = []service.ChannelConfig{
		{AgentID: 0, Network: "tcp", Address: "127.0.0.1:0"},
		{AgentID: 1, Network: "tcp", Address: "127.0.0.1:0"},
	}
	r, err := service.NewResponder(table, registry, config)
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))
	t.Cleanup(func() { _ = r.Stop(context.Background()) })

	a0, err := r.Addr(0)
	require.NoError(t, err)
	a1, err := r.Addr(1)
	require.NoError(t, err)
	return a0.String(), a1.String(), table
}

// run executes one command line and returns its standard output.
func run(t *testing.T, addr string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color", "--addr", addr}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "pinctrl-ctl", cmd.Use)

	want := []string{"version", "attrs", "list", "inspect", "request", "release", "configure", "grant", "revoke", "discover"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "command %s not registered", name)
	}

	addr := cmd.PersistentFlags().Lookup("addr")
	require.NotNil(t, addr)
	assert.Equal(t, DefaultAddress, addr.DefValue)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, DefaultAddress, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Protocol version: 1.0")
}

func TestAttrsAndList(t *testing.T) {
	_, ospm, _ := startResponder(t)

	out, err := run(t, ospm, "attrs")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:   1.0")
	assert.Contains(t, out, "Pins:      12")
	assert.Contains(t, out, "Groups:    5")
	assert.Contains(t, out, "Functions: 3")
	assert.Contains(t, out, "PINCTRL_REQUEST")

	out, err = run(t, ospm, "list", "groups")
	require.NoError(t, err)
	assert.Contains(t, out, "grp_gpio_i2c0")
	assert.NotContains(t, out, "grp_gpio1")
	assert.NotContains(t, out, "OWNER")

	_, err = run(t, ospm, "list", "wires")
	assert.ErrorIs(t, err, inspect.ErrUnknownSelector)
}

func TestRequestConfigureInspect(t *testing.T) {
	_, ospm, table := startResponder(t)

	out, err := run(t, ospm, "request", "group/grp_gpio_i2c0")
	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)
	owner, _ := table.Owner(wire.SelectorGroup, 1)
	assert.Equal(t, ownership.OwnedBy(1), owner)

	out, err = run(t, ospm, "configure", "group/grp_gpio_i2c0", "-f", "f_i2c", "bias-pull-up", "drive-strength=8")
	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)

	out, err = run(t, ospm, "inspect", "group/1")
	require.NoError(t, err)
	assert.Contains(t, out, "grp_gpio_i2c0 [group 1]")
	assert.Contains(t, out, "function: 1")
	assert.Contains(t, out, "drive-strength=8")

	out, err = run(t, ospm, "release", "group/1")
	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)
	owner, _ = table.Owner(wire.SelectorGroup, 1)
	assert.Equal(t, ownership.Unowned, owner)

	_, err = run(t, ospm, "configure", "group/1")
	assert.Error(t, err)
	_, err = run(t, ospm, "request", "groups")
	assert.ErrorIs(t, err, inspect.ErrPartialPath)
}

func TestPermissions(t *testing.T) {
	platform, ospm, _ := startResponder(t)

	out, err := run(t, ospm, "grant", "1", "pin/9")
	assert.ErrorIs(t, err, wire.ErrDenied)
	assert.Equal(t, "DENIED\n", out)

	out, err = run(t, platform, "grant", "1", "pin/8")
	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)

	out, err = run(t, ospm, "request", "pin/8")
	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)

	out, err = run(t, platform, "revoke", "1", "pin/8")
	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)

	_, err = run(t, platform, "grant", "x", "pin/8")
	assert.Error(t, err)
}

func TestConnectFailure(t *testing.T) {
	_, err := run(t, "127.0.0.1:1", "--timeout", "200ms", "attrs")
	assert.ErrorContains(t, err, "connect 127.0.0.1:1")
}
