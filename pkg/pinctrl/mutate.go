package pinctrl

import (
	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

func (p *Protocol) request(c call) wire.Response {
	var req wire.ResourceRequest
	if !decode(c, &req) {
		return protocolError
	}
	return wire.StatusResponse{Status: p.table.Request(req.Selector(), req.ID(), c.agent)}
}

func (p *Protocol) release(c call) wire.Response {
	var req wire.ResourceRequest
	if !decode(c, &req) {
		return protocolError
	}
	return wire.StatusResponse{Status: p.table.Release(req.Selector(), req.ID(), c.agent)}
}

// settingsConfigure selects a function and writes configs on a resource
// the caller owns. The change is applied whole or not at all.
func (p *Protocol) settingsConfigure(c call) wire.Response {
	var req wire.SettingsConfigureRequest
	if !decode(c, &req) {
		return protocolError
	}
	attrs := req.Decoded()
	st := p.table.Configure(ownership.Change{
		Selector:    attrs.Selector,
		ID:          req.ID(),
		Agent:       c.agent,
		SetFunction: attrs.FunctionValid,
		Function:    wire.IdentifierOf(req.FunctionID),
		Configs:     req.Configs,
	})
	return wire.StatusResponse{Status: st}
}

// setPermissions changes one agent's bit in a resource's permission mask.
// Only privileged callers may use it; the resource mask itself is not
// consulted.
func (p *Protocol) setPermissions(c call) wire.Response {
	var req wire.SetPermissionsRequest
	if !decode(c, &req) {
		return protocolError
	}
	if !p.roles.IsPrivileged(c.agent) {
		return wire.StatusResponse{Status: wire.StatusDenied}
	}
	sel, allow := wire.UnpackPermissionFlags(req.Flags)
	return wire.StatusResponse{Status: p.table.SetPermission(sel, req.ID(), req.AgentID, allow)}
}
