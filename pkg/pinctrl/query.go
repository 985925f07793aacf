package pinctrl

import (
	"encoding"
	"slices"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/version"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

var protocolError = wire.StatusResponse{Status: wire.StatusProtocolError}

func decode(c call, into encoding.BinaryUnmarshaler) bool {
	return into.UnmarshalBinary(c.payload) == nil
}

func (p *Protocol) protocolVersion(call) wire.Response {
	return wire.ProtocolVersionResponse{Status: wire.StatusSuccess, Version: wire.ProtocolVersion}
}

func (p *Protocol) negotiateVersion(c call) wire.Response {
	var req wire.NegotiateVersionRequest
	if !decode(c, &req) {
		return protocolError
	}
	if !version.IsSupported(version.FromWire(req.Version)) {
		return wire.StatusResponse{Status: wire.StatusNotSupported}
	}
	return wire.StatusResponse{Status: wire.StatusSuccess}
}

// protocolAttributes counts the resources visible to the caller.
func (p *Protocol) protocolAttributes(c call) wire.Response {
	pins, groups, functions := p.table.VisibleCounts(c.agent)
	return wire.ProtocolAttributesResponse{
		Status:    wire.StatusSuccess,
		Pins:      pins,
		Groups:    groups,
		Functions: functions,
	}
}

func (p *Protocol) messageAttributes(c call) wire.Response {
	var req wire.MessageAttributesRequest
	if !decode(c, &req) {
		return protocolError
	}
	if req.MessageID > 0xff || !Supported(wire.MessageID(req.MessageID)) {
		return wire.MessageAttributesResponse{Status: wire.StatusNotFound}
	}
	return wire.MessageAttributesResponse{Status: wire.StatusSuccess}
}

// attributes reports a resource's short name and member count. Resources
// the caller may not see are reported as absent.
func (p *Protocol) attributes(c call) wire.Response {
	var req wire.ResourceRequest
	if !decode(c, &req) {
		return protocolError
	}
	sel, id := req.Selector(), req.ID()
	if !sel.IsValid() {
		return wire.AttributesResponse{Status: wire.StatusInvalidParameters}
	}
	if exists, allowed := p.table.Allowed(sel, id, c.agent); !exists || !allowed {
		return wire.AttributesResponse{Status: wire.StatusNotFound}
	}

	name, _ := p.catalog.Name(sel, id)
	return wire.AttributesResponse{
		Status:       wire.StatusSuccess,
		Count:        p.catalog.MemberCount(sel, id),
		ExtendedName: wire.NameTruncated(name, wire.ShortNameSize),
		Name:         name,
	}
}

// listAssociations returns the members of a group or function from the
// requested index on, as many as fit the channel.
func (p *Protocol) listAssociations(c call) wire.Response {
	var req wire.ListAssociationsRequest
	if !decode(c, &req) {
		return protocolError
	}
	sel, id := req.Selector(), req.ID()
	if sel != wire.SelectorGroup && sel != wire.SelectorFunction {
		return wire.ListAssociationsResponse{Status: wire.StatusInvalidParameters}
	}
	exists, allowed := p.table.Allowed(sel, id, c.agent)
	switch {
	case !exists:
		return wire.ListAssociationsResponse{Status: wire.StatusNotFound}
	case !allowed:
		return wire.ListAssociationsResponse{Status: wire.StatusDenied}
	}

	members, _ := p.catalog.Members(sel, id)
	if uint64(req.Index) >= uint64(len(members)) {
		return wire.ListAssociationsResponse{Status: wire.StatusInvalidParameters}
	}
	rest := members[req.Index:]

	fit := (c.capacity - wire.ListAssociationsHeaderSize) / wire.AssociationEntrySize
	n := min(len(rest), wire.MaxAssociationCount, fit)
	if n < 1 {
		return wire.ListAssociationsResponse{Status: wire.StatusGenericError}
	}
	return wire.ListAssociationsResponse{
		Status:    wire.StatusSuccess,
		Remaining: len(rest) - n,
		Members:   slices.Clone(rest[:n]),
	}
}

// settingsGet returns the selected function and a page of configs.
func (p *Protocol) settingsGet(c call) wire.Response {
	var req wire.SettingsGetRequest
	if !decode(c, &req) {
		return protocolError
	}
	attrs := req.Decoded()
	switch attrs.Flag {
	case wire.ConfigFlagSingle, wire.ConfigFlagAll, wire.ConfigFlagFunction:
	default:
		return wire.SettingsGetResponse{Status: wire.StatusInvalidParameters}
	}

	s, st := p.table.Settings(attrs.Selector, req.ID(), c.agent)
	if st.IsError() {
		return wire.SettingsGetResponse{Status: st}
	}
	resp := wire.SettingsGetResponse{Status: wire.StatusSuccess, Function: s.Function}

	switch attrs.Flag {
	case wire.ConfigFlagFunction:
		return resp

	case wire.ConfigFlagSingle:
		if v, ok := s.Config(attrs.ConfigType); ok {
			resp.Configs = []wire.ConfigPair{{Type: attrs.ConfigType, Value: v}}
		}
		return resp
	}

	skip := int(attrs.Skip)
	if skip > len(s.Configs) {
		return wire.SettingsGetResponse{Status: wire.StatusInvalidParameters}
	}
	rest := s.Configs[skip:]
	if len(rest) == 0 {
		return resp
	}

	fit := (c.capacity - wire.SettingsGetHeaderSize) / wire.ConfigPairSize
	n := min(len(rest), wire.MaxSettingsCount, fit)
	if n < 1 {
		return wire.SettingsGetResponse{Status: wire.StatusGenericError}
	}
	resp.Configs = rest[:n]
	resp.Remaining = len(rest) - n
	return resp
}

// nameGet returns the full name of a resource. Resources the caller may
// not see are reported as absent.
func (p *Protocol) nameGet(c call) wire.Response {
	var req wire.ResourceRequest
	if !decode(c, &req) {
		return protocolError
	}
	sel, id := req.Selector(), req.ID()
	if !sel.IsValid() {
		return wire.NameGetResponse{Status: wire.StatusInvalidParameters}
	}
	if exists, allowed := p.table.Allowed(sel, id, c.agent); !exists || !allowed {
		return wire.NameGetResponse{Status: wire.StatusNotFound}
	}
	name, _ := p.catalog.Name(sel, id)
	return wire.NameGetResponse{Status: wire.StatusSuccess, Name: name}
}
