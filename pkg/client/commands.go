package client

import (
	"context"
	"fmt"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// ProtocolVersion returns the responder's protocol version.
func (c *Client) ProtocolVersion(ctx context.Context) (uint32, error) {
	var resp wire.ProtocolVersionResponse
	if err := c.call(ctx, wire.MsgProtocolVersion, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Version, nil
}

// NegotiateVersion asks the responder to speak an older version.
func (c *Client) NegotiateVersion(ctx context.Context, version uint32) error {
	var resp wire.StatusResponse
	return c.call(ctx, wire.MsgNegotiateVersion, wire.NegotiateVersionRequest{Version: version}, &resp)
}

// ProtocolAttributes returns the number of pins, groups and functions
// visible to the calling agent.
func (c *Client) ProtocolAttributes(ctx context.Context) (wire.ProtocolAttributesResponse, error) {
	var resp wire.ProtocolAttributesResponse
	err := c.call(ctx, wire.MsgProtocolAttributes, nil, &resp)
	return resp, err
}

// MessageAttributes returns the attributes word of a message. Unsupported
// messages fail with wire.ErrNotFound.
func (c *Client) MessageAttributes(ctx context.Context, id wire.MessageID) (uint32, error) {
	var resp wire.MessageAttributesResponse
	if err := c.call(ctx, wire.MsgMessageAttributes, wire.MessageAttributesRequest{MessageID: uint32(id)}, &resp); err != nil {
		return 0, err
	}
	return resp.Attributes, nil
}

// Attributes returns the member count and short name of a resource.
func (c *Client) Attributes(ctx context.Context, sel wire.Selector, id uint16) (wire.AttributesResponse, error) {
	var resp wire.AttributesResponse
	err := c.call(ctx, wire.MsgAttributes, wire.NewResourceRequest(sel, id), &resp)
	return resp, err
}

// NameGet returns the extended name of a resource.
func (c *Client) NameGet(ctx context.Context, sel wire.Selector, id uint16) (string, error) {
	var resp wire.NameGetResponse
	if err := c.call(ctx, wire.MsgNameGet, wire.NewResourceRequest(sel, id), &resp); err != nil {
		return "", err
	}
	return resp.Name, nil
}

// Name returns the full name of a resource, fetching the extended name
// when the short one was truncated.
func (c *Client) Name(ctx context.Context, sel wire.Selector, id uint16) (string, error) {
	attrs, err := c.Attributes(ctx, sel, id)
	if err != nil {
		return "", err
	}
	if !attrs.ExtendedName {
		return attrs.Name, nil
	}
	return c.NameGet(ctx, sel, id)
}

// ListAssociations returns one page of the members of a group or
// function, starting at index, and the number of members left after it.
func (c *Client) ListAssociations(ctx context.Context, sel wire.Selector, id uint16, index uint32) ([]uint16, int, error) {
	req := wire.ListAssociationsRequest{Identifier: uint32(id), Flags: uint32(sel), Index: index}
	var resp wire.ListAssociationsResponse
	if err := c.call(ctx, wire.MsgListAssociations, req, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Members, resp.Remaining, nil
}

// Associations pages through ListAssociations and returns every member.
func (c *Client) Associations(ctx context.Context, sel wire.Selector, id uint16) ([]uint16, error) {
	var all []uint16
	for {
		members, remaining, err := c.ListAssociations(ctx, sel, id, uint32(len(all)))
		if err != nil {
			return nil, err
		}
		all = append(all, members...)
		if remaining == 0 {
			return all, nil
		}
		if len(members) == 0 {
			return nil, fmt.Errorf("%w: empty page with %d remaining", ErrUnexpectedReply, remaining)
		}
	}
}

// SettingsGet reads the function and configs of a pin or group.
func (c *Client) SettingsGet(ctx context.Context, id uint16, attrs wire.SettingsGetAttributes) (wire.SettingsGetResponse, error) {
	req := wire.SettingsGetRequest{Identifier: uint32(id), Attributes: attrs.Pack()}
	var resp wire.SettingsGetResponse
	err := c.call(ctx, wire.MsgSettingsGet, req, &resp)
	return resp, err
}

// Settings reads the selected function and all configs of a pin or
// group, paging with the skip count.
func (c *Client) Settings(ctx context.Context, sel wire.Selector, id uint16) (uint32, []wire.ConfigPair, error) {
	var (
		function uint32
		configs  []wire.ConfigPair
	)
	for {
		attrs := wire.SettingsGetAttributes{Selector: sel, Flag: wire.ConfigFlagAll, Skip: uint8(len(configs))}
		resp, err := c.SettingsGet(ctx, id, attrs)
		if err != nil {
			return 0, nil, err
		}
		function = resp.Function
		configs = append(configs, resp.Configs...)
		if resp.Remaining == 0 {
			return function, configs, nil
		}
		if len(resp.Configs) == 0 || len(configs) > wire.MaxSettingsCount {
			return 0, nil, fmt.Errorf("%w: settings paging stalled at %d", ErrUnexpectedReply, len(configs))
		}
	}
}

// SettingsConfigure selects a function and writes configs on an owned pin
// or group. A function of wire.NoFunction leaves the function unchanged.
func (c *Client) SettingsConfigure(ctx context.Context, sel wire.Selector, id uint16, function uint32, configs []wire.ConfigPair) error {
	attrs := wire.SettingsConfigureAttributes{
		Selector:      sel,
		FunctionValid: function != wire.NoFunction,
	}
	req := wire.SettingsConfigureRequest{
		Identifier: uint32(id),
		Attributes: attrs.Pack(),
		Configs:    configs,
	}
	if attrs.FunctionValid {
		req.FunctionID = function
	}
	var resp wire.StatusResponse
	return c.call(ctx, wire.MsgSettingsConfigure, req, &resp)
}

// Request takes exclusive ownership of a pin or group.
func (c *Client) Request(ctx context.Context, sel wire.Selector, id uint16) error {
	var resp wire.StatusResponse
	return c.call(ctx, wire.MsgRequest, wire.NewResourceRequest(sel, id), &resp)
}

// Release gives up ownership of a pin or group.
func (c *Client) Release(ctx context.Context, sel wire.Selector, id uint16) error {
	var resp wire.StatusResponse
	return c.call(ctx, wire.MsgRelease, wire.NewResourceRequest(sel, id), &resp)
}

// SetPermissions grants or revokes agent's access to a pin or group.
// Only privileged agents may call it.
func (c *Client) SetPermissions(ctx context.Context, agent uint32, sel wire.Selector, id uint16, allow bool) error {
	req := wire.SetPermissionsRequest{
		AgentID:    agent,
		Identifier: uint32(id),
		Flags:      wire.PackPermissionFlags(sel, allow),
	}
	var resp wire.StatusResponse
	return c.call(ctx, wire.MsgSetPermissions, req, &resp)
}
