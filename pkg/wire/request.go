package wire

import "fmt"

// NegotiateVersionRequest asks the platform to use a protocol version.
type NegotiateVersionRequest struct {
	Version uint32
}

// MarshalBinary encodes the request payload.
func (r NegotiateVersionRequest) MarshalBinary() ([]byte, error) {
	e := newEncoder(SizeNegotiateVersion)
	e.u32(r.Version)
	return e.bytes(), nil
}

// UnmarshalBinary decodes the request payload.
func (r *NegotiateVersionRequest) UnmarshalBinary(b []byte) error {
	if err := exactSize(b, SizeNegotiateVersion); err != nil {
		return err
	}
	r.Version = newDecoder(b).u32()
	return nil
}

// MessageAttributesRequest asks for the attributes of a command.
type MessageAttributesRequest struct {
	MessageID uint32
}

// MarshalBinary encodes the request payload.
func (r MessageAttributesRequest) MarshalBinary() ([]byte, error) {
	e := newEncoder(SizeMessageAttributes)
	e.u32(r.MessageID)
	return e.bytes(), nil
}

// UnmarshalBinary decodes the request payload.
func (r *MessageAttributesRequest) UnmarshalBinary(b []byte) error {
	if err := exactSize(b, SizeMessageAttributes); err != nil {
		return err
	}
	r.MessageID = newDecoder(b).u32()
	return nil
}

// ResourceRequest addresses one pin, group or function. It is the payload
// of Attributes, Request, Release and NameGet.
type ResourceRequest struct {
	Identifier uint32
	Flags      uint32
}

// NewResourceRequest builds a request for a selector and id.
func NewResourceRequest(sel Selector, id uint16) ResourceRequest {
	return ResourceRequest{Identifier: uint32(id), Flags: uint32(sel)}
}

// Selector returns the namespace selector.
func (r ResourceRequest) Selector() Selector {
	return SelectorOf(r.Flags)
}

// ID returns the 16-bit resource identifier.
func (r ResourceRequest) ID() uint16 {
	return IdentifierOf(r.Identifier)
}

// MarshalBinary encodes the request payload.
func (r ResourceRequest) MarshalBinary() ([]byte, error) {
	e := newEncoder(SizeResourceRequest)
	e.u32(r.Identifier)
	e.u32(r.Flags)
	return e.bytes(), nil
}

// UnmarshalBinary decodes the request payload.
func (r *ResourceRequest) UnmarshalBinary(b []byte) error {
	if err := exactSize(b, SizeResourceRequest); err != nil {
		return err
	}
	d := newDecoder(b)
	r.Identifier = d.u32()
	r.Flags = d.u32()
	return nil
}

// ListAssociationsRequest enumerates the members of a group or function.
type ListAssociationsRequest struct {
	Identifier uint32
	Flags      uint32
	Index      uint32
}

// Selector returns the namespace selector.
func (r ListAssociationsRequest) Selector() Selector {
	return SelectorOf(r.Flags)
}

// ID returns the 16-bit resource identifier.
func (r ListAssociationsRequest) ID() uint16 {
	return IdentifierOf(r.Identifier)
}

// MarshalBinary encodes the request payload.
func (r ListAssociationsRequest) MarshalBinary() ([]byte, error) {
	e := newEncoder(SizeListAssociations)
	e.u32(r.Identifier)
	e.u32(r.Flags)
	e.u32(r.Index)
	return e.bytes(), nil
}

// UnmarshalBinary decodes the request payload.
func (r *ListAssociationsRequest) UnmarshalBinary(b []byte) error {
	if err := exactSize(b, SizeListAssociations); err != nil {
		return err
	}
	d := newDecoder(b)
	r.Identifier = d.u32()
	r.Flags = d.u32()
	r.Index = d.u32()
	return nil
}

// SettingsGetRequest reads the function and configs of a pin or group.
type SettingsGetRequest struct {
	Identifier uint32
	Attributes uint32
}

// ID returns the 16-bit resource identifier.
func (r SettingsGetRequest) ID() uint16 {
	return IdentifierOf(r.Identifier)
}

// Decoded returns the unpacked attributes word.
func (r SettingsGetRequest) Decoded() SettingsGetAttributes {
	return UnpackSettingsGetAttributes(r.Attributes)
}

// MarshalBinary encodes the request payload.
func (r SettingsGetRequest) MarshalBinary() ([]byte, error) {
	e := newEncoder(SizeSettingsGet)
	e.u32(r.Identifier)
	e.u32(r.Attributes)
	return e.bytes(), nil
}

// UnmarshalBinary decodes the request payload.
func (r *SettingsGetRequest) UnmarshalBinary(b []byte) error {
	if err := exactSize(b, SizeSettingsGet); err != nil {
		return err
	}
	d := newDecoder(b)
	r.Identifier = d.u32()
	r.Attributes = d.u32()
	return nil
}

// SettingsConfigureRequest selects a function and writes configs on an
// owned pin or group.
type SettingsConfigureRequest struct {
	Identifier uint32
	FunctionID uint32
	Attributes uint32
	Configs    []ConfigPair
}

// ID returns the 16-bit resource identifier.
func (r SettingsConfigureRequest) ID() uint16 {
	return IdentifierOf(r.Identifier)
}

// Decoded returns the unpacked attributes word.
func (r SettingsConfigureRequest) Decoded() SettingsConfigureAttributes {
	return UnpackSettingsConfigureAttributes(r.Attributes)
}

// MarshalBinary encodes the request payload. The number of configs in the
// attributes word is taken from len(Configs).
func (r SettingsConfigureRequest) MarshalBinary() ([]byte, error) {
	if len(r.Configs) > cfgNumMask {
		return nil, fmt.Errorf("%d configs exceed the attribute field", len(r.Configs))
	}
	attrs := r.Decoded()
	attrs.NumConfigs = uint8(len(r.Configs))

	e := newEncoder(SizeSettingsConfigure + len(r.Configs)*ConfigPairSize)
	e.u32(r.Identifier)
	e.u32(r.FunctionID)
	e.u32(attrs.Pack())
	for _, c := range r.Configs {
		e.u32(uint32(c.Type))
		e.u32(c.Value)
	}
	return e.bytes(), nil
}

// UnmarshalBinary decodes the request payload. The payload must hold
// exactly the number of configs announced by the attributes word.
func (r *SettingsConfigureRequest) UnmarshalBinary(b []byte) error {
	want, ok := SettingsConfigureSize(b)
	if !ok {
		return exactSize(b, SizeSettingsConfigure)
	}
	if err := exactSize(b, want); err != nil {
		return err
	}
	d := newDecoder(b)
	r.Identifier = d.u32()
	r.FunctionID = d.u32()
	r.Attributes = d.u32()
	n := int(r.Decoded().NumConfigs)
	r.Configs = make([]ConfigPair, n)
	for i := range n {
		r.Configs[i].Type = ConfigType(d.u32() & configTypeWireMask)
		r.Configs[i].Value = d.u32()
	}
	return d.err
}

// SetPermissionsRequest grants or revokes an agent's access to a resource.
type SetPermissionsRequest struct {
	AgentID    uint32
	Identifier uint32
	Flags      uint32
}

// ID returns the 16-bit resource identifier.
func (r SetPermissionsRequest) ID() uint16 {
	return IdentifierOf(r.Identifier)
}

// MarshalBinary encodes the request payload.
func (r SetPermissionsRequest) MarshalBinary() ([]byte, error) {
	e := newEncoder(SizeSetPermissions)
	e.u32(r.AgentID)
	e.u32(r.Identifier)
	e.u32(r.Flags)
	return e.bytes(), nil
}

// UnmarshalBinary decodes the request payload.
func (r *SetPermissionsRequest) UnmarshalBinary(b []byte) error {
	if err := exactSize(b, SizeSetPermissions); err != nil {
		return err
	}
	d := newDecoder(b)
	r.AgentID = d.u32()
	r.Identifier = d.u32()
	r.Flags = d.u32()
	return nil
}
