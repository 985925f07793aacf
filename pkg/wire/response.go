package wire

// Response is a command response that can be sent back to an agent.
type Response interface {
	// ResponseStatus returns the status carried by the response.
	ResponseStatus() Status

	// MarshalBinary encodes the response payload. A non-success response
	// encodes only its status.
	MarshalBinary() ([]byte, error)
}

func statusOnly(s Status) []byte {
	e := newEncoder(4)
	e.status(s)
	return e.bytes()
}

// decodeStatus reads the leading status word. ok is false when the payload
// ends after a non-success status.
func decodeStatus(d *decoder) (Status, bool) {
	s := Status(int32(d.u32()))
	return s, d.err == nil && s.IsSuccess()
}

// StatusResponse is a response that carries only a status.
type StatusResponse struct {
	Status Status
}

func (r StatusResponse) ResponseStatus() Status { return r.Status }

// MarshalBinary encodes the response payload.
func (r StatusResponse) MarshalBinary() ([]byte, error) {
	return statusOnly(r.Status), nil
}

// UnmarshalBinary decodes the response payload.
func (r *StatusResponse) UnmarshalBinary(b []byte) error {
	d := newDecoder(b)
	r.Status, _ = decodeStatus(d)
	return d.err
}

// ProtocolVersionResponse reports the implemented protocol version.
type ProtocolVersionResponse struct {
	Status  Status
	Version uint32
}

func (r ProtocolVersionResponse) ResponseStatus() Status { return r.Status }

// MarshalBinary encodes the response payload.
func (r ProtocolVersionResponse) MarshalBinary() ([]byte, error) {
	if r.Status.IsError() {
		return statusOnly(r.Status), nil
	}
	e := newEncoder(8)
	e.status(r.Status)
	e.u32(r.Version)
	return e.bytes(), nil
}

// UnmarshalBinary decodes the response payload.
func (r *ProtocolVersionResponse) UnmarshalBinary(b []byte) error {
	d := newDecoder(b)
	var ok bool
	if r.Status, ok = decodeStatus(d); !ok {
		return d.err
	}
	r.Version = d.u32()
	return d.err
}

// ProtocolAttributesResponse reports the number of resources visible to
// the calling agent.
type ProtocolAttributesResponse struct {
	Status    Status
	Pins      uint16
	Groups    uint16
	Functions uint16
}

func (r ProtocolAttributesResponse) ResponseStatus() Status { return r.Status }

// MarshalBinary encodes the response payload.
func (r ProtocolAttributesResponse) MarshalBinary() ([]byte, error) {
	if r.Status.IsError() {
		return statusOnly(r.Status), nil
	}
	low, high := PackProtocolAttributes(r.Pins, r.Groups, r.Functions)
	e := newEncoder(12)
	e.status(r.Status)
	e.u32(low)
	e.u32(high)
	return e.bytes(), nil
}

// UnmarshalBinary decodes the response payload.
func (r *ProtocolAttributesResponse) UnmarshalBinary(b []byte) error {
	d := newDecoder(b)
	var ok bool
	if r.Status, ok = decodeStatus(d); !ok {
		return d.err
	}
	low, high := d.u32(), d.u32()
	r.Pins, r.Groups, r.Functions = UnpackProtocolAttributes(low, high)
	return d.err
}

// MessageAttributesResponse reports the attributes of a command.
type MessageAttributesResponse struct {
	Status     Status
	Attributes uint32
}

func (r MessageAttributesResponse) ResponseStatus() Status { return r.Status }

// MarshalBinary encodes the response payload.
func (r MessageAttributesResponse) MarshalBinary() ([]byte, error) {
	if r.Status.IsError() {
		return statusOnly(r.Status), nil
	}
	e := newEncoder(8)
	e.status(r.Status)
	e.u32(r.Attributes)
	return e.bytes(), nil
}

// UnmarshalBinary decodes the response payload.
func (r *MessageAttributesResponse) UnmarshalBinary(b []byte) error {
	d := newDecoder(b)
	var ok bool
	if r.Status, ok = decodeStatus(d); !ok {
		return d.err
	}
	r.Attributes = d.u32()
	return d.err
}

// AttributesResponse describes one pin, group or function. Name is the
// short name; ExtendedName is set when the full name did not fit.
type AttributesResponse struct {
	Status       Status
	Count        uint16
	ExtendedName bool
	Name         string
}

func (r AttributesResponse) ResponseStatus() Status { return r.Status }

// MarshalBinary encodes the response payload.
func (r AttributesResponse) MarshalBinary() ([]byte, error) {
	if r.Status.IsError() {
		return statusOnly(r.Status), nil
	}
	e := newEncoder(8 + ShortNameSize)
	e.status(r.Status)
	e.u32(PackAttributes(r.Count, r.ExtendedName))
	e.name(r.Name, ShortNameSize)
	return e.bytes(), nil
}

// UnmarshalBinary decodes the response payload.
func (r *AttributesResponse) UnmarshalBinary(b []byte) error {
	d := newDecoder(b)
	var ok bool
	if r.Status, ok = decodeStatus(d); !ok {
		return d.err
	}
	r.Count, r.ExtendedName = UnpackAttributes(d.u32())
	r.Name = d.name(ShortNameSize)
	return d.err
}

// ListAssociationsResponse returns a page of member indices.
type ListAssociationsResponse struct {
	Status    Status
	Remaining int
	Members   []uint16
}

func (r ListAssociationsResponse) ResponseStatus() Status { return r.Status }

// MarshalBinary encodes the response payload. Members beyond the 12-bit
// count field are not encoded.
func (r ListAssociationsResponse) MarshalBinary() ([]byte, error) {
	if r.Status.IsError() {
		return statusOnly(r.Status), nil
	}
	members := r.Members
	if len(members) > MaxAssociationCount {
		members = members[:MaxAssociationCount]
	}
	e := newEncoder(ListAssociationsHeaderSize + len(members)*AssociationEntrySize)
	e.status(r.Status)
	e.u32(PackAssociationFlags(len(members), r.Remaining))
	for _, m := range members {
		e.u16(m)
	}
	return e.bytes(), nil
}

// UnmarshalBinary decodes the response payload.
func (r *ListAssociationsResponse) UnmarshalBinary(b []byte) error {
	d := newDecoder(b)
	var ok bool
	if r.Status, ok = decodeStatus(d); !ok {
		return d.err
	}
	var returned int
	returned, r.Remaining = UnpackAssociationFlags(d.u32())
	r.Members = make([]uint16, returned)
	for i := range returned {
		r.Members[i] = d.u16()
	}
	return d.err
}

// SettingsGetResponse returns the selected function and a page of configs.
// Function is NoFunction when none is selected.
type SettingsGetResponse struct {
	Status    Status
	Function  uint32
	Remaining int
	Configs   []ConfigPair
}

func (r SettingsGetResponse) ResponseStatus() Status { return r.Status }

// MarshalBinary encodes the response payload.
func (r SettingsGetResponse) MarshalBinary() ([]byte, error) {
	if r.Status.IsError() {
		return statusOnly(r.Status), nil
	}
	configs := r.Configs
	if len(configs) > MaxSettingsCount {
		configs = configs[:MaxSettingsCount]
	}
	e := newEncoder(SettingsGetHeaderSize + len(configs)*ConfigPairSize)
	e.status(r.Status)
	e.u32(r.Function)
	e.u32(PackSettingsCounts(len(configs), r.Remaining))
	for _, c := range configs {
		e.u32(uint32(c.Type))
		e.u32(c.Value)
	}
	return e.bytes(), nil
}

// UnmarshalBinary decodes the response payload.
func (r *SettingsGetResponse) UnmarshalBinary(b []byte) error {
	d := newDecoder(b)
	var ok bool
	if r.Status, ok = decodeStatus(d); !ok {
		return d.err
	}
	r.Function = d.u32()
	var returned int
	returned, r.Remaining = UnpackSettingsCounts(d.u32())
	r.Configs = make([]ConfigPair, returned)
	for i := range returned {
		r.Configs[i].Type = ConfigType(d.u32() & configTypeWireMask)
		r.Configs[i].Value = d.u32()
	}
	return d.err
}

// NameGetResponse returns the extended name of a resource.
type NameGetResponse struct {
	Status Status
	Flags  uint32
	Name   string
}

func (r NameGetResponse) ResponseStatus() Status { return r.Status }

// MarshalBinary encodes the response payload.
func (r NameGetResponse) MarshalBinary() ([]byte, error) {
	if r.Status.IsError() {
		return statusOnly(r.Status), nil
	}
	e := newEncoder(8 + ExtendedNameSize)
	e.status(r.Status)
	e.u32(r.Flags)
	e.name(r.Name, ExtendedNameSize)
	return e.bytes(), nil
}

// UnmarshalBinary decodes the response payload.
func (r *NameGetResponse) UnmarshalBinary(b []byte) error {
	d := newDecoder(b)
	var ok bool
	if r.Status, ok = decodeStatus(d); !ok {
		return d.err
	}
	r.Flags = d.u32()
	r.Name = d.name(ExtendedNameSize)
	return d.err
}
