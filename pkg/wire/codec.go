package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Codec errors.
var (
	// ErrPayloadSize indicates a payload whose length does not match the command.
	ErrPayloadSize = errors.New("payload size mismatch")

	// ErrTruncated indicates a response shorter than its declared contents.
	ErrTruncated = errors.New("truncated payload")
)

// Fixed request payload sizes.
const (
	SizeNoPayload         = 0
	SizeMessageAttributes = 4
	SizeNegotiateVersion  = 4
	SizeResourceRequest   = 8
	SizeListAssociations  = 12
	SizeSettingsGet       = 8
	SizeSettingsConfigure = 12
	SizeSetPermissions    = 12
)

// Name field widths, including the terminating NUL.
const (
	ShortNameSize    = 16
	ExtendedNameSize = 64
)

// Response header sizes that precede variable-length arrays.
const (
	ListAssociationsHeaderSize = 8
	AssociationEntrySize       = 2
	SettingsGetHeaderSize      = 12
)

// encoder appends little-endian fields to a buffer.
type encoder struct {
	buf []byte
}

func newEncoder(size int) *encoder {
	return &encoder{buf: make([]byte, 0, size)}
}

func (e *encoder) u16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *encoder) u32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *encoder) status(s Status) {
	e.u32(uint32(s))
}

// name writes s into a fixed-width NUL-terminated field.
func (e *encoder) name(s string, width int) {
	field := make([]byte, width)
	EncodeName(field, s)
	e.buf = append(e.buf, field...)
}

func (e *encoder) bytes() []byte {
	return e.buf
}

// decoder reads little-endian fields from a payload.
type decoder struct {
	buf []byte
	off int
	err error
}

func newDecoder(b []byte) *decoder {
	return &decoder{buf: b}
}

func (d *decoder) need(n int) bool {
	if d.err != nil {
		return false
	}
	if len(d.buf)-d.off < n {
		d.err = ErrTruncated
		return false
	}
	return true
}

func (d *decoder) u16() uint16 {
	if !d.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(d.buf[d.off:])
	d.off += 2
	return v
}

func (d *decoder) u32() uint32 {
	if !d.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(d.buf[d.off:])
	d.off += 4
	return v
}

func (d *decoder) name(width int) string {
	if !d.need(width) {
		return ""
	}
	s := DecodeName(d.buf[d.off : d.off+width])
	d.off += width
	return s
}

// exactSize checks a request payload length before decoding it.
func exactSize(b []byte, want int) error {
	if len(b) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrPayloadSize, len(b), want)
	}
	return nil
}

// EncodeName copies name into a fixed-width field and NUL terminates it.
// It returns true when the name did not fit and was truncated.
func EncodeName(field []byte, name string) bool {
	clear(field)
	if len(field) == 0 {
		return len(name) > 0
	}
	n := copy(field[:len(field)-1], name)
	return n < len(name)
}

// DecodeName returns the string held in a NUL-terminated field.
func DecodeName(field []byte) string {
	for i, c := range field {
		if c == 0 {
			return string(field[:i])
		}
	}
	return string(field)
}

// NameTruncated reports whether name needs more than a field of width bytes.
func NameTruncated(name string, width int) bool {
	return len(name) > width-1
}

// SettingsConfigureSize returns the payload size a SettingsConfigure must
// have, derived from its attributes word. ok is false when the payload is
// too short to hold the attributes.
func SettingsConfigureSize(payload []byte) (size int, ok bool) {
	if len(payload) < SizeSettingsConfigure {
		return 0, false
	}
	attrs := UnpackSettingsConfigureAttributes(binary.LittleEndian.Uint32(payload[8:]))
	return SizeSettingsConfigure + int(attrs.NumConfigs)*ConfigPairSize, true
}
