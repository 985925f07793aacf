package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ProtocolID is the SCMI protocol identifier of pin control.
const ProtocolID uint8 = 0x19

// ProtocolVersion is the single protocol version implemented (1.0).
const ProtocolVersion uint32 = 0x10000

// HeaderSize is the size of the SCMI message header in bytes.
const HeaderSize = 4

// MessageID identifies a pin control command.
type MessageID uint8

const (
	MsgProtocolVersion    MessageID = 0x00
	MsgProtocolAttributes MessageID = 0x01
	MsgMessageAttributes  MessageID = 0x02
	MsgAttributes         MessageID = 0x03
	MsgListAssociations   MessageID = 0x04
	MsgSettingsGet        MessageID = 0x05
	MsgSettingsConfigure  MessageID = 0x06
	MsgRequest            MessageID = 0x07
	MsgRelease            MessageID = 0x08
	MsgNameGet            MessageID = 0x09
	MsgSetPermissions     MessageID = 0x0a
	MsgNegotiateVersion   MessageID = 0x10
)

// MessageIDs lists every command implemented by the protocol in id order.
var MessageIDs = []MessageID{
	MsgProtocolVersion,
	MsgProtocolAttributes,
	MsgMessageAttributes,
	MsgAttributes,
	MsgListAssociations,
	MsgSettingsGet,
	MsgSettingsConfigure,
	MsgRequest,
	MsgRelease,
	MsgNameGet,
	MsgSetPermissions,
	MsgNegotiateVersion,
}

// String returns the command name.
func (m MessageID) String() string {
	switch m {
	case MsgProtocolVersion:
		return "PROTOCOL_VERSION"
	case MsgProtocolAttributes:
		return "PROTOCOL_ATTRIBUTES"
	case MsgMessageAttributes:
		return "PROTOCOL_MESSAGE_ATTRIBUTES"
	case MsgAttributes:
		return "PINCTRL_ATTRIBUTES"
	case MsgListAssociations:
		return "PINCTRL_LIST_ASSOCIATIONS"
	case MsgSettingsGet:
		return "PINCTRL_SETTINGS_GET"
	case MsgSettingsConfigure:
		return "PINCTRL_SETTINGS_CONFIGURE"
	case MsgRequest:
		return "PINCTRL_REQUEST"
	case MsgRelease:
		return "PINCTRL_RELEASE"
	case MsgNameGet:
		return "PINCTRL_NAME_GET"
	case MsgSetPermissions:
		return "PINCTRL_SET_PERMISSIONS"
	case MsgNegotiateVersion:
		return "NEGOTIATE_PROTOCOL_VERSION"
	default:
		return fmt.Sprintf("MESSAGE_0x%02x", uint8(m))
	}
}

// MessageType is the SCMI message type carried in the header.
type MessageType uint8

const (
	TypeCommand         MessageType = 0
	TypeDelayedResponse MessageType = 2
	TypeNotification    MessageType = 3
)

// String returns the message type name.
func (t MessageType) String() string {
	switch t {
	case TypeCommand:
		return "command"
	case TypeDelayedResponse:
		return "delayed_response"
	case TypeNotification:
		return "notification"
	default:
		return "unknown"
	}
}

// Header bit layout.
const (
	headerMessageIDMask  = 0xff
	headerTypePos        = 8
	headerTypeMask       = 0x3
	headerProtocolIDPos  = 10
	headerProtocolIDMask = 0xff
	headerTokenPos       = 18
	headerTokenMask      = 0x3ff
)

// ErrShortMessage is returned when a message is smaller than its header.
var ErrShortMessage = errors.New("message shorter than header")

// Header is the SCMI message header.
type Header struct {
	MessageID  MessageID
	Type       MessageType
	ProtocolID uint8
	Token      uint16
}

// Pack encodes the header into its 32-bit form.
func (h Header) Pack() uint32 {
	return uint32(h.MessageID)&headerMessageIDMask |
		(uint32(h.Type)&headerTypeMask)<<headerTypePos |
		(uint32(h.ProtocolID)&headerProtocolIDMask)<<headerProtocolIDPos |
		(uint32(h.Token)&headerTokenMask)<<headerTokenPos
}

// UnpackHeader decodes a 32-bit header.
func UnpackHeader(v uint32) Header {
	return Header{
		MessageID:  MessageID(v & headerMessageIDMask),
		Type:       MessageType((v >> headerTypePos) & headerTypeMask),
		ProtocolID: uint8((v >> headerProtocolIDPos) & headerProtocolIDMask),
		Token:      uint16((v >> headerTokenPos) & headerTokenMask),
	}
}

// String returns a compact representation for logs.
func (h Header) String() string {
	return fmt.Sprintf("%s proto=0x%02x type=%s token=%d", h.MessageID, h.ProtocolID, h.Type, h.Token)
}

// EncodeMessage prepends the header to a payload.
func EncodeMessage(h Header, payload []byte) []byte {
	buf := make([]byte, HeaderSize+len(payload))
	binary.LittleEndian.PutUint32(buf, h.Pack())
	copy(buf[HeaderSize:], payload)
	return buf
}

// DecodeMessage splits a message into header and payload.
// The payload aliases data.
func DecodeMessage(data []byte) (Header, []byte, error) {
	if len(data) < HeaderSize {
		return Header{}, nil, ErrShortMessage
	}
	h := UnpackHeader(binary.LittleEndian.Uint32(data))
	return h, data[HeaderSize:], nil
}

// MaxToken is the largest token value that fits the header.
const MaxToken = headerTokenMask
