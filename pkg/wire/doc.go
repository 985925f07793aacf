// Package wire defines the binary wire format of the SCMI pin control
// protocol.
//
// Every message starts with a 32-bit SCMI header (message id, message type,
// protocol id, token) followed by a fixed-layout payload. All multi-byte
// integers are little-endian.
//
// # Requests and Responses
//
// Each command has a request type implementing encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler. Unmarshalling enforces the exact payload size
// of the command; a mismatch yields ErrPayloadSize, which the responder
// reports as StatusProtocolError.
//
// Response types carry a Status. A non-success response is encoded as the
// status word alone.
//
// # Bit Fields
//
// Packed attribute words are built and taken apart only through the
// accessor functions in fields.go, never with ad-hoc shifts at call sites.
package wire
