package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// ErrPayload is returned for an event that does not carry exactly one of
// Frame, Message, StateChange, Ownership or Error.
var ErrPayload = errors.New("log event must carry exactly one payload")

// Protocol logs are a stream of CBOR maps keyed by the small integers of
// Event. Canonical sorting keeps two equal events byte-identical.
var (
	logEncMode = mustEncMode(cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	})

	// Unknown keys are skipped so logs from newer responders stay readable.
	logDecMode = mustDecMode(cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	})
)

func mustEncMode(opts cbor.EncOptions) cbor.EncMode {
	m, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("protocol log encoder: %v", err))
	}
	return m
}

func mustDecMode(opts cbor.DecOptions) cbor.DecMode {
	m, err := opts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("protocol log decoder: %v", err))
	}
	return m
}

func payloads(e Event) int {
	n := 0
	for _, set := range []bool{e.Frame != nil, e.Message != nil, e.StateChange != nil, e.Ownership != nil, e.Error != nil} {
		if set {
			n++
		}
	}
	return n
}

// EncodeEvent encodes a single protocol event.
func EncodeEvent(event Event) ([]byte, error) {
	if payloads(event) != 1 {
		return nil, ErrPayload
	}
	return logEncMode.Marshal(event)
}

// DecodeEvent decodes a single protocol event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := logDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	if payloads(event) != 1 {
		return Event{}, ErrPayload
	}
	return event, nil
}

// NewEncoder returns a stream encoder for protocol events.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return logEncMode.NewEncoder(w)
}

// NewDecoder returns a stream decoder for protocol events.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return logDecMode.NewDecoder(r)
}
