package wire

import "errors"

// Status represents an SCMI response status code.
type Status int32

const (
	// StatusSuccess indicates the command completed successfully.
	StatusSuccess Status = 0

	// StatusNotSupported indicates the command or version is not supported.
	StatusNotSupported Status = -1

	// StatusInvalidParameters indicates a malformed selector, index, count or config.
	StatusInvalidParameters Status = -2

	// StatusDenied indicates the resource is visible but the operation is not permitted.
	StatusDenied Status = -3

	// StatusNotFound indicates an unknown or invisible resource or message.
	StatusNotFound Status = -4

	// StatusOutOfRange indicates a value outside the permitted range.
	StatusOutOfRange Status = -5

	// StatusBusy indicates the platform is busy.
	StatusBusy Status = -6

	// StatusCommsError indicates a transport failure.
	StatusCommsError Status = -7

	// StatusGenericError indicates a failure with no more specific status,
	// such as a response that cannot fit the channel.
	StatusGenericError Status = -8

	// StatusHardwareError indicates the pin driver rejected the operation.
	StatusHardwareError Status = -9

	// StatusProtocolError indicates the payload size did not match the command.
	StatusProtocolError Status = -10

	// StatusInUse indicates an ownership conflict.
	StatusInUse Status = -11
)

// Errors corresponding to non-success statuses.
var (
	ErrNotSupported      = errors.New("not supported")
	ErrInvalidParameters = errors.New("invalid parameters")
	ErrDenied            = errors.New("denied")
	ErrNotFound          = errors.New("not found")
	ErrOutOfRange        = errors.New("out of range")
	ErrBusy              = errors.New("busy")
	ErrCommsError        = errors.New("comms error")
	ErrGenericError      = errors.New("generic error")
	ErrHardwareError     = errors.New("hardware error")
	ErrProtocolError     = errors.New("protocol error")
	ErrInUse             = errors.New("in use")
	ErrUnknownStatus     = errors.New("unknown status")
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusNotSupported:
		return "NOT_SUPPORTED"
	case StatusInvalidParameters:
		return "INVALID_PARAMETERS"
	case StatusDenied:
		return "DENIED"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusOutOfRange:
		return "OUT_OF_RANGE"
	case StatusBusy:
		return "BUSY"
	case StatusCommsError:
		return "COMMS_ERROR"
	case StatusGenericError:
		return "GENERIC_ERROR"
	case StatusHardwareError:
		return "HARDWARE_ERROR"
	case StatusProtocolError:
		return "PROTOCOL_ERROR"
	case StatusInUse:
		return "IN_USE"
	default:
		return "UNKNOWN"
	}
}

// IsSuccess returns true if the status indicates success.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// IsError returns true if the status indicates an error.
func (s Status) IsError() bool {
	return s != StatusSuccess
}

// Err returns the sentinel error for the status, or nil on success.
func (s Status) Err() error {
	switch s {
	case StatusSuccess:
		return nil
	case StatusNotSupported:
		return ErrNotSupported
	case StatusInvalidParameters:
		return ErrInvalidParameters
	case StatusDenied:
		return ErrDenied
	case StatusNotFound:
		return ErrNotFound
	case StatusOutOfRange:
		return ErrOutOfRange
	case StatusBusy:
		return ErrBusy
	case StatusCommsError:
		return ErrCommsError
	case StatusGenericError:
		return ErrGenericError
	case StatusHardwareError:
		return ErrHardwareError
	case StatusProtocolError:
		return ErrProtocolError
	case StatusInUse:
		return ErrInUse
	default:
		return ErrUnknownStatus
	}
}
