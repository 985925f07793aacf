package client

import (
	"errors"
	"fmt"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// Client errors.
var (
	ErrRequestTimeout  = errors.New("request timed out")
	ErrClientClosed    = errors.New("client is closed")
	ErrUnexpectedReply = errors.New("unexpected reply")
	ErrTokensExhausted = errors.New("no free message token")
)

// StatusError is a non-success response status.
type StatusError struct {
	MessageID wire.MessageID
	Status    wire.Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.MessageID, e.Status)
}

// Unwrap returns the sentinel error of the status.
func (e *StatusError) Unwrap() error {
	return e.Status.Err()
}

// StatusOf returns the status carried by err, StatusSuccess for nil, and
// StatusGenericError for errors that did not come from a response.
func StatusOf(err error) wire.Status {
	if err == nil {
		return wire.StatusSuccess
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return wire.StatusGenericError
}
