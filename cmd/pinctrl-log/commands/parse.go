package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/log"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "protocol":
		return log.LayerProtocol, nil
	case "service":
		return log.LayerService, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, protocol, or service)", s)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "ownership":
		return log.CategoryOwnership, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, ownership, state, or error)", s)
	}
}

// ParseMessageFlag parses a message name such as "request" or
// "PINCTRL_REQUEST", or a numeric message id.
func ParseMessageFlag(s string) (wire.MessageID, error) {
	want := strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
	for id := wire.MessageID(0); id <= wire.MsgNegotiateVersion; id++ {
		name := id.String()
		if name == want || strings.TrimPrefix(name, "PINCTRL_") == want {
			return id, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid message: %s", s)
	}
	return wire.MessageID(n), nil
}
