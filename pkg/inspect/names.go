package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// ErrInvalidConfig is returned for a malformed "type=value" setting.
var ErrInvalidConfig = errors.New("invalid config")

// ParseConfig parses a "type=value" setting. The type is a config name
// such as "bias-pull-up" or its number; a bare type means value 1.
func ParseConfig(s string) (wire.ConfigPair, error) {
	name, value, hasValue := strings.Cut(strings.TrimSpace(s), "=")
	ct, ok := wire.ParseConfigType(strings.ToLower(name))
	if !ok {
		return wire.ConfigPair{}, fmt.Errorf("%w: unknown type %q", ErrInvalidConfig, name)
	}
	pair := wire.ConfigPair{Type: ct, Value: 1}
	if hasValue {
		v, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			return wire.ConfigPair{}, fmt.Errorf("%w: %s value %q", ErrInvalidConfig, ct, value)
		}
		pair.Value = uint32(v)
	}
	return pair, nil
}

// ParseConfigs parses a comma separated list of settings.
func ParseConfigs(s string) ([]wire.ConfigPair, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []wire.ConfigPair
	for _, item := range strings.Split(s, ",") {
		pair, err := ParseConfig(item)
		if err != nil {
			return nil, err
		}
		out = append(out, pair)
	}
	return out, nil
}

// ResolveFunction resolves a function name or identifier. "none" and the
// empty string mean no function.
func ResolveFunction(c *catalog.Catalog, s string) (uint32, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return wire.NoFunction, nil
	}
	if id, err := parseID(s); err == nil {
		if c != nil && !c.Contains(wire.SelectorFunction, id) {
			return 0, fmt.Errorf("%w: function %d", ErrUnknownName, id)
		}
		return uint32(id), nil
	}
	if c == nil {
		return 0, fmt.Errorf("%w: function %q", ErrUnknownName, s)
	}
	id, ok := c.Find(wire.SelectorFunction, s)
	if !ok {
		return 0, fmt.Errorf("%w: function %q", ErrUnknownName, s)
	}
	return uint32(id), nil
}

// functionName returns the name of the selected function, "-" for none.
func functionName(c *catalog.Catalog, fn uint32) string {
	if fn == ownership.NoFunction {
		return "-"
	}
	if c != nil && fn <= 0xffff {
		if name, ok := c.Name(wire.SelectorFunction, uint16(fn)); ok {
			return name
		}
	}
	return strconv.FormatUint(uint64(fn), 10)
}
