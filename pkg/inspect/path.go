// Package inspect provides pin control inspection utilities.
//
// The inspect package offers a unified interface for:
//   - Parsing path expressions (e.g., "group/grp_gpio0", "pin/3")
//   - Resolving resource names to identifiers
//   - Reading resource state locally or over a channel
//   - Formatting output for display
package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// Path errors.
var (
	ErrEmptyPath       = errors.New("empty path")
	ErrInvalidPath     = errors.New("invalid path format")
	ErrInvalidNumber   = errors.New("invalid numeric value in path")
	ErrUnknownSelector = errors.New("unknown resource kind")
	ErrUnknownName     = errors.New("unknown resource name")
)

// Path represents a parsed inspection path.
// Format: kind[/resource] where kind is pin, group or function and
// resource is an identifier or a name.
type Path struct {
	// Selector is the resource kind.
	Selector wire.Selector

	// ID is the resource identifier. Valid when IsPartial is false and
	// Name is empty or resolved.
	ID uint16

	// Name is the resource name when the path used one.
	Name string

	// IsPartial indicates the path names only a kind (used for listing).
	IsPartial bool

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a path string into a Path struct.
//
// Supported formats:
//   - "pin/3" - pin by identifier
//   - "group/grp_gpio0" - group by name
//   - "function/0x2" - function by hex identifier
//   - "pins" - partial (for listing)
//
// Names are left unresolved until Resolve is called.
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}
	if strings.HasPrefix(input, "/") || strings.Contains(input, "//") {
		return nil, ErrInvalidPath
	}

	parts := strings.Split(strings.TrimSuffix(input, "/"), "/")
	if len(parts) > 2 {
		return nil, ErrInvalidPath
	}

	sel, ok := wire.ParseSelector(strings.ToLower(parts[0]))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSelector, parts[0])
	}
	p := &Path{Selector: sel, Raw: input}

	if len(parts) == 1 {
		p.IsPartial = true
		return p, nil
	}

	if id, err := parseID(parts[1]); err == nil {
		p.ID = id
	} else if isNumeric(parts[1]) {
		return nil, err
	} else {
		p.Name = parts[1]
	}
	return p, nil
}

// Resolve looks up a named resource in the catalog and sets ID. Numeric
// paths are checked for range.
func (p *Path) Resolve(c *catalog.Catalog) error {
	if p.IsPartial {
		return nil
	}
	if p.Name == "" {
		if !c.Contains(p.Selector, p.ID) {
			return fmt.Errorf("%w: %s %d", ErrUnknownName, p.Selector, p.ID)
		}
		return nil
	}
	id, ok := c.Find(p.Selector, p.Name)
	if !ok {
		return fmt.Errorf("%w: %s %q", ErrUnknownName, p.Selector, p.Name)
	}
	p.ID = id
	return nil
}

// String returns the path as a string.
func (p *Path) String() string {
	if p.IsPartial {
		return p.Selector.String()
	}
	if p.Name != "" {
		return p.Selector.String() + "/" + p.Name
	}
	return p.Selector.String() + "/" + strconv.Itoa(int(p.ID))
}

func isNumeric(s string) bool {
	return s != "" && (s[0] >= '0' && s[0] <= '9')
}

// parseID parses a decimal or 0x-prefixed hex identifier.
func parseID(s string) (uint16, error) {
	if !isNumeric(s) {
		return 0, ErrInvalidNumber
	}
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return uint16(n), nil
}
