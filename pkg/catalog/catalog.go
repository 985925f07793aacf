// Package catalog holds the static table of pins, groups and functions
// shared by all agents.
//
// A Catalog is built once at startup, from YAML or from the built-in
// reference layout, validated, and never modified afterwards. Runtime
// state (owners, selected functions, configs, permission changes) is kept
// by the ownership package, seeded from the masks declared here.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/permission"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// MaxResources is the number of entries a namespace can hold.
const MaxResources = 0xffff

// MaxNameLength is the longest name NameGet can return.
const MaxNameLength = wire.ExtendedNameSize - 1

// Validation errors.
var (
	ErrEmptyName        = errors.New("empty name")
	ErrNameTooLong      = errors.New("name too long")
	ErrInvalidMember    = errors.New("member index out of range")
	ErrTooManyResources = errors.New("too many resources")
	ErrNoMembers        = errors.New("no members")
)

// Pin is a single physical pin.
type Pin struct {
	Name        string          `yaml:"name"`
	Permissions permission.Mask `yaml:"permissions"`

	// Driver is the index of the pin controller driving this pin.
	Driver uint16 `yaml:"driver"`
}

// Group is an ordered set of pins that are muxed together.
type Group struct {
	Name        string          `yaml:"name"`
	Permissions permission.Mask `yaml:"permissions"`
	Pins        []uint16        `yaml:"pins"`
}

// Function is a mux function and the groups that can carry it.
type Function struct {
	Name        string          `yaml:"name"`
	Permissions permission.Mask `yaml:"permissions"`
	Groups      []uint16        `yaml:"groups"`
}

// Catalog is the complete resource table.
type Catalog struct {
	Pins      []Pin      `yaml:"pins"`
	Groups    []Group    `yaml:"groups"`
	Functions []Function `yaml:"functions"`
}

// Validate checks names and member references.
func (c *Catalog) Validate() error {
	if len(c.Pins) > MaxResources {
		return fmt.Errorf("pins: %w (%d)", ErrTooManyResources, len(c.Pins))
	}
	if len(c.Groups) > MaxResources {
		return fmt.Errorf("groups: %w (%d)", ErrTooManyResources, len(c.Groups))
	}
	if len(c.Functions) > MaxResources {
		return fmt.Errorf("functions: %w (%d)", ErrTooManyResources, len(c.Functions))
	}

	for i, p := range c.Pins {
		if err := validateName(p.Name); err != nil {
			return fmt.Errorf("pin %d: %w", i, err)
		}
	}

	for i, g := range c.Groups {
		if err := validateName(g.Name); err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
		if len(g.Pins) == 0 {
			return fmt.Errorf("group %d (%s): %w", i, g.Name, ErrNoMembers)
		}
		for _, p := range g.Pins {
			if int(p) >= len(c.Pins) {
				return fmt.Errorf("group %d (%s): pin %d: %w", i, g.Name, p, ErrInvalidMember)
			}
		}
	}

	for i, f := range c.Functions {
		if err := validateName(f.Name); err != nil {
			return fmt.Errorf("function %d: %w", i, err)
		}
		if len(f.Groups) == 0 {
			return fmt.Errorf("function %d (%s): %w", i, f.Name, ErrNoMembers)
		}
		for _, g := range f.Groups {
			if int(g) >= len(c.Groups) {
				return fmt.Errorf("function %d (%s): group %d: %w", i, f.Name, g, ErrInvalidMember)
			}
		}
	}

	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %q", ErrNameTooLong, name)
	}
	return nil
}

// Count returns the number of resources in a namespace.
func (c *Catalog) Count(sel wire.Selector) int {
	switch sel {
	case wire.SelectorPin:
		return len(c.Pins)
	case wire.SelectorGroup:
		return len(c.Groups)
	case wire.SelectorFunction:
		return len(c.Functions)
	default:
		return 0
	}
}

// Contains returns true if id addresses an entry of the namespace.
func (c *Catalog) Contains(sel wire.Selector, id uint16) bool {
	return int(id) < c.Count(sel)
}

// Name returns the name of a resource.
func (c *Catalog) Name(sel wire.Selector, id uint16) (string, bool) {
	if !c.Contains(sel, id) {
		return "", false
	}
	switch sel {
	case wire.SelectorPin:
		return c.Pins[id].Name, true
	case wire.SelectorGroup:
		return c.Groups[id].Name, true
	default:
		return c.Functions[id].Name, true
	}
}

// Permissions returns the permission mask a resource starts with.
func (c *Catalog) Permissions(sel wire.Selector, id uint16) (permission.Mask, bool) {
	if !c.Contains(sel, id) {
		return permission.None, false
	}
	switch sel {
	case wire.SelectorPin:
		return c.Pins[id].Permissions, true
	case wire.SelectorGroup:
		return c.Groups[id].Permissions, true
	default:
		return c.Functions[id].Permissions, true
	}
}

// Members returns the pins of a group or the groups of a function.
// Pins have no members.
func (c *Catalog) Members(sel wire.Selector, id uint16) ([]uint16, bool) {
	if !c.Contains(sel, id) {
		return nil, false
	}
	switch sel {
	case wire.SelectorGroup:
		return c.Groups[id].Pins, true
	case wire.SelectorFunction:
		return c.Functions[id].Groups, true
	default:
		return nil, true
	}
}

// MemberCount returns the count reported by the Attributes command:
// pins for a group, groups for a function, and 1 for a pin.
func (c *Catalog) MemberCount(sel wire.Selector, id uint16) uint16 {
	if sel == wire.SelectorPin {
		return 1
	}
	members, _ := c.Members(sel, id)
	return uint16(len(members))
}

// FunctionSupports returns true if the function can be selected on the
// given group, or on a pin that belongs to one of the function's groups.
func (c *Catalog) FunctionSupports(fn uint16, sel wire.Selector, id uint16) bool {
	if !c.Contains(wire.SelectorFunction, fn) || !c.Contains(sel, id) {
		return false
	}
	groups := c.Functions[fn].Groups
	switch sel {
	case wire.SelectorGroup:
		return slices.Contains(groups, id)
	case wire.SelectorPin:
		for _, g := range groups {
			if slices.Contains(c.Groups[g].Pins, id) {
				return true
			}
		}
	}
	return false
}

// GroupPins returns the pins of a group, or the pin itself for a pin
// selector. It is the set of pins a settings change touches.
func (c *Catalog) GroupPins(sel wire.Selector, id uint16) []uint16 {
	switch sel {
	case wire.SelectorPin:
		if c.Contains(sel, id) {
			return []uint16{id}
		}
	case wire.SelectorGroup:
		if c.Contains(sel, id) {
			return c.Groups[id].Pins
		}
	}
	return nil
}

// Find returns the id of the resource with the given name.
func (c *Catalog) Find(sel wire.Selector, name string) (uint16, bool) {
	for i := range c.Count(sel) {
		if n, _ := c.Name(sel, uint16(i)); n == name {
			return uint16(i), true
		}
	}
	return 0, false
}
