package inspect

import (
	"errors"
	"fmt"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/permission"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// Inspector errors.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrPartialPath      = errors.New("path names no resource")
)

// Inspector reads the state of a local ownership table.
type Inspector struct {
	table *ownership.Table
}

// NewInspector creates a new Inspector for the given table.
func NewInspector(table *ownership.Table) *Inspector {
	return &Inspector{table: table}
}

// Catalog returns the catalog behind the table.
func (i *Inspector) Catalog() *catalog.Catalog {
	return i.table.Catalog()
}

// ResourceInfo represents one pin, group or function for display.
type ResourceInfo struct {
	Selector    wire.Selector
	ID          uint16
	Name        string
	Permissions permission.Mask

	// Members lists the pins of a group or the groups of a function.
	Members []uint16

	// Ownership fields. Functions have no owner; Owner is Unowned.
	Owner    ownership.Owner
	Function uint32
	Configs  []wire.ConfigPair
}

// FunctionName returns the selected function's name, or "-".
func (r *ResourceInfo) FunctionName(c *catalog.Catalog) string {
	return functionName(c, r.Function)
}

// Tree is the complete table for display.
type Tree struct {
	Pins      []ResourceInfo
	Groups    []ResourceInfo
	Functions []ResourceInfo
}

// Resources returns the entries of one kind.
func (t *Tree) Resources(sel wire.Selector) []ResourceInfo {
	switch sel {
	case wire.SelectorPin:
		return t.Pins
	case wire.SelectorGroup:
		return t.Groups
	case wire.SelectorFunction:
		return t.Functions
	}
	return nil
}

// InspectTable returns the state of every resource.
func (i *Inspector) InspectTable() *Tree {
	snap := i.table.Snapshot()
	c := i.table.Catalog()

	tree := &Tree{}
	for id, st := range snap.Pins {
		tree.Pins = append(tree.Pins, i.fromState(c, wire.SelectorPin, uint16(id), st))
	}
	for id, st := range snap.Groups {
		tree.Groups = append(tree.Groups, i.fromState(c, wire.SelectorGroup, uint16(id), st))
	}
	for id, mask := range snap.Functions {
		tree.Functions = append(tree.Functions, i.function(c, uint16(id), mask))
	}
	return tree
}

// Inspect returns the state of the resource a path names. Named paths are
// resolved against the table's catalog.
func (i *Inspector) Inspect(path *Path) (*ResourceInfo, error) {
	if path == nil || path.IsPartial {
		return nil, ErrPartialPath
	}
	c := i.table.Catalog()
	if err := path.Resolve(c); err != nil {
		return nil, err
	}

	if path.Selector == wire.SelectorFunction {
		mask, ok := i.table.Permissions(wire.SelectorFunction, path.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, path)
		}
		info := i.function(c, path.ID, mask)
		return &info, nil
	}

	if !c.Contains(path.Selector, path.ID) {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, path)
	}
	snap := i.table.Snapshot()
	var st ownership.ResourceState
	if path.Selector == wire.SelectorPin {
		st = snap.Pins[path.ID]
	} else {
		st = snap.Groups[path.ID]
	}
	info := i.fromState(c, path.Selector, path.ID, st)
	return &info, nil
}

// List returns the resources of one kind.
func (i *Inspector) List(sel wire.Selector) []ResourceInfo {
	return i.InspectTable().Resources(sel)
}

// Owned returns the pins and groups held by an agent.
func (i *Inspector) Owned(agent uint32) []ResourceInfo {
	tree := i.InspectTable()
	var out []ResourceInfo
	for _, r := range append(tree.Pins, tree.Groups...) {
		if r.Owner == ownership.OwnedBy(agent) {
			out = append(out, r)
		}
	}
	return out
}

func (i *Inspector) fromState(c *catalog.Catalog, sel wire.Selector, id uint16, st ownership.ResourceState) ResourceInfo {
	name, _ := c.Name(sel, id)
	members, _ := c.Members(sel, id)
	return ResourceInfo{
		Selector:    sel,
		ID:          id,
		Name:        name,
		Permissions: st.Permissions,
		Members:     members,
		Owner:       st.Owner,
		Function:    st.Function,
		Configs:     st.Configs,
	}
}

func (i *Inspector) function(c *catalog.Catalog, id uint16, mask permission.Mask) ResourceInfo {
	name, _ := c.Name(wire.SelectorFunction, id)
	members, _ := c.Members(wire.SelectorFunction, id)
	return ResourceInfo{
		Selector:    wire.SelectorFunction,
		ID:          id,
		Name:        name,
		Permissions: mask,
		Members:     members,
		Owner:       ownership.Unowned,
		Function:    ownership.NoFunction,
	}
}
