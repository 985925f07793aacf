package ownership

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/permission"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// ConfigCapacity is the number of config pairs a pin or group can hold.
const ConfigCapacity = 32

// NoFunction is the selected function of a resource that has none.
const NoFunction = wire.NoFunction

// Table errors.
var (
	ErrInvalidAgentCount = errors.New("agent count out of range")
	ErrNilCatalog        = errors.New("nil catalog")
)

// Owner is the agent holding a pin or group, or Unowned.
type Owner int64

// Unowned is the owner of a resource no agent holds.
const Unowned Owner = -1

// OwnedBy returns the owner value for an agent.
func OwnedBy(agent uint32) Owner {
	return Owner(agent)
}

// Agent returns the owning agent. ok is false for Unowned.
func (o Owner) Agent() (agent uint32, ok bool) {
	if o < 0 {
		return 0, false
	}
	return uint32(o), true
}

// String returns "unowned" or "agent N".
func (o Owner) String() string {
	if a, ok := o.Agent(); ok {
		return fmt.Sprintf("agent %d", a)
	}
	return "unowned"
}

// record is the runtime state of one pin or group.
type record struct {
	mu       sync.Mutex
	owner    Owner
	function uint32
	configs  []wire.ConfigPair

	// perms is written under mu and read without it.
	perms atomic.Uint32
}

func (r *record) mask() permission.Mask {
	return permission.Mask(r.perms.Load())
}

// Table holds the ownership, function and config state of every pin and
// group, plus the live permission masks of all resources.
//
// Each pin and group has its own lock. Check-then-set sequences (Request,
// Release, Configure, SetPermission) hold that lock for their whole
// duration. Configure on a group also locks its member pins, always after
// the group. Queries read the permission masks atomically.
type Table struct {
	catalog *catalog.Catalog
	agents  int

	pins      []record
	groups    []record
	functions []atomic.Uint32

	hooksMu      sync.RWMutex
	applier      Applier
	onTransition func(Transition)
}

// New creates a table for a validated catalog and agents [0, agents).
// Every pin and group starts Unowned with no function and no configs.
func New(c *catalog.Catalog, agents int) (*Table, error) {
	if c == nil {
		return nil, ErrNilCatalog
	}
	if agents < 1 || agents > permission.MaxAgents {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAgentCount, agents)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	t := &Table{
		catalog:   c,
		agents:    agents,
		pins:      make([]record, len(c.Pins)),
		groups:    make([]record, len(c.Groups)),
		functions: make([]atomic.Uint32, len(c.Functions)),
	}
	for i := range t.pins {
		t.pins[i].init(c.Pins[i].Permissions)
	}
	for i := range t.groups {
		t.groups[i].init(c.Groups[i].Permissions)
	}
	for i := range t.functions {
		t.functions[i].Store(uint32(c.Functions[i].Permissions))
	}
	return t, nil
}

func (r *record) init(m permission.Mask) {
	r.owner = Unowned
	r.function = NoFunction
	r.configs = make([]wire.ConfigPair, 0, ConfigCapacity)
	r.perms.Store(uint32(m))
}

// Catalog returns the catalog the table was built from.
func (t *Table) Catalog() *catalog.Catalog {
	return t.catalog
}

// AgentCount returns the number of agents the table serves.
func (t *Table) AgentCount() int {
	return t.agents
}

// SetApplier sets the hook that pushes settings to the pin drivers.
func (t *Table) SetApplier(a Applier) {
	t.hooksMu.Lock()
	defer t.hooksMu.Unlock()
	t.applier = a
}

// OnTransition sets a callback invoked for every owner change.
// The callback runs with the resource locked and must not call back into
// the table for the same resource.
func (t *Table) OnTransition(fn func(Transition)) {
	t.hooksMu.Lock()
	defer t.hooksMu.Unlock()
	t.onTransition = fn
}

func (t *Table) emit(tr Transition) {
	t.hooksMu.RLock()
	fn := t.onTransition
	t.hooksMu.RUnlock()
	if fn != nil {
		tr.At = time.Now()
		fn(tr)
	}
}

func (t *Table) getApplier() Applier {
	t.hooksMu.RLock()
	defer t.hooksMu.RUnlock()
	return t.applier
}

// ownable returns the record of a pin or group.
func (t *Table) ownable(sel wire.Selector, id uint16) (*record, wire.Status) {
	switch sel {
	case wire.SelectorPin:
		if int(id) >= len(t.pins) {
			return nil, wire.StatusNotFound
		}
		return &t.pins[id], wire.StatusSuccess
	case wire.SelectorGroup:
		if int(id) >= len(t.groups) {
			return nil, wire.StatusNotFound
		}
		return &t.groups[id], wire.StatusSuccess
	default:
		return nil, wire.StatusInvalidParameters
	}
}

func (t *Table) allows(m permission.Mask, agent uint32) bool {
	return int64(agent) < int64(t.agents) && m.Allows(agent)
}

// Permissions returns the live permission mask of any resource.
func (t *Table) Permissions(sel wire.Selector, id uint16) (permission.Mask, bool) {
	switch sel {
	case wire.SelectorPin:
		if int(id) < len(t.pins) {
			return t.pins[id].mask(), true
		}
	case wire.SelectorGroup:
		if int(id) < len(t.groups) {
			return t.groups[id].mask(), true
		}
	case wire.SelectorFunction:
		if int(id) < len(t.functions) {
			return permission.Mask(t.functions[id].Load()), true
		}
	}
	return permission.None, false
}

// Allowed reports whether a resource exists and whether the agent may see it.
func (t *Table) Allowed(sel wire.Selector, id uint16, agent uint32) (exists, allowed bool) {
	m, ok := t.Permissions(sel, id)
	if !ok {
		return false, false
	}
	return true, t.allows(m, agent)
}

// VisibleCounts returns how many pins, groups and functions the agent may see.
func (t *Table) VisibleCounts(agent uint32) (pins, groups, functions uint16) {
	for i := range t.pins {
		if t.allows(t.pins[i].mask(), agent) {
			pins++
		}
	}
	for i := range t.groups {
		if t.allows(t.groups[i].mask(), agent) {
			groups++
		}
	}
	for i := range t.functions {
		if t.allows(permission.Mask(t.functions[i].Load()), agent) {
			functions++
		}
	}
	return pins, groups, functions
}

// Request gives the agent exclusive ownership of an unowned pin or group.
// Requesting a resource that is already owned, including by the caller,
// fails with StatusInUse.
func (t *Table) Request(sel wire.Selector, id uint16, agent uint32) wire.Status {
	r, st := t.ownable(sel, id)
	if st.IsError() {
		return st
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !t.allows(r.mask(), agent) {
		return wire.StatusDenied
	}
	if r.owner != Unowned {
		return wire.StatusInUse
	}

	r.owner = OwnedBy(agent)
	t.emit(Transition{Selector: sel, ID: id, Agent: agent, Kind: Acquired})
	return wire.StatusSuccess
}

// Release gives up the agent's ownership of a pin or group.
// Releasing an unowned resource succeeds without a transition.
func (t *Table) Release(sel wire.Selector, id uint16, agent uint32) wire.Status {
	r, st := t.ownable(sel, id)
	if st.IsError() {
		return st
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !t.allows(r.mask(), agent) {
		return wire.StatusDenied
	}

	switch r.owner {
	case Unowned:
		return wire.StatusSuccess
	case OwnedBy(agent):
		r.owner = Unowned
		t.emit(Transition{Selector: sel, ID: id, Agent: agent, Kind: Released})
		return wire.StatusSuccess
	default:
		return wire.StatusInUse
	}
}

// ReleaseAll releases every pin and group owned by the agent and returns
// how many were released.
func (t *Table) ReleaseAll(agent uint32) int {
	n := 0
	release := func(sel wire.Selector, records []record) {
		for i := range records {
			r := &records[i]
			r.mu.Lock()
			if r.owner == OwnedBy(agent) {
				r.owner = Unowned
				n++
				t.emit(Transition{Selector: sel, ID: uint16(i), Agent: agent, Kind: Reset})
			}
			r.mu.Unlock()
		}
	}
	release(wire.SelectorPin, t.pins)
	release(wire.SelectorGroup, t.groups)
	return n
}

// Owner returns the current owner of a pin or group.
func (t *Table) Owner(sel wire.Selector, id uint16) (Owner, wire.Status) {
	r, st := t.ownable(sel, id)
	if st.IsError() {
		return Unowned, st
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owner, wire.StatusSuccess
}

// SetPermission grants or revokes the target agent's access to a pin,
// group or function. Revoking the access of the current owner of a pin or
// group also releases it. Setting a bit to its current value succeeds.
//
// Hiding a function does not clear it from resources that already selected
// it; it only stops the agent from seeing or selecting it again.
func (t *Table) SetPermission(sel wire.Selector, id uint16, target uint32, allow bool) wire.Status {
	if int64(target) >= int64(t.agents) {
		return wire.StatusNotFound
	}
	if sel == wire.SelectorFunction {
		if int(id) >= len(t.functions) {
			return wire.StatusNotFound
		}
		m := &t.functions[id]
		for {
			old := m.Load()
			if m.CompareAndSwap(old, uint32(permission.Mask(old).With(target, allow))) {
				return wire.StatusSuccess
			}
		}
	}
	r, st := t.ownable(sel, id)
	if st.IsError() {
		return st
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.perms.Store(uint32(r.mask().With(target, allow)))
	if !allow && r.owner == OwnedBy(target) {
		r.owner = Unowned
		t.emit(Transition{Selector: sel, ID: id, Agent: target, Kind: Revoked})
	}
	return wire.StatusSuccess
}
