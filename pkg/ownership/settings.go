package ownership

import (
	"slices"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// Applier pushes a settings change to the hardware before it is committed.
// pins lists the physical pins affected by the change. function is
// NoFunction when the change does not select a function.
type Applier interface {
	Apply(pins []uint16, function uint32, configs []wire.ConfigPair) error
}

// Settings is a point-in-time copy of a pin or group's settings.
type Settings struct {
	Owner    Owner
	Function uint32
	Configs  []wire.ConfigPair
}

// HasFunction returns true if a function is selected.
func (s Settings) HasFunction() bool {
	return s.Function != NoFunction
}

// Config returns the value of a config type.
func (s Settings) Config(ct wire.ConfigType) (uint32, bool) {
	for _, c := range s.Configs {
		if c.Type == ct {
			return c.Value, true
		}
	}
	return 0, false
}

// Settings returns the settings of a pin or group visible to the agent.
func (t *Table) Settings(sel wire.Selector, id uint16, agent uint32) (Settings, wire.Status) {
	r, st := t.ownable(sel, id)
	if st.IsError() {
		return Settings{}, st
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !t.allows(r.mask(), agent) {
		return Settings{}, wire.StatusDenied
	}
	return Settings{
		Owner:    r.owner,
		Function: r.function,
		Configs:  slices.Clone(r.configs),
	}, wire.StatusSuccess
}

// Change is a settings update issued by the owner of a pin or group.
type Change struct {
	Selector wire.Selector
	ID       uint16
	Agent    uint32

	// SetFunction selects Function on the resource.
	SetFunction bool
	Function    uint16

	// Configs are written over existing entries of the same type.
	Configs []wire.ConfigPair
}

// Configure applies a settings change. The agent must own the resource.
// Every part of the change is validated before anything is written, and
// the applier must accept it, so a change either lands whole or not at all.
func (t *Table) Configure(ch Change) wire.Status {
	r, st := t.ownable(ch.Selector, ch.ID)
	if st.IsError() {
		return st
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !t.allows(r.mask(), ch.Agent) {
		return wire.StatusDenied
	}
	switch r.owner {
	case OwnedBy(ch.Agent):
	case Unowned:
		return wire.StatusDenied
	default:
		return wire.StatusInUse
	}

	if len(ch.Configs) > ConfigCapacity {
		return wire.StatusInvalidParameters
	}
	for _, c := range ch.Configs {
		if !c.Type.IsValid() {
			return wire.StatusInvalidParameters
		}
	}

	function := r.function
	applyFunction := NoFunction
	if ch.SetFunction {
		if st := t.checkFunction(ch); st.IsError() {
			return st
		}
		function = uint32(ch.Function)
		applyFunction = function
	}

	merged := mergeConfigs(r.configs, ch.Configs)
	if len(merged) > ConfigCapacity {
		return wire.StatusInvalidParameters
	}

	if ch.Selector == wire.SelectorGroup {
		unlock, st := t.lockMembers(ch.ID, ch.Agent)
		if st.IsError() {
			return st
		}
		defer unlock()
	}

	if a := t.getApplier(); a != nil {
		pins := t.catalog.GroupPins(ch.Selector, ch.ID)
		if err := a.Apply(pins, applyFunction, dedupe(ch.Configs)); err != nil {
			return wire.StatusHardwareError
		}
	}

	r.function = function
	r.configs = merged
	return wire.StatusSuccess
}

// lockMembers locks the pins of a group in ascending order and checks that
// the agent may drive each one: the pin must be visible to the agent and
// not owned by another agent. The returned func unlocks them.
//
// Lock order is group before pin, and pins in ascending id.
func (t *Table) lockMembers(group uint16, agent uint32) (func(), wire.Status) {
	ids := slices.Clone(t.catalog.GroupPins(wire.SelectorGroup, group))
	slices.Sort(ids)
	ids = slices.Compact(ids)

	locked := make([]*record, 0, len(ids))
	unlock := func() {
		for _, r := range locked {
			r.mu.Unlock()
		}
	}
	for _, id := range ids {
		r := &t.pins[id]
		r.mu.Lock()
		locked = append(locked, r)

		st := wire.StatusSuccess
		switch {
		case !t.allows(r.mask(), agent):
			st = wire.StatusDenied
		case r.owner != Unowned && r.owner != OwnedBy(agent):
			st = wire.StatusInUse
		}
		if st.IsError() {
			unlock()
			return nil, st
		}
	}
	return unlock, wire.StatusSuccess
}

func (t *Table) checkFunction(ch Change) wire.Status {
	exists, allowed := t.Allowed(wire.SelectorFunction, ch.Function, ch.Agent)
	switch {
	case !exists:
		return wire.StatusNotFound
	case !allowed:
		return wire.StatusDenied
	case !t.catalog.FunctionSupports(ch.Function, ch.Selector, ch.ID):
		return wire.StatusInvalidParameters
	}
	return wire.StatusSuccess
}

// mergeConfigs returns current with updates written over it. Updates of a
// type already present replace the value in place; new types are appended
// in request order. Within updates the last pair of a type wins.
func mergeConfigs(current, updates []wire.ConfigPair) []wire.ConfigPair {
	out := make([]wire.ConfigPair, len(current), max(ConfigCapacity, len(current)+len(updates)))
	copy(out, current)
	for _, u := range updates {
		i := slices.IndexFunc(out, func(c wire.ConfigPair) bool { return c.Type == u.Type })
		if i >= 0 {
			out[i].Value = u.Value
			continue
		}
		out = append(out, u)
	}
	return out
}

// dedupe keeps the last pair of each type, in first-seen order.
func dedupe(configs []wire.ConfigPair) []wire.ConfigPair {
	return mergeConfigs(nil, configs)
}
