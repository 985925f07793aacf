package ownership

import (
	"github.com/scmi-pinctrl/pinctrl-go/pkg/permission"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// ResourceState is the state of one pin or group in a Snapshot.
type ResourceState struct {
	Settings
	Permissions permission.Mask
}

// Snapshot is a copy of the whole table. Each resource is copied under its
// own lock; the snapshot as a whole is not atomic across resources.
type Snapshot struct {
	Pins      []ResourceState
	Groups    []ResourceState
	Functions []permission.Mask
}

// Snapshot copies the state of every resource.
func (t *Table) Snapshot() Snapshot {
	s := Snapshot{
		Pins:      make([]ResourceState, len(t.pins)),
		Groups:    make([]ResourceState, len(t.groups)),
		Functions: make([]permission.Mask, len(t.functions)),
	}
	for i := range t.pins {
		s.Pins[i] = t.pins[i].state()
	}
	for i := range t.groups {
		s.Groups[i] = t.groups[i].state()
	}
	for i := range t.functions {
		s.Functions[i] = permission.Mask(t.functions[i].Load())
	}
	return s
}

func (r *record) state() ResourceState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ResourceState{
		Settings: Settings{
			Owner:    r.owner,
			Function: r.function,
			Configs:  append([]wire.ConfigPair(nil), r.configs...),
		},
		Permissions: r.mask(),
	}
}

// Owned returns the pins and groups owned by the agent.
func (s Snapshot) Owned(agent uint32) (pins, groups []uint16) {
	for i, p := range s.Pins {
		if p.Owner == OwnedBy(agent) {
			pins = append(pins, uint16(i))
		}
	}
	for i, g := range s.Groups {
		if g.Owner == OwnedBy(agent) {
			groups = append(groups, uint16(i))
		}
	}
	return pins, groups
}
