package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/permission"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// Restore errors.
var (
	ErrVersion      = errors.New("unsupported state version")
	ErrStaleEntry   = errors.New("state entry not in catalog")
	ErrAgentCount   = errors.New("state agent count mismatch")
	ErrCatalogNames = errors.New("state does not match catalog")
)

// PermissionState is the set of administered permission overrides.
type PermissionState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Agents is the agent count the masks were written for.
	Agents int `json:"agents"`

	Pins      []MaskEntry `json:"pins,omitempty"`
	Groups    []MaskEntry `json:"groups,omitempty"`
	Functions []MaskEntry `json:"functions,omitempty"`
}

// MaskEntry is the live mask of one resource. Name guards against a
// reordered catalog.
type MaskEntry struct {
	ID   uint16          `json:"id"`
	Name string          `json:"name"`
	Mask permission.Mask `json:"mask"`
}

// Empty reports whether the state holds no overrides.
func (s *PermissionState) Empty() bool {
	return s == nil || len(s.Pins) == 0 && len(s.Groups) == 0 && len(s.Functions) == 0
}

// Equal compares the overrides, ignoring version and save time.
func (s *PermissionState) Equal(other *PermissionState) bool {
	if s.Empty() || other.Empty() {
		return s.Empty() == other.Empty()
	}
	return s.Agents == other.Agents &&
		slices.Equal(s.Pins, other.Pins) &&
		slices.Equal(s.Groups, other.Groups) &&
		slices.Equal(s.Functions, other.Functions)
}

// entries returns the override list of a resource kind.
func (s *PermissionState) entries(sel wire.Selector) *[]MaskEntry {
	switch sel {
	case wire.SelectorPin:
		return &s.Pins
	case wire.SelectorGroup:
		return &s.Groups
	default:
		return &s.Functions
	}
}

var selectors = []wire.Selector{wire.SelectorPin, wire.SelectorGroup, wire.SelectorFunction}

// Capture records every pin, group and function mask of table that differs
// from its catalog value.
func Capture(table *ownership.Table) *PermissionState {
	c := table.Catalog()
	state := &PermissionState{Version: StateVersion, Agents: table.AgentCount()}
	for _, sel := range selectors {
		list := state.entries(sel)
		for i := range c.Count(sel) {
			id := uint16(i)
			name, _ := c.Name(sel, id)
			initial, _ := c.Permissions(sel, id)
			if m, _ := table.Permissions(sel, id); m != initial {
				*list = append(*list, MaskEntry{ID: id, Name: name, Mask: m})
			}
		}
	}
	return state
}

// Restore applies the overrides to table. The state is checked in full
// before any mask changes.
func Restore(table *ownership.Table, state *PermissionState) error {
	if state.Empty() {
		return nil
	}
	if state.Version != StateVersion {
		return fmt.Errorf("%w: %d", ErrVersion, state.Version)
	}
	if state.Agents != table.AgentCount() {
		return fmt.Errorf("%w: saved %d, table %d", ErrAgentCount, state.Agents, table.AgentCount())
	}

	c := table.Catalog()
	check := func(sel wire.Selector, entries []MaskEntry) error {
		for _, e := range entries {
			name, ok := c.Name(sel, e.ID)
			if !ok {
				return fmt.Errorf("%w: %s %d", ErrStaleEntry, sel, e.ID)
			}
			if name != e.Name {
				return fmt.Errorf("%w: %s %d is %q, saved %q", ErrCatalogNames, sel, e.ID, name, e.Name)
			}
		}
		return nil
	}
	for _, sel := range selectors {
		if err := check(sel, *state.entries(sel)); err != nil {
			return err
		}
	}

	apply := func(sel wire.Selector, entries []MaskEntry) {
		for _, e := range entries {
			for agent := range uint32(table.AgentCount()) {
				table.SetPermission(sel, e.ID, agent, e.Mask.Allows(agent))
			}
		}
	}
	for _, sel := range selectors {
		apply(sel, *state.entries(sel))
	}
	return nil
}

// PermissionStore manages persistence of permission state to a JSON file.
type PermissionStore struct {
	mu   sync.Mutex
	path string
}

// NewPermissionStore creates a new permission store.
func NewPermissionStore(path string) *PermissionStore {
	return &PermissionStore{path: path}
}

// Path returns the state file path.
func (s *PermissionStore) Path() string {
	return s.path
}

// Save persists the state to disk.
func (s *PermissionStore) Save(state *PermissionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	state.SavedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the state from disk.
// Returns nil, nil if the file doesn't exist (no overrides).
func (s *PermissionStore) Load() (*PermissionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &PermissionState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return state, nil
}

// Clear removes the state file.
func (s *PermissionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
