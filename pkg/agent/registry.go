package agent

import (
	"sync"
	"time"
)

// Registry holds the configured agents and their connection state.
type Registry struct {
	mu sync.RWMutex

	agents []*Agent

	// transitionMu serializes connection count changes with their
	// callbacks, so a reconnect waits for a running disconnect callback.
	transitionMu sync.Mutex

	onConnect    func(id uint32)
	onDisconnect func(id uint32)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers an agent. Ids must be added in order starting at 0.
func (r *Registry) Add(id uint32, name string, privileged bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(id) < len(r.agents) {
		return ErrAgentExists
	}
	if len(r.agents) >= MaxAgents {
		return ErrTooManyAgents
	}
	if int(id) != len(r.agents) {
		return ErrInvalidAgentID
	}

	r.agents = append(r.agents, &Agent{ID: id, Name: name, Privileged: privileged})
	return nil
}

// Count returns the number of agents.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// Get returns a copy of an agent.
func (r *Registry) Get(id uint32) (Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if int64(id) >= int64(len(r.agents)) {
		return Agent{}, ErrAgentNotFound
	}
	return *r.agents[id], nil
}

// Has returns true if the id belongs to a registered agent.
func (r *Registry) Has(id uint32) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(id) < int64(len(r.agents))
}

// IsPrivileged returns true if the agent may change permission masks.
func (r *Registry) IsPrivileged(id uint32) bool {
	a, err := r.Get(id)
	return err == nil && a.Privileged
}

// Lookup returns the id of the agent with the given name.
func (r *Registry) Lookup(name string) (uint32, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.agents {
		if a.Name == name {
			return a.ID, true
		}
	}
	return 0, false
}

// List returns copies of all agents in id order.
func (r *Registry) List() []Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Agent, len(r.agents))
	for i, a := range r.agents {
		out[i] = *a
	}
	return out
}

// SetConnected records a new connection for the agent. The connect
// callback fires when the agent goes from zero to one connection.
// Callbacks must not call SetConnected or SetDisconnected.
func (r *Registry) SetConnected(id uint32) error {
	r.transitionMu.Lock()
	defer r.transitionMu.Unlock()

	r.mu.Lock()
	if int64(id) >= int64(len(r.agents)) {
		r.mu.Unlock()
		return ErrAgentNotFound
	}
	a := r.agents[id]
	a.Connections++
	a.LastSeen = time.Now()
	first := a.Connections == 1
	fn := r.onConnect
	r.mu.Unlock()

	if first && fn != nil {
		fn(id)
	}
	return nil
}

// SetDisconnected records a closed connection. The disconnect callback
// fires when the agent's last connection closes.
func (r *Registry) SetDisconnected(id uint32) error {
	r.transitionMu.Lock()
	defer r.transitionMu.Unlock()

	r.mu.Lock()
	if int64(id) >= int64(len(r.agents)) {
		r.mu.Unlock()
		return ErrAgentNotFound
	}
	a := r.agents[id]
	if a.Connections == 0 {
		r.mu.Unlock()
		return ErrNotConnected
	}
	a.Connections--
	last := a.Connections == 0
	fn := r.onDisconnect
	r.mu.Unlock()

	if last && fn != nil {
		fn(id)
	}
	return nil
}

// IsConnected returns true if the agent has an open connection.
func (r *Registry) IsConnected(id uint32) bool {
	a, err := r.Get(id)
	return err == nil && a.Connected()
}

// UpdateLastSeen updates the last seen timestamp for an agent. Unknown ids
// are ignored.
func (r *Registry) UpdateLastSeen(id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int64(id) < int64(len(r.agents)) {
		r.agents[id].LastSeen = time.Now()
	}
}

// OnConnect sets a callback for when an agent connects.
func (r *Registry) OnConnect(fn func(id uint32)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onConnect = fn
}

// OnDisconnect sets a callback for when an agent disconnects.
func (r *Registry) OnDisconnect(fn func(id uint32)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDisconnect = fn
}
