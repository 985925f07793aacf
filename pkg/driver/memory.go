package driver

import (
	"sync"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// PinState is the state of one pin held by a Memory driver.
type PinState struct {
	Function  uint32
	Configs   map[wire.ConfigType]uint32
	Direction Direction
	Level     Level
}

// Memory is a driver that keeps pin state in memory. It backs simulated
// boards and tests.
type Memory struct {
	mu      sync.Mutex
	name    string
	ready   bool
	pins    map[uint16]*PinState
	inputs  map[uint16]Level
	applied int
}

var _ Driver = (*Memory)(nil)

// NewMemory creates an in-memory driver.
func NewMemory(name string) *Memory {
	return &Memory{
		name:   name,
		pins:   make(map[uint16]*PinState),
		inputs: make(map[uint16]Level),
	}
}

// Name returns the driver name.
func (m *Memory) Name() string {
	return m.name
}

func (m *Memory) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = true
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = false
	return nil
}

func (m *Memory) pin(pin uint16) (*PinState, error) {
	if !m.ready {
		return nil, ErrDriverDisabled
	}
	p, ok := m.pins[pin]
	if !ok {
		p = &PinState{Function: ownership.NoFunction, Configs: make(map[wire.ConfigType]uint32)}
		m.pins[pin] = p
	}
	return p, nil
}

func (m *Memory) SetFunction(pin uint16, function uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.pin(pin)
	if err != nil {
		return err
	}
	p.Function = function
	m.applied++
	return nil
}

func (m *Memory) SetConfig(pin uint16, cfg wire.ConfigPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.pin(pin)
	if err != nil {
		return err
	}
	p.Configs[cfg.Type] = cfg.Value
	m.applied++
	return nil
}

func (m *Memory) SetDirection(pin uint16, dir Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.pin(pin)
	if err != nil {
		return err
	}
	p.Direction = dir
	m.applied++
	return nil
}

func (m *Memory) SetValue(pin uint16, level Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.pin(pin)
	if err != nil {
		return err
	}
	p.Level = level
	m.applied++
	return nil
}

// GetValue returns the driven level of an output pin, or the simulated
// input level of an input pin.
func (m *Memory) GetValue(pin uint16) (Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.pin(pin)
	if err != nil {
		return Low, err
	}
	if p.Direction == DirectionOutput {
		return p.Level, nil
	}
	return m.inputs[pin], nil
}

// SetInput sets the level an input pin reads back.
func (m *Memory) SetInput(pin uint16, level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs[pin] = level
}

// State returns a copy of a pin's state.
func (m *Memory) State(pin uint16) (PinState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pins[pin]
	if !ok {
		return PinState{}, false
	}
	out := *p
	out.Configs = make(map[wire.ConfigType]uint32, len(p.Configs))
	for k, v := range p.Configs {
		out.Configs[k] = v
	}
	return out, true
}

// Applied returns the number of successful set operations.
func (m *Memory) Applied() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied
}
