// Package permission implements the per-resource agent permission mask.
//
// Bit i of a Mask is set when agent i may see and use the resource. A
// Mask is a plain value; callers that share one across goroutines store it
// in an atomic.Uint32.
package permission

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxAgents is the number of agents a Mask can describe.
const MaxAgents = 32

// Mask is a bitmask of agents allowed to see a resource.
type Mask uint32

// None permits no agent.
const None Mask = 0

// All returns a mask permitting agents [0, n).
func All(n int) Mask {
	if n >= MaxAgents {
		return Mask(^uint32(0))
	}
	if n <= 0 {
		return None
	}
	return Mask(uint32(1)<<n - 1)
}

// Of returns a mask permitting the given agents.
func Of(agents ...uint32) Mask {
	var m Mask
	for _, a := range agents {
		m = m.With(a, true)
	}
	return m
}

// Allows returns true if the agent's bit is set.
// Agents beyond MaxAgents are never allowed.
func (m Mask) Allows(agent uint32) bool {
	if agent >= MaxAgents {
		return false
	}
	return m&(1<<agent) != 0
}

// With returns the mask with the agent's bit set or cleared.
func (m Mask) With(agent uint32, allow bool) Mask {
	if agent >= MaxAgents {
		return m
	}
	if allow {
		return m | 1<<agent
	}
	return m &^ (1 << agent)
}

// Agents returns the ids of all permitted agents in ascending order.
func (m Mask) Agents() []uint32 {
	out := make([]uint32, 0, bits.OnesCount32(uint32(m)))
	for v := uint32(m); v != 0; v &= v - 1 {
		out = append(out, uint32(bits.TrailingZeros32(v)))
	}
	return out
}

// String returns the mask in hex.
func (m Mask) String() string {
	return fmt.Sprintf("0x%x", uint32(m))
}

// UnmarshalYAML accepts either an integer mask or a list of agent ids.
func (m *Mask) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		v, err := strconv.ParseUint(strings.TrimSpace(node.Value), 0, 32)
		if err != nil {
			return fmt.Errorf("line %d: invalid permission mask %q", node.Line, node.Value)
		}
		*m = Mask(v)
		return nil
	case yaml.SequenceNode:
		var agents []uint32
		if err := node.Decode(&agents); err != nil {
			return err
		}
		var out Mask
		for _, a := range agents {
			if a >= MaxAgents {
				return fmt.Errorf("line %d: agent %d out of range", node.Line, a)
			}
			out = out.With(a, true)
		}
		*m = out
		return nil
	default:
		return fmt.Errorf("line %d: permission mask must be an integer or a list of agents", node.Line)
	}
}

// MarshalYAML writes the mask in hex.
func (m Mask) MarshalYAML() (any, error) {
	return m.String(), nil
}
