package ownership

import (
	"fmt"
	"time"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// TransitionKind describes why the owner of a resource changed.
type TransitionKind uint8

const (
	// Acquired is a successful Request.
	Acquired TransitionKind = iota + 1
	// Released is a successful Release by the owner.
	Released
	// Revoked is a release caused by removing the owner's permission.
	Revoked
	// Reset is a release caused by resetting the owning agent.
	Reset
)

// String returns the kind name.
func (k TransitionKind) String() string {
	switch k {
	case Acquired:
		return "acquired"
	case Released:
		return "released"
	case Revoked:
		return "revoked"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// Transition is one owner change of a pin or group.
type Transition struct {
	Selector wire.Selector
	ID       uint16
	Agent    uint32
	Kind     TransitionKind
	At       time.Time
}

// String returns a compact representation for logs.
func (t Transition) String() string {
	return fmt.Sprintf("%s %d %s by agent %d", t.Selector, t.ID, t.Kind, t.Agent)
}
