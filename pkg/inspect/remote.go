package inspect

import (
	"context"
	"errors"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// Session is the part of a channel client the remote inspector needs.
// It is implemented by client.Client.
type Session interface {
	ProtocolAttributes(ctx context.Context) (wire.ProtocolAttributesResponse, error)
	Name(ctx context.Context, sel wire.Selector, id uint16) (string, error)
	Associations(ctx context.Context, sel wire.Selector, id uint16) ([]uint16, error)
	Settings(ctx context.Context, sel wire.Selector, id uint16) (uint32, []wire.ConfigPair, error)
}

// RemoteInspector reads the resources an agent can see over its channel.
// Owners and permissions are not visible remotely.
type RemoteInspector struct {
	session Session
}

// NewRemoteInspector creates a new remote inspector for the given session.
func NewRemoteInspector(session Session) *RemoteInspector {
	return &RemoteInspector{session: session}
}

// Inspect reads one resource. Named paths cannot be resolved remotely and
// are matched by listing.
func (r *RemoteInspector) Inspect(ctx context.Context, path *Path) (*ResourceInfo, error) {
	if path == nil || path.IsPartial {
		return nil, ErrPartialPath
	}
	if path.Name != "" {
		all, err := r.List(ctx, path.Selector)
		if err != nil {
			return nil, err
		}
		for i := range all {
			if all[i].Name == path.Name {
				return &all[i], nil
			}
		}
		return nil, ErrUnknownName
	}
	return r.read(ctx, path.Selector, path.ID)
}

// List reads every resource of one kind visible to the agent. Hidden
// identifiers are skipped until the advertised count is reached.
func (r *RemoteInspector) List(ctx context.Context, sel wire.Selector) ([]ResourceInfo, error) {
	counts, err := r.session.ProtocolAttributes(ctx)
	if err != nil {
		return nil, err
	}
	var want int
	switch sel {
	case wire.SelectorPin:
		want = int(counts.Pins)
	case wire.SelectorGroup:
		want = int(counts.Groups)
	case wire.SelectorFunction:
		want = int(counts.Functions)
	default:
		return nil, ErrUnknownSelector
	}

	out := make([]ResourceInfo, 0, want)
	for id := 0; len(out) < want && id <= 0xffff; id++ {
		info, err := r.read(ctx, sel, uint16(id))
		if errors.Is(err, wire.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *info)
	}
	return out, nil
}

func (r *RemoteInspector) read(ctx context.Context, sel wire.Selector, id uint16) (*ResourceInfo, error) {
	name, err := r.session.Name(ctx, sel, id)
	if err != nil {
		return nil, err
	}
	info := &ResourceInfo{
		Selector: sel,
		ID:       id,
		Name:     name,
		Owner:    ownership.Unowned,
		Function: ownership.NoFunction,
	}

	if sel != wire.SelectorPin {
		if info.Members, err = r.session.Associations(ctx, sel, id); err != nil {
			return nil, err
		}
	}
	if sel != wire.SelectorFunction {
		if info.Function, info.Configs, err = r.session.Settings(ctx, sel, id); err != nil {
			return nil, err
		}
	}
	return info, nil
}
