package inspect

import (
	"errors"
	"testing"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// createTestTable returns the reference table with group 0 owned by agent 1
// and muxed to f_gpio with a pull-up.
func createTestTable(t *testing.T) *ownership.Table {
	t.Helper()
	table, err := ownership.New(catalog.Reference(), 2)
	if err != nil {
		t.Fatalf("ownership.New: %v", err)
	}
	if st := table.Request(wire.SelectorGroup, 0, 1); st.IsError() {
		t.Fatalf("Request: %s", st)
	}
	st := table.Configure(ownership.Change{
		Selector:    wire.SelectorGroup,
		ID:          0,
		Agent:       1,
		SetFunction: true,
		Function:    0,
		Configs:     []wire.ConfigPair{{Type: wire.ConfigBiasPullUp, Value: 1}},
	})
	if st.IsError() {
		t.Fatalf("Configure: %s", st)
	}
	return table
}

func TestInspectTable(t *testing.T) {
	insp := NewInspector(createTestTable(t))
	tree := insp.InspectTable()

	if len(tree.Pins) != 18 || len(tree.Groups) != 7 || len(tree.Functions) != 4 {
		t.Fatalf("tree sizes = %d/%d/%d, want 18/7/4", len(tree.Pins), len(tree.Groups), len(tree.Functions))
	}

	g := tree.Groups[0]
	if g.Name != "grp_gpio0" {
		t.Errorf("group 0 name = %q", g.Name)
	}
	if g.Owner != ownership.OwnedBy(1) {
		t.Errorf("group 0 owner = %s, want agent 1", g.Owner)
	}
	if g.FunctionName(insp.Catalog()) != "f_gpio" {
		t.Errorf("group 0 function = %q, want f_gpio", g.FunctionName(insp.Catalog()))
	}
	if len(g.Members) != 4 {
		t.Errorf("group 0 members = %v", g.Members)
	}

	fn := tree.Functions[3]
	if fn.Owner != ownership.Unowned || fn.Permissions != 0 {
		t.Errorf("f_spi = %+v", fn)
	}
	if len(tree.Resources(wire.Selector(3))) != 0 {
		t.Error("reserved selector should have no resources")
	}
}

func TestInspectPath(t *testing.T) {
	insp := NewInspector(createTestTable(t))

	tests := []struct {
		path    string
		wantID  uint16
		wantErr error
	}{
		{path: "group/grp_gpio0", wantID: 0},
		{path: "pin/8", wantID: 8},
		{path: "function/f_i2c", wantID: 1},
		{path: "pins", wantErr: ErrPartialPath},
		{path: "pin/40", wantErr: ErrUnknownName},
		{path: "group/grp_can", wantErr: ErrUnknownName},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := ParsePath(tt.path)
			if err != nil {
				t.Fatalf("ParsePath: %v", err)
			}
			info, err := insp.Inspect(p)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Inspect error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Inspect: %v", err)
			}
			if info.ID != tt.wantID || info.Selector != p.Selector {
				t.Errorf("Inspect = %s %d, want %s %d", info.Selector, info.ID, p.Selector, tt.wantID)
			}
		})
	}
}

func TestInspectorOwned(t *testing.T) {
	insp := NewInspector(createTestTable(t))

	owned := insp.Owned(1)
	if len(owned) != 1 || owned[0].Selector != wire.SelectorGroup || owned[0].ID != 0 {
		t.Errorf("Owned(1) = %+v", owned)
	}
	if got := insp.Owned(0); len(got) != 0 {
		t.Errorf("Owned(0) = %+v, want none", got)
	}
	if got := insp.List(wire.SelectorFunction); len(got) != 4 {
		t.Errorf("List(function) = %d entries, want 4", len(got))
	}
}
