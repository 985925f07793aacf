package inspect

import (
	"errors"
	"reflect"
	"testing"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

func TestParseConfigs(t *testing.T) {
	got, err := ParseConfigs("bias-pull-up, drive-strength=0x10,input-mode=0")
	if err != nil {
		t.Fatalf("ParseConfigs: %v", err)
	}
	want := []wire.ConfigPair{
		{Type: wire.ConfigBiasPullUp, Value: 1},
		{Type: wire.ConfigDriveStrength, Value: 16},
		{Type: wire.ConfigInputMode, Value: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseConfigs = %v, want %v", got, want)
	}

	if got, err := ParseConfigs(""); err != nil || got != nil {
		t.Errorf("ParseConfigs(\"\") = %v, %v", got, err)
	}

	for _, bad := range []string{"bias-sideways=1", "bias-pull-up=x", "100=1"} {
		if _, err := ParseConfigs(bad); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("ParseConfigs(%q) error = %v, want %v", bad, err, ErrInvalidConfig)
		}
	}
}

func TestResolveFunction(t *testing.T) {
	c := catalog.Reference()

	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{in: "none", want: wire.NoFunction},
		{in: "", want: wire.NoFunction},
		{in: "f_uart", want: 2},
		{in: "1", want: 1},
		{in: "9", wantErr: true},
		{in: "f_can", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ResolveFunction(c, tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownName) {
				t.Errorf("ResolveFunction(%q) error = %v, want %v", tt.in, err, ErrUnknownName)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ResolveFunction(%q) = %d, %v, want %d", tt.in, got, err, tt.want)
		}
	}
}
