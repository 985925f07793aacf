package inspect

import (
	"bytes"
	"strings"
	"testing"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

func TestFormatterIndent(t *testing.T) {
	f := &Formatter{}
	if got := f.Indent(2, "x"); got != "    x" {
		t.Errorf("Indent = %q", got)
	}
	f.IndentWidth = 3
	if got := f.Indent(1, "x"); got != "   x" {
		t.Errorf("Indent = %q", got)
	}
}

func TestFormatConfigs(t *testing.T) {
	if got := FormatConfigs(nil); got != "-" {
		t.Errorf("FormatConfigs(nil) = %q", got)
	}
	got := FormatConfigs([]wire.ConfigPair{
		{Type: wire.ConfigBiasPullUp, Value: 1},
		{Type: wire.ConfigDriveStrength, Value: 8},
	})
	if got != "bias-pull-up=1,drive-strength=8" {
		t.Errorf("FormatConfigs = %q", got)
	}
}

func TestFormatResource(t *testing.T) {
	insp := NewInspector(createTestTable(t))
	p, _ := ParsePath("group/0")
	info, err := insp.Inspect(p)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}

	f := NewFormatter(catalog.Reference())
	out := f.FormatResource(info)
	for _, want := range []string{
		"grp_gpio0 [group 0]",
		"members:  pin_x0(0),pin_x1(1),pin_x2(2),pin_x3(3)",
		"owner:    agent 1",
		"function: f_gpio",
		"configs:  bias-pull-up=1",
		"allowed:  1 (0x2)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatResource missing %q in:\n%s", want, out)
		}
	}

	f.ShowIDs = false
	f.ShowPermissions = false
	out = f.FormatResource(info)
	if strings.Contains(out, "allowed") || !strings.HasPrefix(out, "grp_gpio0\n") {
		t.Errorf("FormatResource without IDs:\n%s", out)
	}
}

func TestWriteTable(t *testing.T) {
	insp := NewInspector(createTestTable(t))
	f := NewFormatter(insp.Catalog())
	f.ShowIDs = false

	var buf bytes.Buffer
	if err := f.WriteTable(&buf, insp.List(wire.SelectorGroup)); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("WriteTable wrote %d lines, want 8:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "OWNER") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "agent 1") || !strings.Contains(lines[1], "f_gpio") {
		t.Errorf("row 0 = %q", lines[1])
	}
	if !strings.Contains(lines[5], "none") {
		t.Errorf("hidden group row = %q", lines[5])
	}

	buf.Reset()
	if err := f.WriteTable(&buf, insp.List(wire.SelectorFunction)); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	if !strings.Contains(buf.String(), "GROUPS") || !strings.Contains(buf.String(), "grp_gpio_i2c0,grp_gpio_i2c1") {
		t.Errorf("function table:\n%s", buf.String())
	}
}

func TestWriteTableWithoutOwner(t *testing.T) {
	insp := NewInspector(createTestTable(t))
	f := NewFormatter(nil)
	f.ShowOwner = false
	f.ShowPermissions = false

	var buf bytes.Buffer
	if err := f.WriteTable(&buf, insp.List(wire.SelectorGroup)); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "OWNER") || strings.Contains(out, "agent 1") || strings.Contains(out, "ALLOWED") {
		t.Errorf("owner columns present:\n%s", out)
	}
	// Without a catalog functions print by id.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if fields := strings.Fields(lines[1]); len(fields) != 4 || fields[2] != "0" {
		t.Errorf("row 0 = %q", lines[1])
	}

	info := insp.List(wire.SelectorPin)[0]
	if strings.Contains(f.FormatResource(&info), "owner:") {
		t.Error("FormatResource printed owner")
	}
}
