package permission

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestMaskAllows(t *testing.T) {
	m := Of(1, 3)

	tests := []struct {
		agent uint32
		want  bool
	}{
		{0, false},
		{1, true},
		{2, false},
		{3, true},
		{31, false},
		{32, false},
		{1000, false},
	}

	for _, tt := range tests {
		if got := m.Allows(tt.agent); got != tt.want {
			t.Errorf("Allows(%d) = %v, want %v", tt.agent, got, tt.want)
		}
	}
}

func TestMaskWith(t *testing.T) {
	m := None.With(2, true)
	if m != 0x4 {
		t.Errorf("With(2, true) = %s", m)
	}
	if m.With(2, true) != m {
		t.Error("setting a set bit must be idempotent")
	}
	if m.With(2, false) != None {
		t.Error("clearing must remove the bit")
	}
	if m.With(2, false).With(2, false) != None {
		t.Error("clearing a clear bit must be idempotent")
	}
	if m.With(40, true) != m {
		t.Error("out of range agents must be ignored")
	}
}

func TestAll(t *testing.T) {
	if All(0) != None {
		t.Error("All(0) must be empty")
	}
	if All(3) != 0x7 {
		t.Errorf("All(3) = %s", All(3))
	}
	if All(32) != 0xffffffff {
		t.Errorf("All(32) = %s", All(32))
	}
}

func TestAgents(t *testing.T) {
	got := Of(0, 5, 31).Agents()
	want := []uint32{0, 5, 31}
	if len(got) != len(want) {
		t.Fatalf("Agents() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Agents()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMaskYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Mask
		wantErr bool
	}{
		{"hex", "mask: 0x2", 0x2, false},
		{"decimal", "mask: 6", 0x6, false},
		{"agent list", "mask: [0, 2]", 0x5, false},
		{"empty list", "mask: []", None, false},
		{"agent out of range", "mask: [32]", None, true},
		{"garbage", "mask: nope", None, true},
		{"map", "mask: {a: 1}", None, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Mask Mask `yaml:"mask"`
			}
			err := yaml.Unmarshal([]byte(tt.input), &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && v.Mask != tt.want {
				t.Errorf("mask = %s, want %s", v.Mask, tt.want)
			}
		})
	}
}
