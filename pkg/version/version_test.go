package version

import (
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		major uint16
		minor uint16
	}{
		{"1.0", 1, 0},
		{"1.1", 1, 1},
		{"2.0", 2, 0},
		{"10.23", 10, 23},
		{"65535.65535", 65535, 65535},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if v.Major != tt.major {
				t.Errorf("Major = %d, want %d", v.Major, tt.major)
			}
			if v.Minor != tt.minor {
				t.Errorf("Minor = %d, want %d", v.Minor, tt.minor)
			}
			if v.String() != tt.input {
				t.Errorf("String() = %q, want %q", v.String(), tt.input)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"1",
		"abc",
		"1.0.0",
		"1.x",
		"-1.0",
		"65536.0",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Errorf("Parse(%q) should return error", input)
			}
		})
	}
}

func TestWire(t *testing.T) {
	tests := []struct {
		word uint32
		want Version
	}{
		{0x10000, Version{1, 0}},
		{0x20001, Version{2, 1}},
		{0x0000ffff, Version{0, 0xffff}},
	}
	for _, tt := range tests {
		got := FromWire(tt.word)
		if got != tt.want {
			t.Errorf("FromWire(0x%x) = %v, want %v", tt.word, got, tt.want)
		}
		if got.Wire() != tt.word {
			t.Errorf("%v.Wire() = 0x%x, want 0x%x", got, got.Wire(), tt.word)
		}
	}
}

func TestSupported(t *testing.T) {
	if !IsSupported(FromWire(0x10000)) {
		t.Error("current version not supported")
	}
	if IsSupported(Version{1, 1}) || IsSupported(Version{0, 9}) {
		t.Error("unimplemented version supported")
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic")
		}
	}()
	MustParse("x")
}
