// Package version handles SCMI protocol versions: a 32-bit word with the
// major version in the upper and the minor version in the lower half.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the protocol version implemented by this library.
const Current = "1.0"

// Version represents a parsed "major.minor" protocol version.
type Version struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return Version{Major: uint16(major), Minor: uint16(minor)}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FromWire splits a protocol version word.
func FromWire(w uint32) Version {
	return Version{Major: uint16(w >> 16), Minor: uint16(w)}
}

// Wire returns the protocol version word.
func (v Version) Wire() uint32 {
	return uint32(v.Major)<<16 | uint32(v.Minor)
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Supported returns the versions a responder accepts in NegotiateVersion,
// newest first. Only the current version is implemented.
func Supported() []Version {
	return []Version{MustParse(Current)}
}

// IsSupported reports whether v is one of Supported.
func IsSupported(v Version) bool {
	for _, s := range Supported() {
		if s == v {
			return true
		}
	}
	return false
}
