// Package driver defines the interface to the pin controllers that apply
// functions and configs to physical pins, and a Bank that routes settings
// changes from the ownership table to the driver of each pin.
package driver

import (
	"errors"
	"fmt"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// Driver errors.
var (
	ErrNoDriver       = errors.New("pin has no driver")
	ErrUnsupported    = errors.New("operation not supported by driver")
	ErrPinOutOfRange  = errors.New("pin out of range")
	ErrDriverDisabled = errors.New("driver not initialized")
)

// Direction is the GPIO direction of a pin.
type Direction uint8

const (
	DirectionInput Direction = iota
	DirectionOutput
)

// String returns "in" or "out".
func (d Direction) String() string {
	if d == DirectionOutput {
		return "out"
	}
	return "in"
}

// Level is the logic level of a pin.
type Level uint8

const (
	Low Level = iota
	High
)

//go:generate go tool mockery --name=Driver --with-expecter --output=mocks --outpkg=mocks

// Driver controls the pins of one pin controller. Pins are addressed by
// their catalog index.
type Driver interface {
	Init() error
	Close() error
	SetFunction(pin uint16, function uint32) error
	SetConfig(pin uint16, cfg wire.ConfigPair) error
	SetDirection(pin uint16, dir Direction) error
	SetValue(pin uint16, level Level) error
	GetValue(pin uint16) (Level, error)
}

// Bank routes pin operations to the driver each pin is wired to.
type Bank struct {
	drivers []Driver
	pinMap  []uint16
}

var _ ownership.Applier = (*Bank)(nil)

// NewBank creates a bank for the catalog's pins. Every pin's driver index
// must address one of drivers.
func NewBank(c *catalog.Catalog, drivers ...Driver) (*Bank, error) {
	b := &Bank{
		drivers: drivers,
		pinMap:  make([]uint16, len(c.Pins)),
	}
	for i, p := range c.Pins {
		if int(p.Driver) >= len(drivers) || drivers[p.Driver] == nil {
			return nil, fmt.Errorf("pin %d (%s): driver %d: %w", i, p.Name, p.Driver, ErrNoDriver)
		}
		b.pinMap[i] = p.Driver
	}
	return b, nil
}

// Drivers returns the number of drivers in the bank.
func (b *Bank) Drivers() int {
	return len(b.drivers)
}

func (b *Bank) driverFor(pin uint16) (Driver, error) {
	if int(pin) >= len(b.pinMap) {
		return nil, fmt.Errorf("pin %d: %w", pin, ErrPinOutOfRange)
	}
	return b.drivers[b.pinMap[pin]], nil
}

// Init initializes every driver.
func (b *Bank) Init() error {
	for i, d := range b.drivers {
		if err := d.Init(); err != nil {
			return fmt.Errorf("driver %d init: %w", i, err)
		}
	}
	return nil
}

// Close shuts down every driver and returns the first error.
func (b *Bank) Close() error {
	var first error
	for i, d := range b.drivers {
		if err := d.Close(); err != nil && first == nil {
			first = fmt.Errorf("driver %d close: %w", i, err)
		}
	}
	return first
}

// Apply pushes a function and configs to each pin. Output mode and output
// value configs are sent as direction and value changes; all other types
// go through SetConfig.
func (b *Bank) Apply(pins []uint16, function uint32, configs []wire.ConfigPair) error {
	for _, pin := range pins {
		d, err := b.driverFor(pin)
		if err != nil {
			return err
		}
		if function != ownership.NoFunction {
			if err := d.SetFunction(pin, function); err != nil {
				return fmt.Errorf("pin %d set function %d: %w", pin, function, err)
			}
		}
		for _, c := range configs {
			if err := applyConfig(d, pin, c); err != nil {
				return fmt.Errorf("pin %d set %s: %w", pin, c, err)
			}
		}
	}
	return nil
}

func applyConfig(d Driver, pin uint16, c wire.ConfigPair) error {
	switch c.Type {
	case wire.ConfigOutputMode:
		dir := DirectionInput
		if c.Value != 0 {
			dir = DirectionOutput
		}
		return d.SetDirection(pin, dir)
	case wire.ConfigOutputValue:
		level := Low
		if c.Value != 0 {
			level = High
		}
		return d.SetValue(pin, level)
	default:
		return d.SetConfig(pin, c)
	}
}

// Value reads the level of a pin.
func (b *Bank) Value(pin uint16) (Level, error) {
	d, err := b.driverFor(pin)
	if err != nil {
		return Low, err
	}
	return d.GetValue(pin)
}
