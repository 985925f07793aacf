package wire

import "fmt"

// ConfigType identifies a pin configuration setting.
type ConfigType uint8

const (
	ConfigDefault           ConfigType = 0
	ConfigBiasBusHold       ConfigType = 1
	ConfigBiasDisable       ConfigType = 2
	ConfigBiasHighImpedance ConfigType = 3
	ConfigBiasPullUp        ConfigType = 4
	ConfigBiasPullDefault   ConfigType = 5
	ConfigBiasPullDown      ConfigType = 6
	ConfigDriveOpenDrain    ConfigType = 7
	ConfigDriveOpenSource   ConfigType = 8
	ConfigDrivePushPull     ConfigType = 9
	ConfigDriveStrength     ConfigType = 10
	ConfigInputDebounce     ConfigType = 11
	ConfigInputMode         ConfigType = 12
	ConfigPullMode          ConfigType = 13
	ConfigInputValue        ConfigType = 14
	ConfigInputSchmitt      ConfigType = 15
	ConfigLowPowerMode      ConfigType = 16
	ConfigOutputMode        ConfigType = 17
	ConfigOutputValue       ConfigType = 18
	ConfigPowerSource       ConfigType = 19
	ConfigSlewRate          ConfigType = 20

	// ConfigOEMFirst is the first vendor-defined config type.
	ConfigOEMFirst ConfigType = 192
)

var configTypeNames = [...]string{
	ConfigDefault:           "default",
	ConfigBiasBusHold:       "bias-bus-hold",
	ConfigBiasDisable:       "bias-disable",
	ConfigBiasHighImpedance: "bias-high-impedance",
	ConfigBiasPullUp:        "bias-pull-up",
	ConfigBiasPullDefault:   "bias-pull-default",
	ConfigBiasPullDown:      "bias-pull-down",
	ConfigDriveOpenDrain:    "drive-open-drain",
	ConfigDriveOpenSource:   "drive-open-source",
	ConfigDrivePushPull:     "drive-push-pull",
	ConfigDriveStrength:     "drive-strength",
	ConfigInputDebounce:     "input-debounce",
	ConfigInputMode:         "input-mode",
	ConfigPullMode:          "pull-mode",
	ConfigInputValue:        "input-value",
	ConfigInputSchmitt:      "input-schmitt",
	ConfigLowPowerMode:      "low-power-mode",
	ConfigOutputMode:        "output-mode",
	ConfigOutputValue:       "output-value",
	ConfigPowerSource:       "power-source",
	ConfigSlewRate:          "slew-rate",
}

// String returns the config type name.
func (c ConfigType) String() string {
	if int(c) < len(configTypeNames) {
		return configTypeNames[c]
	}
	if c >= ConfigOEMFirst {
		return fmt.Sprintf("oem-%d", uint8(c))
	}
	return fmt.Sprintf("reserved-%d", uint8(c))
}

// IsValid returns true for standard and vendor config types.
// Types between the standard range and the vendor range are reserved.
func (c ConfigType) IsValid() bool {
	return c <= ConfigSlewRate || c >= ConfigOEMFirst
}

// ParseConfigType converts a config type name or number.
func ParseConfigType(s string) (ConfigType, bool) {
	for i, name := range configTypeNames {
		if name == s {
			return ConfigType(i), true
		}
	}
	var n uint8
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && ConfigType(n).IsValid() {
		return ConfigType(n), true
	}
	return 0, false
}

// ConfigPair is one (type, value) setting.
type ConfigPair struct {
	Type  ConfigType
	Value uint32
}

// String returns "type=value".
func (p ConfigPair) String() string {
	return fmt.Sprintf("%s=%d", p.Type, p.Value)
}

const configTypeWireMask = 0xff

// ConfigPairSize is the encoded size of a ConfigPair.
const ConfigPairSize = 8
