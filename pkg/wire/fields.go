package wire

// Selector chooses the namespace an identifier refers to.
type Selector uint8

const (
	SelectorPin      Selector = 0
	SelectorGroup    Selector = 1
	SelectorFunction Selector = 2
)

// String returns the selector name.
func (s Selector) String() string {
	switch s {
	case SelectorPin:
		return "pin"
	case SelectorGroup:
		return "group"
	case SelectorFunction:
		return "function"
	default:
		return "reserved"
	}
}

// IsValid returns true for the pin, group and function selectors.
func (s Selector) IsValid() bool {
	return s <= SelectorFunction
}

// ParseSelector converts a selector name.
func ParseSelector(name string) (Selector, bool) {
	switch name {
	case "pin", "pins":
		return SelectorPin, true
	case "group", "groups":
		return SelectorGroup, true
	case "function", "functions", "func":
		return SelectorFunction, true
	}
	return 0, false
}

const (
	selectorMask   = 0x3
	identifierMask = 0xffff
)

// SelectorOf extracts the selector from the low bits of a flags word.
func SelectorOf(flags uint32) Selector {
	return Selector(flags & selectorMask)
}

// IdentifierOf masks an identifier to 16 bits.
func IdentifierOf(identifier uint32) uint16 {
	return uint16(identifier & identifierMask)
}

// ProtocolAttributes packing: group count in the high half of the low word.
const (
	protoAttrCountMask = 0xffff
	protoAttrGroupPos  = 16
)

// PackProtocolAttributes builds the two protocol attribute words.
func PackProtocolAttributes(pins, groups, functions uint16) (low, high uint32) {
	low = uint32(groups)<<protoAttrGroupPos | uint32(pins)
	high = uint32(functions)
	return low, high
}

// UnpackProtocolAttributes returns the counts held by the two attribute words.
func UnpackProtocolAttributes(low, high uint32) (pins, groups, functions uint16) {
	pins = uint16(low & protoAttrCountMask)
	groups = uint16((low >> protoAttrGroupPos) & protoAttrCountMask)
	functions = uint16(high & protoAttrCountMask)
	return pins, groups, functions
}

// Attributes response word.
const (
	attrExtendedName = uint32(1) << 31
	attrCountMask    = 0xffff
)

// PackAttributes builds the attributes word of an Attributes response.
func PackAttributes(count uint16, extendedName bool) uint32 {
	v := uint32(count)
	if extendedName {
		v |= attrExtendedName
	}
	return v
}

// UnpackAttributes splits the attributes word of an Attributes response.
func UnpackAttributes(v uint32) (count uint16, extendedName bool) {
	return uint16(v & attrCountMask), v&attrExtendedName != 0
}

// ListAssociations response flags.
const (
	MaxAssociationCount = 0xfff
	assocRemainingPos   = 16
)

// PackAssociationFlags builds the flags word of a ListAssociations response.
// Both counts are capped to the 12-bit field width.
func PackAssociationFlags(returned, remaining int) uint32 {
	return uint32(capCount(remaining, MaxAssociationCount))<<assocRemainingPos |
		uint32(capCount(returned, MaxAssociationCount))
}

// UnpackAssociationFlags splits the flags word of a ListAssociations response.
func UnpackAssociationFlags(v uint32) (returned, remaining int) {
	return int(v & MaxAssociationCount), int((v >> assocRemainingPos) & MaxAssociationCount)
}

// ConfigFlag selects what a SettingsGet returns.
type ConfigFlag uint8

const (
	// ConfigFlagSingle returns the value of one config type.
	ConfigFlagSingle ConfigFlag = 0
	// ConfigFlagAll returns all configs, starting after the skip count.
	ConfigFlagAll ConfigFlag = 1
	// ConfigFlagFunction returns only the selected function.
	ConfigFlagFunction ConfigFlag = 2
)

// String returns the flag name.
func (f ConfigFlag) String() string {
	switch f {
	case ConfigFlagSingle:
		return "single"
	case ConfigFlagAll:
		return "all"
	case ConfigFlagFunction:
		return "function"
	default:
		return "reserved"
	}
}

// SettingsGet request attributes.
const (
	getConfigTypeMask = 0xff
	getSkipPos        = 8
	getSkipMask       = 0xff
	getSelectorPos    = 16
	getFlagPos        = 18
	getFlagMask       = 0x3
)

// SettingsGetAttributes is the decoded attributes word of a SettingsGet request.
type SettingsGetAttributes struct {
	ConfigType ConfigType
	Skip       uint8
	Selector   Selector
	Flag       ConfigFlag
}

// Pack encodes the attributes word.
func (a SettingsGetAttributes) Pack() uint32 {
	return uint32(a.ConfigType)&getConfigTypeMask |
		uint32(a.Skip)<<getSkipPos |
		(uint32(a.Selector)&selectorMask)<<getSelectorPos |
		(uint32(a.Flag)&getFlagMask)<<getFlagPos
}

// UnpackSettingsGetAttributes decodes the attributes word.
func UnpackSettingsGetAttributes(v uint32) SettingsGetAttributes {
	return SettingsGetAttributes{
		ConfigType: ConfigType(v & getConfigTypeMask),
		Skip:       uint8((v >> getSkipPos) & getSkipMask),
		Selector:   Selector((v >> getSelectorPos) & selectorMask),
		Flag:       ConfigFlag((v >> getFlagPos) & getFlagMask),
	}
}

// SettingsGet response num_configs word.
const (
	MaxSettingsCount  = 0xff
	settingsRemainPos = 24
)

// NoFunction is the function_selected value when no function is selected.
const NoFunction uint32 = 0xffffffff

// PackSettingsCounts builds the num_configs word of a SettingsGet response.
func PackSettingsCounts(returned, remaining int) uint32 {
	return uint32(capCount(remaining, MaxSettingsCount))<<settingsRemainPos |
		uint32(capCount(returned, MaxSettingsCount))
}

// UnpackSettingsCounts splits the num_configs word of a SettingsGet response.
func UnpackSettingsCounts(v uint32) (returned, remaining int) {
	return int(v & MaxSettingsCount), int((v >> settingsRemainPos) & MaxSettingsCount)
}

// SettingsConfigure request attributes.
const (
	cfgNumPos        = 2
	cfgNumMask       = 0xff
	cfgFunctionValid = uint32(1) << 10
)

// SettingsConfigureAttributes is the decoded attributes word of a
// SettingsConfigure request.
type SettingsConfigureAttributes struct {
	Selector      Selector
	NumConfigs    uint8
	FunctionValid bool
}

// Pack encodes the attributes word.
func (a SettingsConfigureAttributes) Pack() uint32 {
	v := uint32(a.Selector)&selectorMask | uint32(a.NumConfigs)<<cfgNumPos
	if a.FunctionValid {
		v |= cfgFunctionValid
	}
	return v
}

// UnpackSettingsConfigureAttributes decodes the attributes word.
func UnpackSettingsConfigureAttributes(v uint32) SettingsConfigureAttributes {
	return SettingsConfigureAttributes{
		Selector:      SelectorOf(v),
		NumConfigs:    uint8((v >> cfgNumPos) & cfgNumMask),
		FunctionValid: v&cfgFunctionValid != 0,
	}
}

// SetPermissions request flags.
const permAllow = uint32(1) << 2

// PackPermissionFlags builds the flags word of a SetPermissions request.
func PackPermissionFlags(sel Selector, allow bool) uint32 {
	v := uint32(sel) & selectorMask
	if allow {
		v |= permAllow
	}
	return v
}

// UnpackPermissionFlags splits the flags word of a SetPermissions request.
func UnpackPermissionFlags(v uint32) (Selector, bool) {
	return SelectorOf(v), v&permAllow != 0
}

func capCount(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}
