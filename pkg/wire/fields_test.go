package wire

import "testing"

func TestHeaderRoundTrip(t *testing.T) {
	tests := []Header{
		{MessageID: MsgProtocolVersion, Type: TypeCommand, ProtocolID: ProtocolID, Token: 0},
		{MessageID: MsgRequest, Type: TypeCommand, ProtocolID: ProtocolID, Token: 17},
		{MessageID: MsgNegotiateVersion, Type: TypeNotification, ProtocolID: 0x10, Token: MaxToken},
		{MessageID: 0xff, Type: TypeDelayedResponse, ProtocolID: 0xff, Token: 512},
	}

	for _, h := range tests {
		t.Run(h.String(), func(t *testing.T) {
			got := UnpackHeader(h.Pack())
			if got != h {
				t.Errorf("UnpackHeader(Pack()) = %+v, want %+v", got, h)
			}
		})
	}
}

func TestHeaderLayout(t *testing.T) {
	h := Header{MessageID: 0x07, Type: TypeCommand, ProtocolID: 0x19, Token: 3}
	// 0x07 | 0x19<<10 | 3<<18
	want := uint32(0x07 | 0x19<<10 | 3<<18)
	if got := h.Pack(); got != want {
		t.Errorf("Pack() = %#x, want %#x", got, want)
	}
}

func TestDecodeMessage(t *testing.T) {
	h := Header{MessageID: MsgNameGet, ProtocolID: ProtocolID, Token: 9}
	msg := EncodeMessage(h, []byte{1, 2, 3})

	got, payload, err := DecodeMessage(msg)
	if err != nil {
		t.Fatalf("DecodeMessage() error = %v", err)
	}
	if got != h {
		t.Errorf("header = %+v, want %+v", got, h)
	}
	if len(payload) != 3 || payload[2] != 3 {
		t.Errorf("payload = %v", payload)
	}

	if _, _, err := DecodeMessage([]byte{1, 2}); err != ErrShortMessage {
		t.Errorf("short message error = %v, want ErrShortMessage", err)
	}
}

func TestProtocolAttributesPacking(t *testing.T) {
	low, high := PackProtocolAttributes(18, 7, 4)
	if low != 7<<16|18 {
		t.Errorf("low = %#x", low)
	}
	if high != 4 {
		t.Errorf("high = %#x", high)
	}

	pins, groups, functions := UnpackProtocolAttributes(low, high)
	if pins != 18 || groups != 7 || functions != 4 {
		t.Errorf("unpack = %d/%d/%d", pins, groups, functions)
	}
}

func TestAttributesPacking(t *testing.T) {
	tests := []struct {
		count    uint16
		extended bool
		want     uint32
	}{
		{1, false, 1},
		{4, true, 1<<31 | 4},
		{0xffff, false, 0xffff},
	}

	for _, tt := range tests {
		v := PackAttributes(tt.count, tt.extended)
		if v != tt.want {
			t.Errorf("PackAttributes(%d, %v) = %#x, want %#x", tt.count, tt.extended, v, tt.want)
		}
		count, extended := UnpackAttributes(v)
		if count != tt.count || extended != tt.extended {
			t.Errorf("UnpackAttributes(%#x) = %d, %v", v, count, extended)
		}
	}
}

func TestAssociationFlags(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		v := PackAssociationFlags(3, 10)
		returned, remaining := UnpackAssociationFlags(v)
		if returned != 3 || remaining != 10 {
			t.Errorf("got %d/%d, want 3/10", returned, remaining)
		}
	})

	t.Run("caps to 12 bits", func(t *testing.T) {
		v := PackAssociationFlags(5000, 70000)
		returned, remaining := UnpackAssociationFlags(v)
		if returned != MaxAssociationCount || remaining != MaxAssociationCount {
			t.Errorf("got %d/%d, want both %d", returned, remaining, MaxAssociationCount)
		}
		if v&0xf000 != 0 {
			t.Errorf("returned count leaked into reserved bits: %#x", v)
		}
	})
}

func TestSettingsGetAttributes(t *testing.T) {
	tests := []SettingsGetAttributes{
		{ConfigType: ConfigBiasPullUp, Skip: 0, Selector: SelectorPin, Flag: ConfigFlagSingle},
		{ConfigType: 0, Skip: 200, Selector: SelectorGroup, Flag: ConfigFlagAll},
		{ConfigType: 0xff, Skip: 0xff, Selector: SelectorFunction, Flag: ConfigFlagFunction},
	}

	for _, a := range tests {
		got := UnpackSettingsGetAttributes(a.Pack())
		if got != a {
			t.Errorf("round trip = %+v, want %+v", got, a)
		}
	}

	// Flag bits sit at 18-19.
	if v := (SettingsGetAttributes{Flag: ConfigFlagAll}).Pack(); v != 1<<18 {
		t.Errorf("all flag = %#x", v)
	}
	if v := (SettingsGetAttributes{Flag: ConfigFlagFunction}).Pack(); v != 2<<18 {
		t.Errorf("function flag = %#x", v)
	}
}

func TestSettingsCounts(t *testing.T) {
	returned, remaining := UnpackSettingsCounts(PackSettingsCounts(2, 5))
	if returned != 2 || remaining != 5 {
		t.Errorf("got %d/%d", returned, remaining)
	}
	returned, remaining = UnpackSettingsCounts(PackSettingsCounts(300, 1000))
	if returned != MaxSettingsCount || remaining != MaxSettingsCount {
		t.Errorf("caps: got %d/%d", returned, remaining)
	}
}

func TestSettingsConfigureAttributes(t *testing.T) {
	a := SettingsConfigureAttributes{Selector: SelectorGroup, NumConfigs: 3, FunctionValid: true}
	v := a.Pack()
	if v != 1|3<<2|1<<10 {
		t.Errorf("Pack() = %#x", v)
	}
	if got := UnpackSettingsConfigureAttributes(v); got != a {
		t.Errorf("round trip = %+v", got)
	}
}

func TestPermissionFlags(t *testing.T) {
	for _, allow := range []bool{true, false} {
		sel, got := UnpackPermissionFlags(PackPermissionFlags(SelectorGroup, allow))
		if sel != SelectorGroup || got != allow {
			t.Errorf("allow=%v: got %v/%v", allow, sel, got)
		}
	}
}

func TestSelector(t *testing.T) {
	if SelectorOf(0xfffffffe) != SelectorFunction {
		t.Error("selector must come from the low two bits")
	}
	if Selector(3).IsValid() {
		t.Error("selector 3 is reserved")
	}
	if IdentifierOf(0xabcd1234) != 0x1234 {
		t.Error("identifier must be masked to 16 bits")
	}
	if sel, ok := ParseSelector("group"); !ok || sel != SelectorGroup {
		t.Errorf("ParseSelector(group) = %v, %v", sel, ok)
	}
}

func TestConfigType(t *testing.T) {
	tests := []struct {
		ct    ConfigType
		valid bool
		name  string
	}{
		{ConfigDefault, true, "default"},
		{ConfigSlewRate, true, "slew-rate"},
		{21, false, "reserved-21"},
		{191, false, "reserved-191"},
		{ConfigOEMFirst, true, "oem-192"},
		{255, true, "oem-255"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.ct.IsValid() != tt.valid {
				t.Errorf("IsValid() = %v, want %v", tt.ct.IsValid(), tt.valid)
			}
			if tt.ct.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.ct.String(), tt.name)
			}
		})
	}

	if ct, ok := ParseConfigType("drive-strength"); !ok || ct != ConfigDriveStrength {
		t.Errorf("ParseConfigType(drive-strength) = %v, %v", ct, ok)
	}
	if ct, ok := ParseConfigType("200"); !ok || ct != 200 {
		t.Errorf("ParseConfigType(200) = %v, %v", ct, ok)
	}
	if _, ok := ParseConfigType("50"); ok {
		t.Error("reserved numeric type must not parse")
	}
}

func TestStatusErr(t *testing.T) {
	if StatusSuccess.Err() != nil {
		t.Error("success must map to nil")
	}
	if StatusInUse.Err() != ErrInUse {
		t.Error("in use must map to ErrInUse")
	}
	if Status(-99).Err() != ErrUnknownStatus {
		t.Error("unknown status must map to ErrUnknownStatus")
	}
	if StatusProtocolError.String() != "PROTOCOL_ERROR" {
		t.Errorf("String() = %s", StatusProtocolError)
	}
}
