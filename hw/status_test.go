package hw

import "testing"

func TestPString(t *testing.T) {
	tests := []struct {
		p    P
		want string
	}{
		{0x00, "nvubdizc"},
		{0xFF, "NVUBDIZC"},
		{Carry | Negative, "NvubdizC"},
		{Reserved | Interrupt, "nvUbdIzc"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("P(%02x).String() = %q, want %q", uint8(tt.p), got, tt.want)
		}
	}
}

func TestPLoad(t *testing.T) {
	var p P
	p.load(0xFF)
	if p != 0xEF {
		t.Errorf("load(0xFF) = %02x, want ef", uint8(p))
	}
	p.load(0x00)
	if p != Reserved {
		t.Errorf("load(0x00) = %02x, want 20", uint8(p))
	}
}

func TestPsetNZ(t *testing.T) {
	tests := []struct {
		val  uint8
		want P
	}{
		{0x00, Zero},
		{0x01, 0},
		{0x80, Negative},
		{0xFF, Negative},
	}
	for _, tt := range tests {
		p := P(Zero | Negative | Carry)
		p.setNZ(tt.val)
		if got := p &^ Carry; got != tt.want {
			t.Errorf("setNZ(%02x) = %s, want %s", tt.val, got, tt.want)
		}
		if !p.has(Carry) {
			t.Errorf("setNZ(%02x) cleared carry", tt.val)
		}
	}
}
