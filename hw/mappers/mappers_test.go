package mappers

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadUnsupported(t *testing.T) {
	rom := buildRom(t, 4, 1, 1, 0)
	_, err := Load(rom, openBus(0))

	var uerr *UnsupportedMapperError
	if !errors.As(err, &uerr) {
		t.Fatalf("Load() error = %v, want UnsupportedMapperError", err)
	}
	if uerr.Number != 4 {
		t.Errorf("UnsupportedMapperError.Number = %d, want 4", uerr.Number)
	}
	if err.Error() != "unsupported mapper 4" {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestNROM(t *testing.T) {
	t.Run("16KB mirrored", func(t *testing.T) {
		m := mustLoad(t, buildRom(t, 0, 1, 1, 0))
		m.(*nrom).prg[0x1234] = 0x42
		if got := m.CPURead(0x9234); got != 0x42 {
			t.Errorf("CPURead(0x9234) = %02x, want 42", got)
		}
		if got := m.CPURead(0xD234); got != 0x42 {
			t.Errorf("CPURead(0xD234) = %02x, want 42", got)
		}
	})
	t.Run("32KB", func(t *testing.T) {
		m := mustLoad(t, buildRom(t, 0, 2, 1, 0))
		if got := m.CPURead(0x8000); got != 0 {
			t.Errorf("CPURead(0x8000) = %02x, want 00", got)
		}
		if got := m.CPURead(0xC000); got != 1 {
			t.Errorf("CPURead(0xC000) = %02x, want 01", got)
		}
	})
	t.Run("PRG RAM", func(t *testing.T) {
		m := mustLoad(t, buildRom(t, 0, 1, 1, 0))
		m.CPUWrite(0x6010, 0x99)
		if got := m.CPURead(0x6010); got != 0x99 {
			t.Errorf("CPURead(0x6010) = %02x, want 99", got)
		}
		if got := m.CPURead(0x5000); got != 0x5A {
			t.Errorf("CPURead(0x5000) = %02x, want open bus 5A", got)
		}
	})
	t.Run("ROM is read-only", func(t *testing.T) {
		m := mustLoad(t, buildRom(t, 0, 1, 1, 0))
		m.CPUWrite(0x8000, 0xFF)
		m.PPUWrite(0x0000, 0xFF)
		if got := m.CPURead(0x8000); got != 0 {
			t.Errorf("CPURead(0x8000) = %02x after write, want 00", got)
		}
		if got := m.PPURead(0x0000); got != 0x80 {
			t.Errorf("PPURead(0x0000) = %02x after write, want 80", got)
		}
	})
	t.Run("CHR RAM", func(t *testing.T) {
		m := mustLoad(t, buildRom(t, 0, 1, 0, 0))
		m.PPUWrite(0x1FFF, 0x33)
		if got := m.PPURead(0x1FFF); got != 0x33 {
			t.Errorf("PPURead(0x1FFF) = %02x, want 33", got)
		}
	})
}

func TestNametableMirroring(t *testing.T) {
	tests := []struct {
		name   string
		flags6 uint8
		// the 4 nametables after writing their index at offset 0 of each.
		want [4]uint8
	}{
		// Writes to $2000, $2400, $2800, $2C00 in that order.
		{name: "horizontal", flags6: 0, want: [4]uint8{1, 1, 3, 3}},
		{name: "vertical", flags6: 1, want: [4]uint8{2, 3, 2, 3}},
		{name: "four-screen", flags6: 8, want: [4]uint8{0, 1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustLoad(t, buildRom(t, 0, 1, 1, tt.flags6))
			for i := uint16(0); i < 4; i++ {
				m.PPUWrite(0x2000+i*0x400, uint8(i))
			}
			var got [4]uint8
			for i := uint16(0); i < 4; i++ {
				got[i] = m.PPURead(0x2000 + i*0x400)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("nametables mismatch (-want +got):\n%s", diff)
			}
			// $3000-$3EFF mirrors $2000-$2EFF.
			if m.PPURead(0x3000) != got[0] {
				t.Errorf("PPURead(0x3000) = %02x, want %02x", m.PPURead(0x3000), got[0])
			}
		})
	}
}

func TestCNROM(t *testing.T) {
	m := mustLoad(t, buildRom(t, 3, 1, 4, 0))
	if got := m.PPURead(0x0100); got != 0x80 {
		t.Errorf("bank 0: PPURead(0x0100) = %02x, want 80", got)
	}
	for bank := uint8(0); bank < 4; bank++ {
		m.CPUWrite(0x8000+uint16(bank)*0x1111, bank)
		if got := m.PPURead(0x1000); got != 0x80|bank {
			t.Errorf("bank %d: PPURead(0x1000) = %02x, want %02x", bank, got, 0x80|bank)
		}
	}
	if got := m.CPURead(0x6000); got != 0x5A {
		t.Errorf("CPURead(0x6000) = %02x, want open bus", got)
	}
	if got := m.PeekPPU(0x1000); got != 0x83 {
		t.Errorf("PeekPPU(0x1000) = %02x, want 83", got)
	}
}
