package mappers

import (
	"testing"

	"cyclenes/ines"
)

type openBus uint8

func (b openBus) OpenBus() uint8 { return uint8(b) }

// buildRom creates an iNES image with prgBanks 16KB PRG banks and chrBanks
// 8KB CHR banks. Each PRG bank is filled with its index, each CHR bank with
// 0x80 | its index.
func buildRom(t *testing.T, mapper uint8, prgBanks, chrBanks int, flags6 uint8) *ines.Rom {
	t.Helper()

	hdr := []byte{'N', 'E', 'S', 0x1A, byte(prgBanks), byte(chrBanks), mapper<<4 | flags6&0x0F, mapper & 0xF0, 0, 0, 0, 0, 0, 0, 0, 0}
	buf := append([]byte(nil), hdr...)
	for i := 0; i < prgBanks; i++ {
		for j := 0; j < 0x4000; j++ {
			buf = append(buf, byte(i))
		}
	}
	for i := 0; i < chrBanks; i++ {
		for j := 0; j < 0x2000; j++ {
			buf = append(buf, 0x80|byte(i))
		}
	}
	rom, err := ines.Decode(buf)
	if err != nil {
		t.Fatalf("failed to build rom: %v", err)
	}
	return rom
}

func mustLoad(t *testing.T, rom *ines.Rom) Mapper {
	t.Helper()
	m, err := Load(rom, openBus(0x5A))
	if err != nil {
		t.Fatal(err)
	}
	return m
}
