package emu

import (
	"testing"

	"cyclenes/ines"
)

// testRom returns a 16KB NROM image running program from $8000. Vectors
// other than reset point to an infinite loop at $9000.
func testRom(tb testing.TB, program ...uint8) *ines.Rom {
	tb.Helper()

	prg := make([]byte, 0x4000)
	copy(prg, program)
	copy(prg[0x1000:], []byte{0x4C, 0x00, 0x90})
	copy(prg[0x3FFA:], []byte{0x00, 0x90, 0x00, 0x80, 0x00, 0x90})

	buf := append([]byte{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, prg...)
	buf = append(buf, make([]byte, 0x2000)...)
	rom, err := ines.Decode(buf)
	if err != nil {
		tb.Fatal(err)
	}
	return rom
}

func newTestEmulator(tb testing.TB, program ...uint8) *Emulator {
	tb.Helper()

	e, err := New(testRom(tb, program...), DefaultConfig())
	if err != nil {
		tb.Fatal(err)
	}
	return e
}
