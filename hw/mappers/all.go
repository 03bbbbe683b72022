// Package mappers implements the cartridge boards: address translation and
// bank switching for the CPU and PPU buses, plus the console nametable RAM
// that the board wires into the PPU address space.
package mappers

import (
	"fmt"

	"cyclenes/emu/log"
	"cyclenes/ines"
)

var modMapper = log.NewModule("mapper")

// Bus gives mappers access to the state of the CPU data bus, returned for
// reads of unmapped cartridge space.
type Bus interface {
	OpenBus() uint8
}

// A Mapper sits between the console buses and the cartridge memories.
// The Peek functions are side-effect free debug reads.
type Mapper interface {
	Name() string

	CPURead(addr uint16) uint8
	CPUWrite(addr uint16, val uint8)
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, val uint8)

	PeekCPU(addr uint16) uint8
	PeekPPU(addr uint16) uint8
}

// A Cycler is a mapper with internal state that evolves with the CPU clock.
// The console calls Cycle once per CPU cycle, after the CPU.
type Cycler interface {
	Cycle()
}

type MapperDesc struct {
	Name string
	Load func(*base) (Mapper, error)
}

var All = map[uint16]MapperDesc{
	0: NROM,
	1: MMC1,
	3: CNROM,
}

type UnsupportedMapperError struct {
	Number uint16
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("unsupported mapper %d", e.Number)
}

// Load creates the mapper described by the rom header.
func Load(rom *ines.Rom, bus Bus) (Mapper, error) {
	desc, ok := All[rom.Mapper()]
	if !ok {
		return nil, &UnsupportedMapperError{Number: rom.Mapper()}
	}
	base, err := newbase(desc, rom, bus)
	if err != nil {
		return nil, fmt.Errorf("mapper initialization failed: %w", err)
	}
	m, err := desc.Load(base)
	if err != nil {
		return nil, fmt.Errorf("failed to load mapper %s: %w", desc.Name, err)
	}
	modMapper.InfoZ("mapper loaded").
		String("name", desc.Name).
		Int("prg", len(rom.PRG)).
		Int("chr", len(base.chr)).
		Bool("chrram", base.chrram).
		Int("prgram", len(base.prgram)).
		Stringer("mirroring", rom.Mirroring()).
		End()
	return m, nil
}
