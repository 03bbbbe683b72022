// Package ines reads cartridge images in the iNES and NES 2.0 file formats,
// used for the distribution of NES programs.
package ines

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const Magic = "NES\x1a"

const (
	headerSize  = 16
	trainerSize = 512
	prgUnit     = 16 * 1024
	chrUnit     = 8 * 1024
)

var (
	ErrBadMagic        = errors.New("not an iNES or NES 2.0 file")
	ErrConsoleType     = errors.New("console type not supported")
	ErrTiming          = errors.New("unsupported CPU/PPU timing")
	ErrExpansionDevice = errors.New("unsupported default expansion device")
	ErrTruncated       = errors.New("truncated file")
)

type Rom struct {
	header
	Trainer []byte // 512 bytes if present, or nil.
	PRG     []byte // PRG ROM data.
	CHR     []byte // CHR ROM data, nil when the cartridge uses CHR RAM.
	Misc    []byte // Trailing miscellaneous ROM data, if any.
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// Decode parses a rom image held in memory.
func Decode(buf []byte) (*Rom, error) {
	rom := new(Rom)
	if err := rom.decode(buf); err != nil {
		return nil, err
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom.
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if err := rom.decode(buf); err != nil {
		return 0, err
	}
	return int64(len(buf)), nil
}

func (rom *Rom) decode(buf []byte) error {
	if err := rom.header.decode(buf); err != nil {
		return fmt.Errorf("failed to decode header: %w", err)
	}
	off := headerSize

	section := func(name string, size int) ([]byte, error) {
		if size < 0 || len(buf)-off < size {
			return nil, fmt.Errorf("incomplete %s section: %w", name, ErrTruncated)
		}
		s := buf[off : off+size : off+size]
		off += size
		return s, nil
	}

	var err error
	if rom.HasTrainer() {
		if rom.Trainer, err = section("TRAINER", trainerSize); err != nil {
			return err
		}
	}
	if rom.PRG, err = section("PRG", rom.prgsz); err != nil {
		return err
	}
	if rom.chrsz != 0 {
		if rom.CHR, err = section("CHR", rom.chrsz); err != nil {
			return err
		}
	}
	if off < len(buf) {
		rom.Misc = buf[off:]
	}
	return nil
}

type header struct {
	raw   [headerSize]byte
	prgsz int
	chrsz int

	prgram, prgnvram int
	chrram, chrnvram int
}

func (hdr *header) decode(p []byte) error {
	if len(p) < headerSize {
		return fmt.Errorf("too small, needs %d bytes: %w", headerSize, ErrTruncated)
	}
	if string(p[:4]) != Magic {
		return ErrBadMagic
	}
	copy(hdr.raw[:], p[:headerSize])

	if hdr.raw[7]&0x03 != 0 {
		return fmt.Errorf("%w: %d", ErrConsoleType, hdr.raw[7]&0x03)
	}

	if !hdr.IsNES2() {
		hdr.prgsz = int(hdr.raw[4]) * prgUnit
		hdr.chrsz = int(hdr.raw[5]) * chrUnit
		hdr.prgram = 0x2000
		if hdr.chrsz == 0 {
			hdr.chrram = 0x2000
		}
		return nil
	}

	var err error
	if hdr.prgsz, err = romSize(hdr.raw[4], hdr.raw[9]&0x0F, prgUnit); err != nil {
		return fmt.Errorf("PRG size: %w", err)
	}
	if hdr.chrsz, err = romSize(hdr.raw[5], hdr.raw[9]>>4, chrUnit); err != nil {
		return fmt.Errorf("CHR size: %w", err)
	}
	hdr.prgram = ramSize(hdr.raw[10] & 0x0F)
	hdr.prgnvram = ramSize(hdr.raw[10] >> 4)
	hdr.chrram = ramSize(hdr.raw[11] & 0x0F)
	hdr.chrnvram = ramSize(hdr.raw[11] >> 4)

	if timing := hdr.raw[12] & 0x03; timing != 0 && timing != 2 {
		return fmt.Errorf("%w: %d", ErrTiming, timing)
	}
	if dev := hdr.raw[15] & 0x3F; dev != 0 && dev != 1 {
		return fmt.Errorf("%w: %#02x", ErrExpansionDevice, dev)
	}
	return nil
}

// Largest exponent accepted in the NES 2.0 exponent-multiplier notation.
const maxSizeExp = 30

// romSize computes a NES 2.0 rom size. When the high nybble is 0xF the
// low byte holds an exponent and a multiplier, size = 2^E * (2*M+1).
func romSize(lsb, msb uint8, unit int) (int, error) {
	if msb == 0x0F {
		exp := lsb >> 2
		mul := int(lsb & 0x03)
		if exp > maxSizeExp {
			return 0, fmt.Errorf("size exponent %d too big: %w", exp, ErrTruncated)
		}
		return (2*mul + 1) << exp, nil
	}
	return (int(msb)<<8 | int(lsb)) * unit, nil
}

// ramSize decodes a NES 2.0 shift count. Zero means no RAM.
func ramSize(shift uint8) int {
	if shift == 0 {
		return 0
	}
	return 64 << shift
}

// IsNES2 reports whether the header uses the NES 2.0 extensions.
func (hdr *header) IsNES2() bool {
	return hdr.raw[7]&0x0C == 0x08
}

// HasTrainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of battery backed memory.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// Mapper returns the mapper number, 12 bits for NES 2.0, 8 bits otherwise.
func (hdr *header) Mapper() uint16 {
	m := uint16(hdr.raw[6]>>4) | uint16(hdr.raw[7]&0xF0)
	if hdr.IsNES2() {
		m |= uint16(hdr.raw[8]&0x0F) << 8
	}
	return m
}

// Submapper returns the NES 2.0 submapper number, 0 for iNES files.
func (hdr *header) Submapper() uint8 {
	if hdr.IsNES2() {
		return hdr.raw[8] >> 4
	}
	return 0
}

// Mirroring returns the nametable arrangement wired on the cartridge board.
// Mappers with mapper-controlled mirroring may ignore it.
func (hdr *header) Mirroring() Mirroring {
	switch {
	case hdr.raw[6]&0x08 != 0:
		return FourScreen
	case hdr.raw[6]&0x01 != 0:
		return Vertical
	}
	return Horizontal
}

func (hdr *header) PRGRAMSize() int   { return hdr.prgram }
func (hdr *header) PRGNVRAMSize() int { return hdr.prgnvram }
func (hdr *header) CHRRAMSize() int   { return hdr.chrram }
func (hdr *header) CHRNVRAMSize() int { return hdr.chrnvram }

// MiscROMCount is the number of miscellaneous roms (NES 2.0 only).
func (hdr *header) MiscROMCount() int {
	if hdr.IsNES2() {
		return int(hdr.raw[14] & 0x03)
	}
	return 0
}

type Mirroring uint8

const (
	Horizontal Mirroring = iota
	Vertical
	FourScreen
)

func (m Mirroring) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case FourScreen:
		return "four-screen"
	}
	return fmt.Sprintf("Mirroring(%d)", m)
}
