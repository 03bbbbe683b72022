package hw

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cyclenes/hw/hwdefs"
)

func TestConsoleProgram(t *testing.T) {
	// LDA #$05; STA $10; LDX $10; INX; BRK
	c := newTestConsole(t, 0xA9, 0x05, 0x85, 0x10, 0xA6, 0x10, 0xE8, 0x00)

	got := runInstructions(t, c, 5)
	want := []Mnemonic{LDA, STA, LDX, INX, BRK}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("instructions mismatch (-want +got):\n%s", diff)
	}

	if c.CPU.A != 0x05 || c.CPU.X != 0x06 {
		t.Errorf("A=$%02X X=$%02X, want A=$05 X=$06", c.CPU.A, c.CPU.X)
	}
	if got := c.Peek8(0x0010); got != 0x05 {
		t.Errorf("$0010 = $%02X, want $05", got)
	}
	if c.CPU.PC != 0x9000 {
		t.Errorf("PC = $%04X, want $9000", c.CPU.PC)
	}
	if c.CPU.SP != 0xFA {
		t.Errorf("SP = $%02X, want $FA", c.CPU.SP)
	}

	// BRK pushed the address of the BRK plus 2, then P with B and bit 5 set.
	stack := []uint8{c.Peek8(0x01FB), c.Peek8(0x01FC), c.Peek8(0x01FD)}
	if diff := cmp.Diff([]uint8{0x34, 0x09, 0x80}, stack); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
	if !c.CPU.P.has(Interrupt) {
		t.Errorf("interrupt disable flag not set after BRK")
	}
}

func TestConsoleMemoryMap(t *testing.T) {
	c := newTestConsole(t)
	c.PPU.warmup = 0

	// RAM is mirrored every 2KB.
	c.Write8(0x0801, 0x42)
	if got := c.Read8(0x1801); got != 0x42 {
		t.Errorf("RAM mirror: $1801 = $%02X, want $42", got)
	}
	if got := c.Peek8(0x0001); got != 0x42 {
		t.Errorf("RAM: $0001 = $%02X, want $42", got)
	}

	// PPU registers are mirrored every 8 bytes.
	c.Write8(0x3FFE, 0x3F) // PPUADDR
	c.Write8(0x2016, 0x00) // PPUADDR
	c.Write8(0x2AAF, 0x2A) // PPUDATA
	if got := c.PPU.Peek(0x3F00); got != 0x2A {
		t.Errorf("palette[0] = $%02X, want $2A", got)
	}

	// PRG ROM.
	if got := c.Read8(0xFFFD); got != 0x80 {
		t.Errorf("$FFFD = $%02X, want $80", got)
	}
	if got := c.Read8(0xBFFD); got != 0x80 {
		t.Errorf("$BFFD = $%02X, want $80 (16KB PRG mirror)", got)
	}

	// Write-only registers return the last value on the bus.
	c.Write8(0x0000, 0x77)
	c.Read8(0x0000)
	if got := c.Read8(0x4000); got != 0x77 {
		t.Errorf("$4000 = $%02X, want open bus $77", got)
	}
}

func TestConsoleOAMDMA(t *testing.T) {
	// LDA #$02; STA $4014; NOP
	c := newTestConsole(t, 0xA9, 0x02, 0x8D, 0x14, 0x40, 0xEA)
	for i := range 256 {
		c.ram[0x200+i] = uint8(i) ^ 0xFF
	}

	runInstructions(t, c, 2)
	writeCycle := c.Cycles - 1
	start := c.Cycles

	if mn := runInstructions(t, c, 1); mn[0] != NOP {
		t.Fatalf("executed %s, want NOP", mn[0])
	}

	want := int64(513 + writeCycle&1 + 2)
	if got := c.Cycles - start; got != want {
		t.Errorf("DMA + NOP took %d cycles, want %d", got, want)
	}

	var wantOAM [256]uint8
	for i := range wantOAM {
		wantOAM[i] = uint8(i) ^ 0xFF
	}
	if diff := cmp.Diff(wantOAM, *c.PPU.OAM()); diff != "" {
		t.Errorf("OAM mismatch (-want +got):\n%s", diff)
	}
}

type fakeInput [2]uint8

func (f fakeInput) LoadState() (uint8, uint8) { return f[0], f[1] }

func TestConsoleControllers(t *testing.T) {
	c := newTestConsole(t)
	c.Input.SetDevice(fakeInput{1<<0 | 1<<2 | 1<<7, 1 << 3})

	c.Write8(0x4016, 1)
	c.Write8(0x4016, 0)

	var pad1, pad2 []uint8
	for range 10 {
		pad1 = append(pad1, c.Read8(0x4016)&1)
		pad2 = append(pad2, c.Read8(0x4017)&1)
	}
	if diff := cmp.Diff([]uint8{1, 0, 1, 0, 0, 0, 0, 1, 1, 1}, pad1); diff != "" {
		t.Errorf("pad 1 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint8{0, 0, 0, 1, 0, 0, 0, 0, 1, 1}, pad2); diff != "" {
		t.Errorf("pad 2 mismatch (-want +got):\n%s", diff)
	}

	// While strobe is high, reads return the state of button A.
	c.Write8(0x4016, 1)
	for range 3 {
		if got := c.Read8(0x4016) & 1; got != 1 {
			t.Fatalf("strobe high: read %d, want 1", got)
		}
	}

	// Peek follows the device while strobe is high.
	c.Write8(0x4016, 0)
	for range 8 {
		c.Read8(0x4016)
	}
	c.Input.SetDevice(fakeInput{0, 1})
	c.Write8(0x4016, 1)
	for port := range 2 {
		peek := c.Input.Peek(port)
		if read := c.Input.Read(port); peek != read || read != uint8(port) {
			t.Errorf("strobe high: port %d Peek=%d Read=%d, want %d", port, peek, read, port)
		}
	}
	c.Input.SetDevice(nil)
	if got := c.Input.Peek(1); got != 0 {
		t.Errorf("no device: Peek=%d, want 0", got)
	}

	// Upper bits come from the open bus.
	c.Write8(0x4016, 0)
	c.openbus = 0x40
	if got := c.Read8(0x4017); got != 0x40 {
		t.Errorf("$4017 = $%02X, want $40", got)
	}
}

func TestConsoleFrameIRQ(t *testing.T) {
	// CLI; JMP $8001
	c := newTestConsole(t, 0x58, 0x4C, 0x01, 0x80)

	for range 2 {
		if err := c.RunFrame(); err != nil {
			t.Fatal(err)
		}
	}

	if c.irqs != hwdefs.FrameCounter {
		t.Errorf("IRQ sources = %s, want %s", c.irqs, hwdefs.FrameCounter)
	}
	if c.CPU.PC < 0x9000 || c.CPU.PC > 0x9002 {
		t.Errorf("PC = $%04X, want IRQ handler at $9000", c.CPU.PC)
	}
	if c.CPU.SP != 0xFA {
		t.Errorf("SP = $%02X, want $FA", c.CPU.SP)
	}

	// Acknowledging the frame IRQ releases the line.
	c.Read8(0x4015)
	for range 4 {
		c.Tick()
	}
	if c.irqs != 0 {
		t.Errorf("IRQ sources = %s, want none", c.irqs)
	}
}

func TestConsoleRunFrame(t *testing.T) {
	c := newTestConsole(t, 0x4C, 0x00, 0x80) // JMP $8000

	for i := range 3 {
		start := c.Cycles
		if err := c.RunFrame(); err != nil {
			t.Fatal(err)
		}
		if c.PPU.Frames != int64(i+1) {
			t.Fatalf("PPU frames = %d, want %d", c.PPU.Frames, i+1)
		}
		// Rendering is disabled: frames are 262*341 dots long.
		if n := c.Cycles - start; n < 29780 || n > 29781 {
			t.Errorf("frame %d took %d cycles", i, n)
		}
	}
}

func TestConsoleIllegalOpcode(t *testing.T) {
	c := newTestConsole(t, 0xEA, 0x02)

	runInstructions(t, c, 1)
	_, err := c.StepInstruction()

	var ierr *IllegalOpcodeError
	if !errors.As(err, &ierr) {
		t.Fatalf("got error %v, want IllegalOpcodeError", err)
	}
	if ierr.Opcode != 0x02 || ierr.PC != 0x8001 {
		t.Errorf("got %+v, want opcode $02 at $8001", *ierr)
	}
	if err := c.Tick(); err == nil {
		t.Errorf("CPU resumed after an illegal opcode")
	}
}

func TestConsoleReset(t *testing.T) {
	// LDX #$10; TXS; LDA #$AB; STA $0300
	c := newTestConsole(t, 0xA2, 0x10, 0x9A, 0xA9, 0xAB, 0x8D, 0x00, 0x03)
	runInstructions(t, c, 4)

	c.Reset(hwdefs.SoftReset)
	runInstructions(t, c, 1)
	if got := c.Peek8(0x0300); got != 0xAB {
		t.Errorf("soft reset: $0300 = $%02X, want $AB", got)
	}
	if c.CPU.SP != 0x0D {
		t.Errorf("soft reset: SP = $%02X, want $0D", c.CPU.SP)
	}

	c.Reset(hwdefs.HardReset)
	runInstructions(t, c, 1)
	if got := c.Peek8(0x0300); got != 0x00 {
		t.Errorf("hard reset: $0300 = $%02X, want $00", got)
	}
	if c.CPU.SP != 0xFD {
		t.Errorf("hard reset: SP = $%02X, want $FD", c.CPU.SP)
	}
}

func TestConsoleOnFetch(t *testing.T) {
	// LDA #$01; LDX #$02; JMP $8000
	c := newTestConsole(t, 0xA9, 0x01, 0xA2, 0x02, 0x4C, 0x00, 0x80)

	var pcs []uint16
	c.OnFetch(func(pc uint16, op Operation) {
		pcs = append(pcs, pc)
	})
	runInstructions(t, c, 4)

	if diff := cmp.Diff([]uint16{0x8000, 0x8002, 0x8004, 0x8000}, pcs); diff != "" {
		t.Errorf("fetch addresses mismatch (-want +got):\n%s", diff)
	}
}
