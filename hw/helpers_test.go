package hw

import (
	"bufio"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"cyclenes/ines"
)

type access struct {
	Write bool
	Addr  uint16
	Val   uint8
}

// testBus is a flat 64KB memory recording bus accesses.
type testBus struct {
	mem     [0x10000]uint8
	log     []access
	logging bool
}

func (b *testBus) Read8(addr uint16) uint8 {
	val := b.mem[addr]
	if b.logging {
		b.log = append(b.log, access{Addr: addr, Val: val})
	}
	return val
}

func (b *testBus) Write8(addr uint16, val uint8) {
	if b.logging {
		b.log = append(b.log, access{Write: true, Addr: addr, Val: val})
	}
	b.mem[addr] = val
}

func (b *testBus) Peek8(addr uint16) uint8 {
	return b.mem[addr]
}

type dumpline struct {
	off   uint16
	bytes []byte
}

func loadDump(tb testing.TB, dump string) []dumpline {
	tb.Helper()

	var lines []dumpline
	scan := bufio.NewScanner(strings.NewReader(dump))
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		off, octets, ok := strings.Cut(line, ":")
		if !ok {
			tb.Fatalf("malformed line: %s", line)
		}
		ioff, err := strconv.ParseUint(off, 16, 16)
		if err != nil {
			tb.Fatalf("malformed offset %s: %s", off, err)
		}
		buf, err := hex.DecodeString(strings.ReplaceAll(octets, " ", ""))
		if err != nil {
			tb.Fatalf("hex decode: %s", err)
		}
		lines = append(lines, dumpline{off: uint16(ioff), bytes: buf})
	}
	if scan.Err() != nil {
		tb.Fatalf("scan error: %s", scan.Err())
	}
	return lines
}

// loadCPUWith loads a memory dump into a test bus and runs the CPU reset
// sequence. Unless the dump sets it, the reset vector points to $0600.
func loadCPUWith(tb testing.TB, dump string) (*CPU, *testBus) {
	tb.Helper()

	bus := &testBus{}
	bus.mem[ResetVector+1] = 0x06
	for _, line := range loadDump(tb, dump) {
		copy(bus.mem[line.off:], line.bytes)
	}

	cpu := NewCPU(bus)
	cpu.RaiseReset()
	for i := 0; i < 7; i++ {
		if err := cpu.Cycle(); err != nil {
			tb.Fatal(err)
		}
	}
	if cpu.InInstruction() {
		tb.Fatalf("reset sequence not complete after 7 cycles")
	}
	cpu.Cycles = 0
	return cpu, bus
}

func asInt(v any) int {
	switch v := v.(type) {
	case int:
		return v
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case P:
		return int(v)
	}
	panic("unexpected state value type")
}

// runAndCheckState runs the CPU for ncycles cycles then checks the given
// (name, value) state pairs. Names are register names, or "mem" followed
// by a dump.
func runAndCheckState(t *testing.T, cpu *CPU, bus *testBus, ncycles int, states ...any) {
	t.Helper()

	if len(states)%2 != 0 {
		panic("odd number of states")
	}

	for i := 0; i < ncycles; i++ {
		if err := cpu.Cycle(); err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
	}

	for i := 0; i < len(states); i += 2 {
		name := states[i].(string)
		if name == "mem" {
			for _, line := range loadDump(t, states[i+1].(string)) {
				wantMem(t, bus, line)
			}
			continue
		}

		want := asInt(states[i+1])
		var got int
		switch name {
		case "A":
			got = int(cpu.A)
		case "X":
			got = int(cpu.X)
		case "Y":
			got = int(cpu.Y)
		case "SP":
			got = int(cpu.SP)
		case "PC":
			got = int(cpu.PC)
		case "P":
			got = int(cpu.P)
			if got != want {
				t.Errorf("got P=$%02X(%s), want $%02X(%s)", got, P(got), want, P(want))
			}
			continue
		default:
			panic("unknown state: " + name)
		}
		if got != want {
			t.Errorf("got %s=$%02X, want $%02X", name, got, want)
		}
	}

	if t.Failed() {
		t.FailNow()
	}
}

func wantMem(t *testing.T, bus *testBus, dl dumpline) {
	t.Helper()

	got := bus.mem[dl.off : int(dl.off)+len(dl.bytes)]
	if string(got) != string(dl.bytes) {
		t.Errorf("mem mismatch at $%04X\ngot:  % x\nwant: % x", dl.off, got, dl.bytes)
	}
}

func wantMem8(t *testing.T, bus *testBus, addr uint16, want uint8) {
	t.Helper()

	if got := bus.mem[addr]; got != want {
		t.Errorf("$%04X = %02X want %02X", addr, got, want)
	}
}

// buildNROM returns a 16KB NROM image. The program is placed at $8000, which
// is also the reset vector. NMI and IRQ vectors point to an infinite loop at
// $9000.
func buildNROM(tb testing.TB, program ...uint8) *ines.Rom {
	tb.Helper()

	prg := make([]byte, 0x4000)
	copy(prg, program)
	copy(prg[0x1000:], []byte{0x4C, 0x00, 0x90}) // JMP $9000
	copy(prg[0x3FFA:], []byte{0x00, 0x90, 0x00, 0x80, 0x00, 0x90})

	buf := []byte{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	buf = append(buf, prg...)
	buf = append(buf, make([]byte, 0x2000)...)
	rom, err := ines.Decode(buf)
	if err != nil {
		tb.Fatalf("failed to build rom: %v", err)
	}
	return rom
}

func newTestConsole(tb testing.TB, program ...uint8) *Console {
	tb.Helper()

	c, err := NewConsole(buildNROM(tb, program...))
	if err != nil {
		tb.Fatal(err)
	}
	return c
}

// runInstructions steps n instructions and returns their mnemonics.
func runInstructions(tb testing.TB, c *Console, n int) []Mnemonic {
	tb.Helper()

	var mns []Mnemonic
	for range n {
		op, err := c.StepInstruction()
		if err != nil {
			tb.Fatal(err)
		}
		mns = append(mns, op.Mnemonic)
	}
	return mns
}
