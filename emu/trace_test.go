package emu

import (
	"bytes"
	"testing"

	"github.com/go-faster/jx"
	"github.com/google/go-cmp/cmp"
)

type traceLine struct {
	Cycle    int64
	PC       int64
	Opcode   int64
	Mnemonic string
	Asm      string
	A, X, Y  int64
	P, SP    int64
	Line     int64
	Dot      int64
}

func decodeTrace(t *testing.T, buf []byte) []traceLine {
	t.Helper()

	var lines []traceLine
	for _, raw := range bytes.Split(bytes.TrimSpace(buf), []byte("\n")) {
		var tl traceLine
		ints := map[string]*int64{
			"cycle": &tl.Cycle, "pc": &tl.PC, "opcode": &tl.Opcode,
			"a": &tl.A, "x": &tl.X, "y": &tl.Y, "p": &tl.P, "sp": &tl.SP,
			"line": &tl.Line, "dot": &tl.Dot,
		}
		err := jx.DecodeBytes(raw).Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "mnemonic":
				tl.Mnemonic, err = d.Str()
			case "asm":
				tl.Asm, err = d.Str()
			default:
				p, ok := ints[key]
				if !ok {
					t.Errorf("unexpected key %q", key)
					return d.Skip()
				}
				*p, err = d.Int64()
			}
			return err
		})
		if err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		lines = append(lines, tl)
	}
	return lines
}

func TestTracer(t *testing.T) {
	// LDA #$05; LDX #$10; JMP $8004
	e := newTestEmulator(t, 0xA9, 0x05, 0xA2, 0x10, 0x4C, 0x04, 0x80)

	var buf bytes.Buffer
	tr := NewTracer(&buf, e.Console)
	for range 4 {
		if _, err := e.Console.StepInstruction(); err != nil {
			t.Fatal(err)
		}
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	// The CPU fetches the first opcode after the 7 cycles reset sequence.
	// PPU positions are those after the previous CPU cycle.
	want := []traceLine{
		{Cycle: 7, PC: 0x8000, Opcode: 0xA9, Mnemonic: "LDA", Asm: "LDA #$05", P: 0x24, SP: 0xFD, Dot: 21},
		{Cycle: 9, PC: 0x8002, Opcode: 0xA2, Mnemonic: "LDX", Asm: "LDX #$10", A: 0x05, P: 0x24, SP: 0xFD, Dot: 27},
		{Cycle: 11, PC: 0x8004, Opcode: 0x4C, Mnemonic: "JMP", Asm: "JMP $8004", A: 0x05, X: 0x10, P: 0x24, SP: 0xFD, Dot: 33},
		{Cycle: 14, PC: 0x8004, Opcode: 0x4C, Mnemonic: "JMP", Asm: "JMP $8004", A: 0x05, X: 0x10, P: 0x24, SP: 0xFD, Dot: 42},
	}
	if diff := cmp.Diff(want, decodeTrace(t, buf.Bytes())); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}

	// Once closed, nothing more is traced.
	n := buf.Len()
	e.Console.StepInstruction()
	if buf.Len() != n {
		t.Errorf("tracer still active after Close")
	}
}
