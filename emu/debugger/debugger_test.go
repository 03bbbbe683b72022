package debugger

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cyclenes/hw"
	"cyclenes/ines"
)

// newConsole returns a console running an NROM image where program is placed
// at $8000 (reset vector). The NMI handler at $9000 is a NOP followed by RTI,
// the IRQ handler at $9002 is a single RTI.
func newConsole(t *testing.T, program ...uint8) *hw.Console {
	t.Helper()

	prg := make([]byte, 0x4000)
	copy(prg, program)
	copy(prg[0x1000:], []byte{0xEA, 0x40, 0x40})
	copy(prg[0x3FFA:], []byte{0x00, 0x90, 0x00, 0x80, 0x02, 0x90})

	buf := []byte{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	buf = append(buf, prg...)
	buf = append(buf, make([]byte, 0x2000)...)
	rom, err := ines.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	c, err := hw.NewConsole(rom)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// run executes a debugger script and returns the output lines, prompts
// removed.
func run(t *testing.T, d *Debugger, script ...string) []string {
	t.Helper()

	out := d.out.(*strings.Builder)
	out.Reset()
	if err := d.Run(strings.NewReader(strings.Join(script, "\n") + "\n")); err != nil {
		t.Fatal(err)
	}

	var lines []string
	for _, l := range strings.Split(out.String(), "\n") {
		l = strings.TrimLeft(l, "> ")
		if l != "" {
			lines = append(lines, strings.TrimRight(l, " "))
		}
	}
	return lines
}

func stackLine(i int, entry, loc string) string {
	return fmt.Sprintf("#%d  %-22s %s", i, entry, loc)
}

var subroutine = []uint8{
	0xA9, 0x05,       // $8000 LDA #$05
	0x20, 0x10, 0x80, // $8002 JSR $8010
	0xE8,             // $8005 INX
	0x4C, 0x06, 0x80, // $8006 JMP $8006
	0, 0, 0, 0, 0, 0, 0,
	0xA2, 0x03, // $8010 LDX #$03
	0x60,       // $8012 RTS
}

func TestDebuggerCommands(t *testing.T) {
	d := New(newConsole(t, subroutine...), &strings.Builder{})

	got := run(t, d,
		"n",
		"",
		"get 8000",
		"b $8012",
		"r 10",
		"bt",
		"n",
		"bt",
		"status",
		"foo",
		"get zz",
		"r",
		"q",
		"n", // never executed
	)

	regs := "A:05 X:03 Y:00 P:24 SP:FD"
	want := []string{
		"$8000  A9 05     LDA #$05        A:05 X:00 Y:00 P:24 SP:FD",
		"$8002  20 10 80  JSR $8010       A:05 X:00 Y:00 P:24 SP:FB",
		"$8000: A9",
		"breakpoint set at $8012",
		"breakpoint at $8012 after 1 instructions",
		stackLine(0, "$8010", "$8012"),
		stackLine(1, "[bottom of stack]", "$8002"),
		"$8012  60        RTS             " + regs,
		stackLine(0, "[bottom of stack]", "$8005"),
		"PC:8005 " + regs + " [nvUbdIzc]",
		fmt.Sprintf("cycle:%d  PPU line:%d dot:%d frame:0", d.c.Cycles, d.c.PPU.Scanline, d.c.PPU.Dot),
		`unknown command "foo"`,
		`error: invalid address "zz"`,
		"error: bad usage",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]uint16{0x8012}, d.Breakpoints()); diff != "" {
		t.Errorf("breakpoints mismatch (-want +got):\n%s", diff)
	}
}

func TestDebuggerToggleBreakpoint(t *testing.T) {
	d := New(newConsole(t, subroutine...), &strings.Builder{})

	got := run(t, d, "b 0x8005", "break 8006", "b 8005")
	want := []string{
		"breakpoint set at $8005",
		"breakpoint set at $8006",
		"breakpoint removed at $8005",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint16{0x8006}, d.Breakpoints()); diff != "" {
		t.Errorf("breakpoints mismatch (-want +got):\n%s", diff)
	}

	got = run(t, d, "r 100")
	want = []string{"breakpoint at $8006 after 5 instructions"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestDebuggerNMIFrame(t *testing.T) {
	c := newConsole(t,
		0x2C, 0x02, 0x20, // $8000 BIT $2002
		0x10, 0xFB,       // $8003 BPL $8000
		0x2C, 0x02, 0x20, // $8005 BIT $2002
		0x10, 0xFB,       // $8008 BPL $8005
		0xA9, 0x80,       // $800A LDA #$80
		0x8D, 0x00, 0x20, // $800C STA $2000
		0x4C, 0x0F, 0x80, // $800F JMP $800F
	)
	d := New(c, &strings.Builder{})

	got := run(t, d, "b 9001", "r 200000", "bt", "n", "bt")
	if len(got) != 6 {
		t.Fatalf("unexpected output:\n%s", strings.Join(got, "\n"))
	}
	if !strings.HasPrefix(got[1], "breakpoint at $9001") {
		t.Fatalf("breakpoint not reached: %s", got[1])
	}

	want := []string{
		stackLine(0, "[nmi] $9000", "$9001"),
		stackLine(1, "[bottom of stack]", "$800F"),
	}
	if diff := cmp.Diff(want, got[2:4]); diff != "" {
		t.Errorf("stack in nmi handler mismatch (-want +got):\n%s", diff)
	}

	want = []string{stackLine(0, "[bottom of stack]", "$800F")}
	if diff := cmp.Diff(want, got[5:]); diff != "" {
		t.Errorf("stack after rti mismatch (-want +got):\n%s", diff)
	}
}
