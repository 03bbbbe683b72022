// Package debugger implements a line-based CPU debugger.
//
// Commands:
//
//	next, n          execute the next instruction
//	cycle, c         run a single CPU cycle
//	status, s        show CPU and PPU state
//	get ADDR         show the byte at ADDR (hexadecimal)
//	run, r N         execute N instructions, stopping on breakpoints
//	break, b ADDR    toggle a breakpoint at ADDR
//	stack, bt        show the call stack
//	reset            soft reset the console
//	quit, q          quit
//
// An empty line repeats the last command.
package debugger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"cyclenes/emu/log"
	"cyclenes/hw"
	"cyclenes/hw/hwdefs"
)

var modDbg = log.NewModule("debugger")

type Debugger struct {
	c   *hw.Console
	out io.Writer

	breakpoints map[uint16]bool
	cstack      callStack

	last string // last command line

	// last fetched instruction, and SP at that time
	pc      uint16
	op      hw.Operation
	sp      uint8
	fetched bool
}

// New creates a debugger controlling c, printing to out.
func New(c *hw.Console, out io.Writer) *Debugger {
	d := &Debugger{
		c:           c,
		out:         out,
		breakpoints: make(map[uint16]bool),
	}
	c.OnFetch(d.onFetch)
	return d
}

func (d *Debugger) peek16(addr uint16) uint16 {
	return uint16(d.c.Peek8(addr)) | uint16(d.c.Peek8(addr+1))<<8
}

// Stack pointer change caused by the execution of an instruction.
var stackDelta = map[hw.Mnemonic]int{
	hw.PHA: -1, hw.PHP: -1,
	hw.PLA: 1, hw.PLP: 1,
	hw.JSR: -2, hw.RTS: 2,
	hw.BRK: -3, hw.RTI: 3,
}

// onFetch keeps track of the call stack. Interrupts are detected when the
// CPU lands on a vector target with 3 more bytes on the stack than the
// previous instruction accounts for.
func (d *Debugger) onFetch(pc uint16, op hw.Operation) {
	sp := d.c.CPU.SP
	if d.fetched && d.op.Mnemonic != hw.TXS {
		expected := uint8(int(d.sp) + stackDelta[d.op.Mnemonic])
		if sp == expected-3 {
			switch pc {
			case d.peek16(hw.ResetVector):
				d.cstack.reset()
			case d.peek16(hw.NMIVector):
				d.cstack.push(d.pc, pc, nmiFrame)
			case d.peek16(hw.IRQVector):
				d.cstack.push(d.pc, pc, irqFrame)
			}
		}
	}

	switch op.Mnemonic {
	case hw.JSR:
		d.cstack.push(pc, d.peek16(pc+1), callFrame)
	case hw.BRK:
		d.cstack.push(pc, d.peek16(hw.IRQVector), irqFrame)
	case hw.RTS, hw.RTI:
		d.cstack.pop()
	}
	d.pc, d.op, d.sp, d.fetched = pc, op, sp, true
}

// Run reads commands from in until EOF or a quit command.
func (d *Debugger) Run(in io.Reader) error {
	scan := bufio.NewScanner(in)
	d.prompt()
	for scan.Scan() {
		if d.exec(scan.Text()) {
			return nil
		}
		d.prompt()
	}
	return scan.Err()
}

func (d *Debugger) prompt() {
	fmt.Fprint(d.out, "> ")
}

var errUsage = errors.New("bad usage")

// exec runs a command line and reports whether the debugger should quit.
func (d *Debugger) exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		line = d.last
	}
	if line == "" {
		return false
	}
	d.last = line

	args := strings.Fields(line)
	var err error
	switch args[0] {
	case "next", "n":
		err = d.next()
	case "cycle", "c":
		err = d.cycle()
	case "status", "s":
		d.status()
	case "get":
		err = d.get(args[1:])
	case "run", "r":
		err = d.run(args[1:])
	case "break", "b":
		err = d.toggleBreak(args[1:])
	case "stack", "bt":
		d.stack()
	case "reset":
		d.c.Reset(hwdefs.SoftReset)
		d.cstack.reset()
		d.fetched = false
		fmt.Fprintln(d.out, "console reset")
	case "quit", "q":
		return true
	default:
		fmt.Fprintf(d.out, "unknown command %q\n", args[0])
		return false
	}

	if err != nil {
		fmt.Fprintf(d.out, "error: %v\n", err)
		modDbg.DebugZ("command failed").String("cmd", line).Error("err", err).End()
	}
	return false
}

func parseAddr(args []string) (uint16, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	s := strings.TrimPrefix(strings.TrimPrefix(args[0], "$"), "0x")
	addr, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", args[0])
	}
	return uint16(addr), nil
}

// disasm returns the instruction at pc, with its bytes.
func (d *Debugger) disasm(pc uint16, op hw.Operation) string {
	lo, hi := d.c.Peek8(pc+1), d.c.Peek8(pc+2)

	var bytes strings.Builder
	fmt.Fprintf(&bytes, "%02X", op.Opcode)
	for i := range op.Mode.Size() {
		fmt.Fprintf(&bytes, " %02X", d.c.Peek8(pc+1+uint16(i)))
	}
	return fmt.Sprintf("$%04X  %-8s  %-14s", pc, bytes.String(), op.Format(pc, lo, hi))
}

func (d *Debugger) regs() string {
	cpu := d.c.CPU
	return fmt.Sprintf("A:%02X X:%02X Y:%02X P:%02X SP:%02X", cpu.A, cpu.X, cpu.Y, uint8(cpu.P), cpu.SP)
}

func (d *Debugger) next() error {
	op, err := d.c.StepInstruction()
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "%s  %s\n", d.disasm(d.pc, op), d.regs())
	return nil
}

func (d *Debugger) cycle() error {
	if err := d.c.Tick(); err != nil {
		return err
	}
	fmt.Fprintf(d.out, "cycle %d  PC:%04X  %s\n", d.c.Cycles, d.c.CPU.PC, d.regs())
	return nil
}

func (d *Debugger) status() {
	cpu, ppu := d.c.CPU, d.c.PPU
	fmt.Fprintf(d.out, "PC:%04X %s [%s]\n", cpu.PC, d.regs(), cpu.P)
	fmt.Fprintf(d.out, "cycle:%d  PPU line:%d dot:%d frame:%d\n", d.c.Cycles, ppu.Scanline, ppu.Dot, ppu.Frames)
}

func (d *Debugger) get(args []string) error {
	addr, err := parseAddr(args)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "$%04X: %02X\n", addr, d.c.Peek8(addr))
	return nil
}

func (d *Debugger) run(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid instruction count %q", args[0])
	}

	for i := range n {
		if _, err := d.c.StepInstruction(); err != nil {
			return err
		}
		if d.breakpoints[d.c.CPU.PC] {
			fmt.Fprintf(d.out, "breakpoint at $%04X after %d instructions\n", d.c.CPU.PC, i+1)
			return nil
		}
	}
	fmt.Fprintf(d.out, "PC:%04X %s\n", d.c.CPU.PC, d.regs())
	return nil
}

func (d *Debugger) toggleBreak(args []string) error {
	addr, err := parseAddr(args)
	if err != nil {
		return err
	}
	if d.breakpoints[addr] {
		delete(d.breakpoints, addr)
		fmt.Fprintf(d.out, "breakpoint removed at $%04X\n", addr)
	} else {
		d.breakpoints[addr] = true
		fmt.Fprintf(d.out, "breakpoint set at $%04X\n", addr)
	}
	return nil
}

// Breakpoints returns the sorted breakpoint addresses.
func (d *Debugger) Breakpoints() []uint16 {
	return slices.Sorted(maps.Keys(d.breakpoints))
}

func (d *Debugger) stack() {
	for i, f := range d.cstack.build(d.c.CPU.PC) {
		fmt.Fprintf(d.out, "#%d  %-22s %s\n", i, f[0], f[1])
	}
}
