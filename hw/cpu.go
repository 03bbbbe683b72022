package hw

import (
	"cyclenes/emu/log"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request
)

// A Bus is the CPU view of the console address space. Peek8 is a debug read
// without side effects.
type Bus interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
	Peek8(addr uint16) uint8
}

type phase uint8

const (
	phaseIdle        phase = iota // between instructions
	phaseInstruction              // executing op
	phaseInterrupt                // running the interrupt sequence
)

// opState holds the temporaries of the in-flight instruction or interrupt
// sequence. It's reset each time the CPU goes back to idle.
type opState struct {
	step   uint8
	addr   uint16 // effective address
	ptr    uint16 // zero page pointer or unindexed base address
	data   uint8  // read-modify-write operand
	loaded bool   // data has been read
}

// CPU is a cycle-stepped 6502, without decimal mode, as found in the NES.
// Each call to Cycle performs exactly one bus cycle.
type CPU struct {
	bus Bus

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	Cycles int64 // CPU cycles

	phase  phase
	op     Operation
	st     opState
	vector uint16 // vector of the interrupt being serviced

	// interrupt requests, latched until serviced.
	nmi, irq, reset bool
	irqLine         bool // level-triggered IRQ sources

	halted error

	// called on each opcode fetch, before execution.
	onFetch func(pc uint16, op Operation)
}

// NewCPU creates a new CPU at power-up state. The CPU starts executing once
// a reset has been raised, or after PC has been set.
func NewCPU(bus Bus) *CPU {
	return &CPU{
		bus: bus,
		P:   Reserved,
	}
}

// RaiseNMI requests a non-maskable interrupt.
func (c *CPU) RaiseNMI() { c.nmi = true }

// RaiseIRQ requests a maskable interrupt. The request stays pending while
// the interrupt disable flag is set.
func (c *CPU) RaiseIRQ() { c.irq = true }

// RaiseReset requests a reset. Unlike other interrupts the reset sequence
// doesn't write the stack, though it still decrements SP by 3.
func (c *CPU) RaiseReset() { c.reset = true }

// SetIRQLine sets the state of the IRQ line, driven by level-triggered
// sources. An interrupt is taken as long as the line is high and the
// interrupt disable flag is clear.
func (c *CPU) SetIRQLine(high bool) { c.irqLine = high }

func (c *CPU) interruptPending() bool {
	return c.reset || c.nmi || ((c.irq || c.irqLine) && !c.P.has(Interrupt))
}

// Halted returns the error that stopped the CPU, or nil.
func (c *CPU) Halted() error {
	return c.halted
}

// Peek returns the value at addr, without side effects.
func (c *CPU) Peek(addr uint16) uint8 {
	return c.bus.Peek8(addr)
}

// Cycle runs one CPU cycle.
func (c *CPU) Cycle() error {
	if c.halted != nil {
		return c.halted
	}
	c.Cycles++

	switch c.phase {
	case phaseInstruction:
		c.execute()
	case phaseInterrupt:
		c.interrupt()
	default:
		if c.interruptPending() {
			// Interrupt detection takes a full cycle.
			c.selectVector()
			c.phase = phaseInterrupt
			return nil
		}
		pc := c.PC
		opcode := c.fetch()
		c.op = Lookup(opcode)
		if !c.op.Valid() {
			c.halted = &IllegalOpcodeError{Opcode: opcode, PC: pc}
			log.ModCPU.ErrorZ("CPU halted").
				Hex16("PC", pc).
				Hex8("opcode", opcode).
				End()
			return c.halted
		}
		if c.onFetch != nil {
			c.onFetch(pc, c.op)
		}
		c.phase = phaseInstruction
	}
	return nil
}

// PerformNextInstruction runs the CPU until an instruction retires and
// returns it. If the CPU is between instructions, pending interrupts are
// serviced first, then the next instruction is fetched and run in full.
func (c *CPU) PerformNextInstruction() (Operation, error) {
	for c.phase != phaseInstruction {
		if err := c.Cycle(); err != nil {
			return Operation{}, err
		}
	}
	op := c.op
	for c.phase == phaseInstruction {
		if err := c.Cycle(); err != nil {
			return op, err
		}
	}
	return op, nil
}

// InInstruction reports whether an instruction or an interrupt sequence is
// in progress.
func (c *CPU) InInstruction() bool {
	return c.phase != phaseIdle
}

// Current returns the operation being executed, or the last executed one.
func (c *CPU) Current() Operation {
	return c.op
}

func (c *CPU) selectVector() {
	switch {
	case c.reset:
		c.reset = false
		c.vector = ResetVector
	case c.nmi:
		c.nmi = false
		c.vector = NMIVector
	default:
		c.irq = false
		c.vector = IRQVector
	}
}

func (c *CPU) interrupt() {
	s := &c.st
	switch s.step {
	case 0:
		c.read(c.PC) // dummy read
	case 1:
		c.pushInterrupt(uint8(c.PC >> 8))
	case 2:
		c.pushInterrupt(uint8(c.PC))
	case 3:
		c.pushInterrupt(uint8(c.P)&^Break | Reserved)
		c.P.set(Interrupt, true)
	case 4:
		s.addr = uint16(c.read(c.vector))
	case 5:
		prev := c.PC
		c.PC = s.addr | uint16(c.read(c.vector+1))<<8
		log.ModCPU.DebugZ("interrupt").
			Hex16("vector", c.vector).
			Hex16("from", prev).
			Hex16("to", c.PC).
			End()
		c.retire()
		return
	}
	s.step++
}

// pushInterrupt pushes val on the stack, except during reset where the
// write is turned into a read.
func (c *CPU) pushInterrupt(val uint8) {
	if c.vector == ResetVector {
		c.read(0x0100 | uint16(c.SP))
		c.SP--
		return
	}
	c.push(val)
}

func (c *CPU) retire() {
	c.phase = phaseIdle
	c.st = opState{}
}

func (c *CPU) read(addr uint16) uint8 {
	return c.bus.Read8(addr)
}

func (c *CPU) write(addr uint16, val uint8) {
	c.bus.Write8(addr, val)
}

func (c *CPU) fetch() uint8 {
	val := c.bus.Read8(c.PC)
	c.PC++
	return val
}

/* stack operations */

func (c *CPU) push(val uint8) {
	c.write(0x0100|uint16(c.SP), val)
	c.SP--
}

func (c *CPU) pull() uint8 {
	c.SP++
	return c.read(0x0100 | uint16(c.SP))
}

// AddLogContext implements log.Context.
func (c *CPU) AddLogContext(e *log.EntryZ) {
	e.Hex16("cpu.pc", c.PC)
}
