package hw

import (
	"fmt"

	"cyclenes/emu/log"
	"cyclenes/hw/apu"
	"cyclenes/hw/hwdefs"
	"cyclenes/hw/mappers"
	"cyclenes/ines"
)

// Console ties the NES components together. It implements the CPU bus,
// dispatching accesses to RAM, the PPU and APU registers, the controller
// ports and the cartridge.
type Console struct {
	CPU    *CPU
	PPU    *PPU
	APU    *apu.APU
	Mapper mappers.Mapper
	Input  InputPorts

	Cycles int64 // CPU cycles since power-up, including DMA stalls

	ram     [0x800]uint8
	openbus uint8 // last value seen on the CPU data bus
	irqs    hwdefs.IRQSource
	dma     oamDMA
	cycler  mappers.Cycler // nil if the mapper has no clock

	frameDone bool
}

// NewConsole creates a console with the cartridge rom inserted, in its
// power-up state.
func NewConsole(rom *ines.Rom) (*Console, error) {
	c := &Console{}
	m, err := mappers.Load(rom, c)
	if err != nil {
		return nil, fmt.Errorf("failed to load cartridge: %w", err)
	}
	c.Mapper = m
	c.cycler, _ = m.(mappers.Cycler)

	c.CPU = NewCPU(c)
	c.PPU = NewPPU(m)
	c.PPU.CPU = c.CPU
	c.APU = apu.New()
	c.Reset(hwdefs.HardReset)
	return c, nil
}

// Reset resets the console. A hard reset also clears the RAM and puts the
// CPU registers in their power-up state.
func (c *Console) Reset(soft bool) {
	if !soft {
		hook := c.CPU.onFetch
		*c.CPU = *NewCPU(c)
		c.CPU.onFetch = hook

		c.ram = [0x800]uint8{}
		c.openbus = 0
		c.Cycles = 0
	}
	c.dma = oamDMA{}
	c.irqs = 0
	c.PPU.Reset()
	c.APU.Reset()
	c.CPU.RaiseReset()

	log.ModEmu.InfoZ("console reset").Bool("soft", soft).End()
}

// OnFetch registers fn to be called each time the CPU fetches an opcode,
// before the instruction executes. pc is the address of the opcode.
func (c *Console) OnFetch(fn func(pc uint16, op Operation)) {
	c.CPU.onFetch = fn
}

// Tick advances the console by one CPU cycle: one CPU cycle (or one OAM DMA
// cycle while the CPU is stalled), 3 PPU dots and one APU cycle.
func (c *Console) Tick() error {
	var err error
	if c.dma.active {
		c.dmaCycle()
	} else {
		err = c.CPU.Cycle()
	}
	c.Cycles++

	for range 3 {
		c.PPU.Cycle()
		if c.PPU.EndOfFrame() {
			c.frameDone = true
		}
	}

	c.APU.Cycle()
	if c.cycler != nil {
		c.cycler.Cycle()
	}
	c.SetIRQ(hwdefs.FrameCounter, c.APU.IRQWaiting())
	return err
}

// RunFrame ticks the console until the PPU completes a frame.
func (c *Console) RunFrame() error {
	c.frameDone = false
	for !c.frameDone {
		if err := c.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// StepInstruction ticks the console until the CPU retires an instruction,
// running pending interrupt sequences and DMA transfers first.
func (c *Console) StepInstruction() (Operation, error) {
	for c.CPU.phase != phaseInstruction {
		if err := c.Tick(); err != nil {
			return Operation{}, err
		}
	}
	op := c.CPU.op
	for c.CPU.phase == phaseInstruction {
		if err := c.Tick(); err != nil {
			return op, err
		}
	}
	return op, nil
}

// SetIRQ asserts or releases the IRQ line on behalf of src.
func (c *Console) SetIRQ(src hwdefs.IRQSource, high bool) {
	prev := c.irqs
	if high {
		c.irqs |= src
	} else {
		c.irqs &^= src
	}
	if prev != c.irqs {
		log.ModCPU.DebugZ("irq line").Stringer("sources", c.irqs).End()
	}
	c.CPU.SetIRQLine(c.irqs != 0)
}

// OpenBus implements mappers.Bus.
func (c *Console) OpenBus() uint8 {
	return c.openbus
}

func (c *Console) Read8(addr uint16) uint8 {
	var val uint8
	switch {
	case addr < 0x2000:
		val = c.ram[addr&0x07FF]
	case addr < 0x4000:
		val = c.PPU.ReadRegister(uint8(addr & 0x07))
	case addr == 0x4015:
		// Bit 5 is not driven.
		val = c.APU.ReadStatus() | c.openbus&0x20
	case addr == 0x4016:
		val = c.openbus&0xE0 | c.Input.Read(0)
	case addr == 0x4017:
		val = c.openbus&0xE0 | c.Input.Read(1)
	case addr < 0x4020:
		log.ModMem.DebugZ("open bus read").Hex16("addr", addr).End()
		val = c.openbus
	default:
		val = c.Mapper.CPURead(addr)
	}
	c.openbus = val
	return val
}

func (c *Console) Write8(addr uint16, val uint8) {
	c.openbus = val
	switch {
	case addr < 0x2000:
		c.ram[addr&0x07FF] = val
	case addr < 0x4000:
		c.PPU.WriteRegister(uint8(addr&0x07), val)
	case addr == 0x4014:
		c.startDMA(val)
	case addr == 0x4015:
		c.APU.WriteControl(val)
	case addr == 0x4016:
		c.Input.WriteStrobe(val)
	case addr == 0x4017:
		c.APU.WriteFrameCounter(val)
	case addr < 0x4014:
		c.APU.WriteRegister(uint8(addr-0x4000), val)
	case addr < 0x4020:
		// CPU test mode registers, disabled on retail consoles.
		log.ModMem.DebugZ("ignored write").Hex16("addr", addr).Hex8("val", val).End()
	default:
		c.Mapper.CPUWrite(addr, val)
	}
}

// Peek8 reads addr without side effects.
func (c *Console) Peek8(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return c.ram[addr&0x07FF]
	case addr < 0x4000:
		return c.PPU.PeekRegister(uint8(addr & 0x07))
	case addr == 0x4015:
		return c.APU.PeekStatus() | c.openbus&0x20
	case addr == 0x4016:
		return c.openbus&0xE0 | c.Input.Peek(0)
	case addr == 0x4017:
		return c.openbus&0xE0 | c.Input.Peek(1)
	case addr < 0x4020:
		return c.openbus
	}
	return c.Mapper.PeekCPU(addr)
}
