package hw

import (
	"cyclenes/emu/log"
)

// oamDMA copies a 256-byte page of CPU memory to OAM through OAMDATA, while
// the CPU is stalled. The transfer takes 513 cycles: a halt cycle then 256
// read/write pairs. One more alignment cycle is needed when the transfer
// starts on an odd cycle.
type oamDMA struct {
	active bool
	page   uint8
	idle   int   // halt and alignment cycles left
	count  int   // transfer cycles done
	data   uint8 // byte being transferred
}

// startDMA handles writes to $4014. The transfer starts on the next cycle.
func (c *Console) startDMA(page uint8) {
	c.dma = oamDMA{active: true, page: page, idle: 1}
	if c.Cycles&1 == 1 {
		c.dma.idle++
	}
	log.ModPPU.DebugZ("OAM DMA").
		Hex8("page", page).
		Int64("cycle", c.Cycles).
		End()
}

func (c *Console) dmaCycle() {
	dma := &c.dma
	if dma.idle > 0 {
		dma.idle--
		return
	}

	if dma.count&1 == 0 {
		addr := uint16(dma.page)<<8 | uint16(dma.count>>1)
		dma.data = c.Read8(addr)
	} else {
		c.PPU.WriteRegister(OAMDATA, dma.data)
	}
	dma.count++
	if dma.count == 512 {
		dma.active = false
	}
}
