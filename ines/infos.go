package ines

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// PrintInfos writes a human readable description of the rom header.
func (rom *Rom) PrintInfos(w io.Writer) error {
	format := "iNES"
	if rom.IsNES2() {
		format = "NES 2.0"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "format:\t%s\n", format)
	if rom.IsNES2() {
		fmt.Fprintf(tw, "mapper:\t%d.%d\n", rom.Mapper(), rom.Submapper())
	} else {
		fmt.Fprintf(tw, "mapper:\t%d\n", rom.Mapper())
	}
	fmt.Fprintf(tw, "PRG ROM:\t%s\n", kb(len(rom.PRG)))
	if len(rom.CHR) != 0 {
		fmt.Fprintf(tw, "CHR ROM:\t%s\n", kb(len(rom.CHR)))
	}
	if n := rom.CHRRAMSize(); n != 0 {
		fmt.Fprintf(tw, "CHR RAM:\t%s\n", kb(n))
	}
	if n := rom.PRGRAMSize(); n != 0 {
		fmt.Fprintf(tw, "PRG RAM:\t%s\n", kb(n))
	}
	if n := rom.PRGNVRAMSize(); n != 0 {
		fmt.Fprintf(tw, "PRG NVRAM:\t%s\n", kb(n))
	}
	fmt.Fprintf(tw, "mirroring:\t%s\n", rom.Mirroring())
	fmt.Fprintf(tw, "battery:\t%t\n", rom.HasPersistent())
	fmt.Fprintf(tw, "trainer:\t%t\n", rom.HasTrainer())
	if len(rom.Misc) != 0 {
		fmt.Fprintf(tw, "misc ROM:\t%d bytes\n", len(rom.Misc))
	}
	return tw.Flush()
}

func kb(n int) string {
	if n%1024 != 0 {
		return fmt.Sprintf("%d bytes", n)
	}
	return fmt.Sprintf("%dKB", n/1024)
}
