package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/veandco/go-sdl2/sdl"

	"cyclenes/emu"
	"cyclenes/emu/debugger"
	"cyclenes/emu/log"
	"cyclenes/hw"
	"cyclenes/ines"
)

func runMain(args Run, cfg emu.Config) {
	checkf(emuMain(args, cfg), "emulation failed")
}

// emuMain runs the emulator with the given rom, in a window or headless.
func emuMain(args Run, cfg emu.Config) (err error) {
	rom, err := ines.Open(args.RomPath)
	if err != nil {
		return fmt.Errorf("error reading ROM: %w", err)
	}
	log.ModEmu.InfoZ("rom loaded").
		String("path", args.RomPath).
		Uint16("mapper", rom.Mapper()).
		Stringer("mirroring", rom.Mirroring()).
		End()

	if args.Scale != 0 {
		cfg.Video.Scale = args.Scale
	}
	e, err := emu.New(rom, cfg)
	if err != nil {
		return err
	}

	if args.Trace != nil {
		tracer := emu.NewTracer(args.Trace, e.Console)
		defer func() {
			if cerr := tracer.Close(); err == nil {
				err = cerr
			}
			args.Trace.Close()
		}()
	}

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		if err != nil {
			return fmt.Errorf("failed to create cpu profile file: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("failed to start cpu profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Println("CPU profile written to", args.CPUProfile)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if args.Headless {
		err = e.RunHeadless(ctx, args.Frames)
		if args.Screenshot != "" {
			if serr := e.Screenshot(args.Screenshot); err == nil {
				err = serr
			}
		}
		return err
	}

	sdl.Main(func() {
		err = e.Run(ctx)
	})
	return err
}

// debugMain runs the CPU debugger on stdin/stdout.
func debugMain(args Debug) {
	rom, err := ines.Open(args.RomPath)
	checkf(err, "failed to open rom")

	c, err := hw.NewConsole(rom)
	checkf(err, "failed to power up console")

	fmt.Println("cyclenes debugger, type q to quit")
	checkf(debugger.New(c, os.Stdout).Run(os.Stdin), "debugger error")
}

// debugPPUMain renders the picture held in a PPU memory dump and an OAM dump.
func debugPPUMain(args DebugPPU) error {
	buf, err := os.ReadFile(args.VRAMPath)
	if err != nil {
		return err
	}
	mem, err := hw.LoadMemDump(buf)
	if err != nil {
		return err
	}
	oam, err := os.ReadFile(args.OAMPath)
	if err != nil {
		return err
	}
	frame, err := hw.RenderDump(mem, oam)
	if err != nil {
		return err
	}
	if err := emu.SaveFrame(frame, args.Out); err != nil {
		return err
	}
	log.ModPPU.InfoZ("frame saved").String("path", args.Out).End()
	return nil
}
