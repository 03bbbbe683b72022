// Package emu runs the console: the emulation loop, the window presenting
// frames, user input, configuration and execution traces.
package emu

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/sync/errgroup"

	"cyclenes/emu/log"
	"cyclenes/hw"
	"cyclenes/hw/hwdefs"
	"cyclenes/hw/input"
	"cyclenes/ines"
)

var frameDuration = time.Duration(float64(time.Second) / hwdefs.FrameRate)

// errQuit stops the emulator loops when the user closes the window.
var errQuit = errors.New("quit")

type Emulator struct {
	Console *hw.Console
	cfg     Config

	frames frameHandoff
	pads   padHandoff

	reset   atomic.Bool
	restart atomic.Bool
}

// New powers up a console with rom inserted.
func New(rom *ines.Rom, cfg Config) (*Emulator, error) {
	cfg.Check()
	c, err := hw.NewConsole(rom)
	if err != nil {
		return nil, fmt.Errorf("power up failed: %w", err)
	}
	e := &Emulator{Console: c, cfg: cfg}
	e.frames.pix = make([]byte, hw.ScreenWidth*hw.ScreenHeight*4)
	return e, nil
}

// Reset requests a soft reset, Restart a hard reset. Both are performed
// between frames.
func (e *Emulator) Reset()   { e.reset.Store(true) }
func (e *Emulator) Restart() { e.restart.Store(true) }

func (e *Emulator) handleReset() {
	if e.reset.CompareAndSwap(true, false) {
		e.Console.Reset(hwdefs.SoftReset)
	} else if e.restart.CompareAndSwap(true, false) {
		e.Console.Reset(hwdefs.HardReset)
	}
}

func (e *Emulator) addLogContexts() func() {
	log.AddContext(e.Console.CPU)
	log.AddContext(e.Console.PPU)
	return func() {
		log.RemoveContext(e.Console.CPU)
		log.RemoveContext(e.Console.PPU)
	}
}

// RunHeadless runs nframes frames as fast as possible, without window nor
// input. nframes <= 0 means no limit: RunHeadless then only returns on
// context cancellation or emulation error.
func (e *Emulator) RunHeadless(ctx context.Context, nframes int) error {
	defer e.addLogContexts()()

	start, startCycles := time.Now(), e.Console.Cycles
	for i := 0; nframes <= 0 || i < nframes; i++ {
		if err := ctx.Err(); err != nil {
			return nil
		}
		e.handleReset()
		if err := e.Console.RunFrame(); err != nil {
			return fmt.Errorf("emulation stopped: %w", err)
		}
	}
	elapsed := time.Since(start)
	log.ModEmu.InfoZ("headless run done").
		Int("frames", nframes).
		Duration("elapsed", elapsed).
		Int("speed%", int(float64(e.Console.Cycles-startCycles)/elapsed.Seconds()*100/hwdefs.CPUClock)).
		End()
	return nil
}

// Run shows the emulator window and runs the emulation until the window is
// closed, the context is cancelled, or the CPU halts. The emulation loop
// runs in its own goroutine, the window is driven from the main thread: Run
// must be called from sdl.Main.
func (e *Emulator) Run(ctx context.Context) error {
	defer e.addLogContexts()()

	var (
		scr  *screen
		joys *input.Joypads
		err  error
	)
	sdl.Do(func() {
		scr, err = newScreen("cyclenes", e.cfg.Video.Scale, !e.cfg.Video.DisableVSync)
		if err == nil {
			joys = input.OpenJoypads()
		}
	})
	if err != nil {
		return err
	}
	defer sdl.Do(func() {
		joys.Close()
		scr.close()
	})

	prov := input.NewProvider(e.cfg.Input, joys)
	e.Console.Input.SetDevice(&e.pads)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.emulate(ctx) })
	g.Go(func() error { return e.present(ctx, scr, joys, prov) })

	log.ModEmu.InfoZ("emulation started").End()
	err = g.Wait()
	log.ModEmu.InfoZ("emulation loop exited").End()
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// emulate runs one frame every 60th of a second.
func (e *Emulator) emulate(ctx context.Context) error {
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		e.handleReset()
		if err := e.Console.RunFrame(); err != nil {
			return fmt.Errorf("emulation stopped: %w", err)
		}
		e.frames.put(e.Console.PPU.Frame())
	}
}

// present polls window events, samples the pads and shows the last frame.
func (e *Emulator) present(ctx context.Context, scr *screen, joys *input.Joypads, prov *input.Provider) error {
	pix := make([]byte, hw.ScreenWidth*hw.ScreenHeight*4)
	var seq uint64

	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		var quit bool
		sdl.Do(func() {
			quit = e.pollEvents(joys)
			if !quit {
				e.pads.store(prov.LoadState())
			}
		})
		if quit {
			return errQuit
		}

		if next, ok := e.frames.get(pix, seq); ok {
			seq = next
			sdl.Do(func() { scr.present(pix) })
		}
	}
}

// pollEvents handles pending window events and reports whether the user
// asked to quit.
func (e *Emulator) pollEvents(joys *input.Joypads) bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if ev.State != sdl.PRESSED || ev.Repeat != 0 {
				continue
			}
			switch ev.Keysym.Scancode {
			case sdl.SCANCODE_ESCAPE:
				return true
			case sdl.SCANCODE_F1:
				e.Reset()
			case sdl.SCANCODE_F2:
				e.Restart()
			}
		case *sdl.ControllerDeviceEvent:
			joys.HandleEvent(ev)
		}
	}
	return false
}

// Screenshot saves the last completed frame as a PNG file.
func (e *Emulator) Screenshot(path string) error {
	return SaveFrame(e.Console.PPU.Frame(), path)
}

// SaveFrame writes f as a PNG file.
func SaveFrame(f *hw.Frame, path string) error {
	fd, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(fd, FrameImage(f)); err != nil {
		fd.Close()
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return fd.Close()
}

// frameHandoff passes completed frames from the emulation goroutine to the
// presenter. Only the last frame is kept.
type frameHandoff struct {
	mu  sync.Mutex
	pix []byte
	seq uint64
}

func (fh *frameHandoff) put(f *hw.Frame) {
	fh.mu.Lock()
	FrameToRGBA(f, fh.pix)
	fh.seq++
	fh.mu.Unlock()
}

// get copies the last frame into dst if it's newer than seq, and returns its
// sequence number.
func (fh *frameHandoff) get(dst []byte, seq uint64) (uint64, bool) {
	fh.mu.Lock()
	defer fh.mu.Unlock()
	if fh.seq == seq {
		return seq, false
	}
	copy(dst, fh.pix)
	return fh.seq, true
}

// padHandoff holds the pads state sampled by the presenter. It implements
// hw.InputDevice for the emulation goroutine.
type padHandoff struct {
	mu    sync.Mutex
	state [2]uint8
}

func (ph *padHandoff) store(pad1, pad2 uint8) {
	ph.mu.Lock()
	ph.state = [2]uint8{pad1, pad2}
	ph.mu.Unlock()
}

func (ph *padHandoff) LoadState() (uint8, uint8) {
	ph.mu.Lock()
	defer ph.mu.Unlock()
	return ph.state[0], ph.state[1]
}
