package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"cyclenes/emu"
	"cyclenes/emu/log"
)

type mode byte

const (
	runMode      mode = iota // Run a ROM
	debugMode                // Run a ROM in the debugger
	romInfosMode             // Show ROM infos
	debugPPUMode             // Render PPU memory dumps
	versionMode              // Show version
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run ROM in emulator. (default command)" default:"withargs"`
		Debug    Debug    `cmd:"" help:"Run ROM in the interactive CPU debugger."`
		RomInfos RomInfos `cmd:"" help:"Show ROM infos." name:"rom-infos"`
		DebugPPU DebugPPU `cmd:"" help:"Render a frame from PPU memory and OAM dumps." name:"debug-ppu"`
		Version  Version  `cmd:"" help:"Show cyclenes version."`

		Log    logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		Config string     `help:"${config_help}" type:"path" placeholder:"FILE"`

		mode mode
	}

	Run struct {
		RomPath string `arg:"" name:"/path/to/rom" help:"Path to the ROM to run." type:"existingfile"`

		Scale      int      `name:"scale" help:"Window scale factor, overrides configuration."`
		Trace      *outfile `name:"trace" help:"Write CPU trace log (JSON lines)." placeholder:"FILE|stdout|stderr"`
		Headless   bool     `name:"headless" help:"Run without window, as fast as possible."`
		Frames     int      `name:"frames" help:"${frames_help}" default:"0"`
		Screenshot string   `name:"screenshot" help:"${screenshot_help}" type:"path"`
		CPUProfile string   `name:"cpuprofile" help:"${cpuprofile_help}" type:"path"`
	}

	Debug struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}

	DebugPPU struct {
		VRAMPath string `arg:"" name:"/path/to/vram" help:"Dump of PPU memory, $0000-$3FFF." type:"existingfile"`
		OAMPath  string `arg:"" name:"/path/to/oam" help:"Dump of the 256 bytes of OAM." type:"existingfile"`

		Out string `name:"out" short:"o" help:"PNG file to write." type:"path" default:"ppu.png"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"log_help":        "Enable logging for specified modules.",
	"config_help":     "Configuration file to use instead of the default one.",
	"frames_help":     "Stop after N frames (headless only, 0 means no limit).",
	"screenshot_help": "Save the last frame as PNG when the emulation stops (headless only).",
	"cpuprofile_help": "Write CPU profile to file.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("cyclenes"),
		kong.Description("Cycle-accurate NES emulator."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")

	switch ctx.Command() {
	case "debug </path/to/rom>":
		cfg.mode = debugMode
	case "rom-infos </path/to/rom>":
		cfg.mode = romInfosMode
	case "debug-ppu </path/to/vram> </path/to/oam>":
		cfg.mode = debugPPUMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}

	w := ctx.Stdout
	fmt.Fprintln(w, "\nLog modules:")
	fmt.Fprintln(w, "  --log accepts a comma-separated list among:")
	fmt.Fprintf(w, "    %s\n", strings.Join(log.ModuleNames(), ", "))
	fmt.Fprintln(w, "  or 'all' to enable all debug logs, 'no' to disable logging.")

	if dir, err := emu.ConfigDir(); err == nil {
		fmt.Fprintln(w, "\nConfiguration:")
		fmt.Fprintf(w, "  %s\n", filepath.Join(dir, "config.toml"))
	}
	return nil
}

type logModMask struct {
	mask log.ModuleMask
	set  bool
}

// Decode decodes a comma-separated list of module names into a module mask,
// and applies it.
//
// Implements kong.MapperValue interface.
func (lm *logModMask) Decode(ctx *kong.DecodeContext) error {
	var list string
	if err := ctx.Scan.PopValueInto("log", &list); err != nil {
		return err
	}
	mask, err := applyLogModules(list)
	if err != nil {
		return err
	}
	lm.mask, lm.set = mask, true
	return nil
}

// applyLogModules enables debug logs for the modules in list. "no" disables
// all logging.
func applyLogModules(list string) (log.ModuleMask, error) {
	mask, err := log.ParseModules(list)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(list) == "no" {
		log.Disable()
		return 0, nil
	}
	log.EnableDebugModules(mask)
	return mask, nil
}

type outfile struct {
	w     *os.File
	name  string
	close func() error
}

// Decode opens FILE for writing, "stdout" and "stderr" (or "-" for stdout)
// are the standard streams.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	if err := ctx.Scan.PopValueInto("file", &f.name); err != nil {
		return err
	}
	f.close = func() error { return nil }

	switch f.name {
	case "stdout", "-":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
