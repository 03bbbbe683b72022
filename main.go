package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"cyclenes/emu"
	"cyclenes/emu/log"
	"cyclenes/ines"
)

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case versionMode:
		printVersion()
		return
	case romInfosMode:
		rom, err := ines.Open(cli.RomInfos.RomPath)
		checkf(err, "failed to open rom")
		checkf(rom.PrintInfos(os.Stdout), "failed to print rom infos")
		return
	case debugPPUMode:
		checkf(debugPPUMain(cli.DebugPPU), "failed to render ppu dump")
		return
	}

	cfg := loadConfig(cli.Config)
	if !cli.Log.set && cfg.General.LogModules != "" {
		_, err := applyLogModules(cfg.General.LogModules)
		checkf(err, "invalid log modules in configuration")
	}

	switch cli.mode {
	case debugMode:
		debugMain(cli.Debug)
	case runMode:
		runMain(cli.Run, cfg)
	}
}

func loadConfig(path string) emu.Config {
	if path == "" {
		return emu.LoadConfigOrDefault()
	}
	cfg, err := emu.LoadConfig(path)
	checkf(err, "failed to load configuration")
	return cfg
}

func printVersion() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		fmt.Println("cyclenes (unknown version)")
		return
	}
	fmt.Printf("cyclenes %s %s\n", bi.Main.Version, bi.GoVersion)
	log.ModEmu.DebugZ("build info").String("path", bi.Path).End()
}
