package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"p8sfx/emu"
)

func main() {
	args := parseArgs(os.Args[1:])

	switch args.mode {
	case renderMode:
		renderMain(args.Render, loadConfig(args.Config))
	case playMode:
		playMain(args.Play, loadConfig(args.Config))
	case sfxInfosMode:
		sfxInfosMain(args.SFXInfos)
	case compareMode:
		compareMain(args.Compare)
	case stateMode:
		stateMain(args.State, loadConfig(args.Config))
	case versionMode:
		printVersion()
	}
}

func loadConfig(path string) emu.Config {
	if path == "" {
		path = emu.ConfigPath()
	}
	cfg, err := emu.LoadConfig(path)
	checkf(err, "failed to load configuration")
	return cfg
}

func printVersion() {
	version, revision := "local", "no revision information"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
		modified := false
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				revision = s.Value
			case "vcs.modified":
				modified = s.Value == "true"
			}
		}
		if modified {
			revision += "+dirty"
		}
	}
	fmt.Printf("p8sfx %s (%s)\n", version, revision)
}
