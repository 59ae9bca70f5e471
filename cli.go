package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"p8sfx/emu/log"
)

type mode byte

const (
	renderMode   mode = iota // Render SFX to WAV
	playMode                 // Play SFX on the audio device
	sfxInfosMode             // Show SFX infos
	compareMode              // Compare WAV files
	stateMode                // Dump chip state
	versionMode              // Show p8sfx version
)

type (
	CLI struct {
		Render   Render   `cmd:"" help:"Render SFX of a cartridge to WAV files."`
		Play     Play     `cmd:"" help:"Play a SFX of a cartridge."`
		SFXInfos SFXInfos `cmd:"" help:"Show SFX infos." name:"sfx-infos"`
		Compare  Compare  `cmd:"" help:"Compare the amplitude of WAV files."`
		State    State    `cmd:"" help:"Dump the chip state as JSON after playing a SFX for a number of samples."`
		Version  Version  `cmd:"" help:"Show p8sfx version."`

		Log    logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		Config string     `help:"${config_help}" type:"path"`

		mode mode
	}

	Render struct {
		CartPath string `arg:"" name:"/path/to/cart.p8" help:"${cartpath_help}" type:"existingfile"`

		SFX     int     `name:"sfx" help:"SFX index to render." default:"0"`
		Out     string  `name:"out" help:"Output WAV file (default: sfx_N.wav in the capture directory)." type:"path"`
		All     bool    `name:"all" help:"Render all non-empty SFX to sfx_N.wav files."`
		Seconds float64 `name:"seconds" help:"Maximum duration of a rendered SFX." default:"10"`
	}

	Play struct {
		CartPath string `arg:"" name:"/path/to/cart.p8" help:"${cartpath_help}" type:"existingfile"`

		SFX     int    `name:"sfx" help:"SFX index to play." default:"0"`
		Backend string `name:"backend" help:"Audio backend (${backends}), overrides the configuration."`
	}

	SFXInfos struct {
		CartPath string `arg:"" name:"/path/to/cart.p8" help:"${cartpath_help}" type:"existingfile"`

		Notes bool `name:"notes" help:"Also list the notes of each SFX."`
	}

	Compare struct {
		Ref string `arg:"" name:"ref.wav" help:"${compare_help}"`
		Out string `arg:"" name:"out.wav" help:"${compare_help}"`

		Frames bool `name:"frames" help:"Print per-frame amplitude differences."`
	}

	State struct {
		CartPath string `arg:"" name:"/path/to/cart.p8" help:"${cartpath_help}" type:"existingfile"`

		SFX   int    `name:"sfx" help:"SFX index to play." default:"0"`
		Ticks int    `name:"ticks" help:"Number of samples to run before the dump." default:"0"`
		Out   string `name:"out" help:"Write the state to file instead of stdout." type:"path"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"cartpath_help": "PICO-8 text cartridge.",
	"compare_help":  "WAV file, or a pattern such as sfx_%d.wav comparing SFX 0 to 63.",
	"log_help":      "Enable logging for specified modules.",
	"config_help":   "Configuration file (default: config.toml in the user config directory).",
	"backends":      "sdl,oto,none",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("p8sfx"),
		kong.Description("PICO-8 SFX sound chip emulator."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "render </path/to/cart.p8>":
		cfg.mode = renderMode
	case "play </path/to/cart.p8>":
		cfg.mode = playMode
	case "sfx-infos </path/to/cart.p8>":
		cfg.mode = sfxInfosMode
	case "compare <ref.wav> <out.wav>":
		cfg.mode = compareMode
	case "state </path/to/cart.p8>":
		cfg.mode = stateMode
	case "version":
		cfg.mode = versionMode
	default:
		fatalf("unexpected command %q", ctx.Command())
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
	var strs []string
	for _, m := range log.ModuleNames() {
		strs = append(strs, "    - "+m)
	}

	fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	list := tok.Value.(string)

	names := strings.Split(list, ",")
	hasAll, hasNo := false, false
	for _, v := range names {
		hasAll = hasAll || v == "all"
		hasNo = hasNo || v == "no"
	}
	if hasNo {
		if hasAll {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if len(names) > 1 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.DisableDebugModules(log.ModuleMaskAll)
		return nil
	}

	mask, err := log.ParseModules(list)
	if err != nil {
		return err
	}
	log.EnableDebugModules(mask)
	return nil
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n\t"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
