package emu

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/BurntSushi/toml"

	"p8sfx/emu/log"
	"p8sfx/hw/hwdefs"
)

type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Audio   AudioConfig   `toml:"audio"`
	Capture CaptureConfig `toml:"capture"`
}

type EngineConfig struct {
	Attack     uint16 `toml:"attack"`  // NOTE_ATK, in samples
	Release    uint16 `toml:"release"` // NOTE_REL, in samples
	SFXBase    uint32 `toml:"sfx_base"`
	MemLatency int    `toml:"mem_latency"` // bus cycles
	RunOnStart bool   `toml:"run_on_start"`
}

type AudioConfig struct {
	Backend    string `toml:"backend"` // sdl, oto or none
	SampleRate int    `toml:"sample_rate"`
	BufferSize int    `toml:"buffer_size"` // device buffer, in samples
}

type CaptureConfig struct {
	Dir string `toml:"dir"`
}

const (
	BackendSDL  = "sdl"
	BackendOto  = "oto"
	BackendNone = "none"
)

var backends = []string{BackendSDL, BackendOto, BackendNone}

const DefaultFileMode = os.FileMode(0755)

var ConfigDir = sync.OnceValue(func() string {
	cfgdir, err := os.UserConfigDir()
	if err != nil {
		log.ModEmu.Fatalf("failed to get user config directory: %v", err)
	}

	dir := filepath.Join(cfgdir, "p8sfx")
	if err := os.MkdirAll(dir, DefaultFileMode); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

var defaultConfig = Config{
	Engine: EngineConfig{
		Attack:     0,
		Release:    20,
		SFXBase:    hwdefs.DefaultSFXBase,
		MemLatency: 0,
		RunOnStart: true,
	},
	Audio: AudioConfig{
		Backend:    BackendSDL,
		SampleRate: 44100,
		BufferSize: 1024,
	},
	Capture: CaptureConfig{
		Dir: ".",
	},
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() Config { return defaultConfig }

// Check verifies the configuration values.
func (cfg *Config) Check() error {
	if end := uint64(cfg.Engine.SFXBase) + hwdefs.NumSlots*hwdefs.SlotSize; end > hwdefs.MemSize {
		return fmt.Errorf("engine.sfx_base: slot table at 0x%x doesn't fit in memory", cfg.Engine.SFXBase)
	}
	if cfg.Engine.MemLatency < 0 {
		return fmt.Errorf("engine.mem_latency: negative latency %d", cfg.Engine.MemLatency)
	}
	if !slices.Contains(backends, cfg.Audio.Backend) {
		return fmt.Errorf("audio.backend: unknown backend %q (valid: %v)", cfg.Audio.Backend, backends)
	}
	if cfg.Audio.SampleRate < 8000 || cfg.Audio.SampleRate > 192000 {
		return fmt.Errorf("audio.sample_rate: out of range %d", cfg.Audio.SampleRate)
	}
	if cfg.Audio.BufferSize <= 0 {
		return fmt.Errorf("audio.buffer_size: must be positive")
	}
	return nil
}

const cfgFilename = "config.toml"

// ConfigPath returns the path of the configuration file in the p8sfx config
// directory.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), cfgFilename)
}

// LoadConfig loads the configuration at path. Values missing from the file
// keep their default. A missing file is not an error, the default
// configuration is returned.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		log.ModEmu.DebugZ("no config file, using defaults").String("path", path).End()
		return defaultConfig, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	for _, key := range md.Undecoded() {
		log.ModEmu.WarnZ("unknown config key").String("key", key.String()).End()
	}
	if err := cfg.Check(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the configuration from the p8sfx config directory,
// or provide a default one.
func LoadConfigOrDefault() Config {
	cfg, err := LoadConfig(ConfigPath())
	if err != nil {
		log.ModEmu.Warnf("%v, using defaults", err)
		return defaultConfig
	}
	return cfg
}

// SaveConfig writes cfg at path.
func SaveConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}
