// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config loads the machine configuration from a Starlark script.
//
// The script assigns any of these globals; unassigned ones keep their
// defaults:
//
//	word_width     = 16         # 8, 16, 32, 64 or 128
//	gp_registers   = 4          # 1 to 26
//	memory_size    = 2 * KB     # cells
//	display_width  = 256        # 1 to 256
//	display_height = 256        # 1 to 256
//	autostep_lines = 20         # cycles per auto-step tick
//	program_dir    = "azzembly"
//	extension      = "azm"
//
// KB and the DEFAULT_* constants are predeclared.
package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/rize/word"
)

const (
	DEFAULT_WORD_BITS      = 16
	DEFAULT_GP_REGISTERS   = 4
	DEFAULT_MEMORY_SIZE    = 2048
	DEFAULT_DISPLAY_WIDTH  = 256
	DEFAULT_DISPLAY_HEIGHT = 256
	DEFAULT_AUTOSTEP_LINES = 20
	DEFAULT_PROGRAM_DIR    = "azzembly"
	DEFAULT_EXTENSION      = "azm"

	DISPLAY_MAX = 256 // Pixel coordinates are bytes.
)

// Config is the machine and tooling configuration.
type Config struct {
	WordWidth     word.Width // Register and memory cell width.
	GpRegisters   int        // General purpose register count.
	MemorySize    uint64     // Memory capacity, in cells.
	DisplayWidth  int        // Pixel store width.
	DisplayHeight int        // Pixel store height.
	AutoStepLines int        // Cycles run per auto-step tick.
	ProgramDir    string     // Directory scanned for programs.
	Extension     string     // Program file extension, without the dot.
}

// Default returns the stock Rize-1 configuration.
func Default() Config {
	return Config{
		WordWidth:     word.WIDTH_16,
		GpRegisters:   DEFAULT_GP_REGISTERS,
		MemorySize:    DEFAULT_MEMORY_SIZE,
		DisplayWidth:  DEFAULT_DISPLAY_WIDTH,
		DisplayHeight: DEFAULT_DISPLAY_HEIGHT,
		AutoStepLines: DEFAULT_AUTOSTEP_LINES,
		ProgramDir:    DEFAULT_PROGRAM_DIR,
		Extension:     DEFAULT_EXTENSION,
	}
}

// Validate checks every setting is usable.
func (cfg Config) Validate() (err error) {
	checks := []struct {
		key string
		ok  bool
	}{
		{"word_width", cfg.WordWidth.Valid() && cfg.WordWidth != word.WIDTH_FLAG},
		{"gp_registers", cfg.GpRegisters >= 1 && cfg.GpRegisters <= 26},
		{"memory_size", cfg.MemorySize > 0},
		{"display_width", cfg.DisplayWidth >= 1 && cfg.DisplayWidth <= DISPLAY_MAX},
		{"display_height", cfg.DisplayHeight >= 1 && cfg.DisplayHeight <= DISPLAY_MAX},
		{"autostep_lines", cfg.AutoStepLines >= 1},
		{"extension", len(cfg.Extension) != 0},
	}

	for _, check := range checks {
		if !check.ok {
			err = ErrConfig{Key: check.key, Err: ErrConfigRange}
			return
		}
	}

	return
}

func predeclared() starlark.StringDict {
	return starlark.StringDict{
		"KB":                     starlark.MakeInt(1024),
		"DEFAULT_WORD_WIDTH":     starlark.MakeInt(DEFAULT_WORD_BITS),
		"DEFAULT_GP_REGISTERS":   starlark.MakeInt(DEFAULT_GP_REGISTERS),
		"DEFAULT_MEMORY_SIZE":    starlark.MakeInt(DEFAULT_MEMORY_SIZE),
		"DEFAULT_DISPLAY_WIDTH":  starlark.MakeInt(DEFAULT_DISPLAY_WIDTH),
		"DEFAULT_DISPLAY_HEIGHT": starlark.MakeInt(DEFAULT_DISPLAY_HEIGHT),
		"DEFAULT_AUTOSTEP_LINES": starlark.MakeInt(DEFAULT_AUTOSTEP_LINES),
	}
}

func getInt(globals starlark.StringDict, key string, value *int64) (err error) {
	st_value, ok := globals[key]
	if !ok {
		return
	}

	st_int, ok := st_value.(starlark.Int)
	if !ok {
		err = ErrConfig{Key: key, Err: ErrConfigType}
		return
	}

	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrConfig{Key: key, Err: ErrConfigRange}
		return
	}

	*value = st_int64
	return
}

func getString(globals starlark.StringDict, key string, value *string) (err error) {
	st_value, ok := globals[key]
	if !ok {
		return
	}

	st_string, ok := st_value.(starlark.String)
	if !ok {
		err = ErrConfig{Key: key, Err: ErrConfigType}
		return
	}

	*value = st_string.GoString()
	return
}

// Load executes a Starlark configuration script. src may be a string,
// []byte or io.Reader, as for starlark.ExecFileOptions, or nil to read
// filename.
func Load(filename string, src any) (cfg Config, err error) {
	cfg = Default()

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			log.WithField("config", filename).Info(msg)
		},
	}

	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, filename, src, predeclared())
	if err != nil {
		return
	}

	bits := int64(DEFAULT_WORD_BITS)
	gp := int64(cfg.GpRegisters)
	memory := int64(cfg.MemorySize)
	width := int64(cfg.DisplayWidth)
	height := int64(cfg.DisplayHeight)
	lines := int64(cfg.AutoStepLines)

	for _, err = range []error{
		getInt(globals, "word_width", &bits),
		getInt(globals, "gp_registers", &gp),
		getInt(globals, "memory_size", &memory),
		getInt(globals, "display_width", &width),
		getInt(globals, "display_height", &height),
		getInt(globals, "autostep_lines", &lines),
		getString(globals, "program_dir", &cfg.ProgramDir),
		getString(globals, "extension", &cfg.Extension),
	} {
		if err != nil {
			return
		}
	}

	cfg.WordWidth, err = word.ParseWidth(int(bits))
	if err != nil {
		err = ErrConfig{Key: "word_width", Err: err}
		return
	}

	if memory < 0 {
		err = ErrConfig{Key: "memory_size", Err: ErrConfigRange}
		return
	}

	cfg.GpRegisters = int(gp)
	cfg.MemorySize = uint64(memory)
	cfg.DisplayWidth = int(width)
	cfg.DisplayHeight = int(height)
	cfg.AutoStepLines = int(lines)

	err = cfg.Validate()
	return
}

// LoadFile loads a configuration script from disk.
// A missing file is reported with an error wrapping fs.ErrNotExist.
func LoadFile(path string) (cfg Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg = Default()
		return
	}

	return Load(path, data)
}

// String renders the configuration as a loadable script.
func (cfg Config) String() string {
	return fmt.Sprintf("word_width = %d\ngp_registers = %d\nmemory_size = %d\ndisplay_width = %d\ndisplay_height = %d\nautostep_lines = %d\nprogram_dir = %q\nextension = %q\n",
		cfg.WordWidth.Bits(), cfg.GpRegisters, cfg.MemorySize, cfg.DisplayWidth, cfg.DisplayHeight, cfg.AutoStepLines, cfg.ProgramDir, cfg.Extension)
}
