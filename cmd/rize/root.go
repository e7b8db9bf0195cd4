// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ezrec/rize/config"
	"github.com/ezrec/rize/cpu"
	"github.com/ezrec/rize/emulator"
	"github.com/ezrec/rize/loader"
	"github.com/ezrec/rize/translate"
)

var f = translate.From

var rootCmd = &cobra.Command{
	Use:          "rize",
	Short:        f("Rize-1 virtual CPU emulator."),
	Long:         f("Runs, steps and views Rize-1 assembly programs."),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		if lang := GetString(cmd, "lang"); len(lang) != 0 {
			translate.SetLanguage(lang)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "rize.star", "starlark configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().String("dir", "", "program directory, overriding program_dir")
	rootCmd.PersistentFlags().String("lang", "", "message language, as a BCP 47 tag")
}

// GetFlag gets an expected boolean flag, or exits.
func GetFlag(cmd *cobra.Command, flag string) bool {
	value, err := cmd.Flags().GetBool(flag)
	if err != nil {
		log.Fatal(err)
	}
	return value
}

// GetString gets an expected string flag, or exits.
func GetString(cmd *cobra.Command, flag string) string {
	value, err := cmd.Flags().GetString(flag)
	if err != nil {
		log.Fatal(err)
	}
	return value
}

// GetInt gets an expected int flag, or exits.
func GetInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	if err != nil {
		log.Fatal(err)
	}
	return value
}

// session is the configuration, program library and emulator shared by
// the subcommands.
type session struct {
	Verbose bool
	Config  config.Config
	Dir     string
	Library *loader.Library
	Emu     *emulator.Emulator
}

func newSession(cmd *cobra.Command) (sess *session, err error) {
	verbose := GetFlag(cmd, "verbose")

	path := GetString(cmd, "config")
	cfg, err := config.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WithField("config", path).Debug("no configuration file, using defaults")
		err = nil
	}
	if err != nil {
		return
	}

	dir := cfg.ProgramDir
	if override := GetString(cmd, "dir"); len(override) != 0 {
		dir = override
	}

	lib := loader.New(cfg.Extension)
	lib.Verbose = verbose

	emu, err := emulator.NewEmulator(cfg)
	if err != nil {
		return
	}
	emu.Verbose = verbose

	sess = &session{
		Verbose: verbose,
		Config:  cfg,
		Dir:     dir,
		Library: lib,
		Emu:     emu,
	}

	_, err = sess.Scan()
	if errors.Is(err, fs.ErrNotExist) {
		log.WithField("dir", dir).Debug("no program directory")
		err = nil
	}

	return
}

// Scan rescans the program directory.
func (sess *session) Scan() (changed []string, err error) {
	return sess.Library.Scan(os.DirFS(sess.Dir))
}

// Program finds a program by library name, or else by file path.
func (sess *session) Program(name string) (prog *cpu.Program, err error) {
	prog, err = sess.Library.Program(name)
	if err == nil {
		return
	}

	data, read_err := os.ReadFile(name)
	if read_err != nil {
		return
	}

	err = nil
	prog = cpu.NewProgram(filepath.Base(name), string(data))
	return
}

// Load loads a program into the emulator.
func (sess *session) Load(name string) (err error) {
	prog, err := sess.Program(name)
	if err != nil {
		return
	}

	sess.Emu.Load(prog)
	return
}
