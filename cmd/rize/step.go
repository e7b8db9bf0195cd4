// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var stepCmd = &cobra.Command{
	Use:   "step [flags] program",
	Short: f("Step through a program interactively."),
	Long: f(`Step through a program interactively.

Keys:
  space, enter  run one stage
  c             run one instruction
  a             run one auto-step batch
  r             reset the program
  q             quit`),
	Args: cobra.ExactArgs(1),
	RunE: stepProgram,
}

func init() {
	rootCmd.AddCommand(stepCmd)
}

func stepProgram(cmd *cobra.Command, args []string) (err error) {
	sess, err := newSession(cmd)
	if err != nil {
		return
	}

	err = sess.Load(args[0])
	if err != nil {
		return
	}

	out := cmd.OutOrStdout()
	newline := "\n"

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, raw_err := term.MakeRaw(fd)
		if raw_err != nil {
			return raw_err
		}
		defer term.Restore(fd, state)
		newline = "\r\n"
	}

	emu := sess.Emu
	show := func() {
		text := emu.String()
		if line, ok := emu.Program.Line(emu.LineNo()); ok {
			text = fmt.Sprintf("% 8s: %s\n", "source", strings.TrimSpace(line)) + text
		}
		fmt.Fprint(out, strings.ReplaceAll(text, "\n", newline)+newline)
	}

	show()

	var key [1]byte
	for {
		_, err = os.Stdin.Read(key[:])
		if err == io.EOF {
			err = nil
			return
		}
		if err != nil {
			return
		}

		// Faults halt the machine and show in the state dump.
		switch key[0] {
		case ' ', '\r', '\n':
			emu.Step()
		case 'c':
			emu.Cycle()
		case 'a':
			emu.SetAutoStep(true)
			emu.Tick()
			emu.SetAutoStep(false)
		case 'r':
			emu.Reset()
		case 'q', 3:
			return
		default:
			continue
		}

		show()
	}
}
