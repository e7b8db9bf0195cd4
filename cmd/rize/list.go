// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezrec/rize/cpu"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: f("List the programs in the program directory."),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sess, err := newSession(cmd)
		if err != nil {
			return
		}

		out := cmd.OutOrStdout()
		for name, source := range sess.Library.All() {
			prog := cpu.NewProgram(name, source)
			var labels []string
			for label := range prog.Labels() {
				labels = append(labels, label)
			}
			fmt.Fprintf(out, "%-24s %5d lines  %v\n", name, prog.LineCount(), labels)
		}

		return
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: f("Print the effective configuration."),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sess, err := newSession(cmd)
		if err != nil {
			return
		}

		fmt.Fprint(cmd.OutOrStdout(), sess.Config.String())
		return
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
}
