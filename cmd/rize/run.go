// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] program",
	Short: f("Run a program until it halts."),
	Args:  cobra.ExactArgs(1),
	RunE:  runProgram,
}

func init() {
	runCmd.Flags().String("png", "", "write the display to a PNG file on halt")
	runCmd.Flags().Int("scale", 1, "PNG pixel scale")
	runCmd.Flags().Bool("quiet", false, "do not dump the machine state on halt")
	rootCmd.AddCommand(runCmd)
}

func runProgram(cmd *cobra.Command, args []string) (err error) {
	sess, err := newSession(cmd)
	if err != nil {
		return
	}

	err = sess.Load(args[0])
	if err != nil {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	emu := sess.Emu
	emu.SetAutoStep(true)
	err = emu.Run(ctx)

	if !GetFlag(cmd, "quiet") {
		fmt.Fprint(cmd.OutOrStdout(), emu.String())
	}

	if png := GetString(cmd, "png"); len(png) != 0 {
		ouf, png_err := os.Create(png)
		if png_err != nil {
			return png_err
		}
		defer ouf.Close()

		png_err = emu.Display.WritePNG(ouf, GetInt(cmd, "scale"))
		if png_err != nil {
			return png_err
		}
		log.WithField("png", png).Debug("display written")
	}

	return
}
