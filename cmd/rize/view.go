// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"image/color"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/image/font/basicfont"

	"github.com/ezrec/rize/emulator"
)

const (
	VIEW_PANEL_WIDTH  = 200 // Register panel, right of the display.
	VIEW_STATUS_LINES = 2   // Status lines, below the display.
	VIEW_LINE_HEIGHT  = 16
	VIEW_RESCAN_TICKS = 60 // Ticks between program directory rescans.
)

var viewCmd = &cobra.Command{
	Use:   "view [flags] program",
	Short: f("Run a program in a window, showing the display."),
	Long: f(`Run a program in a window, showing the display and registers.

Keys:
  space  pause or resume
  s      run one instruction while paused
  r      reload the program
  q, esc quit

The program is reloaded when its file changes.`),
	Args: cobra.ExactArgs(1),
	RunE: viewProgram,
}

func init() {
	viewCmd.Flags().Int("scale", 2, "display pixel scale")
	viewCmd.Flags().Bool("paused", false, "start paused")
	rootCmd.AddCommand(viewCmd)
}

// viewer is the ebiten game driving the emulator.
type viewer struct {
	sess   *session
	name   string
	scale  int
	paused bool
	ticks  int
	pixels *ebiten.Image
}

func viewProgram(cmd *cobra.Command, args []string) (err error) {
	sess, err := newSession(cmd)
	if err != nil {
		return
	}

	v := &viewer{
		sess:   sess,
		name:   args[0],
		scale:  max(1, GetInt(cmd, "scale")),
		paused: GetFlag(cmd, "paused"),
	}

	err = v.reload()
	if err != nil {
		return
	}

	width, height := v.Layout(0, 0)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(f("Rize-1: %v", v.name))

	return ebiten.RunGame(v)
}

func (v *viewer) reload() (err error) {
	err = v.sess.Load(v.name)
	if err != nil {
		return
	}

	v.sess.Emu.SetAutoStep(true)
	return
}

func (v *viewer) rescan() {
	changed, err := v.sess.Scan()
	if err != nil {
		log.WithError(err).Debug("view: rescan")
		return
	}

	if slices.Contains(changed, v.name) {
		log.WithField("program", v.name).Info("view: program changed, reloading")
		err = v.reload()
		if err != nil {
			log.WithError(err).Error("view: reload")
		}
	}
}

func (v *viewer) Update() (err error) {
	emu := v.sess.Emu

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		err = v.reload()
		if err != nil {
			log.WithError(err).Error("view: reload")
			err = nil
		}
	}

	v.ticks++
	if v.ticks%VIEW_RESCAN_TICKS == 0 {
		v.rescan()
	}

	// Runtime errors halt the machine and are shown in the status line.
	switch {
	case v.paused && inpututil.IsKeyJustPressed(ebiten.KeyS):
		emu.Cycle()
	case !v.paused:
		emu.Tick()
	}

	return
}

func (v *viewer) status(emu *emulator.Emulator) string {
	state := f("running")
	switch {
	case emu.Stage() == emulator.STAGE_HALT:
		state = f("halted")
	case v.paused:
		state = f("paused")
	}

	line := f("%v  line %d  cycles %d", state, emu.LineNo(), emu.Cycles())
	if err := emu.LastError(); err != nil {
		line += "\n" + err.Error()
	}
	return line
}

func (v *viewer) Draw(screen *ebiten.Image) {
	emu := v.sess.Emu
	bounds := emu.Display.Bounds()

	if v.pixels == nil {
		v.pixels = ebiten.NewImage(bounds.Dx(), bounds.Dy())
	}
	v.pixels.WritePixels(emu.Display.Pix())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(v.scale), float64(v.scale))
	screen.DrawImage(v.pixels, op)

	face := basicfont.Face7x13
	x := bounds.Dx()*v.scale + 8
	for n, line := range strings.Split(strings.TrimRight(emu.Registers.String(), "\n"), "\n") {
		text.Draw(screen, line, face, x, (n+1)*VIEW_LINE_HEIGHT, color.White)
	}

	ebitenutil.DebugPrintAt(screen, v.status(emu), 4, bounds.Dy()*v.scale+2)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	bounds := v.sess.Emu.Display.Bounds()
	return bounds.Dx()*v.scale + VIEW_PANEL_WIDTH, bounds.Dy()*v.scale + VIEW_STATUS_LINES*VIEW_LINE_HEIGHT
}
