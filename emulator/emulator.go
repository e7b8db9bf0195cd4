// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"maps"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/rize/config"
	"github.com/ezrec/rize/cpu"
	"github.com/ezrec/rize/display"
	"github.com/ezrec/rize/word"
)

// Stage of the execution cycle the emulator will run next.
type Stage int

//go:generate go tool stringer -linecomment -type=Stage
const (
	STAGE_STARTUP  = Stage(0) // startup
	STAGE_FETCH    = Stage(1) // fetch
	STAGE_DECODE   = Stage(2) // decode
	STAGE_EXECUTE  = Stage(3) // execute
	STAGE_AUTOSTEP = Stage(4) // autostep
	STAGE_HALT     = Stage(5) // halt
)

// Emulator state. CPU + display, driven one stage at a time.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the CPU simulation.

	Config  config.Config    // Configuration the machine was built from.
	Display *display.Display // Pixel store written by WDM.

	stage    Stage
	autoStep bool
	lastErr  error
	cycles   int
}

// Snapshot is a copy of the visible machine state.
type Snapshot struct {
	Stage     Stage
	LineNo    int
	Cycles    int
	Registers map[string]word.Value
	Memory    map[uint64]word.Value
	Err       error
}

// NewEmulator creates a new emulator, with no program loaded.
func NewEmulator(cfg config.Config) (emu *Emulator, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	emu = &Emulator{
		Cpu:     cpu.NewCpu(cfg.WordWidth, cfg.GpRegisters, cfg.MemorySize),
		Config:  cfg,
		Display: display.New(cfg.DisplayWidth, cfg.DisplayHeight),
	}

	emu.Cpu.Display = emu.Display

	return
}

// Load replaces the program and resets the machine to startup.
func (emu *Emulator) Load(prog *cpu.Program) {
	if emu.Verbose && prog != nil {
		log.WithFields(log.Fields{"program": prog.Name, "lines": prog.LineCount()}).Info("emulator: load")
	}

	emu.Cpu.Load(prog)
	emu.Display.Clear()

	emu.lastErr = nil
	emu.cycles = 0
	emu.stage = STAGE_STARTUP
}

// Reset restarts the loaded program from startup.
func (emu *Emulator) Reset() {
	emu.Load(emu.Cpu.Program)
}

// Stage returns the stage the next Step will run. A machine waiting to
// fetch while auto-stepping reports STAGE_AUTOSTEP.
func (emu *Emulator) Stage() Stage {
	if emu.autoStep && emu.stage == STAGE_FETCH {
		return STAGE_AUTOSTEP
	}

	return emu.stage
}

// LastError returns the error that halted the machine, if any.
func (emu *Emulator) LastError() error {
	return emu.lastErr
}

// Cycles returns the number of instructions executed since the last load.
func (emu *Emulator) Cycles() int {
	return emu.cycles
}

// LineNo returns the source line of the current instruction.
func (emu *Emulator) LineNo() int {
	if emu.Cpu.Program == nil {
		return 0
	}

	return emu.Cpu.Program.Current.LineNo
}

// AutoStep is true when Tick runs batches of cycles.
func (emu *Emulator) AutoStep() bool {
	return emu.autoStep
}

// SetAutoStep switches between single stage and batched ticks.
func (emu *Emulator) SetAutoStep(enable bool) {
	emu.autoStep = enable
}

// halt stops the machine on err. The machine stays halted until the next
// Load or Reset.
func (emu *Emulator) halt(stage Stage, err error) error {
	fields := log.Fields{"stage": stage, "line": emu.LineNo()}
	if prog := emu.Cpu.Program; prog != nil {
		var args []string
		for _, arg := range prog.Current.Args {
			if arg.Type != cpu.ARG_NONE {
				args = append(args, arg.Text)
			}
		}
		fields["opcode"] = prog.Current.Keyword
		fields["args"] = args
	}
	log.WithFields(fields).WithError(err).Error("emulator: halted")

	err = &ErrRuntime{LineNo: emu.LineNo(), Stage: stage, Err: err}

	emu.lastErr = err
	emu.stage = STAGE_HALT
	return err
}

// Step runs the current stage and advances to the next.
// In the auto-step stage one step is a whole batch of cycles.
func (emu *Emulator) Step() (stage Stage, err error) {
	if emu.Stage() == STAGE_AUTOSTEP {
		err = emu.batch()
	} else {
		err = emu.step()
	}

	stage = emu.Stage()
	return
}

func (emu *Emulator) step() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	current := emu.stage
	var halt bool

	switch current {
	case STAGE_STARTUP:
		err = emu.Cpu.Setup()
		emu.stage = STAGE_FETCH
	case STAGE_FETCH:
		halt, err = emu.Cpu.Fetch()
		emu.stage = STAGE_DECODE
	case STAGE_DECODE:
		err = emu.Cpu.Decode()
		emu.stage = STAGE_EXECUTE
	case STAGE_EXECUTE:
		halt, err = emu.Cpu.Execute()
		if err == nil {
			emu.cycles++
		}
		emu.stage = STAGE_FETCH
	default:
		return
	}

	if err != nil {
		err = emu.halt(current, err)
		return
	}

	if halt {
		if emu.Verbose {
			log.WithFields(log.Fields{"line": emu.LineNo(), "cycles": emu.cycles}).Info("emulator: halt")
		}
		emu.stage = STAGE_HALT
	}

	return
}

// Cycle steps through the rest of the current instruction, or through
// one whole instruction if waiting to fetch.
func (emu *Emulator) Cycle() (err error) {
	if emu.stage == STAGE_STARTUP {
		err = emu.step()
		if err != nil {
			return
		}
	}

	for {
		err = emu.step()
		if err != nil || emu.stage == STAGE_FETCH || emu.stage == STAGE_HALT {
			return
		}
	}
}

// batch runs up to Config.AutoStepLines cycles, stopping early on halt.
func (emu *Emulator) batch() (err error) {
	for range emu.Config.AutoStepLines {
		if emu.stage == STAGE_HALT {
			break
		}
		err = emu.Cycle()
		if err != nil {
			return
		}
	}

	return
}

// Tick performs a single tick of the emulator: one stage, or one batch of
// cycles when auto-stepping.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.autoStep {
		// Finish startup or a partial cycle before batching.
		for emu.stage != STAGE_FETCH && emu.stage != STAGE_HALT {
			err = emu.step()
			if err != nil {
				return
			}
		}
	}

	_, err = emu.Step()
	done = emu.stage == STAGE_HALT
	return
}

// Run ticks until the machine halts or ctx is done.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}

// Snapshot copies the machine state.
func (emu *Emulator) Snapshot() (snap Snapshot) {
	snap = Snapshot{
		Stage:     emu.Stage(),
		LineNo:    emu.LineNo(),
		Cycles:    emu.cycles,
		Registers: emu.Cpu.Registers.Snapshot(),
		Memory:    maps.Collect(emu.Cpu.Memory.All()),
		Err:       emu.lastErr,
	}

	return
}

// String returns the emulator state as a string.
func (emu *Emulator) String() (text string) {
	text = fmt.Sprintf("% 8s: %v\n% 8s: %d\n% 8s: %d\n", "stage", emu.Stage(), "line", emu.LineNo(), "cycles", emu.cycles)
	text += emu.Cpu.String()
	if emu.lastErr != nil {
		text += fmt.Sprintf("% 8s: %v\n", "error", emu.lastErr)
	}

	return
}
