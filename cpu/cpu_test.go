package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rize/word"
)

type pixel struct {
	x, y  uint8
	color [4]uint8
}

type pixelLog struct {
	pixels []pixel
	fail   error
}

func (pl *pixelLog) SetPixel(x, y uint8, color [4]uint8) error {
	if pl.fail != nil {
		return pl.fail
	}
	pl.pixels = append(pl.pixels, pixel{x: x, y: y, color: color})
	return nil
}

func newTestCpu(t *testing.T, program ...string) (cpu *Cpu) {
	cpu = NewCpu(word.WIDTH_16, 4, 2048)
	err := cpu.Setup()
	if err != nil {
		t.Fatal(err)
	}
	cpu.Load(NewProgram(t.Name(), strings.Join(program, "\n")))
	return
}

// cycle runs one Fetch, Decode, Execute pass.
func cycle(cpu *Cpu) (halt bool, err error) {
	halt, err = cpu.Fetch()
	if halt || err != nil {
		return
	}

	err = cpu.Decode()
	if err != nil {
		return
	}

	return cpu.Execute()
}

// run cycles until halt or the first error.
func run(cpu *Cpu) (err error) {
	for range 10000 {
		var halt bool
		halt, err = cycle(cpu)
		if halt || err != nil {
			return
		}
	}

	return errors.New("program did not halt")
}

func reg(cpu *Cpu, name string) uint64 {
	view, ok := cpu.Registers.Get(name)
	if !ok {
		panic(name)
	}
	return view.Read().Uint64()
}

func flag(cpu *Cpu, name string) bool {
	return reg(cpu, name) != 0
}

func TestCpuSetup(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(word.WIDTH_16, 4, 2048)
	assert.Equal(0, cpu.Registers.Len())

	// Before setup there is no program counter.
	cpu.Load(NewProgram("early", "HALT"))
	_, err := cpu.Fetch()
	assert.ErrorIs(err, KIND_REGISTER_READ)
	assert.ErrorIs(err, ErrRegisterUnknown(REG_PC))

	assert.NoError(cpu.Setup())
	assert.Equal(11, cpu.Registers.Len())
	assert.NoError(cpu.Setup())
	assert.Equal(11, cpu.Registers.Len())

	bad := NewCpu(word.WIDTH_16, 30, 2048)
	assert.ErrorIs(bad.Setup(), KIND_REGISTER_WRITE)
}

func TestCpuFetchSkips(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t,
		"",            // 1
		"# comment",   // 2
		".start",      // 3
		"  MOV ga 1 ", // 4
		"   ",         // 5
		"HALT",        // 6
	)

	halt, err := cpu.Fetch()
	assert.NoError(err)
	assert.False(halt)
	assert.Equal(4, cpu.Program.Current.LineNo)
	assert.Equal("MOV ga 1", cpu.Program.Current.Text)
	assert.Equal(uint64(4), reg(cpu, REG_PC))

	halt, err = cpu.Fetch()
	assert.NoError(err)
	assert.False(halt)
	assert.Equal(6, cpu.Program.Current.LineNo)
	assert.Equal(uint64(6), reg(cpu, REG_PC))

	halt, err = cpu.Fetch()
	assert.NoError(err)
	assert.True(halt)
	assert.Equal(uint64(6), reg(cpu, REG_PC))
}

func TestCpuFetchNoProgram(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(word.WIDTH_16, 4, 2048)
	assert.NoError(cpu.Setup())

	_, err := cpu.Fetch()
	assert.ErrorIs(err, KIND_FETCH)
	assert.ErrorIs(err, ErrProgramMissing)

	err = cpu.Decode()
	assert.ErrorIs(err, KIND_DECODE)

	_, err = cpu.Execute()
	assert.ErrorIs(err, KIND_EXECUTE)
}

func TestCpuDecode(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, "MOV 0x10 7", "add GA, 0x10 gb")
	assert.NoError(run(cpu))

	cpu = newTestCpu(t, "MOV 0x10 7", "MOV ga 3", "add GA, 0x10 gb", "jmp .away")

	for range 3 {
		_, err := cycle(cpu)
		assert.NoError(err)
	}

	_, err := cpu.Fetch()
	assert.NoError(err)
	assert.NoError(cpu.Decode())

	inst := cpu.Program.Current
	assert.Equal(4, inst.LineNo)
	assert.Equal("jmp", inst.Keyword)
	assert.Equal(OP_JMP, inst.OpCode)
	assert.Equal(ARG_SYMBOL, inst.Args[0].Type)
	assert.False(inst.Args[0].Resolved)
	assert.Equal(ARG_NONE, inst.Args[1].Type)

	// Re-decode the add, and check resolution.
	cpu.Program.Current = Instruction{LineNo: 3, Text: "add GA, 0x10 gb"}
	assert.NoError(cpu.Decode())
	inst = cpu.Program.Current
	assert.Equal(OP_ADD, inst.OpCode)
	assert.Equal(ARG_REGISTER, inst.Args[0].Type)
	assert.Equal("ga", inst.Args[0].Name)
	assert.Equal(uint64(3), inst.Args[0].Value.Uint64())
	assert.Equal(ARG_MEMADDR, inst.Args[1].Type)
	assert.Equal(uint64(7), inst.Args[1].Value.Uint64())
	assert.Equal(ARG_REGISTER, inst.Args[2].Type)
	assert.Equal(uint64(10), inst.Args[2].Value.Uint64())
}

func TestCpuDecodeErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		kind ErrKind
		err  error
	}){
		{"", KIND_DECODE, ErrOpcodeMissing},
		{"# nothing", KIND_DECODE, ErrOpcodeMissing},
		{"MOV ga 1 2", KIND_DECODE, ErrOpcodeExtraArgs},
		{"HALT now", KIND_DECODE, ErrOpcodeExtraArgs},
		{"ADD ga 12ab", KIND_DECODE, ErrOperandMalformed},
		{"ADD ga", KIND_DECODE, ErrOperandMissing},
		{"JMP .l00p", KIND_DECODE, ErrOperandMalformed},
		{"MOV gz 1", KIND_REGISTER_READ, ErrRegisterUnknown("gz")},
		{"MOV ga 0x800", KIND_MEMORY_READ, ErrAddressRange{Address: 0x800, Capacity: 2048}},
	}

	for _, entry := range table {
		cpu := newTestCpu(t)
		cpu.Program.Current = Instruction{LineNo: 1, Text: entry.line}
		err := cpu.Decode()
		assert.ErrorIs(err, entry.kind, entry.line)
		assert.ErrorIs(err, entry.err, entry.line)
	}
}

func TestCpuScenarios(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, "MOV ga 5", "ADD ga 3")
	assert.NoError(run(cpu))
	assert.Equal(uint64(8), reg(cpu, "ga"))
	assert.False(flag(cpu, FLAG_ZERO))

	cpu = newTestCpu(t, "MOV ga 5", "SUB ga 5")
	assert.NoError(run(cpu))
	assert.Equal(uint64(0), reg(cpu, "ga"))
	assert.True(flag(cpu, FLAG_ZERO))
	assert.False(flag(cpu, FLAG_CARRY))

	cpu = newTestCpu(t, "MOV ga 5", "DIV ga 0", "MOV ga 9")
	err := run(cpu)
	assert.ErrorIs(err, KIND_EXECUTE)
	assert.ErrorIs(err, word.ErrDivideByZero)
	assert.Equal(uint64(5), reg(cpu, "ga"))
	assert.Equal(2, cpu.Program.Current.LineNo)
}

func TestCpuJumpToLabel(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t,
		"MOV ga 0",  // 1
		".loop",     // 2
		"ADD ga 1",  // 3
		"JMP .loop", // 4
	)

	_, err := cycle(cpu)
	assert.NoError(err)

	for pass := 1; pass <= 3; pass++ {
		_, err = cycle(cpu)
		assert.NoError(err)
		assert.Equal(3, cpu.Program.Current.LineNo)

		_, err = cycle(cpu)
		assert.NoError(err)
		assert.Equal(uint64(2), reg(cpu, REG_PC))
		assert.Equal(uint64(pass), reg(cpu, "ga"))
	}
}

func TestCpuConditionalJumps(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t,
		"MOV ga 3",
		".loop",
		"ADD gb 2",
		"SUB ga 1",
		"JIZ .done",
		"JMP .loop",
		".done",
		"SUB gc 1",
		"JIN .negative",
		"MOV gd 1",
		"HALT",
		".negative",
		"MOV gd 2",
		"HALT",
		"MOV gd 3",
	)

	assert.NoError(run(cpu))
	assert.Equal(uint64(0), reg(cpu, "ga"))
	assert.Equal(uint64(6), reg(cpu, "gb"))
	assert.Equal(uint64(0xffff), reg(cpu, "gc"))
	assert.Equal(uint64(2), reg(cpu, "gd"))
}

func TestCpuJumpErrors(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, "JMP .nowhere")
	err := run(cpu)
	assert.ErrorIs(err, KIND_EXECUTE)
	assert.ErrorIs(err, ErrLabelMissing("nowhere"))

	cpu = newTestCpu(t, "JMP ga")
	err = run(cpu)
	assert.ErrorIs(err, KIND_EXECUTE)
	assert.ErrorIs(err, ErrOperandInvalid)

	// Conditional jumps resolve the label whether or not they are taken.
	for _, op := range []string{"JIZ", "JIN"} {
		cpu = newTestCpu(t, "MOV ga 1", "ADD ga 1", op+" .nowhere", "MOV gb 1")
		err = run(cpu)
		assert.ErrorIs(err, KIND_EXECUTE, op)
		assert.ErrorIs(err, ErrLabelMissing("nowhere"), op)
		assert.False(flag(cpu, FLAG_ZERO), op)
		assert.False(flag(cpu, FLAG_NEGATIVE), op)
		assert.Equal(uint64(0), reg(cpu, "gb"), op)
	}
}

func TestCpuAluFlags(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program  []string
		ga       uint64
		zero     bool
		negative bool
		carry    bool
		overflow bool
	}){
		{[]string{"MOV ga 65535", "ADD ga 1"}, 0, true, false, true, false},
		{[]string{"MOV ga 0", "SUB ga 1"}, 0xffff, false, true, true, false},
		{[]string{"MOV ga 32767", "ADD ga 1"}, 0x8000, false, true, false, true},
		{[]string{"MOV ga 32768", "SUB ga 1"}, 0x7fff, false, false, false, true},
		{[]string{"MOV ga 300", "MUL ga 300"}, 90000 & 0xffff, false, false, false, false},
		{[]string{"MOV ga 7", "DIV ga 2"}, 3, false, false, false, false},
		{[]string{"MOV ga 12", "AND ga 3"}, 0, true, false, false, false},
		{[]string{"MOV ga 12", "OR ga 3"}, 15, false, false, false, false},
		{[]string{"MOV ga 12", "XOR ga 12"}, 0, true, false, false, false},
		{[]string{"MOV ga 0", "NOT ga"}, 0xffff, false, true, false, false},
		{[]string{"MOV ga 1", "SHL ga 15"}, 0x8000, false, true, false, false},
		{[]string{"MOV ga 1", "SHL ga 16"}, 1, false, false, false, false},
		{[]string{"MOV ga 256", "SHR ga 8"}, 1, false, false, false, false},
	}

	for _, entry := range table {
		cpu := newTestCpu(t, entry.program...)
		assert.NoError(run(cpu), entry.program)
		assert.Equal(entry.ga, reg(cpu, "ga"), entry.program)
		assert.Equal(entry.zero, flag(cpu, FLAG_ZERO), entry.program)
		assert.Equal(entry.negative, flag(cpu, FLAG_NEGATIVE), entry.program)
		assert.Equal(entry.carry, flag(cpu, FLAG_CARRY), entry.program)
		assert.Equal(entry.overflow, flag(cpu, FLAG_OVERFLOW), entry.program)
	}

	// Carry from an add is cleared by the next non-additive operation.
	cpu := newTestCpu(t, "MOV ga 65535", "ADD ga 1", "MOV gb 1", "SHL gb 1")
	assert.NoError(run(cpu))
	assert.Equal(uint64(2), reg(cpu, "gb"))
	assert.False(flag(cpu, FLAG_ZERO))
	assert.False(flag(cpu, FLAG_CARRY))

	// Moves leave flags alone.
	cpu = newTestCpu(t, "MOV ga 65535", "ADD ga 1", "MOV gb 1")
	assert.NoError(run(cpu))
	assert.True(flag(cpu, FLAG_ZERO))
	assert.True(flag(cpu, FLAG_CARRY))
}

func TestCpuThreeOperand(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, "MOV ga 5", "MOV gb 7", "ADD ga gb gc", "SUB 20 ga gd", "NOT ga gb")
	assert.NoError(run(cpu))
	assert.Equal(uint64(5), reg(cpu, "ga"))
	assert.Equal(uint64(0xfffa), reg(cpu, "gb"))
	assert.Equal(uint64(12), reg(cpu, "gc"))
	assert.Equal(uint64(15), reg(cpu, "gd"))

	cpu = newTestCpu(t, "ADD ga 1 2")
	err := run(cpu)
	assert.ErrorIs(err, KIND_EXECUTE)
	assert.ErrorIs(err, ErrTargetInvalid)

	cpu = newTestCpu(t, "ADD 1 2")
	err = run(cpu)
	assert.ErrorIs(err, ErrTargetInvalid)
}

func TestCpuNarrowTarget(t *testing.T) {
	table := [](struct {
		program  []string
		gbb      uint64
		zero     bool
		negative bool
		carry    bool
		overflow bool
	}){
		{[]string{"MOV ga 200", "ADD ga 100 gbb"}, 44, false, false, true, false},
		{[]string{"MOV ga 200", "ADD ga 56 gbb"}, 0, true, false, true, false},
		{[]string{"MOV ga 200", "ADD ga 50 gbb"}, 250, false, true, false, false},
		{[]string{"MOV ga 100", "ADD ga 28 gbb"}, 128, false, true, false, true},
		{[]string{"MOV ga 5", "SUB ga 6 gbb"}, 255, false, true, true, false},
		{[]string{"MOV ga 300", "SUB ga 1 gbb"}, 43, false, false, false, false},
	}

	for _, entry := range table {
		t.Run(strings.Join(entry.program, ";"), func(t *testing.T) {
			assert := assert.New(t)

			cpu := newTestCpu(t, entry.program...)
			assert.NoError(run(cpu))
			assert.Equal(entry.gbb, reg(cpu, "gbb"))
			assert.Equal(uint64(0), reg(cpu, "gbc"))
			assert.Equal(entry.zero, flag(cpu, FLAG_ZERO))
			assert.Equal(entry.negative, flag(cpu, FLAG_NEGATIVE))
			assert.Equal(entry.carry, flag(cpu, FLAG_CARRY))
			assert.Equal(entry.overflow, flag(cpu, FLAG_OVERFLOW))
		})
	}
}

func TestCpuProgramLength(t *testing.T) {
	assert := assert.New(t)

	program := func(lines int) string {
		return strings.Repeat("ADD ga 1\n", lines-1) + "HALT"
	}

	cpu := NewCpu(word.WIDTH_8, 4, 256)
	assert.NoError(cpu.Setup())

	// An 8-bit counter reaches line 255.
	cpu.Load(NewProgram("fits", program(255)))
	assert.NoError(run(cpu))
	assert.Equal(uint64(254), reg(cpu, "ga"))
	assert.Equal(uint64(255), reg(cpu, "pc"))

	cpu.Load(NewProgram("long", program(300)))
	err := run(cpu)
	assert.ErrorIs(err, KIND_FETCH)

	var length ErrProgramLength
	if assert.ErrorAs(err, &length) {
		assert.Equal(300, length.Lines)
		assert.Equal(uint64(255), length.Limit)
	}
	assert.Equal(uint64(0), reg(cpu, "ga"))
	assert.Equal(uint64(0), reg(cpu, "pc"))

	wide := NewCpu(word.WIDTH_64, 4, 256)
	assert.NoError(wide.Setup())
	wide.Load(NewProgram("wide", program(300)))
	assert.NoError(run(wide))
	assert.Equal(uint64(299), reg(wide, "ga"))
}

func TestCpuSections(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, "MOV gaa 5", "ADD gab 3", "MOV gac 1", "MOV gba gab")
	assert.NoError(run(cpu))
	assert.Equal(uint64(0x0108), reg(cpu, "ga"))
	assert.Equal(uint64(0x0008), reg(cpu, "gb"))

	cpu = newTestCpu(t, "MOV ga 255", "ADD gab 1")
	assert.NoError(run(cpu))
	assert.Equal(uint64(0), reg(cpu, "ga"))
	assert.True(flag(cpu, FLAG_ZERO))
	assert.True(flag(cpu, FLAG_CARRY))
}

func TestCpuMemory(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t,
		"MOV 0x10 7",
		"MOV gb 0x10",
		"ADD 0x10 1",
		"MOV mar 32",
		"MOV mdr 42",
		"ST",
		"MOV mdr 0",
		"LD",
		"ST 48 gb",
		"LD gc 48",
		"SWP gb gc",
	)
	assert.NoError(run(cpu))

	value, err := cpu.Memory.Read(0x10)
	assert.NoError(err)
	assert.Equal(uint64(8), value.Uint64())

	value, err = cpu.Memory.Read(32)
	assert.NoError(err)
	assert.Equal(uint64(42), value.Uint64())
	assert.Equal(uint64(42), reg(cpu, REG_MDR))

	value, err = cpu.Memory.Read(48)
	assert.NoError(err)
	assert.Equal(uint64(7), value.Uint64())
	assert.Equal(uint64(7), reg(cpu, "gb"))
	assert.Equal(uint64(7), reg(cpu, "gc"))

	cpu = newTestCpu(t, "MOV mar 4096", "ST")
	err = run(cpu)
	assert.ErrorIs(err, KIND_MEMORY_WRITE)

	cpu = newTestCpu(t, "MOV mar 4096", "LD")
	err = run(cpu)
	assert.ErrorIs(err, KIND_MEMORY_READ)
	assert.Equal(uint64(0), reg(cpu, REG_MDR))
}

func TestCpuWdm(t *testing.T) {
	assert := assert.New(t)

	display := &pixelLog{}
	cpu := newTestCpu(t, "MOV ga 4660", "WDM ga 22136 772")
	cpu.Display = display

	assert.NoError(run(cpu))
	assert.Equal([]pixel{{x: 3, y: 4, color: [4]uint8{0x12, 0x34, 0x56, 0x78}}}, display.pixels)

	cpu = newTestCpu(t, "WDM 1 2 3")
	err := run(cpu)
	assert.ErrorIs(err, KIND_DISPLAY)
	assert.ErrorIs(err, ErrDisplayMissing)

	display.fail = errors.New("out of bounds")
	cpu = newTestCpu(t, "WDM 1 2 3")
	cpu.Display = display
	err = run(cpu)
	assert.ErrorIs(err, KIND_DISPLAY)
}

func TestCpuHaltNop(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, "NOP", "HALT", "MOV ga 1")
	assert.NoError(run(cpu))
	assert.Equal(uint64(0), reg(cpu, "ga"))
	assert.Equal(2, cpu.Program.Current.LineNo)
}

func TestCpuUnknownOpcode(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, "MOV ga 1", "FROB ga 2", "MOV ga 3")
	err := run(cpu)
	assert.ErrorIs(err, KIND_EXECUTE)
	assert.ErrorIs(err, ErrOpcodeUnknown("FROB"))
	assert.Equal(uint64(1), reg(cpu, "ga"))
	assert.Equal(OP_INVALID, cpu.Program.Current.OpCode)
}

func TestCpuString(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, "MOV ga 10", "MOV 0x20 1")
	assert.NoError(run(cpu))

	text := cpu.String()
	assert.Contains(text, "      ga: 0x000a\n")
	assert.Contains(text, "[0x0020]: 0x0001\n")
}
