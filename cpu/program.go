// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"cmp"
	"iter"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

// Instruction is the decoded form of one fetched line.
type Instruction struct {
	LineNo  int        // 1-based source line.
	Text    string     // Source line, trimmed.
	Keyword string     // Opcode as written.
	OpCode  OpCode     // Decoded opcode.
	Args    [3]Operand // Operand slots; unused slots are ARG_NONE.
}

// Program is the loaded source text, its label table, and the most
// recently decoded instruction.
type Program struct {
	Name    string
	Source  string
	Current Instruction

	lines  []string
	labels map[string]int
}

// NewProgram splits source into lines and builds the label table.
func NewProgram(name string, source string) (prog *Program) {
	prog = &Program{
		Name:   name,
		Source: source,
		labels: make(map[string]int),
	}

	scanner := bufio.NewScanner(strings.NewReader(source))
	for scanner.Scan() {
		prog.lines = append(prog.lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.WithFields(log.Fields{"program": name, "line": len(prog.lines) + 1}).WithError(err).Warn("program truncated")
	}

	prog.buildLabels()

	return
}

// Skipped is true for lines the fetch stage passes over: blank lines,
// comments and label declarations.
func Skipped(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) == 0 ||
		strings.HasPrefix(line, COMMENT_MARKER) ||
		strings.HasPrefix(line, LABEL_MARKER)
}

// ValidLabel is true for names of 1 to LABEL_MAX letters.
func ValidLabel(name string) bool {
	return isAlpha(name) && utf8.RuneCountInString(name) <= LABEL_MAX
}

// buildLabels scans top to bottom. The first declaration of a name wins.
func (prog *Program) buildLabels() {
	clear(prog.labels)

	for n, line := range prog.lines {
		lineno := n + 1
		words := Tokenize(line)
		if len(words) == 0 || !strings.HasPrefix(words[0], LABEL_MARKER) {
			continue
		}

		fields := log.Fields{"program": prog.Name, "line": lineno, "label": words[0]}

		name := words[0][len(LABEL_MARKER):]
		if !ValidLabel(name) {
			log.WithFields(fields).Warn("label ignored: not 1 to 16 letters")
			continue
		}

		if first, ok := prog.labels[name]; ok {
			log.WithFields(fields).Warnf("label ignored: already declared on line %d", first)
			continue
		}

		prog.labels[name] = lineno
	}
}

// LineCount is the number of source lines.
func (prog *Program) LineCount() int {
	return len(prog.lines)
}

// Lines of the source, without line endings.
func (prog *Program) Lines() []string {
	return slices.Clone(prog.lines)
}

// Line returns a 1-based source line.
func (prog *Program) Line(lineno int) (line string, ok bool) {
	if lineno < 1 || lineno > len(prog.lines) {
		return
	}

	line = prog.lines[lineno-1]
	ok = true
	return
}

// Label returns the 1-based line a label is declared on.
func (prog *Program) Label(name string) (lineno int, ok bool) {
	lineno, ok = prog.labels[name]
	return
}

// Labels yields every label in line order.
func (prog *Program) Labels() iter.Seq2[string, int] {
	names := slices.SortedFunc(maps.Keys(prog.labels), func(a, b string) int {
		return cmp.Compare(prog.labels[a], prog.labels[b])
	})

	return func(yield func(string, int) bool) {
		for _, name := range names {
			if !yield(name, prog.labels[name]) {
				return
			}
		}
	}
}
