// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package loader discovers program source files and hands their text to
// the emulator.
package loader

import (
	"io/fs"
	"iter"
	"maps"
	"path"
	"regexp"
	"slices"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/rize/cpu"
	"github.com/ezrec/rize/internal"
)

// Library is the set of programs found by the last Scan, keyed by path
// without the extension.
type Library struct {
	Verbose   bool   // If set, enables verbose logging.
	Extension string // File extension, without the dot.

	mutex   sync.RWMutex
	sources map[string]string
}

// New creates an empty library for files ending in .extension.
func New(extension string) *Library {
	return &Library{
		Extension: extension,
		sources:   make(map[string]string),
	}
}

// Scan walks filesys for program files. It returns the names of programs
// that were added, changed or removed since the previous scan.
func (lib *Library) Scan(filesys fs.FS) (changed []string, err error) {
	pattern, err := regexp.Compile(`(?i)\.` + regexp.QuoteMeta(lib.Extension) + `$`)
	if err != nil {
		return
	}

	found := make(map[string]string)
	err = fs.WalkDir(filesys, ".", func(filepath string, d fs.DirEntry, err_in error) (err error) {
		if err_in != nil {
			return err_in
		}
		if d.IsDir() || !pattern.MatchString(d.Name()) {
			return
		}

		data, err := fs.ReadFile(filesys, filepath)
		if err != nil {
			return
		}

		name := strings.TrimSuffix(filepath, path.Ext(filepath))
		found[name] = string(data)
		return
	})
	if err != nil {
		return
	}

	lib.mutex.Lock()
	defer lib.mutex.Unlock()

	for name, source := range found {
		if old, ok := lib.sources[name]; !ok || old != source {
			changed = append(changed, name)
		}
	}
	for name := range lib.sources {
		if _, ok := found[name]; !ok {
			changed = append(changed, name)
		}
	}
	slices.Sort(changed)

	if lib.Verbose {
		log.WithFields(log.Fields{"programs": len(found), "changed": changed}).Info("loader: scan")
	}

	lib.sources = found
	return
}

// All yields every program name and its source, in name order.
func (lib *Library) All() iter.Seq2[string, string] {
	lib.mutex.RLock()
	sources := maps.Clone(lib.sources)
	lib.mutex.RUnlock()

	return func(yield func(string, string) bool) {
		for _, name := range slices.Sorted(maps.Keys(sources)) {
			if !yield(name, sources[name]) {
				return
			}
		}
	}
}

// Names of all programs, sorted.
func (lib *Library) Names() []string {
	return slices.Collect(internal.IterSeq2Keys(lib.All()))
}

// Source returns the text of a program.
func (lib *Library) Source(name string) (source string, ok bool) {
	lib.mutex.RLock()
	defer lib.mutex.RUnlock()

	source, ok = lib.sources[name]
	return
}

// Program parses a program from the library.
func (lib *Library) Program(name string) (prog *cpu.Program, err error) {
	source, ok := lib.Source(name)
	if !ok {
		err = ErrProgramUnknown(name)
		return
	}

	prog = cpu.NewProgram(name, source)
	return
}
