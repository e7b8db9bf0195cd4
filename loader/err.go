package loader

import (
	"github.com/ezrec/rize/translate"
)

var f = translate.From

// ErrProgramUnknown is returned for a program name not in the library.
type ErrProgramUnknown string

func (err ErrProgramUnknown) Error() string {
	return f("program %q not found", string(err))
}
