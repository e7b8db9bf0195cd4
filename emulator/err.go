package emulator

import (
	"github.com/ezrec/rize/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Stage  Stage
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v: %v", err.LineNo, err.Stage, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
