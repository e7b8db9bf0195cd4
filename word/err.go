package word

import (
	"errors"

	"github.com/ezrec/rize/translate"
)

var f = translate.From

var (
	ErrDivideByZero = errors.New(f("divide by zero"))
)

// ErrWidthInvalid is returned for a bit count that is not a machine width.
type ErrWidthInvalid int

func (err ErrWidthInvalid) Error() string {
	return f("%d is not a valid word width", int(err))
}
