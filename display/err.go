package display

import (
	"image"

	"github.com/ezrec/rize/translate"
)

var f = translate.From

// ErrPixelRange is returned for a pixel outside the display.
type ErrPixelRange struct {
	X, Y   int
	Bounds image.Rectangle
}

func (err ErrPixelRange) Error() string {
	return f("pixel (%d, %d) outside %dx%d display", err.X, err.Y, err.Bounds.Dx(), err.Bounds.Dy())
}
