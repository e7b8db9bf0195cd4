package display

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rize/cpu"
)

func TestDisplaySetPixel(t *testing.T) {
	assert := assert.New(t)

	disp := New(4, 3)
	assert.Equal(4, disp.Bounds().Dx())
	assert.Equal(3, disp.Bounds().Dy())

	assert.NoError(disp.SetPixel(2, 1, [4]uint8{0x10, 0x20, 0x30, 0x40}))
	assert.Equal(color.RGBA{0x10, 0x20, 0x30, 0x40}, disp.Pixel(2, 1))
	assert.Equal(color.RGBA{}, disp.Pixel(1, 2))

	pix := disp.Pix()
	offset := (1*4 + 2) * 4
	assert.Equal([]byte{0x10, 0x20, 0x30, 0x40}, pix[offset:offset+4])

	// Copies do not alias the store.
	pix[offset] = 0xff
	assert.Equal(uint8(0x10), disp.Pixel(2, 1).R)
}

func TestDisplayRange(t *testing.T) {
	table := [...]struct {
		x, y uint8
	}{
		{4, 0},
		{0, 3},
		{255, 255},
	}

	for _, entry := range table {
		assert := assert.New(t)

		disp := New(4, 3)
		err := disp.SetPixel(entry.x, entry.y, [4]uint8{1, 2, 3, 4})
		assert.ErrorIs(err, cpu.KIND_DISPLAY)

		var pix_err ErrPixelRange
		if assert.ErrorAs(err, &pix_err) {
			assert.Equal(int(entry.x), pix_err.X)
			assert.Equal(int(entry.y), pix_err.Y)
		}
		assert.Equal(make([]byte, 4*3*4), disp.Pix())
	}
}

func TestDisplayFull(t *testing.T) {
	assert := assert.New(t)

	disp := New(256, 256)
	assert.NoError(disp.SetPixel(255, 255, [4]uint8{0xff, 0, 0, 0xff}))
	assert.Equal(color.RGBA{0xff, 0, 0, 0xff}, disp.Pixel(255, 255))
}

func TestDisplayClear(t *testing.T) {
	assert := assert.New(t)

	disp := New(2, 2)
	assert.NoError(disp.SetPixel(1, 1, [4]uint8{9, 9, 9, 9}))
	img := disp.Image()

	disp.Clear()
	assert.Equal(color.RGBA{}, disp.Pixel(1, 1))
	assert.Equal(color.RGBA{9, 9, 9, 9}, img.RGBAAt(1, 1))
}

func TestDisplayWritePNG(t *testing.T) {
	assert := assert.New(t)

	disp := New(2, 2)
	assert.NoError(disp.SetPixel(1, 0, [4]uint8{0xff, 0x80, 0x00, 0xff}))

	for _, scale := range []int{1, 3} {
		buf := &bytes.Buffer{}
		assert.NoError(disp.WritePNG(buf, scale))

		img, err := png.Decode(buf)
		if !assert.NoError(err) {
			continue
		}

		assert.Equal(2*scale, img.Bounds().Dx())
		assert.Equal(2*scale, img.Bounds().Dy())

		r, g, b, a := img.At(2*scale-1, scale-1).RGBA()
		assert.Equal([4]uint32{0xffff, 0x8080, 0, 0xffff}, [4]uint32{r, g, b, a})

		r, g, b, a = img.At(0, 0).RGBA()
		assert.Equal([4]uint32{0, 0, 0, 0}, [4]uint32{r, g, b, a})
	}
}
