// Package pixmap provides a reference-counted buffer for moving image data
// between producer and consumer modules without coordinated ownership. A
// Pixmap carries either a coded bitstream (JPEG, PNG, ...) or raw pixel
// planes, discriminated by its codec tag, and is shared via Dup/Release on
// an atomic count.
package pixmap

import (
	"fmt"
	"sync/atomic"
)

// InputPadding is the number of zero bytes appended to every coded payload.
// Block-based decoders may over-read past the end of the bitstream; the
// padding keeps those reads inside the allocation.
const InputPadding = 32

// Codec identifies the bitstream format of a coded payload.
type Codec int

const (
	// CodecNone marks a pixmap whose payload is raw pixels.
	CodecNone Codec = iota
	CodecJPEG
	CodecPNG
	CodecGIF
	CodecSVG
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecJPEG:
		return "jpeg"
	case CodecPNG:
		return "png"
	case CodecGIF:
		return "gif"
	case CodecSVG:
		return "svg"
	}
	return fmt.Sprintf("codec(%d)", int(c))
}

// PixelFormat identifies the layout of a raw pixel plane.
type PixelFormat int

const (
	PixelFormatRGB24 PixelFormat = iota
	PixelFormatRGBA32
	PixelFormatGray8
)

// Pixmap is a refcounted image transfer buffer. Exactly one of the coded
// payload and the raw pixel plane is populated.
type Pixmap struct {
	refs atomic.Int32

	codec Codec
	data  []byte // coded payload including InputPadding trailing bytes
	size  int    // logical coded size, excludes padding

	width  int
	height int
	stride int
	format PixelFormat
	pixels []byte

	freeHook func() // test instrumentation, runs once when the payload is freed
}

// NewCoded creates a pixmap holding a copy of a coded bitstream. size bytes
// are copied from data (short data is zero-filled) and InputPadding zero
// bytes are appended. A zero size is legal; the padding is still allocated.
// The returned pixmap has a reference count of 1.
func NewCoded(data []byte, size int, codec Codec) *Pixmap {
	if size < 0 {
		panic("pixmap: negative coded size")
	}
	pm := &Pixmap{
		codec: codec,
		size:  size,
		data:  make([]byte, size+InputPadding),
	}
	copy(pm.data[:size], data)
	pm.refs.Store(1)
	return pm
}

// NewRaw creates a pixmap holding a copy of height*stride bytes of raw
// pixels. The returned pixmap has a reference count of 1.
func NewRaw(width, height int, pixels []byte, stride int, format PixelFormat) *Pixmap {
	if width < 0 || height < 0 || stride < 0 {
		panic("pixmap: negative geometry")
	}
	pm := &Pixmap{
		codec:  CodecNone,
		width:  width,
		height: height,
		stride: stride,
		format: format,
		pixels: make([]byte, height*stride),
	}
	copy(pm.pixels, pixels[:min(len(pixels), height*stride)])
	pm.refs.Store(1)
	return pm
}

// Dup registers an additional holder and returns the same pixmap. The
// payload is never copied.
func (pm *Pixmap) Dup() *Pixmap {
	if pm.refs.Add(1) <= 1 {
		panic("pixmap: dup of freed pixmap")
	}
	return pm
}

// Release drops one holder. When the last holder releases, the populated
// payload is freed exactly once.
func (pm *Pixmap) Release() {
	n := pm.refs.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		panic("pixmap: release of freed pixmap")
	}
	if pm.codec == CodecNone {
		pm.pixels = nil
	} else {
		pm.data = nil
	}
	if pm.freeHook != nil {
		pm.freeHook()
	}
}

// Coded reports whether the pixmap carries a coded bitstream rather than
// raw pixels.
func (pm *Pixmap) Coded() bool { return pm.codec != CodecNone }

// Codec returns the bitstream format, CodecNone for raw pixmaps.
func (pm *Pixmap) Codec() Codec { return pm.codec }

// Data returns the coded payload without the trailing padding. It is nil
// for raw pixmaps.
func (pm *Pixmap) Data() []byte {
	if pm.data == nil {
		return nil
	}
	return pm.data[:pm.size]
}

// Size returns the logical coded size in bytes, excluding padding.
func (pm *Pixmap) Size() int { return pm.size }

// Pixels returns the raw pixel plane, nil for coded pixmaps.
func (pm *Pixmap) Pixels() []byte { return pm.pixels }

func (pm *Pixmap) Width() int  { return pm.width }
func (pm *Pixmap) Height() int { return pm.height }
func (pm *Pixmap) Stride() int { return pm.stride }

// PixelFormat returns the raw plane layout. Only meaningful when Coded
// reports false.
func (pm *Pixmap) PixelFormat() PixelFormat { return pm.format }
