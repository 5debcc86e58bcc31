package pixmap

import (
	"bytes"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoded(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02}
	pm := NewCoded(data, len(data), CodecJPEG)

	assert.True(t, pm.Coded())
	assert.Equal(t, CodecJPEG, pm.Codec())
	assert.Equal(t, 3, pm.Size())
	assert.Equal(t, data, pm.Data())
	assert.Nil(t, pm.Pixels())

	// Padding is allocated and zero-filled behind the logical size.
	require.Len(t, pm.data, 3+InputPadding)
	assert.Equal(t, make([]byte, InputPadding), pm.data[3:])

	pm.Release()
}

func TestNewCoded_ZeroSize(t *testing.T) {
	pm := NewCoded(nil, 0, CodecPNG)
	assert.Equal(t, 0, pm.Size())
	assert.Empty(t, pm.Data())
	require.Len(t, pm.data, InputPadding)
	pm.Release()
}

func TestNewCoded_FreesCodedPathOnly(t *testing.T) {
	pm := NewCoded([]byte{0x00, 0x01, 0x02}, 3, CodecJPEG)
	freed := 0
	pm.freeHook = func() { freed++ }

	pm.Release()

	assert.Equal(t, 1, freed)
	assert.Nil(t, pm.data, "coded allocation freed")
	assert.Nil(t, pm.pixels, "raw plane was never populated")
}

func TestNewRaw_RoundTrip(t *testing.T) {
	const w, h, stride = 3, 2, 10 // stride wider than w*bpp
	pixels := make([]byte, h*stride)
	for i := range pixels {
		pixels[i] = byte(i * 7)
	}

	pm := NewRaw(w, h, pixels, stride, PixelFormatRGB24)
	defer pm.Release()

	assert.False(t, pm.Coded())
	assert.Equal(t, CodecNone, pm.Codec())
	assert.Equal(t, w, pm.Width())
	assert.Equal(t, h, pm.Height())
	assert.Equal(t, stride, pm.Stride())
	assert.Equal(t, PixelFormatRGB24, pm.PixelFormat())
	assert.True(t, bytes.Equal(pixels, pm.Pixels()))

	// The payload is a copy, not an alias.
	pixels[0] = 0xFF
	assert.NotEqual(t, pixels[0], pm.Pixels()[0])
}

func TestNewRaw_ZeroGeometry(t *testing.T) {
	pm := NewRaw(0, 0, nil, 0, PixelFormatGray8)
	assert.Empty(t, pm.Pixels())
	pm.Release()
}

func TestDup_SameIdentity(t *testing.T) {
	pm := NewCoded([]byte{1}, 1, CodecGIF)
	dup := pm.Dup()
	assert.Same(t, pm, dup)
	pm.Release()
	assert.Equal(t, []byte{1}, dup.Data(), "payload survives first release")
	dup.Release()
	assert.Nil(t, dup.Data())
}

func TestDup_ConcurrentRelease_FreesOnce(t *testing.T) {
	for i := 0; i < 100; i++ {
		pm := NewRaw(2, 2, []byte{1, 2, 3, 4}, 2, PixelFormatGray8)
		var freed atomic.Int32
		pm.freeHook = func() { freed.Add(1) }
		pm.Dup()

		var wg sync.WaitGroup
		wg.Add(2)
		for j := 0; j < 2; j++ {
			go func() {
				defer wg.Done()
				pm.Release()
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), freed.Load())
	}
}

func TestRelease_Underflow(t *testing.T) {
	pm := NewCoded(nil, 0, CodecJPEG)
	pm.Release()
	assert.Panics(t, func() { pm.Release() })
	assert.Panics(t, func() { pm.Dup() })
}

func TestCodec_String(t *testing.T) {
	assert.Equal(t, "none", CodecNone.String())
	assert.Equal(t, "jpeg", CodecJPEG.String())
	assert.Equal(t, "codec(99)", Codec(99).String())
}
