package testing

import (
	"math/rand"
	"testing"

	"github.com/teranos/decross/video"
)

// NewFrame allocates a zeroed frame, failing the test on error.
func NewFrame(t testing.TB, format video.Format, width, height int) *video.Frame {
	t.Helper()

	f, err := video.NewFrame(format, width, height)
	if err != nil {
		t.Fatalf("Failed to allocate %s %dx%d frame: %v", format, width, height, err)
	}
	return f
}

// FillPlane sets every visible sample of plane p to fn(x, y).
func FillPlane(f *video.Frame, p int, fn func(x, y int) byte) {
	pl := &f.Planes[p]
	for y := 0; y < pl.Height; y++ {
		row := pl.Row(y)
		for x := range row {
			row[x] = fn(x, y)
		}
	}
}

// FillConstant sets all luma samples to y and all chroma samples to u and v.
func FillConstant(f *video.Frame, y, u, v byte) {
	FillPlane(f, 0, func(int, int) byte { return y })
	FillPlane(f, 1, func(int, int) byte { return u })
	FillPlane(f, 2, func(int, int) byte { return v })
}

// FillRandom fills every plane with samples drawn from rng.
func FillRandom(f *video.Frame, rng *rand.Rand) {
	for p := 0; p < f.Format.NumPlanes(); p++ {
		FillPlane(f, p, func(int, int) byte { return byte(rng.Intn(256)) })
	}
}

// RandomFrame returns a frame filled with reproducible noise.
func RandomFrame(t testing.TB, format video.Format, width, height int, seed int64) *video.Frame {
	t.Helper()

	f := NewFrame(t, format, width, height)
	FillRandom(f, rand.New(rand.NewSource(seed)))
	return f
}

// StripedFrame returns a frame whose luma rows repeat a hard 16-sample
// light/dark pattern, which trips the edge detector every few columns.
// Chroma is reproducible noise.
func StripedFrame(t testing.TB, format video.Format, width, height int, seed int64) *video.Frame {
	t.Helper()

	f := RandomFrame(t, format, width, height, seed)
	ramp := []byte{16, 16, 16, 16, 16, 16, 60, 120, 180, 235, 235, 235, 235, 235, 180, 100}
	FillPlane(f, 0, func(x, y int) byte { return ramp[(x+y)%len(ramp)] })
	return f
}

// Clip wraps frames in a MemoryClip, failing the test on error.
func Clip(t testing.TB, frames ...*video.Frame) *video.MemoryClip {
	t.Helper()

	c, err := video.NewMemoryClip(frames)
	if err != nil {
		t.Fatalf("Failed to build clip: %v", err)
	}
	return c
}

// StripedClip returns n striped frames with distinct chroma noise.
func StripedClip(t testing.TB, format video.Format, width, height, n int) *video.MemoryClip {
	t.Helper()

	frames := make([]*video.Frame, n)
	for i := range frames {
		frames[i] = StripedFrame(t, format, width, height, int64(i+1))
		frames[i].Index = i
	}
	return Clip(t, frames...)
}
