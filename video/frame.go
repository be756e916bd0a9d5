package video

import (
	"github.com/teranos/decross/errors"
)

// strideAlignment matches the row alignment video hosts use for SIMD-friendly planes
const strideAlignment = 32

// Plane is one 2-D sample plane. Row y occupies Data[y*Stride : y*Stride+Width].
type Plane struct {
	Data   []byte
	Stride int
	Width  int
	Height int
}

// Row returns the visible samples of row y
func (p *Plane) Row(y int) []byte {
	off := y * p.Stride
	return p.Data[off : off+p.Width : off+p.Width]
}

// Frame is a planar 8-bit frame. Planes beyond Format.NumPlanes() are empty.
//
// Frames handed to the filter are treated as immutable; the filter writes
// only to frames it allocated itself.
type Frame struct {
	Format Format
	Planes [3]Plane
	// Index is the position of the frame in its clip
	Index int
}

// NewFrame allocates a zeroed frame with aligned strides
func NewFrame(format Format, width, height int) (*Frame, error) {
	if format.NumPlanes() == 0 {
		return nil, errors.NewUnsupportedFormatError("cannot allocate frame of format %s", format)
	}
	if width <= 0 || height <= 0 {
		return nil, errors.NewUnsupportedFormatError("frame dimensions must be positive, got %dx%d", width, height)
	}

	f := &Frame{Format: format}
	for p := 0; p < format.NumPlanes(); p++ {
		w, h := format.PlaneSize(p, width, height)
		stride := (w + strideAlignment - 1) &^ (strideAlignment - 1)
		f.Planes[p] = Plane{
			Data:   make([]byte, stride*h),
			Stride: stride,
			Width:  w,
			Height: h,
		}
	}
	return f, nil
}

// Width returns the luma width
func (f *Frame) Width() int { return f.Planes[0].Width }

// Height returns the luma height
func (f *Frame) Height() int { return f.Planes[0].Height }

// Clone returns a deep copy with the same strides
func (f *Frame) Clone() *Frame {
	c := &Frame{Format: f.Format, Index: f.Index}
	for p := 0; p < f.Format.NumPlanes(); p++ {
		src := f.Planes[p]
		data := make([]byte, len(src.Data))
		copy(data, src.Data)
		c.Planes[p] = Plane{Data: data, Stride: src.Stride, Width: src.Width, Height: src.Height}
	}
	return c
}

// SameGeometry reports whether o has the same format and plane dimensions.
// Strides may differ.
func (f *Frame) SameGeometry(o *Frame) bool {
	if f == nil || o == nil || f.Format != o.Format {
		return false
	}
	for p := 0; p < f.Format.NumPlanes(); p++ {
		if f.Planes[p].Width != o.Planes[p].Width || f.Planes[p].Height != o.Planes[p].Height {
			return false
		}
	}
	return true
}

// Equal reports whether o carries identical visible samples (padding is ignored)
func (f *Frame) Equal(o *Frame) bool {
	if !f.SameGeometry(o) {
		return false
	}
	for p := 0; p < f.Format.NumPlanes(); p++ {
		a, b := &f.Planes[p], &o.Planes[p]
		for y := 0; y < a.Height; y++ {
			if string(a.Row(y)) != string(b.Row(y)) {
				return false
			}
		}
	}
	return true
}

// Validate checks that every plane is large enough for its stride and dimensions
func (f *Frame) Validate() error {
	if f == nil {
		return errors.NewGeometryMismatchError("nil frame")
	}
	for p := 0; p < f.Format.NumPlanes(); p++ {
		pl := f.Planes[p]
		if pl.Width <= 0 || pl.Height <= 0 || pl.Stride < pl.Width {
			return errors.NewGeometryMismatchError("plane %d has invalid geometry %dx%d stride %d", p, pl.Width, pl.Height, pl.Stride)
		}
		if len(pl.Data) < (pl.Height-1)*pl.Stride+pl.Width {
			return errors.NewGeometryMismatchError("plane %d holds %d bytes, need %d", p, len(pl.Data), (pl.Height-1)*pl.Stride+pl.Width)
		}
	}
	return nil
}
