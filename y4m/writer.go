package y4m

import (
	"bufio"
	"io"

	"github.com/teranos/decross/errors"
	"github.com/teranos/decross/video"
)

// Writer encodes frames into a YUV4MPEG2 stream
type Writer struct {
	bw     *bufio.Writer
	header Header
	info   video.Info
}

// NewWriter writes the header for h and returns a writer for frames of
// that geometry.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	info, err := h.Info()
	if err != nil {
		return nil, err
	}
	if h.Width <= 0 || h.Height <= 0 {
		return nil, errors.NewUnsupportedFormatError("y4m dimensions must be positive, got %dx%d", h.Width, h.Height)
	}

	bw := bufio.NewWriterSize(w, 1<<16)
	if _, err := bw.WriteString(h.String() + "\n"); err != nil {
		return nil, errors.Wrap(err, "failed to write y4m header")
	}
	return &Writer{bw: bw, header: h, info: info}, nil
}

// WriteFrame encodes f, which must match the stream geometry
func (w *Writer) WriteFrame(f *video.Frame) error {
	if !w.info.Matches(f) {
		if f == nil {
			return errors.NewGeometryMismatchError("cannot write nil frame")
		}
		return errors.NewGeometryMismatchError("frame is %s %dx%d, stream is %s %dx%d",
			f.Format, f.Width(), f.Height(), w.info.Format, w.info.Width, w.info.Height)
	}

	if _, err := w.bw.WriteString(frameMagic + "\n"); err != nil {
		return errors.Wrap(err, "failed to write frame header")
	}
	for p := 0; p < f.Format.NumPlanes(); p++ {
		pl := &f.Planes[p]
		for y := 0; y < pl.Height; y++ {
			if _, err := w.bw.Write(pl.Row(y)); err != nil {
				return errors.Wrapf(err, "failed to write frame %d", f.Index)
			}
		}
	}
	return nil
}

// Flush writes any buffered data to the underlying writer
func (w *Writer) Flush() error {
	if err := w.bw.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush y4m stream")
	}
	return nil
}
