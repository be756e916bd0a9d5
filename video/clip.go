package video

import (
	"context"

	"github.com/teranos/decross/errors"
)

// Info describes a clip with constant format and dimensions
type Info struct {
	Format    Format
	Width     int
	Height    int
	NumFrames int
	// FPSNum and FPSDen give the frame rate as a ratio (0/0 when unknown)
	FPSNum int
	FPSDen int
	// Interlace is the field order tag as carried by the container ("t", "b", "p", "m", "?" or "")
	Interlace string
}

// InfoOf returns the Info describing a single frame's geometry
func InfoOf(f *Frame) Info {
	return Info{Format: f.Format, Width: f.Width(), Height: f.Height()}
}

// Matches reports whether f has the format and dimensions described by i
func (i Info) Matches(f *Frame) bool {
	return f != nil && f.Format == i.Format && f.Width() == i.Width && f.Height() == i.Height
}

// Clip is a random-access sequence of frames
type Clip interface {
	Info() Info
	Frame(ctx context.Context, n int) (*Frame, error)
}

// MemoryClip is a Clip backed by frames held in memory
type MemoryClip struct {
	info   Info
	frames []*Frame
}

// NewMemoryClip builds a clip from frames sharing one geometry
func NewMemoryClip(frames []*Frame) (*MemoryClip, error) {
	if len(frames) == 0 {
		return nil, errors.NewInvalidConfigError("clip must contain at least one frame")
	}
	info := InfoOf(frames[0])
	for i, f := range frames {
		if !info.Matches(f) {
			return nil, errors.NewGeometryMismatchError("frame %d is %s %dx%d, clip is %s %dx%d",
				i, f.Format, f.Width(), f.Height(), info.Format, info.Width, info.Height)
		}
	}
	info.NumFrames = len(frames)
	return &MemoryClip{info: info, frames: frames}, nil
}

// Info returns the clip description
func (c *MemoryClip) Info() Info { return c.info }

// Frame returns frame n
func (c *MemoryClip) Frame(ctx context.Context, n int) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 0 || n >= len(c.frames) {
		return nil, errors.Newf("frame %d out of range [0, %d)", n, len(c.frames))
	}
	return c.frames[n], nil
}
