package pipeline

import (
	"context"
	"io"

	"github.com/teranos/decross/video"
)

// FrameSource yields frames in display order and io.EOF after the last one.
// y4m.Reader implements it.
type FrameSource interface {
	Info() video.Info
	ReadFrame() (*video.Frame, error)
}

// FrameSink consumes frames in display order. y4m.Writer implements it.
type FrameSink interface {
	WriteFrame(f *video.Frame) error
}

// ClipSource reads a video.Clip front to back
type ClipSource struct {
	ctx  context.Context
	clip video.Clip
	next int
}

// NewClipSource returns a FrameSource over clip
func NewClipSource(ctx context.Context, clip video.Clip) *ClipSource {
	return &ClipSource{ctx: ctx, clip: clip}
}

// Info returns the clip description
func (s *ClipSource) Info() video.Info { return s.clip.Info() }

// ReadFrame returns the next frame of the clip
func (s *ClipSource) ReadFrame() (*video.Frame, error) {
	if s.next >= s.clip.Info().NumFrames {
		return nil, io.EOF
	}
	f, err := s.clip.Frame(s.ctx, s.next)
	if err != nil {
		return nil, err
	}
	s.next++
	return f, nil
}

// MemorySink collects frames in memory
type MemorySink struct {
	Frames []*video.Frame
}

// WriteFrame appends f
func (s *MemorySink) WriteFrame(f *video.Frame) error {
	s.Frames = append(s.Frames, f)
	return nil
}
