// Package video provides the planar frame model shared by the decross filter,
// the YUV4MPEG2 container and the processing pipeline.
//
// Only 8-bit planar layouts are modelled. The filter itself accepts
// FormatYUV420P8 and FormatYUV422P8; the remaining formats exist so that
// streams carrying them can be read and rejected with a precise error.
package video

import (
	"strings"

	"github.com/teranos/decross/errors"
)

// Format specifies the pixel layout of a frame
type Format int

const (
	// FormatUnknown is the zero value and never valid for processing
	FormatUnknown Format = iota
	// FormatYUV420P8 is planar YUV, chroma halved horizontally and vertically
	FormatYUV420P8
	// FormatYUV422P8 is planar YUV, chroma halved horizontally only
	FormatYUV422P8
	// FormatYUV444P8 is planar YUV without chroma subsampling
	FormatYUV444P8
	// FormatGray8 is a single luma plane
	FormatGray8
)

var formatNames = map[Format]string{
	FormatUnknown:  "unknown",
	FormatYUV420P8: "YUV420P8",
	FormatYUV422P8: "YUV422P8",
	FormatYUV444P8: "YUV444P8",
	FormatGray8:    "Gray8",
}

// String returns the canonical format name
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat parses a format name case-insensitively ("yuv420p8", "YUV422P8", ...)
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if f != FormatUnknown && strings.EqualFold(name, s) {
			return f, nil
		}
	}
	return FormatUnknown, errors.NewUnsupportedFormatError("unknown pixel format %q", s)
}

// NumPlanes returns how many planes a frame of this format carries
func (f Format) NumPlanes() int {
	switch f {
	case FormatYUV420P8, FormatYUV422P8, FormatYUV444P8:
		return 3
	case FormatGray8:
		return 1
	default:
		return 0
	}
}

// SubSampling returns log2 of the horizontal and vertical chroma subsampling factors
func (f Format) SubSampling() (w, h int) {
	switch f {
	case FormatYUV420P8:
		return 1, 1
	case FormatYUV422P8:
		return 1, 0
	default:
		return 0, 0
	}
}

// PlaneSize returns the dimensions of plane p for a frame of width x height
func (f Format) PlaneSize(p, width, height int) (w, h int) {
	if p == 0 {
		return width, height
	}
	sw, sh := f.SubSampling()
	return (width + (1 << sw) - 1) >> sw, (height + (1 << sh) - 1) >> sh
}

// ExpectedFrameSize returns the packed (stride == width) byte size of one frame.
// This is a helper that doesn't require a frame instance.
func ExpectedFrameSize(width, height int, format Format) int {
	size := 0
	for p := 0; p < format.NumPlanes(); p++ {
		w, h := format.PlaneSize(p, width, height)
		size += w * h
	}
	return size
}
