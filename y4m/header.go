// Package y4m reads and writes YUV4MPEG2 streams.
//
// A stream is a single header line followed by frames, each introduced by a
// FRAME line and holding the planes back to back with no padding:
//
//	YUV4MPEG2 W720 H480 F30000:1001 It A10:11 C420jpeg\n
//	FRAME\n<Y plane><U plane><V plane>
//
// Only 8-bit colorspaces are supported.
package y4m

import (
	"strconv"
	"strings"

	"github.com/teranos/decross/errors"
	"github.com/teranos/decross/video"
)

const (
	magic       = "YUV4MPEG2"
	frameMagic  = "FRAME"
	maxLineSize = 4096

	// maxDimension bounds W and H
	maxDimension = 1 << 16
	// maxFrameBytes bounds the packed size of one frame
	maxFrameBytes = 1 << 28
)

// Header holds the stream parameters
type Header struct {
	Width  int
	Height int
	// FPSNum and FPSDen are zero when the stream does not carry F
	FPSNum int
	FPSDen int
	// Interlace is the I tag value: "p", "t", "b", "m", "?" or empty
	Interlace string
	// AspectNum and AspectDen hold the A tag; HasAspect is false when the
	// stream does not carry one. A0:0 marks an unknown aspect ratio.
	AspectNum int
	AspectDen int
	HasAspect bool
	// Colorspace is the C tag value, e.g. "420jpeg"; empty means 4:2:0
	Colorspace string
	// Extra holds X tags and unrecognised tags verbatim
	Extra []string
}

var colorspaces = map[string]video.Format{
	"":         video.FormatYUV420P8,
	"420":      video.FormatYUV420P8,
	"420jpeg":  video.FormatYUV420P8,
	"420mpeg2": video.FormatYUV420P8,
	"420paldv": video.FormatYUV420P8,
	"422":      video.FormatYUV422P8,
	"444":      video.FormatYUV444P8,
	"mono":     video.FormatGray8,
}

// Format maps the colorspace tag to a pixel format
func (h Header) Format() (video.Format, error) {
	f, ok := colorspaces[h.Colorspace]
	if !ok {
		return video.FormatUnknown, errors.WithHint(
			errors.NewUnsupportedFormatError("unsupported y4m colorspace C%s", h.Colorspace),
			"supported colorspaces: 420, 420jpeg, 420mpeg2, 420paldv, 422, 444, mono")
	}
	return f, nil
}

// Info returns the clip description for the stream. NumFrames is zero
// because a stream does not announce its length.
func (h Header) Info() (video.Info, error) {
	f, err := h.Format()
	if err != nil {
		return video.Info{}, err
	}
	return video.Info{
		Format:    f,
		Width:     h.Width,
		Height:    h.Height,
		FPSNum:    h.FPSNum,
		FPSDen:    h.FPSDen,
		Interlace: h.Interlace,
	}, nil
}

// HeaderFor builds a header describing info
func HeaderFor(info video.Info) (Header, error) {
	h := Header{
		Width:     info.Width,
		Height:    info.Height,
		FPSNum:    info.FPSNum,
		FPSDen:    info.FPSDen,
		Interlace: info.Interlace,
	}
	switch info.Format {
	case video.FormatYUV420P8:
		h.Colorspace = "420jpeg"
	case video.FormatYUV422P8:
		h.Colorspace = "422"
	case video.FormatYUV444P8:
		h.Colorspace = "444"
	case video.FormatGray8:
		h.Colorspace = "mono"
	default:
		return Header{}, errors.NewUnsupportedFormatError("cannot describe %s as y4m", info.Format)
	}
	return h, nil
}

// String renders the header line without the trailing newline
func (h Header) String() string {
	var b strings.Builder
	b.WriteString(magic)
	b.WriteString(" W")
	b.WriteString(strconv.Itoa(h.Width))
	b.WriteString(" H")
	b.WriteString(strconv.Itoa(h.Height))
	if h.FPSDen != 0 {
		b.WriteString(" F" + strconv.Itoa(h.FPSNum) + ":" + strconv.Itoa(h.FPSDen))
	}
	if h.Interlace != "" {
		b.WriteString(" I" + h.Interlace)
	}
	if h.HasAspect || h.AspectDen != 0 {
		b.WriteString(" A" + strconv.Itoa(h.AspectNum) + ":" + strconv.Itoa(h.AspectDen))
	}
	if h.Colorspace != "" {
		b.WriteString(" C" + h.Colorspace)
	}
	for _, x := range h.Extra {
		b.WriteString(" " + x)
	}
	return b.String()
}

// ParseHeader parses a header line (with or without the trailing newline)
func ParseHeader(line string) (Header, error) {
	fields := strings.Fields(strings.TrimSuffix(line, "\n"))
	if len(fields) == 0 || fields[0] != magic {
		return Header{}, errors.WrapMalformedStream(errors.New("missing YUV4MPEG2 signature"), "failed to parse header")
	}

	var h Header
	var err error
	for _, tag := range fields[1:] {
		val := tag[1:]
		switch tag[0] {
		case 'W':
			h.Width, err = parseDimension(val)
		case 'H':
			h.Height, err = parseDimension(val)
		case 'F':
			h.FPSNum, h.FPSDen, err = parseRatio(val)
		case 'A':
			h.AspectNum, h.AspectDen, err = parseRatio(val)
			h.HasAspect = true
		case 'I':
			h.Interlace = val
			if val != "p" && val != "t" && val != "b" && val != "m" && val != "?" {
				err = errors.Newf("unknown interlace mode %q", val)
			}
		case 'C':
			h.Colorspace = val
		default:
			h.Extra = append(h.Extra, tag)
		}
		if err != nil {
			return Header{}, errors.WrapMalformedStream(err, "failed to parse header tag "+tag)
		}
	}

	if h.Width == 0 || h.Height == 0 {
		return Header{}, errors.WrapMalformedStream(errors.New("header must carry W and H"), "failed to parse header")
	}
	if f, err := h.Format(); err == nil {
		if size := video.ExpectedFrameSize(h.Width, h.Height, f); size > maxFrameBytes {
			return Header{}, errors.WrapMalformedStream(
				errors.Newf("%dx%d %s frames need %d bytes, limit is %d", h.Width, h.Height, f, size, maxFrameBytes),
				"failed to parse header")
		}
	}
	return h, nil
}

func parseDimension(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid number %q", s)
	}
	if n <= 0 || n > maxDimension {
		return 0, errors.Newf("dimension must be between 1 and %d, got %d", maxDimension, n)
	}
	return n, nil
}

func parseRatio(s string) (int, int, error) {
	num, den, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, errors.Newf("invalid ratio %q", s)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid ratio %q", s)
	}
	d, err := strconv.Atoi(den)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid ratio %q", s)
	}
	if n < 0 || d < 0 {
		return 0, 0, errors.Newf("invalid ratio %q", s)
	}
	return n, d, nil
}
