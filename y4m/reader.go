package y4m

import (
	"bufio"
	"io"
	"strings"

	"github.com/teranos/decross/errors"
	"github.com/teranos/decross/video"
)

// Reader decodes frames from a YUV4MPEG2 stream
type Reader struct {
	br     *bufio.Reader
	header Header
	info   video.Info
	next   int
}

// NewReader reads and parses the stream header
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(r, 1<<16)

	line, err := readLine(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.WrapMalformedStream(err, "empty stream")
		}
		return nil, err
	}

	h, err := ParseHeader(line)
	if err != nil {
		return nil, err
	}
	info, err := h.Info()
	if err != nil {
		return nil, err
	}

	return &Reader{br: br, header: h, info: info}, nil
}

// Header returns the parsed stream header
func (r *Reader) Header() Header { return r.header }

// Info returns the clip description. NumFrames is zero.
func (r *Reader) Info() video.Info { return r.info }

// ReadFrame decodes the next frame. It returns io.EOF after the last frame.
func (r *Reader) ReadFrame() (*video.Frame, error) {
	line, err := readLine(r.br)
	if err != nil {
		return nil, err
	}
	if line != frameMagic && !strings.HasPrefix(line, frameMagic+" ") {
		return nil, errors.WrapMalformedStream(errors.Newf("expected FRAME, got %q", truncate(line)), "failed to read frame header")
	}

	f, err := video.NewFrame(r.info.Format, r.info.Width, r.info.Height)
	if err != nil {
		return nil, err
	}
	for p := 0; p < f.Format.NumPlanes(); p++ {
		pl := &f.Planes[p]
		for y := 0; y < pl.Height; y++ {
			if _, err := io.ReadFull(r.br, pl.Row(y)); err != nil {
				return nil, errors.WrapMalformedStream(err, "truncated frame")
			}
		}
	}

	f.Index = r.next
	r.next++
	return f, nil
}

// readLine returns the next newline-terminated line without the newline.
// A clean end of stream yields io.EOF.
func readLine(br *bufio.Reader) (string, error) {
	var b strings.Builder
	for {
		c, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && b.Len() == 0 {
				return "", io.EOF
			}
			if err == io.EOF {
				return "", errors.WrapMalformedStream(io.ErrUnexpectedEOF, "unterminated line")
			}
			return "", errors.Wrap(err, "failed to read stream")
		}
		if c == '\n' {
			return b.String(), nil
		}
		if b.Len() >= maxLineSize {
			return "", errors.WrapMalformedStream(errors.Newf("line exceeds %d bytes", maxLineSize), "failed to read line")
		}
		b.WriteByte(c)
	}
}

func truncate(s string) string {
	if len(s) > 32 {
		return s[:32] + "..."
	}
	return s
}
