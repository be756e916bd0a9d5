package y4m

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/decross/errors"
	dxtest "github.com/teranos/decross/internal/testing"
	"github.com/teranos/decross/video"
)

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader("YUV4MPEG2 W720 H480 F30000:1001 It A10:11 C420jpeg XYSCSS=420JPEG\n")
	require.NoError(t, err)

	assert.Equal(t, Header{
		Width:      720,
		Height:     480,
		FPSNum:     30000,
		FPSDen:     1001,
		Interlace:  "t",
		AspectNum:  10,
		AspectDen:  11,
		HasAspect:  true,
		Colorspace: "420jpeg",
		Extra:      []string{"XYSCSS=420JPEG"},
	}, h)
	assert.Equal(t, "YUV4MPEG2 W720 H480 F30000:1001 It A10:11 C420jpeg XYSCSS=420JPEG", h.String())
}

func TestParseHeaderMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"wrong signature", "YUV4MPEG W64 H32"},
		{"missing width", "YUV4MPEG2 H32"},
		{"missing height", "YUV4MPEG2 W64"},
		{"bad width", "YUV4MPEG2 Wabc H32"},
		{"zero height", "YUV4MPEG2 W64 H0"},
		{"bad rate", "YUV4MPEG2 W64 H32 F25"},
		{"bad aspect", "YUV4MPEG2 W64 H32 A1:x"},
		{"bad interlace", "YUV4MPEG2 W64 H32 Iz"},
		{"huge dimensions", "YUV4MPEG2 W2000000000 H2000000000 C420jpeg"},
		{"width over limit", "YUV4MPEG2 W65537 H32"},
		{"negative width", "YUV4MPEG2 W-64 H32"},
		{"frame over size limit", "YUV4MPEG2 W65536 H65536 C444"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(tt.line)
			require.Error(t, err)
			assert.True(t, errors.IsMalformedStreamError(err), "got %v", err)
		})
	}
}

func TestParseHeaderAcceptsLimits(t *testing.T) {
	h, err := ParseHeader("YUV4MPEG2 W65536 H2048 C420jpeg")
	require.NoError(t, err)
	assert.Equal(t, 65536, h.Width)
}

func TestHugeHeaderIsMalformedNotFatal(t *testing.T) {
	_, err := NewReader(strings.NewReader("YUV4MPEG2 W2000000000 H2000000000 C420jpeg\nFRAME\n"))
	require.Error(t, err)
	assert.True(t, errors.IsMalformedStreamError(err), "got %v", err)
}

func TestUnknownAspectRoundTrips(t *testing.T) {
	h, err := ParseHeader("YUV4MPEG2 W64 H32 Ib A0:0 C422")
	require.NoError(t, err)
	assert.True(t, h.HasAspect)
	assert.Equal(t, "YUV4MPEG2 W64 H32 Ib A0:0 C422", h.String())

	h, err = ParseHeader("YUV4MPEG2 W64 H32 I? C422")
	require.NoError(t, err)
	assert.False(t, h.HasAspect)
	assert.Equal(t, "?", h.Interlace)
	assert.Equal(t, "YUV4MPEG2 W64 H32 I? C422", h.String())
}

func TestHeaderFormat(t *testing.T) {
	tests := []struct {
		colorspace string
		want       video.Format
	}{
		{"", video.FormatYUV420P8},
		{"420", video.FormatYUV420P8},
		{"420jpeg", video.FormatYUV420P8},
		{"420mpeg2", video.FormatYUV420P8},
		{"420paldv", video.FormatYUV420P8},
		{"422", video.FormatYUV422P8},
		{"444", video.FormatYUV444P8},
		{"mono", video.FormatGray8},
	}
	for _, tt := range tests {
		f, err := Header{Colorspace: tt.colorspace}.Format()
		require.NoError(t, err)
		assert.Equal(t, tt.want, f, "C%s", tt.colorspace)
	}

	_, err := Header{Colorspace: "420p10"}.Format()
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedFormatError(err))
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []video.Format{video.FormatYUV420P8, video.FormatYUV422P8, video.FormatGray8} {
		t.Run(format.String(), func(t *testing.T) {
			h, err := HeaderFor(video.Info{Format: format, Width: 35, Height: 17, FPSNum: 25, FPSDen: 1, Interlace: "b"})
			require.NoError(t, err)
			h.Extra = []string{"XCOLORRANGE=LIMITED"}

			frames := []*video.Frame{
				dxtest.RandomFrame(t, format, 35, 17, 1),
				dxtest.RandomFrame(t, format, 35, 17, 2),
				dxtest.RandomFrame(t, format, 35, 17, 3),
			}

			var buf bytes.Buffer
			w, err := NewWriter(&buf, h)
			require.NoError(t, err)
			for _, f := range frames {
				require.NoError(t, w.WriteFrame(f))
			}
			require.NoError(t, w.Flush())

			assert.Equal(t, len(h.String())+1+3*(len("FRAME\n")+video.ExpectedFrameSize(35, 17, format)), buf.Len())

			r, err := NewReader(&buf)
			require.NoError(t, err)
			assert.Equal(t, h, r.Header())
			assert.Equal(t, format, r.Info().Format)
			assert.Equal(t, "b", r.Info().Interlace)

			for i, want := range frames {
				got, err := r.ReadFrame()
				require.NoError(t, err)
				assert.Equal(t, i, got.Index)
				assert.True(t, want.Equal(got), "frame %d", i)
			}
			_, err = r.ReadFrame()
			assert.Equal(t, io.EOF, err)
		})
	}
}

func TestReaderAcceptsFrameParameters(t *testing.T) {
	stream := "YUV4MPEG2 W4 H2 Cmono\nFRAME Ixyz\nabcdefgh"
	r, err := NewReader(strings.NewReader(stream))
	require.NoError(t, err)

	f, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), f.Planes[0].Row(0))
	assert.Equal(t, []byte("efgh"), f.Planes[0].Row(1))
}

func TestReaderMalformed(t *testing.T) {
	tests := []struct {
		name   string
		stream string
	}{
		{"truncated frame", "YUV4MPEG2 W4 H2 Cmono\nFRAME\nabc"},
		{"missing frame marker", "YUV4MPEG2 W4 H2 Cmono\nFRAMX\nabcdefgh"},
		{"unterminated frame line", "YUV4MPEG2 W4 H2 Cmono\nFRA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(strings.NewReader(tt.stream))
			require.NoError(t, err)

			_, err = r.ReadFrame()
			require.Error(t, err)
			assert.True(t, errors.IsMalformedStreamError(err), "got %v", err)
		})
	}

	_, err := NewReader(strings.NewReader(""))
	assert.True(t, errors.IsMalformedStreamError(err))

	_, err = NewReader(strings.NewReader(strings.Repeat("x", maxLineSize+10)))
	assert.True(t, errors.IsMalformedStreamError(err))
}

func TestWriterRejectsMismatchedFrame(t *testing.T) {
	h, err := HeaderFor(video.Info{Format: video.FormatYUV420P8, Width: 16, Height: 8})
	require.NoError(t, err)

	w, err := NewWriter(io.Discard, h)
	require.NoError(t, err)

	err = w.WriteFrame(dxtest.NewFrame(t, video.FormatYUV422P8, 16, 8))
	assert.True(t, errors.IsGeometryMismatchError(err))
	err = w.WriteFrame(nil)
	assert.True(t, errors.IsGeometryMismatchError(err))
}

func TestHeaderForRejectsUnknownFormat(t *testing.T) {
	_, err := HeaderFor(video.Info{Format: video.FormatUnknown, Width: 16, Height: 8})
	assert.True(t, errors.IsUnsupportedFormatError(err))
}
