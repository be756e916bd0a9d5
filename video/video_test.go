package video

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/decross/errors"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		format       Format
		name         string
		planes       int
		subW, subH   int
		chromaW, chH int
	}{
		{FormatYUV420P8, "YUV420P8", 3, 1, 1, 360, 240},
		{FormatYUV422P8, "YUV422P8", 3, 1, 0, 360, 480},
		{FormatYUV444P8, "YUV444P8", 3, 0, 0, 720, 480},
		{FormatGray8, "Gray8", 1, 0, 0, 720, 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.format.String())
			assert.Equal(t, tt.planes, tt.format.NumPlanes())

			w, h := tt.format.SubSampling()
			assert.Equal(t, tt.subW, w)
			assert.Equal(t, tt.subH, h)

			cw, ch := tt.format.PlaneSize(1, 720, 480)
			assert.Equal(t, tt.chromaW, cw)
			assert.Equal(t, tt.chH, ch)

			parsed, err := ParseFormat(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.format, parsed)
		})
	}

	assert.Equal(t, "unknown", Format(42).String())
	assert.Equal(t, 0, FormatUnknown.NumPlanes())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("yuv422p8")
	require.NoError(t, err)
	assert.Equal(t, FormatYUV422P8, f)

	for _, s := range []string{"", "unknown", "nv12"} {
		_, err := ParseFormat(s)
		assert.True(t, errors.IsUnsupportedFormatError(err), "%q", s)
	}
}

func TestPlaneSizeRoundsUp(t *testing.T) {
	w, h := FormatYUV420P8.PlaneSize(1, 35, 17)
	assert.Equal(t, 18, w)
	assert.Equal(t, 9, h)

	w, h = FormatYUV420P8.PlaneSize(0, 35, 17)
	assert.Equal(t, 35, w)
	assert.Equal(t, 17, h)
}

func TestExpectedFrameSize(t *testing.T) {
	assert.Equal(t, 720*480*3/2, ExpectedFrameSize(720, 480, FormatYUV420P8))
	assert.Equal(t, 720*480*2, ExpectedFrameSize(720, 480, FormatYUV422P8))
	assert.Equal(t, 720*480, ExpectedFrameSize(720, 480, FormatGray8))
	assert.Equal(t, 35*17+2*18*9, ExpectedFrameSize(35, 17, FormatYUV420P8))
	assert.Zero(t, ExpectedFrameSize(720, 480, FormatUnknown))
}

func TestNewFrame(t *testing.T) {
	f, err := NewFrame(FormatYUV420P8, 35, 17)
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	assert.Equal(t, 35, f.Width())
	assert.Equal(t, 17, f.Height())
	for p := 0; p < 3; p++ {
		pl := f.Planes[p]
		assert.Zero(t, pl.Stride%strideAlignment, "plane %d", p)
		assert.GreaterOrEqual(t, pl.Stride, pl.Width)
	}
	assert.Len(t, f.Planes[1].Row(8), 18)

	_, err = NewFrame(FormatUnknown, 16, 16)
	assert.True(t, errors.IsUnsupportedFormatError(err))
	_, err = NewFrame(FormatYUV420P8, 0, 16)
	assert.True(t, errors.IsUnsupportedFormatError(err))
}

func TestRowIsCapped(t *testing.T) {
	f, err := NewFrame(FormatGray8, 10, 2)
	require.NoError(t, err)

	row := f.Planes[0].Row(0)
	assert.Equal(t, 10, cap(row))
	_ = append(row, 99)
	assert.Equal(t, byte(0), f.Planes[0].Data[10], "append must not spill into padding")
}

func TestCloneAndEqual(t *testing.T) {
	f, err := NewFrame(FormatYUV422P8, 20, 6)
	require.NoError(t, err)
	f.Index = 7
	f.Planes[0].Row(3)[4] = 200
	f.Planes[2].Row(5)[9] = 17
	f.Planes[1].Data[f.Planes[1].Width] = 55 // padding

	c := f.Clone()
	assert.Equal(t, 7, c.Index)
	assert.True(t, c.Equal(f))
	assert.True(t, f.SameGeometry(c))

	c.Planes[2].Row(5)[9] = 18
	assert.False(t, c.Equal(f))
	assert.Equal(t, byte(17), f.Planes[2].Row(5)[9], "clone must not share storage")

	// padding differences are ignored
	d := f.Clone()
	d.Planes[1].Data[d.Planes[1].Width] = 0
	assert.True(t, d.Equal(f))

	other, err := NewFrame(FormatYUV420P8, 20, 6)
	require.NoError(t, err)
	assert.False(t, f.SameGeometry(other))
	assert.False(t, f.Equal(other))
	assert.False(t, f.SameGeometry(nil))
}

func TestValidate(t *testing.T) {
	f, err := NewFrame(FormatYUV420P8, 16, 8)
	require.NoError(t, err)

	short := f.Clone()
	short.Planes[2].Data = short.Planes[2].Data[:10]
	assert.True(t, errors.IsGeometryMismatchError(short.Validate()))

	narrow := f.Clone()
	narrow.Planes[0].Stride = 4
	assert.True(t, errors.IsGeometryMismatchError(narrow.Validate()))

	var nilFrame *Frame
	assert.True(t, errors.IsGeometryMismatchError(nilFrame.Validate()))
}

func TestMemoryClip(t *testing.T) {
	a, _ := NewFrame(FormatYUV420P8, 16, 8)
	b, _ := NewFrame(FormatYUV420P8, 16, 8)

	clip, err := NewMemoryClip([]*Frame{a, b})
	require.NoError(t, err)
	assert.Equal(t, Info{Format: FormatYUV420P8, Width: 16, Height: 8, NumFrames: 2}, clip.Info())

	got, err := clip.Frame(context.Background(), 1)
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = clip.Frame(context.Background(), 2)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = clip.Frame(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewMemoryClipRejects(t *testing.T) {
	_, err := NewMemoryClip(nil)
	assert.True(t, errors.IsInvalidConfigError(err))

	a, _ := NewFrame(FormatYUV420P8, 16, 8)
	b, _ := NewFrame(FormatYUV420P8, 16, 10)
	_, err = NewMemoryClip([]*Frame{a, b})
	assert.True(t, errors.IsGeometryMismatchError(err))
}

func TestInfoMatches(t *testing.T) {
	f, _ := NewFrame(FormatYUV422P8, 16, 8)
	info := InfoOf(f)
	assert.True(t, info.Matches(f))
	assert.False(t, info.Matches(nil))

	info.Height = 9
	assert.False(t, info.Matches(f))
}
