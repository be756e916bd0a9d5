package decross

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/decross/errors"
	"github.com/teranos/decross/logger"
	"github.com/teranos/decross/video"
)

// Filter removes cross-color from one clip geometry
type Filter struct {
	params Params
	info   video.Info
	kernel Kernel
	sad    sadFunc
	logger *zap.SugaredLogger
}

// Option configures a Filter
type Option func(*Filter)

// WithKernel selects the patch difference implementation
func WithKernel(k Kernel) Option {
	return func(f *Filter) { f.kernel = k }
}

// WithLogger replaces the component logger used for per-frame debug output
func WithLogger(l *zap.SugaredLogger) Option {
	return func(f *Filter) {
		if l != nil {
			f.logger = l
		}
	}
}

// Stats counts the work done on one or more frames
type Stats struct {
	Frames          int `json:"frames"`
	Passthrough     int `json:"passthrough"`
	RowsScanned     int `json:"rows_scanned"`
	// ColumnsFlagged counts flagged columns in [4, width-4) of scanned rows
	ColumnsFlagged  int `json:"columns_flagged"`
	GroupsCorrected int `json:"groups_corrected"`
	Substitutions   int `json:"substitutions"`
	ColumnsBlended  int `json:"columns_blended"`
	ColumnsPainted  int `json:"columns_painted"`
}

// Add accumulates o into s
func (s *Stats) Add(o Stats) {
	s.Frames += o.Frames
	s.Passthrough += o.Passthrough
	s.RowsScanned += o.RowsScanned
	s.ColumnsFlagged += o.ColumnsFlagged
	s.GroupsCorrected += o.GroupsCorrected
	s.Substitutions += o.Substitutions
	s.ColumnsBlended += o.ColumnsBlended
	s.ColumnsPainted += o.ColumnsPainted
}

// Result is a processed frame and the work done on it
type Result struct {
	Frame *video.Frame
	Stats Stats
}

// New validates params and info and returns a Filter for clips of that geometry
func New(params Params, info video.Info, opts ...Option) (*Filter, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateInfo(info); err != nil {
		return nil, err
	}

	f := &Filter{
		params: params,
		info:   info,
		kernel: KernelPacked,
		logger: logger.ComponentLogger("decross"),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.sad = f.kernel.sad()
	return f, nil
}

// Params returns the filter parameters
func (f *Filter) Params() Params { return f.params }

// Info returns the clip geometry the filter accepts
func (f *Filter) Info() video.Info { return f.info }

// IsBoundary reports whether frame n of a clip with numFrames frames is
// passed through unmodified.
func IsBoundary(n, numFrames int) bool {
	return n <= 0 || n >= numFrames-1
}

// Frame produces output frame n of clip. Boundary frames are returned as is;
// every other frame is processed with its neighbours n-1 and n+1.
func (f *Filter) Frame(ctx context.Context, n int, clip video.Clip) (*video.Frame, error) {
	info := clip.Info()
	cur, err := clip.Frame(ctx, n)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch frame %d", n)
	}
	if IsBoundary(n, info.NumFrames) {
		return cur, nil
	}

	prev, err := clip.Frame(ctx, n-1)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch frame %d", n-1)
	}
	next, err := clip.Frame(ctx, n+1)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch frame %d", n+1)
	}

	res, err := f.ProcessFrame(prev, cur, next)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to process frame %d", n)
	}
	res.Frame.Index = n
	f.logger.Debugw("Processed frame",
		logger.FieldFrame, n,
		logger.FieldColumnsFlagged, res.Stats.ColumnsFlagged,
		logger.FieldGroupsCorrected, res.Stats.GroupsCorrected,
		logger.FieldSubstitutions, res.Stats.Substitutions)
	return res.Frame, nil
}

func (f *Filter) checkFrames(frames *[numSlots]*video.Frame) error {
	names := [numSlots]string{"previous", "current", "next"}
	for s, fr := range frames {
		if fr == nil {
			return errors.NewGeometryMismatchError("%s frame is nil", names[s])
		}
		if !f.info.Matches(fr) {
			return errors.NewGeometryMismatchError("%s frame is %s %dx%d, filter expects %s %dx%d",
				names[s], fr.Format, fr.Width(), fr.Height(), f.info.Format, f.info.Width, f.info.Height)
		}
		if err := fr.Validate(); err != nil {
			return errors.Wrapf(err, "%s frame", names[s])
		}
	}
	return nil
}

// ProcessFrame corrects cur using prev and next as temporal neighbours. The
// inputs are not modified; the result holds a new frame.
func (f *Filter) ProcessFrame(prev, cur, next *video.Frame) (*Result, error) {
	frames := [numSlots]*video.Frame{prev, cur, next}
	if err := f.checkFrames(&frames); err != nil {
		return nil, err
	}

	dst := cur.Clone()
	res := &Result{Frame: dst, Stats: Stats{Frames: 1}}

	_, subH := f.info.Format.SubSampling()
	skip := 1 << subH
	widthU := cur.Planes[1].Width
	heightU := cur.Planes[1].Height

	mask := make([]byte, widthU)
	var w window

	for i, nY := 0, heightU-skip; nY > skip; i, nY = i+1, nY-1 {
		chromaY := 1 + i
		lumaY := 2 + i<<subH
		w.load(&frames, lumaY, chromaY)

		clear(mask)
		DetectEdges(w.lumaRow(slotCur, 0), mask, f.params.LumaThreshold, f.params.Margin)
		res.Stats.RowsScanned++
		res.Stats.ColumnsFlagged += countFlagged(mask)

		dstU := dst.Planes[1].Row(chromaY)
		dstV := dst.Planes[2].Row(chromaY)

		if f.params.Debug {
			res.Stats.ColumnsPainted += paintFlagged(dstU, dstV, mask)
			continue
		}

		srcU, srcV := w.chromaRows(slotCur, 0)
		table := candidatesFor(nY)
		for x := edgeBorder; x < widthU-edgeBorder; x += groupWidth {
			if mask[x]|mask[x+1]|mask[x+2]|mask[x+3] == 0 {
				continue
			}
			m := search(&w, x, table, f.params.NoiseThreshold, f.sad)
			if m.index >= 0 {
				res.Stats.Substitutions++
			}
			subU, subV := w.chromaRows(m.slot, m.chromaRow)
			res.Stats.ColumnsBlended += blendGroup(dstU, dstV, srcU, srcV, subU, subV, mask, x, m.chromaShift)
			res.Stats.GroupsCorrected++
		}
	}
	return res, nil
}
