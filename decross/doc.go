// Package decross removes cross-color (dot-crawl / rainbow) artifacts from
// interlaced 8-bit YUV420P8 and YUV422P8 video.
//
// For every chroma row the filter scans a luma row for sharp monotonic
// transitions, flags the chroma columns next to them, and replaces each
// flagged chroma sample by the average of itself and the best-matching
// sample found in the previous, current or next frame. Matching is done on
// 8-sample luma patches with a fixed, parity-dependent candidate order; the
// first candidate with the smallest difference below the noise threshold
// wins.
//
// Usage:
//
//	f, err := decross.New(decross.DefaultParams(), clip.Info())
//	if err != nil {
//	    return err
//	}
//	out, err := f.Frame(ctx, n, clip)
//
// A Filter is immutable and safe for concurrent use; every call allocates
// its own scratch buffers.
package decross
