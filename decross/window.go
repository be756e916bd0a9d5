package decross

import "github.com/teranos/decross/video"

// Frame slots in a window
const (
	slotPrev = iota
	slotCur
	slotNext
	numSlots
)

// Vertical reach of the window around the inspected rows
const (
	lumaReach   = 2
	chromaReach = 1
)

// window holds the rows visible while one chroma row is processed:
// luma rows -2..+2 around the inspected luma row and chroma rows -1..+1
// around the chroma row, for each of the three frames. Rows outside a plane
// are clamped to the first or last row.
type window struct {
	luma [numSlots][2*lumaReach + 1][]byte
	u    [numSlots][2*chromaReach + 1][]byte
	v    [numSlots][2*chromaReach + 1][]byte
}

func (w *window) load(frames *[numSlots]*video.Frame, lumaY, chromaY int) {
	for s, f := range frames {
		for dy := -lumaReach; dy <= lumaReach; dy++ {
			w.luma[s][dy+lumaReach] = clampedRow(&f.Planes[0], lumaY+dy)
		}
		for dy := -chromaReach; dy <= chromaReach; dy++ {
			w.u[s][dy+chromaReach] = clampedRow(&f.Planes[1], chromaY+dy)
			w.v[s][dy+chromaReach] = clampedRow(&f.Planes[2], chromaY+dy)
		}
	}
}

// lumaRow returns the luma row at vertical offset dy of slot s
func (w *window) lumaRow(s, dy int) []byte { return w.luma[s][dy+lumaReach] }

// chromaRows returns the U and V rows at vertical offset dy of slot s
func (w *window) chromaRows(s, dy int) (u, v []byte) {
	return w.u[s][dy+chromaReach], w.v[s][dy+chromaReach]
}

func clampedRow(p *video.Plane, y int) []byte {
	if y < 0 {
		y = 0
	} else if y >= p.Height {
		y = p.Height - 1
	}
	return p.Row(y)
}
