package decross

// edgeMarker is the value written into the mask for flagged columns
const edgeMarker = 0xFF

// edgeBorder is the number of chroma columns at each end that are never evaluated
const edgeBorder = 4

// DetectEdges ORs edge flags for one luma row into mask, which holds one entry
// per chroma column. Column x trips when the luma samples at 2x-1, 2x and
// 2x+1 form a strictly monotonic run whose ends differ by more than
// threshold; every column within margin of a tripped column is flagged.
// Existing flags are never cleared.
func DetectEdges(row, mask []byte, threshold, margin int) {
	end := len(mask) - edgeBorder
	if lim := (len(row) - 1) / 2; lim < end {
		end = lim
	}

	for x := edgeBorder; x < end; x++ {
		left := int(row[2*x-1])
		center := int(row[2*x])
		right := int(row[2*x+1])

		diff := left - right
		if diff < 0 {
			diff = -diff
		}
		if diff <= threshold {
			continue
		}
		if !((center > left && right > center) || (left > center && center > right)) {
			continue
		}

		lo, hi := x-margin, x+margin
		if lo < 0 {
			lo = 0
		}
		if hi > len(mask)-1 {
			hi = len(mask) - 1
		}
		for i := lo; i <= hi; i++ {
			mask[i] = edgeMarker
		}
	}
}

// countFlagged returns the number of nonzero mask entries in [4, len-4),
// the columns that can be corrected or painted. Border entries set only by
// margin dilation are not counted.
func countFlagged(mask []byte) int {
	n := 0
	for x := edgeBorder; x < len(mask)-edgeBorder; x++ {
		if mask[x] != 0 {
			n++
		}
	}
	return n
}
