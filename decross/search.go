package decross

// candidate is one entry of a search table. Offsets are relative to the
// inspected luma row and the current chroma row.
type candidate struct {
	slot      int
	lumaRow   int // row of the candidate luma patch
	refRow    int // row of the reference patch in the current frame
	shift     int // horizontal offset in luma samples
	chromaRow int // row the chroma substitute is taken from
}

// rowSet names the luma rows searched in every frame for one parity
type rowSet struct {
	above, center, below int
}

// buildCandidates lays out a table: the negative shift sweep over the
// previous, current and next frames, the zero-shift entries, then the
// positive shift sweep.
func buildCandidates(rows rowSet, ref int, zero []candidate) []candidate {
	var table []candidate
	sweep := func(sign int) {
		for _, s := range []int{slotPrev, slotCur, slotNext} {
			table = append(table,
				candidate{slot: s, lumaRow: rows.above, refRow: ref, shift: 6 * sign, chromaRow: -1},
				candidate{slot: s, lumaRow: rows.above, refRow: ref, shift: 2 * sign, chromaRow: -1},
				candidate{slot: s, lumaRow: rows.center, refRow: ref, shift: 4 * sign, chromaRow: 0},
				candidate{slot: s, lumaRow: rows.below, refRow: ref, shift: 6 * sign, chromaRow: 1},
				candidate{slot: s, lumaRow: rows.below, refRow: ref, shift: 2 * sign, chromaRow: 1},
			)
		}
	}
	sweep(-1)
	table = append(table, zero...)
	sweep(1)
	return table
}

// oddCandidates is searched when the row counter is odd. The reference patch
// is taken one luma row above the inspected row.
var oddCandidates = buildCandidates(rowSet{above: -2, center: -1, below: 2}, -1, []candidate{
	{slot: slotPrev, lumaRow: -1, refRow: -1},
	{slot: slotNext, lumaRow: -1, refRow: -1},
	{slot: slotPrev, lumaRow: 1, refRow: 1},
	{slot: slotNext, lumaRow: 1, refRow: 1},
})

// evenCandidates is searched when the row counter is even
var evenCandidates = buildCandidates(rowSet{above: -1, center: 0, below: 1}, 0, []candidate{
	{slot: slotPrev, lumaRow: 0, refRow: 0},
	{slot: slotNext, lumaRow: 0, refRow: 0},
})

func candidatesFor(rowCounter int) []candidate {
	if rowCounter%2 == 1 {
		return oddCandidates
	}
	return evenCandidates
}

// match is the outcome of a search. index is -1 when no candidate beat the
// noise threshold and the current frame's own chroma is used.
type match struct {
	slot        int
	chromaRow   int
	chromaShift int
	sad         int
	index       int
}

// search evaluates table in order for the 4-column group starting at chroma
// column x and returns the first candidate with the smallest SAD below
// noise.
func search(w *window, x int, table []candidate, noise int, sad sadFunc) match {
	best := match{slot: slotCur, sad: noise, index: -1}
	x2 := 2 * x
	for i, c := range table {
		d := sad(w.lumaRow(c.slot, c.lumaRow), x2+c.shift, w.lumaRow(slotCur, c.refRow), x2)
		if d < best.sad {
			best = match{
				slot:        c.slot,
				chromaRow:   c.chromaRow,
				chromaShift: c.shift / 2,
				sad:         d,
				index:       i,
			}
		}
	}
	return best
}
