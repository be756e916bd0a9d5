package decross

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateTables(t *testing.T) {
	require.Len(t, oddCandidates, 34)
	require.Len(t, evenCandidates, 32)

	assert.Equal(t, candidate{slot: slotPrev, lumaRow: -2, refRow: -1, shift: -6, chromaRow: -1}, oddCandidates[0])
	assert.Equal(t, candidate{slot: slotCur, lumaRow: -1, refRow: -1, shift: -4, chromaRow: 0}, oddCandidates[7])
	assert.Equal(t, candidate{slot: slotNext, lumaRow: 2, refRow: -1, shift: -2, chromaRow: 1}, oddCandidates[14])
	assert.Equal(t, []candidate{
		{slot: slotPrev, lumaRow: -1, refRow: -1},
		{slot: slotNext, lumaRow: -1, refRow: -1},
		{slot: slotPrev, lumaRow: 1, refRow: 1},
		{slot: slotNext, lumaRow: 1, refRow: 1},
	}, oddCandidates[15:19])
	assert.Equal(t, candidate{slot: slotPrev, lumaRow: -2, refRow: -1, shift: 6, chromaRow: -1}, oddCandidates[19])
	assert.Equal(t, candidate{slot: slotNext, lumaRow: 2, refRow: -1, shift: 2, chromaRow: 1}, oddCandidates[33])

	assert.Equal(t, candidate{slot: slotPrev, lumaRow: -1, refRow: 0, shift: -6, chromaRow: -1}, evenCandidates[0])
	assert.Equal(t, candidate{slot: slotCur, lumaRow: 0, refRow: 0, shift: -4, chromaRow: 0}, evenCandidates[7])
	assert.Equal(t, []candidate{
		{slot: slotPrev, lumaRow: 0, refRow: 0},
		{slot: slotNext, lumaRow: 0, refRow: 0},
	}, evenCandidates[15:17])
	assert.Equal(t, candidate{slot: slotNext, lumaRow: 1, refRow: 0, shift: 2, chromaRow: 1}, evenCandidates[31])

	// the second sweep mirrors the first
	for i := 0; i < 15; i++ {
		neg, pos := oddCandidates[i], oddCandidates[19+i]
		neg.shift = -neg.shift
		assert.Equal(t, neg, pos, "odd entry %d", i)

		neg, pos = evenCandidates[i], evenCandidates[17+i]
		neg.shift = -neg.shift
		assert.Equal(t, neg, pos, "even entry %d", i)
	}
}

func TestCandidatesForParity(t *testing.T) {
	assert.Equal(t, oddCandidates, candidatesFor(7))
	assert.Equal(t, evenCandidates, candidatesFor(6))
}

// lumaWindow builds a window where every luma row is zero except the ones
// given, keyed by slot and vertical offset.
func lumaWindow(width int, rows map[[2]int][]byte) *window {
	w := &window{}
	for s := 0; s < numSlots; s++ {
		for dy := -lumaReach; dy <= lumaReach; dy++ {
			row, ok := rows[[2]int{s, dy}]
			if !ok {
				row = make([]byte, width)
			}
			w.luma[s][dy+lumaReach] = row
		}
		for dy := -chromaReach; dy <= chromaReach; dy++ {
			w.u[s][dy+chromaReach] = make([]byte, width/2)
			w.v[s][dy+chromaReach] = make([]byte, width/2)
		}
	}
	return w
}

// patchAt returns a zero row holding 200,201,...,207 from luma sample at
func patchAt(width, at int) []byte {
	row := make([]byte, width)
	for k := 0; k < patchWidth; k++ {
		row[at+k] = byte(200 + k)
	}
	return row
}

func TestSearchTieKeepsEarliestCandidate(t *testing.T) {
	const x = 8 // luma patch starts at 16

	// previous frame matches at shift -4, next frame at shift +4; both exact
	w := lumaWindow(64, map[[2]int][]byte{
		{slotCur, 0}:  patchAt(64, 16),
		{slotPrev, 0}: patchAt(64, 12),
		{slotNext, 0}: patchAt(64, 20),
	})

	for _, sad := range []sadFunc{sadScalar, sad8} {
		m := search(w, x, evenCandidates, 60, sad)
		assert.Equal(t, 2, m.index)
		assert.Equal(t, slotPrev, m.slot)
		assert.Equal(t, 0, m.chromaRow)
		assert.Equal(t, -2, m.chromaShift)
		assert.Equal(t, 0, m.sad)
	}
}

func TestSearchLaterExactMatchBeatsEarlierNearMatch(t *testing.T) {
	const x = 8

	near := patchAt(64, 12)
	near[12] += 3
	w := lumaWindow(64, map[[2]int][]byte{
		{slotCur, 0}:  patchAt(64, 16),
		{slotPrev, 0}: near,
		{slotNext, 0}: patchAt(64, 20),
	})

	m := search(w, x, evenCandidates, 60, sad8)
	assert.Equal(t, 29, m.index)
	assert.Equal(t, slotNext, m.slot)
	assert.Equal(t, 2, m.chromaShift)
}

func TestSearchNoiseThresholdIsStrict(t *testing.T) {
	const x = 8
	w := lumaWindow(64, map[[2]int][]byte{
		{slotCur, 0}:  patchAt(64, 16),
		{slotPrev, 0}: patchAt(64, 12),
	})

	m := search(w, x, evenCandidates, 0, sad8)
	assert.Equal(t, -1, m.index)
	assert.Equal(t, slotCur, m.slot)
	assert.Equal(t, 0, m.chromaRow)
	assert.Equal(t, 0, m.chromaShift)
}

func TestSearchOddUsesRowAboveAsReference(t *testing.T) {
	const x = 8

	// only the zero-shift previous-frame entry against row -1 matches
	w := lumaWindow(64, map[[2]int][]byte{
		{slotCur, -1}:  patchAt(64, 16),
		{slotPrev, -1}: patchAt(64, 16),
	})

	m := search(w, x, oddCandidates, 60, sad8)
	assert.Equal(t, 15, m.index)
	assert.Equal(t, slotPrev, m.slot)
	assert.Equal(t, 0, m.chromaShift)
}
