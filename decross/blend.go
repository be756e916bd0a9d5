package decross

// groupWidth is the number of chroma columns corrected together
const groupWidth = 4

// Debug paint values
const (
	debugU = 128
	debugV = 255
)

// blendGroup writes the corrected chroma of the group starting at column x
// into dstU and dstV. Unflagged columns receive the source sample; flagged
// columns receive the rounded average of source and substitute, where the
// substitute is read shift columns away from x in subU and subV.
// It returns the number of columns blended.
func blendGroup(dstU, dstV, srcU, srcV, subU, subV, mask []byte, x, shift int) int {
	n := 0
	for i := 0; i < groupWidth; i++ {
		col := x + i
		if mask[col] == 0 {
			dstU[col] = srcU[col]
			dstV[col] = srcV[col]
			continue
		}
		dstU[col] = average(srcU[col], at(subU, col+shift))
		dstV[col] = average(srcV[col], at(subV, col+shift))
		n++
	}
	return n
}

func average(a, b byte) byte {
	return byte((int(a) + int(b) + 1) >> 1)
}

// paintFlagged overwrites every flagged column in [4, width-4) with the debug
// colour and returns the number of columns painted.
func paintFlagged(dstU, dstV, mask []byte) int {
	n := 0
	for x := edgeBorder; x < len(mask)-edgeBorder; x++ {
		if mask[x] == 0 {
			continue
		}
		dstU[x] = debugU
		dstV[x] = debugV
		n++
	}
	return n
}
