package wlanphy

// Soft-bit encoding: unsigned 8-bit metrics where 0 is a strong 0,
// 255 is a strong 1, and 127 marks an erasure (unknown, contributes no
// metric to either branch of the Viterbi trellis).
const (
	SoftZero    byte = 0
	SoftErasure byte = 127
	SoftOne     byte = 255
)

// genPolyA and genPolyB are the r1/2 mother code generator polynomials
// (0x6d, 0x4f), K=7, applied to a 7-bit shift register (802.11-2007 §17.3.5.5).
const (
	genPolyA = 0x6d
	genPolyB = 0x4f
)

func parity(b uint8) byte {
	b ^= b >> 4
	b ^= b >> 2
	b ^= b >> 1
	return b & 1
}

// ConvEncode applies the r1/2 mother convolutional code to inputBits
// (each element 0 or 1, consumed in order — MSB-first per byte is the
// caller's concern when packing/unpacking). It returns 2*len(inputBits)
// output bits, A then B per input bit, with the shift register reset
// to zero at the start of every call (matching a fresh frame encode;
// the SERVICE+payload+tail+pad blob is encoded as a single call so
// state persists across the whole frame).
func ConvEncode(inputBits []byte) []byte {
	out := make([]byte, 0, 2*len(inputBits))
	var reg uint8
	for _, b := range inputBits {
		reg = (reg<<1 | (b & 1)) & 0x7f
		out = append(out, parity(reg&genPolyA), parity(reg&genPolyB))
	}
	return out
}

// PunctureMatrix is a row-major 2xP flag matrix: PunctureMatrix[0] is
// the A-stream keep/drop row, PunctureMatrix[1] is the B-stream row,
// each of length P. A 1 keeps the corresponding raw bit, a 0 discards
// it (802.11-2007 §17.3.5.6).
type PunctureMatrix struct {
	P    int
	Rows [2][]byte
}

func tilePattern(baseA, baseB []byte, repeats int) PunctureMatrix {
	p := len(baseA) * repeats
	rows := [2][]byte{make([]byte, p), make([]byte, p)}
	for r := 0; r < repeats; r++ {
		copy(rows[0][r*len(baseA):], baseA)
		copy(rows[1][r*len(baseB):], baseB)
	}
	return PunctureMatrix{P: p, Rows: rows}
}

// puncture matrices (802.11-2007 §17.3.5.6). The base periods below
// are the standard's minimal 2/3 (2 input bits -> 4 raw -> 3 kept) and
// 3/4 (3 input bits -> 6 raw -> 4 kept) patterns, tiled P=6 and P=9
// respectively (three repeats of each minimal period). Tiling three
// repeats is what makes the ratio self-consistent with the RateTable's
// NDBPS/NCBPS entries: the R2_3 matrix keeps 9 of its 12 flags, not 8
// as a naive single-period reading would suggest.
var (
	puncture23 = tilePattern([]byte{1, 1}, []byte{1, 0}, 3) // P=6, 9 of 12 kept
	puncture34 = tilePattern([]byte{1, 1, 0}, []byte{1, 0, 1}, 3) // P=9, 12 of 18 kept
)

func matrixFor(c Coding) (PunctureMatrix, bool) {
	switch c {
	case CodeR2_3:
		return puncture23, true
	case CodeR3_4:
		return puncture34, true
	default:
		return PunctureMatrix{}, false
	}
}

// Puncture discards raw r1/2-encoded bits per the coding's puncture
// matrix, cycling the matrix's 2*P-bit period across raw. CodeR1_2
// returns raw unchanged (no puncturing).
func Puncture(raw []byte, c Coding) []byte {
	m, ok := matrixFor(c)
	if !ok {
		out := make([]byte, len(raw))
		copy(out, raw)
		return out
	}
	period := 2 * m.P
	out := make([]byte, 0, len(raw))
	for i, b := range raw {
		pos := i % period
		col := pos / 2
		row := pos % 2
		if m.Rows[row][col] == 1 {
			out = append(out, b)
		}
	}
	return out
}

// Depuncture reinserts erasure soft values (127) at the positions
// Puncture discarded, restoring the raw-length soft-bit stream for
// Viterbi decoding. punctured holds soft metrics;
// rawLen is the pre-puncture length to reconstruct.
func Depuncture(punctured []byte, c Coding, rawLen int) []byte {
	m, ok := matrixFor(c)
	if !ok {
		out := make([]byte, rawLen)
		copy(out, punctured)
		return out
	}
	period := 2 * m.P
	out := make([]byte, rawLen)
	pi := 0
	for i := 0; i < rawLen; i++ {
		pos := i % period
		col := pos / 2
		row := pos % 2
		if m.Rows[row][col] == 1 {
			if pi < len(punctured) {
				out[i] = punctured[pi]
			}
			pi++
		} else {
			out[i] = SoftErasure
		}
	}
	return out
}
