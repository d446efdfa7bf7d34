package wlanphy

import "math"

// Constellation is the injected modulation mapper/demapper capability
// for one N_BPSC symbol size, externalized as a low-level
// modulator/demodulator so wlanphy never hardcodes a single scheme.
// wlanphy binds the default Gray-coded BPSK/QPSK/16-QAM/64-QAM
// implementation below unless a host supplies its own.
type Constellation interface {
	// NBPSC is the number of coded bits this constellation consumes per
	// symbol.
	NBPSC() int
	// Map packs exactly NBPSC bits (each 0 or 1) into one unit-average-
	// power complex symbol, Gray-coded per 802.11-2007 Table 17-9/17-10.
	Map(bits []byte) complex128
	// Demap produces NBPSC soft bits in [0,255] (0=strong 0, 255=strong
	// 1, 127=erasure) from a received (already equalized) symbol.
	Demap(sym complex128) []byte
}

// gray2Levels and gray3Levels are the 802.11-2007 Table 17-9/17-10
// Gray-coded PAM levels, index = the axis's 2 (resp. 3) coded bits
// read as an unsigned binary number MSB-first.
var (
	gray2Levels = [4]int{-3, -1, 3, 1}
	gray3Levels = [8]int{-7, -5, -1, -3, 7, 5, 1, 3}
)

func bitsToIndex(bits []byte) int {
	v := 0
	for _, b := range bits {
		v = v<<1 | int(b&1)
	}
	return v
}

func levelToBits(level, n int) []byte {
	var table []int
	if n == 2 {
		table = gray2Levels[:]
	} else {
		table = gray3Levels[:]
	}
	idx := 0
	for i, l := range table {
		if l == level {
			idx = i
			break
		}
	}
	bits := make([]byte, n)
	for i := 0; i < n; i++ {
		bits[n-1-i] = byte((idx >> uint(i)) & 1)
	}
	return bits
}

func bpskLevel(bit byte) float64 {
	if bit == 0 {
		return 1
	}
	return -1
}

// BPSK is the N_BPSC=1 constellation, unit average power.
type BPSK struct{}

func (BPSK) NBPSC() int { return 1 }

func (BPSK) Map(bits []byte) complex128 {
	return complex(bpskLevel(bits[0]), 0)
}

func (BPSK) Demap(sym complex128) []byte {
	raw := 127.5 - real(sym)*127.5
	if raw < 0 {
		raw = 0
	}
	if raw > 255 {
		raw = 255
	}
	return []byte{byte(raw)}
}

// QPSK is the N_BPSC=2 constellation: real and imaginary axes each an
// independent BPSK-coded bit, scaled by 1/sqrt(2) for unit average
// power.
type QPSK struct{}

func (QPSK) NBPSC() int { return 2 }

const qpskScale = 1 / math.Sqrt2

func (QPSK) Map(bits []byte) complex128 {
	return complex(bpskLevel(bits[0])*qpskScale, bpskLevel(bits[1])*qpskScale)
}

func (QPSK) Demap(sym complex128) []byte {
	bpsk := BPSK{}
	re := bpsk.Demap(complex(real(sym)/qpskScale, 0))
	im := bpsk.Demap(complex(imag(sym)/qpskScale, 0))
	return []byte{re[0], im[0]}
}

// QAM16 is the N_BPSC=4 constellation: two independent 2-bit Gray-coded
// PAM-4 axes (802.11-2007 Table 17-9), normalized to unit average power
// (scale 1/sqrt(10)).
type QAM16 struct{}

func (QAM16) NBPSC() int { return 4 }

var qam16Scale = 1 / math.Sqrt(10)

func (QAM16) Map(bits []byte) complex128 {
	re := float64(gray2Levels[bitsToIndex(bits[0:2])]) * qam16Scale
	im := float64(gray2Levels[bitsToIndex(bits[2:4])]) * qam16Scale
	return complex(re, im)
}

func (QAM16) Demap(sym complex128) []byte {
	out := make([]byte, 0, 4)
	out = append(out, softAxis(real(sym), qam16Scale, gray2Levels[:], 2)...)
	out = append(out, softAxis(imag(sym), qam16Scale, gray2Levels[:], 2)...)
	return out
}

// QAM64 is the N_BPSC=6 constellation: two independent 3-bit Gray-coded
// PAM-8 axes (802.11-2007 Table 17-10), normalized to unit average
// power (scale 1/sqrt(42)).
type QAM64 struct{}

func (QAM64) NBPSC() int { return 6 }

var qam64Scale = 1 / math.Sqrt(42)

func (QAM64) Map(bits []byte) complex128 {
	re := float64(gray3Levels[bitsToIndex(bits[0:3])]) * qam64Scale
	im := float64(gray3Levels[bitsToIndex(bits[3:6])]) * qam64Scale
	return complex(re, im)
}

func (QAM64) Demap(sym complex128) []byte {
	out := make([]byte, 0, 6)
	out = append(out, softAxis(real(sym), qam64Scale, gray3Levels[:], 3)...)
	out = append(out, softAxis(imag(sym), qam64Scale, gray3Levels[:], 3)...)
	return out
}

// softAxis hard-decides the nearest Gray-coded level on one PAM axis
// and converts it to n soft bits: the sign bit carries a confidence
// proportional to the (unscaled) axis value, the remaining magnitude
// bits carry the hard decision at moderate confidence (a full per-bit
// LLR would need a finer noise model than this constellation exposes).
func softAxis(axisComplex float64, scale float64, levels []int, n int) []byte {
	axis := axisComplex / scale
	best := levels[0]
	bestDist := math.Abs(axis - float64(levels[0]))
	for _, l := range levels[1:] {
		d := math.Abs(axis - float64(l))
		if d < bestDist {
			bestDist = d
			best = l
		}
	}
	bits := levelToBits(best, n)
	maxLevel := float64(len(levels) - 1)
	out := make([]byte, n)
	raw := 127.5 + axis*127.5/maxLevel
	if raw < 0 {
		raw = 0
	}
	if raw > 255 {
		raw = 255
	}
	out[0] = byte(raw)
	for i := 1; i < n; i++ {
		if bits[i] == 0 {
			out[i] = SoftZero
		} else {
			out[i] = SoftOne
		}
	}
	return out
}

// ConstellationForModulation returns the default built-in constellation
// for a modulation order.
func ConstellationForModulation(m Modulation) Constellation {
	switch m {
	case ModBPSK:
		return BPSK{}
	case ModQPSK:
		return QPSK{}
	case ModQAM16:
		return QAM16{}
	case ModQAM64:
		return QAM64{}
	default:
		return BPSK{}
	}
}
