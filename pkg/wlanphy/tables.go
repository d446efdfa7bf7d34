package wlanphy

import "math"

// BinClass identifies the role of one of the 64 OFDM FFT bins.
type BinClass int

const (
	BinNull BinClass = iota
	BinPilot
	BinData
)

const (
	fftSize    = 64
	guardLo    = 27
	guardHi    = 37
	dcBin      = 0
)

// subcarrierToBin maps a signed 802.11 subcarrier index (-26..26,
// excluding 0) to its FFT bin per the standard convention: positive
// subcarriers 1..26 occupy bins 1..26, negative subcarriers -26..-1
// occupy bins 38..63.
func subcarrierToBin(k int) int {
	if k >= 0 {
		return k
	}
	return fftSize + k
}

// pilotSubcarriers are the four pilot tone locations (802.11-2007 §17.3.5.9).
var pilotSubcarriers = [4]int{-21, -7, 7, 21}

// pilotBins is pilotSubcarriers mapped to FFT bins: {43, 57, 7, 21}.
var pilotBins = func() [4]int {
	var b [4]int
	for i, k := range pilotSubcarriers {
		b[i] = subcarrierToBin(k)
	}
	return b
}()

// binClassTable classifies all 64 FFT bins once at init.
var binClassTable = func() [fftSize]BinClass {
	var t [fftSize]BinClass
	for i := range t {
		t[i] = BinData
	}
	for i := guardLo; i <= guardHi; i++ {
		t[i] = BinNull
	}
	t[dcBin] = BinNull
	for _, b := range pilotBins {
		t[b] = BinPilot
	}
	for i := 0; i < fftSize; i++ {
		if t[i] == BinNull {
			continue
		}
		isPilot := false
		for _, b := range pilotBins {
			if b == i {
				isPilot = true
				break
			}
		}
		if !isPilot {
			t[i] = BinData
		}
	}
	return t
}()

// ClassifyBin returns the role of FFT bin i (0..63).
func ClassifyBin(i int) BinClass { return binClassTable[i%fftSize] }

// dataBinOrder is the 48-entry traversal order of data-carrying bins,
// in the order (+1, +2, ..., +26, -26, ..., -1), skipping pilot bins.
var dataBinOrder = func() []int {
	order := make([]int, 0, 48)
	for k := 1; k <= 26; k++ {
		b := subcarrierToBin(k)
		if binClassTable[b] == BinData {
			order = append(order, b)
		}
	}
	for k := -26; k <= -1; k++ {
		b := subcarrierToBin(k)
		if binClassTable[b] == BinData {
			order = append(order, b)
		}
	}
	return order
}()

// shortTrainingFreq is S0. Nonzero only at
// subcarriers that are multiples of 4 in -24..24 (12 of them), value
// sqrt(13/6)*(±1±j) per 802.11-2007 Eq 17-4.
var shortTrainingFreq = func() [fftSize]complex128 {
	scale := math.Sqrt(13.0 / 6.0)
	// signs in subcarrier order -24,-20,-16,-12,-8,-4,4,8,12,16,20,24
	type entry struct {
		sc       int
		re, im   float64
	}
	entries := []entry{
		{-24, 1, 1}, {-20, -1, -1}, {-16, 1, 1}, {-12, -1, -1},
		{-8, -1, -1}, {-4, 1, 1},
		{4, -1, -1}, {8, -1, -1}, {12, 1, 1}, {16, 1, 1},
		{20, 1, 1}, {24, 1, 1},
	}
	var f [fftSize]complex128
	for _, e := range entries {
		f[subcarrierToBin(e.sc)] = complex(e.re*scale, e.im*scale)
	}
	return f
}()

// longTrainingFreq is S1: ±1 over all 52 non-guard, non-DC subcarriers,
// per 802.11-2007 Eq 17-9.
var longTrainingFreq = func() [fftSize]complex128 {
	// subcarriers -26..26 excluding 0, values below, index-aligned.
	vals := []int{
		1, 1, -1, -1, 1, 1, -1, 1, -1, 1, 1, 1, 1, 1, 1, -1, -1, 1, 1, -1, 1, -1, 1, 1, 1, 1,
		// (DC skipped)
		1, -1, -1, 1, 1, -1, 1, -1, 1, -1, -1, -1, -1, -1, 1, 1, -1, -1, 1, -1, 1, -1, 1, 1, 1, 1,
	}
	var f [fftSize]complex128
	idx := 0
	for k := -26; k <= 26; k++ {
		if k == 0 {
			continue
		}
		f[subcarrierToBin(k)] = complex(float64(vals[idx]), 0)
		idx++
	}
	return f
}()

// naiveIDFT computes the length-64 inverse DFT directly from the sum
// definition. Used only to precompute the fixed s0/s1 time-domain
// training sequences at init; the pluggable Transform used by
// FrameGenerator/FrameSynchronizer at runtime is a separate concern
// (transform.go) so training-sequence generation never depends on an
// injected capability's lifecycle.
func naiveIDFT(freq [fftSize]complex128) [fftSize]complex128 {
	var out [fftSize]complex128
	n := float64(fftSize)
	for t := 0; t < fftSize; t++ {
		var sum complex128
		for k := 0; k < fftSize; k++ {
			theta := 2 * math.Pi * float64(t) * float64(k) / n
			sum += freq[k] * complex(math.Cos(theta), math.Sin(theta))
		}
		out[t] = sum / complex(n, 0)
	}
	return out
}

// shortTrainingTime is s0, the time-domain image of S0. It has exact
// period 16 samples.
var shortTrainingTime = naiveIDFT(shortTrainingFreq)

// longTrainingTime is s1, the time-domain image of S1. It has exact
// period 64 samples.
var longTrainingTime = naiveIDFT(longTrainingFreq)

// reverseByteTable is a precomputed bit-reversal LUT, grounded on
// liquid-wlan's liquid_wlan_reverse_byte, unused directly by this
// module's MSB-first bit packing but kept as a utility for hosts that
// need to reinterpret byte-packed bit order.
var reverseByteTable = func() [256]byte {
	var t [256]byte
	for i := 0; i < 256; i++ {
		b := byte(i)
		var r byte
		for bit := 0; bit < 8; bit++ {
			r = (r << 1) | (b & 1)
			b >>= 1
		}
		t[i] = r
	}
	return t
}()

// ReverseByte returns b with its bit order reversed.
func ReverseByte(b byte) byte { return reverseByteTable[b] }
