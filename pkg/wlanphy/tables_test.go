package wlanphy

import (
	"math/cmplx"
	"testing"
)

func TestShortTrainingHasPeriod16(t *testing.T) {
	for t0 := 0; t0 < 48; t0++ {
		a := shortTrainingTime[t0]
		b := shortTrainingTime[t0+16]
		if cmplx.Abs(a-b) > 1e-9 {
			t.Fatalf("sample %d and %d differ: %v vs %v", t0, t0+16, a, b)
		}
	}
}

// TestShortTrainingMatchesAnnexGTableG3 checks the generated S0
// time-domain sequence against the literal Table G.3 samples from the
// 802.11-2007 Annex G numerical example (one period, 16 samples).
func TestShortTrainingMatchesAnnexGTableG3(t *testing.T) {
	g3 := [16]complex128{
		complex(0.0460, 0.0460),
		complex(-0.1320, 0.0020),
		complex(-0.0130, -0.0790),
		complex(0.1430, -0.0130),
		complex(0.0920, 0.0000),
		complex(0.1430, -0.0130),
		complex(-0.0130, -0.0790),
		complex(-0.1320, 0.0020),
		complex(0.0460, 0.0460),
		complex(0.0020, -0.1320),
		complex(-0.0790, -0.0130),
		complex(-0.0130, 0.1430),
		complex(0.0000, 0.0920),
		complex(-0.0130, 0.1430),
		complex(-0.0790, -0.0130),
		complex(0.0020, -0.1320),
	}
	for i, want := range g3 {
		got := shortTrainingTime[i]
		if cmplx.Abs(got-want) > 1e-4 {
			t.Fatalf("sample %d = %v, want %v (Annex G Table G.3)", i, got, want)
		}
	}
}

func TestLongTrainingHasPeriod64(t *testing.T) {
	// longTrainingFreq only has energy on non-DC subcarriers within a
	// single 64-point block; period-64 here means the sequence repeats
	// exactly once per FFT length, i.e. it's the periodic extension of
	// itself - confirm via the defining IDFT relationship instead: two
	// consecutive 64-sample blocks built from the same frequency image
	// are bit-for-bit identical.
	second := naiveIDFT(longTrainingFreq)
	for i := range longTrainingTime {
		if cmplx.Abs(longTrainingTime[i]-second[i]) > 1e-9 {
			t.Fatalf("sample %d differs between repeated IDFT calls: %v vs %v", i, longTrainingTime[i], second[i])
		}
	}
}

func TestDataBinOrderHas48Entries(t *testing.T) {
	if len(dataBinOrder) != 48 {
		t.Fatalf("len(dataBinOrder) = %d, want 48", len(dataBinOrder))
	}
	seen := make(map[int]bool, 48)
	for _, b := range dataBinOrder {
		if seen[b] {
			t.Fatalf("bin %d appears more than once in dataBinOrder", b)
		}
		seen[b] = true
		if ClassifyBin(b) != BinData {
			t.Fatalf("bin %d in dataBinOrder is not classified BinData", b)
		}
	}
}

func TestClassifyBinCounts(t *testing.T) {
	var nData, nPilot, nNull int
	for i := 0; i < fftSize; i++ {
		switch ClassifyBin(i) {
		case BinData:
			nData++
		case BinPilot:
			nPilot++
		case BinNull:
			nNull++
		}
	}
	if nData != 48 {
		t.Fatalf("nData = %d, want 48", nData)
	}
	if nPilot != 4 {
		t.Fatalf("nPilot = %d, want 4", nPilot)
	}
	if nNull != fftSize-52 {
		t.Fatalf("nNull = %d, want %d", nNull, fftSize-52)
	}
}

func TestReverseByteInvolution(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		if ReverseByte(ReverseByte(b)) != b {
			t.Fatalf("byte %d not restored by double reverse", b)
		}
	}
}

func TestReverseByteKnownValues(t *testing.T) {
	cases := map[byte]byte{
		0x00: 0x00,
		0xff: 0xff,
		0x01: 0x80,
		0x80: 0x01,
		0x0f: 0xf0,
	}
	for in, want := range cases {
		if got := ReverseByte(in); got != want {
			t.Fatalf("ReverseByte(%#x) = %#x, want %#x", in, got, want)
		}
	}
}
