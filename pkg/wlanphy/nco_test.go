package wlanphy

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestDirectNCOZeroFrequencyIsIdentity(t *testing.T) {
	nco := NewDirectNCO()
	in := complex(0.7, -0.3)
	out := nco.Mix(in)
	if cmplx.Abs(out-in) > 1e-9 {
		t.Fatalf("got %v, want %v", out, in)
	}
}

func TestDirectNCOCorrectsKnownOffset(t *testing.T) {
	const freq = 0.01
	tx := NewDirectNCO()
	tx.SetFrequency(freq)

	rx := NewDirectNCO()
	rx.SetFrequency(-freq)

	in := complex(1.0, 0.0)
	for i := 0; i < 50; i++ {
		mixedUp := tx.Mix(in)
		corrected := rx.Mix(mixedUp)
		if cmplx.Abs(corrected-in) > 1e-9 {
			t.Fatalf("sample %d: got %v, want %v", i, corrected, in)
		}
	}
}

func TestDirectNCOReset(t *testing.T) {
	nco := NewDirectNCO()
	nco.SetFrequency(0.25)
	for i := 0; i < 10; i++ {
		nco.Mix(1)
	}
	nco.Reset()
	out := nco.Mix(1)
	if cmplx.Abs(out-1) > 1e-9 {
		t.Fatalf("after reset, got %v, want 1", out)
	}
}

func TestDirectNCOPhaseAdvancesAtSetFrequency(t *testing.T) {
	nco := NewDirectNCO()
	nco.SetFrequency(0.25) // quarter turn per sample
	nco.Mix(1)
	out := nco.Mix(1)
	want := cmplx.Rect(1, -2*math.Pi*0.25)
	if cmplx.Abs(out-want) > 1e-9 {
		t.Fatalf("got %v, want %v", out, want)
	}
}
