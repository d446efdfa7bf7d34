package wlanphy

import (
	"math"
	"math/cmplx"
)

// NCO is the injected numerically-controlled-oscillator capability:
// mixes the receive sample stream down by an estimated carrier
// frequency offset.
type NCO interface {
	// SetFrequency sets the oscillator frequency in cycles/sample.
	SetFrequency(freq float64)
	// Mix advances the oscillator by one sample and returns x rotated
	// by the current phase.
	Mix(x complex128) complex128
	// Reset zeroes frequency and phase (on re-entry to SEEK_PLCP the
	// NCO is reset).
	Reset()
}

// DirectNCO is the default NCO: a direct digital phase accumulator
// using math/cmplx for the unit-magnitude rotation.
type DirectNCO struct {
	freq  float64 // cycles/sample
	phase float64 // radians
}

// NewDirectNCO constructs a DirectNCO at zero frequency and phase.
func NewDirectNCO() *DirectNCO { return &DirectNCO{} }

func (n *DirectNCO) SetFrequency(freq float64) { n.freq = freq }

func (n *DirectNCO) Mix(x complex128) complex128 {
	rot := cmplx.Rect(1, -n.phase)
	out := x * rot
	n.phase += 2 * math.Pi * n.freq
	return out
}

func (n *DirectNCO) Reset() {
	n.freq = 0
	n.phase = 0
}
