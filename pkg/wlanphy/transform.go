package wlanphy

import "gonum.org/v1/gonum/dsp/fourier"

// Transform is the injected 64-point complex DFT/IDFT capability: the
// core never depends on a specific FFT library directly.
type Transform interface {
	// Forward computes the 64-point DFT of x (time -> frequency).
	Forward(x [fftSize]complex128) [fftSize]complex128
	// Inverse computes the 64-point IDFT of X (frequency -> time).
	Inverse(x [fftSize]complex128) [fftSize]complex128
}

// GonumTransform is the default Transform, backed by
// gonum.org/v1/gonum/dsp/fourier's complex FFT.
type GonumTransform struct {
	fft *fourier.CmplxFFT
}

// NewGonumTransform constructs the default 64-point Transform.
func NewGonumTransform() *GonumTransform {
	return &GonumTransform{fft: fourier.NewCmplxFFT(fftSize)}
}

func (g *GonumTransform) Forward(x [fftSize]complex128) [fftSize]complex128 {
	in := make([]complex128, fftSize)
	copy(in, x[:])
	out := g.fft.Coefficients(nil, in)
	var res [fftSize]complex128
	copy(res[:], out)
	return res
}

func (g *GonumTransform) Inverse(x [fftSize]complex128) [fftSize]complex128 {
	in := make([]complex128, fftSize)
	copy(in, x[:])
	out := g.fft.Sequence(nil, in)
	var res [fftSize]complex128
	n := complex(float64(fftSize), 0)
	for i, v := range out {
		res[i] = v / n
	}
	return res
}
