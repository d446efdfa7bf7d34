package wlanphy

import "gonum.org/v1/gonum/mat"

// polyfit solves the least-squares polynomial of the given order
// through (xs[i], ys[i]) and returns its coefficients, lowest degree
// first. Used by the channel-estimate smoothing step of the RX_LONG1
// equalizer polynomial fit.
func polyfit(xs, ys []float64, order int) []float64 {
	n := len(xs)
	cols := order + 1
	a := mat.NewDense(n, cols, nil)
	for i, x := range xs {
		p := 1.0
		for c := 0; c < cols; c++ {
			a.Set(i, c, p)
			p *= x
		}
	}
	b := mat.NewVecDense(n, ys)

	var qr mat.QR
	qr.Factorize(a)
	var coeffs mat.VecDense
	if err := qr.SolveVecTo(&coeffs, false, b); err != nil {
		// Degenerate (rank-deficient) fit: fall back to the mean, a
		// zero-order polynomial, rather than propagate NaNs.
		mean := 0.0
		for _, y := range ys {
			mean += y
		}
		mean /= float64(n)
		out := make([]float64, cols)
		out[0] = mean
		return out
	}
	out := make([]float64, cols)
	for i := 0; i < cols && i < coeffs.Len(); i++ {
		out[i] = coeffs.AtVec(i)
	}
	return out
}

func polyeval(coeffs []float64, x float64) float64 {
	y := 0.0
	p := 1.0
	for _, c := range coeffs {
		y += c * p
		p *= x
	}
	return y
}

// smoothChannelEstimate applies an RX_LONG1 polynomial fit of the
// given order across each of the two subcarrier clusters
// independently, smoothing the real and imaginary parts of G as
// functions of bin index.
func smoothChannelEstimate(g [fftSize]complex128, order int) [fftSize]complex128 {
	clusterPos := make([]int, 0, 26)
	for k := 1; k <= 26; k++ {
		clusterPos = append(clusterPos, subcarrierToBin(k))
	}
	clusterNeg := make([]int, 0, 26)
	for k := -26; k <= -1; k++ {
		clusterNeg = append(clusterNeg, subcarrierToBin(k))
	}

	smoothCluster := func(bins []int) {
		xs := make([]float64, len(bins))
		re := make([]float64, len(bins))
		im := make([]float64, len(bins))
		for i, b := range bins {
			xs[i] = float64(i)
			re[i] = real(g[b])
			im[i] = imag(g[b])
		}
		reCoef := polyfit(xs, re, order)
		imCoef := polyfit(xs, im, order)
		for i, b := range bins {
			g[b] = complex(polyeval(reCoef, xs[i]), polyeval(imCoef, xs[i]))
		}
	}
	smoothCluster(clusterPos)
	smoothCluster(clusterNeg)
	return g
}
