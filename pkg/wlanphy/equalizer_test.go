package wlanphy

import "testing"

func TestPolyfitExactLine(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 2*x + 5
	}
	coeffs := polyfit(xs, ys, 1)
	for i, x := range xs {
		got := polyeval(coeffs, x)
		if diff := got - ys[i]; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("x=%v: got %v, want %v", x, got, ys[i])
		}
	}
}

func TestPolyfitConstantFallbackOnDegenerateInput(t *testing.T) {
	xs := []float64{1, 1, 1}
	ys := []float64{3, 3, 3}
	coeffs := polyfit(xs, ys, 2)
	got := polyeval(coeffs, 1)
	if diff := got - 3; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("got %v, want 3", got)
	}
}

func TestSmoothChannelEstimatePreservesLinearTrend(t *testing.T) {
	var g [fftSize]complex128
	for k := 1; k <= 26; k++ {
		b := subcarrierToBin(k)
		g[b] = complex(float64(k)*0.01+1, 0)
	}
	for k := -26; k <= -1; k++ {
		b := subcarrierToBin(k)
		g[b] = complex(float64(k)*0.01+1, 0)
	}

	smoothed := smoothChannelEstimate(g, 3)
	for k := 1; k <= 26; k++ {
		b := subcarrierToBin(k)
		want := float64(k)*0.01 + 1
		if diff := real(smoothed[b]) - want; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("bin %d: got %v, want %v", b, real(smoothed[b]), want)
		}
	}
}
