package wlanphy

import "testing"

func TestRaisedCosineRampMonotonicAndBounded(t *testing.T) {
	ramp := raisedCosineRamp(4)
	if len(ramp) != 4 {
		t.Fatalf("len(ramp) = %d, want 4", len(ramp))
	}
	prev := 0.0
	for i, r := range ramp {
		if r <= prev {
			t.Fatalf("ramp[%d] = %v, want > %v (monotonically increasing)", i, r, prev)
		}
		if r > 1.0001 {
			t.Fatalf("ramp[%d] = %v, exceeds 1", i, r)
		}
		prev = r
	}
	if ramp[len(ramp)-1] < 0.999 {
		t.Fatalf("last ramp value = %v, want ~1", ramp[len(ramp)-1])
	}
}

func TestSymbolStreamFirstAppendVerbatim(t *testing.T) {
	s := &symbolStream{ramp: raisedCosineRamp(4)}
	sym := make([]complex128, 80)
	for i := range sym {
		sym[i] = complex(float64(i), 0)
	}
	s.append(sym)
	if len(s.out) != 80 {
		t.Fatalf("len(out) = %d, want 80", len(s.out))
	}
	for i := range sym {
		if s.out[i] != sym[i] {
			t.Fatalf("sample %d: got %v, want %v", i, s.out[i], sym[i])
		}
	}
}

func TestSymbolStreamOverlapShrinksByRampLength(t *testing.T) {
	p := 4
	s := &symbolStream{ramp: raisedCosineRamp(p)}
	sym := make([]complex128, 80)
	for i := range sym {
		sym[i] = complex(1, 0)
	}
	s.append(sym)
	s.append(sym)
	if len(s.out) != 160-p {
		t.Fatalf("len(out) = %d, want %d", len(s.out), 160-p)
	}
}
