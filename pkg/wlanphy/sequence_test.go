package wlanphy

import "testing"

func TestPolarityGeneratorPeriod127(t *testing.T) {
	p := NewPolarityGenerator()
	first := make([]int, 127)
	for i := range first {
		first[i] = p.Next()
	}
	second := make([]int, 127)
	for i := range second {
		second[i] = p.Next()
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sequence not periodic at 127: bit %d differs (%d vs %d)", i, first[i], second[i])
		}
	}
}

func TestPolarityGeneratorReset(t *testing.T) {
	p := NewPolarityGenerator()
	var before []int
	for i := 0; i < 20; i++ {
		before = append(before, p.Next())
	}
	p.Reset()
	var after []int
	for i := 0; i < 20; i++ {
		after = append(after, p.Next())
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("bit %d differs after reset: %d vs %d", i, before[i], after[i])
		}
	}
}

func TestPolarityGeneratorNotConstant(t *testing.T) {
	p := NewPolarityGenerator()
	var zeros, ones int
	for i := 0; i < 127; i++ {
		if p.Next() == 0 {
			zeros++
		} else {
			ones++
		}
	}
	if zeros == 0 || ones == 0 {
		t.Fatalf("expected a mix of 0s and 1s over one period, got %d zeros and %d ones", zeros, ones)
	}
}
