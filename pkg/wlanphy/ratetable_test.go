package wlanphy

import "testing"

func TestRateByNibbleRoundTrip(t *testing.T) {
	for idx, rd := range RateTable {
		got, ok := RateByNibble(rd.SignalNibble)
		if !ok {
			t.Fatalf("rate %d: nibble %#x not recognized", idx, rd.SignalNibble)
		}
		if got != idx {
			t.Fatalf("nibble %#x: got rate %d, want %d", rd.SignalNibble, got, idx)
		}
	}
}

func TestRateByNibbleRejectsUnknown(t *testing.T) {
	known := make(map[byte]bool, len(RateTable))
	for _, rd := range RateTable {
		known[rd.SignalNibble] = true
	}
	for n := byte(0); n < 16; n++ {
		if known[n] {
			continue
		}
		if _, ok := RateByNibble(n); ok {
			t.Fatalf("nibble %#x unexpectedly recognized as a valid rate", n)
		}
	}
}

func TestValidateRate(t *testing.T) {
	if err := ValidateRate(-1); err == nil {
		t.Fatal("expected error for negative rate index")
	}
	if err := ValidateRate(len(RateTable)); err == nil {
		t.Fatal("expected error for out-of-range rate index")
	}
	for idx := range RateTable {
		if err := ValidateRate(idx); err != nil {
			t.Fatalf("rate %d: unexpected error: %v", idx, err)
		}
	}
}

func TestRateTableNCBPSConsistency(t *testing.T) {
	for idx, rd := range RateTable {
		want := 48 * rd.NBPSC
		if rd.NCBPS != want {
			t.Fatalf("rate %d: NCBPS = %d, want %d (48 * NBPSC)", idx, rd.NCBPS, want)
		}
	}
}
