package wlanphy

import "testing"

func TestGenerateSampleCount(t *testing.T) {
	payload := []byte("twelve byte!")
	postfix := 4
	for idx, rd := range RateTable {
		gen := NewFrameGeneratorWithCapabilities(Capabilities{}, postfix)
		samples, err := gen.Generate(FrameGeneratorConfig{
			RateIndex:     idx,
			Length:        len(payload),
			Seed:          0x11,
			PostfixLength: postfix,
		}, payload)
		if err != nil {
			t.Fatalf("rate %d: Generate: %v", idx, err)
		}

		params, err := ComputePacketParams(idx, len(payload))
		if err != nil {
			t.Fatalf("rate %d: %v", idx, err)
		}
		// 4 training symbols (S0a/S0b/S1a/S1b) + SIGNAL + NSym data
		// symbols, each 80 samples, minus the (numSymbols-1) ramp
		// overlaps of postfix samples each.
		numSymbols := 4 + 1 + params.NSym
		want := numSymbols*80 - (numSymbols-1)*postfix
		if len(samples) != want {
			t.Fatalf("rate %d: len(samples) = %d, want %d", idx, len(samples), want)
		}
		_ = rd
	}
}

func TestGenerateRejectsInvalidRate(t *testing.T) {
	gen := NewFrameGeneratorWithCapabilities(Capabilities{}, 4)
	_, err := gen.Generate(FrameGeneratorConfig{RateIndex: 99, Length: 10}, make([]byte, 10))
	if err == nil {
		t.Fatal("expected error for invalid rate index")
	}
}

func TestGenerateRejectsPayloadLengthMismatch(t *testing.T) {
	gen := NewFrameGeneratorWithCapabilities(Capabilities{}, 4)
	_, err := gen.Generate(FrameGeneratorConfig{RateIndex: 0, Length: 20}, make([]byte, 10))
	if err == nil {
		t.Fatal("expected error for payload/length mismatch")
	}
}
