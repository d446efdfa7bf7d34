package wlanphy

import "testing"

func TestScramblerInvolution(t *testing.T) {
	plain := make([]byte, 200)
	for i := range plain {
		plain[i] = byte((i * 5) % 2)
	}

	scr, err := NewScrambler(0x5d)
	if err != nil {
		t.Fatalf("NewScrambler: %v", err)
	}
	scrambled := make([]byte, len(plain))
	copy(scrambled, plain)
	scr.Apply(scrambled)

	descr, err := NewScrambler(0x5d)
	if err != nil {
		t.Fatalf("NewScrambler: %v", err)
	}
	recovered := make([]byte, len(scrambled))
	copy(recovered, scrambled)
	descr.Apply(recovered)

	for i := range plain {
		if plain[i] != recovered[i] {
			t.Fatalf("bit %d: got %d, want %d", i, recovered[i], plain[i])
		}
	}
}

func TestScramblerZeroSeedRejected(t *testing.T) {
	if _, err := NewScrambler(0); err == nil {
		t.Fatal("expected error for zero seed")
	}
}

func TestScramblerAllZeroInputIsItsOwnKeystream(t *testing.T) {
	scr, err := NewScrambler(0x1b)
	if err != nil {
		t.Fatalf("NewScrambler: %v", err)
	}
	bits := make([]byte, 16)
	scr.Apply(bits)

	var svc [7]byte
	copy(svc[:], bits[:7])
	if got := RecoverSeed(svc); got != 0x1b {
		t.Fatalf("RecoverSeed: got %#x, want %#x", got, 0x1b)
	}
}
