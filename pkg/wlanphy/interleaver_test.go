package wlanphy

import "testing"

func TestInterleaverBijection(t *testing.T) {
	for idx, rd := range RateTable {
		table := InterleaverForRate(idx)
		bits := make([]byte, rd.NCBPS)
		for i := range bits {
			bits[i] = byte(i % 2)
		}
		interleaved := table.Interleave(bits)
		deinterleaved := table.Deinterleave(interleaved)
		for i := range bits {
			if bits[i] != deinterleaved[i] {
				t.Fatalf("rate %d: bit %d: got %d, want %d", idx, i, deinterleaved[i], bits[i])
			}
		}
	}
}

func TestInterleaverIsAPermutation(t *testing.T) {
	for idx, rd := range RateTable {
		table := InterleaverForRate(idx)
		seen := make(map[int]bool, rd.NCBPS)
		bits := make([]byte, rd.NCBPS)
		for k := range bits {
			bits[k] = 1
			out := table.Interleave(bits)
			pos := -1
			for j, b := range out {
				if b == 1 {
					if pos != -1 {
						t.Fatalf("rate %d: input bit %d maps to more than one output position", idx, k)
					}
					pos = j
				}
			}
			if pos == -1 {
				t.Fatalf("rate %d: input bit %d did not appear in output", idx, k)
			}
			if seen[pos] {
				t.Fatalf("rate %d: output position %d hit by more than one input bit", idx, pos)
			}
			seen[pos] = true
			bits[k] = 0
		}
	}
}

func TestSignalInterleaverBijection(t *testing.T) {
	bits := make([]byte, 48)
	for i := range bits {
		bits[i] = byte((i * 3) % 2)
	}
	out := signalInterleaver.Interleave(bits)
	back := signalInterleaver.Deinterleave(out)
	for i := range bits {
		if bits[i] != back[i] {
			t.Fatalf("bit %d: got %d, want %d", i, back[i], bits[i])
		}
	}
}
