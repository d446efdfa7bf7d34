package wlanphy

import "fmt"

// Scrambler is the 7-bit LFSR scrambler/descrambler (802.11-2007
// §17.3.5): polynomial x^7+x^4+1, output bit = bit6 XOR bit3 of the
// current state, state
// shifts left with the new bit inserted at position 0. Scrambling and
// descrambling are the same XOR-involutive operation; the struct just
// carries the running state across calls.
type Scrambler struct {
	state byte // 7 significant bits
}

// NewScrambler constructs a Scrambler with the given 7-bit seed. Seed 0
// is reserved — the generator would stall — and is rejected.
func NewScrambler(seed byte) (*Scrambler, error) {
	seed &= 0x7f
	if seed == 0 {
		return nil, fmt.Errorf("wlanphy: scrambler seed must be nonzero (7 bits)")
	}
	return &Scrambler{state: seed}, nil
}

// next produces the next scrambling bit and advances the LFSR.
func (s *Scrambler) next() byte {
	bit6 := (s.state >> 6) & 1
	bit3 := (s.state >> 3) & 1
	out := bit6 ^ bit3
	s.state = ((s.state << 1) | out) & 0x7f
	return out
}

// Apply XORs the scrambling sequence into bits (one bit per byte, each
// 0 or 1, in transmission order — the byte-serialized-MSB-first framing
// happens before this call, at the bit-array packing stage), in place,
// and returns bits. Descrambling with the
// same seed is identical since XOR is involutive.
func (s *Scrambler) Apply(bits []byte) []byte {
	for i := range bits {
		bits[i] = (bits[i] & 1) ^ s.next()
	}
	return bits
}

// RecoverSeed recovers the scrambler seed from the first 7 scrambled
// SERVICE bits of a received frame, per the standard's mandate that the
// transmitter's SERVICE field is all zero before scrambling: since the
// plaintext is known to be zero, the received bits o0..o6 ARE the
// scrambler's first 7 output bits, and the initial 7-bit LFSR state
// (bits s6..s0, MSB first) can be solved for directly from the
// recurrence out[i] = state_i.bit6 XOR state_i.bit3.
//
// svcBits holds o0..o6 in order, each 0 or 1.
func RecoverSeed(svcBits [7]byte) byte {
	o := func(i int) byte { return svcBits[i] & 1 }
	s0 := o(6) ^ o(2)
	s1 := o(5) ^ o(1)
	s2 := o(4) ^ o(0)
	s3 := o(3) ^ s0
	s4 := o(2) ^ s1
	s5 := o(1) ^ s2
	s6 := o(0) ^ s3
	return s6<<6 | s5<<5 | s4<<4 | s3<<3 | s2<<2 | s1<<1 | s0
}
