package wlanphy

import "fmt"

// PacketParams are the length-derived sizing invariants of packet
// state: N_SYM data symbols, N_DATA total data bits, N_PAD padding
// bits, for a given rate and payload length.
type PacketParams struct {
	NSym  int
	NData int
	NPad  int
}

// ComputePacketParams derives N_SYM = ceil((16+8*length+6)/N_DBPS),
// N_DATA = N_SYM*N_DBPS, N_PAD = N_DATA-16-8*length-6.
func ComputePacketParams(rateIdx, length int) (PacketParams, error) {
	if err := ValidateRate(rateIdx); err != nil {
		return PacketParams{}, err
	}
	if length < 1 || length > 4095 {
		return PacketParams{}, fmt.Errorf("wlanphy: payload length %d out of range [1,4095]", length)
	}
	ndbps := RateTable[rateIdx].NDBPS
	bitsNeeded := 16 + 8*length + 6
	nsym := (bitsNeeded + ndbps - 1) / ndbps
	ndata := nsym * ndbps
	npad := ndata - bitsNeeded
	return PacketParams{NSym: nsym, NData: ndata, NPad: npad}, nil
}

// bytesToBits unpacks payload into one bit per byte, MSB first within
// each source byte.
func bytesToBits(payload []byte) []byte {
	bits := make([]byte, 0, 8*len(payload))
	for _, b := range payload {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1)
		}
	}
	return bits
}

// bitsToBytes packs a multiple-of-8-length bit array (one bit per
// byte) back into bytes, MSB first.
func bitsToBytes(bits []byte) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b = b<<1 | (bits[8*i+j] & 1)
		}
		out[i] = b
	}
	return out
}

// AssemblePacket builds and scrambles the full DATA bit stream for one
// frame: 16 SERVICE bits (7 zero scratch + 9
// reserved zero), the payload byte-serialized MSB-first, 6 tail bits,
// and N_PAD pad bits, scrambled with seed, with the 6 tail bits forced
// back to zero after scrambling (so the convolutional encoder always
// sees a true all-zero tail regardless of scrambler state).
func AssemblePacket(rateIdx, length int, seed byte, payload []byte) ([]byte, error) {
	if len(payload) != length {
		return nil, fmt.Errorf("wlanphy: payload length %d does not match declared length %d", len(payload), length)
	}
	params, err := ComputePacketParams(rateIdx, length)
	if err != nil {
		return nil, err
	}
	scr, err := NewScrambler(seed)
	if err != nil {
		return nil, err
	}

	bits := make([]byte, 0, params.NData)
	bits = append(bits, make([]byte, 16)...) // SERVICE, all zero
	bits = append(bits, bytesToBits(payload)...)
	tailStart := len(bits)
	bits = append(bits, make([]byte, 6)...) // tail, zero
	bits = append(bits, make([]byte, params.NPad)...)

	scr.Apply(bits)
	for i := tailStart; i < tailStart+6; i++ {
		bits[i] = 0
	}
	return bits, nil
}

// DisassemblePacket recovers the scrambler seed from the first 7
// (still scrambled) SERVICE bits, descrambles the full DATA bit stream, and extracts the
// payload. bits must already be Viterbi-
// decoded (one bit per byte, length N_DATA for rateIdx/length).
func DisassemblePacket(rateIdx, length int, bits []byte) (payload []byte, seed byte, err error) {
	params, err := ComputePacketParams(rateIdx, length)
	if err != nil {
		return nil, 0, err
	}
	if len(bits) != params.NData {
		return nil, 0, fmt.Errorf("wlanphy: decoded bit stream length %d, want %d", len(bits), params.NData)
	}

	var svc [7]byte
	copy(svc[:], bits[:7])
	seed = RecoverSeed(svc)

	scr, err := NewScrambler(seed)
	if err != nil {
		return nil, 0, err
	}
	out := make([]byte, len(bits))
	copy(out, bits)
	scr.Apply(out)

	payloadBits := out[16 : 16+8*length]
	return bitsToBytes(payloadBits), seed, nil
}
