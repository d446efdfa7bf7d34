package wlanphy

import "fmt"

// SignalField is the unpacked 24-bit SIGNAL header (802.11-2007 §17.3.4).
type SignalField struct {
	Rate     int // rate index 0..7
	Reserved byte
	Length   int // 1..4095
}

// PackSignalBits renders a SignalField into its 24 raw bits (MSB-first
// conceptually, but produced here as a flat []byte of 0/1 in wire
// order: rate nibble, reserved, length LSB-first, parity, tail).
func PackSignalBits(f SignalField) ([]byte, error) {
	if err := ValidateRate(f.Rate); err != nil {
		return nil, err
	}
	if f.Length < 1 || f.Length > 4095 {
		return nil, fmt.Errorf("wlanphy: SIGNAL length %d out of range [1,4095]", f.Length)
	}

	bits := make([]byte, 24)
	nibble := RateTable[f.Rate].SignalNibble
	for i := 0; i < 4; i++ {
		bits[i] = (nibble >> uint(3-i)) & 1
	}
	bits[4] = f.Reserved & 1

	length := uint16(f.Length)
	for i := 0; i < 12; i++ {
		bits[5+i] = byte((length >> uint(i)) & 1)
	}

	var parityBit byte
	for i := 0; i < 17; i++ {
		parityBit ^= bits[i]
	}
	bits[17] = parityBit
	// bits 18..23 (tail) already zero.
	return bits, nil
}

// UnpackSignalBits parses 24 raw SIGNAL bits back into a SignalField,
// validating parity, reserved, rate nibble, and length range as part of
// RX_SIGNAL. err is non-nil on any violation, in which case the caller
// must abandon the frame.
func UnpackSignalBits(bits []byte) (SignalField, error) {
	if len(bits) != 24 {
		return SignalField{}, fmt.Errorf("wlanphy: SIGNAL field must be 24 bits, got %d", len(bits))
	}

	var nibble byte
	for i := 0; i < 4; i++ {
		nibble = nibble<<1 | (bits[i] & 1)
	}
	rateIdx, ok := RateByNibble(nibble)
	if !ok {
		return SignalField{}, fmt.Errorf("wlanphy: SIGNAL rate nibble %04b is not a valid rate", nibble)
	}

	reserved := bits[4] & 1

	var length int
	for i := 0; i < 12; i++ {
		length |= int(bits[5+i]&1) << uint(i)
	}

	var parityBit byte
	for i := 0; i < 17; i++ {
		parityBit ^= bits[i]
	}
	if parityBit != bits[17]&1 {
		return SignalField{}, fmt.Errorf("wlanphy: SIGNAL parity check failed")
	}
	if length == 0 || length > 4095 {
		return SignalField{}, fmt.Errorf("wlanphy: SIGNAL length %d out of range [1,4095]", length)
	}

	return SignalField{Rate: rateIdx, Reserved: reserved, Length: length}, nil
}

// EncodeSignal runs the hardcoded r1/2 mother-code encode (no
// puncturing) and NCBPS=48/NBPSC=1 interleave over a 24-bit SIGNAL
// field, producing the 48 interleaved bits for one BPSK OFDM symbol.
func EncodeSignal(f SignalField) ([]byte, error) {
	bits, err := PackSignalBits(f)
	if err != nil {
		return nil, err
	}
	raw := ConvEncode(bits) // 48 bits, no puncturing
	return signalInterleaver.Interleave(raw), nil
}

// DecodeSignal de-interleaves 48 soft SIGNAL bits, Viterbi-decodes them
// with dec, and unpacks the result into a SignalField.
func DecodeSignal(dec ViterbiDecoder, interleaved []byte) (SignalField, error) {
	if len(interleaved) != 48 {
		return SignalField{}, fmt.Errorf("wlanphy: encoded SIGNAL field must be 48 bits, got %d", len(interleaved))
	}
	raw := signalInterleaver.Deinterleave(interleaved)
	bits := dec.Decode(raw)
	return UnpackSignalBits(bits)
}
