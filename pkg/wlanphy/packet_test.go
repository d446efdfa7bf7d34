package wlanphy

import (
	"bytes"
	"testing"

	"github.com/jrwynneiii/wlanphy/pkg/viterbidec"
)

func TestComputePacketParamsMultipleOfNDBPS(t *testing.T) {
	for idx, rd := range RateTable {
		params, err := ComputePacketParams(idx, 100)
		if err != nil {
			t.Fatalf("rate %d: %v", idx, err)
		}
		if params.NData%rd.NDBPS != 0 {
			t.Fatalf("rate %d: NData %d not a multiple of NDBPS %d", idx, params.NData, rd.NDBPS)
		}
		bitsNeeded := 16 + 8*100 + 6
		if params.NData != params.NSym*rd.NDBPS {
			t.Fatalf("rate %d: NData != NSym*NDBPS", idx)
		}
		if params.NData-params.NPad != bitsNeeded {
			t.Fatalf("rate %d: NData(%d)-NPad(%d) != bitsNeeded(%d)", idx, params.NData, params.NPad, bitsNeeded)
		}
	}
}

func TestBytesToBitsRoundTrip(t *testing.T) {
	data := []byte{0x00, 0xff, 0xa5, 0x3c}
	bits := bytesToBits(data)
	if len(bits) != 32 {
		t.Fatalf("len(bits) = %d, want 32", len(bits))
	}
	back := bitsToBytes(bits)
	if !bytes.Equal(back, data) {
		t.Fatalf("got %v, want %v", back, data)
	}
}

func TestAssembleDisassemblePacketRoundTrip(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog")
	for idx := range RateTable {
		bits, err := AssemblePacket(idx, len(payload), 0x5a, payload)
		if err != nil {
			t.Fatalf("rate %d: AssemblePacket: %v", idx, err)
		}
		recovered, seed, err := DisassemblePacket(idx, len(payload), bits)
		if err != nil {
			t.Fatalf("rate %d: DisassemblePacket: %v", idx, err)
		}
		if seed != 0x5a {
			t.Fatalf("rate %d: recovered seed %#x, want %#x", idx, seed, 0x5a)
		}
		if !bytes.Equal(recovered, payload) {
			t.Fatalf("rate %d: got %q, want %q", idx, recovered, payload)
		}
	}
}

// TestFullBitPipeRoundTrip drives AssemblePacket through ConvEncode,
// Puncture, and the rate's interleaver to simulate a noiseless channel,
// then reverses the pipeline with the default Viterbi decoder and
// DisassemblePacket, matching the DATA field's on-air bit order.
func TestFullBitPipeRoundTrip(t *testing.T) {
	dec := viterbidec.New()
	payload := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03}
	for idx, rd := range RateTable {
		params, err := ComputePacketParams(idx, len(payload))
		if err != nil {
			t.Fatalf("rate %d: %v", idx, err)
		}
		bits, err := AssemblePacket(idx, len(payload), 0x33, payload)
		if err != nil {
			t.Fatalf("rate %d: AssemblePacket: %v", idx, err)
		}
		raw := ConvEncode(bits)
		punctured := Puncture(raw, rd.Coding)

		interleaver := InterleaverForRate(idx)
		var onAir []byte
		for s := 0; s < params.NSym; s++ {
			sym := punctured[s*rd.NCBPS : (s+1)*rd.NCBPS]
			onAir = append(onAir, interleaver.Interleave(sym)...)
		}

		var deinterleaved []byte
		for s := 0; s < params.NSym; s++ {
			sym := onAir[s*rd.NCBPS : (s+1)*rd.NCBPS]
			deinterleaved = append(deinterleaved, interleaver.Deinterleave(sym)...)
		}

		soft := make([]byte, len(deinterleaved))
		for i, b := range deinterleaved {
			if b == 1 {
				soft[i] = SoftOne
			} else {
				soft[i] = SoftZero
			}
		}

		decodedBits := DecodeConv(dec, soft, rd.Coding, 2*params.NData)
		payloadOut, seed, err := DisassemblePacket(idx, len(payload), decodedBits)
		if err != nil {
			t.Fatalf("rate %d: DisassemblePacket: %v", idx, err)
		}
		if seed != 0x33 {
			t.Fatalf("rate %d: seed %#x, want %#x", idx, seed, 0x33)
		}
		if !bytes.Equal(payloadOut, payload) {
			t.Fatalf("rate %d: got %v, want %v", idx, payloadOut, payload)
		}
	}
}
