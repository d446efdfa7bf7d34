package wlanphy

import (
	"fmt"
	"math"
)

// FrameGeneratorConfig configures one transmitted frame.
type FrameGeneratorConfig struct {
	RateIndex     int
	Length        int
	Seed          byte
	PostfixLength int // P, inter-symbol raised-cosine ramp length. Generate does not read it: the ramp length is the one given to NewFrameGenerator (where 0 means 1).
}

// FrameGenerator drives BitPipe + SymbolMapper + the injected Transform
// to emit the complete 80-samples-per-symbol TX stream.
type FrameGenerator struct {
	transform Transform
	ramp      []float64
	postfix   int
}

// NewFrameGenerator constructs a FrameGenerator bound to transform. A
// fresh FrameGenerator owns no per-frame state; call Generate once per
// frame.
func NewFrameGenerator(transform Transform, postfixLength int) *FrameGenerator {
	if postfixLength <= 0 {
		postfixLength = 1
	}
	return &FrameGenerator{
		transform: transform,
		postfix:   postfixLength,
		ramp:      raisedCosineRamp(postfixLength),
	}
}

// raisedCosineRamp returns a length-P ramp monotonically increasing
// from (exclusive) 0 toward (inclusive) 1.
func raisedCosineRamp(p int) []float64 {
	r := make([]float64, p)
	for i := 0; i < p; i++ {
		r[i] = 0.5 - 0.5*math.Cos(math.Pi*float64(i+1)/float64(p))
	}
	return r
}

// symbolStream overlap-adds consecutive 80-sample symbols with a
// raised-cosine ramp across their P-sample boundary: x'[k] =
// r[k]*x_new[k] + (1-r[k])*x_prev_tail[k]. The first appended symbol
// has no predecessor and is copied verbatim (equivalent to wrapping the
// short-training tail, since that pattern is periodic at period 16 and
// so a wrapped tail is indistinguishable from the symbol's own leading
// samples).
type symbolStream struct {
	out  []complex128
	ramp []float64
}

func (s *symbolStream) append(symbol []complex128) {
	p := len(s.ramp)
	if len(s.out) == 0 {
		s.out = append(s.out, symbol...)
		return
	}
	base := len(s.out) - p
	for i := 0; i < p; i++ {
		r := complex(s.ramp[i], 0)
		s.out[base+i] = r*symbol[i] + (1-r)*s.out[base+i]
	}
	s.out = append(s.out, symbol[p:]...)
}

// toSymbol prepends the 16-sample cyclic prefix (body's last 16
// samples) to a 64-sample IDFT body, forming an 80-sample symbol.
func toSymbol(body [fftSize]complex128) []complex128 {
	sym := make([]complex128, 80)
	copy(sym[0:16], body[48:64])
	copy(sym[16:80], body[:])
	return sym
}

func repeatShortTraining(reps int) []complex128 {
	out := make([]complex128, 0, reps*16)
	for i := 0; i < reps; i++ {
		out = append(out, shortTrainingTime[:]...)
	}
	return out
}

func longPreambleSamples() []complex128 {
	out := make([]complex128, 0, 160)
	out = append(out, longTrainingTime[32:64]...) // 32-sample doubled-CP guard
	out = append(out, longTrainingTime[:]...)
	out = append(out, longTrainingTime[:]...)
	return out
}

// Generate assembles the full complex baseband sample stream for one
// frame carrying payload: S0a/S0b, S1a/S1b, SIGNAL, then N_SYM DATA
// symbols.
func (g *FrameGenerator) Generate(cfg FrameGeneratorConfig, payload []byte) ([]complex128, error) {
	if err := ValidateRate(cfg.RateIndex); err != nil {
		return nil, err
	}
	rd := RateTable[cfg.RateIndex]

	bits, err := AssemblePacket(cfg.RateIndex, cfg.Length, cfg.Seed, payload)
	if err != nil {
		return nil, err
	}
	raw := ConvEncode(bits)
	punctured := Puncture(raw, rd.Coding)
	params, err := ComputePacketParams(cfg.RateIndex, cfg.Length)
	if err != nil {
		return nil, err
	}
	wantBits := params.NSym * rd.NCBPS
	if len(punctured) != wantBits {
		return nil, fmt.Errorf("wlanphy: encoded DATA length %d, want %d", len(punctured), wantBits)
	}

	stream := &symbolStream{ramp: g.ramp}

	short := repeatShortTraining(10)
	stream.append(short[0:80])
	stream.append(short[80:160])

	long := longPreambleSamples()
	stream.append(long[0:80])
	stream.append(long[80:160])

	polarity := NewPolarityGenerator()
	signalBits, err := EncodeSignal(SignalField{Rate: cfg.RateIndex, Length: cfg.Length})
	if err != nil {
		return nil, err
	}
	signalGrid := MapSymbol(BPSK{}, signalBits, polarity.Next())
	stream.append(toSymbol(g.transform.Inverse(signalGrid)))

	con := ConstellationForModulation(rd.Modulation)
	interleaver := InterleaverForRate(cfg.RateIndex)
	for s := 0; s < params.NSym; s++ {
		symBits := punctured[s*rd.NCBPS : (s+1)*rd.NCBPS]
		interleaved := interleaver.Interleave(symBits)
		grid := MapSymbol(con, interleaved, polarity.Next())
		stream.append(toSymbol(g.transform.Inverse(grid)))
	}

	return stream.out, nil
}
