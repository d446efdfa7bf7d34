package wlanphy

// SequenceGenerator is the injected pseudorandom maximal-length
// sequence capability. wlanphy uses it only for pilot polarity: a
// length-127 sequence, polynomial 0x91, seed 0x7f, one bit consumed per
// transmitted/received OFDM symbol starting at the SIGNAL symbol.
type SequenceGenerator interface {
	// Next returns the next sequence bit (0 or 1) and advances state.
	Next() int
	// Reset restores the generator to its initial seed state.
	Reset()
}

// mlsPoly and mlsSeed are the pilot-polarity generator's fixed
// parameters (802.11-2007 §17.3.5.9).
const (
	mlsPoly = 0x91
	mlsSeed = 0x7f
)

// PolarityGenerator is the default SequenceGenerator: a 7-bit LFSR,
// polynomial 0x91 (x^7+x^4+1; the x^7 term is implicit, so the register
// taps are state bits 6 and 3), giving the length-127 pilot-polarity
// sequence, reset to 0x7f at the start of each frame.
type PolarityGenerator struct {
	state byte
}

// NewPolarityGenerator constructs a PolarityGenerator in its reset
// state.
func NewPolarityGenerator() *PolarityGenerator {
	p := &PolarityGenerator{}
	p.Reset()
	return p
}

func (p *PolarityGenerator) Reset() { p.state = mlsSeed }

// Next emits bit6 of the current 7-bit state (the sequence's output
// tap) and advances the LFSR by one step, feedback = parity(state &
// (mlsPoly>>1)).
func (p *PolarityGenerator) Next() int {
	out := int((p.state >> 6) & 1)
	fb := parity(p.state & (mlsPoly >> 1))
	p.state = ((p.state << 1) | fb) & 0x7f
	return out
}
