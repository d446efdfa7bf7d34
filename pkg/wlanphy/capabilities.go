package wlanphy

// Capabilities bundles the injected external collaborators a
// FrameGenerator or FrameSynchronizer needs, mirroring the
// create()-time dependency wiring of the liquid-wlan object model this
// package is grounded on (wlanframegen_create/wlanframesync_create).
// A nil Transform or NCO is filled with this package's default built-in
// implementation. Viterbi has no package default and is not read by
// the constructors below; the synchronizer's decoder is passed to
// NewFrameSynchronizerWithCapabilities as its own argument.
type Capabilities struct {
	Transform Transform
	NCO       NCO
	Viterbi   ViterbiDecoder
}

func (c Capabilities) withDefaults() Capabilities {
	if c.Transform == nil {
		c.Transform = NewGonumTransform()
	}
	if c.NCO == nil {
		c.NCO = NewDirectNCO()
	}
	return c
}

// NewFrameGeneratorWithCapabilities constructs a FrameGenerator,
// filling any unset capability with the package default.
func NewFrameGeneratorWithCapabilities(c Capabilities, postfixLength int) *FrameGenerator {
	c = c.withDefaults()
	return NewFrameGenerator(c.Transform, postfixLength)
}

// NewFrameSynchronizerWithCapabilities constructs a FrameSynchronizer,
// filling any unset capability with the package default. viterbi must
// be supplied by the caller (typically pkg/viterbidec.New()) since
// wlanphy itself never imports a concrete decoder, keeping the core
// decoupled from any specific trellis implementation.
func NewFrameSynchronizerWithCapabilities(cfg FrameSynchronizerConfig, c Capabilities, viterbi ViterbiDecoder, cb FrameCallback) *FrameSynchronizer {
	c = c.withDefaults()
	return NewFrameSynchronizer(cfg, c.Transform, c.NCO, viterbi, cb)
}
