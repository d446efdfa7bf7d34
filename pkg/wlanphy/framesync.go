package wlanphy

import "math/cmplx"

// SyncState is the FrameSynchronizer's receive state. It is dispatched
// by a switch in Execute rather than by dynamic dispatch; per-state
// scratch lives as dedicated fields on FrameSynchronizer rather than
// separate payload types, since Go has no sum type and a flat struct
// keeps the switch trivial to read.
type SyncState int

const (
	StateSeekPLCP SyncState = iota
	StateRxShort0
	StateRxShort1
	StateRxLong0
	StateRxLong1
	StateRxSignal
	StateRxData
)

func (s SyncState) String() string {
	switch s {
	case StateSeekPLCP:
		return "SEEK_PLCP"
	case StateRxShort0:
		return "RX_SHORT0"
	case StateRxShort1:
		return "RX_SHORT1"
	case StateRxLong0:
		return "RX_LONG0"
	case StateRxLong1:
		return "RX_LONG1"
	case StateRxSignal:
		return "RX_SIGNAL"
	case StateRxData:
		return "RX_DATA"
	default:
		return "?"
	}
}

// FrameCallback is invoked once per frame whose SIGNAL field decoded
// and whose DATA symbols were all received. valid is false only when
// the decoded DATA bit stream cannot be disassembled (in which case
// payload is all zero); no FEC metric or SERVICE-bit check feeds it.
// payload is borrowed and must not be retained.
type FrameCallback func(rateIndex, length int, payload []byte, valid bool)

// FrameSynchronizerConfig are the Open-Question-resolved tunables:
// squelch floor and equalizer polynomial order.
type FrameSynchronizerConfig struct {
	SquelchFloor       float64 // minimum summed power of the 64-sample SEEK_PLCP window
	DetectThreshold    float64 // |s_hat| threshold for PLCP detection
	EqualizerPolyOrder int     // 2..4
}

// DefaultFrameSynchronizerConfig matches the Open Question decisions
// recorded in DESIGN.md.
func DefaultFrameSynchronizerConfig() FrameSynchronizerConfig {
	return FrameSynchronizerConfig{
		SquelchFloor:       1e-4,
		DetectThreshold:    0.3,
		EqualizerPolyOrder: 3,
	}
}

// FrameSynchronizer is the sample-driven receive state machine. It is
// stateful and not safe for concurrent use.
type FrameSynchronizer struct {
	cfg       FrameSynchronizerConfig
	transform Transform
	nco       NCO
	polarity  SequenceGenerator
	viterbi   ViterbiDecoder
	callback  FrameCallback

	state SyncState
	timer int

	ring      [80]complex128
	ringLen   int
	ringStart int

	accum []complex128

	g0a, g0b, g1a, g1b, g [fftSize]complex128

	rateIdx int
	length  int
	nsym    int
	ndata   int
	npad    int

	dataBits []byte
	symIndex int

	lastRSSI float64
	lastCFO  float64
}

// NewFrameSynchronizer constructs a FrameSynchronizer in SEEK_PLCP,
// bound to the given injected capabilities and callback.
func NewFrameSynchronizer(cfg FrameSynchronizerConfig, transform Transform, nco NCO, viterbi ViterbiDecoder, cb FrameCallback) *FrameSynchronizer {
	fs := &FrameSynchronizer{
		cfg:       cfg,
		transform: transform,
		nco:       nco,
		polarity:  NewPolarityGenerator(),
		viterbi:   viterbi,
		callback:  cb,
	}
	fs.Reset()
	return fs
}

// Reset discards in-progress frame state and returns to SEEK_PLCP; no
// callback is invoked for a discarded frame.
func (fs *FrameSynchronizer) Reset() {
	fs.ringLen = 0
	fs.ringStart = 0
	fs.accum = fs.accum[:0]
	fs.state = StateSeekPLCP
	fs.timer = 0
	fs.nco.Reset()
}

// State returns the synchronizer's current state, for diagnostics.
func (fs *FrameSynchronizer) State() SyncState { return fs.state }

// RSSI returns the last estimated receive power in SEEK_PLCP (the
// liquid-wlan source this is grounded on always returns 0; see
// SPEC_FULL.md).
func (fs *FrameSynchronizer) RSSI() float64 { return fs.lastRSSI }

// CFO returns the last carrier-frequency-offset estimate in
// cycles/sample.
func (fs *FrameSynchronizer) CFO() float64 { return fs.lastCFO }

func (fs *FrameSynchronizer) pushRing(x complex128) {
	fs.ring[(fs.ringStart+fs.ringLen)%80] = x
	if fs.ringLen < 80 {
		fs.ringLen++
	} else {
		fs.ringStart = (fs.ringStart + 1) % 80
	}
}

// lastN returns the most recently pushed n ring samples, oldest first.
func (fs *FrameSynchronizer) lastN(n int) []complex128 {
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		idx := (fs.ringStart + fs.ringLen - n + i + 80) % 80
		out[i] = fs.ring[idx]
	}
	return out
}

// Execute pushes a block of samples through the state machine one
// sample at a time (state transitions never vectorize across
// samples), mixing down by the NCO except while in SEEK_PLCP.
func (fs *FrameSynchronizer) Execute(samples []complex128) {
	for _, x := range samples {
		if fs.state != StateSeekPLCP {
			x = fs.nco.Mix(x)
		}
		fs.pushRing(x)

		switch fs.state {
		case StateSeekPLCP:
			fs.executeSeekPLCP()
		case StateRxShort0:
			fs.executeRxShort0(x)
		case StateRxShort1:
			fs.executeRxShort1(x)
		case StateRxLong0:
			fs.executeRxLong0(x)
		case StateRxLong1:
			fs.executeRxLong1(x)
		case StateRxSignal:
			fs.executeRxSignal(x)
		case StateRxData:
			fs.executeRxData(x)
		}
	}
}

// estimateGainS0 computes G at the 12 non-null S0 bins from a 64-
// sample time-domain window (SEEK_PLCP).
func (fs *FrameSynchronizer) estimateGainS0(window []complex128) [fftSize]complex128 {
	var body [fftSize]complex128
	copy(body[:], window)
	X := fs.transform.Forward(body)

	const gain = 0.054127 // sqrt(12)/64
	var g [fftSize]complex128
	for _, sc := range []int{4, 8, 12, 16, 20, 24, -24, -20, -16, -12, -8, -4} {
		b := subcarrierToBin(sc)
		g[b] = X[b] * cmplx.Conj(shortTrainingFreq[b]) * complex(gain, 0)
	}
	return g
}

// s0Metrics accumulates the delay-4-bin phase difference across the
// two S0 bin clusters (SEEK_PLCP).
func s0Metrics(g [fftSize]complex128) complex128 {
	var sHat complex128
	cluster := []int{4, 8, 12, 16, 20, 24}
	for i := 1; i < len(cluster); i++ {
		a := subcarrierToBin(cluster[i-1])
		b := subcarrierToBin(cluster[i])
		sHat += g[b] * cmplx.Conj(g[a])
	}
	cluster = []int{-24, -20, -16, -12, -8, -4}
	for i := 1; i < len(cluster); i++ {
		a := subcarrierToBin(cluster[i-1])
		b := subcarrierToBin(cluster[i])
		sHat += g[b] * cmplx.Conj(g[a])
	}
	return sHat * complex(0.1, 0) // normalize by the 10 accumulated terms
}

func (fs *FrameSynchronizer) executeSeekPLCP() {
	fs.timer++
	if fs.timer < 64 {
		return
	}
	fs.timer = 0

	window := fs.lastN(80)
	tail := window[16:80]

	var power float64
	for _, x := range tail {
		power += real(x)*real(x) + imag(x)*imag(x)
	}
	gNorm := 64.0 / (power + 1e-6)
	fs.lastRSSI = power / float64(len(tail))

	fs.g0a = fs.estimateGainS0(tail)
	sHat := s0Metrics(fs.g0a) * complex(gNorm, 0)

	if power < fs.cfg.SquelchFloor {
		return
	}
	if cmplx.Abs(sHat) < fs.cfg.DetectThreshold {
		return
	}

	coarseCFO := cmplx.Phase(sHat) / (2 * 3.141592653589793 * 16)
	fs.lastCFO = coarseCFO
	fs.nco.SetFrequency(coarseCFO)

	fs.accum = fs.accum[:0]
	fs.state = StateRxShort0
}

func (fs *FrameSynchronizer) executeRxShort0(x complex128) {
	fs.accum = append(fs.accum, x)
	if len(fs.accum) < 64 {
		return
	}
	fs.g0a = fs.estimateGainS0(fs.accum)
	fs.accum = fs.accum[:0]
	fs.state = StateRxShort1
}

func (fs *FrameSynchronizer) executeRxShort1(x complex128) {
	fs.accum = append(fs.accum, x)
	if len(fs.accum) < 64 {
		return
	}
	fs.g0b = fs.estimateGainS0(fs.accum)

	var sHat complex128
	for _, sc := range []int{4, 8, 12, 16, 20, 24, -24, -20, -16, -12, -8, -4} {
		b := subcarrierToBin(sc)
		sHat += fs.g0b[b] * cmplx.Conj(fs.g0a[b])
	}
	fineCFO := cmplx.Phase(sHat) / (2 * 3.141592653589793 * 64)
	fs.lastCFO = fineCFO
	fs.nco.SetFrequency(fineCFO)

	fs.accum = fs.accum[:0]
	fs.state = StateRxLong0
}

// estimateGainS1 computes G = X[k]*conj(S1[k])/|S1[k]|^2 over the 52
// non-null bins; S1 values are ±1 so |S1[k]|^2 = 1 and the division
// degenerates to a multiply (RX_LONG0/RX_LONG1).
func (fs *FrameSynchronizer) estimateGainS1(window []complex128) [fftSize]complex128 {
	var body [fftSize]complex128
	copy(body[:], window)
	X := fs.transform.Forward(body)

	var g [fftSize]complex128
	for k := -26; k <= 26; k++ {
		if k == 0 {
			continue
		}
		b := subcarrierToBin(k)
		g[b] = X[b] * cmplx.Conj(longTrainingFreq[b])
	}
	return g
}

func (fs *FrameSynchronizer) executeRxLong0(x complex128) {
	fs.accum = append(fs.accum, x)
	// 32 guard samples skipped, then 64 samples of the first long
	// training repetition (RX_LONG0).
	if len(fs.accum) < 32+64 {
		return
	}
	fs.g1a = fs.estimateGainS1(fs.accum[32:96])
	fs.accum = fs.accum[:0]
	fs.state = StateRxLong1
}

func (fs *FrameSynchronizer) executeRxLong1(x complex128) {
	fs.accum = append(fs.accum, x)
	if len(fs.accum) < 64 {
		return
	}
	fs.g1b = fs.estimateGainS1(fs.accum)

	var sHat complex128
	for k := -26; k <= 26; k++ {
		if k == 0 {
			continue
		}
		b := subcarrierToBin(k)
		sHat += fs.g1b[b] * cmplx.Conj(fs.g1a[b])
	}
	fineCFO := cmplx.Phase(sHat) / (2 * 3.141592653589793 * 64)
	fs.lastCFO = fineCFO
	fs.nco.SetFrequency(fineCFO)

	var g [fftSize]complex128
	for k := -26; k <= 26; k++ {
		if k == 0 {
			continue
		}
		b := subcarrierToBin(k)
		g[b] = (fs.g1a[b] + fs.g1b[b]) / 2
	}
	fs.g = smoothChannelEstimate(g, fs.cfg.EqualizerPolyOrder)

	fs.polarity.Reset()
	fs.accum = fs.accum[:0]
	fs.state = StateRxSignal
}

// equalizeAndCorrectPhase divides each data bin by G[k] (erasure-
// producing bins are zeroed for the caller to special-case), then
// rotates every data bin by the common phase error estimated from the
// 4 pilots (RX_SIGNAL/RX_DATA).
func (fs *FrameSynchronizer) equalizeAndCorrectPhase(X [fftSize]complex128, polarityBit int) ([fftSize]complex128, []bool) {
	var eq [fftSize]complex128
	erased := make([]bool, fftSize)
	for _, b := range dataBinOrder {
		if cmplx.Abs(fs.g[b]) < 1e-6 {
			erased[b] = true
			continue
		}
		eq[b] = X[b] / fs.g[b]
	}

	expected := ExpectedPilots(polarityBit)
	var phaseSum complex128
	for i, b := range pilotBins {
		var yEq complex128
		if cmplx.Abs(fs.g[b]) >= 1e-6 {
			yEq = X[b] / fs.g[b]
		}
		phaseSum += yEq * cmplx.Conj(expected[i])
	}
	phi := cmplx.Phase(phaseSum)
	rot := cmplx.Rect(1, -phi)
	for _, b := range dataBinOrder {
		if !erased[b] {
			eq[b] *= rot
		}
	}
	return eq, erased
}

func demapWithErasures(con Constellation, eq [fftSize]complex128, erased []bool) []byte {
	nbpsc := con.NBPSC()
	bits := make([]byte, 0, nbpsc*48)
	for _, b := range dataBinOrder {
		if erased[b] {
			for i := 0; i < nbpsc; i++ {
				bits = append(bits, SoftErasure)
			}
			continue
		}
		bits = append(bits, con.Demap(eq[b])...)
	}
	return bits
}

func (fs *FrameSynchronizer) executeRxSignal(x complex128) {
	fs.accum = append(fs.accum, x)
	if len(fs.accum) < 80 {
		return
	}
	body := fs.accum[16:80] // drop 16-sample cyclic prefix
	var bodyArr [fftSize]complex128
	copy(bodyArr[:], body)
	X := fs.transform.Forward(bodyArr)

	polarityBit := fs.polarity.Next()
	eq, erased := fs.equalizeAndCorrectPhase(X, polarityBit)
	soft := demapWithErasures(BPSK{}, eq, erased)

	sig, err := DecodeSignal(fs.viterbi, soft)
	fs.accum = fs.accum[:0]
	if err != nil {
		fs.Reset()
		return
	}

	params, err := ComputePacketParams(sig.Rate, sig.Length)
	if err != nil {
		fs.Reset()
		return
	}

	fs.rateIdx = sig.Rate
	fs.length = sig.Length
	fs.nsym = params.NSym
	fs.ndata = params.NData
	fs.npad = params.NPad
	fs.dataBits = fs.dataBits[:0]
	fs.symIndex = 0
	fs.state = StateRxData
}

func (fs *FrameSynchronizer) executeRxData(x complex128) {
	fs.accum = append(fs.accum, x)
	if len(fs.accum) < 80 {
		return
	}
	body := fs.accum[16:80]
	var bodyArr [fftSize]complex128
	copy(bodyArr[:], body)
	X := fs.transform.Forward(bodyArr)

	rd := RateTable[fs.rateIdx]
	con := ConstellationForModulation(rd.Modulation)
	polarityBit := fs.polarity.Next()
	eq, erased := fs.equalizeAndCorrectPhase(X, polarityBit)
	soft := demapWithErasures(con, eq, erased)
	deinterleaved := InterleaverForRate(fs.rateIdx).Deinterleave(soft)
	fs.dataBits = append(fs.dataBits, deinterleaved...)

	fs.accum = fs.accum[:0]
	fs.symIndex++
	if fs.symIndex < fs.nsym {
		return
	}

	decoded := DecodeConv(fs.viterbi, fs.dataBits, rd.Coding, 2*fs.ndata)
	payload, _, err := DisassemblePacket(fs.rateIdx, fs.length, decoded)
	valid := err == nil
	if fs.callback != nil {
		if !valid {
			payload = make([]byte, fs.length)
		}
		fs.callback(fs.rateIdx, fs.length, payload, valid)
	}
	fs.Reset()
}
