package demod

import (
	"math"
	"math/cmplx"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/wlanphy/config"
	"github.com/jrwynneiii/wlanphy/pkg/wlanphy"
	"github.com/jrwynneiii/wlanphy/radio"
	"github.com/knadh/koanf/v2"
	SatHelper "github.com/opensatelliteproject/libsathelper"
	"github.com/racerxdl/segdsp/dsp"
	"github.com/racerxdl/segdsp/tools"
	"gonum.org/v1/gonum/dsp/fourier"
)

// SNRCalc implements the Pauluzzi/Beaulieu moment-based SNR estimator,
// same as the front end's baseband power tracker regardless of the
// protocol riding on top of it.
type SNRCalc struct {
	Y1     float64
	Y2     float64
	Alpha  float64
	Beta   float64
	Signal float64
	Noise  float64
}

func NewSNRCalc() *SNRCalc {
	alpha := 0.001
	return &SNRCalc{Alpha: alpha, Beta: 1.0 - alpha}
}

// Demodulator is the RF ingestion pipeline feeding a
// wlanphy.FrameSynchronizer: decimate, AGC-normalize, hand samples to
// the synchronizer one block at a time. Unlike the continuous-carrier
// telemetry this package was originally built for, 802.11 OFDM needs
// no Costas carrier loop or symbol clock recovery of its own — the
// synchronizer's own SEEK_PLCP/RX_SHORT/RX_LONG states do that job
// from the preamble, so this layer's work ends at gain normalization.
type Demodulator struct {
	SampleInput       chan []complex64
	SampleType        radio.StreamType
	bufferSize        uint
	deviceSampleRate  float32
	circuitSampleRate float32
	decimFactor       int
	AGC               SatHelper.AGC
	Decimator         *dsp.FirFilter
	Sync              *wlanphy.FrameSynchronizer
	CurrentFFT        []float64
	DoFFT             bool
	FFTWorking        bool
	Stopping          bool
	FFTMutex          sync.RWMutex
	SNR               *SNRCalc
	CurrentSNR        float64
	PeakSNR           float64
	AvgSNR            float64
}

// New builds a Demodulator around sync, which has already been
// constructed (with its own FrameCallback) by the caller.
func New(stype radio.StreamType, srate float32, bufsize uint, configFile *koanf.Koanf, sync *wlanphy.FrameSynchronizer) *Demodulator {
	agcConf := config.AGCConf{
		Rate:      float32(configFile.Float64("agc.rate")),
		Reference: float32(configFile.Float64("agc.reference")),
		Gain:      float32(configFile.Float64("agc.gain")),
		MaxGain:   float32(configFile.Float64("agc.max_gain")),
	}
	decim := configFile.Int("wlan.decimation_factor")
	if decim < 1 {
		decim = 1
	}
	doFFT := configFile.Bool("wlan.do_fft")

	log.Debugf("Found agc definition: %##v", agcConf)

	d := Demodulator{
		SampleInput:       make(chan []complex64, bufsize),
		SampleType:        stype,
		bufferSize:        bufsize,
		deviceSampleRate:  srate,
		circuitSampleRate: srate / float32(decim),
		decimFactor:       decim,
		DoFFT:             doFFT,
		SNR:               NewSNRCalc(),
		Sync:              sync,
	}

	log.Debugf("Setting demodulator values: %##v", d)

	d.AGC = SatHelper.NewAGC(agcConf.Rate, agcConf.Reference, agcConf.Gain, agcConf.MaxGain)
	if decim > 1 {
		transitionWidth := configFile.Float64("wlan.lowpass_transition_width")
		d.Decimator = dsp.MakeDecimationFirFilter(decim, dsp.MakeLowPass(1, float64(srate), float64(d.circuitSampleRate/2)-transitionWidth/2, transitionWidth))
	}

	return &d
}

// The SNR calculation routine is based upon SatDump's SNR calculation routine found at:
// https://github.com/SatDump/SatDump/blob/master/src-core/common/dsp/utils/snr_estimator.cpp
// Which in turn is based upon the following paper:
//
// D. R. Pauluzzi and N. C. Beaulieu, "A comparison of SNR
// estimation techniques for the AWGN channel," IEEE
// Trans. Communications, Vol. 48, No. 10, pp. 1681-1691, 2000.
func (d *Demodulator) GetSNR(s []complex64) float64 {
	for _, samp := range s {
		y1 := math.Pow(cmplx.Abs(complex128(samp)), 2)
		d.SNR.Y1 = d.SNR.Alpha*y1 + d.SNR.Beta*d.SNR.Y1

		y2 := math.Pow(cmplx.Abs(complex128(samp)), 4)
		d.SNR.Y2 = d.SNR.Alpha*y2 + d.SNR.Beta*d.SNR.Y2
	}

	if math.IsNaN(d.SNR.Y1) {
		d.SNR.Y1 = 0.0
	}
	if math.IsNaN(d.SNR.Y2) {
		d.SNR.Y2 = 0.0
	}

	y1sq := math.Pow(d.SNR.Y1, 2)
	radicand := 2.0*y1sq - d.SNR.Y2
	d.SNR.Signal = math.Sqrt(radicand)
	d.SNR.Noise = d.SNR.Y1 - math.Sqrt(radicand)

	return max(0, 10.0*math.Log10(d.SNR.Signal/d.SNR.Noise))
}

func (d *Demodulator) doFFT(samples []complex64) {
	d.FFTWorking = true
	input := make([]complex128, len(samples))
	for i, sample := range samples {
		input[i] = complex128(sample)
	}

	fft := fourier.NewCmplxFFT(len(input))
	coeff := fft.Coefficients(nil, input)

	var output []float64
	for i := range coeff {
		if i%1000 == 0 {
			bin := fft.ShiftIdx(i)
			v := tools.ComplexAbsSquared(complex64(coeff[bin]))
			db := float32(10.0 * math.Log10(float64(v)))
			if db > 0 {
				output = append(output, float64(db))
			}
		}
	}

	d.FFTMutex.Lock()
	d.CurrentFFT = output
	d.FFTMutex.Unlock()

	time.Sleep(500 * time.Millisecond)
	d.FFTMutex.Lock()
	d.FFTWorking = false
	d.FFTMutex.Unlock()
}

func (d *Demodulator) Start() {
	for {
		select {
		case samples := <-d.SampleInput:
			d.demodBlock(samples)
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func (d *Demodulator) demodBlock(samples []complex64) {
	if len(samples) == 0 {
		return
	}

	in := samples
	if d.decimFactor > 1 && d.Decimator != nil {
		log.Debugf("[demod] Running decimator")
		in = d.Decimator.Work(in)
	}

	log.Debugf("[demod] Applying AGC")
	out := make([]complex64, len(in))
	if len(in) > 0 {
		d.AGC.Work(&in[0], &out[0], len(in))
	}

	snr := d.GetSNR(out)
	if snr > d.PeakSNR {
		d.PeakSNR = snr
	}
	if snr > 0 {
		d.AvgSNR += snr
		d.AvgSNR /= 2
	}
	d.CurrentSNR = snr

	d.FFTMutex.RLock()
	if d.DoFFT && !d.FFTWorking {
		d.FFTMutex.RUnlock()
		go d.doFFT(out)
	} else {
		d.FFTMutex.RUnlock()
	}

	baseband := make([]complex128, len(out))
	for i, s := range out {
		baseband[i] = complex128(s)
	}
	d.Sync.Execute(baseband)
}

func (d *Demodulator) Close() {
	d.Stopping = true
}
