package main

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/wlanphy/config"
	"github.com/jrwynneiii/wlanphy/decode"
	"github.com/jrwynneiii/wlanphy/demod"
	"github.com/jrwynneiii/wlanphy/pkg/viterbidec"
	"github.com/jrwynneiii/wlanphy/pkg/wlanphy"
	"github.com/jrwynneiii/wlanphy/radio"
	"github.com/jrwynneiii/wlanphy/tui"

	"github.com/knadh/koanf/parsers/hcl"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var configFile = koanf.New(".")

func getConfigPath() string {
	paths := []string{"/etc/wlanphy/config.hcl", "~/.config/wlanphy/config.hcl", "./config.hcl"}
	for _, path := range paths {
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			log.Infof("Found config file: %s", path)
			return path
		}
	}
	log.Info("Config file not found!")
	return ""
}

func loadConfig() {
	if err := configFile.Load(file.Provider(getConfigPath()), hcl.Parser(true)); err != nil {
		log.Errorf("Could not read config file: %v", err)
		log.Error("Attempting to use environment variables")
		configFile.Load(env.Provider("", env.Opt{
			Prefix: "WLANPHY_",
			TransformFunc: func(k, v string) (string, any) {
				key := strings.ToLower(strings.TrimPrefix(k, "WLANPHY_"))
				k = strings.Replace(key, "_", ".", 1)
				return k, v
			},
		}), nil)
	}
}

func readIQFile(path string) ([]complex64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	n := info.Size() / 8
	out := make([]complex64, 0, n)
	var re, im float32
	for {
		if err := binary.Read(f, binary.LittleEndian, &re); err != nil {
			break
		}
		if err := binary.Read(f, binary.LittleEndian, &im); err != nil {
			break
		}
		out = append(out, complex(re, im))
	}
	return out, nil
}

func writeIQFile(path string, samples []complex128) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, s := range samples {
		if err := binary.Write(f, binary.LittleEndian, float32(real(s))); err != nil {
			return err
		}
		if err := binary.Write(f, binary.LittleEndian, float32(imag(s))); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	log.Info("Starting wlanphy")
	flags := kong.Parse(&cli)
	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	if cli.Profile {
		prof, err := os.Create("./cpu.pprof")
		if err != nil {
			panic(err)
		}
		pprof.StartCPUProfile(prof)
		defer pprof.StopCPUProfile()
	}

	loadConfig()

	command := strings.Fields(flags.Command())[0]
	switch command {
	case "probe":
		radio.LogAllSoapySDRDevices()

	case "rx":
		runRx()

	case "tx":
		runTx()

	default:
		log.Info("Command not recognized")
	}
}

func buildRadioConf() config.RadioConf {
	return config.RadioConf{
		Address:     configFile.String("radio.address"),
		DeviceIndex: configFile.Int("radio.device_index"),
		Gain:        configFile.Int("radio.gain"),
		Frequency:   configFile.Float64("radio.frequency"),
		SampleRate:  configFile.Float64("radio.sample_rate"),
		SampleType:  configFile.String("radio.sample_type"),
		Decimation:  configFile.String("radio.decimation"),
	}
}

func buildFrameSyncConf() wlanphy.FrameSynchronizerConfig {
	def := wlanphy.DefaultFrameSynchronizerConfig()
	cfg := config.FrameSyncConf{
		SquelchFloor:       configFile.Float64("framesync.squelch_floor"),
		DetectThreshold:    configFile.Float64("framesync.detect_threshold"),
		EqualizerPolyOrder: configFile.Int("framesync.equalizer_poly_order"),
	}
	if cfg.SquelchFloor > 0 {
		def.SquelchFloor = cfg.SquelchFloor
	}
	if cfg.DetectThreshold > 0 {
		def.DetectThreshold = cfg.DetectThreshold
	}
	if cfg.EqualizerPolyOrder > 0 {
		def.EqualizerPolyOrder = cfg.EqualizerPolyOrder
	}
	return def
}

func runRx() {
	rname := configFile.String("radio.driver")
	rdef := buildRadioConf()

	tuiDef := config.TuiConf{
		RefreshMs:       configFile.Int("tui.refresh_ms"),
		FecWarnPct:      configFile.Float64("tui.fec_threshold_warn_pct"),
		FecCritPct:      configFile.Float64("tui.fec_threshold_crit_pct"),
		EnableLogOutput: configFile.Bool("tui.enable_log_output"),
	}
	doFFT := configFile.Bool("wlan.do_fft")
	chunkSize := uint(configFile.Int("wlan.chunk_size"))
	if chunkSize == 0 {
		chunkSize = 65536
	}

	sink := decode.New(chunkSize)
	sync := wlanphy.NewFrameSynchronizerWithCapabilities(buildFrameSyncConf(), wlanphy.Capabilities{}, viterbidec.New(), sink.Callback)

	if cli.Rx.File != "" {
		samples, err := readIQFile(cli.Rx.File)
		if err != nil {
			log.Fatalf("Could not read IQ file: %v", err)
		}
		demodulator := demod.New(radio.CF32, float32(rdef.SampleRate), chunkSize, configFile, sync)
		demodulator.DoFFT = doFFT
		go demodulator.Start()
		go func() {
			for off := 0; off < len(samples); off += int(chunkSize) {
				end := min(off+int(chunkSize), len(samples))
				demodulator.SampleInput <- samples[off:end]
			}
		}()
		tui.StartUI(sink, demodulator, sync, doFFT, tuiDef)
		return
	}

	switch rdef.SampleType {
	case "complex64":
		demodulator := demod.New(radio.CF32, float32(rdef.SampleRate), chunkSize, configFile, sync)
		demodulator.DoFFT = doFFT
		r := radio.New[complex64](rdef, rname, radio.CF32, chunkSize, &demodulator.SampleInput)
		r.Connect()

		go r.Start()
		go demodulator.Start()
		defer demodulator.Close()
		defer r.Destroy()

		tui.StartUI(sink, demodulator, sync, doFFT, tuiDef)
	default:
		log.Fatalf("Unsupported sample_type defined for radio %s\n Supported sample types are: [complex64]", rname)
	}
}

func runTx() {
	payload, err := os.ReadFile(cli.Tx.Payload)
	if err != nil {
		log.Fatalf("Could not read payload file: %v", err)
	}
	if len(payload) > 4095 {
		log.Fatalf("Payload too large for a single frame: %d bytes (max 4095)", len(payload))
	}

	rateIdx := configFile.Int("wlan.rate_index")
	seed := byte(configFile.Int("wlan.seed"))
	postfix := configFile.Int("wlan.postfix_length")

	gen := wlanphy.NewFrameGeneratorWithCapabilities(wlanphy.Capabilities{}, postfix)
	samples, err := gen.Generate(wlanphy.FrameGeneratorConfig{
		RateIndex:     rateIdx,
		Length:        len(payload),
		Seed:          seed,
		PostfixLength: postfix,
	}, payload)
	if err != nil {
		log.Fatalf("Could not generate frame: %v", err)
	}
	log.Infof("Generated %d samples at rate index %d (%d Mbit/s) for %d byte payload", len(samples), rateIdx, wlanphy.RateTable[rateIdx].RateMbps, len(payload))

	if cli.Tx.Out != "" {
		if err := writeIQFile(cli.Tx.Out, samples); err != nil {
			log.Fatalf("Could not write IQ file: %v", err)
		}
		log.Infof("Wrote IQ waveform to %s", cli.Tx.Out)
		return
	}

	rname := configFile.String("radio.driver")
	rdef := buildRadioConf()
	if rdef.SampleType != "complex64" {
		log.Fatalf("Unsupported sample_type defined for radio %s\n Supported sample types are: [complex64]", rname)
	}

	cplx64 := make([]complex64, len(samples))
	for i, s := range samples {
		cplx64[i] = complex64(s)
	}
	// Scale down to unit peak amplitude to avoid overdriving the DAC, same
	// normalization discipline the RX AGC enforces on the way in.
	var peak float64
	for _, s := range samples {
		if m := math.Hypot(real(s), imag(s)); m > peak {
			peak = m
		}
	}
	if peak > 1.0 {
		for i := range cplx64 {
			cplx64[i] = complex64(complex(real(samples[i])/peak, imag(samples[i])/peak))
		}
	}

	tx := radio.NewTransmitter[complex64](rdef, rname, radio.CF32)
	tx.Connect()
	defer tx.Destroy()

	if err := tx.Transmit(cplx64); err != nil {
		log.Fatalf("Transmit failed: %v", err)
	}
	log.Info("Transmit complete")
}
