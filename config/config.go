package config

// RadioConf configures the SoapySDR front end (rate, length, seed are
// frame-level; RadioConf is the RF-level front end feeding the
// FrameSynchronizer's sample stream).
type RadioConf struct {
	Address     string  `koanf:"address"`
	DeviceIndex int     `koanf:"device_index"`
	Gain        int     `koanf:"gain"`
	Frequency   float64 `koanf:"frequency"`
	SampleRate  float64 `koanf:"sample_rate"`
	SampleType  string  `koanf:"sample_type"`
	Decimation  string  `koanf:"decimation"`
}

// AGCConf configures the front-end automatic gain control applied
// before samples reach the FrameSynchronizer, normalizing to the unit
// average power the synchronizer's SEEK_PLCP squelch and detection
// thresholds assume.
type AGCConf struct {
	Rate      float32 `koanf:"rate"`
	Reference float32 `koanf:"reference"`
	Gain      float32 `koanf:"gain"`
	MaxGain   float32 `koanf:"max_gain"`
}

// WLANConf configures a transmit frame.
type WLANConf struct {
	RateIndex     int    `koanf:"rate_index"`
	Length        int    `koanf:"length"`
	Seed          int    `koanf:"seed"`
	PostfixLength int    `koanf:"postfix_length"`
	Decimation    int    `koanf:"decimation_factor"`
	Payload       string `koanf:"payload_file"`
}

// FrameSyncConf carries the Open-Question tunables (squelch floor,
// detect threshold, equalizer polynomial order) through to a
// wlanphy.FrameSynchronizerConfig.
type FrameSyncConf struct {
	SquelchFloor       float64 `koanf:"squelch_floor"`
	DetectThreshold    float64 `koanf:"detect_threshold"`
	EqualizerPolyOrder int     `koanf:"equalizer_poly_order"`
}

// TuiConf configures the terminal status display refresh cadence and
// alert thresholds.
type TuiConf struct {
	RefreshMs       int     `koanf:"refresh_ms"`
	FecWarnPct      float64 `koanf:"fec_threshold_warn_pct"`
	FecCritPct      float64 `koanf:"fec_threshold_crit_pct"`
	EnableLogOutput bool    `koanf:"enable_log_output"`
}
