package main

var cli struct {
	Verbose bool `help:"Prints debug output by default"`
	Profile bool `help:"Output a pprof profile"`
	Probe   struct {
	} `cmd:"" help:"List the available radios and SoapySDR configuration"`
	Rx struct {
		File string `help:"Read complex64 IQ samples from a file instead of a radio"`
	} `cmd:"" help:"Starts the TUI and receives 802.11a/g OFDM frames"`
	Tx struct {
		Payload string `arg:"" help:"Path to the file holding the payload bytes to transmit"`
		Out     string `help:"Write the generated IQ waveform to this file instead of transmitting over the radio"`
	} `cmd:"" help:"Encodes and transmits one 802.11a/g OFDM frame"`
}
