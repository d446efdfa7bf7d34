package wlanphy

// pilotPattern is the fixed {+1,+1,+1,-1} pilot pattern XORed with the
// per-symbol polarity bit (802.11-2007 §17.3.5.9).
var pilotPattern = [4]float64{1, 1, 1, -1}

// MapSymbol consumes exactly con.NBPSC()*48 coded bits and writes one
// complete 64-bin OFDM frequency-domain symbol: 48 data bins in
// dataBinOrder, 4 pilot bins carrying the fixed pattern XORed with
// polarity, and the DC/guard bins zeroed (802.11-2007 §17.3.5.8).
func MapSymbol(con Constellation, bits []byte, polarity int) [fftSize]complex128 {
	var grid [fftSize]complex128
	nbpsc := con.NBPSC()
	for i, bin := range dataBinOrder {
		grid[bin] = con.Map(bits[i*nbpsc : (i+1)*nbpsc])
	}
	sign := 1.0
	if polarity != 0 {
		sign = -1
	}
	for i, bin := range pilotBins {
		grid[bin] = complex(pilotPattern[i]*sign, 0)
	}
	return grid
}

// UnmapSymbol reads the 48 data bins of grid in dataBinOrder and
// demaps each into con.NBPSC() soft bits (the SymbolMapper inverse).
// The caller is responsible for equalization and pilot-phase
// correction before calling UnmapSymbol.
func UnmapSymbol(con Constellation, grid [fftSize]complex128) []byte {
	nbpsc := con.NBPSC()
	bits := make([]byte, 0, nbpsc*48)
	for _, bin := range dataBinOrder {
		bits = append(bits, con.Demap(grid[bin])...)
	}
	return bits
}

// ExpectedPilots returns the 4 expected pilot values for the given
// per-symbol polarity bit, in pilotBins order, used by the receiver's
// common-phase-error estimate during RX_SIGNAL/RX_DATA.
func ExpectedPilots(polarity int) [4]complex128 {
	sign := 1.0
	if polarity != 0 {
		sign = -1
	}
	var out [4]complex128
	for i := range pilotPattern {
		out[i] = complex(pilotPattern[i]*sign, 0)
	}
	return out
}
