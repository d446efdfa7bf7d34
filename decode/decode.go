// Package decode is the frame sink bound to a
// wlanphy.FrameSynchronizer's callback: it has no decoding work of its
// own left to do (the Viterbi/interleaving/descrambling all happen
// inside wlanphy), so its job is bookkeeping — per-rate packet
// counters and a rolling payload log for the TUI and for CLI dumps.
package decode

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/wlanphy/pkg/wlanphy"
)

// RateStats tracks frames received at one PHY rate.
type RateStats struct {
	RateMbps     int
	Received     int
	FECFailed    int
	LastRSSI     float64
	LastCFO      float64
	LastPayload  []byte
}

// Sink accumulates per-rate statistics from a FrameSynchronizer and
// optionally forwards valid payloads to an output channel.
type Sink struct {
	mu       sync.Mutex
	stats    [8]RateStats
	total    int
	failed   int
	Payloads chan []byte
}

// New constructs a Sink with bufsize of queued payload capacity.
func New(bufsize uint) *Sink {
	s := &Sink{Payloads: make(chan []byte, bufsize)}
	for i := range s.stats {
		s.stats[i].RateMbps = wlanphy.RateTable[i].RateMbps
	}
	return s
}

// Callback is a wlanphy.FrameCallback bound to this sink.
func (s *Sink) Callback(rateIndex, length int, payload []byte, valid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rateIndex < 0 || rateIndex >= len(s.stats) {
		log.Warnf("[decode] frame callback with out-of-range rate index %d", rateIndex)
		return
	}
	s.total++
	rs := &s.stats[rateIndex]
	if valid {
		rs.Received++
		cp := make([]byte, len(payload))
		copy(cp, payload)
		rs.LastPayload = cp
		log.Infof("[decode] frame ok: rate=%d length=%d", wlanphy.RateTable[rateIndex].RateMbps, length)
		select {
		case s.Payloads <- cp:
		default:
			log.Warn("[decode] payload channel full, dropping frame")
		}
	} else {
		rs.FECFailed++
		s.failed++
		log.Debugf("[decode] frame rejected: rate=%d length=%d (FEC/parity failure)", wlanphy.RateTable[rateIndex].RateMbps, length)
	}
}

// UpdateLiveState records the synchronizer's momentary RSSI/CFO into
// the per-rate stats. Callback does not call it, and nothing else in
// this module does either; the TUI reads RSSI/CFO from the
// synchronizer directly.
func (s *Sink) UpdateLiveState(rateIndex int, rssi, cfo float64) {
	if rateIndex < 0 || rateIndex >= len(s.stats) {
		return
	}
	s.mu.Lock()
	s.stats[rateIndex].LastRSSI = rssi
	s.stats[rateIndex].LastCFO = cfo
	s.mu.Unlock()
}

// Stats returns a snapshot of the per-rate counters.
func (s *Sink) Stats() [8]RateStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Totals returns the overall received/failed frame counts across all rates.
func (s *Sink) Totals() (received, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total - s.failed, s.failed
}
