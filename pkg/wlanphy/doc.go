// Package wlanphy implements the IEEE 802.11a/g OFDM baseband PHY: the
// bit-processing pipeline, OFDM framing generator, and receiver
// synchronization state machine described in 802.11-2007 Clause 17 and
// Annex G. It does not touch RF hardware, MAC framing, or packet
// retransmission; callers push and pull complex baseband samples at a
// nominal 20 Msample/s.
package wlanphy
