package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/wlanphy/decode"
	"github.com/jrwynneiii/wlanphy/pkg/wlanphy"
	"github.com/rivo/tview"
)

// RateTableData renders per-rate frame counters, one row per 802.11a/g
// PHY rate, in place of the VCID channel table this layout is
// descended from.
type RateTableData struct {
	tview.TableContentReadOnly
	sink *decode.Sink
}

// SyncTableData renders the synchronizer's live state: sync state,
// RSSI, CFO, and overall frame counters.
type SyncTableData struct {
	tview.TableContentReadOnly
	sync *wlanphy.FrameSynchronizer
	sink *decode.Sink
}

func (d *RateTableData) GetRowCount() int    { return len(wlanphy.RateTable) + 1 }
func (d *RateTableData) GetColumnCount() int { return 3 }

func (d *RateTableData) GetCell(row, column int) *tview.TableCell {
	if row == 0 {
		switch column {
		case 0:
			return tview.NewTableCell("[lightskyblue]Rate (Mbit/s)")
		case 1:
			return tview.NewTableCell("[green]Frames RX'd")
		case 2:
			return tview.NewTableCell("[red]FEC Failures")
		}
		return tview.NewTableCell("ERROR")
	}

	stats := d.sink.Stats()
	rs := stats[row-1]
	switch column {
	case 0:
		return tview.NewTableCell(fmt.Sprintf("[lightskyblue]%d", rs.RateMbps))
	case 1:
		color := "red"
		if rs.Received > 0 {
			color = "green"
		}
		return tview.NewTableCell(fmt.Sprintf("[%s]%d", color, rs.Received))
	case 2:
		return tview.NewTableCell(fmt.Sprintf("[red]%d", rs.FECFailed))
	}
	return tview.NewTableCell("ERROR")
}

func (s *SyncTableData) GetRowCount() int    { return 4 }
func (s *SyncTableData) GetColumnCount() int { return 2 }

func (s *SyncTableData) GetCell(row, column int) *tview.TableCell {
	labels := []string{"Sync state:", "RSSI:", "CFO (cycles/sample):", "Valid / Failed frames:"}
	if column == 0 {
		return tview.NewTableCell(labels[row])
	}

	received, failed := s.sink.Totals()
	switch row {
	case 0:
		state := s.sync.State()
		color := tcell.ColorYellow
		if state == wlanphy.StateRxData {
			color = tcell.ColorGreen
		} else if state == wlanphy.StateSeekPLCP {
			color = tcell.ColorGray
		}
		return tview.NewTableCell(state.String()).SetTextColor(color)
	case 1:
		return tview.NewTableCell(fmt.Sprintf("%.6f", s.sync.RSSI()))
	case 2:
		return tview.NewTableCell(fmt.Sprintf("%.6f", s.sync.CFO()))
	case 3:
		return tview.NewTableCell(fmt.Sprintf("%d / %d", received, failed))
	}
	return tview.NewTableCell("ERROR")
}
