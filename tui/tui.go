package tui

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/wlanphy/config"
	"github.com/jrwynneiii/wlanphy/decode"
	"github.com/jrwynneiii/wlanphy/demod"
	"github.com/jrwynneiii/wlanphy/pkg/wlanphy"
	"github.com/navidys/tvxwidgets"
	"github.com/rivo/tview"
)

var LogOut *tview.TextView

// StartUI renders the live receive dashboard: per-rate frame counters,
// synchronizer state/RSSI/CFO, an SNR gauge, and (when enabled) a
// spectrum plot and scrolling log pane.
func StartUI(sink *decode.Sink, demodulator *demod.Demodulator, sync *wlanphy.FrameSynchronizer, enableFFT bool, tuiConf config.TuiConf) {
	app := tview.NewApplication()

	LogOut = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	rateData := &RateTableData{sink: sink}
	syncData := &SyncTableData{sync: sync, sink: sink}
	rateTable := tview.NewTable().SetContent(rateData)
	syncTable := tview.NewTable().SetContent(syncData)

	signalPlot := tvxwidgets.NewPlot()
	signalPlot.SetLineColor([]tcell.Color{tcell.ColorLightSkyBlue})
	signalPlot.SetMarker(tvxwidgets.PlotMarkerBraille)

	snrGauge := tvxwidgets.NewUtilModeGauge()
	snrGauge.SetLabel("SNR (dB):                    ")
	snrGauge.SetLabelColor(tcell.ColorLightSkyBlue)
	snrGauge.SetWarnPercentage(tuiConf.FecWarnPct)
	snrGauge.SetCritPercentage(tuiConf.FecCritPct)
	snrGauge.SetEmptyColor(tcell.ColorBlack)
	snrGauge.SetBorder(false)

	gaugeBox := tview.NewFlex()
	gaugeBox.SetDirection(tview.FlexRow)
	gaugeBox.AddItem(snrGauge, 0, 1, false)
	gaugeBox.SetTitle("Signal Stats")
	gaugeBox.SetBorder(true)

	LogOut.SetChangedFunc(func() {
		LogOut.ScrollToEnd()
		app.Draw()
	})

	LogOut.SetBorder(true).SetTitle("Log Output")
	log.SetOutput(LogOut)
	rateTable.SetSelectable(false, false).SetBorder(true).SetTitle("Per-Rate Stats")
	syncTable.SetSelectable(false, false).SetBorder(false)

	syncBox := tview.NewFlex().SetDirection(tview.FlexRow)
	syncBox.AddItem(tview.NewBox(), 0, 1, false)
	syncBox.AddItem(syncTable, 0, 1, false)
	syncBox.AddItem(tview.NewBox(), 0, 1, false)
	syncBox.SetBorder(true)
	syncBox.SetTitle("Synchronizer Status")

	signalPlot.SetBorder(true)
	signalPlot.SetTitle("Signal")

	page := tview.NewFlex().SetDirection(tview.FlexColumn)

	leftCol := tview.NewFlex().SetDirection(tview.FlexRow)
	leftCol.AddItem(rateTable, 0, 3, false)
	leftCol.AddItem(syncBox, 0, 1, false)

	rightCol := tview.NewFlex().SetDirection(tview.FlexRow)
	rightCol.AddItem(gaugeBox, 0, 4, false)
	if enableFFT {
		rightCol.AddItem(signalPlot, 0, 2, false)
	}
	if tuiConf.EnableLogOutput {
		rightCol.AddItem(LogOut, 0, 2, false)
	}

	page.AddItem(leftCol, 0, 2, false)
	page.AddItem(rightCol, 0, 5, false)

	go func() {
		for {
			snrGauge.SetValue(demodulator.CurrentSNR)

			if len(demodulator.CurrentFFT) > 0 {
				demodulator.FFTMutex.RLock()
				bins := append([]float64(nil), demodulator.CurrentFFT...)
				demodulator.FFTMutex.RUnlock()
				signalPlot.SetData([][]float64{bins})
			}

			app.Draw()

			refresh := tuiConf.RefreshMs
			if refresh <= 0 {
				refresh = 500
			}
			time.Sleep(time.Duration(refresh) * time.Millisecond)
		}
	}()

	if err := app.SetRoot(page, true).EnableMouse(true).Run(); err != nil {
		log.Fatalf("Could not start UI: %v", err)
	}
}
