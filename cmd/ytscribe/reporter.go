package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// terminalReporter renders workflow status on stderr: blue progress lines, a
// download bar on terminals, and a green completion line.
type terminalReporter struct {
	mu          sync.Mutex
	out         io.Writer
	colorize    bool
	interactive bool
	bar         *progressbar.ProgressBar
	lastPercent int
}

func newTerminalReporter(out io.Writer) *terminalReporter {
	tty := shouldColorize(out)
	return &terminalReporter{out: out, colorize: tty, interactive: tty, lastPercent: -1}
}

func (r *terminalReporter) Status(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishBar()
	fmt.Fprintln(r.out, renderMessage(statusInfo, message, r.colorize))
}

func (r *terminalReporter) Progress(percent float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value := int(percent)
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	if !r.interactive {
		// Plain output prints one line per 25%.
		if value/25 > r.lastPercent/25 || r.lastPercent < 0 {
			fmt.Fprintf(r.out, "Downloading audio... %d%%\n", value)
			r.lastPercent = value
		}
		return
	}
	if r.bar == nil {
		r.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionSetDescription("Downloading audio"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = r.bar.Set(value)
	r.lastPercent = value
}

func (r *terminalReporter) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishBar()
	fmt.Fprintln(r.out, renderMessage(statusOK, message, r.colorize))
}

func (r *terminalReporter) finishBar() {
	r.lastPercent = -1
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	r.bar = nil
}
