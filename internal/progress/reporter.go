package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Reporter prints stage progress. The spinner only runs on a terminal.
type Reporter struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spin    *spinner.Spinner
}

// NewReporter returns a Reporter writing to stderr.
func NewReporter() *Reporter {
	return NewReporterWithCaps(os.Stderr, DetectTerminalCapabilities(os.Stderr))
}

// NewReporterWithCaps returns a Reporter writing to w with the given capabilities.
func NewReporterWithCaps(w io.Writer, caps TerminalCapabilities) *Reporter {
	return &Reporter{w: w, caps: caps, symbols: SelectSymbols(caps)}
}

// Start begins a stage. On a terminal a spinner shows msg until Done or Fail.
func (r *Reporter) Start(msg string) {
	if !r.caps.IsTTY {
		fmt.Fprintf(r.w, "%s...\n", msg)
		return
	}
	r.spin = spinner.New(spinner.CharSets[r.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(r.w))
	r.spin.Suffix = " " + msg
	r.spin.Start()
}

// Done ends the current stage successfully.
func (r *Reporter) Done(msg string) {
	r.stop()
	fmt.Fprintf(r.w, "%s %s\n", r.paint(color.FgGreen, r.symbols.Checkmark), msg)
}

// Fail ends the current stage with a failure marker.
func (r *Reporter) Fail(msg string) {
	r.stop()
	fmt.Fprintf(r.w, "%s %s\n", r.paint(color.FgRed, r.symbols.Failure), msg)
}

func (r *Reporter) stop() {
	if r.spin != nil {
		r.spin.Stop()
		r.spin = nil
	}
}

func (r *Reporter) paint(attr color.Attribute, s string) string {
	if !r.caps.SupportsColor {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}
